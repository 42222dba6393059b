package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/conspectus/internal/interfaces"
	"github.com/ternarybob/conspectus/internal/services/status"
)

// StatusHandler serves session status for polling clients.
type StatusHandler struct {
	status *status.Service
	logger arbor.ILogger
}

func NewStatusHandler(statusService *status.Service, logger arbor.ILogger) *StatusHandler {
	return &StatusHandler{
		status: statusService,
		logger: logger,
	}
}

// GetSessionHandler handles GET /api/sessions/{session_id}.
func (h *StatusHandler) GetSessionHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	sessionID := strings.TrimPrefix(r.URL.Path, "/api/sessions/")
	if sessionID == "" || strings.Contains(sessionID, "/") {
		WriteError(w, http.StatusBadRequest, "Invalid session ID")
		return
	}

	record, err := h.status.Get(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Session not found")
			return
		}
		h.logger.Error().Err(err).
			Str("session_id", sessionID).
			Msg("Failed to load session status")
		WriteError(w, http.StatusInternalServerError, "Failed to load session status")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"session":    record,
		"checkpoint": record.Latest(),
		"elapsed":    record.Elapsed(time.Now()),
	})
}

// ListSessionsHandler handles GET /api/sessions, newest first.
func (h *StatusHandler) ListSessionsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	records, err := h.status.List(r.Context(), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list sessions")
		WriteError(w, http.StatusInternalServerError, "Failed to list sessions")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"sessions": records,
		"count":    len(records),
	})
}
