package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/conspectus/internal/common"
	"github.com/ternarybob/conspectus/internal/interfaces"
)

// HealthHandler serves liveness and version endpoints.
type HealthHandler struct {
	llm    interfaces.LLMService
	logger arbor.ILogger
}

func NewHealthHandler(llm interfaces.LLMService, logger arbor.ILogger) *HealthHandler {
	return &HealthHandler{
		llm:    llm,
		logger: logger,
	}
}

// HealthHandler handles GET /api/health. The LLM probe is informational: the
// service is still "ok" when the provider is down because the fallback report
// path keeps the pipeline usable.
func (h *HealthHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	llmStatus := "not_configured"
	if h.llm != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()
		if err := h.llm.HealthCheck(ctx); err != nil {
			h.logger.Warn().Err(err).Msg("LLM health check failed")
			llmStatus = "unavailable"
		} else {
			llmStatus = "ok"
		}
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"llm":    llmStatus,
	})
}

// VersionHandler handles GET /api/version.
func (h *HealthHandler) VersionHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.Version,
		"build":   common.Build,
		"commit":  common.GitCommit,
	})
}
