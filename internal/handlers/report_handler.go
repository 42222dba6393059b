package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/conspectus/internal/models"
	"github.com/ternarybob/conspectus/internal/services/report"
)

// ReportHandler accepts report generation requests and starts the pipeline
// asynchronously. Clients poll the status endpoint with the returned session
// ID.
type ReportHandler struct {
	reports *report.Service
	logger  arbor.ILogger
}

func NewReportHandler(reports *report.Service, logger arbor.ILogger) *ReportHandler {
	return &ReportHandler{
		reports: reports,
		logger:  logger,
	}
}

// GenerateHandler handles POST /api/reports. A cached result returns
// immediately with 200; a duplicate in-flight request returns the running
// session; otherwise the pipeline starts and 202 is returned.
func (h *ReportHandler) GenerateHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req models.ReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.CompanyName == "" {
		WriteError(w, http.StatusBadRequest, "company_name is required")
		return
	}
	if req.Action == "" {
		req.Action = "generate_report"
	}

	outcome, err := h.reports.Start(r.Context(), &req)
	if err != nil {
		h.logger.Error().Err(err).
			Str("company", req.CompanyName).
			Msg("Failed to start report generation")
		WriteError(w, http.StatusInternalServerError, "Failed to start report generation")
		return
	}

	switch {
	case outcome.FromCache:
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"status": "completed",
			"result": outcome.Result,
		})
	case outcome.AlreadyRunning:
		WriteJSON(w, http.StatusOK, map[string]string{
			"status":     "in_progress",
			"session_id": outcome.SessionID,
		})
	default:
		WriteStarted(w, outcome.SessionID)
	}
}
