package server

import (
	"net/http"
	"strings"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// API routes - Report generation
	mux.HandleFunc("/api/reports", s.app.ReportHandler.GenerateHandler) // POST - start report generation

	// API routes - Session status polling
	mux.HandleFunc("/api/sessions", s.app.StatusHandler.ListSessionsHandler) // GET - recent sessions
	mux.HandleFunc("/api/sessions/", s.app.StatusHandler.GetSessionHandler)  // GET /{session_id}

	// API routes - System
	mux.HandleFunc("/api/health", s.app.HealthHandler.HealthHandler)
	mux.HandleFunc("/api/version", s.app.HealthHandler.VersionHandler)

	// Rendered report PDFs, served from the artifact directory when the
	// locator base URL is a local path prefix.
	baseURL := s.app.Config.Storage.Filesystem.BaseURL
	if strings.HasPrefix(baseURL, "/") {
		prefix := strings.TrimSuffix(baseURL, "/") + "/"
		fileServer := http.FileServer(http.Dir(s.app.Config.Storage.Filesystem.Reports))
		mux.Handle(prefix, http.StripPrefix(prefix, fileServer))
	}

	return mux
}
