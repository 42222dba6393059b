package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/conspectus/internal/interfaces"
	"github.com/ternarybob/conspectus/internal/models"
	"github.com/ternarybob/conspectus/internal/services/markup"
	"github.com/ternarybob/conspectus/internal/services/render"
	"github.com/ternarybob/conspectus/internal/services/report"
	"github.com/ternarybob/conspectus/internal/services/session"
	"github.com/ternarybob/conspectus/internal/services/status"
)

type fakeProfiler struct{}

func (fakeProfiler) Profile(ctx context.Context, companyName string, material *models.ResearchMaterial, customPrompt string) (*models.CompanyProfile, error) {
	return &models.CompanyProfile{Name: companyName}, nil
}

type fakeUseCases struct{}

func (fakeUseCases) Generate(ctx context.Context, profile *models.CompanyProfile) ([]models.UseCase, error) {
	return []models.UseCase{{ID: "uc-1", Title: "Pilot", CurrentState: "Manual", ProposedSolution: "Automated"}}, nil
}

type fakeArtifacts struct{}

func (fakeArtifacts) SavePDF(ctx context.Context, sessionID, companyName string, generatedAt time.Time, data []byte) (string, error) {
	return "/reports/" + sessionID + "/report.pdf", nil
}

type memoryStatusStorage struct {
	mu      sync.Mutex
	records map[string]models.SessionStatus
}

func (m *memoryStatusStorage) Save(ctx context.Context, record *models.SessionStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.records == nil {
		m.records = make(map[string]models.SessionStatus)
	}
	m.records[record.SessionID] = *record
	return nil
}

func (m *memoryStatusStorage) Get(ctx context.Context, sessionID string) (*models.SessionStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.records[sessionID]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	copied := record
	return &copied, nil
}

func (m *memoryStatusStorage) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, sessionID)
	return nil
}

func (m *memoryStatusStorage) List(ctx context.Context, limit int) ([]models.SessionStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	records := make([]models.SessionStatus, 0, len(m.records))
	for _, record := range m.records {
		records = append(records, record)
	}
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

func newTestHandlers(t *testing.T) (*ReportHandler, *StatusHandler, *status.Service) {
	t.Helper()
	logger := arbor.NewLogger()
	statusService := status.NewService(&memoryStatusStorage{}, logger)
	reportService := report.NewService(report.Deps{
		Logger:     logger,
		Researcher: fakeProfiler{},
		UseCases:   fakeUseCases{},
		Parser:     markup.NewParser(logger),
		Fallback:   markup.NewGenerator(logger, nil),
		Renderer:   render.NewService(logger),
		Artifacts:  fakeArtifacts{},
		Sessions:   session.NewService(logger),
		Status:     statusService,
	})
	return NewReportHandler(reportService, logger), NewStatusHandler(statusService, logger), statusService
}

func TestGenerateHandler_StartsSession(t *testing.T) {
	reportHandler, _, statusService := newTestHandlers(t)

	body := strings.NewReader(`{"company_name":"Acme Logistics","company_url":"https://acme.example"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/reports", body)
	rec := httptest.NewRecorder()

	reportHandler.GenerateHandler(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "started", resp["status"])
	require.NotEmpty(t, resp["session_id"])

	// The pipeline runs without an LLM, so the fallback path completes it.
	require.Eventually(t, func() bool {
		record, err := statusService.Get(context.Background(), resp["session_id"])
		return err == nil && record.State == models.SessionCompleted
	}, 5*time.Second, 10*time.Millisecond)

	record, err := statusService.Get(context.Background(), resp["session_id"])
	require.NoError(t, err)
	assert.True(t, record.UsedFallback)
	assert.Contains(t, record.Locator, "/reports/")
}

func TestGenerateHandler_RejectsBadRequests(t *testing.T) {
	reportHandler, _, _ := newTestHandlers(t)

	tests := []struct {
		name   string
		method string
		body   string
		want   int
	}{
		{name: "Wrong Method", method: http.MethodGet, body: "", want: http.StatusMethodNotAllowed},
		{name: "Invalid JSON", method: http.MethodPost, body: "{not json", want: http.StatusBadRequest},
		{name: "Missing Company", method: http.MethodPost, body: `{"company_url":"https://x.example"}`, want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/reports", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			reportHandler.GenerateHandler(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestGetSessionHandler(t *testing.T) {
	_, statusHandler, statusService := newTestHandlers(t)
	require.NoError(t, statusService.Begin(context.Background(), "session_known", "Acme"))

	t.Run("Found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/sessions/session_known", nil)
		rec := httptest.NewRecorder()
		statusHandler.GetSessionHandler(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Session    models.SessionStatus `json:"session"`
			Checkpoint string               `json:"checkpoint"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Acme", resp.Session.CompanyName)
		assert.Equal(t, models.CheckpointInitiated, resp.Checkpoint)
	})

	t.Run("Not Found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/sessions/session_missing", nil)
		rec := httptest.NewRecorder()
		statusHandler.GetSessionHandler(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Missing ID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/sessions/", nil)
		rec := httptest.NewRecorder()
		statusHandler.GetSessionHandler(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestListSessionsHandler(t *testing.T) {
	_, statusHandler, statusService := newTestHandlers(t)
	require.NoError(t, statusService.Begin(context.Background(), "session_1", "Acme"))
	require.NoError(t, statusService.Begin(context.Background(), "session_2", "Globex"))

	req := httptest.NewRequest(http.MethodGet, "/api/sessions", nil)
	rec := httptest.NewRecorder()
	statusHandler.ListSessionsHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
}
