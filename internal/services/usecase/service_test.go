package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/conspectus/internal/interfaces"
	"github.com/ternarybob/conspectus/internal/models"
)

type fakeLLM struct {
	response string
	err      error
}

func (f *fakeLLM) Chat(ctx context.Context, messages []interfaces.Message) (string, error) {
	return f.response, f.err
}

func (f *fakeLLM) HealthCheck(ctx context.Context) error { return nil }
func (f *fakeLLM) Close() error                          { return nil }

func validProfile() *models.CompanyProfile {
	return &models.CompanyProfile{
		Name:            "Acme Logistics",
		Industry:        "Logistics",
		CompanySize:     "medium",
		CloudMaturity:   "basic",
		TechnologyStack: []string{"PostgreSQL", "on-prem VMware"},
	}
}

func TestGenerate_AssignsSequentialIDs(t *testing.T) {
	llm := &fakeLLM{response: "```json\n" + `[
		{"title":"Fleet telemetry platform","current_state":"Manual tracking","proposed_solution":"Streaming ingestion","complexity":"medium"},
		{"title":"Warehouse automation","current_state":"Paper picking lists","proposed_solution":"Mobile scanning","priority":"high"}
	]` + "\n```"}
	service := NewService(llm, arbor.NewLogger())

	useCases, err := service.Generate(context.Background(), validProfile())
	require.NoError(t, err)
	require.Len(t, useCases, 2)

	assert.Equal(t, "uc-1", useCases[0].ID)
	assert.Equal(t, "uc-2", useCases[1].ID)
	assert.Equal(t, "Fleet telemetry platform", useCases[0].Title)
}

func TestGenerate_DropsInvalidEntries(t *testing.T) {
	llm := &fakeLLM{response: `[
		{"title":"Valid one","current_state":"a","proposed_solution":"b"},
		{"title":"","current_state":"missing title","proposed_solution":"x"},
		{"title":"Bad enum","current_state":"a","proposed_solution":"b","complexity":"extreme"},
		{"title":"Valid two","current_state":"c","proposed_solution":"d"}
	]`}
	service := NewService(llm, arbor.NewLogger())

	useCases, err := service.Generate(context.Background(), validProfile())
	require.NoError(t, err)
	require.Len(t, useCases, 2)

	// IDs are assigned after filtering, so they stay contiguous.
	assert.Equal(t, "uc-1", useCases[0].ID)
	assert.Equal(t, "Valid one", useCases[0].Title)
	assert.Equal(t, "uc-2", useCases[1].ID)
	assert.Equal(t, "Valid two", useCases[1].Title)
}

func TestGenerate_AllInvalidFails(t *testing.T) {
	service := NewService(&fakeLLM{response: `[{"title":""}]`}, arbor.NewLogger())
	_, err := service.Generate(context.Background(), validProfile())
	assert.Error(t, err)
}

func TestGenerate_NoArrayFails(t *testing.T) {
	service := NewService(&fakeLLM{response: "I cannot produce use cases."}, arbor.NewLogger())
	_, err := service.Generate(context.Background(), validProfile())
	assert.Error(t, err)
}

func TestFilter(t *testing.T) {
	useCases := []models.UseCase{
		{ID: "uc-1", Title: "One"},
		{ID: "uc-2", Title: "Two"},
		{ID: "uc-3", Title: "Three"},
	}

	t.Run("Empty Selection Keeps All", func(t *testing.T) {
		assert.Len(t, Filter(useCases, nil), 3)
	})

	t.Run("Selects By ID", func(t *testing.T) {
		filtered := Filter(useCases, []string{"uc-3", "uc-1"})
		require.Len(t, filtered, 2)
		assert.Equal(t, "uc-1", filtered[0].ID)
		assert.Equal(t, "uc-3", filtered[1].ID)
	})

	t.Run("Unknown IDs Ignored", func(t *testing.T) {
		filtered := Filter(useCases, []string{"uc-2", "uc-99"})
		require.Len(t, filtered, 1)
		assert.Equal(t, "uc-2", filtered[0].ID)
	})
}
