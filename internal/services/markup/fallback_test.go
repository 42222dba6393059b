package markup

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/conspectus/internal/models"
)

func fixtureCompany() models.CompanyProfile {
	return models.CompanyProfile{
		Name:              "Acme Logistics",
		Industry:          "logistics",
		BusinessModel:     "B2B freight brokerage",
		CompanySize:       "medium",
		CloudMaturity:     "basic",
		GrowthStage:       "scaling",
		PrimaryChallenges: []string{"manual dispatch", "fragmented tracking data"},
	}
}

func fixtureUseCases(n int) []models.UseCase {
	useCases := make([]models.UseCase, 0, n)
	for i := 0; i < n; i++ {
		useCases = append(useCases, models.UseCase{
			ID:               fmt.Sprintf("uc-%d", i+1),
			Title:            fmt.Sprintf("Initiative %d: Automated Workflow", i+1),
			Category:         "operations",
			CurrentState:     fmt.Sprintf("Process %d is handled manually across three teams.", i+1),
			ProposedSolution: fmt.Sprintf("Deploy an event-driven pipeline for process %d.", i+1),
			PrimaryServices:  []string{"managed queue", "serverless compute"},
			BusinessValue:    "reduced cycle time",
			TimelineMonths:   4 + i,
			MonthlyCostUSD:   1500,
			SuccessMetrics:   []string{"cycle time", "error rate"},
		})
	}
	return useCases
}

func TestGenerate_PassesQualityGate(t *testing.T) {
	gen := NewGenerator(arbor.NewLogger(), nil)

	tests := []struct {
		name     string
		useCases []models.UseCase
	}{
		{name: "Three Use Cases", useCases: fixtureUseCases(3)},
		{name: "No Use Cases", useCases: nil},
		{name: "Sparse Use Cases", useCases: []models.UseCase{
			{Title: "Pilot", CurrentState: "Manual.", ProposedSolution: "Automated."},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := gen.Generate(fixtureCompany(), tt.useCases, nil)

			assert.False(t, IsIncomplete(text), "fallback output must always pass the quality gate")
			assert.True(t, strings.HasSuffix(strings.TrimSpace(text), "</paragraph>"))
			assert.Greater(t, len(text), minReportLength)
		})
	}
}

func TestGenerate_AllLinesUnique(t *testing.T) {
	// The quality gate counts every line toward the unique-line ratio, so the
	// generator folds closing tags onto content lines and emits no blank
	// separators. Identical structured fields across use cases must not
	// collapse lines either.
	useCases := fixtureUseCases(3)
	for i := range useCases {
		useCases[i].SuccessMetrics = nil
		useCases[i].PrimaryServices = nil
		useCases[i].BusinessValue = ""
	}
	text := NewGenerator(arbor.NewLogger(), nil).Generate(fixtureCompany(), useCases, nil)

	lines := strings.Split(text, "\n")
	seen := make(map[string]int)
	for _, line := range lines {
		seen[line]++
	}
	for line, count := range seen {
		assert.Equal(t, 1, count, "line emitted more than once: %q", line)
	}
	assert.Len(t, seen, len(lines))
}

func TestGenerate_OneSectionPerUseCase(t *testing.T) {
	gen := NewGenerator(arbor.NewLogger(), nil)
	useCases := fixtureUseCases(4)

	text := gen.Generate(fixtureCompany(), useCases, nil)

	for i, uc := range useCases {
		assert.Contains(t, text, fmt.Sprintf("<sub-heading-bold>%d. %s</sub-heading-bold>", i+1, uc.Title))
		// Structured fields appear verbatim in the generated markup.
		assert.Contains(t, text, uc.CurrentState)
		assert.Contains(t, text, uc.ProposedSolution)
	}
}

func TestGenerate_ParsesCleanly(t *testing.T) {
	gen := NewGenerator(arbor.NewLogger(), nil)
	parser := NewParser(arbor.NewLogger())

	result := parser.Parse(gen.Generate(fixtureCompany(), fixtureUseCases(2), nil))

	require.True(t, result.Ok())
	assert.Equal(t, "Transformation Strategy for Acme Logistics", result.Model.Title)
	assert.NotEmpty(t, result.Model.Blocks)
	assert.NotEmpty(t, result.Model.Citations)

	for _, block := range result.Model.Blocks {
		assert.NotContains(t, block.Text, "<citation_name>")
		assert.NotContains(t, block.Text, "<bullet>")
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	gen := NewGenerator(arbor.NewLogger(), nil)
	company := fixtureCompany()
	useCases := fixtureUseCases(3)

	assert.Equal(t, gen.Generate(company, useCases, nil), gen.Generate(company, useCases, nil))
}

func TestGenerate_RotatesCitationSources(t *testing.T) {
	sources := []models.WebCitation{
		{Name: "Source A", URL: "https://a.example"},
		{Name: "Source B", URL: "https://b.example"},
		{Name: "Source C", URL: "https://c.example"},
	}
	gen := NewGenerator(arbor.NewLogger(), sources)

	text := gen.Generate(fixtureCompany(), fixtureUseCases(3), nil)

	for _, s := range sources {
		assert.Contains(t, text, s.URL, "round-robin selection should reach every source")
	}
}

func TestGenerate_PrefersRunCitations(t *testing.T) {
	gen := NewGenerator(arbor.NewLogger(), nil)
	scraped := []models.WebCitation{
		{Name: "Acme Logistics - About Us", URL: "https://acme.example/about"},
		{Name: "Acme Logistics - Services", URL: "https://acme.example/services"},
	}

	text := gen.Generate(fixtureCompany(), fixtureUseCases(2), scraped)

	for _, s := range scraped {
		assert.Contains(t, text, s.URL, "citations gathered during the run take priority")
	}
	assert.NotContains(t, text, "mckinsey.com", "default sources are unused when the run produced citations")

	// Without run citations the configured default list is used.
	text = gen.Generate(fixtureCompany(), fixtureUseCases(2), nil)
	assert.Contains(t, text, "mckinsey.com")
}

func TestDefaultCitationSources(t *testing.T) {
	sources := DefaultCitationSources()

	require.NotEmpty(t, sources)
	for _, s := range sources {
		assert.NotEmpty(t, s.Name)
		assert.True(t, strings.HasPrefix(s.URL, "http"), "source URL must be absolute: %s", s.URL)
	}
}
