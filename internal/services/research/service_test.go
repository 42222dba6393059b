package research

import (
	"context"
	"errors"
	"strings"
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
	messages []interfaces.Message
}

func (f *fakeLLM) Chat(ctx context.Context, messages []interfaces.Message) (string, error) {
	f.messages = messages
	return f.response, f.err
}

func (f *fakeLLM) HealthCheck(ctx context.Context) error { return nil }
func (f *fakeLLM) Close() error                          { return nil }

func TestProfile_ExtractsValidJSON(t *testing.T) {
	llm := &fakeLLM{response: "Here is the profile:\n```json\n" +
		`{"company_name":"Acme Logistics","industry":"Logistics","company_size":"medium","cloud_maturity":"basic","primary_challenges":["manual dispatch"]}` +
		"\n```"}
	service := NewService(llm, arbor.NewLogger())

	profile, err := service.Profile(context.Background(), "Acme Logistics", &models.ResearchMaterial{
		Pages: []models.ScrapedPage{{URL: "https://acme.example", Title: "Acme", Text: "We move freight."}},
	}, "")
	require.NoError(t, err)

	assert.Equal(t, "Acme Logistics", profile.Name)
	assert.Equal(t, "Logistics", profile.Industry)
	assert.Equal(t, "medium", profile.CompanySize)
	assert.Equal(t, []string{"manual dispatch"}, profile.PrimaryChallenges)
}

func TestProfile_PromptCarriesMaterial(t *testing.T) {
	llm := &fakeLLM{response: `{"company_name":"Acme"}`}
	service := NewService(llm, arbor.NewLogger())

	_, err := service.Profile(context.Background(), "Acme", &models.ResearchMaterial{
		Pages:     []models.ScrapedPage{{URL: "https://acme.example", Title: "About", Text: "Founded 2001."}},
		FileTexts: []string{"Annual report extract."},
	}, "Focus on compliance.")
	require.NoError(t, err)

	require.Len(t, llm.messages, 2)
	assert.Equal(t, "system", llm.messages[0].Role)
	prompt := llm.messages[1].Content
	assert.Contains(t, prompt, "Founded 2001.")
	assert.Contains(t, prompt, "Annual report extract.")
	assert.Contains(t, prompt, "Focus on compliance.")
}

func TestProfile_DegradesToMinimalProfile(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{name: "No JSON", response: "I could not find enough information."},
		{name: "Invalid Enum", response: `{"company_name":"Acme","company_size":"gigantic"}`},
		{name: "Missing Name", response: `{"industry":"Logistics"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewService(&fakeLLM{response: tt.response}, arbor.NewLogger())
			profile, err := service.Profile(context.Background(), "Acme", nil, "")
			require.NoError(t, err)
			assert.Equal(t, "Acme", profile.Name)
			assert.Empty(t, profile.Industry)
		})
	}
}

func TestProfile_LLMErrorIsFatal(t *testing.T) {
	service := NewService(&fakeLLM{err: errors.New("rate limited")}, arbor.NewLogger())
	_, err := service.Profile(context.Background(), "Acme", nil, "")
	assert.Error(t, err)
}

func TestBuildPrompt_CapsLongPages(t *testing.T) {
	service := NewService(&fakeLLM{}, arbor.NewLogger())
	long := strings.Repeat("x", maxPageChars+500)
	prompt := service.buildPrompt("Acme", &models.ResearchMaterial{
		Pages: []models.ScrapedPage{{URL: "https://acme.example", Title: "Home", Text: long}},
	}, "")
	assert.Less(t, len(prompt), maxPageChars+400)
}
