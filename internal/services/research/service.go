package research

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/conspectus/internal/common"
	"github.com/ternarybob/conspectus/internal/interfaces"
	"github.com/ternarybob/conspectus/internal/models"
)

const systemPrompt = `You are a business analyst researching companies for digital transformation planning.
Analyse the material you are given and produce a structured company profile.
Respond with a single JSON object and nothing else. Use these fields:
  company_name (string, required)
  industry (string)
  business_model (string)
  company_size (one of: startup, small, medium, large, enterprise)
  technology_stack (array of strings)
  cloud_maturity (one of: none, basic, intermediate, advanced)
  primary_challenges (array of strings)
  growth_stage (string)
  compliance_requirements (array of strings)
Leave out fields you cannot determine from the material.`

// Limits on how much scraped and uploaded text goes into the prompt. Pages
// beyond the caps are dropped rather than truncated mid-sentence.
const (
	maxPageChars = 6000
	maxFileChars = 8000
)

// Service is the company research agent. It assembles a prompt from scraped
// pages and uploaded document text, asks the LLM for a structured profile and
// validates the extracted JSON.
type Service struct {
	llm      interfaces.LLMService
	logger   arbor.ILogger
	validate *validator.Validate
}

func NewService(llm interfaces.LLMService, logger arbor.ILogger) *Service {
	return &Service{
		llm:      llm,
		logger:   logger,
		validate: validator.New(),
	}
}

// Profile researches a company from the collected material. When the LLM
// response cannot be parsed or validated the agent degrades to a minimal
// profile carrying just the company name, so the pipeline can continue into
// the fallback report path.
func (s *Service) Profile(ctx context.Context, companyName string, material *models.ResearchMaterial, customPrompt string) (*models.CompanyProfile, error) {
	prompt := s.buildPrompt(companyName, material, customPrompt)

	response, err := s.llm.Chat(ctx, []interfaces.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: prompt},
	})
	if err != nil {
		return nil, fmt.Errorf("research completion failed: %w", err)
	}

	profile, err := s.extractProfile(response)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("company", companyName).
			Msg("Could not extract company profile from response, using minimal profile")
		return &models.CompanyProfile{Name: companyName}, nil
	}

	if profile.Name == "" {
		profile.Name = companyName
	}

	s.logger.Info().
		Str("company", profile.Name).
		Str("industry", profile.Industry).
		Str("size", profile.CompanySize).
		Msg("Company profile extracted")

	return profile, nil
}

func (s *Service) buildPrompt(companyName string, material *models.ResearchMaterial, customPrompt string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Research the company %q and build its profile.\n\n", companyName)

	if material != nil && len(material.Pages) > 0 {
		b.WriteString("## Website content\n\n")
		for _, page := range material.Pages {
			text := page.Text
			if len(text) > maxPageChars {
				text = text[:maxPageChars]
			}
			fmt.Fprintf(&b, "### %s (%s)\n%s\n\n", page.Title, page.URL, text)
		}
	}

	if material != nil && len(material.FileTexts) > 0 {
		b.WriteString("## Uploaded documents\n\n")
		for i, text := range material.FileTexts {
			if len(text) > maxFileChars {
				text = text[:maxFileChars]
			}
			fmt.Fprintf(&b, "### Document %d\n%s\n\n", i+1, text)
		}
	}

	if customPrompt != "" {
		fmt.Fprintf(&b, "## Additional instructions\n\n%s\n", customPrompt)
	}

	return b.String()
}

func (s *Service) extractProfile(response string) (*models.CompanyProfile, error) {
	payload, err := common.ExtractJSONObject(response)
	if err != nil {
		return nil, err
	}

	var profile models.CompanyProfile
	if err := json.Unmarshal([]byte(payload), &profile); err != nil {
		return nil, fmt.Errorf("failed to decode company profile: %w", err)
	}

	if err := s.validate.Struct(&profile); err != nil {
		return nil, fmt.Errorf("company profile failed validation: %w", err)
	}

	return &profile, nil
}
