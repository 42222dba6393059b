package usecase

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

const systemPrompt = `You are a cloud transformation architect. Given a company profile,
propose concrete transformation use cases tailored to that company.
Respond with a single JSON array of use case objects and nothing else. Each object has:
  title (string, required)
  category (string)
  current_state (string, required)
  proposed_solution (string, required)
  primary_services (array of strings)
  business_value (string)
  implementation_phases (array of strings)
  timeline_months (integer, 1-60)
  monthly_cost_usd (number)
  complexity (one of: low, medium, high)
  priority (one of: low, medium, high, critical)
  risk_level (one of: low, medium, high)
  success_metrics (array of strings)
Propose between 3 and 6 use cases.`

// Service is the use-case generation agent.
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

// Generate proposes transformation use cases for the company profile. Each
// use case is validated individually; invalid entries are dropped with a
// warning rather than failing the batch. IDs are assigned sequentially
// (uc-1, uc-2, ...) after filtering.
func (s *Service) Generate(ctx context.Context, profile *models.CompanyProfile) ([]models.UseCase, error) {
	response, err := s.llm.Chat(ctx, []interfaces.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: buildPrompt(profile)},
	})
	if err != nil {
		return nil, fmt.Errorf("use case completion failed: %w", err)
	}

	useCases, err := s.extractUseCases(response)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("company", profile.Name).
		Int("use_cases", len(useCases)).
		Msg("Use cases generated")

	return useCases, nil
}

// Filter keeps only the use cases whose IDs appear in selectedIDs. An empty
// selection keeps everything. Unknown IDs are ignored.
func Filter(useCases []models.UseCase, selectedIDs []string) []models.UseCase {
	if len(selectedIDs) == 0 {
		return useCases
	}

	selected := make(map[string]bool, len(selectedIDs))
	for _, id := range selectedIDs {
		selected[strings.TrimSpace(id)] = true
	}

	filtered := make([]models.UseCase, 0, len(useCases))
	for _, uc := range useCases {
		if selected[uc.ID] {
			filtered = append(filtered, uc)
		}
	}
	return filtered
}

func buildPrompt(profile *models.CompanyProfile) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Company: %s\n", profile.Name)
	if profile.Industry != "" {
		fmt.Fprintf(&b, "Industry: %s\n", profile.Industry)
	}
	if profile.BusinessModel != "" {
		fmt.Fprintf(&b, "Business model: %s\n", profile.BusinessModel)
	}
	if profile.CompanySize != "" {
		fmt.Fprintf(&b, "Company size: %s\n", profile.CompanySize)
	}
	if profile.CloudMaturity != "" {
		fmt.Fprintf(&b, "Cloud maturity: %s\n", profile.CloudMaturity)
	}
	if len(profile.TechnologyStack) > 0 {
		fmt.Fprintf(&b, "Technology stack: %s\n", strings.Join(profile.TechnologyStack, ", "))
	}
	if len(profile.PrimaryChallenges) > 0 {
		fmt.Fprintf(&b, "Primary challenges: %s\n", strings.Join(profile.PrimaryChallenges, ", "))
	}
	if profile.GrowthStage != "" {
		fmt.Fprintf(&b, "Growth stage: %s\n", profile.GrowthStage)
	}
	if len(profile.ComplianceRequirements) > 0 {
		fmt.Fprintf(&b, "Compliance requirements: %s\n", strings.Join(profile.ComplianceRequirements, ", "))
	}

	b.WriteString("\nPropose transformation use cases for this company.")
	return b.String()
}

func (s *Service) extractUseCases(response string) ([]models.UseCase, error) {
	payload, err := common.ExtractJSONArray(response)
	if err != nil {
		return nil, fmt.Errorf("no use case array in response: %w", err)
	}

	var raw []models.UseCase
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, fmt.Errorf("failed to decode use cases: %w", err)
	}

	useCases := make([]models.UseCase, 0, len(raw))
	for i, uc := range raw {
		if err := s.validate.Struct(&uc); err != nil {
			s.logger.Warn().Err(err).
				Int("index", i).
				Str("title", uc.Title).
				Msg("Dropping invalid use case")
			continue
		}
		uc.ID = fmt.Sprintf("uc-%d", len(useCases)+1)
		useCases = append(useCases, uc)
	}

	if len(useCases) == 0 {
		return nil, fmt.Errorf("response contained no valid use cases")
	}

	return useCases, nil
}
