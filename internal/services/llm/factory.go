package llm

import (
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/conspectus/internal/common"
	"github.com/ternarybob/conspectus/internal/interfaces"
)

// Compile-time interface checks
var (
	_ interfaces.LLMService = (*ClaudeService)(nil)
	_ interfaces.LLMService = (*GeminiService)(nil)
)

// NewLLMService creates the LLM service implementation selected by
// llm.default_provider.
func NewLLMService(cfg *common.Config, logger arbor.ILogger) (interfaces.LLMService, error) {
	logger.Info().
		Str("provider", string(cfg.LLM.DefaultProvider)).
		Msg("Initializing LLM service")

	switch cfg.LLM.DefaultProvider {
	case common.LLMProviderClaude:
		return NewClaudeService(&cfg.Claude, logger)
	case common.LLMProviderGemini:
		return NewGeminiService(&cfg.Gemini, logger)
	default:
		return nil, fmt.Errorf("invalid LLM provider '%s': must be 'claude' or 'gemini'", cfg.LLM.DefaultProvider)
	}
}
