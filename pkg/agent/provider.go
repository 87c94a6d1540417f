package agent

import (
	"context"
	"fmt"

	"github.com/harun/mcploop/internal/config"
)

// LLMProvider is an interface for LLM API providers
type LLMProvider interface {
	// Generate returns the model's completion for a single prompt
	Generate(ctx context.Context, prompt string) (string, error)

	// Provider returns the provider name
	Provider() string
}

// ProviderFactory creates LLM providers
type ProviderFactory struct{}

// NewProvider creates the backend selected by cfg.Provider
func (f *ProviderFactory) NewProvider(ctx context.Context, cfg config.ModelConfig) (LLMProvider, error) {
	model := cfg.Name
	if model == "" {
		model = config.DefaultModel(cfg.Provider)
	}

	switch cfg.Provider {
	case config.ProviderGemini:
		return NewGeminiProvider(ctx, cfg.APIKey, model, cfg.BaseURL)
	case config.ProviderAnthropic:
		return NewAnthropicProvider(cfg.APIKey, model, cfg.BaseURL), nil
	case config.ProviderOpenAI:
		return NewOpenAIProvider(cfg.APIKey, model, cfg.BaseURL), nil
	case config.ProviderOllama:
		return NewOllamaProvider(model, cfg.BaseURL)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}
}
