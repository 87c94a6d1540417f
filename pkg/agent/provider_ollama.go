package agent

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

// OllamaProvider implements LLMProvider for a local Ollama server
type OllamaProvider struct {
	llm   llms.Model
	model string
}

// NewOllamaProvider creates a provider for model. An empty serverURL uses
// langchaingo's default (OLLAMA_HOST or localhost:11434).
func NewOllamaProvider(model, serverURL string) (*OllamaProvider, error) {
	opts := []ollama.Option{ollama.WithModel(model)}
	if serverURL != "" {
		opts = append(opts, ollama.WithServerURL(serverURL))
	}

	llm, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create ollama client: %w", err)
	}
	return &OllamaProvider{llm: llm, model: model}, nil
}

// Provider returns the provider name
func (p *OllamaProvider) Provider() string {
	return "ollama"
}

// Generate runs a single-prompt completion
func (p *OllamaProvider) Generate(ctx context.Context, prompt string) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, p.llm, prompt)
}
