package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Config represents the main mcploop configuration
type Config struct {
	// Model backend
	Model ModelConfig `json:"model" mapstructure:"model"`

	// MCP tool server
	MCP MCPConfig `json:"mcp" mapstructure:"mcp"`

	// Iteration loop
	Loop LoopConfig `json:"loop" mapstructure:"loop"`

	// Logging
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`

	// Metrics
	Metrics MetricsConfig `json:"metrics" mapstructure:"metrics"`
}

// ModelConfig selects and configures the language-model backend
type ModelConfig struct {
	Provider string        `json:"provider" mapstructure:"provider"` // gemini, anthropic, openai, ollama
	Name     string        `json:"name" mapstructure:"name"`
	APIKey   string        `json:"api_key" mapstructure:"api_key"`
	BaseURL  string        `json:"base_url" mapstructure:"base_url"`
	Timeout  time.Duration `json:"timeout" mapstructure:"timeout"`
}

// MCPConfig describes how to reach the tool server. URL wins over Command when both are set.
type MCPConfig struct {
	Command string   `json:"command" mapstructure:"command"`
	Args    []string `json:"args" mapstructure:"args"`
	Env     []string `json:"env" mapstructure:"env"`
	URL     string   `json:"url" mapstructure:"url"`
}

// LoopConfig bounds and steers the iteration loop
type LoopConfig struct {
	MaxIterations int    `json:"max_iterations" mapstructure:"max_iterations"`
	DefaultQuery  string `json:"default_query" mapstructure:"default_query"`
	ReasoningTool string `json:"reasoning_tool" mapstructure:"reasoning_tool"`
	VerifyTool    string `json:"verify_tool" mapstructure:"verify_tool"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level     string `json:"level" mapstructure:"level"`
	File      string `json:"file" mapstructure:"file"`
	Pretty    bool   `json:"pretty" mapstructure:"pretty"`
	Redaction bool   `json:"redaction" mapstructure:"redaction"`
}

// MetricsConfig holds the optional Prometheus listener address
type MetricsConfig struct {
	Addr string `json:"addr" mapstructure:"addr"`
}

const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderOllama    = "ollama"
)

// DefaultQuery is used when no query is given on the command line.
const DefaultQuery = "Find the ASCII values of characters in INDIA and then return sum of exponentials of those values. "

var providerKeyEnv = map[string][]string{
	ProviderGemini:    {"GEMINI_API_KEY", "GOOGLE_API_KEY"},
	ProviderAnthropic: {"ANTHROPIC_API_KEY"},
	ProviderOpenAI:    {"OPENAI_API_KEY"},
}

var defaultModels = map[string]string{
	ProviderGemini:    "gemini-2.0-flash",
	ProviderAnthropic: "claude-3-5-haiku-latest",
	ProviderOpenAI:    "gpt-4o-mini",
	ProviderOllama:    "qwen2.5:7b",
}

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	return &Config{
		Model: ModelConfig{
			Provider: ProviderGemini,
			Name:     defaultModels[ProviderGemini],
			Timeout:  10 * time.Second,
		},
		MCP: MCPConfig{
			Command: "python",
			Args:    []string{"mcp-server.py"},
		},
		Loop: LoopConfig{
			MaxIterations: 4,
			DefaultQuery:  DefaultQuery,
			ReasoningTool: "show_reasoning",
			VerifyTool:    "verify",
		},
		Logging: LoggingConfig{
			Level:     "info",
			Pretty:    true,
			Redaction: true,
		},
	}
}

// DefaultModel returns the model used for a provider when none is configured.
func DefaultModel(provider string) string {
	return defaultModels[provider]
}

// ResolveAPIKey fills Model.APIKey from the provider's conventional environment
// variable when it was not configured explicitly.
func (c *Config) ResolveAPIKey() {
	if c.Model.APIKey != "" {
		return
	}
	for _, name := range providerKeyEnv[c.Model.Provider] {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			c.Model.APIKey = v
			return
		}
	}
}

// String returns a JSON representation of the config with the API key masked
func (c *Config) String() string {
	masked := *c
	if masked.Model.APIKey != "" {
		masked.Model.APIKey = "***"
	}
	data, _ := json.MarshalIndent(masked, "", "  ")
	return string(data)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Model.Provider {
	case ProviderGemini, ProviderAnthropic, ProviderOpenAI, ProviderOllama:
	default:
		return fmt.Errorf("invalid model provider %q (must be: gemini, anthropic, openai, ollama)", c.Model.Provider)
	}
	if c.Model.Name == "" {
		return fmt.Errorf("model name is required")
	}
	if c.Model.Provider != ProviderOllama && c.Model.APIKey == "" {
		return fmt.Errorf("no API key configured for provider %s (set %s)", c.Model.Provider, strings.Join(providerKeyEnv[c.Model.Provider], " or "))
	}
	if c.Model.Timeout <= 0 {
		return fmt.Errorf("model timeout must be positive")
	}

	if strings.TrimSpace(c.MCP.URL) == "" && strings.TrimSpace(c.MCP.Command) == "" {
		return fmt.Errorf("mcp server command or url is required")
	}

	if c.Loop.MaxIterations <= 0 {
		return fmt.Errorf("max iterations must be positive")
	}

	return nil
}
