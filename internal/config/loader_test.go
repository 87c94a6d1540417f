package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearKeys(t *testing.T) {
	t.Helper()
	for _, name := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY", "ANTHROPIC_API_KEY", "OPENAI_API_KEY"} {
		t.Setenv(name, "")
	}
}

func TestNewLoader(t *testing.T) {
	loader := NewLoader("/path/to/config.json")
	assert.NotNil(t, loader)
	assert.Equal(t, "/path/to/config.json", loader.configPath)
	assert.Equal(t, []string{".env"}, loader.envFiles)
	assert.Equal(t, "/path/to/config.json", loader.GetConfigPath())
}

func TestLoaderLoad(t *testing.T) {
	t.Run("load default config when file doesn't exist", func(t *testing.T) {
		clearKeys(t)
		tmpDir := t.TempDir()

		loader := NewLoader(filepath.Join(tmpDir, "nonexistent.json"), filepath.Join(tmpDir, "missing.env"))
		cfg, err := loader.Load()

		require.NoError(t, err)
		assert.Equal(t, ProviderGemini, cfg.Model.Provider)
		assert.Equal(t, "gemini-2.0-flash", cfg.Model.Name)
		assert.Equal(t, 4, cfg.Loop.MaxIterations)
	})

	t.Run("load config from file", func(t *testing.T) {
		clearKeys(t)
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.json")

		testConfig := `{
			"model": {"provider": "anthropic", "api_key": "sk-ant-test", "timeout": "30s"},
			"mcp": {"command": "uv", "args": ["run", "server.py"]},
			"loop": {"max_iterations": 6}
		}`
		require.NoError(t, os.WriteFile(configPath, []byte(testConfig), 0644))

		cfg, err := NewLoader(configPath, filepath.Join(tmpDir, "missing.env")).Load()

		require.NoError(t, err)
		assert.Equal(t, ProviderAnthropic, cfg.Model.Provider)
		assert.Equal(t, DefaultModel(ProviderAnthropic), cfg.Model.Name)
		assert.Equal(t, "sk-ant-test", cfg.Model.APIKey)
		assert.Equal(t, 30*time.Second, cfg.Model.Timeout)
		assert.Equal(t, "uv", cfg.MCP.Command)
		assert.Equal(t, []string{"run", "server.py"}, cfg.MCP.Args)
		assert.Equal(t, 6, cfg.Loop.MaxIterations)
		assert.Equal(t, "show_reasoning", cfg.Loop.ReasoningTool)
	})

	t.Run("environment overrides", func(t *testing.T) {
		clearKeys(t)
		t.Setenv("MCPLOOP_MODEL_PROVIDER", "openai")
		t.Setenv("MCPLOOP_LOOP_MAX_ITERATIONS", "2")
		t.Setenv("OPENAI_API_KEY", "sk-openai")
		tmpDir := t.TempDir()

		cfg, err := NewLoader(filepath.Join(tmpDir, "none.json"), filepath.Join(tmpDir, "missing.env")).Load()

		require.NoError(t, err)
		assert.Equal(t, ProviderOpenAI, cfg.Model.Provider)
		assert.Equal(t, "gpt-4o-mini", cfg.Model.Name)
		assert.Equal(t, "sk-openai", cfg.Model.APIKey)
		assert.Equal(t, 2, cfg.Loop.MaxIterations)
	})

	t.Run("dotenv file provides API key", func(t *testing.T) {
		clearKeys(t)
		os.Unsetenv("GEMINI_API_KEY")
		tmpDir := t.TempDir()
		envPath := filepath.Join(tmpDir, ".env")
		require.NoError(t, os.WriteFile(envPath, []byte("GEMINI_API_KEY=dotenv-key\n"), 0644))
		t.Cleanup(func() { os.Unsetenv("GEMINI_API_KEY") })

		cfg, err := NewLoader(filepath.Join(tmpDir, "none.json"), envPath).Load()

		require.NoError(t, err)
		assert.Equal(t, "dotenv-key", cfg.Model.APIKey)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "invalid.json")
		require.NoError(t, os.WriteFile(configPath, []byte("invalid json"), 0644))

		_, err := NewLoader(configPath, filepath.Join(tmpDir, "missing.env")).Load()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file")
	})
}
