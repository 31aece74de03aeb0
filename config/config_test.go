package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_DefaultsWithEnvKey(t *testing.T) {
	t.Setenv("CHIMERA_API_KEY", "sk-test")
	t.Setenv("ETYMO_ADDR", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.LLM.BaseURL)
	assert.Equal(t, "tngtech/deepseek-r1t-chimera:free", cfg.LLM.Model)
	assert.Nil(t, cfg.LLM.Temperature)
	assert.Equal(t, 60*time.Second, cfg.Timeout())
	assert.Equal(t, 5*time.Second, cfg.SpellerTimeout())
	assert.Equal(t, ":8080", cfg.ServerAddr)
	assert.Equal(t, 50, cfg.History.MaxEntries)
}

func TestLoad_MissingKey(t *testing.T) {
	t.Setenv("CHIMERA_API_KEY", "")
	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CHIMERA_API_KEY")
}

func TestLoad_YAML(t *testing.T) {
	t.Setenv("GEMINI_KEY", "g-key")
	t.Setenv("ETYMO_ADDR", "")
	path := writeFile(t, "config.yaml", `
server_addr: ":9090"
request_timeout: 15s
llm:
  provider: gemini
  model: gemini-2.0-flash
  api_key_env: GEMINI_KEY
speller:
  disabled: true
history:
  path: /tmp/history.db
  max_entries: 10
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.ServerAddr)
	assert.Equal(t, 15*time.Second, cfg.Timeout())
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "g-key", cfg.LLM.APIKey)
	assert.True(t, cfg.Speller.Disabled)
	assert.Equal(t, "/tmp/history.db", cfg.History.Path)
	assert.Equal(t, 10, cfg.History.MaxEntries)
	assert.Empty(t, cfg.LLM.BaseURL)
	// Untouched defaults survive.
	assert.Equal(t, "https://api.datamuse.com", cfg.Speller.BaseURL)
}

func TestLoad_NonOpenAIProvidersSkipOpenRouterDefaults(t *testing.T) {
	t.Setenv("PROVIDER_KEY", "key")
	for _, provider := range []string{"gemini", "anthropic"} {
		t.Run(provider, func(t *testing.T) {
			path := writeFile(t, "config.yaml", "llm:\n  provider: "+provider+"\n  api_key_env: PROVIDER_KEY\n")
			cfg, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, provider, cfg.LLM.Provider)
			assert.Empty(t, cfg.LLM.Model)
			assert.Empty(t, cfg.LLM.BaseURL)
		})
	}
}

func TestLoad_OpenRouterKeepsExplicitModel(t *testing.T) {
	t.Setenv("CHIMERA_API_KEY", "k")
	path := writeFile(t, "config.json", `{"llm":{"provider":"openrouter","model":"openai/gpt-4o-mini"}}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "openai/gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.LLM.BaseURL)
}

func TestLoad_ZeroTemperature(t *testing.T) {
	t.Setenv("CHIMERA_API_KEY", "k")
	cfg, err := Load(writeFile(t, "config.yaml", "llm:\n  temperature: 0\n"))
	require.NoError(t, err)
	require.NotNil(t, cfg.LLM.Temperature)
	assert.Equal(t, 0.0, *cfg.LLM.Temperature)
}

func TestLoad_JSON(t *testing.T) {
	t.Setenv("ETYMO_ADDR", ":7070")
	path := writeFile(t, "config.json", `{"llm":{"provider":"mock"},"log":{"level":"debug"}}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "mock", cfg.LLM.Provider)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, ":7070", cfg.ServerAddr)
}

func TestLoad_Errors(t *testing.T) {
	t.Setenv("CHIMERA_API_KEY", "k")
	tests := map[string]string{
		"unknown provider": `{"llm":{"provider":"cohere"}}`,
		"bad timeout":      `{"request_timeout":"soon"}`,
		"negative timeout": `{"request_timeout":"-1s"}`,
		"bad speller":      `{"speller":{"timeout":"x"}}`,
		"zero history":     `{"history":{"max_entries":-1}}`,
		"malformed":        `{"llm":`,
		"temperature":      `{"llm":{"temperature":3}}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, "config.json", body))
			require.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}
