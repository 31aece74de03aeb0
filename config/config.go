package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds everything the service reads at startup. It is not modified
// after Load returns.
type Config struct {
	ServerAddr     string        `json:"server_addr,omitempty" yaml:"server_addr"`
	RequestTimeout string        `json:"request_timeout,omitempty" yaml:"request_timeout"`
	LLM            LLMConfig     `json:"llm" yaml:"llm"`
	Speller        SpellerConfig `json:"speller" yaml:"speller"`
	History        HistoryConfig `json:"history" yaml:"history"`
	Log            LogConfig     `json:"log" yaml:"log"`
}

// LLMConfig selects and authenticates the model provider.
type LLMConfig struct {
	Provider    string  `json:"provider,omitempty" yaml:"provider"`
	Model       string  `json:"model,omitempty" yaml:"model"`
	APIKey      string  `json:"api_key,omitempty" yaml:"api_key"`
	APIKeyEnv   string  `json:"api_key_env,omitempty" yaml:"api_key_env"`
	BaseURL     string  `json:"base_url,omitempty" yaml:"base_url"`
	// Temperature nil means the client default (0.1); 0 is a valid setting.
	Temperature *float64 `json:"temperature,omitempty" yaml:"temperature"`
}

type SpellerConfig struct {
	BaseURL  string `json:"base_url,omitempty" yaml:"base_url"`
	Timeout  string `json:"timeout,omitempty" yaml:"timeout"`
	Disabled bool   `json:"disabled,omitempty" yaml:"disabled"`
}

// HistoryConfig enables the server-side lookup history when Path is set.
type HistoryConfig struct {
	Path       string `json:"path,omitempty" yaml:"path"`
	MaxEntries int    `json:"max_entries,omitempty" yaml:"max_entries"`
}

type LogConfig struct {
	Level string `json:"level,omitempty" yaml:"level"`
}

const (
	openRouterModel   = "tngtech/deepseek-r1t-chimera:free"
	openRouterBaseURL = "https://openrouter.ai/api/v1"
)

// Default returns the provider-independent defaults. The OpenRouter model and
// endpoint are filled in by Load only for the OpenAI-compatible providers.
func Default() Config {
	return Config{
		ServerAddr:     ":8080",
		RequestTimeout: "60s",
		LLM: LLMConfig{
			Provider:  "openai",
			APIKeyEnv: "CHIMERA_API_KEY",
		},
		Speller: SpellerConfig{
			BaseURL: "https://api.datamuse.com",
			Timeout: "5s",
		},
		History: HistoryConfig{MaxEntries: 50},
		Log:     LogConfig{Level: "info"},
	}
}

// Load reads a JSON or YAML (by extension) config on top of Default, resolves
// the API key from the environment and validates the result. An empty path
// yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, err
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			err = yaml.Unmarshal(data, &cfg)
		default:
			err = json.Unmarshal(data, &cfg)
		}
		if err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyProviderDefaults()
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyProviderDefaults points the OpenAI-compatible providers at OpenRouter
// unless model or base_url were given. Other providers keep their own defaults.
func (c *Config) applyProviderDefaults() {
	switch strings.ToLower(c.LLM.Provider) {
	case "openai", "openrouter":
		if c.LLM.Model == "" {
			c.LLM.Model = openRouterModel
		}
		if c.LLM.BaseURL == "" {
			c.LLM.BaseURL = openRouterBaseURL
		}
	}
}

func (c *Config) applyEnv() {
	if c.LLM.APIKey == "" && c.LLM.APIKeyEnv != "" {
		c.LLM.APIKey = os.Getenv(c.LLM.APIKeyEnv)
	}
	if addr := os.Getenv("ETYMO_ADDR"); addr != "" {
		c.ServerAddr = addr
	}
}

var knownProviders = map[string]bool{
	"openai":     true,
	"openrouter": true,
	"deepseek":   true,
	"gemini":     true,
	"anthropic":  true,
	"mock":       true,
}

// Validate checks the fields that would otherwise fail later at first use.
func (c Config) Validate() error {
	provider := strings.ToLower(c.LLM.Provider)
	if provider == "" {
		return errors.New("llm config missing; please set llm.provider")
	}
	if !knownProviders[provider] {
		return fmt.Errorf("llm provider %s not supported", c.LLM.Provider)
	}
	if provider != "mock" && c.LLM.APIKey == "" {
		return fmt.Errorf("llm api key missing; set llm.api_key or export %s", c.LLM.APIKeyEnv)
	}
	if t := c.LLM.Temperature; t != nil && (*t < 0 || *t > 2) {
		return fmt.Errorf("llm.temperature %v out of range [0, 2]", *t)
	}
	if _, err := parseDuration(c.RequestTimeout); err != nil {
		return fmt.Errorf("request_timeout: %w", err)
	}
	if _, err := parseDuration(c.Speller.Timeout); err != nil {
		return fmt.Errorf("speller.timeout: %w", err)
	}
	if c.History.MaxEntries <= 0 {
		return errors.New("history.max_entries must be positive")
	}
	return nil
}

// Timeout is the upper bound on a model query; zero means none.
func (c Config) Timeout() time.Duration {
	d, _ := parseDuration(c.RequestTimeout)
	return d
}

func (c Config) SpellerTimeout() time.Duration {
	d, _ := parseDuration(c.Speller.Timeout)
	return d
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %s", s)
	}
	return d, nil
}
