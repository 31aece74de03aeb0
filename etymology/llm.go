package etymology

import (
	"context"
	"fmt"
	"strings"
)

// LLMClient 抽象大模型客户端，便于替换/Mock。
type LLMClient interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// LLMSettings 提供给具体实现的基础配置。
type LLMSettings struct {
	Provider    string
	Model       string
	APIKey      string
	BaseURL     string
	// Temperature nil means defaultTemperature; an explicit 0 is kept.
	Temperature *float64
}

const defaultTemperature = 0.1

func (s *LLMSettings) temperature() float64 {
	if s.Temperature == nil {
		return defaultTemperature
	}
	return *s.Temperature
}

// ModelError marks a failure of the model query step. Error returns the
// provider's message unchanged so it can be shown to the user as is.
type ModelError struct {
	Provider string
	Err      error
}

func (e *ModelError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: model query failed", e.Provider)
	}
	return e.Err.Error()
}

func (e *ModelError) Unwrap() error { return e.Err }

// NewLLM builds the client for settings.Provider.
func NewLLM(settings *LLMSettings) (LLMClient, error) {
	if settings == nil {
		return nil, fmt.Errorf("llm config is nil")
	}
	switch strings.ToLower(settings.Provider) {
	case "openai", "openrouter":
		return NewOpenAILLMFromConfig(settings)
	case "deepseek":
		// DeepSeek exposes an OpenAI-compatible endpoint only through base_url.
		if settings.BaseURL == "" {
			return nil, fmt.Errorf("llm provider deepseek requires base_url (OpenAI-compatible endpoint)")
		}
		return NewOpenAILLMFromConfig(settings)
	case "gemini":
		return NewGeminiLLMFromConfig(settings)
	case "anthropic":
		return NewAnthropicLLMFromConfig(settings)
	case "mock":
		return MockLLM{}, nil
	default:
		return nil, fmt.Errorf("llm provider %s not supported", settings.Provider)
	}
}
