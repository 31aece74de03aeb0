package etymology

import (
	"context"
	"errors"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const anthropicMaxTokens = 1024

// AnthropicLLM implements LLMClient with the Anthropic Messages API.
type AnthropicLLM struct {
	Model       string
	Temperature float64
	client      anthropic.Client
}

func NewAnthropicLLMFromConfig(cfg *LLMSettings) (*AnthropicLLM, error) {
	if cfg == nil {
		return nil, errors.New("llm config is nil")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("anthropic api key missing; provide llm.api_key or llm.api_key_env")
	}
	if cfg.Model == "" {
		return nil, errors.New("llm model is required")
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey), option.WithMaxRetries(0)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &AnthropicLLM{Model: cfg.Model, Temperature: cfg.temperature(), client: anthropic.NewClient(opts...)}, nil
}

func (a *AnthropicLLM) Complete(ctx context.Context, prompt Prompt) (string, error) {
	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.Model),
		MaxTokens: anthropicMaxTokens,
		System: []anthropic.TextBlockParam{
			{Text: prompt.System},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt.User)),
		},
		Temperature: anthropic.Float(a.Temperature),
	})
	if err != nil {
		return "", &ModelError{Provider: "anthropic", Err: err}
	}
	for _, block := range msg.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", nil
}
