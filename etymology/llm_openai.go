package etymology

import (
	"context"
	"errors"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAILLM implements LLMClient using the official openai-go SDK (chat completions).
// It also serves OpenRouter and DeepSeek through their OpenAI-compatible endpoints.
type OpenAILLM struct {
	Model       string
	Temperature float64
	client      openai.Client
}

func NewOpenAILLMFromConfig(cfg *LLMSettings) (*OpenAILLM, error) {
	if cfg == nil {
		return nil, errors.New("llm config is nil")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("openai api key missing; provide llm.api_key or llm.api_key_env")
	}
	if cfg.Model == "" {
		return nil, errors.New("llm model is required")
	}
	// A failed attempt is terminal for the request; the SDK would retry twice.
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey), option.WithMaxRetries(0)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAILLM{Model: cfg.Model, Temperature: cfg.temperature(), client: openai.NewClient(opts...)}, nil
}

func (o *OpenAILLM) Complete(ctx context.Context, prompt Prompt) (string, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(prompt.System),
			openai.UserMessage(prompt.User),
		},
		Temperature: openai.Float(o.Temperature),
	})
	if err != nil {
		return "", &ModelError{Provider: "openai", Err: err}
	}
	// No choices is not an error: the normalizer turns an empty reply into defaults.
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
