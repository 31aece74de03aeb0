package etymology

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// GeminiLLM implements LLMClient on top of Google's GenAI SDK.
type GeminiLLM struct {
	Model       string
	Temperature float32
	client      *genai.Client
}

func NewGeminiLLMFromConfig(cfg *LLMSettings) (*GeminiLLM, error) {
	if cfg == nil {
		return nil, errors.New("llm config is nil")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("gemini api key missing; provide llm.api_key or llm.api_key_env")
	}
	model := cfg.Model
	if model == "" {
		model = "gemini-2.0-flash"
	}
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(context.Background(), cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiLLM{Model: model, Temperature: float32(cfg.temperature()), client: client}, nil
}

func (g *GeminiLLM) Complete(ctx context.Context, prompt Prompt) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.Model, genai.Text(prompt.User), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(prompt.System, genai.RoleUser),
		Temperature:       genai.Ptr(g.Temperature),
	})
	if err != nil {
		return "", &ModelError{Provider: "gemini", Err: err}
	}
	return resp.Text(), nil
}
