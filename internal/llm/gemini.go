package llm

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

var geminiModels = map[string]string{
	"gemini-flash": "gemini-2.0-flash",
	"gemini-pro":   "gemini-2.5-pro",
}

// GeminiConfig configures the Google Gemini provider.
type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Options Options
}

// GeminiClient implements Client on top of the Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
	opts   Options
}

var _ Client = (*GeminiClient)(nil)

// NewGeminiClient creates a Gemini-backed client.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, &ErrConfig{Err: fmt.Errorf("gemini API key is required")}
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions.BaseURL = cfg.BaseURL
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		model:  resolveModel(cfg.Model, geminiModels),
		opts:   cfg.Options,
	}, nil
}

func (c *GeminiClient) Chat(ctx context.Context, message, systemPrompt string) (string, error) {
	config := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(c.opts.maxTokens()),
	}
	if c.opts.Temperature > 0 {
		temp := float32(c.opts.Temperature)
		config.Temperature = &temp
	}
	if systemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		}
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(message), config)
	if err != nil {
		return "", mapGeminiError(err)
	}
	return result.Text(), nil
}

func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	return c.Chat(ctx, prompt, "")
}

func (c *GeminiClient) Model() string {
	return c.model
}

func mapGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return fromStatus(apiErr.Code, 0, err)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return fromStatus(apiErrPtr.Code, 0, err)
	}
	return fromTransport(err)
}
