package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/VrindaSoni2/hire.ai/internal/config"
)

// NewClient builds the configured provider wrapped with logging and
// client-side rate limiting: caller -> rate limit -> logging -> provider.
func NewClient(ctx context.Context, cfg config.LLM, logger zerolog.Logger) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := Options{
		Temperature:     cfg.Temperature,
		MaxOutputTokens: cfg.MaxOutputTokens,
	}

	provider := strings.ToLower(cfg.Provider)
	var (
		base Client
		err  error
	)
	switch provider {
	case "gemini":
		base, err = NewGeminiClient(ctx, GeminiConfig{APIKey: cfg.GeminiAPIKey, Model: cfg.GeminiModel, Options: opts})
	case "openai":
		base, err = NewOpenAIClient(OpenAIConfig{APIKey: cfg.OpenAIAPIKey, Model: cfg.OpenAIModel, BaseURL: cfg.OpenAIBaseURL, Options: opts})
	case "anthropic":
		base, err = NewAnthropicClient(AnthropicConfig{APIKey: cfg.AnthropicAPIKey, Model: cfg.AnthropicModel, Options: opts})
	case "proxy":
		base = NewProxyClient(ProxyConfig{
			URL:     cfg.ProxyURL,
			APIKey:  cfg.ProxyAPIKey,
			Model:   cfg.ProxyModel,
			Timeout: cfg.HTTPTimeout,
			Options: opts,
		}, logger)
	case "mock":
		base = NewMockClient()
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", provider, err)
	}

	logged := WithLogging(base, provider, logger)
	return WithRateLimit(logged, cfg.RequestsPerSec, cfg.Burst), nil
}
