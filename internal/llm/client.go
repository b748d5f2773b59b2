// Package llm exposes the language model capability consumed by the
// question-generation pipeline and the providers that implement it.
package llm

import "context"

// Client is the narrow chat/generate contract the rest of the service depends on.
// Implementations must be safe for concurrent use.
type Client interface {
	// Chat sends a single user message with an optional system prompt.
	Chat(ctx context.Context, message, systemPrompt string) (string, error)
	// Generate sends a self-contained prompt.
	Generate(ctx context.Context, prompt string) (string, error)
	// Model reports the resolved model identifier.
	Model() string
}

// Options holds sampling parameters shared by all providers.
type Options struct {
	Temperature     float64
	MaxOutputTokens int
}

func (o Options) maxTokens() int {
	if o.MaxOutputTokens <= 0 {
		return 2048
	}
	return o.MaxOutputTokens
}

// resolveModel maps a friendly model name to a provider model ID.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	return name
}
