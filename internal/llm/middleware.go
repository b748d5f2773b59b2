package llm

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// rateLimitedClient throttles outbound calls with a shared token bucket so a
// burst of requests cannot push the provider into 429s.
type rateLimitedClient struct {
	inner   Client
	limiter *rate.Limiter
}

// WithRateLimit wraps c so that calls wait for a token. rps <= 0 disables limiting.
func WithRateLimit(c Client, rps float64, burst int) Client {
	if rps <= 0 {
		return c
	}
	if burst < 1 {
		burst = 1
	}
	return &rateLimitedClient{inner: c, limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

func (r *rateLimitedClient) wait(ctx context.Context) error {
	if err := r.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		// The wait would outlive the deadline: report it like a provider throttle.
		return &ErrRateLimit{Err: err}
	}
	return nil
}

func (r *rateLimitedClient) Chat(ctx context.Context, message, systemPrompt string) (string, error) {
	if err := r.wait(ctx); err != nil {
		return "", err
	}
	return r.inner.Chat(ctx, message, systemPrompt)
}

func (r *rateLimitedClient) Generate(ctx context.Context, prompt string) (string, error) {
	if err := r.wait(ctx); err != nil {
		return "", err
	}
	return r.inner.Generate(ctx, prompt)
}

func (r *rateLimitedClient) Model() string { return r.inner.Model() }

// loggingClient records latency and payload sizes of every call. Prompt text
// is never logged since it may carry resume contents.
type loggingClient struct {
	inner    Client
	provider string
	logger   zerolog.Logger
}

// WithLogging wraps c with structured call logging.
func WithLogging(c Client, provider string, logger zerolog.Logger) Client {
	return &loggingClient{
		inner:    c,
		provider: provider,
		logger:   logger.With().Str("component", "llm").Str("provider", provider).Str("model", c.Model()).Logger(),
	}
}

func (l *loggingClient) Chat(ctx context.Context, message, systemPrompt string) (string, error) {
	start := time.Now()
	out, err := l.inner.Chat(ctx, message, systemPrompt)
	l.record("chat", len(message)+len(systemPrompt), len(out), time.Since(start), err)
	return out, err
}

func (l *loggingClient) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	out, err := l.inner.Generate(ctx, prompt)
	l.record("generate", len(prompt), len(out), time.Since(start), err)
	return out, err
}

func (l *loggingClient) Model() string { return l.inner.Model() }

func (l *loggingClient) record(op string, inBytes, outBytes int, latency time.Duration, err error) {
	evt := l.logger.Debug()
	if err != nil {
		evt = l.logger.Warn().Err(err).Str("error_kind", Kind(err))
	}
	evt.Str("op", op).
		Int("prompt_bytes", inBytes).
		Int("reply_bytes", outBytes).
		Dur("latency", latency).
		Msg("llm call")
}

// Kind returns a short label describing the error class, for logs and metrics.
func Kind(err error) string {
	var (
		rl   *ErrRateLimit
		un   *ErrUnavailable
		auth *ErrAuth
		cfg  *ErrConfig
	)
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &rl):
		return "rate_limit"
	case errors.As(err, &auth):
		return "auth"
	case errors.As(err, &cfg):
		return "config"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.As(err, &un):
		return "unavailable"
	default:
		return "unknown"
	}
}
