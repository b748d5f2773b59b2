package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// ErrRateLimit indicates the provider throttled the request (429).
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrUnavailable indicates the provider is down, overloaded or unreachable.
type ErrUnavailable struct {
	Err error
}

func (e *ErrUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("llm provider unavailable: %v", e.Err)
	}
	return "llm provider unavailable"
}

func (e *ErrUnavailable) Unwrap() error { return e.Err }

// ErrAuth indicates rejected credentials (401/403).
type ErrAuth struct {
	Err error
}

func (e *ErrAuth) Error() string {
	return fmt.Sprintf("llm provider rejected credentials: %v", e.Err)
}

func (e *ErrAuth) Unwrap() error { return e.Err }

// ErrConfig indicates a request the provider will never accept as sent,
// such as an unknown model or a malformed parameter.
type ErrConfig struct {
	Err error
}

func (e *ErrConfig) Error() string {
	return fmt.Sprintf("llm provider misconfigured: %v", e.Err)
}

func (e *ErrConfig) Unwrap() error { return e.Err }

// fromStatus maps an HTTP status returned by a provider onto the typed errors.
func fromStatus(status int, retryAfter time.Duration, err error) error {
	switch {
	case status == http.StatusTooManyRequests:
		return &ErrRateLimit{RetryAfter: retryAfter, Err: err}
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return &ErrAuth{Err: err}
	case status == http.StatusRequestTimeout:
		return &ErrUnavailable{Err: err}
	case status >= 500:
		return &ErrUnavailable{Err: err}
	case status >= 400:
		return &ErrConfig{Err: err}
	}
	return &ErrUnavailable{Err: err}
}

// fromTransport wraps errors that never reached the provider. Context errors
// are returned untouched so callers can tell cancellation from outages.
func fromTransport(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &ErrUnavailable{Err: err}
}

// parseRetryAfter reads a Retry-After header expressed in seconds.
func parseRetryAfter(h http.Header) time.Duration {
	raw := h.Get("Retry-After")
	if raw == "" {
		return 0
	}
	secs, err := strconv.Atoi(raw)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
