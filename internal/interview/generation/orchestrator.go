// Package generation drives the model call for a composed prompt: one
// attempt at a time, each bounded by a timeout, with exponential backoff
// between transient failures.
package generation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/VrindaSoni2/hire.ai/internal/interview"
	"github.com/VrindaSoni2/hire.ai/internal/llm"
	"github.com/VrindaSoni2/hire.ai/internal/metrics"
)

// Policy bounds the attempts made for a single request.
type Policy struct {
	Timeout     time.Duration
	MaxAttempts int
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
}

// DefaultPolicy is 3 attempts of 30s each with 500ms doubling backoff capped at 4s.
var DefaultPolicy = Policy{
	Timeout:     30 * time.Second,
	MaxAttempts: 3,
	BaseBackoff: 500 * time.Millisecond,
	MaxBackoff:  4 * time.Second,
}

func (p Policy) withDefaults() Policy {
	if p.Timeout <= 0 {
		p.Timeout = DefaultPolicy.Timeout
	}
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = DefaultPolicy.MaxAttempts
	}
	if p.BaseBackoff <= 0 {
		p.BaseBackoff = DefaultPolicy.BaseBackoff
	}
	if p.MaxBackoff < p.BaseBackoff {
		p.MaxBackoff = p.BaseBackoff
	}
	return p
}

// Backoff returns the wait before attempt n+1 after attempt n failed.
func (p Policy) Backoff(n int) time.Duration {
	d := p.BaseBackoff
	for i := 1; i < n; i++ {
		d *= 2
		if d >= p.MaxBackoff {
			return p.MaxBackoff
		}
	}
	if d > p.MaxBackoff {
		return p.MaxBackoff
	}
	return d
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Option customises an Orchestrator.
type Option func(*Orchestrator)

// WithSleeper replaces the wall-clock sleep between attempts.
func WithSleeper(s Sleeper) Option {
	return func(o *Orchestrator) { o.sleep = s }
}

// WithClock replaces time.Now for latency measurement.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// Orchestrator owns the per-request generation state machine. It keeps no
// per-request state between calls and is safe for concurrent use.
type Orchestrator struct {
	client llm.Client
	policy Policy
	logger zerolog.Logger
	sleep  Sleeper
	now    func() time.Time
}

func New(client llm.Client, policy Policy, logger zerolog.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		client: client,
		policy: policy.withDefaults(),
		logger: logger.With().Str("component", "generation").Logger(),
		sleep:  sleepContext,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Policy returns the effective retry policy.
func (o *Orchestrator) Policy() Policy {
	return o.policy
}

// run holds the state of one Generate call.
type run struct {
	state    interview.GenerationState
	attempt  int
	observer interview.TransitionObserver
}

func (r *run) move(to interview.GenerationState, wait time.Duration, reason string) {
	t := interview.StateTransition{From: r.state, To: to, Attempt: r.attempt, Wait: wait, Reason: reason}
	r.state = to
	if r.observer != nil {
		r.observer(t)
	}
}

// Generate sends prompt to the model and returns its raw reply. Attempts run
// strictly one after another. A failure surfaces as *interview.UnavailableError.
func (o *Orchestrator) Generate(ctx context.Context, prompt interview.ComposedPrompt) (interview.RawModelReply, error) {
	r := &run{state: interview.StatePending, observer: interview.TransitionObserverFrom(ctx)}
	var lastErr error

	for {
		switch r.state {
		case interview.StatePending, interview.StateRetrying:
			r.attempt++
			text, latency, err := o.attempt(ctx, prompt)
			if err == nil {
				metrics.LLMAttempts.WithLabelValues("ok").Inc()
				r.move(interview.StateCompleted, 0, "")
				o.logger.Debug().Int("attempt", r.attempt).Dur("latency", latency).Msg("generation completed")
				return interview.RawModelReply{
					Text:    text,
					Attempt: r.attempt,
					Latency: latency,
					Model:   o.client.Model(),
				}, nil
			}

			lastErr = err
			cause := o.classify(ctx, err)
			metrics.LLMAttempts.WithLabelValues(llm.Kind(err)).Inc()

			if cause != interview.CauseTransient || r.attempt >= o.policy.MaxAttempts {
				r.move(interview.StateFailed, 0, err.Error())
				o.logger.Warn().Err(err).Int("attempt", r.attempt).Str("cause", string(cause)).Msg("generation failed")
				return interview.RawModelReply{}, &interview.UnavailableError{Cause: cause, Attempts: r.attempt, Err: err}
			}

			wait := o.wait(r.attempt, err)
			r.move(interview.StateRetrying, wait, err.Error())
			o.logger.Info().Err(err).Int("attempt", r.attempt).Dur("backoff", wait).Msg("retrying generation")

			if err := o.sleep(ctx, wait); err != nil {
				r.move(interview.StateFailed, 0, "canceled during backoff")
				return interview.RawModelReply{}, &interview.UnavailableError{
					Cause:    interview.CauseCanceled,
					Attempts: r.attempt,
					Err:      errors.Join(err, lastErr),
				}
			}

		default:
			return interview.RawModelReply{}, fmt.Errorf("generation: unexpected state %s", r.state)
		}
	}
}

func (o *Orchestrator) attempt(ctx context.Context, prompt interview.ComposedPrompt) (string, time.Duration, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, o.policy.Timeout)
	defer cancel()

	start := o.now()
	text, err := o.client.Generate(attemptCtx, string(prompt))
	latency := o.now().Sub(start)
	metrics.LLMAttemptDuration.Observe(latency.Seconds())

	if err == nil {
		return text, latency, nil
	}
	// An error after the attempt deadline counts as an attempt timeout.
	if ctx.Err() == nil && attemptCtx.Err() != nil && !errors.Is(err, context.DeadlineExceeded) {
		err = fmt.Errorf("%w: %v", context.DeadlineExceeded, err)
	}
	return "", latency, err
}

// classify decides whether err is worth another attempt.
func (o *Orchestrator) classify(ctx context.Context, err error) interview.Cause {
	if ctx.Err() != nil {
		return interview.CauseCanceled
	}
	var authErr *llm.ErrAuth
	var cfgErr *llm.ErrConfig
	if errors.As(err, &authErr) || errors.As(err, &cfgErr) {
		return interview.CauseConfiguration
	}
	return interview.CauseTransient
}

// wait picks the backoff after attempt n, honouring a provider Retry-After
// hint up to MaxBackoff.
func (o *Orchestrator) wait(n int, err error) time.Duration {
	d := o.policy.Backoff(n)
	var rl *llm.ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > d {
		d = min(rl.RetryAfter, o.policy.MaxBackoff)
	}
	return d
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
