package interview

import (
	"context"
	"time"
)

// GenerationState is a state of the per-request generation state machine.
type GenerationState string

const (
	StatePending   GenerationState = "PENDING"
	StateRetrying  GenerationState = "RETRYING"
	StateCompleted GenerationState = "COMPLETED"
	StateFailed    GenerationState = "FAILED"
)

// Terminal reports whether no further transitions can happen.
func (s GenerationState) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}

// StateTransition describes one move of the state machine. Wait is the
// backoff scheduled before the next attempt when entering RETRYING.
type StateTransition struct {
	From    GenerationState
	To      GenerationState
	Attempt int
	Wait    time.Duration
	Reason  string
}

// TransitionObserver receives state transitions for a single request.
type TransitionObserver func(StateTransition)

type observerKey struct{}

// WithTransitionObserver attaches an observer that the orchestrator notifies
// on every state transition of requests carrying ctx.
func WithTransitionObserver(ctx context.Context, fn TransitionObserver) context.Context {
	return context.WithValue(ctx, observerKey{}, fn)
}

// TransitionObserverFrom returns the observer attached to ctx, or nil.
func TransitionObserverFrom(ctx context.Context) TransitionObserver {
	fn, _ := ctx.Value(observerKey{}).(TransitionObserver)
	return fn
}
