package generation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VrindaSoni2/hire.ai/internal/interview"
	"github.com/VrindaSoni2/hire.ai/internal/llm"
)

type recordingSleeper struct {
	mu     sync.Mutex
	waits  []time.Duration
	result error
}

func (s *recordingSleeper) sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.waits = append(s.waits, d)
	return s.result
}

func (s *recordingSleeper) total() time.Duration {
	var sum time.Duration
	for _, w := range s.waits {
		sum += w
	}
	return sum
}

func newOrchestrator(client llm.Client, sleeper *recordingSleeper) *Orchestrator {
	return New(client, DefaultPolicy, zerolog.Nop(), WithSleeper(sleeper.sleep))
}

func TestPolicyBackoff(t *testing.T) {
	p := DefaultPolicy
	assert.Equal(t, 500*time.Millisecond, p.Backoff(1))
	assert.Equal(t, time.Second, p.Backoff(2))
	assert.Equal(t, 2*time.Second, p.Backoff(3))
	assert.Equal(t, 4*time.Second, p.Backoff(4))
	assert.Equal(t, 4*time.Second, p.Backoff(10))
}

func TestGenerate_SucceedsFirstAttempt(t *testing.T) {
	mock := llm.NewMockClient(llm.MockReply{Text: "1. What is a closure?"})
	sleeper := &recordingSleeper{}

	var seen []interview.StateTransition
	ctx := interview.WithTransitionObserver(context.Background(), func(tr interview.StateTransition) {
		seen = append(seen, tr)
	})

	reply, err := newOrchestrator(mock, sleeper).Generate(ctx, "prompt")
	require.NoError(t, err)

	assert.Equal(t, "1. What is a closure?", reply.Text)
	assert.Equal(t, 1, reply.Attempt)
	assert.Equal(t, "mock", reply.Model)
	assert.Empty(t, sleeper.waits)
	require.Len(t, seen, 1)
	assert.Equal(t, interview.StatePending, seen[0].From)
	assert.Equal(t, interview.StateCompleted, seen[0].To)
}

func TestGenerate_TimeoutEveryAttempt(t *testing.T) {
	mock := llm.NewMockClient()
	mock.SetFallback(llm.MockReply{Err: context.DeadlineExceeded})
	sleeper := &recordingSleeper{}

	var states []interview.GenerationState
	ctx := interview.WithTransitionObserver(context.Background(), func(tr interview.StateTransition) {
		states = append(states, tr.To)
	})

	_, err := newOrchestrator(mock, sleeper).Generate(ctx, "prompt")

	require.ErrorIs(t, err, interview.ErrGenerationUnavailable)
	var unavailable *interview.UnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, interview.CauseTransient, unavailable.Cause)
	assert.Equal(t, 3, unavailable.Attempts)
	assert.True(t, unavailable.Retryable())

	assert.Equal(t, 3, mock.CallCount())
	assert.Equal(t, []time.Duration{500 * time.Millisecond, time.Second}, sleeper.waits)
	assert.Equal(t, 1500*time.Millisecond, sleeper.total())
	assert.Equal(t, []interview.GenerationState{
		interview.StateRetrying, interview.StateRetrying, interview.StateFailed,
	}, states)
}

func TestGenerate_RecoversOnSecondAttempt(t *testing.T) {
	mock := llm.NewMockClient(
		llm.MockReply{Err: &llm.ErrUnavailable{Err: errors.New("502 bad gateway")}},
		llm.MockReply{Text: "ok"},
	)
	sleeper := &recordingSleeper{}

	reply, err := newOrchestrator(mock, sleeper).Generate(context.Background(), "prompt")
	require.NoError(t, err)

	assert.Equal(t, 2, reply.Attempt)
	assert.Equal(t, []time.Duration{500 * time.Millisecond}, sleeper.waits)
	calls := mock.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, calls[0].Message, calls[1].Message, "retries reuse the identical prompt")
}

func TestGenerate_AuthFailsImmediately(t *testing.T) {
	mock := llm.NewMockClient()
	mock.SetFallback(llm.MockReply{Err: &llm.ErrAuth{Err: errors.New("401")}})
	sleeper := &recordingSleeper{}

	_, err := newOrchestrator(mock, sleeper).Generate(context.Background(), "prompt")

	var unavailable *interview.UnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, interview.CauseConfiguration, unavailable.Cause)
	assert.False(t, unavailable.Retryable())
	assert.Equal(t, 1, mock.CallCount())
	assert.Empty(t, sleeper.waits)

	var authErr *llm.ErrAuth
	assert.ErrorAs(t, err, &authErr)
}

func TestGenerate_ConfigErrorIsNotRetried(t *testing.T) {
	mock := llm.NewMockClient(llm.MockReply{Err: &llm.ErrConfig{Err: errors.New("unknown model")}})

	_, err := newOrchestrator(mock, &recordingSleeper{}).Generate(context.Background(), "prompt")

	var unavailable *interview.UnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, interview.CauseConfiguration, unavailable.Cause)
	assert.Equal(t, 1, mock.CallCount())
}

func TestGenerate_RateLimitHonoursRetryAfter(t *testing.T) {
	mock := llm.NewMockClient(
		llm.MockReply{Err: &llm.ErrRateLimit{RetryAfter: 2 * time.Second}},
		llm.MockReply{Err: &llm.ErrRateLimit{RetryAfter: time.Minute}},
		llm.MockReply{Text: "ok"},
	)
	sleeper := &recordingSleeper{}

	_, err := newOrchestrator(mock, sleeper).Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, sleeper.waits)
}

func TestGenerate_CanceledDuringBackoff(t *testing.T) {
	mock := llm.NewMockClient()
	mock.SetFallback(llm.MockReply{Err: &llm.ErrUnavailable{}})
	sleeper := &recordingSleeper{result: context.Canceled}

	_, err := newOrchestrator(mock, sleeper).Generate(context.Background(), "prompt")

	var unavailable *interview.UnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, interview.CauseCanceled, unavailable.Cause)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, mock.CallCount())
}

func TestGenerate_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	mock := llm.NewMockClient(llm.MockReply{Text: "never"})
	sleeper := &recordingSleeper{}

	_, err := newOrchestrator(mock, sleeper).Generate(ctx, "prompt")

	var unavailable *interview.UnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, interview.CauseCanceled, unavailable.Cause)
	assert.Equal(t, 1, unavailable.Attempts)
	assert.Empty(t, sleeper.waits)
}

type slowClient struct{ llm.MockClient }

func (s *slowClient) Generate(ctx context.Context, prompt string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestGenerate_AttemptTimeoutIsBounded(t *testing.T) {
	client := &slowClient{}
	policy := Policy{Timeout: 10 * time.Millisecond, MaxAttempts: 2, BaseBackoff: time.Millisecond, MaxBackoff: time.Millisecond}
	sleeper := &recordingSleeper{}

	start := time.Now()
	_, err := New(client, policy, zerolog.Nop(), WithSleeper(sleeper.sleep)).Generate(context.Background(), "prompt")

	var unavailable *interview.UnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, interview.CauseTransient, unavailable.Cause)
	assert.Equal(t, 2, unavailable.Attempts)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestSleepContext(t *testing.T) {
	assert.NoError(t, sleepContext(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
}
