package llm

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VrindaSoni2/hire.ai/internal/config"
)

func TestMockClient_FIFOAndFallback(t *testing.T) {
	boom := errors.New("boom")
	m := NewMockClient(MockReply{Text: "first"}, MockReply{Err: boom})

	out, err := m.Generate(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "first", out)

	_, err = m.Chat(context.Background(), "p2", "sys")
	assert.ErrorIs(t, err, boom)

	_, err = m.Generate(context.Background(), "p3")
	assert.Equal(t, "unavailable", Kind(err))

	m.SetFallback(MockReply{Text: "again"})
	out, err = m.Generate(context.Background(), "p4")
	require.NoError(t, err)
	assert.Equal(t, "again", out)

	assert.Equal(t, 4, m.CallCount())
	assert.Equal(t, MockCall{Message: "p2", SystemPrompt: "sys"}, m.Calls()[1])
}

func TestMockClient_HonoursCanceledContext(t *testing.T) {
	m := NewMockClient(MockReply{Text: "unused"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Generate(ctx, "p")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWithRateLimit_Disabled(t *testing.T) {
	m := NewMockClient()
	assert.Same(t, m, WithRateLimit(m, 0, 1))
}

func TestWithRateLimit_WaitExceedsDeadline(t *testing.T) {
	m := NewMockClient()
	m.SetFallback(MockReply{Text: "ok"})
	limited := WithRateLimit(m, 0.001, 1)

	_, err := limited.Generate(context.Background(), "drains the single token")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = limited.Generate(ctx, "must wait far beyond the deadline")

	assert.Equal(t, "rate_limit", Kind(err))
	assert.Equal(t, 1, m.CallCount())
}

func TestWithLogging_NeverLogsPrompt(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	m := NewMockClient(MockReply{Text: "reply"}, MockReply{Err: &ErrAuth{Err: errors.New("bad key")}})
	logged := WithLogging(m, "mock", logger)

	_, err := logged.Generate(context.Background(), "secret resume text")
	require.NoError(t, err)
	_, err = logged.Chat(context.Background(), "secret resume text", "")
	require.Error(t, err)

	assert.NotContains(t, buf.String(), "secret resume text")
	assert.Contains(t, buf.String(), `"error_kind":"auth"`)
	assert.Equal(t, "mock", logged.Model())
}

func TestNewClient(t *testing.T) {
	c, err := NewClient(context.Background(), config.LLM{Provider: "mock", RequestsPerSec: 5, Burst: 2}, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "mock", c.Model())

	_, err = NewClient(context.Background(), config.LLM{Provider: "gemini"}, zerolog.Nop())
	assert.Error(t, err)

	_, err = NewClient(context.Background(), config.LLM{Provider: "bard"}, zerolog.Nop())
	assert.Error(t, err)

	c, err = NewClient(context.Background(), config.LLM{Provider: "proxy", ProxyURL: "http://gen.local", ProxyModel: "gen-1"}, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "gen-1", c.Model())
}
