package llm

import (
	"context"
	"sync"
)

// MockReply is a canned reply for MockClient.
type MockReply struct {
	Text string
	Err  error
}

// MockCall records one request seen by MockClient.
type MockCall struct {
	Message      string
	SystemPrompt string
}

// MockClient is a deterministic Client for tests and local development.
// It returns canned replies in FIFO order and records all calls.
type MockClient struct {
	mu       sync.Mutex
	replies  []MockReply
	fallback *MockReply
	calls    []MockCall
}

var _ Client = (*MockClient)(nil)

// NewMockClient creates a MockClient with the given canned replies.
func NewMockClient(replies ...MockReply) *MockClient {
	return &MockClient{replies: replies}
}

// SetFallback makes the client answer with reply once the queue is drained
// instead of failing with ErrUnavailable.
func (m *MockClient) SetFallback(reply MockReply) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallback = &reply
}

// AddReply appends a canned reply to the queue.
func (m *MockClient) AddReply(reply MockReply) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies = append(m.replies, reply)
}

func (m *MockClient) Chat(ctx context.Context, message, systemPrompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, MockCall{Message: message, SystemPrompt: systemPrompt})

	if err := ctx.Err(); err != nil {
		return "", err
	}

	var reply MockReply
	switch {
	case len(m.replies) > 0:
		reply = m.replies[0]
		m.replies = m.replies[1:]
	case m.fallback != nil:
		reply = *m.fallback
	default:
		return "", &ErrUnavailable{}
	}

	if reply.Err != nil {
		return "", reply.Err
	}
	return reply.Text, nil
}

func (m *MockClient) Generate(ctx context.Context, prompt string) (string, error) {
	return m.Chat(ctx, prompt, "")
}

func (m *MockClient) Model() string {
	return "mock"
}

// CallCount returns the number of calls made.
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Calls returns a copy of the recorded calls.
func (m *MockClient) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockCall, len(m.calls))
	copy(out, m.calls)
	return out
}
