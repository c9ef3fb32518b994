package providers

import (
	"context"
	"sync"
)

// MockVisionClient is a configurable VisionClient for tests.
type MockVisionClient struct {
	mu sync.Mutex

	// Responses are returned in order; the last one repeats.
	Responses []string
	// Errors are returned in order alongside responses; nil entries
	// mean success.
	Errors []error

	calls []MockCall
}

// MockCall records one Complete invocation.
type MockCall struct {
	SystemPrompt string
	UserContent  string
	ImageCount   int
}

// Complete returns the next canned response or error.
func (m *MockVisionClient) Complete(_ context.Context, systemPrompt, userContent string, images [][]byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.calls)
	m.calls = append(m.calls, MockCall{
		SystemPrompt: systemPrompt,
		UserContent:  userContent,
		ImageCount:   len(images),
	})

	if n < len(m.Errors) && m.Errors[n] != nil {
		return "", m.Errors[n]
	}
	if len(m.Responses) == 0 {
		return "", nil
	}
	if n >= len(m.Responses) {
		n = len(m.Responses) - 1
	}
	return m.Responses[n], nil
}

// Name returns the mock identifier.
func (m *MockVisionClient) Name() string { return "mock" }

// Calls returns a copy of recorded invocations.
func (m *MockVisionClient) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockCall, len(m.calls))
	copy(out, m.calls)
	return out
}

var _ VisionClient = (*MockVisionClient)(nil)
