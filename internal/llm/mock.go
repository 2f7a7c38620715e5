package llm

import (
	"context"
	"sync"
)

// MockClient is a scripted Client for tests. Each call consumes the next
// response; when the script runs out the last response repeats.
type MockClient struct {
	responses []MockResponse
	calls     []MockCall
	mu        sync.Mutex
}

// MockResponse is one scripted reply.
type MockResponse struct {
	Err  error
	Text string
}

// MockCall records a request made to the mock.
type MockCall struct {
	Prompt string
	Image  Image
}

// NewMockClient creates a mock that replies with the given responses in order.
func NewMockClient(responses ...MockResponse) *MockClient {
	return &MockClient{responses: responses}
}

// Generate records the call and returns the next scripted response.
func (m *MockClient) Generate(ctx context.Context, prompt string, image Image) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, MockCall{Prompt: prompt, Image: image})

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(m.responses) == 0 {
		return "", nil
	}

	idx := len(m.calls) - 1
	if idx >= len(m.responses) {
		idx = len(m.responses) - 1
	}
	resp := m.responses[idx]
	return resp.Text, resp.Err
}

// Calls returns a copy of the recorded calls.
func (m *MockClient) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockCall(nil), m.calls...)
}
