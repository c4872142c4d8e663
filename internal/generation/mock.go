package generation

import (
	"context"
	"sync"
)

// MockCall records one call made to a MockGenerator.
type MockCall struct {
	Prompt    string
	MaxTokens int
}

// MockGenerator is a Generator driven by a function, for tests and local runs.
type MockGenerator struct {
	Respond func(prompt string, maxTokens int) (string, error)

	mu    sync.Mutex
	calls []MockCall
}

// NewMockGenerator returns a generator answering with respond.
func NewMockGenerator(respond func(prompt string, maxTokens int) (string, error)) *MockGenerator {
	return &MockGenerator{Respond: respond}
}

// Generate records the call and delegates to Respond.
func (m *MockGenerator) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, MockCall{Prompt: prompt, MaxTokens: maxTokens})
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.Respond == nil {
		return "", nil
	}
	return m.Respond(prompt, maxTokens)
}

// Calls returns a copy of the recorded calls.
func (m *MockGenerator) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallsWithBudget counts calls made with the given token budget.
func (m *MockGenerator) CallsWithBudget(maxTokens int) int {
	n := 0
	for _, c := range m.Calls() {
		if c.MaxTokens == maxTokens {
			n++
		}
	}
	return n
}
