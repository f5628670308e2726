package testutil

import (
	"context"
	"sync"

	"github.com/outliers/druknation/internal/llm"
)

// MockLLMClient implements llm.Client for testing. It records every prompt it
// receives.
type MockLLMClient struct {
	GenerateContentFunc func(ctx context.Context, prompt string) (*llm.Response, error)
	GetModelFunc        func() string
	CloseFunc           func() error

	mu      sync.Mutex
	prompts []string
}

func (m *MockLLMClient) GenerateContent(ctx context.Context, prompt string) (*llm.Response, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.GenerateContentFunc != nil {
		return m.GenerateContentFunc(ctx, prompt)
	}
	return &llm.Response{Text: "mock answer", FinishReason: "STOP"}, nil
}

func (m *MockLLMClient) GetModel() string {
	if m.GetModelFunc != nil {
		return m.GetModelFunc()
	}
	return "mock-model"
}

func (m *MockLLMClient) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// Prompts returns the prompts received so far.
func (m *MockLLMClient) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

// Calls returns how many times GenerateContent was invoked.
func (m *MockLLMClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}
