package mocks

import (
	"context"
	"sync"

	"github.com/mcoot/game2048/internal/model"
)

// MockSuggester is a scripted suggestion source for testing
type MockSuggester struct {
	mu sync.Mutex

	// Result and Err are returned from every call
	Result model.Suggestion
	Err    error

	// Calls records the boards passed to Suggest
	Calls []model.BoardValues

	// OnSuggest, if set, runs before Suggest returns
	OnSuggest func(ctx context.Context)
}

// NewMockSuggester creates a MockSuggester that always recommends the given move
func NewMockSuggester(recommended, reasoning string) *MockSuggester {
	return &MockSuggester{
		Result: model.Suggestion{Recommended: recommended, Reasoning: reasoning},
	}
}

// Suggest records the call and returns the scripted result
func (m *MockSuggester) Suggest(ctx context.Context, values model.BoardValues) (model.Suggestion, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, values)
	hook := m.OnSuggest
	result, err := m.Result, m.Err
	m.mu.Unlock()

	if hook != nil {
		hook(ctx)
	}
	if err != nil {
		return model.Suggestion{}, err
	}
	return result, nil
}

// CallCount returns the number of Suggest calls
func (m *MockSuggester) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
