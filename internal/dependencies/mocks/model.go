package mocks

import (
	"context"
	"sync"
)

// ModelCall records one prompt sent to a MockModel
type ModelCall struct {
	System string
	User   string
}

// MockModel is a scripted chat model for testing
type MockModel struct {
	mu sync.Mutex

	// Reply and Err are returned from every call
	Reply string
	Err   error

	Calls []ModelCall
}

// NewMockModel creates a MockModel that always answers with reply
func NewMockModel(reply string) *MockModel {
	return &MockModel{Reply: reply}
}

// Complete records the prompt and returns the scripted reply
func (m *MockModel) Complete(_ context.Context, system, user string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, ModelCall{System: system, User: user})
	if m.Err != nil {
		return "", m.Err
	}
	return m.Reply, nil
}

// SetReply replaces the scripted reply
func (m *MockModel) SetReply(reply string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Reply = reply
	m.Err = err
}

// CallCount returns the number of Complete calls
func (m *MockModel) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
