package mocks

import (
	"context"
	"sync"

	"commitsugar/internal/models"
)

type ConfigResolverMock struct {
	ResolveFunc func(ctx context.Context) models.Config
}

func (m *ConfigResolverMock) Resolve(ctx context.Context) models.Config {
	if m.ResolveFunc != nil {
		return m.ResolveFunc(ctx)
	}
	cfg := models.DefaultConfig()
	cfg.APIKey = "test-key"
	return cfg
}

type WorkingStateCollectorMock struct {
	CollectFunc func(ctx context.Context, repoPath string, backend string) string

	mu    sync.Mutex
	calls int
}

func (m *WorkingStateCollectorMock) Collect(ctx context.Context, repoPath string, backend string) string {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.CollectFunc != nil {
		return m.CollectFunc(ctx, repoPath, backend)
	}
	return ""
}

func (m *WorkingStateCollectorMock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MessageSinkMock records every value written to it.
type MessageSinkMock struct {
	SetValueFunc func(value string)

	mu     sync.Mutex
	values []string
}

func (m *MessageSinkMock) SetValue(value string) {
	m.mu.Lock()
	m.values = append(m.values, value)
	m.mu.Unlock()
	if m.SetValueFunc != nil {
		m.SetValueFunc(value)
	}
}

func (m *MessageSinkMock) Values() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.values...)
}

// Last returns the latest value, or "" when nothing was written.
func (m *MessageSinkMock) Last() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.values) == 0 {
		return ""
	}
	return m.values[len(m.values)-1]
}
