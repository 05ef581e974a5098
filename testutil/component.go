package testutil

import (
	"context"
	"sync"

	"github.com/kbukum/iocboot/component"
)

// TestComponent extends component.Component with the ability to return to
// its initial state between test cases.
type TestComponent interface {
	component.Component

	// Reset restores the component to its initial state.
	Reset(ctx context.Context) error
}

// MockComponent is a configurable component that records its lifecycle
// calls in a Journal as "start:<name>" and "stop:<name>".
type MockComponent struct {
	name    string
	journal *Journal

	mu       sync.Mutex
	started  bool
	StartErr error
	StopErr  error
	Status   component.HealthStatus
	Message  string
}

var (
	_ TestComponent         = (*MockComponent)(nil)
	_ component.Describable = (*MockComponent)(nil)
)

// NewMockComponent returns a healthy mock. journal may be nil.
func NewMockComponent(name string, journal *Journal) *MockComponent {
	return &MockComponent{name: name, journal: journal, Status: component.StatusHealthy}
}

func (m *MockComponent) Name() string { return m.name }

func (m *MockComponent) Start(context.Context) error {
	if m.StartErr != nil {
		return m.StartErr
	}
	m.mu.Lock()
	m.started = true
	m.mu.Unlock()
	m.journal.Record("start:" + m.name)
	return nil
}

func (m *MockComponent) Stop(context.Context) error {
	m.mu.Lock()
	m.started = false
	m.mu.Unlock()
	m.journal.Record("stop:" + m.name)
	return m.StopErr
}

func (m *MockComponent) Health(context.Context) component.Health {
	return component.Health{Name: m.name, Status: m.Status, Message: m.Message}
}

// Reset clears injected failures and restores a healthy status.
func (m *MockComponent) Reset(context.Context) error {
	m.StartErr, m.StopErr = nil, nil
	m.Status, m.Message = component.StatusHealthy, ""
	return nil
}

// Started reports whether Start succeeded and Stop has not run since.
func (m *MockComponent) Started() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.started
}

// Describe reports the mock in the startup summary.
func (m *MockComponent) Describe() component.Description {
	return component.Description{Name: m.name, Type: "mock", Details: string(m.Status)}
}
