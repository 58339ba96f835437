package inject

import (
	"sync"

	"github.com/ayusman/mudra/internal/pipeline"
)

// MockInjector records sent events for testing.
type MockInjector struct {
	mu     sync.Mutex
	events []pipeline.CommandEvent
	err    error
	closed bool
}

// NewMockInjector creates a MockInjector.
func NewMockInjector() *MockInjector {
	return &MockInjector{}
}

// Send records the event, or returns the configured error.
func (m *MockInjector) Send(event *pipeline.CommandEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}
	if event != nil {
		m.events = append(m.events, *event)
	}
	return nil
}

// Close marks the injector closed.
func (m *MockInjector) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// SetError makes subsequent Sends fail with err.
func (m *MockInjector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Events returns a copy of all recorded events.
func (m *MockInjector) Events() []pipeline.CommandEvent {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]pipeline.CommandEvent, len(m.events))
	copy(out, m.events)
	return out
}

// Closed reports whether Close was called.
func (m *MockInjector) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
