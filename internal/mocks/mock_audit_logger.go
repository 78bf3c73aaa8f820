package mocks

import (
	"context"
	"sync"

	"github.com/you/parkease/domain"
)

// MockAuditLogger records every event it receives
type MockAuditLogger struct {
	LogEventFunc func(ctx context.Context, event *domain.AuditEvent) error

	mu     sync.Mutex
	Events []*domain.AuditEvent
}

// NewMockAuditLogger creates a new MockAuditLogger
func NewMockAuditLogger() *MockAuditLogger {
	return &MockAuditLogger{}
}

// LogEvent stores the event
func (m *MockAuditLogger) LogEvent(ctx context.Context, event *domain.AuditEvent) error {
	m.mu.Lock()
	m.Events = append(m.Events, event)
	m.mu.Unlock()
	if m.LogEventFunc != nil {
		return m.LogEventFunc(ctx, event)
	}
	return nil
}

// Types returns the recorded event types in order
func (m *MockAuditLogger) Types() []domain.AuditEventType {
	m.mu.Lock()
	defer m.mu.Unlock()

	types := make([]domain.AuditEventType, 0, len(m.Events))
	for _, e := range m.Events {
		types = append(types, e.EventType)
	}
	return types
}

var _ domain.AuditLogger = (*MockAuditLogger)(nil)
