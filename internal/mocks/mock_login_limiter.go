package mocks

import (
	"context"

	"github.com/you/parkease/domain"
)

// MockLoginLimiter implements domain.LoginLimiter interface for testing
type MockLoginLimiter struct {
	CheckFunc         func(ctx context.Context, email string) error
	RecordFailureFunc func(ctx context.Context, email string) error
	ResetFunc         func(ctx context.Context, email string) error
}

// NewMockLoginLimiter creates a limiter that never blocks
func NewMockLoginLimiter() *MockLoginLimiter {
	return &MockLoginLimiter{}
}

func (m *MockLoginLimiter) Check(ctx context.Context, email string) error {
	if m.CheckFunc != nil {
		return m.CheckFunc(ctx, email)
	}
	return nil
}

func (m *MockLoginLimiter) RecordFailure(ctx context.Context, email string) error {
	if m.RecordFailureFunc != nil {
		return m.RecordFailureFunc(ctx, email)
	}
	return nil
}

func (m *MockLoginLimiter) Reset(ctx context.Context, email string) error {
	if m.ResetFunc != nil {
		return m.ResetFunc(ctx, email)
	}
	return nil
}

var _ domain.LoginLimiter = (*MockLoginLimiter)(nil)
