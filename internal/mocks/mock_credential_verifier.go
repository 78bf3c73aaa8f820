package mocks

import (
	"context"

	"github.com/you/parkease/domain"
)

// MockCredentialVerifier implements domain.CredentialVerifier interface for testing
type MockCredentialVerifier struct {
	VerifyFunc func(ctx context.Context, email, password string) (*domain.SessionProjection, error)
}

func NewMockCredentialVerifier() *MockCredentialVerifier {
	return &MockCredentialVerifier{}
}

// Verify checks the credentials
func (m *MockCredentialVerifier) Verify(ctx context.Context, email, password string) (*domain.SessionProjection, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, email, password)
	}
	// Default behavior: reject
	return nil, domain.ErrInvalidCredentials
}

var _ domain.CredentialVerifier = (*MockCredentialVerifier)(nil)
