package mocks

import (
	"context"
	"time"

	"github.com/you/parkease/domain"
)

// MockMagicLinkService implements domain.MagicLinkService interface for testing
type MockMagicLinkService struct {
	IssueFunc   func(ctx context.Context, user *domain.User) (*domain.MagicLinkToken, error)
	RequestFunc func(ctx context.Context, email string, channel domain.DeliveryChannel) error
	VerifyFunc  func(ctx context.Context, rawToken string) (*domain.User, error)
}

// NewMockMagicLinkService creates a new MockMagicLinkService with default behaviors
func NewMockMagicLinkService() *MockMagicLinkService {
	return &MockMagicLinkService{}
}

// Issue creates a token for the user
func (m *MockMagicLinkService) Issue(ctx context.Context, user *domain.User) (*domain.MagicLinkToken, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(ctx, user)
	}
	return &domain.MagicLinkToken{
		RawToken:    "raw_token",
		HashedToken: "hashed_token",
		ExpiresAt:   time.Now().Add(domain.MagicLinkTTL),
	}, nil
}

// Request issues and delivers a link
func (m *MockMagicLinkService) Request(ctx context.Context, email string, channel domain.DeliveryChannel) error {
	if m.RequestFunc != nil {
		return m.RequestFunc(ctx, email, channel)
	}
	// Default behavior: success
	return nil
}

// Verify consumes a token
func (m *MockMagicLinkService) Verify(ctx context.Context, rawToken string) (*domain.User, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, rawToken)
	}
	// Default behavior: not found
	return nil, domain.ErrTokenNotFound
}

// Compile-time interface compliance verification
var _ domain.MagicLinkService = (*MockMagicLinkService)(nil)
