package mocks

import (
	"context"
	"time"

	"github.com/you/parkease/domain"
)

// MockUserRepository implements domain.UserRepository interface for testing
type MockUserRepository struct {
	CreateFunc                func(ctx context.Context, user *domain.User) error
	FindByEmailFunc           func(ctx context.Context, email string) (*domain.User, error)
	FindByIDFunc              func(ctx context.Context, id uint) (*domain.User, error)
	UpdateProfileFunc         func(ctx context.Context, id uint, update domain.ProfileUpdate) (*domain.User, error)
	MarkEmailVerifiedFunc     func(ctx context.Context, id uint) error
	SetMagicLinkTokenFunc     func(ctx context.Context, id uint, tokenHash string, expiresAt time.Time) error
	ConsumeMagicLinkTokenFunc func(ctx context.Context, tokenHash string, now time.Time) (*domain.User, error)
}

// NewMockUserRepository creates a new MockUserRepository with default behaviors
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{}
}

// Create creates a new user
func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	// Default behavior: success
	return nil
}

// FindByEmail finds a user by email
func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	// Default behavior: not found
	return nil, domain.ErrUserNotFound
}

// FindByID finds a user by ID
func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	// Default behavior: not found
	return nil, domain.ErrUserNotFound
}

// UpdateProfile applies a partial profile update
func (m *MockUserRepository) UpdateProfile(ctx context.Context, id uint, update domain.ProfileUpdate) (*domain.User, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, id, update)
	}
	// Default behavior: not found
	return nil, domain.ErrUserNotFound
}

// MarkEmailVerified flags the user's email as verified
func (m *MockUserRepository) MarkEmailVerified(ctx context.Context, id uint) error {
	if m.MarkEmailVerifiedFunc != nil {
		return m.MarkEmailVerifiedFunc(ctx, id)
	}
	// Default behavior: success
	return nil
}

// SetMagicLinkToken stores a magic link hash
func (m *MockUserRepository) SetMagicLinkToken(ctx context.Context, id uint, tokenHash string, expiresAt time.Time) error {
	if m.SetMagicLinkTokenFunc != nil {
		return m.SetMagicLinkTokenFunc(ctx, id, tokenHash, expiresAt)
	}
	// Default behavior: success
	return nil
}

// ConsumeMagicLinkToken clears a matching magic link hash
func (m *MockUserRepository) ConsumeMagicLinkToken(ctx context.Context, tokenHash string, now time.Time) (*domain.User, error) {
	if m.ConsumeMagicLinkTokenFunc != nil {
		return m.ConsumeMagicLinkTokenFunc(ctx, tokenHash, now)
	}
	// Default behavior: not found
	return nil, domain.ErrTokenNotFound
}

// Compile-time interface compliance verification
var _ domain.UserRepository = (*MockUserRepository)(nil)
