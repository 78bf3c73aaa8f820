package mocks

import (
	"context"

	"github.com/you/parkease/domain"
)

// MockAuthService implements domain.AuthService interface for testing
type MockAuthService struct {
	RegisterFunc           func(ctx context.Context, input domain.RegisterInput) (*domain.User, error)
	LoginFunc              func(ctx context.Context, email, password string) (*domain.AuthResult, error)
	LoginWithMagicLinkFunc func(ctx context.Context, rawToken string) (*domain.AuthResult, error)
	RefreshTokenFunc       func(ctx context.Context, refreshToken string) (*domain.AuthResult, error)
	LogoutFunc             func(ctx context.Context, sessionID string) error
	GetProfileFunc         func(ctx context.Context, userID uint) (*domain.SessionProjection, error)
	UpdateProfileFunc      func(ctx context.Context, sessionID string, userID uint, update domain.ProfileUpdate) (*domain.SessionProjection, error)
}

// NewMockAuthService creates a new MockAuthService with default behaviors
func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

// Register registers a new user
func (m *MockAuthService) Register(ctx context.Context, input domain.RegisterInput) (*domain.User, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, input)
	}
	// Default behavior: return a mock user
	return &domain.User{
		ID:           1,
		Email:        input.Email,
		PasswordHash: "hashed_" + input.Password,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Phone:        input.Phone,
		Role:         input.Role,
	}, nil
}

// Login authenticates with email and password
func (m *MockAuthService) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return mockAuthResult(email), nil
}

// LoginWithMagicLink authenticates with a magic link token
func (m *MockAuthService) LoginWithMagicLink(ctx context.Context, rawToken string) (*domain.AuthResult, error) {
	if m.LoginWithMagicLinkFunc != nil {
		return m.LoginWithMagicLinkFunc(ctx, rawToken)
	}
	return mockAuthResult("user@example.com"), nil
}

// RefreshToken issues a new access token
func (m *MockAuthService) RefreshToken(ctx context.Context, refreshToken string) (*domain.AuthResult, error) {
	if m.RefreshTokenFunc != nil {
		return m.RefreshTokenFunc(ctx, refreshToken)
	}
	result := mockAuthResult("user@example.com")
	result.RefreshToken = refreshToken
	return result, nil
}

// Logout ends a session
func (m *MockAuthService) Logout(ctx context.Context, sessionID string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, sessionID)
	}
	// Default behavior: success
	return nil
}

// GetProfile returns the user's projection
func (m *MockAuthService) GetProfile(ctx context.Context, userID uint) (*domain.SessionProjection, error) {
	if m.GetProfileFunc != nil {
		return m.GetProfileFunc(ctx, userID)
	}
	return &domain.SessionProjection{ID: userID, Email: "user@example.com", Role: domain.RoleCustomer}, nil
}

// UpdateProfile changes profile fields
func (m *MockAuthService) UpdateProfile(ctx context.Context, sessionID string, userID uint, update domain.ProfileUpdate) (*domain.SessionProjection, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, sessionID, userID, update)
	}
	return &domain.SessionProjection{ID: userID, Email: "user@example.com", Role: domain.RoleCustomer}, nil
}

func mockAuthResult(email string) *domain.AuthResult {
	return &domain.AuthResult{
		User:         domain.SessionProjection{ID: 1, Email: email, Role: domain.RoleCustomer},
		AccessToken:  "mock_access_token",
		RefreshToken: "mock_refresh_token",
		SessionID:    "mock_session_id",
		ExpiresIn:    900,
	}
}

// Compile-time interface compliance verification
var _ domain.AuthService = (*MockAuthService)(nil)
