package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/you/parkease/domain"
	"github.com/you/parkease/internal/mocks"
)

// authServiceDeps bundles the collaborators of AuthServiceImpl so tests can tweak them
type authServiceDeps struct {
	userRepo    *mocks.MockUserRepository
	sessionRepo *mocks.MockSessionRepository
	verifier    *mocks.MockCredentialVerifier
	magicLinks  *mocks.MockMagicLinkService
	limiter     *mocks.MockLoginLimiter
	passwordSvc *mocks.MockPasswordService
	tokenSvc    *mocks.MockTokenService
	audit       *mocks.MockAuditLogger
}

func newAuthServiceDeps() *authServiceDeps {
	return &authServiceDeps{
		userRepo:    mocks.NewMockUserRepository(),
		sessionRepo: mocks.NewMockSessionRepository(),
		verifier:    mocks.NewMockCredentialVerifier(),
		magicLinks:  mocks.NewMockMagicLinkService(),
		limiter:     mocks.NewMockLoginLimiter(),
		passwordSvc: mocks.NewMockPasswordService(),
		tokenSvc:    mocks.NewMockTokenService(),
		audit:       mocks.NewMockAuditLogger(),
	}
}

// createAuthServiceForTest creates an AuthService with mock dependencies for testing
func createAuthServiceForTest(t *testing.T, deps *authServiceDeps) *AuthServiceImpl {
	t.Helper()

	svc := NewAuthService(
		deps.userRepo,
		deps.sessionRepo,
		deps.verifier,
		deps.magicLinks,
		deps.limiter,
		deps.passwordSvc,
		deps.tokenSvc,
		deps.audit,
		AuthConfig{AccessTTL: 15 * time.Minute, RefreshTTL: 7 * 24 * time.Hour},
		zerolog.Nop(),
	).(*AuthServiceImpl)
	svc.newID = func() string { return "sess_test" }
	return svc
}

// createValidUser creates a valid user entity for testing
func createValidUser(t *testing.T) *domain.User {
	t.Helper()

	return &domain.User{
		ID:            1,
		Email:         "test@example.com",
		FirstName:     "Test",
		LastName:      "Driver",
		Phone:         "+1234567890",
		PasswordHash:  "hashed_password123",
		Role:          domain.RoleCustomer,
		EmailVerified: true,
		CreatedAt:     time.Now().Add(-24 * time.Hour),
		UpdatedAt:     time.Now().Add(-1 * time.Hour),
	}
}

// createValidSession creates a valid session entity for testing
func createValidSession(t *testing.T, user *domain.User) *domain.Session {
	t.Helper()

	return &domain.Session{
		ID:         "sess_123",
		UserID:     user.ID,
		Projection: domain.NewSessionProjection(user),
		ExpiresAt:  time.Now().Add(7 * 24 * time.Hour),
		CreatedAt:  time.Now(),
	}
}

// assertAuthResult validates the structure and content of an AuthResult
func assertAuthResult(t *testing.T, result *domain.AuthResult, expectedUser *domain.User) {
	t.Helper()

	if result == nil {
		t.Fatal("AuthResult is nil")
	}
	if result.User.ID != expectedUser.ID {
		t.Errorf("expected user ID %d, got %d", expectedUser.ID, result.User.ID)
	}
	if result.User.Email != expectedUser.Email {
		t.Errorf("expected user email %s, got %s", expectedUser.Email, result.User.Email)
	}
	if result.AccessToken == "" {
		t.Error("AccessToken is empty")
	}
	if result.RefreshToken == "" {
		t.Error("RefreshToken is empty")
	}
	if result.SessionID == "" {
		t.Error("SessionID is empty")
	}
	if result.ExpiresIn <= 0 {
		t.Errorf("expected positive ExpiresIn, got %d", result.ExpiresIn)
	}
}

// createTestContext creates a context for testing with timeout
func createTestContext(t *testing.T) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// setupTestRedis creates an in-memory Redis instance for testing
func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

// fakeClock is a settable time source for services with a nowFn
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }
