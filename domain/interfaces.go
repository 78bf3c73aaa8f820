package domain

import (
	"context"
	"time"
)

// UserRepository defines user data access operations
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id uint) (*User, error)
	UpdateProfile(ctx context.Context, id uint, update ProfileUpdate) (*User, error)
	MarkEmailVerified(ctx context.Context, id uint) error
	// SetMagicLinkToken stores a token hash and expiry on the user, replacing any previous one.
	SetMagicLinkToken(ctx context.Context, id uint, tokenHash string, expiresAt time.Time) error
	// ConsumeMagicLinkToken atomically clears the matching hash if it is unexpired at now.
	// It returns ErrTokenNotFound for unknown or already consumed hashes and
	// ErrTokenExpired when the hash matches but now is at or past the expiry.
	ConsumeMagicLinkToken(ctx context.Context, tokenHash string, now time.Time) (*User, error)
}

// SessionRepository defines session data access operations
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	FindByID(ctx context.Context, sessionID string) (*Session, error)
	Update(ctx context.Context, session *Session) error
	Delete(ctx context.Context, sessionID string) error
}

// VehicleRepository defines owner-scoped vehicle access
type VehicleRepository interface {
	Create(ctx context.Context, vehicle *Vehicle) error
	ListByOwner(ctx context.Context, ownerID uint) ([]Vehicle, error)
	FindForOwner(ctx context.Context, id, ownerID uint) (*Vehicle, error)
	DeleteForOwner(ctx context.Context, id, ownerID uint) error
}

// BookingRepository defines owner-scoped booking retrieval
type BookingRepository interface {
	ListByUser(ctx context.Context, userID uint) ([]Booking, error)
	FindForUser(ctx context.Context, id, userID uint) (*Booking, error)
}

// LocationRepository defines parking location access
type LocationRepository interface {
	List(ctx context.Context) ([]Location, error)
	FindByID(ctx context.Context, id uint) (*Location, error)
}

// CredentialVerifier checks an email/password pair
type CredentialVerifier interface {
	Verify(ctx context.Context, email, password string) (*SessionProjection, error)
}

// MagicLinkService issues and verifies passwordless login tokens
type MagicLinkService interface {
	Issue(ctx context.Context, user *User) (*MagicLinkToken, error)
	Request(ctx context.Context, email string, channel DeliveryChannel) error
	Verify(ctx context.Context, rawToken string) (*User, error)
}

// LoginLimiter throttles repeated failed logins per email
type LoginLimiter interface {
	Check(ctx context.Context, email string) error
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}

// AuthService defines authentication business logic
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*User, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	LoginWithMagicLink(ctx context.Context, rawToken string) (*AuthResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (*AuthResult, error)
	Logout(ctx context.Context, sessionID string) error
	GetProfile(ctx context.Context, userID uint) (*SessionProjection, error)
	UpdateProfile(ctx context.Context, sessionID string, userID uint, update ProfileUpdate) (*SessionProjection, error)
}

// LocationService defines location queries
type LocationService interface {
	List(ctx context.Context) ([]Location, error)
	Get(ctx context.Context, id uint) (*Location, error)
	Nearby(ctx context.Context, lat, lng, radiusKm float64) ([]NearbyLocation, error)
}

// PasswordService defines password operations
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
}

// TokenService defines token operations
type TokenService interface {
	GenerateAccessToken(userID uint, role Role, sessionID string) (string, error)
	GenerateRefreshToken(userID uint, role Role, sessionID string) (string, error)
	ValidateAccessToken(token string) (*TokenClaims, error)
	ValidateRefreshToken(token string) (*TokenClaims, error)
}

// NotificationService defines notification operations
type NotificationService interface {
	SendSMS(to, message string) error
	SendEmail(to, subject, body string) error
}

// PolicyService defines authorization policy operations
type PolicyService interface {
	AddPolicy(role, resource, action string) error
	RemovePolicy(role, resource, action string) error
	CheckPermission(role, resource, action string) (bool, error)
	GetPolicies() [][]string
}

// TokenClaims represents JWT token claims
type TokenClaims struct {
	UserID    uint   `json:"user_id"`
	Role      Role   `json:"role"`
	SessionID string `json:"session_id,omitempty"`
	TokenType string `json:"typ"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// CasbinEnforcer interface defines the methods we need from Casbin enforcer
type CasbinEnforcer interface {
	AddPolicy(params ...interface{}) (bool, error)
	RemovePolicy(params ...interface{}) (bool, error)
	Enforce(rvals ...interface{}) (bool, error)
	GetPolicy() ([][]string, error)
	SavePolicy() error
}
