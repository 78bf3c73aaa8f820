package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/you/parkease/domain"
)

const minPasswordLength = 8

// AuthConfig holds token lifetimes used when establishing sessions
type AuthConfig struct {
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// AuthServiceImpl implements domain.AuthService
type AuthServiceImpl struct {
	userRepo    domain.UserRepository
	sessionRepo domain.SessionRepository
	verifier    domain.CredentialVerifier
	magicLinks  domain.MagicLinkService
	limiter     domain.LoginLimiter
	passwordSvc domain.PasswordService
	tokenSvc    domain.TokenService
	audit       domain.AuditLogger
	config      AuthConfig
	log         zerolog.Logger
	nowFn       func() time.Time
	newID       func() string
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo domain.UserRepository,
	sessionRepo domain.SessionRepository,
	verifier domain.CredentialVerifier,
	magicLinks domain.MagicLinkService,
	limiter domain.LoginLimiter,
	passwordSvc domain.PasswordService,
	tokenSvc domain.TokenService,
	audit domain.AuditLogger,
	config AuthConfig,
	log zerolog.Logger,
) domain.AuthService {
	return &AuthServiceImpl{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		verifier:    verifier,
		magicLinks:  magicLinks,
		limiter:     limiter,
		passwordSvc: passwordSvc,
		tokenSvc:    tokenSvc,
		audit:       audit,
		config:      config,
		log:         log.With().Str("component", "auth").Logger(),
		nowFn:       time.Now,
		newID:       uuid.NewString,
	}
}

// Register implements domain.AuthService
func (s *AuthServiceImpl) Register(ctx context.Context, input domain.RegisterInput) (*domain.User, error) {
	email := normalizeEmail(input.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: a valid email is required", domain.ErrInvalidInput)
	}
	if len(input.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minPasswordLength)
	}

	role := domain.RoleCustomer
	if input.Role != "" {
		parsed, err := domain.ParseRole(string(input.Role))
		if err != nil {
			return nil, err
		}
		role = parsed
	}
	if !role.SelfAssignable() {
		return nil, domain.ErrForbidden
	}

	// Check if user already exists
	if existing, err := s.userRepo.FindByEmail(ctx, email); err == nil && existing != nil {
		return nil, domain.ErrUserAlreadyExists
	} else if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hashedPassword, err := s.passwordSvc.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: hashedPassword,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Phone:        strings.TrimSpace(input.Phone),
		Role:         role,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logEvent(ctx, domain.NewAuditEvent(domain.UserRegistrationEvent, user.ID).
		WithEmail(user.Email).
		WithMetadata("role", string(role)))
	return user, nil
}

// Login implements domain.AuthService
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	email = normalizeEmail(email)

	if err := s.limiter.Check(ctx, email); err != nil {
		s.logEvent(ctx, domain.NewAuditEvent(domain.UserLoginFailureEvent, 0).WithEmail(email).WithError(err))
		return nil, err
	}

	projection, err := s.verifier.Verify(ctx, email, password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			if lerr := s.limiter.RecordFailure(ctx, email); lerr != nil {
				s.log.Warn().Err(lerr).Msg("failed to record login failure")
			}
			s.logEvent(ctx, domain.NewAuditEvent(domain.UserLoginFailureEvent, 0).WithEmail(email).WithError(err))
		}
		return nil, err
	}

	if err := s.limiter.Reset(ctx, email); err != nil {
		s.log.Warn().Err(err).Msg("failed to reset login failures")
	}

	result, err := s.establishSession(ctx, *projection)
	if err != nil {
		return nil, err
	}

	s.logEvent(ctx, domain.NewAuditEvent(domain.UserLoginEvent, projection.ID).
		WithEmail(projection.Email).
		WithSession(result.SessionID).
		WithMetadata("method", "password"))
	return result, nil
}

// LoginWithMagicLink implements domain.AuthService.
// A consumed link proves control of the mailbox, so the email becomes verified.
func (s *AuthServiceImpl) LoginWithMagicLink(ctx context.Context, rawToken string) (*domain.AuthResult, error) {
	user, err := s.magicLinks.Verify(ctx, rawToken)
	if err != nil {
		return nil, err
	}

	if !user.EmailVerified {
		if err := s.userRepo.MarkEmailVerified(ctx, user.ID); err != nil {
			return nil, fmt.Errorf("failed to mark email verified: %w", err)
		}
		user.EmailVerified = true
	}

	result, err := s.establishSession(ctx, domain.NewSessionProjection(user))
	if err != nil {
		return nil, err
	}

	s.logEvent(ctx, domain.NewAuditEvent(domain.UserLoginEvent, user.ID).
		WithEmail(user.Email).
		WithSession(result.SessionID).
		WithMetadata("method", "magic_link"))
	return result, nil
}

// RefreshToken implements domain.AuthService
func (s *AuthServiceImpl) RefreshToken(ctx context.Context, refreshToken string) (*domain.AuthResult, error) {
	claims, err := s.tokenSvc.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}

	session, err := s.sessionRepo.FindByID(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != claims.UserID {
		return nil, domain.ErrTokenInvalid
	}

	accessToken, err := s.tokenSvc.GenerateAccessToken(session.UserID, session.Projection.Role, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &domain.AuthResult{
		User:         session.Projection,
		AccessToken:  accessToken,
		RefreshToken: refreshToken, // Keep same refresh token
		SessionID:    session.ID,
		ExpiresIn:    int64(s.config.AccessTTL.Seconds()),
	}, nil
}

// Logout implements domain.AuthService
func (s *AuthServiceImpl) Logout(ctx context.Context, sessionID string) error {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil && !errors.Is(err, domain.ErrSessionNotFound) && !errors.Is(err, domain.ErrSessionExpired) {
		return err
	}
	if err := s.sessionRepo.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	event := domain.NewAuditEvent(domain.UserLogoutEvent, 0).WithSession(sessionID)
	if session != nil {
		event.UserID = session.UserID
		event.Email = session.Projection.Email
	}
	s.logEvent(ctx, event)
	return nil
}

// GetProfile implements domain.AuthService
func (s *AuthServiceImpl) GetProfile(ctx context.Context, userID uint) (*domain.SessionProjection, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	projection := domain.NewSessionProjection(user)
	return &projection, nil
}

// UpdateProfile implements domain.AuthService. The stored session sees the new projection.
func (s *AuthServiceImpl) UpdateProfile(ctx context.Context, sessionID string, userID uint, update domain.ProfileUpdate) (*domain.SessionProjection, error) {
	if update.Empty() {
		return s.GetProfile(ctx, userID)
	}

	user, err := s.userRepo.UpdateProfile(ctx, userID, update)
	if err != nil {
		return nil, err
	}
	projection := domain.NewSessionProjection(user)

	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err == nil && session.UserID == userID {
		session.Projection = projection
		if err := s.sessionRepo.Update(ctx, session); err != nil {
			s.log.Warn().Err(err).Str("session_id", sessionID).Msg("failed to refresh session projection")
		}
	}

	return &projection, nil
}

// establishSession stores a new session and issues its token pair
func (s *AuthServiceImpl) establishSession(ctx context.Context, projection domain.SessionProjection) (*domain.AuthResult, error) {
	now := s.nowFn()
	session := &domain.Session{
		ID:         s.newID(),
		UserID:     projection.ID,
		Projection: projection,
		ExpiresAt:  now.Add(s.config.RefreshTTL),
		CreatedAt:  now,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	accessToken, err := s.tokenSvc.GenerateAccessToken(projection.ID, projection.Role, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.tokenSvc.GenerateRefreshToken(projection.ID, projection.Role, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &domain.AuthResult{
		User:         projection,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		SessionID:    session.ID,
		ExpiresIn:    int64(s.config.AccessTTL.Seconds()),
	}, nil
}

func (s *AuthServiceImpl) logEvent(ctx context.Context, event *domain.AuditEvent) {
	if s.audit == nil {
		return
	}
	if err := s.audit.LogEvent(ctx, event); err != nil {
		s.log.Warn().Err(err).Str("event_type", string(event.EventType)).Msg("failed to record audit event")
	}
}
