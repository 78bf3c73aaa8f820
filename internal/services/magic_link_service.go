package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/you/parkease/domain"
)

// MagicLinkConfig holds delivery settings for magic links
type MagicLinkConfig struct {
	BaseURL      string
	ResendWindow time.Duration
}

// MagicLinkServiceImpl implements domain.MagicLinkService.
// Tokens live on the user row; the resend throttle lives in Redis.
type MagicLinkServiceImpl struct {
	userRepo    domain.UserRepository
	notifier    domain.NotificationService
	redisClient *redis.Client
	audit       domain.AuditLogger
	config      MagicLinkConfig
	log         zerolog.Logger
	nowFn       func() time.Time
}

// NewMagicLinkService creates a new magic link service. redisClient may be nil to disable throttling.
func NewMagicLinkService(
	userRepo domain.UserRepository,
	notifier domain.NotificationService,
	redisClient *redis.Client,
	audit domain.AuditLogger,
	config MagicLinkConfig,
	log zerolog.Logger,
) domain.MagicLinkService {
	return &MagicLinkServiceImpl{
		userRepo:    userRepo,
		notifier:    notifier,
		redisClient: redisClient,
		audit:       audit,
		config:      config,
		log:         log.With().Str("component", "magic_link").Logger(),
		nowFn:       time.Now,
	}
}

// Issue implements domain.MagicLinkService. Any earlier token of the user is replaced.
func (s *MagicLinkServiceImpl) Issue(ctx context.Context, user *domain.User) (*domain.MagicLinkToken, error) {
	token, err := GenerateMagicLinkToken(s.nowFn())
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.SetMagicLinkToken(ctx, user.ID, token.HashedToken, token.ExpiresAt); err != nil {
		return nil, fmt.Errorf("failed to store magic link token: %w", err)
	}

	s.logEvent(ctx, domain.NewAuditEvent(domain.MagicLinkIssuedEvent, user.ID).WithEmail(user.Email))
	return token, nil
}

// Request implements domain.MagicLinkService. Unknown emails succeed without sending anything.
func (s *MagicLinkServiceImpl) Request(ctx context.Context, email string, channel domain.DeliveryChannel) error {
	email = normalizeEmail(email)
	if channel == "" {
		channel = domain.ChannelEmail
	}
	if channel != domain.ChannelEmail && channel != domain.ChannelSMS {
		return fmt.Errorf("%w: unsupported delivery channel %q", domain.ErrInvalidInput, channel)
	}

	// throttle before the lookup so registered and unknown emails behave alike
	resendKey := "magic:res:" + email
	if err := s.acquireResendSlot(ctx, resendKey); err != nil {
		return err
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.log.Debug().Str("email", email).Msg("magic link requested for unknown email")
			return nil
		}
		return err
	}

	token, err := s.Issue(ctx, user)
	if err != nil {
		s.releaseResendSlot(ctx, resendKey)
		return err
	}

	link, err := s.buildLink(token.RawToken)
	if err != nil {
		s.releaseResendSlot(ctx, resendKey)
		return err
	}

	if err := s.deliver(user, channel, link); err != nil {
		s.releaseResendSlot(ctx, resendKey)
		return fmt.Errorf("failed to deliver magic link: %w", err)
	}
	return nil
}

// Verify implements domain.MagicLinkService. It consumes the token but creates no session.
func (s *MagicLinkServiceImpl) Verify(ctx context.Context, rawToken string) (*domain.User, error) {
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return nil, domain.ErrTokenNotFound
	}

	user, err := s.userRepo.ConsumeMagicLinkToken(ctx, HashMagicLinkToken(rawToken), s.nowFn())
	if err != nil {
		if errors.Is(err, domain.ErrTokenNotFound) || errors.Is(err, domain.ErrTokenExpired) {
			s.logEvent(ctx, domain.NewAuditEvent(domain.MagicLinkRejectedEvent, 0).WithError(err))
		}
		return nil, err
	}

	s.logEvent(ctx, domain.NewAuditEvent(domain.MagicLinkConsumedEvent, user.ID).WithEmail(user.Email))
	return user, nil
}

func (s *MagicLinkServiceImpl) deliver(user *domain.User, channel domain.DeliveryChannel, link string) error {
	minutes := int(domain.MagicLinkTTL.Minutes())
	if channel == domain.ChannelSMS {
		if user.Phone != "" {
			return s.notifier.SendSMS(user.Phone, fmt.Sprintf("Your ParkEase sign-in link: %s (valid %d minutes)", link, minutes))
		}
		s.log.Info().Uint("user_id", user.ID).Msg("no phone on file, sending magic link by email")
	}
	body := fmt.Sprintf("Use this link to sign in to ParkEase: %s\nIt expires in %d minutes and works once.", link, minutes)
	return s.notifier.SendEmail(user.Email, "Your ParkEase sign-in link", body)
}

func (s *MagicLinkServiceImpl) buildLink(rawToken string) (string, error) {
	u, err := url.Parse(s.config.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid magic link base url: %w", err)
	}
	q := u.Query()
	q.Set("token", rawToken)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (s *MagicLinkServiceImpl) acquireResendSlot(ctx context.Context, key string) error {
	if s.redisClient == nil || s.config.ResendWindow <= 0 {
		return nil
	}
	ok, err := s.redisClient.SetNX(ctx, key, 1, s.config.ResendWindow).Result()
	if err != nil {
		return fmt.Errorf("failed to check resend throttle: %w", err)
	}
	if !ok {
		return domain.ErrResendThrottled
	}
	return nil
}

func (s *MagicLinkServiceImpl) releaseResendSlot(ctx context.Context, key string) {
	if s.redisClient == nil {
		return
	}
	if err := s.redisClient.Del(ctx, key).Err(); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("failed to release resend throttle")
	}
}

func (s *MagicLinkServiceImpl) logEvent(ctx context.Context, event *domain.AuditEvent) {
	if s.audit == nil {
		return
	}
	if err := s.audit.LogEvent(ctx, event); err != nil {
		s.log.Warn().Err(err).Str("event_type", string(event.EventType)).Msg("failed to record audit event")
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
