package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/you/parkease/domain"
)

// LoginLimiterImpl implements domain.LoginLimiter with a Redis counter per email
type LoginLimiterImpl struct {
	client      *redis.Client
	maxAttempts int
	window      time.Duration
}

// NewLoginLimiter creates a limiter; maxAttempts of 0 disables it
func NewLoginLimiter(client *redis.Client, maxAttempts int, window time.Duration) domain.LoginLimiter {
	return &LoginLimiterImpl{client: client, maxAttempts: maxAttempts, window: window}
}

func (l *LoginLimiterImpl) key(email string) string {
	return "login:fail:" + email
}

func (l *LoginLimiterImpl) disabled() bool {
	return l.client == nil || l.maxAttempts <= 0
}

// Check implements domain.LoginLimiter
func (l *LoginLimiterImpl) Check(ctx context.Context, email string) error {
	if l.disabled() {
		return nil
	}
	count, err := l.client.Get(ctx, l.key(email)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("failed to read login attempts: %w", err)
	}
	if count >= l.maxAttempts {
		return domain.ErrTooManyAttempts
	}
	return nil
}

// RecordFailure implements domain.LoginLimiter. The window starts at the first failure;
// the key is created with its TTL in the same transaction as the increment.
func (l *LoginLimiterImpl) RecordFailure(ctx context.Context, email string) error {
	if l.disabled() {
		return nil
	}
	key := l.key(email)
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SetNX(ctx, key, 0, l.window)
		pipe.Incr(ctx, key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to record login failure: %w", err)
	}
	return nil
}

// Reset implements domain.LoginLimiter
func (l *LoginLimiterImpl) Reset(ctx context.Context, email string) error {
	if l.disabled() {
		return nil
	}
	return l.client.Del(ctx, l.key(email)).Err()
}
