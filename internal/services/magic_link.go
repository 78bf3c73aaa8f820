package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/you/parkease/domain"
)

const magicLinkTokenBytes = 32

// GenerateMagicLinkToken creates a 256-bit token rendered as 64 hex characters,
// its SHA-256 hash and an expiry one MagicLinkTTL after now.
func GenerateMagicLinkToken(now time.Time) (*domain.MagicLinkToken, error) {
	buf := make([]byte, magicLinkTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("failed to read random bytes: %w", err)
	}
	raw := hex.EncodeToString(buf)

	return &domain.MagicLinkToken{
		RawToken:    raw,
		HashedToken: HashMagicLinkToken(raw),
		ExpiresAt:   now.Add(domain.MagicLinkTTL),
	}, nil
}

// HashMagicLinkToken returns the hex SHA-256 digest stored in place of the raw token
func HashMagicLinkToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
