package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/you/parkease/domain"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err      error
		expected int
	}{
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrTokenNotFound, http.StatusUnauthorized},
		{domain.ErrTokenExpired, http.StatusUnauthorized},
		{domain.ErrTokenInvalid, http.StatusUnauthorized},
		{domain.ErrTokenMalformed, http.StatusUnauthorized},
		{domain.ErrSessionNotFound, http.StatusUnauthorized},
		{domain.ErrSessionExpired, http.StatusUnauthorized},
		{domain.ErrUnauthorized, http.StatusUnauthorized},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrNotFound, http.StatusNotFound},
		{domain.ErrUserNotFound, http.StatusNotFound},
		{domain.ErrUserAlreadyExists, http.StatusConflict},
		{domain.ErrTooManyAttempts, http.StatusTooManyRequests},
		{domain.ErrResendThrottled, http.StatusTooManyRequests},
		{domain.ErrInvalidRole, http.StatusBadRequest},
		{fmt.Errorf("%w: radius must be positive", domain.ErrInvalidInput), http.StatusBadRequest},
		{fmt.Errorf("consume: %w", domain.ErrTokenExpired), http.StatusUnauthorized},
		{errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			status, msg := statusFor(tt.err)
			assert.Equal(t, tt.expected, status)
			assert.NotEmpty(t, msg)
		})
	}
}

func TestStatusFor_HidesInternalErrors(t *testing.T) {
	_, msg := statusFor(errors.New("pq: password authentication failed"))
	assert.Equal(t, "Internal server error", msg)
}
