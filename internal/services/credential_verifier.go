package services

import (
	"context"
	"errors"

	"github.com/you/parkease/domain"
)

// CredentialVerifierImpl implements domain.CredentialVerifier
type CredentialVerifierImpl struct {
	userRepo    domain.UserRepository
	passwordSvc domain.PasswordService
}

// NewCredentialVerifier creates a new credential verifier
func NewCredentialVerifier(userRepo domain.UserRepository, passwordSvc domain.PasswordService) domain.CredentialVerifier {
	return &CredentialVerifierImpl{userRepo: userRepo, passwordSvc: passwordSvc}
}

// Verify implements domain.CredentialVerifier.
// Unknown email and wrong password return the same error.
func (v *CredentialVerifierImpl) Verify(ctx context.Context, email, password string) (*domain.SessionProjection, error) {
	user, err := v.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if user.PasswordHash == "" || !v.passwordSvc.Verify(user.PasswordHash, password) {
		return nil, domain.ErrInvalidCredentials
	}

	projection := domain.NewSessionProjection(user)
	return &projection, nil
}
