// Package auth verifies admin credentials for the back-office. The
// password is only ever handled as a bcrypt hash.
package auth

import (
	"context"
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"pizzeria/internal/models"
)

// Service verifies that a caller holds admin capability.
type Service interface {
	VerifyAdmin(ctx context.Context, username, password string) error
}

type bcryptService struct {
	adminUser    string
	passwordHash []byte
}

// New creates a credential verifier for the configured admin account.
func New(adminUser, passwordHash string) (Service, error) {
	if adminUser == "" {
		return nil, fmt.Errorf("admin user must be configured")
	}
	if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
		return nil, fmt.Errorf("admin password hash is not a valid bcrypt hash: %w", err)
	}
	return &bcryptService{
		adminUser:    adminUser,
		passwordHash: []byte(passwordHash),
	}, nil
}

// VerifyAdmin compares the supplied credentials against the configured
// account. Any mismatch returns models.ErrForbidden without revealing
// which part failed.
func (s *bcryptService) VerifyAdmin(_ context.Context, username, password string) error {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.adminUser)) == 1
	passErr := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password))
	if !userOK || passErr != nil {
		return fmt.Errorf("admin credentials rejected: %w", models.ErrForbidden)
	}
	return nil
}

// HashPassword produces a bcrypt hash for storing in configuration.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
