package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"pizzeria/internal/models"
)

func TestVerifyAdmin(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)

	svc, err := New("admin", hash)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, svc.VerifyAdmin(ctx, "admin", "correct horse battery staple"))

	err = svc.VerifyAdmin(ctx, "admin", "wrong password")
	require.ErrorIs(t, err, models.ErrForbidden)

	err = svc.VerifyAdmin(ctx, "intruder", "correct horse battery staple")
	require.ErrorIs(t, err, models.ErrForbidden)
}

func TestNew_RejectsBadConfig(t *testing.T) {
	_, err := New("", "$2a$10$whatever")
	require.Error(t, err)

	_, err = New("admin", "plaintext-password")
	require.Error(t, err, "a plaintext password must not be accepted as a hash")
}
