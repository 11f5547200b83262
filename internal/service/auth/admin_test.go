package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAdminAuthenticator_Login(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("correct horse", bcrypt.MinCost)
	require.NoError(t, err)

	tokens := newTestJWTService(t, testSecret, time.Hour, time.Now)
	a := NewAdminAuthenticator(hash, NewBcryptVerifier(), tokens)

	token, expiresAt, err := a.Login(context.Background(), "correct horse")
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := tokens.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, AdminSubject, claims.Subject)

	for _, pw := range []string{"", "wrong", "correct horse "} {
		_, _, err := a.Login(context.Background(), pw)
		assert.ErrorIs(t, err, ErrInvalidCredentials, "password %q", pw)
	}
}

func TestHashPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("secret", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NoError(t, NewBcryptVerifier().Compare(hash, "secret"))
	assert.Error(t, NewBcryptVerifier().Compare(hash, "other"))

	_, err = HashPassword("secret", bcrypt.MaxCost+1)
	assert.Error(t, err)
}
