package auth

import (
	"context"
	"time"

	"github.com/phrazzld/creator-api/internal/platform/logger"
)

// AdminSubject is the token subject of the single admin account.
const AdminSubject = "admin"

// AdminAuthenticator exchanges the admin password for a token.
type AdminAuthenticator struct {
	passwordHash string
	verifier     PasswordVerifier
	tokens       JWTService
}

// NewAdminAuthenticator creates an AdminAuthenticator for the given bcrypt hash.
func NewAdminAuthenticator(passwordHash string, verifier PasswordVerifier, tokens JWTService) *AdminAuthenticator {
	return &AdminAuthenticator{passwordHash: passwordHash, verifier: verifier, tokens: tokens}
}

// Login checks password and issues an admin token.
// Returns ErrInvalidCredentials on any mismatch.
func (a *AdminAuthenticator) Login(ctx context.Context, password string) (string, time.Time, error) {
	if password == "" {
		return "", time.Time{}, ErrInvalidCredentials
	}
	if err := a.verifier.Compare(a.passwordHash, password); err != nil {
		logger.FromContext(ctx).Warn("admin login rejected")
		return "", time.Time{}, ErrInvalidCredentials
	}
	return a.tokens.GenerateToken(ctx, AdminSubject)
}
