package auth

import (
	"context"
	"time"
)

// RoleAdmin is the only role the API issues tokens for.
const RoleAdmin = "admin"

// JWTService defines operations for managing admin JWT tokens.
type JWTService interface {
	// GenerateToken creates a signed admin token for subject.
	// Returns the token string and its expiry.
	GenerateToken(ctx context.Context, subject string) (string, time.Time, error)

	// ValidateToken validates the provided token string and extracts the claims.
	// Returns an error if validation fails (expired, invalid signature, wrong role, etc.).
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the custom claims structure for the JWT tokens.
type Claims struct {
	// Role is the access level granted by the token.
	Role string `json:"role,omitempty"`

	// Standard registered JWT claims
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
