package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/creator-api/internal/domain"
	"github.com/phrazzld/creator-api/internal/protocol"
)

// AdminLoginRequest defines the payload for the admin login endpoint.
type AdminLoginRequest struct {
	Password string `json:"password" validate:"required,max=72"`
}

// AdminLoginResponse carries the admin token.
type AdminLoginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	// ExpiresAt is the ISO 8601 timestamp when the token expires
	ExpiresAt string `json:"expires_at"`
}

// IssueKeyRequest defines the payload for issuing a license key.
type IssueKeyRequest struct {
	Credit         int64      `json:"credit" validate:"gte=0"`
	MaxActivations int        `json:"max_activations" validate:"gte=0"`
	Note           string     `json:"note" validate:"max=500"`
	ExpiresAt      *time.Time `json:"expires_at"`
}

// TopUpRequest defines the payload for adding credit to a key.
type TopUpRequest struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

// LicenseKeyResponse is the admin view of a license key.
type LicenseKeyResponse struct {
	ID             uuid.UUID  `json:"id"`
	Key            string     `json:"key"`
	Credit         int64      `json:"credit"`
	MaxActivations int        `json:"max_activations"`
	Note           string     `json:"note"`
	IsActive       bool       `json:"is_active"`
	CreatedAt      time.Time  `json:"created_at"`
	ExpiredAt      *time.Time `json:"expired_at"`
}

// IssueKeyResponse wraps a newly issued key.
type IssueKeyResponse struct {
	Success bool               `json:"success"`
	Key     LicenseKeyResponse `json:"license_key"`
}

// TopUpResponse reports the balance after a top-up.
type TopUpResponse struct {
	Success bool      `json:"success"`
	ID      uuid.UUID `json:"id"`
	Credit  int64     `json:"credit"`
}

func expiry(lk *domain.LicenseKey) *time.Time {
	if lk.ExpiredAt.IsZero() {
		return nil
	}
	t := lk.ExpiredAt
	return &t
}

func licenseKeyToResponse(lk *domain.LicenseKey) LicenseKeyResponse {
	return LicenseKeyResponse{
		ID:             lk.ID,
		Key:            lk.Key,
		Credit:         lk.Credit,
		MaxActivations: lk.MaxActivations,
		Note:           lk.Note,
		IsActive:       lk.IsActive,
		CreatedAt:      lk.CreatedAt,
		ExpiredAt:      expiry(lk),
	}
}

func licenseKeyToInfo(lk *domain.LicenseKey) *protocol.KeyInfo {
	return &protocol.KeyInfo{
		Credit:         lk.Credit,
		CreatedAt:      lk.CreatedAt,
		ExpiredAt:      expiry(lk),
		MaxActivations: lk.MaxActivations,
		Note:           lk.Note,
		IsActive:       lk.IsActive,
	}
}
