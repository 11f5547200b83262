package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Ledger reasons recorded with each credit movement.
const (
	CreditReasonTextGeneration  = "text_generation"
	CreditReasonImageGeneration = "image_generation"
	CreditReasonTopUp           = "top_up"
)

// CreditEntry is one movement on a license key's balance. Debits carry a
// negative Delta.
type CreditEntry struct {
	ID           uuid.UUID `json:"id"`
	LicenseKeyID uuid.UUID `json:"license_key_id"`
	Delta        int64     `json:"delta"`
	Reason       string    `json:"reason"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewCreditEntry creates a ledger entry for the given key.
func NewCreditEntry(licenseKeyID uuid.UUID, delta int64, reason string) (*CreditEntry, error) {
	entry := &CreditEntry{
		ID:           uuid.New(),
		LicenseKeyID: licenseKeyID,
		Delta:        delta,
		Reason:       strings.TrimSpace(reason),
		CreatedAt:    time.Now().UTC(),
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}
	return entry, nil
}

// Validate checks if the CreditEntry has valid data.
func (e *CreditEntry) Validate() error {
	if e.ID == uuid.Nil {
		return fmt.Errorf("%w: credit entry ID cannot be empty", ErrValidation)
	}
	if e.LicenseKeyID == uuid.Nil {
		return fmt.Errorf("%w: license key ID cannot be empty", ErrValidation)
	}
	if e.Delta == 0 {
		return fmt.Errorf("%w: delta cannot be zero", ErrValidation)
	}
	if e.Reason == "" {
		return fmt.Errorf("%w: reason cannot be empty", ErrValidation)
	}
	return nil
}
