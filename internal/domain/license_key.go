package domain

import (
	"crypto/rand"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// LicenseKeyPrefix starts every issued key.
	LicenseKeyPrefix = "CS"

	licenseKeyGroups   = 4
	licenseKeyGroupLen = 4
	licenseKeyAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

var licenseKeyPattern = regexp.MustCompile(`^CS(?:-[A-Z0-9]{4}){4}$`)

// LicenseKey is a prepaid access key. Every AI request is authorized by a
// key and debits its credit balance.
type LicenseKey struct {
	ID             uuid.UUID `json:"id"`
	Key            string    `json:"key"`
	Credit         int64     `json:"credit"`
	MaxActivations int       `json:"max_activations"`
	Note           string    `json:"note"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	// ExpiredAt is the zero time for keys that never expire.
	ExpiredAt time.Time `json:"expired_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewLicenseKey issues a fresh active key with the given starting credit.
// A zero expiresAt means the key never expires.
func NewLicenseKey(credit int64, maxActivations int, note string, expiresAt time.Time) (*LicenseKey, error) {
	key, err := GenerateLicenseKey()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	lk := &LicenseKey{
		ID:             uuid.New(),
		Key:            key,
		Credit:         credit,
		MaxActivations: maxActivations,
		Note:           strings.TrimSpace(note),
		IsActive:       true,
		CreatedAt:      now,
		ExpiredAt:      expiresAt.UTC(),
		UpdatedAt:      now,
	}
	if err := lk.Validate(); err != nil {
		return nil, err
	}
	return lk, nil
}

// Validate checks if the LicenseKey has valid data.
func (k *LicenseKey) Validate() error {
	if k.ID == uuid.Nil {
		return fmt.Errorf("%w: license key ID cannot be empty", ErrValidation)
	}
	if !IsWellFormedLicenseKey(k.Key) {
		return fmt.Errorf("%w: %v", ErrValidation, ErrInvalidLicenseKey)
	}
	if k.Credit < 0 {
		return fmt.Errorf("%w: credit cannot be negative", ErrValidation)
	}
	if k.MaxActivations < 0 {
		return fmt.Errorf("%w: max activations cannot be negative", ErrValidation)
	}
	if !k.ExpiredAt.IsZero() && k.ExpiredAt.Before(k.CreatedAt) {
		return fmt.Errorf("%w: expiry precedes creation", ErrValidation)
	}
	return nil
}

// CheckUsable reports why the key cannot be used at time now, or nil.
func (k *LicenseKey) CheckUsable(now time.Time) error {
	if !k.IsActive {
		return ErrLicenseInactive
	}
	if !k.ExpiredAt.IsZero() && !now.Before(k.ExpiredAt) {
		return ErrLicenseExpired
	}
	return nil
}

// CanAfford reports whether the key holds at least cost credits.
func (k *LicenseKey) CanAfford(cost int64) bool {
	return k.Credit >= cost
}

// IsWellFormedLicenseKey reports whether s has the CS-XXXX-XXXX-XXXX-XXXX shape.
func IsWellFormedLicenseKey(s string) bool {
	return licenseKeyPattern.MatchString(s)
}

// GenerateLicenseKey returns a random key in the CS-XXXX-XXXX-XXXX-XXXX format.
// The alphabet omits 0/O and 1/I to keep keys readable when typed by hand.
func GenerateLicenseKey() (string, error) {
	raw := make([]byte, licenseKeyGroups*licenseKeyGroupLen)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate license key: %w", err)
	}

	var b strings.Builder
	b.WriteString(LicenseKeyPrefix)
	for i, c := range raw {
		if i%licenseKeyGroupLen == 0 {
			b.WriteByte('-')
		}
		b.WriteByte(licenseKeyAlphabet[int(c)%len(licenseKeyAlphabet)])
	}
	return b.String(), nil
}
