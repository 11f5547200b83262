package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/creator-api/internal/domain"
)

// LicenseKeyStore defines persistence for license keys and their credit ledger.
type LicenseKeyStore interface {
	// Create saves a new license key.
	// Returns ErrLicenseKeyExists if the key string is already taken.
	Create(ctx context.Context, key *domain.LicenseKey) error

	// GetByKey retrieves a key by its key string.
	// Returns ErrLicenseKeyNotFound if the key does not exist.
	GetByKey(ctx context.Context, key string) (*domain.LicenseKey, error)

	// GetByID retrieves a key by its ID.
	// Returns ErrLicenseKeyNotFound if the key does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.LicenseKey, error)

	// AdjustCredit atomically adds delta (which may be negative) to the
	// balance and returns the new balance. A debit that would take the
	// balance below zero fails with ErrCreditExhausted and changes nothing.
	// Returns ErrLicenseKeyNotFound if the key does not exist.
	AdjustCredit(ctx context.Context, id uuid.UUID, delta int64) (int64, error)

	// AppendLedger records a credit movement for auditing.
	AppendLedger(ctx context.Context, entry *domain.CreditEntry) error

	// WithTx returns a new LicenseKeyStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) LicenseKeyStore
}
