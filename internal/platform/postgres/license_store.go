package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/creator-api/internal/domain"
	"github.com/phrazzld/creator-api/internal/platform/logger"
	"github.com/phrazzld/creator-api/internal/store"
)

const licenseKeyColumns = `id, key, credit, max_activations, note, is_active, created_at, expired_at, updated_at`

// PostgresLicenseKeyStore implements store.LicenseKeyStore on PostgreSQL.
type PostgresLicenseKeyStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresLicenseKeyStore creates a store over a connection or transaction.
// If logger is nil, slog.Default() is used.
func NewPostgresLicenseKeyStore(db store.DBTX, logger *slog.Logger) *PostgresLicenseKeyStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresLicenseKeyStore{
		db:     db,
		logger: logger.With(slog.String("component", "license_key_store")),
	}
}

var _ store.LicenseKeyStore = (*PostgresLicenseKeyStore)(nil)

// Create implements store.LicenseKeyStore.Create.
func (s *PostgresLicenseKeyStore) Create(ctx context.Context, key *domain.LicenseKey) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := key.Validate(); err != nil {
		log.Warn("license key validation failed during create",
			slog.String("error", err.Error()),
			slog.String("license_key_id", key.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO license_keys (` + licenseKeyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(ctx, query,
		key.ID,
		key.Key,
		key.Credit,
		key.MaxActivations,
		key.Note,
		key.IsActive,
		key.CreatedAt,
		nullTime(key.ExpiredAt),
		key.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("license key collision on insert",
				slog.String("license_key_id", key.ID.String()))
			return store.ErrLicenseKeyExists
		}
		log.Error("failed to create license key",
			slog.String("error", err.Error()),
			slog.String("license_key_id", key.ID.String()))
		return MapError(err)
	}

	log.Info("license key created",
		slog.String("license_key_id", key.ID.String()),
		slog.Int64("credit", key.Credit))
	return nil
}

// GetByKey implements store.LicenseKeyStore.GetByKey.
func (s *PostgresLicenseKeyStore) GetByKey(ctx context.Context, key string) (*domain.LicenseKey, error) {
	query := `SELECT ` + licenseKeyColumns + ` FROM license_keys WHERE key = $1`
	return s.getOne(ctx, query, key)
}

// GetByID implements store.LicenseKeyStore.GetByID.
func (s *PostgresLicenseKeyStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.LicenseKey, error) {
	query := `SELECT ` + licenseKeyColumns + ` FROM license_keys WHERE id = $1`
	return s.getOne(ctx, query, id)
}

func (s *PostgresLicenseKeyStore) getOne(ctx context.Context, query string, arg any) (*domain.LicenseKey, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var (
		lk        domain.LicenseKey
		expiredAt sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&lk.ID,
		&lk.Key,
		&lk.Credit,
		&lk.MaxActivations,
		&lk.Note,
		&lk.IsActive,
		&lk.CreatedAt,
		&expiredAt,
		&lk.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("license key not found")
			return nil, store.ErrLicenseKeyNotFound
		}
		log.Error("failed to load license key", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	if expiredAt.Valid {
		lk.ExpiredAt = expiredAt.Time
	}
	return &lk, nil
}

// AdjustCredit implements store.LicenseKeyStore.AdjustCredit.
// The balance guard lives in the WHERE clause so concurrent debits cannot
// overdraw the key.
func (s *PostgresLicenseKeyStore) AdjustCredit(ctx context.Context, id uuid.UUID, delta int64) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE license_keys
		SET credit = credit + $2, updated_at = NOW()
		WHERE id = $1 AND credit + $2 >= 0
		RETURNING credit
	`
	var balance int64
	err := s.db.QueryRowContext(ctx, query, id, delta).Scan(&balance)
	if err == nil {
		log.Debug("license key credit adjusted",
			slog.String("license_key_id", id.String()),
			slog.Int64("delta", delta),
			slog.Int64("balance", balance))
		return balance, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		log.Error("failed to adjust credit",
			slog.String("error", err.Error()),
			slog.String("license_key_id", id.String()))
		return 0, MapError(err)
	}

	// No row updated: tell a missing key apart from an exhausted balance.
	var exists bool
	if err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM license_keys WHERE id = $1)`, id,
	).Scan(&exists); err != nil {
		return 0, MapError(err)
	}
	if !exists {
		return 0, store.ErrLicenseKeyNotFound
	}
	log.Info("debit rejected, balance too low",
		slog.String("license_key_id", id.String()),
		slog.Int64("delta", delta))
	return 0, store.ErrCreditExhausted
}

// AppendLedger implements store.LicenseKeyStore.AppendLedger.
func (s *PostgresLicenseKeyStore) AppendLedger(ctx context.Context, entry *domain.CreditEntry) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO credit_ledger (id, license_key_id, delta, reason, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(ctx, query,
		entry.ID, entry.LicenseKeyID, entry.Delta, entry.Reason, entry.CreatedAt)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to append credit ledger entry",
			slog.String("error", err.Error()),
			slog.String("license_key_id", entry.LicenseKeyID.String()))
		return MapError(err)
	}
	return nil
}

// WithTx implements store.LicenseKeyStore.WithTx.
func (s *PostgresLicenseKeyStore) WithTx(tx *sql.Tx) store.LicenseKeyStore {
	return &PostgresLicenseKeyStore{db: tx, logger: s.logger}
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}
