package service

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

// maxIssueAttempts bounds retries on the (unlikely) key string collision.
const maxIssueAttempts = 3

// IssueParams describe a new license key.
type IssueParams struct {
	Credit         int64
	MaxActivations int
	Note           string
	// ExpiresAt is the zero time for keys that never expire.
	ExpiresAt time.Time
}

// LicenseService authorizes AI requests against license keys and moves credit.
type LicenseService interface {
	// Lookup returns the key for a key string, whatever its state.
	// Returns domain.ErrInvalidLicenseKey for malformed or unknown keys.
	Lookup(ctx context.Context, key string) (*domain.LicenseKey, error)

	// Authorize returns the key if it is usable and holds at least cost credits.
	// Returns domain.ErrInvalidLicenseKey, ErrLicenseExpired, ErrLicenseInactive,
	// or ErrInsufficientCredit otherwise.
	Authorize(ctx context.Context, key string, cost int64) (*domain.LicenseKey, error)

	// Charge debits cost from the key and records the movement, atomically.
	// Returns the new balance, or domain.ErrInsufficientCredit when the
	// balance dropped below cost since authorization.
	Charge(ctx context.Context, keyID uuid.UUID, cost int64, reason string) (int64, error)

	// TopUp credits amount to the key. Returns the new balance.
	TopUp(ctx context.Context, keyID uuid.UUID, amount int64) (int64, error)

	// Issue creates a new active key.
	Issue(ctx context.Context, params IssueParams) (*domain.LicenseKey, error)
}

// licenseServiceImpl implements LicenseService.
type licenseServiceImpl struct {
	keys   store.LicenseKeyStore
	db     store.Beginner
	logger *slog.Logger
	now    func() time.Time
}

var _ LicenseService = (*licenseServiceImpl)(nil)

// NewLicenseService creates a LicenseService. db starts the transactions that
// pair a balance change with its ledger entry.
func NewLicenseService(keys store.LicenseKeyStore, db store.Beginner, logger *slog.Logger) (LicenseService, error) {
	if keys == nil {
		return nil, NewServiceError("license", "init", fmt.Errorf("%w: license key store", ErrNilDependency))
	}
	if db == nil {
		return nil, NewServiceError("license", "init", fmt.Errorf("%w: database", ErrNilDependency))
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &licenseServiceImpl{
		keys:   keys,
		db:     db,
		logger: logger.With(slog.String("component", "license_service")),
		now:    time.Now,
	}, nil
}

func (s *licenseServiceImpl) Lookup(ctx context.Context, key string) (*domain.LicenseKey, error) {
	if !domain.IsWellFormedLicenseKey(key) {
		return nil, domain.ErrInvalidLicenseKey
	}
	lk, err := s.keys.GetByKey(ctx, key)
	if err != nil {
		if errors.Is(err, store.ErrLicenseKeyNotFound) {
			return nil, domain.ErrInvalidLicenseKey
		}
		return nil, NewServiceError("license", "lookup", err)
	}
	return lk, nil
}

func (s *licenseServiceImpl) Authorize(ctx context.Context, key string, cost int64) (*domain.LicenseKey, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	lk, err := s.Lookup(ctx, key)
	if err != nil {
		return nil, err
	}
	if err := lk.CheckUsable(s.now()); err != nil {
		log.Info("license key not usable",
			slog.String("license_key_id", lk.ID.String()),
			slog.String("reason", err.Error()))
		return nil, err
	}
	if !lk.CanAfford(cost) {
		log.Info("license key cannot afford request",
			slog.String("license_key_id", lk.ID.String()),
			slog.Int64("credit", lk.Credit),
			slog.Int64("cost", cost))
		return nil, domain.ErrInsufficientCredit
	}
	return lk, nil
}

func (s *licenseServiceImpl) Charge(ctx context.Context, keyID uuid.UUID, cost int64, reason string) (int64, error) {
	if cost <= 0 {
		return 0, domain.ErrInvalidCreditAmount
	}
	balance, err := s.move(ctx, keyID, -cost, reason)
	if err != nil {
		if errors.Is(err, store.ErrCreditExhausted) {
			return 0, domain.ErrInsufficientCredit
		}
		return 0, NewServiceError("license", "charge", err)
	}
	return balance, nil
}

func (s *licenseServiceImpl) TopUp(ctx context.Context, keyID uuid.UUID, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, domain.ErrInvalidCreditAmount
	}
	balance, err := s.move(ctx, keyID, amount, domain.CreditReasonTopUp)
	if err != nil {
		return 0, NewServiceError("license", "top up", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("credit topped up",
		slog.String("license_key_id", keyID.String()),
		slog.Int64("amount", amount),
		slog.Int64("balance", balance))
	return balance, nil
}

// move applies delta and writes the ledger entry in one transaction.
func (s *licenseServiceImpl) move(ctx context.Context, keyID uuid.UUID, delta int64, reason string) (int64, error) {
	entry, err := domain.NewCreditEntry(keyID, delta, reason)
	if err != nil {
		return 0, err
	}

	var balance int64
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txKeys := s.keys.WithTx(tx)
		b, err := txKeys.AdjustCredit(ctx, keyID, delta)
		if err != nil {
			return err
		}
		if err := txKeys.AppendLedger(ctx, entry); err != nil {
			return err
		}
		balance = b
		return nil
	})
	return balance, err
}

func (s *licenseServiceImpl) Issue(ctx context.Context, params IssueParams) (*domain.LicenseKey, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	for attempt := 1; ; attempt++ {
		lk, err := domain.NewLicenseKey(params.Credit, params.MaxActivations, params.Note, params.ExpiresAt)
		if err != nil {
			return nil, err
		}

		err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
			txKeys := s.keys.WithTx(tx)
			if err := txKeys.Create(ctx, lk); err != nil {
				return err
			}
			if lk.Credit == 0 {
				return nil
			}
			entry, err := domain.NewCreditEntry(lk.ID, lk.Credit, domain.CreditReasonTopUp)
			if err != nil {
				return err
			}
			return txKeys.AppendLedger(ctx, entry)
		})
		if err == nil {
			log.Info("license key issued",
				slog.String("license_key_id", lk.ID.String()),
				slog.Int64("credit", lk.Credit))
			return lk, nil
		}
		if !errors.Is(err, store.ErrLicenseKeyExists) || attempt == maxIssueAttempts {
			return nil, NewServiceError("license", "issue", err)
		}
		log.Warn("license key collision, retrying", slog.Int("attempt", attempt))
	}
}
