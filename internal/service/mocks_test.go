package service

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/creator-api/internal/domain"
	"github.com/phrazzld/creator-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// MockLicenseKeyStore mocks the store.LicenseKeyStore interface
type MockLicenseKeyStore struct {
	mock.Mock
}

var _ store.LicenseKeyStore = (*MockLicenseKeyStore)(nil)

func (m *MockLicenseKeyStore) Create(ctx context.Context, key *domain.LicenseKey) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockLicenseKeyStore) GetByKey(ctx context.Context, key string) (*domain.LicenseKey, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LicenseKey), args.Error(1)
}

func (m *MockLicenseKeyStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.LicenseKey, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LicenseKey), args.Error(1)
}

func (m *MockLicenseKeyStore) AdjustCredit(ctx context.Context, id uuid.UUID, delta int64) (int64, error) {
	args := m.Called(ctx, id, delta)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLicenseKeyStore) AppendLedger(ctx context.Context, entry *domain.CreditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// WithTx returns the same mock so expectations cover transactional calls.
func (m *MockLicenseKeyStore) WithTx(*sql.Tx) store.LicenseKeyStore {
	return m
}
