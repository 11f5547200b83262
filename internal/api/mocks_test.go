package api

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/creator-api/internal/domain"
	"github.com/phrazzld/creator-api/internal/generation"
	"github.com/phrazzld/creator-api/internal/service"
	"github.com/stretchr/testify/mock"
)

type mockLicenseService struct {
	mock.Mock
}

var _ service.LicenseService = (*mockLicenseService)(nil)

func (m *mockLicenseService) Lookup(ctx context.Context, key string) (*domain.LicenseKey, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LicenseKey), args.Error(1)
}

func (m *mockLicenseService) Authorize(ctx context.Context, key string, cost int64) (*domain.LicenseKey, error) {
	args := m.Called(ctx, key, cost)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LicenseKey), args.Error(1)
}

func (m *mockLicenseService) Charge(ctx context.Context, keyID uuid.UUID, cost int64, reason string) (int64, error) {
	args := m.Called(ctx, keyID, cost, reason)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockLicenseService) TopUp(ctx context.Context, keyID uuid.UUID, amount int64) (int64, error) {
	args := m.Called(ctx, keyID, amount)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockLicenseService) Issue(ctx context.Context, params service.IssueParams) (*domain.LicenseKey, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LicenseKey), args.Error(1)
}

type fakeGenerator struct {
	text    string
	image   *generation.Image
	err     error
	lastTxt generation.TextRequest
	lastImg generation.ImageRequest
	calls   int
}

func (f *fakeGenerator) GenerateText(_ context.Context, req generation.TextRequest) (string, error) {
	f.calls++
	f.lastTxt = req
	return f.text, f.err
}

func (f *fakeGenerator) GenerateImage(_ context.Context, req generation.ImageRequest) (*generation.Image, error) {
	f.calls++
	f.lastImg = req
	return f.image, f.err
}

type recordedGeneration struct {
	provider, kind, outcome string
}

type fakeRecorder struct {
	generations []recordedGeneration
	debited     map[string]int64
}

func (f *fakeRecorder) RecordGeneration(provider, kind, outcome string, _ time.Duration) {
	f.generations = append(f.generations, recordedGeneration{provider, kind, outcome})
}

func (f *fakeRecorder) RecordDebit(reason string, amount int64) {
	if f.debited == nil {
		f.debited = map[string]int64{}
	}
	f.debited[reason] += amount
}
