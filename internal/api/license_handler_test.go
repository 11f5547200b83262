package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/phrazzld/creator-api/internal/domain"
	"github.com/phrazzld/creator-api/internal/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func validate(t *testing.T, h *LicenseHandler, body string) (int, protocol.ValidateResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, protocol.PathValidate, bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	h.Validate(rec, req)

	var resp protocol.ValidateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec.Code, resp
}

func TestLicenseHandler_Validate(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	created := now.Add(-48 * time.Hour)

	tests := []struct {
		name      string
		key       *domain.LicenseKey
		lookupErr error
		wantValid bool
		wantInfo  bool
		wantError string
	}{
		{
			name:      "usable key",
			key:       &domain.LicenseKey{Key: testLicenseKey, Credit: 42, IsActive: true, CreatedAt: created, Note: "vip"},
			wantValid: true,
			wantInfo:  true,
		},
		{
			name: "expired key",
			key: &domain.LicenseKey{Key: testLicenseKey, Credit: 42, IsActive: true, CreatedAt: created,
				ExpiredAt: now.Add(-time.Hour)},
			wantInfo:  true,
			wantError: "License key has expired",
		},
		{
			name:      "inactive key",
			key:       &domain.LicenseKey{Key: testLicenseKey, IsActive: false, CreatedAt: created},
			wantInfo:  true,
			wantError: "License key is inactive",
		},
		{
			name:      "unknown key",
			lookupErr: fmt.Errorf("lookup: %w", domain.ErrInvalidLicenseKey),
			wantError: "Invalid license key",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			licenses := &mockLicenseService{}
			if tc.lookupErr != nil {
				licenses.On("Lookup", mock.Anything, testLicenseKey).Return(nil, tc.lookupErr)
			} else {
				licenses.On("Lookup", mock.Anything, testLicenseKey).Return(tc.key, nil)
			}
			h := NewLicenseHandler(licenses)
			h.now = func() time.Time { return now }

			status, resp := validate(t, h, `{"key":"`+testLicenseKey+`"}`)

			assert.Equal(t, http.StatusOK, status)
			assert.True(t, resp.Success)
			assert.Equal(t, tc.wantValid, resp.Valid)
			assert.Equal(t, tc.wantError, resp.Error)
			if !tc.wantInfo {
				assert.Nil(t, resp.KeyInfo)
				return
			}
			require.NotNil(t, resp.KeyInfo)
			assert.Equal(t, tc.key.Credit, resp.KeyInfo.Credit)
			assert.Equal(t, tc.key.Note, resp.KeyInfo.Note)
			assert.Equal(t, tc.key.IsActive, resp.KeyInfo.IsActive)
			if tc.key.ExpiredAt.IsZero() {
				assert.Nil(t, resp.KeyInfo.ExpiredAt)
			} else {
				require.NotNil(t, resp.KeyInfo.ExpiredAt)
				assert.True(t, tc.key.ExpiredAt.Equal(*resp.KeyInfo.ExpiredAt))
			}
		})
	}
}

func TestLicenseHandler_ValidateRequiresKey(t *testing.T) {
	licenses := &mockLicenseService{}
	h := NewLicenseHandler(licenses)

	req := httptest.NewRequest(http.MethodPost, protocol.PathValidate, bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	h.Validate(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid Key: required field")
	licenses.AssertNotCalled(t, "Lookup", mock.Anything, mock.Anything)
}
