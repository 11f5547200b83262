package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/phrazzld/creator-api/internal/api/shared"
	"github.com/phrazzld/creator-api/internal/config"
	"github.com/phrazzld/creator-api/internal/platform/logger"
	"github.com/phrazzld/creator-api/internal/protocol"
	"github.com/phrazzld/creator-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validKey = "CS-ABCD-EFGH-JKLM-NPQR"

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) protocol.ErrorResponse {
	t.Helper()
	var body protocol.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestTraceMiddleware(t *testing.T) {
	var traceID string
	var hasLogger bool
	h := TraceMiddleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = shared.GetTraceID(r.Context())
		hasLogger = logger.FromContext(r.Context()) != nil
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, traceID, 32)
	assert.True(t, hasLogger)
}

func TestRequireLicenseKey(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantError  string
	}{
		{"valid key", "Bearer " + validKey, http.StatusOK, ""},
		{"lowercase scheme", "bearer " + validKey, http.StatusOK, ""},
		{"missing header", "", http.StatusUnauthorized, "License key required"},
		{"wrong scheme", "Basic " + validKey, http.StatusUnauthorized, "License key required"},
		{"malformed key", "Bearer abc", http.StatusUnauthorized, "Invalid license key"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got string
			h := RequireLicenseKey(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got, _ = shared.GetLicenseKey(r.Context())
			}))
			req := httptest.NewRequest(http.MethodPost, "/ai/generate", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			if tc.wantError == "" {
				assert.Equal(t, validKey, got)
				return
			}
			body := decodeError(t, rec)
			assert.False(t, body.Success)
			assert.Equal(t, tc.wantError, body.Error)
		})
	}
}

func TestAuthMiddleware(t *testing.T) {
	jwtService, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:            "test-secret-that-is-long-enough-for-testing",
		TokenLifetimeMinutes: 60,
	})
	require.NoError(t, err)
	token, _, err := jwtService.GenerateToken(context.Background(), auth.AdminSubject)
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantError  string
	}{
		{"valid token", "Bearer " + token, http.StatusOK, ""},
		{"missing header", "", http.StatusUnauthorized, "Authorization header required"},
		{"bad format", token, http.StatusUnauthorized, "Invalid authorization format"},
		{"garbage token", "Bearer not.a.token", http.StatusUnauthorized, "Invalid token"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var subject string
			h := NewAuthMiddleware(jwtService).Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				subject, _ = shared.GetAdminSubject(r.Context())
			}))
			req := httptest.NewRequest(http.MethodPost, "/admin/keys", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			if tc.wantError == "" {
				assert.Equal(t, auth.AdminSubject, subject)
				return
			}
			assert.Equal(t, tc.wantError, decodeError(t, rec).Error)
		})
	}
}

func TestRateLimiter_PerKey(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rl := NewRateLimiter(ctx, 1, 2)
	fixed := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return fixed }

	limited := 0
	rl.OnLimited = func() { limited++ }
	h := RequireLicenseKey(rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})))

	do := func(key string) int {
		req := httptest.NewRequest(http.MethodPost, "/ai/generate", nil)
		req.Header.Set("Authorization", "Bearer "+key)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, do(validKey))
	assert.Equal(t, http.StatusOK, do(validKey))
	assert.Equal(t, http.StatusTooManyRequests, do(validKey))
	assert.Equal(t, 1, limited)

	// Another key has its own budget.
	assert.Equal(t, http.StatusOK, do("CS-ZZZZ-YYYY-XXXX-WWWW"))

	// Tokens refill with time.
	rl.now = func() time.Time { return fixed.Add(time.Second) }
	assert.Equal(t, http.StatusOK, do(validKey))
}

func TestRateLimiter_ForgetsIdleCallers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rl := NewRateLimiter(ctx, 1, 1)
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return start }
	assert.True(t, rl.Allow("ip:10.0.0.1"))

	rl.now = func() time.Time { return start.Add(limiterIdleTTL + time.Second) }
	rl.forgetIdle()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.Empty(t, rl.visitors)
}
