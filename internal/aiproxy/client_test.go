package aiproxy

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/phrazzld/creator-api/internal/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL+"/", "CS-AAAA-BBBB-CCCC-DDDD", WithProvider("gemini"))
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestGenerate_Success(t *testing.T) {
	var got protocol.GenerateRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, protocol.PathGenerate, r.URL.Path)
		assert.Equal(t, "Bearer CS-AAAA-BBBB-CCCC-DDDD", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, http.StatusOK, protocol.GenerateResponse{Success: true, Text: "Xin chào"})
	})

	text, err := c.Generate(context.Background(), GenerateRequest{
		Prompt:            "Say hello",
		SystemInstruction: "Answer in Vietnamese",
	})
	require.NoError(t, err)
	assert.Equal(t, "Xin chào", text)
	assert.Equal(t, "Say hello", got.Prompt)
	assert.Equal(t, "gemini", got.Provider)
	assert.Equal(t, "Answer in Vietnamese", got.SystemInstruction)
}

func TestGenerate_BackendReportsFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "error": "quota exceeded"})
	})

	_, err := c.Generate(context.Background(), GenerateRequest{Prompt: "p"})
	require.Error(t, err)
	assert.EqualError(t, err, "quota exceeded")

	var be *BackendError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, "quota exceeded", be.Message)
}

func TestGenerate_StatusErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     any
		sentinel error
		message  string
	}{
		{"unauthorized", http.StatusUnauthorized, protocol.ErrorResponse{Error: "license key has expired"}, ErrUnauthorized, "license key has expired"},
		{"forbidden", http.StatusForbidden, protocol.ErrorResponse{Error: "inactive"}, ErrUnauthorized, "inactive"},
		{"payment required", http.StatusPaymentRequired, protocol.ErrorResponse{Error: "insufficient credit"}, ErrInsufficientCredit, "insufficient credit"},
		{"rate limited", http.StatusTooManyRequests, protocol.ErrorResponse{Error: "slow down"}, ErrRateLimited, "slow down"},
		{"non-envelope body", http.StatusBadGateway, "upstream down", nil, "backend returned 502 Bad Gateway"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			})

			_, err := c.Generate(context.Background(), GenerateRequest{Prompt: "p"})
			require.Error(t, err)
			assert.EqualError(t, err, tt.message)
			if tt.sentinel != nil {
				assert.ErrorIs(t, err, tt.sentinel)
			}
		})
	}
}

func TestGenerate_MalformedBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	})

	_, err := c.Generate(context.Background(), GenerateRequest{Prompt: "p"})
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestGenerate_ContextCancelled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.Generate(ctx, GenerateRequest{Prompt: "p"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGenerateImage(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a}
	encoded := base64.StdEncoding.EncodeToString(png)

	tests := []struct {
		name string
		resp protocol.ImageResponse
	}{
		{"imageData", protocol.ImageResponse{Success: true, ImageData: encoded, MIMEType: "image/png"}},
		{"base64Image", protocol.ImageResponse{Success: true, Base64Image: encoded}},
		{"data url", protocol.ImageResponse{Success: true, ImageData: "data:image/png;base64," + encoded}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got protocol.ImageRequest
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, protocol.PathGenerateImage, r.URL.Path)
				require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
				writeJSON(w, http.StatusOK, tt.resp)
			})

			img, err := c.GenerateImage(context.Background(), ImageRequest{Prompt: "a boat", AspectRatio: "16:9"})
			require.NoError(t, err)
			assert.Equal(t, png, img.Data)
			assert.Equal(t, "16:9", got.AspectRatio)
			assert.Equal(t, "gemini", got.Provider)
		})
	}
}

func TestGenerateImage_Failures(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, protocol.ImageResponse{Success: true})
	})
	_, err := c.GenerateImage(context.Background(), ImageRequest{Prompt: "p"})
	assert.ErrorIs(t, err, ErrMalformedResponse)

	c = newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, protocol.ImageResponse{Success: false, Error: "blocked by safety filters"})
	})
	_, err = c.GenerateImage(context.Background(), ImageRequest{Prompt: "p"})
	assert.EqualError(t, err, "blocked by safety filters")
}

func TestValidate(t *testing.T) {
	created := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req protocol.ValidateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Key != "CS-GOOD-GOOD-GOOD-GOOD" {
			writeJSON(w, http.StatusUnauthorized, protocol.ErrorResponse{Error: "invalid license key"})
			return
		}
		writeJSON(w, http.StatusOK, protocol.ValidateResponse{
			Success: true,
			Valid:   true,
			KeyInfo: &protocol.KeyInfo{Credit: 120, CreatedAt: created, MaxActivations: 2, IsActive: true},
		})
	})

	resp, err := c.Validate(context.Background(), "CS-GOOD-GOOD-GOOD-GOOD")
	require.NoError(t, err)
	assert.True(t, resp.Valid)
	require.NotNil(t, resp.KeyInfo)
	assert.Equal(t, int64(120), resp.KeyInfo.Credit)
	assert.Nil(t, resp.KeyInfo.ExpiredAt)

	resp, err = c.Validate(context.Background(), "CS-BAD0-BAD0-BAD0-BAD0")
	require.NoError(t, err)
	assert.False(t, resp.Valid)
	assert.Equal(t, "invalid license key", resp.Error)
}

func TestNew_RejectsBadURL(t *testing.T) {
	_, err := New("localhost:8080", "")
	assert.Error(t, err)
	_, err = New("://", "")
	assert.Error(t, err)
}
