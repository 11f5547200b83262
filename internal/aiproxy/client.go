package aiproxy

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/phrazzld/creator-api/internal/platform/logger"
	"github.com/phrazzld/creator-api/internal/protocol"
)

// maxResponseBytes bounds how much of a response body is read. Images are
// the largest payloads.
const maxResponseBytes = 32 << 20

// Client talks to the backend proxy.
type Client struct {
	baseURL    string
	licenseKey string
	provider   string
	http       *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout caps each round trip. Zero leaves the client without a cap.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithProvider sets the provider used when a request names none.
func WithProvider(name string) Option {
	return func(c *Client) { c.provider = name }
}

// WithLogger sets the fallback logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client for the backend at baseURL.
func New(baseURL, licenseKey string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid backend URL %q", baseURL)
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		licenseKey: strings.TrimSpace(licenseKey),
		http:       &http.Client{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// GenerateRequest is a text prompt for the backend.
type GenerateRequest struct {
	Prompt            string
	Provider          string
	SystemInstruction string
}

// ImageRequest is an image prompt for the backend.
type ImageRequest struct {
	Prompt      string
	AspectRatio string
	Provider    string
}

// Image is a decoded image returned by the backend.
type Image struct {
	Data     []byte
	MIMEType string
}

// Generate sends a text prompt and returns the generated text.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	body := protocol.GenerateRequest{
		Prompt:            req.Prompt,
		Provider:          c.providerOr(req.Provider),
		SystemInstruction: req.SystemInstruction,
	}

	var resp protocol.GenerateResponse
	if err := c.post(ctx, protocol.PathGenerate, body, &resp); err != nil {
		return "", err
	}
	if !resp.Success {
		return "", &BackendError{StatusCode: http.StatusOK, Message: failureMessage(resp.Error)}
	}
	return resp.Text, nil
}

// GenerateImage sends an image prompt and returns the decoded image.
func (c *Client) GenerateImage(ctx context.Context, req ImageRequest) (*Image, error) {
	body := protocol.ImageRequest{
		Prompt:      req.Prompt,
		AspectRatio: req.AspectRatio,
		Provider:    c.providerOr(req.Provider),
	}

	var resp protocol.ImageResponse
	if err := c.post(ctx, protocol.PathGenerateImage, body, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &BackendError{StatusCode: http.StatusOK, Message: failureMessage(resp.Error)}
	}

	encoded := resp.ImageData
	if encoded == "" {
		encoded = resp.Base64Image
	}
	data, err := decodeImage(encoded)
	if err != nil {
		return nil, err
	}
	return &Image{Data: data, MIMEType: resp.MIMEType}, nil
}

// Validate checks a license key and returns what the backend knows about it.
// An unknown or unusable key is reported as valid=false, not as an error.
func (c *Client) Validate(ctx context.Context, key string) (*protocol.ValidateResponse, error) {
	var resp protocol.ValidateResponse
	err := c.post(ctx, protocol.PathValidate, protocol.ValidateRequest{Key: key}, &resp)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			return &protocol.ValidateResponse{Valid: false, Error: err.Error()}, nil
		}
		return nil, err
	}
	return &resp, nil
}

func (c *Client) providerOr(name string) string {
	if name != "" {
		return name
	}
	return c.provider
}

// post sends body as JSON and decodes a successful answer into out. Non-2xx
// answers become a *BackendError.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	log := logger.FromContextOrDefault(ctx, c.logger)

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.licenseKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.licenseKey)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Debug("backend request failed", "path", path, "error", err)
		return fmt.Errorf("backend request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("failed to read backend response: %w", err)
	}
	log.Debug("backend responded",
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &BackendError{StatusCode: resp.StatusCode, Message: errorMessage(resp.StatusCode, raw)}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

// errorMessage extracts the backend's error text, falling back to the
// HTTP status text when the body is not an error envelope.
func errorMessage(status int, raw []byte) string {
	var env protocol.ErrorResponse
	if err := json.Unmarshal(raw, &env); err == nil && env.Error != "" {
		return env.Error
	}
	return fmt.Sprintf("backend returned %d %s", status, http.StatusText(status))
}

func failureMessage(msg string) string {
	if msg == "" {
		return "backend reported failure without a message"
	}
	return msg
}

func decodeImage(encoded string) ([]byte, error) {
	// Tolerate data URLs such as "data:image/png;base64,...."
	if i := strings.Index(encoded, ";base64,"); i >= 0 && strings.HasPrefix(encoded, "data:") {
		encoded = encoded[i+len(";base64,"):]
	}
	if encoded == "" {
		return nil, fmt.Errorf("%w: no image data", ErrMalformedResponse)
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: image is not valid base64: %v", ErrMalformedResponse, err)
	}
	return data, nil
}
