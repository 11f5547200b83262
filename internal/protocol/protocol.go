// Package protocol holds the JSON contract between the studio client and the
// backend. Every response carries a success flag; failures carry an error
// message meant for the end user.
package protocol

import "time"

// Endpoint paths served by the backend.
const (
	PathGenerate      = "/ai/generate"
	PathGenerateImage = "/ai/generate-image"
	PathValidate      = "/validate"
)

// GenerateRequest is the body of POST /ai/generate.
type GenerateRequest struct {
	Prompt            string `json:"prompt" validate:"required"`
	Provider          string `json:"provider,omitempty"`
	SystemInstruction string `json:"systemInstruction,omitempty"`
}

// GenerateResponse is returned by POST /ai/generate.
type GenerateResponse struct {
	Success bool   `json:"success"`
	Text    string `json:"text,omitempty"`
	Error   string `json:"error,omitempty"`
	// Credit is the balance left after the request was charged.
	Credit *int64 `json:"credit,omitempty"`
}

// ImageRequest is the body of POST /ai/generate-image.
type ImageRequest struct {
	Prompt      string `json:"prompt" validate:"required"`
	AspectRatio string `json:"aspectRatio,omitempty"`
	Provider    string `json:"provider,omitempty"`
}

// ImageResponse is returned by POST /ai/generate-image. The backend fills
// both image fields with the same base64 payload; older clients read
// base64Image.
type ImageResponse struct {
	Success     bool   `json:"success"`
	ImageData   string `json:"imageData,omitempty"`
	Base64Image string `json:"base64Image,omitempty"`
	MIMEType    string `json:"mimeType,omitempty"`
	Error       string `json:"error,omitempty"`
	Credit      *int64 `json:"credit,omitempty"`
}

// ValidateRequest is the body of POST /validate.
type ValidateRequest struct {
	Key string `json:"key" validate:"required"`
}

// ValidateResponse is returned by POST /validate.
type ValidateResponse struct {
	Success bool     `json:"success"`
	Valid   bool     `json:"valid"`
	KeyInfo *KeyInfo `json:"keyInfo,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// KeyInfo describes a license key to its holder.
type KeyInfo struct {
	Credit         int64      `json:"credit"`
	CreatedAt      time.Time  `json:"createdAt"`
	ExpiredAt      *time.Time `json:"expiredAt"`
	MaxActivations int        `json:"maxActivations"`
	Note           string     `json:"note"`
	IsActive       bool       `json:"isActive"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}
