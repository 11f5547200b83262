package shared

import (
	"context"
	"crypto/rand"
	"encoding/hex"
)

// ContextKey is the type of the request context keys set by the middleware.
type ContextKey string

const (
	// TraceIDKey is the key for the trace ID in the request context
	TraceIDKey ContextKey = "traceID"

	// LicenseKeyContextKey holds the bearer license key of an /ai request
	LicenseKeyContextKey ContextKey = "licenseKey"

	// AdminSubjectContextKey holds the subject of a validated admin token
	AdminSubjectContextKey ContextKey = "adminSubject"

	// TraceIDLength is the number of bytes used to generate the trace ID
	TraceIDLength = 16 // 32 hex characters
)

// SetTraceID adds a fresh trace ID to the context.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, generateTraceID())
}

// GetTraceID retrieves the trace ID from the context, or "".
func GetTraceID(ctx context.Context) string {
	traceID, _ := ctx.Value(TraceIDKey).(string)
	return traceID
}

// SetLicenseKey stores the caller's license key.
func SetLicenseKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, LicenseKeyContextKey, key)
}

// GetLicenseKey returns the caller's license key, if the license middleware ran.
func GetLicenseKey(ctx context.Context) (string, bool) {
	key, ok := ctx.Value(LicenseKeyContextKey).(string)
	return key, ok && key != ""
}

// SetAdminSubject stores the subject of a validated admin token.
func SetAdminSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, AdminSubjectContextKey, subject)
}

// GetAdminSubject returns the admin subject, if the admin middleware ran.
func GetAdminSubject(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(AdminSubjectContextKey).(string)
	return subject, ok && subject != ""
}

func generateTraceID() string {
	b := make([]byte, TraceIDLength)
	// crypto/rand.Read never returns an error since Go 1.24.
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
