package aiproxy

import (
	"errors"
	"net/http"
)

var (
	// ErrUnauthorized matches backend errors for a missing, unknown, expired,
	// or inactive license key.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInsufficientCredit matches backend errors for an exhausted balance.
	ErrInsufficientCredit = errors.New("insufficient credit")

	// ErrRateLimited matches backend throttling.
	ErrRateLimited = errors.New("rate limited")

	// ErrMalformedResponse is returned when the backend answer cannot be decoded.
	ErrMalformedResponse = errors.New("malformed backend response")
)

// BackendError is an error reported by the backend. Its message is the
// backend's error text, unchanged.
type BackendError struct {
	StatusCode int
	Message    string
}

func (e *BackendError) Error() string {
	return e.Message
}

// Is lets errors.Is match the sentinel for the HTTP status.
func (e *BackendError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	case ErrInsufficientCredit:
		return e.StatusCode == http.StatusPaymentRequired
	case ErrRateLimited:
		return e.StatusCode == http.StatusTooManyRequests
	}
	return false
}
