package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidLicenseKey is returned when a key string is malformed or unknown.
	ErrInvalidLicenseKey = errors.New("invalid license key")

	// ErrLicenseExpired is returned when a key is past its expiry date.
	ErrLicenseExpired = errors.New("license key has expired")

	// ErrLicenseInactive is returned when a key has been deactivated.
	ErrLicenseInactive = errors.New("license key is inactive")

	// ErrInsufficientCredit is returned when a key cannot pay for an operation.
	ErrInsufficientCredit = errors.New("insufficient credit")

	// ErrInvalidCreditAmount is returned for zero or negative credit changes.
	ErrInvalidCreditAmount = errors.New("credit amount must be positive")
)
