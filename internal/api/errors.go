package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/creator-api/internal/domain"
	"github.com/phrazzld/creator-api/internal/generation"
	"github.com/phrazzld/creator-api/internal/service/auth"
	"github.com/phrazzld/creator-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// License and admin authentication
	case errors.Is(err, domain.ErrInvalidLicenseKey),
		errors.Is(err, domain.ErrLicenseExpired),
		errors.Is(err, domain.ErrLicenseInactive),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrWrongRole),
		errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized

	case errors.Is(err, domain.ErrInsufficientCredit):
		return http.StatusPaymentRequired

	case errors.Is(err, store.ErrLicenseKeyNotFound):
		return http.StatusNotFound

	case errors.Is(err, store.ErrLicenseKeyExists):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidCreditAmount),
		errors.Is(err, generation.ErrEmptyPrompt),
		errors.Is(err, generation.ErrUnsupportedAspectRatio),
		errors.Is(err, generation.ErrUnknownProvider):
		return http.StatusBadRequest

	// Provider outcomes
	case errors.Is(err, generation.ErrContentBlocked):
		return http.StatusUnprocessableEntity
	case errors.Is(err, generation.ErrTransientFailure):
		return http.StatusServiceUnavailable
	case errors.Is(err, generation.ErrGenerationFailed),
		errors.Is(err, generation.ErrInvalidResponse):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, domain.ErrInvalidLicenseKey):
		return "Invalid license key"
	case errors.Is(err, domain.ErrLicenseExpired):
		return "License key has expired"
	case errors.Is(err, domain.ErrLicenseInactive):
		return "License key is inactive"
	case errors.Is(err, domain.ErrInsufficientCredit):
		return "Insufficient credit"

	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrWrongRole):
		return "Invalid token"
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid credentials"

	case errors.Is(err, store.ErrLicenseKeyNotFound):
		return "License key not found"
	case errors.Is(err, store.ErrLicenseKeyExists):
		return "License key already exists"
	case errors.Is(err, domain.ErrInvalidCreditAmount):
		return "Credit amount must be positive"
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation):
		return "Invalid entity data"

	case errors.Is(err, generation.ErrEmptyPrompt):
		return "Prompt cannot be empty"
	case errors.Is(err, generation.ErrUnsupportedAspectRatio):
		return "Unsupported aspect ratio (supported: " + strings.Join(generation.AspectRatios(), ", ") + ")"
	case errors.Is(err, generation.ErrUnknownProvider):
		return "Unknown provider"
	case errors.Is(err, generation.ErrContentBlocked):
		return "Content was blocked by the provider's safety filters"
	case errors.Is(err, generation.ErrTransientFailure):
		return "The AI provider is temporarily unavailable, please try again"
	case errors.Is(err, generation.ErrGenerationFailed),
		errors.Is(err, generation.ErrInvalidResponse):
		return "The AI provider failed to generate a response"
	case errors.Is(err, context.DeadlineExceeded):
		return "The AI provider took too long to respond"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message naming the first failing field.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Sprintf("Invalid %s: %s", fe.Field(), getValidationTagMessage(fe.Tag()))
	}
	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "gt", "gte":
		return "too small"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
