package generation

import "errors"

var (
	// ErrGenerationFailed is returned when a provider fails for a general reason.
	ErrGenerationFailed = errors.New("generation failed")

	// ErrInvalidResponse is returned when the provider response is empty or malformed.
	ErrInvalidResponse = errors.New("invalid response from provider")

	// ErrContentBlocked is returned when provider safety filters block the content.
	ErrContentBlocked = errors.New("content blocked by provider safety filters")

	// ErrTransientFailure is returned for temporary errors that might resolve on retry.
	ErrTransientFailure = errors.New("transient error during generation")

	// ErrInvalidConfig is returned when the generator configuration is invalid.
	ErrInvalidConfig = errors.New("invalid generator configuration")

	// ErrUnknownProvider is returned when no generator is registered under a name.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrEmptyPrompt is returned before any provider call when the prompt is blank.
	ErrEmptyPrompt = errors.New("prompt cannot be empty")

	// ErrUnsupportedAspectRatio is returned for an image aspect ratio the providers do not offer.
	ErrUnsupportedAspectRatio = errors.New("unsupported aspect ratio")
)
