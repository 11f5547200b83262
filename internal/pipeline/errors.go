package pipeline

import "errors"

var (
	// ErrEmptyInput is returned before any call when the input text is blank.
	ErrEmptyInput = errors.New("input text is empty")

	// ErrEmptyOutput is returned when a stage produced only whitespace.
	ErrEmptyOutput = errors.New("generator returned empty text")

	// ErrMalformedTag is returned when analysis output does not follow the
	// bracketed tag format. The output is never guessed at.
	ErrMalformedTag = errors.New("malformed analysis tag")
)
