package batch

import "errors"

var (
	// ErrInvalidConcurrency is returned when K is outside [MinConcurrency, MaxConcurrency].
	ErrInvalidConcurrency = errors.New("concurrency limit out of range")

	// ErrNoItems is returned when no item survives input filtering.
	ErrNoItems = errors.New("no work items with input")

	// ErrNilPipeline is returned when Start is called without a pipeline.
	ErrNilPipeline = errors.New("pipeline function is required")

	// ErrInvalidTransition is returned for a status change that would move a
	// result backwards or out of a terminal state.
	ErrInvalidTransition = errors.New("invalid status transition")
)
