package domain

import "errors"

// Sentinel errors for the coach pipeline - use with errors.Is()
var (
	// ErrValidation indicates invalid caller input; no state is mutated.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates a missing conversation or turn.
	ErrNotFound = errors.New("not found")

	// ErrUnavailable indicates an external collaborator (advice index or
	// model runtime) could not be reached.
	ErrUnavailable = errors.New("collaborator unavailable")

	// ErrTimeout indicates an external call exceeded its deadline.
	ErrTimeout = errors.New("collaborator timeout")
)
