package net

import "errors"

var (
	// ErrNotEnabled is returned by TryFire when permit is false (the
	// transition was not enabled by marking, timing, or is currently
	// marked waiting) or when the transition is not enabled by marking.
	// Non-fatal — the caller should block and retry.
	ErrNotEnabled = errors.New("net: transition not enabled")

	// ErrInvariantViolation is returned by TryFire when a successful
	// marking update would break a place invariant. This signals a bug
	// in the incidence matrix or invariant tables, not a runtime
	// condition a caller can recover from.
	ErrInvariantViolation = errors.New("net: place invariant violated")
)
