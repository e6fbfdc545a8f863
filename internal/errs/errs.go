// Package errs holds the sentinel errors shared by the docking core.
//
// Call sites wrap a sentinel with context, for example
//
//	fmt.Errorf("population size must be > 0, got %d: %w", size, errs.ErrBadArgument)
//
// and callers match with errors.Is.
package errs

import "errors"

var (
	// ErrBadArgument marks a caller or configuration error: nil inputs,
	// non-positive sizes, mismatched chromosome lengths.
	ErrBadArgument = errors.New("bad argument")
	// ErrIndex marks a vector cursor that does not leave room for an
	// element's declared length.
	ErrIndex = errors.New("index out of range")
	// ErrDocking marks a run-level failure such as population collapse.
	ErrDocking = errors.New("docking error")
	// ErrAssertion marks a malformed upstream model detected while building
	// reference data.
	ErrAssertion = errors.New("assertion failed")
	// ErrNotInitialized marks use of an engine before Init or after Close.
	ErrNotInitialized = errors.New("not initialized")
)
