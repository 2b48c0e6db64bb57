// Package errors provides centralized error definitions for the application.
// Errors are organized by domain to avoid duplication and provide consistent naming.
//
// Naming conventions:
//   - Exported errors (Err*): Use for errors that callers need to check with errors.Is
//   - All sentinel errors should be defined as variables, not inline errors.New calls
//   - Use fmt.Errorf with %w to wrap sentinel errors with context
package errors

import "errors"

// Derivation pipeline errors.
var (
	// ErrNoTopics indicates an account has no derived topics yet.
	// This is an expected state for new or small accounts, not a failure.
	ErrNoTopics = errors.New("no topics available")

	// ErrNoUmbrellas indicates an account has no umbrella clusters yet.
	ErrNoUmbrellas = errors.New("no umbrellas available")

	// ErrNoCandidates indicates candidate extraction produced nothing usable.
	ErrNoCandidates = errors.New("no topic candidates")
)

// Entity resolution errors.
var (
	// ErrAccountNotFound indicates an account could not be found.
	ErrAccountNotFound = errors.New("account not found")

	// ErrVideoNotFound indicates a video could not be found.
	ErrVideoNotFound = errors.New("video not found")

	// ErrNotFound is a generic not found error.
	ErrNotFound = errors.New("not found")
)

// Validation errors.
var (
	// ErrInvalidInput indicates invalid input was provided.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidID indicates an invalid identifier.
	ErrInvalidID = errors.New("invalid id")
)

// Clustering errors.
var (
	// ErrNoStrategyAvailable indicates no clustering strategy could run.
	// The connected-components fallback makes this effectively unreachable;
	// if it occurs anyway the umbrella build for that account must abort.
	ErrNoStrategyAvailable = errors.New("no clustering strategy available")
)

// Is is a convenience wrapper around errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As is a convenience wrapper around errors.As.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
