// Package apperrors defines the error taxonomy of the progression core.
// Callers branch with errors.Is against the sentinels; everything else
// carried by an error chain is context only.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks input rejected before any mutation; the caller
	// can correct and resubmit.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks an unknown user, word or game type.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks write contention that survived the retry budget.
	// The whole event may be retried; nothing was applied.
	ErrConflict = errors.New("write conflict")
	// ErrFatal marks an unexpected storage failure. The event was aborted
	// atomically.
	ErrFatal = errors.New("storage failure")
)

// Validationf builds an ErrValidation with a formatted detail message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFoundf builds an ErrNotFound with a formatted detail message.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// Conflictf builds an ErrConflict with a formatted detail message.
func Conflictf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// Fatal wraps an unexpected storage error, preserving the cause.
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrFatal, err)
}
