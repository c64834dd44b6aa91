package core

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrUsage marks a misuse of the bridge: operating on a torn-down context,
	// registering a second live context for the same instance, disposing from
	// the wrong goroutine or waiting on the host goroutine for itself.
	ErrUsage = errors.New("hostbridge: usage error")

	// ErrHostHalted is returned by a Host when it no longer accepts output for
	// the current run (the pipeline was stopped downstream or by the user).
	ErrHostHalted = errors.New("hostbridge: host halted")

	// ErrCancelled is reported by actions and stages that were cancelled
	// before or while they executed.
	ErrCancelled = errors.New("hostbridge: operation cancelled")

	// ErrStopRequested is the cancellation cause recorded when the host
	// requests a stop. It matches ErrCancelled.
	ErrStopRequested = fmt.Errorf("%w: stop requested", ErrCancelled)
)

// UsageError describes a bridge misuse. It matches ErrUsage with errors.Is.
type UsageError struct {
	Op     string // Operation that was attempted
	Reason string // Human-readable explanation
}

// NewUsageError constructs a UsageError.
func NewUsageError(op, reason string) *UsageError {
	return &UsageError{Op: op, Reason: reason}
}

// Error implements the error interface.
func (e *UsageError) Error() string {
	return fmt.Sprintf("hostbridge: %s: %s", e.Op, e.Reason)
}

// Is reports ErrUsage as a match so callers can test the category.
func (e *UsageError) Is(target error) bool { return target == ErrUsage }

// Cancelled wraps cause so that it matches both ErrCancelled and cause.
// A nil cause yields context.Canceled.
func Cancelled(cause error) error {
	if cause == nil {
		cause = context.Canceled
	}
	if errors.Is(cause, ErrCancelled) {
		return cause
	}
	return fmt.Errorf("%w: %w", ErrCancelled, cause)
}

// IsCancellation reports whether err represents a cancellation rather than a
// failure.
func IsCancellation(err error) bool {
	return errors.Is(err, ErrCancelled) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// IsHostHalted reports whether err carries the host halted signal.
func IsHostHalted(err error) bool {
	return errors.Is(err, ErrHostHalted)
}

// Errors flattens err into its leaf causes. Errors produced by errors.Join
// (or anything exposing Unwrap() []error) are expanded recursively; a nil
// error yields an empty slice.
func Errors(err error) []error {
	if err == nil {
		return []error{}
	}
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return []error{err}
	}
	out := make([]error, 0, 2)
	for _, e := range joined.Unwrap() {
		out = append(out, Errors(e)...)
	}
	return out
}
