package errors

import "errors"

// Common error types used across the goexec library

var (
	// ErrQueueFull indicates that a bounded scheduler queue rejected a submission
	ErrQueueFull = errors.New("scheduler queue is full")

	// ErrNilFunction indicates that a nil function was submitted for execution
	ErrNilFunction = errors.New("function cannot be nil")

	// ErrInvalidConfiguration indicates invalid configuration parameters
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// IsSubmissionFailure returns true if the error was reported by a submission
// operation (Dispatch, Post or Defer) rather than by the submitted work itself
func IsSubmissionFailure(err error) bool {
	return errors.Is(err, ErrQueueFull) || errors.Is(err, ErrNilFunction)
}

// IsRetryable returns true if the error indicates a condition that might
// be resolved by retrying the operation
func IsRetryable(err error) bool {
	return errors.Is(err, ErrQueueFull)
}
