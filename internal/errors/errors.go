// Package errors provides error classification and handling for platformapi.
package errors

import (
	"errors"
)

// ErrorType represents the classification of errors
type ErrorType int

const (
	// ValidationErrorType represents rejected or empty host input
	ValidationErrorType ErrorType = iota

	// NotFoundErrorType represents a missing playbook or static inventory file
	NotFoundErrorType

	// IOErrorType represents temp file creation or filesystem errors
	IOErrorType

	// BinaryMissingErrorType represents the automation binary being absent from PATH
	BinaryMissingErrorType

	// TimeoutErrorType represents a run exceeding its wall-clock timeout
	TimeoutErrorType

	// ExecutionErrorType represents process start or wait failures
	ExecutionErrorType

	// UnknownErrorType represents unclassified errors
	UnknownErrorType
)

// String returns a string representation of the error type
func (et ErrorType) String() string {
	switch et {
	case ValidationErrorType:
		return "validation"
	case NotFoundErrorType:
		return "not_found"
	case IOErrorType:
		return "io"
	case BinaryMissingErrorType:
		return "binary_missing"
	case TimeoutErrorType:
		return "timeout"
	case ExecutionErrorType:
		return "execution"
	default:
		return "unknown"
	}
}

// ClassifiedError wraps an error with classification information
type ClassifiedError struct {
	Type     ErrorType
	Original error
	Message  string
}

// Error implements the error interface
func (ce *ClassifiedError) Error() string {
	if ce.Message != "" {
		return ce.Message
	}
	if ce.Original != nil {
		return ce.Original.Error()
	}
	return "unknown error"
}

// Unwrap returns the original error for error unwrapping
func (ce *ClassifiedError) Unwrap() error {
	return ce.Original
}

// TypeOf returns the classification of err, or UnknownErrorType for
// errors that did not originate from this package.
func TypeOf(err error) ErrorType {
	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Type
	}
	return UnknownErrorType
}

// IsType reports whether err carries the given classification
func IsType(err error, t ErrorType) bool {
	return TypeOf(err) == t
}

// NewValidationError creates a new validation error
func NewValidationError(message string, original error) *ClassifiedError {
	return &ClassifiedError{
		Type:     ValidationErrorType,
		Original: original,
		Message:  message,
	}
}

// NewNotFoundError creates a new not-found error
func NewNotFoundError(message string, original error) *ClassifiedError {
	return &ClassifiedError{
		Type:     NotFoundErrorType,
		Original: original,
		Message:  message,
	}
}

// NewIOError creates a new I/O error
func NewIOError(message string, original error) *ClassifiedError {
	return &ClassifiedError{
		Type:     IOErrorType,
		Original: original,
		Message:  message,
	}
}

// NewBinaryMissingError creates a new binary-missing error
func NewBinaryMissingError(message string, original error) *ClassifiedError {
	return &ClassifiedError{
		Type:     BinaryMissingErrorType,
		Original: original,
		Message:  message,
	}
}

// NewTimeoutError creates a new timeout error
func NewTimeoutError(message string, original error) *ClassifiedError {
	return &ClassifiedError{
		Type:     TimeoutErrorType,
		Original: original,
		Message:  message,
	}
}

// NewExecutionError creates a new execution error
func NewExecutionError(message string, original error) *ClassifiedError {
	return &ClassifiedError{
		Type:     ExecutionErrorType,
		Original: original,
		Message:  message,
	}
}
