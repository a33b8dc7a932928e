// Package errors provides structured error types for the dayview application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - NOT_FOUND_*: Resource not found
//   - NETWORK_*: Network-related errors
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidPolicy, "unknown policy: %s", name)
//	if errors.Is(err, errors.ErrCodeInvalidPolicy) {
//	    // Handle validation error
//	}
//
//	// Layout input problems carry the offending event index
//	err := errors.Invalid(3, "end", "end %s is before start %s", end, start)
//	if errors.IsValidation(err) {
//	    // Reject the request, do not retry
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidEvent    Code = "INVALID_EVENT"
	ErrCodeInvalidOptions  Code = "INVALID_OPTIONS"
	ErrCodeInvalidPolicy   Code = "INVALID_POLICY"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidTimezone Code = "INVALID_TIMEZONE"
	ErrCodeInvalidPath     Code = "INVALID_PATH"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Network errors
	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error or *ValidationError
// with a matching code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error carries no code.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var v *ValidationError
	if errors.As(err, &v) {
		return v.Code()
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	var v *ValidationError
	if errors.As(err, &v) {
		return v.Reason
	}
	return err.Error()
}

// ValidationError reports malformed layout input. It is fatal to the single
// call that produced it: callers must not retry with the same input and the
// engine never coerces the offending value.
type ValidationError struct {
	Index  int    // Position of the offending event in the input, or -1 for options
	Field  string // Offending field ("start", "end", "policy", ...)
	Reason string // Human-readable reason
}

// Invalid creates a ValidationError for the event at index.
func Invalid(index int, field, format string, args ...any) *ValidationError {
	return &ValidationError{
		Index:  index,
		Field:  field,
		Reason: fmt.Sprintf(format, args...),
	}
}

// InvalidOption creates a ValidationError for a layout option.
func InvalidOption(field, format string, args ...any) *ValidationError {
	return Invalid(-1, field, format, args...)
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s: option %s: %s", e.Code(), e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: event %d: %s: %s", e.Code(), e.Index, e.Field, e.Reason)
}

// Code returns the error code for this error type.
func (e *ValidationError) Code() Code {
	if e.Index < 0 {
		return ErrCodeInvalidOptions
	}
	return ErrCodeInvalidEvent
}

// IsValidation reports whether err (or any error it wraps) is a *ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
