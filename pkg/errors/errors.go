// Package errors provides structured error types for legalscan.
//
// This package defines error codes and types that enable:
//   - A fixed failure taxonomy for the archive scan
//   - Machine-readable error codes for diagnostics and exit codes
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Codes group failures by how the scan reacts to them:
//   - ARCHIVE_IO, DESCRIPTOR_PARSE: one archive or descriptor is skipped
//   - NOT_FOUND, AMBIGUOUS, NETWORK, RESOLUTION: a lookup failed and the
//     archive is listed for manual review
//   - OUTPUT_WRITE: the aggregated outputs could not be written; this is
//     the only failure that aborts a run
//   - INVALID_*: input validation failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidCoordinate, "invalid coordinate %q", s)
//	if errors.Is(err, errors.ErrCodeInvalidCoordinate) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeArchiveIO, origErr, "read %s", path)
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
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidCoordinate Code = "INVALID_COORDINATE"
	ErrCodeInvalidPath       Code = "INVALID_PATH"
	ErrCodeInvalidRegistry   Code = "INVALID_REGISTRY"

	// Scan failures that skip one archive or branch
	ErrCodeArchiveIO       Code = "ARCHIVE_IO"
	ErrCodeDescriptorParse Code = "DESCRIPTOR_PARSE"

	// Resolution failures routed to manual review
	ErrCodeResolution Code = "RESOLUTION"
	ErrCodeNotFound   Code = "NOT_FOUND"
	ErrCodeAmbiguous  Code = "AMBIGUOUS"
	ErrCodeNetwork    Code = "NETWORK_ERROR"

	// Fatal
	ErrCodeOutputWrite Code = "OUTPUT_WRITE"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
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
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
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
	return err.Error()
}

// IsFatal reports whether err must abort a scan run.
func IsFatal(err error) bool {
	return Is(err, ErrCodeOutputWrite)
}
