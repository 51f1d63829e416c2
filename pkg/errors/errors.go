// Package errors provides structured error types for junction.
//
// Every failure that reaches the command line carries a machine-readable
// [Code] so callers can tell a malformed input file apart from an input that
// is well-formed but too small for the requested stopping policy.
//
// # Error Codes
//
//   - PARSE_ERROR: a point or budget record could not be parsed
//   - EXHAUSTED_INPUT: the sorted edges ran out before the policy was satisfied
//   - INVALID_*: option and flag validation failures
//   - FILE_NOT_FOUND, INTERNAL_ERROR: environment and unexpected failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeParse, "line %d: expected 3 fields, got %d", n, len(fields))
//	if errors.Is(err, errors.ErrCodeParse) {
//	    // Handle malformed input
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeParse, numErr, "line %d: invalid coordinate %q", n, field)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input errors
	ErrCodeParse          Code = "PARSE_ERROR"
	ErrCodeExhaustedInput Code = "EXHAUSTED_INPUT"

	// Validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidPolicy Code = "INVALID_POLICY"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Environment errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

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

// LineError reports a malformed record together with its 1-based line number.
// It is always wrapped in an *Error with [ErrCodeParse].
type LineError struct {
	Line   int    // 1-based line number in the input
	Record string // Raw record text
	Err    error  // Conversion error, if any
}

// Error implements the error interface.
func (e *LineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("line %d: %q: %v", e.Line, e.Record, e.Err)
	}
	return fmt.Sprintf("line %d: %q", e.Line, e.Record)
}

// Unwrap returns the conversion error.
func (e *LineError) Unwrap() error { return e.Err }

// ParseLine builds a PARSE_ERROR for the record on the given line.
// cause may be nil.
func ParseLine(line int, record string, cause error, format string, args ...any) *Error {
	return Wrap(ErrCodeParse, &LineError{Line: line, Record: record, Err: cause}, format, args...)
}

// LineOf returns the line number attached to err by [ParseLine], or 0.
func LineOf(err error) int {
	var le *LineError
	if errors.As(err, &le) {
		return le.Line
	}
	return 0
}
