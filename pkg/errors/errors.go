// Package errors provides structured error types for flowgraph.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library, CLI and HTTP API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - MISSING_*: Structurally incomplete workflow closures
//   - NOT_*: Preconditions that were not met
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMissingStartNode, "workflow %s has no start node", name)
//	if errors.Is(err, errors.ErrCodeMissingStartNode) {
//	    // Handle malformed closure
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeLayoutFailed, origErr, "render %s", format)
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidDirection Code = "INVALID_DIRECTION"
	ErrCodeInvalidDepth     Code = "INVALID_DEPTH"
	ErrCodeInvalidPath      Code = "INVALID_PATH"
	ErrCodeSchemaViolation  Code = "SCHEMA_VIOLATION"

	// Malformed closure errors (fatal for a build)
	ErrCodeInvalidClosure       Code = "INVALID_CLOSURE"
	ErrCodeMissingTemplate      Code = "MISSING_TEMPLATE"
	ErrCodeMissingStartNode     Code = "MISSING_START_NODE"
	ErrCodeMissingConnections   Code = "MISSING_CONNECTIONS"
	ErrCodeUnknownNodeReference Code = "UNKNOWN_NODE_REFERENCE"
	ErrCodeCycleDetected        Code = "CYCLE_DETECTED"

	// Layout errors
	ErrCodeNotMeasured  Code = "NOT_MEASURED"
	ErrCodeLayoutFailed Code = "LAYOUT_FAILED"

	// Resource errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

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

// IsMalformedClosure reports whether err describes a structurally broken
// workflow closure (as opposed to bad request parameters or internal failures).
func IsMalformedClosure(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidClosure, ErrCodeMissingTemplate, ErrCodeMissingStartNode,
		ErrCodeMissingConnections, ErrCodeUnknownNodeReference, ErrCodeCycleDetected,
		ErrCodeSchemaViolation:
		return true
	}
	return false
}

// HTTPStatus maps an error to the HTTP status code used by the API.
// Errors without a code map to 500.
func HTTPStatus(err error) int {
	if IsMalformedClosure(err) {
		return http.StatusUnprocessableEntity
	}
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidFormat, ErrCodeInvalidDirection,
		ErrCodeInvalidDepth, ErrCodeInvalidPath, ErrCodeNotMeasured:
		return http.StatusBadRequest
	case ErrCodeNotFound, ErrCodeFileNotFound:
		return http.StatusNotFound
	case ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
