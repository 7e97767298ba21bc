// Package errors provides structured error types for neuroc.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI, API and batch drivers
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Four codes describe expected, per-morphology domain failures of the axon
// shrinker. Batch drivers record them and move on to the next file:
//   - NO_AXON: the morphology has no axon root section
//   - TOO_MANY_AXONS: the morphology has more than one axon root section
//   - NO_SECTION_TO_CUT: the main axon branch never crosses the cut or graft plane
//   - NO_AXON_ANNOTATION: the annotation sidecar has no axon rule
//
// Every other code is fatal to a batch.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeNoSectionToCut, "No section to graft from")
//	if errors.IsExpected(err) {
//	    // record and continue
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidFormat, origErr, "parse %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Domain failures of cut-and-graft
	ErrCodeNoAxon           Code = "NO_AXON"
	ErrCodeTooManyAxons     Code = "TOO_MANY_AXONS"
	ErrCodeNoSectionToCut   Code = "NO_SECTION_TO_CUT"
	ErrCodeNoAxonAnnotation Code = "NO_AXON_ANNOTATION"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Resource not found errors
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

// IsExpected reports whether err carries one of the four domain codes that a
// batch driver records and skips instead of aborting.
func IsExpected(err error) bool {
	switch GetCode(err) {
	case ErrCodeNoAxon, ErrCodeTooManyAxons, ErrCodeNoSectionToCut, ErrCodeNoAxonAnnotation:
		return true
	}
	return false
}
