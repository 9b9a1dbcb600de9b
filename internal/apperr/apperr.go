// Package apperr defines the error taxonomy shared across the upload and
// review flows. Errors carry a code so handlers can map them to HTTP status
// and user-facing notifications without string matching.
package apperr

import (
	"errors"
	"fmt"
)

// Code classifies an error.
type Code string

const (
	// CodeEncoding - preprocessing failed to produce an output image.
	CodeEncoding Code = "ENCODING_ERROR"
	// CodeUnknownFrame - coordinate mapping cannot establish the
	// analyzed-image frame.
	CodeUnknownFrame Code = "UNKNOWN_FRAME"
	// CodeBackend - a backend call failed (network, HTTP status, decode).
	CodeBackend Code = "BACKEND_ERROR"
	// CodeValidation - input rejected locally before any network call.
	CodeValidation Code = "VALIDATION_ERROR"
	// CodeInvalidState - a session transition not valid in the current state.
	CodeInvalidState Code = "INVALID_STATE"
)

// Error is a code-carrying error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Encoding creates an EncodingError.
func Encoding(message string, cause error) *Error {
	return &Error{Code: CodeEncoding, Message: message, Cause: cause}
}

// UnknownFrame creates an UnknownFrameError.
func UnknownFrame(message string) *Error {
	return &Error{Code: CodeUnknownFrame, Message: message}
}

// Backend creates a BackendError.
func Backend(message string, cause error) *Error {
	return &Error{Code: CodeBackend, Message: message, Cause: cause}
}

// Validation creates a ValidationError.
func Validation(message string) *Error {
	return &Error{Code: CodeValidation, Message: message}
}

// InvalidState creates an InvalidStateError.
func InvalidState(message string) *Error {
	return &Error{Code: CodeInvalidState, Message: message}
}

// CodeOf returns the code of err, or "" when err carries none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}
