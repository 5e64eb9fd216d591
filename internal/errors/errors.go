// Package errors provides standardized domain errors with codes for the OpenShelf API.
//
// Usage:
//
//	// In the resolver - return typed errors
//	if nameTaken {
//	    return errors.AlreadyExists("author name already in use")
//	}
//
//	// At the transport boundary - check with errors.Is
//	if errors.Is(err, errors.ErrUnauthenticated) {
//	    // 401
//	}
//
//	// Or switch on the Code directly
//	var domainErr *errors.Error
//	if errors.As(err, &domainErr) {
//	    switch domainErr.Code {
//	    case errors.CodeInvalidInput:
//	        ...
//	    }
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
)

// Code represents a machine-readable error code.
type Code string

// Error codes used throughout the application.
const (
	CodeUnauthenticated Code = "UNAUTHENTICATED"
	CodeInvalidInput    Code = "INVALID_INPUT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeAlreadyExists   Code = "ALREADY_EXISTS"
	CodeInternal        Code = "INTERNAL"
)

// HTTPStatus returns the appropriate HTTP status code for an error code.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	case CodeInvalidInput:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeAlreadyExists:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error is a domain error with a code, message, and optional details.
// Details carries the rejected argument payload for INVALID_INPUT errors so
// clients can see which input was refused.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error  // unexported, for wrapping
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target matches this error.
// Matches if target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// HTTPStatus returns the HTTP status code for this error.
func (e *Error) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// WithDetails returns a new error carrying the given details payload.
func (e *Error) WithDetails(details any) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		cause:   e.cause,
	}
}

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		cause:   err,
	}
}

// Sentinel errors for use with errors.Is().
var (
	ErrUnauthenticated = &Error{Code: CodeUnauthenticated, Message: "not authenticated"}
	ErrInvalidInput    = &Error{Code: CodeInvalidInput, Message: "invalid input"}
	ErrNotFound        = &Error{Code: CodeNotFound, Message: "not found"}
	ErrAlreadyExists   = &Error{Code: CodeAlreadyExists, Message: "already exists"}
	ErrInternal        = &Error{Code: CodeInternal, Message: "internal error"}
)

// Unauthenticated creates a not-authenticated error.
func Unauthenticated(msg string) *Error {
	return &Error{Code: CodeUnauthenticated, Message: msg}
}

// InvalidInput creates an invalid input error.
func InvalidInput(msg string) *Error {
	return &Error{Code: CodeInvalidInput, Message: msg}
}

// InvalidInputf creates an invalid input error with formatted message.
func InvalidInputf(format string, args ...any) *Error {
	return &Error{Code: CodeInvalidInput, Message: fmt.Sprintf(format, args...)}
}

// InvalidInputWithArgs creates an invalid input error carrying the rejected
// argument payload for diagnostics.
func InvalidInputWithArgs(msg string, args any) *Error {
	return &Error{Code: CodeInvalidInput, Message: msg, Details: args}
}

// NotFound creates a not found error.
func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

// NotFoundf creates a not found error with formatted message.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// AlreadyExists creates an already exists error.
func AlreadyExists(msg string) *Error {
	return &Error{Code: CodeAlreadyExists, Message: msg}
}

// AlreadyExistsf creates an already exists error with formatted message.
func AlreadyExistsf(format string, args ...any) *Error {
	return &Error{Code: CodeAlreadyExists, Message: fmt.Sprintf(format, args...)}
}

// Internal creates an internal error.
func Internal(msg string) *Error {
	return &Error{Code: CodeInternal, Message: msg}
}

// Wrap wraps an error with a code and message.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, cause: err}
}

// Wrapf wraps an error with a code and formatted message.
func Wrapf(err error, code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), cause: err}
}
