// Package apperr provides standardized domain error types for the application.
// Domain services return these typed errors, and the HTTP layer maps them to
// status codes without inspecting messages.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind represents the category of error.
type Kind int

const (
	// KindUnknown is the default error kind when none is specified.
	KindUnknown Kind = iota
	// KindNotFound indicates a resource was not found.
	KindNotFound
	// KindValidation indicates input that failed business-rule validation.
	KindValidation
	// KindConflict indicates a conflict with existing state (e.g., terminal stage).
	KindConflict
	// KindBadRequest indicates a malformed request or a contract violation.
	KindBadRequest
	// KindInternal indicates an unexpected internal error.
	KindInternal
)

// GenericMessage is the only text an end user sees for internal failures.
const GenericMessage = "No pudimos procesar tu solicitud"

// Error is a domain error with a typed Kind for HTTP mapping.
type Error struct {
	Kind    Kind
	Message string
	Op      string // Operation that failed (optional)
	Err     error  // Underlying error (optional)
	Details any    // Additional details for response (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Op != "" {
		msg = fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the appropriate HTTP status code for this error kind.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindBadRequest:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// PublicMessage is the message safe to show to the caller. Internal errors
// never leak their message or cause.
func (e *Error) PublicMessage() string {
	if e.Kind == KindInternal || e.Kind == KindUnknown {
		return GenericMessage
	}
	return e.Message
}

// New creates a new domain error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates a new domain error wrapping an existing error.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// WithOp returns the error with the operation set.
func (e *Error) WithOp(op string) *Error {
	e.Op = op
	return e
}

// WithDetails returns the error with additional details.
func (e *Error) WithDetails(details any) *Error {
	e.Details = details
	return e
}

// NotFound creates a not found error.
func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

// Validation creates a validation error.
func Validation(message string) *Error {
	return New(KindValidation, message)
}

// Conflict creates a conflict error.
func Conflict(message string) *Error {
	return New(KindConflict, message)
}

// BadRequest creates a bad request error.
func BadRequest(message string) *Error {
	return New(KindBadRequest, message)
}

// Internal creates an internal server error.
func Internal(message string) *Error {
	return New(KindInternal, message)
}

// GetKind extracts the error kind from anywhere in the error chain.
// Returns KindUnknown if no *Error is present.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is checks if err carries an *Error with the given kind.
func Is(err error, kind Kind) bool {
	return GetKind(err) == kind
}
