// Package errors provides structured error handling with HTTP status mapping
// for the API layer. Domain sentinel errors are classified here so handlers
// can return them directly.
package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/mhellwig/forumpulse/internal/domain"
)

// ErrorType is the category of an error, used for metrics and response codes.
type ErrorType string

const (
	// TypeValidation indicates invalid input (HTTP 400)
	TypeValidation ErrorType = "validation"
	// TypeNotFound indicates resource not found (HTTP 404)
	TypeNotFound ErrorType = "not_found"
	// TypeConflict indicates a request inconsistent with current state (HTTP 409)
	TypeConflict ErrorType = "conflict"
	// TypeInternal indicates a server-side failure (HTTP 500)
	TypeInternal ErrorType = "internal"
)

// Error is a structured error with type, message, and context fields.
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]any
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the HTTP status code for this error type.
func (e *Error) HTTPStatus() int {
	switch e.Type {
	case TypeValidation:
		return http.StatusBadRequest
	case TypeNotFound:
		return http.StatusNotFound
	case TypeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// WithContext adds a context field to the error (chainable).
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// ValidationError creates a new validation error (HTTP 400).
func ValidationError(message string) *Error {
	return &Error{Type: TypeValidation, Message: message, Context: make(map[string]any)}
}

// NotFoundError creates a new not-found error (HTTP 404).
func NotFoundError(message string) *Error {
	return &Error{Type: TypeNotFound, Message: message, Context: make(map[string]any)}
}

// ConflictError creates a new conflict error (HTTP 409).
func ConflictError(message string) *Error {
	return &Error{Type: TypeConflict, Message: message, Context: make(map[string]any)}
}

// InternalError creates a new internal error (HTTP 500).
func InternalError(message string, cause error) *Error {
	return &Error{Type: TypeInternal, Message: message, Cause: cause, Context: make(map[string]any)}
}

// ErrorResponse is the JSON structure sent to clients.
type ErrorResponse struct {
	Error   string         `json:"error"`
	Type    ErrorType      `json:"type"`
	Context map[string]any `json:"context,omitempty"`
}

// ToResponse converts an Error to an ErrorResponse for JSON serialization.
func (e *Error) ToResponse() ErrorResponse {
	return ErrorResponse{Error: e.Message, Type: e.Type, Context: e.Context}
}

// FromDomain classifies an error coming out of the reaction service.
// Business rejections map to 409/404 so the caller can distinguish "you
// already liked this" from a transient failure; everything else is internal.
func FromDomain(err error) *Error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrTargetNotFound):
		return NotFoundError("target not found")
	case errors.Is(err, domain.ErrAlreadyReacted):
		return ConflictError("reaction already exists")
	case errors.Is(err, domain.ErrNoReactionToCancel):
		return ConflictError("no reaction to cancel")
	case errors.Is(err, domain.ErrReactionMismatch):
		return ConflictError("reaction kind does not match cancel request")
	default:
		return AsStructuredError(err)
	}
}

// AsStructuredError converts any error into a structured Error. If err is
// already an *Error it is returned unchanged.
func AsStructuredError(err error) *Error {
	if err == nil {
		return nil
	}

	var structuredErr *Error
	if errors.As(err, &structuredErr) {
		return structuredErr
	}

	return InternalError("internal server error", err)
}
