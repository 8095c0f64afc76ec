package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mhellwig/forumpulse/internal/domain"
)

func TestValidationError(t *testing.T) {
	err := ValidationError("invalid input")

	assert.Equal(t, TypeValidation, err.Type)
	assert.Equal(t, "invalid input", err.Message)
	assert.Nil(t, err.Cause)
	assert.NotNil(t, err.Context)
	assert.Equal(t, http.StatusBadRequest, err.HTTPStatus())
	assert.Contains(t, err.Error(), "validation")
	assert.Contains(t, err.Error(), "invalid input")
}

func TestNotFoundError(t *testing.T) {
	err := NotFoundError("target not found")

	assert.Equal(t, TypeNotFound, err.Type)
	assert.Equal(t, http.StatusNotFound, err.HTTPStatus())
	assert.Contains(t, err.Error(), "not_found")
}

func TestConflictError(t *testing.T) {
	err := ConflictError("reaction already exists")

	assert.Equal(t, TypeConflict, err.Type)
	assert.Equal(t, http.StatusConflict, err.HTTPStatus())
	assert.Contains(t, err.Error(), "conflict")
}

func TestInternalError(t *testing.T) {
	cause := fmt.Errorf("database connection failed")
	err := InternalError("failed to apply reaction", cause)

	assert.Equal(t, TypeInternal, err.Type)
	assert.Equal(t, cause, err.Cause)
	assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus())
	assert.Contains(t, err.Error(), "failed to apply reaction")
	assert.Contains(t, err.Error(), "database connection failed")
}

func TestInternalErrorWithoutCause(t *testing.T) {
	err := InternalError("something went wrong", nil)

	assert.Nil(t, err.Cause)
	assert.NotContains(t, err.Error(), "<nil>")
}

func TestWithContextChaining(t *testing.T) {
	err := ValidationError("invalid input").
		WithContext("user_id", "123").
		WithContext("target", "post/42")

	assert.Len(t, err.Context, 2)
	assert.Equal(t, "123", err.Context["user_id"])
	assert.Equal(t, "post/42", err.Context["target"])
}

func TestWithContextNilMap(t *testing.T) {
	err := &Error{Type: TypeValidation, Message: "test"}

	err = err.WithContext("key", "value")

	assert.NotNil(t, err.Context)
	assert.Equal(t, "value", err.Context["key"])
}

func TestToResponse(t *testing.T) {
	err := ConflictError("no reaction to cancel").
		WithContext("target", "comment/5")

	resp := err.ToResponse()

	assert.Equal(t, "no reaction to cancel", resp.Error)
	assert.Equal(t, TypeConflict, resp.Type)
	assert.Equal(t, "comment/5", resp.Context["target"])
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := InternalError("wrapped", cause)

	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestFromDomain(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantType ErrorType
		wantCode int
	}{
		{"target not found", domain.ErrTargetNotFound, TypeNotFound, http.StatusNotFound},
		{"already reacted", domain.ErrAlreadyReacted, TypeConflict, http.StatusConflict},
		{"no reaction to cancel", domain.ErrNoReactionToCancel, TypeConflict, http.StatusConflict},
		{"reaction mismatch", domain.ErrReactionMismatch, TypeConflict, http.StatusConflict},
		{"arbitrary failure", fmt.Errorf("connection refused"), TypeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			structured := FromDomain(tt.err)
			assert.Equal(t, tt.wantType, structured.Type)
			assert.Equal(t, tt.wantCode, structured.HTTPStatus())
		})
	}
}

func TestFromDomainWrappedSentinel(t *testing.T) {
	wrapped := fmt.Errorf("failed to apply transition: %w", domain.ErrAlreadyReacted)

	structured := FromDomain(wrapped)
	assert.Equal(t, TypeConflict, structured.Type)
}

func TestFromDomainNil(t *testing.T) {
	assert.Nil(t, FromDomain(nil))
}

func TestAsStructuredErrorPassthrough(t *testing.T) {
	original := NotFoundError("target not found")

	assert.Same(t, original, AsStructuredError(original))
}
