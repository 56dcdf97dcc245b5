package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundError_Creation(t *testing.T) {
	message := "appointment not found"
	err := NewNotFoundError(message)

	assert.NotNil(t, err)
	assert.Equal(t, message, err.Message)
	assert.Equal(t, message, err.Error())
}

func TestNotFoundError_IsNotFoundError(t *testing.T) {
	err := NewNotFoundError("test not found")

	notFoundErr, ok := IsNotFoundError(err)
	assert.True(t, ok)
	assert.NotNil(t, notFoundErr)
	assert.Equal(t, "test not found", notFoundErr.Message)
}

func TestNotFoundError_IsNotFoundError_Wrapped(t *testing.T) {
	err := fmt.Errorf("loading appointment: %w", NewNotFoundError("appointment with id 7 not found"))

	notFoundErr, ok := IsNotFoundError(err)
	assert.True(t, ok)
	assert.Equal(t, "appointment with id 7 not found", notFoundErr.Message)
}

func TestNotFoundError_IsNotFoundError_WithOtherError(t *testing.T) {
	err := errors.New("some other error")

	notFoundErr, ok := IsNotFoundError(err)
	assert.False(t, ok)
	assert.Nil(t, notFoundErr)
}

func TestValidationError_Creation(t *testing.T) {
	message := "validation failed"
	details := []ValidationDetail{
		{Field: "email", Message: "invalid email"},
		{Field: "firstName", Message: "required field"},
	}

	err := NewValidationError(message, details...)

	assert.NotNil(t, err)
	assert.Equal(t, message, err.Message)
	assert.Equal(t, message, err.Error())
	assert.Len(t, err.Details, 2)

	ve, ok := IsValidationError(err)
	assert.True(t, ok)
	assert.Same(t, err, ve)
}

func TestConflictError_IsConflictError(t *testing.T) {
	err := NewConflictError("Email already subscribed")

	ce, ok := IsConflictError(err)
	assert.True(t, ok)
	assert.Equal(t, "Email already subscribed", ce.Error())

	_, ok = IsConflictError(NewNotFoundError("x"))
	assert.False(t, ok)
}

func TestNotificationError_Unwrap(t *testing.T) {
	cause := errors.New("535 authentication failed")
	err := NewNotificationError("sending contact message", cause)

	assert.Contains(t, err.Error(), "sending contact message")
	assert.Contains(t, err.Error(), "535 authentication failed")
	assert.True(t, errors.Is(err, cause))

	ne, ok := IsNotificationError(fmt.Errorf("contact: %w", err))
	assert.True(t, ok)
	assert.Equal(t, cause, ne.Cause)
}

func TestInternalError_Creation(t *testing.T) {
	cause := errors.New("database error")
	err := NewInternalError("failed to query database", cause)

	assert.NotNil(t, err)
	assert.Equal(t, "failed to query database", err.Message)
	assert.Equal(t, cause, err.Cause)
	assert.Contains(t, err.Error(), "failed to query database")
	assert.Contains(t, err.Error(), "database error")
}

func TestInternalError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := NewInternalError("wrapper", cause)

	assert.Equal(t, cause, err.Unwrap())
	assert.True(t, errors.Is(err, cause))
}

func TestInternalError_NilCause(t *testing.T) {
	err := NewInternalError("no cause", nil)

	assert.Equal(t, "no cause", err.Error())
	assert.Nil(t, err.Unwrap())
}
