package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Behavior(t *testing.T) {
	err := NewValidationError("invalid input").WithDetail("field", "name").WithComponent("test-component")
	assert.Equal(t, ErrorTypeValidation, err.Type)
	assert.Equal(t, http.StatusBadRequest, err.HTTPCode)
	assert.Equal(t, "invalid input", err.Message)
	assert.Equal(t, "test-component", err.Component)
	assert.Equal(t, "name", err.Details["field"])
	assert.Equal(t, "invalid input", err.Error())
}

func TestAppError_WithCause_Unwrap(t *testing.T) {
	cause := fmt.Errorf("dial tcp: connection refused")
	err := NewInternalError("Failed to save menu items").WithCause(cause)
	assert.Equal(t, cause, err.Unwrap())
	assert.Equal(t, "Failed to save menu items: dial tcp: connection refused", err.Error())
}

func TestStoreErrors_StatusCodes(t *testing.T) {
	cfgErr := NewConfigurationError("not configured")
	assert.Equal(t, http.StatusServiceUnavailable, cfgErr.HTTPCode)
	assert.True(t, IsConfiguration(cfgErr))
	assert.False(t, IsAvailability(cfgErr))

	availErr := NewAvailabilityError("client unavailable")
	assert.Equal(t, http.StatusServiceUnavailable, availErr.HTTPCode)
	assert.True(t, IsAvailability(availErr))
	assert.False(t, IsConfiguration(availErr))

	internal := NewInternalError("boom")
	assert.Equal(t, http.StatusInternalServerError, internal.HTTPCode)
	assert.False(t, IsValidation(internal))
}

func TestValidationErrors(t *testing.T) {
	ve := NewValidationErrors()
	assert.Nil(t, ve.ToAppError("ignored"))

	ve.Add("items[0].id", "must be set", "")
	assert.True(t, ve.HasErrors())
	appErr := ve.ToAppError("Invalid item structure")
	require.NotNil(t, appErr)
	assert.Equal(t, ErrorTypeValidation, appErr.Type)
	assert.Equal(t, "Invalid item structure", appErr.Message)
	assert.Contains(t, ve.Error(), "must be set")
}

func TestAsAppError_ThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("save: %w", NewValidationError("bad"))

	appErr, ok := AsAppError(wrapped)
	require.True(t, ok)
	assert.Equal(t, "bad", appErr.Message)
	assert.True(t, IsValidation(wrapped))
	assert.Same(t, appErr, WrapError(wrapped, "ignored"))

	plain := WrapError(fmt.Errorf("disk full"), "Failed to save")
	assert.Equal(t, ErrorTypeInternal, plain.Type)
	assert.ErrorContains(t, plain, "disk full")
	assert.False(t, IsAvailability(plain))
}
