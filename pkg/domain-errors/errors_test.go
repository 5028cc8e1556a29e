package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessageAndUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeInternal, "store write failed")

	assert.Equal(t, "store write failed: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestHasCodeThroughWrapping(t *testing.T) {
	err := New(CodeNotFound, "client not found")
	wrapped := fmt.Errorf("handling request: %w", err)

	assert.True(t, HasCode(wrapped, CodeNotFound))
	assert.False(t, HasCode(wrapped, CodeValidation))
	assert.False(t, HasCode(errors.New("plain"), CodeNotFound))
}

func TestCodeOfDefaultsToInternal(t *testing.T) {
	assert.Equal(t, CodeTimeout, CodeOf(New(CodeTimeout, "slow store")))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("plain")))
}

func TestViolationsOf(t *testing.T) {
	violations := []FieldViolation{
		{Field: "mobileNumber", Reason: ReasonInvalidPhone},
		{Field: "birthDate", Reason: ReasonMissingField},
	}
	err := NewValidation(violations)

	assert.Equal(t, CodeValidation, CodeOf(err))
	assert.Equal(t, violations, ViolationsOf(err))
	assert.Nil(t, ViolationsOf(errors.New("plain")))
}

func TestToHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusUnprocessableEntity, ToHTTPStatus(CodeValidation))
	assert.Equal(t, http.StatusUnprocessableEntity, ToHTTPStatus(CodeInvalidInput))
	assert.Equal(t, http.StatusNotFound, ToHTTPStatus(CodeNotFound))
	assert.Equal(t, http.StatusUnauthorized, ToHTTPStatus(CodeUnauthorized))
	assert.Equal(t, http.StatusServiceUnavailable, ToHTTPStatus(CodeTimeout))
	assert.Equal(t, http.StatusInternalServerError, ToHTTPStatus(CodeInternal))
	assert.Equal(t, http.StatusInternalServerError, ToHTTPStatus(Code("UNKNOWN")))
}
