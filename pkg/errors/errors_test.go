package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_ErrorString(t *testing.T) {
	plain := New(ErrCodeNotFound, "notification not found", http.StatusNotFound)
	assert.Equal(t, "NOT_FOUND: notification not found", plain.Error())

	wrapped := Wrap(stderrors.New("redis: nil"), ErrCodeInternal, "lookup failed", http.StatusInternalServerError)
	assert.Contains(t, wrapped.Error(), "INTERNAL_ERROR: lookup failed")
	assert.Contains(t, wrapped.Error(), "redis: nil")
}

func TestWrap_PreservesCauseChain(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(cause, ErrCodeInternal, "store unavailable", http.StatusInternalServerError)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, cause, err.Unwrap())
}

func TestGetAppError_FindsThroughWrapping(t *testing.T) {
	appErr := NewAlreadyProcessedError("request already resolved")
	outer := fmt.Errorf("handling approve: %w", appErr)

	got := GetAppError(outer)
	require.NotNil(t, got)
	assert.Equal(t, ErrCodeAlreadyProcessed, got.Code)
	assert.Equal(t, http.StatusConflict, got.HTTPStatus)
}

func TestGetAppError_NilForPlainErrors(t *testing.T) {
	assert.Nil(t, GetAppError(stderrors.New("plain")))
	assert.Nil(t, GetAppError(nil))
	assert.False(t, IsAppError(stderrors.New("plain")))
}

func TestConstructors_StatusMapping(t *testing.T) {
	cases := []struct {
		err    *AppError
		code   ErrorCode
		status int
	}{
		{NewInvalidInputError("bad"), ErrCodeInvalidInput, http.StatusBadRequest},
		{NewUnauthorizedError("no token"), ErrCodeUnauthorized, http.StatusUnauthorized},
		{NewForbiddenError("not yours"), ErrCodeForbidden, http.StatusForbidden},
		{NewNotFoundError("group"), ErrCodeNotFound, http.StatusNotFound},
		{NewAlreadyProcessedError("done"), ErrCodeAlreadyProcessed, http.StatusConflict},
		{NewConflictError("duplicate"), ErrCodeConflict, http.StatusConflict},
		{NewRateLimitError(), ErrCodeRateLimit, http.StatusTooManyRequests},
		{NewInternalError("boom"), ErrCodeInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.code, tc.err.Code)
		assert.Equal(t, tc.status, tc.err.HTTPStatus)
	}
}

func TestNewNotFoundError_NamesResource(t *testing.T) {
	assert.Equal(t, "group not found", NewNotFoundError("group").Message)
}

func TestWithContext_Accumulates(t *testing.T) {
	err := NewInvalidInputError("bad payload").
		WithContext("field", "kind").
		WithContext("value", "bogus")

	assert.Equal(t, "kind", err.Context["field"])
	assert.Equal(t, "bogus", err.Context["value"])
}
