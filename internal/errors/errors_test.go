package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
		wantCode   string
	}{
		{"duplicate user", ErrDuplicateUser, http.StatusBadRequest, "User already exists", "USER_ALREADY_EXISTS"},
		{"wrapped duplicate user", fmt.Errorf("register: %w", ErrDuplicateUser), http.StatusBadRequest, "User already exists", "USER_ALREADY_EXISTS"},
		{"invalid credentials", ErrInvalidCredentials, http.StatusBadRequest, "Invalid credentials", "INVALID_CREDENTIALS"},
		{"validation", NewValidationError("email is required"), http.StatusBadRequest, "email is required", "VALIDATION_ERROR"},
		{"token expired", ErrTokenExpired, http.StatusUnauthorized, "Token expired", "TOKEN_EXPIRED"},
		{"token invalid", fmt.Errorf("%w: signature is invalid", ErrTokenInvalid), http.StatusUnauthorized, "Invalid token", "TOKEN_INVALID"},
		{"token missing", ErrTokenMissing, http.StatusUnauthorized, "Missing token", "TOKEN_MISSING"},
		{"forbidden", ErrForbidden, http.StatusForbidden, "Forbidden", "FORBIDDEN"},
		{"not found", ErrNotFound, http.StatusNotFound, "User not found", "NOT_FOUND"},
		{"storage", Storage("find user", errors.New("connection refused")), http.StatusInternalServerError, "Server error", "STORAGE_ERROR"},
		{"storage timeout", Storage("create user", context.DeadlineExceeded), http.StatusInternalServerError, "Server error", "STORAGE_ERROR"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "Server error", "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			he := MapErrorToHTTP(tt.err)

			assert.Equal(t, tt.wantStatus, he.StatusCode)
			assert.Equal(t, tt.wantMsg, he.Message)
			assert.Equal(t, tt.wantCode, he.Code)
			assert.ErrorIs(t, he, tt.err)
		})
	}
}

func TestMapErrorToHTTP_PassesThroughHTTPError(t *testing.T) {
	original := NewHTTPError(http.StatusTeapot, "short and stout", "TEAPOT")

	assert.Same(t, original, MapErrorToHTTP(fmt.Errorf("wrapped: %w", original)))
}

func TestStorage_KeepsCause(t *testing.T) {
	err := Storage("find user", context.DeadlineExceeded)

	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "find user")
}

func TestValidationError_Is(t *testing.T) {
	err := fmt.Errorf("register: %w", NewValidationError("role must be one of %s", "student"))

	assert.ErrorIs(t, err, ErrValidation)
	assert.NotErrorIs(t, err, ErrStorage)
	assert.Equal(t, "register: role must be one of student", err.Error())
}

func TestHTTPError_ToErrorResponse_HidesInternal(t *testing.T) {
	he := MapErrorToHTTP(Storage("create user", errors.New("pq: password authentication failed")))

	resp := he.ToErrorResponse()
	assert.Equal(t, ErrorResponse{Error: "Server error", Code: "STORAGE_ERROR"}, resp)
	assert.Contains(t, he.Error(), "password authentication failed")
}
