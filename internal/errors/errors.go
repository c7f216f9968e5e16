package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrDuplicateUser is returned when registering an email that already exists.
	ErrDuplicateUser = errors.New("user already exists")
	// ErrInvalidCredentials covers both unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrStorage wraps any failure of the backing store, timeouts included.
	ErrStorage = errors.New("storage error")
	// ErrNotFound is returned by repositories when no row matches.
	ErrNotFound = errors.New("not found")
	// ErrTokenExpired is returned when a token is past its expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid is returned for tampered, malformed or foreign tokens.
	ErrTokenInvalid = errors.New("token invalid")
	// ErrTokenMissing is returned when a protected route gets no bearer token.
	ErrTokenMissing = errors.New("token missing")
	// ErrForbidden is returned when the caller's role does not allow the action.
	ErrForbidden = errors.New("forbidden")
)

// ValidationError carries a client-facing description of malformed input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is makes errors.Is(err, ErrValidation) true for any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError formats a ValidationError.
func NewValidationError(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// Storage tags err as a storage failure while keeping the cause inspectable.
func Storage(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	// Internal is logged server-side and never sent to the client.
	Internal error
}

func (e *HTTPError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Internal)
	}
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Internal
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	var he *HTTPError
	if errors.As(err, &he) {
		return he
	}

	var mapped *HTTPError
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		mapped = NewHTTPError(http.StatusBadRequest, ve.Message, "VALIDATION_ERROR")
	case errors.Is(err, ErrDuplicateUser):
		mapped = NewHTTPError(http.StatusBadRequest, "User already exists", "USER_ALREADY_EXISTS")
	case errors.Is(err, ErrInvalidCredentials):
		mapped = NewHTTPError(http.StatusBadRequest, "Invalid credentials", "INVALID_CREDENTIALS")
	case errors.Is(err, ErrTokenExpired):
		mapped = NewHTTPError(http.StatusUnauthorized, "Token expired", "TOKEN_EXPIRED")
	case errors.Is(err, ErrTokenInvalid):
		mapped = NewHTTPError(http.StatusUnauthorized, "Invalid token", "TOKEN_INVALID")
	case errors.Is(err, ErrTokenMissing):
		mapped = NewHTTPError(http.StatusUnauthorized, "Missing token", "TOKEN_MISSING")
	case errors.Is(err, ErrForbidden):
		mapped = NewHTTPError(http.StatusForbidden, "Forbidden", "FORBIDDEN")
	case errors.Is(err, ErrNotFound):
		mapped = NewHTTPError(http.StatusNotFound, "User not found", "NOT_FOUND")
	case errors.Is(err, ErrStorage):
		mapped = NewHTTPError(http.StatusInternalServerError, "Server error", "STORAGE_ERROR")
	default:
		mapped = NewHTTPError(http.StatusInternalServerError, "Server error", "INTERNAL_ERROR")
	}
	mapped.Internal = err
	return mapped
}
