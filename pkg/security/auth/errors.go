package auth

import (
	"errors"
	"fmt"
	"net/http"
)

// Reasons reported by AuthError.
var (
	// ErrMissingCredentials means the request carried no bearer token.
	ErrMissingCredentials = errors.New("missing bearer token")

	// ErrInvalidCredentials means the bearer token did not match.
	ErrInvalidCredentials = errors.New("invalid bearer token")

	// ErrNotConfigured means the server has no token to compare against.
	ErrNotConfigured = errors.New("bearer token is not configured")
)

// AuthError is returned when a request cannot be authenticated.
type AuthError struct {
	// Reason is one of ErrMissingCredentials, ErrInvalidCredentials or
	// ErrNotConfigured.
	Reason error

	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("authentication failed: %v: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("authentication failed: %v", e.Reason)
}

// Unwrap exposes both the reason and the cause to errors.Is.
func (e *AuthError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Reason, e.Cause}
	}
	return []error{e.Reason}
}

// StatusCode returns the HTTP status the error maps to.
func (e *AuthError) StatusCode() int {
	if errors.Is(e.Reason, ErrNotConfigured) {
		return http.StatusInternalServerError
	}
	return http.StatusUnauthorized
}
