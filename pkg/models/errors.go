package models

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes carried in API responses.
const (
	ErrCodeNotFound    = "DATA_NOT_FOUND"
	ErrCodeDenied      = "AUTHORIZATION_DENIED"
	ErrCodeUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeBadRequest  = "BAD_REQUEST"
)

// Sentinel errors for the three upstream failure kinds. Callers branch on
// these with errors.Is; the command layer turns them into distinct guidance
// messages.
var (
	ErrDataNotFound        = errors.New("data not found upstream")
	ErrAuthorizationDenied = errors.New("authorization denied by upstream")
	ErrServiceUnavailable  = errors.New("upstream service unavailable")
)

// SourceError wraps an upstream failure with its kind and, when available,
// the HTTP status code reported by the service.
type SourceError struct {
	Kind       error  // one of the three sentinels
	StatusCode int    // upstream HTTP status, 0 when not applicable
	Message    string // human-readable detail
}

func (e *SourceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap lets errors.Is match the failure kind.
func (e *SourceError) Unwrap() error {
	return e.Kind
}

// NewNotFoundError reports a missing player or chart upstream.
func NewNotFoundError(status int, format string, args ...interface{}) *SourceError {
	return &SourceError{Kind: ErrDataNotFound, StatusCode: status, Message: fmt.Sprintf(format, args...)}
}

// NewDeniedError reports a privacy setting or missing/invalid secret.
func NewDeniedError(status int, format string, args ...interface{}) *SourceError {
	return &SourceError{Kind: ErrAuthorizationDenied, StatusCode: status, Message: fmt.Sprintf(format, args...)}
}

// NewUnavailableError reports a network failure, timeout or non-2xx status.
func NewUnavailableError(status int, format string, args ...interface{}) *SourceError {
	return &SourceError{Kind: ErrServiceUnavailable, StatusCode: status, Message: fmt.Sprintf(format, args...)}
}

// ErrorFromStatus maps a non-2xx upstream HTTP status to the failure taxonomy.
func ErrorFromStatus(status int, detail string) *SourceError {
	switch status {
	case http.StatusBadRequest, http.StatusNotFound:
		return NewNotFoundError(status, "%s", detail)
	case http.StatusUnauthorized, http.StatusForbidden:
		return NewDeniedError(status, "%s", detail)
	default:
		return NewUnavailableError(status, "%s", detail)
	}
}

// ErrorCode returns the API error code for an upstream failure.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrDataNotFound):
		return ErrCodeNotFound
	case errors.Is(err, ErrAuthorizationDenied):
		return ErrCodeDenied
	case errors.Is(err, ErrServiceUnavailable):
		return ErrCodeUnavailable
	default:
		return ErrCodeBadRequest
	}
}
