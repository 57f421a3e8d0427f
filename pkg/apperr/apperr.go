package apperr

import (
	"errors"
	"net/http"
)

// Sentinel errors for the request/service boundary. Handlers translate these
// to HTTP codes via Status; services wrap them with context where useful.
var (
	ErrValidation        = errors.New("validation failed")
	ErrConflict          = errors.New("email or phone already registered")
	ErrNotFound          = errors.New("not found")
	ErrInvalidCredential = errors.New("invalid credentials")
	ErrInvalidOrExpired  = errors.New("invalid or expired secret")
	ErrPendingApproval   = errors.New("account pending approval")
	ErrRateLimited       = errors.New("a reset request is already pending")
	ErrUpstream          = errors.New("upstream service failure")
)

// Status maps a service error to its HTTP status code.
// Credential and secret failures deliberately share generic 400s so the
// response does not reveal which check failed.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrConflict),
		errors.Is(err, ErrInvalidCredential), errors.Is(err, ErrInvalidOrExpired):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrPendingApproval):
		return http.StatusForbidden
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Code returns the stable machine-readable error identifier for responses.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "validation_failed"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidCredential):
		return "invalid_credentials"
	case errors.Is(err, ErrInvalidOrExpired):
		return "invalid_or_expired"
	case errors.Is(err, ErrPendingApproval):
		return "pending_approval"
	case errors.Is(err, ErrRateLimited):
		return "reset_already_pending"
	case errors.Is(err, ErrUpstream):
		return "upstream_failure"
	default:
		return "internal_error"
	}
}
