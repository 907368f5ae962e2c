package gate

import (
	"errors"
	"net/http"
)

// Sentinel errors returned by checks.
var (
	ErrForbidden   = errors.New("forbidden")
	ErrBot         = errors.New("bot detected")
	ErrRateLimited = errors.New("rate limited")
)

// Status maps a gate error to an HTTP status code.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrBot):
		return http.StatusBadRequest
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
