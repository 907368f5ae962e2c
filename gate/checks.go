package gate

import (
	"context"
	"crypto/subtle"
	"net/http"
)

// Token requires the query parameter param to equal token. An empty token
// disables the check.
func Token(param, token string) Check {
	return func(r *http.Request) error {
		if token == "" {
			return nil
		}
		got := r.URL.Query().Get(param)
		if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			return ErrForbidden
		}
		return nil
	}
}

// Honeypot rejects submissions that filled in the hidden form field.
func Honeypot(field string) Check {
	return func(r *http.Request) error {
		if r.PostFormValue(field) != "" {
			return ErrBot
		}
		return nil
	}
}

// Limiter is the part of a rate limiter a gate needs.
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

// RateLimit lets a request through while l allows the key derived from it.
func RateLimit(l Limiter, key func(r *http.Request) string) Check {
	return func(r *http.Request) error {
		if !l.Allow(r.Context(), key(r)) {
			return ErrRateLimited
		}
		return nil
	}
}
