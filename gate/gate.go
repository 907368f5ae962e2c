// Package gate runs an ordered chain of request checks in front of a handler.
// A Gate may carry a bypass predicate (typically "is an admin") that skips every
// check. The first failing check decides the outcome; its error is one of the
// sentinels in errors.go so callers can map it to a response.
package gate

import (
	"fmt"
	"net/http"
)

// Check inspects a request and returns nil to let it through.
type Check func(r *http.Request) error

type namedCheck struct {
	name  string
	check Check
}

// Gate is an ordered list of checks.
type Gate struct {
	bypass   func(r *http.Request) bool
	checks   []namedCheck
	onReject func(r *http.Request, err error)
}

// New creates an empty Gate. bypass may be nil.
func New(bypass func(r *http.Request) bool) *Gate {
	return &Gate{bypass: bypass}
}

// Register appends a check. Checks run in registration order.
func (g *Gate) Register(name string, c Check) *Gate {
	g.checks = append(g.checks, namedCheck{name: name, check: c})
	return g
}

// Authorize runs the checks and returns the first failure, wrapped with the
// check name.
func (g *Gate) Authorize(r *http.Request) error {
	if g.bypass != nil && g.bypass(r) {
		return nil
	}
	for _, c := range g.checks {
		if err := c.check(r); err != nil {
			return fmt.Errorf("%s: %w", c.name, err)
		}
	}
	return nil
}

// OnReject sets a callback run by Middleware before it rejects a request.
func (g *Gate) OnReject(f func(r *http.Request, err error)) *Gate {
	g.onReject = f
	return g
}

// Middleware rejects requests that fail the gate with the status from Status.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := g.Authorize(r); err != nil {
			if g.onReject != nil {
				g.onReject(r, err)
			}
			code := Status(err)
			http.Error(w, http.StatusText(code), code)
			return
		}
		next.ServeHTTP(w, r)
	})
}
