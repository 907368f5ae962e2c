package gate_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/kewgardenflowers/kgf-orders/gate"
)

type countingLimiter struct {
	allow bool
	calls int
}

func (l *countingLimiter) Allow(context.Context, string) bool {
	l.calls++
	return l.allow
}

func post(target string, form url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func newSubmissionGate(admin bool, token string, l gate.Limiter) *gate.Gate {
	return gate.New(func(*http.Request) bool { return admin }).
		Register("token", gate.Token("token", token)).
		Register("honeypot", gate.Honeypot("website")).
		Register("ratelimit", gate.RateLimit(l, func(r *http.Request) string { return r.RemoteAddr }))
}

func TestGate_AllowsCleanSubmission(t *testing.T) {
	l := &countingLimiter{allow: true}
	g := newSubmissionGate(false, "", l)
	if err := g.Authorize(post("/orders/new", url.Values{"client_name": {"Alice"}})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.calls != 1 {
		t.Errorf("limiter calls = %d, want 1", l.calls)
	}
}

func TestGate_AdminBypassesEverything(t *testing.T) {
	l := &countingLimiter{allow: false}
	g := newSubmissionGate(true, "s3cret", l)
	r := post("/orders/new", url.Values{"website": {"spam.example"}})
	if err := g.Authorize(r); err != nil {
		t.Fatalf("admin should bypass, got %v", err)
	}
	if l.calls != 0 {
		t.Errorf("limiter should not be consulted for admins")
	}
}

func TestGate_TokenRequiredWhenConfigured(t *testing.T) {
	l := &countingLimiter{allow: true}
	g := newSubmissionGate(false, "s3cret", l)

	err := g.Authorize(post("/orders/new?token=wrong", url.Values{}))
	if !errors.Is(err, gate.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if gate.Status(err) != http.StatusForbidden {
		t.Errorf("status = %d", gate.Status(err))
	}
	if err := g.Authorize(post("/orders/new?token=s3cret", url.Values{})); err != nil {
		t.Fatalf("matching token rejected: %v", err)
	}
}

func TestGate_HoneypotRejectsBeforeRateLimit(t *testing.T) {
	l := &countingLimiter{allow: true}
	g := newSubmissionGate(false, "", l)
	err := g.Authorize(post("/orders/new", url.Values{"website": {"http://spam"}}))
	if !errors.Is(err, gate.ErrBot) {
		t.Fatalf("expected ErrBot, got %v", err)
	}
	if gate.Status(err) != http.StatusBadRequest {
		t.Errorf("status = %d", gate.Status(err))
	}
	if l.calls != 0 {
		t.Errorf("bots must not consume the rate limit")
	}
}

func TestGate_RateLimited(t *testing.T) {
	g := newSubmissionGate(false, "", &countingLimiter{allow: false})
	err := g.Authorize(post("/orders/new", url.Values{}))
	if !errors.Is(err, gate.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "ratelimit:") {
		t.Errorf("error should name the check, got %q", err)
	}
}

func TestGate_Middleware(t *testing.T) {
	var rejected []error
	g := gate.New(nil).
		Register("token", gate.Token("token", "abc")).
		OnReject(func(r *http.Request, err error) { rejected = append(rejected, err) })
	h := g.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders/new", nil))
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders/new?token=abc", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if len(rejected) != 1 || !errors.Is(rejected[0], gate.ErrForbidden) {
		t.Fatalf("expected one forbidden rejection, got %v", rejected)
	}
}

func TestGate_MiddlewareBypass(t *testing.T) {
	g := gate.New(func(r *http.Request) bool { return r.Header.Get("X-Admin") == "1" }).
		Register("token", gate.Token("token", "abc"))
	h := g.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/orders/new", nil)
	req.Header.Set("X-Admin", "1")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("bypass should skip the checks, got %d", w.Code)
	}
}
