// Package auth implements the single-admin session: a signed, expiring cookie
// set after the shared admin password was presented.
package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type ctxKey string

const (
	sessionCookieName = "session"
	adminCtxKey       = ctxKey("admin")
	sessionSubject    = "admin"
)

// Sessions signs and verifies admin session cookies.
type Sessions struct {
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

// NewSessions returns a session manager. secret must be kept stable across
// restarts or every session is invalidated.
func NewSessions(secret string, ttl time.Duration, secure bool) *Sessions {
	if secret == "" {
		secret = "devsessionsecret"
	}
	if ttl <= 0 {
		ttl = 14 * 24 * time.Hour
	}
	return &Sessions{secret: []byte(secret), ttl: ttl, secure: secure, now: time.Now}
}

func (s *Sessions) sign(payload string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// Create sets the admin session cookie.
func (s *Sessions) Create(w http.ResponseWriter) {
	expires := s.now().Add(s.ttl)
	payload := sessionSubject + "." + strconv.FormatInt(expires.Unix(), 10)
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    payload + "." + s.sign(payload),
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  expires,
	})
}

// Clear deletes the session cookie.
func (s *Sessions) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: sessionCookieName, Value: "", Path: "/", Expires: time.Unix(0, 0), MaxAge: -1, HttpOnly: true, Secure: s.secure, SameSite: http.SameSiteLaxMode})
}

// Parse reports whether the request carries a valid, unexpired admin session.
func (s *Sessions) Parse(r *http.Request) bool {
	c, err := r.Cookie(sessionCookieName)
	if err != nil || c.Value == "" {
		return false
	}
	parts := strings.Split(c.Value, ".")
	if len(parts) != 3 || parts[0] != sessionSubject {
		return false
	}
	payload := parts[0] + "." + parts[1]
	if !hmac.Equal([]byte(parts[2]), []byte(s.sign(payload))) {
		return false
	}
	exp, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return false
	}
	return s.now().Before(time.Unix(exp, 0))
}

// Middleware marks the request context as admin when the session is valid.
func (s *Sessions) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.Parse(r) {
			r = r.WithContext(WithAdmin(r.Context()))
		}
		next.ServeHTTP(w, r)
	})
}

// WithAdmin marks ctx as belonging to the authenticated admin.
func WithAdmin(ctx context.Context) context.Context {
	return context.WithValue(ctx, adminCtxKey, true)
}

// IsAdmin reports whether ctx belongs to the authenticated admin.
func IsAdmin(ctx context.Context) bool {
	v, _ := ctx.Value(adminCtxKey).(bool)
	return v
}

// IsAdminRequest is IsAdmin for a request, handy as a gate bypass.
func IsAdminRequest(r *http.Request) bool { return IsAdmin(r.Context()) }

// RequireAdmin redirects to /login (HTML) or returns 401 JSON when the request
// is not authenticated.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsAdmin(r.Context()) {
			accept := r.Header.Get("Accept")
			if strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html") {
				w.WriteHeader(http.StatusUnauthorized)
				fmt.Fprint(w, `{"error":"unauthorized"}`)
				return
			}
			http.Redirect(w, r, "/login?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SafeNext returns next when it is a local path, otherwise fallback.
func SafeNext(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}
	return next
}
