// Package ratelimit gates public order submissions per origin.
//
// Each origin gets a fixed window that opens on its first request. Within the
// window at most limit requests are allowed; denied requests do not count. The
// window restarts once it is older than the configured window.
package ratelimit

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultWindow is the length of a rate-limit window.
const DefaultWindow = time.Hour

// Store records windows per key. Hit must check and count atomically.
type Store interface {
	Hit(ctx context.Context, key string, now time.Time, window time.Duration, limit int) (bool, error)
}

// Limiter decides whether an origin may submit.
type Limiter struct {
	store  Store
	limit  int
	window time.Duration
	now    func() time.Time
	log    logrus.FieldLogger
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

// WithWindow overrides DefaultWindow.
func WithWindow(d time.Duration) Option {
	return func(l *Limiter) { l.window = d }
}

// WithLogger sets the logger used to report store failures.
func WithLogger(log logrus.FieldLogger) Option {
	return func(l *Limiter) { l.log = log }
}

// New returns a limiter allowing limit requests per window per key.
func New(store Store, limit int, opts ...Option) *Limiter {
	l := &Limiter{
		store:  store,
		limit:  limit,
		window: DefaultWindow,
		now:    time.Now,
		log:    logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow reports whether key may make another request now. A failing store
// lets the request through.
func (l *Limiter) Allow(ctx context.Context, key string) bool {
	ok, err := l.store.Hit(ctx, key, l.now(), l.window, l.limit)
	if err != nil {
		l.log.WithError(err).WithField("key", key).Warn("rate limit store unavailable")
		return true
	}
	return ok
}

// ClientKey identifies the origin of a request: the first X-Forwarded-For
// entry when present, otherwise the connection address without its port.
func ClientKey(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
