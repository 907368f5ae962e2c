package main

import (
	"net/http"

	"github.com/kewgardenflowers/kgf-orders/auth"
	"github.com/kewgardenflowers/kgf-orders/i18n"
	"github.com/kewgardenflowers/kgf-orders/internal/logging"
	"github.com/kewgardenflowers/kgf-orders/internal/metrics"
	"github.com/kewgardenflowers/kgf-orders/internal/policy"
	"github.com/kewgardenflowers/kgf-orders/view"
	"github.com/sirupsen/logrus"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux       *http.ServeMux
	handler   http.Handler
	routerCfg *policy.RouterConfig
	metrics   bool
}

// NewApp creates a new application with all routes configured.
func NewApp(routerCfg *policy.RouterConfig, log logrus.FieldLogger, withMetrics bool) *App {
	app := &App{
		mux:       http.NewServeMux(),
		routerCfg: routerCfg,
		metrics:   withMetrics,
	}
	view.SetIsAdminResolver(auth.IsAdminRequest)
	app.setupRoutes()

	// Global middleware, outermost first: access log, metrics, session, preferences.
	var h http.Handler = withPreferences(app.mux)
	h = routerCfg.Sessions.Middleware(h)
	if withMetrics {
		h = metrics.InstrumentHandler(h)
	}
	app.handler = logging.Middleware(log)(h)
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

// setupRoutes configures all application routes.
func (a *App) setupRoutes() {
	// ─────────────────────────────────────────────────────────────────────────
	// Public routes
	// ─────────────────────────────────────────────────────────────────────────
	ah := a.routerCfg.AuthHandler
	oh := a.routerCfg.OrderHandler
	calh := a.routerCfg.CalendarHandler

	a.mux.HandleFunc("GET /login", ah.Login)
	a.mux.HandleFunc("POST /login", ah.Login)
	a.mux.HandleFunc("GET /logout", ah.Logout)
	a.mux.HandleFunc("POST /logout", ah.Logout)

	// Admins pass both order form gates; visitors need the form token.
	a.mux.Handle("GET /orders/new", a.routerCfg.AccessGate.Middleware(http.HandlerFunc(oh.New)))
	a.mux.HandleFunc("POST /orders/new", oh.Create)

	a.mux.HandleFunc("GET /calendar.ics", calh.ICS)
	a.mux.HandleFunc("GET /healthz", a.routerCfg.HealthHandler.Check)
	if a.metrics {
		a.mux.Handle("GET /metrics", metrics.Handler())
	}

	// ─────────────────────────────────────────────────────────────────────────
	// Admin routes
	// ─────────────────────────────────────────────────────────────────────────
	ch := a.routerCfg.ClientHandler
	eh := a.routerCfg.ExportHandler

	a.mux.Handle("GET /{$}", a.requireAdmin(a.routerCfg.DashboardHandler.Show))

	a.mux.Handle("GET /orders", a.requireAdmin(oh.List))
	a.mux.Handle("GET /orders/{id}", a.requireAdmin(oh.View))
	a.mux.Handle("POST /orders/{id}/toggle", a.requireAdmin(oh.Toggle))
	a.mux.Handle("POST /orders/{id}/delete", a.requireAdmin(oh.Delete))
	a.mux.Handle("GET /orders/{id}/edit", a.requireAdmin(oh.Edit))
	a.mux.Handle("POST /orders/{id}/edit", a.requireAdmin(oh.Update))

	a.mux.Handle("GET /clients", a.requireAdmin(ch.List))
	a.mux.Handle("GET /clients/new", a.requireAdmin(ch.New))
	a.mux.Handle("POST /clients/new", a.requireAdmin(ch.Create))
	a.mux.Handle("GET /clients/{id}", a.requireAdmin(ch.View))
	a.mux.Handle("GET /clients/{id}/edit", a.requireAdmin(ch.Edit))
	a.mux.Handle("POST /clients/{id}/edit", a.requireAdmin(ch.Update))
	a.mux.Handle("POST /clients/{id}/delete", a.requireAdmin(ch.Delete))

	a.mux.Handle("GET /calendar", a.requireAdmin(calh.Page))
	a.mux.Handle("GET /export.csv", a.requireAdmin(eh.Orders))
	a.mux.Handle("GET /clients.csv", a.requireAdmin(eh.Clients))
}

// requireAdmin wraps a handler to require the admin session.
func (a *App) requireAdmin(h http.HandlerFunc) http.Handler {
	return auth.RequireAdmin(h)
}

// withPreferences resolves the UI language: ?lang= (persisted in a cookie),
// then the lang cookie, then Accept-Language.
func withPreferences(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := ""
		if c, err := r.Cookie("lang"); err == nil && i18n.Supported(c.Value) {
			lang = c.Value
		}
		if q := r.URL.Query().Get("lang"); i18n.Supported(q) {
			lang = q
			http.SetCookie(w, &http.Cookie{
				Name:     "lang",
				Value:    lang,
				Path:     "/",
				MaxAge:   86400 * 365,
				HttpOnly: true,
			})
		}
		if lang == "" {
			lang = i18n.DetectLanguage(r.Header.Get("Accept-Language"))
		}
		next.ServeHTTP(w, r.WithContext(i18n.WithLang(r.Context(), lang)))
	})
}
