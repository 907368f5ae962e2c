package policy

import (
	"net/http"

	"github.com/kewgardenflowers/kgf-orders/auth"
	"github.com/kewgardenflowers/kgf-orders/gate"
	"github.com/kewgardenflowers/kgf-orders/internal/handlers"
	"github.com/kewgardenflowers/kgf-orders/internal/metrics"
	"github.com/kewgardenflowers/kgf-orders/internal/ratelimit"
	"github.com/kewgardenflowers/kgf-orders/internal/services"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Query parameter and form field used by the public order form.
const (
	TokenParam    = "token"
	HoneypotField = "website"
)

// Deps are the collaborators the router is built from.
type Deps struct {
	DB        *gorm.DB
	Log       logrus.FieldLogger
	Sessions  *auth.Sessions
	Password  *auth.Password
	Limiter   *ratelimit.Limiter
	FormToken string
}

// RouterConfig holds configured handlers, gates and services for the application.
type RouterConfig struct {
	Sessions *auth.Sessions

	// AccessGate guards the public order form page: the admin, or the shared token.
	AccessGate *gate.Gate
	// SubmitGate guards public submissions: token, honeypot, then the rate limiter.
	SubmitGate *gate.Gate

	AuthHandler      *handlers.AuthHandler
	OrderHandler     *handlers.OrderHandler
	ClientHandler    *handlers.ClientHandler
	CalendarHandler  *handlers.CalendarHandler
	ExportHandler    *handlers.ExportHandler
	DashboardHandler *handlers.DashboardHandler
	HealthHandler    *handlers.HealthHandler

	OrderService  *services.OrderService
	ClientService *services.ClientService
}

// NewRouterConfig wires services, gates and handlers together.
//
// The order of SubmitGate checks is significant: a request without the token
// never reaches the honeypot, and neither a forbidden nor a bot submission
// consumes rate-limit budget.
func NewRouterConfig(d Deps) *RouterConfig {
	orderService := services.NewOrderService(d.DB, d.Log)
	clientService := services.NewClientService(d.DB, d.Log)

	access := gate.New(auth.IsAdminRequest).
		Register("token", gate.Token(TokenParam, d.FormToken)).
		OnReject(func(r *http.Request, err error) {
			metrics.RecordRejection("token")
			d.Log.WithError(err).WithField("path", r.URL.Path).Info("order form rejected")
		})
	submit := gate.New(auth.IsAdminRequest).
		Register("token", gate.Token(TokenParam, d.FormToken)).
		Register("honeypot", gate.Honeypot(HoneypotField)).
		Register("ratelimit", gate.RateLimit(d.Limiter, ratelimit.ClientKey))

	return &RouterConfig{
		Sessions:   d.Sessions,
		AccessGate: access,
		SubmitGate: submit,

		AuthHandler:      handlers.NewAuthHandler(d.Sessions, d.Password, d.Log),
		OrderHandler:     handlers.NewOrderHandler(orderService, submit, d.Log),
		ClientHandler:    handlers.NewClientHandler(clientService, d.Log),
		CalendarHandler:  handlers.NewCalendarHandler(orderService, d.Log),
		ExportHandler:    handlers.NewExportHandler(orderService, clientService, d.Log),
		DashboardHandler: handlers.NewDashboardHandler(orderService, d.Log),
		HealthHandler:    handlers.NewHealthHandler(d.DB, d.Log),

		OrderService:  orderService,
		ClientService: clientService,
	}
}
