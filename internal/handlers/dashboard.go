package handlers

import (
	"net/http"

	"github.com/kewgardenflowers/kgf-orders/internal/services"
	"github.com/kewgardenflowers/kgf-orders/view"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type DashboardHandler struct {
	orders *services.OrderService
	log    logrus.FieldLogger
}

func NewDashboardHandler(orders *services.OrderService, log logrus.FieldLogger) *DashboardHandler {
	return &DashboardHandler{orders: orders, log: log}
}

func (h *DashboardHandler) Show(w http.ResponseWriter, r *http.Request) {
	stats, recent, err := h.orders.Dashboard(r.Context())
	if err != nil {
		serviceError(w, r, h.log, err)
		return
	}
	revenue, err := h.orders.Revenue(r.Context())
	if err != nil {
		serviceError(w, r, h.log, err)
		return
	}
	err = view.Render(w, r, "dashboard.html", map[string]any{
		"Stats":   stats,
		"Recent":  recent,
		"Revenue": view.Currency(lang(r), decimal.NewNullDecimal(revenue)),
	})
	if err != nil {
		renderFailed(w, h.log, err)
	}
}
