package handlers

import (
	"net/http"
	"time"

	"github.com/kewgardenflowers/kgf-orders/httpx"
	"github.com/kewgardenflowers/kgf-orders/internal/feeds"
	"github.com/kewgardenflowers/kgf-orders/internal/services"
	"github.com/kewgardenflowers/kgf-orders/view"
	"github.com/sirupsen/logrus"
)

type CalendarHandler struct {
	orders *services.OrderService
	log    logrus.FieldLogger
	now    func() time.Time
}

func NewCalendarHandler(orders *services.OrderService, log logrus.FieldLogger) *CalendarHandler {
	return &CalendarHandler{orders: orders, log: log, now: time.Now}
}

// Page lists active orders grouped by delivery date.
func (h *CalendarHandler) Page(w http.ResponseWriter, r *http.Request) {
	days, err := h.orders.Calendar(r.Context())
	if err != nil {
		serviceError(w, r, h.log, err)
		return
	}
	if err := view.Render(w, r, "calendar.html", map[string]any{"Days": days}); err != nil {
		renderFailed(w, h.log, err)
	}
}

// ICS serves the subscribable iCalendar feed of active orders.
func (h *CalendarHandler) ICS(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.Active(r.Context())
	if err != nil {
		serviceError(w, r, h.log, err)
		return
	}
	httpx.Download(w, httpx.ContentTypeCalendar, "kgf-orders.ics", true)
	if err := feeds.WriteICS(w, orders, h.now()); err != nil {
		h.log.WithError(err).Error("write calendar feed")
	}
}
