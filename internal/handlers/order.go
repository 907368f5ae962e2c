package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/kewgardenflowers/kgf-orders/auth"
	"github.com/kewgardenflowers/kgf-orders/gate"
	"github.com/kewgardenflowers/kgf-orders/i18n"
	"github.com/kewgardenflowers/kgf-orders/internal/metrics"
	"github.com/kewgardenflowers/kgf-orders/internal/models"
	"github.com/kewgardenflowers/kgf-orders/internal/services"
	"github.com/kewgardenflowers/kgf-orders/validation"
	"github.com/kewgardenflowers/kgf-orders/view"
	"github.com/sirupsen/logrus"
)

var (
	newOrderFields  = []string{"client_name", "client_phone", "client_email", "client_address", "delivery_date", "items_text", "price_hkd", "notes"}
	editOrderFields = []string{"delivery_date", "items_text", "price_hkd", "notes"}
)

// OrderHandler serves the order pages. submit guards public submissions and
// lets the admin through.
type OrderHandler struct {
	orders *services.OrderService
	submit *gate.Gate
	log    logrus.FieldLogger
}

func NewOrderHandler(orders *services.OrderService, submit *gate.Gate, log logrus.FieldLogger) *OrderHandler {
	return &OrderHandler{orders: orders, submit: submit, log: log}
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	switch status {
	case services.FilterFulfilled, services.FilterUnfulfilled, services.FilterAll:
	default:
		status = services.FilterUnfulfilled
	}
	query := r.URL.Query().Get("q")

	orders, err := h.orders.List(r.Context(), services.OrderFilter{Status: status, Query: query})
	if err != nil {
		serviceError(w, r, h.log, err)
		return
	}
	if isHX(r) {
		if err := view.RenderPartial(w, r, "order_rows", orders); err != nil {
			renderFailed(w, h.log, err)
		}
		return
	}
	err = view.Render(w, r, "orders/list.html", map[string]any{
		"Orders": orders,
		"Status": status,
		"Query":  query,
	})
	if err != nil {
		renderFailed(w, h.log, err)
	}
}

func (h *OrderHandler) View(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	order, err := h.orders.Get(r.Context(), id)
	if err != nil {
		serviceError(w, r, h.log, err)
		return
	}
	if err := view.Render(w, r, "orders/detail.html", map[string]any{"Order": order}); err != nil {
		renderFailed(w, h.log, err)
	}
}

func (h *OrderHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	order, err := h.orders.ToggleStatus(r.Context(), id)
	if err != nil {
		serviceError(w, r, h.log, err)
		return
	}
	metrics.RecordTransition(string(order.Status))
	if isHX(r) {
		if err := view.RenderPartial(w, r, "order_row", order); err != nil {
			renderFailed(w, h.log, err)
		}
		return
	}
	view.SetFlash(w, r, "order_toggled")
	http.Redirect(w, r, auth.SafeNext(r.FormValue("next"), "/orders"), http.StatusSeeOther)
}

func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := h.orders.Archive(r.Context(), id); err != nil {
		serviceError(w, r, h.log, err)
		return
	}
	metrics.RecordTransition("archived")
	view.SetFlash(w, r, "order_archived")
	http.Redirect(w, r, "/orders", http.StatusSeeOther)
}

// New shows the order form. The route is wrapped in the access gate.
func (h *OrderHandler) New(w http.ResponseWriter, r *http.Request) {
	h.renderNew(w, r, map[string]string{}, validation.Violations{}, "")
}

// Create stores a submitted order. Admins are sent to the new order, public
// visitors get a thank-you page without any order details.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	form := formValues(r, newOrderFields...)
	if err := h.submit.Authorize(r); err != nil {
		if errors.Is(err, gate.ErrRateLimited) {
			metrics.RecordRejection("rate_limit")
			h.log.WithField("remote", r.RemoteAddr).Warn("order submission rate limited")
			h.renderNew(w, r, form, validation.Violations{}, i18n.T(lang(r), "rate_limited"))
			return
		}
		h.reject(w, err)
		return
	}

	order, err := h.orders.Create(r.Context(), services.OrderInput{
		Contact: services.ContactInput{
			Name:    form["client_name"],
			Phone:   form["client_phone"],
			Email:   form["client_email"],
			Address: form["client_address"],
		},
		DeliveryDate: form["delivery_date"],
		ItemsText:    form["items_text"],
		Notes:        form["notes"],
		Price:        form["price_hkd"],
	})
	if v, ok := violations(err); ok {
		h.renderNew(w, r, form, v, formMessage(lang(r), v))
		return
	}
	if err != nil {
		serviceError(w, r, h.log, err)
		return
	}

	if auth.IsAdmin(r.Context()) {
		metrics.RecordOrderCreated("admin")
		view.SetFlash(w, r, "order_created")
		http.Redirect(w, r, fmt.Sprintf("/orders/%d", order.ID), http.StatusSeeOther)
		return
	}
	metrics.RecordOrderCreated("public")
	if err := view.Render(w, r, "orders/thank_you.html", nil); err != nil {
		renderFailed(w, h.log, err)
	}
}

func (h *OrderHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	order, err := h.orders.Get(r.Context(), id)
	if err != nil {
		serviceError(w, r, h.log, err)
		return
	}
	h.renderEdit(w, r, order, orderForm(order), validation.Violations{}, "")
}

// Update applies the edit form. Fields missing from the submission keep their
// stored value; a blank price clears it.
func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	order, err := h.orders.Update(r.Context(), id, services.OrderPatch{
		DeliveryDate: postedField(r, "delivery_date"),
		ItemsText:    postedField(r, "items_text"),
		Notes:        postedField(r, "notes"),
		Price:        postedField(r, "price_hkd"),
	})
	if v, ok := violations(err); ok {
		form := orderForm(order)
		for _, f := range editOrderFields {
			if p := postedField(r, f); p != nil {
				form[f] = *p
			}
		}
		h.renderEdit(w, r, order, form, v, formMessage(lang(r), v))
		return
	}
	if err != nil {
		serviceError(w, r, h.log, err)
		return
	}
	view.SetFlash(w, r, "order_updated")
	http.Redirect(w, r, fmt.Sprintf("/orders/%d", order.ID), http.StatusSeeOther)
}

func (h *OrderHandler) reject(w http.ResponseWriter, err error) {
	status := gate.Status(err)
	switch {
	case errors.Is(err, gate.ErrForbidden):
		metrics.RecordRejection("token")
	case errors.Is(err, gate.ErrBot):
		metrics.RecordRejection("honeypot")
	}
	h.log.WithError(err).WithField("status", status).Info("order form rejected")
	http.Error(w, http.StatusText(status), status)
}

func (h *OrderHandler) renderNew(w http.ResponseWriter, r *http.Request, form map[string]string, v validation.Violations, msg string) {
	err := view.Render(w, r, "orders/new.html", map[string]any{
		"Form":   form,
		"Errors": v,
		"Error":  msg,
		"Token":  r.URL.Query().Get("token"),
	})
	if err != nil {
		renderFailed(w, h.log, err)
	}
}

func (h *OrderHandler) renderEdit(w http.ResponseWriter, r *http.Request, order *models.Order, form map[string]string, v validation.Violations, msg string) {
	err := view.Render(w, r, "orders/edit.html", map[string]any{
		"Order":  order,
		"Form":   form,
		"Errors": v,
		"Error":  msg,
	})
	if err != nil {
		renderFailed(w, h.log, err)
	}
}

func orderForm(o *models.Order) map[string]string {
	return map[string]string{
		"delivery_date": o.DeliveryDay(),
		"items_text":    o.ItemsText,
		"price_hkd":     o.PriceString(),
		"notes":         o.Notes,
	}
}

// formMessage picks the banner shown above an invalid order form.
func formMessage(lang string, v validation.Violations) string {
	if v["price_hkd"] == validation.CodeInvalidPrice {
		return i18n.T(lang, "invalid_price")
	}
	if v["delivery_date"] == validation.CodeInvalidDate && v["client_name"] == "" {
		return i18n.T(lang, "invalid_date")
	}
	return i18n.T(lang, "missing_fields")
}
