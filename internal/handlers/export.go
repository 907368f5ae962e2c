package handlers

import (
	"net/http"

	"github.com/kewgardenflowers/kgf-orders/httpx"
	"github.com/kewgardenflowers/kgf-orders/internal/feeds"
	"github.com/kewgardenflowers/kgf-orders/internal/services"
	"github.com/sirupsen/logrus"
)

type ExportHandler struct {
	orders  *services.OrderService
	clients *services.ClientService
	log     logrus.FieldLogger
}

func NewExportHandler(orders *services.OrderService, clients *services.ClientService, log logrus.FieldLogger) *ExportHandler {
	return &ExportHandler{orders: orders, clients: clients, log: log}
}

func (h *ExportHandler) Orders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.Active(r.Context())
	if err != nil {
		serviceError(w, r, h.log, err)
		return
	}
	httpx.Download(w, httpx.ContentTypeCSV, "orders.csv", false)
	if err := feeds.WriteOrdersCSV(w, orders); err != nil {
		h.log.WithError(err).Error("write orders csv")
	}
}

func (h *ExportHandler) Clients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.clients.List(r.Context(), "")
	if err != nil {
		serviceError(w, r, h.log, err)
		return
	}
	httpx.Download(w, httpx.ContentTypeCSV, "clients.csv", false)
	if err := feeds.WriteClientsCSV(w, clients); err != nil {
		h.log.WithError(err).Error("write clients csv")
	}
}
