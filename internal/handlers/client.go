package handlers

import (
	"fmt"
	"net/http"

	"github.com/kewgardenflowers/kgf-orders/internal/models"
	"github.com/kewgardenflowers/kgf-orders/internal/services"
	"github.com/kewgardenflowers/kgf-orders/validation"
	"github.com/kewgardenflowers/kgf-orders/view"
	"github.com/sirupsen/logrus"
)

var clientFields = []string{"name", "phone", "email", "address", "notes"}

type ClientHandler struct {
	clients *services.ClientService
	log     logrus.FieldLogger
}

func NewClientHandler(clients *services.ClientService, log logrus.FieldLogger) *ClientHandler {
	return &ClientHandler{clients: clients, log: log}
}

func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	clients, err := h.clients.List(r.Context(), query)
	if err != nil {
		serviceError(w, r, h.log, err)
		return
	}
	err = view.Render(w, r, "clients/list.html", map[string]any{
		"Clients": clients,
		"Query":   query,
	})
	if err != nil {
		renderFailed(w, h.log, err)
	}
}

func (h *ClientHandler) View(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	client, err := h.clients.Get(r.Context(), id)
	if err != nil {
		serviceError(w, r, h.log, err)
		return
	}
	for i := range client.Orders {
		client.Orders[i].Client = client
	}
	if err := view.Render(w, r, "clients/detail.html", map[string]any{"Client": client}); err != nil {
		renderFailed(w, h.log, err)
	}
}

func (h *ClientHandler) New(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "clients/new.html", nil, map[string]string{}, validation.Violations{})
}

func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	client, err := h.clients.Create(r.Context(), clientInput(r))
	if v, ok := violations(err); ok {
		h.render(w, r, "clients/new.html", nil, formValues(r, clientFields...), v)
		return
	}
	if err != nil {
		serviceError(w, r, h.log, err)
		return
	}
	view.SetFlash(w, r, "client_created")
	http.Redirect(w, r, fmt.Sprintf("/clients/%d", client.ID), http.StatusSeeOther)
}

func (h *ClientHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	client, err := h.clients.Get(r.Context(), id)
	if err != nil {
		serviceError(w, r, h.log, err)
		return
	}
	h.render(w, r, "clients/edit.html", client, clientForm(client), validation.Violations{})
}

func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	client, err := h.clients.Update(r.Context(), id, clientInput(r))
	if v, ok := violations(err); ok {
		h.render(w, r, "clients/edit.html", client, clientForm(client), v)
		return
	}
	if err != nil {
		serviceError(w, r, h.log, err)
		return
	}
	view.SetFlash(w, r, "client_updated")
	http.Redirect(w, r, fmt.Sprintf("/clients/%d", client.ID), http.StatusSeeOther)
}

func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := h.clients.Archive(r.Context(), id); err != nil {
		serviceError(w, r, h.log, err)
		return
	}
	view.SetFlash(w, r, "client_archived")
	http.Redirect(w, r, "/clients", http.StatusSeeOther)
}

func (h *ClientHandler) render(w http.ResponseWriter, r *http.Request, page string, client *models.Client, form map[string]string, v validation.Violations) {
	err := view.Render(w, r, page, map[string]any{
		"Client": client,
		"Form":   form,
		"Errors": v,
	})
	if err != nil {
		renderFailed(w, h.log, err)
	}
}

func clientInput(r *http.Request) services.ClientInput {
	return services.ClientInput{
		Name:    postedField(r, "name"),
		Phone:   postedField(r, "phone"),
		Email:   postedField(r, "email"),
		Address: postedField(r, "address"),
		Notes:   postedField(r, "notes"),
	}
}

func clientForm(c *models.Client) map[string]string {
	return map[string]string{
		"name":    c.Name,
		"phone":   c.Phone,
		"email":   c.Email,
		"address": c.Address,
		"notes":   c.Notes,
	}
}
