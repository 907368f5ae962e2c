package handlers

import (
	"net/http"

	"github.com/kewgardenflowers/kgf-orders/httpx"
	"github.com/kewgardenflowers/kgf-orders/internal/db"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db  *gorm.DB
	log logrus.FieldLogger
}

func NewHealthHandler(conn *gorm.DB, log logrus.FieldLogger) *HealthHandler {
	return &HealthHandler{db: conn, log: log}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	if err := db.Ping(h.db.WithContext(r.Context())); err != nil {
		h.log.WithError(err).Warn("health check failed")
		httpx.JSONError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Status{Status: "ok"})
}
