package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	JSON(rr, http.StatusOK, Status{Status: "ok"})
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())

	rr = httptest.NewRecorder()
	JSON(rr, http.StatusOK, make(chan int))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestJSONError(t *testing.T) {
	rr := httptest.NewRecorder()
	JSONError(rr, http.StatusServiceUnavailable, "database unavailable")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.JSONEq(t, `{"error":"database unavailable"}`, rr.Body.String())
}

func TestDownload(t *testing.T) {
	rr := httptest.NewRecorder()
	Download(rr, ContentTypeCSV, "orders.csv", false)
	assert.Equal(t, ContentTypeCSV, rr.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=orders.csv", rr.Header().Get("Content-Disposition"))

	rr = httptest.NewRecorder()
	Download(rr, ContentTypeCalendar, "kgf-orders.ics", true)
	assert.Equal(t, "inline; filename=kgf-orders.ics", rr.Header().Get("Content-Disposition"))
}
