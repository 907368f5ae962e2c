package httpx

import (
	"encoding/json"
	"mime"
	"net/http"
)

// Content types served by the feeds.
const (
	ContentTypeCSV      = "text/csv; charset=utf-8"
	ContentTypeCalendar = "text/calendar; charset=utf-8"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// Status is the body of the health endpoint.
type Status struct {
	Status string `json:"status"`
}

func JSON(w http.ResponseWriter, status int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, `{"error":"encode_error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func JSONError(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, ErrorResponse{Error: msg})
}

// Download sets the headers for a generated file. inline lets calendar apps
// subscribe to the URL instead of saving it.
func Download(w http.ResponseWriter, contentType, filename string, inline bool) {
	disposition := "attachment"
	if inline {
		disposition = "inline"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType(disposition, map[string]string{"filename": filename}))
	w.Header().Set("Cache-Control", "no-cache")
}
