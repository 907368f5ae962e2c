package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/kewgardenflowers/kgf-orders/i18n"
	"github.com/kewgardenflowers/kgf-orders/internal/services"
	"github.com/kewgardenflowers/kgf-orders/validation"
	"github.com/sirupsen/logrus"
)

// pathID parses the {id} path segment.
func pathID(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// isHX reports whether the request was issued by htmx.
func isHX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

func lang(r *http.Request) string {
	return i18n.LangFromContext(r.Context())
}

// serviceError writes the response for a non-validation service failure.
func serviceError(w http.ResponseWriter, r *http.Request, log logrus.FieldLogger, err error) {
	if errors.Is(err, services.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	log.WithError(err).WithField("path", r.URL.Path).Error("request failed")
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}

// violations extracts the field errors of a validation failure.
func violations(err error) (validation.Violations, bool) {
	var ve *services.ValidationError
	if errors.As(err, &ve) {
		return ve.Violations, true
	}
	return nil, false
}

// formValues copies the named fields of the parsed form.
func formValues(r *http.Request, fields ...string) map[string]string {
	m := make(map[string]string, len(fields))
	for _, f := range fields {
		m[f] = r.FormValue(f)
	}
	return m
}

// postedField returns a pointer to a submitted form field, nil when absent.
func postedField(r *http.Request, name string) *string {
	vs, ok := r.PostForm[name]
	if !ok || len(vs) == 0 {
		return nil
	}
	v := vs[0]
	return &v
}

func renderFailed(w http.ResponseWriter, log logrus.FieldLogger, err error) {
	log.WithError(err).Error("render failed")
	http.Error(w, "Failed to render template", http.StatusInternalServerError)
}
