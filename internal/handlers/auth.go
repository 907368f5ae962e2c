package handlers

import (
	"net/http"

	"github.com/kewgardenflowers/kgf-orders/auth"
	"github.com/kewgardenflowers/kgf-orders/i18n"
	"github.com/kewgardenflowers/kgf-orders/view"
	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	sessions *auth.Sessions
	password *auth.Password
	log      logrus.FieldLogger
}

func NewAuthHandler(sessions *auth.Sessions, password *auth.Password, log logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{sessions: sessions, password: password, log: log}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	next := auth.SafeNext(r.FormValue("next"), "/")
	if r.Method == http.MethodGet {
		if auth.IsAdmin(r.Context()) {
			http.Redirect(w, r, next, http.StatusSeeOther)
			return
		}
		if err := view.Render(w, r, "auth/login.html", map[string]any{"Next": next}); err != nil {
			renderFailed(w, h.log, err)
		}
		return
	}

	if !h.password.Verify(r.PostFormValue("password")) {
		h.log.WithField("remote", r.RemoteAddr).Warn("failed admin login")
		err := view.RenderStatus(w, r, http.StatusUnauthorized, "auth/login.html", map[string]any{
			"Next":  next,
			"Error": i18n.T(lang(r), "invalid_login"),
		})
		if err != nil {
			renderFailed(w, h.log, err)
		}
		return
	}

	h.sessions.Create(w)
	view.SetFlash(w, r, "logged_in")
	http.Redirect(w, r, next, http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w)
	view.SetFlash(w, r, "logged_out")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
