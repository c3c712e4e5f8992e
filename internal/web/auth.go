package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/enterrahost/quickclone/internal/auth"
	"github.com/enterrahost/quickclone/internal/i18n"
	"github.com/enterrahost/quickclone/internal/store"
)

type loginPage struct {
	PageData
	Next string
}

// LoginPage handles GET /login.
func (s *Server) LoginPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "login.html", &loginPage{
		PageData: PageData{Title: "Log in", Lang: s.Translator.Lang()},
		Next:     r.URL.Query().Get("next"),
	})
}

// LoginSubmit handles POST /login.
func (s *Server) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")
	next := r.FormValue("next")

	fail := func(msg string) {
		s.Templates.RenderStatus(w, http.StatusUnauthorized, "login.html", &loginPage{
			PageData: PageData{Title: "Log in", Lang: s.Translator.Lang(), Error: s.Translator.T(msg)},
			Next:     next,
		})
	}

	if username == "" || password == "" {
		fail(i18n.ErrLoginRequired)
		return
	}

	user, err := auth.Authenticate(r.Context(), s.DB, username, password)
	if errors.Is(err, auth.ErrBadCredentials) {
		slog.Warn("login failed", "username", username, "remote", r.RemoteAddr)
	} else if err != nil {
		slog.Error("failed to look up user", "error", err)
	}
	if err != nil {
		fail(i18n.ErrLoginFailed)
		return
	}

	token, err := auth.GenerateToken(s.JWTSecret, user.ID, user.Username, user.Role)
	if err != nil {
		slog.Error("failed to generate token", "error", err)
		fail(i18n.ErrLoginFailed)
		return
	}

	setAuthCookie(w, token)
	slog.Info("user logged in", "user", user.Username, "role", user.Role)
	http.Redirect(w, r, safeNext(next), http.StatusSeeOther)
}

// Logout handles POST /logout. The session token is revoked so a copied
// cookie stops working too.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil && cookie.Value != "" {
		if claims, err := auth.ValidateToken(s.JWTSecret, cookie.Value); err == nil && claims.ID != "" && claims.ExpiresAt != nil {
			if err := store.RevokeToken(r.Context(), s.DB, claims.ID, claims.ExpiresAt.Time); err != nil {
				slog.Error("failed to revoke token", "error", err)
			} else {
				slog.Info("user logged out", "user", claims.Username)
			}
		}
	}
	clearAuthCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
