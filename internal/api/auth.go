package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/enterrahost/quickclone/internal/auth"
	"github.com/enterrahost/quickclone/internal/model"
	"github.com/enterrahost/quickclone/internal/store"
)

// AuthHandler serves token issue, password change and logout.
type AuthHandler struct {
	DB        *sql.DB
	JWTSecret string
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type passwordChange struct {
	Current string `json:"current_password"`
	New     string `json:"new_password"`
}

// Login handles POST /api/auth/login and answers {"token": "..."}.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		jsonError(w, http.StatusBadRequest, "username and password required")
		return
	}

	user, err := auth.Authenticate(r.Context(), h.DB, req.Username, req.Password)
	switch {
	case errors.Is(err, auth.ErrBadCredentials):
		slog.Warn("login failed", "username", req.Username, "remote", r.RemoteAddr)
		jsonError(w, http.StatusUnauthorized, "invalid credentials")
		return
	case err != nil:
		slog.Error("failed to look up user", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	token, err := auth.GenerateToken(h.JWTSecret, user.ID, user.Username, user.Role)
	if err != nil {
		slog.Error("failed to generate token", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	slog.Info("user logged in", "user", user.Username, "role", user.Role, "via", "api")
	jsonResponse(w, http.StatusOK, map[string]string{"token": token})
}

// ChangePassword handles PUT /api/auth/password for the calling user.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	var req passwordChange
	if err := decodeJSON(w, r, &req); err != nil || req.Current == "" || req.New == "" {
		jsonError(w, http.StatusBadRequest, "current and new password required")
		return
	}
	if err := model.ValidatePassword(req.New); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := auth.Authenticate(r.Context(), h.DB, claims.Username, req.Current); err != nil {
		if !errors.Is(err, auth.ErrBadCredentials) {
			slog.Error("failed to look up user", "error", err)
		}
		jsonError(w, http.StatusUnauthorized, "current password is incorrect")
		return
	}

	hash, err := auth.HashPassword(req.New)
	if err == nil {
		err = store.UpdateUserPassword(r.Context(), h.DB, claims.UserID, hash)
	}
	if err != nil {
		slog.Error("failed to change password", "user", claims.Username, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to update password")
		return
	}

	slog.Info("user changed own password", "user", claims.Username)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "password updated"})
}

// Logout handles POST /api/auth/logout. The presented token stays revoked
// until it would have expired anyway.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims.ID == "" || claims.ExpiresAt == nil {
		jsonError(w, http.StatusBadRequest, "token cannot be revoked")
		return
	}

	if err := store.RevokeToken(r.Context(), h.DB, claims.ID, claims.ExpiresAt.Time); err != nil {
		slog.Error("failed to revoke token", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to log out")
		return
	}

	slog.Info("user logged out", "user", claims.Username)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "logged out"})
}
