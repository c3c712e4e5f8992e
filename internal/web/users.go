package web

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/enterrahost/quickclone/internal/auth"
	"github.com/enterrahost/quickclone/internal/model"
	"github.com/enterrahost/quickclone/internal/store"
)

type usersPage struct {
	PageData
	Users []model.User
	Roles []string
}

// UsersPage handles GET /users (admin only).
func (s *Server) UsersPage(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	if !model.RoleAtLeast(claims.Role, model.RoleAdmin) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	s.renderUsers(w, r, "", "")
}

func (s *Server) renderUsers(w http.ResponseWriter, r *http.Request, success, failure string) {
	users, err := store.ListUsers(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to list users", "error", err)
	}

	data := s.page(r, "Users")
	data.Success = success
	data.Error = failure
	s.Templates.Render(w, "users.html", &usersPage{
		PageData: data,
		Users:    users,
		Roles:    []string{model.RoleUser, model.RoleManager, model.RoleAdmin},
	})
}

// UserCreateSubmit handles POST /users (admin only).
func (s *Server) UserCreateSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	if !model.RoleAtLeast(claims.Role, model.RoleAdmin) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")
	role := r.FormValue("role")

	if username == "" || !model.ValidRole(role) {
		s.renderUsers(w, r, "", "Enter a username and pick a role.")
		return
	}
	if err := model.ValidatePassword(password); err != nil {
		s.renderUsers(w, r, "", err.Error())
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		http.Error(w, "failed to hash password", http.StatusInternalServerError)
		return
	}

	if _, err := store.CreateUser(r.Context(), s.DB, username, hash, role); err != nil {
		slog.Warn("failed to create user", "user", claims.Username, "new_user", username, "error", err)
		s.renderUsers(w, r, "", "Username already exists.")
		return
	}

	slog.Info("user created", "user", claims.Username, "new_user", username, "role", role)
	s.renderUsers(w, r, "User "+username+" created.", "")
}

// UserResetPasswordSubmit handles POST /users/{id}/password (admin only).
func (s *Server) UserResetPasswordSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	if !model.RoleAtLeast(claims.Role, model.RoleAdmin) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Redirect(w, r, "/users", http.StatusSeeOther)
		return
	}

	newPassword := r.FormValue("new_password")
	if err := model.ValidatePassword(newPassword); err != nil {
		s.renderUsers(w, r, "", err.Error())
		return
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		http.Error(w, "failed to hash password", http.StatusInternalServerError)
		return
	}

	if err := store.UpdateUserPassword(r.Context(), s.DB, id, hash); err != nil {
		slog.Error("failed to reset password", "error", err)
		s.renderUsers(w, r, "", "Failed to reset password.")
		return
	}

	slog.Info("user password reset", "user", claims.Username, "target_user", id)
	s.renderUsers(w, r, "Password reset.", "")
}

// UserRoleSubmit handles POST /users/{id}/role (admin only).
func (s *Server) UserRoleSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	if !model.RoleAtLeast(claims.Role, model.RoleAdmin) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Redirect(w, r, "/users", http.StatusSeeOther)
		return
	}
	role := r.FormValue("role")
	if !model.ValidRole(role) {
		s.renderUsers(w, r, "", "Unknown role.")
		return
	}
	if id == claims.UserID && role != model.RoleAdmin {
		s.renderUsers(w, r, "", "You cannot demote yourself.")
		return
	}

	if err := store.UpdateUserRole(r.Context(), s.DB, id, role); err != nil {
		slog.Error("failed to update role", "error", err)
		s.renderUsers(w, r, "", "Failed to change role.")
		return
	}

	slog.Info("user role updated", "user", claims.Username, "target_user", id, "new_role", role)
	s.renderUsers(w, r, "Role changed.", "")
}

// UserDeleteSubmit handles POST /users/{id}/delete (admin only). Content the
// user authored is kept.
func (s *Server) UserDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	if !model.RoleAtLeast(claims.Role, model.RoleAdmin) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Redirect(w, r, "/users", http.StatusSeeOther)
		return
	}
	if id == claims.UserID {
		s.renderUsers(w, r, "", "You cannot delete yourself.")
		return
	}

	if err := store.DeleteUser(r.Context(), s.DB, id); err != nil {
		slog.Error("failed to delete user", "error", err)
		s.renderUsers(w, r, "", "Failed to delete user.")
		return
	}

	slog.Info("user deleted", "user", claims.Username, "deleted_user", id)
	s.renderUsers(w, r, "User deleted.", "")
}
