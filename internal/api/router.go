package api

import (
	"database/sql"
	"net/http"

	"github.com/enterrahost/quickclone/internal/clone"
	"github.com/enterrahost/quickclone/internal/model"
)

// Config carries the dependencies of the API router.
type Config struct {
	DB         *sql.DB
	JWTSecret  string
	Duplicator *clone.Duplicator
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(cfg Config) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: cfg.DB, JWTSecret: cfg.JWTSecret}
	usersHandler := &UsersHandler{DB: cfg.DB}
	postsHandler := &PostsHandler{DB: cfg.DB, Duplicator: cfg.Duplicator}
	termsHandler := &TermsHandler{DB: cfg.DB}
	typesHandler := &PostTypesHandler{DB: cfg.DB}

	authMW := AuthMiddleware(cfg.JWTSecret, cfg.DB)
	requireAdmin := RequireRole(model.RoleAdmin)
	requireManager := RequireRole(model.RoleManager)

	// Public: login.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Authenticated routes.
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))

	// Users (admin only).
	mux.Handle("GET /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.List))))
	mux.Handle("POST /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.Create))))

	// Posts: every role creates its own posts; changes to a post need edit
	// rights on it, as in the web editor.
	mux.Handle("GET /api/posts", authMW(http.HandlerFunc(postsHandler.List)))
	mux.Handle("POST /api/posts", authMW(http.HandlerFunc(postsHandler.Create)))
	mux.Handle("GET /api/posts/{id}", authMW(http.HandlerFunc(postsHandler.Get)))
	mux.Handle("POST /api/posts/{id}/meta", authMW(http.HandlerFunc(postsHandler.AddMeta)))
	mux.Handle("POST /api/posts/{id}/clone", authMW(http.HandlerFunc(postsHandler.Clone)))
	mux.Handle("PUT /api/posts/{id}/terms/{taxonomy}", authMW(http.HandlerFunc(termsHandler.SetPostTerms)))

	// Post types: read (all roles), register (admin).
	mux.Handle("GET /api/post-types", authMW(http.HandlerFunc(typesHandler.List)))
	mux.Handle("POST /api/post-types", authMW(requireAdmin(http.HandlerFunc(typesHandler.Register))))

	// Terms: read (all roles), write (manager+).
	mux.Handle("GET /api/terms", authMW(http.HandlerFunc(termsHandler.List)))
	mux.Handle("POST /api/terms", authMW(requireManager(http.HandlerFunc(termsHandler.Create))))

	return mux
}
