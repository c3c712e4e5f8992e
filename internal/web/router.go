package web

import (
	"database/sql"
	"net/http"

	"github.com/enterrahost/quickclone/internal/clone"
	"github.com/enterrahost/quickclone/internal/i18n"
	webembed "github.com/enterrahost/quickclone/web"
)

// Config carries the dependencies of the web router.
type Config struct {
	DB          *sql.DB
	JWTSecret   string
	NonceSecret string
	Duplicator  *clone.Duplicator
	Translator  *i18n.Translator
}

// NewRouter creates the web page router with all page routes registered.
func NewRouter(cfg Config) (http.Handler, error) {
	tr := cfg.Translator
	if tr == nil {
		tr = i18n.New("")
	}

	templates, err := LoadTemplates(tr)
	if err != nil {
		return nil, err
	}

	s := &Server{
		DB:          cfg.DB,
		Templates:   templates,
		JWTSecret:   cfg.JWTSecret,
		NonceSecret: cfg.NonceSecret,
		Duplicator:  cfg.Duplicator,
		Translator:  tr,
	}

	mux := http.NewServeMux()
	cookieAuth := CookieAuthMiddleware(cfg.JWTSecret, cfg.DB)

	// Static assets.
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))

	// Public routes.
	mux.HandleFunc("GET /login", s.LoginPage)
	mux.HandleFunc("POST /login", s.LoginSubmit)
	mux.HandleFunc("POST /logout", s.Logout)

	// Authenticated routes.
	mux.Handle("GET /{$}", cookieAuth(http.RedirectHandler("/posts", http.StatusSeeOther)))

	mux.Handle("GET /posts", cookieAuth(http.HandlerFunc(s.PostsPage)))
	mux.Handle("POST /posts", cookieAuth(http.HandlerFunc(s.PostCreateSubmit)))
	mux.Handle("GET /posts/{id}/edit", cookieAuth(http.HandlerFunc(s.PostEditPage)))
	mux.Handle("POST /posts/{id}/edit", cookieAuth(http.HandlerFunc(s.PostEditSubmit)))
	mux.Handle("POST /posts/{id}/meta", cookieAuth(http.HandlerFunc(s.PostMetaSubmit)))
	mux.Handle("POST /posts/{id}/terms", cookieAuth(http.HandlerFunc(s.PostTermsSubmit)))
	mux.Handle("POST /posts/{id}/thumbnail", cookieAuth(http.HandlerFunc(s.PostThumbnailSubmit)))
	mux.Handle("GET /media/{id}", cookieAuth(http.HandlerFunc(s.MediaGet)))

	mux.Handle("GET /actions/clone", cookieAuth(http.HandlerFunc(s.CloneAction)))
	mux.Handle("GET /actions/clone-edit", cookieAuth(http.HandlerFunc(s.CloneEditAction)))

	mux.Handle("GET /users", cookieAuth(http.HandlerFunc(s.UsersPage)))
	mux.Handle("POST /users", cookieAuth(http.HandlerFunc(s.UserCreateSubmit)))
	mux.Handle("POST /users/{id}/password", cookieAuth(http.HandlerFunc(s.UserResetPasswordSubmit)))
	mux.Handle("POST /users/{id}/role", cookieAuth(http.HandlerFunc(s.UserRoleSubmit)))
	mux.Handle("POST /users/{id}/delete", cookieAuth(http.HandlerFunc(s.UserDeleteSubmit)))

	return mux, nil
}
