package web

import (
	"database/sql"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/enterrahost/quickclone/internal/auth"
	"github.com/enterrahost/quickclone/internal/clone"
	"github.com/enterrahost/quickclone/internal/i18n"
	"github.com/enterrahost/quickclone/internal/model"
	webembed "github.com/enterrahost/quickclone/web"
)

// Templates holds parsed HTML templates.
type Templates struct {
	templates map[string]*template.Template
}

// FuncMap returns the template function map. Strings passed to t are looked
// up in the translation catalogue.
func FuncMap(tr *i18n.Translator) template.FuncMap {
	return template.FuncMap{
		"t":           tr.T,
		"roleAtLeast": model.RoleAtLeast,
		"roleName": func(role string) string {
			switch role {
			case model.RoleAdmin:
				return "Administrator"
			case model.RoleManager:
				return "Editor"
			case model.RoleUser:
				return "Author"
			default:
				return role
			}
		},
		"statusName": func(status string) string {
			switch status {
			case model.StatusDraft:
				return "Draft"
			case model.StatusPending:
				return "Pending"
			case model.StatusPrivate:
				return "Private"
			case model.StatusPublish:
				return "Published"
			default:
				return status
			}
		},
		"statuses": func() []string {
			return []string{model.StatusDraft, model.StatusPending, model.StatusPrivate, model.StatusPublish}
		},
	}
}

// LoadTemplates parses all page templates with the layout.
func LoadTemplates(tr *i18n.Translator) (*Templates, error) {
	tfs := webembed.TemplatesFS()

	layoutBytes, err := fs.ReadFile(tfs, "layout.html")
	if err != nil {
		return nil, fmt.Errorf("reading layout template: %w", err)
	}

	pages := []string{
		"login.html",
		"posts.html",
		"post_edit.html",
		"users.html",
	}

	ts := &Templates{templates: make(map[string]*template.Template)}

	for _, page := range pages {
		pageBytes, err := fs.ReadFile(tfs, page)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", page, err)
		}

		tmpl := template.New(page).Funcs(FuncMap(tr))
		tmpl, err = tmpl.Parse(string(layoutBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing layout for %s: %w", page, err)
		}
		tmpl, err = tmpl.Parse(string(pageBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}

		ts.templates[page] = tmpl
	}

	return ts, nil
}

// Render renders a template with the given data.
func (ts *Templates) Render(w http.ResponseWriter, name string, data any) {
	ts.RenderStatus(w, http.StatusOK, name, data)
}

// RenderStatus renders a template with the given data and status code.
func (ts *Templates) RenderStatus(w http.ResponseWriter, status int, name string, data any) {
	tmpl, ok := ts.templates[name]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		slog.Error("failed to render template", "template", name, "error", err)
	}
}

// PageData is the base data passed to all templates.
type PageData struct {
	Title   string
	Lang    string
	User    *auth.Claims
	Token   string
	Error   string
	Success string
}

// Server holds all dependencies for page handlers.
type Server struct {
	DB          *sql.DB
	Templates   *Templates
	JWTSecret   string
	NonceSecret string
	Duplicator  *clone.Duplicator
	Translator  *i18n.Translator
}

// page returns the base page data for an authenticated request.
func (s *Server) page(r *http.Request, title string) PageData {
	return PageData{
		Title: title,
		Lang:  s.Translator.Lang(),
		User:  GetWebClaims(r.Context()),
		Token: GetWebToken(r.Context()),
	}
}
