package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/enterrahost/quickclone/internal/clone"
	"github.com/enterrahost/quickclone/internal/model"
	"github.com/enterrahost/quickclone/internal/store"
)

// TermsHandler handles taxonomy term endpoints.
type TermsHandler struct {
	DB *sql.DB
}

type createTermRequest struct {
	Taxonomy string `json:"taxonomy"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
}

type setPostTermsRequest struct {
	TermIDs []int64 `json:"term_ids"`
}

// List handles GET /api/terms?taxonomy=<name>.
func (h *TermsHandler) List(w http.ResponseWriter, r *http.Request) {
	taxonomy := r.URL.Query().Get("taxonomy")
	if taxonomy == "" {
		jsonError(w, http.StatusBadRequest, "taxonomy required")
		return
	}

	terms, err := store.ListTerms(r.Context(), h.DB, taxonomy)
	if err != nil {
		slog.Error("failed to list terms", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list terms")
		return
	}
	if terms == nil {
		terms = []model.Term{}
	}
	jsonResponse(w, http.StatusOK, terms)
}

// Create handles POST /api/terms.
func (h *TermsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTermRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Taxonomy == "" || req.Name == "" {
		jsonError(w, http.StatusBadRequest, "taxonomy and name required")
		return
	}
	slug := clone.Sanitize(req.Slug)
	if slug == "" {
		slug = clone.Sanitize(req.Name)
	}

	term, err := store.CreateTerm(r.Context(), h.DB, req.Taxonomy, req.Name, slug)
	if err != nil {
		slog.Warn("failed to create term", "taxonomy", req.Taxonomy, "error", err)
		jsonError(w, http.StatusConflict, "term already exists or taxonomy unknown")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("term created", "user", claims.Username, "taxonomy", term.Taxonomy, "term", term.Slug)
	jsonResponse(w, http.StatusCreated, term)
}

// SetPostTerms handles PUT /api/posts/{id}/terms/{taxonomy}.
func (h *TermsHandler) SetPostTerms(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid post id")
		return
	}
	taxonomy := r.PathValue("taxonomy")

	var req setPostTermsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := store.GetPost(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to get post", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if p == nil {
		jsonError(w, http.StatusNotFound, "post not found")
		return
	}
	if claims := GetClaims(r.Context()); !model.CanEditPost(claims.UserID, claims.Role, p) {
		jsonError(w, http.StatusForbidden, "cannot edit this post")
		return
	}

	taxonomies, err := store.ListTaxonomies(r.Context(), h.DB, p.Type)
	if err != nil {
		slog.Error("failed to list taxonomies", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !slices.Contains(taxonomies, taxonomy) {
		jsonError(w, http.StatusBadRequest, "taxonomy not registered for "+p.Type)
		return
	}

	if err := store.SetPostTerms(r.Context(), h.DB, id, taxonomy, req.TermIDs); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	terms, err := store.GetPostTerms(r.Context(), h.DB, id, taxonomy)
	if err != nil {
		slog.Error("failed to get post terms", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if terms == nil {
		terms = []model.Term{}
	}

	claims := GetClaims(r.Context())
	slog.Info("post terms updated", "user", claims.Username, "post", id, "taxonomy", taxonomy)
	jsonResponse(w, http.StatusOK, terms)
}
