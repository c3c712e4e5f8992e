package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"

	"github.com/enterrahost/quickclone/internal/clone"
	"github.com/enterrahost/quickclone/internal/model"
	"github.com/enterrahost/quickclone/internal/store"
)

// maxTypeName is the longest accepted post type name.
const maxTypeName = 20

// PostTypesHandler lists and registers post types.
type PostTypesHandler struct {
	DB *sql.DB
}

type postTypeResponse struct {
	model.PostType
	Cloneable bool `json:"cloneable"`
}

// List handles GET /api/post-types.
func (h *PostTypesHandler) List(w http.ResponseWriter, r *http.Request) {
	types, err := store.ListPostTypes(r.Context(), h.DB)
	if err != nil {
		slog.Error("failed to list post types", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list post types")
		return
	}

	out := make([]postTypeResponse, 0, len(types))
	for _, pt := range types {
		out = append(out, postTypeResponse{PostType: pt, Cloneable: pt.Cloneable()})
	}
	jsonResponse(w, http.StatusOK, out)
}

// Register handles POST /api/post-types. It adds a custom type or updates one
// registered earlier; the seeded types cannot be changed.
func (h *PostTypesHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.PostType
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" || len(req.Name) > maxTypeName || clone.Sanitize(req.Name) != req.Name {
		jsonError(w, http.StatusBadRequest, "name must be a lowercase slug of at most 20 characters")
		return
	}
	switch req.Name {
	case model.TypePost, model.TypePage, model.TypeProduct, model.TypeProductVariation:
		jsonError(w, http.StatusConflict, "post type is reserved")
		return
	}
	req.Label = strings.TrimSpace(req.Label)
	if req.Label == "" {
		req.Label = req.Name
	}

	if err := store.RegisterPostType(r.Context(), h.DB, req); err != nil {
		slog.Error("failed to register post type", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to register post type")
		return
	}

	pt, err := store.GetPostType(r.Context(), h.DB, req.Name)
	if err != nil || pt == nil {
		jsonError(w, http.StatusInternalServerError, "failed to load post type")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("post type registered", "user", claims.Username, "type", pt.Name, "cloneable", pt.Cloneable())
	jsonResponse(w, http.StatusCreated, postTypeResponse{PostType: *pt, Cloneable: pt.Cloneable()})
}
