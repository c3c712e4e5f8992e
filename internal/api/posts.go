package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/enterrahost/quickclone/internal/clone"
	"github.com/enterrahost/quickclone/internal/metrics"
	"github.com/enterrahost/quickclone/internal/model"
	"github.com/enterrahost/quickclone/internal/store"
)

// PostsHandler handles content item endpoints.
type PostsHandler struct {
	DB         *sql.DB
	Duplicator *clone.Duplicator
}

type createPostRequest struct {
	Type      string `json:"type"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Excerpt   string `json:"excerpt"`
	Status    string `json:"status"`
	Slug      string `json:"slug"`
	ParentID  int64  `json:"parent_id"`
	MenuOrder int    `json:"menu_order"`
}

type addMetaRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type postResponse struct {
	*model.Post
	Meta        []model.Meta            `json:"meta"`
	Terms       map[string][]model.Term `json:"terms"`
	ThumbnailID int64                   `json:"thumbnail_id,omitempty"`
}

type cloneResponse struct {
	ID         int64 `json:"id"`
	Variations int   `json:"variations"`
}

// List handles GET /api/posts?type=<type>&status=<status>.
func (h *PostsHandler) List(w http.ResponseWriter, r *http.Request) {
	postType := r.URL.Query().Get("type")
	if postType == "" {
		postType = model.TypePost
	}
	status := r.URL.Query().Get("status")
	if status != "" && !model.ValidStatus(status) {
		jsonError(w, http.StatusBadRequest, "invalid status")
		return
	}

	posts, err := store.ListPosts(r.Context(), h.DB, postType, status)
	if err != nil {
		slog.Error("failed to list posts", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list posts")
		return
	}
	if posts == nil {
		posts = []model.Post{}
	}
	jsonResponse(w, http.StatusOK, posts)
}

// Create handles POST /api/posts.
func (h *PostsHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	var req createPostRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Type == "" || req.Title == "" {
		jsonError(w, http.StatusBadRequest, "type and title required")
		return
	}
	if req.Status != "" && !model.ValidStatus(req.Status) {
		jsonError(w, http.StatusBadRequest, "invalid status")
		return
	}

	pt, err := store.GetPostType(r.Context(), h.DB, req.Type)
	if err != nil {
		slog.Error("failed to get post type", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if pt == nil {
		jsonError(w, http.StatusBadRequest, "unknown post type")
		return
	}

	slug := clone.Sanitize(req.Slug)
	if slug == "" {
		slug = clone.Sanitize(req.Title)
	}

	p, err := store.CreatePost(r.Context(), h.DB, &model.Post{
		Type:      pt.Name,
		Title:     req.Title,
		Content:   req.Content,
		Excerpt:   req.Excerpt,
		Status:    req.Status,
		Slug:      slug,
		ParentID:  req.ParentID,
		AuthorID:  claims.UserID,
		MenuOrder: req.MenuOrder,
	})
	if err != nil {
		slog.Error("failed to create post", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create post")
		return
	}

	slog.Info("post created", "user", claims.Username, "post", p.ID, "type", p.Type)
	jsonResponse(w, http.StatusCreated, p)
}

// Get handles GET /api/posts/{id}. The response carries the post's metadata,
// terms per taxonomy and featured image.
func (h *PostsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid post id")
		return
	}
	ctx := r.Context()

	p, err := store.GetPost(ctx, h.DB, id)
	if err != nil {
		slog.Error("failed to get post", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get post")
		return
	}
	if p == nil {
		jsonError(w, http.StatusNotFound, "post not found")
		return
	}

	meta, err := store.GetPostMeta(ctx, h.DB, id)
	if err != nil {
		slog.Error("failed to get post meta", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get post")
		return
	}
	if meta == nil {
		meta = []model.Meta{}
	}

	taxonomies, err := store.ListTaxonomies(ctx, h.DB, p.Type)
	if err != nil {
		slog.Error("failed to list taxonomies", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get post")
		return
	}
	terms := make(map[string][]model.Term, len(taxonomies))
	for _, tax := range taxonomies {
		attached, err := store.GetPostTerms(ctx, h.DB, id, tax)
		if err != nil {
			slog.Error("failed to get post terms", "taxonomy", tax, "error", err)
			jsonError(w, http.StatusInternalServerError, "failed to get post")
			return
		}
		if attached == nil {
			attached = []model.Term{}
		}
		terms[tax] = attached
	}

	thumb, err := store.GetThumbnailID(ctx, h.DB, id)
	if err != nil {
		slog.Error("failed to get featured image", "error", err)
	}

	jsonResponse(w, http.StatusOK, postResponse{Post: p, Meta: meta, Terms: terms, ThumbnailID: thumb})
}

// AddMeta handles POST /api/posts/{id}/meta.
func (h *PostsHandler) AddMeta(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	var req addMetaRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Key) == "" {
		jsonError(w, http.StatusBadRequest, "key required")
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

	if err := store.AddPostMeta(r.Context(), h.DB, id, req.Key, req.Value); err != nil {
		slog.Error("failed to add post meta", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to add meta")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("post meta added", "user", claims.Username, "post", id, "key", req.Key)
	jsonResponse(w, http.StatusCreated, map[string]string{"message": "meta added"})
}

// Clone handles POST /api/posts/{id}/clone. Bearer tokens are never sent
// automatically by a browser, so no action nonce is required here.
func (h *PostsHandler) Clone(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	id, ok := pathID(r)
	if !ok {
		metrics.Reject(metrics.ActionAPI, metrics.ResultInvalid)
		jsonError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	src, err := store.GetPost(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to get post", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if src == nil {
		metrics.Reject(metrics.ActionAPI, metrics.ResultNotFound)
		jsonError(w, http.StatusNotFound, "post not found")
		return
	}
	if !model.CanEditPost(claims.UserID, claims.Role, src) {
		metrics.Reject(metrics.ActionAPI, metrics.ResultDenied)
		jsonError(w, http.StatusForbidden, "permission denied")
		return
	}

	started := time.Now()
	res, err := h.Duplicator.Duplicate(r.Context(), id, claims.UserID)
	switch {
	case err == nil:
		metrics.ObserveClone(metrics.ActionAPI, metrics.ResultSuccess, started, res.Variations)
		slog.Info("content cloned", "user", claims.Username, "source", id, "clone", res.ID, "variations", res.Variations)
		jsonResponse(w, http.StatusCreated, cloneResponse{ID: res.ID, Variations: res.Variations})
	case errors.Is(err, clone.ErrUnsupportedType):
		metrics.ObserveClone(metrics.ActionAPI, metrics.ResultUnsupported, started, 0)
		jsonError(w, http.StatusUnprocessableEntity, "post type cannot be cloned")
	case errors.Is(err, clone.ErrNotFound):
		metrics.ObserveClone(metrics.ActionAPI, metrics.ResultNotFound, started, 0)
		jsonError(w, http.StatusNotFound, "post not found")
	default:
		n := 0
		attrs := []any{"user", claims.Username, "source", id, "error", err}
		if res != nil {
			n = res.Variations
			attrs = append(attrs, "partial_clone", res.ID)
		}
		metrics.ObserveClone(metrics.ActionAPI, metrics.ResultFailed, started, n)
		slog.Error("failed to clone content", attrs...)
		jsonError(w, http.StatusInternalServerError, "failed to clone content")
	}
}
