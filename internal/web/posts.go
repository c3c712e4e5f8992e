package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/enterrahost/quickclone/internal/auth"
	"github.com/enterrahost/quickclone/internal/clone"
	"github.com/enterrahost/quickclone/internal/i18n"
	"github.com/enterrahost/quickclone/internal/model"
	"github.com/enterrahost/quickclone/internal/store"
)

type postRow struct {
	Post    model.Post
	CanEdit bool
	Actions *RowActions
}

type termOption struct {
	Term    model.Term
	Checked bool
}

type taxonomyTerms struct {
	Name  string
	Terms []termOption
}

// PostsPage handles GET /posts?type=<type>. It lists the top-level items of
// one type with their clone row actions and shows the clone result notice.
func (s *Server) PostsPage(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())

	typeName := r.URL.Query().Get("type")
	if typeName == "" {
		typeName = model.TypePost
	}
	pt, err := store.GetPostType(r.Context(), s.DB, typeName)
	if err != nil {
		slog.Error("failed to get post type", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if pt == nil || !pt.ShowUI {
		http.Error(w, "unknown content type", http.StatusNotFound)
		return
	}

	types, err := store.ListPostTypes(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to list post types", "error", err)
	}
	var tabs []model.PostType
	for _, t := range types {
		if t.ShowUI {
			tabs = append(tabs, t)
		}
	}

	posts, err := store.ListPosts(r.Context(), s.DB, pt.Name, r.URL.Query().Get("status"))
	if err != nil {
		slog.Error("failed to list posts", "error", err)
	}

	cloneable := pt.Cloneable()
	rows := make([]postRow, 0, len(posts))
	for i := range posts {
		p := &posts[i]
		actions, err := s.rowActions(claims, p, cloneable)
		if err != nil {
			slog.Error("failed to create row nonces", "post", p.ID, "error", err)
		}
		rows = append(rows, postRow{
			Post:    *p,
			CanEdit: model.CanEditPost(claims.UserID, claims.Role, p),
			Actions: actions,
		})
	}

	data := s.page(r, pt.Label)
	data.Success, data.Error = s.cloneNotice(r, claims)

	s.Templates.Render(w, "posts.html", &struct {
		PageData
		Type  *model.PostType
		Types []model.PostType
		Rows  []postRow
	}{
		PageData: data,
		Type:     pt,
		Types:    tabs,
		Rows:     rows,
	})
}

// cloneNotice returns the success or error notice for a clone redirect. The
// notice nonce must verify for this user and is consumed, so reloading the
// page or sharing the URL does not repeat the message.
func (s *Server) cloneNotice(r *http.Request, claims *auth.Claims) (success, failure string) {
	q := r.URL.Query()
	cloned := q.Get("cloned") == "1"
	failed := q.Get("clone_failed") == "1"
	if !cloned && !failed {
		return "", ""
	}

	nc, err := auth.VerifyNonce(s.NonceSecret, q.Get("_nonce"), auth.ActionCloneNotice, claims.UserID)
	if err != nil {
		return "", ""
	}
	fresh, err := store.ConsumeToken(r.Context(), s.DB, nc.ID, nc.ExpiresAt.Time)
	if err != nil {
		slog.Error("failed to consume notice nonce", "error", err)
		return "", ""
	}
	if !fresh {
		return "", ""
	}

	if cloned {
		return s.Translator.T(i18n.NoticeCloned), ""
	}
	return "", s.Translator.T(i18n.NoticeFailed)
}

// PostCreateSubmit handles POST /posts.
func (s *Server) PostCreateSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())

	typeName := r.FormValue("type")
	title := strings.TrimSpace(r.FormValue("title"))

	pt, err := store.GetPostType(r.Context(), s.DB, typeName)
	if err != nil {
		slog.Error("failed to get post type", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if pt == nil || !pt.ShowUI {
		http.Error(w, "unknown content type", http.StatusBadRequest)
		return
	}
	if title == "" {
		http.Redirect(w, r, "/posts?type="+pt.Name, http.StatusSeeOther)
		return
	}

	p, err := store.CreatePost(r.Context(), s.DB, &model.Post{
		Type:     pt.Name,
		Title:    title,
		Slug:     clone.Sanitize(title),
		AuthorID: claims.UserID,
	})
	if err != nil {
		slog.Error("failed to create post", "error", err)
		http.Error(w, "failed to create", http.StatusInternalServerError)
		return
	}

	slog.Info("post created", "user", claims.Username, "post", p.ID, "type", p.Type)
	http.Redirect(w, r, fmt.Sprintf("/posts/%d/edit", p.ID), http.StatusSeeOther)
}

// editablePost loads the post named by the {id} path value and checks that the
// user may edit it. On failure the response has been written.
func (s *Server) editablePost(w http.ResponseWriter, r *http.Request) (*model.Post, bool) {
	claims := GetWebClaims(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return nil, false
	}

	p, err := store.GetPost(r.Context(), s.DB, id)
	if err != nil {
		slog.Error("failed to get post", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return nil, false
	}
	if p == nil {
		http.Error(w, "post not found", http.StatusNotFound)
		return nil, false
	}
	if !model.CanEditPost(claims.UserID, claims.Role, p) {
		http.Error(w, s.Translator.T(i18n.ErrPermission), http.StatusForbidden)
		return nil, false
	}
	return p, true
}

// PostEditPage handles GET /posts/{id}/edit. Opening the editor takes the
// edit lock for the current user.
func (s *Server) PostEditPage(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	p, ok := s.editablePost(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	lock := fmt.Sprintf("%d:%d", time.Now().Unix(), claims.UserID)
	if err := store.SetPostMeta(ctx, s.DB, p.ID, model.MetaEditLock, lock); err != nil {
		slog.Error("failed to set edit lock", "error", err)
	}

	pt, err := store.GetPostType(ctx, s.DB, p.Type)
	if err != nil {
		slog.Error("failed to get post type", "error", err)
	}
	meta, err := store.GetPostMeta(ctx, s.DB, p.ID)
	if err != nil {
		slog.Error("failed to get post meta", "error", err)
	}
	thumb, err := store.GetThumbnailID(ctx, s.DB, p.ID)
	if err != nil {
		slog.Error("failed to get featured image", "error", err)
	}

	taxNames, err := store.ListTaxonomies(ctx, s.DB, p.Type)
	if err != nil {
		slog.Error("failed to list taxonomies", "error", err)
	}
	taxonomies := make([]taxonomyTerms, 0, len(taxNames))
	for _, tax := range taxNames {
		all, err := store.ListTerms(ctx, s.DB, tax)
		if err != nil {
			slog.Error("failed to list terms", "taxonomy", tax, "error", err)
			continue
		}
		attached, err := store.GetPostTerms(ctx, s.DB, p.ID, tax)
		if err != nil {
			slog.Error("failed to get post terms", "taxonomy", tax, "error", err)
			continue
		}
		checked := make(map[int64]bool, len(attached))
		for _, t := range attached {
			checked[t.ID] = true
		}
		opts := make([]termOption, 0, len(all))
		for _, t := range all {
			opts = append(opts, termOption{Term: t, Checked: checked[t.ID]})
		}
		taxonomies = append(taxonomies, taxonomyTerms{Name: tax, Terms: opts})
	}

	var children []model.Post
	if p.Type == model.TypeProduct {
		children, err = store.ListChildren(ctx, s.DB, p.ID, model.TypeProductVariation)
		if err != nil {
			slog.Error("failed to list variations", "error", err)
		}
	}

	var actions *RowActions
	if pt != nil {
		actions, err = s.rowActions(claims, p, pt.Cloneable())
		if err != nil {
			slog.Error("failed to create row nonces", "post", p.ID, "error", err)
		}
	}

	s.Templates.Render(w, "post_edit.html", &struct {
		PageData
		Post        *model.Post
		Meta        []model.Meta
		Taxonomies  []taxonomyTerms
		ThumbnailID int64
		Variations  []model.Post
		Actions     *RowActions
	}{
		PageData:    s.page(r, p.Title),
		Post:        p,
		Meta:        meta,
		Taxonomies:  taxonomies,
		ThumbnailID: thumb,
		Variations:  children,
		Actions:     actions,
	})
}

// PostEditSubmit handles POST /posts/{id}/edit.
func (s *Server) PostEditSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	p, ok := s.editablePost(w, r)
	if !ok {
		return
	}

	status := r.FormValue("status")
	if !model.ValidStatus(status) {
		http.Error(w, "invalid status", http.StatusBadRequest)
		return
	}
	menuOrder, err := strconv.Atoi(r.FormValue("menu_order"))
	if err != nil {
		menuOrder = p.MenuOrder
	}

	p.Title = strings.TrimSpace(r.FormValue("title"))
	p.Content = r.FormValue("content")
	p.Excerpt = r.FormValue("excerpt")
	p.Status = status
	p.MenuOrder = menuOrder
	p.Slug = clone.Sanitize(r.FormValue("slug"))
	if p.Slug == "" {
		p.Slug = clone.Sanitize(p.Title)
	}

	if err := store.UpdatePost(r.Context(), s.DB, p); err != nil {
		slog.Error("failed to update post", "error", err)
		http.Error(w, "failed to update", http.StatusInternalServerError)
		return
	}
	if err := store.SetPostMeta(r.Context(), s.DB, p.ID, model.MetaEditLast, strconv.FormatInt(claims.UserID, 10)); err != nil {
		slog.Error("failed to record last editor", "error", err)
	}
	if err := store.DeletePostMeta(r.Context(), s.DB, p.ID, model.MetaEditLock); err != nil {
		slog.Error("failed to release edit lock", "error", err)
	}

	slog.Info("post updated", "user", claims.Username, "post", p.ID, "status", p.Status)
	http.Redirect(w, r, fmt.Sprintf("/posts/%d/edit", p.ID), http.StatusSeeOther)
}

// PostMetaSubmit handles POST /posts/{id}/meta.
func (s *Server) PostMetaSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	p, ok := s.editablePost(w, r)
	if !ok {
		return
	}

	key := strings.TrimSpace(r.FormValue("key"))
	if key == "" {
		http.Redirect(w, r, fmt.Sprintf("/posts/%d/edit", p.ID), http.StatusSeeOther)
		return
	}

	if err := store.AddPostMeta(r.Context(), s.DB, p.ID, key, r.FormValue("value")); err != nil {
		slog.Error("failed to add post meta", "error", err)
		http.Error(w, "failed to add meta", http.StatusInternalServerError)
		return
	}

	slog.Info("post meta added", "user", claims.Username, "post", p.ID, "key", key)
	http.Redirect(w, r, fmt.Sprintf("/posts/%d/edit", p.ID), http.StatusSeeOther)
}

// PostTermsSubmit handles POST /posts/{id}/terms. Each taxonomy of the post's
// type is replaced by the term IDs checked in the form field tax_<name>.
func (s *Server) PostTermsSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	p, ok := s.editablePost(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	taxonomies, err := store.ListTaxonomies(r.Context(), s.DB, p.Type)
	if err != nil {
		slog.Error("failed to list taxonomies", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	for _, tax := range taxonomies {
		var ids []int64
		for _, v := range r.PostForm["tax_"+tax] {
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				http.Error(w, "invalid term id", http.StatusBadRequest)
				return
			}
			ids = append(ids, id)
		}
		if err := store.SetPostTerms(r.Context(), s.DB, p.ID, tax, ids); err != nil {
			slog.Error("failed to set post terms", "taxonomy", tax, "error", err)
			http.Error(w, "failed to set terms", http.StatusBadRequest)
			return
		}
	}

	slog.Info("post terms updated", "user", claims.Username, "post", p.ID)
	http.Redirect(w, r, fmt.Sprintf("/posts/%d/edit", p.ID), http.StatusSeeOther)
}
