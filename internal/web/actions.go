package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/enterrahost/quickclone/internal/auth"
	"github.com/enterrahost/quickclone/internal/clone"
	"github.com/enterrahost/quickclone/internal/i18n"
	"github.com/enterrahost/quickclone/internal/metrics"
	"github.com/enterrahost/quickclone/internal/model"
	"github.com/enterrahost/quickclone/internal/store"
)

// CloneAction handles GET /actions/clone. The clone is created and the user
// is sent back to the listing of the source's type with a result notice.
func (s *Server) CloneAction(w http.ResponseWriter, r *http.Request) {
	src, ok := s.authorizeClone(w, r, metrics.ActionClone, auth.CloneAction)
	if !ok {
		return
	}
	claims := GetWebClaims(r.Context())

	started := time.Now()
	res, err := s.Duplicator.Duplicate(r.Context(), src.ID, claims.UserID)
	metrics.ObserveClone(metrics.ActionClone, cloneResult(err), started, variations(res))

	q := url.Values{"type": {src.Type}}
	if err != nil {
		slog.Error("failed to clone content", "user", claims.Username, "source", src.ID, "error", err)
		q.Set("clone_failed", "1")
	} else {
		slog.Info("content cloned", "user", claims.Username, "source", src.ID, "clone", res.ID, "variations", res.Variations)
		q.Set("cloned", "1")
	}

	notice, err := auth.CreateNonce(s.NonceSecret, auth.ActionCloneNotice, claims.UserID)
	if err != nil {
		slog.Error("failed to create notice nonce", "error", err)
	} else {
		q.Set("_nonce", notice)
	}
	http.Redirect(w, r, "/posts?"+q.Encode(), http.StatusSeeOther)
}

// CloneEditAction handles GET /actions/clone-edit. The user lands in the
// editor of the new item.
func (s *Server) CloneEditAction(w http.ResponseWriter, r *http.Request) {
	src, ok := s.authorizeClone(w, r, metrics.ActionCloneEdit, auth.CloneEditAction)
	if !ok {
		return
	}
	claims := GetWebClaims(r.Context())

	started := time.Now()
	res, err := s.Duplicator.Duplicate(r.Context(), src.ID, claims.UserID)
	metrics.ObserveClone(metrics.ActionCloneEdit, cloneResult(err), started, variations(res))

	if err != nil {
		attrs := []any{"user", claims.Username, "source", src.ID, "error", err}
		if res != nil {
			attrs = append(attrs, "partial_clone", res.ID)
		}
		slog.Error("failed to clone content", attrs...)
		http.Error(w, s.Translator.T(i18n.ErrCloneFailed), http.StatusInternalServerError)
		return
	}

	slog.Info("content cloned", "user", claims.Username, "source", src.ID, "clone", res.ID, "variations", res.Variations)
	http.Redirect(w, r, fmt.Sprintf("/posts/%d/edit", res.ID), http.StatusSeeOther)
}

// authorizeClone runs the request, capability and nonce checks shared by both
// clone actions, in that order. On success the nonce has been consumed and the
// source post is returned; otherwise the response has been written.
func (s *Server) authorizeClone(w http.ResponseWriter, r *http.Request, action string, nonceAction func(int64) string) (*model.Post, bool) {
	claims := GetWebClaims(r.Context())
	q := r.URL.Query()

	id, err := strconv.ParseInt(q.Get("post"), 10, 64)
	nonce := q.Get("_nonce")
	if err != nil || id <= 0 || nonce == "" {
		metrics.Reject(action, metrics.ResultInvalid)
		http.Error(w, s.Translator.T(i18n.ErrInvalid), http.StatusBadRequest)
		return nil, false
	}

	src, err := store.GetPost(r.Context(), s.DB, id)
	if err != nil {
		slog.Error("failed to get post", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return nil, false
	}
	if !model.CanEditPost(claims.UserID, claims.Role, src) {
		slog.Warn("clone denied", "user", claims.Username, "post", id)
		metrics.Reject(action, metrics.ResultDenied)
		http.Error(w, s.Translator.T(i18n.ErrPermission), http.StatusForbidden)
		return nil, false
	}

	nc, err := auth.VerifyNonce(s.NonceSecret, nonce, nonceAction(id), claims.UserID)
	if err != nil {
		slog.Warn("clone nonce rejected", "user", claims.Username, "post", id, "error", err)
		metrics.Reject(action, metrics.ResultBadNonce)
		http.Error(w, s.Translator.T(i18n.ErrSecurity), http.StatusForbidden)
		return nil, false
	}
	fresh, err := store.ConsumeToken(r.Context(), s.DB, nc.ID, nc.ExpiresAt.Time)
	if err != nil {
		slog.Error("failed to consume nonce", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return nil, false
	}
	if !fresh {
		slog.Warn("clone nonce reused", "user", claims.Username, "post", id)
		metrics.Reject(action, metrics.ResultBadNonce)
		http.Error(w, s.Translator.T(i18n.ErrSecurity), http.StatusForbidden)
		return nil, false
	}

	return src, true
}

// rowActions builds the clone links for one listing row. It returns nil when
// the user may not clone the post.
func (s *Server) rowActions(claims *auth.Claims, p *model.Post, cloneable bool) (*RowActions, error) {
	if !cloneable || !model.CanEditPost(claims.UserID, claims.Role, p) {
		return nil, nil
	}

	cloneNonce, err := auth.CreateNonce(s.NonceSecret, auth.CloneAction(p.ID), claims.UserID)
	if err != nil {
		return nil, err
	}
	editNonce, err := auth.CreateNonce(s.NonceSecret, auth.CloneEditAction(p.ID), claims.UserID)
	if err != nil {
		return nil, err
	}

	id := strconv.FormatInt(p.ID, 10)
	return &RowActions{
		CloneURL:       "/actions/clone?" + url.Values{"post": {id}, "_nonce": {cloneNonce}}.Encode(),
		CloneEditURL:   "/actions/clone-edit?" + url.Values{"post": {id}, "_nonce": {editNonce}}.Encode(),
		CloneLabel:     s.Translator.T(i18n.LabelClone, p.Title),
		CloneEditLabel: s.Translator.T(i18n.LabelCloneEdit, p.Title),
	}, nil
}

// RowActions are the clone links shown under a listing row.
type RowActions struct {
	CloneURL       string
	CloneEditURL   string
	CloneLabel     string
	CloneEditLabel string
}

func cloneResult(err error) string {
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case errors.Is(err, clone.ErrUnsupportedType):
		return metrics.ResultUnsupported
	case errors.Is(err, clone.ErrNotFound):
		return metrics.ResultNotFound
	}
	return metrics.ResultFailed
}

func variations(res *clone.Result) int {
	if res == nil {
		return 0
	}
	return res.Variations
}
