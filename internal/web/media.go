package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/enterrahost/quickclone/internal/imaging"
	"github.com/enterrahost/quickclone/internal/model"
	"github.com/enterrahost/quickclone/internal/store"
)

// PostThumbnailSubmit handles POST /posts/{id}/thumbnail. The uploaded image
// becomes the post's featured image; remove=1 detaches the current one.
func (s *Server) PostThumbnailSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	p, ok := s.editablePost(w, r)
	if !ok {
		return
	}
	back := fmt.Sprintf("/posts/%d/edit", p.ID)

	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadSize+(1<<20))
	if err := r.ParseMultipartForm(imaging.MaxUploadSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		http.Error(w, "file too large or invalid form", http.StatusBadRequest)
		return
	}

	if r.FormValue("remove") == "1" {
		if err := store.DeletePostMeta(r.Context(), s.DB, p.ID, model.MetaThumbnail); err != nil {
			slog.Error("failed to remove featured image", "error", err)
			http.Error(w, "failed to remove image", http.StatusInternalServerError)
			return
		}
		slog.Info("featured image removed", "user", claims.Username, "post", p.ID)
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "image file required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	img, err := imaging.Process(file, header.Filename)
	if err != nil {
		slog.Warn("rejected featured image", "user", claims.Username, "post", p.ID, "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	media, err := store.CreateMedia(r.Context(), s.DB, img.Filename, img.MIME, img.Data)
	if err != nil {
		slog.Error("failed to store media", "error", err)
		http.Error(w, "failed to save image", http.StatusInternalServerError)
		return
	}
	if err := store.SetThumbnailID(r.Context(), s.DB, p.ID, media.ID); err != nil {
		slog.Error("failed to set featured image", "error", err)
		http.Error(w, "failed to save image", http.StatusInternalServerError)
		return
	}

	slog.Info("featured image set", "user", claims.Username, "post", p.ID, "media", media.ID,
		"width", img.Width, "height", img.Height)
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// MediaGet handles GET /media/{id}.
func (s *Server) MediaGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	data, mime, err := store.GetMediaData(r.Context(), s.DB, id)
	if err != nil {
		slog.Error("failed to get media", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if data == nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Disposition", "inline")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "private, max-age=3600")
	if _, err := w.Write(data); err != nil {
		slog.Error("failed to write media response", "error", err)
	}
}
