package store

import (
	"context"
	"database/sql"

	"github.com/enterrahost/quickclone/internal/model"
)

// Repository exposes the content store as a method set so it can be passed to
// components that depend on an interface rather than a database handle.
type Repository struct {
	DB *sql.DB
}

// NewRepository wraps db.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{DB: db}
}

func (r *Repository) GetPost(ctx context.Context, id int64) (*model.Post, error) {
	return GetPost(ctx, r.DB, id)
}

func (r *Repository) GetPostType(ctx context.Context, name string) (*model.PostType, error) {
	return GetPostType(ctx, r.DB, name)
}

func (r *Repository) CreatePost(ctx context.Context, p *model.Post) (int64, error) {
	created, err := CreatePost(ctx, r.DB, p)
	if err != nil {
		return 0, err
	}
	return created.ID, nil
}

func (r *Repository) SlugExists(ctx context.Context, postType, slug string) (bool, error) {
	return SlugExists(ctx, r.DB, postType, slug)
}

func (r *Repository) PostMeta(ctx context.Context, postID int64) ([]model.Meta, error) {
	return GetPostMeta(ctx, r.DB, postID)
}

func (r *Repository) AddPostMeta(ctx context.Context, postID int64, key, value string) error {
	return AddPostMeta(ctx, r.DB, postID, key, value)
}

func (r *Repository) Taxonomies(ctx context.Context, postType string) ([]string, error) {
	return ListTaxonomies(ctx, r.DB, postType)
}

// PostTermIDs returns the IDs of the terms of one taxonomy attached to a post.
func (r *Repository) PostTermIDs(ctx context.Context, postID int64, taxonomy string) ([]int64, error) {
	terms, err := GetPostTerms(ctx, r.DB, postID, taxonomy)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(terms))
	for _, t := range terms {
		ids = append(ids, t.ID)
	}
	return ids, nil
}

func (r *Repository) SetPostTerms(ctx context.Context, postID int64, taxonomy string, termIDs []int64) error {
	return SetPostTerms(ctx, r.DB, postID, taxonomy, termIDs)
}

func (r *Repository) Children(ctx context.Context, parentID int64, postType string) ([]model.Post, error) {
	return ListChildren(ctx, r.DB, parentID, postType)
}

func (r *Repository) ThumbnailID(ctx context.Context, postID int64) (int64, error) {
	return GetThumbnailID(ctx, r.DB, postID)
}

func (r *Repository) SetThumbnailID(ctx context.Context, postID, mediaID int64) error {
	return SetThumbnailID(ctx, r.DB, postID, mediaID)
}
