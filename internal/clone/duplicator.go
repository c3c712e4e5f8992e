// Package clone copies a content item, with its metadata, taxonomy terms,
// featured image and product variations, into a new item.
package clone

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/enterrahost/quickclone/internal/model"
)

var (
	// ErrNotFound is returned when the source item does not exist.
	ErrNotFound = errors.New("source item not found")
	// ErrUnsupportedType is returned when the source item's type cannot be cloned.
	ErrUnsupportedType = errors.New("item type cannot be cloned")
)

// SKUSuffix is appended to every non-empty copied SKU.
const SKUSuffix = "-Copy"

// SkippedMetaKeys are never copied to a clone.
var SkippedMetaKeys = map[string]bool{
	"_edit_lock":              true,
	"_edit_last":              true,
	"_wp_old_slug":            true,
	"_wp_old_date":            true,
	"_wp_attached_file":       true,
	"_wp_attachment_metadata": true,
}

// StatusPolicy decides the status of a cloned item.
type StatusPolicy int

const (
	// StatusDraft creates every top-level clone as a draft.
	StatusDraft StatusPolicy = iota
	// StatusPreserve keeps the source item's status.
	StatusPreserve
)

// ParseStatusPolicy parses "draft" or "preserve".
func ParseStatusPolicy(s string) (StatusPolicy, error) {
	switch s {
	case "", "draft":
		return StatusDraft, nil
	case "preserve":
		return StatusPreserve, nil
	}
	return StatusDraft, fmt.Errorf("unknown status policy %q", s)
}

func (p StatusPolicy) String() string {
	if p == StatusPreserve {
		return "preserve"
	}
	return "draft"
}

// Repository is the content store the duplicator reads from and writes to.
// Lookups return nil, nil when nothing matches.
type Repository interface {
	GetPost(ctx context.Context, id int64) (*model.Post, error)
	GetPostType(ctx context.Context, name string) (*model.PostType, error)
	CreatePost(ctx context.Context, p *model.Post) (int64, error)
	SlugExists(ctx context.Context, postType, slug string) (bool, error)

	PostMeta(ctx context.Context, postID int64) ([]model.Meta, error)
	AddPostMeta(ctx context.Context, postID int64, key, value string) error

	Taxonomies(ctx context.Context, postType string) ([]string, error)
	PostTermIDs(ctx context.Context, postID int64, taxonomy string) ([]int64, error)
	SetPostTerms(ctx context.Context, postID int64, taxonomy string, termIDs []int64) error

	Children(ctx context.Context, parentID int64, postType string) ([]model.Post, error)

	ThumbnailID(ctx context.Context, postID int64) (int64, error)
	SetThumbnailID(ctx context.Context, postID, mediaID int64) error
}

// Options configure a Duplicator.
type Options struct {
	// CopyLabel is appended to the title of the clone, separated by a space.
	CopyLabel string
	Policy    StatusPolicy
	// Now returns the creation time of clones. Defaults to time.Now.
	Now func() time.Time
}

// Result describes a finished clone.
type Result struct {
	ID         int64
	Type       string
	Variations int
}

// Duplicator clones content items.
type Duplicator struct {
	repo Repository
	opts Options

	// slugMu holds slug allocation and the insert that claims the slug
	// together, so concurrent clones of one item never share a slug.
	slugMu sync.Mutex
}

// New returns a Duplicator writing through repo.
func New(repo Repository, opts Options) *Duplicator {
	if opts.CopyLabel == "" {
		opts.CopyLabel = "(Copy)"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Duplicator{repo: repo, opts: opts}
}

// Duplicate clones the item sourceID on behalf of actorID and returns the new
// item. When a write fails after the new item was created, the partial result
// is returned together with the error; nothing is rolled back.
func (d *Duplicator) Duplicate(ctx context.Context, sourceID, actorID int64) (*Result, error) {
	src, err := d.repo.GetPost(ctx, sourceID)
	if err != nil {
		return nil, fmt.Errorf("loading source: %w", err)
	}
	if src == nil {
		return nil, ErrNotFound
	}

	pt, err := d.repo.GetPostType(ctx, src.Type)
	if err != nil {
		return nil, fmt.Errorf("loading post type: %w", err)
	}
	if pt == nil || !pt.Cloneable() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, src.Type)
	}

	status := model.StatusDraft
	if d.opts.Policy == StatusPreserve {
		status = src.Status
	}

	now := d.opts.Now().UTC()
	copied := &model.Post{
		Type:          src.Type,
		Title:         src.Title + " " + d.opts.CopyLabel,
		Content:       src.Content,
		Excerpt:       src.Excerpt,
		Status:        status,
		ParentID:      src.ParentID,
		AuthorID:      actorID,
		MenuOrder:     src.MenuOrder,
		CommentStatus: src.CommentStatus,
		PingStatus:    src.PingStatus,
		Password:      src.Password,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	newID, err := d.createWithSlug(ctx, copied, src.Slug)
	if err != nil {
		return nil, fmt.Errorf("creating clone: %w", err)
	}
	res := &Result{ID: newID, Type: src.Type}

	if err := d.copyMeta(ctx, src.ID, newID); err != nil {
		return res, err
	}
	if err := d.copyTerms(ctx, src, newID); err != nil {
		return res, err
	}

	thumb, err := d.repo.ThumbnailID(ctx, src.ID)
	if err != nil {
		return res, fmt.Errorf("reading featured image: %w", err)
	}
	if thumb != 0 {
		if err := d.repo.SetThumbnailID(ctx, newID, thumb); err != nil {
			return res, fmt.Errorf("setting featured image: %w", err)
		}
	}

	if src.Type == model.TypeProduct {
		n, err := d.copyVariations(ctx, src.ID, newID, actorID, now)
		res.Variations = n
		if err != nil {
			return res, err
		}
	}

	slog.Debug("content cloned", "source", src.ID, "clone", newID, "type", src.Type, "variations", res.Variations)
	return res, nil
}

// copyMeta copies every metadata entry of src to dst except the skipped keys.
// Non-empty SKUs get SKUSuffix appended.
func (d *Duplicator) copyMeta(ctx context.Context, src, dst int64) error {
	meta, err := d.repo.PostMeta(ctx, src)
	if err != nil {
		return fmt.Errorf("reading meta of %d: %w", src, err)
	}

	for _, m := range meta {
		if SkippedMetaKeys[m.Key] {
			continue
		}
		value := m.Value
		if m.Key == model.MetaSKU && value != "" {
			value += SKUSuffix
		}
		if err := d.repo.AddPostMeta(ctx, dst, m.Key, value); err != nil {
			return fmt.Errorf("copying meta %q to %d: %w", m.Key, dst, err)
		}
	}
	return nil
}

func (d *Duplicator) copyTerms(ctx context.Context, src *model.Post, dst int64) error {
	taxonomies, err := d.repo.Taxonomies(ctx, src.Type)
	if err != nil {
		return fmt.Errorf("listing taxonomies: %w", err)
	}

	for _, tax := range taxonomies {
		ids, err := d.repo.PostTermIDs(ctx, src.ID, tax)
		if err != nil {
			return fmt.Errorf("reading %s terms: %w", tax, err)
		}
		if len(ids) == 0 {
			continue
		}
		if err := d.repo.SetPostTerms(ctx, dst, tax, ids); err != nil {
			return fmt.Errorf("copying %s terms: %w", tax, err)
		}
	}
	return nil
}

// createWithSlug gives p the first free copy slug derived from srcSlug and
// inserts it.
func (d *Duplicator) createWithSlug(ctx context.Context, p *model.Post, srcSlug string) (int64, error) {
	d.slugMu.Lock()
	defer d.slugMu.Unlock()

	slug, err := uniqueSlug(ctx, d.repo, p.Type, srcSlug)
	if err != nil {
		return 0, err
	}
	p.Slug = slug
	return d.repo.CreatePost(ctx, p)
}

// copyVariations clones each variation of product src under product dst and
// returns how many were created. Variations keep their own status.
func (d *Duplicator) copyVariations(ctx context.Context, src, dst, actorID int64, now time.Time) (int, error) {
	children, err := d.repo.Children(ctx, src, model.TypeProductVariation)
	if err != nil {
		return 0, fmt.Errorf("listing variations: %w", err)
	}

	created := 0
	for _, child := range children {
		childID, err := d.createWithSlug(ctx, &model.Post{
			Type:          model.TypeProductVariation,
			Title:         child.Title,
			Content:       child.Content,
			Excerpt:       child.Excerpt,
			Status:        child.Status,
			ParentID:      dst,
			AuthorID:      actorID,
			MenuOrder:     child.MenuOrder,
			CommentStatus: child.CommentStatus,
			PingStatus:    child.PingStatus,
			CreatedAt:     now,
			UpdatedAt:     now,
		}, child.Slug)
		if err != nil {
			return created, fmt.Errorf("creating variation copy of %d: %w", child.ID, err)
		}
		created++

		if err := d.copyMeta(ctx, child.ID, childID); err != nil {
			return created, err
		}
	}
	return created, nil
}
