package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/enterrahost/quickclone/internal/model"
)

const postColumns = `id, type, title, content, excerpt, status, slug, parent_id, author_id,
	menu_order, comment_status, ping_status, password, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*model.Post, error) {
	p := &model.Post{}
	err := row.Scan(&p.ID, &p.Type, &p.Title, &p.Content, &p.Excerpt, &p.Status, &p.Slug,
		&p.ParentID, &p.AuthorID, &p.MenuOrder, &p.CommentStatus, &p.PingStatus, &p.Password,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// CreatePost inserts a new post. Empty status, comment and ping fields fall back
// to their defaults; zero timestamps are set to now.
func CreatePost(ctx context.Context, db *sql.DB, p *model.Post) (*model.Post, error) {
	if p.Type == "" {
		return nil, fmt.Errorf("creating post: type required")
	}
	status := p.Status
	if status == "" {
		status = model.StatusDraft
	}
	commentStatus := p.CommentStatus
	if commentStatus == "" {
		commentStatus = "open"
	}
	pingStatus := p.PingStatus
	if pingStatus == "" {
		pingStatus = "open"
	}
	now := time.Now().UTC()
	createdAt, updatedAt := p.CreatedAt, p.UpdatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	if updatedAt.IsZero() {
		updatedAt = now
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO posts (type, title, content, excerpt, status, slug, parent_id, author_id,
		                    menu_order, comment_status, ping_status, password, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Type, p.Title, p.Content, p.Excerpt, status, p.Slug, p.ParentID, p.AuthorID,
		p.MenuOrder, commentStatus, pingStatus, p.Password, createdAt, updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating post: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting post id: %w", err)
	}

	return GetPost(ctx, db, id)
}

// GetPost returns a post by ID, or nil if it does not exist.
func GetPost(ctx context.Context, db *sql.DB, id int64) (*model.Post, error) {
	p, err := scanPost(db.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM posts WHERE id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting post: %w", err)
	}
	return p, nil
}

// ListPosts returns every post of a type, child posts included, optionally
// filtered by status, newest first.
func ListPosts(ctx context.Context, db *sql.DB, postType, status string) ([]model.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE type = ?`
	args := []any{postType}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}
	defer rows.Close()

	return scanPosts(rows)
}

// ListChildren returns the children of a post with the given type, in menu order.
func ListChildren(ctx context.Context, db *sql.DB, parentID int64, postType string) ([]model.Post, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+postColumns+` FROM posts WHERE parent_id = ? AND type = ?
		 ORDER BY menu_order, id`, parentID, postType,
	)
	if err != nil {
		return nil, fmt.Errorf("listing child posts: %w", err)
	}
	defer rows.Close()

	return scanPosts(rows)
}

func scanPosts(rows *sql.Rows) ([]model.Post, error) {
	var posts []model.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning post: %w", err)
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

// UpdatePost updates the editable fields of a post.
func UpdatePost(ctx context.Context, db *sql.DB, p *model.Post) error {
	_, err := db.ExecContext(ctx,
		`UPDATE posts SET title = ?, content = ?, excerpt = ?, status = ?, slug = ?,
		        menu_order = ?, updated_at = ?
		 WHERE id = ?`,
		p.Title, p.Content, p.Excerpt, p.Status, p.Slug, p.MenuOrder, time.Now().UTC(), p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating post: %w", err)
	}
	return nil
}

// SlugExists reports whether any post of the given type already uses slug.
func SlugExists(ctx context.Context, db *sql.DB, postType, slug string) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM posts WHERE type = ? AND slug = ?`, postType, slug,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking slug: %w", err)
	}
	return count > 0, nil
}

// GetPostType returns a registered post type, or nil if unknown.
func GetPostType(ctx context.Context, db *sql.DB, name string) (*model.PostType, error) {
	pt := &model.PostType{}
	err := db.QueryRowContext(ctx,
		`SELECT name, label, public, show_ui, builtin FROM post_types WHERE name = ?`, name,
	).Scan(&pt.Name, &pt.Label, &pt.Public, &pt.ShowUI, &pt.Builtin)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting post type: %w", err)
	}
	return pt, nil
}

// ListPostTypes returns all registered post types, built-in types first.
func ListPostTypes(ctx context.Context, db *sql.DB) ([]model.PostType, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT name, label, public, show_ui, builtin FROM post_types ORDER BY builtin DESC, name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing post types: %w", err)
	}
	defer rows.Close()

	var types []model.PostType
	for rows.Next() {
		var pt model.PostType
		if err := rows.Scan(&pt.Name, &pt.Label, &pt.Public, &pt.ShowUI, &pt.Builtin); err != nil {
			return nil, fmt.Errorf("scanning post type: %w", err)
		}
		types = append(types, pt)
	}
	return types, rows.Err()
}

// RegisterPostType adds or replaces a custom post type.
func RegisterPostType(ctx context.Context, db *sql.DB, pt model.PostType) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO post_types (name, label, public, show_ui, builtin) VALUES (?, ?, ?, ?, 0)
		 ON CONFLICT (name) DO UPDATE SET label = excluded.label, public = excluded.public,
		                                  show_ui = excluded.show_ui`,
		pt.Name, pt.Label, pt.Public, pt.ShowUI,
	)
	if err != nil {
		return fmt.Errorf("registering post type: %w", err)
	}
	return nil
}
