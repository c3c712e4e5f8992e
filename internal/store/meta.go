package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/enterrahost/quickclone/internal/model"
)

// AddPostMeta appends a metadata entry to a post. Existing entries with the
// same key are kept.
func AddPostMeta(ctx context.Context, db *sql.DB, postID int64, key, value string) error {
	if key == "" {
		return fmt.Errorf("adding post meta: key required")
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO post_meta (post_id, meta_key, meta_value) VALUES (?, ?, ?)`,
		postID, key, value,
	)
	if err != nil {
		return fmt.Errorf("adding post meta: %w", err)
	}
	return nil
}

// SetPostMeta replaces every entry for key with a single value.
func SetPostMeta(ctx context.Context, db *sql.DB, postID int64, key, value string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM post_meta WHERE post_id = ? AND meta_key = ?`, postID, key,
	); err != nil {
		return fmt.Errorf("clearing post meta: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO post_meta (post_id, meta_key, meta_value) VALUES (?, ?, ?)`,
		postID, key, value,
	); err != nil {
		return fmt.Errorf("setting post meta: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing post meta: %w", err)
	}
	return nil
}

// DeletePostMeta removes every entry for key.
func DeletePostMeta(ctx context.Context, db *sql.DB, postID int64, key string) error {
	_, err := db.ExecContext(ctx,
		`DELETE FROM post_meta WHERE post_id = ? AND meta_key = ?`, postID, key,
	)
	if err != nil {
		return fmt.Errorf("deleting post meta: %w", err)
	}
	return nil
}

// GetPostMeta returns all metadata of a post in insertion order.
func GetPostMeta(ctx context.Context, db *sql.DB, postID int64) ([]model.Meta, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT meta_id, post_id, meta_key, meta_value FROM post_meta
		 WHERE post_id = ? ORDER BY meta_id`, postID,
	)
	if err != nil {
		return nil, fmt.Errorf("getting post meta: %w", err)
	}
	defer rows.Close()

	var meta []model.Meta
	for rows.Next() {
		var m model.Meta
		if err := rows.Scan(&m.ID, &m.PostID, &m.Key, &m.Value); err != nil {
			return nil, fmt.Errorf("scanning post meta: %w", err)
		}
		meta = append(meta, m)
	}
	return meta, rows.Err()
}

// GetPostMetaValue returns the first value stored under key, or "" if none.
func GetPostMetaValue(ctx context.Context, db *sql.DB, postID int64, key string) (string, error) {
	var value string
	err := db.QueryRowContext(ctx,
		`SELECT meta_value FROM post_meta WHERE post_id = ? AND meta_key = ?
		 ORDER BY meta_id LIMIT 1`, postID, key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("getting post meta value: %w", err)
	}
	return value, nil
}

// GetThumbnailID returns the featured image media ID of a post, or 0.
func GetThumbnailID(ctx context.Context, db *sql.DB, postID int64) (int64, error) {
	value, err := GetPostMetaValue(ctx, db, postID, model.MetaThumbnail)
	if err != nil || value == "" {
		return 0, err
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, nil
	}
	return id, nil
}

// SetThumbnailID sets the featured image of a post.
func SetThumbnailID(ctx context.Context, db *sql.DB, postID, mediaID int64) error {
	return SetPostMeta(ctx, db, postID, model.MetaThumbnail, strconv.FormatInt(mediaID, 10))
}
