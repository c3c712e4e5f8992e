package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/enterrahost/quickclone/internal/model"
)

// CreateMedia stores an uploaded image.
func CreateMedia(ctx context.Context, db *sql.DB, filename, mime string, data []byte) (*model.Media, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO media (filename, mime, data) VALUES (?, ?, ?)`,
		filename, mime, data,
	)
	if err != nil {
		return nil, fmt.Errorf("creating media: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting media id: %w", err)
	}

	m := &model.Media{}
	err = db.QueryRowContext(ctx,
		`SELECT id, filename, mime, created_at FROM media WHERE id = ?`, id,
	).Scan(&m.ID, &m.Filename, &m.MIME, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("getting media: %w", err)
	}
	return m, nil
}

// GetMediaData returns the bytes and MIME type of a media entry.
func GetMediaData(ctx context.Context, db *sql.DB, id int64) ([]byte, string, error) {
	var data []byte
	var mime string
	err := db.QueryRowContext(ctx,
		`SELECT data, mime FROM media WHERE id = ?`, id,
	).Scan(&data, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting media data: %w", err)
	}
	return data, mime, nil
}
