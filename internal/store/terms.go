package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/enterrahost/quickclone/internal/model"
)

// ListTaxonomies returns the taxonomy names registered for a post type.
func ListTaxonomies(ctx context.Context, db *sql.DB, postType string) ([]string, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT name FROM taxonomies WHERE object_type = ? ORDER BY name`, postType,
	)
	if err != nil {
		return nil, fmt.Errorf("listing taxonomies: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning taxonomy: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// CreateTerm creates a term in a taxonomy.
func CreateTerm(ctx context.Context, db *sql.DB, taxonomy, name, slug string) (*model.Term, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO terms (taxonomy, name, slug) VALUES (?, ?, ?)`,
		taxonomy, name, slug,
	)
	if err != nil {
		return nil, fmt.Errorf("creating term: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting term id: %w", err)
	}
	return &model.Term{ID: id, Taxonomy: taxonomy, Name: name, Slug: slug}, nil
}

// ListTerms returns all terms of a taxonomy ordered by name.
func ListTerms(ctx context.Context, db *sql.DB, taxonomy string) ([]model.Term, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, taxonomy, name, slug FROM terms WHERE taxonomy = ? ORDER BY name`, taxonomy,
	)
	if err != nil {
		return nil, fmt.Errorf("listing terms: %w", err)
	}
	defer rows.Close()

	return scanTerms(rows)
}

// GetPostTerms returns the terms of a taxonomy attached to a post.
func GetPostTerms(ctx context.Context, db *sql.DB, postID int64, taxonomy string) ([]model.Term, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT t.id, t.taxonomy, t.name, t.slug
		 FROM term_relationships tr
		 JOIN terms t ON t.id = tr.term_id
		 WHERE tr.post_id = ? AND t.taxonomy = ?
		 ORDER BY t.id`, postID, taxonomy,
	)
	if err != nil {
		return nil, fmt.Errorf("getting post terms: %w", err)
	}
	defer rows.Close()

	return scanTerms(rows)
}

// SetPostTerms replaces the terms of one taxonomy attached to a post.
// Term IDs that belong to another taxonomy are rejected.
func SetPostTerms(ctx context.Context, db *sql.DB, postID int64, taxonomy string, termIDs []int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`DELETE FROM term_relationships
		 WHERE post_id = ? AND term_id IN (SELECT id FROM terms WHERE taxonomy = ?)`,
		postID, taxonomy,
	)
	if err != nil {
		return fmt.Errorf("clearing post terms: %w", err)
	}

	for _, termID := range termIDs {
		var termTaxonomy string
		err := tx.QueryRowContext(ctx,
			`SELECT taxonomy FROM terms WHERE id = ?`, termID,
		).Scan(&termTaxonomy)
		if err == sql.ErrNoRows {
			return fmt.Errorf("term %d not found", termID)
		}
		if err != nil {
			return fmt.Errorf("checking term: %w", err)
		}
		if termTaxonomy != taxonomy {
			return fmt.Errorf("term %d belongs to %s, not %s", termID, termTaxonomy, taxonomy)
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO term_relationships (post_id, term_id) VALUES (?, ?)`,
			postID, termID,
		); err != nil {
			return fmt.Errorf("attaching term: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing post terms: %w", err)
	}
	return nil
}

func scanTerms(rows *sql.Rows) ([]model.Term, error) {
	var terms []model.Term
	for rows.Next() {
		var t model.Term
		if err := rows.Scan(&t.ID, &t.Taxonomy, &t.Name, &t.Slug); err != nil {
			return nil, fmt.Errorf("scanning term: %w", err)
		}
		terms = append(terms, t)
	}
	return terms, rows.Err()
}
