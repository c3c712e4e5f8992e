package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    username      TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('admin', 'manager', 'user')),
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at    DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_active
    ON users(username) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS post_types (
    name    TEXT PRIMARY KEY,
    label   TEXT NOT NULL,
    public  INTEGER NOT NULL DEFAULT 1,
    show_ui INTEGER NOT NULL DEFAULT 1,
    builtin INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS posts (
    id             INTEGER PRIMARY KEY,
    type           TEXT NOT NULL REFERENCES post_types(name),
    title          TEXT NOT NULL DEFAULT '',
    content        TEXT NOT NULL DEFAULT '',
    excerpt        TEXT NOT NULL DEFAULT '',
    status         TEXT NOT NULL DEFAULT 'draft' CHECK (status IN ('draft', 'pending', 'private', 'publish')),
    slug           TEXT NOT NULL DEFAULT '',
    parent_id      INTEGER NOT NULL DEFAULT 0,
    author_id      INTEGER NOT NULL DEFAULT 0,
    menu_order     INTEGER NOT NULL DEFAULT 0,
    comment_status TEXT NOT NULL DEFAULT 'open',
    ping_status    TEXT NOT NULL DEFAULT 'open',
    password       TEXT NOT NULL DEFAULT '',
    created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_posts_type_slug ON posts(type, slug);
CREATE INDEX IF NOT EXISTS idx_posts_parent ON posts(parent_id, type);

CREATE TABLE IF NOT EXISTS post_meta (
    meta_id    INTEGER PRIMARY KEY,
    post_id    INTEGER NOT NULL REFERENCES posts(id),
    meta_key   TEXT NOT NULL,
    meta_value TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_post_meta_post ON post_meta(post_id, meta_key);

CREATE TABLE IF NOT EXISTS taxonomies (
    name        TEXT PRIMARY KEY,
    object_type TEXT NOT NULL REFERENCES post_types(name)
);

CREATE TABLE IF NOT EXISTS terms (
    id       INTEGER PRIMARY KEY,
    taxonomy TEXT NOT NULL REFERENCES taxonomies(name),
    name     TEXT NOT NULL,
    slug     TEXT NOT NULL,
    UNIQUE (taxonomy, slug)
);

CREATE TABLE IF NOT EXISTS term_relationships (
    post_id INTEGER NOT NULL REFERENCES posts(id),
    term_id INTEGER NOT NULL REFERENCES terms(id),
    PRIMARY KEY (post_id, term_id)
);

CREATE TABLE IF NOT EXISTS media (
    id         INTEGER PRIMARY KEY,
    filename   TEXT NOT NULL,
    mime       TEXT NOT NULL,
    data       BLOB NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);
`

// seed registers the built-in post types and their taxonomies.
// Statements must be idempotent.
var seed = []string{
	`INSERT OR IGNORE INTO post_types (name, label, public, show_ui, builtin) VALUES
	     ('post', 'Posts', 1, 1, 1),
	     ('page', 'Pages', 1, 1, 1),
	     ('product', 'Products', 1, 1, 0),
	     ('product_variation', 'Variations', 0, 0, 0)`,
	`INSERT OR IGNORE INTO taxonomies (name, object_type) VALUES
	     ('category', 'post'),
	     ('post_tag', 'post'),
	     ('product_cat', 'product'),
	     ('product_tag', 'product')`,
}

// EnsureSchema creates all tables and indexes if they don't already exist
// and registers the built-in post types.
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	for i, s := range seed {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("seeding statement %d: %w", i+1, err)
		}
	}
	return nil
}
