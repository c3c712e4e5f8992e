package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
)

// Settings keys holding signing secrets.
const (
	SettingJWTSecret   = "jwt_secret"
	SettingNonceSecret = "nonce_secret"
)

// GetSecret returns the secret stored under key, creating a random one on
// first use. The no-op upsert returns the stored value when another process
// won the race, so every caller agrees on one secret.
func GetSecret(ctx context.Context, db *sql.DB, key string) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating %s: %w", key, err)
	}

	var secret string
	err := db.QueryRowContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = settings.value
		 RETURNING value`,
		key, hex.EncodeToString(buf),
	).Scan(&secret)
	if err != nil {
		return "", fmt.Errorf("loading %s: %w", key, err)
	}
	return secret, nil
}
