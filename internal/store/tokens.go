package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Session tokens and action nonces share the revoked_tokens table: a revoked
// session and a spent nonce are both a JTI that must not be accepted again.
// Rows are kept until the token would have expired anyway.

func recordJTI(ctx context.Context, db *sql.DB, jti string, expiresAt time.Time) (bool, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO revoked_tokens (jti, expires_at) VALUES (?, ?) ON CONFLICT (jti) DO NOTHING`,
		jti, expiresAt.UTC(),
	)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// RevokeToken revokes a session token and purges expired entries.
func RevokeToken(ctx context.Context, db *sql.DB, jti string, expiresAt time.Time) error {
	if _, err := recordJTI(ctx, db, jti, expiresAt); err != nil {
		return fmt.Errorf("revoking token: %w", err)
	}
	if _, err := PurgeExpiredTokens(ctx, db); err != nil {
		return err
	}
	return nil
}

// ConsumeToken spends a single-use token. It reports false when the token was
// already spent or revoked.
func ConsumeToken(ctx context.Context, db *sql.DB, jti string, expiresAt time.Time) (bool, error) {
	fresh, err := recordJTI(ctx, db, jti, expiresAt)
	if err != nil {
		return false, fmt.Errorf("consuming token: %w", err)
	}
	return fresh, nil
}

// IsTokenRevoked reports whether a JTI was revoked or spent.
func IsTokenRevoked(ctx context.Context, db *sql.DB, jti string) (bool, error) {
	var found bool
	err := db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE jti = ?)`, jti,
	).Scan(&found)
	if err != nil {
		return false, fmt.Errorf("checking token revocation: %w", err)
	}
	return found, nil
}

// PurgeExpiredTokens removes entries whose token has expired and returns how
// many were removed.
func PurgeExpiredTokens(ctx context.Context, db *sql.DB) (int64, error) {
	result, err := db.ExecContext(ctx,
		`DELETE FROM revoked_tokens WHERE expires_at < ?`, time.Now().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("purging expired tokens: %w", err)
	}
	return result.RowsAffected()
}
