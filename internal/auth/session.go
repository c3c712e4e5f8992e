package auth

import (
	"context"
	"database/sql"
	"errors"

	"github.com/enterrahost/quickclone/internal/store"
)

var (
	// ErrRevoked is returned for a session that was logged out.
	ErrRevoked = errors.New("session revoked")
	// ErrInactive is returned when the session's account was deleted.
	ErrInactive = errors.New("account no longer active")
)

// Session validates a session token against the database. The returned
// claims carry the account's current role, so role changes apply to open
// sessions. Database failures are returned as is; every other error means the
// caller must treat the request as unauthenticated.
func Session(ctx context.Context, db *sql.DB, secret, token string) (*Claims, error) {
	claims, err := ValidateToken(secret, token)
	if err != nil {
		return nil, err
	}

	revoked, err := store.IsTokenRevoked(ctx, db, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrRevoked
	}

	user, err := store.GetUser(ctx, db, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.DeletedAt != nil {
		return nil, ErrInactive
	}
	claims.Role = user.Role
	return claims, nil
}

// Unauthenticated reports whether err from Session means the token is not
// acceptable, as opposed to a failure to check it.
func Unauthenticated(err error) bool {
	return errors.Is(err, ErrInvalidToken) || errors.Is(err, ErrRevoked) || errors.Is(err, ErrInactive)
}
