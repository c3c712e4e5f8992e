package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/enterrahost/quickclone/internal/model"
	"github.com/enterrahost/quickclone/internal/store"
)

// ErrBadCredentials is returned for an unknown user, a deleted account or a
// wrong password. Callers must not tell these apart in their responses.
var ErrBadCredentials = errors.New("invalid credentials")

// HashCost is the bcrypt cost for stored passwords. Tests lower it.
var HashCost = bcrypt.DefaultCost

// HashPassword hashes a password for storage. Callers validate it first with
// model.ValidatePassword.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), HashCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the user's stored hash.
func CheckPassword(u *model.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// Authenticate returns the active user matching username and password.
func Authenticate(ctx context.Context, db *sql.DB, username, password string) (*model.User, error) {
	user, err := store.GetUserByUsername(ctx, db, username)
	if err != nil {
		return nil, err
	}
	if user == nil || user.DeletedAt != nil || !CheckPassword(user, password) {
		return nil, ErrBadCredentials
	}
	return user, nil
}
