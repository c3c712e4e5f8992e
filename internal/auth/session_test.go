package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/enterrahost/quickclone/internal/db"
	"github.com/enterrahost/quickclone/internal/model"
	"github.com/enterrahost/quickclone/internal/store"
)

func TestSession(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	const secret = "s"

	hash, _ := HashPassword("whatever123")
	u, _ := store.CreateUser(ctx, database, "author", hash, model.RoleUser)
	token, _ := GenerateToken(secret, u.ID, u.Username, model.RoleAdmin)

	claims, err := Session(ctx, database, secret, token)
	if err != nil {
		t.Fatalf("Session: %v", err)
	}
	if claims.Role != model.RoleUser {
		t.Errorf("expected role from the database, got %q", claims.Role)
	}

	if _, err := Session(ctx, database, secret, "junk"); !Unauthenticated(err) || !errors.Is(err, ErrInvalidToken) {
		t.Errorf("junk token: got %v", err)
	}

	store.RevokeToken(ctx, database, claims.ID, claims.ExpiresAt.Time)
	if _, err := Session(ctx, database, secret, token); !errors.Is(err, ErrRevoked) {
		t.Errorf("revoked token: got %v", err)
	}

	other, _ := GenerateToken(secret, u.ID, u.Username, u.Role)
	store.DeleteUser(ctx, database, u.ID)
	if _, err := Session(ctx, database, secret, other); !errors.Is(err, ErrInactive) {
		t.Errorf("deleted account: got %v", err)
	}
}
