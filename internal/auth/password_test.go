package auth

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/enterrahost/quickclone/internal/db"
	"github.com/enterrahost/quickclone/internal/model"
	"github.com/enterrahost/quickclone/internal/store"
)

func init() {
	HashCost = bcrypt.MinCost
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("long enough")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	u := &model.User{PasswordHash: hash}
	if !CheckPassword(u, "long enough") || CheckPassword(u, "something else") {
		t.Error("CheckPassword disagrees with HashPassword")
	}
}

func TestAuthenticate(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	hash, _ := HashPassword("correct horse")
	gone, _ := store.CreateUser(ctx, database, "gone", hash, model.RoleUser)
	store.DeleteUser(ctx, database, gone.ID)
	store.CreateUser(ctx, database, "editor", hash, model.RoleManager)

	u, err := Authenticate(ctx, database, "editor", "correct horse")
	if err != nil || u == nil || u.Username != "editor" {
		t.Fatalf("Authenticate = %+v, %v", u, err)
	}

	for _, tc := range [][2]string{
		{"editor", "wrong"},
		{"nobody", "correct horse"},
		{"gone", "correct horse"},
	} {
		if _, err := Authenticate(ctx, database, tc[0], tc[1]); !errors.Is(err, ErrBadCredentials) {
			t.Errorf("Authenticate(%q, %q): expected ErrBadCredentials, got %v", tc[0], tc[1], err)
		}
	}
}
