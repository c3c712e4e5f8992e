package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"

	"github.com/enterrahost/quickclone/internal/auth"
	"github.com/enterrahost/quickclone/internal/db"
	"github.com/enterrahost/quickclone/internal/model"
	"github.com/enterrahost/quickclone/internal/store"
)

// openDatabase opens the database at path, creating it together with an
// admin account when it does not exist yet. The generated password is printed
// to out once.
func openDatabase(ctx context.Context, path, adminUser string, out io.Writer) (*sql.DB, error) {
	_, statErr := os.Stat(path)
	fresh := errors.Is(statErr, os.ErrNotExist)

	database, err := db.Open(path)
	if err != nil {
		return nil, err
	}
	if err := db.EnsureSchema(database); err != nil {
		database.Close()
		return nil, err
	}
	if !fresh {
		return database, nil
	}

	password, err := createAdmin(ctx, database, adminUser)
	if err != nil {
		database.Close()
		os.Remove(path)
		return nil, err
	}

	fmt.Fprintf(out, "Database created: %s\n\n", path)
	fmt.Fprintln(out, "Admin account created:")
	fmt.Fprintf(out, "  Username: %s\n", adminUser)
	fmt.Fprintf(out, "  Password: %s\n\n", password)
	fmt.Fprintln(out, "Save this password, it cannot be recovered.")
	fmt.Fprintln(out, "Change it with PUT /api/auth/password after logging in.")
	fmt.Fprintln(out)
	return database, nil
}

func createAdmin(ctx context.Context, database *sql.DB, username string) (string, error) {
	password, err := generatePassword(16)
	if err != nil {
		return "", fmt.Errorf("generating password: %w", err)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", err
	}
	if _, err := store.CreateUser(ctx, database, username, hash, model.RoleAdmin); err != nil {
		return "", fmt.Errorf("creating admin user: %w", err)
	}
	return password, nil
}

// generatePassword returns a random password drawn from an alphabet without
// look-alike or shell-special characters.
func generatePassword(length int) (string, error) {
	const alphabet = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789-_.+"
	limit := big.NewInt(int64(len(alphabet)))
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		buf[i] = alphabet[n.Int64()]
	}
	return string(buf), nil
}
