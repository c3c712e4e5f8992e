package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/enterrahost/quickclone/internal/clone"
	"github.com/enterrahost/quickclone/internal/store"
)

func TestParseFlags(t *testing.T) {
	var out bytes.Buffer

	cfg, err := parseFlags(nil, &out)
	if err != nil {
		t.Fatalf("defaults: %v", err)
	}
	if cfg.DBPath != "quickclone.sqlite3" || cfg.Addr != ":8080" || cfg.Policy != clone.StatusDraft {
		t.Errorf("unexpected defaults %+v", cfg)
	}

	cfg, err = parseFlags([]string{"-d", "x.db", "-addr", ":9", "-status-policy", "preserve", "-v"}, &out)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.DBPath != "x.db" || cfg.Addr != ":9" || cfg.Policy != clone.StatusPreserve || cfg.logLevel() != slog.LevelDebug {
		t.Errorf("unexpected config %+v", cfg)
	}

	if _, err := parseFlags([]string{"-status-policy", "publish"}, &out); err == nil {
		t.Error("expected error for unknown policy")
	}
	if _, err := parseFlags([]string{"extra"}, &out); err == nil {
		t.Error("expected error for positional argument")
	}

	out.Reset()
	if _, err := parseFlags([]string{"-h"}, &out); !errors.Is(err, flag.ErrHelp) {
		t.Errorf("expected flag.ErrHelp, got %v", err)
	}
	if !strings.Contains(out.String(), "-status-policy") {
		t.Error("usage does not list -status-policy")
	}
}

func TestLevelRouter(t *testing.T) {
	var stdout, stderr bytes.Buffer
	logger := newLogger(&stdout, &stderr, slog.LevelInfo).With("component", "test")

	logger.Debug("hidden")
	logger.Info("hello")
	logger.Error("boom")

	if strings.Contains(stdout.String(), "hidden") {
		t.Error("debug record logged at info level")
	}
	if !strings.Contains(stdout.String(), "hello") || strings.Contains(stdout.String(), "boom") {
		t.Errorf("unexpected stdout %q", stdout.String())
	}
	if !strings.Contains(stderr.String(), "boom") || !strings.Contains(stderr.String(), "component=test") {
		t.Errorf("unexpected stderr %q", stderr.String())
	}
}

func TestOpenDatabaseCreatesAdminOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qc.sqlite3")
	ctx := context.Background()

	var out bytes.Buffer
	database, err := openDatabase(ctx, path, "root", &out)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if !strings.Contains(out.String(), "Username: root") {
		t.Errorf("expected credentials to be printed, got %q", out.String())
	}
	u, _ := store.GetUserByUsername(ctx, database, "root")
	if u == nil {
		t.Fatal("admin account missing")
	}
	database.Close()

	out.Reset()
	database, err = openDatabase(ctx, path, "root", &out)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer database.Close()
	if out.Len() != 0 {
		t.Errorf("expected no output on reopen, got %q", out.String())
	}
}

func TestGeneratePassword(t *testing.T) {
	a, _ := generatePassword(16)
	b, _ := generatePassword(16)
	if len(a) != 16 || a == b {
		t.Errorf("unexpected passwords %q %q", a, b)
	}
}
