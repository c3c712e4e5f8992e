// Command quickclone serves the content administration site with the Clone
// and Clone & Edit row actions.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/enterrahost/quickclone/internal/api"
	"github.com/enterrahost/quickclone/internal/clone"
	"github.com/enterrahost/quickclone/internal/i18n"
	"github.com/enterrahost/quickclone/internal/store"
	"github.com/enterrahost/quickclone/internal/web"
)

// purgeInterval is how often expired revocations and spent nonces are dropped.
const purgeInterval = time.Hour

func main() {
	cfg, err := parseFlags(os.Args[1:], os.Stdout)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	closeLog, err := setupLogger(cfg.LogPath, cfg.logLevel())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("quickclone stopped", "error", err)
		closeLog()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config) error {
	database, err := openDatabase(ctx, cfg.DBPath, cfg.AdminUser, os.Stdout)
	if err != nil {
		return fmt.Errorf("preparing database: %w", err)
	}
	defer database.Close()
	slog.Info("database ready", "path", cfg.DBPath)

	jwtSecret, err := store.GetSecret(ctx, database, store.SettingJWTSecret)
	if err != nil {
		return err
	}
	nonceSecret, err := store.GetSecret(ctx, database, store.SettingNonceSecret)
	if err != nil {
		return err
	}

	tr := i18n.New(cfg.Lang)
	duplicator := clone.New(store.NewRepository(database), clone.Options{
		CopyLabel: tr.T(i18n.CopySuffix),
		Policy:    cfg.Policy,
	})
	slog.Info("cloning configured", "lang", tr.Lang(), "status_policy", cfg.Policy.String())

	webRouter, err := web.NewRouter(web.Config{
		DB:          database,
		JWTSecret:   jwtSecret,
		NonceSecret: nonceSecret,
		Duplicator:  duplicator,
		Translator:  tr,
	})
	if err != nil {
		return fmt.Errorf("setting up web router: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/api/", api.NewRouter(api.Config{
		DB:         database,
		JWTSecret:  jwtSecret,
		Duplicator: duplicator,
	}))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("/", webRouter)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.LoggingMiddleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		ticker := time.NewTicker(purgeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := store.PurgeExpiredTokens(ctx, database)
				if err != nil {
					slog.Warn("token purge failed", "error", err)
					continue
				}
				slog.Debug("expired tokens purged", "count", n)
			}
		}
	}()

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", cfg.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	slog.Info("server stopped, closing database")
	return nil
}
