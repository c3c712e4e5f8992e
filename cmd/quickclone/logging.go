package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// levelRouter sends records below ERROR to one handler and the rest to another,
// so errors land on stderr while the request log stays on stdout.
type levelRouter struct {
	min  slog.Leveler
	info slog.Handler
	errs slog.Handler
}

func (lr *levelRouter) Enabled(_ context.Context, level slog.Level) bool {
	return level >= lr.min.Level()
}

func (lr *levelRouter) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return lr.errs.Handle(ctx, r)
	}
	return lr.info.Handle(ctx, r)
}

func (lr *levelRouter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelRouter{min: lr.min, info: lr.info.WithAttrs(attrs), errs: lr.errs.WithAttrs(attrs)}
}

func (lr *levelRouter) WithGroup(name string) slog.Handler {
	return &levelRouter{min: lr.min, info: lr.info.WithGroup(name), errs: lr.errs.WithGroup(name)}
}

func newLogger(stdout, stderr io.Writer, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	return slog.New(&levelRouter{
		min:  level,
		info: slog.NewTextHandler(stdout, opts),
		errs: slog.NewTextHandler(stderr, opts),
	})
}

// setupLogger installs the default logger. With logPath set every record is
// also appended to that file; the returned func closes it.
func setupLogger(logPath string, level slog.Level) (func(), error) {
	var stdout, stderr io.Writer = os.Stdout, os.Stderr
	closeFn := func() {}

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		closeFn = func() { f.Close() }
		stdout = io.MultiWriter(os.Stdout, f)
		stderr = io.MultiWriter(os.Stderr, f)
	}

	slog.SetDefault(newLogger(stdout, stderr, level))
	return closeFn, nil
}
