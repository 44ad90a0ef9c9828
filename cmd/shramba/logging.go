package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// levelRouter is a slog.Handler that sends records at or above a terminal
// level to stdout (INFO/WARN) or stderr (ERROR+), and every INFO+ record to
// an optional log file.
type levelRouter struct {
	terminal slog.Level
	stdout   slog.Handler
	stderr   slog.Handler
	file     slog.Handler
}

func (lr *levelRouter) Enabled(_ context.Context, level slog.Level) bool {
	if lr.file != nil && level >= slog.LevelInfo {
		return true
	}
	return level >= lr.terminal
}

func (lr *levelRouter) Handle(ctx context.Context, r slog.Record) error {
	if lr.file != nil && r.Level >= slog.LevelInfo {
		if err := lr.file.Handle(ctx, r); err != nil {
			return err
		}
	}
	if r.Level < lr.terminal {
		return nil
	}
	if r.Level >= slog.LevelError {
		return lr.stderr.Handle(ctx, r)
	}
	return lr.stdout.Handle(ctx, r)
}

func (lr *levelRouter) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := &levelRouter{
		terminal: lr.terminal,
		stdout:   lr.stdout.WithAttrs(attrs),
		stderr:   lr.stderr.WithAttrs(attrs),
	}
	if lr.file != nil {
		next.file = lr.file.WithAttrs(attrs)
	}
	return next
}

func (lr *levelRouter) WithGroup(name string) slog.Handler {
	next := &levelRouter{
		terminal: lr.terminal,
		stdout:   lr.stdout.WithGroup(name),
		stderr:   lr.stderr.WithGroup(name),
	}
	if lr.file != nil {
		next.file = lr.file.WithGroup(name)
	}
	return next
}

// setupLogger configures structured logging. Records at or above terminal go
// to the terminal, ERROR to stderr and the rest to stdout. If logPath is
// non-empty, all INFO+ records are also appended to that file.
// Returns a cleanup function that closes the log file (if opened).
func setupLogger(stdout, stderr io.Writer, logPath string, terminal slog.Level) (func(), error) {
	lr := &levelRouter{
		terminal: terminal,
		stdout:   slog.NewTextHandler(stdout, &slog.HandlerOptions{Level: terminal}),
		stderr:   slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: terminal}),
	}

	cleanup := func() {}
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		cleanup = func() { f.Close() }
		lr.file = slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelInfo})
	}

	slog.SetDefault(slog.New(lr))
	return cleanup, nil
}
