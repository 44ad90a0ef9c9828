package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/erazemk/shramba/internal/auth"
	"github.com/erazemk/shramba/internal/cli"
	"github.com/erazemk/shramba/internal/config"
	"github.com/erazemk/shramba/internal/imaging"
	"github.com/erazemk/shramba/internal/notify"
	"github.com/erazemk/shramba/internal/store"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	// A missing .env file is fine.
	_ = godotenv.Load()

	fs := flag.NewFlagSet("shramba", flag.ContinueOnError)

	var configPath string
	fs.StringVar(&configPath, "config", "", "")
	fs.StringVar(&configPath, "c", "", "")

	var dbPath string
	fs.StringVar(&dbPath, "db", "", "")
	fs.StringVar(&dbPath, "d", "", "")

	var logPath string
	fs.StringVar(&logPath, "log", "", "")
	fs.StringVar(&logPath, "l", "", "")

	var sessionPath string
	fs.StringVar(&sessionPath, "session", "", "")
	fs.StringVar(&sessionPath, "s", "", "")

	var photoDir string
	fs.StringVar(&photoDir, "photos", "", "")
	fs.StringVar(&photoDir, "p", "", "")

	var verbose bool
	fs.BoolVar(&verbose, "verbose", false, "")
	fs.BoolVar(&verbose, "v", false, "")

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: shramba [flags] <command> [arguments]

Flags:
  -c, -config <path>     YAML config file (default: $SHRAMBA_CONFIG)
  -d, -db <path>         SQLite database path (default: shramba.sqlite3)
  -l, -log <path>        log file path (default: no file)
  -s, -session <path>    session file (default: user config dir)
  -p, -photos <dir>      item photo directory (default: photos)
  -v, -verbose           print informational logs
  -h, -help              show this help and exit

Run 'shramba help' for the list of commands.
`)
	}

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	// Flags win over the file and the environment.
	for _, o := range []struct {
		value string
		dst   *string
	}{
		{dbPath, &cfg.DBPath},
		{logPath, &cfg.LogPath},
		{sessionPath, &cfg.SessionPath},
		{photoDir, &cfg.PhotoDir},
	} {
		if o.value != "" {
			*o.dst = o.value
		}
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "error: invalid configuration: %v\n", err)
		return 1
	}

	terminal := slog.LevelWarn
	if verbose {
		terminal = slog.LevelInfo
	}
	closeLog, err := setupLogger(os.Stdout, os.Stderr, cfg.LogPath, terminal)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s, err := store.Open(ctx, cfg.DBPath,
		store.WithBcryptCost(cfg.BcryptCost),
		store.WithLogger(slog.Default()),
	)
	if err != nil {
		slog.Error("failed to open database", "path", cfg.DBPath, "error", err)
		return 1
	}
	defer s.Close()

	slog.Info("database ready", "path", cfg.DBPath)

	app := &cli.App{
		Store:    s,
		Sessions: auth.Sessions{Path: cfg.SessionPath},
		Photos:   imaging.Library{Dir: cfg.PhotoDir},
		Sender:   notify.LogSender{Logger: slog.Default()},
		LowStock: cfg.LowStock,
		Version:  version,
		Logger:   slog.Default(),
		Stdin:    os.Stdin,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
	}

	if err := app.Run(ctx, fs.Args()); err != nil {
		if errors.Is(err, cli.ErrUsage) {
			return 2
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}
