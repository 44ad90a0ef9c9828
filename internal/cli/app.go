// Package cli implements the shramba command set on top of the store.
package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/erazemk/shramba/internal/auth"
	"github.com/erazemk/shramba/internal/imaging"
	"github.com/erazemk/shramba/internal/model"
	"github.com/erazemk/shramba/internal/notify"
	"github.com/erazemk/shramba/internal/store"
)

// App runs commands against one open store.
type App struct {
	Store    *store.Store
	Sessions auth.Sessions
	Photos   imaging.Library
	Sender   notify.Sender

	// LowStock is the default alert threshold.
	LowStock int

	Version string
	Logger  *slog.Logger

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	stdin *bufio.Reader
}

type command struct {
	summary string
	run     func(a *App, ctx context.Context, args []string) error
}

var commands = map[string]command{
	"register":  {"create an account and log in", (*App).register},
	"login":     {"log in to an existing account", (*App).login},
	"logout":    {"forget the saved session", (*App).logout},
	"whoami":    {"show the logged-in account", (*App).whoami},
	"settings":  {"show or change account settings", (*App).settings},
	"folders":   {"list folders", (*App).folders},
	"folder":    {"add, rename or remove a folder", (*App).folder},
	"items":     {"list items", (*App).items},
	"item":      {"add, show, edit or remove an item", (*App).item},
	"low-stock": {"list items at or below the alert threshold", (*App).lowStock},
	"version":   {"print version information", (*App).version},
}

// ErrUsage is returned when a command is invoked incorrectly. The usage text
// has already been printed.
var ErrUsage = errors.New("usage error")

// Run executes the command named by args[0].
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "-help" {
		a.Usage(a.Stdout)
		return nil
	}

	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(a.Stderr, "unknown command: %s\n\n", args[0])
		a.Usage(a.Stderr)
		return ErrUsage
	}

	err := cmd.run(a, ctx, args[1:])
	var ue userError
	switch {
	case err == nil, errors.As(err, &ue), errors.Is(err, ErrUsage):
		return err
	case errors.Is(err, flag.ErrHelp):
		return nil
	}
	a.logger().Error("command failed", "command", args[0], "error", err)
	return err
}

// Usage prints the command list.
func (a *App) Usage(w io.Writer) {
	fmt.Fprint(w, "Usage: shramba [flags] <command> [arguments]\n\nCommands:\n")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-10s %s\n", name, commands[name].summary)
	}
	fmt.Fprint(w, "\nRun 'shramba <command> -h' for command flags.\n")
}

func (a *App) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.Default()
}

// current returns the account of the saved session.
func (a *App) current(ctx context.Context) (*model.Account, error) {
	claims, err := a.Sessions.Load()
	if errors.Is(err, auth.ErrNoSession) {
		return nil, failf("not logged in (run 'shramba login')")
	}
	if err != nil {
		a.logger().Warn("discarding invalid session", "error", err)
		return nil, failf("session is no longer valid (run 'shramba login')")
	}

	account, err := a.Store.GetAccount(ctx, claims.AccountID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, failf("the logged-in account no longer exists (run 'shramba login')")
	}
	return account, err
}

// newFlagSet returns a flag set that reports errors to Stderr.
func (a *App) newFlagSet(name, usage string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.Stderr)
	fs.Usage = func() {
		fmt.Fprintf(a.Stderr, "Usage: shramba %s\n", usage)
		fs.PrintDefaults()
	}
	return fs
}

// parse parses flags that may appear before, between or after positional
// arguments and checks the positional count. Everything after "--" is
// positional.
func parse(fs *flag.FlagSet, args []string, min, max int) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return nil, err
			}
			return nil, ErrUsage
		}
		rest := fs.Args()
		if consumed := len(args) - len(rest); consumed > 0 && args[consumed-1] == "--" {
			positional = append(positional, rest...)
			break
		}
		if len(rest) == 0 {
			break
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}

	if len(positional) < min || (max >= 0 && len(positional) > max) {
		fs.Usage()
		return nil, ErrUsage
	}
	return positional, nil
}

// isSet reports whether the named flag was given on the command line.
func isSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, failf("invalid id %q", s)
	}
	return id, nil
}

// readLine prompts on Stdout and reads one line from Stdin.
func (a *App) readLine(prompt string) (string, error) {
	if a.stdin == nil {
		a.stdin = bufio.NewReader(a.Stdin)
	}
	fmt.Fprint(a.Stdout, prompt)
	line, err := a.stdin.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// userError is a message for the person at the terminal rather than a fault.
type userError string

func (e userError) Error() string { return string(e) }

func failf(format string, args ...any) error {
	return userError(fmt.Sprintf(format, args...))
}

// explain turns an expected store outcome into a message for the user.
// Storage faults are returned unchanged.
func explain(what string, err error) error {
	if err == nil || store.IsFault(err) {
		return err
	}
	return failf("%s: %s", what, store.Reason(err))
}

// invalid reports a validation failure on a named field.
func invalid(field string, err error) error {
	if err == nil {
		return nil
	}
	return failf("%s %v", field, err)
}
