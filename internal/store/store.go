// Package store implements accounts, folders and items on top of the
// embedded SQLite database. Every mutating call runs in a single
// transaction, and ownership is enforced in the SQL itself: a row that
// belongs to another account behaves exactly like a row that does not exist.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/erazemk/shramba/internal/auth"
	"github.com/erazemk/shramba/internal/db"
)

// Store is the inventory database. Create one per process and hand it to
// whoever needs it.
type Store struct {
	db     *sql.DB
	cost   int
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithBcryptCost sets the bcrypt work factor for new passwords.
func WithBcryptCost(cost int) Option {
	return func(s *Store) { s.cost = cost }
}

// WithClock replaces time.Now for creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// New wraps a database that has already been migrated.
func New(database *sql.DB, opts ...Option) *Store {
	s := &Store{
		db:     database,
		cost:   auth.DefaultCost,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open opens the database at path and migrates it to the current schema
// before returning, so no query can observe a half-upgraded store.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	database, err := db.Open(path)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(ctx, database); err != nil {
		database.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	return New(database, opts...), nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SchemaVersion returns the schema version recorded in the database.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	return db.Version(ctx, s.db)
}

// withTx runs fn inside a transaction and commits if fn returns nil.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms)
}
