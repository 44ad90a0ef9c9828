package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/erazemk/shramba/internal/model"
)

// CurrentVersion is the schema version written by this build.
const CurrentVersion = 3

// migration moves the schema from version-1 to version. apply must be safe to
// run against a schema that already contains its change.
type migration struct {
	version int
	name    string
	apply   func(ctx context.Context, tx *sql.Tx, now time.Time) error
}

// migrations are applied in order. Append new migrations at the end.
var migrations = []migration{
	{version: 1, name: "create accounts and items", apply: createBaseline},
	{version: 2, name: "add item creation time", apply: addCreatedAt},
	{version: 3, name: "introduce folders", apply: introduceFolders},
}

// Migrate brings the database up to CurrentVersion. Each step runs in its own
// transaction together with the version bump, so a failed step leaves the
// database at the previous version.
func Migrate(ctx context.Context, db *sql.DB) error {
	return migrate(ctx, db, migrations, time.Now)
}

// Version returns the schema version recorded in the database.
func Version(ctx context.Context, db *sql.DB) (int, error) {
	var v int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return v, nil
}

func migrate(ctx context.Context, db *sql.DB, steps []migration, now func() time.Time) error {
	current, err := Version(ctx, db)
	if err != nil {
		return err
	}

	latest := 0
	if len(steps) > 0 {
		latest = steps[len(steps)-1].version
	}
	if current > latest {
		return fmt.Errorf("database schema version %d is newer than supported version %d", current, latest)
	}

	for _, m := range steps {
		if m.version <= current {
			continue
		}
		if err := applyMigration(ctx, db, m, now()); err != nil {
			return fmt.Errorf("running migration %d (%s): %w", m.version, m.name, err)
		}
		slog.Info("applied migration", "version", m.version, "name", m.name)
		current = m.version
	}
	return nil
}

func applyMigration(ctx context.Context, db *sql.DB, m migration, now time.Time) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := m.apply(ctx, tx, now); err != nil {
		return err
	}

	// PRAGMA does not take bound parameters; version is a trusted int.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", m.version)); err != nil {
		return fmt.Errorf("recording schema version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing migration: %w", err)
	}
	return nil
}

func createBaseline(ctx context.Context, tx *sql.Tx, _ time.Time) error {
	if _, err := tx.ExecContext(ctx, baselineSchema); err != nil {
		return fmt.Errorf("creating baseline schema: %w", err)
	}
	return nil
}

// addCreatedAt adds items.created_at. Rows that predate the column get the
// migration time, not their real creation time.
func addCreatedAt(ctx context.Context, tx *sql.Tx, now time.Time) error {
	exists, err := columnExists(ctx, tx, "items", "created_at")
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	if _, err := tx.ExecContext(ctx, fmt.Sprintf(addItemCreatedAt, now.UnixMilli())); err != nil {
		return fmt.Errorf("adding items.created_at: %w", err)
	}
	return nil
}

// introduceFolders creates the folders table, gives every account a General
// folder and rebuilds items with a required folder_id pointing at it.
func introduceFolders(ctx context.Context, tx *sql.Tx, now time.Time) error {
	hasFolders, err := tableExists(ctx, tx, "folders")
	if err != nil {
		return err
	}
	hasFolderID, err := columnExists(ctx, tx, "items", "folder_id")
	if err != nil {
		return err
	}
	if hasFolders && hasFolderID {
		return nil
	}

	if _, err := tx.ExecContext(ctx, foldersTable); err != nil {
		return fmt.Errorf("creating folders: %w", err)
	}

	// OR IGNORE keeps this at one General folder per account on re-runs.
	if _, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO folders (name, account_id, created_at)
		 SELECT ?, id, ? FROM accounts`,
		model.DefaultFolderName, now.UnixMilli(),
	); err != nil {
		return fmt.Errorf("creating default folders: %w", err)
	}

	if hasFolderID {
		return nil
	}

	var seq sql.NullInt64
	err = tx.QueryRowContext(ctx,
		`SELECT seq FROM sqlite_sequence WHERE name = 'items'`,
	).Scan(&seq)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("reading item sequence: %w", err)
	}

	if _, err := tx.ExecContext(ctx, itemsTableV3); err != nil {
		return fmt.Errorf("creating new items table: %w", err)
	}
	if _, err := tx.ExecContext(ctx, copyItemsIntoV3, model.DefaultFolderName); err != nil {
		return fmt.Errorf("copying items into default folders: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DROP TABLE items`); err != nil {
		return fmt.Errorf("dropping old items table: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `ALTER TABLE items_v3 RENAME TO items`); err != nil {
		return fmt.Errorf("renaming items table: %w", err)
	}
	if _, err := tx.ExecContext(ctx, itemIndexes); err != nil {
		return fmt.Errorf("creating item indexes: %w", err)
	}

	// Item ids are never reused, including ids deleted before the rebuild.
	if seq.Valid && seq.Int64 > 0 {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sqlite_sequence (name, seq)
			 SELECT 'items', 0 WHERE NOT EXISTS (SELECT 1 FROM sqlite_sequence WHERE name = 'items')`,
		); err != nil {
			return fmt.Errorf("restoring item sequence: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE sqlite_sequence SET seq = MAX(seq, ?) WHERE name = 'items'`, seq.Int64,
		); err != nil {
			return fmt.Errorf("restoring item sequence: %w", err)
		}
	}

	return nil
}

func tableExists(ctx context.Context, tx *sql.Tx, table string) (bool, error) {
	var count int
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking table %s: %w", table, err)
	}
	return count > 0, nil
}

func columnExists(ctx context.Context, tx *sql.Tx, table, column string) (bool, error) {
	var count int
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`, table, column,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking column %s.%s: %w", table, column, err)
	}
	return count > 0, nil
}
