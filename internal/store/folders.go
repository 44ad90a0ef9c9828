package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/erazemk/shramba/internal/model"
)

const folderColumns = `id, name, account_id, created_at`

// CreateFolder creates a folder for ownerID. Returns ErrDuplicate if the
// account already has a folder with that name.
func (s *Store) CreateFolder(ctx context.Context, name string, ownerID int64) (int64, error) {
	var id int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`INSERT INTO folders (name, account_id, created_at) VALUES (?, ?, ?)`,
			name, ownerID, s.now().UnixMilli(),
		)
		if isUniqueViolation(err) {
			return fmt.Errorf("folder %q: %w", name, ErrDuplicate)
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("account %d: %w", ownerID, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("creating folder: %w", err)
		}

		id, err = result.LastInsertId()
		if err != nil {
			return fmt.Errorf("getting folder id: %w", err)
		}
		return nil
	})
	return id, err
}

// GetFolder returns a folder owned by ownerID.
func (s *Store) GetFolder(ctx context.Context, id, ownerID int64) (*model.Folder, error) {
	f, err := scanFolder(s.db.QueryRowContext(ctx,
		`SELECT `+folderColumns+` FROM folders WHERE id = ? AND account_id = ?`, id, ownerID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("folder %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting folder: %w", err)
	}
	return f, nil
}

// ListFolders returns ownerID's folders ordered by name.
func (s *Store) ListFolders(ctx context.Context, ownerID int64) ([]model.Folder, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+folderColumns+` FROM folders WHERE account_id = ? ORDER BY name ASC`, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing folders: %w", err)
	}
	defer rows.Close()

	var folders []model.Folder
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning folder: %w", err)
		}
		folders = append(folders, *f)
	}
	return folders, rows.Err()
}

// RenameFolder renames a folder owned by ownerID.
func (s *Store) RenameFolder(ctx context.Context, id int64, name string, ownerID int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE folders SET name = ? WHERE id = ? AND account_id = ?`,
			name, id, ownerID,
		)
		if isUniqueViolation(err) {
			return fmt.Errorf("folder %q: %w", name, ErrDuplicate)
		}
		if err != nil {
			return fmt.Errorf("renaming folder: %w", err)
		}

		n, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("renaming folder: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("folder %d: %w", id, ErrNotFound)
		}
		return nil
	})
}

// DeleteFolder deletes an empty folder owned by ownerID. Ownership is checked
// before the item count, so another account's folder is reported as
// ErrNotFound whether or not it holds items.
func (s *Store) DeleteFolder(ctx context.Context, id, ownerID int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var owned int
		err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM folders WHERE id = ? AND account_id = ?`, id, ownerID,
		).Scan(&owned)
		if err != nil {
			return fmt.Errorf("checking folder: %w", err)
		}
		if owned == 0 {
			return fmt.Errorf("folder %d: %w", id, ErrNotFound)
		}

		var count int
		err = tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM items WHERE folder_id = ?`, id,
		).Scan(&count)
		if err != nil {
			return fmt.Errorf("checking folder items: %w", err)
		}
		if count > 0 {
			s.logger.Info("refused to delete non-empty folder", "folder_id", id, "items", count)
			return fmt.Errorf("folder %d holds %d items: %w", id, count, ErrNotEmpty)
		}

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM folders WHERE id = ? AND account_id = ?`, id, ownerID,
		); err != nil {
			return fmt.Errorf("deleting folder: %w", err)
		}
		return nil
	})
}

// ItemCountInFolder returns the number of items in a folder.
func (s *Store) ItemCountInFolder(ctx context.Context, folderID int64) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM items WHERE folder_id = ?`, folderID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting folder items: %w", err)
	}
	return count, nil
}

func scanFolder(row scanner) (*model.Folder, error) {
	f := &model.Folder{}
	var createdAt int64
	if err := row.Scan(&f.ID, &f.Name, &f.AccountID, &createdAt); err != nil {
		return nil, err
	}
	f.CreatedAt = fromMillis(createdAt)
	return f, nil
}
