package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/erazemk/shramba/internal/model"
)

const itemColumns = `id, name, quantity, description, barcode, image_path, account_id, folder_id, created_at`

// AddItem stores item in folderID on behalf of ownerID and returns its ID.
// Returns ErrNotFound if the folder does not belong to ownerID. CreatedAt is
// taken from item if set, otherwise from the store clock.
func (s *Store) AddItem(ctx context.Context, item model.Item, ownerID, folderID int64) (int64, error) {
	createdAt := item.CreatedAt
	if createdAt.IsZero() {
		createdAt = s.now()
	}

	var id int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var owned int
		err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM folders WHERE id = ? AND account_id = ?`, folderID, ownerID,
		).Scan(&owned)
		if err != nil {
			return fmt.Errorf("checking folder: %w", err)
		}
		if owned == 0 {
			return fmt.Errorf("folder %d: %w", folderID, ErrNotFound)
		}

		result, err := tx.ExecContext(ctx,
			`INSERT INTO items (name, quantity, description, barcode, image_path, account_id, folder_id, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			item.Name, item.Quantity, nullString(item.Description), nullString(item.Barcode),
			nullString(item.ImagePath), ownerID, folderID, createdAt.UnixMilli(),
		)
		if err != nil {
			return fmt.Errorf("adding item: %w", err)
		}

		id, err = result.LastInsertId()
		if err != nil {
			return fmt.Errorf("getting item id: %w", err)
		}
		return nil
	})
	return id, err
}

// GetItem returns an item by ID.
func (s *Store) GetItem(ctx context.Context, id int64) (*model.Item, error) {
	item, err := scanItem(s.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ?`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("item %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// ListItems returns all of ownerID's items in insertion order. Use the
// sorter package for display order.
func (s *Store) ListItems(ctx context.Context, ownerID int64) ([]model.Item, error) {
	return s.queryItems(ctx,
		`SELECT `+itemColumns+` FROM items WHERE account_id = ? ORDER BY id`, ownerID,
	)
}

// ListFolderItems returns ownerID's items in folderID in insertion order.
func (s *Store) ListFolderItems(ctx context.Context, ownerID, folderID int64) ([]model.Item, error) {
	return s.queryItems(ctx,
		`SELECT `+itemColumns+` FROM items WHERE account_id = ? AND folder_id = ? ORDER BY id`,
		ownerID, folderID,
	)
}

// LowStockItems returns ownerID's items whose quantity is at or below threshold.
func (s *Store) LowStockItems(ctx context.Context, ownerID int64, threshold int) ([]model.Item, error) {
	return s.queryItems(ctx,
		`SELECT `+itemColumns+` FROM items WHERE account_id = ? AND quantity <= ? ORDER BY id`,
		ownerID, threshold,
	)
}

// UpdateItem overwrites the editable fields of item.ID and moves it to
// newFolderID. It returns the number of rows changed: 0 if the item is
// missing, belongs to another account, or newFolderID is not ownerID's.
// CreatedAt is never changed.
func (s *Store) UpdateItem(ctx context.Context, item model.Item, ownerID, newFolderID int64) (int64, error) {
	var n int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE items
			 SET name = ?, quantity = ?, description = ?, barcode = ?, image_path = ?, folder_id = ?
			 WHERE id = ? AND account_id = ?
			   AND EXISTS (SELECT 1 FROM folders WHERE id = ? AND account_id = ?)`,
			item.Name, item.Quantity, nullString(item.Description), nullString(item.Barcode),
			nullString(item.ImagePath), newFolderID,
			item.ID, ownerID,
			newFolderID, ownerID,
		)
		if err != nil {
			return fmt.Errorf("updating item: %w", err)
		}
		n, err = result.RowsAffected()
		return err
	})
	return n, err
}

// DeleteItem deletes an item owned by ownerID and returns the number of rows
// removed: 0 if the item is missing or belongs to another account.
func (s *Store) DeleteItem(ctx context.Context, id, ownerID int64) (int64, error) {
	var n int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`DELETE FROM items WHERE id = ? AND account_id = ?`, id, ownerID,
		)
		if err != nil {
			return fmt.Errorf("deleting item: %w", err)
		}
		n, err = result.RowsAffected()
		return err
	})
	return n, err
}

func (s *Store) queryItems(ctx context.Context, query string, args ...any) ([]model.Item, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func scanItem(row scanner) (*model.Item, error) {
	item := &model.Item{}
	var description, barcode, imagePath sql.NullString
	var createdAt int64
	if err := row.Scan(&item.ID, &item.Name, &item.Quantity, &description, &barcode, &imagePath,
		&item.AccountID, &item.FolderID, &createdAt); err != nil {
		return nil, err
	}
	item.Description = description.String
	item.Barcode = barcode.String
	item.ImagePath = imagePath.String
	item.CreatedAt = fromMillis(createdAt)
	return item, nil
}
