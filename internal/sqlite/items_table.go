package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mesh-intelligence/todos/pkg/types"
)

// Compile-time interface check: itemsTable must implement ItemTable.
var _ types.ItemTable = (*itemsTable)(nil)

// Statements. done is written as 0 or 1, but any non-zero value reads as
// done and NULL reads as pending.
const (
	selectItemsByStatus = "SELECT id, done, value FROM items WHERE (COALESCE(done, 0) <> 0) = ?"
	insertItem          = "INSERT INTO items (done, value) VALUES (0, ?)"
	updateItemDone      = "UPDATE items SET done = 1 WHERE id = ?"
	deleteItem          = "DELETE FROM items WHERE id = ?"
)

// itemsTable implements the ItemTable interface against the backend handle.
type itemsTable struct {
	backend *Backend
}

// ListByStatus selects every item in the partition given by done.
func (it *itemsTable) ListByStatus(ctx context.Context, done bool) ([]types.Item, error) {
	it.backend.mu.RLock()
	defer it.backend.mu.RUnlock()

	db, err := it.handle()
	if err != nil {
		return nil, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, selectItemsByStatus, boolToInt(done))
	if err != nil {
		return nil, fmt.Errorf("querying items: %w", err)
	}
	defer rows.Close()

	items := []types.Item{}
	for rows.Next() {
		item, err := hydrateItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating items: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing read: %w", err)
	}
	return items, nil
}

// Insert stores value as a new pending item and returns its ID. The inert
// store returns ID 0.
func (it *itemsTable) Insert(ctx context.Context, value string) (int64, error) {
	if value == "" {
		return 0, types.ErrEmptyValue
	}

	var id int64
	err := it.write(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, insertItem, value)
		if err != nil {
			return fmt.Errorf("insert item: %w", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("reading item ID: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// MarkDone sets done = 1 for id. Zero matching rows is success.
func (it *itemsTable) MarkDone(ctx context.Context, id int64) error {
	return it.write(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, updateItemDone, id); err != nil {
			return fmt.Errorf("mark item %d done: %w", id, err)
		}
		return nil
	})
}

// Delete removes id. Zero matching rows is success.
func (it *itemsTable) Delete(ctx context.Context, id int64) error {
	return it.write(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, deleteItem, id); err != nil {
			return fmt.Errorf("delete item %d: %w", id, err)
		}
		return nil
	})
}

// write runs fn in its own transaction under the backend write lock.
func (it *itemsTable) write(ctx context.Context, fn func(tx *sql.Tx) error) error {
	it.backend.mu.Lock()
	defer it.backend.mu.Unlock()

	db, err := it.handle()
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
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

// handle returns the open database. The caller must hold backend.mu.
func (it *itemsTable) handle() (*sql.DB, error) {
	if !it.backend.attached || it.backend.db == nil {
		return nil, types.ErrStoreDetached
	}
	return it.backend.db, nil
}

// hydrateItem scans one row into an Item.
func hydrateItem(rows *sql.Rows) (types.Item, error) {
	var (
		item  types.Item
		done  sql.NullInt64
		value sql.NullString
	)
	if err := rows.Scan(&item.ID, &done, &value); err != nil {
		return types.Item{}, err
	}
	item.Done = done.Valid && done.Int64 != 0
	item.Value = value.String
	return item, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
