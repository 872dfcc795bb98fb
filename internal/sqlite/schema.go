package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// createItems is the only table. There is no migration path: changing the
// layout means a new table definition.
const createItems = `CREATE TABLE IF NOT EXISTS items (
    id INTEGER PRIMARY KEY NOT NULL,
    done INTEGER,
    value TEXT
);`

// EnsureSchema creates the items table if it does not exist.
// Safe to call on every startup.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, createItems); err != nil {
		return fmt.Errorf("create items table: %w", err)
	}
	return nil
}
