package sqlite

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), DBFileName))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestEnsureSchema(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, EnsureSchema(t.Context(), db))

	var name string
	err := db.QueryRowContext(t.Context(),
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'items'").Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "items", name)

	rows, err := db.QueryContext(t.Context(), "SELECT name FROM pragma_table_info('items') ORDER BY cid")
	require.NoError(t, err)
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var c string
		require.NoError(t, rows.Scan(&c))
		cols = append(cols, c)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"id", "done", "value"}, cols)
}

func TestEnsureSchema_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, EnsureSchema(t.Context(), db))
	_, err := db.ExecContext(t.Context(), "INSERT INTO items (done, value) VALUES (0, 'kept')")
	require.NoError(t, err)

	require.NoError(t, EnsureSchema(t.Context(), db))

	var count int
	require.NoError(t, db.QueryRowContext(t.Context(), "SELECT COUNT(*) FROM items").Scan(&count))
	assert.Equal(t, 1, count)
}
