package inert

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openInert(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open(DriverName, "")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestInertPing(t *testing.T) {
	db := openInert(t)
	require.NoError(t, db.PingContext(context.Background()))
}

func TestInertExec(t *testing.T) {
	db := openInert(t)

	res, err := db.Exec("INSERT INTO items (done, value) VALUES (0, ?)", "buy milk")
	require.NoError(t, err)

	id, err := res.LastInsertId()
	require.NoError(t, err)
	assert.Equal(t, int64(0), id)

	n, err := res.RowsAffected()
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestInertQueryReturnsNoRows(t *testing.T) {
	db := openInert(t)

	rows, err := db.Query("SELECT id, done, value FROM items WHERE done = ?", 0)
	require.NoError(t, err)
	defer rows.Close()

	assert.False(t, rows.Next())
	assert.NoError(t, rows.Err())
}

func TestInertQueryRowIsNoRows(t *testing.T) {
	db := openInert(t)

	var n int
	err := db.QueryRow("SELECT COUNT(*) FROM items").Scan(&n)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestInertTransaction(t *testing.T) {
	db := openInert(t)
	ctx := context.Background()

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	_, err = tx.ExecContext(ctx, "DELETE FROM items WHERE id = ?", 3)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
}

func TestInertPreparedStatement(t *testing.T) {
	db := openInert(t)

	st, err := db.Prepare("UPDATE items SET done = 1 WHERE id = ?")
	require.NoError(t, err)
	defer st.Close()

	_, err = st.Exec(int64(5))
	require.NoError(t, err)
}
