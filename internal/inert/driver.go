// Package inert registers a database/sql driver that accepts every statement
// and stores nothing. Exec reports zero rows affected and Query returns no
// rows. The sqlite backend opens it in place of a real database on platforms
// where SQLite is unavailable, so callers keep working against an empty store.
package inert

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"io"
)

// DriverName is the name the driver is registered under.
const DriverName = "inert"

func init() {
	sql.Register(DriverName, Driver{})
}

// Driver implements driver.Driver. The data source name is ignored.
type Driver struct{}

// Open returns a connection that never fails.
func (Driver) Open(string) (driver.Conn, error) {
	return conn{}, nil
}

type conn struct{}

var (
	_ driver.Conn           = conn{}
	_ driver.ConnBeginTx    = conn{}
	_ driver.Pinger         = conn{}
	_ driver.ExecerContext  = conn{}
	_ driver.QueryerContext = conn{}
)

func (conn) Prepare(string) (driver.Stmt, error) { return stmt{}, nil }
func (conn) Close() error                         { return nil }
func (conn) Begin() (driver.Tx, error)            { return tx{}, nil }
func (conn) Ping(context.Context) error           { return nil }

func (conn) BeginTx(context.Context, driver.TxOptions) (driver.Tx, error) {
	return tx{}, nil
}

func (conn) ExecContext(context.Context, string, []driver.NamedValue) (driver.Result, error) {
	return result{}, nil
}

func (conn) QueryContext(context.Context, string, []driver.NamedValue) (driver.Rows, error) {
	return rows{}, nil
}

type tx struct{}

func (tx) Commit() error   { return nil }
func (tx) Rollback() error { return nil }

type stmt struct{}

func (stmt) Close() error                               { return nil }
func (stmt) NumInput() int                              { return -1 }
func (stmt) Exec([]driver.Value) (driver.Result, error) { return result{}, nil }
func (stmt) Query([]driver.Value) (driver.Rows, error)  { return rows{}, nil }

// result reports no inserted ID and no affected rows.
type result struct{}

func (result) LastInsertId() (int64, error) { return 0, nil }
func (result) RowsAffected() (int64, error) { return 0, nil }

type rows struct{}

func (rows) Columns() []string         { return nil }
func (rows) Close() error              { return nil }
func (rows) Next([]driver.Value) error { return io.EOF }
