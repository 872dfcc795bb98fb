// Package sqlite provides the public API for the SQLite todos store.
// It exposes the factory while keeping the implementation internal.
package sqlite

import (
	"github.com/charmbracelet/log"

	"github.com/mesh-intelligence/todos/internal/sqlite"
	"github.com/mesh-intelligence/todos/pkg/types"
)

// NewStore creates a SQLite-backed store. The store is not attached; call
// Attach with a Config to open it. A nil logger discards log output.
//
// Example:
//
//	store := sqlite.NewStore(nil)
//	err := store.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: "/var/lib/todos",
//	})
//	defer store.Detach()
func NewStore(logger *log.Logger) types.Store {
	return sqlite.NewBackend(sqlite.WithLogger(logger))
}
