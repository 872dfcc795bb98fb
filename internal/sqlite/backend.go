// Package sqlite implements the SQLite storage backend for todos.
//
// A Backend owns exactly one database handle between Attach and Detach.
// When the configured SQLite driver is not compiled into the build, or the
// inert backend is configured, it opens the inert driver instead so every
// call succeeds against an empty store.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/mesh-intelligence/todos/internal/inert"
	"github.com/mesh-intelligence/todos/pkg/types"
)

// DBFileName is the database file created inside Config.DataDir.
const DBFileName = "todos.db"

// busyTimeoutMS bounds how long a statement waits on a locked database.
const busyTimeoutMS = 5000

// Compile-time interface check.
var _ types.Store = (*Backend)(nil)

// Backend implements types.Store on top of database/sql.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	inert    bool
	config   types.Config
	db       *sql.DB
	dbPath   string
	items    *itemsTable
	logger   *log.Logger
}

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the logger used for lifecycle and degrade messages.
func WithLogger(l *log.Logger) Option {
	return func(b *Backend) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBackend creates a new backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Attach opens the database handle, ensures the schema, and creates the
// item table accessor. Creates DataDir if it does not exist.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}

	ctx := context.Background()

	driverName, dsn, inertStore, err := b.resolveDriver(config)
	if err != nil {
		return err
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return fmt.Errorf("open %s: %w", driverName, err)
	}
	// One connection: the application never issues two statements at once,
	// and per-connection pragmas stay in effect.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("ping database: %w", err)
	}

	if !inertStore {
		if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA busy_timeout = %d", busyTimeoutMS)); err != nil {
			db.Close()
			return fmt.Errorf("set busy timeout: %w", err)
		}
	}

	if err := EnsureSchema(ctx, db); err != nil {
		db.Close()
		return err
	}

	b.db = db
	b.config = config
	b.inert = inertStore
	b.dbPath = ""
	if !inertStore {
		b.dbPath = dsn
	}
	b.items = &itemsTable{backend: b}
	b.attached = true

	b.logger.Debug("store attached", "driver", driverName, "path", b.dbPath, "inert", b.inert)
	return nil
}

// resolveDriver picks the database/sql driver and data source for config.
// It falls back to the inert driver when the requested SQLite driver is not
// compiled into this build.
func (b *Backend) resolveDriver(config types.Config) (driverName, dsn string, inertStore bool, err error) {
	if config.Backend == types.BackendInert {
		return inert.DriverName, "", true, nil
	}

	name, ok := sqliteDrivers[config.GetDriver()]
	if !ok {
		b.logger.Warn("sqlite driver not available in this build; using inert store",
			"driver", config.GetDriver())
		return inert.DriverName, "", true, nil
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", "", false, fmt.Errorf("create data directory: %w", err)
	}

	return name, filepath.Join(dataDir, DBFileName), false, nil
}

// Detach closes the database handle. After Detach, Items returns
// ErrStoreDetached. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return fmt.Errorf("close database: %w", err)
		}
		b.db = nil
	}

	b.attached = false
	b.inert = false
	b.dbPath = ""
	b.items = nil
	b.logger.Debug("store detached")
	return nil
}

// Items returns the item repository.
// Returns ErrStoreDetached if the backend is not attached.
func (b *Backend) Items() (types.ItemTable, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	return b.items, nil
}

// DataVersion returns SQLite's data_version for the store's connection.
// The value changes only when another connection commits, so comparing
// two readings tells external writes apart from this store's own. The
// inert store always reports 0.
func (b *Backend) DataVersion(ctx context.Context) (int64, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached || b.db == nil {
		return 0, types.ErrStoreDetached
	}
	if b.inert {
		return 0, nil
	}

	var v int64
	if err := b.db.QueryRowContext(ctx, "PRAGMA data_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("read data version: %w", err)
	}
	return v, nil
}

// Inert reports whether the attached handle is the inert stand-in.
func (b *Backend) Inert() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.inert
}

// DBPath returns the database file path, or "" for the inert store.
func (b *Backend) DBPath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.dbPath
}
