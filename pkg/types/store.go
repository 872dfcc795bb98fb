package types

import (
	"context"
	"errors"
)

// Store owns a single local database handle. Callers attach to a backend,
// reach the item table, and detach when done.
type Store interface {
	// Attach opens the handle described by config and ensures the schema.
	// Creates DataDir if it does not exist. Returns ErrAlreadyAttached if
	// called while already attached.
	Attach(config Config) error

	// Detach releases the handle. Idempotent: multiple calls succeed.
	// After Detach, Items returns ErrStoreDetached.
	Detach() error

	// Items returns the item repository bound to the attached handle.
	Items() (ItemTable, error)
}

// ItemTable is the item repository. Each method issues a single
// parametrized statement in its own transaction.
type ItemTable interface {
	// ListByStatus returns every item whose done flag equals done.
	// Result order is whatever the store returns; callers must not rely on it.
	ListByStatus(ctx context.Context, done bool) ([]Item, error)

	// Insert stores a new pending item and returns its store-assigned ID.
	// Returns ErrEmptyValue for the empty string without touching the store.
	Insert(ctx context.Context, value string) (int64, error)

	// MarkDone sets done for the item with the given ID. A missing row is
	// not an error.
	MarkDone(ctx context.Context, id int64) error

	// Delete removes the item with the given ID. A missing row is not an
	// error.
	Delete(ctx context.Context, id int64) error
}

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)
