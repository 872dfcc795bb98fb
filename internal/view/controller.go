// Package view holds the display-side cache of the two item partitions and
// the refresh counter that decides when they are stale.
//
// Every successful mutation advances the counter. Under RefreshFull an
// advance discards both cached partitions so the next render fetches them
// again. Under RefreshIncremental loaded partitions are patched in place
// with the single record that changed.
package view

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/mesh-intelligence/todos/pkg/types"
)

// Partition names one of the two item lists.
type Partition int

const (
	// Pending holds items with done = false.
	Pending Partition = iota
	// Completed holds items with done = true.
	Completed
)

// Partitions lists both partitions in display order.
var Partitions = [...]Partition{Pending, Completed}

// Done reports the done value selecting this partition.
func (p Partition) Done() bool { return p == Completed }

func (p Partition) String() string {
	if p == Completed {
		return "completed"
	}
	return "pending"
}

// State is the load state of a partition cache.
type State int

const (
	Unloaded State = iota
	Loading
	Loaded
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	default:
		return "unloaded"
	}
}

// RefreshPolicy decides what a counter advance does to loaded partitions.
type RefreshPolicy int

const (
	// RefreshFull discards both partitions on every advance.
	RefreshFull RefreshPolicy = iota
	// RefreshIncremental patches loaded partitions with the changed record.
	RefreshIncremental
)

func (r RefreshPolicy) String() string {
	if r == RefreshIncremental {
		return "incremental"
	}
	return "full"
}

// ParseRefreshPolicy converts a config value to a RefreshPolicy.
// The empty string selects RefreshFull.
func ParseRefreshPolicy(s string) (RefreshPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "full":
		return RefreshFull, nil
	case "incremental":
		return RefreshIncremental, nil
	default:
		return RefreshFull, fmt.Errorf("unknown refresh policy %q (want full or incremental)", s)
	}
}

type partition struct {
	state State
	token uint64 // counter value the current load started under
	items []types.Item
}

// Controller caches the pending and completed partitions for display.
// It is safe for concurrent use.
type Controller struct {
	mu     sync.Mutex
	items  types.ItemTable
	policy RefreshPolicy
	logger *log.Logger
	token  uint64
	parts  [2]partition

	version     func(context.Context) (int64, error)
	seen        int64
	haveVersion bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithPolicy sets the refresh policy. The default is RefreshFull.
func WithPolicy(p RefreshPolicy) Option {
	return func(c *Controller) { c.policy = p }
}

// WithLogger sets the logger for mutation and load messages.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithVersion sets the function that reports the store's change version.
// ExternalChange compares readings to skip notifications caused by this
// controller's own writes.
func WithVersion(fn func(context.Context) (int64, error)) Option {
	return func(c *Controller) { c.version = fn }
}

// New creates a Controller over items with both partitions unloaded.
func New(items types.ItemTable, opts ...Option) *Controller {
	c := &Controller{items: items, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Policy returns the configured refresh policy.
func (c *Controller) Policy() RefreshPolicy { return c.policy }

// Token returns the current refresh counter.
func (c *Controller) Token() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// State returns the load state of p.
func (c *Controller) State(p Partition) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.parts[p].state
}

// NeedsLoad reports whether p is unloaded.
func (c *Controller) NeedsLoad(p Partition) bool {
	return c.State(p) == Unloaded
}

// Items returns a copy of the cached items of p, or nil when p is not
// loaded. A loaded empty partition returns an empty non-nil slice.
func (c *Controller) Items(p Partition) []types.Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.parts[p].state != Loaded {
		return nil
	}
	return slices.Clone(c.parts[p].items)
}

// BeginLoad marks p as loading and returns the counter value the load runs
// under. Pass the token to CompleteLoad.
func (c *Controller) BeginLoad(p Partition) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.parts[p] = partition{state: Loading, token: c.token}
	return c.token
}

// Fetch reads p from the store without touching the cache.
func (c *Controller) Fetch(ctx context.Context, p Partition) ([]types.Item, error) {
	items, err := c.items.ListByStatus(ctx, p.Done())
	if err != nil {
		return nil, fmt.Errorf("list %s items: %w", p, err)
	}
	return items, nil
}

// CompleteLoad stores the result of a load started with BeginLoad. It
// returns false and discards the result when the counter has moved since
// the load began. A failed load leaves p unloaded.
func (c *Controller) CompleteLoad(p Partition, token uint64, items []types.Item, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	part := &c.parts[p]
	if token != c.token || part.state != Loading || part.token != token {
		c.logger.Debug("discarding stale load", "partition", p, "token", token, "current", c.token)
		return false
	}

	if err != nil {
		*part = partition{}
		return true
	}
	if items == nil {
		items = []types.Item{}
	}
	part.state = Loaded
	part.items = items
	return true
}

// Load fetches p synchronously and caches the result.
func (c *Controller) Load(ctx context.Context, p Partition) error {
	token := c.BeginLoad(p)
	items, err := c.Fetch(ctx, p)
	c.CompleteLoad(p, token, items, err)
	return err
}

// LoadAll loads every unloaded partition.
func (c *Controller) LoadAll(ctx context.Context) error {
	for _, p := range Partitions {
		if !c.NeedsLoad(p) {
			continue
		}
		if err := c.Load(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Submit inserts text as a new pending item and advances the counter.
// Empty text returns ErrEmptyValue without touching the store.
func (c *Controller) Submit(ctx context.Context, text string) (int64, error) {
	if text == "" {
		return 0, types.ErrEmptyValue
	}

	id, err := c.items.Insert(ctx, text)
	if err != nil {
		c.logger.Error("insert failed", "err", err)
		return 0, err
	}
	c.logger.Debug("item added", "id", id)

	c.advance(func() {
		pending := &c.parts[Pending]
		if pending.state != Loaded {
			return
		}
		// The inert store reports no ID; nothing sensible to append.
		if id <= 0 {
			*pending = partition{}
			return
		}
		pending.items = append(pending.items, types.Item{ID: id, Value: text})
	})
	return id, nil
}

// MarkDone moves id to the completed partition and advances the counter.
// A missing id is not an error.
func (c *Controller) MarkDone(ctx context.Context, id int64) error {
	if err := c.items.MarkDone(ctx, id); err != nil {
		c.logger.Error("mark done failed", "id", id, "err", err)
		return err
	}
	c.logger.Debug("item done", "id", id)

	c.advance(func() {
		pending := &c.parts[Pending]
		completed := &c.parts[Completed]

		if pending.state != Loaded {
			if completed.state == Loaded {
				*completed = partition{}
			}
			return
		}

		i := indexOf(pending.items, id)
		if i < 0 {
			return
		}
		item := pending.items[i]
		pending.items = slices.Delete(pending.items, i, i+1)

		if completed.state == Loaded {
			item.Done = true
			completed.items = append(completed.items, item)
		}
	})
	return nil
}

// Delete removes id and advances the counter. A missing id is not an error.
func (c *Controller) Delete(ctx context.Context, id int64) error {
	if err := c.items.Delete(ctx, id); err != nil {
		c.logger.Error("delete failed", "id", id, "err", err)
		return err
	}
	c.logger.Debug("item deleted", "id", id)

	c.advance(func() {
		for i := range c.parts {
			part := &c.parts[i]
			if part.state != Loaded {
				continue
			}
			if j := indexOf(part.items, id); j >= 0 {
				part.items = slices.Delete(part.items, j, j+1)
			}
		}
	})
	return nil
}

// Invalidate advances the counter and discards both partitions regardless
// of policy. Used when the store changed outside this controller.
func (c *Controller) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token++
	c.parts = [2]partition{}
}

// SyncVersion records the store's current version as the baseline for
// ExternalChange. It does nothing without WithVersion.
func (c *Controller) SyncVersion(ctx context.Context) error {
	if c.version == nil {
		return nil
	}
	v, err := c.version(ctx)
	if err != nil {
		return fmt.Errorf("read store version: %w", err)
	}
	c.mu.Lock()
	c.seen, c.haveVersion = v, true
	c.mu.Unlock()
	return nil
}

// ExternalChange handles a notification that the store may have changed
// elsewhere. It invalidates both partitions and returns true unless the
// store version matches the last one seen. Without WithVersion, or when the
// version cannot be read, every notification invalidates.
func (c *Controller) ExternalChange(ctx context.Context) (bool, error) {
	if c.version == nil {
		c.Invalidate()
		return true, nil
	}

	v, err := c.version(ctx)
	if err != nil {
		c.Invalidate()
		return true, fmt.Errorf("read store version: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.haveVersion && v == c.seen {
		return false, nil
	}
	c.seen, c.haveVersion = v, true
	c.token++
	c.parts = [2]partition{}
	c.logger.Debug("store changed externally", "version", v)
	return true, nil
}

// advance bumps the counter. Under RefreshIncremental patch runs against
// the loaded partitions; otherwise every partition is dropped. In-flight
// loads are dropped under either policy.
func (c *Controller) advance(patch func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.token++

	if c.policy != RefreshIncremental {
		c.parts = [2]partition{}
		return
	}
	for i := range c.parts {
		if c.parts[i].state == Loading {
			c.parts[i] = partition{}
		}
	}
	patch()
}

func indexOf(items []types.Item, id int64) int {
	return slices.IndexFunc(items, func(it types.Item) bool { return it.ID == id })
}
