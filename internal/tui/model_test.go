package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/todos/internal/sqlite"
	"github.com/mesh-intelligence/todos/internal/view"
	"github.com/mesh-intelligence/todos/pkg/types"
)

type fixture struct {
	config  types.Config
	backend *sqlite.Backend
	items   types.ItemTable
	ctrl    *view.Controller
}

func newFixture(t *testing.T, policy view.RefreshPolicy, opts ...view.Option) *fixture {
	t.Helper()
	config := types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}
	b := sqlite.NewBackend()
	require.NoError(t, b.Attach(config))
	t.Cleanup(func() { b.Detach() })

	items, err := b.Items()
	require.NoError(t, err)
	opts = append([]view.Option{view.WithPolicy(policy)}, opts...)
	return &fixture{config: config, backend: b, items: items, ctrl: view.New(items, opts...)}
}

// newVersionedFixture wires the controller to the backend's data version the
// way the screen command does.
func newVersionedFixture(t *testing.T, policy view.RefreshPolicy) *fixture {
	t.Helper()
	var b *sqlite.Backend
	f := newFixture(t, policy, view.WithVersion(func(ctx context.Context) (int64, error) {
		return b.DataVersion(ctx)
	}))
	b = f.backend
	require.NoError(t, f.ctrl.SyncVersion(t.Context()))
	return f
}

// otherWriter attaches a second backend to the fixture's database, standing
// in for another process.
func (f *fixture) otherWriter(t *testing.T) types.ItemTable {
	t.Helper()
	b := sqlite.NewBackend()
	require.NoError(t, b.Attach(f.config))
	t.Cleanup(func() { b.Detach() })
	items, err := b.Items()
	require.NoError(t, err)
	return items
}

var errFlaky = errors.New("database is locked")

// flakyTable fails the next fails list calls, then defers to ItemTable.
type flakyTable struct {
	types.ItemTable
	fails int
}

func (f *flakyTable) ListByStatus(ctx context.Context, done bool) ([]types.Item, error) {
	if f.fails > 0 {
		f.fails--
		return nil, errFlaky
	}
	return f.ItemTable.ListByStatus(ctx, done)
}

func (f *fixture) model(t *testing.T, opts ...Option) Model {
	t.Helper()
	return settle(t, New(t.Context(), f.ctrl, opts...))
}

// settle completes every outstanding partition load through Update, the way
// the bubbletea runtime delivers load commands.
func settle(t *testing.T, m Model) Model {
	t.Helper()
	for _, p := range view.Partitions {
		var msg tea.Msg
		switch m.ctrl.State(p) {
		case view.Unloaded:
			msg = m.loadCmd(p)()
		case view.Loading:
			items, err := m.ctrl.Fetch(t.Context(), p)
			msg = partitionLoadedMsg{partition: p, token: m.ctrl.Token(), items: items, err: err}
		default:
			continue
		}
		m = update(t, m, msg)
	}
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	got, ok := next.(Model)
	require.True(t, ok)
	return got
}

func typeText(t *testing.T, m Model, s string) Model {
	return update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func press(t *testing.T, m Model, k tea.KeyType) Model {
	return settle(t, update(t, m, tea.KeyMsg{Type: k}))
}

func TestModel_InitialView(t *testing.T) {
	f := newFixture(t, view.RefreshFull)
	m := f.model(t)

	out := m.View()
	assert.Contains(t, out, "need to do?")
	assert.NotContains(t, out, pendingTitle, "empty partitions render nothing")
	assert.NotContains(t, out, completedTitle)
}

func TestModel_SubmitAddsPendingItem(t *testing.T) {
	for _, policy := range []view.RefreshPolicy{view.RefreshFull, view.RefreshIncremental} {
		t.Run(policy.String(), func(t *testing.T) {
			f := newFixture(t, policy)
			m := f.model(t)

			m = typeText(t, m, "buy milk")
			m = press(t, m, tea.KeyEnter)

			assert.Empty(t, m.input.Value(), "input cleared after submit")
			out := m.View()
			assert.Contains(t, out, pendingTitle)
			assert.Contains(t, out, "buy milk")
			assert.NotContains(t, out, completedTitle)

			stored, err := f.items.ListByStatus(t.Context(), false)
			require.NoError(t, err)
			require.Len(t, stored, 1)
			assert.Equal(t, "buy milk", stored[0].Value)
		})
	}
}

func TestModel_EmptySubmitIgnored(t *testing.T) {
	f := newFixture(t, view.RefreshFull)
	m := f.model(t)
	token := f.ctrl.Token()

	m = press(t, m, tea.KeyEnter)

	assert.Empty(t, m.status)
	assert.Equal(t, token, f.ctrl.Token())
}

func TestModel_QTypesIntoInput(t *testing.T) {
	f := newFixture(t, view.RefreshFull)
	m := f.model(t)

	m = typeText(t, m, "q")
	assert.Equal(t, "q", m.input.Value())
}

func TestModel_BuyMilkLifecycle(t *testing.T) {
	f := newFixture(t, view.RefreshFull)
	m := f.model(t)

	m = typeText(t, m, "buy milk")
	m = press(t, m, tea.KeyEnter)

	// Focus the pending list and complete the item.
	m = press(t, m, tea.KeyTab)
	require.Equal(t, focusPending, m.focus)
	m = press(t, m, tea.KeyEnter)

	out := m.View()
	assert.NotContains(t, out, pendingTitle)
	assert.Contains(t, out, completedTitle)
	assert.Contains(t, out, "buy milk")

	// Focus the completed list and delete it.
	m = press(t, m, tea.KeyTab)
	require.Equal(t, focusCompleted, m.focus)
	m = press(t, m, tea.KeyEnter)

	out = m.View()
	assert.NotContains(t, out, completedTitle)
	assert.NotContains(t, out, "buy milk")

	for _, done := range []bool{false, true} {
		list, err := f.items.ListByStatus(t.Context(), done)
		require.NoError(t, err)
		assert.Empty(t, list)
	}
}

func TestModel_CursorSelectsItem(t *testing.T) {
	f := newFixture(t, view.RefreshFull)
	for _, v := range []string{"first", "second", "third"} {
		_, err := f.items.Insert(t.Context(), v)
		require.NoError(t, err)
	}
	m := f.model(t)

	m = press(t, m, tea.KeyTab)
	m = press(t, m, tea.KeyDown)
	m = press(t, m, tea.KeyDown)
	m = press(t, m, tea.KeyDown) // clamped at the last row
	assert.Equal(t, 2, m.cursor[view.Pending])
	m = press(t, m, tea.KeyUp)

	target := f.ctrl.Items(view.Pending)[1]
	m = press(t, m, tea.KeyEnter)

	completed := f.ctrl.Items(view.Completed)
	require.Len(t, completed, 1)
	assert.Equal(t, target.ID, completed[0].ID)
	assert.Len(t, f.ctrl.Items(view.Pending), 2)
	assert.LessOrEqual(t, m.cursor[view.Pending], 1)
}

func TestModel_TabCyclesFocus(t *testing.T) {
	f := newFixture(t, view.RefreshFull)
	m := f.model(t)

	m = press(t, m, tea.KeyTab)
	assert.Equal(t, focusPending, m.focus)
	assert.False(t, m.input.Focused())

	m = press(t, m, tea.KeyTab)
	assert.Equal(t, focusCompleted, m.focus)

	m = press(t, m, tea.KeyTab)
	assert.Equal(t, focusInput, m.focus)
	assert.True(t, m.input.Focused())

	m = press(t, m, tea.KeyShiftTab)
	assert.Equal(t, focusCompleted, m.focus)
}

func TestModel_ExternalChangeReloads(t *testing.T) {
	f := newVersionedFixture(t, view.RefreshIncremental)
	m := f.model(t)

	_, err := f.otherWriter(t).Insert(t.Context(), "from elsewhere")
	require.NoError(t, err)
	assert.NotContains(t, m.View(), "from elsewhere")

	token := f.ctrl.Token()
	m = update(t, m, externalChangeMsg{})
	assert.Equal(t, token+1, f.ctrl.Token())
	m = settle(t, m)
	assert.Contains(t, m.View(), "from elsewhere")
}

func TestModel_OwnWriteKeepsIncrementalCache(t *testing.T) {
	f := newVersionedFixture(t, view.RefreshIncremental)
	m := f.model(t)

	m = typeText(t, m, "buy milk")
	m = press(t, m, tea.KeyEnter)
	require.Equal(t, view.Loaded, f.ctrl.State(view.Pending))
	token := f.ctrl.Token()

	// The watcher reports the screen's own commit.
	m = update(t, m, externalChangeMsg{})

	assert.Equal(t, token, f.ctrl.Token())
	assert.Equal(t, view.Loaded, f.ctrl.State(view.Pending))
	assert.Equal(t, view.Loaded, f.ctrl.State(view.Completed))
	assert.Contains(t, m.View(), "buy milk")
}

func TestModel_ChangeWithoutVersionReloads(t *testing.T) {
	f := newFixture(t, view.RefreshIncremental)
	m := f.model(t)

	_, err := f.items.Insert(t.Context(), "unversioned")
	require.NoError(t, err)

	m = settle(t, update(t, m, externalChangeMsg{}))
	assert.Contains(t, m.View(), "unversioned")
}

func TestModel_ClosedChangesStopsWaiting(t *testing.T) {
	f := newFixture(t, view.RefreshFull)
	changes := make(chan struct{})
	close(changes)
	m := f.model(t, WithChanges(changes))

	cmd := m.waitForChange()
	require.NotNil(t, cmd)
	assert.Nil(t, cmd())
}

func TestModel_FailedLoadRetriedOnKeyPress(t *testing.T) {
	f := newFixture(t, view.RefreshFull)
	_, err := f.items.Insert(t.Context(), "buy milk")
	require.NoError(t, err)

	ctrl := view.New(&flakyTable{ItemTable: f.items, fails: 1})
	m := New(t.Context(), ctrl)

	m = update(t, m, m.loadCmd(view.Pending)())
	assert.Contains(t, m.status, errFlaky.Error())
	assert.Equal(t, view.Unloaded, ctrl.State(view.Pending))

	m = typeText(t, m, "x")
	assert.Equal(t, view.Loading, ctrl.State(view.Pending))

	m = settle(t, m)
	assert.Equal(t, view.Loaded, ctrl.State(view.Pending))
	assert.Contains(t, m.View(), "buy milk")
}

func TestModel_StaleLoadRefetches(t *testing.T) {
	f := newFixture(t, view.RefreshFull)
	m := New(t.Context(), f.ctrl)

	stale := m.loadCmd(view.Pending)()
	f.ctrl.Invalidate()

	m = update(t, m, stale)
	assert.Equal(t, view.Loading, f.ctrl.State(view.Pending), "stale result triggers a fresh load")

	m = settle(t, m)
	assert.Equal(t, view.Loaded, f.ctrl.State(view.Pending))
}

func TestModel_StoreErrorShownInStatus(t *testing.T) {
	f := newFixture(t, view.RefreshFull)
	m := f.model(t)
	require.NoError(t, f.backend.Detach())

	m = typeText(t, m, "lost")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Contains(t, m.status, types.ErrStoreDetached.Error())
	assert.Contains(t, m.View(), types.ErrStoreDetached.Error())
}

func TestModel_Inert(t *testing.T) {
	f := newFixture(t, view.RefreshFull)
	m := New(t.Context(), f.ctrl, WithInert(true))

	assert.Nil(t, m.Init())

	out := m.View()
	assert.Contains(t, out, inertMessage)
	assert.NotContains(t, out, "need to do?")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestModel_CtrlCQuits(t *testing.T) {
	f := newFixture(t, view.RefreshFull)
	m := f.model(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}
