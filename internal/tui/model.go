// Package tui is the interactive todos screen: a text input above the
// pending and completed lists.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/mesh-intelligence/todos/internal/view"
	"github.com/mesh-intelligence/todos/pkg/types"
)

const (
	placeholder    = "What do you need to do?"
	inertMessage   = "SQLite is not supported on this platform"
	pendingTitle   = "To Do"
	completedTitle = "Completed"
)

type focus int

const (
	focusInput focus = iota
	focusPending
	focusCompleted
)

func (f focus) partition() view.Partition {
	if f == focusCompleted {
		return view.Completed
	}
	return view.Pending
}

// partitionLoadedMsg carries the result of a partition fetch started under
// token.
type partitionLoadedMsg struct {
	partition view.Partition
	token     uint64
	items     []types.Item
	err       error
}

// externalChangeMsg reports that the database changed outside this screen.
type externalChangeMsg struct{}

// Model is the bubbletea model for the todos screen.
type Model struct {
	ctx     context.Context
	ctrl    *view.Controller
	inert   bool
	changes <-chan struct{}
	logger  *log.Logger

	input  textinput.Model
	help   help.Model
	keys   keyMap
	styles styles

	focus  focus
	cursor [2]int
	status string
}

// Option configures a Model.
type Option func(*Model)

// WithInert shows the unsupported-platform notice instead of the lists.
func WithInert(inert bool) Option {
	return func(m *Model) { m.inert = inert }
}

// WithChanges checks the store for outside writes whenever changes delivers
// a value and reloads the lists when it finds one.
func WithChanges(changes <-chan struct{}) Option {
	return func(m *Model) { m.changes = changes }
}

// WithLogger sets the logger for store errors.
func WithLogger(l *log.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

// New creates the screen model. ctx is passed to every store call.
func New(ctx context.Context, ctrl *view.Controller, opts ...Option) Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "> "
	ti.Focus()

	m := Model{
		ctx:    ctx,
		ctrl:   ctrl,
		logger: log.New(io.Discard),
		input:  ti,
		help:   help.New(),
		keys:   defaultKeyMap(),
		styles: defaultStyles(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.inert {
		return nil
	}
	return tea.Batch(textinput.Blink, m.loadCmds(), m.waitForChange())
}

// loadCmds starts a fetch for every unloaded partition.
func (m Model) loadCmds() tea.Cmd {
	var cmds []tea.Cmd
	for _, p := range view.Partitions {
		if cmd := m.loadCmd(p); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

func (m Model) loadCmd(p view.Partition) tea.Cmd {
	if !m.ctrl.NeedsLoad(p) {
		return nil
	}
	token := m.ctrl.BeginLoad(p)
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		items, err := ctrl.Fetch(ctx, p)
		return partitionLoadedMsg{partition: p, token: token, items: items, err: err}
	}
}

func (m Model) waitForChange() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	changes := m.changes
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return externalChangeMsg{}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		m.input.Width = msg.Width - len(m.input.Prompt) - 1
		return m, nil

	case partitionLoadedMsg:
		if !m.ctrl.CompleteLoad(msg.partition, msg.token, msg.items, msg.err) {
			return m, m.loadCmds()
		}
		if msg.err != nil {
			m.setError(msg.err)
		}
		m.clampCursors()
		return m, nil

	case externalChangeMsg:
		changed, err := m.ctrl.ExternalChange(m.ctx)
		if err != nil {
			m.logger.Warn("store version check failed", "err", err)
		}
		if !changed {
			return m, m.waitForChange()
		}
		return m, tea.Batch(m.loadCmds(), m.waitForChange())

	case tea.KeyMsg:
		next, cmd := m.handleKey(msg)
		nm, ok := next.(Model)
		if !ok || nm.inert {
			return next, cmd
		}
		// Retry partitions left unloaded by a failed fetch.
		return nm, tea.Batch(cmd, nm.loadCmds())
	}

	if m.focus == focusInput && !m.inert {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.inert {
		if key.Matches(msg, m.keys.Quit) || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Next):
		return m.setFocus((m.focus + 1) % 3)
	case key.Matches(msg, m.keys.Prev):
		return m.setFocus((m.focus + 2) % 3)
	}

	if m.focus == focusInput {
		if key.Matches(msg, m.keys.Submit) {
			return m.submit()
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	p := m.focus.partition()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor[p] > 0 {
			m.cursor[p]--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor[p] < len(m.ctrl.Items(p))-1 {
			m.cursor[p]++
		}
	case key.Matches(msg, m.keys.Toggle):
		return m.actOnSelected(p)
	}
	return m, nil
}

func (m Model) setFocus(f focus) (tea.Model, tea.Cmd) {
	m.focus = f
	if f == focusInput {
		return m, m.input.Focus()
	}
	m.input.Blur()
	return m, nil
}

// submit inserts the input text. The input is cleared either way and empty
// text is ignored without a message.
func (m Model) submit() (tea.Model, tea.Cmd) {
	text := m.input.Value()
	m.input.Reset()

	if _, err := m.ctrl.Submit(m.ctx, text); err != nil {
		if errors.Is(err, types.ErrEmptyValue) {
			return m, nil
		}
		m.setError(err)
		return m, nil
	}
	m.status = ""
	return m, m.loadCmds()
}

// actOnSelected marks a pending item done or deletes a completed one.
func (m Model) actOnSelected(p view.Partition) (tea.Model, tea.Cmd) {
	items := m.ctrl.Items(p)
	if len(items) == 0 {
		return m, nil
	}
	item := items[min(m.cursor[p], len(items)-1)]

	var err error
	if p == view.Pending {
		err = m.ctrl.MarkDone(m.ctx, item.ID)
	} else {
		err = m.ctrl.Delete(m.ctx, item.ID)
	}
	if err != nil {
		m.setError(err)
		return m, nil
	}
	m.status = ""
	m.clampCursors()
	return m, m.loadCmds()
}

func (m *Model) setError(err error) {
	m.logger.Error("store error", "err", err)
	m.status = err.Error()
}

func (m *Model) clampCursors() {
	for _, p := range view.Partitions {
		items := m.ctrl.Items(p)
		if items == nil {
			continue
		}
		m.cursor[p] = max(0, min(m.cursor[p], len(items)-1))
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	if m.inert {
		b.WriteString(m.styles.notice.Render(inertMessage))
		b.WriteString("\n\n")
		b.WriteString(m.help.View(m.keys))
		return b.String()
	}

	b.WriteString(m.input.View())
	b.WriteString("\n")

	m.renderPartition(&b, view.Pending, pendingTitle, m.styles.pending, focusPending)
	m.renderPartition(&b, view.Completed, completedTitle, m.styles.completed, focusCompleted)

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.status.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.focus == focusInput {
		b.WriteString(m.help.View(inputKeys{m.keys}))
	} else {
		b.WriteString(m.help.View(m.keys))
	}
	return b.String()
}

// renderPartition writes the heading and rows of p. Nothing is written while
// p is unloaded or empty.
func (m Model) renderPartition(b *strings.Builder, p view.Partition, title string, style lipgloss.Style, f focus) {
	items := m.ctrl.Items(p)
	if len(items) == 0 {
		return
	}

	b.WriteString(m.styles.heading.Render(title))
	b.WriteString("\n")
	for i, it := range items {
		prefix := "  "
		if m.focus == f && i == m.cursor[p] {
			prefix = m.styles.cursor.Render("> ")
		}
		fmt.Fprintf(b, "%s%s\n", prefix, style.Render(it.Value))
	}
}
