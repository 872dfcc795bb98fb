package cli

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/todos/internal/logging"
	"github.com/mesh-intelligence/todos/internal/sqlite"
	"github.com/mesh-intelligence/todos/internal/tui"
	"github.com/mesh-intelligence/todos/internal/view"
	"github.com/mesh-intelligence/todos/internal/watch"
)

// logFileName is written in the data directory while the screen runs.
const logFileName = "todos.log"

// runScreen launches the interactive screen.
func (a *app) runScreen(cmd *cobra.Command, _ []string) error {
	policy, err := view.ParseRefreshPolicy(a.settings.Refresh)
	if err != nil {
		return userError(err)
	}

	// The screen owns the terminal, so logs go to a file or nowhere.
	logOpts := logging.Options{
		Level:  a.settings.Log.Level,
		Format: a.settings.Log.Format,
		Prefix: "todos",
		Writer: io.Discard,
	}
	if a.settings.Log.File {
		logOpts.File = filepath.Join(a.dataDir, logFileName)
	}
	if err := a.setLogger(logOpts); err != nil {
		return err
	}

	items, err := a.openItems()
	if err != nil {
		return err
	}

	ctrl := view.New(items,
		view.WithPolicy(policy),
		view.WithLogger(a.logger),
		view.WithVersion(a.backend.DataVersion),
	)
	if err := ctrl.SyncVersion(cmd.Context()); err != nil {
		a.logger.Warn("store version unavailable", "err", err)
	}
	opts := []tui.Option{
		tui.WithInert(a.backend.Inert()),
		tui.WithLogger(a.logger),
	}

	if a.settings.Watch && !a.backend.Inert() {
		w, err := watch.New(a.dataDir,
			watch.WithFilter(func(name string) bool { return strings.HasPrefix(name, sqlite.DBFileName) }),
			watch.WithLogger(a.logger),
		)
		if err != nil {
			a.logger.Warn("file watcher disabled", "err", err)
		} else {
			defer w.Close()
			opts = append(opts, tui.WithChanges(w.Events()))
		}
	}

	tui.ConfigureColor(a.settings.Color)
	a.logger.Info("screen started", "data_dir", a.dataDir, "refresh", policy)

	if err := a.runTUI(cmd.Context(), ctrl, opts...); err != nil {
		return sysError(err)
	}
	return nil
}
