// Package cli implements the todos command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/todos/internal/config"
	"github.com/mesh-intelligence/todos/internal/logging"
	"github.com/mesh-intelligence/todos/internal/paths"
	"github.com/mesh-intelligence/todos/internal/sqlite"
	"github.com/mesh-intelligence/todos/internal/tui"
	"github.com/mesh-intelligence/todos/internal/view"
	"github.com/mesh-intelligence/todos/pkg/todos"
	"github.com/mesh-intelligence/todos/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// exitError carries the process exit code for err.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userError(err error) error { return &exitError{code: exitUserError, err: err} }
func sysError(err error) error  { return &exitError{code: exitSysError, err: err} }

// exitCode maps an error returned by the root command to a process exit
// code. Errors without an explicit code are usage errors from cobra.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUserError
}

// app holds global flag values and the resources shared by subcommands for
// one invocation.
type app struct {
	flagConfigDir string
	flagDataDir   string
	flagJSON      bool
	flagLogLevel  string

	configDir     string
	dataDir       string
	settings      config.Settings
	configWritten bool

	logger    *log.Logger
	logCloser io.Closer
	backend   *sqlite.Backend

	// prompt asks for item text when add gets no arguments.
	prompt func(ctx context.Context) (string, error)
	// runTUI shows the interactive screen.
	runTUI func(ctx context.Context, ctrl *view.Controller, opts ...tui.Option) error
}

func newApp() *app {
	return &app{
		logger: log.New(io.Discard),
		prompt: promptItem,
		runTUI: tui.Run,
	}
}

// NewRootCmd creates the top-level "todos" command with global flags and all
// subcommands registered.
func NewRootCmd() *cobra.Command {
	return newRootCmd(newApp())
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "todos",
		Short: "A minimal to-do list backed by SQLite",
		Long: "todos keeps a list of things to do in a local SQLite database.\n" +
			"Run without arguments for the interactive screen.",
		Version:           todos.Version,
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE:              a.runScreen,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flagConfigDir, "config-dir", "", "configuration directory (env "+paths.EnvConfigDir+")")
	pf.StringVar(&a.flagDataDir, "data-dir", "", "data directory (env "+paths.EnvDataDir+")")
	pf.BoolVar(&a.flagJSON, "json", false, "output in JSON format")
	pf.StringVar(&a.flagLogLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newInitCmd(a),
		newAddCmd(a),
		newDoneCmd(a),
		newRmCmd(a),
		newLsCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	a := newApp()
	root := newRootCmd(a)
	err := root.ExecuteContext(ctx)
	a.close()
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "todos: %s\n", err)
	}
	os.Exit(exitCode(err))
}

// setup resolves directories, writes a default config.yaml on first run,
// loads settings and builds the command logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	configDir, err := paths.ResolveConfigDir(a.flagConfigDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	a.configDir = configDir

	written, err := config.WriteDefault(a.configPath(), config.Defaults())
	if err != nil {
		return sysError(err)
	}
	a.configWritten = written

	settings, err := config.Load(configDir)
	if err != nil {
		return sysError(err)
	}
	if a.flagLogLevel != "" {
		settings.Log.Level = a.flagLogLevel
	}
	a.settings = settings

	dataDir, err := paths.ResolveDataDir(a.flagDataDir, settings.DataDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve data dir: %w", err))
	}
	a.dataDir = dataDir

	return a.setLogger(logging.Options{
		Level:  settings.Log.Level,
		Format: settings.Log.Format,
		Prefix: "todos",
		Writer: cmd.ErrOrStderr(),
	})
}

func (a *app) configPath() string {
	return filepath.Join(a.configDir, config.FileName)
}

func (a *app) setLogger(opts logging.Options) error {
	logger, closer, err := logging.New(opts)
	if err != nil {
		return sysError(fmt.Errorf("open log: %w", err))
	}
	if a.logCloser != nil {
		a.logCloser.Close()
	}
	a.logger, a.logCloser = logger, closer
	return nil
}

// openItems attaches the store and returns its item table. The store stays
// attached until close.
func (a *app) openItems() (types.ItemTable, error) {
	if a.backend == nil {
		b := sqlite.NewBackend(sqlite.WithLogger(a.logger))
		if err := b.Attach(a.settings.StoreConfig(a.dataDir)); err != nil {
			if errors.Is(err, types.ErrBackendUnknown) || errors.Is(err, types.ErrDriverUnknown) || errors.Is(err, types.ErrBackendEmpty) {
				return nil, userError(fmt.Errorf("invalid store config: %w", err))
			}
			return nil, sysError(fmt.Errorf("attach store: %w", err))
		}
		a.backend = b
	}
	items, err := a.backend.Items()
	if err != nil {
		return nil, sysError(err)
	}
	return items, nil
}

// close detaches the store and releases the log file.
func (a *app) close() {
	if a.backend != nil {
		if err := a.backend.Detach(); err != nil {
			a.logger.Error("detach store", "err", err)
		}
		a.backend = nil
	}
	if a.logCloser != nil {
		a.logCloser.Close()
		a.logCloser = nil
	}
}
