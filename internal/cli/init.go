package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

type initResult struct {
	ConfigFile string `json:"config_file"`
	Written    bool   `json:"config_written"`
	Database   string `json:"database"`
	Inert      bool   `json:"inert"`
}

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration and storage",
		Long:  "Create the configuration directory and config.yaml if missing, then create the database and its schema.\nSafe to run more than once.",
		Args:  cobra.NoArgs,
		RunE:  a.runInit,
	}
}

func (a *app) runInit(cmd *cobra.Command, _ []string) error {
	if _, err := a.openItems(); err != nil {
		return err
	}

	res := initResult{
		ConfigFile: a.configPath(),
		Written:    a.configWritten,
		Database:   a.backend.DBPath(),
		Inert:      a.backend.Inert(),
	}
	if a.flagJSON {
		return writeJSON(cmd, res)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "config:   %s\n", res.ConfigFile)
	if res.Inert {
		fmt.Fprintln(out, "database: none (SQLite is not supported on this platform)")
	} else {
		fmt.Fprintf(out, "database: %s\n", res.Database)
	}
	fmt.Fprintln(out, "todos initialized")
	return nil
}
