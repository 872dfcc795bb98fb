package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/todos/internal/config"
)

type effectiveConfig struct {
	ConfigDir string          `json:"config_dir" yaml:"config_dir"`
	DataDir   string          `json:"data_dir" yaml:"data_dir"`
	Settings  config.Settings `json:"settings" yaml:"settings"`
}

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eff := effectiveConfig{
				ConfigDir: a.configDir,
				DataDir:   a.dataDir,
				Settings:  a.settings,
			}
			if a.flagJSON {
				return writeJSON(cmd, eff)
			}
			data, err := yaml.Marshal(&eff)
			if err != nil {
				return sysError(fmt.Errorf("marshal config: %w", err))
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
