// Package config loads todos settings from config.yaml and TODOS_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/todos/pkg/types"
)

const (
	configName = "config"
	configType = "yaml"

	// FileName is the configuration file inside the config directory.
	FileName = configName + "." + configType

	// EnvPrefix prefixes environment overrides, e.g. TODOS_REFRESH or
	// TODOS_LOG_LEVEL.
	EnvPrefix = "TODOS"
)

// Keys in config.yaml.
const (
	KeyBackend   = "backend"
	KeyDriver    = "driver"
	KeyDataDir   = "data_dir"
	KeyRefresh   = "refresh"
	KeyWatch     = "watch"
	KeyColor     = "color"
	KeyLogLevel  = "log.level"
	KeyLogFormat = "log.format"
	KeyLogFile   = "log.file"
)

// Color modes.
const (
	ColorAuto  = "auto"
	ColorNever = "never"
)

// Settings is the effective configuration.
type Settings struct {
	Backend string      `mapstructure:"backend" yaml:"backend" json:"backend"`
	Driver  string      `mapstructure:"driver" yaml:"driver" json:"driver"`
	DataDir string      `mapstructure:"data_dir" yaml:"data_dir,omitempty" json:"data_dir,omitempty"`
	Refresh string      `mapstructure:"refresh" yaml:"refresh" json:"refresh"`
	Watch   bool        `mapstructure:"watch" yaml:"watch" json:"watch"`
	Color   string      `mapstructure:"color" yaml:"color" json:"color"`
	Log     LogSettings `mapstructure:"log" yaml:"log" json:"log"`
}

// LogSettings configures the logger. File sends TUI logs to todos.log in
// the data directory.
type LogSettings struct {
	Level  string `mapstructure:"level" yaml:"level" json:"level"`
	Format string `mapstructure:"format" yaml:"format" json:"format"`
	File   bool   `mapstructure:"file" yaml:"file" json:"file"`
}

// Defaults returns the settings used when neither config.yaml nor the
// environment sets a key.
func Defaults() Settings {
	return Settings{
		Backend: types.BackendSQLite,
		Driver:  types.DefaultDriver,
		Refresh: "full",
		Watch:   true,
		Color:   ColorAuto,
		Log: LogSettings{
			Level:  "warn",
			Format: "text",
			File:   true,
		},
	}
}

// StoreConfig returns the store configuration for dataDir.
func (s Settings) StoreConfig(dataDir string) types.Config {
	return types.Config{
		Backend: s.Backend,
		Driver:  s.Driver,
		DataDir: dataDir,
	}
}

// Load reads config.yaml from configDir and applies TODOS_* environment
// overrides. A missing config.yaml is not an error.
func Load(configDir string) (Settings, error) {
	v := viper.New()

	d := Defaults()
	v.SetDefault(KeyBackend, d.Backend)
	v.SetDefault(KeyDriver, d.Driver)
	v.SetDefault(KeyDataDir, d.DataDir)
	v.SetDefault(KeyRefresh, d.Refresh)
	v.SetDefault(KeyWatch, d.Watch)
	v.SetDefault(KeyColor, d.Color)
	v.SetDefault(KeyLogLevel, d.Log.Level)
	v.SetDefault(KeyLogFormat, d.Log.Format)
	v.SetDefault(KeyLogFile, d.Log.File)

	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(configDir)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("read config: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("decode config: %w", err)
	}
	return s, nil
}

// header is written above the generated YAML.
const header = `# todos configuration
#
# backend:  sqlite | inert
# driver:   modernc | ncruces
# refresh:  full | incremental
# color:    auto | never
# Every key can be overridden with TODOS_<KEY>, e.g. TODOS_LOG_LEVEL=debug.

`

// WriteDefault writes s to path unless the file already exists. It reports
// whether a file was written.
func WriteDefault(path string, s Settings) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(&s)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, append([]byte(header), data...), 0o644); err != nil {
		return false, fmt.Errorf("write config: %w", err)
	}
	return true, nil
}
