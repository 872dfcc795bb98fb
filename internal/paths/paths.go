// Package paths locates the todos configuration and data directories.
//
// Each directory resolves as: command-line flag, then environment
// variable, then the platform default. The data directory also honors the
// data_dir value from config.yaml between the environment and the default.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppDirName is the directory created under the platform base directories.
const AppDirName = "todos"

// Environment variables that override the platform defaults.
const (
	EnvConfigDir = "TODOS_CONFIG_DIR"
	EnvDataDir   = "TODOS_DATA_DIR"
)

// Overridden in tests.
var (
	goos          = runtime.GOOS
	homeDir       = os.UserHomeDir
	userConfigDir = os.UserConfigDir
)

// DefaultConfigDir returns the platform configuration directory.
//
//	Linux:   $XDG_CONFIG_HOME/todos, else ~/.config/todos
//	macOS:   ~/Library/Application Support/todos
//	Windows: %APPDATA%/todos
func DefaultConfigDir() (string, error) {
	return platformDir("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns the platform data directory.
//
//	Linux:   $XDG_DATA_HOME/todos, else ~/.local/share/todos
//	macOS and Windows: same as DefaultConfigDir
func DefaultDataDir() (string, error) {
	return platformDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

func platformDir(xdgEnv, homeRel string) (string, error) {
	if goos != "linux" {
		base, err := userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(base, AppDirName), nil
	}
	if xdg := os.Getenv(xdgEnv); xdg != "" {
		return filepath.Join(xdg, AppDirName), nil
	}
	home, err := homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, homeRel, AppDirName), nil
}

// ResolveConfigDir returns flag, else $TODOS_CONFIG_DIR, else
// DefaultConfigDir. Explicit values are made absolute.
func ResolveConfigDir(flag string) (string, error) {
	return firstAbs(DefaultConfigDir, flag, os.Getenv(EnvConfigDir))
}

// ResolveDataDir returns flag, else $TODOS_DATA_DIR, else configured
// (config.yaml data_dir), else DefaultDataDir. Explicit values are made
// absolute.
func ResolveDataDir(flag, configured string) (string, error) {
	return firstAbs(DefaultDataDir, flag, os.Getenv(EnvDataDir), configured)
}

func firstAbs(fallback func() (string, error), candidates ...string) (string, error) {
	for _, c := range candidates {
		if c != "" {
			return filepath.Abs(c)
		}
	}
	return fallback()
}
