package paths

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePlatform pins the platform lookups for one test.
func fakePlatform(t *testing.T, os, home, config string) {
	t.Helper()
	origGOOS, origHome, origConfig := goos, homeDir, userConfigDir
	t.Cleanup(func() { goos, homeDir, userConfigDir = origGOOS, origHome, origConfig })

	goos = os
	homeDir = func() (string, error) { return home, nil }
	userConfigDir = func() (string, error) { return config, nil }
}

func TestDefaultDirs_Linux(t *testing.T) {
	fakePlatform(t, "linux", "/home/u", "/unused")

	t.Run("XDG set", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
		t.Setenv("XDG_DATA_HOME", "/xdg/data")

		got, err := DefaultConfigDir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("/xdg/config", "todos"), got)

		got, err = DefaultDataDir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("/xdg/data", "todos"), got)
	})

	t.Run("XDG unset", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		t.Setenv("XDG_DATA_HOME", "")

		got, err := DefaultConfigDir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("/home/u", ".config", "todos"), got)

		got, err = DefaultDataDir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("/home/u", ".local", "share", "todos"), got)
	})
}

func TestDefaultDirs_OtherPlatforms(t *testing.T) {
	for _, goos := range []string{"darwin", "windows"} {
		t.Run(goos, func(t *testing.T) {
			fakePlatform(t, goos, "/unused", "/app/support")

			cfg, err := DefaultConfigDir()
			require.NoError(t, err)
			data, err := DefaultDataDir()
			require.NoError(t, err)

			assert.Equal(t, filepath.Join("/app/support", "todos"), cfg)
			assert.Equal(t, cfg, data)
		})
	}
}

func TestDefaultDirs_HomeError(t *testing.T) {
	fakePlatform(t, "linux", "", "")
	homeDir = func() (string, error) { return "", errors.New("no home") }
	t.Setenv("XDG_CONFIG_HOME", "")

	_, err := DefaultConfigDir()
	assert.Error(t, err)
}

func TestResolveConfigDir(t *testing.T) {
	fakePlatform(t, "linux", "/home/u", "/unused")
	t.Setenv("XDG_CONFIG_HOME", "")

	tests := []struct {
		name string
		flag string
		env  string
		want string
	}{
		{"flag wins", "/from/flag", "/from/env", "/from/flag"},
		{"env over default", "", "/from/env", "/from/env"},
		{"platform default", "", "", filepath.Join("/home/u", ".config", "todos")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvConfigDir, tt.env)
			got, err := ResolveConfigDir(tt.flag)
			require.NoError(t, err)
			assert.Equal(t, filepath.FromSlash(tt.want), got)
		})
	}
}

func TestResolveDataDir(t *testing.T) {
	fakePlatform(t, "linux", "/home/u", "/unused")
	t.Setenv("XDG_DATA_HOME", "")

	tests := []struct {
		name       string
		flag       string
		configured string
		env        string
		want       string
	}{
		{"flag wins", "/flag", "/yaml", "/env", "/flag"},
		{"env over config", "", "/yaml", "/env", "/env"},
		{"config over default", "", "/yaml", "", "/yaml"},
		{"platform default", "", "", "", filepath.Join("/home/u", ".local", "share", "todos")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvDataDir, tt.env)
			got, err := ResolveDataDir(tt.flag, tt.configured)
			require.NoError(t, err)
			assert.Equal(t, filepath.FromSlash(tt.want), got)
		})
	}
}

func TestResolveDataDir_RelativeMadeAbsolute(t *testing.T) {
	t.Setenv(EnvDataDir, "")
	got, err := ResolveDataDir("rel/data", "")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
	assert.Equal(t, "data", filepath.Base(got))
}
