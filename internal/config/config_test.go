package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.Render.Variables)
	assert.True(t, cfg.Render.Zones)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 200, cfg.Watch.DebounceMillis)
}

func TestLoad(t *testing.T) {
	t.Run("empty path returns defaults", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		data := "render:\n  variables: false\n  zones: true\nlogging:\n  level: debug\n"
		require.NoError(t, os.WriteFile(path, []byte(data), 0644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.False(t, cfg.Render.Variables)
		assert.True(t, cfg.Render.Zones)
		assert.Equal(t, "debug", cfg.Logging.Level)
		// Untouched settings keep their defaults.
		assert.Equal(t, 200, cfg.Watch.DebounceMillis)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("bad yaml is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("render: ["), 0644))
		_, err := Load(path)
		assert.Error(t, err)
	})
}
