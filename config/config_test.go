package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dsk.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.validate())
	lvl, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, lvl)
}

func TestLoadOverlaysDefault(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
resources_root = "/srv/assets"
log_level = "debug"
clear_color = [0.1, 0.2, 0.3, 1.0]

[window]
width = 1280
height = 720
`))
	require.NoError(t, err)

	assert.Equal(t, "/srv/assets", cfg.ResourcesRoot)
	assert.Equal(t, 1280, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height)
	assert.Equal(t, "dsk", cfg.Window.Title)
	assert.Equal(t, [4]float64{0.1, 0.2, 0.3, 1}, cfg.ClearColor)
	assert.Equal(t, Default().Shaders, cfg.Shaders)

	lvl, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeConfig(t, "unknown_key = 1\n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "[window]\nwidth = 0\n"))
	assert.ErrorContains(t, err, "must be positive")

	_, err = Load(writeConfig(t, "log_level = \"loud\"\n"))
	assert.ErrorContains(t, err, "log_level")

	_, err = Load(writeConfig(t, "[shaders]\nvertex = \"\"\n"))
	assert.ErrorContains(t, err, "shaders")
}
