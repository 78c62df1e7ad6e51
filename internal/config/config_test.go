package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NikBel3476/evacuation-gui-iced/pkg/bim"
	"github.com/NikBel3476/evacuation-gui-iced/pkg/geo"
	"github.com/NikBel3476/evacuation-gui-iced/pkg/occupants"
)

func TestDefault(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 900.0, cfg.ViewportSize().Width)
	assert.Equal(t, 900.0, cfg.ViewportSize().Height)
	assert.Equal(t, 10_000, cfg.Sampling.MaxAttempts)
	assert.Equal(t, 100_000, cfg.Sampling.MaxOccupants)
	assert.Equal(t, 10_000, cfg.AdjustOptions().MaxIterations)
	assert.Equal(t, 1.0, cfg.AdjustOptions().Step)
}

func TestLoadYAML(t *testing.T) {
	cfg, err := Load("testdata/evacview.yaml")
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 1280.0, cfg.Viewport.Width)
	assert.Equal(t, 720.0, cfg.Viewport.Height)
	assert.Equal(t, 500, cfg.Camera.MaxIterations)
	assert.Equal(t, uint64(42), cfg.Sampling.Seed)
	// Keys missing from the file keep their defaults.
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 1.0, cfg.Camera.ScaleStep)
}

func TestEnvOverridesYAML(t *testing.T) {
	t.Setenv("EVACVIEW_HTTP_ADDR", ":7000")
	t.Setenv("EVACVIEW_VIEWPORT_WIDTH", "640")
	t.Setenv("EVACVIEW_SAMPLING_MAX_ATTEMPTS", "25")

	cfg, err := Load("testdata/evacview.yaml")
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.HTTPAddr)
	assert.Equal(t, 640.0, cfg.Viewport.Width)
	assert.Equal(t, 720.0, cfg.Viewport.Height)
	assert.Equal(t, 25, cfg.Sampling.MaxAttempts)
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv("EVACVIEW_VIEWPORT_HEIGHT", "0")
	_, err := Load("")
	assert.Error(t, err)
}

func TestLoadRejectsUnknownLogLevel(t *testing.T) {
	t.Setenv("EVACVIEW_LOG_LEVEL", "loud")
	_, err := Load("")
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("testdata/missing.yaml")
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("EVACVIEW_LOG_FORMAT=console\n"), 0o600))
	t.Setenv("EVACVIEW_LOG_FORMAT", "")
	os.Unsetenv("EVACVIEW_LOG_FORMAT")

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env"), path))
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "console", cfg.LogFormat)
}

func TestNewGeneratorIsSeeded(t *testing.T) {
	cfg := Default()
	cfg.Sampling.Seed = 7
	room := bim.BuildingElement{ID: "r", XY: []bim.Ring{{Points: []geo.Point{
		geo.Pt(0, 0), geo.Pt(8, 0), geo.Pt(8, 6), geo.Pt(0, 6), geo.Pt(0, 0),
	}}}}

	a, err := cfg.NewGenerator(nil).Generate(room, 5)
	require.NoError(t, err)
	b, err := cfg.NewGenerator(nil).Generate(room, 5)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestNewGeneratorHonoursMaxOccupants(t *testing.T) {
	cfg := Default()
	cfg.Sampling.Seed = 7
	cfg.Sampling.MaxOccupants = 3
	room := bim.BuildingElement{ID: "r", XY: []bim.Ring{{Points: []geo.Point{
		geo.Pt(0, 0), geo.Pt(8, 0), geo.Pt(8, 6), geo.Pt(0, 6), geo.Pt(0, 0),
	}}}}

	pts, err := cfg.NewGenerator(nil).Generate(room, 3.9)
	require.NoError(t, err)
	assert.Len(t, pts, 3)
	_, err = cfg.NewGenerator(nil).Generate(room, 4)
	assert.ErrorIs(t, err, occupants.ErrInvalidDensity)
}
