package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data/hfd_shape.json", cfg.Topology.Path)
	assert.Equal(t, "hfd_shape", cfg.Topology.Object)
	assert.Equal(t, "data/hfd_display.csv", cfg.Data.Path)
	assert.Empty(t, cfg.Data.Metric)
	assert.Equal(t, []float64{0.1, 0.2, 0.3, 0.4, 0.5}, cfg.Scale.Thresholds)
	assert.Empty(t, cfg.Scale.Colors)
	assert.Equal(t, "#f2f0f7", cfg.Scale.From)
	assert.Equal(t, "#54278f", cfg.Scale.To)
	assert.Equal(t, "vector", cfg.Map.Backend)
	assert.InDelta(t, 1.0, cfg.Map.Zoom, 0.001)
	assert.Equal(t, "https://tile.openstreetmap.org", cfg.Tiles.URL)
	assert.Equal(t, 256, cfg.Tiles.CacheEntries)
	assert.Equal(t, 4, cfg.Tiles.Concurrency)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "choromap.log", cfg.Log.File)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
topology:
  path: shapes/city.json
  object: city
map:
  backend: tiles
scale:
  thresholds: [0.25, 0.5]
  colors: ["#eeeeee", "#888888", "#222222"]
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "choromap.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "shapes/city.json", cfg.Topology.Path)
	assert.Equal(t, "city", cfg.Topology.Object)
	assert.Equal(t, "tiles", cfg.Map.Backend)
	assert.Equal(t, []float64{0.25, 0.5}, cfg.Scale.Thresholds)
	assert.Equal(t, []string{"#eeeeee", "#888888", "#222222"}, cfg.Scale.Colors)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Defaults still apply for unset values
	assert.Equal(t, "png", cfg.Tiles.Format)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv("CHOROMAP_MAP_BACKEND", "tiles")
	t.Setenv("CHOROMAP_DATA_METRIC", "poverty")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "tiles", cfg.Map.Backend)
	assert.Equal(t, "poverty", cfg.Data.Metric)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	chdirTemp(t)
	t.Setenv("CHOROMAP_MAP_BACKEND", "svg")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "map.backend")
}

func TestValidateColorCount(t *testing.T) {
	cfg := Config{
		Topology: TopologyConfig{Object: "hfd_shape"},
		Map:      MapConfig{Backend: "vector", Zoom: 1},
		Scale:    ScaleConfig{Thresholds: []float64{0.5}, Colors: []string{"#ffffff"}},
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scale.colors")
}

func TestValidateResetsZoom(t *testing.T) {
	cfg := Config{
		Topology: TopologyConfig{Object: "hfd_shape"},
		Map:      MapConfig{Backend: "vector"},
	}
	require.NoError(t, cfg.Validate())
	assert.InDelta(t, 1.0, cfg.Map.Zoom, 0.001)
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console", File: "-"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	err := InitLogger(LogConfig{Level: "info", Format: "json", File: path})
	require.NoError(t, err)

	zap.L().Info("hello", zap.String("k", "v"))
	_ = zap.L().Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"k":"v"`)
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json", File: "-"})
	assert.Error(t, err)
}
