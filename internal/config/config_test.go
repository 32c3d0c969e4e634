package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chtemp(t *testing.T) {
	t.Helper()
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(origDir) })
}

func TestLoadDefaults(t *testing.T) {
	chtemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "data", cfg.Data.Dir)
	assert.Equal(t, "transect_points.csv", cfg.Data.TransectPoints)
	assert.Equal(t, "stream_vertices.csv", cfg.Data.StreamVertices)
	assert.Equal(t, "transects.geojson", cfg.Data.TransectsGeoJSON)
	assert.Equal(t, "files", cfg.Store.Driver)
	assert.Equal(t, "https://tile.openstreetmap.org/{z}/{x}/{y}.png", cfg.Tiles.BaseURL)
	assert.Contains(t, cfg.Tiles.SatelliteURL, "{token}")
	assert.NotContains(t, cfg.Tiles.SatelliteFallbackURL, "{token}")
	assert.Empty(t, cfg.Tiles.SatelliteToken)
	assert.Equal(t, 512, cfg.Tiles.CacheEntries)
	assert.Equal(t, 60, cfg.Tiles.CacheTTLMins)
	assert.InDelta(t, 8.0, cfg.Tiles.UpstreamRPS, 0.001)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	chtemp(t)

	yaml := `
store:
  driver: sqlite
  path: /tmp/snap.db
server:
  port: 9999
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile("config.yaml", []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "/tmp/snap.db", cfg.Store.Path)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Untouched keys keep their defaults.
	assert.Equal(t, "data", cfg.Data.Dir)
}

func TestLoadFromEnv(t *testing.T) {
	chtemp(t)

	t.Setenv("STREAMVIZ_SERVER_PORT", "3001")
	t.Setenv("STREAMVIZ_TILES_SATELLITE_TOKEN", "env-token")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3001, cfg.Server.Port)
	assert.Equal(t, "env-token", cfg.Tiles.SatelliteToken)
}

func TestSatelliteTokenFromProviderEnv(t *testing.T) {
	chtemp(t)

	t.Setenv("MAPTILER_TOKEN", "provider-token")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "provider-token", cfg.Tiles.SatelliteToken)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.NotNil(t, zap.L())

	assert.Error(t, InitLogger(LogConfig{Level: "not-a-level", Format: "json"}))
}
