package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, 1000, cfg.Catalog.PageSize)
	assert.Equal(t, "geojson", cfg.Network.Format)
	assert.Equal(t, "name", cfg.Network.NameField)
	assert.InDelta(t, 41.881898, cfg.Grid.BaselineLat, 1e-9)
	assert.InDelta(t, -87.627734, cfg.Grid.BaselineLng, 1e-9)
	assert.Equal(t, 15000, cfg.Grid.MaxAddr)
	assert.Equal(t, 4, cfg.Resolve.Concurrency)
	assert.Equal(t, 500, cfg.Resolve.BatchSize)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("SWEEP_RESOLVE_CONCURRENCY", "16")
	t.Setenv("SWEEP_NETWORK_FORMAT", "shapefile")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.Resolve.Concurrency)
	assert.Equal(t, "shapefile", cfg.Network.Format)
}

func TestInitLoggerBadLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "loud", Format: "json"})
	assert.Error(t, err)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
}
