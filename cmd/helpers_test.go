package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ticketless-chicago/sweep-cli/internal/config"
	"github.com/ticketless-chicago/sweep-cli/internal/geometry"
)

const helperGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"name": "North Elston Avenue"},
      "geometry": {
        "type": "LineString",
        "coordinates": [[-87.6628, 41.9101], [-87.6612, 41.9112]]
      }
    }
  ]
}`

func writeNetworkFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "network.geojson")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadNetworkGeoJSON(t *testing.T) {
	path := writeNetworkFile(t, helperGeoJSON)

	segments, err := loadNetwork(config.NetworkConfig{Path: path, Format: "geojson"})
	require.NoError(t, err)
	require.Len(t, segments, 1)
	assert.Equal(t, "North Elston Avenue", segments[0].Name)
}

func TestLoadNetworkDefaultsToGeoJSON(t *testing.T) {
	path := writeNetworkFile(t, helperGeoJSON)

	segments, err := loadNetwork(config.NetworkConfig{Path: path})
	require.NoError(t, err)
	assert.Len(t, segments, 1)
}

func TestLoadNetworkMissingPath(t *testing.T) {
	_, err := loadNetwork(config.NetworkConfig{})
	assert.Error(t, err)
}

func TestLoadNetworkUnknownFormat(t *testing.T) {
	_, err := loadNetwork(config.NetworkConfig{Path: "network.kml", Format: "kml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown network format")
}

func TestGridFromConfigDefaults(t *testing.T) {
	assert.Equal(t, geometry.ChicagoGrid(), gridFromConfig(config.GridConfig{}))
}

func TestGridFromConfigOverrides(t *testing.T) {
	grid := gridFromConfig(config.GridConfig{BaselineLat: 40.0, MaxAddr: 9000})
	assert.InDelta(t, 40.0, grid.BaselineLat, 1e-9)
	assert.Equal(t, 9000, grid.MaxAddr)
	// Unset knobs keep the Chicago defaults.
	assert.InDelta(t, geometry.ChicagoGrid().BaselineLng, grid.BaselineLng, 1e-9)
	assert.InDelta(t, geometry.ChicagoGrid().LatDegPerUnit, grid.LatDegPerUnit, 1e-12)
}

func TestCatalogURLExplicit(t *testing.T) {
	c := &config.Config{}
	c.Catalog.DatabaseURL = "postgres://localhost/catalog"

	got, err := catalogURL(c)
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/catalog", got)
}

func TestCatalogURLFallsBackToPostgresStore(t *testing.T) {
	c := &config.Config{}
	c.Store.Driver = "postgres"
	c.Store.DatabaseURL = "postgres://localhost/sweep"

	got, err := catalogURL(c)
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/sweep", got)
}

func TestCatalogURLRejectsSQLiteStore(t *testing.T) {
	// A sqlite store URL is no use as a catalog source.
	c := &config.Config{}
	c.Store.Driver = "sqlite"
	c.Store.DatabaseURL = "sweep.db"

	_, err := catalogURL(c)
	assert.Error(t, err)
}
