package main

import (
	"github.com/rotisserie/eris"

	"github.com/ticketless-chicago/sweep-cli/internal/config"
	"github.com/ticketless-chicago/sweep-cli/internal/geometry"
	"github.com/ticketless-chicago/sweep-cli/internal/network"
)

// loadNetwork reads the street-network dataset in the configured format.
func loadNetwork(nc config.NetworkConfig) ([]network.RawSegment, error) {
	if nc.Path == "" {
		return nil, eris.New("network dataset path is not configured")
	}
	switch nc.Format {
	case "geojson", "":
		return network.LoadGeoJSON(nc.Path, nc.NameField)
	case "shapefile":
		return network.LoadShapefile(nc.Path, nc.NameField)
	default:
		return nil, eris.Errorf("unknown network format %q", nc.Format)
	}
}

// gridFromConfig builds the grid constants, falling back to the Chicago
// defaults for any unset value.
func gridFromConfig(gc config.GridConfig) geometry.Grid {
	grid := geometry.ChicagoGrid()
	if gc.BaselineLat != 0 {
		grid.BaselineLat = gc.BaselineLat
	}
	if gc.BaselineLng != 0 {
		grid.BaselineLng = gc.BaselineLng
	}
	if gc.LatDegPerUnit != 0 {
		grid.LatDegPerUnit = gc.LatDegPerUnit
	}
	if gc.LngDegPerUnit != 0 {
		grid.LngDegPerUnit = gc.LngDegPerUnit
	}
	if gc.MaxAddr != 0 {
		grid.MaxAddr = gc.MaxAddr
	}
	return grid
}

// catalogURL picks the catalog connection string: its own setting, or the
// store URL when the store is already Postgres.
func catalogURL(cfg *config.Config) (string, error) {
	if cfg.Catalog.DatabaseURL != "" {
		return cfg.Catalog.DatabaseURL, nil
	}
	if cfg.Store.Driver == "postgres" && cfg.Store.DatabaseURL != "" {
		return cfg.Store.DatabaseURL, nil
	}
	return "", eris.New("catalog database_url is not configured")
}
