// Package store persists resolved street geometry and run history.
package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
)

// GeometryRow is one persisted resolved record: the catalog identity plus
// its resolved LineString.
type GeometryRow struct {
	ZoneID     string
	Direction  string
	StreetName string
	StreetType string
	AddrLow    int
	AddrHigh   int
	Parity     string
	// GeoJSON is the resolved LineString, [lng, lat] order.
	GeoJSON string
	// Source is "osm" or "geocache".
	Source string
	// Properties carries diagnostic metadata (matched key, strategy).
	Properties map[string]any
}

// Run summarizes one full rebuild for the run log.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Total      int
	OSM        int
	Geocache   int
	Unresolved int
}

// Store is the persistence interface for the geometry output.
type Store interface {
	// Geometry
	Clear(ctx context.Context) error
	InsertGeometries(ctx context.Context, rows []GeometryRow, batchSize int) (int, error)

	// Run log
	RecordRun(ctx context.Context, run Run) error
	ListRuns(ctx context.Context, limit int) ([]Run, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

const defaultBatchSize = 500

// Open constructs a Store for the configured driver.
func Open(ctx context.Context, driver, databaseURL string) (Store, error) {
	switch driver {
	case "postgres":
		return NewPostgres(ctx, databaseURL)
	case "sqlite":
		return NewSQLite(databaseURL)
	default:
		return nil, eris.Errorf("store: unknown driver %q", driver)
	}
}
