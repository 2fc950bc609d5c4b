package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using modernc.org/sqlite, for local runs and
// tests.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL
// mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS street_geometry (
	id                 INTEGER PRIMARY KEY AUTOINCREMENT,
	zone_id            TEXT NOT NULL,
	street_direction   TEXT NOT NULL,
	street_name        TEXT NOT NULL,
	street_type        TEXT NOT NULL DEFAULT '',
	address_range_low  INTEGER NOT NULL,
	address_range_high INTEGER NOT NULL,
	odd_even           TEXT NOT NULL DEFAULT '',
	geometry           TEXT NOT NULL,
	source             TEXT NOT NULL,
	properties         TEXT,
	created_at         DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS resolution_runs (
	id                TEXT PRIMARY KEY,
	started_at        DATETIME NOT NULL,
	finished_at       DATETIME NOT NULL,
	total             INTEGER NOT NULL,
	resolved_osm      INTEGER NOT NULL,
	resolved_geocache INTEGER NOT NULL,
	unresolved        INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_street_geometry_zone ON street_geometry(zone_id);
CREATE INDEX IF NOT EXISTS idx_street_geometry_street ON street_geometry(street_name, street_direction);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM street_geometry`)
	return eris.Wrap(err, "sqlite: clear geometry")
}

const sqliteInsertGeometrySQL = `
	INSERT INTO street_geometry (
		zone_id, street_direction, street_name, street_type,
		address_range_low, address_range_high, odd_even,
		geometry, source, properties
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// InsertGeometries writes rows in transactional batches. A failed batch is
// retried row by row outside a transaction; individual failures are logged
// and skipped.
func (s *SQLiteStore) InsertGeometries(ctx context.Context, rows []GeometryRow, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	log := zap.L().With(zap.String("component", "store.sqlite"))

	inserted := 0
	for start := 0; start < len(rows); start += batchSize {
		end := start + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		chunk := rows[start:end]

		if err := s.insertBatch(ctx, chunk); err != nil {
			log.Warn("batch insert failed, retrying rows individually",
				zap.Int("batch_start", start),
				zap.Error(err),
			)
			for _, row := range chunk {
				if rowErr := s.insertOne(ctx, row); rowErr != nil {
					log.Error("row insert failed",
						zap.String("zone_id", row.ZoneID),
						zap.String("street_name", row.StreetName),
						zap.Error(rowErr),
					)
					continue
				}
				inserted++
			}
			continue
		}
		inserted += len(chunk)
	}
	return inserted, nil
}

func (s *SQLiteStore) insertBatch(ctx context.Context, rows []GeometryRow) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin batch")
	}
	for _, row := range rows {
		args, err := sqliteGeometryArgs(row)
		if err != nil {
			tx.Rollback()
			return err
		}
		if _, err := tx.ExecContext(ctx, sqliteInsertGeometrySQL, args...); err != nil {
			tx.Rollback()
			return eris.Wrap(err, "sqlite: batch insert")
		}
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit batch")
}

func (s *SQLiteStore) insertOne(ctx context.Context, row GeometryRow) error {
	args, err := sqliteGeometryArgs(row)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, sqliteInsertGeometrySQL, args...)
	return eris.Wrap(err, "sqlite: insert geometry")
}

func sqliteGeometryArgs(row GeometryRow) ([]any, error) {
	var props any
	if row.Properties != nil {
		data, err := json.Marshal(row.Properties)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: marshal properties")
		}
		props = string(data)
	}
	return []any{
		row.ZoneID, row.Direction, row.StreetName, row.StreetType,
		row.AddrLow, row.AddrHigh, row.Parity,
		row.GeoJSON, row.Source, props,
	}, nil
}

func (s *SQLiteStore) RecordRun(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO resolution_runs (id, started_at, finished_at, total, resolved_osm, resolved_geocache, unresolved)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.UTC(), run.FinishedAt.UTC(), run.Total, run.OSM, run.Geocache, run.Unresolved,
	)
	return eris.Wrap(err, "sqlite: record run")
}

func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, finished_at, total, resolved_osm, resolved_geocache, unresolved
		FROM resolution_runs
		ORDER BY started_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.FinishedAt, &r.Total, &r.OSM, &r.Geocache, &r.Unresolved); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan run")
		}
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: iterate runs")
}
