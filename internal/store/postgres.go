package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ticketless-chicago/sweep-cli/internal/db"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// NewPostgres creates a PostgresStore with its own connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresWithPool wraps an existing pool. The caller keeps ownership of
// the pool's lifecycle.
func NewPostgresWithPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS street_geometry (
	id                 BIGSERIAL PRIMARY KEY,
	zone_id            TEXT NOT NULL,
	street_direction   TEXT NOT NULL,
	street_name        TEXT NOT NULL,
	street_type        TEXT NOT NULL DEFAULT '',
	address_range_low  INTEGER NOT NULL,
	address_range_high INTEGER NOT NULL,
	odd_even           TEXT NOT NULL DEFAULT '',
	geometry           JSONB NOT NULL,
	source             TEXT NOT NULL,
	properties         JSONB,
	created_at         TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS resolution_runs (
	id                TEXT PRIMARY KEY,
	started_at        TIMESTAMPTZ NOT NULL,
	finished_at       TIMESTAMPTZ NOT NULL,
	total             INTEGER NOT NULL,
	resolved_osm      INTEGER NOT NULL,
	resolved_geocache INTEGER NOT NULL,
	unresolved        INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_street_geometry_zone ON street_geometry(zone_id);
CREATE INDEX IF NOT EXISTS idx_street_geometry_street ON street_geometry(street_name, street_direction);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) Clear(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM street_geometry`)
	return eris.Wrap(err, "postgres: clear geometry")
}

const insertGeometrySQL = `
	INSERT INTO street_geometry (
		zone_id, street_direction, street_name, street_type,
		address_range_low, address_range_high, odd_even,
		geometry, source, properties
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

// InsertGeometries writes rows in batches. A failed batch is retried row by
// row; individual failures are logged and skipped, never fatal. Returns the
// number of rows actually inserted.
func (s *PostgresStore) InsertGeometries(ctx context.Context, rows []GeometryRow, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	log := zap.L().With(zap.String("component", "store.postgres"))

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
				zap.Int("batch_size", len(chunk)),
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

func (s *PostgresStore) insertBatch(ctx context.Context, rows []GeometryRow) error {
	batch := &pgx.Batch{}
	for _, row := range rows {
		args, err := geometryArgs(row)
		if err != nil {
			return err
		}
		batch.Queue(insertGeometrySQL, args...)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()
	for range rows {
		if _, err := results.Exec(); err != nil {
			return eris.Wrap(err, "postgres: batch exec")
		}
	}
	return nil
}

func (s *PostgresStore) insertOne(ctx context.Context, row GeometryRow) error {
	args, err := geometryArgs(row)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, insertGeometrySQL, args...)
	return eris.Wrap(err, "postgres: insert geometry")
}

func geometryArgs(row GeometryRow) ([]any, error) {
	var props []byte
	if row.Properties != nil {
		var err error
		props, err = json.Marshal(row.Properties)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: marshal properties")
		}
	}
	return []any{
		row.ZoneID, row.Direction, row.StreetName, row.StreetType,
		row.AddrLow, row.AddrHigh, row.Parity,
		row.GeoJSON, row.Source, props,
	}, nil
}

func (s *PostgresStore) RecordRun(ctx context.Context, run Run) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO resolution_runs (id, started_at, finished_at, total, resolved_osm, resolved_geocache, unresolved)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		run.ID, run.StartedAt, run.FinishedAt, run.Total, run.OSM, run.Geocache, run.Unresolved,
	)
	return eris.Wrap(err, "postgres: record run")
}

func (s *PostgresStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, started_at, finished_at, total, resolved_osm, resolved_geocache, unresolved
		FROM resolution_runs
		ORDER BY started_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.FinishedAt, &r.Total, &r.OSM, &r.Geocache, &r.Unresolved); err != nil {
			return nil, eris.Wrap(err, "postgres: scan run")
		}
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: iterate runs")
}
