package catalog

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ticketless-chicago/sweep-cli/internal/db"
)

const defaultPageSize = 1000

// PostgresSource reads active catalog rows in pages.
type PostgresSource struct {
	pool     db.Pool
	pageSize int
}

// NewPostgresSource returns a Source over pool. pageSize <= 0 uses the
// default.
func NewPostgresSource(pool db.Pool, pageSize int) *PostgresSource {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &PostgresSource{pool: pool, pageSize: pageSize}
}

const selectRecordsSQL = `
	SELECT zone_id, street_direction, street_name, COALESCE(street_type, ''),
	       address_range_low, address_range_high, COALESCE(odd_even, '')
	FROM street_cleaning_zones
	WHERE status = 'active'
	ORDER BY zone_id, street_name, address_range_low
	LIMIT $1 OFFSET $2`

// Records pages through the active catalog until exhausted.
func (s *PostgresSource) Records(ctx context.Context) ([]RangeRecord, error) {
	log := zap.L().With(zap.String("component", "catalog.postgres"))

	var all []RangeRecord
	offset := 0
	for {
		page, err := s.page(ctx, offset)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			break
		}
		all = append(all, page...)
		offset += len(page)
		log.Debug("catalog page loaded", zap.Int("offset", offset), zap.Int("rows", len(page)))
		if len(page) < s.pageSize {
			break
		}
	}
	return all, nil
}

func (s *PostgresSource) page(ctx context.Context, offset int) ([]RangeRecord, error) {
	rows, err := s.pool.Query(ctx, selectRecordsSQL, s.pageSize, offset)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: query records")
	}
	defer rows.Close()

	var page []RangeRecord
	for rows.Next() {
		var r RangeRecord
		if err := rows.Scan(&r.ZoneID, &r.Direction, &r.StreetName, &r.StreetType,
			&r.AddrLow, &r.AddrHigh, &r.Parity); err != nil {
			return nil, eris.Wrap(err, "catalog: scan record")
		}
		page = append(page, r)
	}
	return page, eris.Wrap(rows.Err(), "catalog: iterate records")
}

// PostgresGeocache reads fallback reference points.
type PostgresGeocache struct {
	pool db.Pool
}

func NewPostgresGeocache(pool db.Pool) *PostgresGeocache {
	return &PostgresGeocache{pool: pool}
}

const selectReferenceSQL = `
	SELECT ref_lat, ref_lng, ref_addr_num, axis
	FROM street_reference_points
	WHERE street_direction = $1 AND street_name = $2 AND COALESCE(street_type, '') = $3
	LIMIT 1`

func (g *PostgresGeocache) Lookup(ctx context.Context, dir, name, typ string) (*ReferencePoint, error) {
	var ref ReferencePoint
	err := g.pool.QueryRow(ctx, selectReferenceSQL, dir, name, typ).
		Scan(&ref.Lat, &ref.Lng, &ref.AddrNum, &ref.Axis)
	if eris.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: lookup reference point %s %s %s", dir, name, typ)
	}
	return &ref, nil
}
