package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"zone_id", "street_direction", "street_name", "street_type",
		"address_range_low", "address_range_high", "odd_even",
	})
}

func TestPostgresSourceRecords(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT zone_id`).
		WithArgs(1000, 0).
		WillReturnRows(recordRows().
			AddRow("32-4A", "N", "Elston", "Ave", 1600, 1699, "O").
			AddRow("32-4A", "N", "Elston", "Ave", 1600, 1698, "E"))

	src := NewPostgresSource(mock, 0)
	records, err := src.Records(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, RangeRecord{
		ZoneID: "32-4A", Direction: "N", StreetName: "Elston", StreetType: "Ave",
		AddrLow: 1600, AddrHigh: 1699, Parity: "O",
	}, records[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSourcePagination(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	first := recordRows()
	for i := 0; i < 2; i++ {
		first.AddRow("32-4A", "N", "Elston", "Ave", 1600+i*100, 1699+i*100, "")
	}
	mock.ExpectQuery(`SELECT zone_id`).WithArgs(2, 0).WillReturnRows(first)
	mock.ExpectQuery(`SELECT zone_id`).WithArgs(2, 2).
		WillReturnRows(recordRows().AddRow("32-4B", "W", "Cortland", "St", 2000, 2099, ""))

	src := NewPostgresSource(mock, 2)
	records, err := src.Records(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 3)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGeocacheHit(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT ref_lat`).
		WithArgs("N", "ELSTON", "AVE").
		WillReturnRows(pgxmock.NewRows([]string{"ref_lat", "ref_lng", "ref_addr_num", "axis"}).
			AddRow(41.9101, -87.6628, 1600, AxisNS))

	gc := NewPostgresGeocache(mock)
	ref, err := gc.Lookup(context.Background(), "N", "ELSTON", "AVE")
	require.NoError(t, err)
	require.NotNil(t, ref)
	assert.Equal(t, 1600, ref.AddrNum)
	assert.Equal(t, AxisNS, ref.Axis)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGeocacheMiss(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT ref_lat`).
		WithArgs("N", "NOWHERE", "AVE").
		WillReturnError(pgx.ErrNoRows)

	gc := NewPostgresGeocache(mock)
	ref, err := gc.Lookup(context.Background(), "N", "NOWHERE", "AVE")
	require.NoError(t, err)
	assert.Nil(t, ref)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGeocacheMissWrappedError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	// pgx can hand back the sentinel wrapped; it is still a miss.
	mock.ExpectQuery(`SELECT ref_lat`).
		WithArgs("N", "NOWHERE", "AVE").
		WillReturnError(fmt.Errorf("scan row: %w", pgx.ErrNoRows))

	gc := NewPostgresGeocache(mock)
	ref, err := gc.Lookup(context.Background(), "N", "NOWHERE", "AVE")
	require.NoError(t, err)
	assert.Nil(t, ref)
	assert.NoError(t, mock.ExpectationsWereMet())
}
