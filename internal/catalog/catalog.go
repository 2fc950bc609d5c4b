// Package catalog reads the address-range catalog and the reference-point
// geocache that feed a resolution run.
package catalog

import "context"

// RangeRecord is one active catalog row: a cleaning zone's address span on
// one street.
type RangeRecord struct {
	ZoneID     string
	Direction  string
	StreetName string
	StreetType string
	AddrLow    int
	AddrHigh   int
	// Parity is "O" for odd addresses, "E" for even, empty for both sides.
	Parity string
}

// Axis values for reference points.
const (
	AxisNS = "ns"
	AxisEW = "ew"
)

// ReferencePoint is a single cached coordinate with a known address on the
// street, enough to project a straight fallback line through the grid.
type ReferencePoint struct {
	Lat     float64
	Lng     float64
	AddrNum int
	Axis    string
}

// Geocache looks up fallback reference points by canonical street identity.
type Geocache interface {
	// Lookup returns nil, nil when no entry exists.
	Lookup(ctx context.Context, dir, name, typ string) (*ReferencePoint, error)
}
