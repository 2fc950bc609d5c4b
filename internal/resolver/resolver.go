// Package resolver drives per-record geometry resolution: candidate key
// lookup against the network index, chain building and caching, and the
// geocache fallback.
package resolver

import (
	"context"
	"sync"

	"github.com/rotisserie/eris"

	"github.com/ticketless-chicago/sweep-cli/internal/catalog"
	"github.com/ticketless-chicago/sweep-cli/internal/geometry"
	"github.com/ticketless-chicago/sweep-cli/internal/network"
	"github.com/ticketless-chicago/sweep-cli/internal/streetname"
)

// Source tags how a record's geometry was produced.
const (
	SourceOSM      = "osm"
	SourceGeocache = "geocache"
)

// Resolution is the successful outcome for one catalog record.
type Resolution struct {
	Record     catalog.RangeRecord
	Points     []network.Point
	Source     string
	MatchedKey string
	Strategy   geometry.Strategy
}

// Outcome is the tagged result of resolving one record: a Resolution, or
// the keys that were tried without success.
type Outcome struct {
	Resolution *Resolution
	TriedKeys  []string
}

func (o Outcome) Resolved() bool { return o.Resolution != nil }

// Resolver resolves catalog records against a network index. Safe for
// concurrent use; merged chains are built once per lookup key and shared.
type Resolver struct {
	index    *network.Index
	geocache catalog.Geocache
	grid     geometry.Grid

	mu    sync.Mutex
	cache map[string]*chainEntry
}

type chainEntry struct {
	once   sync.Once
	chains []geometry.CalibratedChain
}

func New(index *network.Index, gc catalog.Geocache, grid geometry.Grid) *Resolver {
	return &Resolver{
		index:    index,
		geocache: gc,
		grid:     grid,
		cache:    make(map[string]*chainEntry),
	}
}

// chainsFor builds, once per key, the merged and calibrated chains for a
// lookup key. Concurrent first lookups of the same key block on one build.
func (r *Resolver) chainsFor(key streetname.Key) []geometry.CalibratedChain {
	r.mu.Lock()
	entry, ok := r.cache[key.String()]
	if !ok {
		entry = &chainEntry{}
		r.cache[key.String()] = entry
	}
	r.mu.Unlock()

	entry.once.Do(func() {
		segments := r.index.Lookup(key)
		if len(segments) == 0 {
			return
		}
		for _, chain := range geometry.MergeChains(segments) {
			entry.chains = append(entry.chains, geometry.CalibratedChain{
				Chain:   chain,
				Anchors: geometry.Calibrate(chain, key.Dir, r.grid),
			})
		}
	})
	return entry.chains
}

// Resolve walks the candidate-key ladder for one record, then falls back to
// the geocache. An unresolved record is not an error; geocache I/O failure
// is.
func (r *Resolver) Resolve(ctx context.Context, rec catalog.RangeRecord) (Outcome, error) {
	low, high := rec.AddrLow, rec.AddrHigh
	if low > high {
		low, high = high, low
	}

	direct := streetname.NormalizeParts(rec.Direction, rec.StreetName, rec.StreetType)
	keys := streetname.CandidateKeys(direct)

	tried := make([]string, 0, len(keys))
	for _, key := range keys {
		tried = append(tried, key.String())
		chains := r.chainsFor(key)
		if len(chains) == 0 {
			continue
		}
		pts, strategy, err := geometry.Extract(chains, direct.Dir, low, high, r.grid)
		if err != nil {
			continue
		}
		return Outcome{Resolution: &Resolution{
			Record:     rec,
			Points:     pts,
			Source:     SourceOSM,
			MatchedKey: key.String(),
			Strategy:   strategy,
		}}, nil
	}

	ref, err := r.geocache.Lookup(ctx, direct.Dir, direct.Name, direct.Type)
	if err != nil {
		return Outcome{}, eris.Wrap(err, "resolver: geocache lookup")
	}
	if ref != nil {
		return Outcome{Resolution: &Resolution{
			Record:     rec,
			Points:     projectFromReference(*ref, direct.Dir, low, high, r.grid),
			Source:     SourceGeocache,
			MatchedKey: direct.String(),
		}}, nil
	}

	return Outcome{TriedKeys: tried}, nil
}

// projectFromReference synthesizes a straight two-point line through a single
// cached reference point: the range ends project along the address axis from
// the reference address; the cross-axis coordinate holds the reference value.
func projectFromReference(ref catalog.ReferencePoint, dir string, low, high int, grid geometry.Grid) []network.Point {
	sign := 1.0
	if dir == "S" || dir == "W" {
		sign = -1
	}
	at := func(addr int) network.Point {
		d := sign * float64(addr-ref.AddrNum)
		if ref.Axis == catalog.AxisEW {
			return network.Point{Lat: ref.Lat, Lng: ref.Lng + d*grid.LngDegPerUnit}
		}
		return network.Point{Lat: ref.Lat + d*grid.LatDegPerUnit, Lng: ref.Lng}
	}
	return []network.Point{at(low), at(high)}
}
