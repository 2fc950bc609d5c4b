package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ticketless-chicago/sweep-cli/internal/network"
)

func seg(id string, pts ...network.Point) network.RawSegment {
	return network.RawSegment{ID: id, Name: "test", Points: pts}
}

func TestMergeChainsSingleStreet(t *testing.T) {
	a := seg("a", network.Point{Lat: 41.900, Lng: -87.660}, network.Point{Lat: 41.905, Lng: -87.662})
	b := seg("b", network.Point{Lat: 41.905, Lng: -87.662}, network.Point{Lat: 41.910, Lng: -87.664})
	// c is digitized in the opposite direction.
	c := seg("c", network.Point{Lat: 41.915, Lng: -87.666}, network.Point{Lat: 41.910, Lng: -87.664})

	chains := MergeChains([]network.RawSegment{b, c, a})
	require.Len(t, chains, 1)

	chain := chains[0]
	// Three 2-point segments share endpoints: 4 distinct points, every one
	// of them an original segment boundary.
	require.Len(t, chain.Points, 4)
	assert.Equal(t, []int{0, 1, 2, 3}, chain.Junctions)

	// Points run in one consistent direction along the street.
	for i := 0; i+1 < len(chain.Points); i++ {
		assert.Less(t, chain.Points[i].Lat, chain.Points[i+1].Lat)
	}
}

func TestMergeChainsDisconnectedComponents(t *testing.T) {
	a := seg("a", network.Point{Lat: 41.90, Lng: -87.66}, network.Point{Lat: 41.91, Lng: -87.66})
	// Separated from a, e.g. by the river.
	b := seg("b", network.Point{Lat: 41.93, Lng: -87.66}, network.Point{Lat: 41.94, Lng: -87.66})

	chains := MergeChains([]network.RawSegment{a, b})
	assert.Len(t, chains, 2)
}

func TestMergeChainsPointConservation(t *testing.T) {
	a := seg("a",
		network.Point{Lat: 41.900, Lng: -87.660},
		network.Point{Lat: 41.902, Lng: -87.661},
		network.Point{Lat: 41.905, Lng: -87.662},
	)
	b := seg("b",
		network.Point{Lat: 41.905, Lng: -87.662},
		network.Point{Lat: 41.908, Lng: -87.663},
	)

	chains := MergeChains([]network.RawSegment{a, b})
	require.Len(t, chains, 1)

	// Shared endpoint kept once: 3 + 2 - 1 points.
	chain := chains[0]
	require.Len(t, chain.Points, 4)
	// Junctions mark segment boundaries, not interior shape points.
	assert.Equal(t, []int{0, 2, 3}, chain.Junctions)
}

func TestMergeChainsFloatNoiseEndpoints(t *testing.T) {
	// Endpoints differing past the 5th decimal still connect.
	a := seg("a", network.Point{Lat: 41.900000, Lng: -87.660000}, network.Point{Lat: 41.905001, Lng: -87.662002})
	b := seg("b", network.Point{Lat: 41.905002, Lng: -87.662001}, network.Point{Lat: 41.910000, Lng: -87.664000})

	chains := MergeChains([]network.RawSegment{a, b})
	assert.Len(t, chains, 1)
}

func TestMergeChainsEmptyInput(t *testing.T) {
	assert.Empty(t, MergeChains(nil))
}

func TestMergeChainsIdempotent(t *testing.T) {
	segments := []network.RawSegment{
		seg("b", network.Point{Lat: 41.905, Lng: -87.662}, network.Point{Lat: 41.910, Lng: -87.664}),
		seg("c", network.Point{Lat: 41.915, Lng: -87.666}, network.Point{Lat: 41.910, Lng: -87.664}),
		seg("a", network.Point{Lat: 41.900, Lng: -87.660}, network.Point{Lat: 41.905, Lng: -87.662}),
	}

	// Merging the same input twice yields identical chains, points and
	// junctions alike.
	assert.Equal(t, MergeChains(segments), MergeChains(segments))
}
