package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ticketless-chicago/sweep-cli/internal/network"
)

func northChain(g Grid, addrs ...float64) Chain {
	var c Chain
	for i, addr := range addrs {
		c.Points = append(c.Points, network.Point{Lat: latForAddr(g, addr), Lng: -87.66})
		c.Junctions = append(c.Junctions, i)
	}
	return c
}

func calibrated(g Grid, dir string, chain Chain) CalibratedChain {
	return CalibratedChain{Chain: chain, Anchors: Calibrate(chain, dir, g)}
}

func TestExtractGridFallbackTwoPoint(t *testing.T) {
	grid := ChicagoGrid()
	// A single 2-point segment; only one junction yields a plausible
	// address, so calibration cannot run and grid math takes over.
	chain := Chain{
		Points: []network.Point{
			{Lat: 41.88, Lng: -87.63},
			{Lat: 41.90, Lng: -87.63},
		},
		Junctions: []int{0, 1},
	}
	cc := calibrated(grid, "N", chain)
	require.Less(t, len(cc.Anchors), 2)

	pts, strategy, err := Extract([]CalibratedChain{cc}, "N", 300, 700, grid)
	require.NoError(t, err)
	assert.Equal(t, StrategyGrid, strategy)
	require.Len(t, pts, 2)

	// Both returned points sit strictly between the chain endpoints at the
	// projected latitudes.
	assert.InDelta(t, latForAddr(grid, 300), pts[0].Lat, 1e-9)
	assert.InDelta(t, latForAddr(grid, 700), pts[1].Lat, 1e-9)
	assert.Greater(t, pts[0].Lat, 41.88)
	assert.Less(t, pts[1].Lat, 41.90)
}

func TestExtractCalibrated(t *testing.T) {
	grid := ChicagoGrid()
	chain := northChain(grid, 1500, 1600, 1700)
	cc := calibrated(grid, "N", chain)
	require.Len(t, cc.Anchors, 3)

	// 1600-1699 means the 1600 block up to the next cross street.
	pts, strategy, err := Extract([]CalibratedChain{cc}, "N", 1600, 1699, grid)
	require.NoError(t, err)
	assert.Equal(t, StrategyCalibrated, strategy)
	require.Len(t, pts, 2)
	assert.InDelta(t, latForAddr(grid, 1600), pts[0].Lat, 1e-7)
	assert.InDelta(t, latForAddr(grid, 1700), pts[1].Lat, 1e-7)
}

func TestExtractCalibratedInterpolatesWithinBlock(t *testing.T) {
	grid := ChicagoGrid()
	chain := northChain(grid, 1500, 1600, 1700)
	cc := calibrated(grid, "N", chain)

	pts, strategy, err := Extract([]CalibratedChain{cc}, "N", 1550, 1650, grid)
	require.NoError(t, err)
	assert.Equal(t, StrategyCalibrated, strategy)
	require.GreaterOrEqual(t, len(pts), 2)

	// Halfway through each bracketing block by real distance; the chain is
	// straight so that is the latitude midpoint.
	mid1 := (latForAddr(grid, 1500) + latForAddr(grid, 1600)) / 2
	mid2 := (latForAddr(grid, 1600) + latForAddr(grid, 1700)) / 2
	assert.InDelta(t, mid1, pts[0].Lat, 1e-7)
	assert.InDelta(t, mid2, pts[len(pts)-1].Lat, 1e-7)
}

func TestExtractNonMonotonicFallsThroughToGrid(t *testing.T) {
	grid := ChicagoGrid()
	// Junction addresses zig-zag along the chain; calibration is unusable.
	chain := northChain(grid, 1500, 1700, 1600)
	cc := calibrated(grid, "N", chain)
	require.Len(t, cc.Anchors, 3)

	_, strategy, err := Extract([]CalibratedChain{cc}, "N", 1550, 1650, grid)
	require.NoError(t, err)
	assert.Equal(t, StrategyGrid, strategy)
}

func TestExtractLongestChainWins(t *testing.T) {
	grid := ChicagoGrid()
	long := Chain{
		Points: []network.Point{
			{Lat: latForAddr(grid, 1450), Lng: -87.66},
			{Lat: latForAddr(grid, 1750), Lng: -87.66},
		},
		Junctions: []int{0, 1},
	}
	short := Chain{
		Points: []network.Point{
			{Lat: latForAddr(grid, 1560), Lng: -87.66},
			{Lat: latForAddr(grid, 1590), Lng: -87.66},
		},
		Junctions: []int{0, 1},
	}

	pts, _, err := Extract([]CalibratedChain{{Chain: short}, {Chain: long}}, "N", 1550, 1650, grid)
	require.NoError(t, err)
	require.Len(t, pts, 2)
	assert.InDelta(t, latForAddr(grid, 1550), pts[0].Lat, 1e-9)
	assert.InDelta(t, latForAddr(grid, 1650), pts[1].Lat, 1e-9)
}

func TestExtractWholeChainContainment(t *testing.T) {
	grid := ChicagoGrid()
	// A stub street entirely inside one block range.
	chain := Chain{
		Points: []network.Point{
			{Lat: latForAddr(grid, 1520), Lng: -87.66},
			{Lat: latForAddr(grid, 1555), Lng: -87.66},
			{Lat: latForAddr(grid, 1580), Lng: -87.66},
		},
		Junctions: []int{0, 2},
	}

	pts, strategy, err := Extract([]CalibratedChain{{Chain: chain}}, "N", 1500, 1599, grid)
	require.NoError(t, err)
	assert.Equal(t, StrategyGrid, strategy)
	assert.Len(t, pts, 3)
}

func TestExtractNoOverlap(t *testing.T) {
	grid := ChicagoGrid()
	chain := northChain(grid, 4500, 4700)
	cc := calibrated(grid, "N", chain)

	_, _, err := Extract([]CalibratedChain{cc}, "N", 1600, 1699, grid)
	assert.ErrorIs(t, err, ErrNoExtraction)
}

func TestExtractSwapsInvertedRange(t *testing.T) {
	grid := ChicagoGrid()
	chain := northChain(grid, 1500, 1600, 1700)
	cc := calibrated(grid, "N", chain)

	pts, _, err := Extract([]CalibratedChain{cc}, "N", 1699, 1600, grid)
	require.NoError(t, err)
	assert.InDelta(t, latForAddr(grid, 1600), pts[0].Lat, 1e-7)
	assert.InDelta(t, latForAddr(grid, 1700), pts[len(pts)-1].Lat, 1e-7)
}

func TestSnapRangeEnd(t *testing.T) {
	assert.Equal(t, 1700, snapRangeEnd(1699))
	assert.Equal(t, 1700, snapRangeEnd(1698))
	assert.Equal(t, 1600, snapRangeEnd(1601))
	assert.Equal(t, 1600, snapRangeEnd(1602))
	assert.Equal(t, 1600, snapRangeEnd(1600))
	assert.Equal(t, 1650, snapRangeEnd(1650))
	assert.Equal(t, 1697, snapRangeEnd(1697))
}
