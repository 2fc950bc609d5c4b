package geometry

import "math"

// Anchor ties a chain junction to its block-snapped address number.
type Anchor struct {
	// Index is the junction's position in the chain's point sequence.
	Index int
	// Addr is the junction's estimated address snapped to the nearest 100.
	Addr int
}

// CalibratedChain pairs a chain with its calibration table. Fewer than two
// anchors means the calibrated strategy cannot run for this chain.
type CalibratedChain struct {
	Chain   Chain
	Anchors []Anchor
}

// Calibrate converts a chain's junctions into an address calibration table.
// Junction coordinates on the address axis are converted through the grid,
// implausible estimates discarded, the rest snapped to the nearest 100
// (address blocks always break at hundreds), deduplicated by snapped address
// with the first occurrence winning, in chain order. An empty dir falls back
// to the chain's dominant axis; extraction still trusts the record's
// direction, so a wrong inference leaves the chain without usable calibration
// and the extractor degrades to grid math instead of interpolating backwards.
func Calibrate(chain Chain, dir string, grid Grid) []Anchor {
	if len(chain.Points) == 0 {
		return nil
	}
	if dir == "" {
		dir = inferDir(chain, grid)
	}

	maxAddr := grid.MaxAddr
	if maxAddr <= 0 {
		maxAddr = 15000
	}

	seen := make(map[int]bool)
	var anchors []Anchor
	for _, idx := range chain.Junctions {
		if idx < 0 || idx >= len(chain.Points) {
			continue
		}
		est := grid.CoordToAddr(dir, axisValue(chain.Points[idx], dir))
		if est <= 0 || est >= float64(maxAddr) {
			continue
		}
		addr := int(math.Round(est/100)) * 100
		if addr <= 0 || seen[addr] {
			continue
		}
		seen[addr] = true
		anchors = append(anchors, Anchor{Index: idx, Addr: addr})
	}
	return anchors
}
