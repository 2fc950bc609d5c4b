package geometry

import "github.com/ticketless-chicago/sweep-cli/internal/network"

// Grid holds the orthogonal address-grid constants: the coordinates of
// address 0 on each axis and the degrees one address unit spans. Addresses
// grow away from the baselines in the direction the street's prefix names.
type Grid struct {
	// BaselineLat is the latitude of Madison Street, address 0 north/south.
	BaselineLat float64
	// BaselineLng is the longitude of State Street, address 0 east/west.
	BaselineLng float64
	// LatDegPerUnit is degrees of latitude per address unit (800/mile).
	LatDegPerUnit float64
	// LngDegPerUnit is degrees of longitude per address unit at Chicago's
	// latitude.
	LngDegPerUnit float64
	// MaxAddr caps the plausible address range used by the Calibrator.
	MaxAddr int
}

// ChicagoGrid returns the grid constants for Chicago's address system.
func ChicagoGrid() Grid {
	return Grid{
		BaselineLat:   41.881898,
		BaselineLng:   -87.627734,
		LatDegPerUnit: 0.0000181,
		LngDegPerUnit: 0.0000244,
		MaxAddr:       15000,
	}
}

// AddrToCoord converts an address number to the coordinate on the axis the
// direction names: latitude for N/S, longitude for E/W.
func (g Grid) AddrToCoord(dir string, addr float64) float64 {
	switch dir {
	case "N":
		return g.BaselineLat + addr*g.LatDegPerUnit
	case "S":
		return g.BaselineLat - addr*g.LatDegPerUnit
	case "E":
		return g.BaselineLng + addr*g.LngDegPerUnit
	case "W":
		return g.BaselineLng - addr*g.LngDegPerUnit
	}
	return 0
}

// CoordToAddr is the inverse of AddrToCoord.
func (g Grid) CoordToAddr(dir string, coord float64) float64 {
	switch dir {
	case "N":
		return (coord - g.BaselineLat) / g.LatDegPerUnit
	case "S":
		return (g.BaselineLat - coord) / g.LatDegPerUnit
	case "E":
		return (coord - g.BaselineLng) / g.LngDegPerUnit
	case "W":
		return (g.BaselineLng - coord) / g.LngDegPerUnit
	}
	return 0
}

// axisValue reads the point's coordinate on the address axis for dir.
func axisValue(p network.Point, dir string) float64 {
	if dir == "E" || dir == "W" {
		return p.Lng
	}
	return p.Lat
}

// axisSpan returns the chain's min and max coordinate on the address axis.
func axisSpan(chain Chain, dir string) (min, max float64) {
	min = axisValue(chain.Points[0], dir)
	max = min
	for _, p := range chain.Points[1:] {
		v := axisValue(p, dir)
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

// inferDir guesses a direction for a chain indexed under a direction-less
// key: the axis with the larger span, signed by which side of the baseline
// the chain sits on.
func inferDir(chain Chain, grid Grid) string {
	latMin, latMax := axisSpan(chain, "N")
	lngMin, lngMax := axisSpan(chain, "E")
	if lngMax-lngMin > latMax-latMin {
		if (lngMin+lngMax)/2 >= grid.BaselineLng {
			return "E"
		}
		return "W"
	}
	if (latMin+latMax)/2 >= grid.BaselineLat {
		return "N"
	}
	return "S"
}
