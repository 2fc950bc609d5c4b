package geometry

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/ticketless-chicago/sweep-cli/internal/network"
)

// Strategy identifies which extraction strategy produced a sub-polyline.
type Strategy string

const (
	// StrategyCalibrated interpolates between real intersection anchors by
	// cumulative distance.
	StrategyCalibrated Strategy = "calibrated"
	// StrategyGrid projects the range straight through the grid constants.
	StrategyGrid Strategy = "grid"
)

// ErrNoExtraction reports that no candidate chain yielded a usable
// sub-polyline for the requested range.
var ErrNoExtraction = eris.New("geometry: no usable extraction for address range")

// outsideCutoff is how far beyond the calibrated span, in address units, a
// target may fall before the calibrated strategy declines. Within it the
// target clamps to the nearest anchor.
const outsideCutoff = 200

// Extract returns the sub-polyline covering the address range [low, high]
// from the best of the candidate chains. Range ends within 2 units of a
// block boundary snap to it first. Chains whose axis span does not overlap
// the target range are skipped. Per chain, calibrated extraction is tried
// before the grid-math fallback; across chains the longest real-world result
// wins. Results of fewer than two points are failures.
func Extract(chains []CalibratedChain, dir string, low, high int, grid Grid) ([]network.Point, Strategy, error) {
	if low > high {
		low, high = high, low
	}
	if sLow, sHigh := snapRangeEnd(low), snapRangeEnd(high); sLow < sHigh {
		low, high = sLow, sHigh
	}

	c1 := grid.AddrToCoord(dir, float64(low))
	c2 := grid.AddrToCoord(dir, float64(high))
	coordLo, coordHi := math.Min(c1, c2), math.Max(c1, c2)

	var best []network.Point
	var bestStrategy Strategy
	bestLen := -1.0
	for _, cc := range chains {
		if len(cc.Chain.Points) < 2 {
			continue
		}
		if minV, maxV := axisSpan(cc.Chain, dir); maxV < coordLo || minV > coordHi {
			continue
		}

		pts, strategy, ok := extractOne(cc, dir, low, high, coordLo, coordHi, grid)
		if !ok {
			continue
		}
		if l := PathLength(pts); l > bestLen {
			best, bestStrategy, bestLen = pts, strategy, l
		}
	}

	if best == nil {
		return nil, "", ErrNoExtraction
	}
	return best, bestStrategy, nil
}

// snapRangeEnd aligns a range end with the block boundary it encodes:
// catalog ranges ending in 98/99 mean "to the next cross street" and ranges
// starting at 00/01/02 mean "from the previous one".
func snapRangeEnd(addr int) int {
	snapped := int(math.Round(float64(addr)/100)) * 100
	if d := addr - snapped; d >= -2 && d <= 2 {
		return snapped
	}
	return addr
}

func extractOne(cc CalibratedChain, dir string, low, high int, coordLo, coordHi float64, grid Grid) ([]network.Point, Strategy, bool) {
	if pts, ok := extractCalibrated(cc, low, high); ok {
		return pts, StrategyCalibrated, true
	}
	if pts, ok := extractGrid(cc.Chain, dir, coordLo, coordHi); ok {
		return pts, StrategyGrid, true
	}
	return nil, "", false
}

// chainPos is a position along a chain: a fractional point index and the
// exact coordinate there.
type chainPos struct {
	fidx float64
	pt   network.Point
}

// extractCalibrated interpolates the range ends between bracketing anchors
// by cumulative real-world distance. Requires at least two anchors with
// addresses strictly monotonic along the chain.
func extractCalibrated(cc CalibratedChain, low, high int) ([]network.Point, bool) {
	anchors := cc.Anchors
	if len(anchors) < 2 {
		return nil, false
	}
	asc, mono := anchorOrder(anchors)
	if !mono {
		return nil, false
	}

	p1, ok := anchorPos(cc.Chain, anchors, low, asc)
	if !ok {
		return nil, false
	}
	p2, ok := anchorPos(cc.Chain, anchors, high, asc)
	if !ok {
		return nil, false
	}
	if p1.fidx > p2.fidx {
		p1, p2 = p2, p1
	}

	pts := subPolyline(cc.Chain.Points, p1, p2)
	if len(pts) < 2 {
		return nil, false
	}
	return pts, true
}

// anchorOrder reports whether anchor addresses increase along the chain and
// whether they are strictly monotonic at all.
func anchorOrder(anchors []Anchor) (asc, mono bool) {
	asc = anchors[len(anchors)-1].Addr > anchors[0].Addr
	for i := 0; i+1 < len(anchors); i++ {
		if asc && anchors[i+1].Addr <= anchors[i].Addr {
			return asc, false
		}
		if !asc && anchors[i+1].Addr >= anchors[i].Addr {
			return asc, false
		}
	}
	return asc, true
}

// anchorPos locates the chain position of an address between its bracketing
// anchors, walking real distance between them. Targets outside the
// calibrated span clamp to the nearest anchor, up to the cutoff.
func anchorPos(chain Chain, anchors []Anchor, target int, asc bool) (chainPos, bool) {
	minAddr, maxAddr := anchors[0].Addr, anchors[len(anchors)-1].Addr
	if !asc {
		minAddr, maxAddr = maxAddr, minAddr
	}
	if target < minAddr {
		if minAddr-target > outsideCutoff {
			return chainPos{}, false
		}
		target = minAddr
	}
	if target > maxAddr {
		if target-maxAddr > outsideCutoff {
			return chainPos{}, false
		}
		target = maxAddr
	}

	for i := 0; i+1 < len(anchors); i++ {
		a, b := anchors[i], anchors[i+1]
		lo, hi := a.Addr, b.Addr
		if !asc {
			lo, hi = hi, lo
		}
		if target < lo || target > hi {
			continue
		}

		total := PathLength(chain.Points[a.Index : b.Index+1])
		if total == 0 {
			return chainPos{fidx: float64(a.Index), pt: chain.Points[a.Index]}, true
		}
		frac := math.Abs(float64(target-a.Addr)) / math.Abs(float64(b.Addr-a.Addr))
		want := frac * total

		acc := 0.0
		for j := a.Index; j < b.Index; j++ {
			d := Haversine(chain.Points[j], chain.Points[j+1])
			if acc+d >= want {
				var t float64
				if d > 0 {
					t = (want - acc) / d
				}
				return chainPos{fidx: float64(j) + t, pt: lerp(chain.Points[j], chain.Points[j+1], t)}, true
			}
			acc += d
		}
		return chainPos{fidx: float64(b.Index), pt: chain.Points[b.Index]}, true
	}
	return chainPos{}, false
}

// extractGrid finds where the chain's address axis crosses the projected
// range bounds and returns the portion between the crossings. A chain lying
// entirely inside the range is returned whole. With a single crossing, the
// chain terminus inside the range supplies the other end.
func extractGrid(chain Chain, dir string, coordLo, coordHi float64) ([]network.Point, bool) {
	p1, ok1 := crossing(chain, dir, coordLo)
	p2, ok2 := crossing(chain, dir, coordHi)

	switch {
	case ok1 && ok2:
		if p1.fidx > p2.fidx {
			p1, p2 = p2, p1
		}
		pts := subPolyline(chain.Points, p1, p2)
		return pts, len(pts) >= 2

	case !ok1 && !ok2:
		minV, maxV := axisSpan(chain, dir)
		if minV >= coordLo && maxV <= coordHi && len(chain.Points) >= 2 {
			out := make([]network.Point, len(chain.Points))
			copy(out, chain.Points)
			return out, true
		}
		return nil, false

	default:
		p := p1
		if ok2 {
			p = p2
		}
		term, ok := terminusInRange(chain, dir, coordLo, coordHi)
		if !ok {
			return nil, false
		}
		if term.fidx < p.fidx {
			p, term = term, p
		}
		pts := subPolyline(chain.Points, p, term)
		return pts, len(pts) >= 2
	}
}

// crossing finds the first place the chain's axis value crosses target,
// interpolating between the bracketing points.
func crossing(chain Chain, dir string, target float64) (chainPos, bool) {
	pts := chain.Points
	for i := 0; i+1 < len(pts); i++ {
		a := axisValue(pts[i], dir)
		b := axisValue(pts[i+1], dir)
		if (a <= target && target <= b) || (b <= target && target <= a) {
			var t float64
			if b != a {
				t = (target - a) / (b - a)
			}
			return chainPos{fidx: float64(i) + t, pt: lerp(pts[i], pts[i+1], t)}, true
		}
	}
	return chainPos{}, false
}

// terminusInRange returns whichever chain end sits inside [coordLo, coordHi].
func terminusInRange(chain Chain, dir string, coordLo, coordHi float64) (chainPos, bool) {
	last := len(chain.Points) - 1
	if v := axisValue(chain.Points[0], dir); v >= coordLo && v <= coordHi {
		return chainPos{fidx: 0, pt: chain.Points[0]}, true
	}
	if v := axisValue(chain.Points[last], dir); v >= coordLo && v <= coordHi {
		return chainPos{fidx: float64(last), pt: chain.Points[last]}, true
	}
	return chainPos{}, false
}

// subPolyline returns p1.pt, the chain points strictly between the two
// positions, then p2.pt. Positions closer than epsilon collapse to nothing.
func subPolyline(points []network.Point, p1, p2 chainPos) []network.Point {
	const eps = 1e-9
	if p2.fidx-p1.fidx < eps {
		return nil
	}
	out := []network.Point{p1.pt}
	start := int(math.Floor(p1.fidx)) + 1
	end := int(math.Ceil(p2.fidx)) - 1
	for i := start; i <= end && i < len(points); i++ {
		if float64(i)-p1.fidx < eps || p2.fidx-float64(i) < eps {
			continue
		}
		out = append(out, points[i])
	}
	out = append(out, p2.pt)
	return out
}

func lerp(a, b network.Point, t float64) network.Point {
	return network.Point{
		Lat: a.Lat + (b.Lat-a.Lat)*t,
		Lng: a.Lng + (b.Lng-a.Lng)*t,
	}
}
