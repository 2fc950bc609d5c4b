// Package geometry merges same-named network segments into continuous chains
// and extracts address-range sub-polylines from them.
package geometry

import (
	"fmt"

	"github.com/ticketless-chicago/sweep-cli/internal/network"
)

// Chain is a maximal continuous polyline merged from one or more same-named
// raw segments. Junctions are the indices of points that were original
// segment boundaries: real intersection coordinates, unlike anything
// interpolated later.
type Chain struct {
	Points    []network.Point
	Junctions []int
}

// nodeKey rounds an endpoint to ~1m so fragments whose shared intersections
// differ by float noise still connect.
func nodeKey(p network.Point) string {
	return fmt.Sprintf("%.5f,%.5f", p.Lat, p.Lng)
}

// oriented is a reference into the segment slice with a traversal direction.
type oriented struct {
	idx      int
	reversed bool
}

// MergeChains merges the segments registered under one canonical key into
// maximal chains. Each unused segment seeds a chain which is extended at both
// ends by any unused segment sharing a rounded endpoint, reversed when its
// far end is the one that matches. When several unused segments share an
// endpoint the first found wins; reconstruction at multi-way junctions of
// identically named segments is heuristic, not unique. Deterministic for a
// given input order. Every segment lands in exactly one chain.
func MergeChains(segments []network.RawSegment) []Chain {
	used := make([]bool, len(segments))

	touch := make(map[string][]int)
	for i, seg := range segments {
		if len(seg.Points) < 2 {
			used[i] = true
			continue
		}
		head := nodeKey(seg.Points[0])
		tail := nodeKey(seg.Points[len(seg.Points)-1])
		touch[head] = append(touch[head], i)
		if tail != head {
			touch[tail] = append(touch[tail], i)
		}
	}

	// findUnused returns an unused segment touching node, oriented so that
	// its first point sits at node.
	findUnused := func(node string) (oriented, bool) {
		for _, i := range touch[node] {
			if used[i] {
				continue
			}
			if nodeKey(segments[i].Points[0]) == node {
				return oriented{idx: i}, true
			}
			return oriented{idx: i, reversed: true}, true
		}
		return oriented{}, false
	}

	var chains []Chain
	for seed := range segments {
		if used[seed] {
			continue
		}
		used[seed] = true
		parts := []oriented{{idx: seed}}

		// Extend past the tail.
		for {
			last := parts[len(parts)-1]
			end := orientedEnd(segments[last.idx], last.reversed)
			next, ok := findUnused(nodeKey(end))
			if !ok {
				break
			}
			used[next.idx] = true
			parts = append(parts, next)
		}

		// Extend past the head.
		for {
			first := parts[0]
			start := orientedStart(segments[first.idx], first.reversed)
			prev, ok := findUnused(nodeKey(start))
			if !ok {
				break
			}
			used[prev.idx] = true
			// prev is oriented away from the chain head; flip it so it can
			// precede the chain.
			parts = append([]oriented{{idx: prev.idx, reversed: !prev.reversed}}, parts...)
		}

		chains = append(chains, materialize(segments, parts))
	}
	return chains
}

func orientedStart(seg network.RawSegment, reversed bool) network.Point {
	if reversed {
		return seg.Points[len(seg.Points)-1]
	}
	return seg.Points[0]
}

func orientedEnd(seg network.RawSegment, reversed bool) network.Point {
	if reversed {
		return seg.Points[0]
	}
	return seg.Points[len(seg.Points)-1]
}

// materialize concatenates the oriented parts into one point sequence,
// keeping the shared endpoint once (the chain's copy wins) and recording
// every original segment boundary as a junction.
func materialize(segments []network.RawSegment, parts []oriented) Chain {
	var c Chain
	for _, p := range parts {
		pts := segments[p.idx].Points
		if p.reversed {
			pts = reversedPoints(pts)
		}
		if len(c.Points) == 0 {
			c.Points = append(c.Points, pts...)
			c.Junctions = append(c.Junctions, 0)
		} else {
			c.Points = append(c.Points, pts[1:]...)
		}
		c.Junctions = append(c.Junctions, len(c.Points)-1)
	}
	return c
}

func reversedPoints(pts []network.Point) []network.Point {
	out := make([]network.Point, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}
