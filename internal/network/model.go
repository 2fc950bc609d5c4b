// Package network loads the raw street-network dataset and indexes its
// segments by canonical street name.
package network

// Point is a WGS84 coordinate.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// RawSegment is one named polyline from the street-network dataset.
// Segments are immutable inputs; downstream code never mutates Points.
type RawSegment struct {
	ID     string
	Name   string
	Points []Point
}
