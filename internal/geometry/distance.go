package geometry

import (
	"math"

	"github.com/ticketless-chicago/sweep-cli/internal/network"
)

const earthRadiusMeters = 6371000.0

// Haversine returns the great-circle distance between two points in meters.
func Haversine(a, b network.Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}

// PathLength sums the haversine distance over a polyline, in meters.
func PathLength(pts []network.Point) float64 {
	var total float64
	for i := 0; i+1 < len(pts); i++ {
		total += Haversine(pts[i], pts[i+1])
	}
	return total
}
