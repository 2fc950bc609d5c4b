package geometry

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/ticketless-chicago/sweep-cli/internal/network"
)

// EncodeLineString renders points as a GeoJSON LineString, [lng, lat] order.
func EncodeLineString(pts []network.Point) (string, error) {
	if len(pts) < 2 {
		return "", eris.New("geometry: linestring needs at least 2 points")
	}
	flat := make([]float64, 0, len(pts)*2)
	for _, p := range pts {
		flat = append(flat, p.Lng, p.Lat)
	}
	data, err := geojson.Marshal(geom.NewLineStringFlat(geom.XY, flat))
	if err != nil {
		return "", eris.Wrap(err, "geometry: encode linestring")
	}
	return string(data), nil
}
