package network

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"
)

// LoadGeoJSON reads a FeatureCollection of named line features.
// nameProperty selects the property holding the street name (default "name").
// MultiLineString features split into one RawSegment per part; features with
// no name or fewer than two points are skipped.
func LoadGeoJSON(path, nameProperty string) ([]RawSegment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "network: read %s", path)
	}

	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, eris.Wrapf(err, "network: decode %s", path)
	}

	if nameProperty == "" {
		nameProperty = "name"
	}

	var segments []RawSegment
	var skipped int
	for i, f := range fc.Features {
		name, _ := f.Properties[nameProperty].(string)
		name = strings.TrimSpace(name)
		if name == "" {
			skipped++
			continue
		}

		id := f.ID
		if id == "" {
			id = fmt.Sprintf("feature-%d", i)
		}

		lines := lineStrings(f.Geometry)
		if len(lines) == 0 {
			skipped++
			continue
		}
		for part, ls := range lines {
			pts := toPoints(ls)
			if len(pts) < 2 {
				skipped++
				continue
			}
			segID := id
			if len(lines) > 1 {
				segID = fmt.Sprintf("%s-%d", id, part)
			}
			segments = append(segments, RawSegment{ID: segID, Name: name, Points: pts})
		}
	}

	if skipped > 0 {
		zap.L().Debug("network: skipped geojson features",
			zap.String("path", path),
			zap.Int("skipped", skipped),
		)
	}
	return segments, nil
}

func lineStrings(g geom.T) []*geom.LineString {
	switch t := g.(type) {
	case *geom.LineString:
		return []*geom.LineString{t}
	case *geom.MultiLineString:
		out := make([]*geom.LineString, 0, t.NumLineStrings())
		for i := 0; i < t.NumLineStrings(); i++ {
			out = append(out, t.LineString(i))
		}
		return out
	}
	return nil
}

// toPoints converts GeoJSON [lng, lat] coordinates to Points.
func toPoints(ls *geom.LineString) []Point {
	coords := ls.Coords()
	pts := make([]Point, 0, len(coords))
	for _, c := range coords {
		pts = append(pts, Point{Lat: c[1], Lng: c[0]})
	}
	return pts
}
