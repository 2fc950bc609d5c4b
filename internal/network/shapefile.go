package network

import (
	"fmt"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// LoadShapefile reads named polylines from a shapefile. nameField selects the
// DBF attribute holding the street name (FULLNAME for TIGER edges,
// street_nam for the Chicago centerline export). Multi-part polylines split
// into one RawSegment per part.
func LoadShapefile(shpPath, nameField string) ([]RawSegment, error) {
	reader, err := shp.Open(shpPath)
	if err != nil {
		return nil, eris.Wrapf(err, "network: open shapefile %s", shpPath)
	}
	defer func() { _ = reader.Close() }()

	// Build field name → index map.
	fields := reader.Fields()
	fieldIdx := make(map[string]int, len(fields))
	for i, f := range fields {
		name := strings.TrimRight(f.String(), "\x00")
		fieldIdx[strings.ToLower(name)] = i
	}

	nameIdx, ok := fieldIdx[strings.ToLower(nameField)]
	if !ok {
		return nil, eris.Errorf("network: shapefile %s has no %q field", shpPath, nameField)
	}

	var segments []RawSegment
	var skipped int
	record := 0
	for reader.Next() {
		record++
		_, shape := reader.Shape()

		name := strings.TrimSpace(strings.TrimRight(reader.Attribute(nameIdx), "\x00"))
		pl, isLine := shape.(*shp.PolyLine)
		if name == "" || !isLine {
			skipped++
			continue
		}

		for part, pts := range polylineParts(pl) {
			if len(pts) < 2 {
				skipped++
				continue
			}
			segments = append(segments, RawSegment{
				ID:     fmt.Sprintf("%d-%d", record, part),
				Name:   name,
				Points: pts,
			})
		}
	}

	if skipped > 0 {
		zap.L().Debug("network: skipped shapefile records",
			zap.String("path", shpPath),
			zap.Int("skipped", skipped),
		)
	}
	return segments, nil
}

// polylineParts splits a shapefile polyline into its parts as Point slices.
func polylineParts(pl *shp.PolyLine) [][]Point {
	parts := make([][]Point, 0, pl.NumParts)
	for i := int32(0); i < pl.NumParts; i++ {
		start := pl.Parts[i]
		end := int32(len(pl.Points))
		if i+1 < pl.NumParts {
			end = pl.Parts[i+1]
		}
		pts := make([]Point, 0, end-start)
		for j := start; j < end; j++ {
			pts = append(pts, Point{Lat: pl.Points[j].Y, Lng: pl.Points[j].X})
		}
		parts = append(parts, pts)
	}
	return parts
}
