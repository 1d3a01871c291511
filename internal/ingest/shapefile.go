package ingest

import (
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
	"go.uber.org/zap"

	"github.com/pit-analytics/shelter-cli/internal/model"
)

// RegionInfo is what a boundary shapefile contributes per region: a
// representative point plus the name and state attributes when the file
// carries them.
type RegionInfo struct {
	Name     string
	State    string
	Location model.Point
}

// LoadRegionInfo reads a CoC boundary shapefile and returns each
// region's centroid and attributes keyed by CoC number. COCNUM is
// required; COCNAME and STATE are optional. The centroid is the only
// thing taken from the geometry; boundaries themselves are not carried
// anywhere.
func LoadRegionInfo(shpPath string) (map[string]RegionInfo, error) {
	reader, err := shp.Open(shpPath)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open shapefile %s", shpPath)
	}
	defer func() { _ = reader.Close() }()

	idIdx := fieldIndex(reader, "COCNUM")
	if idIdx < 0 {
		return nil, eris.New("ingest: required shapefile field COCNUM not found")
	}
	nameIdx := fieldIndex(reader, "COCNAME")
	stateIdx := fieldIndex(reader, "STATE")

	attr := func(idx int) string {
		if idx < 0 {
			return ""
		}
		return strings.TrimSpace(strings.TrimRight(reader.Attribute(idx), "\x00"))
	}

	regions := make(map[string]RegionInfo)
	var skipped int
	for reader.Next() {
		_, shape := reader.Shape()

		regionID := attr(idIdx)
		if regionID == "" {
			continue
		}

		pt, ok := shapeCentroid(shape)
		if !ok {
			skipped++
			continue
		}
		regions[regionID] = RegionInfo{
			Name:     attr(nameIdx),
			State:    attr(stateIdx),
			Location: pt,
		}
	}

	if skipped > 0 {
		zap.L().Debug("ingest: skipped shapefile records without usable geometry", zap.Int("skipped", skipped))
	}
	zap.L().Info("ingest: shapefile loaded", zap.String("path", shpPath), zap.Int("regions", len(regions)))
	return regions, nil
}

// shapeCentroid computes a representative point for a shapefile shape.
func shapeCentroid(shape shp.Shape) (model.Point, bool) {
	switch s := shape.(type) {
	case *shp.Point:
		return model.Point{Lat: s.Y, Lon: s.X}, true

	case *shp.Polygon:
		mp := polygonToMultiPolygon(s)
		if mp == nil {
			return model.Point{}, false
		}
		c, err := xy.Centroid(mp)
		if err != nil || len(c) < 2 {
			return model.Point{}, false
		}
		return model.Point{Lat: c[1], Lon: c[0]}, true

	default:
		return model.Point{}, false
	}
}

// polygonToMultiPolygon converts a shapefile Polygon to a geom.MultiPolygon.
func polygonToMultiPolygon(p *shp.Polygon) *geom.MultiPolygon {
	if p == nil || p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	mp := geom.NewMultiPolygon(geom.XY).SetSRID(4326)

	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		var end int32
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		} else {
			end = int32(len(p.Points))
		}

		flat := make([]float64, 0, (end-start)*2)
		for j := start; j < end; j++ {
			flat = append(flat, p.Points[j].X, p.Points[j].Y)
		}

		ring := geom.NewLinearRingFlat(geom.XY, flat)
		poly := geom.NewPolygon(geom.XY)
		if err := poly.Push(ring); err != nil {
			zap.L().Debug("ingest: skipping malformed polygon ring", zap.Int32("part", i), zap.Error(err))
			continue
		}
		if err := mp.Push(poly); err != nil {
			zap.L().Debug("ingest: skipping malformed polygon part", zap.Int32("part", i), zap.Error(err))
			continue
		}
	}

	if mp.NumPolygons() == 0 {
		return nil
	}
	return mp
}

// fieldIndex returns the index of a named field in the shapefile, or -1 if not found.
func fieldIndex(reader *shp.Reader, name string) int {
	for i, f := range reader.Fields() {
		if strings.EqualFold(strings.TrimRight(f.String(), "\x00"), name) {
			return i
		}
	}
	return -1
}
