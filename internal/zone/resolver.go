// Package zone resolves structure coordinates to hazard zones (earthquake
// zones for bridges, precipitation zones for support structures) from zone
// polygon shapefiles, with a JSON sidecar cache persisted across runs.
package zone

import (
	"math"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
	"go.uber.org/zap"
)

// bufferMeters is the radius of the fallback search around a point that no
// polygon contains directly. Zone polygons exclude bodies of water, so
// structures over rivers legitimately sit outside every polygon.
const bufferMeters = 1000

// Source answers point-to-zone queries.
type Source interface {
	ZoneFor(e, n float64) (string, bool)
}

type namedZone struct {
	name string
	geom *geom.MultiPolygon
}

// Resolver holds the zone polygons of one shapefile in memory.
type Resolver struct {
	zones []namedZone
	log   *zap.Logger
}

// LoadShapefile reads zone polygons and their names from the given attribute
// column. Records without a polygon or without a name are skipped.
func LoadShapefile(path, nameAttribute string) (*Resolver, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "zone: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	nameIdx := -1
	for i, f := range reader.Fields() {
		name := strings.TrimRight(f.String(), "\x00")
		if strings.EqualFold(name, nameAttribute) {
			nameIdx = i
			break
		}
	}
	if nameIdx < 0 {
		return nil, eris.Errorf("zone: attribute %q not found in %s", nameAttribute, path)
	}

	r := &Resolver{log: zap.L().With(zap.String("component", "zone"))}
	var skipped int
	for reader.Next() {
		_, shape := reader.Shape()
		poly, ok := shape.(*shp.Polygon)
		if !ok {
			skipped++
			continue
		}
		mp := polygonToMultiPolygon(poly)
		if mp == nil {
			skipped++
			continue
		}
		name := strings.TrimSpace(strings.TrimRight(reader.Attribute(nameIdx), "\x00"))
		if name == "" {
			skipped++
			continue
		}
		r.zones = append(r.zones, namedZone{name: name, geom: mp})
	}
	if skipped > 0 {
		r.log.Debug("skipped shapefile records", zap.String("path", path), zap.Int("skipped", skipped))
	}
	if len(r.zones) == 0 {
		return nil, eris.Errorf("zone: no usable polygons in %s", path)
	}
	return r, nil
}

// ZoneFor resolves a projected coordinate to a zone name. Direct containment
// is tried first; points outside every polygon fall back to the nearest
// polygon within the buffer radius.
func (r *Resolver) ZoneFor(e, n float64) (string, bool) {
	p := geom.Coord{e, n}

	for _, z := range r.zones {
		if multiPolygonContains(z.geom, p) {
			return z.name, true
		}
	}

	best := ""
	bestDist := math.Inf(1)
	for _, z := range r.zones {
		if d := distanceToBoundary(z.geom, p); d < bestDist {
			best, bestDist = z.name, d
		}
	}
	if bestDist <= bufferMeters {
		return best, true
	}
	return "", false
}

// multiPolygonContains reports containment honoring interior rings.
func multiPolygonContains(mp *geom.MultiPolygon, p geom.Coord) bool {
	for i := 0; i < mp.NumPolygons(); i++ {
		poly := mp.Polygon(i)
		if poly.NumLinearRings() == 0 {
			continue
		}
		if !xy.IsPointInRing(poly.Layout(), p, poly.LinearRing(0).FlatCoords()) {
			continue
		}
		inHole := false
		for j := 1; j < poly.NumLinearRings(); j++ {
			if xy.IsPointInRing(poly.Layout(), p, poly.LinearRing(j).FlatCoords()) {
				inHole = true
				break
			}
		}
		if !inHole {
			return true
		}
	}
	return false
}

// distanceToBoundary returns the minimum distance from the point to any ring
// of the multipolygon.
func distanceToBoundary(mp *geom.MultiPolygon, p geom.Coord) float64 {
	min := math.Inf(1)
	for i := 0; i < mp.NumPolygons(); i++ {
		poly := mp.Polygon(i)
		for j := 0; j < poly.NumLinearRings(); j++ {
			d := xy.DistanceFromPointToLineString(poly.Layout(), p, poly.LinearRing(j).FlatCoords())
			if d < min {
				min = d
			}
		}
	}
	return min
}

// polygonToMultiPolygon converts a shapefile polygon to a go-geom
// multipolygon, one part per ring.
func polygonToMultiPolygon(p *shp.Polygon) *geom.MultiPolygon {
	if p == nil || p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	mp := geom.NewMultiPolygon(geom.XY)
	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		end := int32(len(p.Points))
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		}

		flat := make([]float64, 0, 2*(end-start))
		for j := start; j < end; j++ {
			flat = append(flat, p.Points[j].X, p.Points[j].Y)
		}

		ring := geom.NewLinearRingFlat(geom.XY, flat)
		poly := geom.NewPolygon(geom.XY)
		if err := poly.Push(ring); err != nil {
			continue
		}
		if err := mp.Push(poly); err != nil {
			continue
		}
	}

	if mp.NumPolygons() == 0 {
		return nil
	}
	return mp
}
