package records

import (
	"medi-skimap/internal/features"
	"medi-skimap/internal/projection"
	"medi-skimap/internal/types"

	"github.com/paulmach/orb"
	"github.com/twpayne/go-polyline"
)

// Map projects every assembled feature and copies its attributes into
// records. It does not fail; missing storage fields get fixed defaults.
func Map(a *features.Assembly, p *projection.Projector) Set {
	var s Set
	if a == nil {
		return s
	}

	for _, l := range a.Lifts {
		s.Lifts = append(s.Lifts, LiftRecord{
			OsmID:       l.OsmID,
			Name:        l.Name,
			Type:        l.Type,
			Difficulty:  l.Difficulty,
			Status:      l.Status,
			Capacity:    l.Capacity,
			CurrentLoad: DefaultCurrentLoad,
			Description: l.Description,
			WaitTime:    DefaultWaitTime,
			Path:        p.ProjectLine(l.Geometry).Rounded(pathDecimals),
			GeoPolyline: encodePolyline(l.Geometry),
		})
	}

	for _, pi := range a.Pistes {
		s.Pistes = append(s.Pistes, PisteRecord{
			OsmID:       pi.OsmID,
			Name:        pi.Name,
			Type:        pi.Type,
			Difficulty:  pi.Difficulty,
			Path:        p.ProjectLine(pi.Geometry).Rounded(pathDecimals),
			GeoPolyline: encodePolyline(pi.Geometry),
		})
	}

	for _, w := range a.WaterBodies {
		holes := make([]types.PixelPath, 0, len(w.Interiors))
		for _, r := range w.Interiors {
			holes = append(holes, p.ProjectRing(r).Rounded(pathDecimals))
		}
		s.WaterBodies = append(s.WaterBodies, WaterRecord{
			OsmID: w.OsmID,
			Name:  w.Name,
			Type:  w.Type,
			Path:  p.ProjectRing(w.Exterior).Rounded(pathDecimals),
			Holes: holes,
		})
	}

	return s
}

// encodePolyline encodes geometry as a Google polyline, which orders each
// coordinate as lat,lon.
func encodePolyline(ls orb.LineString) string {
	coords := make([][]float64, len(ls))
	for i, pt := range ls {
		coords[i] = []float64{pt.Lat(), pt.Lon()}
	}
	return string(polyline.EncodeCoords(coords))
}
