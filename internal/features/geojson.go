package features

import (
	"github.com/paulmach/orb/geojson"
)

// FeatureCollection exports the assembly in geographic coordinates.
func (a *Assembly) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, l := range a.Lifts {
		f := geojson.NewFeature(l.Geometry)
		f.ID = l.OsmID
		f.Properties["kind"] = KindLift
		f.Properties["osm_id"] = l.OsmID
		f.Properties["name"] = l.Name
		f.Properties["type"] = l.Type
		f.Properties["difficulty"] = l.Difficulty
		f.Properties["status"] = l.Status
		f.Properties["capacity"] = l.Capacity
		fc.Append(f)
	}

	for _, p := range a.Pistes {
		f := geojson.NewFeature(p.Geometry)
		f.ID = p.OsmID
		f.Properties["kind"] = KindPiste
		f.Properties["osm_id"] = p.OsmID
		f.Properties["name"] = p.Name
		f.Properties["type"] = p.Type
		f.Properties["difficulty"] = p.Difficulty
		fc.Append(f)
	}

	for _, w := range a.WaterBodies {
		f := geojson.NewFeature(w.Polygon())
		f.ID = w.OsmID
		f.Properties["kind"] = KindWater
		f.Properties["osm_id"] = w.OsmID
		f.Properties["name"] = w.Name
		f.Properties["type"] = w.Type
		fc.Append(f)
	}

	return fc
}
