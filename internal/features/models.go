package features

import "github.com/paulmach/orb"

// RawNode is a point of the fetched graph.
type RawNode struct {
	ID  int64
	Lat float64
	Lon float64
}

// RawWay is an ordered list of node references with tags.
type RawWay struct {
	ID       int64
	Tags     map[string]string
	NodeRefs []int64
}

type RawMember struct {
	Type string
	Ref  int64
	Role string
}

// RawRelation groups member elements, used here for multipolygon water bodies.
type RawRelation struct {
	ID      int64
	Tags    map[string]string
	Members []RawMember
}

// Graph is the unordered raw data fetched for one area.
type Graph struct {
	Nodes     []RawNode
	Ways      []RawWay
	Relations []RawRelation
}

// Feature kinds.
const (
	KindLift  = "lift"
	KindPiste = "piste"
	KindWater = "water"
)

type Lift struct {
	OsmID       int64
	Name        string
	Type        string
	Difficulty  string
	Status      string
	Capacity    int
	Description string
	Geometry    orb.LineString
}

type Piste struct {
	OsmID      int64
	Name       string
	Type       string
	Difficulty string
	Geometry   orb.LineString
}

// WaterBody is a closed polygon. Rings are closed and non-self-intersecting.
type WaterBody struct {
	OsmID     int64
	Name      string
	Type      string
	Exterior  orb.Ring
	Interiors []orb.Ring
}

// Polygon returns the exterior followed by the interior rings.
func (w WaterBody) Polygon() orb.Polygon {
	p := make(orb.Polygon, 0, 1+len(w.Interiors))
	p = append(p, w.Exterior)
	return append(p, w.Interiors...)
}
