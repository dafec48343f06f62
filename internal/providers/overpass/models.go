package overpass

// ElementType is the kind of an Overpass response element.
type ElementType string

const (
	ElementTypeNode     ElementType = "node"
	ElementTypeWay      ElementType = "way"
	ElementTypeRelation ElementType = "relation"
)

// APIResponse is the [out:json] body returned by the interpreter.
type APIResponse struct {
	Version   float64   `json:"version"`
	Generator string    `json:"generator"`
	Osm3s     Osm3s     `json:"osm3s"`
	Elements  []Element `json:"elements"`
	Remark    string    `json:"remark,omitempty"`
}

type Osm3s struct {
	TimestampOsmBase string `json:"timestamp_osm_base"`
	Copyright        string `json:"copyright"`
}

// Element is a flat union of node, way and relation fields. Which fields are
// populated depends on Type.
type Element struct {
	Type    ElementType       `json:"type"`
	ID      int64             `json:"id"`
	Lat     float64           `json:"lat,omitempty"`
	Lon     float64           `json:"lon,omitempty"`
	Tags    map[string]string `json:"tags,omitempty"`
	Nodes   []int64           `json:"nodes,omitempty"`
	Members []Member          `json:"members,omitempty"`
}

type Member struct {
	Type ElementType `json:"type"`
	Ref  int64       `json:"ref"`
	Role string      `json:"role"`
}
