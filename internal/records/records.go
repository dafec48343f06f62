// Package records flattens assembled features into storage-ready records
// with pixel-space paths.
package records

import (
	"encoding/json"
	"slices"

	"medi-skimap/internal/types"
)

// Storage defaults for fields the assembler does not produce.
const (
	DefaultCurrentLoad  = 0
	DefaultWaitTime     = 5
	DefaultResortStatus = "open"
	// Snow and weather are not observed during extraction.
	DefaultSnowDepth         = 0
	DefaultWeatherConditions = "unknown"
	StatusOpen          = "open"

	pathDecimals = 2
)

type LiftRecord struct {
	ResortID    int64           `json:"resort_id"`
	OsmID       int64           `json:"osm_id"`
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	Difficulty  string          `json:"difficulty"`
	Status      string          `json:"status"`
	Capacity    int             `json:"capacity"`
	CurrentLoad int             `json:"current_load"`
	Description string          `json:"description"`
	ImageURL    string          `json:"image_url"`
	WebcamURL   string          `json:"webcam_url"`
	WaitTime    int             `json:"wait_time"`
	Path        types.PixelPath `json:"path"`
	GeoPolyline string          `json:"geo_polyline"`
}

type PisteRecord struct {
	ResortID    int64           `json:"resort_id"`
	OsmID       int64           `json:"osm_id"`
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	Difficulty  string          `json:"difficulty"`
	Path        types.PixelPath `json:"path"`
	GeoPolyline string          `json:"geo_polyline"`
}

type WaterRecord struct {
	ResortID int64             `json:"resort_id"`
	OsmID    int64             `json:"osm_id"`
	Name     string            `json:"name"`
	Type     string            `json:"type"`
	Path     types.PixelPath   `json:"path"`
	Holes    []types.PixelPath `json:"holes"`
}

// ResortRecord is the summary row stored for each resort.
type ResortRecord struct {
	ID                int64           `json:"id"`
	Name              string          `json:"name"`
	Location          string          `json:"location"`
	Description       string          `json:"description"`
	Website           string          `json:"website_url"`
	Status            string          `json:"status"`
	SnowDepth         int             `json:"snow_depth"`
	WeatherConditions string          `json:"weather_conditions"`
	TotalLifts        int             `json:"total_lifts"`
	OpenLifts         int             `json:"open_lifts"`
	ImageURL          string          `json:"image_url"`
	Timezone          string          `json:"timezone"`
	Bounds            types.GeoBounds `json:"bounds"`
	CenterLat         float64         `json:"center_lat"`
	CenterLon         float64         `json:"center_lon"`
}

// Set is every record produced for one resort.
type Set struct {
	Lifts       []LiftRecord  `json:"lifts"`
	Pistes      []PisteRecord `json:"pistes"`
	WaterBodies []WaterRecord `json:"water_bodies"`
}

// Clone copies the record slices so stamping the copy leaves s untouched.
// Paths are shared; records never mutate them.
func (s *Set) Clone() Set {
	return Set{
		Lifts:       slices.Clone(s.Lifts),
		Pistes:      slices.Clone(s.Pistes),
		WaterBodies: slices.Clone(s.WaterBodies),
	}
}

// WithResortID stamps every record with the stored resort id.
func (s *Set) WithResortID(id int64) {
	for i := range s.Lifts {
		s.Lifts[i].ResortID = id
	}
	for i := range s.Pistes {
		s.Pistes[i].ResortID = id
	}
	for i := range s.WaterBodies {
		s.WaterBodies[i].ResortID = id
	}
}

// OpenLifts counts lifts whose status is open.
func (s *Set) OpenLifts() int {
	n := 0
	for _, l := range s.Lifts {
		if l.Status == StatusOpen {
			n++
		}
	}
	return n
}

// PathJSON serializes a path as a JSON array of [x,y] pairs. Non-finite
// coordinates, which JSON cannot carry, yield an empty array.
func PathJSON(path types.PixelPath) string {
	if path == nil {
		return "[]"
	}
	b, err := json.Marshal(path)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// HolesJSON serializes interior rings as a JSON array of paths.
func HolesJSON(holes []types.PixelPath) string {
	if len(holes) == 0 {
		return "[]"
	}
	b, err := json.Marshal(holes)
	if err != nil {
		return "[]"
	}
	return string(b)
}
