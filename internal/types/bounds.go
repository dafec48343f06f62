package types

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// GeoBounds is an axis-aligned geographic rectangle in decimal degrees.
type GeoBounds struct {
	MinLon float64 `json:"minLon"`
	MinLat float64 `json:"minLat"`
	MaxLon float64 `json:"maxLon"`
	MaxLat float64 `json:"maxLat"`
}

// NewGeoBounds builds bounds and checks that they are non-degenerate.
func NewGeoBounds(minLon, minLat, maxLon, maxLat float64) (GeoBounds, error) {
	b := GeoBounds{MinLon: minLon, MinLat: minLat, MaxLon: maxLon, MaxLat: maxLat}
	if err := b.Validate(); err != nil {
		return GeoBounds{}, err
	}
	return b, nil
}

// Validate returns ErrInvalidBounds unless min < max on both axes.
func (b GeoBounds) Validate() error {
	for _, v := range []float64{b.MinLon, b.MinLat, b.MaxLon, b.MaxLat} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite coordinate in %s", ErrInvalidBounds, b)
		}
	}
	if !(b.MinLon < b.MaxLon) {
		return fmt.Errorf("%w: minLon %f must be less than maxLon %f", ErrInvalidBounds, b.MinLon, b.MaxLon)
	}
	if !(b.MinLat < b.MaxLat) {
		return fmt.Errorf("%w: minLat %f must be less than maxLat %f", ErrInvalidBounds, b.MinLat, b.MaxLat)
	}
	return nil
}

func (b GeoBounds) Width() float64  { return b.MaxLon - b.MinLon }
func (b GeoBounds) Height() float64 { return b.MaxLat - b.MinLat }

// Center returns the midpoint as a [lon,lat] point.
func (b GeoBounds) Center() orb.Point {
	return orb.Point{(b.MinLon + b.MaxLon) / 2, (b.MinLat + b.MaxLat) / 2}
}

// Pad expands every edge outward by ratio times the extent of its axis.
func (b GeoBounds) Pad(ratio float64) GeoBounds {
	dLon := b.Width() * ratio
	dLat := b.Height() * ratio
	return GeoBounds{
		MinLon: b.MinLon - dLon,
		MinLat: b.MinLat - dLat,
		MaxLon: b.MaxLon + dLon,
		MaxLat: b.MaxLat + dLat,
	}
}

// OverpassBBox formats the bounds in Overpass QL order: south,west,north,east.
func (b GeoBounds) OverpassBBox() string {
	return fmt.Sprintf("%f,%f,%f,%f", b.MinLat, b.MinLon, b.MaxLat, b.MaxLon)
}

func (b GeoBounds) String() string {
	return fmt.Sprintf("[%f,%f,%f,%f]", b.MinLon, b.MinLat, b.MaxLon, b.MaxLat)
}
