// Package projection maps geographic coordinates onto a fixed-size pixel
// canvas with a linear bounding-box transform.
package projection

import (
	"fmt"

	"medi-skimap/internal/types"

	"github.com/paulmach/orb"
)

// Projector is a validated bounds-to-canvas transform. X grows east, Y grows
// south, so the north-west corner of the bounds lands on (0, 0).
type Projector struct {
	bounds types.GeoBounds
	width  float64
	height float64
}

// New returns a Projector for the given bounds and canvas size. Degenerate
// bounds or a non-positive canvas yield ErrInvalidBounds.
func New(bounds types.GeoBounds, width, height int) (*Projector, error) {
	if err := bounds.Validate(); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: canvas %dx%d must be positive", types.ErrInvalidBounds, width, height)
	}
	return &Projector{bounds: bounds, width: float64(width), height: float64(height)}, nil
}

// Project converts a single coordinate without building a Projector.
func Project(lon, lat float64, bounds types.GeoBounds, width, height int) (float64, float64, error) {
	p, err := New(bounds, width, height)
	if err != nil {
		return 0, 0, err
	}
	pt := p.Project(orb.Point{lon, lat})
	return pt.X(), pt.Y(), nil
}

func (p *Projector) Bounds() types.GeoBounds { return p.bounds }
func (p *Projector) Width() int              { return int(p.width) }
func (p *Projector) Height() int             { return int(p.height) }

// Project maps a [lon,lat] point to pixel space.
func (p *Projector) Project(pt orb.Point) types.PixelPoint {
	x := (pt.Lon() - p.bounds.MinLon) / p.bounds.Width() * p.width
	y := p.height - (pt.Lat()-p.bounds.MinLat)/p.bounds.Height()*p.height
	return types.PixelPoint{x, y}
}

// Unproject is the inverse of Project.
func (p *Projector) Unproject(px types.PixelPoint) orb.Point {
	lon := px.X()/p.width*p.bounds.Width() + p.bounds.MinLon
	lat := (p.height-px.Y())/p.height*p.bounds.Height() + p.bounds.MinLat
	return orb.Point{lon, lat}
}

// ProjectLine projects every point of ls, preserving order.
func (p *Projector) ProjectLine(ls orb.LineString) types.PixelPath {
	out := make(types.PixelPath, len(ls))
	for i, pt := range ls {
		out[i] = p.Project(pt)
	}
	return out
}

// ProjectRing projects a polygon ring, preserving order and closure.
func (p *Projector) ProjectRing(r orb.Ring) types.PixelPath {
	return p.ProjectLine(orb.LineString(r))
}
