package types

import "math"

// PixelPoint is an (x, y) position on the output canvas, origin top-left.
// It serializes as a two-element JSON array.
type PixelPoint [2]float64

func (p PixelPoint) X() float64 { return p[0] }
func (p PixelPoint) Y() float64 { return p[1] }

// Finite reports whether both coordinates are real numbers.
func (p PixelPoint) Finite() bool {
	return !math.IsNaN(p[0]) && !math.IsInf(p[0], 0) && !math.IsNaN(p[1]) && !math.IsInf(p[1], 0)
}

// PixelPath is an ordered sequence of pixel points, in the same order as
// the geometry it was projected from.
type PixelPath []PixelPoint

// Rounded returns a copy with every coordinate rounded to the given number
// of decimals.
func (p PixelPath) Rounded(decimals int) PixelPath {
	scale := math.Pow(10, float64(decimals))
	out := make(PixelPath, len(p))
	for i, pt := range p {
		out[i] = PixelPoint{math.Round(pt[0]*scale) / scale, math.Round(pt[1]*scale) / scale}
	}
	return out
}
