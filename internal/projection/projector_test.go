package projection

import (
	"errors"
	"math"
	"testing"

	"medi-skimap/internal/types"

	"github.com/paulmach/orb"
)

func TestProjector_Corners(t *testing.T) {
	bounds := []types.GeoBounds{
		{MinLon: 10.0, MinLat: 47.0, MaxLon: 10.1, MaxLat: 47.1},
		{MinLon: -107.7, MinLat: 39.0, MaxLon: -107.5, MaxLat: 39.2},
		{MinLon: 179.0, MinLat: -10.0, MaxLon: 179.5, MaxLat: -9.0},
	}
	const w, h = 1600, 1200

	for _, b := range bounds {
		t.Run(b.String(), func(t *testing.T) {
			p, err := New(b, w, h)
			if err != nil {
				t.Fatalf("New() unexpected error = %v", err)
			}

			corners := []struct {
				name string
				geo  orb.Point
				want types.PixelPoint
			}{
				{"north-west", orb.Point{b.MinLon, b.MaxLat}, types.PixelPoint{0, 0}},
				{"north-east", orb.Point{b.MaxLon, b.MaxLat}, types.PixelPoint{w, 0}},
				{"south-west", orb.Point{b.MinLon, b.MinLat}, types.PixelPoint{0, h}},
				{"south-east", orb.Point{b.MaxLon, b.MinLat}, types.PixelPoint{w, h}},
			}
			for _, c := range corners {
				got := p.Project(c.geo)
				if math.Abs(got.X()-c.want.X()) > 1e-6 || math.Abs(got.Y()-c.want.Y()) > 1e-6 {
					t.Errorf("Project(%s) = %v, want %v", c.name, got, c.want)
				}
			}
		})
	}
}

func TestProjector_RoundTrip(t *testing.T) {
	b := types.GeoBounds{MinLon: 10.0, MinLat: 47.0, MaxLon: 10.1, MaxLat: 47.1}
	p, err := New(b, 1600, 1200)
	if err != nil {
		t.Fatalf("New() unexpected error = %v", err)
	}

	points := []orb.Point{{10.01, 47.01}, {10.09, 47.09}, {10.05, 47.0}, {10.1, 47.1}, {10.033, 47.077}}
	for _, pt := range points {
		got := p.Unproject(p.Project(pt))
		if math.Abs(got.Lon()-pt.Lon()) > 1e-9 || math.Abs(got.Lat()-pt.Lat()) > 1e-9 {
			t.Errorf("Unproject(Project(%v)) = %v", pt, got)
		}
	}
}

func TestProjector_InvalidBounds(t *testing.T) {
	tests := []struct {
		name   string
		bounds types.GeoBounds
		w, h   int
	}{
		{"zero width", types.GeoBounds{MinLon: 10, MinLat: 47, MaxLon: 10, MaxLat: 47.1}, 1600, 1200},
		{"zero height", types.GeoBounds{MinLon: 10, MinLat: 47, MaxLon: 10.1, MaxLat: 47}, 1600, 1200},
		{"zero canvas", types.GeoBounds{MinLon: 10, MinLat: 47, MaxLon: 10.1, MaxLat: 47.1}, 0, 1200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.bounds, tt.w, tt.h); !errors.Is(err, types.ErrInvalidBounds) {
				t.Errorf("New() error = %v, want ErrInvalidBounds", err)
			}
			if _, _, err := Project(10.05, 47.05, tt.bounds, tt.w, tt.h); !errors.Is(err, types.ErrInvalidBounds) {
				t.Errorf("Project() error = %v, want ErrInvalidBounds", err)
			}
		})
	}
}

func TestProjector_NorthIsUp(t *testing.T) {
	b := types.GeoBounds{MinLon: 10.0, MinLat: 47.0, MaxLon: 10.1, MaxLat: 47.1}
	p, _ := New(b, 1600, 1200)

	path := p.ProjectLine(orb.LineString{{10.01, 47.01}, {10.09, 47.09}})
	if len(path) != 2 {
		t.Fatalf("len(path) = %d, want 2", len(path))
	}
	if path[0].Y() <= path[1].Y() {
		t.Errorf("southern point y = %v, northern point y = %v, want southern below northern", path[0].Y(), path[1].Y())
	}
	if path[0].X() >= path[1].X() {
		t.Errorf("western point x = %v, eastern point x = %v, want western left of eastern", path[0].X(), path[1].X())
	}
}
