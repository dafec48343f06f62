package contour

import (
	"math"
	"testing"

	"medi-skimap/internal/projection"
	"medi-skimap/internal/types"
)

var testBounds = types.GeoBounds{MinLon: 10.0, MinLat: 47.0, MaxLon: 10.1, MaxLat: 47.1}

func gridFrom(f func(r, c int) float64, rows, cols int) types.ElevationGrid {
	g := types.NewZeroElevationGrid(testBounds, rows, cols)
	for r := range rows {
		for c := range cols {
			g.Values[r][c] = f(r, c)
		}
	}
	return g
}

func TestLevels(t *testing.T) {
	tests := []struct {
		name     string
		lo, hi   float64
		interval float64
		want     []float64
	}{
		{"flat zero", 0, 0, 20, []float64{0}},
		{"exact multiples", 1000, 1100, 20, []float64{1000, 1020, 1040, 1060, 1080, 1100}},
		{"brackets both ends", 1013, 1047, 20, []float64{1000, 1020, 1040, 1060}},
		{"major", 1013, 1247, 100, []float64{1000, 1100, 1200, 1300}},
		{"negative", -35, -5, 20, []float64{-40, -20, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Levels(tt.lo, tt.hi, tt.interval)
			if len(got) != len(tt.want) {
				t.Fatalf("Levels() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if math.Abs(got[i]-tt.want[i]) > 1e-9 {
					t.Errorf("Levels()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestLevels_AlwaysBracket(t *testing.T) {
	ranges := [][2]float64{{0, 0}, {1.5, 2.5}, {-12.3, 4007.9}, {812, 812}, {2999.999, 3000.001}, {0, 1e7}}
	for _, rg := range ranges {
		for _, interval := range []float64{20, 100} {
			levels := Levels(rg[0], rg[1], interval)
			if len(levels) == 0 {
				t.Fatalf("Levels(%v, %v) is empty", rg, interval)
			}
			if levels[0] > rg[0] || levels[len(levels)-1] < rg[1] {
				t.Errorf("Levels(%v, %v) = [%v .. %v] does not bracket", rg, interval, levels[0], levels[len(levels)-1])
			}
			if len(levels) > maxLevels {
				t.Errorf("Levels(%v, %v) has %d levels, want at most %d", rg, interval, len(levels), maxLevels)
			}
		}
	}
}

func TestGenerate_FlatGrid(t *testing.T) {
	p, _ := projection.New(testBounds, 1600, 1200)
	grid := types.NewZeroElevationGrid(testBounds, 100, 100)

	set := Generate(grid, p, Options{})

	if len(set.MinorLevels) != 1 || len(set.MajorLevels) != 1 {
		t.Errorf("levels = %v / %v, want a single flat level each", set.MinorLevels, set.MajorLevels)
	}
	if len(set.Minor) != 0 || len(set.Major) != 0 {
		t.Errorf("lines = %d / %d, want none", len(set.Minor), len(set.Major))
	}
}

func TestGenerate_Ramp(t *testing.T) {
	const w, h = 1600, 1200
	p, _ := projection.New(testBounds, w, h)
	// Elevation rises west to east from 1001 to 1100.
	grid := gridFrom(func(r, c int) float64 { return 1001 + float64(c) }, 10, 100)

	set := Generate(grid, p, Options{MinorInterval: 20, MajorInterval: 100})

	if len(set.Major) != 0 {
		t.Errorf("len(Major) = %d, want 0 (levels 1000 and 1100 sit on the range ends)", len(set.Major))
	}
	// Levels 1020, 1040, 1060, 1080 each produce one south-north line.
	if len(set.Minor) != 4 {
		t.Fatalf("len(Minor) = %d, want 4", len(set.Minor))
	}
	for _, line := range set.Minor {
		if len(line.Path) != 10 {
			t.Errorf("level %v: len(Path) = %d, want 10", line.Level, len(line.Path))
		}
		wantX := (line.Level - 1001) / 99 * w
		for _, pt := range line.Path {
			if math.Abs(pt.X()-wantX) > 1e-6 {
				t.Errorf("level %v: x = %v, want %v", line.Level, pt.X(), wantX)
				break
			}
			if pt.Y() < 0 || pt.Y() > h {
				t.Errorf("level %v: y = %v outside canvas", line.Level, pt.Y())
				break
			}
		}
	}
}

func TestGenerate_ClosedLoop(t *testing.T) {
	p, _ := projection.New(testBounds, 1600, 1200)
	// A cone centered on the grid.
	grid := gridFrom(func(r, c int) float64 {
		dr, dc := float64(r-10), float64(c-10)
		return 2000 - 10*math.Sqrt(dr*dr+dc*dc)
	}, 21, 21)

	set := Generate(grid, p, Options{MinorInterval: 20, MajorInterval: 100})

	var found bool
	for _, line := range set.Minor {
		if line.Level != 1960 {
			continue
		}
		found = true
		first, last := line.Path[0], line.Path[len(line.Path)-1]
		if math.Abs(first.X()-last.X()) > 1e-9 || math.Abs(first.Y()-last.Y()) > 1e-9 {
			t.Errorf("level 1960 path is not closed: first %v last %v", first, last)
		}
	}
	if !found {
		t.Error("no contour at level 1960")
	}
}
