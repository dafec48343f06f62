// Package contour derives iso-elevation polylines from an elevation grid in
// pixel space using marching squares.
package contour

import (
	"medi-skimap/internal/projection"
	"medi-skimap/internal/types"

	"github.com/paulmach/orb"
)

const (
	DefaultMinorInterval = 20.0
	DefaultMajorInterval = 100.0
)

// Line is one contour polyline at a single elevation.
type Line struct {
	Level float64
	Path  types.PixelPath
}

// Set holds the minor and major contours of one grid.
type Set struct {
	MinorLevels []float64
	MajorLevels []float64
	Minor       []Line
	Major       []Line
}

type Options struct {
	MinorInterval float64
	MajorInterval float64
}

// Generate computes both level sets from the grid's range and traces each
// level. A flat grid produces one level per set and no lines.
func Generate(grid types.ElevationGrid, p *projection.Projector, opts Options) Set {
	if opts.MinorInterval <= 0 {
		opts.MinorInterval = DefaultMinorInterval
	}
	if opts.MajorInterval <= 0 {
		opts.MajorInterval = DefaultMajorInterval
	}

	lo, hi := grid.MinMax()
	set := Set{
		MinorLevels: Levels(lo, hi, opts.MinorInterval),
		MajorLevels: Levels(lo, hi, opts.MajorInterval),
	}
	if grid.Rows < 2 || grid.Cols < 2 {
		return set
	}

	lattice := projectLattice(grid, p)
	for _, level := range set.MinorLevels {
		for _, path := range trace(grid.Values, lattice, level) {
			set.Minor = append(set.Minor, Line{Level: level, Path: path})
		}
	}
	for _, level := range set.MajorLevels {
		for _, path := range trace(grid.Values, lattice, level) {
			set.Major = append(set.Major, Line{Level: level, Path: path})
		}
	}
	return set
}

func projectLattice(grid types.ElevationGrid, p *projection.Projector) [][]types.PixelPoint {
	lattice := make([][]types.PixelPoint, grid.Rows)
	for r := range grid.Rows {
		lat := grid.LatAt(r)
		lattice[r] = make([]types.PixelPoint, grid.Cols)
		for c := range grid.Cols {
			lattice[r][c] = p.Project(orb.Point{grid.LonAt(c), lat})
		}
	}
	return lattice
}

// edge identifies a lattice edge. A horizontal edge joins (r,c)-(r,c+1); a
// vertical edge joins (r,c)-(r+1,c).
type edge struct {
	r, c       int
	horizontal bool
}

type segment [2]edge

// Cell corners: a=(r,c) b=(r,c+1) cc=(r+1,c+1) d=(r+1,c). Case index bits are
// a=1 b=2 cc=4 d=8, set when the corner lies above the level.
func cellSegments(values [][]float64, r, c int, level float64) []segment {
	a, b := values[r][c], values[r][c+1]
	cc, d := values[r+1][c+1], values[r+1][c]

	idx := 0
	if a > level {
		idx |= 1
	}
	if b > level {
		idx |= 2
	}
	if cc > level {
		idx |= 4
	}
	if d > level {
		idx |= 8
	}

	bottom := edge{r, c, true}
	top := edge{r + 1, c, true}
	left := edge{r, c, false}
	right := edge{r, c + 1, false}

	switch idx {
	case 0, 15:
		return nil
	case 1, 14:
		return []segment{{left, bottom}}
	case 2, 13:
		return []segment{{bottom, right}}
	case 3, 12:
		return []segment{{left, right}}
	case 4, 11:
		return []segment{{right, top}}
	case 6, 9:
		return []segment{{bottom, top}}
	case 7, 8:
		return []segment{{left, top}}
	}

	// Saddles: the cell center decides which diagonal corners are joined.
	centerAbove := (a+b+cc+d)/4 > level
	if (idx == 5) == centerAbove {
		return []segment{{bottom, right}, {top, left}}
	}
	return []segment{{left, bottom}, {right, top}}
}

// trace runs marching squares for one level and joins the cell segments into
// polylines. Open lines end on the grid border; closed lines repeat their
// first point.
func trace(values [][]float64, lattice [][]types.PixelPoint, level float64) []types.PixelPath {
	rows, cols := len(values), len(values[0])

	var segs []segment
	for r := 0; r < rows-1; r++ {
		for c := 0; c < cols-1; c++ {
			segs = append(segs, cellSegments(values, r, c, level)...)
		}
	}
	if len(segs) == 0 {
		return nil
	}

	adj := make(map[edge][]int, len(segs)*2)
	for i, s := range segs {
		adj[s[0]] = append(adj[s[0]], i)
		adj[s[1]] = append(adj[s[1]], i)
	}

	point := func(e edge) types.PixelPoint {
		r2, c2 := e.r+1, e.c
		if e.horizontal {
			r2, c2 = e.r, e.c+1
		}
		v1, v2 := values[e.r][e.c], values[r2][c2]
		p1, p2 := lattice[e.r][e.c], lattice[r2][c2]
		t := 0.5
		if v2 != v1 {
			t = (level - v1) / (v2 - v1)
		}
		return types.PixelPoint{p1[0] + t*(p2[0]-p1[0]), p1[1] + t*(p2[1]-p1[1])}
	}

	used := make([]bool, len(segs))
	follow := func(start int, from edge) types.PixelPath {
		path := types.PixelPath{point(from)}
		cur, at := start, from
		for {
			used[cur] = true
			next := segs[cur][0]
			if next == at {
				next = segs[cur][1]
			}
			path = append(path, point(next))

			found := -1
			for _, j := range adj[next] {
				if !used[j] {
					found = j
					break
				}
			}
			if found < 0 {
				return path
			}
			cur, at = found, next
		}
	}

	var paths []types.PixelPath
	// Open lines start at a border edge touched by a single segment.
	for i, s := range segs {
		if used[i] {
			continue
		}
		for _, e := range s {
			if len(adj[e]) == 1 {
				paths = append(paths, follow(i, e))
				break
			}
		}
	}
	// What remains are closed loops.
	for i, s := range segs {
		if !used[i] {
			paths = append(paths, follow(i, s[0]))
		}
	}
	return paths
}
