package types

// ElevationGrid holds elevation samples in meters over a uniform lattice.
// Values[r][c] is the sample at row r (latitude, ascending from MinLat) and
// column c (longitude, ascending from MinLon). Both edges of the bounds are
// included in the lattice.
type ElevationGrid struct {
	Bounds GeoBounds
	Rows   int
	Cols   int
	Values [][]float64
}

// NewZeroElevationGrid returns a grid of the given resolution filled with zeros.
func NewZeroElevationGrid(bounds GeoBounds, rows, cols int) ElevationGrid {
	values := make([][]float64, rows)
	for r := range values {
		values[r] = make([]float64, cols)
	}
	return ElevationGrid{Bounds: bounds, Rows: rows, Cols: cols, Values: values}
}

// LatAt returns the latitude of lattice row r.
func (g ElevationGrid) LatAt(r int) float64 {
	return linspaceAt(g.Bounds.MinLat, g.Bounds.MaxLat, g.Rows, r)
}

// LonAt returns the longitude of lattice column c.
func (g ElevationGrid) LonAt(c int) float64 {
	return linspaceAt(g.Bounds.MinLon, g.Bounds.MaxLon, g.Cols, c)
}

// MinMax returns the smallest and largest values in the grid.
func (g ElevationGrid) MinMax() (float64, float64) {
	first := true
	var lo, hi float64
	for _, row := range g.Values {
		for _, v := range row {
			if first {
				lo, hi, first = v, v, false
				continue
			}
			lo = min(lo, v)
			hi = max(hi, v)
		}
	}
	return lo, hi
}

func linspaceAt(start, stop float64, n, i int) float64 {
	if n <= 1 {
		return start
	}
	if i == n-1 {
		return stop
	}
	return start + (stop-start)*float64(i)/float64(n-1)
}
