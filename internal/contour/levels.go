package contour

import "math"

// maxLevels bounds the number of levels per set. Larger ranges are coarsened
// to a multiple of the requested interval.
const maxLevels = 2000

// Levels returns the iso-levels from floor(lo/interval)*interval to
// ceil(hi/interval)*interval inclusive, so the set always brackets [lo, hi].
// A flat range yields a single level.
func Levels(lo, hi, interval float64) []float64 {
	if interval <= 0 || math.IsNaN(interval) {
		return nil
	}
	if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return []float64{0}
	}
	if lo > hi {
		lo, hi = hi, lo
	}

	start := math.Floor(lo/interval) * interval
	end := math.Ceil(hi/interval) * interval
	n := int(math.Round((end-start)/interval)) + 1
	if n > maxLevels {
		interval *= math.Ceil(float64(n) / maxLevels)
		start = math.Floor(lo/interval) * interval
		end = math.Ceil(hi/interval) * interval
		n = int(math.Round((end-start)/interval)) + 1
	}

	levels := make([]float64, n)
	for i := range levels {
		levels[i] = start + float64(i)*interval
	}
	levels[n-1] = end
	return levels
}
