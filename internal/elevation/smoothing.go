package elevation

import "math"

// truncate is the kernel radius in standard deviations.
const truncate = 4.0

// gaussianKernel returns a normalized 1-D kernel of radius round(truncate*sigma).
func gaussianKernel(sigma float64) []float64 {
	radius := int(truncate*sigma + 0.5)
	kernel := make([]float64, 2*radius+1)
	var sum float64
	for i := -radius; i <= radius; i++ {
		w := math.Exp(-0.5 * float64(i*i) / (sigma * sigma))
		kernel[i+radius] = w
		sum += w
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

// reflect maps an out-of-range index back into [0, n) by mirroring about the
// edges, repeating the edge sample (d c b a | a b c d | d c b a).
func reflect(i, n int) int {
	period := 2 * n
	i %= period
	if i < 0 {
		i += period
	}
	if i >= n {
		i = period - i - 1
	}
	return i
}

// GaussianSmooth applies a separable Gaussian filter with the given sigma in
// grid cells. The input is not modified. A non-positive sigma returns a copy.
func GaussianSmooth(values [][]float64, sigma float64) [][]float64 {
	rows := len(values)
	if rows == 0 {
		return nil
	}
	cols := len(values[0])

	out := make([][]float64, rows)
	for r := range out {
		out[r] = append([]float64(nil), values[r]...)
	}
	if sigma <= 0 || cols == 0 {
		return out
	}

	kernel := gaussianKernel(sigma)
	radius := len(kernel) / 2

	// Along columns (longitude)
	tmp := make([][]float64, rows)
	for r := range rows {
		tmp[r] = make([]float64, cols)
		for c := range cols {
			var acc float64
			for k := -radius; k <= radius; k++ {
				acc += kernel[k+radius] * out[r][reflect(c+k, cols)]
			}
			tmp[r][c] = acc
		}
	}

	// Along rows (latitude)
	for r := range rows {
		for c := range cols {
			var acc float64
			for k := -radius; k <= radius; k++ {
				acc += kernel[k+radius] * tmp[reflect(r+k, rows)][c]
			}
			out[r][c] = acc
		}
	}
	return out
}
