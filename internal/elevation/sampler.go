// Package elevation samples and smooths a terrain grid over a bounding box.
package elevation

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"medi-skimap/internal/metrics"
	"medi-skimap/internal/providers/openelevation"
	"medi-skimap/internal/types"
)

const (
	DefaultRows  = 100
	DefaultCols  = 100
	DefaultSigma = 1.0
)

// LookupProvider defines the interface for batched elevation providers
type LookupProvider interface {
	Lookup(ctx context.Context, locations []openelevation.Location) (*openelevation.LookupAPIResponse, error)
}

type Options struct {
	Rows  int
	Cols  int
	Sigma float64
}

// Result is the outcome of one sampling call. When Available is false the
// grid is all zeros and Err says why.
type Result struct {
	Grid      types.ElevationGrid
	Available bool
	Err       error
}

type Sampler struct {
	provider LookupProvider
	opts     Options
	logger   *slog.Logger
}

// NewSampler creates a sampler. Non-positive sizes and a zero Sigma fall back
// to defaults; a negative Sigma disables smoothing.
func NewSampler(provider LookupProvider, opts Options, logger *slog.Logger) *Sampler {
	if opts.Rows <= 0 {
		opts.Rows = DefaultRows
	}
	if opts.Cols <= 0 {
		opts.Cols = DefaultCols
	}
	if opts.Sigma == 0 {
		opts.Sigma = DefaultSigma
	}
	return &Sampler{
		provider: provider,
		opts:     opts,
		logger:   logger.With("component", "elevation-sampler"),
	}
}

// Sample requests elevations for a Rows x Cols lattice covering bounds,
// edges included, in one call. It never fails: any upstream or payload
// problem yields a zero grid with Available set to false.
func (s *Sampler) Sample(ctx context.Context, bounds types.GeoBounds) Result {
	grid := types.NewZeroElevationGrid(bounds, s.opts.Rows, s.opts.Cols)

	locations := make([]openelevation.Location, 0, s.opts.Rows*s.opts.Cols)
	for r := range s.opts.Rows {
		lat := grid.LatAt(r)
		for c := range s.opts.Cols {
			locations = append(locations, openelevation.Location{Latitude: lat, Longitude: grid.LonAt(c)})
		}
	}

	resp, err := s.provider.Lookup(ctx, locations)
	if err != nil {
		return s.fallback(grid, fmt.Errorf("%w: %w", types.ErrElevationUnavailable, err))
	}
	if err := fill(&grid, resp); err != nil {
		return s.fallback(grid, fmt.Errorf("%w: %w", types.ErrElevationUnavailable, err))
	}

	grid.Values = GaussianSmooth(grid.Values, s.opts.Sigma)

	lo, hi := grid.MinMax()
	s.logger.Debug("sampled elevation grid",
		"rows", grid.Rows,
		"cols", grid.Cols,
		"min", lo,
		"max", hi,
	)
	return Result{Grid: grid, Available: true}
}

func (s *Sampler) fallback(grid types.ElevationGrid, err error) Result {
	metrics.ElevationFallbacks.Inc()
	s.logger.Warn("elevation unavailable, using flat grid",
		"rows", grid.Rows,
		"cols", grid.Cols,
		"error", err,
	)
	return Result{
		Grid:      types.NewZeroElevationGrid(grid.Bounds, grid.Rows, grid.Cols),
		Available: false,
		Err:       err,
	}
}

// fill copies the response into grid in lattice order, rejecting payloads
// that do not line up with the request.
func fill(grid *types.ElevationGrid, resp *openelevation.LookupAPIResponse) error {
	if resp == nil || resp.Results == nil {
		return fmt.Errorf("response has no results")
	}
	want := grid.Rows * grid.Cols
	if len(resp.Results) != want {
		return fmt.Errorf("response has %d results, want %d", len(resp.Results), want)
	}
	for i, res := range resp.Results {
		if res.Elevation == nil || math.IsNaN(*res.Elevation) || math.IsInf(*res.Elevation, 0) {
			return fmt.Errorf("result %d has no usable elevation", i)
		}
		grid.Values[i/grid.Cols][i%grid.Cols] = *res.Elevation
	}
	return nil
}
