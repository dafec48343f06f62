// Package pipeline runs one place name through every extraction stage.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"medi-skimap/internal/area"
	"medi-skimap/internal/config"
	"medi-skimap/internal/contour"
	"medi-skimap/internal/elevation"
	"medi-skimap/internal/features"
	"medi-skimap/internal/metrics"
	"medi-skimap/internal/projection"
	"medi-skimap/internal/providers/openelevation"
	"medi-skimap/internal/providers/openstreetmap"
	"medi-skimap/internal/providers/overpass"
	"medi-skimap/internal/records"
	"medi-skimap/internal/render"
	"medi-skimap/internal/types"
)

const stageElevation = "elevation"

type Options struct {
	Padding     float64
	Elevation   elevation.Options
	Contours    contour.Options
	ImageWidth  int
	ImageHeight int
}

// OptionsFromConfig copies the pipeline section of cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	p := cfg.Pipeline
	return Options{
		Padding: p.Padding,
		Elevation: elevation.Options{
			Rows:  p.GridRows,
			Cols:  p.GridCols,
			Sigma: p.SmoothingSigma,
		},
		Contours: contour.Options{
			MinorInterval: p.MinorInterval,
			MajorInterval: p.MajorInterval,
		},
		ImageWidth:  p.ImageWidth,
		ImageHeight: p.ImageHeight,
	}
}

// Result is everything one successful run produced.
type Result struct {
	Area               *area.Area
	Assembly           *features.Assembly
	ElevationAvailable bool
	Contours           contour.Set
	Raster             *render.Raster
	Records            records.Set
	Warnings           []types.Warning
	Duration           time.Duration
}

type Extractor struct {
	resolver   *area.Resolver
	fetcher    *features.Fetcher
	sampler    *elevation.Sampler
	compositor *render.Compositor
	opts       Options
	logger     *slog.Logger
}

// NewExtractor wires the live geocoding, feature and elevation clients from cfg.
func NewExtractor(cfg *config.Config, logger *slog.Logger) *Extractor {
	prov := cfg.Providers
	geocoder := openstreetmap.NewClientWithOptions(logger, openstreetmap.Options{
		BaseURL:   prov.Nominatim.URL,
		UserAgent: prov.Nominatim.UserAgent,
		Timeout:   prov.Nominatim.Timeout,
	})
	graph := overpass.NewClientWithOptions(logger, overpass.Options{
		BaseURL:      prov.Overpass.URL,
		AlternateURL: prov.Overpass.AlternateURL,
		Timeout:      prov.Overpass.Timeout,
	})
	elev := openelevation.NewClientWithOptions(logger, openelevation.Options{
		BaseURL: prov.Elevation.URL,
		Timeout: prov.Elevation.Timeout,
	})
	return NewExtractorWithProviders(geocoder, graph, elev, OptionsFromConfig(cfg), logger)
}

// NewExtractorWithProviders creates an extractor with custom providers (useful for testing)
func NewExtractorWithProviders(
	geocoder area.GeocodeProvider,
	graph features.GraphProvider,
	elev elevation.LookupProvider,
	opts Options,
	logger *slog.Logger,
) *Extractor {
	if opts.ImageWidth <= 0 {
		opts.ImageWidth = 1600
	}
	if opts.ImageHeight <= 0 {
		opts.ImageHeight = 1200
	}
	return &Extractor{
		resolver:   area.NewResolver(geocoder, opts.Padding, logger),
		fetcher:    features.NewFetcher(graph, logger),
		sampler:    elevation.NewSampler(elev, opts.Elevation, logger),
		compositor: render.NewCompositor(logger),
		opts:       opts,
		logger:     logger.With("component", "pipeline"),
	}
}

// Run resolves place and produces its raster and records. Only a failed
// geocode, a failed feature fetch, or an area without lifts stop the run;
// every other problem is reported in Result.Warnings.
func (e *Extractor) Run(ctx context.Context, place string) (*Result, error) {
	start := time.Now()
	res, err := e.run(ctx, place)

	elapsed := time.Since(start)
	metrics.PipelineRunDuration.Observe(elapsed.Seconds())
	metrics.PipelineRuns.WithLabelValues(outcome(err)).Inc()

	if err != nil {
		e.logger.Error("extraction failed", "place", place, "error", err, "duration", elapsed)
		return nil, err
	}
	res.Duration = elapsed

	for _, w := range res.Warnings {
		metrics.FeaturesDropped.WithLabelValues(w.Stage).Inc()
		e.logger.Warn("extraction warning", "place", place, "stage", w.Stage, "subject", w.Subject, "error", w.Err)
	}
	e.logger.Info("extraction complete",
		"place", place,
		"bounds", res.Area.Bounds.String(),
		"lifts", len(res.Assembly.Lifts),
		"pistes", len(res.Assembly.Pistes),
		"water_bodies", len(res.Assembly.WaterBodies),
		"contours", len(res.Contours.Minor)+len(res.Contours.Major),
		"elevation_available", res.ElevationAvailable,
		"warnings", len(res.Warnings),
		"duration", elapsed,
	)
	return res, nil
}

func (e *Extractor) run(ctx context.Context, place string) (*Result, error) {
	a, err := e.resolver.Resolve(ctx, place)
	if err != nil {
		return nil, err
	}

	graph, err := e.fetcher.Fetch(ctx, a.Bounds)
	if err != nil {
		return nil, err
	}

	assembly, err := features.Assemble(graph)
	if err != nil {
		for _, w := range assembly.Warnings {
			metrics.FeaturesDropped.WithLabelValues(w.Stage).Inc()
			e.logger.Warn("extraction warning", "place", place, "stage", w.Stage, "subject", w.Subject, "error", w.Err)
		}
		return nil, fmt.Errorf("failed to assemble features for %q (%d features dropped): %w", place, len(assembly.Warnings), err)
	}
	metrics.FeaturesAssembled.WithLabelValues(features.KindLift).Add(float64(len(assembly.Lifts)))
	metrics.FeaturesAssembled.WithLabelValues(features.KindPiste).Add(float64(len(assembly.Pistes)))
	metrics.FeaturesAssembled.WithLabelValues(features.KindWater).Add(float64(len(assembly.WaterBodies)))

	warnings := append([]types.Warning(nil), assembly.Warnings...)

	sample := e.sampler.Sample(ctx, a.Bounds)
	// A cancelled caller is not an elevation outage.
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("extraction of %q aborted: %w", place, err)
	}
	if !sample.Available {
		warnings = append(warnings, types.NewWarning(stageElevation, a.Bounds.String(), sample.Err))
	}

	proj, err := projection.New(a.Bounds, e.opts.ImageWidth, e.opts.ImageHeight)
	if err != nil {
		return nil, fmt.Errorf("failed to build projection: %w", err)
	}

	contours := contour.Generate(sample.Grid, proj, e.opts.Contours)

	raster, renderWarnings := e.compositor.Render(proj, render.Scene{
		Contours:    contours,
		WaterBodies: assembly.WaterBodies,
		Pistes:      assembly.Pistes,
		Lifts:       assembly.Lifts,
	})
	warnings = append(warnings, renderWarnings...)

	return &Result{
		Area:               a,
		Assembly:           assembly,
		ElevationAvailable: sample.Available,
		Contours:           contours,
		Raster:             raster,
		Records:            records.Map(assembly, proj),
		Warnings:           warnings,
	}, nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, types.ErrNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, types.ErrNoData):
		return metrics.OutcomeNoData
	case errors.Is(err, types.ErrUpstream):
		return metrics.OutcomeUpstream
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return metrics.OutcomeCanceled
	default:
		return metrics.OutcomeError
	}
}
