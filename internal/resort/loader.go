// Package resort loads resorts end to end: extraction, artifacts and storage.
package resort

import (
	"context"
	"fmt"
	"log/slog"

	"medi-skimap/internal/pipeline"
	"medi-skimap/internal/records"
	"medi-skimap/internal/store"

	"github.com/paulmach/orb"
	"github.com/sourcegraph/conc/pool"
)

// Runner defines the interface for single-place extraction
type Runner interface {
	Run(ctx context.Context, place string) (*pipeline.Result, error)
}

// Sink defines the interface for record storage
type Sink interface {
	SaveResort(ctx context.Context, resort records.ResortRecord, set records.Set, write store.ArtifactWriter) (int64, error)
}

// TimezoneFinder defines the interface for timezone lookups
type TimezoneFinder interface {
	ForPoint(p orb.Point) string
}

type Options struct {
	MapsDir       string
	MapsURLPrefix string
	Concurrency   int
}

type Loader struct {
	runner Runner
	sink   Sink
	tz     TimezoneFinder
	opts   Options
	logger *slog.Logger
}

// NewLoader creates a loader. A nil sink turns Load into a dry run that
// extracts without storing anything.
func NewLoader(runner Runner, sink Sink, tz TimezoneFinder, opts Options, logger *slog.Logger) *Loader {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Loader{
		runner: runner,
		sink:   sink,
		tz:     tz,
		opts:   opts,
		logger: logger.With("component", "resort-loader"),
	}
}

// Load extracts one resort and stores it with its artifacts.
func (l *Loader) Load(ctx context.Context, info Info) Outcome {
	out := Outcome{Resort: info}

	res, err := l.runner.Run(ctx, info.Query())
	if err != nil {
		out.Err = fmt.Errorf("failed to extract %s: %w", info.Name, err)
		return out
	}
	out.Result = res

	if l.sink == nil {
		return out
	}

	resort := l.resortRecord(info, res)
	artifacts := &artifactSet{dir: l.opts.MapsDir}
	id, err := l.sink.SaveResort(ctx, resort, res.Records, func(resortID int64) (string, error) {
		if err := artifacts.write(res, resortID); err != nil {
			return "", err
		}
		return ImageURL(l.opts.MapsURLPrefix, resortID), nil
	})
	if err != nil {
		if rmErr := artifacts.remove(); rmErr != nil {
			l.logger.Error("failed to remove artifacts", "resort", info.Name, "error", rmErr)
		}
		out.Err = fmt.Errorf("failed to store %s: %w", info.Name, err)
		return out
	}

	out.ResortID = id
	out.ImageURL = ImageURL(l.opts.MapsURLPrefix, id)
	l.logger.Info("loaded resort",
		"resort", info.Name,
		"resort_id", id,
		"timezone", resort.Timezone,
		"lifts", resort.TotalLifts,
		"warnings", len(res.Warnings),
	)
	return out
}

// LoadAll loads every resort with at most Concurrency runs in flight. A
// failed resort never stops the others. Outcomes keep the input order.
func (l *Loader) LoadAll(ctx context.Context, infos []Info) []Outcome {
	outcomes := make([]Outcome, len(infos))

	p := pool.New().WithMaxGoroutines(l.opts.Concurrency)
	for i, info := range infos {
		p.Go(func() {
			outcomes[i] = l.Load(ctx, info)
			if err := outcomes[i].Err; err != nil {
				l.logger.Error("resort failed", "resort", info.Name, "error", err)
			}
		})
	}
	p.Wait()

	return outcomes
}

func (l *Loader) resortRecord(info Info, res *pipeline.Result) records.ResortRecord {
	location := info.Location
	if location == "" {
		location = res.Area.DisplayName
	}

	timezone := ""
	if l.tz != nil {
		timezone = l.tz.ForPoint(res.Area.Center)
	}

	return records.ResortRecord{
		Name:              info.Name,
		Location:          location,
		Description:       info.Description,
		Website:           info.Website,
		Status:            records.DefaultResortStatus,
		SnowDepth:         records.DefaultSnowDepth,
		WeatherConditions: records.DefaultWeatherConditions,
		TotalLifts:        len(res.Records.Lifts),
		OpenLifts:         res.Records.OpenLifts(),
		Timezone:          timezone,
		Bounds:            res.Area.Bounds,
		CenterLat:         res.Area.Center.Lat(),
		CenterLon:         res.Area.Center.Lon(),
	}
}
