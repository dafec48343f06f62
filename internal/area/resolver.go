// Package area turns a free-text place name into a padded bounding box.
package area

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"medi-skimap/internal/providers/openstreetmap"
	"medi-skimap/internal/types"

	"github.com/paulmach/orb"
)

const (
	DefaultPadding = 0.2

	// minHalfExtent widens point-like geocoder results so the padded bounds
	// are never degenerate.
	minHalfExtent = 0.005
)

// GeocodeProvider defines the interface for forward geocoding providers
type GeocodeProvider interface {
	Search(ctx context.Context, query string) ([]openstreetmap.SearchAPIResponse, error)
}

// Area is a resolved place.
type Area struct {
	Query       string
	Name        string
	DisplayName string
	Center      orb.Point
	Raw         types.GeoBounds
	Bounds      types.GeoBounds
}

type Resolver struct {
	provider GeocodeProvider
	padding  float64
	logger   *slog.Logger
}

// NewResolver creates a resolver backed by the given provider. A negative
// padding is treated as zero.
func NewResolver(provider GeocodeProvider, padding float64, logger *slog.Logger) *Resolver {
	return &Resolver{
		provider: provider,
		padding:  max(padding, 0),
		logger:   logger.With("component", "area-resolver"),
	}
}

// Resolve geocodes place, takes the first match and pads its bounding box.
// It returns ErrNotFound when the geocoder has no match and an UpstreamError
// when the call fails or the match is malformed. There is no retry.
func (r *Resolver) Resolve(ctx context.Context, place string) (*Area, error) {
	results, err := r.provider.Search(ctx, place)
	if err != nil {
		return nil, fmt.Errorf("failed to geocode %q: %w", place, err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: %q", types.ErrNotFound, place)
	}

	first := results[0]
	raw, err := parseBoundingBox(first.Boundingbox)
	if err != nil {
		return nil, &types.UpstreamError{Service: "nominatim", Reason: "malformed bounding box", Err: err}
	}

	center := raw.Center()
	if lat, latErr := strconv.ParseFloat(first.Lat, 64); latErr == nil {
		if lon, lonErr := strconv.ParseFloat(first.Lon, 64); lonErr == nil {
			center = orb.Point{lon, lat}
		}
	}

	bounds := widen(raw, center).Pad(r.padding)
	if err := bounds.Validate(); err != nil {
		return nil, &types.UpstreamError{Service: "nominatim", Reason: "unusable bounding box", Err: err}
	}

	name := first.Name
	if name == "" {
		name = first.DisplayName
	}

	r.logger.Debug("resolved area",
		"query", place,
		"display_name", first.DisplayName,
		"raw_bounds", raw.String(),
		"bounds", bounds.String(),
	)

	return &Area{
		Query:       place,
		Name:        name,
		DisplayName: first.DisplayName,
		Center:      center,
		Raw:         raw,
		Bounds:      bounds,
	}, nil
}

// parseBoundingBox reads Nominatim's [minLat, maxLat, minLon, maxLon] strings.
func parseBoundingBox(bbox []string) (types.GeoBounds, error) {
	if len(bbox) != 4 {
		return types.GeoBounds{}, fmt.Errorf("expected 4 values, got %d", len(bbox))
	}
	var v [4]float64
	for i, s := range bbox {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return types.GeoBounds{}, fmt.Errorf("failed to parse bounding box value %q: %w", s, err)
		}
		v[i] = f
	}
	b := types.GeoBounds{MinLat: v[0], MaxLat: v[1], MinLon: v[2], MaxLon: v[3]}
	if b.MinLat > b.MaxLat || b.MinLon > b.MaxLon {
		return types.GeoBounds{}, fmt.Errorf("inverted bounding box %v", bbox)
	}
	return b, nil
}

// widen gives a zero-extent axis a small extent around the center.
func widen(b types.GeoBounds, center orb.Point) types.GeoBounds {
	if b.Width() <= 0 {
		b.MinLon, b.MaxLon = center.Lon()-minHalfExtent, center.Lon()+minHalfExtent
	}
	if b.Height() <= 0 {
		b.MinLat, b.MaxLat = center.Lat()-minHalfExtent, center.Lat()+minHalfExtent
	}
	return b
}
