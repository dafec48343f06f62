package features

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"medi-skimap/internal/providers/overpass"
	"medi-skimap/internal/types"
)

// GraphProvider defines the interface for vector-feature services
type GraphProvider interface {
	Interpret(ctx context.Context, query string) (*overpass.APIResponse, error)
}

// tagFilters are the way selectors requested for every area.
var tagFilters = []string{
	`way["aerialway"]`,
	`way["piste:type"]`,
	`way["natural"="water"]`,
	`way["water"]`,
	`relation["natural"="water"]["type"="multipolygon"]`,
}

type Fetcher struct {
	provider GraphProvider
	logger   *slog.Logger
}

func NewFetcher(provider GraphProvider, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		provider: provider,
		logger:   logger.With("component", "feature-fetcher"),
	}
}

// Fetch downloads every matching way inside bounds together with the nodes
// they reference. Element order in the result is whatever the service sent.
func (f *Fetcher) Fetch(ctx context.Context, bounds types.GeoBounds) (*Graph, error) {
	resp, err := f.provider.Interpret(ctx, BuildQuery(bounds))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch features: %w", err)
	}

	g := GraphFromResponse(resp)
	f.logger.Debug("fetched raw graph",
		"bounds", bounds.String(),
		"nodes", len(g.Nodes),
		"ways", len(g.Ways),
		"relations", len(g.Relations),
	)
	return g, nil
}

// BuildQuery renders the Overpass QL query for bounds. The recurse step pulls
// in member ways and all referenced nodes.
func BuildQuery(bounds types.GeoBounds) string {
	bbox := bounds.OverpassBBox()

	var sb strings.Builder
	sb.WriteString("[out:json][timeout:60];\n(\n")
	for _, filter := range tagFilters {
		fmt.Fprintf(&sb, "  %s(%s);\n", filter, bbox)
	}
	sb.WriteString(");\n(._;>;);\nout body;\n")
	return sb.String()
}

// GraphFromResponse splits the flat element list by element type.
func GraphFromResponse(resp *overpass.APIResponse) *Graph {
	g := &Graph{}
	if resp == nil {
		return g
	}
	for _, el := range resp.Elements {
		switch el.Type {
		case overpass.ElementTypeNode:
			g.Nodes = append(g.Nodes, RawNode{ID: el.ID, Lat: el.Lat, Lon: el.Lon})
		case overpass.ElementTypeWay:
			g.Ways = append(g.Ways, RawWay{ID: el.ID, Tags: el.Tags, NodeRefs: el.Nodes})
		case overpass.ElementTypeRelation:
			members := make([]RawMember, len(el.Members))
			for i, m := range el.Members {
				members[i] = RawMember{Type: string(m.Type), Ref: m.Ref, Role: m.Role}
			}
			g.Relations = append(g.Relations, RawRelation{ID: el.ID, Tags: el.Tags, Members: members})
		}
	}
	return g
}
