package features

import (
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"medi-skimap/internal/providers/overpass"
	"medi-skimap/internal/types"

	"github.com/google/go-cmp/cmp"
	"github.com/paulmach/orb"
)

func node(id int64, lon, lat float64) overpass.Element {
	return overpass.Element{Type: overpass.ElementTypeNode, ID: id, Lat: lat, Lon: lon}
}

func way(id int64, tags map[string]string, refs ...int64) overpass.Element {
	return overpass.Element{Type: overpass.ElementTypeWay, ID: id, Tags: tags, Nodes: refs}
}

func graphOf(elements ...overpass.Element) *Graph {
	return GraphFromResponse(&overpass.APIResponse{Elements: elements})
}

func hasWarning(ws []types.Warning, target error) bool {
	for _, w := range ws {
		if errors.Is(w.Err, target) {
			return true
		}
	}
	return false
}

func TestAssemble(t *testing.T) {
	tests := []struct {
		name     string
		elements []overpass.Element
		wantErr  error
		validate func(*testing.T, *Assembly)
	}{
		{
			name: "lift with defaults",
			elements: []overpass.Element{
				way(10, map[string]string{"aerialway": "gondola"}, 1, 2),
				node(1, 10.01, 47.01),
				node(2, 10.09, 47.09),
			},
			validate: func(t *testing.T, a *Assembly) {
				if len(a.Lifts) != 1 {
					t.Fatalf("len(Lifts) = %d, want 1", len(a.Lifts))
				}
				want := Lift{
					OsmID:      10,
					Name:       "Unnamed Lift",
					Type:       "gondola",
					Difficulty: "intermediate",
					Status:     "open",
					Capacity:   1800,
					Geometry:   orb.LineString{{10.01, 47.01}, {10.09, 47.09}},
				}
				if diff := cmp.Diff(want, a.Lifts[0]); diff != "" {
					t.Errorf("Lift mismatch (-want +got):\n%s", diff)
				}
				if len(a.Warnings) != 0 {
					t.Errorf("Warnings = %v, want none", a.Warnings)
				}
			},
		},
		{
			name: "tagged lift fields",
			elements: []overpass.Element{
				node(1, 10.01, 47.01),
				node(2, 10.02, 47.02),
				way(10, map[string]string{
					"aerialway":          "chair_lift",
					"name":               "Summit Express",
					"piste:difficulty":   "advanced",
					"aerialway:capacity": "2400",
					"description":        "six seater",
				}, 1, 2),
			},
			validate: func(t *testing.T, a *Assembly) {
				l := a.Lifts[0]
				if l.Name != "Summit Express" || l.Type != "chair_lift" || l.Difficulty != "advanced" ||
					l.Capacity != 2400 || l.Description != "six seater" {
					t.Errorf("Lift = %+v, want tagged values", l)
				}
			},
		},
		{
			name: "invalid capacity falls back with warning",
			elements: []overpass.Element{
				node(1, 10.01, 47.01),
				node(2, 10.02, 47.02),
				way(10, map[string]string{"aerialway": "t-bar", "aerialway:capacity": "lots"}, 1, 2),
			},
			validate: func(t *testing.T, a *Assembly) {
				if a.Lifts[0].Capacity != 1800 {
					t.Errorf("Capacity = %d, want 1800", a.Lifts[0].Capacity)
				}
				if !hasWarning(a.Warnings, types.ErrInvalidTag) {
					t.Errorf("Warnings = %v, want ErrInvalidTag", a.Warnings)
				}
			},
		},
		{
			name: "unresolved node skipped without reordering",
			elements: []overpass.Element{
				node(1, 10.01, 47.01),
				node(3, 10.03, 47.03),
				node(4, 10.04, 47.04),
				way(10, map[string]string{"aerialway": "drag_lift"}, 1, 2, 3, 4),
			},
			validate: func(t *testing.T, a *Assembly) {
				want := orb.LineString{{10.01, 47.01}, {10.03, 47.03}, {10.04, 47.04}}
				if diff := cmp.Diff(want, a.Lifts[0].Geometry); diff != "" {
					t.Errorf("Geometry mismatch (-want +got):\n%s", diff)
				}
				if !hasWarning(a.Warnings, types.ErrUnresolvedNode) {
					t.Errorf("Warnings = %v, want ErrUnresolvedNode", a.Warnings)
				}
			},
		},
		{
			name: "single resolvable node drops piste",
			elements: []overpass.Element{
				node(1, 10.01, 47.01),
				node(2, 10.02, 47.02),
				way(10, map[string]string{"aerialway": "gondola"}, 1, 2),
				way(20, map[string]string{"piste:type": "downhill"}, 1, 99),
			},
			validate: func(t *testing.T, a *Assembly) {
				if len(a.Pistes) != 0 {
					t.Errorf("len(Pistes) = %d, want 0", len(a.Pistes))
				}
				if !hasWarning(a.Warnings, types.ErrTooFewPoints) {
					t.Errorf("Warnings = %v, want ErrTooFewPoints", a.Warnings)
				}
			},
		},
		{
			name: "way matching several rules yields one feature per rule",
			elements: []overpass.Element{
				node(1, 10.01, 47.01),
				node(2, 10.02, 47.01),
				node(3, 10.02, 47.02),
				way(10, map[string]string{"aerialway": "gondola", "piste:type": "downhill", "natural": "water"}, 1, 2, 3),
			},
			validate: func(t *testing.T, a *Assembly) {
				if len(a.Lifts) != 1 || len(a.Pistes) != 1 || len(a.WaterBodies) != 1 {
					t.Errorf("counts = %d/%d/%d, want 1/1/1", len(a.Lifts), len(a.Pistes), len(a.WaterBodies))
				}
			},
		},
		{
			name: "unclosed water ring is auto-closed",
			elements: []overpass.Element{
				node(1, 10.01, 47.01),
				node(2, 10.02, 47.01),
				way(10, map[string]string{"aerialway": "gondola"}, 1, 2),
				node(5, 10.03, 47.03),
				node(6, 10.05, 47.03),
				node(7, 10.05, 47.05),
				node(8, 10.03, 47.05),
				way(30, map[string]string{"natural": "water", "name": "Lake"}, 5, 6, 7, 8),
			},
			validate: func(t *testing.T, a *Assembly) {
				if len(a.WaterBodies) != 1 {
					t.Fatalf("len(WaterBodies) = %d, want 1", len(a.WaterBodies))
				}
				w := a.WaterBodies[0]
				if !w.Exterior.Closed() || len(w.Exterior) != 5 {
					t.Errorf("Exterior = %v, want closed ring of 5 points", w.Exterior)
				}
				if w.Name != "Lake" || w.Type != "water" {
					t.Errorf("Name/Type = %q/%q, want Lake/water", w.Name, w.Type)
				}
			},
		},
		{
			name: "two point ring dropped",
			elements: []overpass.Element{
				node(1, 10.01, 47.01),
				node(2, 10.02, 47.01),
				way(10, map[string]string{"aerialway": "gondola"}, 1, 2),
				way(30, map[string]string{"water": "pond"}, 1, 2, 1),
			},
			validate: func(t *testing.T, a *Assembly) {
				if len(a.WaterBodies) != 0 {
					t.Errorf("len(WaterBodies) = %d, want 0", len(a.WaterBodies))
				}
				if !hasWarning(a.Warnings, types.ErrTooFewPoints) {
					t.Errorf("Warnings = %v, want ErrTooFewPoints", a.Warnings)
				}
			},
		},
		{
			name: "self-intersecting ring dropped",
			elements: []overpass.Element{
				node(1, 10.00, 47.00),
				node(2, 10.02, 47.02),
				node(3, 10.02, 47.00),
				node(4, 10.00, 47.02),
				way(10, map[string]string{"aerialway": "gondola"}, 1, 2),
				way(30, map[string]string{"natural": "water"}, 1, 2, 3, 4, 1),
			},
			validate: func(t *testing.T, a *Assembly) {
				if len(a.WaterBodies) != 0 {
					t.Errorf("len(WaterBodies) = %d, want 0", len(a.WaterBodies))
				}
				if !hasWarning(a.Warnings, types.ErrInvalidRing) {
					t.Errorf("Warnings = %v, want ErrInvalidRing", a.Warnings)
				}
			},
		},
		{
			name: "multipolygon relation with hole",
			elements: []overpass.Element{
				node(1, 10.01, 47.01),
				node(2, 10.02, 47.01),
				way(10, map[string]string{"aerialway": "gondola"}, 1, 2),
				node(11, 10.00, 47.00),
				node(12, 10.10, 47.00),
				node(13, 10.10, 47.10),
				node(14, 10.00, 47.10),
				node(21, 10.04, 47.04),
				node(22, 10.06, 47.04),
				node(23, 10.06, 47.06),
				node(24, 10.04, 47.06),
				way(100, nil, 11, 12, 13, 14, 11),
				way(101, nil, 21, 22, 23, 24, 21),
				{
					Type: overpass.ElementTypeRelation,
					ID:   500,
					Tags: map[string]string{"type": "multipolygon", "natural": "water", "name": "Island Lake"},
					Members: []overpass.Member{
						{Type: overpass.ElementTypeWay, Ref: 100, Role: "outer"},
						{Type: overpass.ElementTypeWay, Ref: 101, Role: "inner"},
					},
				},
			},
			validate: func(t *testing.T, a *Assembly) {
				if len(a.WaterBodies) != 1 {
					t.Fatalf("len(WaterBodies) = %d, want 1", len(a.WaterBodies))
				}
				w := a.WaterBodies[0]
				if w.OsmID != 500 || w.Name != "Island Lake" {
					t.Errorf("WaterBody = %d %q, want 500 Island Lake", w.OsmID, w.Name)
				}
				if len(w.Interiors) != 1 {
					t.Errorf("len(Interiors) = %d, want 1", len(w.Interiors))
				}
			},
		},
		{
			name: "no lifts is no data",
			elements: []overpass.Element{
				node(1, 10.01, 47.01),
				node(2, 10.02, 47.02),
				way(20, map[string]string{"piste:type": "downhill"}, 1, 2),
			},
			wantErr: types.ErrNoData,
			validate: func(t *testing.T, a *Assembly) {
				if len(a.Pistes) != 1 {
					t.Errorf("len(Pistes) = %d, want 1", len(a.Pistes))
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Assemble(graphOf(tt.elements...))

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Assemble() error = %v, want %v", err, tt.wantErr)
				}
			} else if err != nil {
				t.Fatalf("Assemble() unexpected error = %v", err)
			}

			if got == nil {
				t.Fatal("Assemble() returned nil assembly")
			}
			if tt.validate != nil {
				tt.validate(t, got)
			}
		})
	}
}

func TestAssemble_OrderInsensitive(t *testing.T) {
	elements := []overpass.Element{
		way(10, map[string]string{"aerialway": "gondola", "name": "A"}, 1, 2, 3),
		way(11, map[string]string{"aerialway": "chair_lift", "name": "B"}, 4, 5),
		way(20, map[string]string{"piste:type": "downhill", "piste:difficulty": "easy"}, 3, 4, 5),
		way(30, map[string]string{"natural": "water"}, 6, 7, 8),
		way(31, map[string]string{"natural": "water"}, 6, 7),
		node(1, 10.01, 47.01),
		node(2, 10.02, 47.03),
		node(3, 10.03, 47.05),
		node(4, 10.04, 47.02),
		node(5, 10.05, 47.06),
		node(6, 10.06, 47.06),
		node(7, 10.08, 47.06),
		node(8, 10.07, 47.08),
	}

	want, err := Assemble(graphOf(elements...))
	if err != nil {
		t.Fatalf("Assemble() unexpected error = %v", err)
	}

	rng := rand.New(rand.NewPCG(1, 2))
	for i := range 20 {
		shuffled := append([]overpass.Element(nil), elements...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		got, err := Assemble(graphOf(shuffled...))
		if err != nil {
			t.Fatalf("shuffle %d: Assemble() unexpected error = %v", i, err)
		}
		if diff := cmp.Diff(want.Lifts, got.Lifts); diff != "" {
			t.Errorf("shuffle %d: Lifts mismatch (-want +got):\n%s", i, diff)
		}
		if diff := cmp.Diff(want.Pistes, got.Pistes); diff != "" {
			t.Errorf("shuffle %d: Pistes mismatch (-want +got):\n%s", i, diff)
		}
		if diff := cmp.Diff(want.WaterBodies, got.WaterBodies); diff != "" {
			t.Errorf("shuffle %d: WaterBodies mismatch (-want +got):\n%s", i, diff)
		}
		if len(got.Warnings) != len(want.Warnings) {
			t.Errorf("shuffle %d: len(Warnings) = %d, want %d", i, len(got.Warnings), len(want.Warnings))
		}
	}
}

func TestBuildQuery(t *testing.T) {
	b := types.GeoBounds{MinLon: 10.0, MinLat: 47.0, MaxLon: 10.1, MaxLat: 47.1}
	q := BuildQuery(b)

	for _, want := range []string{
		"[out:json][timeout:60];",
		`way["aerialway"](47.000000,10.000000,47.100000,10.100000);`,
		`way["natural"="water"](47.000000,10.000000,47.100000,10.100000);`,
		"(._;>;);",
		"out body;",
	} {
		if !strings.Contains(q, want) {
			t.Errorf("BuildQuery() missing %q in:\n%s", want, q)
		}
	}
}
