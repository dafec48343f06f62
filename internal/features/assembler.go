package features

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"medi-skimap/internal/types"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

const (
	stageAssemble = "assemble"

	defaultLiftName       = "Unnamed Lift"
	defaultLiftType       = "unknown"
	defaultLiftStatus     = "open"
	defaultLiftCapacity   = 1800
	defaultPisteName      = "Unnamed Piste"
	defaultPisteType      = "downhill"
	defaultDifficulty     = "intermediate"
	defaultWaterName      = "Unnamed Water Body"
	defaultWaterType      = "unknown"
	minLinePoints         = 2
	minRingDistinctPoints = 3
)

// Assembly is the typed result of one graph. Warnings describe every way or
// relation that was skipped or patched with a default.
type Assembly struct {
	Lifts       []Lift
	Pistes      []Piste
	WaterBodies []WaterBody
	Warnings    []types.Warning
}

// nodeIndex maps node id to [lon,lat].
type nodeIndex map[int64]orb.Point

// Assemble reconstructs lifts, pistes and water bodies from g. Every node is
// indexed before any way is resolved, and ways are visited in id order, so the
// result does not depend on element order in g. A way matching several rules
// produces one feature per rule.
//
// The returned Assembly is always populated. The error is ErrNoData when no
// lift could be assembled.
func Assemble(g *Graph) (*Assembly, error) {
	a := &Assembly{}
	if g == nil {
		return a, types.ErrNoData
	}

	index := indexNodes(g.Nodes)

	ways := slices.Clone(g.Ways)
	slices.SortStableFunc(ways, func(x, y RawWay) int { return cmp.Compare(x.ID, y.ID) })

	for _, w := range ways {
		if _, ok := w.Tags["aerialway"]; ok {
			a.addLift(index, w)
		}
		if _, ok := w.Tags["piste:type"]; ok {
			a.addPiste(index, w)
		}
		if isWater(w.Tags) {
			a.addWaterWay(index, w)
		}
	}

	relations := slices.Clone(g.Relations)
	slices.SortStableFunc(relations, func(x, y RawRelation) int { return cmp.Compare(x.ID, y.ID) })

	wayByID := make(map[int64]RawWay, len(ways))
	for _, w := range ways {
		wayByID[w.ID] = w
	}
	for _, rel := range relations {
		if isWater(rel.Tags) && rel.Tags["type"] == "multipolygon" {
			a.addWaterRelation(index, wayByID, rel)
		}
	}

	if len(a.Lifts) == 0 {
		return a, types.ErrNoData
	}
	return a, nil
}

func indexNodes(nodes []RawNode) nodeIndex {
	index := make(nodeIndex, len(nodes))
	for _, n := range nodes {
		index[n.ID] = orb.Point{n.Lon, n.Lat}
	}
	return index
}

// resolve looks up every reference in order. Missing nodes are skipped and
// reported; the remaining points keep their relative order.
func (idx nodeIndex) resolve(refs []int64) (orb.LineString, []int64) {
	line := make(orb.LineString, 0, len(refs))
	var missing []int64
	for _, ref := range refs {
		p, ok := idx[ref]
		if !ok {
			missing = append(missing, ref)
			continue
		}
		line = append(line, p)
	}
	return line, missing
}

func (a *Assembly) warn(subject string, err error) {
	a.Warnings = append(a.Warnings, types.NewWarning(stageAssemble, subject, err))
}

func (a *Assembly) resolveLine(index nodeIndex, w RawWay, subject string) (orb.LineString, bool) {
	line, missing := index.resolve(w.NodeRefs)
	if len(missing) > 0 {
		a.warn(subject, fmt.Errorf("%w: missing %d of %d nodes, first %d",
			types.ErrUnresolvedNode, len(missing), len(w.NodeRefs), missing[0]))
	}
	if len(line) < minLinePoints {
		a.warn(subject, fmt.Errorf("%w: %d resolved points, need %d", types.ErrTooFewPoints, len(line), minLinePoints))
		return nil, false
	}
	return line, true
}

func (a *Assembly) addLift(index nodeIndex, w RawWay) {
	name := tagOr(w.Tags, "name", defaultLiftName)
	subject := wayDesc(KindLift, w.ID, name)

	line, ok := a.resolveLine(index, w, subject)
	if !ok {
		return
	}

	capacity := defaultLiftCapacity
	if raw, ok := w.Tags["aerialway:capacity"]; ok {
		if v, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && v >= 0 {
			capacity = v
		} else {
			a.warn(subject, fmt.Errorf("%w: aerialway:capacity=%q, using %d", types.ErrInvalidTag, raw, defaultLiftCapacity))
		}
	}

	a.Lifts = append(a.Lifts, Lift{
		OsmID:       w.ID,
		Name:        name,
		Type:        tagOr(w.Tags, "aerialway", defaultLiftType),
		Difficulty:  tagOr(w.Tags, "piste:difficulty", defaultDifficulty),
		Status:      defaultLiftStatus,
		Capacity:    capacity,
		Description: w.Tags["description"],
		Geometry:    line,
	})
}

func (a *Assembly) addPiste(index nodeIndex, w RawWay) {
	name := tagOr(w.Tags, "name", defaultPisteName)
	subject := wayDesc(KindPiste, w.ID, name)

	line, ok := a.resolveLine(index, w, subject)
	if !ok {
		return
	}

	a.Pistes = append(a.Pistes, Piste{
		OsmID:      w.ID,
		Name:       name,
		Type:       tagOr(w.Tags, "piste:type", defaultPisteType),
		Difficulty: tagOr(w.Tags, "piste:difficulty", defaultDifficulty),
		Geometry:   line,
	})
}

func (a *Assembly) addWaterWay(index nodeIndex, w RawWay) {
	name := tagOr(w.Tags, "name", defaultWaterName)
	subject := wayDesc(KindWater, w.ID, name)

	ring, ok := a.buildRing(index, w, subject)
	if !ok {
		return
	}

	a.WaterBodies = append(a.WaterBodies, WaterBody{
		OsmID:    w.ID,
		Name:     name,
		Type:     waterType(w.Tags),
		Exterior: ring,
	})
}

// buildRing resolves a way into a closed, valid ring.
func (a *Assembly) buildRing(index nodeIndex, w RawWay, subject string) (orb.Ring, bool) {
	line, missing := index.resolve(w.NodeRefs)
	if len(missing) > 0 {
		a.warn(subject, fmt.Errorf("%w: missing %d of %d nodes, first %d",
			types.ErrUnresolvedNode, len(missing), len(w.NodeRefs), missing[0]))
	}

	line = compact(line)
	if n := distinctPoints(line); n < minRingDistinctPoints {
		a.warn(subject, fmt.Errorf("%w: %d distinct points, need %d", types.ErrTooFewPoints, n, minRingDistinctPoints))
		return nil, false
	}

	ring := closeRing(line)
	if !validRing(ring) {
		a.warn(subject, fmt.Errorf("%w: ring is self-intersecting or has no area", types.ErrInvalidRing))
		return nil, false
	}
	return ring, true
}

// addWaterRelation builds one water body per closed outer member. Inner
// members become holes of the outer ring that contains them.
func (a *Assembly) addWaterRelation(index nodeIndex, wayByID map[int64]RawWay, rel RawRelation) {
	name := tagOr(rel.Tags, "name", defaultWaterName)
	relSubject := fmt.Sprintf("%s relation %d (%s)", KindWater, rel.ID, name)

	var outers, inners []orb.Ring
	for _, m := range rel.Members {
		if m.Type != "way" {
			continue
		}
		subject := fmt.Sprintf("%s member way %d", relSubject, m.Ref)
		w, ok := wayByID[m.Ref]
		if !ok {
			a.warn(subject, fmt.Errorf("%w: member way not in response", types.ErrUnresolvedNode))
			continue
		}
		if len(w.NodeRefs) < 2 || w.NodeRefs[0] != w.NodeRefs[len(w.NodeRefs)-1] {
			a.warn(subject, fmt.Errorf("%w: open member way, split rings are not joined", types.ErrInvalidRing))
			continue
		}
		ring, ok := a.buildRing(index, w, subject)
		if !ok {
			continue
		}
		if m.Role == "inner" {
			inners = append(inners, ring)
		} else {
			outers = append(outers, ring)
		}
	}

	used := make([]bool, len(inners))
	for _, outer := range outers {
		body := WaterBody{
			OsmID:    rel.ID,
			Name:     name,
			Type:     waterType(rel.Tags),
			Exterior: outer,
		}
		for i, inner := range inners {
			if used[i] || !planar.RingContains(outer, inner[0]) || ringsCross(outer, inner) {
				continue
			}
			body.Interiors = append(body.Interiors, inner)
			used[i] = true
		}
		a.WaterBodies = append(a.WaterBodies, body)
	}

	for i, ok := range used {
		if !ok {
			a.warn(relSubject, fmt.Errorf("%w: inner ring %d lies outside every outer ring", types.ErrInvalidRing, i))
		}
	}
}

func isWater(tags map[string]string) bool {
	if tags["natural"] == "water" {
		return true
	}
	_, ok := tags["water"]
	return ok
}

func waterType(tags map[string]string) string {
	for _, key := range []string{"natural", "water", "waterway"} {
		if v := tags[key]; v != "" {
			return v
		}
	}
	return defaultWaterType
}

func tagOr(tags map[string]string, key, fallback string) string {
	if v := strings.TrimSpace(tags[key]); v != "" {
		return v
	}
	return fallback
}

func wayDesc(kind string, id int64, name string) string {
	return fmt.Sprintf("%s way %d (%s)", kind, id, name)
}
