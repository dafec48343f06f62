package features

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// compact drops consecutive duplicate points.
func compact(ls orb.LineString) orb.LineString {
	out := make(orb.LineString, 0, len(ls))
	for _, p := range ls {
		if len(out) > 0 && out[len(out)-1].Equal(p) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func distinctPoints(ls orb.LineString) int {
	seen := make(map[orb.Point]struct{}, len(ls))
	for _, p := range ls {
		seen[p] = struct{}{}
	}
	return len(seen)
}

// closeRing appends the first point when the ring is open.
func closeRing(ls orb.LineString) orb.Ring {
	r := orb.Ring(append(orb.LineString(nil), ls...))
	if !r.Closed() {
		r = append(r, r[0])
	}
	return r
}

// validRing reports whether a closed ring encloses area and does not cross itself.
func validRing(r orb.Ring) bool {
	if len(r) < 4 || !r.Closed() {
		return false
	}
	if planar.Area(r) == 0 {
		return false
	}
	return ringIsSimple(r)
}

func ringIsSimple(r orb.Ring) bool {
	n := len(r) - 1
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if j == i+1 || (i == 0 && j == n-1) {
				continue
			}
			if segmentsIntersect(r[i], r[i+1], r[j], r[j+1]) {
				return false
			}
		}
	}
	return true
}

// ringsCross reports whether any edge of a crosses or touches any edge of b.
func ringsCross(a, b orb.Ring) bool {
	for i := 0; i+1 < len(a); i++ {
		for j := 0; j+1 < len(b); j++ {
			if segmentsIntersect(a[i], a[i+1], b[j], b[j+1]) {
				return true
			}
		}
	}
	return false
}

func orientation(a, b, c orb.Point) float64 {
	return (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
}

func onSegment(a, b, p orb.Point) bool {
	return min(a[0], b[0]) <= p[0] && p[0] <= max(a[0], b[0]) &&
		min(a[1], b[1]) <= p[1] && p[1] <= max(a[1], b[1])
}

func segmentsIntersect(p1, p2, p3, p4 orb.Point) bool {
	d1 := orientation(p3, p4, p1)
	d2 := orientation(p3, p4, p2)
	d3 := orientation(p1, p2, p3)
	d4 := orientation(p1, p2, p4)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) && ((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}

	// Collinear and touching cases
	switch {
	case d1 == 0 && onSegment(p3, p4, p1):
		return true
	case d2 == 0 && onSegment(p3, p4, p2):
		return true
	case d3 == 0 && onSegment(p1, p2, p3):
		return true
	case d4 == 0 && onSegment(p1, p2, p4):
		return true
	}
	return false
}
