package panelflow

import (
	"math"
	"sort"

	assert "github.com/arl/assertgo"
)

// Segment is an ordered pair of integer points. Equality (Equals) is
// unordered: a segment and its endpoint-swapped twin are the same segment.
// Direction is preserved only for Project, never for identity.
type Segment struct {
	A, B Point
}

// NewSegment builds a segment from two points.
func NewSegment(a, b Point) Segment { return Segment{A: a, B: b} }

// Equals reports whether s and other join the same two endpoints, in either
// order.
func (s Segment) Equals(other Segment) bool {
	return (s.A == other.A && s.B == other.B) || (s.A == other.B && s.B == other.A)
}

func (s Segment) dx() float64 { return float64(s.B.X - s.A.X) }
func (s Segment) dy() float64 { return float64(s.B.Y - s.A.Y) }

// Dist returns the Euclidean length of the segment.
func (s Segment) Dist() float64 {
	return math.Hypot(s.dx(), s.dy())
}

// Left, Top, Right and Bottom are the segment's axis-aligned bounding rect.
func (s Segment) Left() int   { return MinInt(s.A.X, s.B.X) }
func (s Segment) Top() int    { return MinInt(s.A.Y, s.B.Y) }
func (s Segment) Right() int  { return MaxInt(s.A.X, s.B.X) }
func (s Segment) Bottom() int { return MaxInt(s.A.Y, s.B.Y) }

// Center is the integer midpoint, floor-rounded.
func (s Segment) Center() Point {
	return Point{
		X: int(math.Floor(float64(s.A.X+s.B.X) / 2)),
		Y: int(math.Floor(float64(s.A.Y+s.B.Y) / 2)),
	}
}

// Angle is atan(dy/dx) in radians; a vertical segment maps to pi/2.
func (s Segment) Angle() float64 {
	if s.dx() == 0 {
		return math.Pi / 2
	}
	return math.Atan(s.dy() / s.dx())
}

// NearParallel reports whether the angle between s and other, modulo 180
// degrees, is within 10 degrees.
func (s Segment) NearParallel(other Segment) bool {
	const toleranceDeg = 10.0
	a1 := s.Angle() * 180 / math.Pi
	a2 := other.Angle() * 180 / math.Pi
	diff := math.Mod(math.Abs(a1-a2), 180)
	if diff > 90 {
		diff = 180 - diff
	}
	return diff <= toleranceDeg
}

// BoundingContains reports whether p lies in the segment's closed bounding
// rect.
func (s Segment) BoundingContains(p Point) bool {
	return p.X >= s.Left() && p.X <= s.Right() && p.Y >= s.Top() && p.Y <= s.Bottom()
}

// Project returns the orthogonal projection of p onto the infinite line
// through A and B. Zero-length segments project everything onto A.
func (s Segment) Project(p Point) Point {
	dx, dy := s.dx(), s.dy()
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return s.A
	}
	t := (float64(p.X-s.A.X)*dx + float64(p.Y-s.A.Y)*dy) / lenSq
	return Point{
		X: s.A.X + int(math.Round(t*dx)),
		Y: s.A.Y + int(math.Round(t*dy)),
	}
}

// perpDistance is the distance from p to the infinite line through s.
func (s Segment) perpDistance(p Point) float64 {
	proj := s.Project(p)
	return math.Hypot(float64(p.X-proj.X), float64(p.Y-proj.Y))
}

// boundsClose reports whether s and other's bounding rects lie within tol of
// each other on both axes.
func (s Segment) boundsClose(other Segment, tol float64) bool {
	xOverlap := float64(MaxInt(s.Left(), other.Left())) <= float64(MinInt(s.Right(), other.Right()))+tol
	yOverlap := float64(MaxInt(s.Top(), other.Top())) <= float64(MinInt(s.Bottom(), other.Bottom()))+tol
	return xOverlap && yOverlap
}

// Intersect returns the overlapping portion of s and other when they are
// near-parallel, their mean perpendicular distance is within a 5% gutter of
// the longer segment, and their bounding rects are close within the same
// tolerance on both axes.
func (s Segment) Intersect(other Segment) (Segment, bool) {
	if !s.NearParallel(other) {
		return Segment{}, false
	}

	gutter := 0.05 * MaxFloat(s.Dist(), other.Dist())
	meanPerp := (s.perpDistance(other.A) + s.perpDistance(other.B)) / 2
	if meanPerp > gutter {
		return Segment{}, false
	}
	if !s.boundsClose(other, gutter) {
		return Segment{}, false
	}

	pts := []Point{s.A, s.B, other.A, other.B}
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].sum() < pts[j].sum() })
	return Segment{A: pts[1], B: pts[2]}, true
}

// Union returns the segment joining the two outer points of s and other when
// they intersect; otherwise it reports false.
func (s Segment) Union(other Segment) (Segment, bool) {
	if _, ok := s.Intersect(other); !ok {
		return Segment{}, false
	}
	pts := []Point{s.A, s.B, other.A, other.B}
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].sum() < pts[j].sum() })
	return Segment{A: pts[0], B: pts[3]}, true
}

// UnionAll iterates to a fixed point, merging any pair of segments whose
// Union exists, and returns the deduplicated result.
func UnionAll(segs []Segment) []Segment {
	result := append([]Segment(nil), segs...)

	merged := true
	for merged {
		merged = false
		for i := 0; i < len(result) && !merged; i++ {
			for j := i + 1; j < len(result); j++ {
				u, ok := result[i].Union(result[j])
				if !ok {
					continue
				}
				next := make([]Segment, 0, len(result)-1)
				for k, seg := range result {
					if k == i || k == j {
						continue
					}
					next = append(next, seg)
				}
				next = append(next, u)
				result = next
				merged = true
				break
			}
		}
	}
	return result
}

// AlongPolygon extends the chord (poly[i], poly[j]) backward from i and
// forward from j while successive polygon edges remain near-parallel with
// the accumulated chord. poly is treated as a closed ring.
func AlongPolygon(poly []Point, i, j int) Segment {
	assert.True(len(poly) >= 2, "AlongPolygon requires at least 2 vertices")
	n := len(poly)
	a, b := poly[i], poly[j]
	prev, next := i, j

	for {
		cand := (prev - 1 + n) % n
		if cand == next {
			break
		}
		edge := Segment{A: poly[cand], B: poly[prev]}
		chord := Segment{A: a, B: b}
		if !edge.NearParallel(chord) {
			break
		}
		a = poly[cand]
		prev = cand
	}

	for {
		cand := (next + 1) % n
		if cand == prev {
			break
		}
		edge := Segment{A: poly[next], B: poly[cand]}
		chord := Segment{A: a, B: b}
		if !edge.NearParallel(chord) {
			break
		}
		b = poly[cand]
		next = cand
	}

	return Segment{A: a, B: b}
}
