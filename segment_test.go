package panelflow

import (
	"math"
	"testing"
)

func TestSegmentAngle(t *testing.T) {
	tests := []struct {
		name string
		seg  Segment
		want float64
	}{
		{"horizontal", Segment{Point{0, 0}, Point{10, 0}}, 0},
		{"vertical", Segment{Point{0, 0}, Point{0, 10}}, math.Pi / 2},
		{"diagonal", Segment{Point{0, 0}, Point{10, 10}}, math.Pi / 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.seg.Angle(); !ApproxEqual(got, tt.want) {
				t.Errorf("Angle() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSegmentNearParallel(t *testing.T) {
	a := Segment{Point{0, 0}, Point{100, 0}}
	closeToHoriz := Segment{Point{0, 5}, Point{100, 8}}
	vertical := Segment{Point{0, 0}, Point{0, 100}}

	if !a.NearParallel(closeToHoriz) {
		t.Errorf("expected %v near-parallel to %v", closeToHoriz, a)
	}
	if a.NearParallel(vertical) {
		t.Errorf("did not expect %v near-parallel to %v", vertical, a)
	}
}

func TestSegmentIntersectCommutative(t *testing.T) {
	a := Segment{Point{0, 0}, Point{100, 0}}
	b := Segment{Point{10, 1}, Point{90, 1}}

	ab, okAB := a.Intersect(b)
	ba, okBA := b.Intersect(a)

	if okAB != okBA {
		t.Fatalf("Intersect not commutative on existence: %v vs %v", okAB, okBA)
	}
	if okAB && ab != ba {
		t.Errorf("Intersect not commutative on result: %v vs %v", ab, ba)
	}
}

func TestSegmentIntersectFarApart(t *testing.T) {
	a := Segment{Point{0, 0}, Point{100, 0}}
	b := Segment{Point{0, 500}, Point{100, 500}}

	if _, ok := a.Intersect(b); ok {
		t.Errorf("expected no intersection for far-apart parallel segments")
	}
}

func TestUnionAllDeduplicates(t *testing.T) {
	segs := []Segment{
		{Point{0, 0}, Point{50, 0}},
		{Point{40, 1}, Point{100, 1}},
		{Point{0, 300}, Point{30, 300}},
	}
	out := UnionAll(segs)
	if len(out) >= len(segs) {
		t.Errorf("expected union_all to merge the overlapping pair, got %d segments", len(out))
	}
}

func TestProjectZeroLength(t *testing.T) {
	s := Segment{Point{5, 5}, Point{5, 5}}
	got := s.Project(Point{9, 9})
	if got != s.A {
		t.Errorf("Project on zero-length segment = %v, want %v", got, s.A)
	}
}

func TestAlongPolygonExtendsOverAlignedEdges(t *testing.T) {
	poly := []Point{{0, 0}, {50, 0}, {100, 0}, {100, 100}, {0, 100}}
	got := AlongPolygon(poly, 1, 2)
	if got.A != (Point{0, 0}) {
		t.Errorf("expected chord to extend back to the first collinear vertex, got %v", got.A)
	}
}
