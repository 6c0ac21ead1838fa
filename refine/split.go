package refine

import (
	"math"
	"sort"

	"github.com/gocomics/panelflow"
)

// Split is the result of a successful polygon split: two sub-panels, the
// segment along which the cut runs, and how well detected line segments
// cover that cut.
type Split struct {
	First, Second Panel
	SplitSegment  panelflow.Segment
	Coverage      float64
}

// collapseClose removes vertices that sit within thresh of their
// predecessor on both axes, folding the last vertex into the first when
// the ring closes on itself.
func collapseClose(pts []panelflow.Point, thresh float64) []panelflow.Point {
	out := make([]panelflow.Point, 0, len(pts))
	for _, pt := range pts {
		if len(out) > 0 {
			last := out[len(out)-1]
			if math.Abs(float64(pt.X-last.X)) < thresh && math.Abs(float64(pt.Y-last.Y)) < thresh {
				continue
			}
		}
		out = append(out, pt)
	}
	if len(out) > 1 {
		first, last := out[0], out[len(out)-1]
		if math.Abs(float64(first.X-last.X)) < thresh && math.Abs(float64(first.Y-last.Y)) < thresh {
			out = out[:len(out)-1]
		}
	}
	return out
}

// edgeParam returns the parametric position t of v's orthogonal projection
// onto the line through a and b (0 at a, 1 at b) along with the projected
// point itself, rounded to the nearest pixel.
func edgeParam(a, b, v panelflow.Point) (float64, panelflow.Point) {
	dx, dy := float64(b.X-a.X), float64(b.Y-a.Y)
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return 0, a
	}
	t := (float64(v.X-a.X)*dx + float64(v.Y-a.Y)*dy) / lenSq
	return t, panelflow.Point{X: a.X + int(math.Round(t*dx)), Y: a.Y + int(math.Round(t*dy))}
}

// insertIntermediaryDots walks ring's edges and, on every edge longer than
// 2*inset, adds a pair of dots inset from each endpoint plus the
// perpendicular projection of any other ring vertex that lands on the edge
// within (wThird, hThird) of it -- giving the splitter candidate vertices
// to work with along long, otherwise featureless edges.
func insertIntermediaryDots(ring []panelflow.Point, inset, wThird, hThird float64) []panelflow.Point {
	n := len(ring)
	if n < 2 {
		return ring
	}
	longEdge := inset * 2

	type mid struct {
		t  float64
		pt panelflow.Point
	}

	out := make([]panelflow.Point, 0, n)
	for i := 0; i < n; i++ {
		a, b := ring[i], ring[(i+1)%n]
		out = append(out, a)

		edge := panelflow.Segment{A: a, B: b}
		length := edge.Dist()
		if length <= longEdge {
			continue
		}

		ux, uy := float64(b.X-a.X)/length, float64(b.Y-a.Y)/length
		p1 := panelflow.Point{X: a.X + int(math.Round(ux*inset)), Y: a.Y + int(math.Round(uy*inset))}
		p2 := panelflow.Point{X: b.X - int(math.Round(ux*inset)), Y: b.Y - int(math.Round(uy*inset))}

		var mids []mid
		for _, v := range ring {
			if v == a || v == b {
				continue
			}
			t, proj := edgeParam(a, b, v)
			if t <= 0 || t >= 1 {
				continue
			}
			if math.Abs(float64(v.X-proj.X)) > wThird || math.Abs(float64(v.Y-proj.Y)) > hThird {
				continue
			}
			mids = append(mids, mid{t: t, pt: proj})
		}
		sort.Slice(mids, func(i, j int) bool { return mids[i].t < mids[j].t })

		out = append(out, p1)
		for _, m := range mids {
			out = append(out, m.pt)
		}
		out = append(out, p2)
	}
	return out
}

// refinedPolygon collapses vertices closer than (w/3)/10 on both axes,
// inserts intermediary dots along long edges (inset dots from each
// endpoint plus projected dots from any other vertex that lands on the
// edge), and re-collapses neighbors, giving the splitter more candidate
// cut points along otherwise featureless straight runs.
func (p Panel) refinedPolygon() []panelflow.Point {
	thresh := float64(p.W()) / 3 / 10
	collapsed := collapseClose(p.Polygon, thresh)
	withDots := insertIntermediaryDots(collapsed, p.Diagonal().Dist()/5, float64(p.W())/3, float64(p.H())/3)
	return collapseClose(withDots, thresh)
}

// Split attempts to cut p into two sub-panels along a detected line
// segment. It returns false when the panel is not a splittable polygon, is
// too small to admit a split, has no valid candidate cut, or no candidate
// exceeds the required 50% segment coverage.
func (p Panel) Split(segments []panelflow.Segment) (Split, bool) {
	if p.Kind != Polygonal || !p.Splittable || len(p.Polygon) < 3 {
		return Split{}, false
	}
	if p.IsSmall(2.0) {
		return Split{}, false
	}

	refined := p.refinedPolygon()
	n := len(refined)
	if n < 4 {
		return Split{}, false
	}

	wThird := float64(p.W()) / 3
	hThird := float64(p.H()) / 3

	var best Split
	bestCovered := -1.0
	found := false

	for i := 0; i < n; i++ {
		for j := i + 3; j < n; j++ {
			if n-(j-i) < 3 {
				continue
			}
			if math.Abs(float64(refined[i].X-refined[j].X)) > wThird {
				continue
			}
			if math.Abs(float64(refined[i].Y-refined[j].Y)) > hThird {
				continue
			}

			firstPoly := make([]panelflow.Point, 0, j-i+1)
			firstPoly = append(firstPoly, refined[i:j+1]...)
			secondPoly := make([]panelflow.Point, 0, n-(j-i)+1)
			secondPoly = append(secondPoly, refined[j:]...)
			secondPoly = append(secondPoly, refined[:i+1]...)

			if len(firstPoly) < 3 || len(secondPoly) < 3 {
				continue
			}

			first := NewPanelFromPolygon(p.ctx, firstPoly, true)
			second := NewPanelFromPolygon(p.ctx, secondPoly, true)

			if first.IsSmall(1.0) || second.IsSmall(1.0) {
				continue
			}
			if first.EqualBounds(p) || second.EqualBounds(p) {
				continue
			}
			if first.Overlaps(second) {
				continue
			}

			splitSeg := panelflow.AlongPolygon(refined, i, j)
			segLen := splitSeg.Dist()
			if segLen == 0 {
				continue
			}

			covered := 0.0
			for _, s := range segments {
				if !p.containsSegment(s) {
					continue
				}
				if m, ok := splitSeg.Intersect(s); ok {
					covered += m.Dist()
				}
			}
			coverage := covered / segLen
			if coverage <= 0.5 {
				continue
			}

			first.SplitCoverage, first.HasSplitCoverage = coverage, true
			second.SplitCoverage, second.HasSplitCoverage = coverage, true

			if !found || covered > bestCovered {
				best = Split{First: first, Second: second, SplitSegment: splitSeg, Coverage: coverage}
				bestCovered = covered
				found = true
			}
		}
	}

	if !found {
		return Split{}, false
	}
	return best, true
}
