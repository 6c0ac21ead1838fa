package refine

import (
	"sort"

	"github.com/gocomics/panelflow"
	"github.com/gocomics/panelflow/imaging"
)

// axisAlignedThreshold is the AxisAlignment score corresponding to a
// segment within 15 degrees of horizontal or vertical.
const axisAlignedThreshold = 1 - 15.0/45.0

// Options toggles the optional cascade stages, mirroring the
// PipelineConfig flags of the same name.
type Options struct {
	NeedPolygon     bool
	SmallPanelGroup bool
	Splitting       bool
	BigPanelGroup   bool
	PanelExpansion  bool
	// RemoveContained enables the final containment-pruning pass. Its
	// prefer-smaller behavior drops the container, not the contained, and
	// is reliable mainly for false outer frames, so it defaults off unless
	// the caller has validated it against their own corpus.
	RemoveContained bool
}

// Run executes the full refinement cascade in order: initial
// construction, group small, split, exclude small, merge contained,
// deoverlap, expand, fallback, group big, remove contained.
func Run(ctx *Context, contours [][]panelflow.Point, segments []panelflow.Segment, opts Options, sample GutterSampler) []Panel {
	panels := InitialConstruction(ctx, contours, opts.NeedPolygon)

	if opts.SmallPanelGroup {
		panels = GroupSmall(ctx, panels)
	}
	if opts.Splitting {
		panels = SplitStage(panels, segments, sample)
	}
	panels = ExcludeSmall(panels)
	if opts.Splitting {
		panels = MergeContained(panels)
	}
	panels = Deoverlap(panels)
	if opts.PanelExpansion {
		panels = Expand(panels)
	}
	panels = Fallback(ctx, panels)
	if opts.BigPanelGroup {
		panels = GroupBig(panels, segments)
	}
	if opts.RemoveContained {
		panels = RemoveContained(panels)
	}
	return panels
}

// InitialConstruction builds the starting working set from a slice of
// contours (already simplified to polygons by the image pipeline). Very
// small contours are dropped immediately.
func InitialConstruction(ctx *Context, contours [][]panelflow.Point, needPolygon bool) []Panel {
	var panels []Panel
	for _, c := range contours {
		if len(c) < 3 {
			continue
		}
		var p Panel
		if needPolygon {
			p = NewPanelFromPolygon(ctx, c, true)
		} else {
			p = boundingPanelFromPoints(ctx, c)
		}
		if p.IsVerySmall() {
			continue
		}
		panels = append(panels, p)
	}
	return panels
}

func boundingPanelFromPoints(ctx *Context, pts []panelflow.Point) Panel {
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := pts[0].X, pts[0].Y
	for _, p := range pts[1:] {
		minX = panelflow.MinInt(minX, p.X)
		minY = panelflow.MinInt(minY, p.Y)
		maxX = panelflow.MaxInt(maxX, p.X)
		maxY = panelflow.MaxInt(maxY, p.Y)
	}
	return NewPanelFromRect(ctx, minX, minY, maxX-minX, maxY-minY)
}

// unionFind is a minimal disjoint-set structure for GroupSmall.
type unionFind struct{ parent []int }

func newUnionFind(n int) *unionFind {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return &unionFind{parent: p}
}

func (u *unionFind) find(i int) int {
	for u.parent[i] != i {
		u.parent[i] = u.parent[u.parent[i]]
		i = u.parent[i]
	}
	return i
}

func (u *unionFind) union(i, j int) {
	ri, rj := u.find(i), u.find(j)
	if ri != rj {
		u.parent[rj] = ri
	}
}

// GroupSmall replaces clusters of mutually close small panels with one
// non-splittable panel covering their convex hull.
func GroupSmall(ctx *Context, panels []Panel) []Panel {
	var small []Panel
	var smallIdx []int
	for i, p := range panels {
		if p.IsSmall(1.0) {
			small = append(small, p)
			smallIdx = append(smallIdx, i)
		}
	}
	if len(small) < 2 {
		return panels
	}

	uf := newUnionFind(len(small))
	for i := 0; i < len(small); i++ {
		for j := i + 1; j < len(small); j++ {
			if small[i].IsClose(small[j]) {
				uf.union(i, j)
			}
		}
	}

	groups := make(map[int][]int)
	for i := range small {
		root := uf.find(i)
		groups[root] = append(groups[root], i)
	}

	toRemove := make(map[int]bool)
	var replacements []Panel
	for _, members := range groups {
		if len(members) < 2 {
			continue
		}
		var allPts []panelflow.Point
		for _, m := range members {
			allPts = append(allPts, small[m].polygonOrCorners()...)
			toRemove[smallIdx[m]] = true
		}
		hull := convexHull(allPts)
		if len(hull) < 3 {
			continue
		}
		replacements = append(replacements, NewPanelFromPolygon(ctx, hull, false))
	}
	if len(replacements) == 0 {
		return panels
	}

	var remaining []Panel
	for i, p := range panels {
		if !toRemove[i] {
			remaining = append(remaining, p)
		}
	}
	return append(remaining, replacements...)
}

// GutterValidationMaxVariance is the maximum pixel variance allowed along a
// proposed split segment. Pixel intensities are sampled under splitSeg from
// the page image; GutterSampler abstracts that so refine has no image
// dependency of its own.
const GutterValidationMaxVariance = 400.0

// GutterSampler computes pixel variance along a segment in the page's
// grayscale image -- supplied by the detector facade, which owns the image.
type GutterSampler func(s panelflow.Segment) float64

// SplitStage iteratively splits the largest-area panel whose candidate
// split passes gutter-color validation, restarting after every accepted
// split, until no panel admits one.
func SplitStage(panels []Panel, segments []panelflow.Segment, sample GutterSampler) []Panel {
	for {
		order := make([]int, len(panels))
		for i := range order {
			order[i] = i
		}
		sort.Slice(order, func(a, b int) bool {
			return panels[order[a]].Area() > panels[order[b]].Area()
		})

		split := false
		for _, idx := range order {
			p := panels[idx]
			s, ok := p.Split(segments)
			if !ok {
				continue
			}
			if sample != nil && sample(s.SplitSegment) > GutterValidationMaxVariance {
				continue
			}
			next := make([]Panel, 0, len(panels)+1)
			for i, q := range panels {
				if i == idx {
					continue
				}
				next = append(next, q)
			}
			next = append(next, s.First, s.Second)
			panels = next
			split = true
			break
		}
		if !split {
			break
		}
	}
	return panels
}

// ExcludeSmall drops every is_small panel.
func ExcludeSmall(panels []Panel) []Panel {
	var out []Panel
	for _, p := range panels {
		if !p.IsSmall(1.0) {
			out = append(out, p)
		}
	}
	return out
}

// MergeContained absorbs contained panels into their container via Merge,
// only meaningful once splitting has run.
func MergeContained(panels []Panel) []Panel {
	removed := make(map[int]bool)
	for i := range panels {
		if removed[i] {
			continue
		}
		for j := range panels {
			if i == j || removed[j] {
				continue
			}
			if panels[i].Contains(panels[j]) {
				panels[i] = panels[i].Merge(panels[j], panels)
				removed[j] = true
			}
		}
	}
	var out []Panel
	for i, p := range panels {
		if !removed[i] {
			out = append(out, p)
		}
	}
	return out
}

// Deoverlap shrinks exactly one edge of each overlapping pair to remove
// slight splitter-induced overlaps.
func Deoverlap(panels []Panel) []Panel {
	for i := range panels {
		for j := range panels {
			if i == j {
				continue
			}
			o, ok := panels[i].OverlapRect(panels[j])
			if !ok {
				continue
			}
			if o.W() < o.H() && panels[i].Right == o.Right {
				panels[i].Right = o.X
				panels[j].X = o.Right
				continue
			}
			if o.W() > o.H() && panels[i].Bottom == o.Bottom {
				panels[i].Bottom = o.Y
				panels[j].Y = o.Bottom
			}
		}
	}
	return panels
}

// signedGutters computes the page-wide minimum positive gap per axis, and
// its negation for the "opposite" directions (right/bottom).
func signedGutters(panels []Panel) map[string]int {
	var gx, gy []int
	for _, p := range panels {
		if li := LeftNeighbor(p, panels); li >= 0 {
			if g := p.X - panels[li].Right; g > 0 {
				gx = append(gx, g)
			}
		}
		if ti := TopNeighbor(p, panels); ti >= 0 {
			if g := p.Y - panels[ti].Bottom; g > 0 {
				gy = append(gy, g)
			}
		}
	}
	if len(gx) == 0 {
		gx = []int{1}
	}
	if len(gy) == 0 {
		gy = []int{1}
	}
	minOf := func(vs []int) int {
		m := vs[0]
		for _, v := range vs[1:] {
			m = panelflow.MinInt(m, v)
		}
		return m
	}
	x, y := minOf(gx), minOf(gy)
	return map[string]int{"x": x, "y": y, "right": -x, "bottom": -y}
}

// Expand grows every panel toward its neighbor's facing edge (plus the
// page-wide signed gutter) or, absent a neighbor, to the extreme coordinate
// across all panels on that side. A side is only ever moved outward.
func Expand(panels []Panel) []Panel {
	if len(panels) == 0 {
		return panels
	}
	gutters := signedGutters(panels)

	for i := range panels {
		p := panels[i]

		if li := LeftNeighbor(p, panels); li >= 0 {
			if nx := panels[li].Right + gutters["x"]; nx < p.X {
				panels[i].X = nx
			}
		} else {
			minX := panels[0].X
			for _, q := range panels {
				minX = panelflow.MinInt(minX, q.X)
			}
			if minX < panels[i].X {
				panels[i].X = minX
			}
		}

		if ti := TopNeighbor(p, panels); ti >= 0 {
			if ny := panels[ti].Bottom + gutters["y"]; ny < p.Y {
				panels[i].Y = ny
			}
		} else {
			minY := panels[0].Y
			for _, q := range panels {
				minY = panelflow.MinInt(minY, q.Y)
			}
			if minY < panels[i].Y {
				panels[i].Y = minY
			}
		}

		if ri := RightNeighbor(p, panels); ri >= 0 {
			if nr := panels[ri].X + gutters["right"]; nr > p.Right {
				panels[i].Right = nr
			}
		} else {
			maxR := panels[0].Right
			for _, q := range panels {
				maxR = panelflow.MaxInt(maxR, q.Right)
			}
			if maxR > panels[i].Right {
				panels[i].Right = maxR
			}
		}

		if bi := BottomNeighbor(p, panels); bi >= 0 {
			if nb := panels[bi].Y + gutters["bottom"]; nb > p.Bottom {
				panels[i].Bottom = nb
			}
		} else {
			maxB := panels[0].Bottom
			for _, q := range panels {
				maxB = panelflow.MaxInt(maxB, q.Bottom)
			}
			if maxB > panels[i].Bottom {
				panels[i].Bottom = maxB
			}
		}
	}
	return panels
}

// Fallback injects one full-page panel when the working set is empty.
func Fallback(ctx *Context, panels []Panel) []Panel {
	if len(panels) > 0 {
		return panels
	}
	return []Panel{NewPanelFromRect(ctx, 0, 0, ctx.ImgW, ctx.ImgH)}
}

// GroupBig merges pairs of panels whose union doesn't bump into any other
// panel and isn't crossed by a strong axis-aligned gutter segment.
func GroupBig(panels []Panel, segments []panelflow.Segment) []Panel {
	for {
		grouped := false
		for i := 0; i < len(panels) && !grouped; i++ {
			for j := i + 1; j < len(panels); j++ {
				p3 := panels[i].GroupWith(panels[j])

				var others []Panel
				for k, p := range panels {
					if k != i && k != j {
						others = append(others, p)
					}
				}
				if p3.BumpsInto(others) {
					continue
				}

				if hasStrongGutterSegment(p3, segments) {
					continue
				}

				next := make([]Panel, 0, len(panels)-1)
				for k, p := range panels {
					if k != i && k != j {
						next = append(next, p)
					}
				}
				next = append(next, p3)
				panels = next
				grouped = true
				break
			}
		}
		if !grouped {
			break
		}
	}
	return panels
}

// hasStrongGutterSegment reports whether a long, axis-aligned (within 15
// degrees of horizontal or vertical) detected segment runs through p,
// which blocks GroupBig from merging across what is likely a real gutter
// rather than incidental diagonal linework.
func hasStrongGutterSegment(p Panel, segments []panelflow.Segment) bool {
	threshold := p.Diagonal().Dist() / 5
	for _, s := range segments {
		if !p.containsSegment(s) {
			continue
		}
		if imaging.AxisAlignment(s) < axisAlignedThreshold {
			continue
		}
		if s.Dist() > threshold {
			return true
		}
	}
	return false
}

// RemoveContained drops, for every pair where one panel sits >= 90% inside
// the other, the larger (container) panel. This counter-intuitive
// prefer-smaller behavior is reliable mainly for panels that are false
// outer frames, so it is an opt-in stage rather than always-on.
func RemoveContained(panels []Panel) []Panel {
	removed := make(map[int]bool)
	for i := range panels {
		for j := range panels {
			if i == j || removed[i] || removed[j] {
				continue
			}
			o, ok := panels[i].OverlapRect(panels[j])
			if !ok {
				continue
			}
			smaller, larger := i, j
			if panels[i].Area() > panels[j].Area() {
				smaller, larger = j, i
			}
			if panels[larger].Area() == 0 {
				continue
			}
			if float64(o.Area())/float64(panels[smaller].Area()) >= 0.90 {
				removed[larger] = true
			}
		}
	}
	var out []Panel
	for i, p := range panels {
		if !removed[i] {
			out = append(out, p)
		}
	}
	return out
}
