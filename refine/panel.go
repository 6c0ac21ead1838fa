// Package refine implements the panel refinement cascade: the stateful
// sequence of passes (group small, split, exclude small, merge contained,
// deoverlap, expand, fallback, group big, remove contained) that turns raw
// contours into a stable set of panels.
//
// The refinement stage exclusively owns the Panel working set it operates
// on; panels are copied out into panelflow.OutputPanel only at the very end
// of a detect call.
package refine

import (
	"math"

	assert "github.com/arl/assertgo"

	"github.com/gocomics/panelflow"
)

// Kind tags whether a Panel still carries its detected polygon or has been
// reduced to (and frozen as) a bounding rect.
type Kind int

const (
	// BoundingOnly panels have no polygon; Split is never defined on them.
	BoundingOnly Kind = iota
	// Polygonal panels carry a closed polygon ring and may be split.
	Polygonal
)

// Context carries the page-wide values every panel needs: image size and
// the minimum-panel-ratio knob. Factoring these out of Panel itself, rather
// than duplicating them per panel, lets the cascade adjust a shared
// threshold without touching every panel in the working set.
type Context struct {
	ImgW, ImgH    int
	MinPanelRatio float64
}

func (c *Context) area() int { return c.ImgW * c.ImgH }

// Panel is the internal, mutable working-set element the refinement cascade
// operates on. X, Y, Right and Bottom are the axis-aligned bounds; Polygon
// is non-nil only for Kind == Polygonal.
type Panel struct {
	ctx *Context

	Kind                Kind
	X, Y, Right, Bottom int
	Polygon             []panelflow.Point
	Splittable          bool
	SplitCoverage       float64
	HasSplitCoverage    bool
}

// NewPanelFromRect builds a BoundingOnly panel from an (x, y, w, h) rect.
func NewPanelFromRect(ctx *Context, x, y, w, h int) Panel {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return Panel{
		ctx:    ctx,
		Kind:   BoundingOnly,
		X:      x,
		Y:      y,
		Right:  x + w,
		Bottom: y + h,
	}
}

// NewPanelFromPolygon builds a Polygonal panel whose bounds are the
// polygon's bounding rect.
func NewPanelFromPolygon(ctx *Context, poly []panelflow.Point, splittable bool) Panel {
	assert.True(len(poly) >= 3, "polygon panel requires >= 3 vertices")
	minX, minY := poly[0].X, poly[0].Y
	maxX, maxY := poly[0].X, poly[0].Y
	for _, p := range poly[1:] {
		minX = panelflow.MinInt(minX, p.X)
		minY = panelflow.MinInt(minY, p.Y)
		maxX = panelflow.MaxInt(maxX, p.X)
		maxY = panelflow.MaxInt(maxY, p.Y)
	}
	return Panel{
		ctx:        ctx,
		Kind:       Polygonal,
		X:          minX,
		Y:          minY,
		Right:      maxX,
		Bottom:     maxY,
		Polygon:    poly,
		Splittable: splittable,
	}
}

func (p Panel) W() int    { return p.Right - p.X }
func (p Panel) H() int    { return p.Bottom - p.Y }
func (p Panel) Area() int { return p.W() * p.H() }

// WithContext returns p re-pointed at a different Context (e.g. when the
// caller's image size is unchanged but the Context instance differs).
func (p Panel) WithContext(ctx *Context) Panel {
	p.ctx = ctx
	return p
}

// Rescaled maps p's bounds and polygon (if any) by factor -- the inverse of
// a pre-resize scale applied before detection -- and re-points it at ctx,
// which should carry the unscaled image's dimensions. Used by the detector
// facade to map working-resolution panels back to original coordinates.
func (p Panel) Rescaled(ctx *Context, factor float64) Panel {
	scale := func(v int) int { return int(float64(v) * factor) }
	out := p
	out.ctx = ctx
	out.X = scale(p.X)
	out.Y = scale(p.Y)
	out.Right = scale(p.Right)
	out.Bottom = scale(p.Bottom)
	if p.Polygon != nil {
		poly := make([]panelflow.Point, len(p.Polygon))
		for i, pt := range p.Polygon {
			poly[i] = panelflow.Point{X: scale(pt.X), Y: scale(pt.Y)}
		}
		out.Polygon = poly
	}
	return out
}

// widthThreshold and heightThreshold are the proximity tolerances used by
// closeness and containment checks: w/10 and h/10.
func (p Panel) widthThreshold() int  { return panelflow.MaxInt(1, p.W()/10) }
func (p Panel) heightThreshold() int { return panelflow.MaxInt(1, p.H()/10) }

// IsSmall reports whether the panel is smaller than ratio*extra of the
// image on either axis.
func (p Panel) IsSmall(extra float64) bool {
	return float64(p.W()) < float64(p.ctx.ImgW)*p.ctx.MinPanelRatio*extra ||
		float64(p.H()) < float64(p.ctx.ImgH)*p.ctx.MinPanelRatio*extra
}

// IsVerySmall is IsSmall(0.1).
func (p Panel) IsVerySmall() bool { return p.IsSmall(0.1) }

// EqualBounds compares bounds with wt/ht tolerance.
func (p Panel) EqualBounds(other Panel) bool {
	wt := panelflow.MaxInt(p.widthThreshold(), other.widthThreshold())
	ht := panelflow.MaxInt(p.heightThreshold(), other.heightThreshold())
	return panelflow.AbsInt(p.X-other.X) <= wt &&
		panelflow.AbsInt(p.Right-other.Right) <= wt &&
		panelflow.AbsInt(p.Y-other.Y) <= ht &&
		panelflow.AbsInt(p.Bottom-other.Bottom) <= ht
}

// OverlapRect returns the axis-aligned intersection rect, if any.
func (p Panel) OverlapRect(other Panel) (Panel, bool) {
	x := panelflow.MaxInt(p.X, other.X)
	y := panelflow.MaxInt(p.Y, other.Y)
	r := panelflow.MinInt(p.Right, other.Right)
	b := panelflow.MinInt(p.Bottom, other.Bottom)
	if r <= x || b <= y {
		return Panel{}, false
	}
	return Panel{ctx: p.ctx, Kind: BoundingOnly, X: x, Y: y, Right: r, Bottom: b}, true
}

// Overlaps reports whether p and other share more than 10% of the smaller
// panel's area. Degenerate zero-area panels are considered overlapping
// whenever their rects intersect at all.
func (p Panel) Overlaps(other Panel) bool {
	o, ok := p.OverlapRect(other)
	if !ok {
		return false
	}
	smaller := panelflow.MinInt(p.Area(), other.Area())
	if smaller == 0 {
		return true
	}
	return float64(o.Area()) > 0.10*float64(smaller)
}

// Contains reports whether other overlaps p by more than 50% of other's
// area.
func (p Panel) Contains(other Panel) bool {
	o, ok := p.OverlapRect(other)
	if !ok || other.Area() == 0 {
		return false
	}
	return float64(o.Area())/float64(other.Area()) > 0.50
}

// SameRow reports whether p and other belong to the same reading row.
func (p Panel) SameRow(other Panel) bool {
	y1, b1 := p.Y, p.Bottom
	y2, b2 := other.Y, other.Bottom
	if y1 > y2 {
		y1, b1, y2, b2 = y2, b2, y1, b1
	}
	if y2 > b1 {
		return false
	}
	if b2 < b1 {
		return true
	}
	intersection := panelflow.MinInt(b1, b2) - y2
	minH := panelflow.MinInt(b1-y1, b2-y2)
	if minH == 0 {
		return true
	}
	return float64(intersection)/float64(minH) >= 1.0/3.0
}

// SameCol is the horizontal analogue of SameRow.
func (p Panel) SameCol(other Panel) bool {
	x1, r1 := p.X, p.Right
	x2, r2 := other.X, other.Right
	if x1 > x2 {
		x1, r1, x2, r2 = x2, r2, x1, r1
	}
	if x2 > r1 {
		return false
	}
	if r2 < r1 {
		return true
	}
	intersection := panelflow.MinInt(r1, r2) - x2
	minW := panelflow.MinInt(r1-x1, r2-x2)
	if minW == 0 {
		return true
	}
	return float64(intersection)/float64(minW) >= 1.0/3.0
}

// BumpsInto reports whether p overlaps any panel in others other than
// itself.
func (p Panel) BumpsInto(others []Panel) bool {
	for _, o := range others {
		if p.EqualBounds(o) {
			continue
		}
		if p.Overlaps(o) {
			return true
		}
	}
	return false
}

// IsClose reports whether p and other are near enough to be grouped: center
// distance within 0.75x the sum of widths and 0.75x the sum of heights.
func (p Panel) IsClose(other Panel) bool {
	c1x, c1y := float64(p.X+p.Right)/2, float64(p.Y+p.Bottom)/2
	c2x, c2y := float64(other.X+other.Right)/2, float64(other.Y+other.Bottom)/2
	dx := math.Abs(c1x - c2x)
	dy := math.Abs(c1y - c2y)
	return dx <= 0.75*float64(p.W()+other.W()) && dy <= 0.75*float64(p.H()+other.H())
}

// Diagonal is the segment from the panel's top-left to its bottom-right.
func (p Panel) Diagonal() panelflow.Segment {
	return panelflow.Segment{A: panelflow.Point{X: p.X, Y: p.Y}, B: panelflow.Point{X: p.Right, Y: p.Bottom}}
}

// CornerPolygon returns the four-corner ring used when a BoundingOnly panel
// needs polygon-shaped input (e.g. convex-hull grouping).
func (p Panel) CornerPolygon() []panelflow.Point {
	return []panelflow.Point{
		{X: p.X, Y: p.Y},
		{X: p.Right, Y: p.Y},
		{X: p.Right, Y: p.Bottom},
		{X: p.X, Y: p.Bottom},
	}
}

// polygonOrCorners returns Polygon if present, else the four corners.
func (p Panel) polygonOrCorners() []panelflow.Point {
	if p.Polygon != nil {
		return p.Polygon
	}
	return p.CornerPolygon()
}

// GroupWith returns the bounding rect of the union of p and other, tagged
// BoundingOnly -- used only to evaluate candidate groupings, never kept
// directly as a final panel without re-validation.
func (p Panel) GroupWith(other Panel) Panel {
	return Panel{
		ctx:    p.ctx,
		Kind:   BoundingOnly,
		X:      panelflow.MinInt(p.X, other.X),
		Y:      panelflow.MinInt(p.Y, other.Y),
		Right:  panelflow.MaxInt(p.Right, other.Right),
		Bottom: panelflow.MaxInt(p.Bottom, other.Bottom),
	}
}

// Merge expands p toward other on every side other extends beyond it,
// discarding any candidate extension that would bump into a panel in all
// (excluding p and other), and keeping the largest surviving candidate.
func (p Panel) Merge(other Panel, all []Panel) Panel {
	rest := make([]Panel, 0, len(all))
	for _, o := range all {
		if o.EqualBounds(p) || o.EqualBounds(other) {
			continue
		}
		rest = append(rest, o)
	}

	best := p
	bestArea := p.Area()

	try := func(cand Panel) {
		if cand.BumpsInto(rest) {
			return
		}
		if cand.Area() > bestArea {
			best = cand
			bestArea = cand.Area()
		}
	}

	if other.X < p.X {
		c := p
		c.X = other.X
		try(c)
	}
	if other.Y < p.Y {
		c := p
		c.Y = other.Y
		try(c)
	}
	if other.Right > p.Right {
		c := p
		c.Right = other.Right
		try(c)
	}
	if other.Bottom > p.Bottom {
		c := p
		c.Bottom = other.Bottom
		try(c)
	}

	best.Kind = BoundingOnly
	best.Polygon = nil
	return best
}

// containsSegment reports whether both endpoints of s lie within p's bounds.
func (p Panel) containsSegment(s panelflow.Segment) bool {
	bounds := panelflow.Segment{A: panelflow.Point{X: p.X, Y: p.Y}, B: panelflow.Point{X: p.Right, Y: p.Bottom}}
	return bounds.BoundingContains(s.A) && bounds.BoundingContains(s.B)
}
