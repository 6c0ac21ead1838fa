package refine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gocomics/panelflow"
)

func testCtx() *Context {
	return &Context{ImgW: 800, ImgH: 600, MinPanelRatio: 0.1}
}

func TestPanelIsSmall(t *testing.T) {
	ctx := testCtx()
	big := NewPanelFromRect(ctx, 0, 0, 400, 300)
	small := NewPanelFromRect(ctx, 0, 0, 5, 5)

	assert.False(t, big.IsSmall(1.0))
	assert.True(t, small.IsSmall(1.0))
	assert.True(t, small.IsVerySmall())
}

func TestPanelOverlapsIsCommutative(t *testing.T) {
	ctx := testCtx()
	a := NewPanelFromRect(ctx, 0, 0, 100, 100)
	b := NewPanelFromRect(ctx, 50, 50, 100, 100)

	assert.Equal(t, a.Overlaps(b), b.Overlaps(a))
	assert.True(t, a.Overlaps(b))
}

func TestPanelContainsNotCommutative(t *testing.T) {
	ctx := testCtx()
	outer := NewPanelFromRect(ctx, 0, 0, 200, 200)
	inner := NewPanelFromRect(ctx, 50, 50, 50, 50)

	assert.True(t, outer.Contains(inner))
	assert.False(t, inner.Contains(outer))
}

func TestGroupWithContainsBothInputs(t *testing.T) {
	ctx := testCtx()
	a := NewPanelFromRect(ctx, 0, 0, 50, 50)
	b := NewPanelFromRect(ctx, 200, 200, 50, 50)

	g := a.GroupWith(b)
	assert.LessOrEqual(t, g.X, a.X)
	assert.LessOrEqual(t, g.Y, a.Y)
	assert.GreaterOrEqual(t, g.Right, b.Right)
	assert.GreaterOrEqual(t, g.Bottom, b.Bottom)
}

func TestMergeNeverShrinksWithNoOthers(t *testing.T) {
	ctx := testCtx()
	a := NewPanelFromRect(ctx, 10, 10, 50, 50)
	b := NewPanelFromRect(ctx, 0, 0, 80, 80)

	merged := a.Merge(b, nil)
	assert.GreaterOrEqual(t, merged.Area(), a.Area())
}

func TestSameRowSymmetricUnderObviousAlignment(t *testing.T) {
	ctx := testCtx()
	a := NewPanelFromRect(ctx, 0, 0, 100, 100)
	b := NewPanelFromRect(ctx, 150, 10, 100, 100)

	assert.True(t, a.SameRow(b))
	assert.True(t, b.SameRow(a))
}

func TestCornerPolygonHasFourPoints(t *testing.T) {
	ctx := testCtx()
	p := NewPanelFromRect(ctx, 5, 5, 20, 30)
	corners := p.CornerPolygon()
	assert.Len(t, corners, 4)
	assert.Equal(t, panelflow.Point{X: 5, Y: 5}, corners[0])
}
