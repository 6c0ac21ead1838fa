package refine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gocomics/panelflow"
)

func TestDeoverlapRemovesSameEdgeOverlap(t *testing.T) {
	ctx := testCtx()
	panels := []Panel{
		NewPanelFromRect(ctx, 0, 0, 110, 100),
		NewPanelFromRect(ctx, 100, 0, 100, 100),
	}
	out := Deoverlap(panels)
	_, overlap := out[0].OverlapRect(out[1])
	assert.False(t, overlap)
}

func TestRemoveContainedDropsLargerPanel(t *testing.T) {
	ctx := testCtx()
	inner := NewPanelFromRect(ctx, 10, 10, 50, 50)
	outer := NewPanelFromRect(ctx, 0, 0, 1000, 1000)
	out := RemoveContained([]Panel{inner, outer})

	assert.Len(t, out, 1)
	assert.Equal(t, inner.Area(), out[0].Area())
}

func TestFallbackInjectsFullPagePanel(t *testing.T) {
	ctx := testCtx()
	out := Fallback(ctx, nil)
	assert.Len(t, out, 1)
	assert.Equal(t, ctx.ImgW, out[0].W())
	assert.Equal(t, ctx.ImgH, out[0].H())
}

func TestGroupSmallDecreasesSmallCountWhenClosePairExists(t *testing.T) {
	ctx := testCtx()
	panels := []Panel{
		NewPanelFromRect(ctx, 0, 0, 15, 15),
		NewPanelFromRect(ctx, 16, 0, 15, 15),
	}
	before := 0
	for _, p := range panels {
		if p.IsSmall(1.0) {
			before++
		}
	}
	out := GroupSmall(ctx, panels)
	after := 0
	for _, p := range out {
		if p.IsSmall(1.0) {
			after++
		}
	}
	assert.Less(t, after, before)
}

func TestRunNeverReturnsEmptySet(t *testing.T) {
	ctx := testCtx()
	opts := Options{NeedPolygon: false, PanelExpansion: true}
	out := Run(ctx, nil, []panelflow.Segment{}, opts, nil)
	assert.NotEmpty(t, out)
}
