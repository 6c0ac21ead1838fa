package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gocomics/panelflow/refine"
)

func gridCtx() *refine.Context {
	return &refine.Context{ImgW: 1000, ImgH: 1000, MinPanelRatio: 0.05}
}

// twoByTwo builds a 2x2 grid of panels: top-left, top-right, bottom-left,
// bottom-right, in that construction order (indices 0-3).
func twoByTwo() []refine.Panel {
	ctx := gridCtx()
	return []refine.Panel{
		refine.NewPanelFromRect(ctx, 0, 0, 480, 480),
		refine.NewPanelFromRect(ctx, 520, 0, 1000, 480),
		refine.NewPanelFromRect(ctx, 0, 520, 480, 1000),
		refine.NewPanelFromRect(ctx, 520, 520, 1000, 1000),
	}
}

func TestSolveEmptyAndSingle(t *testing.T) {
	perm, err := Solve(nil, LTR)
	require.NoError(t, err)
	assert.Equal(t, []int{}, perm)

	one := []refine.Panel{refine.NewPanelFromRect(gridCtx(), 0, 0, 100, 100)}
	perm, err = Solve(one, LTR)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, perm)
}

func TestSolveLTRReadsLeftToRightTopToBottom(t *testing.T) {
	panels := twoByTwo()
	perm, err := Solve(panels, LTR)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, perm)
}

func TestSolveRTLReadsRightToLeftTopToBottom(t *testing.T) {
	panels := twoByTwo()
	perm, err := Solve(panels, RTL)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0, 3, 2}, perm)
}

func TestSolveRespectsTopNeighborOverRowHeuristic(t *testing.T) {
	// A tall left panel spanning both rows, with two stacked panels on the
	// right: the top-right panel must precede the bottom-right one even
	// though both start after the tall panel in raster order.
	ctx := gridCtx()
	panels := []refine.Panel{
		refine.NewPanelFromRect(ctx, 0, 0, 480, 1000),
		refine.NewPanelFromRect(ctx, 520, 0, 1000, 480),
		refine.NewPanelFromRect(ctx, 520, 520, 1000, 1000),
	}
	perm, err := Solve(panels, LTR)
	require.NoError(t, err)

	position := make(map[int]int, len(perm))
	for pos, idx := range perm {
		position[idx] = pos
	}
	assert.Less(t, position[1], position[2])
}
