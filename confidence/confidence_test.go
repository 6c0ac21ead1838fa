package confidence

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gocomics/panelflow/refine"
)

func TestAspectScoreIdealRegionIsPerfect(t *testing.T) {
	assert.Equal(t, 1.0, aspectScore(100, 100))
	assert.Equal(t, 1.0, aspectScore(250, 100))
	assert.Less(t, aspectScore(1000, 100), 1.0)
	assert.Less(t, aspectScore(10, 100), 1.0)
}

func TestSizeScoreIdealRegionIsPerfect(t *testing.T) {
	assert.Equal(t, 1.0, sizeScore(100, 1000))
	assert.Less(t, sizeScore(1, 1000), 1.0)
	assert.Less(t, sizeScore(900, 1000), 1.0)
}

func TestGutterGapScorePenalizesNegativeGap(t *testing.T) {
	overlap := gutterGapScore(-20, 1000)
	gap := gutterGapScore(20, 1000)
	assert.Less(t, overlap, gap)
	assert.GreaterOrEqual(t, overlap, 0.1)
}

func TestCountFactorRewardsTypicalPageCounts(t *testing.T) {
	assert.Equal(t, 0.1, countFactor(0))
	assert.Equal(t, 0.7, countFactor(1))
	assert.Equal(t, 1.0, countFactor(6))
	assert.Equal(t, 0.5, countFactor(40))
}

func TestCoverageFactorIdealRegionIsPerfect(t *testing.T) {
	assert.Equal(t, 1.0, coverageFactor(0.8))
	assert.Less(t, coverageFactor(0.1), 1.0)
	assert.Less(t, coverageFactor(1.0), 1.0)
}

func TestGutterVarianceFactorPrefersLowCV(t *testing.T) {
	uniform := gutterVarianceFactor([]int{10, 10, 10, 10})
	ragged := gutterVarianceFactor([]int{2, 50, 3, 60})
	assert.Equal(t, 1.0, uniform)
	assert.Less(t, ragged, uniform)
}

func TestPanelScoreIsClampedToUnitRange(t *testing.T) {
	ctx := &refine.Context{ImgW: 1000, ImgH: 1000, MinPanelRatio: 0.05}
	p := refine.NewPanelFromRect(ctx, 0, 0, 400, 600)
	score := PanelScore(p, []refine.Panel{p}, 1000, 1000, 1000*1000, Inputs{})
	assert.GreaterOrEqual(t, score, 0.0)
	assert.LessOrEqual(t, score, 1.0)
}

func TestPageScoreZeroAreaIsZero(t *testing.T) {
	assert.Equal(t, 0.0, PageScore(nil, nil, 0, 0, nil, nil))
}

func TestPageScoreRewardsCoveredPage(t *testing.T) {
	ctx := &refine.Context{ImgW: 1000, ImgH: 1000, MinPanelRatio: 0.05}
	left := refine.NewPanelFromRect(ctx, 0, 0, 480, 1000)
	right := refine.NewPanelFromRect(ctx, 520, 0, 1000, 1000)
	panels := []refine.Panel{left, right}
	confidences := []float64{0.9, 0.9}
	gx, gy := refine.CollectGutters(panels)
	score := PageScore(panels, confidences, 1000, 1000, gx, gy)
	assert.Greater(t, score, 0.0)
	assert.LessOrEqual(t, score, 1.0)
}
