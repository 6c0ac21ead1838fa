package imaging

import (
	"image"
	"math"
	"sort"

	"github.com/gocomics/panelflow"
)

// scoredSegment pairs a detected segment with the score it was ranked by.
type scoredSegment struct {
	seg   panelflow.Segment
	score float64
}

// AxisAlignment returns 1.0 for a perfectly horizontal or vertical segment
// and 0.0 at 45 degrees, linear in between.
func AxisAlignment(s panelflow.Segment) float64 {
	angle := s.Angle() * 180 / math.Pi
	angle = math.Mod(math.Abs(angle), 90)
	dist45 := math.Min(angle, 90-angle)
	return 1 - dist45/45
}

// DetectSegments runs a line-segment detector over the blurred grayscale
// image: scan long contiguous runs of strong-gradient pixels along each row
// and column, merge near-parallel collinear runs via panelflow.UnionAll,
// score them, and keep the top cfg.MaxSegments.
func DetectSegments(blurred *image.Gray, cfg PipelineConfig) []panelflow.Segment {
	mag := SobelMagnitude(blurred)
	b := mag.Bounds()
	w, h := b.Dx(), b.Dy()
	minDim := panelflow.MinInt(w, h)
	minLen := float64(minDim) * cfg.EffectiveMinSegmentRatio()

	const strong = 60

	var raw []panelflow.Segment

	// Horizontal runs.
	for y := b.Min.Y; y < b.Max.Y; y++ {
		runStart := -1
		for x := b.Min.X; x <= b.Max.X; x++ {
			on := x < b.Max.X && mag.GrayAt(x, y).Y >= strong
			if on && runStart < 0 {
				runStart = x
			}
			if !on && runStart >= 0 {
				if float64(x-runStart) >= minLen {
					raw = append(raw, panelflow.Segment{
						A: panelflow.Point{X: runStart, Y: y},
						B: panelflow.Point{X: x - 1, Y: y},
					})
				}
				runStart = -1
			}
		}
	}

	// Vertical runs.
	for x := b.Min.X; x < b.Max.X; x++ {
		runStart := -1
		for y := b.Min.Y; y <= b.Max.Y; y++ {
			on := y < b.Max.Y && mag.GrayAt(x, y).Y >= strong
			if on && runStart < 0 {
				runStart = y
			}
			if !on && runStart >= 0 {
				if float64(y-runStart) >= minLen {
					raw = append(raw, panelflow.Segment{
						A: panelflow.Point{X: x, Y: runStart},
						B: panelflow.Point{X: x, Y: y - 1},
					})
				}
				runStart = -1
			}
		}
	}

	merged := panelflow.UnionAll(raw)

	scored := make([]scoredSegment, 0, len(merged))
	for _, s := range merged {
		if s.Dist() < minLen {
			continue
		}
		alignment := AxisAlignment(s)
		score := s.Dist() / float64(minDim)
		if cfg.PreferAxisAligned {
			score *= 1 + alignment
		}
		scored = append(scored, scoredSegment{seg: s, score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })

	limit := cfg.MaxSegments
	if limit <= 0 || limit > len(scored) {
		limit = len(scored)
	}
	out := make([]panelflow.Segment, limit)
	for i := 0; i < limit; i++ {
		out[i] = scored[i].seg
	}
	return out
}
