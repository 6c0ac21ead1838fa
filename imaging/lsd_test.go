package imaging

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gocomics/panelflow"
)

func TestAxisAlignmentIsOneOnAxesAndZeroDiagonal(t *testing.T) {
	horizontal := panelflow.Segment{A: panelflow.Point{X: 0, Y: 0}, B: panelflow.Point{X: 10, Y: 0}}
	vertical := panelflow.Segment{A: panelflow.Point{X: 0, Y: 0}, B: panelflow.Point{X: 0, Y: 10}}
	diagonal := panelflow.Segment{A: panelflow.Point{X: 0, Y: 0}, B: panelflow.Point{X: 10, Y: 10}}

	assert.InDelta(t, 1.0, AxisAlignment(horizontal), 1e-9)
	assert.InDelta(t, 1.0, AxisAlignment(vertical), 1e-9)
	assert.InDelta(t, 0.0, AxisAlignment(diagonal), 1e-9)
}

func TestDetectSegmentsFindsGutterLine(t *testing.T) {
	// A vertical bright gutter line on an otherwise flat image.
	img := image.NewGray(image.Rect(0, 0, 100, 100))
	for y := 0; y < 100; y++ {
		img.SetGray(50, y, color.Gray{Y: 255})
	}
	cfg := DefaultPipelineConfig()
	cfg.MaxSegments = 10
	segments := DetectSegments(img, cfg)
	assert.NotEmpty(t, segments)
}

func TestDetectSegmentsHonorsMaxSegments(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 200, 200))
	for i := 10; i < 190; i += 10 {
		for y := 0; y < 200; y++ {
			img.SetGray(i, y, color.Gray{Y: 255})
		}
	}
	cfg := DefaultPipelineConfig()
	cfg.MaxSegments = 3
	segments := DetectSegments(img, cfg)
	assert.LessOrEqual(t, len(segments), 3)
}
