package imaging

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gocomics/panelflow"
)

// splitImage builds a w x h grayscale image split into a dark left half
// and a bright right half, a clean synthetic edge for pipeline tests.
func splitImage(w, h int, leftVal, rightVal uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := leftVal
			if x >= w/2 {
				v = rightVal
			}
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
	return img
}

func TestToGrayConvertsColorImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			src.Set(x, y, color.White)
		}
	}
	gray := ToGray(src)
	assert.Equal(t, uint8(255), gray.GrayAt(0, 0).Y)
	assert.Equal(t, image.Rect(0, 0, 4, 4), gray.Bounds())
}

func TestSobelMagnitudeFindsVerticalEdge(t *testing.T) {
	src := splitImage(20, 20, 0, 255)
	mag := SobelMagnitude(src)
	// Near the seam, gradient magnitude should be large; far from it, small.
	assert.Greater(t, mag.GrayAt(10, 10).Y, mag.GrayAt(2, 10).Y)
}

func TestOtsuThresholdSeparatesBimodalImage(t *testing.T) {
	src := splitImage(20, 20, 10, 240)
	thresh, binary := OtsuThreshold(src)
	assert.Greater(t, thresh, uint8(10))
	assert.Less(t, thresh, uint8(240))
	assert.Equal(t, uint8(0), binary.GrayAt(2, 10).Y)
	assert.Equal(t, uint8(255), binary.GrayAt(18, 10).Y)
}

func TestMorphCloseBridgesSinglePixelGap(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 5, 5))
	src.SetGray(1, 2, color.Gray{Y: 255})
	src.SetGray(3, 2, color.Gray{Y: 255})
	closed := MorphClose(src)
	assert.Equal(t, uint8(255), closed.GrayAt(2, 2).Y)
}

func TestExternalContoursFindsOneSquare(t *testing.T) {
	binary := image.NewGray(image.Rect(0, 0, 20, 20))
	for y := 5; y < 15; y++ {
		for x := 5; x < 15; x++ {
			binary.SetGray(x, y, color.Gray{Y: 255})
		}
	}
	contours := ExternalContours(binary)
	require.Len(t, contours, 1)
	assert.GreaterOrEqual(t, len(contours[0]), 3)
}

func TestSimplifyPolygonReducesColinearPoints(t *testing.T) {
	ring := []panelflow.Point{
		{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 10, Y: 0},
		{X: 10, Y: 10}, {X: 0, Y: 10},
	}
	simplified := SimplifyPolygon(ring)
	assert.Less(t, len(simplified), len(ring))
}
