package detector

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gocomics/panelflow"
)

// fourPanelPage draws a page with one vertical and one horizontal gutter
// line, i.e. a clean 2x2 panel grid, as a synthetic test fixture.
func fourPanelPage(w, h int) image.Image {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: 235})
		}
	}
	for y := 0; y < h; y++ {
		img.SetGray(w/2, y, color.Gray{Y: 10})
	}
	for x := 0; x < w; x++ {
		img.SetGray(x, h/2, color.Gray{Y: 10})
	}
	return img
}

func TestDetectRejectsEmptyImage(t *testing.T) {
	empty := image.NewGray(image.Rect(0, 0, 0, 0))
	_, _, _, err := Detect(nil, empty, DefaultConfig())
	assert.ErrorIs(t, err, panelflow.ErrEmptyImage)
}

func TestDetectRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Pipeline.MinPanelRatio = 0
	img := fourPanelPage(400, 400)
	_, _, _, err := Detect(nil, img, cfg)
	assert.Error(t, err)
}

func TestDetectProducesValidPage(t *testing.T) {
	img := fourPanelPage(400, 400)
	cfg := DefaultConfig()
	cfg.MaxDimension = 0

	result, order, orderConf, err := Detect(nil, img, cfg)
	require.NoError(t, err)
	require.NotEmpty(t, result.Panels)
	assert.Len(t, order, len(result.Panels))
	assert.GreaterOrEqual(t, orderConf, 0.0)
	assert.LessOrEqual(t, orderConf, 1.0)

	page := panelflow.Page{
		Index:  0,
		Width:  400,
		Height: 400,
		Panels: result.Panels,
		Order:  order,
	}
	assert.NoError(t, page.Validate())
}

func TestDetectSkipScoringAssignsFullConfidence(t *testing.T) {
	img := fourPanelPage(400, 400)
	cfg := DefaultConfig()
	cfg.SkipScoring = true

	result, _, _, err := Detect(nil, img, cfg)
	require.NoError(t, err)
	for _, p := range result.Panels {
		assert.Equal(t, 1.0, p.Confidence)
	}
	assert.Equal(t, 1.0, result.Confidence)
}

func TestDetectRTLStillProducesValidPage(t *testing.T) {
	img := fourPanelPage(400, 400)
	cfg := DefaultConfig()
	cfg.DirectionName = "rtl"

	result, order, _, err := Detect(nil, img, cfg)
	require.NoError(t, err)
	require.Len(t, order, len(result.Panels))

	page := panelflow.Page{
		Index:  0,
		Width:  400,
		Height: 400,
		Panels: result.Panels,
		Order:  order,
	}
	assert.NoError(t, page.Validate())
}

func TestDetectDownscalesLargeImage(t *testing.T) {
	img := fourPanelPage(3000, 2000)
	cfg := DefaultConfig()
	cfg.MaxDimension = 1000

	result, order, _, err := Detect(nil, img, cfg)
	require.NoError(t, err)
	page := panelflow.Page{
		Index:  0,
		Width:  3000,
		Height: 2000,
		Panels: result.Panels,
		Order:  order,
	}
	assert.NoError(t, page.Validate())
}
