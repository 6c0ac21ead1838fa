package detector

import (
	"image"
	"image/draw"
	"time"

	xdraw "golang.org/x/image/draw"

	"github.com/gocomics/panelflow"
	"github.com/gocomics/panelflow/confidence"
	"github.com/gocomics/panelflow/imaging"
	"github.com/gocomics/panelflow/order"
	"github.com/gocomics/panelflow/refine"
)

// Detect runs the full pipeline over img and returns a DetectionResult
// plus the reading-order permutation and its confidence.
// ctx may be nil, in which case an always-disabled Context is used.
func Detect(ctx *imaging.Context, img image.Image, cfg Config) (panelflow.DetectionResult, []string, float64, error) {
	if ctx == nil {
		ctx = imaging.NewContext(false)
	}
	if err := cfg.Validate(); err != nil {
		return panelflow.DetectionResult{}, nil, 0, err
	}

	start := time.Now()

	b := img.Bounds()
	origW, origH := b.Dx(), b.Dy()
	if origW == 0 || origH == 0 {
		return panelflow.DetectionResult{}, nil, 0, panelflow.ErrEmptyImage
	}

	ctx.StartTimer(imaging.StagePreprocess)
	scaled, scale := preResize(img, cfg.MaxDimension)
	sb := scaled.Bounds()
	scaledW, scaledH := sb.Dx(), sb.Dy()

	gray, blurred := imaging.Preprocess(scaled, cfg.Pipeline)
	ctx.StopTimer(imaging.StagePreprocess)

	ctx.StartTimer(imaging.StageEdges)
	edges := imaging.Edges(blurred, cfg.Pipeline)
	if cfg.Pipeline.UseMorphologicalClose {
		edges = imaging.MorphClose(edges)
	}
	ctx.StopTimer(imaging.StageEdges)

	ctx.StartTimer(imaging.StageThreshold)
	_, binary := imaging.OtsuThreshold(edges)
	ctx.StopTimer(imaging.StageThreshold)

	ctx.StartTimer(imaging.StageContours)
	rawContours := imaging.ExternalContours(binary)
	needPolygon := cfg.Pipeline.PanelSplitting || cfg.Pipeline.BigPanelGroup
	contours := make([][]panelflow.Point, len(rawContours))
	for i, c := range rawContours {
		if needPolygon {
			contours[i] = imaging.SimplifyPolygon(c)
		} else {
			contours[i] = c
		}
	}
	ctx.StopTimer(imaging.StageContours)

	ctx.StartTimer(imaging.StageLSD)
	segments := imaging.DetectSegments(blurred, cfg.Pipeline)
	ctx.StopTimer(imaging.StageLSD)
	if len(segments) == 0 {
		ctx.Warningf("LSD produced no segments; splitting and big-grouping disabled for this page")
	}

	refCtx := &refine.Context{ImgW: scaledW, ImgH: scaledH, MinPanelRatio: cfg.Pipeline.MinPanelRatio}
	sampler := func(s panelflow.Segment) float64 { return lineVariance(gray, s) }

	opts := refine.Options{
		NeedPolygon:     needPolygon,
		SmallPanelGroup: cfg.Pipeline.SmallPanelGroup,
		Splitting:       cfg.Pipeline.PanelSplitting && len(segments) > 0,
		BigPanelGroup:   cfg.Pipeline.BigPanelGroup && len(segments) > 0,
		PanelExpansion:  cfg.Pipeline.PanelExpansion,
		RemoveContained: cfg.RemoveContainedPanels,
	}

	ctx.StartTimer(imaging.StageRefine)
	panels := refine.Run(refCtx, contours, segments, opts, sampler)
	ctx.StopTimer(imaging.StageRefine)

	// Rescale panels back to original coordinates before scoring, so that
	// gutter-color and edge-strength sampling read the original (not the
	// downscaled) raster.
	origCtx := &refine.Context{ImgW: origW, ImgH: origH, MinPanelRatio: cfg.Pipeline.MinPanelRatio}
	panels = rescalePanels(panels, origCtx, scale)

	var confidences []float64
	var pageConf float64
	if cfg.SkipScoring {
		confidences = make([]float64, len(panels))
		for i := range confidences {
			confidences[i] = 1.0
		}
		pageConf = 1.0
	} else {
		ctx.StartTimer(imaging.StageScore)
		origGray := imaging.ToGray(img)
		gradMag := imaging.SobelMagnitude(origGray)
		in := confidence.Inputs{Color: img, GradMag: gradMag}
		confidences = make([]float64, len(panels))
		for i, p := range panels {
			confidences[i] = confidence.PanelScore(p, panels, origW, origH, origW*origH, in)
		}
		gx, gy := refine.CollectGutters(panels)
		pageConf = confidence.PageScore(panels, confidences, origW, origH, gx, gy)
		ctx.StopTimer(imaging.StageScore)
	}

	ctx.StartTimer(imaging.StageOrder)
	perm, err := order.Solve(panels, cfg.Direction)
	ctx.StopTimer(imaging.StageOrder)
	if err != nil {
		return panelflow.DetectionResult{}, nil, 0, err
	}

	outPanels := make([]panelflow.OutputPanel, len(panels))
	ids := make([]string, len(panels))
	for i, p := range panels {
		id := panelID(i)
		ids[i] = id
		outPanels[i] = clampOutputPanel(id, p, confidences[i], origW, origH)
	}
	orderIDs := make([]string, len(perm))
	for i, idx := range perm {
		orderIDs[i] = ids[idx]
	}

	gutters := resultGutters(panels)

	result := panelflow.DetectionResult{
		Panels:     outPanels,
		Confidence: pageConf,
		Gutters:    gutters,
		Elapsed:    time.Since(start).Seconds(),
	}

	orderConfidence := 1.0
	if len(perm) > 1 {
		orderConfidence = orderAgreementScore(panels, perm, cfg.Direction)
	}

	return result, orderIDs, orderConfidence, nil
}

func panelID(i int) string {
	return "p-" + itoa(i)
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var digits []byte
	for i > 0 {
		digits = append([]byte{byte('0' + i%10)}, digits...)
		i /= 10
	}
	return string(digits)
}

func clampOutputPanel(id string, p refine.Panel, conf float64, imgW, imgH int) panelflow.OutputPanel {
	x := panelflow.ClampInt(p.X, 0, imgW-1)
	y := panelflow.ClampInt(p.Y, 0, imgH-1)
	right := panelflow.ClampInt(p.Right, x+1, imgW)
	bottom := panelflow.ClampInt(p.Bottom, y+1, imgH)
	return panelflow.OutputPanel{
		ID:         id,
		X:          x,
		Y:          y,
		W:          right - x,
		H:          bottom - y,
		Confidence: panelflow.ClampFloat(conf, 0, 1),
	}
}

func resultGutters(panels []refine.Panel) *panelflow.Gutters {
	x, y, ok := refine.MinPositiveGutters(panels)
	if !ok {
		return nil
	}
	return &panelflow.Gutters{X: x, Y: y}
}

// preResize downscales img with a high-quality resampler so that
// max(W,H) <= maxDimension, returning the (possibly unchanged) image and
// the scale factor applied (1.0 when no resize was needed or maxDimension
// <= 0).
func preResize(img image.Image, maxDimension int) (image.Image, float64) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxDimension <= 0 {
		return img, 1.0
	}
	largest := w
	if h > largest {
		largest = h
	}
	if largest <= maxDimension {
		return img, 1.0
	}
	scale := float64(maxDimension) / float64(largest)
	dstW := panelflow.MaxInt(1, int(float64(w)*scale))
	dstH := panelflow.MaxInt(1, int(float64(h)*scale))
	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst, scale
}

// rescalePanels maps every panel's bounds (and polygon, if present) from
// the downscaled working space back to the original image's coordinates.
func rescalePanels(panels []refine.Panel, origCtx *refine.Context, scale float64) []refine.Panel {
	if scale == 1.0 {
		out := make([]refine.Panel, len(panels))
		for i, p := range panels {
			out[i] = p.WithContext(origCtx)
		}
		return out
	}
	inv := 1.0 / scale
	out := make([]refine.Panel, len(panels))
	for i, p := range panels {
		out[i] = p.Rescaled(origCtx, inv)
	}
	return out
}

// lineVariance samples the grayscale image along s (Bresenham) and returns
// the pixel-intensity sample variance, used by the split stage's gutter
// validation.
func lineVariance(gray *image.Gray, s panelflow.Segment) float64 {
	pts := bresenham(s.A, s.B)
	if len(pts) == 0 {
		return 0
	}
	b := gray.Bounds()
	var samples []float64
	for _, p := range pts {
		if p.X < b.Min.X || p.X >= b.Max.X || p.Y < b.Min.Y || p.Y >= b.Max.Y {
			continue
		}
		samples = append(samples, float64(gray.GrayAt(p.X, p.Y).Y))
	}
	if len(samples) == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range samples {
		mean += v
	}
	mean /= float64(len(samples))
	var variance float64
	for _, v := range samples {
		d := v - mean
		variance += d * d
	}
	return variance / float64(len(samples))
}

func bresenham(a, b panelflow.Point) []panelflow.Point {
	var pts []panelflow.Point
	x0, y0, x1, y1 := a.X, a.Y, b.X, b.Y
	dx := panelflow.AbsInt(x1 - x0)
	dy := -panelflow.AbsInt(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		pts = append(pts, panelflow.Point{X: x0, Y: y0})
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
	return pts
}

// orderAgreementScore reports what fraction of must-precede (predecessor,
// panel) pairs have the predecessor placed earlier in perm, used as a rough
// order-confidence signal. perm is the solver's final, repaired order.
func orderAgreementScore(panels []refine.Panel, perm []int, dir order.Direction) float64 {
	if len(perm) < 2 {
		return 1.0
	}
	position := make(map[int]int, len(perm))
	for pos, idx := range perm {
		position[idx] = pos
	}
	satisfied, total := 0, 0
	for _, idx := range perm {
		for _, pred := range mustPrecedeExported(panels, idx, dir) {
			total++
			if position[pred] < position[idx] {
				satisfied++
			}
		}
	}
	if total == 0 {
		return 1.0
	}
	return float64(satisfied) / float64(total)
}

func mustPrecedeExported(panels []refine.Panel, i int, dir order.Direction) []int {
	var preds []int
	if ti := refine.TopNeighbor(panels[i], panels); ti >= 0 {
		preds = append(preds, ti)
	}
	if dir == order.LTR {
		preds = append(preds, refine.AllLeftNeighbors(panels[i], panels)...)
	} else {
		preds = append(preds, refine.AllRightNeighbors(panels[i], panels)...)
	}
	return preds
}
