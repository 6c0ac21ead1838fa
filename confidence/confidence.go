// Package confidence implements the per-panel and page-level confidence
// model: a weighted mean of panel heuristics, and a geometric-mean
// aggregation of page-level factors.
package confidence

import (
	"image"
	"math"

	"github.com/gocomics/panelflow"
	"github.com/gocomics/panelflow/refine"
)

// bleedTolerance is how close (in pixels) a panel edge must sit to the
// image border to be treated as a bleed edge and skipped by color/edge
// measurements.
const bleedTolerance = 2

// component is one weighted term of the per-panel score.
type component struct {
	value  float64
	weight float64
}

func weightedMean(cs []component) float64 {
	var sum, wsum float64
	for _, c := range cs {
		sum += c.value * c.weight
		wsum += c.weight
	}
	if wsum == 0 {
		return 0
	}
	return sum / wsum
}

// aspectScore scores w/h with ideal region [0.4, 2.5], linear falloff
// outside.
func aspectScore(w, h int) float64 {
	if h == 0 {
		return 0
	}
	ratio := float64(w) / float64(h)
	switch {
	case ratio >= 0.4 && ratio <= 2.5:
		return 1.0
	case ratio < 0.4:
		return panelflow.ClampFloat(ratio/0.4, 0, 1)
	default:
		return panelflow.ClampFloat(2.5/ratio, 0, 1)
	}
}

// sizeScore scores area/page_area with ideal region [0.05, 0.50].
func sizeScore(area, pageArea int) float64 {
	if pageArea == 0 {
		return 0
	}
	rel := float64(area) / float64(pageArea)
	switch {
	case rel >= 0.05 && rel <= 0.50:
		return 1.0
	case rel < 0.05:
		return panelflow.ClampFloat(rel/0.05, 0, 1)
	default:
		return panelflow.ClampFloat(0.50/rel, 0, 1)
	}
}

// rectangularityScore is poly_area/bbox_area for polygonal panels, or a
// default of 0.9 for bounding-only panels (which have no polygon to
// measure).
func rectangularityScore(p refine.Panel) float64 {
	if p.Kind != refine.Polygonal || len(p.Polygon) < 3 {
		return 0.9
	}
	polyArea := polygonArea(p.Polygon)
	bboxArea := float64(p.Area())
	if bboxArea == 0 {
		return 0.9
	}
	rect := polyArea / bboxArea
	if rect >= 0.90 {
		return 1.0
	}
	return panelflow.ClampFloat(rect/0.90, 0, 1)
}

func polygonArea(poly []panelflow.Point) float64 {
	n := len(poly)
	sum := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += float64(poly[i].X*poly[j].Y - poly[j].X*poly[i].Y)
	}
	return math.Abs(sum) / 2
}

// gutterGapScore maps a signed gap ratio (gap / page dimension) to a score:
// ratio in [0.005, 0.05] -> 1.0; negative gaps (overlap) are penalized.
func gutterGapScore(gap int, pageDim int) float64 {
	if pageDim == 0 {
		return 0.5
	}
	ratio := float64(gap) / float64(pageDim)
	if ratio < 0 {
		return math.Max(0.1, 0.5+5*ratio)
	}
	if ratio >= 0.005 && ratio <= 0.05 {
		return 1.0
	}
	if ratio < 0.005 {
		return panelflow.Lerp(ratio, 0, 0.005, 0.5, 1.0)
	}
	return panelflow.Lerp(ratio, 0.05, 0.20, 1.0, 0.3)
}

// gutterQualityScore averages the gap score over whichever of the four
// neighbor directions are present.
func gutterQualityScore(p refine.Panel, all []refine.Panel, pageW, pageH int) float64 {
	var scores []float64
	if li := refine.LeftNeighbor(p, all); li >= 0 {
		scores = append(scores, gutterGapScore(p.X-all[li].Right, pageW))
	}
	if ti := refine.TopNeighbor(p, all); ti >= 0 {
		scores = append(scores, gutterGapScore(p.Y-all[ti].Bottom, pageH))
	}
	if ri := refine.RightNeighbor(p, all); ri >= 0 {
		scores = append(scores, gutterGapScore(all[ri].X-p.Right, pageW))
	}
	if bi := refine.BottomNeighbor(p, all); bi >= 0 {
		scores = append(scores, gutterGapScore(all[bi].Y-p.Bottom, pageH))
	}
	if len(scores) == 0 {
		return 0.5
	}
	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores))
}

// edge is one side of a panel's bounding rect, used to walk borders for
// color-variance and edge-strength sampling.
type edge struct {
	x0, y0, x1, y1 int
	isBleed        func(imgW, imgH int) bool
}

func panelEdges(p refine.Panel) []edge {
	return []edge{
		{p.X, p.Y, p.Right, p.Y, func(w, h int) bool { return p.Y <= bleedTolerance }},
		{p.X, p.Bottom, p.Right, p.Bottom, func(w, h int) bool { return h-p.Bottom <= bleedTolerance }},
		{p.X, p.Y, p.X, p.Bottom, func(w, h int) bool { return p.X <= bleedTolerance }},
		{p.Right, p.Y, p.Right, p.Bottom, func(w, h int) bool { return w-p.Right <= bleedTolerance }},
	}
}

func walkEdge(e edge, imgW, imgH int, visit func(x, y int)) {
	if e.x0 == e.x1 {
		y0, y1 := e.y0, e.y1
		if y0 > y1 {
			y0, y1 = y1, y0
		}
		for y := y0; y <= y1; y++ {
			visit(e.x0, y)
		}
		return
	}
	x0, x1 := e.x0, e.x1
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	for x := x0; x <= x1; x++ {
		visit(x, e.y0)
	}
}

// gutterColorVarianceScore samples pixel luminance along non-bleed borders
// and scores the variance: <=100 -> 1.0, >=600 -> 0.2, linear between.
func gutterColorVarianceScore(p refine.Panel, color image.Image, imgW, imgH int) (float64, bool) {
	var samples []float64
	for _, e := range panelEdges(p) {
		if e.isBleed(imgW, imgH) {
			continue
		}
		walkEdge(e, imgW, imgH, func(x, y int) {
			if x < 0 || x >= imgW || y < 0 || y >= imgH {
				return
			}
			r, g, b, _ := color.At(x, y).RGBA()
			lum := 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
			samples = append(samples, lum)
		})
	}
	if len(samples) == 0 {
		return 0, false
	}
	variance := sampleVariance(samples)
	switch {
	case variance <= 100:
		return 1.0, true
	case variance >= 600:
		return 0.2, true
	default:
		return panelflow.Lerp(variance, 100, 600, 1.0, 0.2), true
	}
}

func sampleVariance(xs []float64) float64 {
	mean := 0.0
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	var sq float64
	for _, x := range xs {
		d := x - mean
		sq += d * d
	}
	return sq / float64(len(xs))
}

// edgeStrengthScore averages gradient magnitude along non-bleed borders:
// >=100 -> 1.0, <20 -> <=0.4.
func edgeStrengthScore(p refine.Panel, gradMag *image.Gray, imgW, imgH int) (float64, bool) {
	var sum float64
	var n int
	for _, e := range panelEdges(p) {
		if e.isBleed(imgW, imgH) {
			continue
		}
		walkEdge(e, imgW, imgH, func(x, y int) {
			if x < 0 || x >= imgW || y < 0 || y >= imgH {
				return
			}
			sum += float64(gradMag.GrayAt(x, y).Y)
			n++
		})
	}
	if n == 0 {
		return 0, false
	}
	mean := sum / float64(n)
	switch {
	case mean >= 100:
		return 1.0, true
	case mean < 20:
		return panelflow.Lerp(mean, 0, 20, 0.1, 0.4), true
	default:
		return panelflow.Lerp(mean, 20, 100, 0.4, 1.0), true
	}
}

// Inputs bundles the optional per-page images confidence scoring consumes.
// Both may be nil, in which case the corresponding component (gutter-color
// variance, edge strength) is omitted.
type Inputs struct {
	Color   image.Image
	GradMag *image.Gray
}

// PanelScore computes the weighted-mean confidence for a single panel
// against its siblings.
func PanelScore(p refine.Panel, all []refine.Panel, pageW, pageH, pageArea int, in Inputs) float64 {
	cs := []component{
		{aspectScore(p.W(), p.H()), 1.0},
		{sizeScore(p.Area(), pageArea), 1.0},
		{rectangularityScore(p), 0.8},
		{gutterQualityScore(p, all, pageW, pageH), 1.2},
	}
	if in.Color != nil {
		if v, ok := gutterColorVarianceScore(p, in.Color, pageW, pageH); ok {
			cs = append(cs, component{v, 1.5})
		}
	}
	if in.GradMag != nil {
		if v, ok := edgeStrengthScore(p, in.GradMag, pageW, pageH); ok {
			cs = append(cs, component{v, 1.0})
		}
	}
	if p.HasSplitCoverage {
		cs = append(cs, component{panelflow.ClampFloat(p.SplitCoverage, 0, 1), 0.5})
	}
	return panelflow.ClampFloat(weightedMean(cs), 0, 1)
}

// countFactor scores the panel count: splash pages and empty pages are
// penalized, 2-12 panels score 1.0.
func countFactor(n int) float64 {
	switch {
	case n == 0:
		return 0.1
	case n == 1:
		return 0.7
	case n >= 2 && n <= 12:
		return 1.0
	default:
		return 0.5
	}
}

// coverageFactor scores total panel area / page area: [0.70, 0.95] -> 1.0.
func coverageFactor(coverage float64) float64 {
	switch {
	case coverage >= 0.70 && coverage <= 0.95:
		return 1.0
	case coverage < 0.70:
		return panelflow.Lerp(coverage, 0, 0.70, 0.4, 1.0)
	default:
		return panelflow.Lerp(coverage, 0.95, 1.0, 1.0, 0.8)
	}
}

// gutterVarianceFactor scores the coefficient of variation of positive
// gutter widths.
func gutterVarianceFactor(gutters []int) float64 {
	var positive []float64
	for _, g := range gutters {
		if g > 0 {
			positive = append(positive, float64(g))
		}
	}
	if len(positive) < 2 {
		return 0.85
	}
	if len(positive) < len(gutters)/2+1 {
		return 0.7
	}
	mean := 0.0
	for _, v := range positive {
		mean += v
	}
	mean /= float64(len(positive))
	if mean == 0 {
		return 0.7
	}
	variance := 0.0
	for _, v := range positive {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(positive))
	cv := math.Sqrt(variance) / mean

	switch {
	case cv < 0.3:
		return 1.0
	case cv < 0.6:
		return 0.7
	default:
		return math.Max(0.4, 0.7*0.6/cv)
	}
}

// PageScore is the 4th-root geometric mean of weighted panel confidence,
// panel-count factor, coverage factor and gutter-variance factor.
func PageScore(panels []refine.Panel, panelConfidences []float64, pageW, pageH int, gx, gy []int) float64 {
	pageArea := pageW * pageH
	if pageArea == 0 {
		return 0
	}

	var weightedSum, areaSum float64
	var coveredArea int
	for i, p := range panels {
		areaSum += float64(p.Area())
		weightedSum += panelConfidences[i] * float64(p.Area())
		coveredArea += p.Area()
	}
	weightedConf := 0.0
	if areaSum > 0 {
		weightedConf = weightedSum / areaSum
	}

	coverage := float64(coveredArea) / float64(pageArea)
	allGutters := append(append([]int{}, gx...), gy...)

	f1 := math.Max(weightedConf, 0.0001)
	f2 := countFactor(len(panels))
	f3 := coverageFactor(coverage)
	f4 := gutterVarianceFactor(allGutters)

	return panelflow.ClampFloat(math.Pow(f1*f2*f3*f4, 0.25), 0, 1)
}
