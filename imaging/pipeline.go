package imaging

import (
	"image"
	"image/color"
	"math"

	"github.com/gocomics/panelflow"
)

// ToGray converts an arbitrary image to 8-bit grayscale.
func ToGray(img image.Image) *image.Gray {
	b := img.Bounds()
	gray := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			gray.Set(x, y, img.At(x, y))
		}
	}
	return gray
}

// gaussianBlur3x3 applies a fixed 3x3 Gaussian kernel (1 2 1 / 2 4 2 / 1 2 1,
// normalized by 16), the denoising pass selected by the "use denoising"
// pipeline knob.
func gaussianBlur3x3(src *image.Gray) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(b)
	kernel := [3][3]int{{1, 2, 1}, {2, 4, 2}, {1, 2, 1}}
	at := func(x, y int) int {
		x = panelflow.ClampInt(x, b.Min.X, b.Max.X-1)
		y = panelflow.ClampInt(y, b.Min.Y, b.Max.Y-1)
		return int(src.GrayAt(x, y).Y)
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			sum := 0
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					sum += at(x+kx, y+ky) * kernel[ky+1][kx+1]
				}
			}
			dst.SetGray(x, y, color.Gray{Y: uint8(sum / 16)})
		}
	}
	return dst
}

// Preprocess converts to grayscale and, if requested, denoises with a 3x3
// Gaussian blur. The blurred (or plain grayscale) image is also what the
// line-segment detector runs on.
func Preprocess(img image.Image, cfg PipelineConfig) (gray, blurred *image.Gray) {
	gray = ToGray(img)
	if cfg.UseDenoising {
		blurred = gaussianBlur3x3(gray)
	} else {
		blurred = gray
	}
	return gray, blurred
}

// SobelMagnitude returns the weighted |dx|+|dy| gradient magnitude image,
// used both as the Sobel edge operator and, independently, as the
// edge-strength input to confidence scoring.
func SobelMagnitude(src *image.Gray) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(b)
	at := func(x, y int) int {
		x = panelflow.ClampInt(x, b.Min.X, b.Max.X-1)
		y = panelflow.ClampInt(y, b.Min.Y, b.Max.Y-1)
		return int(src.GrayAt(x, y).Y)
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			gx := -at(x-1, y-1) - 2*at(x-1, y) - at(x-1, y+1) +
				at(x+1, y-1) + 2*at(x+1, y) + at(x+1, y+1)
			gy := -at(x-1, y-1) - 2*at(x, y-1) - at(x+1, y-1) +
				at(x-1, y+1) + 2*at(x, y+1) + at(x+1, y+1)
			mag := panelflow.AbsInt(gx) + panelflow.AbsInt(gy)
			dst.SetGray(x, y, color.Gray{Y: uint8(panelflow.ClampInt(mag, 0, 255))})
		}
	}
	return dst
}

// CannyEdges is a simplified two-threshold Canny: Sobel magnitude, then
// hysteresis thresholding relative to the image's own mean+stddev. It is
// selected as an alternative to Sobel by the "use Canny" pipeline knob;
// both operators ultimately produce a binary-ish edge map consumed the
// same way downstream.
func CannyEdges(src *image.Gray) *image.Gray {
	mag := SobelMagnitude(src)
	b := mag.Bounds()

	var sum, sumSq float64
	n := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			v := float64(mag.GrayAt(x, y).Y)
			sum += v
			sumSq += v * v
			n++
		}
	}
	mean := sum / float64(n)
	variance := sumSq/float64(n) - mean*mean
	if variance < 0 {
		variance = 0
	}
	stddev := math.Sqrt(variance)
	high := mean + stddev
	low := high / 2

	dst := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			v := float64(mag.GrayAt(x, y).Y)
			if v >= high {
				dst.SetGray(x, y, color.Gray{Y: 255})
			} else if v >= low {
				dst.SetGray(x, y, color.Gray{Y: 128})
			}
		}
	}
	// Promote weak (128) edges adjacent to a strong (255) edge, single pass.
	out := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			v := dst.GrayAt(x, y).Y
			if v == 255 {
				out.SetGray(x, y, color.Gray{Y: 255})
				continue
			}
			if v == 128 {
				strong := false
				for ky := -1; ky <= 1 && !strong; ky++ {
					for kx := -1; kx <= 1 && !strong; kx++ {
						xx, yy := x+kx, y+ky
						if xx < b.Min.X || xx >= b.Max.X || yy < b.Min.Y || yy >= b.Max.Y {
							continue
						}
						if dst.GrayAt(xx, yy).Y == 255 {
							strong = true
						}
					}
				}
				if strong {
					out.SetGray(x, y, color.Gray{Y: 255})
				}
			}
		}
	}
	return out
}

// Edges runs the edge operator selected by cfg.UseCanny.
func Edges(blurred *image.Gray, cfg PipelineConfig) *image.Gray {
	if cfg.UseCanny {
		return CannyEdges(blurred)
	}
	return SobelMagnitude(blurred)
}

// MorphClose bridges small gaps in a (mostly binary) edge image with a 3x3
// dilate-then-erode closing.
func MorphClose(src *image.Gray) *image.Gray {
	dilated := morph3x3(src, true)
	return morph3x3(dilated, false)
}

func morph3x3(src *image.Gray, dilate bool) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(b)
	at := func(x, y int) uint8 {
		if x < b.Min.X || x >= b.Max.X || y < b.Min.Y || y >= b.Max.Y {
			return 0
		}
		return src.GrayAt(x, y).Y
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			var result uint8
			if dilate {
				result = 0
				for ky := -1; ky <= 1; ky++ {
					for kx := -1; kx <= 1; kx++ {
						if v := at(x+kx, y+ky); v > result {
							result = v
						}
					}
				}
			} else {
				result = 255
				for ky := -1; ky <= 1; ky++ {
					for kx := -1; kx <= 1; kx++ {
						if v := at(x+kx, y+ky); v < result {
							result = v
						}
					}
				}
			}
			dst.SetGray(x, y, color.Gray{Y: result})
		}
	}
	return dst
}

// OtsuThreshold computes Otsu's between-class-variance-maximizing threshold
// over src and returns it along with the binarized (0/255) image. When a run
// of consecutive thresholds ties for the maximum, the middle of the run is
// used. Pixels above the threshold become 255.
func OtsuThreshold(src *image.Gray) (uint8, *image.Gray) {
	var hist [256]int
	b := src.Bounds()
	total := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			hist[src.GrayAt(x, y).Y]++
			total++
		}
	}

	var sumAll float64
	for i, c := range hist {
		sumAll += float64(i * c)
	}

	var sumB, wB float64
	var best float64
	bestThresh, lastBest := 0, 0
	for t := 0; t < 256; t++ {
		wB += float64(hist[t])
		if wB == 0 {
			continue
		}
		wF := float64(total) - wB
		if wF == 0 {
			break
		}
		sumB += float64(t * hist[t])
		mB := sumB / wB
		mF := (sumAll - sumB) / wF
		between := wB * wF * (mB - mF) * (mB - mF)
		if between > best {
			best = between
			bestThresh, lastBest = t, t
		} else if between == best && best > 0 && lastBest == t-1 {
			lastBest = t
		}
	}

	thresh := uint8((bestThresh + lastBest) / 2)
	dst := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if src.GrayAt(x, y).Y > thresh {
				dst.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return thresh, dst
}

// ExternalContours labels 8-connected foreground (255) components in a
// binary image and returns, for each, the convex hull of its boundary
// pixels as a closed ring. Concave outlines are not preserved.
func ExternalContours(binary *image.Gray) [][]panelflow.Point {
	b := binary.Bounds()
	w, h := b.Dx(), b.Dy()
	visited := make([]bool, w*h)
	idx := func(x, y int) int { return (y-b.Min.Y)*w + (x - b.Min.X) }
	fg := func(x, y int) bool {
		if x < b.Min.X || x >= b.Max.X || y < b.Min.Y || y >= b.Max.Y {
			return false
		}
		return binary.GrayAt(x, y).Y >= 128
	}

	var contours [][]panelflow.Point
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if visited[idx(x, y)] || !fg(x, y) {
				continue
			}
			start := panelflow.Point{X: x, Y: y}
			ring, members := traceComponent(start, fg)
			for _, m := range members {
				visited[idx(m.X, m.Y)] = true
			}
			if len(ring) >= 3 {
				contours = append(contours, ring)
			}
		}
	}
	return contours
}

// traceComponent floods the 8-connected component containing start and
// returns the convex hull of its boundary pixels plus every member pixel
// (so the caller can mark them visited in one pass).
func traceComponent(start panelflow.Point, fg func(x, y int) bool) ([]panelflow.Point, []panelflow.Point) {
	stack := []panelflow.Point{start}
	seen := map[panelflow.Point]bool{start: true}
	var members []panelflow.Point
	var boundary []panelflow.Point

	neighbors8 := [8][2]int{{-1, -1}, {0, -1}, {1, -1}, {-1, 0}, {1, 0}, {-1, 1}, {0, 1}, {1, 1}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		members = append(members, p)

		isBoundary := false
		for _, n := range neighbors8 {
			nx, ny := p.X+n[0], p.Y+n[1]
			if !fg(nx, ny) {
				isBoundary = true
				continue
			}
			np := panelflow.Point{X: nx, Y: ny}
			if !seen[np] {
				seen[np] = true
				stack = append(stack, np)
			}
		}
		if isBoundary {
			boundary = append(boundary, p)
		}
	}

	hull := convexHullOf(boundary)
	return hull, members
}

// convexHullOf computes the convex hull of a point set (Andrew's monotone
// chain), used to turn a ragged pixel boundary into a closed polygon ring
// suitable for Panel construction.
func convexHullOf(pts []panelflow.Point) []panelflow.Point {
	if len(pts) < 3 {
		return pts
	}
	uniq := make(map[panelflow.Point]bool, len(pts))
	var s []panelflow.Point
	for _, p := range pts {
		if !uniq[p] {
			uniq[p] = true
			s = append(s, p)
		}
	}
	if len(s) < 3 {
		return s
	}
	less := func(i, j int) bool {
		if s[i].X != s[j].X {
			return s[i].X < s[j].X
		}
		return s[i].Y < s[j].Y
	}
	// insertion sort: these rings are small relative to image size.
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && less(j, j-1); j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
	cross := func(o, a, b panelflow.Point) int {
		return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
	}
	lower := make([]panelflow.Point, 0, len(s))
	for _, p := range s {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}
	upper := make([]panelflow.Point, 0, len(s))
	for i := len(s) - 1; i >= 0; i-- {
		p := s[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}
	return append(lower[:len(lower)-1], upper[:len(upper)-1]...)
}

// SimplifyPolygon runs Douglas-Peucker simplification with an epsilon
// proportional to the ring's arc length (epsilon = 0.001 x arclength).
func SimplifyPolygon(ring []panelflow.Point) []panelflow.Point {
	if len(ring) < 3 {
		return ring
	}
	arclen := 0.0
	for i := 0; i < len(ring); i++ {
		j := (i + 1) % len(ring)
		arclen += panelflow.Segment{A: ring[i], B: ring[j]}.Dist()
	}
	eps := 0.001 * arclen
	simplified := douglasPeucker(ring, eps)
	if len(simplified) < 3 {
		return ring
	}
	return simplified
}

func douglasPeucker(pts []panelflow.Point, eps float64) []panelflow.Point {
	if len(pts) < 3 {
		return pts
	}
	first, last := pts[0], pts[len(pts)-1]
	chord := panelflow.Segment{A: first, B: last}

	maxDist := -1.0
	maxIdx := 0
	for i := 1; i < len(pts)-1; i++ {
		d := perpDist(chord, pts[i])
		if d > maxDist {
			maxDist = d
			maxIdx = i
		}
	}
	if maxDist <= eps {
		return []panelflow.Point{first, last}
	}
	left := douglasPeucker(pts[:maxIdx+1], eps)
	right := douglasPeucker(pts[maxIdx:], eps)
	return append(left[:len(left)-1], right...)
}

func perpDist(s panelflow.Segment, p panelflow.Point) float64 {
	proj := s.Project(p)
	return math.Hypot(float64(p.X-proj.X), float64(p.Y-proj.Y))
}
