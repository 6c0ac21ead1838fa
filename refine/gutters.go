package refine

// CollectGutters returns every measured x- and y-axis gutter width across
// the panel set (one sample per panel with a left/top neighbor). Confidence
// scoring uses the full sample list for its variance factor; Expand uses
// only the minimum via signedGutters.
func CollectGutters(panels []Panel) (gx, gy []int) {
	for _, p := range panels {
		if li := LeftNeighbor(p, panels); li >= 0 {
			gx = append(gx, p.X-panels[li].Right)
		}
		if ti := TopNeighbor(p, panels); ti >= 0 {
			gy = append(gy, p.Y-panels[ti].Bottom)
		}
	}
	return gx, gy
}

// MinPositiveGutters returns the page-wide minimum positive gutter per axis,
// used by the detector facade to populate panelflow.Gutters on the result.
func MinPositiveGutters(panels []Panel) (x, y int, ok bool) {
	gx, gy := CollectGutters(panels)
	minPos := func(vs []int) (int, bool) {
		best := 0
		found := false
		for _, v := range vs {
			if v > 0 && (!found || v < best) {
				best = v
				found = true
			}
		}
		return best, found
	}
	var okx, oky bool
	x, okx = minPos(gx)
	y, oky = minPos(gy)
	return x, y, okx && oky
}
