package refine

// TopNeighbor returns the index in all of the panel with the maximum bottom
// among panels strictly above p (bottom <= p.Y) sharing a column, or -1.
func TopNeighbor(p Panel, all []Panel) int {
	best := -1
	bestBottom := 0
	for i, o := range all {
		if o.EqualBounds(p) {
			continue
		}
		if o.Bottom <= p.Y && p.SameCol(o) {
			if best == -1 || o.Bottom > bestBottom {
				best = i
				bestBottom = o.Bottom
			}
		}
	}
	return best
}

// BottomNeighbor is the symmetric lookup below p.
func BottomNeighbor(p Panel, all []Panel) int {
	best := -1
	bestY := 0
	for i, o := range all {
		if o.EqualBounds(p) {
			continue
		}
		if o.Y >= p.Bottom && p.SameCol(o) {
			if best == -1 || o.Y < bestY {
				best = i
				bestY = o.Y
			}
		}
	}
	return best
}

// LeftNeighbor returns the index of the panel with the maximum right edge
// among panels to the left of p (right <= p.X) sharing a row, or -1.
func LeftNeighbor(p Panel, all []Panel) int {
	best := -1
	bestRight := 0
	for i, o := range all {
		if o.EqualBounds(p) {
			continue
		}
		if o.Right <= p.X && p.SameRow(o) {
			if best == -1 || o.Right > bestRight {
				best = i
				bestRight = o.Right
			}
		}
	}
	return best
}

// RightNeighbor is the symmetric lookup to the right of p.
func RightNeighbor(p Panel, all []Panel) int {
	best := -1
	bestX := 0
	for i, o := range all {
		if o.EqualBounds(p) {
			continue
		}
		if o.X >= p.Right && p.SameRow(o) {
			if best == -1 || o.X < bestX {
				best = i
				bestX = o.X
			}
		}
	}
	return best
}

// AllLeftNeighbors returns the indices of every panel to the left of p in
// the same row (used by the reading-order solver's must-precede set).
func AllLeftNeighbors(p Panel, all []Panel) []int {
	var out []int
	for i, o := range all {
		if o.EqualBounds(p) {
			continue
		}
		if o.Right <= p.X && p.SameRow(o) {
			out = append(out, i)
		}
	}
	return out
}

// AllRightNeighbors is the symmetric lookup for RTL reading order.
func AllRightNeighbors(p Panel, all []Panel) []int {
	var out []int
	for i, o := range all {
		if o.EqualBounds(p) {
			continue
		}
		if o.X >= p.Right && p.SameRow(o) {
			out = append(out, i)
		}
	}
	return out
}
