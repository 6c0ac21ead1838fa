package panelflow

// Point is an integer pixel coordinate, origin at the top-left.
type Point struct {
	X, Y int
}

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// sum is the key used to order four-point sets in Segment.Intersect: points
// are compared by x+y, matching the "key-sorted by coordinate sum" rule.
func (p Point) sum() int { return p.X + p.Y }
