package panelflow

import "fmt"

// OutputPanel is the immutable, publish-ready view of a detected panel: a
// stable id, a bbox clamped into the page, and a confidence score. It is
// produced at the very end of detection by copying out of the refinement
// stage's working set -- nothing downstream ever mutates it.
type OutputPanel struct {
	ID         string
	X, Y, W, H int
	Confidence float64
}

// Right and Bottom are convenience accessors matching the internal panel's
// right/bottom naming.
func (p OutputPanel) Right() int  { return p.X + p.W }
func (p OutputPanel) Bottom() int { return p.Y + p.H }

// Gutters is the page-wide minimum positive gap measured on each axis.
type Gutters struct {
	X, Y int
}

// DetectionResult is what a single call to the detector facade returns.
type DetectionResult struct {
	Panels     []OutputPanel
	Confidence float64
	Gutters    *Gutters
	Elapsed    float64 // seconds
}

// Source tags the origin of a Page's panel data.
type Source string

const (
	SourceCV     Source = "cv"
	SourceYOLO   Source = "yolo"
	SourceSAM    Source = "sam"
	SourceVLM    Source = "vlm"
	SourceManual Source = "manual"
)

// Page is a DetectionResult assembled with the context a caller needs to
// persist it: image identity, reading order and provenance.
type Page struct {
	Index           int
	Width, Height   int
	Panels          []OutputPanel
	Order           []string // permutation of panel ids
	OrderConfidence *float64
	Source          Source
	UserOverride    bool
	Gutters         *Gutters
	ProcessingTime  *float64
}

// Validate checks the universal invariants from the testable-properties
// section: unique ids, bboxes inside the page, and Order a permutation of
// the panel ids.
func (p Page) Validate() error {
	seen := make(map[string]bool, len(p.Panels))
	for _, panel := range p.Panels {
		if seen[panel.ID] {
			return fmt.Errorf("panelflow: duplicate panel id %q", panel.ID)
		}
		seen[panel.ID] = true
		if panel.W < 1 || panel.H < 1 {
			return fmt.Errorf("panelflow: panel %q has non-positive size", panel.ID)
		}
		if panel.X < 0 || panel.Y < 0 || panel.Right() > p.Width || panel.Bottom() > p.Height {
			return fmt.Errorf("panelflow: panel %q bbox escapes page bounds", panel.ID)
		}
	}
	if len(p.Order) != len(p.Panels) {
		return fmt.Errorf("panelflow: order has %d entries, want %d", len(p.Order), len(p.Panels))
	}
	for _, id := range p.Order {
		if !seen[id] {
			return fmt.Errorf("panelflow: order references unknown panel %q", id)
		}
	}
	return nil
}
