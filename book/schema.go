// Package book implements the persisted BookData/Page JSON format:
// detection results are serialized into it for downstream readers and the
// preview server.
package book

import "github.com/gocomics/panelflow"

const schemaVersion = 1

// ReadingDirection is the book-wide default reading direction, overridable
// per call by the detector's own Direction config.
type ReadingDirection string

const (
	DirectionLTR ReadingDirection = "ltr"
	DirectionRTL ReadingDirection = "rtl"
)

// PanelRecord is one persisted panel entry within a Page.
type PanelRecord struct {
	ID         string  `json:"id"`
	Bbox       [4]int  `json:"bbox"` // x, y, w, h
	Confidence float64 `json:"confidence"`
}

// Page is the persisted form of panelflow.Page.
type Page struct {
	Index           int           `json:"index"`
	Size            [2]int        `json:"size"` // W, H
	Panels          []PanelRecord `json:"panels"`
	Order           []string      `json:"order"`
	OrderConfidence *float64      `json:"order_confidence"`
	Source          string        `json:"source"`
	UserOverride    bool          `json:"user_override"`
	Gutters         *[2]int       `json:"gutters"`
	ProcessingTime  *float64      `json:"processing_time"`
}

// Override is a user correction recorded against a specific page/panel.
// Exactly one of Bbox or Order should be set.
type Override struct {
	Bbox  *[4]int  `json:"bbox,omitempty"`
	Order []string `json:"order,omitempty"`
}

// Metadata is the book-wide provenance block.
type Metadata struct {
	ReadingDirection ReadingDirection `json:"reading_direction"`
	Created          string           `json:"created"` // ISO-8601 UTC
	ToolVersion      string           `json:"tool_version"`
}

// BookData is the top-level persisted document.
type BookData struct {
	Version   int                 `json:"version"`
	BookHash  string              `json:"book_hash"`
	Pages     []Page              `json:"pages"`
	Overrides map[string]Override `json:"overrides"`
	Metadata  Metadata            `json:"metadata"`
}

// NewBookData builds an empty BookData with the current schema version.
func NewBookData(bookHash string, dir ReadingDirection, toolVersion, created string) BookData {
	return BookData{
		Version:   schemaVersion,
		BookHash:  bookHash,
		Pages:     nil,
		Overrides: map[string]Override{},
		Metadata: Metadata{
			ReadingDirection: dir,
			Created:          created,
			ToolVersion:      toolVersion,
		},
	}
}

// overrideKey is the "<page_index>|<panel_id>" key format used to index
// Overrides.
func overrideKey(pageIndex int, panelID string) string {
	return itoa(pageIndex) + "|" + panelID
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var digits []byte
	for i > 0 {
		digits = append([]byte{byte('0' + i%10)}, digits...)
		i /= 10
	}
	if neg {
		digits = append([]byte{'-'}, digits...)
	}
	return string(digits)
}

// ToPage converts a panelflow.Page into its persisted form.
func ToPage(p panelflow.Page) Page {
	panels := make([]PanelRecord, len(p.Panels))
	for i, op := range p.Panels {
		panels[i] = PanelRecord{
			ID:         op.ID,
			Bbox:       [4]int{op.X, op.Y, op.W, op.H},
			Confidence: op.Confidence,
		}
	}
	var gutters *[2]int
	if p.Gutters != nil {
		gutters = &[2]int{p.Gutters.X, p.Gutters.Y}
	}
	return Page{
		Index:           p.Index,
		Size:            [2]int{p.Width, p.Height},
		Panels:          panels,
		Order:           append([]string(nil), p.Order...),
		OrderConfidence: p.OrderConfidence,
		Source:          string(p.Source),
		UserOverride:    p.UserOverride,
		Gutters:         gutters,
		ProcessingTime:  p.ProcessingTime,
	}
}

// SetOverride records a bbox or order correction for a panel, keyed by the
// "<page_index>|<panel_id>" convention.
func (b *BookData) SetOverride(pageIndex int, panelID string, o Override) {
	if b.Overrides == nil {
		b.Overrides = map[string]Override{}
	}
	b.Overrides[overrideKey(pageIndex, panelID)] = o
	for i := range b.Pages {
		if b.Pages[i].Index == pageIndex {
			b.Pages[i].UserOverride = true
		}
	}
}

// ApplyOverrides mutates b.Pages in place, applying every recorded
// override's bbox/order correction over the detected values.
func (b *BookData) ApplyOverrides() {
	for i := range b.Pages {
		page := &b.Pages[i]
		for j := range page.Panels {
			key := overrideKey(page.Index, page.Panels[j].ID)
			o, ok := b.Overrides[key]
			if !ok {
				continue
			}
			if o.Bbox != nil {
				page.Panels[j].Bbox = *o.Bbox
			}
			if o.Order != nil {
				page.Order = o.Order
			}
		}
	}
}
