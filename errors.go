package panelflow

import "errors"

// Sentinel errors returned by the core pipeline. Callers should use
// errors.Is against these rather than comparing strings.
var (
	// ErrInvalidConfig is returned when a DetectorConfig/PipelineConfig
	// fails validation (e.g. a non-positive ratio) before any work starts.
	ErrInvalidConfig = errors.New("panelflow: invalid configuration")

	// ErrEmptyImage is returned when the input image has zero width or
	// height. It is never returned for a page with no drawn content --
	// that case always yields a single full-page panel instead.
	ErrEmptyImage = errors.New("panelflow: empty image")
)
