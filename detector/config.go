// Package detector implements the detector facade: it orchestrates the
// image pipeline, the refinement cascade, confidence scoring and the
// reading-order solver for a single page image.
package detector

import (
	"fmt"

	"github.com/gocomics/panelflow"
	"github.com/gocomics/panelflow/imaging"
	"github.com/gocomics/panelflow/order"
)

// Config is the single source of pipeline knobs, YAML-tagged for loading
// and saving via cmd/panelflow/cmd/config.go.
type Config struct {
	Pipeline imaging.PipelineConfig `yaml:"pipeline"`

	// MaxDimension bounds max(W,H) before detection; 0 disables pre-resize.
	MaxDimension int `yaml:"max_dimension"`

	// SkipScoring bypasses confidence scoring entirely, assigning 1.0 to
	// every panel.
	SkipScoring bool `yaml:"skip_scoring"`

	// Direction is the reading direction used by the order solver.
	Direction order.Direction `yaml:"-"`
	// DirectionName is the YAML-facing string form of Direction ("ltr"/"rtl").
	DirectionName string `yaml:"reading_direction"`

	// RemoveContainedPanels opts into refine's counter-intuitive
	// prefer-smaller-survives containment pruning.
	RemoveContainedPanels bool `yaml:"remove_contained_panels"`
}

// DefaultConfig returns the conservative defaults used by `panelflow config`.
func DefaultConfig() Config {
	return Config{
		Pipeline:      imaging.DefaultPipelineConfig(),
		MaxDimension:  2000,
		SkipScoring:   false,
		Direction:     order.LTR,
		DirectionName: "ltr",
	}
}

// Validate fails fast on invalid knobs before the pipeline starts.
func (c *Config) Validate() error {
	if err := c.Pipeline.Validate(); err != nil {
		return err
	}
	switch c.DirectionName {
	case "", "ltr":
		c.Direction = order.LTR
	case "rtl":
		c.Direction = order.RTL
	default:
		return fmt.Errorf("detector: invalid reading_direction %q, want \"ltr\" or \"rtl\": %w", c.DirectionName, panelflow.ErrInvalidConfig)
	}
	return nil
}
