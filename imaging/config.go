package imaging

// PipelineConfig is the set of knobs controlling the image pipeline and
// refinement cascade, YAML-tagged for loading from a config file.
type PipelineConfig struct {
	// MinPanelRatio lower-bounds panel width or height as a fraction of the
	// image's corresponding dimension.
	MinPanelRatio float64 `yaml:"min_panel_ratio"`

	// MinSegmentRatio lower-bounds segment length as a fraction of
	// min(W,H). Zero means "derive as MinPanelRatio/2".
	MinSegmentRatio float64 `yaml:"min_segment_ratio"`

	UseDenoising           bool `yaml:"use_denoising"`
	UseCanny               bool `yaml:"use_canny"`
	UseMorphologicalClose  bool `yaml:"use_morphological_close"`
	MaxSegments            int  `yaml:"max_segments"`
	PreferAxisAligned      bool `yaml:"prefer_axis_aligned"`
	UseLSDNFA              bool `yaml:"use_lsd_nfa"`

	PanelSplitting    bool `yaml:"panel_splitting"`
	SmallPanelGroup   bool `yaml:"small_panel_grouping"`
	BigPanelGroup     bool `yaml:"big_panel_grouping"`
	PanelExpansion    bool `yaml:"panel_expansion"`
}

// EffectiveMinSegmentRatio returns MinSegmentRatio, deriving it from
// MinPanelRatio/2 when unset.
func (c PipelineConfig) EffectiveMinSegmentRatio() float64 {
	if c.MinSegmentRatio > 0 {
		return c.MinSegmentRatio
	}
	return c.MinPanelRatio / 2
}

// DefaultPipelineConfig returns the conservative defaults used when no
// config file is supplied.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		MinPanelRatio:         0.05,
		UseDenoising:          true,
		UseCanny:              false,
		UseMorphologicalClose: true,
		MaxSegments:           200,
		PreferAxisAligned:     true,
		UseLSDNFA:             false,
		PanelSplitting:        true,
		SmallPanelGroup:       true,
		BigPanelGroup:         true,
		PanelExpansion:        true,
	}
}

// Validate fails fast on non-positive ratios before the pipeline starts.
func (c PipelineConfig) Validate() error {
	if c.MinPanelRatio <= 0 || c.MinPanelRatio >= 1 {
		return errInvalidRatio("min_panel_ratio", c.MinPanelRatio)
	}
	if c.MinSegmentRatio < 0 {
		return errInvalidRatio("min_segment_ratio", c.MinSegmentRatio)
	}
	return nil
}
