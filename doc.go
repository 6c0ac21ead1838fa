// Package panelflow implements the geometric kernel shared by the panel
// detection pipeline: integer points, line segments with near-parallel
// merging, and the value types returned by a detection run.
//
// Everything stage-specific (the image pipeline, the refinement cascade,
// confidence scoring, reading order) lives in sibling packages that import
// this one; panelflow itself does no image processing and no panel
// refinement.
package panelflow
