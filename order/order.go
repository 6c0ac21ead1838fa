// Package order implements the reading-order solver: a must-precede
// relation derived from spatial neighbor queries, repaired into a
// permutation by a bounded fixed-point loop, validated for acyclicity
// against a graph library before the repair loop runs.
package order

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/lvlath/core"
	"github.com/katalvlaran/lvlath/dfs"

	"github.com/gocomics/panelflow/refine"
)

// Direction is the page's reading direction.
type Direction int

const (
	LTR Direction = iota
	RTL
)

// ErrCyclicConstraints is returned when the must-precede relation derived
// from panel neighbors contains a cycle -- a condition the repair loop
// cannot resolve and well-formed spatial relations never produce, but
// which the graph-validation step guards against defensively.
var ErrCyclicConstraints = fmt.Errorf("order: must-precede relation contains a cycle")

// mustPrecede returns, for panel i, the set of panel indices that must
// appear before it in reading order: its top neighbor plus every row
// neighbor on the trailing side for dir.
func mustPrecede(i int, panels []refine.Panel, dir Direction) []int {
	var preds []int
	if ti := refine.TopNeighbor(panels[i], panels); ti >= 0 {
		preds = append(preds, ti)
	}
	if dir == LTR {
		preds = append(preds, refine.AllLeftNeighbors(panels[i], panels)...)
	} else {
		preds = append(preds, refine.AllRightNeighbors(panels[i], panels)...)
	}
	return preds
}

// vertexID names panel i for the validation graph.
func vertexID(i int) string { return fmt.Sprintf("p%d", i) }

// validateAcyclic builds the must-precede relation as a directed graph
// (predecessor -> successor) and rejects it if it contains a cycle, using
// github.com/katalvlaran/lvlath's core.Graph and dfs.DetectCycles.
func validateAcyclic(panels []refine.Panel, dir Direction) error {
	g := core.NewGraph(core.WithDirected(true))
	for i := range panels {
		if err := g.AddVertex(vertexID(i)); err != nil {
			return fmt.Errorf("order: building validation graph: %w", err)
		}
	}
	for i := range panels {
		for _, pred := range mustPrecede(i, panels, dir) {
			if _, err := g.AddEdge(vertexID(pred), vertexID(i), 0); err != nil {
				return fmt.Errorf("order: building validation graph: %w", err)
			}
		}
	}
	hasCycle, _, err := dfs.DetectCycles(g)
	if err != nil {
		return fmt.Errorf("order: cycle detection: %w", err)
	}
	if hasCycle {
		return ErrCyclicConstraints
	}
	return nil
}

// Solve returns a permutation of panel indices consistent with the
// must-precede relation under dir. Empty input returns an empty
// permutation; single-panel input returns [0].
func Solve(panels []refine.Panel, dir Direction) ([]int, error) {
	n := len(panels)
	if n == 0 {
		return []int{}, nil
	}
	if n == 1 {
		return []int{0}, nil
	}

	if err := validateAcyclic(panels, dir); err != nil {
		return nil, err
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		pa, pb := panels[order[a]], panels[order[b]]
		if pa.Y != pb.Y {
			return pa.Y < pb.Y
		}
		if dir == LTR {
			return pa.X < pb.X
		}
		return pa.X > pb.X
	})

	position := make(map[int]int, n)
	for pos, idx := range order {
		position[idx] = pos
	}

	maxIterations := n * n
	for iter := 0; iter < maxIterations; iter++ {
		fixed := true
		for pos := 0; pos < len(order); pos++ {
			idx := order[pos]
			for _, pred := range mustPrecede(idx, panels, dir) {
				predPos := position[pred]
				if predPos > pos {
					// Move idx to just after pred.
					order = append(order[:pos], order[pos+1:]...)
					insertAt := predPos
					if pos < predPos {
						insertAt = predPos
					}
					next := make([]int, 0, n)
					next = append(next, order[:insertAt]...)
					next = append(next, idx)
					next = append(next, order[insertAt:]...)
					order = next
					for p, id := range order {
						position[id] = p
					}
					fixed = false
					break
				}
			}
			if !fixed {
				break
			}
		}
		if fixed {
			break
		}
	}

	return order, nil
}
