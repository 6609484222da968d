package attractor

import "github.com/hupe1980/attractor/color"

// State identifies a graph state in [0, StateCount()).
type State = int

// Edge is one colored transition seen from a fixed state: State is the other
// endpoint (the target for successors, the source for predecessors).
type Edge[P any] struct {
	State State
	Color P
}

// Model is an immutable colored directed graph.
//
// Successors and Predecessors are called repeatedly from many goroutines, so
// implementations should precompute their edge lists. A missing pair means
// the edge color is Zero; Zero-colored edges should not be listed.
type Model[P any] interface {
	// StateCount returns the number of states.
	StateCount() int

	// Solver returns the color algebra of edge labels.
	Solver() color.Algebra[P]

	// Successors lists the outgoing edges of s.
	Successors(s State) []Edge[P]

	// Predecessors lists the incoming edges of s.
	Predecessors(s State) []Edge[P]
}

// MakeStateMap returns an empty state map sized to the model.
func MakeStateMap[P any](m Model[P]) *StateMap[P] {
	return NewStateMap(m.StateCount(), m.Solver())
}
