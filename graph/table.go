package graph

import (
	"fmt"

	"github.com/hupe1980/attractor"
	"github.com/hupe1980/attractor/color"
)

// Compile time check to ensure Table satisfies the Model interface.
var _ attractor.Model[color.Params] = (*Table[color.Params])(nil)

// ErrInvalidEdge indicates an edge whose endpoints are outside the state space.
type ErrInvalidEdge struct {
	From, To attractor.State
	States   int
}

func (e *ErrInvalidEdge) Error() string {
	return fmt.Sprintf("invalid edge %d -> %d: states must be in [0, %d)", e.From, e.To, e.States)
}

type edgeKey struct {
	from, to attractor.State
}

// Builder accumulates colored edges. It is not safe for concurrent use.
type Builder[P any] struct {
	alg    color.Algebra[P]
	states int
	index  map[edgeKey]int
	keys   []edgeKey
	colors []P
}

// NewBuilder creates a builder for a graph with the given number of states.
func NewBuilder[P any](alg color.Algebra[P], states int) *Builder[P] {
	return &Builder[P]{
		alg:    alg,
		states: states,
		index:  make(map[edgeKey]int),
	}
}

// AddEdge adds a transition from -> to enabled for colors c. Adding the same
// pair again extends its color.
func (b *Builder[P]) AddEdge(from, to attractor.State, c P) error {
	if from < 0 || from >= b.states || to < 0 || to >= b.states {
		return &ErrInvalidEdge{From: from, To: to, States: b.states}
	}
	k := edgeKey{from: from, to: to}
	if i, ok := b.index[k]; ok {
		b.colors[i] = b.alg.Or(b.colors[i], c)
		return nil
	}
	b.index[k] = len(b.keys)
	b.keys = append(b.keys, k)
	b.colors = append(b.colors, c)
	return nil
}

// Build returns the immutable model. Edges keep insertion order per state.
func (b *Builder[P]) Build() *Table[P] {
	t := &Table[P]{
		alg:  b.alg,
		succ: make([][]attractor.Edge[P], b.states),
		pred: make([][]attractor.Edge[P], b.states),
	}
	for i, k := range b.keys {
		c := b.colors[i]
		if b.alg.IsEmpty(c) {
			continue
		}
		t.succ[k.from] = append(t.succ[k.from], attractor.Edge[P]{State: k.to, Color: c})
		t.pred[k.to] = append(t.pred[k.to], attractor.Edge[P]{State: k.from, Color: c})
		t.edges++
	}
	return t
}

// Table is a colored graph with precomputed adjacency lists.
type Table[P any] struct {
	alg   color.Algebra[P]
	succ  [][]attractor.Edge[P]
	pred  [][]attractor.Edge[P]
	edges int
}

// StateCount implements attractor.Model.
func (t *Table[P]) StateCount() int { return len(t.succ) }

// Solver implements attractor.Model.
func (t *Table[P]) Solver() color.Algebra[P] { return t.alg }

// Successors implements attractor.Model.
func (t *Table[P]) Successors(s attractor.State) []attractor.Edge[P] { return t.succ[s] }

// Predecessors implements attractor.Model.
func (t *Table[P]) Predecessors(s attractor.State) []attractor.Edge[P] { return t.pred[s] }

// EdgeCount returns the number of non-empty edges.
func (t *Table[P]) EdgeCount() int { return t.edges }
