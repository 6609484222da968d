package attractor

import (
	"context"

	"github.com/hupe1980/attractor/color"
)

// subtract returns a and-not b per state, dropping empty results.
func (r *run[P]) subtract(ctx context.Context, a, b *StateMap[P]) (*StateMap[P], error) {
	result := r.newMap()
	err := r.pool.Map(ctx, r.model.StateCount(), func(_ context.Context, s int) error {
		left, ok := a.GetOK(s)
		if !ok {
			return nil
		}
		result.Union(s, r.alg.And(left, r.alg.Not(b.Get(s))))
		return nil
	})
	return result, translateError(err)
}

// invert returns the pointwise complement of m, dropping empty results.
func (r *run[P]) invert(ctx context.Context, m *StateMap[P]) (*StateMap[P], error) {
	result := r.newMap()
	err := r.pool.Map(ctx, r.model.StateCount(), func(_ context.Context, s int) error {
		result.Union(s, r.alg.Not(m.Get(s)))
		return nil
	})
	return result, translateError(err)
}

// restrict intersects every color of m with colors.
func (r *run[P]) restrict(ctx context.Context, m *StateMap[P], colors P) (*StateMap[P], error) {
	result := r.newMap()
	err := r.pool.Map(ctx, r.model.StateCount(), func(_ context.Context, s int) error {
		if p, ok := m.GetOK(s); ok {
			result.Union(s, r.alg.And(p, colors))
		}
		return nil
	})
	return result, translateError(err)
}

// allColors returns the union of every color stored in m.
func (r *run[P]) allColors(m *StateMap[P]) P {
	colors := make([]P, 0, m.Size())
	m.Range(func(_ State, p P) bool {
		colors = append(colors, p)
		return true
	})
	return color.Merge(colors, r.alg.Zero(), r.alg.Or)
}

type pivotCandidate[P any] struct {
	state State
	color P
	keep  bool
}

// findPivots greedily covers every color of universe: the first remaining
// state contributes its still uncovered colors, the covered part is removed
// from every other candidate, and candidates left empty are dropped.
// The cover is not minimal; ties go to the lowest state.
func (r *run[P]) findPivots(ctx context.Context, universe *StateMap[P]) (*StateMap[P], error) {
	result := r.newMap()
	toCover := r.allColors(universe)

	remaining := make([]pivotCandidate[P], 0, universe.Size())
	universe.Range(func(s State, p P) bool {
		remaining = append(remaining, pivotCandidate[P]{state: s, color: p})
		return true
	})

	for r.alg.IsNotEmpty(toCover) {
		if len(remaining) == 0 {
			panic(invariantf("pivot cover ran out of candidates with colors left to cover"))
		}
		first := remaining[0]
		gain := r.alg.And(first.color, toCover)
		toCover = r.alg.And(toCover, r.alg.Not(gain))
		result.Union(first.state, gain)

		err := r.pool.Map(ctx, len(remaining), func(_ context.Context, i int) error {
			c := &remaining[i]
			c.color = r.alg.And(c.color, toCover)
			c.keep = r.alg.IsNotEmpty(c.color)
			return nil
		})
		if err := translateError(err); err != nil {
			return nil, err
		}

		kept := remaining[:0]
		for _, c := range remaining {
			if c.keep {
				kept = append(kept, c)
			}
		}
		remaining = kept
	}
	return result, nil
}
