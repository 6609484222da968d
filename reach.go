package attractor

import (
	"context"
	"time"

	"github.com/hupe1980/attractor/internal/workqueue"
)

// ReachForward returns, per state and color, everything reachable from seed
// along successors. If guard is not nil, colors only propagate into a state
// within the guard's color of that state.
func ReachForward[P any](ctx context.Context, m Model[P], seed, guard *StateMap[P], opts ...Option) (*StateMap[P], error) {
	return reachOnce(ctx, m, seed, guard, Forward, opts)
}

// ReachBackward returns, per state and color, everything that can reach seed
// along predecessors, bounded by guard if it is not nil.
func ReachBackward[P any](ctx context.Context, m Model[P], seed, guard *StateMap[P], opts ...Option) (*StateMap[P], error) {
	return reachOnce(ctx, m, seed, guard, Backward, opts)
}

func reachOnce[P any](ctx context.Context, m Model[P], seed, guard *StateMap[P], dir Direction, opts []Option) (res *StateMap[P], err error) {
	if m == nil {
		return nil, ErrNilModel
	}
	r := newRun(m, opts)
	defer r.close()
	defer recoverInvariant(&err)
	return r.reach(ctx, seed, guard, dir)
}

// reach saturates seed along dir. Every worker drains the shared queue: a
// claimed state pushes its color, bounded by the guard, across each edge, and
// an endpoint whose color grew is marked dirty again.
func (r *run[P]) reach(ctx context.Context, seed, guard *StateMap[P], dir Direction) (*StateMap[P], error) {
	start := time.Now()
	queue := workqueue.New(r.model.StateCount())
	result := r.newMap()
	seed.Range(func(s State, p P) bool {
		result.Union(s, p)
		queue.Mark(s)
		return true
	})

	edges := r.model.Predecessors
	if dir == Forward {
		edges = r.model.Successors
	}

	err := r.pool.Replicate(ctx, func(ctx context.Context, _ int) error {
		return queue.Drain(ctx, func(s State) {
			current := result.Get(s)
			for _, e := range edges(s) {
				bound := current
				if guard != nil {
					bound = r.alg.And(current, guard.Get(e.State))
				}
				if result.Union(e.State, r.alg.And(e.Color, bound)) {
					queue.Mark(e.State)
				}
			}
		})
	})
	err = translateError(err)

	elapsed := time.Since(start)
	r.log.LogReach(ctx, dir, seed.Size(), result.Size(), elapsed, err)
	if err != nil {
		return nil, err
	}
	r.metrics.RecordReach(dir, seed.Size(), result.Size(), elapsed)
	return result, nil
}
