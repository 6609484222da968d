package attractor

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hupe1980/attractor/color"
)

// FindComponents enumerates the maximal terminal components of m and calls
// onComponent once per component with its member states and, per state, the
// colors for which the state belongs to that terminal component.
//
// Across all calls the colors reported for one state are pairwise disjoint.
// onComponent is never called concurrently and must not retain the map for
// mutation; the map is not touched by the run after delivery.
//
// The run owns a worker pool that is shut down before FindComponents returns.
// An invariant violation aborts the run with an *InvariantError.
func FindComponents[P any](ctx context.Context, m Model[P], onComponent func(*StateMap[P]), opts ...Option) (err error) {
	if m == nil {
		return ErrNilModel
	}
	if onComponent == nil {
		return ErrNilCallback
	}

	r := newRun(m, opts)
	defer r.close()
	defer recoverInvariant(&err)

	return r.findComponents(ctx, onComponent)
}

// emitter serializes component delivery to the user callback.
type emitter[P any] struct {
	mu    sync.Mutex
	count int
	fn    func(*StateMap[P])
	run   *run[P]
}

func (e *emitter[P]) emit(ctx context.Context, component *StateMap[P]) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.count++
	e.run.log.LogComponent(ctx, e.count, component.Size())
	e.run.metrics.RecordComponent(component.Size())
	e.fn(component)
}

func (r *run[P]) findComponents(ctx context.Context, onComponent func(*StateMap[P])) (err error) {
	start := time.Now()
	out := &emitter[P]{fn: onComponent, run: r}
	universes := 0
	defer func() {
		r.log.LogRun(ctx, out.count, universes, time.Since(start), err)
	}()

	// Sinks prune most of the state space before the worklist starts.
	sinks, err := r.sinkSweep(ctx, out)
	if err != nil {
		return err
	}
	canReachSink, err := r.reach(ctx, sinks, nil, Backward)
	if err != nil {
		return err
	}
	groundZero, err := r.invert(ctx, canReachSink)
	if err != nil {
		return err
	}

	var worklist []*StateMap[P]
	if groundZero.Size() > 0 {
		worklist = append(worklist, groundZero)
	}

	for len(worklist) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		universe := worklist[len(worklist)-1]
		worklist[len(worklist)-1] = nil
		worklist = worklist[:len(worklist)-1]
		universes++

		next, err := r.split(ctx, universe, out, len(worklist))
		if err != nil {
			return err
		}
		worklist = append(worklist, next...)
	}
	return nil
}

// split decomposes one universe: it reports the pivots' component for the
// colors where it is terminal and returns the parts left to classify.
func (r *run[P]) split(ctx context.Context, universe *StateMap[P], out *emitter[P], pending int) ([]*StateMap[P], error) {
	pivots, err := r.findPivots(ctx, universe)
	if err != nil {
		return nil, err
	}
	r.metrics.RecordUniverse(universe.Size(), pending)
	r.log.LogUniverse(ctx, universe.Size(), pending, pivots.Size())

	// Components reachable from the pivots, and the pivots' own component.
	forward, err := r.reach(ctx, pivots, universe, Forward)
	if err != nil {
		return nil, err
	}
	current, err := r.reach(ctx, pivots, forward, Backward)
	if err != nil {
		return nil, err
	}
	downstream, err := r.subtract(ctx, forward, current)
	if err != nil {
		return nil, err
	}

	// The current component is terminal wherever nothing lies downstream.
	terminal := r.alg.Not(r.allColors(downstream))
	if r.alg.IsNotEmpty(terminal) {
		component, err := r.restrict(ctx, current, terminal)
		if err != nil {
			return nil, err
		}
		if component.Size() > 0 {
			out.emit(ctx, component)
		}
	}

	var next []*StateMap[P]
	if downstream.Size() > 0 {
		next = append(next, downstream)
	}

	// Whatever cannot reach the forward set is independent of these pivots.
	basin, err := r.reach(ctx, forward, universe, Backward)
	if err != nil {
		return nil, err
	}
	unreachable, err := r.subtract(ctx, universe, basin)
	if err != nil {
		return nil, err
	}
	if unreachable.Size() > 0 {
		next = append(next, unreachable)
	}
	return next, nil
}

// sinkSweep reports every state as a sink for the colors under which it has
// no outgoing edge to another state, and returns all sinks.
func (r *run[P]) sinkSweep(ctx context.Context, out *emitter[P]) (*StateMap[P], error) {
	start := time.Now()
	n := r.model.StateCount()
	sinks := r.newMap()
	var done atomic.Int64

	err := r.pool.Map(ctx, n, func(ctx context.Context, s int) error {
		var leaving []P
		for _, e := range r.model.Successors(s) {
			if e.State != s {
				leaving = append(leaving, e.Color)
			}
		}
		isSink := r.alg.Not(color.Merge(leaving, r.alg.Zero(), r.alg.Or))
		if r.alg.IsNotEmpty(isSink) {
			sinks.Union(s, isSink)
			component := r.newMap()
			component.Union(s, isSink)
			out.emit(ctx, component)
		}

		d := int(done.Add(1))
		r.progress.Do(func() { r.log.LogProgress(ctx, "sinks", d, n) })
		return nil
	})
	if err := translateError(err); err != nil {
		return nil, err
	}

	elapsed := time.Since(start)
	r.log.LogSinkSweep(ctx, sinks.Size(), elapsed)
	r.metrics.RecordSinkSweep(n, sinks.Size(), elapsed)
	return sinks, nil
}
