// Package attractor decomposes implicitly defined, parameter-colored directed
// graphs into their maximal terminal strongly connected components
// (attractors), reporting for each component the exact subset of parameter
// space for which it is terminal.
//
// Edges are labeled with colors: symbolic subsets of a bounded parameter
// domain (see package color). A transition is enabled exactly for the
// parameter values in its color, so a single run answers the question
// "which attractors exist, and for which parameters" without enumerating
// parameter values one at a time.
//
// # Quick Start
//
//	alg := color.MustInterval(0.0, 1.0)
//	b := graph.NewBuilder[color.Params](alg, 3)
//	_ = b.AddEdge(0, 1, alg.One())
//	_ = b.AddEdge(1, 2, alg.Range(0.3, 0.7))
//	_ = b.AddEdge(2, 0, alg.One())
//	model := b.Build()
//
//	err := attractor.FindComponents(ctx, model, func(c *attractor.StateMap[color.Params]) {
//	    c.Range(func(s attractor.State, p color.Params) bool {
//	        fmt.Println(s, alg.Intervals(p))
//	        return true
//	    })
//	}, attractor.WithWorkers(8))
//
// # Algorithm
//
// FindComponents first reports colored sinks, then repeatedly splits a
// worklist of "universes" (colored state sets still to classify) with
// parallel forward and backward colored reachability seeded by a greedy
// pivot cover. Every (state, color) pair is reported at most once: across all
// callback invocations the per-state colors are pairwise disjoint.
//
// # Concurrency
//
// A run owns one worker pool (WithWorkers, default GOMAXPROCS). State maps
// are merged lock-free with compare-and-swap; the reachability fixpoint
// drains a lock-free work queue on every worker. The component callback is
// never invoked concurrently.
//
// # Errors
//
// Logic invariant failures (for example a model returning an out of range
// state) abort the run and are returned as *InvariantError, matching
// ErrInvariantViolation with errors.Is.
package attractor
