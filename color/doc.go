// Package color implements parameter colors: symbolic subsets of a bounded
// parameter domain that label the states and edges of a colored graph.
//
// # Algebra
//
// Every color domain satisfies the [Algebra] contract, a Boolean lattice with
// Zero (empty set), One (the whole bounded domain), And, Or, Not and Subset.
// The graph engine only talks to colors through this contract, so alternative
// domains can be plugged in without touching reachability or decomposition.
//
// # Interval partitions
//
// [Interval] is the bundled domain. A [Params] value partitions the bounded
// axis [lo, hi] with ascending thresholds into len(thresholds)+1 cells and
// flags which cells belong to the set:
//
//	alg := color.MustInterval(0.0, 1.0)
//	a := alg.Range(0.3, 0.7)        // [_|0.3|*|0.7|_]
//	b := alg.Range(0.5, 1.0)        // [_|0.5|*]
//	alg.Or(a, b)                    // [_|0.3|*]
//	alg.Not(a)                      // [*|0.3|_|0.7|*]
//
// Values are immutable and canonical: no two adjacent cells share the same
// membership flag, so structurally equal values describe equal sets.
package color
