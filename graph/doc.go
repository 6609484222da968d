// Package graph builds concrete colored graphs that satisfy attractor.Model.
//
// A Builder collects colored transitions, merges parallel edges between the
// same pair of states with Or, drops Zero-colored edges and produces a Table
// with memoized successor and predecessor lists:
//
//	alg := color.MustInterval(0.1, 0.2)
//	b := graph.NewBuilder[color.Params](alg, 1000)
//	_ = b.AddEdge(3, 4, alg.Range(0.12, 0.18))
//	model := b.Build()
//
// Load reads the same information from a YAML model file:
//
//	bounds: [0.1, 0.2]
//	states: 3
//	edges:
//	  - {from: 0, to: 1}                     # full domain
//	  - {from: 1, to: 2, color: [[0.1, 0.15]]}
//	  - {from: 2, to: 0, color: [[0.12, 0.14], [0.16, 0.2]]}
package graph
