// Package testutil provides testing utilities for attractor.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating random colors and random colored
// graphs, and for checking that reported components partition the colors
// of every state.
//
// # Random Colors and Graphs
//
//	rng := testutil.NewRNG(seed)
//	alg := color.MustInterval(0, 1)
//	p := rng.Params(alg, 4)                   // up to 4 thresholds on a grid
//	model := rng.Graph(alg, 200, 3)           // 200 states, up to 3 successors each
//
// # Partition Checks
//
//	part := testutil.NewPartition(alg)
//	_ = attractor.FindComponents(ctx, model, part.Add)
//	require.Empty(t, part.Conflicts())
package testutil
