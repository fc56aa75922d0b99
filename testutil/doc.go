// Package testutil provides testing utilities for the knn module.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seedable deterministic random generator and an exact
// brute-force oracle for verifying search results.
//
// # Random Point Generation
//
//	rng := testutil.NewRNG(seed)
//	data := rng.Points(n, dims)             // uniform [0, 1) coordinates
//	data := rng.GridPoints(n, dims, 3)      // coordinates from a small grid (exact ties)
//
// # Exact Search (Ground Truth)
//
//	results := testutil.ExactTopK(data, query, dims, k)
package testutil
