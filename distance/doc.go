// Package distance provides vector distance calculations.
//
// All functions use a plain left-to-right scalar loop. Every search path in
// this module (tree traversal, flat scan, test oracles) must produce
// bit-identical distances for the same pair of vectors, so the summation
// order is part of the contract and no reassociating (SIMD) implementation
// is used.
//
// # Supported Metrics
//
//   - MetricSquaredL2: Squared Euclidean distance (default, used internally)
//   - MetricL2: Euclidean distance (what the public API reports)
//
// # Usage
//
//	dist := distance.SquaredL2(a, b)
//	dist := distance.L2(a, b)
package distance
