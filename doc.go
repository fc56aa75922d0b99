// Package knn provides exact k-nearest-neighbor search over point sets in
// low-dimensional Euclidean space.
//
// The package is the KNN building block of an image-matting pipeline: build
// one spatial index over a fixed data set, then run many queries against it.
// Results are exact — bit-identical to a stable brute-force scan, including
// tie order — while the k-d tree keeps each query sub-linear.
//
// # Quick Start
//
// Batch interface (one index, many queries, flat outputs):
//
//	indices, distances, err := knn.KNN(dataPoints, queryPoints, dims, k)
//
// Index interface (for query-at-a-time use):
//
//	tree, err := kdtree.New(dataPoints, func(o *kdtree.Options) {
//	    o.Dimension = dims
//	})
//	defer tree.Close()
//	results, err := tree.KNNSearch(query, k)
//
// # Batch Output Layout
//
// For m query points the batch call returns two parallel slices of length
// m*min(k, n): the neighbor indices and the (non-squared) Euclidean
// distances for query q occupy positions [q*min(k,n), (q+1)*min(k,n)),
// nearest first.
//
// # Concurrency
//
// A built index is immutable; concurrent searches need no locking. The
// batch driver can fan queries out across workers with WithNumWorkers —
// output is identical to the sequential run.
package knn
