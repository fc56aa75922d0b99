package knn

import (
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gomatting/knn/index"
	"github.com/gomatting/knn/index/kdtree"
)

// KNN finds, for each query point, the k nearest data points by Euclidean
// distance. dataPoints and queryPoints are flat row-major buffers of dims
// coordinates per point. It builds one spatial index, runs all queries
// against it, and returns two parallel flat slices of length m*min(k, n):
// neighbor indices into the data set and the corresponding (non-squared)
// Euclidean distances, nearest first per query.
//
// k == 0, an empty data set, or an empty query set yield empty outputs.
func KNN(dataPoints, queryPoints []float64, dims, k int, optFns ...Option) ([]int, []float64, error) {
	o := applyOptions(optFns)

	if k < 0 {
		return nil, nil, index.ErrInvalidK
	}

	m, err := index.ValidateData(queryPoints, dims)
	if err != nil {
		return nil, nil, err
	}

	start := time.Now()
	tree, err := kdtree.New(dataPoints, func(to *kdtree.Options) {
		to.Dimension = dims
		to.LeafSize = o.leafSize
	})
	if err != nil {
		return nil, nil, err
	}
	defer tree.Close()

	o.logger.Debug("built spatial index",
		"points", tree.NumPoints(),
		"dims", dims,
		"leaf_size", o.leafSize,
		"elapsed", time.Since(start),
	)

	perQuery := min(k, tree.NumPoints())
	indices := make([]int, m*perQuery)
	distances := make([]float64, m*perQuery)
	if m == 0 || perQuery == 0 {
		return indices, distances, nil
	}

	// Each range writes a disjoint slice of the outputs, so the result is
	// the same no matter how queries are distributed over workers.
	queryRange := func(startQ, endQ int) error {
		for q := startQ; q < endQ; q++ {
			results, err := tree.KNNSearch(queryPoints[q*dims:(q+1)*dims], k)
			if err != nil {
				return err
			}
			base := q * perQuery
			for j, r := range results {
				indices[base+j] = r.Index
				distances[base+j] = r.Distance
			}
		}
		return nil
	}

	start = time.Now()
	if o.numWorkers > 1 && m > 1 {
		var g errgroup.Group
		perWorker := (m + o.numWorkers - 1) / o.numWorkers
		for w := 0; w < o.numWorkers; w++ {
			startQ := w * perWorker
			endQ := min(startQ+perWorker, m)
			if startQ >= m {
				break
			}
			g.Go(func() error {
				return queryRange(startQ, endQ)
			})
		}
		if err := g.Wait(); err != nil {
			return nil, nil, err
		}
	} else {
		if err := queryRange(0, m); err != nil {
			return nil, nil, err
		}
	}

	o.logger.Debug("ran knn queries",
		"queries", m,
		"k", k,
		"workers", o.numWorkers,
		"elapsed", time.Since(start),
	)

	return indices, distances, nil
}
