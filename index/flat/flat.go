// Package flat provides a flat (brute-force) exact index over caller-owned
// coordinate data. Every query scans all points in increasing index order,
// so it needs no construction work and no extra memory; it is the reference
// the spatial index is verified against and a sensible choice for very
// small data sets.
package flat

import (
	"math"

	"github.com/gomatting/knn/distance"
	"github.com/gomatting/knn/index"
	"github.com/gomatting/knn/internal/queue"
)

// Compile-time check to ensure Flat satisfies the index interface.
var _ index.Index = (*Flat)(nil)

// Options contains configuration options for the flat index.
type Options struct {
	// Dimension is the fixed coordinate dimensionality for this index.
	// It must be > 0 and is enforced for all searches.
	Dimension int
}

// DefaultOptions contains the default configuration options for the flat index.
var DefaultOptions = Options{
	Dimension: 0,
}

// Flat represents a flat index. It references the caller's data buffer and
// never copies or mutates it. Queries are read-only and safe to run
// concurrently.
type Flat struct {
	data   []float64
	n      int
	dims   int
	closed bool
}

// New creates a flat index over flat row-major data. The Dimension option
// is required.
func New(data []float64, optFns ...func(o *Options)) (*Flat, error) {
	opts := DefaultOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	n, err := index.ValidateData(data, opts.Dimension)
	if err != nil {
		return nil, err
	}

	return &Flat{
		data: data,
		n:    n,
		dims: opts.Dimension,
	}, nil
}

// KNNSearch scans all points in increasing index order through a bounded
// candidate set, returning the min(k, n) nearest as (index, Euclidean
// distance) pairs ascending by distance, ties broken by lower index.
func (f *Flat) KNNSearch(query []float64, k int) ([]index.SearchResult, error) {
	if f.closed {
		return nil, index.ErrClosed
	}
	if k < 0 {
		return nil, index.ErrInvalidK
	}
	if err := index.ValidateQuery(query, f.dims); err != nil {
		return nil, err
	}
	if k == 0 || f.n == 0 {
		return nil, nil
	}
	if k > f.n {
		k = f.n
	}

	candidates := queue.NewCandidateList(k)
	for i := 0; i < f.n; i++ {
		base := i * f.dims
		candidates.Push(i, distance.SquaredL2(query, f.data[base:base+f.dims]))
	}

	results := make([]index.SearchResult, candidates.Len())
	for i, c := range candidates.Items() {
		results[i] = index.SearchResult{Index: c.Node, Distance: math.Sqrt(c.Distance)}
	}
	return results, nil
}

// NumPoints returns the number of indexed data points.
func (f *Flat) NumPoints() int { return f.n }

// Dimension returns the coordinate dimensionality.
func (f *Flat) Dimension() int { return f.dims }

// Close releases the data reference. Close is idempotent.
func (f *Flat) Close() error {
	f.data = nil
	f.closed = true
	return nil
}
