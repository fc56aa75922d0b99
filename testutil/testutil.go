package testutil

import (
	"math"

	"github.com/gomatting/knn/distance"
	"github.com/gomatting/knn/index"
)

// RNG is an explicit seedable xorshift32 generator. The same seed always
// produces the same sequence, independent of process-wide random state.
type RNG struct {
	state uint32
}

// NewRNG creates a new RNG instance with the specified seed.
// A zero seed is replaced with a fixed non-zero constant (xorshift has a
// fixed point at zero).
func NewRNG(seed uint32) *RNG {
	if seed == 0 {
		seed = 0x12345678
	}
	return &RNG{state: seed}
}

// Uint32 advances the generator and returns the next value.
func (r *RNG) Uint32() uint32 {
	x := r.state
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	r.state = x
	return x
}

// Intn returns a value in [0, n).
func (r *RNG) Intn(n int) int {
	return int(r.Uint32() % uint32(n))
}

// Float64 returns a value in [0, 1].
func (r *RNG) Float64() float64 {
	return float64(r.Uint32()-1) / float64(0xffffffff)
}

// Points returns n uniform random points of the given dimensionality as a
// flat row-major buffer.
func (r *RNG) Points(n, dims int) []float64 {
	data := make([]float64, n*dims)
	for i := range data {
		data[i] = r.Float64()
	}
	return data
}

// GridPoints returns n points whose coordinates are drawn from a grid of
// `levels` evenly spaced values. Small grids force duplicate points and
// exact distance ties.
func (r *RNG) GridPoints(n, dims, levels int) []float64 {
	data := make([]float64, n*dims)
	for i := range data {
		data[i] = float64(r.Intn(levels)) / float64(levels)
	}
	return data
}

// DuplicateSome overwrites roughly one point in `rate` with a copy of an
// earlier point, so duplicate points appear with realistic frequency.
func (r *RNG) DuplicateSome(data []float64, dims, rate int) {
	n := len(data) / dims
	for i := 1; i < n; i++ {
		if r.Intn(rate) == 0 {
			j := r.Intn(i)
			copy(data[i*dims:(i+1)*dims], data[j*dims:(j+1)*dims])
		}
	}
}

// ExactTopK computes ground-truth nearest neighbors with a linear scan in
// increasing index order, re-sorting only on strict improvement so that
// equal distances keep the earlier (lower) index first. This is the
// observable contract every index must reproduce exactly.
func ExactTopK(data, query []float64, dims, k int) []index.SearchResult {
	n := len(data) / dims
	if k > n {
		k = n
	}
	if k <= 0 {
		return nil
	}

	idx := make([]int, 0, k+1)
	dist := make([]float64, 0, k+1)

	for j := 0; j < n; j++ {
		d := distance.SquaredL2(query, data[j*dims:(j+1)*dims])
		idx = append(idx, j)
		dist = append(dist, d)
		for c := len(dist) - 1; c > 0 && dist[c-1] > dist[c]; c-- {
			dist[c-1], dist[c] = dist[c], dist[c-1]
			idx[c-1], idx[c] = idx[c], idx[c-1]
		}
		if len(dist) > k {
			idx = idx[:k]
			dist = dist[:k]
		}
	}

	results := make([]index.SearchResult, len(idx))
	for i := range idx {
		results[i] = index.SearchResult{Index: idx[i], Distance: math.Sqrt(dist[i])}
	}
	return results
}
