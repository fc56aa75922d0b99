package kdtree

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gomatting/knn/index"
	"github.com/gomatting/knn/testutil"
)

func TestKNNSearch_KnownScenario(t *testing.T) {
	data := []float64{
		0, 0,
		1, 0,
		0, 1,
		5, 5,
	}
	tree, err := New(data, func(o *Options) {
		o.Dimension = 2
		o.LeafSize = 1
	})
	require.NoError(t, err)

	query := []float64{0.1, 0.1}
	results, err := tree.KNNSearch(query, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Point 0 is strictly nearest. Points 1 and 2 are exactly tied
	// (0.9^2+0.1^2 on both), so the lower index wins the second slot.
	assert.Equal(t, 0, results[0].Index)
	assert.InDelta(t, 0.1414, results[0].Distance, 1e-4)
	assert.Equal(t, 1, results[1].Index)
	assert.InDelta(t, 0.9055, results[1].Distance, 1e-4)

	// And bit-exact against the stable scan.
	assert.Equal(t, testutil.ExactTopK(data, query, 2, 2), results)
}

func TestKNNSearch_EdgeCases(t *testing.T) {
	data := []float64{0, 0, 1, 1, 2, 2}
	tree, err := New(data, func(o *Options) { o.Dimension = 2 })
	require.NoError(t, err)

	t.Run("ZeroK", func(t *testing.T) {
		results, err := tree.KNNSearch([]float64{0, 0}, 0)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("KLargerThanN", func(t *testing.T) {
		results, err := tree.KNNSearch([]float64{0, 0}, 10)
		require.NoError(t, err)
		assert.Len(t, results, 3)
	})

	t.Run("NegativeK", func(t *testing.T) {
		_, err := tree.KNNSearch([]float64{0, 0}, -1)
		assert.ErrorIs(t, err, index.ErrInvalidK)
	})

	t.Run("DimensionMismatch", func(t *testing.T) {
		_, err := tree.KNNSearch([]float64{0, 0, 0}, 1)
		var edm *index.ErrDimensionMismatch
		assert.ErrorAs(t, err, &edm)
	})

	t.Run("NonFiniteQuery", func(t *testing.T) {
		_, err := tree.KNNSearch([]float64{math.NaN(), 0}, 1)
		var enf *index.ErrNonFinite
		assert.ErrorAs(t, err, &enf)
	})
}

// TestKNNSearch_BruteForceEquivalence sweeps a randomized parameter grid:
// every k in 0..4, dimensions 1..5, data sizes including n == k, with
// occasional duplicate query points, asserting exact equality against the
// stable linear-scan oracle.
func TestKNNSearch_BruteForceEquivalence(t *testing.T) {
	rng := testutil.NewRNG(0x12345678)

	runCase := func(t *testing.T, nData, nQueries, dims, k, leafSize int) {
		t.Helper()
		data := rng.Points(nData, dims)
		queries := rng.Points(nQueries, dims)
		rng.DuplicateSome(queries, dims, 100)

		tree, err := New(data, func(o *Options) {
			o.Dimension = dims
			o.LeafSize = leafSize
		})
		require.NoError(t, err)
		assertPermutation(t, tree, nData)

		for q := 0; q < nQueries; q++ {
			query := queries[q*dims : (q+1)*dims]
			got, err := tree.KNNSearch(query, k)
			require.NoError(t, err)
			want := testutil.ExactTopK(data, query, dims, k)
			require.Equal(t, want, got, "query %d differs from brute force", q)
		}
	}

	for k := 0; k < 5; k++ {
		for dims := 1; dims <= 5; dims++ {
			t.Run(fmt.Sprintf("k=%d/dims=%d", k, dims), func(t *testing.T) {
				nData := k + rng.Intn(100)
				nQueries := rng.Intn(100)

				runCase(t, nData, nQueries, dims, k, DefaultLeafSize)
				runCase(t, k, nQueries, dims, k, DefaultLeafSize)
				runCase(t, nData, 0, dims, k, DefaultLeafSize)
				runCase(t, nData, nQueries, dims, k, 1)
			})
		}
	}
}

// TestKNNSearch_DuplicateHeavyData draws coordinates from a tiny grid so
// that duplicate points and exact distance ties are common; tie-breaking
// must still match the stable scan bit for bit.
func TestKNNSearch_DuplicateHeavyData(t *testing.T) {
	rng := testutil.NewRNG(99)

	for _, dims := range []int{1, 2, 3} {
		for _, levels := range []int{1, 2, 3} {
			t.Run(fmt.Sprintf("dims=%d/levels=%d", dims, levels), func(t *testing.T) {
				data := rng.GridPoints(80, dims, levels)
				queries := rng.GridPoints(40, dims, levels)

				tree, err := New(data, func(o *Options) {
					o.Dimension = dims
					o.LeafSize = 2
				})
				require.NoError(t, err)
				assertPermutation(t, tree, 80)

				for _, k := range []int{1, 3, 7, 80, 100} {
					for q := 0; q < 40; q++ {
						query := queries[q*dims : (q+1)*dims]
						got, err := tree.KNNSearch(query, k)
						require.NoError(t, err)
						want := testutil.ExactTopK(data, query, dims, k)
						require.Equal(t, want, got)
					}
				}
			})
		}
	}
}

func TestKNNSearch_Sortedness(t *testing.T) {
	rng := testutil.NewRNG(5)
	data := rng.Points(500, 3)
	tree, err := New(data, func(o *Options) { o.Dimension = 3 })
	require.NoError(t, err)

	for q := 0; q < 20; q++ {
		query := rng.Points(1, 3)
		results, err := tree.KNNSearch(query, 25)
		require.NoError(t, err)
		require.Len(t, results, 25)
		for i := 1; i < len(results); i++ {
			assert.GreaterOrEqual(t, results[i].Distance, results[i-1].Distance)
		}
	}
}

// Concurrent reads against one built tree must be safe and agree with
// sequential results.
func TestKNNSearch_ConcurrentReads(t *testing.T) {
	rng := testutil.NewRNG(11)
	data := rng.Points(300, 2)
	queries := rng.Points(64, 2)

	tree, err := New(data, func(o *Options) { o.Dimension = 2 })
	require.NoError(t, err)

	want := make([][]index.SearchResult, 64)
	for q := range want {
		res, err := tree.KNNSearch(queries[q*2:(q+1)*2], 5)
		require.NoError(t, err)
		want[q] = res
	}

	done := make(chan error, 8)
	for w := 0; w < 8; w++ {
		go func() {
			for q := 0; q < 64; q++ {
				res, err := tree.KNNSearch(queries[q*2:(q+1)*2], 5)
				if err != nil {
					done <- err
					return
				}
				for i := range res {
					if res[i] != want[q][i] {
						done <- fmt.Errorf("query %d: concurrent result differs", q)
						return
					}
				}
			}
			done <- nil
		}()
	}
	for w := 0; w < 8; w++ {
		require.NoError(t, <-done)
	}
}
