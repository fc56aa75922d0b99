package kdtree

import (
	"math"

	"github.com/gomatting/knn/distance"
	"github.com/gomatting/knn/index"
	"github.com/gomatting/knn/internal/queue"
)

// KNNSearch returns the min(k, n) nearest data points to query as
// (index, Euclidean distance) pairs, ascending by distance with ties broken
// by lower data index. The output is identical to a stable brute-force scan
// over all points. k == 0 yields an empty result.
func (t *Tree) KNNSearch(query []float64, k int) ([]index.SearchResult, error) {
	if t.closed {
		return nil, index.ErrClosed
	}
	if k < 0 {
		return nil, index.ErrInvalidK
	}
	if err := index.ValidateQuery(query, t.dims); err != nil {
		return nil, err
	}
	if k == 0 || t.n == 0 {
		return nil, nil
	}
	if k > t.n {
		k = t.n
	}

	candidates := queue.NewCandidateList(k)
	t.search(t.root, query, candidates)

	// Squared distance is an internal optimization; the public API reports
	// true Euclidean distance.
	results := make([]index.SearchResult, candidates.Len())
	for i, c := range candidates.Items() {
		results[i] = index.SearchResult{Index: c.Node, Distance: math.Sqrt(c.Distance)}
	}
	return results, nil
}

// search performs the branch-and-bound descent: the child on the query's
// side of the splitting hyperplane first, then the far child unless it is
// provably unable to improve the candidate set.
func (t *Tree) search(nodeID int, query []float64, candidates *queue.CandidateList) {
	nd := &t.nodes[nodeID]

	if nd.leaf() {
		for i := nd.start; i < nd.end; i++ {
			ptIdx := t.idxArray[i]
			candidates.Push(ptIdx, distance.SquaredL2(query, t.point(ptIdx)))
		}
		return
	}

	near, far := nd.left, nd.right
	if query[nd.axis] >= nd.splitValue {
		near, far = nd.right, nd.left
	}

	t.search(near, query, candidates)

	// The far side can only contain a point at squared distance >= the
	// squared distance to the splitting hyperplane. Ties must still be
	// visited: an equal-distance point with a lower index displaces the
	// current worst candidate.
	planeDist := query[nd.axis] - nd.splitValue
	planeDist *= planeDist
	if !candidates.Full() || planeDist <= candidates.Worst() {
		t.search(far, query, candidates)
	}
}
