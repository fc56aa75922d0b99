// Package kdtree implements a k-d tree spatial index for exact
// k-nearest-neighbor queries over caller-owned coordinate data.
//
// The tree stores only a permutation of the data-point indices; point
// coordinates are never copied or mutated. Nodes live in an arena owned by
// the tree and reference their children by arena index. The index is
// immutable once built, so concurrent KNNSearch calls from multiple
// goroutines are safe without locking.
package kdtree

import (
	"github.com/gomatting/knn/index"
)

// Compile-time check to ensure Tree satisfies the index interface.
var _ index.Index = (*Tree)(nil)

// DefaultLeafSize is the default maximum number of points per leaf bucket.
const DefaultLeafSize = 8

// noChild marks an absent child reference in the node arena.
const noChild = -1

// Options contains configuration options for the k-d tree.
type Options struct {
	// Dimension is the fixed coordinate dimensionality for this index.
	// It must be > 0 and is enforced for all searches.
	Dimension int

	// LeafSize controls the maximum number of points per leaf bucket.
	// Values < 1 are clamped to 1.
	LeafSize int
}

// DefaultOptions contains the default configuration options for the k-d tree.
var DefaultOptions = Options{
	Dimension: 0,
	LeafSize:  DefaultLeafSize,
}

// node is one arena entry. Internal nodes split on axis at splitValue and
// reference children by arena index; leaves hold the idxArray[start:end]
// bucket. axis < 0 marks a leaf.
type node struct {
	axis        int
	splitValue  float64
	left, right int
	start, end  int
}

func (nd *node) leaf() bool { return nd.axis < 0 }

// Tree is a k-d tree over a flat row-major coordinate buffer.
type Tree struct {
	data     []float64 // caller-owned, referenced but never mutated
	n        int
	dims     int
	leafSize int
	idxArray []int // permutation: tree-order position -> original index
	nodes    []node
	root     int
	closed   bool
}

// New builds a k-d tree from flat row-major data. The Dimension option is
// required. The data buffer is referenced, not copied, and must stay valid
// and unmodified for the lifetime of the tree.
func New(data []float64, optFns ...func(o *Options)) (*Tree, error) {
	opts := DefaultOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.LeafSize < 1 {
		opts.LeafSize = 1
	}

	n, err := index.ValidateData(data, opts.Dimension)
	if err != nil {
		return nil, err
	}

	t := &Tree{
		data:     data,
		n:        n,
		dims:     opts.Dimension,
		leafSize: opts.LeafSize,
		idxArray: make([]int, n),
		nodes:    make([]node, 0, maxNodes(n, opts.LeafSize)),
	}
	for i := range t.idxArray {
		t.idxArray[i] = i
	}

	t.root = t.build(0, n)

	return t, nil
}

// maxNodes returns a capacity hint for the node arena: a binary tree with
// ceil(n/leafSize) leaves has at most 2*leaves-1 nodes when balanced.
func maxNodes(n, leafSize int) int {
	if n == 0 {
		return 1
	}
	leaves := (n + leafSize - 1) / leafSize
	return 2*leaves - 1
}

// build recursively partitions idxArray[start:end] and returns the arena
// index of the subtree root. An empty range still produces a (leaf) node,
// so an empty tree is a single empty leaf.
func (t *Tree) build(start, end int) int {
	id := len(t.nodes)
	t.nodes = append(t.nodes, node{
		axis:  -1,
		left:  noChild,
		right: noChild,
		start: start,
		end:   end,
	})

	if end-start <= t.leafSize {
		return id
	}

	axis, lo, hi := t.widestAxis(start, end)
	if hi == lo {
		// Every remaining point is identical; nothing left to split on.
		return id
	}

	splitValue := t.medianOn(axis, start, end)
	mid := t.partition(axis, start, end, splitValue)
	if mid == start || mid == end {
		// The median coincides with the range minimum (duplicate-heavy
		// data); fall back to the midpoint of the coordinate range.
		splitValue = lo + (hi-lo)/2
		mid = t.partition(axis, start, end, splitValue)
	}
	if mid == start || mid == end {
		// Still unsplittable (adjacent floats); keep an oversized leaf.
		return id
	}

	left := t.build(start, mid)
	right := t.build(mid, end)

	// Re-index into the arena: the appends above may have grown it.
	t.nodes[id].axis = axis
	t.nodes[id].splitValue = splitValue
	t.nodes[id].left = left
	t.nodes[id].right = right

	return id
}

// widestAxis returns the dimension with the greatest coordinate spread over
// idxArray[start:end], along with that dimension's min and max.
func (t *Tree) widestAxis(start, end int) (axis int, lo, hi float64) {
	for d := 0; d < t.dims; d++ {
		min := t.coord(t.idxArray[start], d)
		max := min
		for i := start + 1; i < end; i++ {
			v := t.coord(t.idxArray[i], d)
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
		if d == 0 || max-min > hi-lo {
			axis, lo, hi = d, min, max
		}
	}
	return axis, lo, hi
}

// medianOn returns the median coordinate of idxArray[start:end] along axis,
// partially reordering the range via quickselect (expected linear time).
func (t *Tree) medianOn(axis, start, end int) float64 {
	target := start + (end-start)/2
	lo, hi := start, end-1
	for lo < hi {
		p := t.selectPartition(axis, lo, hi)
		switch {
		case target == p:
			lo, hi = target, target
		case target < p:
			hi = p - 1
		default:
			lo = p + 1
		}
	}
	return t.coord(t.idxArray[target], axis)
}

// selectPartition is a Lomuto partition of idxArray[lo:hi+1] around the
// coordinate of the middle element; returns the pivot's final position.
func (t *Tree) selectPartition(axis, lo, hi int) int {
	mid := lo + (hi-lo)/2
	t.idxArray[mid], t.idxArray[hi] = t.idxArray[hi], t.idxArray[mid]
	pivot := t.coord(t.idxArray[hi], axis)

	p := lo
	for i := lo; i < hi; i++ {
		if t.coord(t.idxArray[i], axis) < pivot {
			t.idxArray[i], t.idxArray[p] = t.idxArray[p], t.idxArray[i]
			p++
		}
	}
	t.idxArray[p], t.idxArray[hi] = t.idxArray[hi], t.idxArray[p]
	return p
}

// partition reorders idxArray[start:end] so all indices with
// coord[axis] < splitValue precede the rest; returns the boundary.
func (t *Tree) partition(axis, start, end int, splitValue float64) int {
	p := start
	for i := start; i < end; i++ {
		if t.coord(t.idxArray[i], axis) < splitValue {
			t.idxArray[i], t.idxArray[p] = t.idxArray[p], t.idxArray[i]
			p++
		}
	}
	return p
}

func (t *Tree) coord(ptIdx, axis int) float64 {
	return t.data[ptIdx*t.dims+axis]
}

func (t *Tree) point(ptIdx int) []float64 {
	base := ptIdx * t.dims
	return t.data[base : base+t.dims]
}

// NumPoints returns the number of indexed data points.
func (t *Tree) NumPoints() int { return t.n }

// Dimension returns the coordinate dimensionality.
func (t *Tree) Dimension() int { return t.dims }

// LeafSize returns the configured maximum leaf bucket size.
func (t *Tree) LeafSize() int { return t.leafSize }

// Close releases the node arena and permutation storage. The tree cannot be
// queried afterwards. Close is idempotent.
func (t *Tree) Close() error {
	t.data = nil
	t.idxArray = nil
	t.nodes = nil
	t.closed = true
	return nil
}
