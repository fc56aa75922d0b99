// Package queue provides the bounded candidate set used by KNN searches.
package queue

// Candidate represents one entry in a candidate list.
// Value-based (no pointers) for cache locality and zero allocations.
type Candidate struct {
	Node     int     // Node is the original data-point index.
	Distance float64 // Distance is the squared distance to the query.
}

// less orders candidates by (Distance, Node) ascending. Keeping the list in
// this lexicographic order reproduces the output of a stable linear scan
// that visits data points in increasing index order, no matter in which
// order the tree traversal encounters them.
func less(a, b Candidate) bool {
	if a.Distance != b.Distance {
		return a.Distance < b.Distance
	}
	return a.Node < b.Node
}

// CandidateList is a fixed-capacity candidate set of the k best (smallest
// distance) candidates seen so far, kept sorted ascending. The backing
// slice reserves one extra scratch slot so admission is a single append
// followed by an insertion-sort bubble and a truncate.
type CandidateList struct {
	k     int
	items []Candidate
}

// NewCandidateList creates a candidate list holding at most k entries.
func NewCandidateList(k int) *CandidateList {
	if k < 0 {
		k = 0
	}
	return &CandidateList{
		k:     k,
		items: make([]Candidate, 0, k+1),
	}
}

// Len returns the number of candidates currently held.
func (c *CandidateList) Len() int { return len(c.items) }

// Full reports whether the list holds k candidates.
func (c *CandidateList) Full() bool { return len(c.items) == c.k }

// Worst returns the squared distance of the current k-th best candidate.
// Only meaningful when Full() is true.
func (c *CandidateList) Worst() float64 {
	return c.items[len(c.items)-1].Distance
}

// Push attempts to admit a candidate and reports whether it was admitted.
// When the list is full, the candidate must strictly improve on the current
// worst entry in (Distance, Node) order; the worst entry is then evicted.
func (c *CandidateList) Push(node int, dist float64) bool {
	if c.k == 0 {
		return false
	}
	cand := Candidate{Node: node, Distance: dist}
	if c.Full() && !less(cand, c.items[c.k-1]) {
		return false
	}
	c.items = append(c.items, cand)
	for i := len(c.items) - 1; i > 0 && less(c.items[i], c.items[i-1]); i-- {
		c.items[i], c.items[i-1] = c.items[i-1], c.items[i]
	}
	if len(c.items) > c.k {
		c.items = c.items[:c.k]
	}
	return true
}

// Items returns the candidates sorted ascending by (Distance, Node).
// The slice aliases internal storage and is invalidated by Push or Reset.
func (c *CandidateList) Items() []Candidate { return c.items }

// Reset clears the candidate list for reuse.
func (c *CandidateList) Reset() { c.items = c.items[:0] }
