package kdtree

// Stats summarizes the shape of a built tree.
type Stats struct {
	NumPoints int
	Dimension int
	LeafSize  int
	NumNodes  int
	NumLeaves int
	MaxDepth  int // root-only tree has depth 1
}

// Stats returns shape statistics for the tree. Returns the zero value after
// Close.
func (t *Tree) Stats() Stats {
	s := Stats{}
	if t.closed {
		return s
	}
	s.NumPoints = t.n
	s.Dimension = t.dims
	s.LeafSize = t.leafSize
	s.NumNodes = len(t.nodes)
	t.walk(t.root, 1, &s)
	return s
}

func (t *Tree) walk(nodeID, depth int, s *Stats) {
	if depth > s.MaxDepth {
		s.MaxDepth = depth
	}
	nd := &t.nodes[nodeID]
	if nd.leaf() {
		s.NumLeaves++
		return
	}
	t.walk(nd.left, depth+1, s)
	t.walk(nd.right, depth+1, s)
}
