package kdtree

// Stats summarizes the shape of a tree.
type Stats struct {
	Depth          int
	Nodes          int
	Leafs          int
	Triangles      int // leaf references, counting duplicates
	InputTriangles int
	AveragePerLeaf float64
}

// Depth returns the number of edges on the longest root-to-leaf path.
func (t *Tree) Depth() int {
	return t.depth(0)
}

func (t *Tree) depth(idx int32) int {
	n := &t.nodes[idx]
	if n.kind == leafNode {
		return 0
	}
	return 1 + max(t.depth(n.left), t.depth(n.right))
}

// CountLeafs returns the number of leaf nodes.
func (t *Tree) CountLeafs() int {
	leafs := 0
	for i := range t.nodes {
		if t.nodes[i].kind == leafNode {
			leafs++
		}
	}
	return leafs
}

// CountTriangles returns the sum of the per-leaf triangle references. It
// exceeds the input count when triangles straddle split planes.
func (t *Tree) CountTriangles() int {
	return len(t.refs)
}

// AverageTrianglesPerLeaf returns CountTriangles / CountLeafs.
func (t *Tree) AverageTrianglesPerLeaf() float64 {
	leafs := t.CountLeafs()
	if leafs == 0 {
		return 0
	}
	return float64(t.CountTriangles()) / float64(leafs)
}

// Stats bundles the tree diagnostics.
func (t *Tree) Stats() Stats {
	return Stats{
		Depth:          t.Depth(),
		Nodes:          len(t.nodes),
		Leafs:          t.CountLeafs(),
		Triangles:      t.CountTriangles(),
		InputTriangles: len(t.triangles),
		AveragePerLeaf: t.AverageTrianglesPerLeaf(),
	}
}
