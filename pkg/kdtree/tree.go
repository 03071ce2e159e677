// Package kdtree implements a KD-tree over a triangle soup.
//
// The tree is built once and is read-only afterwards, so a single Tree can
// be queried from any number of goroutines. Nodes live in one arena slice and
// leaves reference triangles by index into the slice passed to Build; the
// triangles themselves are never copied.
package kdtree

import (
	"github.com/taigrr/modelv/pkg/geom"
	"github.com/taigrr/modelv/pkg/math3d"
)

const (
	// DefaultLeafSize is the triangle count at or below which a node becomes a leaf.
	DefaultLeafSize = 8
	// DefaultMaxDepth bounds the recursion of the build.
	DefaultMaxDepth = 20
	// MaxDepthLimit is the largest accepted MaxDepth; it sizes the query stack.
	MaxDepthLimit = 48
)

// Options controls tree construction.
type Options struct {
	LeafSize int
	MaxDepth int
}

// DefaultOptions returns the options used by Build.
func DefaultOptions() Options {
	return Options{LeafSize: DefaultLeafSize, MaxDepth: DefaultMaxDepth}
}

func (o Options) normalized() Options {
	if o.LeafSize < 1 {
		o.LeafSize = DefaultLeafSize
	}
	if o.MaxDepth < 1 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.MaxDepth > MaxDepthLimit {
		o.MaxDepth = MaxDepthLimit
	}
	return o
}

type nodeKind uint8

const (
	leafNode nodeKind = iota
	internalNode
)

// node is either a leaf (first/count index refs) or an internal node
// (axis/split/left/right), selected by kind.
type node struct {
	bounds geom.AABB
	kind   nodeKind
	axis   math3d.Axis
	split  float64
	left   int32
	right  int32
	first  int32
	count  int32
}

// Tree is an immutable KD-tree. The root is nodes[0].
type Tree struct {
	triangles []geom.Triangle
	nodes     []node
	refs      []int32
	opts      Options
}

// Node is a read-only view of a tree node handed to Walk.
type Node struct {
	Leaf      bool
	Depth     int
	Axis      math3d.Axis
	Split     float64
	Bounds    geom.AABB
	Triangles []int32 // indices into Tree.Triangles, leaves only
}

// Triangles returns the triangle slice the tree indexes.
func (t *Tree) Triangles() []geom.Triangle {
	return t.triangles
}

// Bounds returns the bounding box of the whole tree.
func (t *Tree) Bounds() geom.AABB {
	return t.nodes[0].bounds
}

// Options returns the options the tree was built with.
func (t *Tree) Options() Options {
	return t.opts
}

// Walk visits nodes depth first, parents before children, left before
// right. Returning false from fn stops the walk.
func (t *Tree) Walk(fn func(Node) bool) {
	t.walk(0, 0, fn)
}

func (t *Tree) walk(idx int32, depth int, fn func(Node) bool) bool {
	n := &t.nodes[idx]
	view := Node{
		Leaf:   n.kind == leafNode,
		Depth:  depth,
		Axis:   n.axis,
		Split:  n.split,
		Bounds: n.bounds,
	}
	if view.Leaf {
		view.Triangles = t.refs[n.first : n.first+n.count]
		return fn(view)
	}
	if !fn(view) {
		return false
	}
	return t.walk(n.left, depth+1, fn) && t.walk(n.right, depth+1, fn)
}
