package kdtree

import (
	"github.com/taigrr/modelv/pkg/geom"
	"github.com/taigrr/modelv/pkg/math3d"
)

// Build constructs a tree over triangles with DefaultOptions, splitting
// first along startAxis.
func Build(triangles []geom.Triangle, startAxis math3d.Axis) *Tree {
	return BuildWithOptions(triangles, startAxis, DefaultOptions())
}

// BuildWithOptions constructs a tree over triangles.
//
// Each internal node splits at the midpoint of its bounding box along the
// current axis. Triangles spanning the plane are referenced by both children.
// A split is kept only when both children are strictly smaller than the
// parent; otherwise the remaining axes are tried and, failing those, the node
// becomes a leaf. An empty input yields a single empty leaf.
func BuildWithOptions(triangles []geom.Triangle, startAxis math3d.Axis, opts Options) *Tree {
	opts = opts.normalized()
	b := &builder{
		tree: &Tree{
			triangles: triangles,
			opts:      opts,
		},
		boxes: make([]geom.AABB, len(triangles)),
	}

	all := make([]int32, len(triangles))
	for i, tri := range triangles {
		b.boxes[i] = tri.Bounds()
		all[i] = int32(i)
	}

	b.build(all, startAxis%3, 0)
	return b.tree
}

type builder struct {
	tree  *Tree
	boxes []geom.AABB
}

func (b *builder) bounds(set []int32) geom.AABB {
	if len(set) == 0 {
		return geom.AABB{}
	}
	box := geom.EmptyAABB()
	for _, i := range set {
		box = box.Union(b.boxes[i])
	}
	return box
}

func (b *builder) build(set []int32, axis math3d.Axis, depth int) int32 {
	idx := int32(len(b.tree.nodes))
	b.tree.nodes = append(b.tree.nodes, node{})
	box := b.bounds(set)

	if len(set) <= b.tree.opts.LeafSize || depth >= b.tree.opts.MaxDepth {
		b.leaf(idx, box, set)
		return idx
	}

	for range 3 {
		split := box.Center().Component(axis)
		left, right := b.partition(set, axis, split)
		if len(left) < len(set) && len(right) < len(set) {
			l := b.build(left, axis.Next(), depth+1)
			r := b.build(right, axis.Next(), depth+1)
			b.tree.nodes[idx] = node{
				bounds: box,
				kind:   internalNode,
				axis:   axis,
				split:  split,
				left:   l,
				right:  r,
			}
			return idx
		}
		axis = axis.Next()
	}

	b.leaf(idx, box, set)
	return idx
}

func (b *builder) leaf(idx int32, box geom.AABB, set []int32) {
	first := int32(len(b.tree.refs))
	b.tree.refs = append(b.tree.refs, set...)
	b.tree.nodes[idx] = node{
		bounds: box,
		kind:   leafNode,
		first:  first,
		count:  int32(len(set)),
	}
}

// partition assigns each triangle to the side(s) of the plane it touches.
// A triangle lying in the plane goes left.
func (b *builder) partition(set []int32, axis math3d.Axis, split float64) (left, right []int32) {
	for _, i := range set {
		lo := b.boxes[i].Min.Component(axis)
		hi := b.boxes[i].Max.Component(axis)
		inLeft := lo < split
		inRight := hi > split
		if !inLeft && !inRight {
			inLeft = true
		}
		if inLeft {
			left = append(left, i)
		}
		if inRight {
			right = append(right, i)
		}
	}
	return left, right
}
