package kdtree

import (
	"math"

	"github.com/taigrr/modelv/pkg/geom"
	"github.com/taigrr/modelv/pkg/math3d"
)

// Mode selects the hit policy of a query.
type Mode int

const (
	// AnyHit stops at the first triangle hit found in traversal order.
	AnyHit Mode = iota
	// Nearest returns the hit with the smallest ray parameter.
	Nearest
)

func (m Mode) String() string {
	if m == Nearest {
		return "nearest"
	}
	return "any"
}

// Result describes the outcome of a query.
type Result struct {
	Hit      bool
	Triangle int // index into Tree.Triangles, -1 on miss
	T        float64
	Point    math3d.Vec3
	Tests    int // ray-triangle tests performed
}

// Query traverses the tree with r. Each node's box is tested before its
// contents; at internal nodes the child on the ray origin's side of the split
// plane is visited first.
func (t *Tree) Query(r geom.Ray, mode Mode) Result {
	res := Result{Triangle: -1, T: math.Inf(1)}

	var stack [MaxDepthLimit + 2]int32
	sp := 0
	stack[sp] = 0
	sp++

	for sp > 0 {
		sp--
		n := &t.nodes[stack[sp]]
		if n.kind == leafNode && n.count == 0 {
			continue
		}
		if !n.bounds.Hit(r) {
			continue
		}

		if n.kind == leafNode {
			for _, ref := range t.refs[n.first : n.first+n.count] {
				tri := &t.triangles[ref]
				res.Tests++
				dist, ok := geom.IntersectTriangleT(r, tri.V[0].Position, tri.V[1].Position, tri.V[2].Position)
				if !ok || dist >= res.T {
					continue
				}
				res.Hit = true
				res.Triangle = int(ref)
				res.T = dist
				if mode == AnyHit {
					res.Point = r.At(dist)
					return res
				}
			}
			continue
		}

		near, far := n.left, n.right
		if r.Origin.Component(n.axis) > n.split {
			near, far = far, near
		}
		stack[sp] = far
		sp++
		stack[sp] = near
		sp++
	}

	if res.Hit {
		res.Point = r.At(res.T)
	}
	return res
}

// Intersects reports whether r hits any triangle in the tree.
func (t *Tree) Intersects(r geom.Ray) bool {
	return t.Query(r, AnyHit).Hit
}
