package geom

import (
	"math"

	"github.com/taigrr/modelv/pkg/math3d"
)

// Vertex holds the attributes carried by each triangle corner.
type Vertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
	UV       math3d.Vec2
}

// Triangle is an immutable triangle with full vertex attributes.
type Triangle struct {
	V [3]Vertex
}

// NewTriangle creates a triangle from three positions with zero normals and UVs.
func NewTriangle(a, b, c math3d.Vec3) Triangle {
	return Triangle{V: [3]Vertex{{Position: a}, {Position: b}, {Position: c}}}
}

// Bounds returns the bounding box of the triangle's positions.
func (t Triangle) Bounds() AABB {
	return EmptyAABB().
		Extend(t.V[0].Position).
		Extend(t.V[1].Position).
		Extend(t.V[2].Position)
}

// Centroid returns the average of the three positions.
func (t Triangle) Centroid() math3d.Vec3 {
	return t.V[0].Position.Add(t.V[1].Position).Add(t.V[2].Position).Scale(1.0 / 3)
}

// Transform returns the triangle with positions mapped as points and normals
// as directions through m.
func (t Triangle) Transform(m math3d.Mat4) Triangle {
	out := t
	for i := range out.V {
		out.V[i].Position = m.MulVec3(t.V[i].Position)
		out.V[i].Normal = m.MulVec3Dir(t.V[i].Normal).Normalize()
	}
	return out
}

// Intersect is the method form of IntersectTriangleT.
func (t Triangle) Intersect(r Ray) (float64, bool) {
	return IntersectTriangleT(r, t.V[0].Position, t.V[1].Position, t.V[2].Position)
}

// IntersectTriangle tests the ray against triangle (v1, v2, v3) and returns
// the hit point on success.
func IntersectTriangle(r Ray, v1, v2, v3 math3d.Vec3) (math3d.Vec3, bool) {
	t, ok := IntersectTriangleT(r, v1, v2, v3)
	if !ok {
		return math3d.Vec3{}, false
	}
	return r.At(t), true
}

// IntersectTriangleT is the Moller-Trumbore test. It returns the ray
// parameter of the hit. Degenerate triangles and rays parallel to the
// triangle's plane never hit.
//
// The parallel test is relative to the edge and direction lengths, so a
// triangle and ray scaled by any factor give the same answer.
func IntersectTriangleT(r Ray, v1, v2, v3 math3d.Vec3) (float64, bool) {
	edge1 := v2.Sub(v1)
	edge2 := v3.Sub(v1)

	p := r.Direction.Cross(edge2)
	det := edge1.Dot(p)
	if math.Abs(det) <= Epsilon*edge1.Len()*edge2.Len()*r.Direction.Len() {
		return 0, false
	}
	invDet := 1 / det

	s := r.Origin.Sub(v1)
	u := s.Dot(p) * invDet
	if u < 0 || u > 1 {
		return 0, false
	}

	q := s.Cross(edge1)
	v := r.Direction.Dot(q) * invDet
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t := edge2.Dot(q) * invDet
	if t <= Epsilon {
		return 0, false
	}
	return t, true
}
