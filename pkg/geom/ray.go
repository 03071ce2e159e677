package geom

import "github.com/taigrr/modelv/pkg/math3d"

// Ray is a half-line starting at Origin. Rays built with NewRay carry a unit
// Direction.
type Ray struct {
	Origin    math3d.Vec3
	Direction math3d.Vec3
}

// NewRay creates a ray with a normalized direction. A zero direction stays
// zero and never hits anything.
func NewRay(origin, direction math3d.Vec3) Ray {
	return Ray{Origin: origin, Direction: direction.Normalize()}
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float64) math3d.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// Transform maps the ray through m. The direction is not renormalized, so a
// parameter t addresses the same point before and after the transform.
func (r Ray) Transform(m math3d.Mat4) Ray {
	return Ray{Origin: m.MulVec3(r.Origin), Direction: m.MulVec3Dir(r.Direction)}
}
