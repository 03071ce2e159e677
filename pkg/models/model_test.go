package models

import (
	"math"
	"testing"

	"github.com/taigrr/modelv/pkg/math3d"
)

func TestCube(t *testing.T) {
	cube := Cube(2)

	if got := cube.TriangleCount(); got != 12 {
		t.Fatalf("TriangleCount = %d, want 12", got)
	}
	if cube.Bounds.Min != math3d.V3(-1, -1, -1) || cube.Bounds.Max != math3d.V3(1, 1, 1) {
		t.Errorf("bounds = %+v", cube.Bounds)
	}

	// Every face normal points away from the center
	mesh := cube.Meshes[0]
	for i := range mesh.Faces {
		tri := mesh.Triangle(i)
		n := tri.V[1].Position.Sub(tri.V[0].Position).Cross(tri.V[2].Position.Sub(tri.V[0].Position))
		if n.Dot(tri.Centroid()) <= 0 {
			t.Errorf("face %d winds inward", i)
		}
	}
}

func TestEmptyModelBounds(t *testing.T) {
	m := NewModel("empty")
	m.CalculateBounds()
	if m.Bounds.Min != math3d.Zero3() || m.Bounds.Max != math3d.Zero3() {
		t.Errorf("empty bounds = %+v, want zero box", m.Bounds)
	}
	if !m.IsEmpty() {
		t.Error("IsEmpty should be true")
	}
}

func TestModelTriangles(t *testing.T) {
	m := Cube(1)
	m.AddMesh(Cube(1).Meshes[0].Clone())

	tris := m.Triangles(math3d.Translate(math3d.V3(0, 0, -5)))
	if len(tris) != 24 {
		t.Fatalf("triangles = %d, want 24", len(tris))
	}
	for i, tri := range tris {
		if z := tri.Centroid().Z; z > -4.4 || z < -5.6 {
			t.Errorf("triangle %d centroid z = %v, want about -5", i, z)
		}
	}
}

func TestFraming(t *testing.T) {
	m := Cube(4)
	m.Transform(math3d.Translate(math3d.V3(10, 0, 0)))

	frame := m.Framing(3)

	center := frame.MulVec3(m.Bounds.Center())
	if center.Distance(math3d.V3(0, 0, -3)) > 1e-9 {
		t.Errorf("framed center = %+v, want (0,0,-3)", center)
	}
	corner := frame.MulVec3(m.Bounds.Max)
	if math.Abs(corner.X-1) > 1e-9 {
		t.Errorf("framed max corner x = %v, want 1", corner.X)
	}
}

func TestMeshTransform(t *testing.T) {
	m := Cube(2).Meshes[0]
	m.Transform(math3d.Scale(math3d.V3(2, 1, 1)))
	if m.Bounds.Max.X != 2 {
		t.Errorf("bounds max x = %v, want 2", m.Bounds.Max.X)
	}
	for _, v := range m.Vertices {
		if l := v.Normal.Len(); math.Abs(l-1) > 1e-9 {
			t.Fatalf("normal length = %v after transform", l)
		}
	}
}

func TestCalculateSmoothNormals(t *testing.T) {
	mesh := NewMesh("tri")
	mesh.Vertices = []MeshVertex{
		{Position: math3d.V3(0, 0, 0)},
		{Position: math3d.V3(1, 0, 0)},
		{Position: math3d.V3(0, 1, 0)},
	}
	mesh.Faces = []Face{{V: [3]int{0, 1, 2}}}
	mesh.CalculateSmoothNormals()

	for i, v := range mesh.Vertices {
		if v.Normal != math3d.V3(0, 0, 1) {
			t.Errorf("vertex %d normal = %+v, want +Z", i, v.Normal)
		}
	}
}

func BenchmarkModelTriangles(b *testing.B) {
	m := Cube(1)
	transform := m.Framing(3)
	for b.Loop() {
		_ = m.Triangles(transform)
	}
}
