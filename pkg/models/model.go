package models

import (
	"math"

	"github.com/taigrr/modelv/pkg/geom"
	"github.com/taigrr/modelv/pkg/math3d"
)

// Model is a named collection of meshes with a model-level bounding box.
type Model struct {
	Name   string
	Meshes []*Mesh
	Bounds geom.AABB
}

// NewModel creates an empty model.
func NewModel(name string) *Model {
	return &Model{Name: name}
}

// AddMesh appends a mesh and refreshes the model bounds.
func (m *Model) AddMesh(mesh *Mesh) {
	mesh.CalculateBounds()
	m.Meshes = append(m.Meshes, mesh)
	m.CalculateBounds()
}

// CalculateBounds folds every vertex position of every mesh into the model
// box. A model without vertices gets a zero-size box at the origin.
func (m *Model) CalculateBounds() {
	box := geom.EmptyAABB()
	for _, mesh := range m.Meshes {
		for _, v := range mesh.Vertices {
			box = box.Extend(v.Position)
		}
	}
	if box.IsEmpty() {
		box = geom.AABB{}
	}
	m.Bounds = box
}

// IsEmpty reports whether the model has no triangles to trace.
func (m *Model) IsEmpty() bool {
	return m.TriangleCount() == 0
}

// TriangleCount returns the number of triangles over all meshes.
func (m *Model) TriangleCount() int {
	n := 0
	for _, mesh := range m.Meshes {
		n += mesh.TriangleCount()
	}
	return n
}

// VertexCount returns the number of vertices over all meshes.
func (m *Model) VertexCount() int {
	n := 0
	for _, mesh := range m.Meshes {
		n += mesh.VertexCount()
	}
	return n
}

// Triangles flattens all meshes, in mesh order, into one triangle list
// mapped through transform.
func (m *Model) Triangles(transform math3d.Mat4) []geom.Triangle {
	tris := make([]geom.Triangle, 0, m.TriangleCount())
	for _, mesh := range m.Meshes {
		tris = append(tris, mesh.Triangles(transform)...)
	}
	return tris
}

// Transform applies a transformation matrix to every mesh.
func (m *Model) Transform(mat math3d.Mat4) {
	for _, mesh := range m.Meshes {
		mesh.Transform(mat)
	}
	m.CalculateBounds()
}

// Framing returns the world transform used to present the model: centered on
// the origin, scaled so its largest dimension is 2, then pushed distance
// units down -Z.
func (m *Model) Framing(distance float64) math3d.Mat4 {
	center := m.Bounds.Center()
	scale := 1.0
	if maxDim := m.Bounds.Size().MaxComponent(); maxDim > 0 && !math.IsInf(maxDim, 0) {
		scale = 2.0 / maxDim
	}
	return math3d.Translate(math3d.V3(0, 0, -distance)).
		Mul(math3d.ScaleUniform(scale)).
		Mul(math3d.Translate(center.Negate()))
}
