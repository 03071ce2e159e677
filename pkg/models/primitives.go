package models

import "github.com/taigrr/modelv/pkg/math3d"

// Cube returns an axis-aligned cube of the given edge length centered on the
// origin, as a single mesh of 12 outward-facing triangles.
func Cube(size float64) *Model {
	h := size / 2
	corners := [8]math3d.Vec3{
		{X: -h, Y: -h, Z: -h}, // 0: bottom-left-back
		{X: h, Y: -h, Z: -h},  // 1: bottom-right-back
		{X: h, Y: h, Z: -h},   // 2: top-right-back
		{X: -h, Y: h, Z: -h},  // 3: top-left-back
		{X: -h, Y: -h, Z: h},  // 4: bottom-left-front
		{X: h, Y: -h, Z: h},   // 5: bottom-right-front
		{X: h, Y: h, Z: h},    // 6: top-right-front
		{X: -h, Y: h, Z: h},   // 7: top-left-front
	}

	// Each face as a CCW quad seen from outside
	quads := [6][4]int{
		{4, 5, 6, 7}, // front
		{1, 0, 3, 2}, // back
		{5, 1, 2, 6}, // right
		{0, 4, 7, 3}, // left
		{7, 6, 2, 3}, // top
		{0, 1, 5, 4}, // bottom
	}

	mesh := NewMesh("cube")
	for _, q := range quads {
		base := len(mesh.Vertices)
		for _, c := range q {
			mesh.Vertices = append(mesh.Vertices, MeshVertex{Position: corners[c]})
		}
		mesh.Faces = append(mesh.Faces,
			Face{V: [3]int{base, base + 1, base + 2}},
			Face{V: [3]int{base, base + 2, base + 3}},
		)
	}
	mesh.CalculateNormals()

	model := NewModel("cube")
	model.AddMesh(mesh)
	return model
}
