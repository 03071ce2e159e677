package models

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const pyramidOBJ = `# square pyramid
v -1 0 -1
v 1 0 -1
v 1 0 1
v -1 0 1
v 0 1 0
vt 0 0
vt 1 0
vn 0 -1 0
o base
f 1/1/1 2/2/1 3//1 4//1
o sides
f 1 2 5
f 2 3 5
f -2 -1 -5
f 4 1 5
`

func TestReadOBJ(t *testing.T) {
	model, err := ReadOBJ(strings.NewReader(pyramidOBJ), "pyramid")
	if err != nil {
		t.Fatalf("ReadOBJ: %v", err)
	}

	if len(model.Meshes) != 2 {
		t.Fatalf("meshes = %d, want 2", len(model.Meshes))
	}

	base := model.Meshes[0]
	if base.Name != "base" {
		t.Errorf("base name = %q", base.Name)
	}
	// Quad is fan-triangulated
	if base.TriangleCount() != 2 {
		t.Errorf("base triangles = %d, want 2", base.TriangleCount())
	}
	if n := base.Vertices[0].Normal; n.Y != -1 {
		t.Errorf("explicit normal not kept: %+v", n)
	}
	if uv := base.Vertices[1].UV; uv.X != 1 {
		t.Errorf("texcoord not kept: %+v", uv)
	}

	sides := model.Meshes[1]
	if sides.TriangleCount() != 4 {
		t.Errorf("side triangles = %d, want 4", sides.TriangleCount())
	}
	// Identical references share a vertex
	if sides.VertexCount() != 5 {
		t.Errorf("side vertices = %d, want 5", sides.VertexCount())
	}
	if !sides.hasNormals() {
		t.Error("missing normals should be computed")
	}

	if model.TriangleCount() != 6 {
		t.Errorf("TriangleCount = %d, want 6", model.TriangleCount())
	}
	if model.Bounds.Max.Y != 1 || model.Bounds.Min.X != -1 {
		t.Errorf("bounds = %+v", model.Bounds)
	}
}

func TestReadOBJNegativeIndices(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 0 1 0\nf -3 -2 -1\n"
	model, err := ReadOBJ(strings.NewReader(src), "tri")
	if err != nil {
		t.Fatalf("ReadOBJ: %v", err)
	}
	tri := model.Meshes[0].Triangle(0)
	if tri.V[1].Position.X != 1 || tri.V[2].Position.Y != 1 {
		t.Errorf("triangle = %+v", tri)
	}
}

func TestReadOBJErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"bad float", "v 0 x 0\n"},
		{"short vertex", "v 0 0\n"},
		{"index out of range", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 4\n"},
		{"zero index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n"},
		{"two vertex face", "v 0 0 0\nv 1 0 0\nf 1 2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadOBJ(strings.NewReader(tt.src), tt.name); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestReadOBJNoGeometry(t *testing.T) {
	_, err := ReadOBJ(strings.NewReader("v 0 0 0\n# nothing else\n"), "points")
	if !errors.Is(err, ErrNoGeometry) {
		t.Errorf("err = %v, want ErrNoGeometry", err)
	}
}

func TestLoadOBJFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pyramid.OBJ")
	if err := os.WriteFile(path, []byte(pyramidOBJ), 0o644); err != nil {
		t.Fatal(err)
	}

	model, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if model.Name != "pyramid.OBJ" {
		t.Errorf("name = %q", model.Name)
	}
	if model.TriangleCount() != 6 {
		t.Errorf("TriangleCount = %d, want 6", model.TriangleCount())
	}
}
