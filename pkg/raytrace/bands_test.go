package raytrace

import (
	"strings"
	"testing"

	"github.com/taigrr/modelv/pkg/kdtree"
	"github.com/taigrr/modelv/pkg/math3d"
	"github.com/taigrr/modelv/pkg/models"
	"github.com/taigrr/modelv/pkg/render"
)

func TestBands(t *testing.T) {
	tests := []struct {
		name  string
		rows  int
		n     int
		sizes []int
	}{
		{"even", 8, 4, []int{2, 2, 2, 2}},
		{"remainder spread", 10, 4, []int{3, 3, 2, 2}},
		{"more workers than rows", 3, 8, []int{1, 1, 1}},
		{"zero workers", 5, 0, []int{5}},
		{"no rows", 0, 4, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			bands := Bands(tc.rows, tc.n)
			if len(bands) != len(tc.sizes) {
				t.Fatalf("got %d bands, want %d", len(bands), len(tc.sizes))
			}
			next := 0
			for i, b := range bands {
				if b.Start != next {
					t.Errorf("band %d starts at %d, want %d", i, b.Start, next)
				}
				if b.Rows() != tc.sizes[i] {
					t.Errorf("band %d has %d rows, want %d", i, b.Rows(), tc.sizes[i])
				}
				next = b.End
			}
			if len(bands) > 0 && next != tc.rows {
				t.Errorf("bands end at %d, want %d", next, tc.rows)
			}
		})
	}
}

func TestHardwareConcurrency(t *testing.T) {
	if n := HardwareConcurrency(); n < 1 {
		t.Errorf("HardwareConcurrency() = %d", n)
	}
}

func TestPrepare(t *testing.T) {
	model := soup(50)
	scene := Prepare(model, kdtree.DefaultOptions())

	if len(scene.Meshes) != 2 {
		t.Fatalf("meshes = %d, want 2", len(scene.Meshes))
	}
	if scene.TriangleCount() != model.TriangleCount() {
		t.Errorf("TriangleCount = %d, want %d", scene.TriangleCount(), model.TriangleCount())
	}
	if scene.tree != nil {
		t.Error("model tree should not be built by Prepare")
	}
	New(DefaultOptions()).RaytraceScene(scene, cubeCamera(), render.NewViewport(8, 8))
	if scene.tree != nil {
		t.Error("tracing should not build the model tree")
	}
	if got := scene.Tree().Stats().InputTriangles; got != model.TriangleCount() {
		t.Errorf("model tree holds %d triangles, want %d", got, model.TriangleCount())
	}
	for _, m := range scene.Meshes {
		if m.Tree.CountTriangles() < len(m.Triangles) {
			t.Errorf("mesh %s tree lost triangles", m.Name)
		}
	}

	empty := Prepare(nil, kdtree.DefaultOptions())
	if !empty.Empty() || empty.Tree().CountLeafs() != 1 {
		t.Error("nil model should give an empty scene with a single leaf")
	}
}

func TestSceneVisibleMeshes(t *testing.T) {
	scene := Prepare(models.Cube(1), kdtree.DefaultOptions())
	cam := cubeCamera()
	vp := render.NewViewport(32, 32)

	if got := scene.VisibleMeshes(math3d.Identity(), cam.Frustum(vp)); got != 1 {
		t.Errorf("visible = %d, want 1", got)
	}
	away := math3d.Translate(math3d.V3(0, 0, 20))
	if got := scene.VisibleMeshes(away, cam.Frustum(vp)); got != 0 {
		t.Errorf("visible behind camera = %d, want 0", got)
	}
}

func TestSceneStatsTable(t *testing.T) {
	scene := Prepare(models.Cube(1), kdtree.DefaultOptions())
	out := scene.Stats()
	for _, want := range []string{"cube", "12", "model"} {
		if !strings.Contains(out, want) {
			t.Errorf("stats missing %q:\n%s", want, out)
		}
	}
}
