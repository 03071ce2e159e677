package render

import (
	"testing"

	"github.com/taigrr/modelv/pkg/geom"
	"github.com/taigrr/modelv/pkg/math3d"
)

// createTestRasterizer creates a rasterizer over a sky-cleared framebuffer
// with the camera at (0,0,5) looking at the origin.
func createTestRasterizer(width, height int) (*Rasterizer, *Framebuffer) {
	fb := NewFramebuffer(width, height)
	fb.Clear(ColorSky)
	camera := NewCamera()
	camera.SetAspectRatio(float64(width) / float64(height))
	return NewRasterizer(camera, fb), fb
}

// quad returns two counter-clockwise triangles facing +Z at depth z.
func quad(half, z float64) []geom.Triangle {
	n := math3d.V3(0, 0, 1)
	v := [4]geom.Vertex{
		{Position: math3d.V3(-half, -half, z), Normal: n},
		{Position: math3d.V3(half, -half, z), Normal: n},
		{Position: math3d.V3(half, half, z), Normal: n},
		{Position: math3d.V3(-half, half, z), Normal: n},
	}
	return []geom.Triangle{
		{V: [3]geom.Vertex{v[0], v[1], v[2]}},
		{V: [3]geom.Vertex{v[0], v[2], v[3]}},
	}
}

func TestRasterizerDrawsQuad(t *testing.T) {
	r, fb := createTestRasterizer(64, 64)
	if drawn := r.DrawTriangles(quad(1, 0), ColorGray); drawn != 2 {
		t.Fatalf("drawn = %d, want 2", drawn)
	}

	if fb.GetPixel(32, 32) == ColorSky {
		t.Error("center pixel not covered")
	}
	if fb.GetPixel(0, 0) != ColorSky || fb.GetPixel(63, 63) != ColorSky {
		t.Error("corners should keep the background")
	}
	// No gaps along the shared diagonal
	for i := 26; i < 38; i++ {
		if fb.GetPixel(i, i) == ColorSky {
			t.Fatalf("diagonal pixel (%d,%d) not covered", i, i)
		}
	}
}

func TestRasterizerLighting(t *testing.T) {
	base := RGB(200, 200, 200)
	tests := []struct {
		name     string
		lighting Lighting
		want     uint8
	}{
		{"all off", Lighting{}, 0},
		{"ambient", Lighting{Ambient: true}, 40},
		{"diffuse", Lighting{Diffuse: true}, 140},
		{"ambient and diffuse", Lighting{Ambient: true, Diffuse: true}, 180},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, fb := createTestRasterizer(32, 32)
			r.Lighting = tc.lighting
			r.Lighting.Direction = math3d.V3(0, 0, 1)
			r.DrawTriangles(quad(1, 0), base)

			got := fb.GetPixel(16, 16)
			if got.R != tc.want || got.G != tc.want || got.B != tc.want {
				t.Errorf("center = %v, want gray %d", got, tc.want)
			}
		})
	}

	t.Run("specular adds a highlight", func(t *testing.T) {
		r, fb := createTestRasterizer(32, 32)
		r.Lighting = Lighting{Ambient: true, Direction: math3d.V3(0, 0, 1), Shininess: 8}
		r.DrawTriangles(quad(1, 0), base)
		plain := fb.GetPixel(16, 16)

		r, fb = createTestRasterizer(32, 32)
		r.Lighting = Lighting{Ambient: true, Specular: true, Direction: math3d.V3(0, 0, 1), Shininess: 8}
		r.DrawTriangles(quad(1, 0), base)
		lit := fb.GetPixel(16, 16)

		if lit.R <= plain.R {
			t.Errorf("specular center = %v, want brighter than %v", lit, plain)
		}
	})
}

func TestLightingFlags(t *testing.T) {
	tests := []struct {
		lighting Lighting
		want     string
	}{
		{DefaultLighting(), "asd"},
		{Lighting{}, "---"},
		{Lighting{Ambient: true, Diffuse: true}, "a-d"},
	}

	for _, tc := range tests {
		if got := tc.lighting.Flags(); got != tc.want {
			t.Errorf("Flags() = %q, want %q", got, tc.want)
		}
	}
}

func TestRasterizerBackfaceCulling(t *testing.T) {
	back := quad(1, 0)
	for i := range back {
		back[i].V[1], back[i].V[2] = back[i].V[2], back[i].V[1]
	}

	r, fb := createTestRasterizer(32, 32)
	if drawn := r.DrawTriangles(back, ColorGray); drawn != 0 {
		t.Errorf("drawn = %d back faces, want 0", drawn)
	}
	if fb.Count(ColorSky) != 32*32 {
		t.Error("back faces should not touch the buffer")
	}

	r.DisableBackfaceCulling = true
	if drawn := r.DrawTriangles(back, ColorGray); drawn != 2 {
		t.Errorf("drawn = %d with culling disabled, want 2", drawn)
	}
	if fb.GetPixel(16, 16) == ColorSky {
		t.Error("center pixel not covered with culling disabled")
	}
}

func TestRasterizerDepth(t *testing.T) {
	near := quad(0.5, 1)
	far := quad(1, 0)
	lighting := Lighting{Ambient: true, Direction: math3d.V3(0, 0, 1)}

	for _, nearFirst := range []bool{true, false} {
		r, fb := createTestRasterizer(32, 32)
		r.Lighting = lighting
		if nearFirst {
			r.DrawTriangles(near, ColorGreen)
			r.DrawTriangles(far, ColorRed)
		} else {
			r.DrawTriangles(far, ColorRed)
			r.DrawTriangles(near, ColorGreen)
		}

		if got := fb.GetPixel(16, 16); got.G == 0 || got.R != 0 {
			t.Errorf("nearFirst=%v: center = %v, want the near green quad", nearFirst, got)
		}
	}
}

func TestRasterizerBehindCamera(t *testing.T) {
	r, fb := createTestRasterizer(32, 32)
	if drawn := r.DrawTriangles(quad(1, 10), ColorGray); drawn != 0 {
		t.Errorf("drawn = %d, want 0 behind the camera", drawn)
	}
	if fb.Count(ColorSky) != 32*32 {
		t.Error("buffer should be untouched")
	}
}

func BenchmarkRasterizerQuad(b *testing.B) {
	r, _ := createTestRasterizer(200, 100)
	tris := quad(1, 0)

	for b.Loop() {
		r.ClearDepth()
		r.DrawTriangles(tris, ColorGray)
	}
}
