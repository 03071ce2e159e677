package render

import (
	"math"

	"github.com/taigrr/modelv/pkg/geom"
	"github.com/taigrr/modelv/pkg/math3d"
)

// Lighting selects the terms of the shaded preview. Each term can be
// switched off independently; with all three off the model renders black.
type Lighting struct {
	Ambient  bool
	Diffuse  bool
	Specular bool

	// Direction points from the surface toward the light.
	Direction math3d.Vec3
	Shininess float64
}

// Strength of each lighting term.
const (
	ambientStrength  = 0.2
	diffuseStrength  = 0.7
	specularStrength = 0.5
)

// DefaultLighting returns all terms on with a light over the viewer's right
// shoulder.
func DefaultLighting() Lighting {
	return Lighting{
		Ambient:   true,
		Diffuse:   true,
		Specular:  true,
		Direction: math3d.V3(0.5, 1, 1).Normalize(),
		Shininess: 32,
	}
}

// Flags renders the enabled terms as "asd", using "-" for disabled ones.
func (l Lighting) Flags() string {
	flag := func(on bool, c byte) byte {
		if on {
			return c
		}
		return '-'
	}
	return string([]byte{
		flag(l.Ambient, 'a'),
		flag(l.Specular, 's'),
		flag(l.Diffuse, 'd'),
	})
}

// shade returns the per-channel scale and the white specular highlight at a
// vertex with position p and normal n seen from eye.
func (l Lighting) shade(p, n, eye math3d.Vec3) (scale, highlight float64) {
	light := l.Direction.Normalize()
	if l.Ambient {
		scale += ambientStrength
	}
	if l.Diffuse {
		scale += diffuseStrength * math.Max(0, n.Dot(light))
	}
	if l.Specular && n.Dot(light) > 0 {
		half := light.Add(eye.Sub(p).Normalize()).Normalize()
		highlight = specularStrength * math.Pow(math.Max(0, n.Dot(half)), l.Shininess)
	}
	return scale, highlight
}

// Rasterizer draws lit triangles into a framebuffer with a depth buffer.
type Rasterizer struct {
	camera  *Camera
	fb      *Framebuffer
	zbuffer []float64

	Lighting Lighting
	// DisableBackfaceCulling draws triangles facing away from the camera.
	DisableBackfaceCulling bool
}

// NewRasterizer creates a rasterizer drawing into fb through camera.
func NewRasterizer(camera *Camera, fb *Framebuffer) *Rasterizer {
	r := &Rasterizer{
		camera:   camera,
		fb:       fb,
		Lighting: DefaultLighting(),
	}
	r.Resize()
	return r
}

// Resize matches the depth buffer to the framebuffer and clears it.
func (r *Rasterizer) Resize() {
	r.zbuffer = make([]float64, r.fb.Width*r.fb.Height)
	r.ClearDepth()
}

// ClearDepth resets every depth to the far limit.
func (r *Rasterizer) ClearDepth() {
	n := len(r.zbuffer)
	if n == 0 {
		return
	}
	r.zbuffer[0] = math.MaxFloat64
	for i := 1; i < n; i *= 2 {
		copy(r.zbuffer[i:], r.zbuffer[:i])
	}
}

// screenVertex is a triangle corner after projection and lighting.
type screenVertex struct {
	x, y, z float64
	r, g, b float64
}

// DrawTriangles draws world-space triangles in base, returning how many
// reached the screen.
func (r *Rasterizer) DrawTriangles(tris []geom.Triangle, base Color) int {
	drawn := 0
	viewProj := r.camera.ViewProjectionMatrix()
	for i := range tris {
		if r.drawTriangle(viewProj, &tris[i], base) {
			drawn++
		}
	}
	return drawn
}

// DrawTriangle draws one world-space triangle in base.
func (r *Rasterizer) DrawTriangle(tri geom.Triangle, base Color) bool {
	return r.drawTriangle(r.camera.ViewProjectionMatrix(), &tri, base)
}

func (r *Rasterizer) drawTriangle(viewProj math3d.Mat4, tri *geom.Triangle, base Color) bool {
	width, height := r.fb.Width, r.fb.Height
	if width == 0 || height == 0 {
		return false
	}

	p0, p1, p2 := tri.V[0].Position, tri.V[1].Position, tri.V[2].Position
	face := p1.Sub(p0).Cross(p2.Sub(p0)).Normalize()

	var sv [3]screenVertex
	for i := range 3 {
		clip := viewProj.MulVec4(math3d.V4FromV3(tri.V[i].Position, 1))
		// Corners behind the near plane would project mirrored
		if clip.W < r.camera.Near {
			return false
		}
		ndc := clip.PerspectiveDivide()
		sv[i].x = (ndc.X + 1) * 0.5 * float64(width)
		sv[i].y = (1 - ndc.Y) * 0.5 * float64(height)
		sv[i].z = ndc.Z

		n := tri.V[i].Normal
		if n.LenSq() == 0 {
			n = face
		}
		scale, highlight := r.Lighting.shade(tri.V[i].Position, n, r.camera.Position)
		sv[i].r = float64(base.R)*scale + 255*highlight
		sv[i].g = float64(base.G)*scale + 255*highlight
		sv[i].b = float64(base.B)*scale + 255*highlight
	}

	// Counter-clockwise front faces turn clockwise once y points down
	area := (sv[1].x-sv[0].x)*(sv[2].y-sv[0].y) - (sv[1].y-sv[0].y)*(sv[2].x-sv[0].x)
	switch {
	case area == 0:
		return false
	case area > 0 && !r.DisableBackfaceCulling:
		return false
	case area < 0:
		sv[1], sv[2] = sv[2], sv[1]
		area = -area
	}

	minX := max(0, int(math.Floor(min(sv[0].x, sv[1].x, sv[2].x))))
	maxX := min(width-1, int(math.Ceil(max(sv[0].x, sv[1].x, sv[2].x))))
	minY := max(0, int(math.Floor(min(sv[0].y, sv[1].y, sv[2].y))))
	maxY := min(height-1, int(math.Ceil(max(sv[0].y, sv[1].y, sv[2].y))))
	if minX > maxX || minY > maxY {
		return false
	}

	// Edge i is opposite vertex i
	a0, b0, c0 := edgeCoeffs(sv[1].x, sv[1].y, sv[2].x, sv[2].y)
	a1, b1, c1 := edgeCoeffs(sv[2].x, sv[2].y, sv[0].x, sv[0].y)
	a2, b2, c2 := edgeCoeffs(sv[0].x, sv[0].y, sv[1].x, sv[1].y)
	invArea := 1 / area

	px, py := float64(minX)+0.5, float64(minY)+0.5
	w0Row := a0*px + b0*py + c0
	w1Row := a1*px + b1*py + c1
	w2Row := a2*px + b2*py + c2

	for y := minY; y <= maxY; y++ {
		w0, w1, w2 := w0Row, w1Row, w2Row
		row := y * width
		for x := minX; x <= maxX; x++ {
			if w0 >= 0 && w1 >= 0 && w2 >= 0 {
				l0, l1, l2 := w0*invArea, w1*invArea, w2*invArea
				z := l0*sv[0].z + l1*sv[1].z + l2*sv[2].z
				if z >= -1 && z < r.zbuffer[row+x] {
					r.zbuffer[row+x] = z
					r.fb.SetPixel(x, y, RGB(
						channel(l0*sv[0].r+l1*sv[1].r+l2*sv[2].r),
						channel(l0*sv[0].g+l1*sv[1].g+l2*sv[2].g),
						channel(l0*sv[0].b+l1*sv[1].b+l2*sv[2].b),
					))
				}
			}
			w0 += a0
			w1 += a1
			w2 += a2
		}
		w0Row += b0
		w1Row += b1
		w2Row += b2
	}
	return true
}

// edgeCoeffs returns A, B, C with A*x + B*y + C positive left of the edge
// from (x0, y0) to (x1, y1).
func edgeCoeffs(x0, y0, x1, y1 float64) (a, b, c float64) {
	return y0 - y1, x1 - x0, x0*y1 - x1*y0
}

func channel(v float64) uint8 {
	return uint8(max(0, min(255, math.Round(v))))
}
