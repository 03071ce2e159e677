// Package raytrace casts one primary ray per pixel against a prepared scene
// and produces a hit mask plus run statistics.
package raytrace

import (
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/taigrr/modelv/pkg/geom"
	"github.com/taigrr/modelv/pkg/kdtree"
	"github.com/taigrr/modelv/pkg/log"
	"github.com/taigrr/modelv/pkg/math3d"
	"github.com/taigrr/modelv/pkg/models"
	"github.com/taigrr/modelv/pkg/render"
)

var logger = log.New("raytrace")

// Mode selects how a ray that enters a mesh's bounds is resolved.
type Mode int

const (
	// Indexed queries the mesh's KD-tree with the ray mapped into model space.
	Indexed Mode = iota
	// Linear tests every triangle of the mesh, transforming each at test time.
	Linear
)

func (m Mode) String() string {
	if m == Linear {
		return "linear"
	}
	return "indexed"
}

// ParseMode maps "indexed" or "linear" to a Mode.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "indexed", "":
		return Indexed, true
	case "linear":
		return Linear, true
	}
	return Indexed, false
}

// Options configures an Engine.
type Options struct {
	Mode Mode
	// Nearest resolves every candidate mesh and keeps the closest hit instead
	// of stopping at the first one found
	Nearest bool
	// Workers overrides the hardware concurrency when positive
	Workers int
	// Transform maps model space to world space; the zero value means identity
	Transform  math3d.Mat4
	HitColor   render.Color
	Background render.Color
	// Tree configures the indexes built by Raytrace for unprepared models
	Tree kdtree.Options
}

// DefaultOptions returns indexed first-hit tracing drawing red on black.
func DefaultOptions() Options {
	return Options{
		Mode:       Indexed,
		Transform:  math3d.Identity(),
		HitColor:   render.ColorRed,
		Background: render.ColorBlack,
		Tree:       kdtree.DefaultOptions(),
	}
}

// Engine traces scenes. It holds no per-run state and may be used
// concurrently.
type Engine struct {
	opts Options
}

// New creates an engine.
func New(opts Options) *Engine {
	if opts.Transform == (math3d.Mat4{}) {
		opts.Transform = math3d.Identity()
	}
	return &Engine{opts: opts}
}

// Options returns the engine configuration.
func (e *Engine) Options() Options {
	return e.opts
}

// Raytrace prepares model and traces it. Callers tracing the same model
// repeatedly should Prepare once and use RaytraceScene.
func (e *Engine) Raytrace(model *models.Model, cam *render.Camera, vp render.Viewport) (*render.Framebuffer, *Statistics) {
	if model == nil || len(model.Meshes) == 0 {
		return e.RaytraceScene(nil, cam, vp)
	}
	return e.RaytraceScene(Prepare(model, e.opts.Tree), cam, vp)
}

// tracer is the read-only state shared by the workers of one run.
type tracer struct {
	scene     *Scene
	cam       *render.Camera
	vp        render.Viewport
	opts      Options
	inverse   math3d.Mat4
	bounds    geom.AABB
	meshBoxes []geom.AABB
	stats     *Statistics
}

// RaytraceScene traces scene through cam into a framebuffer whose row 0 is
// the top of the image. Rows are split into one band per worker; each band is
// written by exactly one goroutine. A nil or empty scene returns a
// background-filled buffer and zero statistics without starting workers.
func (e *Engine) RaytraceScene(scene *Scene, cam *render.Camera, vp render.Viewport) (*render.Framebuffer, *Statistics) {
	stats := newStatistics(e.opts.Mode)
	fb := render.NewFramebuffer(vp.Width, vp.Height)
	fb.Clear(e.opts.Background)

	if scene.Empty() || vp.Empty() {
		logger.Debugf("run %s: nothing to trace", stats.RunID)
		return fb, stats
	}

	start := time.Now()
	t := &tracer{
		scene:   scene,
		cam:     cam,
		vp:      vp,
		opts:    e.opts,
		inverse: e.opts.Transform.Inverse(),
		bounds:  scene.Bounds.Transform(e.opts.Transform),
		stats:   stats,
	}
	t.meshBoxes = make([]geom.AABB, len(scene.Meshes))
	for i, m := range scene.Meshes {
		t.meshBoxes[i] = m.Bounds.Transform(e.opts.Transform)
	}

	workers := e.opts.Workers
	if workers <= 0 {
		workers = HardwareConcurrency()
	}
	bands := Bands(vp.Height, workers)
	stats.Workers = len(bands)
	logger.Debugf("run %s: %dx%d in %d bands", stats.RunID, vp.Width, vp.Height, len(bands))

	var g errgroup.Group
	for _, band := range bands {
		g.Go(func() error {
			t.traceBand(fb, band)
			return nil
		})
	}
	_ = g.Wait()

	// Bands are filled bottom row first
	fb.FlipVertical()

	stats.Elapsed = time.Since(start)
	snap := stats.Snapshot()
	logger.Infof("run %s: %s, %d rays, %d tests, %d intersections in %v",
		stats.RunID, e.opts.Mode, snap.Rays, snap.Tests, snap.Intersections, stats.Elapsed)
	return fb, stats
}

// traceBand fills framebuffer rows [band.Start, band.End). Framebuffer row r
// holds image row Height-1-r until the final flip.
func (t *tracer) traceBand(fb *render.Framebuffer, band Band) {
	for r := band.Start; r < band.End; r++ {
		y := t.vp.Height - 1 - r
		var rays, tests, hits int64

		for x := 0; x < t.vp.Width; x++ {
			ray := t.cam.CreateRay(x, y, t.vp)
			rays++

			_, hit, n := t.trace(ray)
			tests += int64(n)
			if hit {
				hits++
				fb.SetPixel(x, r, t.opts.HitColor)
			}
		}

		t.stats.rays.Add(rays)
		t.stats.tests.Add(tests)
		t.stats.intersections.Add(hits)
	}
}

// trace resolves one ray. It returns the ray parameter of the accepted hit,
// whether there was one, and the number of triangle tests spent.
func (t *tracer) trace(ray geom.Ray) (float64, bool, int) {
	if !t.bounds.Hit(ray) {
		return 0, false, 0
	}

	tests := 0
	nearest := math.Inf(1)
	hit := false

	for i := range t.scene.Meshes {
		if !t.meshBoxes[i].Hit(ray) {
			continue
		}

		tHit, ok, n := t.resolve(&t.scene.Meshes[i], ray)
		tests += n
		if !ok {
			continue
		}
		if !t.opts.Nearest {
			return tHit, true, tests
		}
		hit = true
		nearest = min(nearest, tHit)
	}
	return nearest, hit, tests
}

// resolve finds a hit of ray against one mesh. The returned t is measured
// along the world-space ray in both modes.
func (t *tracer) resolve(m *SceneMesh, ray geom.Ray) (float64, bool, int) {
	queryMode := kdtree.AnyHit
	if t.opts.Nearest {
		queryMode = kdtree.Nearest
	}

	if t.opts.Mode == Indexed {
		// Model-space ray keeps t; the direction is not renormalized
		res := m.Tree.Query(ray.Transform(t.inverse), queryMode)
		return res.T, res.Hit, res.Tests
	}

	best := math.Inf(1)
	found := false
	tests := 0
	for i := range m.Triangles {
		tri := m.Triangles[i].Transform(t.opts.Transform)
		tests++
		tHit, ok := tri.Intersect(ray)
		if !ok {
			continue
		}
		if queryMode == kdtree.AnyHit {
			return tHit, true, tests
		}
		found = true
		best = min(best, tHit)
	}
	return best, found, tests
}
