package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"

	"github.com/taigrr/modelv/pkg/config"
	"github.com/taigrr/modelv/pkg/math3d"
	"github.com/taigrr/modelv/pkg/models"
	"github.com/taigrr/modelv/pkg/raytrace"
	"github.com/taigrr/modelv/pkg/render"
)

const viewFPS = 30

func newViewCmd(g *globalFlags) *cobra.Command {
	tf := &traceFlags{}
	cmd := &cobra.Command{
		Use:   "view [model]",
		Short: "Orbit a raytraced model in the terminal",
		Long: "Controls:\n" +
			"  Mouse drag / arrows  - Orbit\n" +
			"  Scroll / + -         - Zoom\n" +
			"  P                    - Toggle shaded preview / raytraced hit mask\n" +
			"  A / S / D            - Toggle ambient / specular / diffuse light\n" +
			"  I                    - Toggle indexed/linear tracing\n" +
			"  B                    - Toggle bounding box overlay\n" +
			"  T                    - Re-trace and reset statistics\n" +
			"  Q                    - Save the current frame to the output path\n" +
			"  X                    - Remove the model\n" +
			"  R                    - Reset view\n" +
			"  Esc                  - Quit",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := settings(cmd, g, tf, args)
			if err != nil {
				return err
			}
			model, err := loadModel(cfg.Input)
			if err != nil {
				return err
			}
			return runViewer(cmd.Context(), cfg, model)
		},
	}
	tf.register(cmd, false)
	return cmd
}

// orbitAxis tracks an angle whose velocity decays through a harmonica spring.
type orbitAxis struct {
	Position  float64
	Velocity  float64
	velSpring harmonica.Spring
	velAccel  float64 // spring velocity of Velocity itself
}

func newOrbitAxis() orbitAxis {
	return orbitAxis{
		// Critically damped, no overshoot
		velSpring: harmonica.NewSpring(harmonica.FPS(viewFPS), 4.0, 1.0),
	}
}

// Update applies velocity to position and decays velocity toward 0.
func (a *orbitAxis) Update() {
	a.Position += a.Velocity
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, 0)
}

// Moving reports whether the axis is still visibly animating.
func (a *orbitAxis) Moving() bool {
	return a.Velocity > 1e-4 || a.Velocity < -1e-4
}

// viewer is the state of an interactive session. It is only touched from the
// main loop.
type viewer struct {
	cfg    *config.Config
	model  *models.Model
	scene  *raytrace.Scene
	cam    *render.Camera
	target math3d.Vec3

	yaw, pitch orbitAxis
	radius     float64
	mode       raytrace.Mode
	showBounds bool
	shaded     bool
	light      render.Lighting
	message    string

	width, height int // terminal cells
	fb            *render.Framebuffer
	last          raytrace.Snapshot
	lastElapsed   time.Duration
	dirty         bool
}

func newViewer(cfg *config.Config, model *models.Model) *viewer {
	mode, _ := raytrace.ParseMode(cfg.Mode)
	v := &viewer{
		cfg:    cfg,
		model:  model,
		scene:  raytrace.Prepare(model, cfg.TreeOptions()),
		cam:    cfg.Camera(),
		target: math3d.V3(0, 0, -cfg.Distance),
		mode:   mode,
		light:  render.DefaultLighting(),
	}
	v.reset()
	return v
}

func (v *viewer) reset() {
	v.yaw = newOrbitAxis()
	v.pitch = newOrbitAxis()
	v.radius = v.cfg.Distance
	v.cam.LookAt(v.target)
	v.dirty = true
}

func (v *viewer) resize(width, height int) {
	v.width, v.height = width, height
	// Bottom row is the status line; each cell holds two pixels
	v.fb = render.NewFramebuffer(width, max(height-1, 0)*2)
	v.dirty = true
}

func (v *viewer) zoom(delta float64) {
	v.radius = max(0.5, min(50, v.radius+delta))
	v.dirty = true
}

func (v *viewer) handle(ev uv.Event, mouse *mouseState) (quit bool) {
	const impulse = 0.05

	switch ev := ev.(type) {
	case uv.KeyPressEvent:
		switch {
		case ev.MatchString("escape", "ctrl+c"):
			return true
		case ev.MatchString("up"):
			v.pitch.Velocity += impulse
		case ev.MatchString("down"):
			v.pitch.Velocity -= impulse
		case ev.MatchString("left"):
			v.yaw.Velocity -= impulse
		case ev.MatchString("right"):
			v.yaw.Velocity += impulse
		case ev.MatchString("a"):
			v.light.Ambient = !v.light.Ambient
			v.dirty = true
		case ev.MatchString("s"):
			v.light.Specular = !v.light.Specular
			v.dirty = true
		case ev.MatchString("d"):
			v.light.Diffuse = !v.light.Diffuse
			v.dirty = true
		case ev.MatchString("p"):
			v.shaded = !v.shaded
			v.dirty = true
		case ev.MatchString("x"):
			v.removeModel()
		case ev.MatchString("q"):
			v.screenshot()
		case ev.MatchString("+", "="):
			v.zoom(-0.25)
		case ev.MatchString("-", "_"):
			v.zoom(0.25)
		case ev.MatchString("i"):
			if v.mode == raytrace.Indexed {
				v.mode = raytrace.Linear
			} else {
				v.mode = raytrace.Indexed
			}
			v.dirty = true
		case ev.MatchString("b"):
			v.showBounds = !v.showBounds
			v.dirty = true
		case ev.MatchString("t"):
			v.shaded = false
			v.dirty = true
		case ev.MatchString("r"):
			v.reset()
		}

	case uv.MouseClickEvent:
		mouse.down = true
		mouse.x, mouse.y = ev.X, ev.Y

	case uv.MouseReleaseEvent:
		mouse.down = false

	case uv.MouseMotionEvent:
		if mouse.down {
			v.yaw.Velocity += float64(ev.X-mouse.x) * 0.01
			v.pitch.Velocity += float64(ev.Y-mouse.y) * 0.01
			mouse.x, mouse.y = ev.X, ev.Y
		}

	case uv.MouseWheelEvent:
		switch ev.Button {
		case uv.MouseWheelUp:
			v.zoom(-0.25)
		case uv.MouseWheelDown:
			v.zoom(0.25)
		}
	}
	return false
}

// removeModel drops the model; the view keeps running over an empty scene.
func (v *viewer) removeModel() {
	v.model = nil
	v.scene = raytrace.Prepare(nil, v.cfg.TreeOptions())
	v.message = "model removed"
	v.dirty = true
}

// screenshot writes the frame on screen to the configured output path.
func (v *viewer) screenshot() {
	if v.fb == nil {
		return
	}
	if err := v.fb.SavePNG(v.cfg.Output); err != nil {
		logger.Errorf("screenshot: %v", err)
		v.message = "screenshot failed"
		return
	}
	logger.Infof("screenshot written to %s", v.cfg.Output)
	v.message = "saved " + v.cfg.Output
}

type mouseState struct {
	down bool
	x, y int
}

// frame advances the orbit and re-traces when the view changed.
func (v *viewer) frame() {
	if v.yaw.Moving() || v.pitch.Moving() {
		v.dirty = true
	}
	v.yaw.Update()
	v.pitch.Update()

	if !v.dirty || v.fb == nil || v.fb.Height == 0 {
		return
	}
	v.dirty = false

	v.cam.Orbit(v.yaw.Position, v.pitch.Position, v.radius)
	vp := render.NewViewport(v.fb.Width, v.fb.Height)
	v.cam.SetAspectRatio(vp.Aspect())

	transform := math3d.Identity()
	if v.model != nil {
		transform = v.model.Framing(v.cfg.Distance)
	}
	opts := v.cfg.EngineOptions(transform)
	opts.Mode = v.mode

	var fb *render.Framebuffer
	if v.shaded {
		fb = v.shade(transform, vp, opts)
	} else {
		var stats *raytrace.Statistics
		fb, stats = raytrace.New(opts).RaytraceScene(v.scene, v.cam, vp)
		v.last = stats.Snapshot()
		v.lastElapsed = stats.Elapsed
	}
	if v.showBounds && v.model != nil {
		render.NewWireframe(v.cam, fb).DrawBox(v.model.Bounds, transform, render.ColorGreen)
	}
	v.fb = fb
}

// shade rasterizes the framed model with the current lighting.
func (v *viewer) shade(transform math3d.Mat4, vp render.Viewport, opts raytrace.Options) *render.Framebuffer {
	fb := render.NewFramebuffer(vp.Width, vp.Height)
	fb.Clear(opts.Background)
	if v.model == nil {
		return fb
	}

	start := time.Now()
	r := render.NewRasterizer(v.cam, fb)
	r.Lighting = v.light
	drawn := r.DrawTriangles(v.model.Triangles(transform), opts.HitColor)
	logger.Debugf("shaded %d of %d triangles in %v", drawn, v.model.TriangleCount(), time.Since(start))
	return fb
}

func (v *viewer) draw(scr uv.Screen) {
	v.fb.Draw(scr, uv.Rect(0, 0, v.width, max(v.height-1, 0)))

	name := "(no model)"
	if v.model != nil {
		name = v.model.Name
	}
	var status string
	if v.shaded {
		status = fmt.Sprintf(" %s | shaded [%s] ", name, v.light.Flags())
	} else {
		status = fmt.Sprintf(" %s | %s | %d rays %d tests %d hits | %v ",
			name, v.mode, v.last.Rays, v.last.Tests, v.last.Intersections,
			v.lastElapsed.Round(time.Millisecond))
	}
	if v.message != "" {
		status += "| " + v.message + " "
	}
	if runes := []rune(status); len(runes) > v.width {
		status = string(runes[:v.width])
	}
	render.DrawText(scr, 0, v.height-1, fmt.Sprintf("%-*s", v.width, status), render.ColorWhite)
}

func runViewer(ctx context.Context, cfg *config.Config, model *models.Model) error {
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	// Any-event mouse tracking in SGR mode
	fmt.Fprint(os.Stdout, "\x1b[?1003h")
	fmt.Fprint(os.Stdout, "\x1b[?1006h")

	defer func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}()

	v := newViewer(cfg, model)
	v.resize(width, height)

	events := term.Events()
	mouse := &mouseState{}
	ticker := time.NewTicker(time.Second / viewFPS)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-events:
			if size, ok := ev.(uv.WindowSizeEvent); ok {
				term.Erase()
				term.Resize(size.Width, size.Height)
				v.resize(size.Width, size.Height)
				continue
			}
			if v.handle(ev, mouse) {
				return nil
			}

		case <-ticker.C:
			v.frame()
			v.draw(term)
			if err := term.Display(); err != nil {
				return fmt.Errorf("display: %w", err)
			}
		}
	}
}
