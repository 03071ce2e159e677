package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/modelv/pkg/config"
	"github.com/taigrr/modelv/pkg/models"
	"github.com/taigrr/modelv/pkg/raytrace"
	"github.com/taigrr/modelv/pkg/render"
)

const tetraOBJ = `o tetra
v 1 1 1
v -1 -1 1
v -1 1 -1
v 1 -1 -1
f 1 2 3
f 1 4 2
f 1 3 4
f 2 4 3
`

func writeModel(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tetra.obj")
	if err := os.WriteFile(path, []byte(tetraOBJ), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestTraceCommand(t *testing.T) {
	model := writeModel(t)
	png := filepath.Join(t.TempDir(), "tetra.png")

	out, err := execute(t, "trace", model, "-o", png, "--width", "40", "--height", "30", "--workers", "2")
	if err != nil {
		t.Fatalf("trace: %v\n%s", err, out)
	}
	if _, err := os.Stat(png); err != nil {
		t.Errorf("png not written: %v", err)
	}
	for _, want := range []string{"1 of 1 meshes in view", "Rays", "1200"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTraceCommandConfig(t *testing.T) {
	dir := t.TempDir()
	png := filepath.Join(dir, "cfg.png")
	cfgPath := filepath.Join(dir, "modelv.json")
	body := `{"input": "` + writeModel(t) + `", "output": "` + png + `", "width": 16, "height": 16, "mode": "linear"}`
	if err := os.WriteFile(cfgPath, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "--config", cfgPath, "trace")
	if err != nil {
		t.Fatalf("trace: %v\n%s", err, out)
	}
	if !strings.Contains(out, "linear") || !strings.Contains(out, "256") {
		t.Errorf("config not applied:\n%s", out)
	}
}

func TestTraceCommandFlagFixesConfig(t *testing.T) {
	dir := t.TempDir()
	png := filepath.Join(dir, "fixed.png")
	cfgPath := filepath.Join(dir, "modelv.json")
	if err := os.WriteFile(cfgPath, []byte(`{"width": 0, "height": 10}`), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, "--config", cfgPath, "trace", writeModel(t), "-o", png); err == nil {
		t.Fatal("zero width without an override should fail")
	}

	out, err := execute(t, "--config", cfgPath, "trace", writeModel(t), "-o", png, "--width", "10")
	if err != nil {
		t.Fatalf("trace: %v\n%s", err, out)
	}
	if !strings.Contains(out, "100") {
		t.Errorf("want 100 rays in the statistics:\n%s", out)
	}
}

func TestTraceCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no model", []string{"trace"}},
		{"missing file", []string{"trace", "/nonexistent/model.obj"}},
		{"unsupported format", []string{"trace", "model.stl"}},
		{"bad mode", []string{"trace", "x.obj", "--mode", "octree"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := execute(t, tc.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestIndexCommand(t *testing.T) {
	out, err := execute(t, "index", writeModel(t), "--leaf-size", "1")
	if err != nil {
		t.Fatalf("index: %v\n%s", err, out)
	}
	for _, want := range []string{"leaf size 1", "tetra", "model"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestViewerFrame(t *testing.T) {
	cfg := config.Default()
	v := newViewer(cfg, models.Cube(1))
	v.resize(40, 21)

	if v.fb.Width != 40 || v.fb.Height != 40 {
		t.Fatalf("framebuffer = %dx%d, want 40x40", v.fb.Width, v.fb.Height)
	}

	v.frame()
	if v.dirty {
		t.Error("frame should clear the dirty flag")
	}
	if v.last.Rays != 40*40 {
		t.Errorf("rays = %d, want 1600", v.last.Rays)
	}
	hits := v.fb.Count(render.ColorRed)
	if hits == 0 {
		t.Fatal("framed cube not visible")
	}

	v.mode = raytrace.Linear
	v.dirty = true
	v.frame()
	if got := v.fb.Count(render.ColorRed); got == 0 {
		t.Error("linear tracing lost the cube")
	}

	// Zooming out shrinks the silhouette
	v.mode = raytrace.Indexed
	v.zoom(3)
	v.frame()
	if got := v.fb.Count(render.ColorRed); got >= hits {
		t.Errorf("hits after zoom out = %d, want < %d", got, hits)
	}
}

func press(code rune) uv.KeyPressEvent {
	return uv.KeyPressEvent{Code: code, Text: string(code)}
}

func TestViewerShadedPreview(t *testing.T) {
	v := newViewer(config.Default(), models.Cube(1))
	v.resize(40, 21)
	mouse := &mouseState{}

	v.handle(press('p'), mouse)
	if !v.shaded {
		t.Fatal("p should switch to the shaded preview")
	}
	v.frame()
	lit := v.fb.Count(render.ColorBlack)
	if lit == 40*40 {
		t.Fatal("shaded cube not visible")
	}

	// Every light off renders the cube black on the black background
	for _, key := range []rune{'a', 's', 'd'} {
		v.handle(press(key), mouse)
	}
	if v.light.Flags() != "---" {
		t.Fatalf("lighting = %q, want all off", v.light.Flags())
	}
	v.frame()
	if got := v.fb.Count(render.ColorBlack); got != 40*40 {
		t.Errorf("unlit frame has %d black pixels, want %d", got, 40*40)
	}

	v.handle(press('t'), mouse)
	if v.shaded {
		t.Error("t should return to the raytraced hit mask")
	}
}

func TestViewerRemoveModel(t *testing.T) {
	v := newViewer(config.Default(), models.Cube(1))
	v.resize(20, 11)
	mouse := &mouseState{}

	v.handle(press('x'), mouse)
	if v.model != nil {
		t.Fatal("x should remove the model")
	}
	v.frame()
	if got := v.fb.Count(render.ColorRed); got != 0 {
		t.Errorf("hits after removal = %d, want 0", got)
	}

	v.shaded = true
	v.showBounds = true
	v.dirty = true
	v.frame()
	if got := v.fb.Count(render.ColorBlack); got != 20*20 {
		t.Errorf("empty shaded frame has %d background pixels, want %d", got, 20*20)
	}

	scr := uv.NewScreenBuffer(20, 11)
	v.draw(&scr)
}

func TestViewerScreenshot(t *testing.T) {
	cfg := config.Default()
	cfg.Output = filepath.Join(t.TempDir(), "shot.png")
	v := newViewer(cfg, models.Cube(1))
	v.resize(16, 9)
	v.frame()

	if quit := v.handle(press('q'), &mouseState{}); quit {
		t.Fatal("q should not quit")
	}
	if _, err := os.Stat(cfg.Output); err != nil {
		t.Fatalf("screenshot not written: %v", err)
	}
	if !strings.Contains(v.message, "shot.png") {
		t.Errorf("message = %q", v.message)
	}
}

func TestViewerStatusTruncatesByRune(t *testing.T) {
	model := models.Cube(1)
	model.Name = "立方体立方体立方体"
	v := newViewer(config.Default(), model)
	v.resize(6, 3)
	v.frame()

	scr := uv.NewScreenBuffer(6, 3)
	v.draw(&scr)

	var line []rune
	for x := range 6 {
		cell := scr.CellAt(x, 2)
		if cell == nil {
			t.Fatalf("no cell at column %d", x)
		}
		line = append(line, []rune(cell.Content)...)
	}
	if got := string(line); got != " 立方体立方" {
		t.Errorf("status = %q, want %q", got, " 立方体立方")
	}
}

func TestOrbitAxisDecays(t *testing.T) {
	a := newOrbitAxis()
	a.Velocity = 0.5
	for range viewFPS * 5 {
		a.Update()
	}
	if a.Moving() {
		t.Errorf("velocity = %v after 5s, want settled", a.Velocity)
	}
	if a.Position <= 0 {
		t.Errorf("position = %v, want positive", a.Position)
	}
}
