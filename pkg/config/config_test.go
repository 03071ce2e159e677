package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/taigrr/modelv/pkg/math3d"
	"github.com/taigrr/modelv/pkg/raytrace"
	"github.com/taigrr/modelv/pkg/render"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "modelv.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `{
		"input": "teapot.obj",
		"output": "teapot.png",
		"viewPoint": [0, 0, 5],
		"lookAt": [0, 0, 0],
		"width": 320,
		"height": 200,
		"mode": "linear",
		"hitColor": "#00ff00"
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Input != "teapot.obj" || cfg.Output != "teapot.png" {
		t.Errorf("paths = %q, %q", cfg.Input, cfg.Output)
	}
	if cfg.ViewPoint.Vec3() != math3d.V3(0, 0, 5) {
		t.Errorf("viewPoint = %v", cfg.ViewPoint)
	}
	// Unset fields keep their defaults
	if cfg.Up != (Vec3{0, 1, 0}) || cfg.FOV != 60 {
		t.Errorf("defaults lost: up=%v fov=%v", cfg.Up, cfg.FOV)
	}

	vp := cfg.Viewport()
	if vp.Width != 320 || vp.Height != 200 {
		t.Errorf("viewport = %+v", vp)
	}

	cam := cfg.Camera()
	if cam.Position != math3d.V3(0, 0, 5) || cam.AspectRatio != 1.6 {
		t.Errorf("camera = %+v", cam)
	}

	opts := cfg.EngineOptions(math3d.Identity())
	if opts.Mode != raytrace.Linear {
		t.Errorf("mode = %v, want linear", opts.Mode)
	}
	if opts.HitColor != render.ColorGreen {
		t.Errorf("hit color = %v", opts.HitColor)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		invalid bool
	}{
		{"malformed json", `{"width": }`, false},
		{"zero width", `{"width": 0}`, true},
		{"fov too wide", `{"fov": 180}`, true},
		{"look at self", `{"viewPoint": [1, 2, 3], "lookAt": [1, 2, 3]}`, true},
		{"zero up", `{"up": [0, 0, 0]}`, true},
		{"bad mode", `{"mode": "octree"}`, true},
		{"bad color", `{"background": "black"}`, true},
		{"depth over limit", `{"maxDepth": 1000}`, true},
		{"negative workers", `{"workers": -2}`, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, tc.body))
			if err == nil {
				err = cfg.Validate()
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.Is(err, ErrInvalidConfig); got != tc.invalid {
				t.Errorf("errors.Is(ErrInvalidConfig) = %v, want %v (%v)", got, tc.invalid, err)
			}
		})
	}
}

func TestLoadDefersValidation(t *testing.T) {
	cfg, err := Load(writeConfig(t, `{"width": 0}`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("Validate = %v, want ErrInvalidConfig", err)
	}

	cfg.Width = 100
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate after override: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
