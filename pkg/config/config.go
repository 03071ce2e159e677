// Package config loads the JSON settings shared by the modelv commands.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/taigrr/modelv/pkg/kdtree"
	"github.com/taigrr/modelv/pkg/math3d"
	"github.com/taigrr/modelv/pkg/raytrace"
	"github.com/taigrr/modelv/pkg/render"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Vec3 is a point or direction written as a JSON array of three numbers.
type Vec3 [3]float64

// Vec3 converts to a math3d vector.
func (v Vec3) Vec3() math3d.Vec3 {
	return math3d.V3(v[0], v[1], v[2])
}

// Config holds camera, output and tracing settings.
type Config struct {
	Input  string `json:"input,omitempty"`
	Output string `json:"output"`

	ViewPoint Vec3    `json:"viewPoint"`
	LookAt    Vec3    `json:"lookAt"`
	Up        Vec3    `json:"up"`
	FOV       float64 `json:"fov"` // vertical, degrees
	// Distance pushes the framed model down -Z
	Distance float64 `json:"distance"`

	Width  int `json:"width"`
	Height int `json:"height"`

	Mode     string `json:"mode"`
	Nearest  bool   `json:"nearest,omitempty"`
	LeafSize int    `json:"leafSize,omitempty"`
	MaxDepth int    `json:"maxDepth,omitempty"`
	Workers  int    `json:"workers,omitempty"`

	Background string `json:"background"`
	HitColor   string `json:"hitColor"`
}

// Default returns the built-in settings: a 640x480 indexed trace from
// (0,0,0) looking down -Z at a model framed 3 units away.
func Default() *Config {
	return &Config{
		Output:     "out.png",
		ViewPoint:  Vec3{0, 0, 0},
		LookAt:     Vec3{0, 0, -1},
		Up:         Vec3{0, 1, 0},
		FOV:        60,
		Distance:   3,
		Width:      640,
		Height:     480,
		Mode:       raytrace.Indexed.String(),
		LeafSize:   kdtree.DefaultLeafSize,
		MaxDepth:   kdtree.DefaultMaxDepth,
		Background: "#000000",
		HitColor:   "#ff0000",
	}
}

// Load reads a JSON file over the defaults. The result is not validated so
// that command-line overrides can still fix it; call Validate once they are
// applied.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that the settings describe a traceable view.
func (c *Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: size %dx%d must be positive", ErrInvalidConfig, c.Width, c.Height)
	case c.FOV <= 0 || c.FOV >= 180:
		return fmt.Errorf("%w: fov %v must be in (0, 180)", ErrInvalidConfig, c.FOV)
	case c.LookAt == c.ViewPoint:
		return fmt.Errorf("%w: lookAt equals viewPoint", ErrInvalidConfig)
	case c.Up.Vec3().LenSq() == 0:
		return fmt.Errorf("%w: up vector is zero", ErrInvalidConfig)
	case c.LeafSize < 0 || c.MaxDepth < 0 || c.Workers < 0:
		return fmt.Errorf("%w: leafSize, maxDepth and workers must not be negative", ErrInvalidConfig)
	case c.MaxDepth > kdtree.MaxDepthLimit:
		return fmt.Errorf("%w: maxDepth %d exceeds %d", ErrInvalidConfig, c.MaxDepth, kdtree.MaxDepthLimit)
	}

	if _, ok := raytrace.ParseMode(c.Mode); !ok {
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, c.Mode)
	}
	for name, hex := range map[string]string{"background": c.Background, "hitColor": c.HitColor} {
		if _, err := render.ParseHex(hex); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, name, err)
		}
	}
	return nil
}

// Camera builds the configured camera.
func (c *Config) Camera() *render.Camera {
	cam := render.NewCamera()
	cam.SetPosition(c.ViewPoint.Vec3())
	cam.LookAt(c.LookAt.Vec3())
	cam.SetUp(c.Up.Vec3())
	cam.SetFOV(c.FOV * math.Pi / 180)
	cam.SetAspectRatio(c.Viewport().Aspect())
	return cam
}

// Viewport returns the configured output size.
func (c *Config) Viewport() render.Viewport {
	return render.NewViewport(c.Width, c.Height)
}

// TreeOptions returns the KD-tree build settings.
func (c *Config) TreeOptions() kdtree.Options {
	return kdtree.Options{LeafSize: c.LeafSize, MaxDepth: c.MaxDepth}
}

// EngineOptions returns engine settings drawing the model under transform.
// The config must have passed Validate.
func (c *Config) EngineOptions(transform math3d.Mat4) raytrace.Options {
	opts := raytrace.DefaultOptions()
	opts.Mode, _ = raytrace.ParseMode(c.Mode)
	opts.Nearest = c.Nearest
	opts.Workers = c.Workers
	opts.Transform = transform
	opts.Tree = c.TreeOptions()
	if bg, err := render.ParseHex(c.Background); err == nil {
		opts.Background = bg
	}
	if hit, err := render.ParseHex(c.HitColor); err == nil {
		opts.HitColor = hit
	}
	return opts
}
