// modelv - model viewer and raytracer
// Loads OBJ, glTF and GLB models and casts one ray per pixel against a
// KD-tree index to produce a hit mask.
//
// Commands:
//
//	trace <model>  - Raytrace to a PNG and print run statistics
//	index <model>  - Build the KD-trees and print their shape
//	view <model>   - Orbit the model in the terminal, re-tracing each frame
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/taigrr/modelv/pkg/config"
	"github.com/taigrr/modelv/pkg/log"
	"github.com/taigrr/modelv/pkg/models"
)

var logger = log.New("modelv")

// globalFlags are shared by every command.
type globalFlags struct {
	configPath string
	verbose    bool
	debug      bool
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := fang.Execute(ctx, newRootCmd()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "modelv",
		Short: "Raytrace 3D models against a KD-tree index",
		Long: "modelv loads OBJ, glTF and GLB models, frames them in front of a camera and\n" +
			"casts one ray per pixel, writing a hit mask as PNG or drawing it in the terminal.",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			switch {
			case flags.debug:
				log.SetLevel(log.Debug)
			case flags.verbose:
				log.SetLevel(log.Info)
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "JSON config file")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "Log run summaries")
	pf.BoolVar(&flags.debug, "vv", false, "Log debug output")

	root.AddCommand(
		newTraceCmd(flags),
		newIndexCmd(flags),
		newViewCmd(flags),
	)
	return root
}

// traceFlags are the per-run overrides of config file values.
type traceFlags struct {
	output   string
	width    int
	height   int
	fov      float64
	distance float64
	mode     string
	nearest  bool
	workers  int
	leafSize int
	maxDepth int
}

func (f *traceFlags) register(cmd *cobra.Command, withOutput bool) {
	fs := cmd.Flags()
	if withOutput {
		fs.StringVarP(&f.output, "output", "o", "", "PNG output path")
		fs.IntVar(&f.width, "width", 0, "Image width in pixels")
		fs.IntVar(&f.height, "height", 0, "Image height in pixels")
	}
	fs.Float64Var(&f.fov, "fov", 0, "Vertical field of view in degrees")
	fs.Float64Var(&f.distance, "distance", 0, "Distance the framed model is pushed from the origin")
	fs.StringVar(&f.mode, "mode", "", "Mesh resolution: indexed or linear")
	fs.BoolVar(&f.nearest, "nearest", false, "Keep the closest hit instead of the first")
	fs.IntVar(&f.workers, "workers", 0, "Worker count (default: logical CPUs)")
	fs.IntVar(&f.leafSize, "leaf-size", 0, "Max triangles per KD-tree leaf")
	fs.IntVar(&f.maxDepth, "max-depth", 0, "Max KD-tree depth")
}

// apply copies every flag the user set onto cfg.
func (f *traceFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	fs := cmd.Flags()
	set := func(name string, apply func()) {
		if fs.Changed(name) {
			apply()
		}
	}
	set("output", func() { cfg.Output = f.output })
	set("width", func() { cfg.Width = f.width })
	set("height", func() { cfg.Height = f.height })
	set("fov", func() { cfg.FOV = f.fov })
	set("distance", func() { cfg.Distance = f.distance })
	set("mode", func() { cfg.Mode = f.mode })
	set("nearest", func() { cfg.Nearest = f.nearest })
	set("workers", func() { cfg.Workers = f.workers })
	set("leaf-size", func() { cfg.LeafSize = f.leafSize })
	set("max-depth", func() { cfg.MaxDepth = f.maxDepth })
}

// settings resolves the config file, flag overrides and model argument.
func settings(cmd *cobra.Command, g *globalFlags, tf *traceFlags, args []string) (*config.Config, error) {
	cfg := config.Default()
	if g.configPath != "" {
		var err error
		if cfg, err = config.Load(g.configPath); err != nil {
			return nil, err
		}
	}
	if tf != nil {
		tf.apply(cmd, cfg)
	}
	if len(args) > 0 {
		cfg.Input = args[0]
	}
	if cfg.Input == "" {
		return nil, fmt.Errorf("no model given: pass a path or set \"input\" in the config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadModel(path string) (*models.Model, error) {
	model, err := models.Load(path)
	if err != nil {
		return nil, err
	}
	logger.Noticef("loaded %s: %d meshes, %d vertices, %d triangles",
		model.Name, len(model.Meshes), model.VertexCount(), model.TriangleCount())
	return model, nil
}
