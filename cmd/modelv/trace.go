package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taigrr/modelv/pkg/raytrace"
)

func newTraceCmd(g *globalFlags) *cobra.Command {
	tf := &traceFlags{}
	cmd := &cobra.Command{
		Use:   "trace [model]",
		Short: "Raytrace a model to a PNG hit mask",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := settings(cmd, g, tf, args)
			if err != nil {
				return err
			}

			model, err := loadModel(cfg.Input)
			if err != nil {
				return err
			}

			transform := model.Framing(cfg.Distance)
			scene := raytrace.Prepare(model, cfg.TreeOptions())
			cam := cfg.Camera()
			vp := cfg.Viewport()

			engine := raytrace.New(cfg.EngineOptions(transform))
			fb, stats := engine.RaytraceScene(scene, cam, vp)

			if err := fb.SavePNG(cfg.Output); err != nil {
				return fmt.Errorf("save %s: %w", cfg.Output, err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d of %d meshes in view, wrote %s\n",
				model.Name, scene.VisibleMeshes(transform, cam.Frustum(vp)), len(scene.Meshes), cfg.Output)
			fmt.Fprint(out, stats.Table())
			return nil
		},
	}
	tf.register(cmd, true)
	return cmd
}
