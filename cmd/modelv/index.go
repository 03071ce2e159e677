package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taigrr/modelv/pkg/raytrace"
)

func newIndexCmd(g *globalFlags) *cobra.Command {
	tf := &traceFlags{}
	cmd := &cobra.Command{
		Use:   "index [model]",
		Short: "Build the KD-tree of a model and print its shape",
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

			scene := raytrace.Prepare(model, cfg.TreeOptions())
			opts := scene.Tree().Options()
			fmt.Fprintf(cmd.OutOrStdout(), "%s: leaf size %d, max depth %d\n",
				model.Name, opts.LeafSize, opts.MaxDepth)
			fmt.Fprint(cmd.OutOrStdout(), scene.Stats())
			return nil
		},
	}
	fs := cmd.Flags()
	fs.IntVar(&tf.leafSize, "leaf-size", 0, "Max triangles per KD-tree leaf")
	fs.IntVar(&tf.maxDepth, "max-depth", 0, "Max KD-tree depth")
	return cmd
}
