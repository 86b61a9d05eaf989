package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/voxtrude/printsim/pkg/gcode"
	"github.com/voxtrude/printsim/pkg/motion"
	"github.com/voxtrude/printsim/pkg/voxel"
)

func newGCodeCmd(flags *backendFlags) *cobra.Command {
	var out string
	var dt float64

	cmd := &cobra.Command{
		Use:   "gcode <file>",
		Short: "simulate a G-code file to completion and export its final mesh",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}

			records, err := loadGCodeFile(args[0])
			if err != nil {
				return err
			}

			store := voxel.NewChunkStore()
			runner := motion.NewRunner(records, cfg.Derived.MotionParams, store)
			for !runner.Step(dt) {
			}

			backend := flags.resolveMeshBackend(cfg.Derived.MeshOptions)
			models, err := backend.RebuildDirty(store)
			if err != nil {
				return fmt.Errorf("printsim: meshing %s: %w", args[0], err)
			}
			return flags.writeModels(out, models)
		},
	}

	cmd.Flags().StringVar(&out, "out", "model.obj", "output file path")
	cmd.Flags().Float64Var(&dt, "dt", 0.02, "simulation time step in seconds")
	return cmd
}

// loadGCodeFile parses path into its ordered record stream.
func loadGCodeFile(path string) ([]gcode.LineRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("printsim: opening %s: %w", path, err)
	}
	defer f.Close()

	records, err := gcode.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("printsim: parsing %s: %w", path, err)
	}
	return records, nil
}
