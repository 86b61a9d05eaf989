package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/voxtrude/printsim/pkg/motion"
	"github.com/voxtrude/printsim/pkg/voxel"
)

func newGCodeLayersCmd(flags *backendFlags) *cobra.Command {
	var outPrefix string
	var dt float64

	cmd := &cobra.Command{
		Use:   "gcode-layers <file>",
		Short: "simulate a G-code file, exporting one mesh snapshot per layer boundary",
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
			backend := flags.resolveMeshBackend(cfg.Derived.MeshOptions)
			runner := motion.NewRunner(records, cfg.Derived.MotionParams, store)

			runner.OnLayer = func(layerIndex int) {
				models, err := backend.RebuildDirty(store)
				if err != nil {
					log.Printf("printsim: meshing layer %d: %v", layerIndex, err)
					return
				}
				if len(models) == 0 {
					return
				}
				path := fmt.Sprintf("%s_%04d%s", outPrefix, layerIndex, extFor(flags))
				if err := flags.writeModels(path, models); err != nil {
					log.Printf("printsim: writing layer %d: %v", layerIndex, err)
				}
			}

			for !runner.Step(dt) {
			}

			// Flush whatever the final (possibly partial) layer left
			// dirty after the last OnLayer fired.
			models, err := backend.RebuildDirty(store)
			if err != nil {
				return fmt.Errorf("printsim: meshing final layer: %w", err)
			}
			if len(models) == 0 {
				return nil
			}
			return flags.writeModels(outPrefix+"_final"+extFor(flags), models)
		},
	}

	cmd.Flags().StringVar(&outPrefix, "out-prefix", "layer", "output file prefix")
	cmd.Flags().Float64Var(&dt, "dt", 0.02, "simulation time step in seconds")
	return cmd
}
