package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/voxtrude/printsim/pkg/gcode"
	"github.com/voxtrude/printsim/pkg/motion"
	"github.com/voxtrude/printsim/pkg/voxel"
)

// demoSquareGCode traces one square layer's perimeter with extrusion,
// a minimal synthetic print exercising the Extruder/MotionRunner path
// without needing a slicer-produced file.
const demoSquareGCode = `;LAYER:0
G92 X0 Y0 Z0 E0
G1 X10 Y0 Z0 E1 F1800
G1 X10 Y10 Z0 E2 F1800
G1 X0 Y10 Z0 E3 F1800
G1 X0 Y0 Z0 E4 F1800
`

func newDemoExtrudeCmd(flags *backendFlags) *cobra.Command {
	var out string
	var dt float64

	cmd := &cobra.Command{
		Use:   "demo-extrude",
		Short: "simulate a synthetic square-perimeter print and export its mesh",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}

			records, err := gcode.Parse(strings.NewReader(demoSquareGCode))
			if err != nil {
				return fmt.Errorf("printsim: parsing demo gcode: %w", err)
			}

			store := voxel.NewChunkStore()
			runner := motion.NewRunner(records, cfg.Derived.MotionParams, store)
			for !runner.Step(dt) {
			}

			backend := flags.resolveMeshBackend(cfg.Derived.MeshOptions)
			models, err := backend.RebuildDirty(store)
			if err != nil {
				return fmt.Errorf("printsim: meshing extrusion: %w", err)
			}
			return flags.writeModels(out, models)
		},
	}

	cmd.Flags().StringVar(&out, "out", "extrude.obj", "output file path")
	cmd.Flags().Float64Var(&dt, "dt", 0.02, "simulation time step in seconds")
	return cmd
}
