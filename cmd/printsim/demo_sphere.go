package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voxtrude/printsim/pkg/voxel"
)

func newDemoSphereCmd(flags *backendFlags) *cobra.Command {
	var radius int
	var out string

	cmd := &cobra.Command{
		Use:   "demo-sphere",
		Short: "fill a sphere into the voxel store and export its mesh",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}

			store := voxel.NewChunkStore()
			fillSphere(store, radius)

			backend := flags.resolveMeshBackend(cfg.Derived.MeshOptions)
			models, err := backend.RebuildDirty(store)
			if err != nil {
				return fmt.Errorf("printsim: meshing sphere: %w", err)
			}
			return flags.writeModels(out, models)
		},
	}

	cmd.Flags().IntVar(&radius, "radius", 16, "sphere radius in voxel cells")
	cmd.Flags().StringVar(&out, "out", "sphere.obj", "output file path")
	return cmd
}

// fillSphere adds every lattice cell within radius of the origin to
// store: a synthetic occupancy pattern for exercising the meshing
// backends without needing a G-code file.
func fillSphere(store *voxel.ChunkStore, radius int) {
	r2 := radius * radius
	for x := -radius; x <= radius; x++ {
		for y := -radius; y <= radius; y++ {
			for z := -radius; z <= radius; z++ {
				if x*x+y*y+z*z <= r2 {
					store.Add(voxel.NewIndex(int32(x), int32(y), int32(z)))
				}
			}
		}
	}
}
