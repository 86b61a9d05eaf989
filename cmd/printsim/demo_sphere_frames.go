package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voxtrude/printsim/pkg/voxel"
)

func newDemoSphereFramesCmd(flags *backendFlags) *cobra.Command {
	var radius, frames int
	var outPrefix string

	cmd := &cobra.Command{
		Use:   "demo-sphere-frames",
		Short: "grow a sphere one shell per frame, exporting each frame's incremental mesh rebuild",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}

			store := voxel.NewChunkStore()
			backend := flags.resolveMeshBackend(cfg.Derived.MeshOptions)

			prevR2 := -1
			step := radius / frames
			if step < 1 {
				step = 1
			}

			for frame := 1; frame <= frames; frame++ {
				r := frame * step
				r2 := r * r
				addShell(store, prevR2, r2)
				prevR2 = r2

				// RebuildDirty only remeshes chunks touched by this
				// frame's newly added shell, exercising DirtyTracker's
				// incremental invalidation.
				models, err := backend.RebuildDirty(store)
				if err != nil {
					return fmt.Errorf("printsim: meshing frame %d: %w", frame, err)
				}
				if len(models) == 0 {
					continue
				}
				path := fmt.Sprintf("%s_%04d%s", outPrefix, frame, extFor(flags))
				if err := flags.writeModels(path, models); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&radius, "radius", 16, "final sphere radius in voxel cells")
	cmd.Flags().IntVar(&frames, "frames", 8, "number of growth frames")
	cmd.Flags().StringVar(&outPrefix, "out-prefix", "frame", "output file prefix")
	return cmd
}

// addShell adds every lattice cell whose squared radius falls in
// (loR2, hiR2], growing the sphere outward one shell at a time.
func addShell(store *voxel.ChunkStore, loR2, hiR2 int) {
	r := 0
	for r*r <= hiR2 {
		r++
	}
	for x := -r; x <= r; x++ {
		for y := -r; y <= r; y++ {
			for z := -r; z <= r; z++ {
				d2 := x*x + y*y + z*z
				if d2 > loR2 && d2 <= hiR2 {
					store.Add(voxel.NewIndex(int32(x), int32(y), int32(z)))
				}
			}
		}
	}
}

func extFor(flags *backendFlags) string {
	if flags.glb {
		return ".glb"
	}
	return ".obj"
}
