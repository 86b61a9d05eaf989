// Command printsim is the CLI front end for the simulation core in
// pkg/voxel, pkg/mesh, pkg/gcode, pkg/motion, pkg/export, and
// pkg/stream: it wires parsed G-code or synthetic demo geometry
// through a meshing backend to OBJ or GLB output. Logging sticks to
// the standard library's log.Printf/log.Fatalf; no third-party logger
// is introduced here.
package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatalf("printsim: %v", err)
	}
	os.Exit(0)
}

func newRootCmd() *cobra.Command {
	flags := &backendFlags{}

	root := &cobra.Command{
		Use:   "printsim",
		Short: "G-code voxel print simulator",
	}

	root.PersistentFlags().BoolVar(&flags.rangeset, "rangeset", false, "use the rangeset voxel backend (unimplemented)")
	root.PersistentFlags().BoolVar(&flags.svo, "svo", false, "use the sparse-voxel-octree backend (unimplemented)")
	root.PersistentFlags().BoolVar(&flags.chunked, "chunked", false, "use the chunked dense-cell backend (greedy quad mesher)")
	root.PersistentFlags().BoolVar(&flags.lod, "lod", false, "use the level-of-detail backend (unimplemented)")
	root.PersistentFlags().BoolVar(&flags.iso, "iso", false, "use the isosurface backend (unimplemented)")
	root.PersistentFlags().BoolVar(&flags.fsn, "fsn", false, "use the fast-surface-nets backend")
	root.PersistentFlags().BoolVar(&flags.vdb, "vdb", false, "use the OpenVDB-style backend (unimplemented)")
	root.PersistentFlags().BoolVar(&flags.glb, "glb", false, "write GLB instead of OBJ")
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to a printsim config YAML overriding the embedded defaults")
	root.MarkFlagsMutuallyExclusive("rangeset", "svo", "chunked", "lod", "iso", "fsn", "vdb")

	root.AddCommand(
		newDemoSphereCmd(flags),
		newDemoSphereFramesCmd(flags),
		newDemoExtrudeCmd(flags),
		newGCodeCmd(flags),
		newGCodeLayersCmd(flags),
	)
	return root
}
