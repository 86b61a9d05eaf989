// Package export writes a slice of voxel.Model out to OBJ or
// glTF/GLB, printsim's two supported surface-file formats. Both
// writers are hand-rolled against each format's documented layout
// (see DESIGN.md for why no third-party OBJ/glTF encoder was used).
package export

import (
	"bufio"
	"fmt"
	"io"

	"github.com/voxtrude/printsim/pkg/voxel"
)

// WriteOBJ writes every model's quad faces as a single OBJ mesh:
// `v x y z` vertex lines in file order, 1-based `f` face indices
// offset per model so each model's vertex block stays addressable
// independently. Models with no quad mesh (surface-nets output) are
// skipped; use WriteGLB for triangle meshes.
func WriteOBJ(w io.Writer, models []*voxel.Model) error {
	bw := bufio.NewWriter(w)
	offset := 1 // OBJ indices are 1-based

	for _, m := range models {
		if len(m.Vertices) == 0 {
			continue
		}
		for _, v := range m.Vertices {
			if _, err := fmt.Fprintf(bw, "v %g %g %g\n", v.X, v.Y, v.Z); err != nil {
				return err
			}
		}
		for _, q := range m.Quads {
			if _, err := fmt.Fprintf(bw, "f %d %d %d %d\n",
				int(q.Indices[0])+offset,
				int(q.Indices[1])+offset,
				int(q.Indices[2])+offset,
				int(q.Indices[3])+offset,
			); err != nil {
				return err
			}
		}
		offset += len(m.Vertices)
	}

	return bw.Flush()
}
