package mesh

import (
	"golang.org/x/sync/errgroup"

	"github.com/voxtrude/printsim/pkg/voxel"
)

// GreedyBackend produces sharp-edged indexed quad meshes via binary
// greedy quad meshing: for each of the 6 sweep directions, build a
// per-layer 2D mask of exposed faces and merge it into maximal
// rectangles by extending width then height runs. Operates over a
// whole dirty set drained from a voxel.ChunkStore, producing one Model
// per chunk.
type GreedyBackend struct{}

// RebuildDirty drains the store's dirty set and rebuilds a Model for
// every affected chunk, running the per-chunk work in parallel via
// errgroup. Draining the set atomically before fan-out means a chunk
// marked dirty mid-rebuild waits for the next RebuildDirty rather than
// racing this one. Results are cached on the store's DirtyTracker and
// also returned, keyed by chunk key. A chunk with no remaining
// geometry is returned with an empty Model rather than omitted, so
// callers can tell "rebuilt empty" from "not dirty".
func (GreedyBackend) RebuildDirty(store *voxel.ChunkStore) (map[voxel.Key]*voxel.Model, error) {
	keys := store.Dirty().Drain()
	if len(keys) == 0 {
		return nil, nil
	}

	results := make([]*voxel.Model, len(keys))
	var g errgroup.Group
	for i, key := range keys {
		i, key := i, key
		g.Go(func() error {
			results[i] = MeshChunk(store, key)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[voxel.Key]*voxel.Model, len(keys))
	for i, key := range keys {
		out[key] = results[i]
		store.Dirty().CachePut(key, results[i])
	}
	return out, nil
}

// MeshChunk runs the binary greedy quad mesher over a single chunk,
// returning its Model. A chunk key with no backing Cell (fully empty)
// yields an empty Model rather than an error.
func MeshChunk(store VoxelStore, key voxel.Key) *voxel.Model {
	base := voxel.ChunkBase(key)
	model := &voxel.Model{
		ID: key,
		Offset: voxel.Vec3{
			X: float64(base.X) + voxel.CellSize/2,
			Y: float64(base.Y) + voxel.CellSize/2,
			Z: float64(base.Z) + voxel.CellSize/2,
		},
	}

	cell, ok := store.Cell(key)
	if !ok {
		return model
	}

	var padded [voxel.PaddedSize * voxel.PaddedSize * voxel.PaddedSize]uint8
	cell.FillSolid(&padded)

	vertices := voxel.NewVertexSet()
	for _, sweep := range sweepDirections {
		sweepAxis(&padded, sweep, base, vertices, model)
	}
	model.Vertices = vertices.Vertices()
	return model
}

const n = voxel.CellSize

func paddedGet(buf *[voxel.PaddedSize * voxel.PaddedSize * voxel.PaddedSize]uint8, x, y, z int) bool {
	const p = voxel.PaddedSize
	return buf[x*p*p+y*p+z] != 0
}

// sweepAxis builds, for every layer along sweep.axis, a 2D boolean
// mask of exposed faces (solid cell with an empty neighbor one step
// in sweep.dir), then greedily merges the mask into maximal rectangles.
func sweepAxis(buf *[voxel.PaddedSize * voxel.PaddedSize * voxel.PaddedSize]uint8, sweep axisDir, base voxel.Index, vertices *voxel.VertexSet, model *voxel.Model) {
	// u, v are the two axes spanning the mask plane; axis is the swept
	// (normal) axis. v = (axis+2)%3 is the axis left over once axis and
	// u are matched, so coord handles it in its default case.
	axis := sweep.axis
	u := (axis + 1) % 3

	coord := func(a int, av, uv, vv int) int {
		switch {
		case a == axis:
			return av
		case a == u:
			return uv
		default:
			return vv
		}
	}

	solidAt := func(layer, uu, vv int) bool {
		if uu < 0 || vv < 0 || uu >= n || vv >= n {
			return false
		}
		x := coord(0, layer, uu, vv) + 1
		y := coord(1, layer, uu, vv) + 1
		z := coord(2, layer, uu, vv) + 1
		return paddedGet(buf, x, y, z)
	}

	mask := make([][2]bool, n*n) // [0]=exposed, [1]=consumed (reset per layer)

	for layer := 0; layer < n; layer++ {
		for i := range mask {
			mask[i] = [2]bool{}
		}
		neighborLayer := layer + int(sweep.dir)
		for uu := 0; uu < n; uu++ {
			for vv := 0; vv < n; vv++ {
				self := solidAt(layer, uu, vv)
				if !self {
					continue
				}
				neighborSolid := neighborLayer >= 0 && neighborLayer < n && solidAt(neighborLayer, uu, vv)
				mask[uu*n+vv][0] = !neighborSolid
			}
		}

		for uu := 0; uu < n; uu++ {
			for vv := 0; vv < n; vv++ {
				cell := &mask[uu*n+vv]
				if !cell[0] || cell[1] {
					continue
				}

				w := 1
				for uu+w < n {
					c := &mask[(uu+w)*n+vv]
					if !c[0] || c[1] {
						break
					}
					w++
				}

				h := 1
			heightLoop:
				for vv+h < n {
					for du := 0; du < w; du++ {
						c := &mask[(uu+du)*n+vv+h]
						if !c[0] || c[1] {
							break heightLoop
						}
					}
					h++
				}

				for du := 0; du < w; du++ {
					for dv := 0; dv < h; dv++ {
						mask[(uu+du)*n+vv+dv][1] = true
					}
				}

				emitQuad(model, vertices, sweep, base, layer, uu, vv, w, h)
			}
		}
	}
}

// emitQuad adds one axis-aligned rectangle to the model: four corner
// vertices (deduplicated by exact integer coordinate, chunk-local plus
// chunk origin) plus the Quad face record.
func emitQuad(model *voxel.Model, vertices *voxel.VertexSet, sweep axisDir, base voxel.Index, layer, uu, vv, w, h int) {
	axis := sweep.axis

	faceLayer := layer
	if sweep.dir > 0 {
		faceLayer = layer + 1
	}

	corner := func(du, dv int) (int32, int32, int32) {
		var local [3]int
		local[axis] = faceLayer
		local[(axis+1)%3] = uu + du
		local[(axis+2)%3] = vv + dv
		return base.X + int32(local[0]), base.Y + int32(local[1]), base.Z + int32(local[2])
	}

	var idx [4]uint32
	corners := [4][2]int{{0, 0}, {w, 0}, {w, h}, {0, h}}
	if sweep.dir < 0 {
		// Reverse winding for the negative-facing side so the quad
		// still faces outward.
		corners = [4][2]int{{0, h}, {w, h}, {w, 0}, {0, 0}}
	}
	for i, c := range corners {
		x, y, z := corner(c[0], c[1])
		idx[i] = vertices.Add(x, y, z)
	}

	model.Quads = append(model.Quads, voxel.Quad{Indices: idx, Normal: sweep.normal()})
}
