package mesh

import (
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/voxtrude/printsim/pkg/voxel"
)

const sdfSize = voxel.PaddedSize // 34: one ring of padding on each side of a 32^3 chunk

func sdfIndex(x, y, z int) int {
	return x*sdfSize*sdfSize + y*sdfSize + z
}

// SurfaceNetsBackend produces smoothed triangle meshes via dual
// contouring: build a signed-distance field one ring wider than the
// chunk, sampling ChunkStore.Occupied across the boundary (hence
// GreedyBackend's and SurfaceNetsBackend's shared
// boundary-dirty-propagation rule in pkg/voxel/store.go), then run
// surface nets and optionally decimate. This is a hand-rolled "naive
// surface nets" implementation (see DESIGN.md for why it isn't backed
// by a third-party library).
type SurfaceNetsBackend struct {
	Options Options
}

// RebuildDirty mirrors GreedyBackend.RebuildDirty but produces
// triangle meshes.
func (b SurfaceNetsBackend) RebuildDirty(store *voxel.ChunkStore) (map[voxel.Key]*voxel.Model, error) {
	keys := store.Dirty().Drain()
	if len(keys) == 0 {
		return nil, nil
	}

	results := make([]*voxel.Model, len(keys))
	var g errgroup.Group
	for i, key := range keys {
		i, key := i, key
		g.Go(func() error {
			results[i] = b.meshChunk(store, key)
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

func (b SurfaceNetsBackend) meshChunk(store VoxelStore, key voxel.Key) *voxel.Model {
	base := voxel.ChunkBase(key)
	model := &voxel.Model{
		ID: key,
		Offset: voxel.Vec3{
			X: float64(base.X) + voxel.CellSize/2,
			Y: float64(base.Y) + voxel.CellSize/2,
			Z: float64(base.Z) + voxel.CellSize/2,
		},
	}

	sdf := make([]float64, sdfSize*sdfSize*sdfSize)
	for i := range sdf {
		sdf[i] = -1
	}
	for x := 0; x < sdfSize; x++ {
		for y := 0; y < sdfSize; y++ {
			for z := 0; z < sdfSize; z++ {
				world := voxel.NewIndex(base.X+int32(x)-1, base.Y+int32(y)-1, base.Z+int32(z)-1)
				if store.Occupied(world) {
					sdf[sdfIndex(x, y, z)] = 1
				}
			}
		}
	}

	verts, tris, normals := surfaceNets(sdf)
	for _, v := range verts {
		model.Triangles = append(model.Triangles, voxel.Vec3{
			X: v.X + float64(base.X),
			Y: v.Y + float64(base.Y),
			Z: v.Z + float64(base.Z),
		})
	}
	model.Normals = normals
	model.Indices = tris

	if b.Options.Simplify {
		model.Triangles, model.Indices, model.Normals = Decimate(model.Triangles, model.Indices, model.Normals, b.Options.DecimateError)
	}
	return model
}

// surfaceNets runs naive dual-contouring surface nets over a cubic
// SDF grid of side sdfSize, returning dual vertices (one per cube that
// straddles the zero isosurface, positioned as the centroid of its
// sign-changing edge crossings), vertex normals (the SDF's central
// gradient at that vertex), and a triangle index list.
func surfaceNets(sdf []float64) ([]voxel.Vec3, []uint32, []voxel.Vec3) {
	const n = sdfSize
	at := func(x, y, z int) float64 { return sdf[sdfIndex(x, y, z)] }

	cubeVertex := make(map[[3]int]uint32)
	var verts []voxel.Vec3
	var normals []voxel.Vec3

	corners := [8][3]int{
		{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0},
		{0, 0, 1}, {1, 0, 1}, {0, 1, 1}, {1, 1, 1},
	}
	edges := [12][2]int{
		{0, 1}, {2, 3}, {4, 5}, {6, 7},
		{0, 2}, {1, 3}, {4, 6}, {5, 7},
		{0, 4}, {1, 5}, {2, 6}, {3, 7},
	}

	for x := 0; x < n-1; x++ {
		for y := 0; y < n-1; y++ {
			for z := 0; z < n-1; z++ {
				var vals [8]float64
				neg, pos := false, false
				for i, c := range corners {
					v := at(x+c[0], y+c[1], z+c[2])
					vals[i] = v
					if v < 0 {
						neg = true
					} else {
						pos = true
					}
				}
				if !neg || !pos {
					continue // cube does not straddle the isosurface
				}

				var sum voxel.Vec3
				count := 0
				for _, e := range edges {
					a, bI := vals[e[0]], vals[e[1]]
					if (a < 0) == (bI < 0) {
						continue
					}
					t := a / (a - bI)
					ca, cb := corners[e[0]], corners[e[1]]
					sum.X += float64(ca[0]) + t*float64(cb[0]-ca[0])
					sum.Y += float64(ca[1]) + t*float64(cb[1]-ca[1])
					sum.Z += float64(ca[2]) + t*float64(cb[2]-ca[2])
					count++
				}
				pos3 := voxel.Vec3{X: sum.X / float64(count), Y: sum.Y / float64(count), Z: sum.Z / float64(count)}
				// Offset by 1 to undo the padding ring, then by the
				// cube origin: coordinates are cube-local in [0,n-1).
				pos3.X += float64(x) - 1
				pos3.Y += float64(y) - 1
				pos3.Z += float64(z) - 1

				idx := uint32(len(verts))
				verts = append(verts, pos3)
				normals = append(normals, gradient(at, x, y, z))
				cubeVertex[[3]int{x, y, z}] = idx
			}
		}
	}

	var indices []uint32
	addQuad := func(a, b, c, d uint32, flip bool) {
		if flip {
			indices = append(indices, a, c, b, a, d, c)
		} else {
			indices = append(indices, a, b, c, a, c, d)
		}
	}

	// For every grid edge whose endpoints straddle the isosurface,
	// connect the (up to) 4 surrounding dual vertices into one quad.
	tryEdge := func(x, y, z, axis int) {
		var x1, y1, z1 int = x, y, z
		switch axis {
		case 0:
			x1++
		case 1:
			y1++
		case 2:
			z1++
		}
		a, b := at(x, y, z), at(x1, y1, z1)
		if (a < 0) == (b < 0) {
			return
		}
		flip := a < 0

		var cubes [4][3]int
		switch axis {
		case 0:
			cubes = [4][3]int{{x, y - 1, z - 1}, {x, y, z - 1}, {x, y, z}, {x, y - 1, z}}
		case 1:
			cubes = [4][3]int{{x - 1, y, z - 1}, {x, y, z - 1}, {x, y, z}, {x - 1, y, z}}
		case 2:
			cubes = [4][3]int{{x - 1, y - 1, z}, {x, y - 1, z}, {x, y, z}, {x - 1, y, z}}
		}

		var idx [4]uint32
		ok := true
		for i, c := range cubes {
			v, found := cubeVertex[c]
			if !found {
				ok = false
				break
			}
			idx[i] = v
		}
		if !ok {
			return
		}
		addQuad(idx[0], idx[1], idx[2], idx[3], flip)
	}

	for x := 1; x < n-1; x++ {
		for y := 1; y < n-1; y++ {
			for z := 1; z < n-1; z++ {
				tryEdge(x, y, z, 0)
				tryEdge(x, y, z, 1)
				tryEdge(x, y, z, 2)
			}
		}
	}

	return verts, indices, normals
}

// gradient estimates the SDF's central-difference gradient at grid
// point (x,y,z), used as the dual vertex normal.
func gradient(at func(x, y, z int) float64, x, y, z int) voxel.Vec3 {
	gx := sample(at, x+1, y, z) - sample(at, x-1, y, z)
	gy := sample(at, x, y+1, z) - sample(at, x, y-1, z)
	gz := sample(at, x, y, z+1) - sample(at, x, y, z-1)
	length := math.Sqrt(gx*gx + gy*gy + gz*gz)
	if length < 1e-9 {
		return voxel.Vec3{}
	}
	return voxel.Vec3{X: gx / length, Y: gy / length, Z: gz / length}
}

func sample(at func(x, y, z int) float64, x, y, z int) float64 {
	if x < 0 || y < 0 || z < 0 || x >= sdfSize || y >= sdfSize || z >= sdfSize {
		return -1
	}
	return at(x, y, z)
}
