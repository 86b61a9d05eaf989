// Package mesh turns the occupancy lattice in pkg/voxel into surface
// meshes: a binary greedy quad mesher for sharp-edged output and a
// surface-nets dual contourer for smoothed output, both driven off a
// chunk store's dirty set.
package mesh

import "github.com/voxtrude/printsim/pkg/voxel"

// VoxelStore is the read capability a meshing backend needs from a
// chunk store. Both GreedyBackend and SurfaceNetsBackend depend only
// on this narrow interface rather than *voxel.ChunkStore directly, so
// a future alternate store implementation can plug in without
// touching the meshers.
type VoxelStore interface {
	Occupied(coord voxel.Index) bool
	Cell(key voxel.Key) (*voxel.Cell, bool)
	Dirty() *voxel.DirtyTracker
}

// Backend rebuilds meshes for whatever chunks a store reports dirty.
// GreedyBackend and SurfaceNetsBackend both satisfy this.
type Backend interface {
	RebuildDirty(store *voxel.ChunkStore) (map[voxel.Key]*voxel.Model, error)
}

// Options controls backend-wide meshing behavior.
type Options struct {
	// Simplify enables post-process mesh decimation in
	// SurfaceNetsBackend. GreedyBackend ignores it: a greedy quad mesh
	// is already minimal for axis-aligned geometry.
	Simplify bool
	// DecimateError is the target per-vertex error threshold used by
	// the decimator when Simplify is set, in the same normalized units
	// as the voxel lattice. Default: 0.002.
	DecimateError float64
}

// DefaultOptions returns the package's default meshing options.
func DefaultOptions() Options {
	return Options{Simplify: false, DecimateError: 0.002}
}

// axisDir is one of the six principal mesh-sweep directions.
type axisDir struct {
	axis int   // 0=x, 1=y, 2=z: the axis the face normal points along
	dir  int32 // +1 or -1
}

var sweepDirections = [6]axisDir{
	{0, 1}, {0, -1},
	{1, 1}, {1, -1},
	{2, 1}, {2, -1},
}

func (d axisDir) normal() voxel.Vec3 {
	v := voxel.Vec3{}
	switch d.axis {
	case 0:
		v.X = float64(d.dir)
	case 1:
		v.Y = float64(d.dir)
	case 2:
		v.Z = float64(d.dir)
	}
	return v
}
