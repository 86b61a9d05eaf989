package voxel

// CellSize is the edge length of a chunk in voxels, and the edge
// length of the dense Cell bitfield.
const CellSize = 32

// cellShift is log2(CellSize): the shift used to convert between a
// voxel coordinate and its chunk coordinate.
const cellShift = 5

// Key packs a chunk's integer coordinate (chunk-space, i.e. already
// divided by CellSize) into a single uint64: three signed 16-bit
// fields, one per axis, sign-extended on unpack. This is the chunk
// key used by ChunkStore, DirtyTracker, and the streaming wire
// format.
type Key uint64

// ChunkKey returns the packed key of the chunk containing coord.
func ChunkKey(coord Index) Key {
	cx := coord.X >> cellShift
	cy := coord.Y >> cellShift
	cz := coord.Z >> cellShift
	return packKey(cx, cy, cz)
}

func packKey(cx, cy, cz int32) Key {
	x := uint64(uint16(cx))
	y := uint64(uint16(cy))
	z := uint64(uint16(cz))
	return Key(x<<32 | y<<16 | z)
}

// ChunkBase returns the world-space origin (minimum corner) of the
// chunk identified by key: each 16-bit field is reinterpreted as
// signed and multiplied by CellSize.
func ChunkBase(key Key) Index {
	x := int32(int16(uint16(uint64(key) >> 32)))
	y := int32(int16(uint16(uint64(key) >> 16)))
	z := int32(int16(uint16(uint64(key))))
	return Index{x << cellShift, y << cellShift, z << cellShift}
}

// cellLocal returns the within-chunk coordinate of coord, each
// component in [0, CellSize).
func cellLocal(coord Index) (x, y, z int) {
	x = int(coord.X) & (CellSize - 1)
	y = int(coord.Y) & (CellSize - 1)
	z = int(coord.Z) & (CellSize - 1)
	return
}

// NeighborKey returns the key of the chunk directly adjacent to key
// along one axis, in the given direction (+1 or -1). Used by
// DirtyTracker to propagate dirtiness across a chunk boundary.
func NeighborKey(key Key, axis int, dir int32) Key {
	base := ChunkBase(key)
	switch axis {
	case 0:
		base.X += dir * CellSize
	case 1:
		base.Y += dir * CellSize
	case 2:
		base.Z += dir * CellSize
	}
	return ChunkKey(base)
}
