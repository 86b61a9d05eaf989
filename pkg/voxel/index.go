// Package voxel implements the sparse chunked occupancy lattice: the
// integer coordinate space, the dense per-chunk bitfield, the chunk
// store, and the dirty-chunk tracker that the meshing backends in
// pkg/mesh consume.
package voxel

// Index is a signed 3D integer lattice coordinate. One unit equals one
// voxel edge (see motion.Params.Unit for the physical size in mm).
type Index struct {
	X, Y, Z int32
}

// NewIndex builds an Index from its three components.
func NewIndex(x, y, z int32) Index {
	return Index{X: x, Y: y, Z: z}
}

// Add returns the component-wise sum.
func (a Index) Add(b Index) Index {
	return Index{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

// Sub returns the component-wise difference.
func (a Index) Sub(b Index) Index {
	return Index{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

// Min returns the component-wise minimum.
func (a Index) Min(b Index) Index {
	return Index{min32(a.X, b.X), min32(a.Y, b.Y), min32(a.Z, b.Z)}
}

// Max returns the component-wise maximum.
func (a Index) Max(b Index) Index {
	return Index{max32(a.X, b.X), max32(a.Y, b.Y), max32(a.Z, b.Z)}
}

// ShiftUp divides every component by 2^n, rounding towards negative
// infinity (an arithmetic right shift on each axis). Used to map a
// voxel coordinate onto its chunk coordinate (n=5, chunk size 32).
func (a Index) ShiftUp(n uint) Index {
	return Index{a.X >> n, a.Y >> n, a.Z >> n}
}

// ShiftDown multiplies every component by 2^n. The inverse of
// ShiftUp when the result was not truncated.
func (a Index) ShiftDown(n uint) Index {
	return Index{a.X << n, a.Y << n, a.Z << n}
}

// MagnitudeSquared returns the squared Euclidean magnitude.
func (a Index) MagnitudeSquared() int64 {
	x, y, z := int64(a.X), int64(a.Y), int64(a.Z)
	return x*x + y*y + z*z
}

func min32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

// BoundingBox tracks the minimum and maximum coordinate ever added to
// a ChunkStore, plus the total count of distinct successful adds.
// Per spec: when Count is 0, Min/Max are undefined (zero value).
type BoundingBox struct {
	Min, Max Index
	Count    int64
}

// Add folds coord into the bounding box and increments Count. The
// first call seeds Min=Max=coord; subsequent calls widen the box.
func (b *BoundingBox) Add(coord Index) {
	if b.Count == 0 {
		b.Min = coord
		b.Max = coord
	} else {
		b.Min = b.Min.Min(coord)
		b.Max = b.Max.Max(coord)
	}
	b.Count++
}
