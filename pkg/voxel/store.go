package voxel

// ChunkStore is the sparse backing map for a voxel index: a plain Go
// map keyed by the packed chunk Key. Go's built-in map already
// specializes small fixed-width keys (uint64 here), so there's no
// need to reach for a third-party hashmap just to avoid allocating
// cells for empty space.
type ChunkStore struct {
	chunks map[Key]*Cell
	bounds BoundingBox
	dirty  DirtyTracker
}

// NewChunkStore returns an empty store.
func NewChunkStore() *ChunkStore {
	return &ChunkStore{
		chunks: make(map[Key]*Cell),
	}
}

// Bounds returns the current bounding box over every coordinate ever
// added via Add.
func (s *ChunkStore) Bounds() BoundingBox {
	return s.bounds
}

// Dirty returns the store's dirty-chunk tracker.
func (s *ChunkStore) Dirty() *DirtyTracker {
	return &s.dirty
}

// Occupied reports whether the voxel at coord is set. Missing chunks
// read as empty.
func (s *ChunkStore) Occupied(coord Index) bool {
	key := ChunkKey(coord)
	cell, ok := s.chunks[key]
	if !ok {
		return false
	}
	x, y, z := cellLocal(coord)
	return cell.Get(x, y, z)
}

// cellFor returns the Cell owning coord, allocating it on first use.
func (s *ChunkStore) cellFor(coord Index) *Cell {
	key := ChunkKey(coord)
	cell, ok := s.chunks[key]
	if !ok {
		cell = &Cell{}
		s.chunks[key] = cell
	}
	return cell
}

// Add marks coord as occupied, growing the bounding box, counting a
// new voxel only the first time coord transitions from empty to set,
// and marking the owning chunk (and any neighbor chunk sharing coord's
// boundary face) dirty. Returns true if this call actually changed
// occupancy.
func (s *ChunkStore) Add(coord Index) bool {
	cell := s.cellFor(coord)
	x, y, z := cellLocal(coord)
	if cell.Get(x, y, z) {
		return false
	}
	cell.Set(x, y, z)
	s.bounds.Add(coord)

	key := ChunkKey(coord)
	s.dirty.Mark(key)
	s.markBoundaryDirty(key, x, y, z)
	return true
}

// markBoundaryDirty marks the neighboring chunk dirty too whenever
// coord sits on the chunk's boundary face, since that neighbor's mesh
// may need to change a face it previously drew solid.
func (s *ChunkStore) markBoundaryDirty(key Key, x, y, z int) {
	if x == 0 {
		s.dirty.Mark(NeighborKey(key, 0, -1))
	}
	if x == CellSize-1 {
		s.dirty.Mark(NeighborKey(key, 0, 1))
	}
	if y == 0 {
		s.dirty.Mark(NeighborKey(key, 1, -1))
	}
	if y == CellSize-1 {
		s.dirty.Mark(NeighborKey(key, 1, 1))
	}
	if z == 0 {
		s.dirty.Mark(NeighborKey(key, 2, -1))
	}
	if z == CellSize-1 {
		s.dirty.Mark(NeighborKey(key, 2, 1))
	}
}

// Remove clears coord, if set, and marks the owning and boundary
// chunks dirty the same way Add does. Returns true if occupancy
// changed. The bounding box is never shrunk by Remove: it tracks the
// furthest extent ever occupied, not the current occupied extent.
func (s *ChunkStore) Remove(coord Index) bool {
	key := ChunkKey(coord)
	cell, ok := s.chunks[key]
	if !ok {
		return false
	}
	x, y, z := cellLocal(coord)
	if !cell.Get(x, y, z) {
		return false
	}
	cell.Clear(x, y, z)
	s.dirty.Mark(key)
	s.markBoundaryDirty(key, x, y, z)
	return true
}

// Cell returns the Cell for key and whether it exists.
func (s *ChunkStore) Cell(key Key) (*Cell, bool) {
	c, ok := s.chunks[key]
	return c, ok
}

// Keys returns every allocated chunk key, in unspecified order.
func (s *ChunkStore) Keys() []Key {
	keys := make([]Key, 0, len(s.chunks))
	for k := range s.chunks {
		keys = append(keys, k)
	}
	return keys
}

// Len returns the number of allocated chunks.
func (s *ChunkStore) Len() int {
	return len(s.chunks)
}
