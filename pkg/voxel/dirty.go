package voxel

// MeshCache holds a previously built mesh result for a chunk, opaque
// to this package; meshing backends in pkg/mesh store their own
// result type here so a clean chunk never needs remeshing.
type MeshCache interface{}

// DirtyTracker records which chunks have changed occupancy since they
// were last meshed, plus a per-chunk cache of the last mesh result.
// Dirty state is a set, not a single flag, so a parallel mesh pass
// (pkg/mesh, via errgroup) can drain the whole set atomically and fan
// out over it in one pass.
type DirtyTracker struct {
	dirty map[Key]struct{}
	cache map[Key]MeshCache
}

// Mark flags key as needing a mesh rebuild and invalidates any cached
// mesh for it.
func (d *DirtyTracker) Mark(key Key) {
	if d.dirty == nil {
		d.dirty = make(map[Key]struct{})
	}
	d.dirty[key] = struct{}{}
	delete(d.cache, key)
}

// Drain returns every currently dirty key and clears the dirty set.
// Callers should snapshot the set this way before fanning out a
// parallel rebuild, so a chunk dirtied mid-rebuild is picked up on the
// next Drain rather than lost.
func (d *DirtyTracker) Drain() []Key {
	if len(d.dirty) == 0 {
		return nil
	}
	keys := make([]Key, 0, len(d.dirty))
	for k := range d.dirty {
		keys = append(keys, k)
	}
	d.dirty = make(map[Key]struct{})
	return keys
}

// IsDirty reports whether key is currently flagged.
func (d *DirtyTracker) IsDirty(key Key) bool {
	_, ok := d.dirty[key]
	return ok
}

// CacheGet returns the cached mesh for key, if any.
func (d *DirtyTracker) CacheGet(key Key) (MeshCache, bool) {
	m, ok := d.cache[key]
	return m, ok
}

// CachePut stores the mesh result for key, replacing anything cached
// there already. Called once a chunk has been rebuilt and is clean.
func (d *DirtyTracker) CachePut(key Key, mesh MeshCache) {
	if d.cache == nil {
		d.cache = make(map[Key]MeshCache)
	}
	d.cache[key] = mesh
}

// CacheClear drops every cached mesh. It does not mark any chunk
// dirty: the meshing backends rebuild only what Drain returns, so a
// clean chunk is not remeshed by this call alone.
func (d *DirtyTracker) CacheClear() {
	d.cache = nil
}
