package voxel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChunkStoreAddOccupiedBounds(t *testing.T) {
	s := NewChunkStore()
	require.False(t, s.Occupied(NewIndex(1, 1, 1)))

	require.True(t, s.Add(NewIndex(1, 1, 1)))
	require.False(t, s.Add(NewIndex(1, 1, 1)), "re-adding an already-set voxel reports no change")
	require.True(t, s.Occupied(NewIndex(1, 1, 1)))

	bb := s.Bounds()
	require.Equal(t, NewIndex(1, 1, 1), bb.Min)
	require.EqualValues(t, 1, bb.Count)
}

func TestChunkStoreMarksOwningChunkDirty(t *testing.T) {
	s := NewChunkStore()
	s.Add(NewIndex(10, 10, 10))
	key := ChunkKey(NewIndex(10, 10, 10))
	require.True(t, s.Dirty().IsDirty(key))
}

func TestChunkStoreMarksBoundaryNeighborDirty(t *testing.T) {
	s := NewChunkStore()
	// x=0 is the first local cell of its chunk: must also dirty the
	// chunk to the -X side.
	s.Add(NewIndex(0, 5, 5))
	key := ChunkKey(NewIndex(0, 5, 5))
	neighbor := NeighborKey(key, 0, -1)
	require.True(t, s.Dirty().IsDirty(neighbor))
}

func TestChunkStoreRemove(t *testing.T) {
	s := NewChunkStore()
	s.Add(NewIndex(2, 2, 2))
	s.Dirty().Drain()

	require.True(t, s.Remove(NewIndex(2, 2, 2)))
	require.False(t, s.Occupied(NewIndex(2, 2, 2)))
	require.False(t, s.Remove(NewIndex(2, 2, 2)), "removing an already-empty voxel reports no change")

	key := ChunkKey(NewIndex(2, 2, 2))
	require.True(t, s.Dirty().IsDirty(key))
}

func TestDirtyTrackerDrainClearsCache(t *testing.T) {
	var d DirtyTracker
	key := ChunkKey(NewIndex(0, 0, 0))
	d.CachePut(key, "mesh-result")
	d.Mark(key)

	_, ok := d.CacheGet(key)
	require.False(t, ok, "marking a chunk dirty invalidates its cached mesh")

	keys := d.Drain()
	require.Equal(t, []Key{key}, keys)
	require.Empty(t, d.Drain(), "a second drain with nothing new finds nothing")
}

func TestDirtyTrackerCacheClear(t *testing.T) {
	var d DirtyTracker
	key := ChunkKey(NewIndex(0, 0, 0))
	d.CachePut(key, "mesh-result")
	d.CacheClear()
	_, ok := d.CacheGet(key)
	require.False(t, ok)
}
