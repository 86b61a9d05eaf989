package mesh

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/voxtrude/printsim/pkg/voxel"
)

func TestMeshChunkEmptyChunkYieldsEmptyModel(t *testing.T) {
	store := voxel.NewChunkStore()
	key := voxel.ChunkKey(voxel.NewIndex(0, 0, 0))
	model := MeshChunk(store, key)
	require.Empty(t, model.Quads)
	require.Empty(t, model.Vertices)
}

func TestMeshChunkSingleVoxelProducesSixQuads(t *testing.T) {
	store := voxel.NewChunkStore()
	store.Add(voxel.NewIndex(5, 5, 5))
	key := voxel.ChunkKey(voxel.NewIndex(5, 5, 5))

	model := MeshChunk(store, key)
	require.Len(t, model.Quads, 6, "an isolated voxel has 6 exposed faces")

	for _, q := range model.Quads {
		require.Len(t, model.Vertices, 8) // vertices deduped: the 8 cube corners
		for _, idx := range q.Indices {
			require.Less(t, int(idx), len(model.Vertices))
		}
	}
}

func TestMeshChunkTwoAdjacentVoxelsShareNoInternalFace(t *testing.T) {
	store := voxel.NewChunkStore()
	store.Add(voxel.NewIndex(5, 5, 5))
	store.Add(voxel.NewIndex(6, 5, 5))
	key := voxel.ChunkKey(voxel.NewIndex(5, 5, 5))

	model := MeshChunk(store, key)
	// Two adjacent voxels: 12 faces total minus the 2 shared internal
	// faces = 10 unit faces, and the greedy merge joins each coplanar
	// pair on the 4 long sides into one 1x2 quad, leaving 6 quads.
	require.Len(t, model.Quads, 6)
}

func TestRebuildDirtyDrainsAndCaches(t *testing.T) {
	store := voxel.NewChunkStore()
	store.Add(voxel.NewIndex(1, 1, 1))

	var backend GreedyBackend
	results, err := backend.RebuildDirty(store)
	require.NoError(t, err)
	require.Len(t, results, 1)

	key := voxel.ChunkKey(voxel.NewIndex(1, 1, 1))
	cached, ok := store.Dirty().CacheGet(key)
	require.True(t, ok, "the rebuilt mesh is cached on the store's tracker")
	require.Same(t, results[key], cached)

	results2, err := backend.RebuildDirty(store)
	require.NoError(t, err)
	require.Empty(t, results2, "nothing dirty after the first drain")
}
