package mesh

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/voxtrude/printsim/pkg/voxel"
)

func TestSurfaceNetsEmptyChunkYieldsEmptyModel(t *testing.T) {
	store := voxel.NewChunkStore()
	key := voxel.ChunkKey(voxel.NewIndex(0, 0, 0))
	var backend SurfaceNetsBackend
	model := backend.meshChunk(store, key)
	require.Empty(t, model.Triangles)
	require.Empty(t, model.Indices)
}

func TestSurfaceNetsFilledRegionProducesTriangles(t *testing.T) {
	store := voxel.NewChunkStore()
	for x := int32(2); x < 10; x++ {
		for y := int32(2); y < 10; y++ {
			for z := int32(2); z < 10; z++ {
				store.Add(voxel.NewIndex(x, y, z))
			}
		}
	}
	key := voxel.ChunkKey(voxel.NewIndex(5, 5, 5))
	var backend SurfaceNetsBackend
	model := backend.meshChunk(store, key)

	require.NotEmpty(t, model.Triangles)
	require.NotEmpty(t, model.Indices)
	require.Zero(t, len(model.Indices)%3)
	for _, idx := range model.Indices {
		require.Less(t, int(idx), len(model.Triangles))
	}
}
