package mesh

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/voxtrude/printsim/pkg/voxel"
)

func flatQuad() ([]voxel.Vec3, []uint32) {
	// Four coplanar triangles fanning around the center of a flat
	// square: every edge lies in one plane, so every collapse has zero
	// quadric error.
	verts := []voxel.Vec3{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 1, Y: 1, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: 0.5, Y: 0.5, Z: 0},
	}
	indices := []uint32{0, 1, 4, 1, 2, 4, 2, 3, 4, 3, 0, 4}
	return verts, indices
}

func TestDecimateCollapsesCoplanarGeometry(t *testing.T) {
	verts, indices := flatQuad()
	outVerts, outIndices, _ := Decimate(verts, indices, nil, 1e-6)

	require.LessOrEqual(t, len(outIndices), len(indices))
	require.LessOrEqual(t, len(outVerts), len(verts))
	require.Zero(t, len(outIndices)%3)
}

func TestDecimateNegativeThresholdIsNoOp(t *testing.T) {
	verts, indices := flatQuad()
	outVerts, outIndices, _ := Decimate(verts, indices, nil, -1)
	require.Equal(t, len(verts), len(outVerts))
	require.Equal(t, len(indices), len(outIndices))
}

func TestDecimateEmptyMeshReturnsEmpty(t *testing.T) {
	outVerts, outIndices, outNormals := Decimate(nil, nil, nil, 0.002)
	require.Empty(t, outVerts)
	require.Empty(t, outIndices)
	require.Empty(t, outNormals)
}
