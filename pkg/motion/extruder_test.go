package motion

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/voxtrude/printsim/pkg/voxel"
)

func TestExtrudeZeroBudgetDepositsNothing(t *testing.T) {
	store := voxel.NewChunkStore()
	n := Extrude(store, ZRange{Low: -100, High: 100}, 10, []voxel.Index{voxel.NewIndex(0, 0, 0)}, 0)
	require.Zero(t, n)
}

func TestExtrudeEmptyZRangeDepositsNothing(t *testing.T) {
	store := voxel.NewChunkStore()
	n := Extrude(store, ZRange{Low: 5, High: 5}, 10, []voxel.Index{voxel.NewIndex(0, 0, 0)}, 10)
	require.Zero(t, n)
}

func TestExtrudeFillsUpToBudget(t *testing.T) {
	store := voxel.NewChunkStore()
	n := Extrude(store, ZRange{Low: -10, High: 10}, 20, []voxel.Index{voxel.NewIndex(0, 0, 0)}, 5)
	require.Equal(t, 5, n)
	require.True(t, store.Occupied(voxel.NewIndex(0, 0, 0)))
}

func TestExtrudeRespectsZRangeBoundary(t *testing.T) {
	store := voxel.NewChunkStore()
	// Seed just outside the allowed range: BFS should still expand
	// through it (visited, not deposited) into the allowed range.
	Extrude(store, ZRange{Low: 0, High: 1}, 4, []voxel.Index{voxel.NewIndex(0, 0, -1)}, 1)
	require.False(t, store.Occupied(voxel.NewIndex(0, 0, -1)), "outside the Z range: never deposited")
}
