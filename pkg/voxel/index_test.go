package voxel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIndexArithmetic(t *testing.T) {
	a := NewIndex(1, -2, 3)
	b := NewIndex(4, 5, -6)

	require.Equal(t, NewIndex(5, 3, -3), a.Add(b))
	require.Equal(t, NewIndex(-3, -7, 9), a.Sub(b))
	require.Equal(t, NewIndex(1, -2, -6), a.Min(b))
	require.Equal(t, NewIndex(4, 5, 3), a.Max(b))
}

func TestIndexShift(t *testing.T) {
	a := NewIndex(33, -33, 64)
	require.Equal(t, NewIndex(1, -2, 2), a.ShiftUp(5))
	require.Equal(t, NewIndex(32, 32, 32), NewIndex(1, 1, 1).ShiftDown(5))
}

func TestBoundingBoxSeedsOnFirstAdd(t *testing.T) {
	var bb BoundingBox
	bb.Add(NewIndex(5, 5, 5))
	require.Equal(t, NewIndex(5, 5, 5), bb.Min)
	require.Equal(t, NewIndex(5, 5, 5), bb.Max)
	require.EqualValues(t, 1, bb.Count)

	bb.Add(NewIndex(-1, 10, 3))
	require.Equal(t, NewIndex(-1, 5, 3), bb.Min)
	require.Equal(t, NewIndex(5, 10, 5), bb.Max)
	require.EqualValues(t, 2, bb.Count)
}
