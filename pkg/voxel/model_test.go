package voxel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVertexSetDeduplicatesExactCoordinates(t *testing.T) {
	vs := NewVertexSet()
	a := vs.Add(1, 2, 3)
	b := vs.Add(1, 2, 3)
	c := vs.Add(4, 5, 6)

	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
	require.Len(t, vs.Vertices(), 2)
}
