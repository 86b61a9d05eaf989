package stream

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/voxtrude/printsim/pkg/voxel"
)

func TestPackedQuadRoundTrip(t *testing.T) {
	q := PackedQuad{X: 5, Y: 63, Z: 0, W: 31, H: 17}
	require.Equal(t, q, UnpackQuad(q.Pack()))
}

func TestWriteGreedyHeader(t *testing.T) {
	var buf bytes.Buffer
	sink := Sink{Unit: 0.1}
	err := sink.WriteGreedy(&buf, nil)
	require.NoError(t, err)

	var backend, dirtyCount uint32
	var unit float32
	require.NoError(t, binary.Read(&buf, binary.LittleEndian, &backend))
	require.NoError(t, binary.Read(&buf, binary.LittleEndian, &unit))
	require.NoError(t, binary.Read(&buf, binary.LittleEndian, &dirtyCount))

	require.EqualValues(t, BackendGreedy, backend)
	require.InDelta(t, 0.1, unit, 1e-6)
	require.Zero(t, dirtyCount)
}

func TestWriteGreedyOneChunk(t *testing.T) {
	var buf bytes.Buffer
	sink := Sink{Unit: 1}
	result := GreedyResult{Key: voxel.ChunkKey(voxel.NewIndex(0, 0, 0)), Base: voxel.NewIndex(0, 0, 0)}
	result.QuadsByDir[0] = []PackedQuad{{X: 1, Y: 2, Z: 3, W: 4, H: 5}}

	require.NoError(t, sink.WriteGreedy(&buf, []GreedyResult{result}))
	require.NotZero(t, buf.Len())
}

func TestWriteSurfaceNetsRoundTripsLengths(t *testing.T) {
	var buf bytes.Buffer
	sink := Sink{Unit: 0.1}
	result := SurfaceNetResult{
		Key:       voxel.ChunkKey(voxel.NewIndex(0, 0, 0)),
		Offset:    voxel.Vec3{X: 16, Y: 16, Z: 16},
		Positions: []voxel.Vec3{{X: 1, Y: 2, Z: 3}},
		Normals:   []voxel.Vec3{{X: 0, Y: 0, Z: 1}},
		Indices:   []uint32{0, 0, 0},
	}
	require.NoError(t, sink.WriteSurfaceNets(&buf, []SurfaceNetResult{result}))

	// header(12) + key(8) + offset(12) + three blocks of count(4) + 3 values(12).
	data := buf.Bytes()
	require.Len(t, data, 80)
	require.EqualValues(t, 3, binary.LittleEndian.Uint32(data[32:36]), "position floats")
	require.EqualValues(t, 3, binary.LittleEndian.Uint32(data[48:52]), "normal floats")
	require.EqualValues(t, 3, binary.LittleEndian.Uint32(data[64:68]), "triangle indices")
}
