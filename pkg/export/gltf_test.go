package export

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/voxtrude/printsim/pkg/voxel"
)

func TestWriteGLBProducesValidContainer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteGLB(&buf, []*voxel.Model{cubeModel()}))

	data := buf.Bytes()
	require.GreaterOrEqual(t, len(data), 20)

	magic := binary.LittleEndian.Uint32(data[0:4])
	require.EqualValues(t, 0x46546c67, magic)

	version := binary.LittleEndian.Uint32(data[4:8])
	require.EqualValues(t, 2, version)

	total := binary.LittleEndian.Uint32(data[8:12])
	require.EqualValues(t, len(data), total)

	jsonLen := binary.LittleEndian.Uint32(data[12:16])
	require.Zero(t, jsonLen%4)
}

func TestWriteGLBEmptyModelsStillValid(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteGLB(&buf, nil))
	require.GreaterOrEqual(t, buf.Len(), 20)
}
