package export

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/voxtrude/printsim/pkg/voxel"
)

// gltfAsset through gltfScene model exactly the subset of the glTF 2.0
// JSON schema this writer emits: one buffer, one bufferView+accessor
// trio per attribute, one material, and one mesh/node per input
// voxel.Model.
type gltfAsset struct {
	Version string `json:"version"`
}

type gltfBuffer struct {
	ByteLength int `json:"byteLength"`
}

type gltfBufferView struct {
	Buffer     int `json:"buffer"`
	ByteOffset int `json:"byteOffset"`
	ByteLength int `json:"byteLength"`
	Target     int `json:"target,omitempty"`
}

type gltfAccessor struct {
	BufferView    int    `json:"bufferView"`
	ComponentType int    `json:"componentType"`
	Count         int    `json:"count"`
	Type          string `json:"type"`
	Max           []float64 `json:"max,omitempty"`
	Min           []float64 `json:"min,omitempty"`
}

type gltfPBR struct {
	BaseColorFactor [4]float64 `json:"baseColorFactor"`
}

type gltfMaterial struct {
	Name                string  `json:"name"`
	PBRMetallicRoughness gltfPBR `json:"pbrMetallicRoughness"`
}

type gltfPrimitive struct {
	Attributes map[string]int `json:"attributes"`
	Indices    int            `json:"indices"`
	Material   int            `json:"material"`
}

type gltfMesh struct {
	Name       string          `json:"name"`
	Primitives []gltfPrimitive `json:"primitives"`
}

type gltfNode struct {
	Name        string    `json:"name"`
	Mesh        *int      `json:"mesh,omitempty"`
	Translation []float64 `json:"translation,omitempty"`
}

type gltfScene struct {
	Nodes []int `json:"nodes"`
}

type gltfDocument struct {
	Asset       gltfAsset        `json:"asset"`
	Scene       int              `json:"scene"`
	Scenes      []gltfScene      `json:"scenes"`
	Nodes       []gltfNode       `json:"nodes"`
	Meshes      []gltfMesh       `json:"meshes"`
	Materials   []gltfMaterial   `json:"materials"`
	Accessors   []gltfAccessor   `json:"accessors"`
	BufferViews []gltfBufferView `json:"bufferViews"`
	Buffers     []gltfBuffer     `json:"buffers"`
}

const (
	componentTypeFloat  = 5126
	componentTypeUint32 = 5125

	targetArrayBuffer        = 34962
	targetElementArrayBuffer = 34963
)

// remap converts a lattice-space point (x,y,z) to glTF's right-handed
// Y-up convention: (x,y,z) -> (x,z,-y). Uses mgl32.Vec3 since output
// here is single-precision glTF buffer data rather than the
// accumulated physical state pkg/motion tracks in float64.
func remap(v voxel.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{float32(v.X), float32(v.Z), float32(-v.Y)}
}

// WriteGLB writes models as a single binary glTF (.glb) file: one
// mesh per model (quad faces triangulated as two triangles each, or
// raw triangles for surface-nets output), all sharing one "red"
// material, axis-remapped to glTF's Y-up convention.
func WriteGLB(w io.Writer, models []*voxel.Model) error {
	var bin bytes.Buffer
	doc := gltfDocument{
		Asset:     gltfAsset{Version: "2.0"},
		Scene:     0,
		Scenes:    []gltfScene{{}},
		Materials: []gltfMaterial{{Name: "red", PBRMetallicRoughness: gltfPBR{BaseColorFactor: [4]float64{1.0, 0.2, 0.2, 1.0}}}},
	}

	for i, m := range models {
		positions, normals, indices := modelTriangles(m)
		if len(positions) == 0 {
			continue
		}

		attrs := map[string]int{
			"POSITION": addVec3Accessor(&doc, &bin, positions, true),
		}
		if len(normals) == len(positions) {
			attrs["NORMAL"] = addVec3Accessor(&doc, &bin, normals, false)
		}
		indexAccessor := addIndexAccessor(&doc, &bin, indices)

		meshIdx := len(doc.Meshes)
		doc.Meshes = append(doc.Meshes, gltfMesh{
			Name: fmt.Sprintf("model_%d", i),
			Primitives: []gltfPrimitive{{
				Attributes: attrs,
				Indices:    indexAccessor,
				Material:   0,
			}},
		})

		nodeIdx := len(doc.Nodes)
		mi := meshIdx
		doc.Nodes = append(doc.Nodes, gltfNode{
			Name: fmt.Sprintf("node_%d", i),
			Mesh: &mi,
		})
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, nodeIdx)
	}

	doc.Buffers = []gltfBuffer{{ByteLength: bin.Len()}}

	jsonBytes, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return writeGLBContainer(w, jsonBytes, bin.Bytes())
}

// modelTriangles flattens a voxel.Model's geometry (quads or raw
// triangles, whichever is populated) into a single position/normal/
// index triple, still in lattice axes: addVec3Accessor applies the
// glTF Y-up remap when it writes the values out.
func modelTriangles(m *voxel.Model) (positions, normals []voxel.Vec3, indices []uint32) {
	if len(m.Triangles) > 0 {
		return m.Triangles, m.Normals, m.Indices
	}
	if len(m.Quads) == 0 {
		return nil, nil, nil
	}
	positions = m.Vertices
	for _, q := range m.Quads {
		i0, i1, i2, i3 := q.Indices[0], q.Indices[1], q.Indices[2], q.Indices[3]
		indices = append(indices, i0, i2, i1, i0, i3, i2)
	}
	return positions, nil, indices
}

func addVec3Accessor(doc *gltfDocument, bin *bytes.Buffer, values []voxel.Vec3, withBounds bool) int {
	byteOffset := bin.Len()
	minV := [3]float64{values[0].X, values[0].Y, values[0].Z}
	maxV := minV
	for _, v := range values {
		p := remap(v)
		binary.Write(bin, binary.LittleEndian, p)
		if withBounds {
			minV[0], maxV[0] = minMax(minV[0], maxV[0], float64(p[0]))
			minV[1], maxV[1] = minMax(minV[1], maxV[1], float64(p[1]))
			minV[2], maxV[2] = minMax(minV[2], maxV[2], float64(p[2]))
		}
	}

	viewIdx := len(doc.BufferViews)
	doc.BufferViews = append(doc.BufferViews, gltfBufferView{
		Buffer: 0, ByteOffset: byteOffset, ByteLength: bin.Len() - byteOffset, Target: targetArrayBuffer,
	})

	accessor := gltfAccessor{
		BufferView: viewIdx, ComponentType: componentTypeFloat, Count: len(values), Type: "VEC3",
	}
	if withBounds {
		accessor.Min = minV[:]
		accessor.Max = maxV[:]
	}
	doc.Accessors = append(doc.Accessors, accessor)
	return len(doc.Accessors) - 1
}

func addIndexAccessor(doc *gltfDocument, bin *bytes.Buffer, indices []uint32) int {
	byteOffset := bin.Len()
	for _, idx := range indices {
		binary.Write(bin, binary.LittleEndian, idx)
	}

	viewIdx := len(doc.BufferViews)
	doc.BufferViews = append(doc.BufferViews, gltfBufferView{
		Buffer: 0, ByteOffset: byteOffset, ByteLength: bin.Len() - byteOffset, Target: targetElementArrayBuffer,
	})
	doc.Accessors = append(doc.Accessors, gltfAccessor{
		BufferView: viewIdx, ComponentType: componentTypeUint32, Count: len(indices), Type: "SCALAR",
	})
	return len(doc.Accessors) - 1
}

func minMax(curMin, curMax, v float64) (float64, float64) {
	if v < curMin {
		curMin = v
	}
	if v > curMax {
		curMax = v
	}
	return curMin, curMax
}

// writeGLBContainer wraps jsonChunk and binChunk in the binary glTF
// container: a 12-byte header (magic "glTF", version 2, total
// length) followed by the JSON chunk and the BIN chunk, each
// individually length-prefixed and 4-byte padded.
func writeGLBContainer(w io.Writer, jsonChunk, binChunk []byte) error {
	jsonChunk = padChunk(jsonChunk, ' ')
	binChunk = padChunk(binChunk, 0)

	total := 12 + 8 + len(jsonChunk) + 8 + len(binChunk)

	if err := binary.Write(w, binary.LittleEndian, uint32(0x46546c67)); err != nil { // "glTF"
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(2)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(total)); err != nil {
		return err
	}

	if err := writeChunk(w, 0x4e4f534a, jsonChunk); err != nil { // "JSON"
		return err
	}
	return writeChunk(w, 0x004e4942, binChunk) // "BIN\0"
}

func writeChunk(w io.Writer, chunkType uint32, data []byte) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(data))); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, chunkType); err != nil {
		return err
	}
	_, err := w.Write(data)
	return err
}

func padChunk(data []byte, pad byte) []byte {
	for len(data)%4 != 0 {
		data = append(data, pad)
	}
	return data
}
