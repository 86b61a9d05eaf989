// Package stream serializes mesh deltas produced by pkg/mesh into a
// contiguous little-endian wire format. The writers here never touch a
// voxel.ChunkStore: the dirty set is drained, destructively, by the
// pkg/mesh backend that rebuilt the meshes being written.
package stream

import (
	"encoding/binary"
	"io"

	"github.com/voxtrude/printsim/pkg/voxel"
)

// BackendID identifies which meshing backend produced a payload's
// quads/triangles, written as the first field of every frame.
type BackendID uint32

const (
	BackendSurfaceNet BackendID = 1
	BackendGreedy     BackendID = 2
)

// GreedyResult is one chunk's rebuilt greedy mesh, grouped by sweep
// direction the way the wire format lays them out: for each of the 6
// directions, a quad count followed by that many packed quads.
type GreedyResult struct {
	Key        voxel.Key
	Base       voxel.Index
	QuadsByDir [6][]PackedQuad
}

// PackedQuad is one greedy quad's wire encoding: five 6-bit fields.
type PackedQuad struct {
	X, Y, Z, W, H uint8
}

// Pack encodes a PackedQuad into the single uint32 the wire format
// carries per quad: x:6 y:6 z:6 w:6 h:6.
func (q PackedQuad) Pack() uint32 {
	return uint32(q.X&0x3f) |
		uint32(q.Y&0x3f)<<6 |
		uint32(q.Z&0x3f)<<12 |
		uint32(q.W&0x3f)<<18 |
		uint32(q.H&0x3f)<<24
}

// UnpackQuad decodes a wire-format uint32 back into its five 6-bit
// fields.
func UnpackQuad(v uint32) PackedQuad {
	return PackedQuad{
		X: uint8(v & 0x3f),
		Y: uint8((v >> 6) & 0x3f),
		Z: uint8((v >> 12) & 0x3f),
		W: uint8((v >> 18) & 0x3f),
		H: uint8((v >> 24) & 0x3f),
	}
}

// SurfaceNetResult is one chunk's rebuilt surface-nets mesh.
type SurfaceNetResult struct {
	Key       voxel.Key
	Offset    voxel.Vec3
	Positions []voxel.Vec3
	Normals   []voxel.Vec3
	Indices   []uint32
}

// Sink writes streaming mesh payloads to a wire connection. Unit is
// the voxel-to-millimeter scale written into every frame header.
type Sink struct {
	Unit float64
}

// WriteGreedy serializes a batch of greedy-backend results as one
// frame.
func (s Sink) WriteGreedy(w io.Writer, results []GreedyResult) error {
	if err := writeHeader(w, BackendGreedy, s.Unit, len(results)); err != nil {
		return err
	}
	for _, r := range results {
		if err := binary.Write(w, binary.LittleEndian, uint64(r.Key)); err != nil {
			return err
		}
		base := [3]int32{r.Base.X, r.Base.Y, r.Base.Z}
		if err := binary.Write(w, binary.LittleEndian, base); err != nil {
			return err
		}
		for _, quads := range r.QuadsByDir {
			if err := binary.Write(w, binary.LittleEndian, uint32(len(quads))); err != nil {
				return err
			}
			packed := make([]uint32, len(quads))
			for i, q := range quads {
				packed[i] = q.Pack()
			}
			if len(packed) > 0 {
				if err := binary.Write(w, binary.LittleEndian, packed); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// WriteSurfaceNets serializes a batch of surface-nets results as one
// frame.
func (s Sink) WriteSurfaceNets(w io.Writer, results []SurfaceNetResult) error {
	if err := writeHeader(w, BackendSurfaceNet, s.Unit, len(results)); err != nil {
		return err
	}
	for _, r := range results {
		if err := binary.Write(w, binary.LittleEndian, uint64(r.Key)); err != nil {
			return err
		}
		offset := [3]float32{float32(r.Offset.X), float32(r.Offset.Y), float32(r.Offset.Z)}
		if err := binary.Write(w, binary.LittleEndian, offset); err != nil {
			return err
		}

		positions := make([]float32, 0, len(r.Positions)*3)
		for _, p := range r.Positions {
			positions = append(positions, float32(p.X), float32(p.Y), float32(p.Z))
		}
		if err := writeFloatBlock(w, positions); err != nil {
			return err
		}

		normals := make([]float32, 0, len(r.Normals)*3)
		for _, n := range r.Normals {
			normals = append(normals, float32(n.X), float32(n.Y), float32(n.Z))
		}
		if err := writeFloatBlock(w, normals); err != nil {
			return err
		}

		if err := binary.Write(w, binary.LittleEndian, uint32(len(r.Indices))); err != nil {
			return err
		}
		if len(r.Indices) > 0 {
			if err := binary.Write(w, binary.LittleEndian, r.Indices); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeHeader(w io.Writer, backend BackendID, unit float64, dirtyCount int) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(backend)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, float32(unit)); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, uint32(dirtyCount))
}

func writeFloatBlock(w io.Writer, values []float32) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(values))); err != nil {
		return err
	}
	if len(values) == 0 {
		return nil
	}
	return binary.Write(w, binary.LittleEndian, values)
}

// GreedyFromModel converts a voxel.Model produced by GreedyBackend
// into the wire-ready GreedyResult, bucketing its quads by sweep
// direction via each quad's normal and packing coordinates relative
// to the chunk's local origin.
func GreedyFromModel(model *voxel.Model) GreedyResult {
	base := voxel.ChunkBase(model.ID)
	result := GreedyResult{Key: model.ID, Base: base}

	dirIndex := func(n voxel.Vec3) int {
		switch {
		case n.X > 0:
			return 0
		case n.X < 0:
			return 1
		case n.Y > 0:
			return 2
		case n.Y < 0:
			return 3
		case n.Z > 0:
			return 4
		default:
			return 5
		}
	}

	for _, q := range model.Quads {
		v0 := model.Vertices[q.Indices[0]]
		v2 := model.Vertices[q.Indices[2]]
		x := uint8(int32(v0.X) - base.X)
		y := uint8(int32(v0.Y) - base.Y)
		z := uint8(int32(v0.Z) - base.Z)
		w := uint8(absInt(int32(v2.X)-int32(v0.X)) + absInt(int32(v2.Y)-int32(v0.Y)))
		h := uint8(absInt(int32(v2.Z) - int32(v0.Z)))
		idx := dirIndex(q.Normal)
		result.QuadsByDir[idx] = append(result.QuadsByDir[idx], PackedQuad{X: x, Y: y, Z: z, W: w, H: h})
	}
	return result
}

func absInt(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// SurfaceNetFromModel converts a voxel.Model produced by
// SurfaceNetsBackend into the wire-ready SurfaceNetResult.
func SurfaceNetFromModel(model *voxel.Model) SurfaceNetResult {
	return SurfaceNetResult{
		Key:       model.ID,
		Offset:    model.Offset,
		Positions: model.Triangles,
		Normals:   model.Normals,
		Indices:   model.Indices,
	}
}
