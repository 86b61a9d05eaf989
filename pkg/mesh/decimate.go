package mesh

import (
	"math"
	"sort"

	"github.com/voxtrude/printsim/pkg/voxel"
)

// Decimate reduces a triangle mesh by repeatedly collapsing the edge
// with the lowest estimated error, until the next collapse would
// exceed errorThreshold, then reindexes to drop unreferenced
// vertices. This is a hand-rolled greedy edge collapse using
// per-vertex quadric error metrics, the standard approach described
// by Garland & Heckbert and the one most mesh decimators implement.
//
// Failure mode: collapsing may remove every triangle, in which case
// Decimate returns empty slices — callers must handle an empty mesh
// as a valid (if degenerate) result, not an error.
func Decimate(vertices []voxel.Vec3, indices []uint32, normals []voxel.Vec3, errorThreshold float64) ([]voxel.Vec3, []uint32, []voxel.Vec3) {
	if len(indices) == 0 {
		return vertices, indices, normals
	}

	quadrics := make([]quadric, len(vertices))
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		q := faceQuadric(vertices[a], vertices[b], vertices[c])
		quadrics[a] = quadrics[a].add(q)
		quadrics[b] = quadrics[b].add(q)
		quadrics[c] = quadrics[c].add(q)
	}

	type edge struct{ a, b uint32 }
	edgeSet := make(map[edge]struct{})
	for i := 0; i+2 < len(indices); i += 3 {
		tri := [3]uint32{indices[i], indices[i+1], indices[i+2]}
		for k := 0; k < 3; k++ {
			a, b := tri[k], tri[(k+1)%3]
			if a > b {
				a, b = b, a
			}
			edgeSet[edge{a, b}] = struct{}{}
		}
	}

	type candidate struct {
		a, b uint32
		cost float64
		pos  voxel.Vec3
	}
	candidates := make([]candidate, 0, len(edgeSet))
	for e := range edgeSet {
		q := quadrics[e.a].add(quadrics[e.b])
		pos := midpoint(vertices[e.a], vertices[e.b])
		candidates = append(candidates, candidate{e.a, e.b, q.evaluate(pos), pos})
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].cost < candidates[j].cost })

	remap := make([]uint32, len(vertices))
	for i := range remap {
		remap[i] = uint32(i)
	}
	resolve := func(v uint32) uint32 {
		for remap[v] != v {
			v = remap[v]
		}
		return v
	}

	collapsed := 0
	for _, cand := range candidates {
		if cand.cost > errorThreshold {
			break
		}
		a, b := resolve(cand.a), resolve(cand.b)
		if a == b {
			continue
		}
		vertices[a] = cand.pos
		quadrics[a] = quadrics[a].add(quadrics[b])
		remap[b] = a
		collapsed++
	}
	if collapsed == 0 {
		return vertices, indices, normals
	}

	newIndices := make([]uint32, 0, len(indices))
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := resolve(indices[i]), resolve(indices[i+1]), resolve(indices[i+2])
		if a == b || b == c || a == c {
			continue // degenerate after collapse
		}
		newIndices = append(newIndices, a, b, c)
	}

	return reindex(vertices, newIndices, normals)
}

// reindex drops every vertex not referenced by indices, compacting
// the vertex (and, if present, normal) arrays and remapping indices
// to match.
func reindex(vertices []voxel.Vec3, indices []uint32, normals []voxel.Vec3) ([]voxel.Vec3, []uint32, []voxel.Vec3) {
	used := make(map[uint32]uint32)
	var outVerts []voxel.Vec3
	var outNormals []voxel.Vec3
	hasNormals := len(normals) == len(vertices)

	outIndices := make([]uint32, len(indices))
	for i, idx := range indices {
		newIdx, ok := used[idx]
		if !ok {
			newIdx = uint32(len(outVerts))
			used[idx] = newIdx
			outVerts = append(outVerts, vertices[idx])
			if hasNormals {
				outNormals = append(outNormals, normals[idx])
			}
		}
		outIndices[i] = newIdx
	}
	return outVerts, outIndices, outNormals
}

func midpoint(a, b voxel.Vec3) voxel.Vec3 {
	return voxel.Vec3{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2, Z: (a.Z + b.Z) / 2}
}

// quadric is a symmetric 4x4 error quadric stored as its 10 distinct
// upper-triangular entries (Garland-Heckbert).
type quadric struct {
	a, b, c, d float64
	e, f, g    float64
	h, i       float64
	j          float64
}

func faceQuadric(p0, p1, p2 voxel.Vec3) quadric {
	ux, uy, uz := p1.X-p0.X, p1.Y-p0.Y, p1.Z-p0.Z
	vx, vy, vz := p2.X-p0.X, p2.Y-p0.Y, p2.Z-p0.Z
	nx := uy*vz - uz*vy
	ny := uz*vx - ux*vz
	nz := ux*vy - uy*vx
	length := math.Sqrt(nx*nx + ny*ny + nz*nz)
	if length < 1e-12 {
		return quadric{}
	}
	nx, ny, nz = nx/length, ny/length, nz/length
	d := -(nx*p0.X + ny*p0.Y + nz*p0.Z)

	return quadric{
		a: nx * nx, b: nx * ny, c: nx * nz, d: nx * d,
		e: ny * ny, f: ny * nz, g: ny * d,
		h: nz * nz, i: nz * d,
		j: d * d,
	}
}

func (q quadric) add(o quadric) quadric {
	return quadric{
		a: q.a + o.a, b: q.b + o.b, c: q.c + o.c, d: q.d + o.d,
		e: q.e + o.e, f: q.f + o.f, g: q.g + o.g,
		h: q.h + o.h, i: q.i + o.i,
		j: q.j + o.j,
	}
}

// evaluate returns the quadric error at point p: p^T * Q * p.
func (q quadric) evaluate(p voxel.Vec3) float64 {
	x, y, z := p.X, p.Y, p.Z
	return x*x*q.a + 2*x*y*q.b + 2*x*z*q.c + 2*x*q.d +
		y*y*q.e + 2*y*z*q.f + 2*y*q.g +
		z*z*q.h + 2*z*q.i +
		q.j
}
