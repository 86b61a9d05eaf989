package motion

import "github.com/voxtrude/printsim/pkg/voxel"

// TargetStore is the write capability the Extruder needs: Add
// reports whether coord transitioned from empty to occupied, Occupied
// reads current state. Extrude itself only calls Add; the BFS tracks
// visited cells in its own visitedSet.
type TargetStore interface {
	Add(coord voxel.Index) bool
	Occupied(coord voxel.Index) bool
}

// ZRange is a half-open range [Low, High) of voxel Z layers an
// Extruder call is permitted to deposit into.
type ZRange struct {
	Low, High int32
}

func (r ZRange) contains(z int32) bool {
	return z >= r.Low && z < r.High
}

// visitedSet is its own tiny occupancy store, kept separate from the
// target so a cell the target rejected (already solid) is still
// marked visited and never requeued.
type visitedSet struct {
	seen map[voxel.Index]struct{}
}

func newVisitedSet() *visitedSet {
	return &visitedSet{seen: make(map[voxel.Index]struct{})}
}

// add reports whether coord was newly marked visited.
func (v *visitedSet) add(coord voxel.Index) bool {
	if _, ok := v.seen[coord]; ok {
		return false
	}
	v.seen[coord] = struct{}{}
	return true
}

type bfsItem struct {
	pos   voxel.Index
	depth int32
}

// bfsDirections is the fixed enqueue order the BFS visits neighbors
// in, so ties resolve deterministically: +Z,-Z,+X,-X,+Y,-Y. Visiting Z
// first fills vertical bridges between layers before spreading
// laterally, which matches how filament actually builds up a bead.
var bfsDirections = [6]voxel.Index{
	{X: 0, Y: 0, Z: 1},
	{X: 0, Y: 0, Z: -1},
	{X: 1, Y: 0, Z: 0},
	{X: -1, Y: 0, Z: 0},
	{X: 0, Y: 1, Z: 0},
	{X: 0, Y: -1, Z: 0},
}

// Extrude deposits up to n voxels into target, BFS-expanding outward
// from seeds, bounded by zRange and maxDist. Returns the number of
// cells actually deposited (may be less than n if the search space is
// exhausted).
func Extrude(target TargetStore, zRange ZRange, maxDist int32, seeds []voxel.Index, n int) int {
	if n <= 0 {
		return 0
	}

	visited := newVisitedSet()
	queue := make([]bfsItem, 0, len(seeds))
	for _, seed := range seeds {
		if visited.add(seed) {
			queue = append(queue, bfsItem{pos: seed, depth: maxDist})
		}
	}

	deposited := 0
	for head := 0; head < len(queue); head++ {
		item := queue[head]

		if zRange.contains(item.pos.Z) {
			if target.Add(item.pos) {
				deposited++
				if deposited == n {
					return deposited
				}
			}
		}

		if item.depth == 0 {
			continue
		}
		for _, dir := range bfsDirections {
			next := item.pos.Add(dir)
			if !visited.add(next) {
				continue
			}
			queue = append(queue, bfsItem{pos: next, depth: item.depth - 1})
		}
	}
	return deposited
}
