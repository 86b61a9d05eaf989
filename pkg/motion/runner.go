package motion

import (
	"math"

	"github.com/voxtrude/printsim/pkg/gcode"
	"github.com/voxtrude/printsim/pkg/voxel"
)

const epsilon = 1e-6

// LayerHook is called once per Layer record popped off the stack,
// before processing continues, letting a caller snapshot progress
// (e.g. remesh and export) at each layer boundary.
type LayerHook func(layerIndex int)

// Runner converts a reversed stack of parsed G-code records into
// time-stepped motion.
type Runner struct {
	State *State
	store TargetStore

	// pending is the record stack, popped from the back (so records
	// are consumed in their original file order while still allowing
	// O(1) "push the residual segment back").
	pending []gcode.LineRecord

	OnLayer LayerHook
}

// NewRunner builds a Runner over records, which must already be in
// file order; Runner reverses them internally into a pop-from-back
// stack.
func NewRunner(records []gcode.LineRecord, params Params, store TargetStore) *Runner {
	reversed := make([]gcode.LineRecord, len(records))
	for i, r := range records {
		reversed[len(records)-1-i] = r
	}
	return &Runner{
		State:   NewState(params),
		store:   store,
		pending: reversed,
	}
}

// Step advances simulated time by dt seconds, repeatedly popping and
// processing records or sub-segments until the time budget is
// exhausted or the stack empties. Returns true once the stack is
// empty and there is nothing left to process.
func (r *Runner) Step(dt float64) bool {
	for dt > epsilon {
		done, consumed := r.step0(dt)
		if done {
			return true
		}
		dt -= consumed
	}
	return false
}

// step0 pops exactly one record (or re-pushes the tail of one it
// cannot fully execute within dt) and returns (stackEmpty, timeUsed).
func (r *Runner) step0(dt float64) (bool, float64) {
	if len(r.pending) == 0 {
		return true, 0
	}

	rec := r.pending[len(r.pending)-1]
	r.pending = r.pending[:len(r.pending)-1]

	switch rec.Record.Kind {
	case gcode.KindLayer:
		if r.OnLayer != nil {
			r.OnLayer(rec.Record.LayerIndex)
		}
		return false, 0

	case gcode.KindTypedComment:
		r.State.ApplyTypedComment(rec.Record.Key, rec.Record.Value)
		return false, 0
	}

	cur := rec.Record.Coord

	if cur.Major == gcode.MajorPosition {
		if cur.X != nil {
			r.State.Pos.X = *cur.X + r.State.HomeOffsetX
		}
		if cur.Y != nil {
			r.State.Pos.Y = *cur.Y + r.State.HomeOffsetY
		}
		if cur.Z != nil {
			r.State.Pos.Z = *cur.Z
		}
		if cur.E != nil {
			r.State.E = *cur.E
		}
		return false, 0
	}

	prevX, prevY, prevZ := r.State.Pos.X, r.State.Pos.Y, r.State.Pos.Z
	prevE, prevF := r.State.E, r.State.F

	nextX, nextY, nextZ, nextE, nextF := prevX, prevY, prevZ, prevE, prevF
	if cur.X != nil {
		nextX = *cur.X + r.State.HomeOffsetX
	}
	if cur.Y != nil {
		nextY = *cur.Y + r.State.HomeOffsetY
	}
	if cur.Z != nil {
		nextZ = *cur.Z
	}
	if cur.E != nil {
		nextE = *cur.E
	}
	if cur.F != nil {
		nextF = *cur.F
	}

	dx, dy, dz := nextX-prevX, nextY-prevY, nextZ-prevZ
	length := math.Sqrt(dx*dx + dy*dy + dz*dz)
	if length < epsilon {
		return false, 0
	}

	feedrate := nextF
	if feedrate == 0 {
		feedrate = 1800
	}
	stepLen := feedrate / 60 * dt

	if stepLen >= length {
		r.executeSegment(nextX, nextY, nextZ, nextE, nextF)
		return false, dt * length / stepLen
	}

	frac := stepLen / length
	r.executeSegment(
		prevX+dx*frac,
		prevY+dy*frac,
		prevZ+dz*frac,
		prevE+(nextE-prevE)*frac,
		nextF,
	)
	r.pending = append(r.pending, rec)
	return false, dt
}

// executeSegment advances machine state to one fully-resolved
// absolute target: update feedrate, skip travel moves (no extrusion),
// accumulate wall-clock time from the segment length and feedrate,
// reject upward motion mid-extrusion, and deposit voxels along the
// segment for however many filament cross-sections of volume were
// extruded.
func (r *Runner) executeSegment(nextX, nextY, nextZ, nextE, nextF float64) {
	s := r.State
	s.F = nextF

	if nextE <= s.E {
		s.Pos = Vec3{nextX, nextY, nextZ}
		return
	}

	diff := Vec3{nextX - s.Pos.X, nextY - s.Pos.Y, nextZ - s.Pos.Z}
	length := diff.magnitude()
	if length < epsilon {
		return
	}
	dir := diff.normalize()

	s.WallSeconds += length / (s.F / 60)

	if dir.Z > 0 {
		panic("motion: invariant violation: intra-segment upward motion during extrusion")
	}

	deltaE := nextE - s.E
	zTarget := s.Params.IntPos(nextZ)
	zRange := ZRange{Low: zTarget - s.Params.ZOffsetDown(), High: zTarget + ZOffsetUp}

	seeds := buildSeedCells(s.Params, s.Pos, Vec3{nextX, nextY, nextZ}, dir)

	filamentVolume := deltaE * s.Params.FilamentCrossSection()
	blocks := int(filamentVolume / s.Params.BlockVolume())

	if blocks > 0 {
		Extrude(r.store, zRange, s.Params.MaxDist(), seeds, blocks)
	}

	s.Pos = Vec3{nextX, nextY, nextZ}
	s.E = nextE
}

// buildSeedCells rasterizes five parallel nozzle-centerline offsets:
// the centerline itself plus four perpendicular offsets at
// nozzle_size/8 and nozzle_size/6 on either side, approximating the
// nozzle's circular extrusion footprint with a handful of line
// rasterizations instead of a full disc fill.
func buildSeedCells(params Params, from, to, dir Vec3) []voxel.Index {
	perp := Vec3{X: dir.Y, Y: -dir.X, Z: 0}
	offsets := [5]Vec3{
		{},
		{X: perp.X * params.NozzleSize / 8, Y: perp.Y * params.NozzleSize / 8},
		{X: -perp.X * params.NozzleSize / 8, Y: -perp.Y * params.NozzleSize / 8},
		{X: perp.X * params.NozzleSize / 6, Y: perp.Y * params.NozzleSize / 6},
		{X: -perp.X * params.NozzleSize / 6, Y: -perp.Y * params.NozzleSize / 6},
	}

	var cells []voxel.Index
	for _, off := range offsets {
		fromOffset := voxel.NewIndex(
			params.IntPos(from.X+off.X),
			params.IntPos(from.Y+off.Y),
			params.IntPos(from.Z+off.Z),
		)
		toOffset := voxel.NewIndex(
			params.IntPos(to.X+off.X),
			params.IntPos(to.Y+off.Y),
			params.IntPos(to.Z+off.Z),
		)
		cells = append(cells, lineCells(fromOffset, toOffset)...)
	}
	return cells
}

// lineCells rasterizes the integer cells along the segment from p0 to
// p1: a DDA that steps at twice the Euclidean length and emits the
// integer-rounded point whenever it changes.
func lineCells(p0, p1 voxel.Index) []voxel.Index {
	dx := float64(p1.X - p0.X)
	dy := float64(p1.Y - p0.Y)
	dz := float64(p1.Z - p0.Z)

	steps := int(math.Sqrt(dx*dx+dy*dy+dz*dz) * 2)

	cells := make([]voxel.Index, 0, steps+1)
	cur := p0
	cells = append(cells, cur)
	for i := 0; i < steps; i++ {
		x := float64(p0.X) + dx*float64(i)/float64(steps)
		y := float64(p0.Y) + dy*float64(i)/float64(steps)
		z := float64(p0.Z) + dz*float64(i)/float64(steps)
		next := voxel.NewIndex(
			int32(math.Round(x)),
			int32(math.Round(y)),
			int32(math.Round(z)),
		)
		if next == cur {
			continue
		}
		cells = append(cells, next)
		cur = next
	}
	return cells
}
