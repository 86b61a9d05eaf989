package motion

import (
	"math"

	"github.com/voxtrude/printsim/pkg/gcode"
)

// Vec3 is a float64 3-vector for machine-space positions, in
// millimeters.
type Vec3 struct {
	X, Y, Z float64
}

func (a Vec3) sub(b Vec3) Vec3 {
	return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

func (a Vec3) magnitude() float64 {
	return math.Sqrt(a.X*a.X + a.Y*a.Y + a.Z*a.Z)
}

func (a Vec3) normalize() Vec3 {
	m := a.magnitude()
	if m == 0 {
		return Vec3{}
	}
	return Vec3{a.X / m, a.Y / m, a.Z / m}
}

// State is the motion runner's mutable machine state: current
// position, extruder value, feedrate, elapsed wall time, home offset,
// and the slicer metadata accumulated so far.
type State struct {
	Params Params

	Pos Vec3
	E   float64
	F   float64

	WallSeconds float64

	HomeOffsetX, HomeOffsetY float64
	homeOffsetApplied        bool

	Metadata gcode.Metadata
}

// NewState returns a motion state ready to consume a record stream.
func NewState(params Params) *State {
	return &State{Params: params}
}

// ApplyTypedComment folds a slicer metadata comment into Metadata and,
// the first time the declared bounding box implies the model is not
// already centered, latches a home offset that future Coord records
// will have applied to their X/Y.
func (s *State) ApplyTypedComment(key, value string) {
	s.Metadata.Apply(key, value)
	if !s.homeOffsetApplied && s.Metadata.NeedsHomeOffset() {
		s.HomeOffsetX, s.HomeOffsetY = s.Metadata.HomeOffset()
		s.homeOffsetApplied = true
	}
}
