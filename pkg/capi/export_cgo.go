//go:build cgo

package capi

/*
#include <stdint.h>
*/
import "C"

import (
	"unsafe"

	"github.com/voxtrude/printsim/pkg/mesh"
	"github.com/voxtrude/printsim/pkg/motion"
	"github.com/voxtrude/printsim/pkg/stream"
)

// runner_new parses the UTF-8 G-code text at gcodePtr (gcodeLen bytes)
// and constructs a Runner with default parameters, registering it
// under a new handle. Returns 0 on parse failure; 0 is never a valid
// handle since the registry's handle counter starts at 1.
//
//export runner_new
func runner_new(gcodePtr *C.char, gcodeLen C.uint32_t, backendID C.uint32_t) C.uint64_t {
	src := C.GoStringN(gcodePtr, C.int(gcodeLen))
	handle, err := New(src, motion.DefaultParams(), mesh.DefaultOptions(), stream.BackendID(backendID))
	if err != nil {
		return 0
	}
	return C.uint64_t(handle)
}

//export runner_delete
func runner_delete(handle C.uint64_t) {
	Delete(uint64(handle))
}

// runner_step advances handle by dt seconds and writes the nozzle's
// current [x,y,z] into pos (which must point at 3 contiguous floats).
// Returns the number of bytes now waiting in the retrieve buffer.
//
//export runner_step
func runner_step(handle C.uint64_t, dt C.float, pos *C.float) C.uint64_t {
	n, p, err := Step(uint64(handle), float64(dt))
	if err != nil {
		return 0
	}
	out := (*[3]C.float)(unsafe.Pointer(pos))
	out[0] = C.float(p[0])
	out[1] = C.float(p[1])
	out[2] = C.float(p[2])
	return C.uint64_t(n)
}

// runner_retrieve copies the handle's pending frame (exactly length
// bytes, as returned by the preceding runner_step call) into buf.
//
//export runner_retrieve
func runner_retrieve(handle C.uint64_t, buf *C.uint8_t, length C.uint64_t) {
	dst := unsafe.Slice((*byte)(unsafe.Pointer(buf)), int(length))
	Retrieve(uint64(handle), dst)
}

//export runner_set_params
func runner_set_params(handle C.uint64_t, unit, layerHeight, nozzleSize, filamentDiameter C.double) {
	r := lookup(uint64(handle))
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.motion.State.Params = motion.Params{
		Unit:             float64(unit),
		LayerHeight:      float64(layerHeight),
		NozzleSize:       float64(nozzleSize),
		FilamentDiameter: float64(filamentDiameter),
	}
}

//export runner_set_write_options
func runner_set_write_options(handle C.uint64_t, simplify C.int, decimateError C.double) {
	SetWriteOptions(uint64(handle), mesh.Options{
		Simplify:      simplify != 0,
		DecimateError: float64(decimateError),
	})
}
