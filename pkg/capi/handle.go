// Package capi is the C-ABI surface of printsim: a handle table guarding
// a Runner (parsed G-code, voxel store, mesh backend, and dirty-mesh
// byte buffer) behind a mutex. A plain Go map keyed by an opaque
// uint64 handle stands in for a shared pointer, since cgo callers only
// ever hold an integer, never a Go pointer; the registry mutex guards
// the map itself while each Runner's own mutex guards its state.
package capi

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/voxtrude/printsim/pkg/gcode"
	"github.com/voxtrude/printsim/pkg/mesh"
	"github.com/voxtrude/printsim/pkg/motion"
	"github.com/voxtrude/printsim/pkg/stream"
	"github.com/voxtrude/printsim/pkg/voxel"
)

// Runner bundles everything one C-ABI handle owns: the time-stepped
// motion runner, the voxel store it writes into, the meshing backend
// that turns dirty chunks into geometry, and the wire sink that
// serializes that geometry into buf for runner_retrieve.
type Runner struct {
	mu sync.RWMutex

	motion  *motion.Runner
	store   *voxel.ChunkStore
	backend mesh.Backend
	sink    stream.Sink

	backendID stream.BackendID
	buf       []byte
}

var (
	registryMu sync.RWMutex
	registry   = map[uint64]*Runner{}
	nextHandle uint64
)

// New parses gcodeSource, builds a Runner with the given parameters and
// mesh options, registers it, and returns its handle. backendID selects
// the wire format runner_retrieve will emit.
func New(gcodeSource string, params motion.Params, meshOpts mesh.Options, backendID stream.BackendID) (uint64, error) {
	records, err := gcode.Parse(strings.NewReader(gcodeSource))
	if err != nil {
		return 0, fmt.Errorf("capi: parsing gcode: %w", err)
	}

	store := voxel.NewChunkStore()
	var backend mesh.Backend
	switch backendID {
	case stream.BackendSurfaceNet:
		backend = mesh.SurfaceNetsBackend{Options: meshOpts}
	default:
		backend = mesh.GreedyBackend{}
	}

	r := &Runner{
		motion:    motion.NewRunner(records, params, store),
		store:     store,
		backend:   backend,
		sink:      stream.Sink{Unit: params.Unit},
		backendID: backendID,
	}

	registryMu.Lock()
	nextHandle++
	handle := nextHandle
	registry[handle] = r
	registryMu.Unlock()

	return handle, nil
}

// Delete releases a handle. Steps or retrieves against a deleted handle
// are no-ops, since lookup simply returns nil for an unknown handle.
func Delete(handle uint64) {
	registryMu.Lock()
	delete(registry, handle)
	registryMu.Unlock()
}

func lookup(handle uint64) *Runner {
	registryMu.RLock()
	r := registry[handle]
	registryMu.RUnlock()
	return r
}

// Step advances handle's simulation by dt seconds. It returns the
// number of bytes now waiting in the handle's retrieve buffer (0 once
// the print has finished; otherwise at least a frame header, whose
// dirty count is 0 when dt produced no new geometry), and the nozzle's
// current position.
func Step(handle uint64, dt float64) (bytesReady uint64, pos [3]float64, err error) {
	r := lookup(handle)
	if r == nil {
		return 0, pos, fmt.Errorf("capi: unknown handle %d", handle)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	finished := r.motion.Step(dt)
	p := r.motion.State.Pos
	pos = [3]float64{p.X, p.Y, p.Z}
	if finished {
		return 0, pos, nil
	}

	models, err := r.backend.RebuildDirty(r.store)
	if err != nil {
		return 0, pos, fmt.Errorf("capi: rebuilding mesh: %w", err)
	}

	var buf bytes.Buffer
	switch r.backendID {
	case stream.BackendSurfaceNet:
		results := make([]stream.SurfaceNetResult, 0, len(models))
		for _, m := range models {
			results = append(results, stream.SurfaceNetFromModel(m))
		}
		if err := r.sink.WriteSurfaceNets(&buf, results); err != nil {
			return 0, pos, fmt.Errorf("capi: writing surface-net frame: %w", err)
		}
	default:
		results := make([]stream.GreedyResult, 0, len(models))
		for _, m := range models {
			results = append(results, stream.GreedyFromModel(m))
		}
		if err := r.sink.WriteGreedy(&buf, results); err != nil {
			return 0, pos, fmt.Errorf("capi: writing greedy frame: %w", err)
		}
	}

	r.buf = buf.Bytes()
	return uint64(len(r.buf)), pos, nil
}

// Retrieve copies the handle's pending frame into dst. dst must be
// exactly the length Step just reported; a mismatch is a no-op rather
// than a partial copy, so a caller with a stale buffer size fails
// loudly (empty output) instead of silently truncating.
func Retrieve(handle uint64, dst []byte) {
	r := lookup(handle)
	if r == nil {
		return
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(dst) != len(r.buf) {
		return
	}
	copy(dst, r.buf)
}

// SetWriteOptions swaps the handle's mesh options (e.g. toggling
// Simplify) without resetting the voxel store or motion state.
func SetWriteOptions(handle uint64, opts mesh.Options) {
	r := lookup(handle)
	if r == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.backendID {
	case stream.BackendSurfaceNet:
		r.backend = mesh.SurfaceNetsBackend{Options: opts}
	default:
		// GreedyBackend ignores Options entirely (see pkg/mesh/backend.go).
	}
}
