package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRootCommandRegistersAllSubcommands(t *testing.T) {
	root := newRootCmd()
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"demo-sphere", "demo-sphere-frames", "demo-extrude", "gcode", "gcode-layers"} {
		require.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestDemoSphereWritesOBJFile(t *testing.T) {
	root := newRootCmd()
	out := filepath.Join(t.TempDir(), "sphere.obj")
	root.SetArgs([]string{"demo-sphere", "--radius", "3", "--out", out})
	require.NoError(t, root.Execute())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.NotEmpty(t, data)
}

func TestDemoExtrudeWritesOBJFile(t *testing.T) {
	root := newRootCmd()
	out := filepath.Join(t.TempDir(), "extrude.obj")
	root.SetArgs([]string{"demo-extrude", "--out", out})
	require.NoError(t, root.Execute())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.NotEmpty(t, data)
}

func TestMutuallyExclusiveBackendFlagsReject(t *testing.T) {
	root := newRootCmd()
	out := filepath.Join(t.TempDir(), "sphere.obj")
	root.SetArgs([]string{"demo-sphere", "--chunked", "--fsn", "--out", out})
	require.Error(t, root.Execute())
}

func TestDemoSphereFramesWritesMultipleFiles(t *testing.T) {
	root := newRootCmd()
	dir := t.TempDir()
	prefix := filepath.Join(dir, "frame")
	root.SetArgs([]string{"demo-sphere-frames", "--radius", "6", "--frames", "3", "--out-prefix", prefix})
	require.NoError(t, root.Execute())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 3, "one file per growth frame")
}

func TestGCodeCommandSimulatesFile(t *testing.T) {
	dir := t.TempDir()
	gcodePath := filepath.Join(dir, "print.gcode")
	require.NoError(t, os.WriteFile(gcodePath, []byte("G1 X5 Y0 Z0 E0.1 F1800\n"), 0o644))

	root := newRootCmd()
	out := filepath.Join(dir, "model.obj")
	root.SetArgs([]string{"gcode", gcodePath, "--out", out})
	require.NoError(t, root.Execute())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.NotEmpty(t, data)
}

func TestGCodeLayersCommandEmitsPerLayerFiles(t *testing.T) {
	dir := t.TempDir()
	gcodePath := filepath.Join(dir, "print.gcode")
	// The layer change lifts Z in a travel move of its own: the runner
	// rejects upward motion while extruding.
	content := ";LAYER:0\nG1 X5 Y0 Z0 E0.1 F1800\n;LAYER:1\nG0 Z0.2\nG1 X5 Y5 E0.2 F1800\n"
	require.NoError(t, os.WriteFile(gcodePath, []byte(content), 0o644))

	root := newRootCmd()
	prefix := filepath.Join(dir, "layer")
	root.SetArgs([]string{"gcode-layers", gcodePath, "--out-prefix", prefix})
	require.NoError(t, root.Execute())

	// LAYER:0 fires before anything is deposited, so the first snapshot
	// is taken when LAYER:1 begins; layer 1's own deposit is flushed to
	// the _final file.
	_, err := os.Stat(prefix + "_0001.obj")
	require.NoError(t, err)
	_, err = os.Stat(prefix + "_final.obj")
	require.NoError(t, err)
}

func TestConfigFlagOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "printsim.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("sim:\n  nozzle_size: 0.8\n"), 0o644))

	root := newRootCmd()
	out := filepath.Join(dir, "sphere.obj")
	root.SetArgs([]string{"--config", cfgPath, "demo-sphere", "--radius", "2", "--out", out})
	require.NoError(t, root.Execute())

	_, err := os.Stat(out)
	require.NoError(t, err)
}
