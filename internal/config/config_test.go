package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsOnly(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 0.2, cfg.Sim.LayerHeight)
	require.Equal(t, 0.4, cfg.Sim.NozzleSize)
	require.Equal(t, "chunked", cfg.Mesh.Backend)
	require.Equal(t, "info", cfg.Log.Level)
}

func TestComputeDerivedResolvesUnitFromLayerHeight(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, cfg.Sim.LayerHeight/2, cfg.Derived.MotionParams.Unit)
	require.Equal(t, cfg.Sim.NozzleSize, cfg.Derived.MotionParams.NozzleSize)
}

func TestLoadOverrideFileMergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "printsim.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sim:\n  nozzle_size: 0.6\nmesh:\n  simplify: true\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 0.6, cfg.Sim.NozzleSize)
	require.True(t, cfg.Mesh.Simplify)
	// unset keys keep their embedded defaults.
	require.Equal(t, 0.2, cfg.Sim.LayerHeight)
	require.Equal(t, "chunked", cfg.Mesh.Backend)
}

func TestLoadOverrideExplicitUnitWins(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "printsim.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sim:\n  unit: 0.05\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 0.05, cfg.Derived.MotionParams.Unit)
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load("/nonexistent/printsim.yaml")
	require.Error(t, err)
}

func TestInitAndCfg(t *testing.T) {
	require.NoError(t, Init(""))
	require.NotNil(t, Cfg())
	require.Equal(t, 0.2, Cfg().Sim.LayerHeight)
}
