// Package config loads printsim's runtime configuration: simulation
// physical parameters, meshing options, and log level. Defaults are
// embedded at build time and overridden field-by-field by whatever an
// optional user config file sets.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/voxtrude/printsim/pkg/mesh"
	"github.com/voxtrude/printsim/pkg/motion"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// SimConfig mirrors motion.Params as its YAML-facing form; Unit left
// at 0 means "derive from LayerHeight" (see computeDerived).
type SimConfig struct {
	LayerHeight      float64 `yaml:"layer_height"`
	NozzleSize       float64 `yaml:"nozzle_size"`
	FilamentDiameter float64 `yaml:"filament_diameter"`
	Unit             float64 `yaml:"unit"`
}

// MeshConfig mirrors mesh.Options as its YAML-facing form.
type MeshConfig struct {
	Backend       string  `yaml:"backend"`
	Simplify      bool    `yaml:"simplify"`
	DecimateError float64 `yaml:"decimate_error"`
}

// LogConfig controls the ambient stdlib logger's verbosity.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Config is the full on-disk configuration shape.
type Config struct {
	Sim  SimConfig  `yaml:"sim"`
	Mesh MeshConfig `yaml:"mesh"`
	Log  LogConfig  `yaml:"log"`

	Derived DerivedConfig `yaml:"-"`
}

// DerivedConfig holds values computed once after loading, so callers
// never have to re-derive them.
type DerivedConfig struct {
	MotionParams motion.Params
	MeshOptions  mesh.Options
}

var global *Config

// Init loads configuration from path (embedded defaults only, if
// path is empty) and stores it as the package-global config. Must be
// called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error, for callers that treat a
// bad config file as fatal at startup.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load reads configuration from a YAML file, merging it over the
// embedded defaults (unmarshaling twice into the same struct, so a
// user file only overwrites the keys it sets). If path is empty, only
// the embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	}

	cfg.computeDerived()
	return cfg, nil
}

func (c *Config) computeDerived() {
	unit := c.Sim.Unit
	if unit == 0 {
		unit = c.Sim.LayerHeight / 2
	}
	c.Derived.MotionParams = motion.Params{
		Unit:             unit,
		LayerHeight:      c.Sim.LayerHeight,
		NozzleSize:       c.Sim.NozzleSize,
		FilamentDiameter: c.Sim.FilamentDiameter,
	}
	c.Derived.MeshOptions = mesh.Options{
		Simplify:      c.Mesh.Simplify,
		DecimateError: c.Mesh.DecimateError,
	}
}
