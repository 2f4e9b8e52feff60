// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/molecules/sph"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Collision modes.
const (
	CollisionTransform = "transform" // rotatable container
	CollisionBounds    = "bounds"    // axis-aligned box around the origin
)

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Simulation SimulationConfig `yaml:"simulation"`
	Molecule   MoleculeConfig   `yaml:"molecule"`
	Container  ContainerConfig  `yaml:"container"`
	StartBox   BoxConfig        `yaml:"start_box"`
	Collision  CollisionConfig  `yaml:"collision"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Render     RenderConfig     `yaml:"render"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// SimulationConfig holds stepping parameters.
type SimulationConfig struct {
	NumMolecules int     `yaml:"num_molecules"`
	Substeps     int     `yaml:"substeps"`
	DT           float64 `yaml:"dt"`           // frame time used when running headless
	MaxFrameDT   float64 `yaml:"max_frame_dt"` // clamp for windowed frame time
	Workers      int     `yaml:"workers"`      // 0 = half the logical CPUs
	Seed         int64   `yaml:"seed"`         // 0 = time based
}

// MoleculeConfig holds the fluid parameters.
type MoleculeConfig struct {
	Scale           float64 `yaml:"scale"` // drawn diameter
	InfluenceRadius float64 `yaml:"influence_radius"`
	Viscosity       float64 `yaml:"viscosity"`
	RestDensity     float64 `yaml:"rest_density"`
}

// ContainerConfig places the container in the world.
type ContainerConfig struct {
	Position [2]float64 `yaml:"position"`
	Rotation float64    `yaml:"rotation"` // degrees
	Scale    [2]float64 `yaml:"scale"`
}

// BoxConfig is an axis-aligned region given by center and size.
type BoxConfig struct {
	Position [2]float64 `yaml:"position"`
	Scale    [2]float64 `yaml:"scale"`
}

// CollisionConfig selects the collision resolver.
type CollisionConfig struct {
	Mode string `yaml:"mode"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`          // simulated seconds per stats record
	PerfCollectorWindow int     `yaml:"perf_collector_window"` // updates in the rolling perf window
}

// RenderConfig holds drawing parameters shared by the window and terminal views.
type RenderConfig struct {
	PixelsPerUnit float64 `yaml:"pixels_per_unit"`
	SpeedColorMax float64 `yaml:"speed_color_max"` // speed mapped to the hot end of the palette
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32          float32    // Simulation.DT as float32
	SubstepDT32   float32    // DT32 / Substeps
	Bounds        mgl32.Vec3 // container half extents, z placeholder 1
	Workers       int        // resolved worker count
	ScreenW32     float32
	ScreenH32     float32
	SpeedColorMax float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
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

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	cfg.computeDerived()

	return cfg, nil
}

// Validate reports every value the simulation cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Simulation.NumMolecules <= 0 {
		errs = append(errs, fmt.Errorf("simulation.num_molecules must be positive, got %d", c.Simulation.NumMolecules))
	}
	if c.Simulation.Substeps <= 0 {
		errs = append(errs, fmt.Errorf("simulation.substeps must be positive, got %d", c.Simulation.Substeps))
	}
	if c.Simulation.DT <= 0 {
		errs = append(errs, fmt.Errorf("simulation.dt must be positive, got %v", c.Simulation.DT))
	}
	if c.Simulation.Workers < 0 {
		errs = append(errs, fmt.Errorf("simulation.workers must not be negative, got %d", c.Simulation.Workers))
	}
	if c.Molecule.InfluenceRadius <= 0 {
		errs = append(errs, fmt.Errorf("molecule.influence_radius must be positive, got %v", c.Molecule.InfluenceRadius))
	}
	if c.Molecule.Viscosity < 0 {
		errs = append(errs, fmt.Errorf("molecule.viscosity must not be negative, got %v", c.Molecule.Viscosity))
	}
	switch c.Collision.Mode {
	case CollisionTransform, CollisionBounds:
	default:
		errs = append(errs, fmt.Errorf("collision.mode %q is not %q or %q", c.Collision.Mode, CollisionTransform, CollisionBounds))
	}
	if c.Telemetry.StatsWindow <= 0 {
		errs = append(errs, fmt.Errorf("telemetry.stats_window must be positive, got %v", c.Telemetry.StatsWindow))
	}
	return errors.Join(errs...)
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Simulation.DT)
	c.Derived.SubstepDT32 = c.Derived.DT32 / float32(c.Simulation.Substeps)
	c.Derived.Bounds = mgl32.Vec3{
		float32(c.Container.Scale[0] * 0.5),
		float32(c.Container.Scale[1] * 0.5),
		1,
	}
	c.Derived.Workers = c.Simulation.Workers
	if c.Derived.Workers == 0 {
		c.Derived.Workers = sph.DefaultWorkers()
	}
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
	c.Derived.SpeedColorMax = float32(c.Render.SpeedColorMax)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
