package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 2048, cfg.Simulation.NumMolecules)
	assert.Equal(t, 7, cfg.Simulation.Substeps)
	assert.Equal(t, 0.515, cfg.Molecule.Scale)
	assert.Equal(t, 0.5, cfg.Molecule.InfluenceRadius)
	assert.Equal(t, 30.0, cfg.Molecule.RestDensity)
	assert.Equal(t, [2]float64{41, 23}, cfg.Container.Scale)
	assert.Equal(t, [2]float64{-16, 0}, cfg.StartBox.Position)
	assert.Equal(t, CollisionTransform, cfg.Collision.Mode)

	assert.Equal(t, mgl32.Vec3{20.5, 11.5, 1}, cfg.Derived.Bounds)
	assert.Greater(t, cfg.Derived.Workers, 0)
	assert.InDelta(t, 0.016666/7, cfg.Derived.SubstepDT32, 1e-7)
}

func TestLoadOverridesOnlyGivenKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.yaml")
	data := []byte("simulation:\n  num_molecules: 500\n  workers: 3\ncollision:\n  mode: bounds\n")
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 500, cfg.Simulation.NumMolecules)
	assert.Equal(t, 3, cfg.Derived.Workers)
	assert.Equal(t, CollisionBounds, cfg.Collision.Mode)
	assert.Equal(t, 7, cfg.Simulation.Substeps, "unspecified keys keep defaults")
	assert.Equal(t, 1.0, cfg.Molecule.Viscosity)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "reading config file")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("simulation: [unterminated"), 0644))
	_, err = Load(bad)
	assert.ErrorContains(t, err, "parsing config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"no molecules", func(c *Config) { c.Simulation.NumMolecules = 0 }, "num_molecules"},
		{"no substeps", func(c *Config) { c.Simulation.Substeps = 0 }, "substeps"},
		{"zero radius", func(c *Config) { c.Molecule.InfluenceRadius = 0 }, "influence_radius"},
		{"negative viscosity", func(c *Config) { c.Molecule.Viscosity = -1 }, "viscosity"},
		{"negative workers", func(c *Config) { c.Simulation.Workers = -2 }, "workers"},
		{"unknown mode", func(c *Config) { c.Collision.Mode = "sphere" }, "collision.mode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			require.NoError(t, err)
			tt.mutate(cfg)

			err = cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	cfg.Molecule.Viscosity = 2.5

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, cfg.WriteYAML(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2.5, loaded.Molecule.Viscosity)
}

func TestCfgBeforeInitPanics(t *testing.T) {
	prev := global
	global = nil
	defer func() { global = prev }()

	assert.Panics(t, func() { Cfg() })
	require.NoError(t, Init(""))
	assert.NotNil(t, Cfg())
}
