// Package scene owns a fluid solver together with its container, starting box
// and tunables, and steps it frame by frame.
package scene

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/molecules/config"
	"github.com/pthm-cable/molecules/sph"
)

// Recorder times solver updates. telemetry.PerfCollector satisfies it.
type Recorder interface {
	sph.PhaseRecorder
	StartTick()
	EndTick()
}

// Options configure a new scene.
type Options struct {
	NumMolecules int
	Substeps     int
	Workers      int
	Seed         int64
	Settings     Settings
}

// OptionsFromConfig builds scene options from a loaded config. seed overrides
// the configured seed when non-zero; if both are zero the clock seeds it.
func OptionsFromConfig(cfg *config.Config, seed int64) Options {
	if seed == 0 {
		seed = cfg.Simulation.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return Options{
		NumMolecules: cfg.Simulation.NumMolecules,
		Substeps:     cfg.Simulation.Substeps,
		Workers:      cfg.Derived.Workers,
		Seed:         seed,
		Settings:     SettingsFromConfig(cfg),
	}
}

// Scene is a fluid simulation with its surroundings. Not safe for concurrent use.
type Scene struct {
	Settings Settings

	solver   *sph.Solver
	sampler  sampler
	seed     int64
	substeps int
	paused   bool
	recorder Recorder
}

// New creates a scene and scatters its molecules in the starting box.
// The scene starts paused.
func New(opts Options) *Scene {
	substeps := opts.Substeps
	if substeps < 1 {
		substeps = 1
	}

	s := &Scene{
		Settings: opts.Settings,
		solver:   sph.NewSolver(sph.Options{NumMolecules: opts.NumMolecules, Workers: opts.Workers}),
		sampler:  sampler{r: rand.New(rand.NewSource(opts.Seed))},
		seed:     opts.Seed,
		substeps: substeps,
	}
	s.Reset()
	return s
}

// SetRecorder installs a timing hook for solver updates. A nil interface
// removes it; a nil pointer wrapped in the interface is not allowed.
func (s *Scene) SetRecorder(r Recorder) {
	s.recorder = r
	s.solver.SetRecorder(r)
}

// Frame advances the scene by dt split into equal substeps and returns the
// number of substeps run, which is zero while paused.
func (s *Scene) Frame(dt float32) int {
	if s.paused || dt <= 0 {
		return 0
	}

	params := s.Params()
	sub := dt / float32(s.substeps)
	for i := 0; i < s.substeps; i++ {
		if s.recorder != nil {
			s.recorder.StartTick()
		}
		s.solver.Update(sub, params)
		if s.recorder != nil {
			s.recorder.EndTick()
		}
	}
	return s.substeps
}

// Reset pauses the scene and scatters every molecule at rest in the starting box.
func (s *Scene) Reset() {
	s.paused = true
	box := s.StartBox()
	s.solver.Reset(box, s.sampler)
	slog.Info("scene reset",
		"molecules", s.solver.Len(),
		"box_center", []float32{box.Center[0], box.Center[1]},
		"box_size", []float32{box.Size[0], box.Size[1]},
	)
}

// Paused reports whether Frame is a no-op.
func (s *Scene) Paused() bool {
	return s.paused
}

// SetPaused pauses or resumes the scene.
func (s *Scene) SetPaused(paused bool) {
	if s.paused == paused {
		return
	}
	s.paused = paused
	slog.Debug("scene pause changed", "paused", paused)
}

// TogglePause flips the paused state.
func (s *Scene) TogglePause() {
	s.SetPaused(!s.paused)
}

// Container returns the container built from the current settings.
func (s *Scene) Container() sph.Container {
	st := &s.Settings
	return sph.NewContainer(
		st.ContainerPosition,
		st.ContainerRotation,
		mgl32.Vec3{st.ContainerScale[0], st.ContainerScale[1], 1},
	)
}

// StartBox returns the region molecules are scattered in on reset.
func (s *Scene) StartBox() sph.Box {
	return sph.Box{Center: s.Settings.BoxPosition, Size: s.Settings.BoxScale}
}

// Bounds returns the container half extents with a z placeholder of 1.
func (s *Scene) Bounds() mgl32.Vec3 {
	return mgl32.Vec3{s.Settings.ContainerScale[0] * 0.5, s.Settings.ContainerScale[1] * 0.5, 1}
}

// Resolver returns the collision resolver for the configured mode.
func (s *Scene) Resolver() sph.CollisionResolver {
	if s.Settings.CollisionMode == config.CollisionBounds {
		return sph.BoundsResolver{HalfExtents: s.Bounds(), MoleculeScale: s.Settings.MoleculeScale}
	}
	return s.Container()
}

// Params returns the solver parameters for the current settings.
func (s *Scene) Params() sph.Params {
	return sph.Params{
		MoleculeScale:   s.Settings.MoleculeScale,
		InfluenceRadius: s.Settings.InfluenceRadius,
		Viscosity:       s.Settings.Viscosity,
		RestDensity:     s.Settings.RestDensity,
		Bounds:          s.Bounds(),
		Resolver:        s.Resolver(),
	}
}

// Particles returns the molecules. Valid until the next Frame.
func (s *Scene) Particles() []sph.Particle {
	return s.solver.Particles()
}

// Len returns the molecule count.
func (s *Scene) Len() int {
	return s.solver.Len()
}

// Substeps returns the solver updates per frame.
func (s *Scene) Substeps() int {
	return s.substeps
}

// Workers returns the solver's worker count.
func (s *Scene) Workers() int {
	return s.solver.Workers()
}

// Seed returns the seed of the placement generator.
func (s *Scene) Seed() int64 {
	return s.seed
}

// Close stops the solver's workers.
func (s *Scene) Close() {
	s.solver.Close()
}

// sampler draws molecule placements from a seeded source.
type sampler struct {
	r *rand.Rand
}

func (s sampler) Float(min, max float32) float32 {
	return min + s.r.Float32()*(max-min)
}
