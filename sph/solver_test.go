package sph

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultParams(resolver CollisionResolver) Params {
	return Params{
		MoleculeScale:   0.515,
		InfluenceRadius: 0.5,
		Viscosity:       1,
		RestDensity:     30,
		Bounds:          mgl32.Vec3{20.5, 11.5, 1},
		Resolver:        resolver,
	}
}

func TestSolverReset(t *testing.T) {
	s := NewSolver(Options{NumMolecules: 500, Workers: 2})
	defer s.Close()

	s.Reset(Box{Size: mgl32.Vec2{10, 10}}, newRandSampler(1))
	require.Equal(t, 500, s.Len())

	for i, p := range s.Particles() {
		assert.GreaterOrEqual(t, p.Position[0], float32(-5), "particle %d x", i)
		assert.LessOrEqual(t, p.Position[0], float32(5), "particle %d x", i)
		assert.GreaterOrEqual(t, p.Position[1], float32(-5), "particle %d y", i)
		assert.LessOrEqual(t, p.Position[1], float32(5), "particle %d y", i)
		assert.Zero(t, p.Position[2], "particle %d z", i)
		assert.Equal(t, mgl32.Vec3{}, p.Velocity, "particle %d velocity", i)
	}
}

func TestSolverResetOffsetBox(t *testing.T) {
	s := NewSolver(Options{NumMolecules: 200, Workers: 1})
	defer s.Close()

	s.Reset(Box{Center: mgl32.Vec2{-16, 0}, Size: mgl32.Vec2{7, 21}}, newRandSampler(2))
	for _, p := range s.Particles() {
		assert.True(t, p.Position[0] >= -19.5 && p.Position[0] <= -12.5, "x=%v", p.Position[0])
		assert.True(t, p.Position[1] >= -10.5 && p.Position[1] <= 10.5, "y=%v", p.Position[1])
	}
}

func TestSolverFreeFall(t *testing.T) {
	s := NewSolver(Options{NumMolecules: 1, Workers: 1})
	defer s.Close()

	const dt = 0.01
	s.Update(dt, defaultParams(nil))

	p := s.Particles()[0]
	assert.InDelta(t, Gravity*dt, p.Velocity[1], 1e-6)
	assert.InDelta(t, Gravity*dt*dt, p.Position[1], 1e-6)
	assert.Zero(t, p.Velocity[0])
	assert.Zero(t, p.Position[2])
}

func TestSolverTwoParticleDensity(t *testing.T) {
	s := NewSolver(Options{NumMolecules: 2, Workers: 1})
	defer s.Close()

	s.particles[0].Position = mgl32.Vec3{0, 0, 0}
	s.particles[1].Position = mgl32.Vec3{0.3, 0, 0}
	s.Update(0.001, defaultParams(nil))

	want := Kernel(0.3, 0.5)
	assert.InDelta(t, 2.4446, want, 1e-3)
	for i, p := range s.Particles() {
		assert.InDelta(t, want, p.Density, 1e-4, "particle %d density", i)
		assert.InDelta(t, NearDensityKernel(0.3, 0.5), p.NearDensity, 1e-4, "particle %d near density", i)
		assert.Less(t, p.Density, float32(30), "below rest density")
		assert.Less(t, p.Pressure, float32(0), "negative pressure")
		assert.InDelta(t, Stiffness*(p.Density-30), p.Pressure, 1e-4)
		assert.InDelta(t, NearStiffness*p.NearDensity, p.NearPressure, 1e-4)
	}

	// Forces are equal and opposite, so the pair stays level.
	ps := s.Particles()
	assert.InDelta(t, ps[0].Velocity[1], ps[1].Velocity[1], 1e-6)
	assert.InDelta(t, 0, ps[0].Velocity[0]+ps[1].Velocity[0], 1e-4)
}

func TestSolverIsolatedParticlesHaveNoDensity(t *testing.T) {
	s := NewSolver(Options{NumMolecules: 2, Workers: 1})
	defer s.Close()

	s.particles[0].Position = mgl32.Vec3{-3, 0, 0}
	s.particles[1].Position = mgl32.Vec3{3, 0, 0}
	s.Update(0.001, defaultParams(nil))

	for _, p := range s.Particles() {
		assert.Zero(t, p.Density)
		assert.Equal(t, float32(-30*Stiffness), p.Pressure)
		assert.Zero(t, p.Velocity[0], "no pair force below the density guard")
	}
}

func TestSolverPartitionIndependence(t *testing.T) {
	const n = 512
	container := NewContainer(mgl32.Vec2{0, 0}, 15, mgl32.Vec3{20, 12, 1})

	run := func(workers int) []Particle {
		s := NewSolver(Options{NumMolecules: n, Workers: workers})
		defer s.Close()
		s.Reset(Box{Center: mgl32.Vec2{-4, 0}, Size: mgl32.Vec2{5, 8}}, newRandSampler(42))
		for step := 0; step < 30; step++ {
			s.Update(1.0/60/7, defaultParams(container))
		}
		out := make([]Particle, n)
		copy(out, s.Particles())
		return out
	}

	single := run(1)
	for _, workers := range []int{2, 3, 4, 8} {
		assert.Equal(t, single, run(workers), "workers=%d", workers)
	}
}

func TestSolverStaysInsideContainer(t *testing.T) {
	const n = 256
	container := NewContainer(mgl32.Vec2{0, 0}, 0, mgl32.Vec3{10, 10, 1})
	s := NewSolver(Options{NumMolecules: n, Workers: 4})
	defer s.Close()

	s.Reset(Box{Size: mgl32.Vec2{4, 4}}, newRandSampler(9))
	for step := 0; step < 200; step++ {
		s.Update(1.0/60/7, defaultParams(container))
	}

	for i, p := range s.Particles() {
		assert.True(t, p.Position[0] >= -5.0001 && p.Position[0] <= 5.0001, "particle %d x=%v", i, p.Position[0])
		assert.True(t, p.Position[1] >= -5.0001 && p.Position[1] <= 5.0001, "particle %d y=%v", i, p.Position[1])
		assert.Zero(t, p.Position[2], "particle %d z", i)
	}
}

type phaseLog struct {
	phases []string
}

func (l *phaseLog) StartPhase(name string) {
	l.phases = append(l.phases, name)
}

func TestSolverRecorderPhases(t *testing.T) {
	s := NewSolver(Options{NumMolecules: 4, Workers: 1})
	defer s.Close()

	log := &phaseLog{}
	s.SetRecorder(log)
	s.Update(0.001, defaultParams(nil))

	assert.Equal(t, []string{PhasePredict, PhaseSpatialHash, PhaseDensity, PhaseForces, PhaseCommit}, log.phases)
}

func TestNewSolverRejectsEmpty(t *testing.T) {
	assert.Panics(t, func() { NewSolver(Options{NumMolecules: 0}) })
}

// tagTracker reads molecule tags out of the density field once the grid has
// permuted the particles, before the density phase overwrites them.
type tagTracker struct {
	s      *Solver
	ids    []int
	rounds int
}

func (tr *tagTracker) StartPhase(name string) {
	if name != PhaseDensity {
		return
	}
	for k, p := range tr.s.particles {
		tr.ids[k] = int(p.Density)
	}
	tr.rounds++
}

func TestSolverUpdateConservesMolecules(t *testing.T) {
	const n = 600
	container := NewContainer(mgl32.Vec2{0, 0}, 20, mgl32.Vec3{18, 10, 1})
	s := NewSolver(Options{NumMolecules: n, Workers: 4})
	defer s.Close()
	s.Reset(Box{Center: mgl32.Vec2{-3, 0}, Size: mgl32.Vec2{6, 6}}, newRandSampler(23))

	tr := &tagTracker{s: s, ids: make([]int, n)}
	for i := range tr.ids {
		tr.ids[i] = i
	}
	s.SetRecorder(tr)

	for step := 0; step < 20; step++ {
		// Slots are stable between rebuilds, so slot k still holds ids[k].
		for k := range s.particles {
			s.particles[k].Density = float32(tr.ids[k])
		}
		s.Update(1.0/60/7, defaultParams(container))

		seen := make([]bool, n)
		var sum int
		for _, id := range tr.ids {
			require.True(t, id >= 0 && id < n, "step %d: tag %d out of range", step, id)
			require.False(t, seen[id], "step %d: tag %d duplicated", step, id)
			seen[id] = true
			sum += id
		}
		assert.Equal(t, n*(n-1)/2, sum, "step %d checksum", step)
	}
	assert.Equal(t, 20, tr.rounds)
	assert.Equal(t, n, s.Len())
}

func TestSolverDensityMatchesBruteForce(t *testing.T) {
	const n = 2048
	const h = 0.5
	container := NewContainer(mgl32.Vec2{0, 0}, 0, mgl32.Vec3{41, 23, 1})
	s := NewSolver(Options{NumMolecules: n, Workers: 4})
	defer s.Close()
	s.Reset(Box{Center: mgl32.Vec2{-16, 0}, Size: mgl32.Vec2{7, 21}}, newRandSampler(31))

	s.Update(1.0/60/7, defaultParams(container))

	// Densities were computed from the predicted positions, which commit
	// leaves in place.
	ps := s.Particles()
	var buf []int
	for i := range ps {
		var density, near float64
		within := 0
		for j := range ps {
			if j == i {
				continue
			}
			d := ps[i].PredictedPosition.Sub(ps[j].PredictedPosition).Len()
			density += float64(Kernel(d, h))
			near += float64(NearDensityKernel(d, h))
			if d < h {
				within++
			}
		}

		buf = s.Grid().NeighborsInto(buf[:0], ps[i].PredictedPosition, i)
		listed := 0
		for _, j := range buf {
			if ps[i].PredictedPosition.Sub(ps[j].PredictedPosition).Len() < h {
				listed++
			}
		}

		require.Equal(t, within, listed, "molecule %d neighbors within radius", i)
		require.InDelta(t, density, float64(ps[i].Density), 1e-3*(1+density), "molecule %d density", i)
		require.InDelta(t, near, float64(ps[i].NearDensity), 1e-3*(1+near), "molecule %d near density", i)
	}
}
