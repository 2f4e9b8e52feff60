package sph

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Physical constants of the fluid model.
const (
	Mass          = 1.0
	Gravity       = -9.81
	Stiffness     = 15.0
	NearStiffness = 2.0

	// DensityEpsilon is the smallest density that takes part in a pair force.
	DensityEpsilon = 0.01
	// DistanceEpsilon is the smallest separation (or velocity difference)
	// that yields a usable direction.
	DistanceEpsilon = 1e-5

	minInfluenceRadius = 1e-3
)

// Phase names reported to a PhaseRecorder during Update.
const (
	PhasePredict     = "predict"
	PhaseSpatialHash = "spatial_hash"
	PhaseDensity     = "density"
	PhaseForces      = "forces"
	PhaseCommit      = "commit"
)

// PhaseRecorder is notified when each stage of an update begins.
type PhaseRecorder interface {
	StartPhase(name string)
}

// Params is the per-step configuration pushed by the owner of the solver.
type Params struct {
	MoleculeScale   float32
	InfluenceRadius float32
	Viscosity       float32
	RestDensity     float32
	Bounds          mgl32.Vec3 // container half extents, z is a placeholder

	// Resolver is applied to every molecule after integration. Nil disables
	// collisions.
	Resolver CollisionResolver
}

// Options configure a new solver.
type Options struct {
	NumMolecules int
	Workers      int // 0 picks DefaultWorkers
}

// intent holds a molecule's integrated state until every worker has finished
// reading the previous one.
type intent struct {
	position mgl32.Vec3
	velocity mgl32.Vec3
}

// workerScratch holds per-worker reusable buffers.
type workerScratch struct {
	neighbors []int
}

// Solver advances the molecule state. It is not safe for concurrent use;
// Particles must only be read between calls to Update.
type Solver struct {
	store
	grid *Grid
	pool *workerPool

	intents   []intent
	scratches []workerScratch

	params   Params
	dt       float32
	recorder PhaseRecorder

	densityFn phaseFunc
	forceFn   phaseFunc
}

// NewSolver allocates a solver with a fixed number of molecules, all at rest at
// the origin. Call Reset to place them.
func NewSolver(opts Options) *Solver {
	if opts.NumMolecules <= 0 {
		panic(fmt.Sprintf("sph: NumMolecules must be positive, got %d", opts.NumMolecules))
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers()
	}

	s := &Solver{
		store:     newStore(opts.NumMolecules),
		grid:      NewGrid(opts.NumMolecules),
		pool:      newWorkerPool(workers),
		intents:   make([]intent, opts.NumMolecules),
		scratches: make([]workerScratch, workers),
	}
	for i := range s.scratches {
		s.scratches[i].neighbors = make([]int, 0, 64)
	}
	s.densityFn = s.computeDensities
	s.forceFn = s.computeForces
	return s
}

// SetRecorder installs a phase timing hook. Nil removes it.
func (s *Solver) SetRecorder(r PhaseRecorder) {
	s.recorder = r
}

// Len returns the fixed molecule count.
func (s *Solver) Len() int {
	return len(s.particles)
}

// Workers returns the size of the worker pool.
func (s *Solver) Workers() int {
	return s.pool.numWorkers
}

// Particles returns the live molecule array. Callers must not modify it and
// must not retain it across Update, which reorders it.
func (s *Solver) Particles() []Particle {
	return s.particles
}

// Grid returns the neighbor index built by the last Update.
func (s *Solver) Grid() *Grid {
	return s.grid
}

// Reset stops every molecule and scatters them uniformly inside box.
func (s *Solver) Reset(box Box, rng Sampler) {
	s.store.reset(box, rng)
}

// Place overwrites the kinematic state of molecule i. The z components are
// dropped. Densities are refreshed by the next Update.
func (s *Solver) Place(i int, position, velocity mgl32.Vec2) {
	p := &s.particles[i]
	*p = Particle{
		Position: mgl32.Vec3{position[0], position[1], 0},
		Velocity: mgl32.Vec3{velocity[0], velocity[1], 0},
	}
	p.PredictedPosition = p.Position
}

// Update advances the simulation by dt. It returns once both solver phases
// have completed for every molecule.
func (s *Solver) Update(dt float32, params Params) {
	if params.InfluenceRadius < minInfluenceRadius {
		params.InfluenceRadius = minInfluenceRadius
	}
	s.params = params
	s.dt = dt

	s.mark(PhasePredict)
	s.predict()

	s.mark(PhaseSpatialHash)
	s.grid.Rebuild(s.particles, params.InfluenceRadius)

	s.mark(PhaseDensity)
	s.pool.run(len(s.particles), s.densityFn)

	s.mark(PhaseForces)
	s.pool.run(len(s.particles), s.forceFn)

	s.mark(PhaseCommit)
	s.commit()
}

// Close stops the worker pool. The solver must not be used afterwards.
func (s *Solver) Close() {
	s.pool.stop()
}

func (s *Solver) mark(phase string) {
	if s.recorder != nil {
		s.recorder.StartPhase(phase)
	}
}

// predict applies gravity and estimates where each molecule will be after dt.
func (s *Solver) predict() {
	dt := s.dt
	for i := range s.particles {
		p := &s.particles[i]
		p.Velocity[1] += Gravity * dt
		p.PredictedPosition = p.Position.Add(p.Velocity.Mul(dt))
	}
}

// computeDensities fills density and pressure for one stride. Reads predicted
// positions only.
func (s *Solver) computeDensities(st stride) {
	scratch := &s.scratches[st.worker]
	h := s.params.InfluenceRadius
	restDensity := s.params.RestDensity

	for i := st.first; i < len(s.particles); i += st.step {
		p := &s.particles[i]
		p.Density = 0
		p.NearDensity = 0

		scratch.neighbors = s.grid.NeighborsInto(scratch.neighbors[:0], p.PredictedPosition, i)
		for _, j := range scratch.neighbors {
			dist := p.PredictedPosition.Sub(s.particles[j].PredictedPosition).Len()
			p.Density += Mass * Kernel(dist, h)
			p.NearDensity += Mass * NearDensityKernel(dist, h)
		}

		p.Pressure = Stiffness * (p.Density - restDensity)
		p.NearPressure = NearStiffness * p.NearDensity
	}
}

// computeForces accumulates pair forces for one stride, integrates and
// resolves collisions into the intent buffer. Particle state is read-only here.
func (s *Solver) computeForces(st stride) {
	scratch := &s.scratches[st.worker]
	h := s.params.InfluenceRadius
	viscosity := s.params.Viscosity
	resolver := s.params.Resolver
	dt := s.dt

	for i := st.first; i < len(s.particles); i += st.step {
		p := &s.particles[i]
		var force mgl32.Vec3

		scratch.neighbors = s.grid.NeighborsInto(scratch.neighbors[:0], p.PredictedPosition, i)
		for _, j := range scratch.neighbors {
			other := &s.particles[j]
			if p.Density < DensityEpsilon || other.Density < DensityEpsilon ||
				p.NearDensity < DensityEpsilon || other.NearDensity < DensityEpsilon {
				continue
			}

			diff := p.PredictedPosition.Sub(other.PredictedPosition)
			dist := diff.Len()
			if dist < DistanceEpsilon {
				continue
			}
			dir := diff.Mul(1 / dist)

			shared := (p.Pressure + other.Pressure) / (2 * other.Density)
			force = force.Add(dir.Mul(-shared * KernelDerivative(dist, h) * Mass))

			nearShared := (p.NearPressure + other.NearPressure) / (2 * other.NearDensity)
			force = force.Add(dir.Mul(-nearShared * NearDensityKernelDerivative(dist, h) * Mass))

			dv := other.Velocity.Sub(p.Velocity)
			speed := dv.Len()
			if speed < DistanceEpsilon {
				continue
			}
			laplacian := ViscosityLaplacian(speed, h)
			force = force.Add(dv.Mul(viscosity * Mass / other.Density * laplacian / speed))
		}

		next := *p
		next.Velocity = next.Velocity.Add(force.Mul(dt / Mass))
		next.Position = next.Position.Add(next.Velocity.Mul(dt))
		if resolver != nil {
			resolver.Resolve(&next)
		}
		s.intents[i] = intent{position: next.Position, velocity: next.Velocity}
	}
}

// commit publishes the integrated state after the force barrier.
func (s *Solver) commit() {
	for i := range s.particles {
		s.particles[i].Position = s.intents[i].position
		s.particles[i].Velocity = s.intents[i].velocity
	}
}
