// Package sph implements a two-dimensional smoothed particle hydrodynamics
// solver with a spatial hash neighbor index and a rotatable container.
package sph

import "github.com/go-gl/mathgl/mgl32"

// Particle holds the physical state of one molecule.
// Vectors are stored in 3D but the z component is always 0.
type Particle struct {
	Position          mgl32.Vec3
	PredictedPosition mgl32.Vec3 // one-step lookahead used for neighbor search
	Velocity          mgl32.Vec3

	// Recomputed every step.
	Density      float32
	NearDensity  float32
	Pressure     float32
	NearPressure float32
}

// Box is an axis-aligned rectangle given by its center and full size.
type Box struct {
	Center mgl32.Vec2
	Size   mgl32.Vec2
}

// TopLeft returns the upper-left corner of the box (y up).
func (b Box) TopLeft() mgl32.Vec2 {
	return mgl32.Vec2{b.Center[0] - b.Size[0]*0.5, b.Center[1] + b.Size[1]*0.5}
}

// Sampler supplies uniform random floats for molecule placement.
type Sampler interface {
	// Float returns a uniform value in [min, max].
	Float(min, max float32) float32
}

// store is the fixed-size particle array. Its length never changes after
// construction; the grid permutes it in place.
type store struct {
	particles []Particle
}

func newStore(n int) store {
	return store{particles: make([]Particle, n)}
}

// reset zeroes every velocity and scatters positions uniformly inside box.
func (s *store) reset(box Box, rng Sampler) {
	topLeft := box.TopLeft()
	for i := range s.particles {
		p := &s.particles[i]
		*p = Particle{}
		p.Position[0] = rng.Float(topLeft[0], topLeft[0]+box.Size[0])
		p.Position[1] = rng.Float(topLeft[1]-box.Size[1], topLeft[1])
		p.PredictedPosition = p.Position
	}
}
