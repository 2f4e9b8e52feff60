package sph

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Collision constants.
const (
	// ContainerDamping scales the reflected normal velocity at a container face.
	ContainerDamping = 0.5
	// BoundsDamping is the restitution of the axis-aligned resolver.
	BoundsDamping = 0.05
	// SingularThreshold is the smallest usable |det| of a container transform.
	SingularThreshold = 1e-4

	containerHalf = 0.5
)

// CollisionResolver keeps a molecule inside some boundary.
// Implementations must only touch the particle they are given.
type CollisionResolver interface {
	Resolve(p *Particle)
}

// Container is a unit cube placed in the world by Transform. Rotation is the
// angle in degrees about z that Transform contains.
type Container struct {
	Transform mgl32.Mat4
	Rotation  float32
}

// NewContainer builds the translate-rotate-scale transform of a container.
func NewContainer(position mgl32.Vec2, rotationDeg float32, scale mgl32.Vec3) Container {
	t := mgl32.Translate3D(position[0], position[1], 0).
		Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(rotationDeg))).
		Mul4(mgl32.Scale3D(scale[0], scale[1], scale[2]))
	return Container{Transform: t, Rotation: rotationDeg}
}

// Singular reports whether the container has collapsed along some axis.
func (c Container) Singular() bool {
	det := c.Transform.Det()
	return det < SingularThreshold && det > -SingularThreshold
}

// ToLocal maps a world position into container space.
func (c Container) ToLocal(pos mgl32.Vec3) mgl32.Vec3 {
	return c.Transform.Inv().Mul4x1(pos.Vec4(1)).Vec3()
}

// Contains reports whether pos lies inside the container.
func (c Container) Contains(pos mgl32.Vec3) bool {
	if c.Singular() {
		return false
	}
	local := c.ToLocal(pos)
	return local[0] >= -containerHalf && local[0] <= containerHalf &&
		local[1] >= -containerHalf && local[1] <= containerHalf
}

// Corners returns the four xy corners of the container in world space,
// counter-clockwise from bottom-left.
func (c Container) Corners() [4]mgl32.Vec2 {
	local := [4]mgl32.Vec4{
		{-containerHalf, -containerHalf, 0, 1},
		{containerHalf, -containerHalf, 0, 1},
		{containerHalf, containerHalf, 0, 1},
		{-containerHalf, containerHalf, 0, 1},
	}
	var out [4]mgl32.Vec2
	for i, v := range local {
		w := c.Transform.Mul4x1(v)
		out[i] = mgl32.Vec2{w[0], w[1]}
	}
	return out
}

// Resolve clamps p against the six faces of the container in its local frame.
// The position goes through the full inverse transform, the velocity only
// through the inverse rotation.
func (c Container) Resolve(p *Particle) {
	if c.Singular() {
		return
	}

	inv := c.Transform.Inv()
	unrotate := mgl32.HomogRotate3DZ(mgl32.DegToRad(-c.Rotation))

	pos := inv.Mul4x1(p.Position.Vec4(1))
	vel := unrotate.Mul4x1(p.Velocity.Vec4(0))

	for axis := 0; axis < 3; axis++ {
		if pos[axis] < -containerHalf {
			vel[axis] = -ContainerDamping * vel[axis]
			pos[axis] = -containerHalf
		}
		if pos[axis] > containerHalf {
			vel[axis] = -ContainerDamping * vel[axis]
			pos[axis] = containerHalf
		}
	}

	rotate := mgl32.HomogRotate3DZ(mgl32.DegToRad(c.Rotation))
	p.Velocity = rotate.Mul4x1(vel).Vec3()
	p.Position = c.Transform.Mul4x1(pos).Vec3()
}

// BoundsResolver keeps molecules inside an axis-aligned box centered on the
// origin, accounting for the molecule's drawn size.
type BoundsResolver struct {
	HalfExtents   mgl32.Vec3
	MoleculeScale float32
}

// Resolve reflects and clamps p against the four walls of the box.
func (b BoundsResolver) Resolve(p *Particle) {
	half := 0.5 * b.MoleculeScale
	for axis := 0; axis < 2; axis++ {
		limit := b.HalfExtents[axis]
		if p.Position[axis]+half > limit {
			p.Velocity[axis] = -p.Velocity[axis] * BoundsDamping
			p.Position[axis] = limit - half
		}
		if p.Position[axis]-half < -limit {
			p.Velocity[axis] = -p.Velocity[axis] * BoundsDamping
			p.Position[axis] = -limit + half
		}
	}
}
