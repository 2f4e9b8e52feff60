package sph

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

const collisionDelta = 1e-4

func assertVec3(t *testing.T, want, got mgl32.Vec3, msg string) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], collisionDelta, "%s component %d", msg, i)
	}
}

func TestContainerResolveFaces(t *testing.T) {
	c := NewContainer(mgl32.Vec2{0, 0}, 0, mgl32.Vec3{1, 1, 1})

	tests := []struct {
		name    string
		pos     mgl32.Vec3
		vel     mgl32.Vec3
		wantPos mgl32.Vec3
		wantVel mgl32.Vec3
	}{
		{"right face", mgl32.Vec3{0.6, 0, 0}, mgl32.Vec3{2, 0, 0}, mgl32.Vec3{0.5, 0, 0}, mgl32.Vec3{-1, 0, 0}},
		{"left face", mgl32.Vec3{-0.6, 0.1, 0}, mgl32.Vec3{-2, 0, 0}, mgl32.Vec3{-0.5, 0.1, 0}, mgl32.Vec3{1, 0, 0}},
		{"top face", mgl32.Vec3{0, 0.6, 0}, mgl32.Vec3{0.3, 4, 0}, mgl32.Vec3{0, 0.5, 0}, mgl32.Vec3{0.3, -2, 0}},
		{"bottom face", mgl32.Vec3{0.2, -0.6, 0}, mgl32.Vec3{0, -4, 0}, mgl32.Vec3{0.2, -0.5, 0}, mgl32.Vec3{0, 2, 0}},
		{"corner", mgl32.Vec3{0.6, -0.6, 0}, mgl32.Vec3{1, -1, 0}, mgl32.Vec3{0.5, -0.5, 0}, mgl32.Vec3{-0.5, 0.5, 0}},
		{"inside untouched", mgl32.Vec3{0.1, 0.2, 0}, mgl32.Vec3{1, 1, 0}, mgl32.Vec3{0.1, 0.2, 0}, mgl32.Vec3{1, 1, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Particle{Position: tt.pos, Velocity: tt.vel}
			c.Resolve(&p)
			assertVec3(t, tt.wantPos, p.Position, "position")
			assertVec3(t, tt.wantVel, p.Velocity, "velocity")
		})
	}
}

func TestContainerResolveRotated(t *testing.T) {
	// Rotated a quarter turn, local +x points along world +y and spans 2 units.
	c := NewContainer(mgl32.Vec2{0, 0}, 90, mgl32.Vec3{2, 4, 1})

	p := Particle{Position: mgl32.Vec3{0, 1.2, 0}, Velocity: mgl32.Vec3{0, 2, 0}}
	c.Resolve(&p)

	assertVec3(t, mgl32.Vec3{0, 1, 0}, p.Position, "position")
	assertVec3(t, mgl32.Vec3{0, -1, 0}, p.Velocity, "velocity")
}

func TestContainerResolveTranslated(t *testing.T) {
	c := NewContainer(mgl32.Vec2{10, -5}, 0, mgl32.Vec3{4, 2, 1})

	p := Particle{Position: mgl32.Vec3{10, -6.5, 0}, Velocity: mgl32.Vec3{0, -3, 0}}
	c.Resolve(&p)

	assertVec3(t, mgl32.Vec3{10, -6, 0}, p.Position, "position")
	assertVec3(t, mgl32.Vec3{0, 1.5, 0}, p.Velocity, "velocity")
}

func TestContainerSingularSkipped(t *testing.T) {
	c := NewContainer(mgl32.Vec2{0, 0}, 30, mgl32.Vec3{0, 5, 1})
	assert.True(t, c.Singular())

	p := Particle{Position: mgl32.Vec3{100, 100, 0}, Velocity: mgl32.Vec3{1, 2, 0}}
	c.Resolve(&p)
	assert.Equal(t, mgl32.Vec3{100, 100, 0}, p.Position)
	assert.Equal(t, mgl32.Vec3{1, 2, 0}, p.Velocity)
	assert.False(t, c.Contains(mgl32.Vec3{0, 0, 0}))
}

func TestContainerContainsAndCorners(t *testing.T) {
	c := NewContainer(mgl32.Vec2{1, 1}, 0, mgl32.Vec3{4, 2, 1})
	assert.True(t, c.Contains(mgl32.Vec3{2.5, 1.5, 0}))
	assert.False(t, c.Contains(mgl32.Vec3{3.5, 1, 0}))

	corners := c.Corners()
	want := [4]mgl32.Vec2{{-1, 0}, {3, 0}, {3, 2}, {-1, 2}}
	for i := range want {
		assert.InDelta(t, want[i][0], corners[i][0], collisionDelta, "corner %d x", i)
		assert.InDelta(t, want[i][1], corners[i][1], collisionDelta, "corner %d y", i)
	}
}

func TestBoundsResolver(t *testing.T) {
	b := BoundsResolver{HalfExtents: mgl32.Vec3{5, 3, 1}, MoleculeScale: 1}

	p := Particle{Position: mgl32.Vec3{4.8, -2.9, 0}, Velocity: mgl32.Vec3{3, -2, 0}}
	b.Resolve(&p)

	assertVec3(t, mgl32.Vec3{4.5, -2.5, 0}, p.Position, "position")
	assertVec3(t, mgl32.Vec3{-0.15, 0.1, 0}, p.Velocity, "velocity")

	inside := Particle{Position: mgl32.Vec3{1, 1, 0}, Velocity: mgl32.Vec3{1, 1, 0}}
	b.Resolve(&inside)
	assert.Equal(t, mgl32.Vec3{1, 1, 0}, inside.Position)
}
