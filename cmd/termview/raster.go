package main

import (
	"github.com/pthm-cable/molecules/camera"
	"github.com/pthm-cable/molecules/palette"
	"github.com/pthm-cable/molecules/sph"
)

// pixel is one half-cell of the terminal.
type pixel struct {
	count   int
	speed   float32 // summed over count molecules
	outline bool
}

// raster accumulates molecules onto a grid of half-cell pixels, two per
// terminal row.
type raster struct {
	w, h   int
	pixels []pixel
	cam    *camera.Camera
}

func newRaster() *raster {
	return &raster{cam: camera.New(1, 1, 1)}
}

// resize sets the grid to cols x rows*2 pixels and fits the view to the
// given world rectangle.
func (r *raster) resize(cols, rows int, cx, cy, w, h float32) {
	r.w, r.h = cols, rows*2
	if n := r.w * r.h; cap(r.pixels) < n {
		r.pixels = make([]pixel, n)
	} else {
		r.pixels = r.pixels[:n]
	}
	r.cam.Resize(float32(r.w), float32(r.h))
	r.cam.Fit(cx, cy, w, h, 0.02)
}

func (r *raster) clear() {
	for i := range r.pixels {
		r.pixels[i] = pixel{}
	}
}

func (r *raster) at(wx, wy float32) (int, bool) {
	sx, sy := r.cam.WorldToScreen(wx, wy)
	if sx < 0 || sy < 0 {
		return 0, false
	}
	x, y := int(sx), int(sy)
	if x >= r.w || y >= r.h {
		return 0, false
	}
	return y*r.w + x, true
}

// plot adds every molecule to the pixel under it.
func (r *raster) plot(particles []sph.Particle) {
	for i := range particles {
		p := &particles[i]
		if idx, ok := r.at(p.Position[0], p.Position[1]); ok {
			r.pixels[idx].count++
			r.pixels[idx].speed += p.Velocity.Len()
		}
	}
}

// outline marks the container edges.
func (r *raster) outline(c sph.Container) {
	if c.Singular() {
		return
	}
	corners := c.Corners()
	step := 0.5 / r.cam.Scale(1)
	for i := range corners {
		a := corners[i]
		b := corners[(i+1)%len(corners)]
		edge := b.Sub(a)
		length := edge.Len()
		if length == 0 {
			continue
		}
		for t := float32(0); t <= length; t += step {
			q := a.Add(edge.Mul(t / length))
			if idx, ok := r.at(q[0], q[1]); ok {
				r.pixels[idx].outline = true
			}
		}
	}
}

// color returns the display color of pixel (x, y) and whether it is lit.
func (r *raster) color(x, y int, ramp *palette.Ramp, speedMax float32) (palette.RGB, bool) {
	p := r.pixels[y*r.w+x]
	switch {
	case p.count > 0:
		return ramp.Speed(p.speed/float32(p.count), speedMax), true
	case p.outline:
		return palette.RGB{R: 150, G: 150, B: 160}, true
	}
	return palette.RGB{}, false
}
