// Package palette maps molecule speed to display colors.
package palette

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// tableSize is the number of precomputed ramp entries.
const tableSize = 256

// RGB is an 8-bit color usable by any renderer.
type RGB struct {
	R, G, B uint8
}

// Ramp is a precomputed gradient through a list of stops, blended in HCL.
type Ramp struct {
	table [tableSize]RGB
}

// Default stops run from deep blue at rest through cyan to white-hot.
var defaultStops = []colorful.Color{
	{R: 0.05, G: 0.20, B: 0.55},
	{R: 0.10, G: 0.55, B: 0.90},
	{R: 0.55, G: 0.90, B: 0.95},
	{R: 1.00, G: 0.95, B: 0.85},
	{R: 1.00, G: 0.55, B: 0.20},
}

// Default is the speed ramp shared by the window and terminal views.
var Default = NewRamp(defaultStops...)

// NewRamp builds a ramp through the given stops. A single stop gives a flat
// ramp; no stops give black.
func NewRamp(stops ...colorful.Color) *Ramp {
	r := &Ramp{}
	if len(stops) == 0 {
		return r
	}
	if len(stops) == 1 {
		c := toRGB(stops[0])
		for i := range r.table {
			r.table[i] = c
		}
		return r
	}

	segments := float64(len(stops) - 1)
	for i := range r.table {
		t := float64(i) / (tableSize - 1) * segments
		seg := int(t)
		if seg >= len(stops)-1 {
			seg = len(stops) - 2
		}
		local := t - float64(seg)
		r.table[i] = toRGB(stops[seg].BlendHcl(stops[seg+1], local).Clamped())
	}
	return r
}

// At returns the color at t in [0, 1]; t is clamped.
func (r *Ramp) At(t float64) RGB {
	if t <= 0 || math.IsNaN(t) {
		return r.table[0]
	}
	if t >= 1 {
		return r.table[tableSize-1]
	}
	return r.table[int(t*(tableSize-1))]
}

// Speed returns the color for a molecule moving at speed, with maxSpeed
// mapped to the hot end.
func (r *Ramp) Speed(speed, maxSpeed float32) RGB {
	if maxSpeed <= 0 {
		return r.table[0]
	}
	return r.At(float64(speed / maxSpeed))
}

func toRGB(c colorful.Color) RGB {
	r, g, b := c.RGB255()
	return RGB{R: r, G: g, B: b}
}
