package main

import (
	"math"

	"github.com/pthm-cable/molecules/sph"
)

// curve is one kernel plotted against distance.
type curve struct {
	name string
	fn   func(d, h float32) float32
}

var curves = []curve{
	{name: "density", fn: sph.Kernel},
	{name: "density slope", fn: sph.KernelDerivative},
	{name: "near density", fn: sph.NearDensityKernel},
	{name: "near slope", fn: sph.NearDensityKernelDerivative},
	{name: "viscosity", fn: sph.ViscosityLaplacian},
}

// sample evaluates fn at n evenly spaced distances in (0, maxD] and returns
// the values with the largest magnitude seen.
func sample(fn func(d, h float32) float32, h, maxD float32, n int) ([]float32, float32) {
	values := make([]float32, n)
	var peak float32
	for i := range values {
		d := maxD * float32(i+1) / float32(n)
		v := fn(d, h)
		values[i] = v
		if a := float32(math.Abs(float64(v))); a > peak {
			peak = a
		}
	}
	return values, peak
}

// latticeDensity returns the density a molecule sees at rest inside a square
// lattice with the given spacing. Like the solver it skips itself.
func latticeDensity(spacing, h float32) float32 {
	if spacing <= 0 {
		return 0
	}
	reach := int(math.Ceil(float64(h / spacing)))
	var density float32
	for i := -reach; i <= reach; i++ {
		for j := -reach; j <= reach; j++ {
			if i == 0 && j == 0 {
				continue
			}
			d := spacing * float32(math.Hypot(float64(i), float64(j)))
			density += sph.Mass * sph.Kernel(d, h)
		}
	}
	return density
}
