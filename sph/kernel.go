package sph

import "math"

// Normalization factors for the two kernel families. The relative scale between
// them sets the balance of pressure and near-pressure forces.
const (
	spikyNorm     = float32(15 / math.Pi)       // 15/π, divided by h⁶
	nearNorm      = float32(15 / math.Pi)       // 15/π, divided by h⁷
	viscosityNorm = float32(15 / (2 * math.Pi)) // 15/(2π), divided by h³
)

// Kernel is the spiky density kernel (15/(πh⁶))·(h-d)³.
func Kernel(distance, radius float32) float32 {
	if distance < 0 || distance > radius {
		return 0
	}
	scale := spikyNorm / pow6(radius)
	diff := radius - distance
	return scale * diff * diff * diff
}

// KernelDerivative is the slope of Kernel with respect to distance.
func KernelDerivative(distance, radius float32) float32 {
	if distance < 0 || distance > radius {
		return 0
	}
	scale := spikyNorm / pow6(radius)
	diff := radius - distance
	return -3 * scale * diff * diff
}

// ViscosityLaplacian is the viscosity diffusion term. It diverges as distance
// approaches zero; callers must not pass a near-zero distance.
func ViscosityLaplacian(distance, radius float32) float32 {
	if distance < 0 || distance > radius {
		return 0
	}
	r3 := radius * radius * radius
	scale := viscosityNorm / r3
	sum := -3*distance/r3 + 2/(radius*radius) + radius/(distance*distance*distance)
	return scale * sum
}

// NearDensityKernel is the short-range kernel (15/(πh⁷))·(h-d)⁴ used to keep
// molecules from clustering.
func NearDensityKernel(distance, radius float32) float32 {
	if distance < 0 || distance > radius {
		return 0
	}
	scale := nearNorm / (pow6(radius) * radius)
	diff := radius - distance
	return scale * diff * diff * diff * diff
}

// NearDensityKernelDerivative is the slope of NearDensityKernel.
func NearDensityKernelDerivative(distance, radius float32) float32 {
	if distance < 0 || distance > radius {
		return 0
	}
	scale := nearNorm / (pow6(radius) * radius)
	diff := radius - distance
	return -4 * scale * diff * diff * diff
}

func pow6(x float32) float32 {
	x3 := x * x * x
	return x3 * x3
}
