// Package systems contains the simulation phases that run every sub-step.
package systems

import (
	"math"

	"github.com/pthm-cable/mitosis/components"
)

// Smoothing kernels over squared separation r2 and support radius h.
// Callers must cull pairs with r2 >= h*h before evaluating.

// WPoly6 is the density kernel 315/(64 pi h^9) * (h^2 - r^2)^3.
func WPoly6(r2, h float32) float32 {
	h2 := h * h
	d := h2 - r2
	h9 := h2 * h2 * h2 * h2 * h
	return 315.0 / (64.0 * math.Pi * h9) * d * d * d
}

// WSpikyGrad is the pressure gradient magnitude 45/(pi h^6) * (h - r)^2.
func WSpikyGrad(r2, h float32) float32 {
	d := h - sqrt32(r2)
	h2 := h * h
	return 45.0 / (math.Pi * h2 * h2 * h2) * d * d
}

// WVisc is the viscosity kernel 45/(pi h^6) * (h - r).
func WVisc(r2, h float32) float32 {
	h2 := h * h
	return 45.0 / (math.Pi * h2 * h2 * h2) * (h - sqrt32(r2))
}

// Support picks the interaction radius for a particle pair.
type Support struct {
	Fixed float32 // > 0 uses one global radius, otherwise the sum of radii
}

// Radius returns the support radius for the pair (a, b).
func (s Support) Radius(a, b *components.Particle) float32 {
	if s.Fixed > 0 {
		return s.Fixed
	}
	return a.Radius() + b.Radius()
}

func sqrt32(x float32) float32 {
	return float32(math.Sqrt(float64(x)))
}

func finite32(x float32) bool {
	return finite64(float64(x))
}

func finite64(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
