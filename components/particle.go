// Package components defines the particle record and the store that owns it.
package components

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// radiusScale is (3/(4*pi))^(1/3): a unit-density sphere of mass m has radius scale*m^(1/3).
var radiusScale = float32(math.Cbrt(3.0 / (4.0 * math.Pi)))

// MassToRadius returns the radius of a unit-density sphere with the given mass.
func MassToRadius(mass float32) float32 {
	return radiusScale * float32(math.Cbrt(float64(mass)))
}

// Particle holds all per-particle simulation state.
// Radius is derived from Mass and only changes through SetMass.
type Particle struct {
	ID uint32

	Position mgl32.Vec3
	Velocity mgl32.Vec3
	Force    mgl32.Vec3 // Accumulator, zero after every integration

	Orientation mgl32.Vec3 // Unit polarity
	Torque      mgl32.Vec3 // Accumulator, zero after every integration

	Mass   float32
	radius float32

	// Field values, rebuilt every sub-step
	Density  float32
	Pressure float32

	Age   float32
	Color [3]float32
}

// NewParticle creates a particle at rest with the given mass, color and orientation.
// A zero orientation defaults to +Y.
func NewParticle(position mgl32.Vec3, mass float32, color [3]float32, orientation mgl32.Vec3) Particle {
	p := Particle{
		Position:    position,
		Color:       color,
		Orientation: orientation,
	}
	if p.Orientation.Len() == 0 {
		p.Orientation = mgl32.Vec3{0, 1, 0}
	} else {
		p.Orientation = p.Orientation.Normalize()
	}
	p.SetMass(mass)
	return p
}

// Radius returns the cached radius.
func (p *Particle) Radius() float32 {
	return p.radius
}

// SetMass updates mass and the derived radius.
func (p *Particle) SetMass(mass float32) {
	p.Mass = mass
	p.radius = MassToRadius(mass)
}

// ClearAccumulators zeroes force and torque.
func (p *Particle) ClearAccumulators() {
	p.Force = mgl32.Vec3{}
	p.Torque = mgl32.Vec3{}
}
