// Package renderer draws simulation instances with raylib.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/mitosis/components"
)

// Sphere tessellation by population
const (
	detailedLimit = 400
	ringsHigh     = 16
	ringsLow      = 8
)

var (
	coldColor      = mgl32.Vec3{0.15, 0.35, 0.9}
	hotColor       = mgl32.Vec3{0.95, 0.25, 0.1}
	orientColor    = rl.Color{R: 255, G: 230, B: 120, A: 255}
	selectionColor = rl.Color{R: 255, G: 255, B: 255, A: 255}
	supportColor   = rl.Color{R: 120, G: 160, B: 200, A: 90}
	velocityColor  = rl.Color{R: 120, G: 255, B: 140, A: 255}
)

// DrawOptions selects what ParticleRenderer draws on top of the spheres.
type DrawOptions struct {
	// Values in [0, 1] replace instance colors with a cold-to-hot ramp (nil = instance color).
	Values []float32
	// Velocities drawn as line segments (nil = none).
	Velocities []mgl32.Vec3
	// VelocityScale multiplies velocities before drawing.
	VelocityScale float32
	// Orientation draws each instance's local +Y axis.
	Orientation bool
	// Support draws a wire sphere at twice each radius, the pair support for equal neighbors.
	Support bool
	// Selected is the highlighted instance index (-1 = none).
	Selected int
}

// ParticleRenderer draws particles as shaded spheres.
type ParticleRenderer struct{}

// NewParticleRenderer creates a new particle renderer.
func NewParticleRenderer() *ParticleRenderer {
	return &ParticleRenderer{}
}

// Draw renders all instances. Must be called between BeginMode3D and EndMode3D.
func (r *ParticleRenderer) Draw(instances []components.Instance, opts DrawOptions) {
	rings := int32(ringsHigh)
	if len(instances) > detailedLimit {
		rings = ringsLow
	}

	for i := range instances {
		in := &instances[i]
		pos := in.Position()
		center := toVector3(pos)
		radius := in.Scale()

		var color rl.Color
		if opts.Values != nil && i < len(opts.Values) {
			color = Heat(opts.Values[i])
		} else {
			color = toColor(in.Color, 255)
		}
		rl.DrawSphereEx(center, radius, rings, rings, color)

		if opts.Orientation {
			// Local +Y scaled by the radius
			axis := in.Transform.Col(1).Vec3().Mul(1.6)
			rl.DrawLine3D(center, toVector3(pos.Add(axis)), orientColor)
		}
		if opts.Support {
			rl.DrawSphereWires(center, 2*radius, ringsLow, ringsLow, supportColor)
		}
		if opts.Velocities != nil && i < len(opts.Velocities) {
			tip := pos.Add(opts.Velocities[i].Mul(opts.VelocityScale))
			rl.DrawLine3D(center, toVector3(tip), velocityColor)
		}
		if i == opts.Selected {
			rl.DrawSphereWires(center, radius*1.15, ringsLow, ringsLow, selectionColor)
		}
	}
}

// Heat maps v in [0, 1] onto a cold-to-hot color ramp.
func Heat(v float32) rl.Color {
	v = mgl32.Clamp(v, 0, 1)
	c := coldColor.Mul(1 - v).Add(hotColor.Mul(v))
	return toColor([3]float32{c[0], c[1], c[2]}, 255)
}

func toVector3(v mgl32.Vec3) rl.Vector3 {
	return rl.NewVector3(v[0], v[1], v[2])
}

func toColor(c [3]float32, alpha uint8) rl.Color {
	return rl.Color{
		R: uint8(mgl32.Clamp(c[0], 0, 1) * 255),
		G: uint8(mgl32.Clamp(c[1], 0, 1) * 255),
		B: uint8(mgl32.Clamp(c[2], 0, 1) * 255),
		A: alpha,
	}
}
