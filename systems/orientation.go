package systems

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
)

// RandomAxis returns a unit vector distributed uniformly on the sphere.
func RandomAxis(rng *rand.Rand) mgl32.Vec3 {
	theta := rng.Float64() * 2 * math.Pi
	phi := math.Acos(2*rng.Float64() - 1)
	sinPhi := math.Sin(phi)
	return mgl32.Vec3{
		float32(sinPhi * math.Cos(theta)),
		float32(sinPhi * math.Sin(theta)),
		float32(math.Cos(phi)),
	}
}

// OrientationParams holds the polarity coupling constants.
type OrientationParams struct {
	Enabled        bool
	TorqueCoupling float32
	DipoleStrength float32
}

// couple returns the dipole force and torque on particle i from neighbor j.
// w is the poly6 weight of the pair, rhat the unit separation from j to i.
func (op OrientationParams) couple(oi, oj, rhat mgl32.Vec3, w float32) (force, torque mgl32.Vec3) {
	torque = oj.Cross(oi).Mul(op.TorqueCoupling * w)
	if op.DipoleStrength != 0 {
		force = rhat.Mul(op.DipoleStrength * w * oi.Dot(rhat) * oj.Dot(rhat))
	}
	return force, torque
}

// rotate applies o += (o x tau) * step and renormalizes.
// A degenerate result keeps the previous orientation.
func rotate(o, tau mgl32.Vec3, step float32) (mgl32.Vec3, bool) {
	next := o.Add(o.Cross(tau).Mul(step))
	l := next.Len()
	if l == 0 || !finite32(l) {
		return o, false
	}
	return next.Mul(1 / l), true
}
