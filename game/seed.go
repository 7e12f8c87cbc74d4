package game

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/mitosis/components"
	"github.com/pthm-cable/mitosis/config"
	"github.com/pthm-cable/mitosis/systems"
)

// Seed fills store with the initial population described by sc and returns
// the number of particles added.
//
// The origin distribution places every particle at the origin with the base
// mass. The normal distribution draws positions from a Gaussian with per-axis
// standard deviation sc.Spread and log-normal masses mass*exp(sigma*N).
// Orientations are uniform on the unit sphere in both cases.
func Seed(store *components.Store, rng *rand.Rand, sc config.SeedConfig) int {
	color := [3]float32{float32(sc.Color[0]), float32(sc.Color[1]), float32(sc.Color[2])}

	for i := 0; i < sc.Count; i++ {
		var pos mgl32.Vec3
		mass := float32(sc.Mass)

		if sc.Distribution == config.SeedNormal {
			for axis := 0; axis < 3; axis++ {
				pos[axis] = float32(rng.NormFloat64() * sc.Spread[axis])
			}
			mass = float32(sc.Mass * math.Exp(sc.MassSigma*rng.NormFloat64()))
		}

		store.Append(components.NewParticle(pos, mass, color, systems.RandomAxis(rng)))
	}
	return sc.Count
}
