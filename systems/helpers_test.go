package systems

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/mitosis/components"
)

// lattice returns n unit-mass particles on a cubic lattice with the given spacing,
// jittered slightly so no two pairs share an exact separation.
func lattice(n int, spacing float32, seed int64) []components.Particle {
	rng := rand.New(rand.NewSource(seed))
	side := 1
	for side*side*side < n {
		side++
	}
	out := make([]components.Particle, 0, n)
	for i := 0; len(out) < n; i++ {
		x := float32(i%side) * spacing
		y := float32((i/side)%side) * spacing
		z := float32(i/(side*side)) * spacing
		jit := mgl32.Vec3{rng.Float32(), rng.Float32(), rng.Float32()}.Mul(0.05 * spacing)
		p := components.NewParticle(mgl32.Vec3{x, y, z}.Add(jit), 1, [3]float32{0.5, 0.5, 0.5}, RandomAxis(rng))
		p.ID = uint32(i + 1)
		out = append(out, p)
	}
	return out
}

// prepared runs density so the particles are ready for the force phases.
func prepared(particles []components.Particle, finder NeighborFinder) {
	finder.Build(particles, Support{})
	UpdateDensity(particles, finder, DensityParams{RestDensity: 1.2, GasConst: 0.0003}, NewPool(1, 0))
}
