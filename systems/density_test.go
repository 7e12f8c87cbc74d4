package systems

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/mitosis/components"
)

func TestDensityIsolatedParticleIsSelfTerm(t *testing.T) {
	particles := []components.Particle{
		components.NewParticle(mgl32.Vec3{}, 1, [3]float32{}, mgl32.Vec3{}),
	}
	prepared(particles, NewAllPairs())

	h := 2 * particles[0].Radius()
	want := 315.0 / (64.0 * math.Pi * math.Pow(float64(h), 3))
	assert.InEpsilon(t, want, float64(particles[0].Density), 1e-4)
	assert.InDelta(t, 0.0003*(want-1.2), float64(particles[0].Pressure), 1e-7)
}

func TestDensityNonNegative(t *testing.T) {
	particles := lattice(64, 0.5, 11)
	prepared(particles, NewAllPairs())

	for i := range particles {
		assert.GreaterOrEqual(t, particles[i].Density, float32(0), "particle %d", i)
	}
}

func TestEquationOfState(t *testing.T) {
	tests := []struct {
		name  string
		cubic bool
		rho   float32
		want  float32
	}{
		{"linear above rest", false, 3.2, 1},
		{"linear below rest", false, 0.2, -0.5},
		{"cubic above rest", true, 3.2, 4},
		{"cubic below rest", true, 0.2, -0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dp := DensityParams{RestDensity: 1.2, GasConst: 0.5, Cubic: tt.cubic}
			assert.InDelta(t, float64(tt.want), float64(dp.Pressure(tt.rho)), 1e-5)
		})
	}
}

func TestDensityClampsNonFinite(t *testing.T) {
	particles := []components.Particle{
		components.NewParticle(mgl32.Vec3{}, 1, [3]float32{}, mgl32.Vec3{}),
	}
	particles[0].Mass = float32(math.NaN())

	pool := NewPool(1, 0)
	finder := NewAllPairs()
	finder.Build(particles, Support{})
	UpdateDensity(particles, finder, DensityParams{RestDensity: 1.2, GasConst: 0.0003}, pool)

	assert.Equal(t, float32(0), particles[0].Density)
	assert.Equal(t, float32(0), particles[0].Pressure)
	require.Equal(t, 1, pool.Drain().DensityClamped)
}

func TestDensityFixedSupport(t *testing.T) {
	// With a fixed radius of 1, particles 2 apart do not interact
	particles := []components.Particle{
		components.NewParticle(mgl32.Vec3{}, 1, [3]float32{}, mgl32.Vec3{}),
		components.NewParticle(mgl32.Vec3{2, 0, 0}, 1, [3]float32{}, mgl32.Vec3{}),
	}
	params := DensityParams{Support: Support{Fixed: 1}, RestDensity: 1.2, GasConst: 0.0003}
	finder := NewAllPairs()
	finder.Build(particles, params.Support)
	UpdateDensity(particles, finder, params, NewPool(1, 0))

	assert.InEpsilon(t, float64(WPoly6(0, 1)), float64(particles[0].Density), 1e-6)
	assert.Equal(t, particles[0].Density, particles[1].Density)
}
