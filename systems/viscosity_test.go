package systems

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/pthm-cable/mitosis/components"
)

func TestImplicitDiagonalSystem(t *testing.T) {
	// Far apart: Gamma is friction * I and X = B / friction
	particles := lattice(4, 100, 5)
	for i := range particles {
		particles[i].Force = mgl32.Vec3{float32(i + 1), -2, 0.5}
	}
	finder := NewAllPairs()
	prepared(particles, finder)

	solver := NewImplicitViscosity(ViscosityParams{Viscosity: 1e-4, Friction: 0.5, MaxCondition: 1e12})
	require.NoError(t, solver.Solve(particles, finder, NewPool(1, 0)))

	for i := range particles {
		want := mgl32.Vec3{float32(i + 1), -2, 0.5}.Mul(2)
		for k := 0; k < 3; k++ {
			assert.InDelta(t, float64(want[k]), float64(particles[i].Force[k]), 1e-5)
		}
	}
}

func TestImplicitMatchesExplicitWithoutCoupling(t *testing.T) {
	// Unit friction and no neighbors: both strategies leave the force unchanged
	a := lattice(3, 100, 9)
	for i := range a {
		a[i].Force = mgl32.Vec3{1, 2, 3}
		a[i].Velocity = mgl32.Vec3{float32(i), 0, 0}
	}
	b := make([]components.Particle, len(a))
	copy(b, a)

	finder := NewAllPairs()
	prepared(a, finder)
	prepared(b, finder)

	params := ViscosityParams{Viscosity: 1e-4, Friction: 1, MaxCondition: 1e12}
	require.NoError(t, NewImplicitViscosity(params).Solve(a, finder, NewPool(1, 0)))
	require.NoError(t, NewExplicitViscosity(params).Solve(b, finder, NewPool(1, 0)))

	for i := range a {
		assert.True(t, a[i].Force.ApproxEqualThreshold(b[i].Force, 1e-6), "particle %d: %v vs %v", i, a[i].Force, b[i].Force)
	}
}

func TestImplicitGammaStructure(t *testing.T) {
	particles := lattice(27, 0.8, 2)
	finder := NewAllPairs()
	prepared(particles, finder)

	solver := NewImplicitViscosity(ViscosityParams{Viscosity: 1e-4, Friction: 1e-5, MaxCondition: 1e12})
	require.NoError(t, solver.Solve(particles, finder, NewPool(1, 0)))

	gamma := solver.Gamma()
	n, c := gamma.Dims()
	require.Equal(t, len(particles), n)
	require.Equal(t, n, c)

	// Every row sums to the friction term
	for i := 0; i < n; i++ {
		assert.InDelta(t, 1e-5, mat.Sum(gamma.RowView(i)), 1e-9, "row %d", i)
		assert.Greater(t, gamma.At(i, i), 0.0)
	}
}

func TestImplicitSolutionSatisfiesSystem(t *testing.T) {
	particles := lattice(20, 0.8, 4)
	for i := range particles {
		particles[i].Force = mgl32.Vec3{1e-4 * float32(i), -1e-4, 2e-4}
	}
	b := mat.NewDense(len(particles), 3, nil)
	for i := range particles {
		for k := 0; k < 3; k++ {
			b.Set(i, k, float64(particles[i].Force[k]))
		}
	}

	finder := NewAllPairs()
	prepared(particles, finder)
	solver := NewImplicitViscosity(ViscosityParams{Viscosity: 1e-4, Friction: 1e-3, MaxCondition: 1e12})
	require.NoError(t, solver.Solve(particles, finder, NewPool(1, 0)))

	x := mat.NewDense(len(particles), 3, nil)
	for i := range particles {
		for k := 0; k < 3; k++ {
			x.Set(i, k, float64(particles[i].Force[k]))
		}
	}
	var got mat.Dense
	got.Mul(solver.Gamma(), x)
	assert.True(t, mat.EqualApprox(&got, b, 1e-7))
}

func TestImplicitSingularFallsBack(t *testing.T) {
	// No friction and no neighbors: Gamma is the zero matrix
	particles := lattice(2, 100, 1)
	for i := range particles {
		particles[i].Force = mgl32.Vec3{1, 1, 1}
	}
	finder := NewAllPairs()
	prepared(particles, finder)

	params := ViscosityParams{Viscosity: 1e-4, Friction: 0, MaxCondition: 1e12}
	implicit := NewImplicitViscosity(params)
	err := implicit.Solve(particles, finder, NewPool(1, 0))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSolveFailed))
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, particles[0].Force, "forces must be untouched on failure")

	pool := NewPool(1, 0)
	fellBack := SolveViscosity(particles, finder, implicit, NewExplicitViscosity(params), pool)
	assert.True(t, fellBack)
	assert.Equal(t, 1, pool.Drain().SolverFallbacks)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, particles[1].Force)
}

func TestImplicitReallocatesOnPopulationChange(t *testing.T) {
	finder := NewAllPairs()
	solver := NewImplicitViscosity(ViscosityParams{Viscosity: 1e-4, Friction: 1e-5, MaxCondition: 1e12})

	for _, n := range []int{3, 3, 8, 2} {
		particles := lattice(n, 0.8, int64(n))
		prepared(particles, finder)
		require.NoError(t, solver.Solve(particles, finder, NewPool(1, 0)))
		r, _ := solver.Gamma().Dims()
		assert.Equal(t, n, r)
	}
}

func TestExplicitViscosityDampsRelativeMotion(t *testing.T) {
	particles := pair(0.5)
	particles[0].Velocity = mgl32.Vec3{1, 0, 0}
	particles[1].Velocity = mgl32.Vec3{-1, 0, 0}
	finder := NewAllPairs()
	prepared(particles, finder)

	params := ViscosityParams{Viscosity: 1e-2, Friction: 1e-5, MaxCondition: 1e12}
	require.NoError(t, NewExplicitViscosity(params).Solve(particles, finder, NewPool(1, 0)))

	assert.Less(t, particles[0].Force[0], float32(0))
	assert.Greater(t, particles[1].Force[0], float32(0))
	assert.InDelta(t, float64(-particles[0].Force[0]), float64(particles[1].Force[0]), 1e-7)
}
