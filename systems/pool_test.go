package systems

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/mitosis/components"
)

func TestPoolVisitsEveryIndexOnce(t *testing.T) {
	tests := []struct {
		name      string
		workers   int
		threshold int
		n         int
	}{
		{"serial", 1, 0, 100},
		{"below threshold", 4, 1000, 100},
		{"parallel", 4, 1, 100},
		{"more workers than items", 8, 1, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := NewPool(tt.workers, tt.threshold)
			defer pool.Stop()

			visits := make([]int, tt.n)
			pool.Run(tt.n, func(start, end int, s *Scratch) {
				for i := start; i < end; i++ {
					visits[i]++
				}
			})
			for i, v := range visits {
				assert.Equal(t, 1, v, "index %d", i)
			}
		})
	}
}

func TestParallelPhasesMatchSerial(t *testing.T) {
	serial := lattice(300, 0.8, 21)
	parallel := make([]components.Particle, len(serial))
	copy(parallel, serial)

	step := func(particles []components.Particle, pool *Pool) {
		finder := NewSpatialGrid()
		finder.Build(particles, Support{})
		UpdateDensity(particles, finder, DensityParams{RestDensity: 1.2, GasConst: 0.0003}, pool)
		AccumulateForces(particles, finder, ForceParams{Confinement: [3]float32{3e-6, 1e-5, 1e-5}}, pool)
		params := ViscosityParams{Viscosity: 1e-4, Friction: 1e-5, MaxCondition: 1e12}
		SolveViscosity(particles, finder, NewImplicitViscosity(params), NewExplicitViscosity(params), pool)
		Integrate(particles, IntegratorParams{DT: 0.5}, pool)
	}

	serialPool := NewPool(1, 0)
	parallelPool := NewPool(4, 1)
	defer parallelPool.Stop()

	for i := 0; i < 3; i++ {
		step(serial, serialPool)
		step(parallel, parallelPool)
	}

	for i := range serial {
		require.Equal(t, serial[i].Density, parallel[i].Density, "density %d", i)
		assert.True(t, serial[i].Position.ApproxEqualThreshold(parallel[i].Position, 1e-6),
			"particle %d: %v vs %v", i, serial[i].Position, parallel[i].Position)
	}
}

func TestPoolDrainSumsWorkers(t *testing.T) {
	pool := NewPool(3, 1)
	defer pool.Stop()

	pool.Run(30, func(start, end int, s *Scratch) {
		s.Counters.CoincidentPairs += end - start
	})
	got := pool.Drain()
	assert.Equal(t, 30, got.CoincidentPairs)
	assert.Equal(t, 30, got.Total())
	assert.Equal(t, Counters{}, pool.Drain())
}

func TestPoolStopIsIdempotent(t *testing.T) {
	pool := NewPool(2, 1)
	pool.Run(10, func(start, end int, s *Scratch) {})
	pool.Stop()
	pool.Stop()

	// A stopped pool restarts on demand
	var sum mgl32.Vec3
	out := make([]mgl32.Vec3, 10)
	pool.Run(10, func(start, end int, s *Scratch) {
		for i := start; i < end; i++ {
			out[i] = mgl32.Vec3{1, 0, 0}
		}
	})
	for _, v := range out {
		sum = sum.Add(v)
	}
	assert.Equal(t, float32(10), sum[0])
	pool.Stop()
}
