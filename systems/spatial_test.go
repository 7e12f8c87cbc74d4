package systems

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/mitosis/components"
)

func TestSpatialGridCoversAllNeighbors(t *testing.T) {
	tests := []struct {
		name    string
		support Support
	}{
		{"sum of radii", Support{}},
		{"fixed radius", Support{Fixed: 2.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			particles := lattice(125, 0.9, 7)
			grid := NewSpatialGrid()
			grid.Build(particles, tt.support)

			var cands []int
			for i := range particles {
				cands = grid.Candidates(cands[:0], particles, i)
				inGrid := make(map[int]bool, len(cands))
				for _, j := range cands {
					require.False(t, inGrid[j], "duplicate candidate %d for %d", j, i)
					inGrid[j] = true
				}
				for j := range particles {
					h := tt.support.Radius(&particles[i], &particles[j])
					r2 := particles[i].Position.Sub(particles[j].Position).LenSqr()
					if r2 < h*h {
						assert.True(t, inGrid[j], "neighbor %d of %d missing from grid", j, i)
					}
				}
			}
		})
	}
}

func TestSpatialGridDensityMatchesAllPairs(t *testing.T) {
	a := lattice(200, 0.8, 3)
	b := make([]components.Particle, len(a))
	copy(b, a)

	prepared(a, NewAllPairs())
	prepared(b, NewSpatialGrid())

	for i := range a {
		assert.InEpsilon(t, float64(a[i].Density), float64(b[i].Density), 1e-5, "particle %d", i)
	}
}

func TestSpatialGridRebuildDropsStaleBuckets(t *testing.T) {
	particles := lattice(8, 1, 1)
	grid := NewSpatialGrid()
	grid.Build(particles, Support{})
	assert.Greater(t, grid.CellSize(), float32(0))

	// Move everything far away; old buckets must not yield candidates
	for i := range particles {
		particles[i].Position[0] += 1000
	}
	grid.Build(particles, Support{})
	cands := grid.Candidates(nil, particles, 0)
	assert.Contains(t, cands, 0)
	assert.LessOrEqual(t, len(cands), len(particles))
}

func TestAllPairsCandidates(t *testing.T) {
	particles := lattice(5, 1, 1)
	ap := NewAllPairs()
	ap.Build(particles, Support{})
	assert.Equal(t, []int{0, 1, 2, 3, 4}, ap.Candidates(nil, particles, 2))
}
