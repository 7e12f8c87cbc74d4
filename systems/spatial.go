package systems

import (
	"math"

	"github.com/pthm-cable/mitosis/components"
	"github.com/pthm-cable/mitosis/config"
)

// NeighborFinder enumerates candidate neighbors for each particle.
// Candidates may include particles outside the support radius and the query
// particle itself; callers apply the radius test.
type NeighborFinder interface {
	// Build indexes the current positions. Must run before Candidates each sub-step.
	Build(particles []components.Particle, support Support)
	// Candidates appends candidate indices for particle i to dst.
	// Safe to call concurrently with distinct dst slices after Build.
	Candidates(dst []int, particles []components.Particle, i int) []int
}

// NewNeighborFinder creates the finder named by the config.
func NewNeighborFinder(cfg *config.Config) NeighborFinder {
	if cfg.Neighbors.Mode == config.NeighborsGrid {
		return NewSpatialGrid()
	}
	return NewAllPairs()
}

// AllPairs is the naive O(n^2) finder: every particle is a candidate.
type AllPairs struct {
	n int
}

// NewAllPairs creates an all-pairs finder.
func NewAllPairs() *AllPairs {
	return &AllPairs{}
}

// Build records the population size.
func (a *AllPairs) Build(particles []components.Particle, _ Support) {
	a.n = len(particles)
}

// Candidates appends every index.
func (a *AllPairs) Candidates(dst []int, _ []components.Particle, _ int) []int {
	for j := 0; j < a.n; j++ {
		dst = append(dst, j)
	}
	return dst
}

// cellKey addresses one cell of the unbounded grid.
type cellKey struct {
	X, Y, Z int32
}

// SpatialGrid buckets particles into cubic cells no smaller than the largest
// support radius, so all neighbors of a particle lie in the 27 surrounding cells.
type SpatialGrid struct {
	cellSize float32
	cells    map[cellKey][]int
}

// NewSpatialGrid creates an empty grid. The cell size is chosen on Build.
func NewSpatialGrid() *SpatialGrid {
	return &SpatialGrid{cells: make(map[cellKey][]int)}
}

// CellSize returns the cell edge chosen by the last Build.
func (g *SpatialGrid) CellSize() float32 {
	return g.cellSize
}

// Clear empties every cell while keeping allocated buckets.
func (g *SpatialGrid) Clear() {
	for k := range g.cells {
		g.cells[k] = g.cells[k][:0]
	}
}

// Build re-buckets all particles.
func (g *SpatialGrid) Build(particles []components.Particle, support Support) {
	size := support.Fixed
	if size <= 0 {
		var maxR float32
		for i := range particles {
			if r := particles[i].Radius(); r > maxR {
				maxR = r
			}
		}
		size = 2 * maxR
	}
	if size <= 0 {
		size = 1
	}
	g.cellSize = size

	// Drop stale buckets once they dominate the map
	if len(g.cells) > 4*len(particles)+64 {
		g.cells = make(map[cellKey][]int, len(particles))
	} else {
		g.Clear()
	}

	for i := range particles {
		k := g.key(particles[i].Position[0], particles[i].Position[1], particles[i].Position[2])
		g.cells[k] = append(g.cells[k], i)
	}
}

// Candidates appends the indices in the 27 cells around particle i.
func (g *SpatialGrid) Candidates(dst []int, particles []components.Particle, i int) []int {
	p := particles[i].Position
	c := g.key(p[0], p[1], p[2])
	for dx := int32(-1); dx <= 1; dx++ {
		for dy := int32(-1); dy <= 1; dy++ {
			for dz := int32(-1); dz <= 1; dz++ {
				bucket, ok := g.cells[cellKey{c.X + dx, c.Y + dy, c.Z + dz}]
				if ok {
					dst = append(dst, bucket...)
				}
			}
		}
	}
	return dst
}

func (g *SpatialGrid) key(x, y, z float32) cellKey {
	return cellKey{
		X: int32(math.Floor(float64(x / g.cellSize))),
		Y: int32(math.Floor(float64(y / g.cellSize))),
		Z: int32(math.Floor(float64(z / g.cellSize))),
	}
}
