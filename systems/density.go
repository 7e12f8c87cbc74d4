package systems

import (
	"github.com/pthm-cable/mitosis/components"
	"github.com/pthm-cable/mitosis/config"
)

// pairEpsilon is the squared separation below which two particles are
// treated as coincident and skipped in direction-dependent terms.
const pairEpsilon = 1e-12

// DensityParams configures the density pass and equation of state.
type DensityParams struct {
	Support     Support
	RestDensity float32
	GasConst    float32
	Cubic       bool // p = k(rho - rho0)^3 instead of k(rho - rho0)
}

// DensityParamsFromConfig extracts density parameters from the config.
func DensityParamsFromConfig(cfg *config.Config) DensityParams {
	return DensityParams{
		Support:     Support{Fixed: cfg.Derived.FixedSupport32},
		RestDensity: cfg.Derived.RestDensity32,
		GasConst:    cfg.Derived.GasConst32,
		Cubic:       cfg.Fluid.EOS == config.EOSCubic,
	}
}

// Pressure evaluates the equation of state.
func (dp DensityParams) Pressure(density float32) float32 {
	d := density - dp.RestDensity
	if dp.Cubic {
		return dp.GasConst * d * d * d
	}
	return dp.GasConst * d
}

// UpdateDensity recomputes density and pressure of every particle.
// The finder must have been built for the current positions.
func UpdateDensity(particles []components.Particle, finder NeighborFinder, params DensityParams, pool *Pool) {
	pool.Run(len(particles), func(start, end int, s *Scratch) {
		for i := start; i < end; i++ {
			densityAt(particles, i, finder, params, s)
		}
	})
}

func densityAt(particles []components.Particle, i int, finder NeighborFinder, params DensityParams, s *Scratch) {
	pi := &particles[i]

	// Self term included: j == i contributes m_i * W(0, h)
	var density float32
	s.Candidates = finder.Candidates(s.Candidates[:0], particles, i)
	for _, j := range s.Candidates {
		pj := &particles[j]
		h := params.Support.Radius(pi, pj)
		r2 := pi.Position.Sub(pj.Position).LenSqr()
		if r2 < h*h {
			density += pj.Mass * WPoly6(r2, h)
		}
	}

	pressure := params.Pressure(density)
	if !finite32(density) || density < 0 {
		density = 0
		pressure = 0
		s.Counters.DensityClamped++
	} else if !finite32(pressure) {
		pressure = 0
		s.Counters.DensityClamped++
	}
	pi.Density = density
	pi.Pressure = pressure
}
