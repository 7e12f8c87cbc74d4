package systems

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/mitosis/components"
	"github.com/pthm-cable/mitosis/config"
)

// ForceParams configures the non-viscous force terms.
type ForceParams struct {
	Support     Support
	Confinement [3]float32 // Per-axis well stiffness
	PolarForce  float32
	Orientation OrientationParams
}

// ForceParamsFromConfig extracts force parameters from the config.
func ForceParamsFromConfig(cfg *config.Config) ForceParams {
	return ForceParams{
		Support:     Support{Fixed: cfg.Derived.FixedSupport32},
		Confinement: cfg.Derived.Confinement32,
		PolarForce:  float32(cfg.Orientation.PolarForce),
		Orientation: OrientationParams{
			Enabled:        cfg.Orientation.Enabled,
			TorqueCoupling: float32(cfg.Orientation.TorqueCoupling),
			DipoleStrength: float32(cfg.Orientation.DipoleStrength),
		},
	}
}

// AccumulateForces adds pressure, confinement, polar and orientation terms
// to every particle's force and torque. Density must be current.
func AccumulateForces(particles []components.Particle, finder NeighborFinder, params ForceParams, pool *Pool) {
	pool.Run(len(particles), func(start, end int, s *Scratch) {
		for i := start; i < end; i++ {
			forceAt(particles, i, finder, params, s)
		}
	})
}

func forceAt(particles []components.Particle, i int, finder NeighborFinder, params ForceParams, s *Scratch) {
	pi := &particles[i]

	var fPress, fDipole, torque mgl32.Vec3
	s.Candidates = finder.Candidates(s.Candidates[:0], particles, i)
	for _, j := range s.Candidates {
		if j == i {
			continue
		}
		pj := &particles[j]
		h := params.Support.Radius(pi, pj)
		rij := pj.Position.Sub(pi.Position)
		r2 := rij.LenSqr()
		if r2 >= h*h {
			continue
		}
		if r2 < pairEpsilon {
			s.Counters.CoincidentPairs++
			continue
		}
		if pj.Density <= 0 {
			s.Counters.ZeroDensityPairs++
			continue
		}

		dir := rij.Mul(1 / sqrt32(r2))

		// Points away from j when the pair is over-pressured
		mag := pj.Mass * (pi.Pressure + pj.Pressure) * WSpikyGrad(r2, h) / (2 * pj.Density)
		fPress = fPress.Sub(dir.Mul(mag))

		if params.Orientation.Enabled {
			f, tau := params.Orientation.couple(pi.Orientation, pj.Orientation, dir.Mul(-1), WPoly6(r2, h))
			fDipole = fDipole.Add(f)
			torque = torque.Add(tau)
		}
	}

	p := pi.Position
	fWell := mgl32.Vec3{
		-params.Confinement[0] * p[0],
		-params.Confinement[1] * p[1],
		-params.Confinement[2] * p[2],
	}
	fPolar := pi.Orientation.Mul(params.PolarForce)

	pi.Force = pi.Force.Add(fPress).Add(fWell).Add(fPolar).Add(fDipole)
	pi.Torque = pi.Torque.Add(torque)
}
