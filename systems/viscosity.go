package systems

import (
	"errors"
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/mat"

	"github.com/pthm-cable/mitosis/components"
	"github.com/pthm-cable/mitosis/config"
)

// ErrSolveFailed is returned when the implicit viscosity system cannot be solved.
var ErrSolveFailed = errors.New("viscosity solve failed")

// ViscositySolver couples particle motion through viscous drag.
// Solve runs after the non-viscous forces are accumulated.
type ViscositySolver interface {
	Solve(particles []components.Particle, finder NeighborFinder, pool *Pool) error
	Name() string
}

// ViscosityParams configures both strategies.
type ViscosityParams struct {
	Support      Support
	Viscosity    float32
	Friction     float32
	MaxCondition float64
}

// ViscosityParamsFromConfig extracts viscosity parameters from the config.
func ViscosityParamsFromConfig(cfg *config.Config) ViscosityParams {
	return ViscosityParams{
		Support:      Support{Fixed: cfg.Derived.FixedSupport32},
		Viscosity:    cfg.Derived.Viscosity32,
		Friction:     cfg.Derived.Friction32,
		MaxCondition: cfg.Viscosity.MaxCondition,
	}
}

// NewViscositySolver creates the strategy named by the config.
func NewViscositySolver(cfg *config.Config) ViscositySolver {
	params := ViscosityParamsFromConfig(cfg)
	if cfg.Viscosity.Strategy == config.ViscosityExplicit {
		return NewExplicitViscosity(params)
	}
	return NewImplicitViscosity(params)
}

// viscWeight is the coupling coefficient visc_ij = mu * m_j * W_visc / rho_j,
// or 0 when j is out of range or has no density.
func (vp ViscosityParams) viscWeight(pi, pj *components.Particle) float32 {
	h := vp.Support.Radius(pi, pj)
	r2 := pi.Position.Sub(pj.Position).LenSqr()
	if r2 >= h*h || pj.Density <= 0 {
		return 0
	}
	return vp.Viscosity * pj.Mass * WVisc(r2, h) / pj.Density
}

// ExplicitViscosity adds the classic SPH viscosity force.
type ExplicitViscosity struct {
	Params ViscosityParams
}

// NewExplicitViscosity creates an explicit solver.
func NewExplicitViscosity(params ViscosityParams) *ExplicitViscosity {
	return &ExplicitViscosity{Params: params}
}

// Name returns the strategy name.
func (e *ExplicitViscosity) Name() string { return config.ViscosityExplicit }

// Solve adds sum_j visc_ij * (v_j - v_i) to every force. It never fails.
func (e *ExplicitViscosity) Solve(particles []components.Particle, finder NeighborFinder, pool *Pool) error {
	pool.Run(len(particles), func(start, end int, s *Scratch) {
		for i := start; i < end; i++ {
			pi := &particles[i]
			var fVisc [3]float32
			s.Candidates = finder.Candidates(s.Candidates[:0], particles, i)
			for _, j := range s.Candidates {
				if j == i {
					continue
				}
				pj := &particles[j]
				w := e.Params.viscWeight(pi, pj)
				if w == 0 {
					continue
				}
				for k := 0; k < 3; k++ {
					fVisc[k] += w * (pj.Velocity[k] - pi.Velocity[k])
				}
			}
			for k := 0; k < 3; k++ {
				pi.Force[k] += fVisc[k]
			}
		}
	})
	return nil
}

// ImplicitViscosity solves Gamma * X = B, where Gamma couples every pair in
// range through visc_ij and carries friction on the diagonal, B holds the
// accumulated forces and X replaces them.
type ImplicitViscosity struct {
	Params ViscosityParams

	n     int
	gamma *mat.Dense
	b     *mat.Dense
	x     *mat.Dense
	lu    mat.LU
}

// NewImplicitViscosity creates an implicit solver. Matrices are allocated on first use.
func NewImplicitViscosity(params ViscosityParams) *ImplicitViscosity {
	return &ImplicitViscosity{Params: params}
}

// Name returns the strategy name.
func (v *ImplicitViscosity) Name() string { return config.ViscosityImplicit }

// Gamma returns the system matrix of the last Solve.
func (v *ImplicitViscosity) Gamma() *mat.Dense {
	return v.gamma
}

// Solve builds and solves the system. On failure the forces are left untouched
// and the returned error wraps ErrSolveFailed.
func (v *ImplicitViscosity) Solve(particles []components.Particle, finder NeighborFinder, pool *Pool) error {
	n := len(particles)
	if n == 0 {
		return nil
	}
	if n != v.n {
		v.gamma = mat.NewDense(n, n, nil)
		v.b = mat.NewDense(n, 3, nil)
		v.x = mat.NewDense(n, 3, nil)
		v.n = n
	} else {
		v.gamma.Zero()
	}

	// Row i is written only by the chunk owning particle i
	friction := float64(v.Params.Friction)
	pool.Run(n, func(start, end int, s *Scratch) {
		for i := start; i < end; i++ {
			pi := &particles[i]
			var sum float64
			s.Candidates = finder.Candidates(s.Candidates[:0], particles, i)
			for _, j := range s.Candidates {
				if j == i {
					continue
				}
				w := float64(v.Params.viscWeight(pi, &particles[j]))
				if w == 0 {
					continue
				}
				v.gamma.Set(i, j, -w)
				sum += w
			}
			v.gamma.Set(i, i, sum+friction)
			v.b.Set(i, 0, float64(pi.Force[0]))
			v.b.Set(i, 1, float64(pi.Force[1]))
			v.b.Set(i, 2, float64(pi.Force[2]))
		}
	})

	v.lu.Factorize(v.gamma)
	if cond := v.lu.Cond(); cond > v.Params.MaxCondition {
		return fmt.Errorf("%w: condition number %g exceeds %g", ErrSolveFailed, cond, v.Params.MaxCondition)
	}
	if err := v.lu.SolveTo(v.x, false, v.b); err != nil {
		return fmt.Errorf("%w: %w", ErrSolveFailed, err)
	}

	raw := v.x.RawMatrix()
	for i := 0; i < n; i++ {
		row := raw.Data[i*raw.Stride : i*raw.Stride+3]
		for k := 0; k < 3; k++ {
			if !finite64(row[k]) {
				return fmt.Errorf("%w: non-finite solution for particle %d", ErrSolveFailed, i)
			}
		}
	}
	for i := 0; i < n; i++ {
		row := raw.Data[i*raw.Stride : i*raw.Stride+3]
		particles[i].Force[0] = float32(row[0])
		particles[i].Force[1] = float32(row[1])
		particles[i].Force[2] = float32(row[2])
	}
	return nil
}

// SolveViscosity runs solver and recovers with fallback when it fails.
// Returns true when the fallback was used.
func SolveViscosity(particles []components.Particle, finder NeighborFinder, solver, fallback ViscositySolver, pool *Pool) bool {
	err := solver.Solve(particles, finder, pool)
	if err == nil {
		return false
	}

	pool.Serial().Counters.SolverFallbacks++
	slog.Warn("viscosity solve failed, using fallback",
		"solver", solver.Name(),
		"fallback", fallback.Name(),
		"particles", len(particles),
		"error", err,
	)
	if ferr := fallback.Solve(particles, finder, pool); ferr != nil {
		slog.Error("viscosity fallback failed", "error", ferr)
	}
	return true
}
