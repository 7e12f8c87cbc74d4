package systems

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/mitosis/components"
	"github.com/pthm-cable/mitosis/config"
)

// minDensity keeps force/density finite in the Euler integrator.
const minDensity = 1e-6

// IntegratorParams configures time integration.
type IntegratorParams struct {
	DT              float32
	Euler           bool // Semi-implicit Euler instead of overdamped relaxation
	Orientation     bool
	OrientationGain float32
}

// IntegratorParamsFromConfig extracts integrator parameters from the config.
func IntegratorParamsFromConfig(cfg *config.Config) IntegratorParams {
	return IntegratorParams{
		DT:              cfg.Derived.DT32,
		Euler:           cfg.Integrator.Mode == config.IntegratorEuler,
		Orientation:     cfg.Orientation.Enabled,
		OrientationGain: float32(cfg.Orientation.Gain),
	}
}

// Integrate advances every particle by one sub-step and zeroes its force and
// torque. Non-finite results are discarded and counted.
func Integrate(particles []components.Particle, params IntegratorParams, pool *Pool) {
	pool.Run(len(particles), func(start, end int, s *Scratch) {
		for i := start; i < end; i++ {
			integrateOne(&particles[i], params, s)
		}
	})
}

func integrateOne(p *components.Particle, params IntegratorParams, s *Scratch) {
	dt := params.DT

	var vel, pos mgl32.Vec3
	if params.Euler {
		rho := p.Density
		if rho < minDensity {
			rho = minDensity
		}
		vel = p.Velocity.Add(p.Force.Mul(dt / rho))
		pos = p.Position.Add(vel.Mul(dt))
	} else {
		// Overdamped: the solved force is the displacement rate
		vel = p.Force
		pos = p.Position.Add(p.Force.Mul(dt))
	}

	if finiteVec(pos) && finiteVec(vel) {
		p.Velocity = vel
		p.Position = pos
	} else {
		p.Velocity = mgl32.Vec3{}
		s.Counters.RejectedUpdates++
	}

	if params.Orientation {
		o, ok := rotate(p.Orientation, p.Torque, dt*params.OrientationGain)
		if !ok {
			s.Counters.RejectedUpdates++
		}
		p.Orientation = o
	}

	p.ClearAccumulators()
}

func finiteVec(v mgl32.Vec3) bool {
	return finite32(v[0]) && finite32(v[1]) && finite32(v[2])
}
