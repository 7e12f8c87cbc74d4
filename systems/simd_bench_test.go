package systems

import (
	"testing"

	"gonum.org/v1/gonum/blas/blas32"

	"github.com/pthm-cable/mitosis/components"
)

// Benchmark relaxation position update with the scalar integrator
func BenchmarkIntegrateScalar(b *testing.B) {
	particles := lattice(1000, 0.8, 1)
	for i := range particles {
		particles[i].Force[0] = 1e-4
	}
	pool := NewPool(1, 0)
	params := IntegratorParams{DT: 0.5}

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		Integrate(particles, params, pool)
	}
}

// Benchmark the same update as one axpy over flattened positions
func BenchmarkIntegrateBLAS(b *testing.B) {
	size := 1000 * 3
	pos := make([]float32, size)
	force := make([]float32, size)
	for i := 0; i < size; i += 3 {
		force[i] = 1e-4
	}

	// Pre-create vectors (reused each iteration)
	vPos := blas32.Vector{N: size, Inc: 1, Data: pos}
	vForce := blas32.Vector{N: size, Inc: 1, Data: force}

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		blas32.Axpy(0.5, vForce, vPos) // pos += dt*force
	}
}

// Benchmark instance flattening for the render buffer
func BenchmarkFlattenInstances(b *testing.B) {
	particles := lattice(1000, 0.8, 1)
	insts := make([]components.Instance, len(particles))
	for i := range particles {
		insts[i] = components.NewInstance(&particles[i], true)
	}
	buf := make([]float32, 0, len(insts)*components.InstanceFloats)

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		buf = components.FlattenInstances(buf[:0], insts)
	}
}

// Benchmark copying a flattened buffer with blas32
func BenchmarkFlattenCopyBLAS(b *testing.B) {
	particles := lattice(1000, 0.8, 1)
	insts := make([]components.Instance, len(particles))
	for i := range particles {
		insts[i] = components.NewInstance(&particles[i], true)
	}
	src := components.FlattenInstances(nil, insts)
	dst := make([]float32, len(src))

	vSrc := blas32.Vector{N: len(src), Inc: 1, Data: src}
	vDst := blas32.Vector{N: len(dst), Inc: 1, Data: dst}

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		blas32.Copy(vSrc, vDst)
	}
}

// Benchmark the implicit viscosity solve at the default division cap
func BenchmarkImplicitSolve(b *testing.B) {
	particles := lattice(200, 0.8, 1)
	finder := NewAllPairs()
	prepared(particles, finder)
	solver := NewImplicitViscosity(ViscosityParams{Viscosity: 1e-4, Friction: 1e-5, MaxCondition: 1e12})
	pool := NewPool(1, 0)

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		if err := solver.Solve(particles, finder, pool); err != nil {
			b.Fatal(err)
		}
	}
}
