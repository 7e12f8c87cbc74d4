package components

import "github.com/go-gl/mathgl/mgl32"

// InstanceFloats is the number of float32 values in a flattened Instance.
const InstanceFloats = 16 + 3

// Instance is the per-particle record handed to the renderer.
type Instance struct {
	Transform mgl32.Mat4 // Column-major model matrix
	Color     [3]float32
}

// NewInstance builds the render record for a particle.
// With oriented set, local +Y is rotated onto the particle orientation.
func NewInstance(p *Particle, oriented bool) Instance {
	pos := p.Position
	r := p.Radius()
	model := mgl32.Translate3D(pos[0], pos[1], pos[2])
	if oriented {
		rot := mgl32.QuatBetweenVectors(mgl32.Vec3{0, 1, 0}, p.Orientation)
		model = model.Mul4(rot.Mat4())
	}
	model = model.Mul4(mgl32.Scale3D(r, r, r))
	return Instance{Transform: model, Color: p.Color}
}

// Raw returns the instance as a flat array: 16 matrix values then 3 color values.
func (in Instance) Raw() [InstanceFloats]float32 {
	var out [InstanceFloats]float32
	copy(out[:16], in.Transform[:])
	copy(out[16:], in.Color[:])
	return out
}

// Position returns the translation column of the transform.
func (in Instance) Position() mgl32.Vec3 {
	return in.Transform.Col(3).Vec3()
}

// Scale returns the uniform scale (particle radius) encoded in the transform.
func (in Instance) Scale() float32 {
	return in.Transform.Col(0).Vec3().Len()
}

// FlattenInstances appends the raw form of every instance to dst.
func FlattenInstances(dst []float32, src []Instance) []float32 {
	for i := range src {
		raw := src[i].Raw()
		dst = append(dst, raw[:]...)
	}
	return dst
}
