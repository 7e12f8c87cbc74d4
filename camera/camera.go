// Package camera provides an orbit camera for viewing the particle cloud.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Orbit circles a target point. Yaw and pitch are in radians; pitch is
// kept short of the poles so the up vector stays well defined.
type Orbit struct {
	Target   mgl32.Vec3
	Yaw      float32
	Pitch    float32
	Distance float32

	// Vertical field of view in degrees
	Fovy float32

	// Zoom constraints
	MinDistance, MaxDistance float32

	// Viewport dimensions (screen size), used to scale pan
	ViewportW, ViewportH float32

	home pose
}

// pose is the part of an Orbit restored by Reset.
type pose struct {
	Target           mgl32.Vec3
	Yaw, Pitch       float32
	Distance, Fovy   float32
	MinDist, MaxDist float32
}

func (o *Orbit) currentPose() pose {
	return pose{o.Target, o.Yaw, o.Pitch, o.Distance, o.Fovy, o.MinDistance, o.MaxDistance}
}

const maxPitch = math.Pi/2 - 0.01

// New creates a camera looking at the origin from the given distance.
func New(viewportW, viewportH, distance float32) *Orbit {
	o := &Orbit{
		Yaw:         math.Pi / 4,
		Pitch:       math.Pi / 8,
		Distance:    distance,
		Fovy:        45,
		MinDistance: 0.5,
		MaxDistance: 500,
		ViewportW:   viewportW,
		ViewportH:   viewportH,
	}
	o.home = o.currentPose()
	return o
}

// Position returns the eye position in world coordinates.
func (o *Orbit) Position() mgl32.Vec3 {
	return o.Target.Add(o.offset())
}

// offset is the vector from target to eye.
func (o *Orbit) offset() mgl32.Vec3 {
	yaw, pitch := float64(o.Yaw), float64(o.Pitch)
	return mgl32.Vec3{
		float32(math.Cos(pitch) * math.Sin(yaw)),
		float32(math.Sin(pitch)),
		float32(math.Cos(pitch) * math.Cos(yaw)),
	}.Mul(o.Distance)
}

// Forward returns the unit view direction.
func (o *Orbit) Forward() mgl32.Vec3 {
	return o.offset().Mul(-1).Normalize()
}

// Right returns the unit screen-right direction.
func (o *Orbit) Right() mgl32.Vec3 {
	return o.Forward().Cross(mgl32.Vec3{0, 1, 0}).Normalize()
}

// Up returns the unit screen-up direction.
func (o *Orbit) Up() mgl32.Vec3 {
	return o.Right().Cross(o.Forward())
}

// View returns the world-to-camera matrix.
func (o *Orbit) View() mgl32.Mat4 {
	return mgl32.LookAtV(o.Position(), o.Target, mgl32.Vec3{0, 1, 0})
}

// Rotate turns the camera by the given yaw and pitch deltas in radians.
func (o *Orbit) Rotate(dYaw, dPitch float32) {
	o.Yaw = float32(math.Mod(float64(o.Yaw+dYaw), 2*math.Pi))
	o.Pitch = mgl32.Clamp(o.Pitch+dPitch, -maxPitch, maxPitch)
}

// Pan moves the target by the given delta in screen pixels.
// One viewport height spans the visible height at the target distance.
func (o *Orbit) Pan(dx, dy float32) {
	if o.ViewportH <= 0 {
		return
	}
	visible := 2 * o.Distance * float32(math.Tan(float64(mgl32.DegToRad(o.Fovy))/2))
	scale := visible / o.ViewportH
	o.Target = o.Target.
		Sub(o.Right().Mul(dx * scale)).
		Add(o.Up().Mul(dy * scale))
}

// SetDistance sets the orbit radius, clamped to min/max.
func (o *Orbit) SetDistance(d float32) {
	o.Distance = mgl32.Clamp(d, o.MinDistance, o.MaxDistance)
}

// ZoomBy multiplies the distance by the given factor. Factors above 1 move away.
func (o *Orbit) ZoomBy(factor float32) {
	o.SetDistance(o.Distance * factor)
}

// Fit sets the distance so a sphere of the given radius around the target
// fills the vertical field of view.
func (o *Orbit) Fit(radius float32) {
	half := float64(mgl32.DegToRad(o.Fovy)) / 2
	o.SetDistance(radius / float32(math.Sin(half)))
}

// Resize updates viewport dimensions.
func (o *Orbit) Resize(viewportW, viewportH float32) {
	o.ViewportW = viewportW
	o.ViewportH = viewportH
}

// Reset returns the camera to its initial orientation, distance and target.
// The viewport is kept.
func (o *Orbit) Reset() {
	h := o.home
	o.Target = h.Target
	o.Yaw, o.Pitch = h.Yaw, h.Pitch
	o.Distance, o.Fovy = h.Distance, h.Fovy
	o.MinDistance, o.MaxDistance = h.MinDist, h.MaxDist
}
