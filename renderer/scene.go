package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/mitosis/camera"
	"github.com/pthm-cable/mitosis/components"
)

// Reference geometry
const (
	gridSlices  = 20
	gridSpacing = 1.0
	axisLength  = 3.0
)

// Camera3D converts an orbit camera into a raylib perspective camera.
func Camera3D(o *camera.Orbit) rl.Camera3D {
	up := o.Up()
	return rl.Camera3D{
		Position:   toVector3(o.Position()),
		Target:     toVector3(o.Target),
		Up:         toVector3(up),
		Fovy:       o.Fovy,
		Projection: rl.CameraPerspective,
	}
}

// DrawGrid draws the XZ reference grid.
func DrawGrid() {
	rl.DrawGrid(gridSlices, gridSpacing)
}

// DrawAxes draws the world axes through the origin: X red, Y green, Z blue.
func DrawAxes() {
	origin := rl.NewVector3(0, 0, 0)
	rl.DrawLine3D(origin, rl.NewVector3(axisLength, 0, 0), rl.Red)
	rl.DrawLine3D(origin, rl.NewVector3(0, axisLength, 0), rl.Green)
	rl.DrawLine3D(origin, rl.NewVector3(0, 0, axisLength), rl.Blue)
}

// Pick returns the index of the nearest instance under the screen point, or -1.
func Pick(instances []components.Instance, screen rl.Vector2, cam rl.Camera3D) int {
	ray := rl.GetScreenToWorldRay(screen, cam)

	best := -1
	var bestDist float32
	for i := range instances {
		hit := rl.GetRayCollisionSphere(ray, toVector3(instances[i].Position()), instances[i].Scale())
		if hit.Hit && (best < 0 || hit.Distance < bestDist) {
			best = i
			bestDist = hit.Distance
		}
	}
	return best
}
