package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func near(a, b mgl32.Vec3) bool {
	return a.ApproxEqualThreshold(b, 1e-4)
}

func TestNewLooksAtOrigin(t *testing.T) {
	cam := New(1280, 720, 30)

	if cam.Target != (mgl32.Vec3{}) {
		t.Errorf("expected target at origin, got %v", cam.Target)
	}
	if d := cam.Position().Len(); math.Abs(float64(d-30)) > 1e-4 {
		t.Errorf("expected eye 30 from target, got %f", d)
	}
	if !near(cam.Forward(), cam.Position().Mul(-1).Normalize()) {
		t.Error("forward should point from eye to target")
	}
}

func TestBasisIsOrthonormal(t *testing.T) {
	cam := New(1280, 720, 10)
	cam.Rotate(1.3, -0.4)

	f, r, u := cam.Forward(), cam.Right(), cam.Up()
	for name, v := range map[string]mgl32.Vec3{"forward": f, "right": r, "up": u} {
		if math.Abs(float64(v.Len()-1)) > 1e-5 {
			t.Errorf("%s not unit: %f", name, v.Len())
		}
	}
	if math.Abs(float64(f.Dot(r))) > 1e-5 || math.Abs(float64(f.Dot(u))) > 1e-5 || math.Abs(float64(r.Dot(u))) > 1e-5 {
		t.Error("basis vectors should be mutually perpendicular")
	}
	if u[1] <= 0 {
		t.Error("screen up should have a positive world Y component")
	}
}

func TestViewMapsTargetInFront(t *testing.T) {
	cam := New(1280, 720, 12)
	cam.Target = mgl32.Vec3{1, 2, 3}

	p := cam.View().Mul4x1(cam.Target.Vec4(1))
	// Camera looks down -Z in view space
	if math.Abs(float64(p[0])) > 1e-4 || math.Abs(float64(p[1])) > 1e-4 {
		t.Errorf("target should be centered, got %v", p)
	}
	if math.Abs(float64(p[2]+12)) > 1e-3 {
		t.Errorf("target should be 12 units ahead, got z=%f", p[2])
	}
}

func TestPitchClamped(t *testing.T) {
	cam := New(1280, 720, 10)

	cam.Rotate(0, 10)
	if cam.Pitch >= math.Pi/2 {
		t.Errorf("pitch should stay below the pole, got %f", cam.Pitch)
	}
	cam.Rotate(0, -20)
	if cam.Pitch <= -math.Pi/2 {
		t.Errorf("pitch should stay above the pole, got %f", cam.Pitch)
	}
}

func TestZoomClamping(t *testing.T) {
	cam := New(1280, 720, 10)

	cam.ZoomBy(1e6)
	if cam.Distance != cam.MaxDistance {
		t.Errorf("expected distance clamped to max %f, got %f", cam.MaxDistance, cam.Distance)
	}

	cam.ZoomBy(1e-9)
	if cam.Distance != cam.MinDistance {
		t.Errorf("expected distance clamped to min %f, got %f", cam.MinDistance, cam.Distance)
	}
}

func TestPanMovesInViewPlane(t *testing.T) {
	cam := New(1280, 720, 20)
	f := cam.Forward()

	cam.Pan(100, -50)

	if cam.Target.Len() == 0 {
		t.Fatal("pan should move the target")
	}
	if math.Abs(float64(cam.Target.Dot(f))) > 1e-4 {
		t.Errorf("pan should not move along the view direction, got %f", cam.Target.Dot(f))
	}
	// Dragging right moves the scene right, so the target moves left
	if cam.Target.Dot(cam.Right()) >= 0 {
		t.Error("dragging right should move the target toward screen left")
	}
}

func TestFit(t *testing.T) {
	cam := New(1280, 720, 10)
	cam.Fit(20)

	half := float64(mgl32.DegToRad(cam.Fovy)) / 2
	want := 20 / math.Sin(half)
	if math.Abs(float64(cam.Distance)-want) > 1e-3 {
		t.Errorf("expected distance %f, got %f", want, cam.Distance)
	}
}

func TestReset(t *testing.T) {
	cam := New(1280, 720, 10)
	start := cam.Position()

	cam.Rotate(1, 0.5)
	cam.Pan(300, 200)
	cam.ZoomBy(3)
	cam.Resize(800, 600)
	cam.Reset()

	if !near(cam.Position(), start) {
		t.Errorf("expected eye back at %v, got %v", start, cam.Position())
	}
	if cam.ViewportW != 800 || cam.ViewportH != 600 {
		t.Error("reset should keep the current viewport")
	}

	// Reset is repeatable
	cam.ZoomBy(2)
	cam.Reset()
	if !near(cam.Position(), start) {
		t.Error("second reset should restore the same view")
	}
}

func TestResetRestoresHomePose(t *testing.T) {
	cam := New(1280, 720, 10)
	home := *cam

	cam.Target = mgl32.Vec3{1, 2, 3}
	cam.Fovy = 60
	cam.MinDistance, cam.MaxDistance = 2, 20
	cam.Fit(50)
	cam.Rotate(-0.7, 0.3)
	cam.Reset()

	if cam.Target != home.Target || cam.Yaw != home.Yaw || cam.Pitch != home.Pitch {
		t.Errorf("expected target/yaw/pitch %v/%v/%v, got %v/%v/%v",
			home.Target, home.Yaw, home.Pitch, cam.Target, cam.Yaw, cam.Pitch)
	}
	if cam.Distance != home.Distance || cam.Fovy != home.Fovy {
		t.Errorf("expected distance %v fovy %v, got %v %v", home.Distance, home.Fovy, cam.Distance, cam.Fovy)
	}
	if cam.MinDistance != home.MinDistance || cam.MaxDistance != home.MaxDistance {
		t.Errorf("expected zoom limits [%v, %v], got [%v, %v]",
			home.MinDistance, home.MaxDistance, cam.MinDistance, cam.MaxDistance)
	}
}
