package renderer

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func TestHeatEndpoints(t *testing.T) {
	cold := Heat(0)
	hot := Heat(1)

	if cold.B <= cold.R {
		t.Errorf("cold end should be blue-dominant, got %+v", cold)
	}
	if hot.R <= hot.B {
		t.Errorf("hot end should be red-dominant, got %+v", hot)
	}
	if Heat(-3) != cold || Heat(7) != hot {
		t.Error("values outside [0, 1] should clamp to the ramp ends")
	}
}

func TestToColorClamps(t *testing.T) {
	got := toColor([3]float32{-0.5, 0.5, 2}, 200)
	want := rl.Color{R: 0, G: 127, B: 255, A: 200}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}
