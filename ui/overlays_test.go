package ui

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func TestOverlayRegistry_DefaultsDisabled(t *testing.T) {
	reg := NewOverlayRegistry()

	if len(reg.All()) == 0 {
		t.Fatal("expected default overlays")
	}
	if len(reg.EnabledOverlays()) != 0 {
		t.Error("overlays should start disabled")
	}
	if cats := reg.Categories(); len(cats) != 2 || cats[0] != "visual" || cats[1] != "debug" {
		t.Errorf("unexpected categories: %v", cats)
	}
}

func TestOverlayRegistry_Exclusive(t *testing.T) {
	reg := NewOverlayRegistry()

	reg.Toggle(OverlayDensityColors)
	if !reg.IsEnabled(OverlayDensityColors) {
		t.Fatal("density colors should be enabled")
	}

	reg.Toggle(OverlayAgeColors)
	if reg.IsEnabled(OverlayDensityColors) {
		t.Error("age colors should disable density colors")
	}
	if !reg.IsEnabled(OverlayAgeColors) {
		t.Error("age colors should be enabled")
	}
}

func TestOverlayRegistry_HandleKeyPress(t *testing.T) {
	reg := NewOverlayRegistry()

	id, state, ok := reg.HandleKeyPress(rl.KeyO)
	if !ok || id != OverlayOrientation || !state {
		t.Errorf("expected orientation toggled on, got %q %v %v", id, state, ok)
	}

	if _, _, ok := reg.HandleKeyPress(rl.KeyF12); ok {
		t.Error("unbound key should not toggle anything")
	}

	reg.SetEnabled(OverlayGrid, true)
	enabled := reg.EnabledOverlays()
	if len(enabled) != 2 || enabled[0] != OverlayGrid || enabled[1] != OverlayOrientation {
		t.Errorf("expected registration order [grid orientation], got %v", enabled)
	}
}
