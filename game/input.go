package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Camera input sensitivity
const (
	orbitSpeed   = 0.005 // radians per pixel
	zoomStep     = 0.1   // fraction of distance per wheel notch
	maxSubsteps  = 50
	keyZoomRatio = 1.25
)

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}
	if rl.IsKeyPressed(rl.KeyN) {
		g.stepOnce = true
	}
	if rl.IsKeyPressed(rl.KeyR) {
		g.reset()
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		g.showPanels = !g.showPanels
	}

	// Substeps with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.cfg.Simulation.Substeps > 1 {
		g.setSubsteps(g.cfg.Simulation.Substeps - 1)
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.cfg.Simulation.Substeps < maxSubsteps {
		g.setSubsteps(g.cfg.Simulation.Substeps + 1)
	}

	g.handleOverlayKeys()
	g.handleCameraInput()
	g.handleSelection()
}

// setSubsteps changes the sub-step count of the running simulation.
func (g *Game) setSubsteps(n int) {
	g.cfg.Simulation.Substeps = n
	if err := g.sim.ApplyConfig(); err != nil {
		slog.Warn("rejected config change", "substeps", n, "error", err)
	}
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.width && h == g.height {
		return
	}
	g.width = w
	g.height = h

	g.cam.Resize(w, h)
	g.background.Resize(int32(w), int32(h))
}

// handleCameraInput processes orbit, pan and zoom controls.
func (g *Game) handleCameraInput() {
	delta := rl.GetMouseDelta()

	// Right drag orbits, middle drag pans
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		g.cam.Rotate(-delta.X*orbitSpeed, delta.Y*orbitSpeed)
	}
	if rl.IsMouseButtonDown(rl.MouseButtonMiddle) {
		g.cam.Pan(delta.X, delta.Y)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		g.cam.ZoomBy(1 - wheel*zoomStep)
	}

	// Keyboard zoom with +/- (= and - keys)
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.cam.ZoomBy(1 / keyZoomRatio)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.cam.ZoomBy(keyZoomRatio)
	}

	if rl.IsKeyPressed(rl.KeyC) {
		g.cam.Reset()
	}
	if rl.IsKeyPressed(rl.KeyF) {
		g.frameCloud()
		g.cam.Fit(g.cloudRadius())
	}
}
