package game

import (
	"github.com/go-gl/mathgl/mgl32"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/mitosis/renderer"
	"github.com/pthm-cable/mitosis/ui"
)

// velocityFrames is how many frames of motion a velocity segment spans.
const velocityFrames = 30

// handleOverlayKeys checks for overlay toggle key presses.
func (g *Game) handleOverlayKeys() {
	for _, desc := range g.overlays.All() {
		if desc.Key != 0 && rl.IsKeyPressed(desc.Key) {
			g.overlays.Toggle(desc.ID)
		}
	}
}

// syncOverlays pushes overlay state that affects the snapshot into the config.
func (g *Game) syncOverlays() {
	g.cfg.Orientation.Render = g.overlays.IsEnabled(ui.OverlayOrientation)
}

// drawOptions maps enabled overlays onto particle draw options.
// Per-particle buffers are indexed like the current snapshot.
func (g *Game) drawOptions(selected int) renderer.DrawOptions {
	opts := renderer.DrawOptions{
		Orientation: g.overlays.IsEnabled(ui.OverlayOrientation),
		Support:     g.overlays.IsEnabled(ui.OverlaySupport),
		Selected:    selected,
	}

	store := g.sim.Store()
	n := store.Len()

	switch {
	case g.overlays.IsEnabled(ui.OverlayDensityColors):
		// Rest density maps to the middle of the ramp
		scale := 2 * g.cfg.Derived.RestDensity32
		g.values = g.values[:0]
		for i := 0; i < n; i++ {
			g.values = append(g.values, ratio(store.At(i).Density, scale))
		}
		opts.Values = g.values
	case g.overlays.IsEnabled(ui.OverlayAgeColors):
		threshold := float32(g.cfg.Division.AgeThreshold)
		g.values = g.values[:0]
		for i := 0; i < n; i++ {
			g.values = append(g.values, ratio(store.At(i).Age, threshold))
		}
		opts.Values = g.values
	}

	if g.overlays.IsEnabled(ui.OverlayVelocity) {
		g.velocities = g.velocities[:0]
		for i := 0; i < n; i++ {
			g.velocities = append(g.velocities, store.At(i).Velocity)
		}
		opts.Velocities = g.velocities
		opts.VelocityScale = float32(velocityFrames * float64(g.cfg.Simulation.Substeps) * g.cfg.Simulation.DT)
	}

	return opts
}

// drawReference draws the grid and axes overlays. Call inside BeginMode3D.
func (g *Game) drawReference() {
	if g.overlays.IsEnabled(ui.OverlayGrid) {
		renderer.DrawGrid()
	}
	if g.overlays.IsEnabled(ui.OverlayAxes) {
		renderer.DrawAxes()
	}
}

// ratio returns v/scale clamped to [0, 1], or 0 for a non-positive scale.
func ratio(v, scale float32) float32 {
	if scale <= 0 {
		return 0
	}
	return mgl32.Clamp(v/scale, 0, 1)
}
