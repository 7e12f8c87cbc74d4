package game

import (
	"github.com/go-gl/mathgl/mgl32"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/mitosis/renderer"
	"github.com/pthm-cable/mitosis/ui"
)

// handleSelection picks the particle under a left click.
// The instance buffer still matches store order because Advance runs after input.
func (g *Game) handleSelection() {
	if !rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		return
	}
	mouse := rl.GetMousePosition()
	if g.overPanel(mouse) {
		return
	}

	idx := renderer.Pick(g.instances, mouse, renderer.Camera3D(g.cam))
	if idx < 0 || idx >= g.sim.Population() {
		g.hasSelection = false
		return
	}
	g.selectedID = g.sim.Store().At(idx).ID
	g.hasSelection = true
}

// overPanel reports whether the screen point lies on the right-hand panel column.
func (g *Game) overPanel(p rl.Vector2) bool {
	return g.showPanels && p.X >= g.width-sidePanelWidth-20
}

// selectedIndex returns the store index of the selected particle, or -1.
// A selection whose particle no longer exists is cleared.
func (g *Game) selectedIndex() int {
	if !g.hasSelection {
		return -1
	}
	store := g.sim.Store()
	for i := range store.All() {
		if store.At(i).ID == g.selectedID {
			return i
		}
	}
	g.hasSelection = false
	return -1
}

// selectedView builds the inspector data for the selection, or nil.
func (g *Game) selectedView() *ui.ParticleView {
	idx := g.selectedIndex()
	if idx < 0 {
		return nil
	}
	p := g.sim.Store().At(idx)
	return &ui.ParticleView{
		Particle:     *p,
		Lineage:      g.sim.Lineage(p.ID),
		RestDensity:  g.cfg.Derived.RestDensity32,
		AgeThreshold: float32(g.cfg.Division.AgeThreshold),
	}
}

// frameCloud moves the camera target to the population's center of mass.
func (g *Game) frameCloud() {
	store := g.sim.Store()
	var center mgl32.Vec3
	var mass float32
	for i := range store.All() {
		p := store.At(i)
		center = center.Add(p.Position.Mul(p.Mass))
		mass += p.Mass
	}
	if mass > 0 {
		g.cam.Target = center.Mul(1 / mass)
	}
}

// cloudRadius is the distance from the camera target to the farthest particle surface.
func (g *Game) cloudRadius() float32 {
	store := g.sim.Store()
	radius := float32(minCloudRadius)
	for i := range store.All() {
		p := store.At(i)
		if d := p.Position.Sub(g.cam.Target).Len() + p.Radius(); d > radius {
			radius = d
		}
	}
	return radius
}
