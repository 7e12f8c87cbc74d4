package game

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/mitosis/renderer"
	"github.com/pthm-cable/mitosis/ui"
)

const controlsLegend = "SPACE: Pause | N: Step | R: Reset | < >: Substeps | RMB: Orbit | MMB: Pan | Wheel: Zoom | Click: Select | F: Fit | C: Camera | TAB: Panels"

// Draw renders the scene and UI.
func (g *Game) Draw() {
	g.timer.Measure("snapshot", func() {
		g.instances = g.sim.SnapshotInto(g.instances)
	})
	selected := g.selectedIndex()

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)
	g.background.Draw()

	g.timer.Measure("scene", func() {
		rl.BeginMode3D(renderer.Camera3D(g.cam))
		g.drawReference()
		g.particles.Draw(g.instances, g.drawOptions(selected))
		rl.EndMode3D()
	})

	g.timer.Measure("ui", g.drawUI)

	rl.EndDrawing()
}

// drawUI renders the HUD, the panels and the inspector.
func (g *Game) drawUI() {
	cfg := g.cfg
	frame := g.sim.Frame()

	g.hud.Draw(ui.HUDData{
		Title:         "Mitosis",
		Population:    g.sim.Population(),
		MaxPopulation: cfg.Division.MaxPopulation,
		TotalMass:     g.sim.Store().TotalMass(),
		Frame:         frame,
		SimTime:       float64(frame) * float64(cfg.Simulation.Substeps) * cfg.Simulation.DT,
		Substeps:      cfg.Simulation.Substeps,
		MaxGeneration: g.sim.MaxGeneration(),
		FPS:           rl.GetFPS(),
		Paused:        g.paused,
	})
	g.hud.DrawControls(int32(g.height), controlsLegend)

	if !g.showPanels {
		return
	}

	y := g.perfPanel.Draw(g.sim.Perf())
	g.drawViewerTimings(10, y+6)

	// Right column: simulation controls, overlays, last stats window
	x := int32(g.width) - sidePanelWidth - 10
	g.simPanel.SetPosition(x, 10)
	g.applyActions(g.simPanel.Draw(ui.SimulationState{
		Paused:          g.paused,
		Substeps:        cfg.Simulation.Substeps,
		GasConst:        cfg.Fluid.GasConst,
		DivisionEnabled: cfg.Division.Enabled,
	}))

	g.controls.SetPosition(x, 210)
	y = g.controls.Draw(g.overlays)
	g.statsPanel.SetPosition(x, y+10)
	g.statsPanel.Draw(g.lastStats)

	if view := g.selectedView(); view != nil {
		g.inspector.SetPosition(10, int32(g.height)-g.inspector.Height(view)-40)
		g.inspector.Draw(view)
	}
}

// drawViewerTimings lists the viewer's own stage costs.
func (g *Game) drawViewerTimings(x, y int32) {
	names := g.timer.SortedNames()
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s %s", name, g.timer.Avg(name).Round(time.Microsecond)))
	}
	rl.DrawText("Viewer: "+strings.Join(parts, " | "), x, y, 12, rl.Gray)
}

// applyActions applies the simulation panel's output.
func (g *Game) applyActions(actions ui.SimulationActions) {
	state := ui.SimulationState{
		Substeps:        g.cfg.Simulation.Substeps,
		GasConst:        g.cfg.Fluid.GasConst,
		DivisionEnabled: g.cfg.Division.Enabled,
	}

	if actions.TogglePause {
		g.paused = !g.paused
	}
	if actions.Step {
		g.stepOnce = true
	}
	if actions.Reset {
		g.reset()
	}
	if !actions.Changed(state) {
		return
	}

	if actions.ToggleDivision {
		g.cfg.Division.Enabled = !g.cfg.Division.Enabled
	}
	g.cfg.Simulation.Substeps = actions.Substeps
	g.cfg.Fluid.GasConst = actions.GasConst
	if err := g.sim.ApplyConfig(); err != nil {
		slog.Warn("rejected config change", "error", err)
	}
}
