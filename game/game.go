package game

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/mitosis/camera"
	"github.com/pthm-cable/mitosis/components"
	"github.com/pthm-cable/mitosis/config"
	"github.com/pthm-cable/mitosis/renderer"
	"github.com/pthm-cable/mitosis/telemetry"
	"github.com/pthm-cable/mitosis/ui"
)

// Viewer layout
const (
	sidePanelWidth = 230
	inspectorWidth = 280
	minCloudRadius = 2
)

// Game is the interactive viewer around a Simulation.
type Game struct {
	sim *Simulation
	cfg *config.Config

	// Rendering
	cam        *camera.Orbit
	background *renderer.BackgroundRenderer
	particles  *renderer.ParticleRenderer

	// UI
	hud        *ui.HUD
	perfPanel  *ui.PerfPanel
	simPanel   *ui.SimulationPanel
	controls   *ui.ControlsPanel
	statsPanel *ui.QuickStatsPanel
	inspector  *ui.Inspector
	overlays   *ui.OverlayRegistry

	timer *FrameTimer

	// Per-frame buffers, reused
	instances  []components.Instance
	values     []float32
	velocities []mgl32.Vec3

	lastStats telemetry.WindowStats

	// Selection by particle ID, which survives reordering
	selectedID   uint32
	hasSelection bool

	// State
	paused     bool
	stepOnce   bool
	showPanels bool

	// Window dimensions
	width, height float32
}

// NewGame creates the viewer. The window must already be open.
func NewGame(cfg *config.Config, opts Options) *Game {
	w, h := float32(cfg.Screen.Width), float32(cfg.Screen.Height)

	g := &Game{
		cfg:        cfg,
		cam:        camera.New(w, h, 10),
		background: renderer.NewBackgroundRenderer(int32(w), int32(h), 40, 46, 60),
		particles:  renderer.NewParticleRenderer(),
		hud:        ui.NewHUD(),
		perfPanel:  ui.NewPerfPanel(10, 100),
		simPanel:   ui.NewSimulationPanel(int32(w)-sidePanelWidth-10, 10, sidePanelWidth),
		controls:   ui.NewControlsPanel(int32(w)-sidePanelWidth-10, 210, sidePanelWidth),
		statsPanel: ui.NewQuickStatsPanel(int32(w)-sidePanelWidth-10, 210, sidePanelWidth),
		inspector:  ui.NewInspector(10, 260, inspectorWidth),
		overlays:   ui.NewOverlayRegistry(),
		timer:      NewFrameTimer(),
		showPanels: true,
		width:      w,
		height:     h,
	}
	g.controls.SetVisible(true)
	g.overlays.SetEnabled(ui.OverlayGrid, true)
	g.overlays.SetEnabled(ui.OverlayOrientation, cfg.Orientation.Render)

	callback := opts.StatsCallback
	opts.StatsCallback = func(ws telemetry.WindowStats) {
		g.lastStats = ws
		if callback != nil {
			callback(ws)
		}
	}
	g.sim = NewSimulation(cfg, opts)

	g.instances = g.sim.Snapshot()
	g.frameCloud()
	g.cam.Fit(g.cloudRadius())

	return g
}

// Update handles input and advances the simulation by one frame unless paused.
func (g *Game) Update() {
	g.handleResize()
	g.handleInput()
	g.syncOverlays()

	if g.paused && !g.stepOnce {
		return
	}
	g.stepOnce = false

	g.timer.Measure("advance", g.sim.Advance)
}

// reset reseeds the population and drops the selection.
func (g *Game) reset() {
	g.sim.Reset()
	g.hasSelection = false
	g.lastStats = telemetry.WindowStats{}
}

// Simulation returns the wrapped simulation.
func (g *Game) Simulation() *Simulation {
	return g.sim
}

// Frame returns the number of completed simulation frames.
func (g *Game) Frame() int32 {
	return g.sim.Frame()
}

// Unload releases resources.
func (g *Game) Unload() error {
	return g.sim.Close()
}
