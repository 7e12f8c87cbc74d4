package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/mitosis/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title         string
	Population    int
	MaxPopulation int
	TotalMass     float64
	Frame         int32
	SimTime       float64
	Substeps      int
	MaxGeneration int
	FPS           int32
	Paused        bool
}

// HUD renders the main heads-up display.
type HUD struct{}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Particles: %d / %d | Mass: %.3f | Generation: %d",
			data.Population, data.MaxPopulation, data.TotalMass, data.MaxGeneration),
		10, 35, 16, rl.LightGray,
	)

	rl.DrawText(
		fmt.Sprintf("Frame: %d | t = %.1f | Substeps: %d | FPS: %d", data.Frame, data.SimTime, data.Substeps, data.FPS),
		10, 55, 16, rl.LightGray,
	)

	statusText := "Running"
	if data.Paused {
		statusText = "PAUSED"
	}
	rl.DrawText(statusText, 10, 75, 16, rl.Yellow)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders the per-phase timing breakdown.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel and returns the bottom Y.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) int32 {
	x := p.x
	y := p.y

	rl.DrawText("Frame Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Frame: %s | Substep: %s",
		stats.AvgTickDuration.Round(time.Microsecond),
		stats.AvgSubstepDuration.Round(time.Microsecond)),
		x, y, 14, rl.Yellow)
	y += 16

	for _, phase := range telemetry.PhaseOrder() {
		pct := stats.PhasePct[phase]

		color := rl.LightGray
		if pct > 40 {
			color = rl.Red
		} else if pct > 20 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-10s %8s %5.1f%%", phase, stats.PhaseAvg[phase].Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
	return y
}
