package ui

import (
	"fmt"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/mitosis/telemetry"
)

// ControlsPanel renders the left-side controls panel with overlay toggles.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		visible:  false,
	}
}

// SetPosition updates the panel position.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

// SetVisible shows or hides the panel.
func (c *ControlsPanel) SetVisible(visible bool) {
	c.visible = visible
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Draw renders the controls panel.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry) int32 {
	if !c.visible {
		return c.y
	}

	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight

	// Calculate panel height based on content
	categories := overlays.Categories()
	totalItems := 0
	for _, cat := range categories {
		totalItems += len(overlays.ByCategory(cat)) + 1 // +1 for category header
	}
	panelHeight := int32(totalItems)*lineHeight + padding*3 + lineHeight // Extra for title

	// Draw panel background
	r.DrawPanel(c.x, c.y, c.width, panelHeight)

	y := c.y + padding

	// Title
	rl.DrawText("Overlays", c.x+padding, y, 16, rl.White)
	y += lineHeight + 4

	// Draw overlays by category
	for _, category := range categories {
		// Category header
		catLabel := categoryLabel(category)
		rl.DrawText(catLabel, c.x+padding, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
		y += lineHeight

		// Overlays in this category
		for _, desc := range overlays.ByCategory(category) {
			enabled := overlays.IsEnabled(desc.ID)
			c.drawToggle(c.x+padding, y, desc, enabled, c.width-padding*2)
			y += lineHeight
		}

		y += 4 // Gap between categories
	}

	return y
}

// drawToggle draws a single overlay toggle line.
func (c *ControlsPanel) drawToggle(x, y int32, desc OverlayDescriptor, enabled bool, width int32) {
	r := c.renderer

	// Status indicator
	statusColor := rl.Color{R: 80, G: 80, B: 80, A: 255}
	if enabled {
		statusColor = rl.Color{R: 100, G: 200, B: 100, A: 255}
	}
	rl.DrawRectangle(x, y+2, 8, 8, statusColor)

	// Name
	nameColor := r.Theme.LabelColor
	if enabled {
		nameColor = rl.White
	}
	rl.DrawText(desc.Name, x+14, y, r.Theme.FontSize, nameColor)

	// Key binding (right aligned)
	if desc.KeyLabel != "" {
		keyText := fmt.Sprintf("[%s]", desc.KeyLabel)
		keyWidth := rl.MeasureText(keyText, r.Theme.FontSize)
		rl.DrawText(keyText, x+width-keyWidth, y, r.Theme.FontSize, rl.Color{R: 150, G: 150, B: 150, A: 255})
	}
}

// categoryLabel returns a display label for a category.
func categoryLabel(cat string) string {
	switch cat {
	case "visual":
		return "Visual"
	case "debug":
		return "Debug"
	default:
		return cat
	}
}

// SimulationState is the subset of simulation settings the panel edits.
type SimulationState struct {
	Paused          bool
	Substeps        int
	GasConst        float64
	DivisionEnabled bool
}

// SimulationActions reports what the user changed this frame.
type SimulationActions struct {
	TogglePause    bool
	Step           bool
	Reset          bool
	ToggleDivision bool
	Substeps       int     // New value, equal to the input when unchanged
	GasConst       float64 // New value, equal to the input when unchanged
}

// Changed reports whether any tunable parameter differs from state.
func (a SimulationActions) Changed(state SimulationState) bool {
	return a.ToggleDivision || a.Substeps != state.Substeps || a.GasConst != state.GasConst
}

// Slider ranges
const (
	maxSubsteps    = 50
	minLogGasConst = -6
	maxLogGasConst = -1
)

// SimulationPanel renders the raygui control panel.
type SimulationPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewSimulationPanel creates a new simulation control panel.
func NewSimulationPanel(x, y, width int32) *SimulationPanel {
	return &SimulationPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (s *SimulationPanel) SetPosition(x, y int32) {
	s.x = x
	s.y = y
}

// Draw renders the panel and returns the user's actions.
func (s *SimulationPanel) Draw(state SimulationState) SimulationActions {
	r := s.renderer
	padding := r.Theme.Padding
	actions := SimulationActions{Substeps: state.Substeps, GasConst: state.GasConst}

	panelHeight := int32(190)
	r.DrawPanel(s.x, s.y, s.width, panelHeight)

	x := float32(s.x + padding)
	y := float32(s.y + padding)
	inner := float32(s.width - padding*2)
	half := (inner - 10) / 2

	rl.DrawText("Simulation", int32(x), int32(y), 16, rl.White)
	y += 24

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: half, Height: 24}, toggleText(state.Paused, "Resume", "Pause")) {
		actions.TogglePause = true
	}
	if gui.Button(rl.Rectangle{X: x + half + 10, Y: y, Width: half, Height: 24}, "Step") {
		actions.Step = true
	}
	y += 30

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: half, Height: 24}, "Reset") {
		actions.Reset = true
	}
	if gui.Button(rl.Rectangle{X: x + half + 10, Y: y, Width: half, Height: 24}, toggleText(state.DivisionEnabled, "Division: on", "Division: off")) {
		actions.ToggleDivision = true
	}
	y += 34

	// Substeps
	rl.DrawText(fmt.Sprintf("Substeps: %d", state.Substeps), int32(x), int32(y), r.Theme.FontSize, r.Theme.LabelColor)
	y += 14
	substeps := gui.SliderBar(rl.Rectangle{X: x, Y: y, Width: inner - 40, Height: 16}, "", "", float32(state.Substeps), 1, maxSubsteps)
	if n := int(math.Round(float64(substeps))); n != state.Substeps {
		actions.Substeps = n
	}
	y += 26

	// Gas constant on a log scale
	rl.DrawText(fmt.Sprintf("Gas const: %.2e", state.GasConst), int32(x), int32(y), r.Theme.FontSize, r.Theme.LabelColor)
	y += 14
	logK := float32(math.Log10(state.GasConst))
	newLogK := gui.SliderBar(rl.Rectangle{X: x, Y: y, Width: inner - 40, Height: 16}, "", "", logK, minLogGasConst, maxLogGasConst)
	if newLogK != logK {
		actions.GasConst = math.Pow(10, float64(newLogK))
	}

	return actions
}

// QuickStatsPanel renders the latest telemetry window.
type QuickStatsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewQuickStatsPanel creates a new quick stats panel.
func NewQuickStatsPanel(x, y, width int32) *QuickStatsPanel {
	return &QuickStatsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (q *QuickStatsPanel) SetPosition(x, y int32) {
	q.x = x
	q.y = y
}

// Draw renders the quick stats panel.
func (q *QuickStatsPanel) Draw(stats telemetry.WindowStats) int32 {
	r := q.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight

	panelHeight := lineHeight*7 + padding*2

	r.DrawPanel(q.x, q.y, q.width, panelHeight)

	y := q.y + padding

	rl.DrawText("Last Window", q.x+padding, y, 14, rl.White)
	y += lineHeight + 2

	y = r.DrawLabelValue(q.x+padding, y, "Density", fmt.Sprintf("%.4f +/- %.4f", stats.DensityMean, stats.DensityStd))
	y = r.DrawLabelValue(q.x+padding, y, "Speed", fmt.Sprintf("%.4f (max %.4f)", stats.SpeedMean, stats.SpeedMax))
	y = r.DrawLabelValue(q.x+padding, y, "Extent", fmt.Sprintf("%.2f", stats.Extent))
	y = r.DrawLabelValue(q.x+padding, y, "Divisions", fmt.Sprintf("%d", stats.Divisions))
	y = r.DrawLabelValue(q.x+padding, y, "Fallbacks", fmt.Sprintf("%d", stats.SolverFallbacks))

	return y
}

func toggleText(on bool, onText, offText string) string {
	if on {
		return onText
	}
	return offText
}
