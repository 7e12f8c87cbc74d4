package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/mitosis/components"
	"github.com/pthm-cable/mitosis/telemetry"
)

// ParticleView is the data shown by the inspector for one particle.
type ParticleView struct {
	Particle     components.Particle
	Lineage      *telemetry.LifetimeStats // nil if unknown
	RestDensity  float32
	AgeThreshold float32
}

func view(data any) *ParticleView {
	v, _ := data.(*ParticleView)
	return v
}

func vecText(v [3]float32) string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", v[0], v[1], v[2])
}

// InspectorSections describes the inspector layout.
var InspectorSections = []SectionDescriptor{
	{
		ID:    "identity",
		Title: "Particle",
		Fields: []FieldDescriptor{
			{ID: "id", Label: "ID", Widget: WidgetText,
				TextGetter: func(d any) string { return fmt.Sprintf("%d", view(d).Particle.ID) }},
			{ID: "color", Label: "Color", Widget: WidgetColorSwatch,
				ColorGetter: func(d any) rl.Color {
					c := view(d).Particle.Color
					return rl.Color{R: uint8(c[0] * 255), G: uint8(c[1] * 255), B: uint8(c[2] * 255), A: 255}
				}},
			{ID: "mass", Label: "Mass", Widget: WidgetText, Format: "%.4f",
				Getter: func(d any) float32 { return view(d).Particle.Mass }},
			{ID: "radius", Label: "Radius", Widget: WidgetText, Format: "%.4f",
				Getter: func(d any) float32 { p := view(d).Particle; return p.Radius() }},
			{ID: "age", Label: "Age", Widget: WidgetBar,
				Getter: func(d any) float32 {
					v := view(d)
					if v.AgeThreshold <= 0 {
						return 0
					}
					return v.Particle.Age / v.AgeThreshold
				},
				Range: DefaultRange()},
		},
	},
	{
		ID:    "field",
		Title: "Field",
		Fields: []FieldDescriptor{
			{ID: "density", Label: "Density", Widget: WidgetText, Format: "%.5f",
				Getter: func(d any) float32 { return view(d).Particle.Density }},
			{ID: "density_ratio", Label: "rho/rho0", Widget: WidgetCenteredBar,
				Getter: func(d any) float32 {
					v := view(d)
					if v.RestDensity <= 0 {
						return 0
					}
					return v.Particle.Density/v.RestDensity - 1
				},
				Range: CenteredRange()},
			{ID: "pressure", Label: "Pressure", Widget: WidgetText, Format: "%.3e",
				Getter: func(d any) float32 { return view(d).Particle.Pressure }},
		},
	},
	{
		ID:    "motion",
		Title: "Motion",
		Fields: []FieldDescriptor{
			{ID: "position", Label: "Position", Widget: WidgetText,
				TextGetter: func(d any) string { return vecText(view(d).Particle.Position) }},
			{ID: "speed", Label: "Speed", Widget: WidgetText, Format: "%.5f",
				Getter: func(d any) float32 { return view(d).Particle.Velocity.Len() }},
			{ID: "orientation", Label: "Polarity", Widget: WidgetText,
				TextGetter: func(d any) string { return vecText(view(d).Particle.Orientation) }},
		},
	},
	{
		ID:      "lineage",
		Title:   "Lineage",
		Visible: func(d any) bool { return view(d).Lineage != nil },
		Fields: []FieldDescriptor{
			{ID: "generation", Label: "Generation", Widget: WidgetText,
				TextGetter: func(d any) string { return fmt.Sprintf("%d", view(d).Lineage.Generation) }},
			{ID: "parent", Label: "Parent", Widget: WidgetText,
				TextGetter: func(d any) string {
					if id := view(d).Lineage.ParentID; id != 0 {
						return fmt.Sprintf("%d", id)
					}
					return "seed"
				}},
			{ID: "founder", Label: "Founder", Widget: WidgetText,
				TextGetter: func(d any) string { return fmt.Sprintf("%d", view(d).Lineage.FounderID) }},
			{ID: "born", Label: "Born", Widget: WidgetText,
				TextGetter: func(d any) string { return fmt.Sprintf("frame %d", view(d).Lineage.BirthFrame) }},
		},
	},
}

// Inspector renders the particle inspection panel.
type Inspector struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewInspector creates a new inspector panel.
func NewInspector(x, y, width int32) *Inspector {
	return &Inspector{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the inspector position.
func (ins *Inspector) SetPosition(x, y int32) {
	ins.x = x
	ins.y = y
}

// Height returns the panel height needed for data.
func (ins *Inspector) Height(data *ParticleView) int32 {
	t := ins.renderer.Theme
	h := t.Padding * 2
	for _, sd := range InspectorSections {
		if sd.Visible != nil && !sd.Visible(data) {
			continue
		}
		h += t.LineHeight + 4
		for _, fd := range sd.Fields {
			h += t.LineHeight
			if fd.Widget == WidgetBar || fd.Widget == WidgetCenteredBar {
				h += 2
			}
		}
	}
	return h
}

// Draw renders the inspector panel for the given data and returns the bottom Y.
func (ins *Inspector) Draw(data *ParticleView) int32 {
	r := ins.renderer
	padding := r.Theme.Padding

	r.DrawPanel(ins.x, ins.y, ins.width, ins.Height(data))

	y := ins.y + padding
	for _, sd := range InspectorSections {
		y = r.DrawSection(ins.x+padding, y, sd, data, ins.width-padding*2)
	}
	return y
}
