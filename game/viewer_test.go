package game

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/mitosis/camera"
	"github.com/pthm-cable/mitosis/components"
	"github.com/pthm-cable/mitosis/config"
	"github.com/pthm-cable/mitosis/ui"
)

// newHeadlessGame builds the parts of a Game that need no window.
func newHeadlessGame(t *testing.T, particles ...components.Particle) *Game {
	t.Helper()
	cfg := testConfig(t, func(cfg *config.Config) {
		cfg.Division.Enabled = false
	})
	sim := newTestSimulation(t, cfg, Options{})
	sim.Store().Reset()
	for _, p := range particles {
		sim.Store().Append(p)
	}
	return &Game{
		sim:      sim,
		cfg:      cfg,
		cam:      camera.New(800, 600, 10),
		overlays: ui.NewOverlayRegistry(),
	}
}

func TestDrawOptionsDensityColors(t *testing.T) {
	a := components.NewParticle(mgl32.Vec3{}, 1, [3]float32{}, mgl32.Vec3{})
	b := components.NewParticle(mgl32.Vec3{2, 0, 0}, 1, [3]float32{}, mgl32.Vec3{})
	g := newHeadlessGame(t, a, b)

	rest := g.cfg.Derived.RestDensity32
	g.sim.Store().At(0).Density = rest
	g.sim.Store().At(1).Density = 4 * rest

	opts := g.drawOptions(-1)
	assert.Nil(t, opts.Values)

	g.overlays.SetEnabled(ui.OverlayDensityColors, true)
	opts = g.drawOptions(1)
	require.Len(t, opts.Values, 2)
	assert.InDelta(t, 0.5, opts.Values[0], 1e-6)
	assert.InDelta(t, 1.0, opts.Values[1], 1e-6, "clamped to the top of the ramp")
	assert.Equal(t, 1, opts.Selected)
	assert.Nil(t, opts.Velocities)
}

func TestDrawOptionsAgeAndVelocity(t *testing.T) {
	p := components.NewParticle(mgl32.Vec3{}, 1, [3]float32{}, mgl32.Vec3{})
	p.Velocity = mgl32.Vec3{1, 0, 0}
	g := newHeadlessGame(t, p)
	g.sim.Store().At(0).Age = float32(g.cfg.Division.AgeThreshold / 4)

	g.overlays.SetEnabled(ui.OverlayAgeColors, true)
	g.overlays.SetEnabled(ui.OverlayVelocity, true)
	opts := g.drawOptions(-1)

	require.Len(t, opts.Values, 1)
	assert.InDelta(t, 0.25, opts.Values[0], 1e-6)
	require.Len(t, opts.Velocities, 1)
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, opts.Velocities[0])
	assert.Greater(t, opts.VelocityScale, float32(0))
}

func TestSelectedIndexTracksID(t *testing.T) {
	a := components.NewParticle(mgl32.Vec3{}, 1, [3]float32{}, mgl32.Vec3{})
	b := components.NewParticle(mgl32.Vec3{2, 0, 0}, 1, [3]float32{}, mgl32.Vec3{})
	g := newHeadlessGame(t, a, b)
	store := g.sim.Store()

	g.selectedID = store.At(1).ID
	g.hasSelection = true
	assert.Equal(t, 1, g.selectedIndex())

	view := g.selectedView()
	require.NotNil(t, view)
	assert.Equal(t, store.At(1).ID, view.Particle.ID)

	store.Remove(1)
	assert.Equal(t, -1, g.selectedIndex())
	assert.False(t, g.hasSelection)
	assert.Nil(t, g.selectedView())
}

func TestFrameCloud(t *testing.T) {
	a := components.NewParticle(mgl32.Vec3{-2, 0, 0}, 1, [3]float32{}, mgl32.Vec3{})
	b := components.NewParticle(mgl32.Vec3{4, 0, 0}, 2, [3]float32{}, mgl32.Vec3{})
	g := newHeadlessGame(t, a, b)

	g.frameCloud()
	assert.InDelta(t, 2, g.cam.Target[0], 1e-5)

	want := 4 + components.MassToRadius(1)
	assert.InDelta(t, want, g.cloudRadius(), 1e-5)
}

func TestRatio(t *testing.T) {
	assert.Equal(t, float32(0), ratio(1, 0))
	assert.Equal(t, float32(0), ratio(-1, 2))
	assert.Equal(t, float32(0.5), ratio(1, 2))
	assert.Equal(t, float32(1), ratio(3, 2))
}
