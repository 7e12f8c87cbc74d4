// Package telemetry provides windowed population statistics, milestones,
// performance tracking and CSV output.
package telemetry

import (
	"math"

	"github.com/pthm-cable/mitosis/components"
	"github.com/pthm-cable/mitosis/systems"
)

// Collector accumulates events within windows of frames and produces WindowStats.
type Collector struct {
	windowFrames int32
	frameTime    float64 // Simulated time per frame (substeps * dt)

	// Current window tracking
	windowStartFrame int32

	// Event counters for current window
	divisions int
	culled    int
	counters  systems.Counters

	// Reused sample buffers
	masses    []float64
	densities []float64
	speeds    []float64
}

// NewCollector creates a new stats collector.
// windowFrames: frames per stats window
// frameTime: simulated time advanced by one frame
func NewCollector(windowFrames int, frameTime float64) *Collector {
	if windowFrames < 1 {
		windowFrames = 1
	}
	return &Collector{
		windowFrames: int32(windowFrames),
		frameTime:    frameTime,
	}
}

// SetFrameTime changes the simulated time per frame, e.g. after the
// sub-step count changed.
func (c *Collector) SetFrameTime(frameTime float64) {
	c.frameTime = frameTime
}

// Reset discards the current window and starts a new one at frame 0.
func (c *Collector) Reset() {
	c.windowStartFrame = 0
	c.divisions = 0
	c.culled = 0
	c.counters = systems.Counters{}
}

// RecordDivision records a division event.
func (c *Collector) RecordDivision() {
	c.divisions++
}

// RecordCulled records particles removed for escaping.
func (c *Collector) RecordCulled(n int) {
	c.culled += n
}

// RecordCounters adds degeneracy counters drained from the worker pool.
func (c *Collector) RecordCounters(counters systems.Counters) {
	c.counters.Add(counters)
}

// ShouldFlush returns true if enough frames have passed to flush the window.
func (c *Collector) ShouldFlush(currentFrame int32) bool {
	return currentFrame-c.windowStartFrame >= c.windowFrames
}

// Flush samples the population, produces a WindowStats and resets counters
// for the next window. lifetimes may be nil.
func (c *Collector) Flush(currentFrame int32, particles []components.Particle, lifetimes *LifetimeTracker) WindowStats {
	c.masses = c.masses[:0]
	c.densities = c.densities[:0]
	c.speeds = c.speeds[:0]

	var totalMass, extent float64
	for i := range particles {
		p := &particles[i]
		c.masses = append(c.masses, float64(p.Mass))
		c.densities = append(c.densities, float64(p.Density))
		c.speeds = append(c.speeds, float64(p.Velocity.Len()))
		totalMass += float64(p.Mass)
		extent = math.Max(extent, float64(p.Position.Len()))
	}

	mass := ComputeDistribution(c.masses)
	density := ComputeDistribution(c.densities)
	speed := ComputeDistribution(c.speeds)

	stats := WindowStats{
		WindowStartFrame: c.windowStartFrame,
		WindowEndFrame:   currentFrame,
		SimTime:          float64(currentFrame) * c.frameTime,

		Population: len(particles),
		TotalMass:  totalMass,

		Divisions: c.divisions,
		Culled:    c.culled,

		MassMean:    mass.Mean,
		MassP10:     mass.P10,
		MassP50:     mass.P50,
		MassP90:     mass.P90,
		DensityMean: density.Mean,
		DensityStd:  density.Std,
		DensityP10:  density.P10,
		DensityP50:  density.P50,
		DensityP90:  density.P90,
		SpeedMean:   speed.Mean,
		SpeedP90:    speed.P90,
		SpeedMax:    speed.Max,
		Extent:      extent,

		DensityClamped:   c.counters.DensityClamped,
		CoincidentPairs:  c.counters.CoincidentPairs,
		ZeroDensityPairs: c.counters.ZeroDensityPairs,
		RejectedUpdates:  c.counters.RejectedUpdates,
		SolverFallbacks:  c.counters.SolverFallbacks,
	}
	if lifetimes != nil {
		stats.MaxGeneration = lifetimes.MaxGeneration()
		stats.Lineages = lifetimes.ActiveFounderCount()
	}

	// Reset for next window
	c.windowStartFrame = currentFrame
	c.divisions = 0
	c.culled = 0
	c.counters = systems.Counters{}

	return stats
}

// WindowFrames returns the number of frames per window.
func (c *Collector) WindowFrames() int32 {
	return c.windowFrames
}
