package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10, 10)

	// Simulate a few ticks
	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseNeighbors)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseForces)
		time.Sleep(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	// Verify we got timing data
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration")
	}

	// Verify phases are tracked
	if len(stats.PhaseAvg) == 0 {
		t.Error("expected phase averages to be populated")
	}

	if _, ok := stats.PhaseAvg[PhaseNeighbors]; !ok {
		t.Error("expected neighbors phase to be tracked")
	}

	if _, ok := stats.PhaseAvg[PhaseForces]; !ok {
		t.Error("expected forces phase to be tracked")
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5, 10) // Small window

	// Fill window completely
	for i := 0; i < 10; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseNeighbors)
		pc.EndTick()
	}

	stats := pc.Stats()

	// Should have data
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration after window filled")
	}

	if stats.TicksPerSecond <= 0 {
		t.Error("expected positive ticks per second")
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10, 10)

	// Simulate with uneven phase durations
	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase("fast")
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase("slow")
		time.Sleep(100 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	fastPct := stats.PhasePct["fast"]
	slowPct := stats.PhasePct["slow"]

	// Slow phase should take more % than fast
	if slowPct <= fastPct {
		t.Errorf("expected slow phase (%v%%) > fast phase (%v%%)", slowPct, fastPct)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	pc := NewPerfCollector(10, 10)

	stats := pc.Stats()

	// Empty collector should return zero values without panicking
	if stats.AvgTickDuration != 0 {
		t.Error("expected zero avg tick duration for empty collector")
	}

	if stats.PhaseAvg == nil {
		t.Error("expected non-nil PhaseAvg map")
	}

	if stats.PhasePct == nil {
		t.Error("expected non-nil PhasePct map")
	}
}

func TestPerfCollector_FrameTiming(t *testing.T) {
	pc := NewPerfCollector(10, 10)

	// First call establishes baseline
	pc.RecordFrame()
	time.Sleep(16 * time.Millisecond) // ~60fps frame time
	// Second call measures duration
	pc.RecordFrame()

	stats := pc.Stats()

	if stats.FrameDuration < 15*time.Millisecond {
		t.Errorf("expected frame duration >= 15ms, got %v", stats.FrameDuration)
	}

	if stats.FPS <= 0 {
		t.Error("expected positive FPS")
	}

	// With 16ms frames, expect ~60 FPS (allow range 40-80)
	if stats.FPS < 40 || stats.FPS > 80 {
		t.Errorf("expected FPS between 40-80 with 16ms frame time, got %v", stats.FPS)
	}
}

func TestPerfCollector_SubstepCost(t *testing.T) {
	pc := NewPerfCollector(4, 10)

	for i := 0; i < 4; i++ {
		pc.StartTick()
		for sub := 0; sub < 10; sub++ {
			pc.StartPhase(PhaseDensity)
			time.Sleep(20 * time.Microsecond)
			pc.StartPhase(PhaseSolve)
		}
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.AvgSubstepDuration <= 0 {
		t.Fatal("expected positive sub-step duration")
	}
	if stats.AvgSubstepDuration*10 > stats.AvgTickDuration+time.Microsecond {
		t.Errorf("sub-step %v inconsistent with tick %v", stats.AvgSubstepDuration, stats.AvgTickDuration)
	}
	// Phase time accumulates across sub-steps
	if stats.PhaseAvg[PhaseDensity] < 200*time.Microsecond {
		t.Errorf("expected density phase >= 200us per tick, got %v", stats.PhaseAvg[PhaseDensity])
	}

	row := stats.ToCSV(40, 12)
	if row.WindowEnd != 40 || row.Population != 12 {
		t.Errorf("unexpected csv row %+v", row)
	}
	if row.DensityPct <= 0 {
		t.Error("expected density percentage in csv row")
	}
}
