package game

import (
	"log/slog"

	"github.com/pthm-cable/mitosis/systems"
	"github.com/pthm-cable/mitosis/telemetry"
)

// recordDivision feeds a division event to the collector, lineage tracker and CSV output.
func (s *Simulation) recordDivision(step int, ev systems.DivisionEvent) {
	s.collector.RecordDivision()
	s.lifetimes.RecordDivision(s.frame, ev.ParentID, ev.Daughter1ID, ev.Daughter2ID, ev.Daughter1Mass, ev.Daughter2Mass)

	rec := telemetry.NewDivisionRecord(s.frame, step, ev)
	if s.opts.LogStats {
		slog.Info("division", "event", rec)
	}
	if s.output != nil {
		if err := s.output.WriteDivision(rec); err != nil {
			slog.Error("failed to write division", "error", err)
		}
	}
}

// retire forgets a culled particle.
func (s *Simulation) retire(id uint32) {
	s.lifetimes.Remove(id)
}

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (s *Simulation) flushTelemetry() {
	if !s.collector.ShouldFlush(s.frame) {
		return
	}

	stats := s.collector.Flush(s.frame, s.store.All(), s.lifetimes)
	perfStats := s.perfCollector.Stats()

	if s.opts.StatsCallback != nil {
		s.opts.StatsCallback(stats)
	}

	// Log stats if enabled (console output)
	if s.opts.LogStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	// Write to CSV if output manager is enabled
	if s.output != nil {
		if err := s.output.WriteStats(stats); err != nil {
			slog.Error("failed to write stats", "error", err)
		}
		if err := s.output.WritePerf(perfStats, stats.WindowEndFrame, stats.Population); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	for _, bm := range s.bookmarks.Check(stats) {
		if s.opts.LogStats {
			bm.LogBookmark()
		}
		if s.output != nil {
			if err := s.output.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
		}
	}
}
