package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkPopulationDoubled BookmarkType = "population_doubled"
	BookmarkCapReached        BookmarkType = "cap_reached"
	BookmarkDivisionBurst     BookmarkType = "division_burst"
	BookmarkSolverInstability BookmarkType = "solver_instability"
	BookmarkSteadyState       BookmarkType = "steady_state"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Frame       int32        `csv:"frame"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"frame", b.Frame,
		"description", b.Description,
	)
}

// BookmarkDetector detects milestones in population growth and solver health.
type BookmarkDetector struct {
	maxPopulation int

	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	doublingBase       int  // population at the last doubling bookmark
	capReported        bool // cap bookmark fires once
	steadyWindowsCount int  // consecutive windows with a settled population
}

// NewBookmarkDetector creates a detector with the given history size.
// maxPopulation is the division cap (0 disables the cap bookmark).
func NewBookmarkDetector(historySize, maxPopulation int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for steady state detection
	}
	return &BookmarkDetector{
		maxPopulation: maxPopulation,
		history:       make([]WindowStats, historySize),
		historySize:   historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	// Population doubled since the last doubling bookmark
	if b := bd.checkPopulationDoubled(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	// Division cap reached for the first time
	if b := bd.checkCapReached(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	if bd.historyFull || bd.historyIdx > 0 {
		// Division burst: divisions > 2x rolling average
		if b := bd.checkDivisionBurst(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Solver instability: fallbacks after clean windows
		if b := bd.checkSolverInstability(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Steady state: fixed population with settled density over 5+ windows
		if b := bd.checkSteadyState(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	// Update history
	bd.addToHistory(stats)

	return bookmarks
}

// Reset clears history and milestone state.
func (bd *BookmarkDetector) Reset() {
	clear(bd.history)
	bd.historyIdx = 0
	bd.historyFull = false
	bd.doublingBase = 0
	bd.capReported = false
	bd.steadyWindowsCount = 0
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkPopulationDoubled(stats WindowStats) *Bookmark {
	if bd.doublingBase == 0 {
		bd.doublingBase = max(stats.Population, 1)
		return nil
	}
	if stats.Population >= 2*bd.doublingBase && stats.Population >= 4 {
		oldBase := bd.doublingBase
		bd.doublingBase = stats.Population

		return &Bookmark{
			Type:        BookmarkPopulationDoubled,
			Frame:       stats.WindowEndFrame,
			Description: fmt.Sprintf("Population grew from %d to %d", oldBase, stats.Population),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkCapReached(stats WindowStats) *Bookmark {
	if bd.capReported || bd.maxPopulation <= 0 || stats.Population < bd.maxPopulation {
		return nil
	}
	bd.capReported = true
	return &Bookmark{
		Type:        BookmarkCapReached,
		Frame:       stats.WindowEndFrame,
		Description: fmt.Sprintf("Population reached the division cap of %d", bd.maxPopulation),
	}
}

func (bd *BookmarkDetector) checkDivisionBurst(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	// Calculate rolling average divisions per window
	var total int
	for _, h := range history {
		total += h.Divisions
	}
	avg := float64(total) / float64(len(history))
	if avg == 0 {
		return nil
	}

	if float64(stats.Divisions) > avg*2.0 && stats.Divisions >= 5 {
		return &Bookmark{
			Type:        BookmarkDivisionBurst,
			Frame:       stats.WindowEndFrame,
			Description: fmt.Sprintf("%d divisions is %.1fx average (%.1f)", stats.Divisions, float64(stats.Divisions)/avg, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkSolverInstability(stats WindowStats) *Bookmark {
	if stats.SolverFallbacks == 0 {
		return nil
	}
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}
	for _, h := range history[len(history)-3:] {
		if h.SolverFallbacks > 0 {
			return nil
		}
	}
	return &Bookmark{
		Type:        BookmarkSolverInstability,
		Frame:       stats.WindowEndFrame,
		Description: fmt.Sprintf("%d implicit solves fell back at population %d", stats.SolverFallbacks, stats.Population),
	}
}

func (bd *BookmarkDetector) checkSteadyState(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 4 || stats.Population < 2 {
		bd.steadyWindowsCount = 0
		return nil
	}

	// Population unchanged and density mean settled across the last 4 windows
	recent := history[len(history)-4:]
	var densitySum float64
	settled := true
	for _, h := range recent {
		if h.Population != stats.Population || h.Divisions != 0 {
			settled = false
		}
		densitySum += h.DensityMean
	}
	densityMean := densitySum / 4

	var densityVar float64
	for _, h := range recent {
		d := h.DensityMean - densityMean
		densityVar += d * d
	}
	densityVar /= 4

	if settled && densityMean > 0 && densityVar/(densityMean*densityMean) < 1e-4 {
		bd.steadyWindowsCount++
	} else {
		bd.steadyWindowsCount = 0
	}

	if bd.steadyWindowsCount == 5 { // trigger exactly once at 5 windows
		return &Bookmark{
			Type:        BookmarkSteadyState,
			Frame:       stats.WindowEndFrame,
			Description: fmt.Sprintf("Steady state with %d particles, mean density %.3f", stats.Population, densityMean),
		}
	}
	return nil
}
