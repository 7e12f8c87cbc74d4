package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a window of frames.
type WindowStats struct {
	WindowStartFrame int32   `csv:"-"`
	WindowEndFrame   int32   `csv:"window_end"`
	SimTime          float64 `csv:"sim_time"` // frames * substeps * dt

	// Population at window end
	Population int     `csv:"population"`
	TotalMass  float64 `csv:"total_mass"`

	// Events during window
	Divisions int `csv:"divisions"`
	Culled    int `csv:"culled"`

	// Distributions sampled at window end
	MassMean    float64 `csv:"mass_mean"`
	MassP10     float64 `csv:"mass_p10"`
	MassP50     float64 `csv:"mass_p50"`
	MassP90     float64 `csv:"mass_p90"`
	DensityMean float64 `csv:"density_mean"`
	DensityStd  float64 `csv:"density_std"`
	DensityP10  float64 `csv:"density_p10"`
	DensityP50  float64 `csv:"density_p50"`
	DensityP90  float64 `csv:"density_p90"`
	SpeedMean   float64 `csv:"speed_mean"`
	SpeedP90    float64 `csv:"speed_p90"`
	SpeedMax    float64 `csv:"speed_max"`
	Extent      float64 `csv:"extent"` // Largest distance from the origin

	// Lineage
	MaxGeneration int `csv:"max_generation"`
	Lineages      int `csv:"lineages"`

	// Numerical degeneracies during window
	DensityClamped   int `csv:"density_clamped"`
	CoincidentPairs  int `csv:"coincident_pairs"`
	ZeroDensityPairs int `csv:"zero_density_pairs"`
	RejectedUpdates  int `csv:"rejected_updates"`
	SolverFallbacks  int `csv:"solver_fallbacks"`
}

// Distribution summarizes a sample.
type Distribution struct {
	Mean, Std     float64
	P10, P50, P90 float64
	Max           float64
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeDistribution calculates population mean, standard deviation,
// percentiles and maximum. values is not modified.
func ComputeDistribution(values []float64) Distribution {
	n := len(values)
	if n == 0 {
		return Distribution{}
	}

	mean, std := stat.PopMeanStdDev(values, nil)

	// Sort for percentiles
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	return Distribution{
		Mean: mean,
		Std:  std,
		P10:  Percentile(sorted, 0.10),
		P50:  Percentile(sorted, 0.50),
		P90:  Percentile(sorted, 0.90),
		Max:  floats.Max(sorted),
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartFrame)),
		slog.Int("window_end", int(s.WindowEndFrame)),
		slog.Float64("sim_time", s.SimTime),
		slog.Int("population", s.Population),
		slog.Float64("total_mass", s.TotalMass),
		slog.Int("divisions", s.Divisions),
		slog.Int("culled", s.Culled),
		slog.Float64("mass_mean", s.MassMean),
		slog.Float64("mass_p10", s.MassP10),
		slog.Float64("mass_p50", s.MassP50),
		slog.Float64("mass_p90", s.MassP90),
		slog.Float64("density_mean", s.DensityMean),
		slog.Float64("density_std", s.DensityStd),
		slog.Float64("density_p10", s.DensityP10),
		slog.Float64("density_p50", s.DensityP50),
		slog.Float64("density_p90", s.DensityP90),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("speed_max", s.SpeedMax),
		slog.Float64("extent", s.Extent),
		slog.Int("max_generation", s.MaxGeneration),
		slog.Int("lineages", s.Lineages),
		slog.Int("density_clamped", s.DensityClamped),
		slog.Int("coincident_pairs", s.CoincidentPairs),
		slog.Int("zero_density_pairs", s.ZeroDensityPairs),
		slog.Int("rejected_updates", s.RejectedUpdates),
		slog.Int("solver_fallbacks", s.SolverFallbacks),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndFrame,
		"sim_time", s.SimTime,
		"population", s.Population,
		"total_mass", s.TotalMass,
		"divisions", s.Divisions,
		"culled", s.Culled,
		"mass_mean", s.MassMean,
		"mass_p50", s.MassP50,
		"density_mean", s.DensityMean,
		"density_p10", s.DensityP10,
		"density_p90", s.DensityP90,
		"speed_mean", s.SpeedMean,
		"speed_max", s.SpeedMax,
		"extent", s.Extent,
		"max_generation", s.MaxGeneration,
		"degeneracies", s.DensityClamped+s.CoincidentPairs+s.ZeroDensityPairs+s.RejectedUpdates,
		"solver_fallbacks", s.SolverFallbacks,
	)
}
