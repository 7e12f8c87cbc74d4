package main

import (
	"math"
	"sync"

	"github.com/pthm-cable/mitosis/config"
	"github.com/pthm-cable/mitosis/game"
	"github.com/pthm-cable/mitosis/telemetry"
)

// Fitness weights. Lower fitness is better.
const (
	weightDensity = 1.0 // squared relative error of mean density against rest density
	weightSpread  = 0.5 // relative density standard deviation
	weightGrowth  = 2.0 // squared shortfall from max population
	weightDegen   = 0.1 // per degenerate event per window

	warmupWindows = 2
	failedFitness = 1e6
)

// FitnessEvaluator runs headless simulations and scores how tissue-like they stay.
type FitnessEvaluator struct {
	params     *ParamVector
	maxFrames  int32
	seeds      []int64
	baseConfig *config.Config

	mu          sync.Mutex
	bestFitness float64
	lastQuality float64
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxFrames int32, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxFrames:   maxFrames,
		seeds:       seeds,
		baseConfig:  baseCfg,
		bestFitness: math.Inf(1),
	}
}

// LastQuality returns the final population fraction from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// runResult holds the results from a single simulation run.
type runResult struct {
	windows    []telemetry.WindowStats
	population int
	failed     bool
}

// Evaluate computes the mean fitness over all seeds for raw parameter values.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]runResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSimulation(x, s)
		}(i, seed)
	}
	wg.Wait()

	maxPop := float64(fe.baseConfig.Division.MaxPopulation)
	var total, quality float64
	for _, r := range results {
		total += computeFitness(r, fe.restDensity(x), maxPop)
		quality += float64(r.population) / maxPop
	}
	n := float64(len(results))
	avg := total / n

	fe.mu.Lock()
	if avg < fe.bestFitness {
		fe.bestFitness = avg
	}
	fe.lastQuality = quality / n
	fe.mu.Unlock()

	return avg
}

func (fe *FitnessEvaluator) restDensity(x []float64) float64 {
	return fe.params.Clamp(x)[1]
}

// runSimulation executes one headless run of maxFrames frames.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) runResult {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, x)
	if err := cfg.Recompute(); err != nil {
		return runResult{failed: true}
	}

	var result runResult
	sim := game.NewSimulation(cfg, game.Options{
		Seed:    seed,
		Workers: 1,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windows = append(result.windows, stats)
		},
	})
	defer sim.Close()

	for sim.Frame() < fe.maxFrames {
		sim.Advance()
	}
	result.population = sim.Population()
	return result
}

// computeFitness scores a run (lower = better). Runs that blow up or never
// produce a window past warmup get failedFitness.
func computeFitness(r runResult, restDensity, maxPop float64) float64 {
	if r.failed || len(r.windows) <= warmupWindows || restDensity <= 0 || maxPop <= 0 {
		return failedFitness
	}

	var density, spread, degen float64
	valid := r.windows[warmupWindows:]
	for _, w := range valid {
		if math.IsNaN(w.DensityMean) || math.IsInf(w.SpeedMax, 0) || math.IsNaN(w.SpeedMax) {
			return failedFitness
		}
		rel := w.DensityMean/restDensity - 1
		density += rel * rel
		spread += w.DensityStd / restDensity
		degen += float64(w.DensityClamped + w.RejectedUpdates + w.SolverFallbacks)
	}
	n := float64(len(valid))

	shortfall := 1 - math.Min(1, float64(r.population)/maxPop)

	return weightDensity*density/n +
		weightSpread*spread/n +
		weightGrowth*shortfall*shortfall +
		weightDegen*degen/n
}
