// Package main searches fluid constants for a stable, growing particle tissue
// using Nelder-Mead over headless simulation runs.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/mitosis/config"
)

// EvalRecord is one row of tune_log.csv.
type EvalRecord struct {
	Eval        int     `csv:"eval"`
	Fitness     float64 `csv:"fitness"`
	Quality     float64 `csv:"quality"`
	GasConst    float64 `csv:"gas_const"`
	RestDensity float64 `csv:"rest_density"`
	Viscosity   float64 `csv:"viscosity"`
	Friction    float64 `csv:"friction"`
}

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	maxFrames := flag.Int("max-frames", 300, "Frames per simulation run")
	seeds := flag.Int("seeds", 3, "Number of seeds per evaluation")
	maxEvals := flag.Int("max-evals", 100, "Maximum number of evaluations")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if *outputDir == "" {
		slog.Error("--output is required")
		os.Exit(1)
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}

	// Load base config
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	baseCfg := config.Cfg()

	params := NewParamVector()

	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}

	evaluator := NewFitnessEvaluator(params, int32(*maxFrames), evalSeeds, baseCfg)

	logPath := filepath.Join(*outputDir, "tune_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		slog.Error("failed to create log file", "error", err)
		os.Exit(1)
	}
	defer logFile.Close()

	evalCount := 0
	bestFitness := failedFitness
	var bestParams []float64
	startTime := time.Now()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			raw := params.Denormalize(x)
			fitness := evaluator.Evaluate(raw)
			evalCount++

			if fitness < bestFitness || bestParams == nil {
				bestFitness = fitness
				bestParams = append(bestParams[:0], raw...)
			}

			record := []EvalRecord{{
				Eval:        evalCount,
				Fitness:     fitness,
				Quality:     evaluator.LastQuality(),
				GasConst:    raw[0],
				RestDensity: raw[1],
				Viscosity:   raw[2],
				Friction:    raw[3],
			}}
			if evalCount == 1 {
				err = gocsv.Marshal(record, logFile)
			} else {
				err = gocsv.MarshalWithoutHeaders(record, logFile)
			}
			if err != nil {
				slog.Error("failed to write eval log", "error", err)
			}

			elapsed := time.Since(startTime)
			avgPerEval := elapsed / time.Duration(evalCount)
			remaining := time.Duration(*maxEvals-evalCount) * avgPerEval

			fmt.Printf("Eval %d/%d: fitness=%.4f population=%.0f%% (best=%.4f) | elapsed: %s, ETA: %s\n",
				evalCount, *maxEvals, fitness, 100*evaluator.LastQuality(), bestFitness,
				formatDuration(elapsed), formatDuration(remaining))

			return fitness
		},
	}

	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0, // Seeds already run concurrently
	}
	method := &optimize.NelderMead{}

	initX := params.Normalize(params.ExtractFromConfig(baseCfg))

	fmt.Printf("Starting Nelder-Mead search with %d parameters, max_evals=%d\n", params.Dim(), *maxEvals)
	fmt.Printf("Seeds per evaluation: %d, frames per run: %d\n", *seeds, *maxFrames)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		slog.Warn("optimization ended", "error", err)
	}

	if bestParams == nil && result != nil {
		bestParams = params.Denormalize(result.X)
	}
	if bestParams == nil {
		slog.Error("no evaluations completed")
		os.Exit(1)
	}

	fmt.Printf("\nSearch complete after %d evaluations in %s\n", evalCount, formatDuration(time.Since(startTime)))
	fmt.Printf("Best fitness: %.4f\n", bestFitness)

	fmt.Println("\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.6g\n", spec.Path, bestParams[i])
	}

	bestCfg := baseCfg.Clone()
	params.ApplyToConfig(bestCfg, bestParams)

	configOutPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		slog.Error("failed to write best config", "error", err)
		os.Exit(1)
	}
	fmt.Printf("\nBest config saved to: %s\n", configOutPath)
}
