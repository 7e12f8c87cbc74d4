package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/mitosis/config"
	"github.com/pthm-cable/mitosis/telemetry"
)

func TestNormalizeRoundTrip(t *testing.T) {
	pv := NewParamVector()
	raw := []float64{3e-4, 1.2, 1e-4, 1e-5}

	n := pv.Normalize(raw)
	for i, v := range n {
		assert.GreaterOrEqual(t, v, 0.0, pv.Specs[i].Name)
		assert.LessOrEqual(t, v, 1.0, pv.Specs[i].Name)
	}

	back := pv.Denormalize(n)
	for i := range raw {
		assert.InEpsilon(t, raw[i], back[i], 1e-9, pv.Specs[i].Name)
	}
}

func TestDenormalizeClampsSearchRange(t *testing.T) {
	pv := NewParamVector()
	raw := pv.Denormalize([]float64{-1, 2, 0, 1})

	assert.InEpsilon(t, pv.Specs[0].Min, raw[0], 1e-9)
	assert.InEpsilon(t, pv.Specs[1].Max, raw[1], 1e-9)
	assert.InEpsilon(t, pv.Specs[2].Min, raw[2], 1e-9)
	assert.InEpsilon(t, pv.Specs[3].Max, raw[3], 1e-9)
}

func TestApplyExtractConfig(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Defaults()

	pv.ApplyToConfig(cfg, []float64{1e-3, 2.0, 1e-9, 1.0})

	assert.Equal(t, 1e-3, cfg.Fluid.GasConst)
	assert.Equal(t, 2.0, cfg.Fluid.RestDensity)
	assert.Equal(t, pv.Specs[2].Min, cfg.Viscosity.Viscosity)
	assert.Equal(t, pv.Specs[3].Max, cfg.Viscosity.Friction)
	require.NoError(t, cfg.Recompute())

	assert.Equal(t, []float64{1e-3, 2.0, pv.Specs[2].Min, pv.Specs[3].Max}, pv.ExtractFromConfig(cfg))
}

func TestComputeFitness(t *testing.T) {
	window := func(density float64) telemetry.WindowStats {
		return telemetry.WindowStats{DensityMean: density}
	}
	warm := []telemetry.WindowStats{window(0), window(0)}

	tests := []struct {
		name string
		run  runResult
		want float64
	}{
		{"failed", runResult{failed: true}, failedFitness},
		{"warmup only", runResult{windows: warm, population: 10}, failedFitness},
		{"ideal", runResult{windows: append(warm, window(1.2), window(1.2)), population: 10}, 0},
		{"half grown", runResult{windows: append(warm, window(1.2)), population: 5}, weightGrowth * 0.25},
		{"dense", runResult{windows: append(warm, window(2.4)), population: 10}, weightDensity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, computeFitness(tt.run, 1.2, 10), 1e-9)
		})
	}
}
