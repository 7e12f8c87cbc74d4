package main

import (
	"math"

	"github.com/pthm-cable/mitosis/config"
)

// ParamSpec defines a single tunable parameter.
// Log parameters are searched in log10 space between Min and Max.
type ParamSpec struct {
	Name string  // Column name in the eval log
	Path string  // Config path for logging
	Min  float64 // Lower bound (raw value)
	Max  float64 // Upper bound (raw value)
	Log  bool
}

// ParamVector holds the set of tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of fluid parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "gas_const", Path: "fluid.gas_const", Min: 1e-6, Max: 1e-2, Log: true},
			{Name: "rest_density", Path: "fluid.rest_density", Min: 0.3, Max: 3.0},
			{Name: "viscosity", Path: "viscosity.viscosity", Min: 1e-6, Max: 1e-2, Log: true},
			{Name: "friction", Path: "viscosity.friction", Min: 1e-7, Max: 1e-3, Log: true},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// Normalize converts raw parameter values to the [0,1] search range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		lo, hi, v := spec.Min, spec.Max, raw[i]
		if spec.Log {
			lo, hi, v = math.Log10(lo), math.Log10(hi), math.Log10(v)
		}
		normalized[i] = (v - lo) / (hi - lo)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
// Values outside [0,1] are clamped first.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		t := math.Max(0, math.Min(1, normalized[i]))
		if spec.Log {
			lo, hi := math.Log10(spec.Min), math.Log10(spec.Max)
			raw[i] = math.Pow(10, lo+t*(hi-lo))
			continue
		}
		raw[i] = spec.Min + t*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = math.Max(spec.Min, math.Min(spec.Max, v[i]))
	}
	return clamped
}

// ApplyToConfig writes parameter values into cfg. Order matches Specs.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)
	cfg.Fluid.GasConst = clamped[0]
	cfg.Fluid.RestDensity = clamped[1]
	cfg.Viscosity.Viscosity = clamped[2]
	cfg.Viscosity.Friction = clamped[3]
}

// ExtractFromConfig reads the current parameter values from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return pv.Clamp([]float64{
		cfg.Fluid.GasConst,
		cfg.Fluid.RestDensity,
		cfg.Viscosity.Viscosity,
		cfg.Viscosity.Friction,
	})
}
