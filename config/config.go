// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen      ScreenConfig      `yaml:"screen"`
	Simulation  SimulationConfig  `yaml:"simulation"`
	Fluid       FluidConfig       `yaml:"fluid"`
	Viscosity   ViscosityConfig   `yaml:"viscosity"`
	Confinement ConfinementConfig `yaml:"confinement"`
	Orientation OrientationConfig `yaml:"orientation"`
	Division    DivisionConfig    `yaml:"division"`
	Seed        SeedConfig        `yaml:"seed"`
	Neighbors   NeighborsConfig   `yaml:"neighbors"`
	Integrator  IntegratorConfig  `yaml:"integrator"`
	Parallel    ParallelConfig    `yaml:"parallel"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// Equation of state names.
const (
	EOSLinear = "linear"
	EOSCubic  = "cubic"
)

// Viscosity strategy names.
const (
	ViscosityImplicit = "implicit"
	ViscosityExplicit = "explicit"
)

// Neighbor search modes.
const (
	NeighborsAllPairs = "all_pairs"
	NeighborsGrid     = "grid"
)

// Integrator modes.
const (
	IntegratorRelaxation = "relaxation"
	IntegratorEuler      = "euler"
)

// Seed distributions.
const (
	SeedOrigin = "origin"
	SeedNormal = "normal"
)

// ScreenConfig holds display settings for the viewer host.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// SimulationConfig holds timestep and sub-stepping parameters.
type SimulationConfig struct {
	DT       float64 `yaml:"dt"`
	Substeps int     `yaml:"substeps"` // Density->Force->Integrate cycles per Advance
	Seed     int64   `yaml:"seed"`     // RNG seed (0 = time-based, set by host)
}

// FluidConfig holds density and equation-of-state parameters.
type FluidConfig struct {
	RestDensity       float64 `yaml:"rest_density"`
	GasConst          float64 `yaml:"gas_const"`
	EOS               string  `yaml:"eos"`                // linear or cubic
	InteractionRadius float64 `yaml:"interaction_radius"` // 0 = per-pair sum of radii
}

// ViscosityConfig selects and tunes the drag coupling.
type ViscosityConfig struct {
	Strategy     string  `yaml:"strategy"` // implicit or explicit
	Viscosity    float64 `yaml:"viscosity"`
	Friction     float64 `yaml:"friction"`      // Base drag on the diagonal of the implicit system
	MaxCondition float64 `yaml:"max_condition"` // Condition number above which the solve falls back
}

// ConfinementConfig holds the well force pulling particles to the origin.
type ConfinementConfig struct {
	Strength   float64    `yaml:"strength"`
	Anisotropy [3]float64 `yaml:"anisotropy"` // Per-axis scale of the pull
}

// OrientationConfig holds polarity coupling parameters.
type OrientationConfig struct {
	Enabled        bool    `yaml:"enabled"`         // Torque and dipole coupling
	PolarForce     float64 `yaml:"polar_force"`     // Outward push along own orientation
	TorqueCoupling float64 `yaml:"torque_coupling"` // c in torque += c*W*(oj x oi)
	DipoleStrength float64 `yaml:"dipole_strength"`
	Gain           float64 `yaml:"gain"`   // Orientation integration gain
	Render         bool    `yaml:"render"` // Rotate instance transforms onto orientation
}

// DivisionConfig holds population dynamics parameters.
type DivisionConfig struct {
	Enabled        bool    `yaml:"enabled"`
	MaxPopulation  int     `yaml:"max_population"`
	AgeThreshold   float64 `yaml:"age_threshold"`
	AgeRate        float64 `yaml:"age_rate"`        // Max random age increment per sub-step
	SelectionBonus float64 `yaml:"selection_bonus"` // Extra age for the selected particle
	DivisionLength float64 `yaml:"division_length"` // Daughter offset in parent radii (x0.5)
	SplitMin       float64 `yaml:"split_min"`
	SplitMax       float64 `yaml:"split_max"`
	ColorJitter    float64 `yaml:"color_jitter"`
	EscapeRadius   float64 `yaml:"escape_radius"` // Remove particles beyond this distance (0 = off)
}

// SeedConfig describes the initial population.
type SeedConfig struct {
	Count        int        `yaml:"count"`
	Distribution string     `yaml:"distribution"` // origin or normal
	Mass         float64    `yaml:"mass"`
	MassSigma    float64    `yaml:"mass_sigma"` // Log-normal spread for the normal distribution
	Spread       [3]float64 `yaml:"spread"`     // Per-axis standard deviation of positions
	Color        [3]float64 `yaml:"color"`
}

// NeighborsConfig selects the neighbor enumeration strategy.
type NeighborsConfig struct {
	Mode string `yaml:"mode"` // all_pairs or grid
}

// IntegratorConfig selects the time integration scheme.
type IntegratorConfig struct {
	Mode string `yaml:"mode"` // relaxation or euler
}

// ParallelConfig holds worker pool parameters.
type ParallelConfig struct {
	Workers   int `yaml:"workers"`   // <= 1 runs single-threaded
	Threshold int `yaml:"threshold"` // Minimum population before work is split
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow int `yaml:"stats_window"` // Frames per stats window
	PerfWindow  int `yaml:"perf_window"`  // Frames averaged by the perf collector
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32           float32 // Simulation.DT as float32
	RestDensity32  float32
	GasConst32     float32
	Viscosity32    float32
	Friction32     float32
	Confinement32  [3]float32 // Strength * anisotropy per axis
	FixedSupport32 float32    // Fluid.InteractionRadius as float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}


// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Defaults returns a fresh copy of the embedded defaults.
func Defaults() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	cfg.computeDerived()

	return cfg, nil
}

// Validate rejects configurations the simulation cannot run with.
func (c *Config) Validate() error {
	if c.Simulation.DT <= 0 {
		return fmt.Errorf("simulation.dt must be positive, got %v", c.Simulation.DT)
	}
	if c.Simulation.Substeps < 1 {
		return fmt.Errorf("simulation.substeps must be at least 1, got %d", c.Simulation.Substeps)
	}
	if c.Fluid.InteractionRadius < 0 {
		return fmt.Errorf("fluid.interaction_radius must not be negative, got %v", c.Fluid.InteractionRadius)
	}
	switch c.Fluid.EOS {
	case EOSLinear, EOSCubic:
	default:
		return fmt.Errorf("fluid.eos: unknown equation of state %q", c.Fluid.EOS)
	}
	switch c.Viscosity.Strategy {
	case ViscosityImplicit, ViscosityExplicit:
	default:
		return fmt.Errorf("viscosity.strategy: unknown strategy %q", c.Viscosity.Strategy)
	}
	if c.Viscosity.Strategy == ViscosityImplicit && c.Viscosity.Friction <= 0 {
		return fmt.Errorf("viscosity.friction must be positive for the implicit strategy, got %v", c.Viscosity.Friction)
	}
	switch c.Neighbors.Mode {
	case NeighborsAllPairs, NeighborsGrid:
	default:
		return fmt.Errorf("neighbors.mode: unknown mode %q", c.Neighbors.Mode)
	}
	switch c.Integrator.Mode {
	case IntegratorRelaxation, IntegratorEuler:
	default:
		return fmt.Errorf("integrator.mode: unknown mode %q", c.Integrator.Mode)
	}
	switch c.Seed.Distribution {
	case SeedOrigin, SeedNormal:
	default:
		return fmt.Errorf("seed.distribution: unknown distribution %q", c.Seed.Distribution)
	}
	if c.Seed.Count < 1 {
		return fmt.Errorf("seed.count must be at least 1, got %d", c.Seed.Count)
	}
	if c.Seed.Mass <= 0 {
		return fmt.Errorf("seed.mass must be positive, got %v", c.Seed.Mass)
	}
	if c.Division.MaxPopulation < c.Seed.Count {
		return fmt.Errorf("division.max_population (%d) is below seed.count (%d)", c.Division.MaxPopulation, c.Seed.Count)
	}
	if c.Division.SplitMin <= 0 || c.Division.SplitMax >= 1 || c.Division.SplitMin > c.Division.SplitMax {
		return fmt.Errorf("division split range must satisfy 0 < split_min <= split_max < 1, got [%v, %v]",
			c.Division.SplitMin, c.Division.SplitMax)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Simulation.DT)
	c.Derived.RestDensity32 = float32(c.Fluid.RestDensity)
	c.Derived.GasConst32 = float32(c.Fluid.GasConst)
	c.Derived.Viscosity32 = float32(c.Viscosity.Viscosity)
	c.Derived.Friction32 = float32(c.Viscosity.Friction)
	c.Derived.FixedSupport32 = float32(c.Fluid.InteractionRadius)
	for i := 0; i < 3; i++ {
		c.Derived.Confinement32[i] = float32(c.Confinement.Strength * c.Confinement.Anisotropy[i])
	}
	if c.Viscosity.MaxCondition <= 0 {
		c.Viscosity.MaxCondition = 1e12
	}
	if c.Telemetry.StatsWindow < 1 {
		c.Telemetry.StatsWindow = 60
	}
	if c.Telemetry.PerfWindow < 1 {
		c.Telemetry.PerfWindow = 60
	}
}

// Recompute refreshes derived values after fields were changed in code.
func (c *Config) Recompute() error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.computeDerived()
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
