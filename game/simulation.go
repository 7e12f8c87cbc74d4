package game

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/pthm-cable/mitosis/components"
	"github.com/pthm-cable/mitosis/config"
	"github.com/pthm-cable/mitosis/systems"
	"github.com/pthm-cable/mitosis/telemetry"
)

// Options configures a Simulation beyond the config file.
type Options struct {
	Seed          int64  // RNG seed (0 = simulation.seed from config, then time-based)
	OutputDir     string // CSV output directory (empty = disabled)
	LogStats      bool   // Log window stats via slog
	Workers       int    // Worker pool size (0 = parallel.workers from config)
	StatsCallback func(telemetry.WindowStats)
}

// Simulation owns the particle store and runs the per-frame pipeline.
// It is not safe for concurrent use.
type Simulation struct {
	cfg     *config.Config
	applied *config.Config // Last config accepted by ApplyConfig
	opts    Options
	seed int64
	rng  *rand.Rand

	store    *components.Store
	finder   systems.NeighborFinder
	pool     *systems.Pool
	divider  *systems.Divider
	solver   systems.ViscositySolver
	fallback systems.ViscositySolver

	density    systems.DensityParams
	forces     systems.ForceParams
	integrator systems.IntegratorParams

	frame int32

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	bookmarks     *telemetry.BookmarkDetector
	lifetimes     *telemetry.LifetimeTracker
	output        *telemetry.OutputManager
}

// NewSimulation builds a simulation from cfg and seeds the initial population.
// Output errors are logged and disable CSV output rather than failing.
func NewSimulation(cfg *config.Config, opts Options) *Simulation {
	seed := opts.Seed
	if seed == 0 {
		seed = cfg.Simulation.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	workers := opts.Workers
	if workers == 0 {
		workers = cfg.Parallel.Workers
	}
	if workers < 1 {
		workers = 1
	}

	s := &Simulation{
		cfg:     cfg,
		applied: cfg.Clone(),
		opts:    opts,
		seed:    seed,
		store:   components.NewStore(cfg.Division.MaxPopulation),
		pool:    systems.NewPool(workers, cfg.Parallel.Threshold),
	}
	s.configure()

	frameTime := float64(cfg.Simulation.Substeps) * cfg.Simulation.DT
	s.collector = telemetry.NewCollector(cfg.Telemetry.StatsWindow, frameTime)
	s.perfCollector = telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow, cfg.Simulation.Substeps)
	s.bookmarks = telemetry.NewBookmarkDetector(10, cfg.Division.MaxPopulation)
	s.lifetimes = telemetry.NewLifetimeTracker()

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		slog.Error("failed to create output directory, CSV output disabled", "dir", opts.OutputDir, "error", err)
	}
	s.output = output
	if err := s.output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	s.Reset()
	return s
}

// configure derives per-system parameters from the config.
func (s *Simulation) configure() {
	cfg := s.cfg
	s.finder = systems.NewNeighborFinder(cfg)
	s.solver = systems.NewViscositySolver(cfg)
	s.fallback = systems.NewExplicitViscosity(systems.ViscosityParamsFromConfig(cfg))
	s.density = systems.DensityParamsFromConfig(cfg)
	s.forces = systems.ForceParamsFromConfig(cfg)
	s.integrator = systems.IntegratorParamsFromConfig(cfg)
	if s.divider != nil {
		s.divider.Params = systems.DivisionParamsFromConfig(cfg)
	}
}

// ApplyConfig re-reads tunable parameters after cfg was edited in place.
// The population is kept. An invalid config is rolled back to the last
// applied one and the validation error returned.
func (s *Simulation) ApplyConfig() error {
	if err := s.cfg.Recompute(); err != nil {
		*s.cfg = *s.applied
		return err
	}
	s.applied = s.cfg.Clone()
	s.configure()
	s.collector.SetFrameTime(float64(s.cfg.Simulation.Substeps) * s.cfg.Simulation.DT)
	s.perfCollector.SetSubsteps(s.cfg.Simulation.Substeps)
	return nil
}

// Reset discards the population and reseeds it from the original seed.
func (s *Simulation) Reset() {
	s.rng = rand.New(rand.NewSource(s.seed))
	s.divider = systems.NewDivider(systems.DivisionParamsFromConfig(s.cfg), s.rng)
	s.store.Reset()
	s.pool.Drain()
	s.lifetimes.Reset()
	s.collector.Reset()
	s.bookmarks.Reset()
	s.frame = 0

	Seed(s.store, s.rng, s.cfg.Seed)
	for i := range s.store.All() {
		p := s.store.At(i)
		s.lifetimes.RegisterSeed(p.ID, s.frame, p.Mass)
	}

	slog.Info("population seeded",
		"seed", s.seed,
		"count", s.store.Len(),
		"distribution", s.cfg.Seed.Distribution,
		"total_mass", s.store.TotalMass(),
	)
}

// Advance runs one frame: simulation.substeps sub-steps, then telemetry.
func (s *Simulation) Advance() {
	s.perfCollector.StartTick()

	for step := 0; step < s.cfg.Simulation.Substeps; step++ {
		s.substep(step)
	}

	s.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	s.frame++
	s.collector.RecordCounters(s.pool.Drain())
	s.flushTelemetry()

	s.perfCollector.EndTick()
}

// substep runs division, density, forces, viscosity and integration once.
// Indices are stable from the neighbor build onwards.
func (s *Simulation) substep(step int) {
	s.perfCollector.StartPhase(telemetry.PhaseDivision)
	if s.cfg.Division.Enabled {
		if ev, ok := s.divider.Step(s.store); ok {
			s.recordDivision(step, ev)
		}
	}
	if culled := s.divider.Cull(s.store, s.retire); culled > 0 {
		s.collector.RecordCulled(culled)
	}

	particles := s.store.All()

	s.perfCollector.StartPhase(telemetry.PhaseNeighbors)
	s.finder.Build(particles, s.density.Support)

	s.perfCollector.StartPhase(telemetry.PhaseDensity)
	systems.UpdateDensity(particles, s.finder, s.density, s.pool)

	s.perfCollector.StartPhase(telemetry.PhaseForces)
	systems.AccumulateForces(particles, s.finder, s.forces, s.pool)

	s.perfCollector.StartPhase(telemetry.PhaseSolve)
	systems.SolveViscosity(particles, s.finder, s.solver, s.fallback, s.pool)

	s.perfCollector.StartPhase(telemetry.PhaseIntegrate)
	systems.Integrate(particles, s.integrator, s.pool)
}

// Snapshot returns one render instance per particle in store order.
func (s *Simulation) Snapshot() []components.Instance {
	return s.SnapshotInto(make([]components.Instance, 0, s.store.Len()))
}

// SnapshotInto appends render instances to dst[:0] and returns it.
func (s *Simulation) SnapshotInto(dst []components.Instance) []components.Instance {
	dst = dst[:0]
	oriented := s.cfg.Orientation.Render
	for i := range s.store.All() {
		dst = append(dst, components.NewInstance(s.store.At(i), oriented))
	}
	return dst
}

// Frame returns the number of completed frames.
func (s *Simulation) Frame() int32 {
	return s.frame
}

// Population returns the current particle count.
func (s *Simulation) Population() int {
	return s.store.Len()
}

// Workers returns the worker pool size.
func (s *Simulation) Workers() int {
	return s.pool.Workers()
}

// Store exposes the particle store for read-only inspection.
func (s *Simulation) Store() *components.Store {
	return s.store
}

// Config returns the live configuration.
func (s *Simulation) Config() *config.Config {
	return s.cfg
}

// RNGSeed returns the RNG seed in use.
func (s *Simulation) RNGSeed() int64 {
	return s.seed
}

// MaxGeneration returns the deepest lineage generation reached since the last reset.
func (s *Simulation) MaxGeneration() int {
	return s.lifetimes.MaxGeneration()
}

// Perf returns the current performance window.
func (s *Simulation) Perf() telemetry.PerfStats {
	return s.perfCollector.Stats()
}

// Lineage returns the lineage record of a particle, or nil.
func (s *Simulation) Lineage(id uint32) *telemetry.LifetimeStats {
	return s.lifetimes.Get(id)
}

// Close stops the worker pool and flushes output files.
func (s *Simulation) Close() error {
	s.pool.Stop()
	return s.output.Close()
}
