package telemetry

// LifetimeStats tracks one particle from the division that created it.
type LifetimeStats struct {
	BirthFrame int32
	ParentID   uint32 // 0 for seeded particles
	Generation int    // Divisions between the seed and this particle
	FounderID  uint32 // Seeded ancestor
	BirthMass  float32
}

// LifetimeTracker records lineage for living particles.
type LifetimeTracker struct {
	stats         map[uint32]*LifetimeStats
	maxGeneration int
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{
		stats: make(map[uint32]*LifetimeStats),
	}
}

// RegisterSeed records a seeded particle as its own founder.
func (lt *LifetimeTracker) RegisterSeed(id uint32, frame int32, mass float32) {
	lt.stats[id] = &LifetimeStats{
		BirthFrame: frame,
		FounderID:  id,
		BirthMass:  mass,
	}
}

// RecordDivision retires the parent and registers both daughters one
// generation below it. Unknown parents are treated as seeds.
func (lt *LifetimeTracker) RecordDivision(frame int32, parentID, d1ID, d2ID uint32, m1, m2 float32) {
	parent := lt.Remove(parentID)
	gen, founder := 1, parentID
	if parent != nil {
		gen = parent.Generation + 1
		founder = parent.FounderID
	}
	if gen > lt.maxGeneration {
		lt.maxGeneration = gen
	}

	lt.stats[d1ID] = &LifetimeStats{BirthFrame: frame, ParentID: parentID, Generation: gen, FounderID: founder, BirthMass: m1}
	lt.stats[d2ID] = &LifetimeStats{BirthFrame: frame, ParentID: parentID, Generation: gen, FounderID: founder, BirthMass: m2}
}

// Get returns the lifetime stats for a particle, or nil if not found.
func (lt *LifetimeTracker) Get(id uint32) *LifetimeStats {
	return lt.stats[id]
}

// Remove removes a particle's stats and returns them.
func (lt *LifetimeTracker) Remove(id uint32) *LifetimeStats {
	stats := lt.stats[id]
	delete(lt.stats, id)
	return stats
}

// Count returns the number of tracked particles.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}

// MaxGeneration returns the deepest generation ever recorded.
func (lt *LifetimeTracker) MaxGeneration() int {
	return lt.maxGeneration
}

// ActiveFounderCount returns the number of seeded lineages with living descendants.
func (lt *LifetimeTracker) ActiveFounderCount() int {
	seen := make(map[uint32]struct{})
	for _, stats := range lt.stats {
		seen[stats.FounderID] = struct{}{}
	}
	return len(seen)
}

// Reset forgets every particle.
func (lt *LifetimeTracker) Reset() {
	clear(lt.stats)
	lt.maxGeneration = 0
}
