package systems

import (
	"log/slog"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/mitosis/components"
	"github.com/pthm-cable/mitosis/config"
)

// DivisionEvent describes one parent splitting into two daughters.
type DivisionEvent struct {
	ParentID      uint32
	Daughter1ID   uint32
	Daughter2ID   uint32
	ParentMass    float32
	Daughter1Mass float32
	Daughter2Mass float32
	Fraction      float32
	Position      mgl32.Vec3
	Population    int // After the division
}

// DivisionParams configures aging and division.
type DivisionParams struct {
	MaxPopulation  int
	AgeThreshold   float32
	AgeRate        float32
	SelectionBonus float32
	DivisionLength float32
	SplitMin       float32
	SplitMax       float32
	ColorJitter    float32
	EscapeRadius   float32
}

// DivisionParamsFromConfig extracts division parameters from the config.
func DivisionParamsFromConfig(cfg *config.Config) DivisionParams {
	d := cfg.Division
	return DivisionParams{
		MaxPopulation:  d.MaxPopulation,
		AgeThreshold:   float32(d.AgeThreshold),
		AgeRate:        float32(d.AgeRate),
		SelectionBonus: float32(d.SelectionBonus),
		DivisionLength: float32(d.DivisionLength),
		SplitMin:       float32(d.SplitMin),
		SplitMax:       float32(d.SplitMax),
		ColorJitter:    float32(d.ColorJitter),
		EscapeRadius:   float32(d.EscapeRadius),
	}
}

// Divider ages particles and splits at most one per sub-step.
// All randomness comes from its own generator.
type Divider struct {
	Params DivisionParams
	rng    *rand.Rand
}

// NewDivider creates a divider drawing from rng.
func NewDivider(params DivisionParams, rng *rand.Rand) *Divider {
	return &Divider{Params: params, rng: rng}
}

// Step ages every particle, picks one at random and divides it when it is
// old enough and the population has room. A lone particle always divides
// when the cap allows two. Returns the event and true if a division happened.
func (d *Divider) Step(store *components.Store) (DivisionEvent, bool) {
	n := store.Len()
	if n == 0 {
		return DivisionEvent{}, false
	}

	particles := store.All()
	for i := range particles {
		particles[i].Age += d.Params.AgeRate * d.rng.Float32()
	}

	index := d.rng.Intn(n)
	particles[index].Age += d.Params.SelectionBonus

	old := particles[index].Age > d.Params.AgeThreshold && n < d.Params.MaxPopulation
	lone := n == 1 && d.Params.MaxPopulation >= 2
	if !old && !lone {
		return DivisionEvent{}, false
	}
	return d.Divide(store, index), true
}

// Divide splits the particle at index into two daughters along a random axis.
// The parent slot holds the first daughter; the second is appended.
func (d *Divider) Divide(store *components.Store, index int) DivisionEvent {
	parent := *store.At(index)

	axis := RandomAxis(d.rng).Mul(0.5 * d.Params.DivisionLength * parent.Radius())
	f := d.Params.SplitMin + (d.Params.SplitMax-d.Params.SplitMin)*d.rng.Float32()

	color := parent.Color
	for k := range color {
		color[k] = mgl32.Clamp(color[k]+d.jitter(), 0, 1)
	}

	m1 := f * parent.Mass
	m2 := parent.Mass - m1

	first := components.NewParticle(parent.Position.Add(axis), m1, color, RandomAxis(d.rng))
	second := components.NewParticle(parent.Position.Sub(axis), m2, color, RandomAxis(d.rng))

	store.Replace(index, first)
	idx2 := store.Append(second)

	ev := DivisionEvent{
		ParentID:      parent.ID,
		Daughter1ID:   store.At(index).ID,
		Daughter2ID:   store.At(idx2).ID,
		ParentMass:    parent.Mass,
		Daughter1Mass: m1,
		Daughter2Mass: m2,
		Fraction:      f,
		Position:      parent.Position,
		Population:    store.Len(),
	}
	slog.Debug("division",
		"parent", ev.ParentID,
		"fraction", ev.Fraction,
		"mass", ev.ParentMass,
		"population", ev.Population,
	)
	return ev
}

// Cull removes particles farther than EscapeRadius from the origin, calling
// onRemove (if non-nil) with each removed ID. Returns the number removed.
// Does nothing when EscapeRadius is 0.
func (d *Divider) Cull(store *components.Store, onRemove func(id uint32)) int {
	if d.Params.EscapeRadius <= 0 {
		return 0
	}
	limit := d.Params.EscapeRadius * d.Params.EscapeRadius
	removed := 0
	// Iterate backwards so swap-with-last never skips an unchecked particle
	for i := store.Len() - 1; i >= 0; i-- {
		if p := store.At(i); p.Position.LenSqr() > limit {
			if onRemove != nil {
				onRemove(p.ID)
			}
			store.Remove(i)
			removed++
		}
	}
	return removed
}

func (d *Divider) jitter() float32 {
	return (2*d.rng.Float32() - 1) * d.Params.ColorJitter
}
