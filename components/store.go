package components

// Store is the contiguous particle arena. Indices are stable for the duration
// of a sub-step; Append, Replace and Remove must only run between sub-steps.
type Store struct {
	list   []Particle
	nextID uint32
}

// NewStore creates an empty store with room for capacity particles.
func NewStore(capacity int) *Store {
	return &Store{list: make([]Particle, 0, capacity)}
}

// Len returns the current population.
func (s *Store) Len() int {
	return len(s.list)
}

// At returns a pointer into the arena. It is invalidated by Append and Remove.
func (s *Store) At(i int) *Particle {
	return &s.list[i]
}

// All returns the arena slice. It is invalidated by Append and Remove.
func (s *Store) All() []Particle {
	return s.list
}

// Append adds a particle, assigns it a fresh ID and returns its index.
func (s *Store) Append(p Particle) int {
	p.ID = s.allocID()
	s.list = append(s.list, p)
	return len(s.list) - 1
}

// Replace overwrites slot i with p under a fresh ID.
func (s *Store) Replace(i int, p Particle) {
	p.ID = s.allocID()
	s.list[i] = p
}

// Remove deletes slot i by moving the last particle into it.
// The particle previously at Len()-1 changes index.
func (s *Store) Remove(i int) {
	last := len(s.list) - 1
	s.list[i] = s.list[last]
	s.list[last] = Particle{}
	s.list = s.list[:last]
}

// TotalMass sums particle masses in float64.
func (s *Store) TotalMass() float64 {
	var total float64
	for i := range s.list {
		total += float64(s.list[i].Mass)
	}
	return total
}

// Reset removes all particles. IDs keep increasing.
func (s *Store) Reset() {
	s.list = s.list[:0]
}

func (s *Store) allocID() uint32 {
	s.nextID++
	return s.nextID
}
