package game

import (
	"sort"
	"time"
)

// FrameTimer tracks rolling execution time for each viewer stage.
type FrameTimer struct {
	samples    map[string][]time.Duration
	maxSamples int
}

// NewFrameTimer creates a new frame timer.
func NewFrameTimer() *FrameTimer {
	return &FrameTimer{
		samples:    make(map[string][]time.Duration),
		maxSamples: 120, // ~2 seconds of samples at 60fps
	}
}

// Measure runs fn and records its duration under name.
func (p *FrameTimer) Measure(name string, fn func()) {
	start := time.Now()
	fn()
	p.Record(name, time.Since(start))
}

// Record adds a duration sample for the named stage.
func (p *FrameTimer) Record(name string, d time.Duration) {
	p.samples[name] = append(p.samples[name], d)
	if len(p.samples[name]) > p.maxSamples {
		p.samples[name] = p.samples[name][1:]
	}
}

// Avg returns the average duration for the named stage.
func (p *FrameTimer) Avg(name string) time.Duration {
	s := p.samples[name]
	if len(s) == 0 {
		return 0
	}
	var total time.Duration
	for _, d := range s {
		total += d
	}
	return total / time.Duration(len(s))
}

// Total returns the sum of all average durations.
func (p *FrameTimer) Total() time.Duration {
	var total time.Duration
	for name := range p.samples {
		total += p.Avg(name)
	}
	return total
}

// SortedNames returns stage names sorted by average duration (descending).
func (p *FrameTimer) SortedNames() []string {
	names := make([]string, 0, len(p.samples))
	for name := range p.samples {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return p.Avg(names[i]) > p.Avg(names[j])
	})
	return names
}
