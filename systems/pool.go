package systems

import (
	"runtime"
	"sync"
)

// defaultThreshold is the minimum particle count to split work across workers.
// Below this, single-threaded is faster due to goroutine overhead.
const defaultThreshold = 256

// Counters tracks numerical degeneracies clamped by the phases.
type Counters struct {
	DensityClamped   int // Non-finite density or pressure reset to 0
	CoincidentPairs  int // Pairs closer than pairEpsilon, skipped
	ZeroDensityPairs int // Neighbors with zero density, skipped
	RejectedUpdates  int // Non-finite integration results discarded
	SolverFallbacks  int // Implicit solves replaced by the explicit strategy
}

// Add accumulates o into c.
func (c *Counters) Add(o Counters) {
	c.DensityClamped += o.DensityClamped
	c.CoincidentPairs += o.CoincidentPairs
	c.ZeroDensityPairs += o.ZeroDensityPairs
	c.RejectedUpdates += o.RejectedUpdates
	c.SolverFallbacks += o.SolverFallbacks
}

// Total returns the sum of all counters.
func (c Counters) Total() int {
	return c.DensityClamped + c.CoincidentPairs + c.ZeroDensityPairs + c.RejectedUpdates + c.SolverFallbacks
}

// Scratch holds per-worker reusable buffers and counters.
type Scratch struct {
	Candidates []int
	Counters   Counters
}

// ChunkFunc processes particles [start, end) using the worker's scratch.
type ChunkFunc func(start, end int, s *Scratch)

// workChunk represents a range of particles for a worker to process.
type workChunk struct {
	start, end int
	slot       int
	fn         ChunkFunc
}

// Pool is a persistent worker pool. Run blocks until every chunk is done, so
// consecutive phases are separated by a barrier.
type Pool struct {
	numWorkers int
	threshold  int
	scratches  []Scratch

	// Worker pool channels
	workChan chan workChunk // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool           // true if workers are running
}

// NewPool creates a pool. workers <= 0 uses GOMAXPROCS; 1 runs everything
// on the calling goroutine. threshold <= 0 uses the default.
func NewPool(workers, threshold int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if threshold <= 0 {
		threshold = defaultThreshold
	}
	scratches := make([]Scratch, workers)
	for i := range scratches {
		scratches[i].Candidates = make([]int, 0, 64)
	}
	return &Pool{
		numWorkers: workers,
		threshold:  threshold,
		scratches:  scratches,
	}
}

// Workers returns the number of worker slots.
func (p *Pool) Workers() int {
	return p.numWorkers
}

// Serial returns the scratch used for single-threaded work.
// Only valid on the goroutine that calls Run.
func (p *Pool) Serial() *Scratch {
	return &p.scratches[0]
}

// Run processes n particles with fn, in chunks when n reaches the threshold.
func (p *Pool) Run(n int, fn ChunkFunc) {
	if n == 0 {
		return
	}
	if p.numWorkers <= 1 || n < p.threshold {
		fn(0, n, &p.scratches[0])
		return
	}

	if !p.running {
		p.start()
	}

	chunkSize := (n + p.numWorkers - 1) / p.numWorkers

	// Dispatch chunks to workers
	chunksDispatched := 0
	for w := 0; w < p.numWorkers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}

		p.workChan <- workChunk{start: start, end: end, slot: w, fn: fn}
		chunksDispatched++
	}

	// Wait for all chunks to complete
	for i := 0; i < chunksDispatched; i++ {
		<-p.doneChan
	}
}

// Drain returns the summed counters of every worker and resets them.
func (p *Pool) Drain() Counters {
	var total Counters
	for i := range p.scratches {
		total.Add(p.scratches[i].Counters)
		p.scratches[i].Counters = Counters{}
	}
	return total
}

// Stop signals all workers to exit and waits for them.
func (p *Pool) Stop() {
	if p == nil || !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

// start launches persistent worker goroutines.
func (p *Pool) start() {
	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// worker runs in a goroutine, processing chunks until stopped.
// The chunk slot selects the scratch, so no two concurrent chunks share one.
func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			chunk.fn(chunk.start, chunk.end, &p.scratches[chunk.slot])
			p.doneChan <- struct{}{}
		}
	}
}
