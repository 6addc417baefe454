package sim

import (
	"runtime"
	"sync"

	"github.com/mlange-42/ark/ecs"

	"github.com/Alchymia-AI/synthetic-consciousness/dynamics"
)

// parallelThreshold is the minimum entity count to use parallel processing.
// Below this, single-threaded is faster due to goroutine overhead.
const parallelThreshold = 64

// attnSnapshot captures read-only state for parallel attention computation.
type attnSnapshot struct {
	Entity ecs.Entity
	ID     uint32
	Pos    []float64
}

// attnIntent captures computed outputs to apply after the parallel phase.
type attnIntent struct {
	Gradient    []float64
	MinDistance float64
	Magnitude   float64
}

// workChunk represents a range of entities for a worker to process.
type workChunk struct {
	start, end int
}

// parallelState holds resources for the parallel attention phase.
type parallelState struct {
	snapshots  []attnSnapshot
	intents    []attnIntent
	numWorkers int

	workChan chan workChunk
	doneChan chan struct{}
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool
}

func newParallelState() *parallelState {
	return &parallelState{
		numWorkers: runtime.GOMAXPROCS(0),
		snapshots:  make([]attnSnapshot, 0, 256),
		intents:    make([]attnIntent, 0, 256),
	}
}

// startWorkers launches persistent worker goroutines.
func (p *parallelState) startWorkers(s *Simulation) {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(s)
	}
}

// stopWorkers signals all workers to exit and waits for them.
func (p *parallelState) stopWorkers() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

// worker runs in a goroutine, processing chunks until stopped.
func (p *parallelState) worker(s *Simulation) {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			s.computeChunk(chunk.start, chunk.end)
			p.doneChan <- struct{}{}
		}
	}
}

// runAttentionPhase executes the attention field computation, in parallel
// when the population is large enough to pay for it.
func (s *Simulation) runAttentionPhase() {
	// Phase A: build snapshots (single-threaded). Position copies keep
	// workers independent of component storage.
	s.parallel.snapshots = s.parallel.snapshots[:0]

	query := s.entityFilter.Query()
	for query.Next() {
		entity := query.Entity()
		agent, pos, _, _, _, _, _ := query.Get()

		s.parallel.snapshots = append(s.parallel.snapshots, attnSnapshot{
			Entity: entity,
			ID:     agent.ID,
			Pos:    append([]float64(nil), pos.Coords...),
		})
	}

	n := len(s.parallel.snapshots)
	if n == 0 {
		return
	}

	if cap(s.parallel.intents) < n {
		s.parallel.intents = make([]attnIntent, n)
	}
	s.parallel.intents = s.parallel.intents[:n]

	// Phase B: compute, single or parallel based on entity count.
	if n < parallelThreshold {
		s.computeChunk(0, n)
	} else {
		s.computeParallel(n)
	}

	// Phase C: apply intents (single-threaded, preserves determinism).
	s.applyIntents()
}

// computeParallel dispatches work to the worker pool.
func (s *Simulation) computeParallel(n int) {
	if !s.parallel.running {
		s.parallel.startWorkers(s)
	}

	numWorkers := s.parallel.numWorkers
	chunkSize := (n + numWorkers - 1) / numWorkers

	chunksDispatched := 0
	for w := 0; w < numWorkers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}

		s.parallel.workChan <- workChunk{start: start, end: end}
		chunksDispatched++
	}

	for i := 0; i < chunksDispatched; i++ {
		<-s.parallel.doneChan
	}
}

// computeChunk processes a range of entities for a single worker.
func (s *Simulation) computeChunk(i0, i1 int) {
	for i := i0; i < i1; i++ {
		s.computeAttention(i, s.parallel.snapshots, &s.parallel.intents[i])
	}
}

// applyIntents writes computed attention back to ECS components.
func (s *Simulation) applyIntents() {
	for i, snap := range s.parallel.snapshots {
		intent := &s.parallel.intents[i]

		attn := s.attnMap.Get(snap.Entity)
		drives := s.drivesMap.Get(snap.Entity)
		if attn == nil || drives == nil {
			continue
		}

		attn.Gradient = intent.Gradient
		attn.MinDistance = intent.MinDistance
		attn.Magnitude = intent.Magnitude

		drives.Preservation, drives.Curiosity = dynamics.BaselineDrives(
			intent.MinDistance, intent.Magnitude,
		)
	}
}
