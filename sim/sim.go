// Package sim orchestrates the entity population: it owns the ECS world,
// drives the fixed ten-phase simulation step, and accumulates metrics history.
package sim

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/Alchymia-AI/synthetic-consciousness/attraction"
	"github.com/Alchymia-AI/synthetic-consciousness/components"
	"github.com/Alchymia-AI/synthetic-consciousness/config"
	"github.com/Alchymia-AI/synthetic-consciousness/dynamics"
	"github.com/Alchymia-AI/synthetic-consciousness/essence"
	"github.com/Alchymia-AI/synthetic-consciousness/geometry"
	"github.com/Alchymia-AI/synthetic-consciousness/memory"
	"github.com/Alchymia-AI/synthetic-consciousness/metrics"
	"github.com/Alchymia-AI/synthetic-consciousness/results"
	"github.com/Alchymia-AI/synthetic-consciousness/state"
)

// attractionFloor is the minimum pairwise attraction recorded per step.
const attractionFloor = 0.01

// Simulation holds the complete population state.
type Simulation struct {
	cfg   *config.Config
	world *ecs.World
	rng   *rand.Rand

	entityMapper *ecs.Map7[
		components.Agent,
		components.Position,
		components.Velocity,
		components.Orientation,
		components.Attention,
		components.Drives,
		essence.Index,
	]
	entityFilter *ecs.Filter7[
		components.Agent,
		components.Position,
		components.Velocity,
		components.Orientation,
		components.Attention,
		components.Drives,
		essence.Index,
	]

	// Individual component mappers for lookups
	posMap    *ecs.Map1[components.Position]
	attnMap   *ecs.Map1[components.Attention]
	drivesMap *ecs.Map1[components.Drives]
	essMap    *ecs.Map1[essence.Index]

	// Heavy per-entity structures live outside the ECS, keyed by agent ID.
	states   map[uint32]*state.Vector
	memories map[uint32]*memory.Graph

	// ID -> ECS entity lookup
	byID map[uint32]ecs.Entity

	timestamp uint64
	nextID    uint32

	history []metrics.Snapshot
	run     *results.Run

	parallel *parallelState
}

// New creates a simulation from a validated configuration, spawning the
// configured population at random positions with zero velocity.
func New(cfg *config.Config) (*Simulation, error) {
	// Re-validate at the boundary: construction is the only place structural
	// problems surface as errors.
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("sim: invalid configuration: %w", err)
	}

	world := ecs.NewWorld()
	s := &Simulation{
		cfg:   cfg,
		world: world,
		rng:   rand.New(rand.NewSource(cfg.Simulation.Seed)),
		entityMapper: ecs.NewMap7[
			components.Agent,
			components.Position,
			components.Velocity,
			components.Orientation,
			components.Attention,
			components.Drives,
			essence.Index,
		](world),
		entityFilter: ecs.NewFilter7[
			components.Agent,
			components.Position,
			components.Velocity,
			components.Orientation,
			components.Attention,
			components.Drives,
			essence.Index,
		](world),
		posMap:    ecs.NewMap1[components.Position](world),
		attnMap:   ecs.NewMap1[components.Attention](world),
		drivesMap: ecs.NewMap1[components.Drives](world),
		essMap:    ecs.NewMap1[essence.Index](world),
		states:    make(map[uint32]*state.Vector),
		memories:  make(map[uint32]*memory.Graph),
		byID:      make(map[uint32]ecs.Entity),
		nextID:    1,
		run: results.NewRun(
			cfg.Metadata.Name,
			cfg.Simulation.NumEntities,
			cfg.Simulation.NumSteps,
		),
		parallel: newParallelState(),
	}

	for i := 0; i < cfg.Simulation.NumEntities; i++ {
		s.spawnEntity()
	}

	return s, nil
}

// Close releases worker resources.
func (s *Simulation) Close() {
	s.parallel.stopWorkers()
}

// spawnEntity creates a new entity at a random position inside world bounds.
func (s *Simulation) spawnEntity() ecs.Entity {
	cfg := s.cfg
	dim := cfg.Geometry.Dimension

	id := s.nextID
	s.nextID++

	coords := make([]float64, dim)
	for d := 0; d < dim; d++ {
		coords[d] = s.rng.Float64() * cfg.Geometry.Bounds[d]
	}

	agent := components.Agent{ID: id}
	pos := components.Position{Coords: coords}
	vel := components.Velocity{Coords: make([]float64, dim)}
	orient := components.Orientation{Quat: [4]float64{1, s.rng.Float64()*2 - 1, 0, 0}}
	attn := components.Attention{Gradient: make([]float64, dim)}
	drives := components.Drives{Preservation: 0.5, Curiosity: 0.5}
	ess := essence.NewIndex(cfg.Essence)

	s.states[id] = state.NewVector(cfg.State, cfg.Derived.TraitsDim)
	s.memories[id] = memory.NewGraph()

	entity := s.entityMapper.NewEntity(&agent, &pos, &vel, &orient, &attn, &drives, &ess)
	s.byID[id] = entity
	return entity
}

// Step executes one simulation step. The ten phases are strictly sequential:
// each runs to completion over the full population before the next starts.
func (s *Simulation) Step() {
	s.senseStep()
	s.attentionStep()
	s.stateUpdateStep()
	s.affectiveStep()
	s.essenceStep()
	s.decisionStep()
	s.integrationStep()
	s.boundaryStep()
	s.memoryDecayStep()
	s.metricsStep()

	s.timestamp++
}

// Run executes the configured number of steps.
func (s *Simulation) Run() {
	for i := 0; i < s.cfg.Simulation.NumSteps; i++ {
		s.Step()
	}
}

// senseStep records a random stimulus per entity and clusters it.
func (s *Simulation) senseStep() {
	dim := s.cfg.Derived.StimulusDim
	tau := s.cfg.Memory.Tau

	query := s.entityFilter.Query()
	for query.Next() {
		agent, _, _, _, _, _, _ := query.Get()

		stimulus := make([]float64, dim)
		for d := range stimulus {
			stimulus[d] = s.rng.Float64()*0.2 - 0.1
		}

		graph := s.memories[agent.ID]
		idx := graph.AddNode(stimulus, s.timestamp)
		graph.ClusterEvent(stimulus, idx, tau)
	}
}

// attentionStep computes the pairwise attraction field for every entity:
// softmax attention over neighbor kernel scores weights the potential whose
// gradient becomes the entity's attention force. Baseline drives refresh from
// the nearest-neighbor distance and gradient magnitude.
func (s *Simulation) attentionStep() {
	s.runAttentionPhase()
}

// computeAttention derives one entity's attention from a position snapshot.
// Pure over the snapshot, safe to run on worker goroutines.
func (s *Simulation) computeAttention(self int, snapshots []attnSnapshot, out *attnIntent) {
	acfg := s.cfg.Attraction
	pos := snapshots[self].Pos

	others := make([][]float64, 0, len(snapshots)-1)
	scores := make([]float64, 0, len(snapshots)-1)
	minDist := math.Inf(1)
	for i := range snapshots {
		if i == self {
			continue
		}
		d := geometry.Distance(pos, snapshots[i].Pos)
		if d < minDist {
			minDist = d
		}
		others = append(others, snapshots[i].Pos)
		scores = append(scores, attraction.Kernel(acfg.Kernel, d, acfg.Sigma))
	}

	weights := attraction.SoftmaxAttention(scores, acfg.Lambda)
	gradient := attraction.Gradient(pos, others, weights, acfg)

	magnitude := 0.0
	for _, g := range gradient {
		magnitude += g * g
	}
	magnitude = math.Sqrt(magnitude)

	if len(others) == 0 {
		minDist = 0
	}

	out.Gradient = gradient
	out.MinDistance = minDist
	out.Magnitude = magnitude
}

// stateUpdateStep folds the attention force and the activation-weighted
// memory recall into each entity's state vector.
func (s *Simulation) stateUpdateStep() {
	query := s.entityFilter.Query()
	for query.Next() {
		agent, _, _, _, attn, _, _ := query.Get()

		s.states[agent.ID].Update(attn.Gradient, memoryRecall(s.memories[agent.ID]))
	}
}

// memoryRecall aggregates an entity's events into an activation-weighted mean
// vector. Returns nil when nothing is remembered.
func memoryRecall(graph *memory.Graph) []float64 {
	nodes := graph.Nodes()
	if len(nodes) == 0 {
		return nil
	}

	var recall []float64
	totalActivation := 0.0
	for i := range nodes {
		a := nodes[i].Activation
		if a <= 0 {
			continue
		}
		totalActivation += a
		if recall == nil {
			recall = make([]float64, len(nodes[i].Event))
		}
		for d := 0; d < min(len(recall), len(nodes[i].Event)); d++ {
			recall[d] += a * nodes[i].Event[d]
		}
	}
	if totalActivation <= 0 {
		return nil
	}
	for d := range recall {
		recall[d] /= totalActivation
	}
	return recall
}

// affectiveStep refreshes cluster affective signals from node valences.
func (s *Simulation) affectiveStep() {
	query := s.entityFilter.Query()
	for query.Next() {
		agent, _, _, _, _, _, _ := query.Get()
		s.memories[agent.ID].UpdateAffectiveSignals()
	}
}

// essenceStep advances each well-being index from this step's fresh signals.
func (s *Simulation) essenceStep() {
	query := s.entityFilter.Query()
	for query.Next() {
		agent, _, _, _, _, _, ess := query.Get()
		ess.Update(s.memories[agent.ID].AffectiveSignals())
	}
}

// decisionStep derives an action from state, drives, and essence extremity,
// and applies it to the velocity. Entities at either well-being extreme act
// more decisively; a neutral entity contributes nothing here.
func (s *Simulation) decisionStep() {
	query := s.entityFilter.Query()
	for query.Next() {
		agent, _, vel, _, _, drives, ess := query.Get()

		gain := (drives.Preservation + drives.Curiosity) * ess.InfluenceFactor()
		if gain == 0 {
			continue
		}
		mem := s.states[agent.ID].Memory
		n := min(len(vel.Coords), len(mem))
		for d := 0; d < n; d++ {
			vel.Coords[d] += mem[d] * gain
		}
	}
}

// integrationStep advances motion under the perpetual-velocity constraint,
// accelerating along the attention gradient.
func (s *Simulation) integrationStep() {
	dcfg := s.cfg.Dynamics

	query := s.entityFilter.Query()
	for query.Next() {
		_, pos, vel, _, attn, _, _ := query.Get()

		acc := dynamics.AccelerationFromGradient(attn.Gradient)
		dynamics.Integrate(pos.Coords, vel.Coords, acc, dcfg)
	}
}

// boundaryStep wraps positions when the world is periodic.
func (s *Simulation) boundaryStep() {
	gcfg := s.cfg.Geometry

	query := s.entityFilter.Query()
	for query.Next() {
		_, pos, _, _, _, _, _ := query.Get()
		geometry.Wrap(pos.Coords, gcfg.Bounds, gcfg.Periodic)
	}
}

// memoryDecayStep applies forgetting to every memory graph.
func (s *Simulation) memoryDecayStep() {
	factor := s.cfg.Memory.DecayFactor

	query := s.entityFilter.Query()
	for query.Next() {
		agent, _, _, _, _, _, _ := query.Get()
		s.memories[agent.ID].Decay(factor)
	}
}

// metricsStep computes the population snapshot and records step detail for
// the reporting collaborators.
func (s *Simulation) metricsStep() {
	views := s.entityViews()
	snapshot := metrics.Compute(views, s.timestamp)
	s.history = append(s.history, snapshot)
	s.run.AddStep(s.buildStepRecord(snapshot))
}

// entityViews projects the population into the metrics engine's read-only
// view slice.
func (s *Simulation) entityViews() []metrics.EntityView {
	views := make([]metrics.EntityView, 0, len(s.byID))

	query := s.entityFilter.Query()
	for query.Next() {
		agent, _, vel, _, _, _, ess := query.Get()

		graph := s.memories[agent.ID]
		views = append(views, metrics.EntityView{
			Speed:          norm(vel.Coords),
			StateNorm:      s.states[agent.ID].Norm(),
			Activations:    graph.Activations(),
			ClusterSignals: graph.AffectiveSignals(),
			ClusterCount:   graph.ClusterCount(),
			Essence:        ess.Value,
		})
	}
	return views
}

// buildStepRecord captures per-entity positions, velocities, essence, belief
// clusters, node activations, and significant pairwise attractions.
func (s *Simulation) buildStepRecord(snapshot metrics.Snapshot) results.StepRecord {
	record := results.StepRecord{
		Step:    s.timestamp,
		Metrics: snapshot,
	}

	type posEntry struct {
		id  uint32
		pos []float64
	}
	var positions []posEntry

	query := s.entityFilter.Query()
	for query.Next() {
		agent, pos, vel, _, _, _, ess := query.Get()

		graph := s.memories[agent.ID]
		clusters := make([]components.ClusterSummary, 0, graph.ClusterCount())
		for _, cid := range graph.ClusterIDs() {
			c := graph.Cluster(cid)
			clusters = append(clusters, components.ClusterSummary{
				ClusterID:       c.ID,
				AffectiveSignal: c.AffectiveSignal,
				Size:            len(c.NodeIndices),
			})
		}

		record.Entities = append(record.Entities, results.EntityRecord{
			ID:       agent.ID,
			Position: append([]float64(nil), pos.Coords...),
			Velocity: append([]float64(nil), vel.Coords...),
			Essence:  ess.Value,
			Clusters: clusters,
		})
		if activations := graph.Activations(); len(activations) > 0 {
			record.Attentions = append(record.Attentions, results.AttentionRecord{
				ID:          agent.ID,
				Activations: activations,
			})
		}

		positions = append(positions, posEntry{id: agent.ID, pos: pos.Coords})
	}

	for i := 0; i < len(positions); i++ {
		for j := i + 1; j < len(positions); j++ {
			d := geometry.Distance(positions[i].pos, positions[j].pos)
			strength := 1.0 / (1.0 + d)
			if strength > attractionFloor {
				record.Attractions = append(record.Attractions, results.AttractionRecord{
					A:        positions[i].id,
					B:        positions[j].id,
					Strength: strength,
				})
			}
		}
	}

	return record
}

// Timestamp returns the number of completed steps.
func (s *Simulation) Timestamp() uint64 {
	return s.timestamp
}

// MetricsHistory returns the per-step metrics snapshots so far.
func (s *Simulation) MetricsHistory() []metrics.Snapshot {
	return s.history
}

// Results returns the accumulating run results.
func (s *Simulation) Results() *results.Run {
	return s.run
}

// Position returns a copy of an entity's position, or nil for an unknown ID.
func (s *Simulation) Position(id uint32) []float64 {
	entity, ok := s.byID[id]
	if !ok {
		return nil
	}
	pos := s.posMap.Get(entity)
	if pos == nil {
		return nil
	}
	return append([]float64(nil), pos.Coords...)
}

// Essence returns an entity's current well-being value, or the scale midpoint
// for an unknown ID.
func (s *Simulation) Essence(id uint32) float64 {
	entity, ok := s.byID[id]
	if !ok {
		return s.cfg.Essence.Baseline
	}
	ess := s.essMap.Get(entity)
	if ess == nil {
		return s.cfg.Essence.Baseline
	}
	return ess.Value
}

// Count returns the population size.
func (s *Simulation) Count() int {
	return len(s.byID)
}

// Finalize closes out the run results and analyzes the trajectory.
func (s *Simulation) Finalize() {
	s.run.Finalize(float64(s.timestamp) * s.cfg.Dynamics.DT)
}

func norm(v []float64) float64 {
	sum := 0.0
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}
