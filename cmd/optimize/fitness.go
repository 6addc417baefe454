package main

import (
	"math"

	"github.com/Alchymia-AI/synthetic-consciousness/config"
	"github.com/Alchymia-AI/synthetic-consciousness/metrics"
	"github.com/Alchymia-AI/synthetic-consciousness/results"
	"github.com/Alchymia-AI/synthetic-consciousness/sim"
)

// FitnessEvaluator runs short simulations and scores candidate parameter
// vectors by emergence quality. Lower fitness is better, gonum minimizes.
type FitnessEvaluator struct {
	params  *ParamVector
	steps   int
	seeds   []int64
	baseCfg *config.Config

	lastScore    float64
	lastMargin   float64
	bestScore    float64
	bestAnalysis results.Analysis
}

// NewFitnessEvaluator creates an evaluator running each candidate over the
// given seeds for the given number of steps.
func NewFitnessEvaluator(params *ParamVector, steps int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:    params,
		steps:     steps,
		seeds:     seeds,
		baseCfg:   baseCfg,
		bestScore: -1,
	}
}

// cloneConfig copies the base configuration so per-candidate mutation never
// leaks between evaluations.
func (fe *FitnessEvaluator) cloneConfig() *config.Config {
	cfg := *fe.baseCfg
	cfg.Geometry.Bounds = append([]float64(nil), fe.baseCfg.Geometry.Bounds...)
	return &cfg
}

// Evaluate runs the candidate over all seeds and returns its fitness: the
// negated mean of emergence score plus a small margin bonus, so candidates
// that pass the same criteria are still ranked by how far above threshold
// they sit.
func (fe *FitnessEvaluator) Evaluate(raw []float64) float64 {
	totalScore := 0.0
	totalMargin := 0.0

	for _, seed := range fe.seeds {
		cfg := fe.cloneConfig()
		fe.params.ApplyToConfig(cfg, raw)
		cfg.Simulation.Seed = seed
		cfg.Simulation.NumSteps = fe.steps

		score, margin, analysis := fe.runOnce(cfg)
		totalScore += score
		totalMargin += margin

		if score > fe.bestScore {
			fe.bestScore = score
			fe.bestAnalysis = analysis
		}
	}

	n := float64(len(fe.seeds))
	fe.lastScore = totalScore / n
	fe.lastMargin = totalMargin / n

	return -(fe.lastScore + 0.1*fe.lastMargin)
}

// runOnce executes one simulation and scores its final snapshot.
func (fe *FitnessEvaluator) runOnce(cfg *config.Config) (score, margin float64, analysis results.Analysis) {
	s, err := sim.New(cfg)
	if err != nil {
		// An invalid candidate scores as a total failure.
		return 0, 0, results.Analysis{}
	}
	defer s.Close()

	s.Run()

	history := s.MetricsHistory()
	if len(history) == 0 {
		return 0, 0, results.Analysis{}
	}
	final := history[len(history)-1]

	analysis = results.Analyze(final)
	return analysis.Score, thresholdMargin(final), analysis
}

// thresholdMargin measures how far the final metrics sit above their
// thresholds, averaged and capped per criterion so no single metric
// dominates.
func thresholdMargin(final metrics.Snapshot) float64 {
	pairs := [][2]float64{
		{final.AttentionEntropy, results.ThresholdAttentionEntropy},
		{final.MemoryDiversity, results.ThresholdMemoryDiversity},
		{final.VelocityStability, results.ThresholdVelocityStability},
		{final.IdentityCoherence, results.ThresholdIdentityCoherence},
		{final.ClusterStability, results.ThresholdClusterStability},
		{final.AffectiveStrength, results.ThresholdAffectiveStrength},
	}

	total := 0.0
	for _, p := range pairs {
		rel := (p[0] - p[1]) / math.Max(p[1], 1e-9)
		total += math.Max(0, math.Min(rel, 1))
	}
	return total / float64(len(pairs))
}

// LastScore returns the mean emergence score of the latest evaluation.
func (fe *FitnessEvaluator) LastScore() float64 {
	return fe.lastScore
}

// LastMargin returns the mean threshold margin of the latest evaluation.
func (fe *FitnessEvaluator) LastMargin() float64 {
	return fe.lastMargin
}

// BestAnalysis returns the analysis of the best-scoring run seen so far.
func (fe *FitnessEvaluator) BestAnalysis() results.Analysis {
	return fe.bestAnalysis
}
