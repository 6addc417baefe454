// Package metrics computes population-level evaluation statistics from the
// entity pool, once per simulation step.
package metrics

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/stat"
)

// nearZero guards divisions by degenerate means.
const nearZero = 1e-6

// EntityView is the read-only per-entity projection the metrics engine
// consumes. Building views instead of touching the pool keeps Compute pure
// and order-independent.
type EntityView struct {
	Speed          float64   // velocity L2 norm
	StateNorm      float64   // state vector memory norm
	Activations    []float64 // memory node activations, log order
	ClusterSignals []float64 // affective signal per cluster, ascending id
	ClusterCount   int
	Essence        float64
}

// Snapshot is an immutable set of population statistics at one timestamp.
type Snapshot struct {
	Timestamp         uint64  `csv:"timestamp"`
	AttentionEntropy  float64 `csv:"attention_entropy"`
	MemoryDiversity   float64 `csv:"memory_diversity"`
	VelocityStability float64 `csv:"velocity_stability"`
	IdentityCoherence float64 `csv:"identity_coherence"`
	ClusterStability  float64 `csv:"cluster_stability"`
	AffectiveStrength float64 `csv:"affective_strength"`
	EssenceTrajectory float64 `csv:"essence_trajectory"`
	AverageEssence    float64 `csv:"average_essence"`
}

// Compute derives all eight statistics from the population views. It is a
// pure function: recomputing on an unchanged population yields identical
// results.
func Compute(views []EntityView, timestamp uint64) Snapshot {
	avgEssence := averageEssence(views)
	return Snapshot{
		Timestamp:         timestamp,
		AttentionEntropy:  attentionEntropy(views),
		MemoryDiversity:   memoryDiversity(views),
		VelocityStability: velocityStability(views),
		IdentityCoherence: identityCoherence(views),
		ClusterStability:  clusterStability(views),
		AffectiveStrength: affectiveStrength(views),
		// Trajectory and average are the same aggregate today; both fields
		// are kept for interface compatibility.
		EssenceTrajectory: avgEssence,
		AverageEssence:    avgEssence,
	}
}

// attentionEntropy averages the Shannon entropy of each entity's normalized
// memory-node activations. Entities without nodes are excluded from the mean,
// as are entities whose activations have all decayed below nearZero: their
// distribution cannot be normalized, so they are treated like empty ones.
func attentionEntropy(views []EntityView) float64 {
	total := 0.0
	counted := 0

	for _, v := range views {
		if len(v.Activations) == 0 {
			continue
		}
		sum := 0.0
		for _, a := range v.Activations {
			sum += a
		}
		if sum <= nearZero {
			continue
		}
		p := make([]float64, len(v.Activations))
		for i, a := range v.Activations {
			p[i] = a / sum
		}
		total += stat.Entropy(p)
		counted++
	}

	if counted == 0 {
		return 0
	}
	return total / float64(counted)
}

// memoryDiversity averages the standard deviation of cluster affective
// signals per entity. Entities with fewer than two clusters are excluded.
func memoryDiversity(views []EntityView) float64 {
	total := 0.0
	counted := 0

	for _, v := range views {
		if len(v.ClusterSignals) < 2 {
			continue
		}
		total += stat.PopStdDev(v.ClusterSignals, nil)
		counted++
	}

	if counted == 0 {
		return 0
	}
	return total / float64(counted)
}

func velocityStability(views []EntityView) float64 {
	if len(views) == 0 {
		return 1.0
	}
	speeds := make([]float64, len(views))
	for i, v := range views {
		speeds[i] = v.Speed
	}
	mean := stat.Mean(speeds, nil)
	if mean <= nearZero {
		return 1.0
	}
	return 1.0 / (1.0 + stat.PopStdDev(speeds, nil)/mean)
}

func identityCoherence(views []EntityView) float64 {
	if len(views) == 0 {
		return 0
	}
	norms := make([]float64, len(views))
	for i, v := range views {
		norms[i] = v.StateNorm
	}
	mean := stat.Mean(norms, nil)
	if mean <= nearZero {
		return 0
	}
	return 1.0 / (1.0 + stat.PopStdDev(norms, nil)/mean)
}

// clusterStability is the mean cluster count per entity over a fixed
// normalization constant of 10.
func clusterStability(views []EntityView) float64 {
	if len(views) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range views {
		sum += float64(v.ClusterCount)
	}
	return sum / float64(len(views)) / 10.0
}

func affectiveStrength(views []EntityView) float64 {
	total := 0.0
	count := 0
	for _, v := range views {
		for _, s := range v.ClusterSignals {
			total += math.Abs(s)
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

func averageEssence(views []EntityView) float64 {
	if len(views) == 0 {
		return 5.0
	}
	sum := 0.0
	for _, v := range views {
		sum += v.Essence
	}
	return sum / float64(len(views))
}

// LogValue implements slog.LogValuer for structured logging.
func (s Snapshot) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("timestamp", s.Timestamp),
		slog.Float64("attention_entropy", s.AttentionEntropy),
		slog.Float64("memory_diversity", s.MemoryDiversity),
		slog.Float64("velocity_stability", s.VelocityStability),
		slog.Float64("identity_coherence", s.IdentityCoherence),
		slog.Float64("cluster_stability", s.ClusterStability),
		slog.Float64("affective_strength", s.AffectiveStrength),
		slog.Float64("essence_trajectory", s.EssenceTrajectory),
		slog.Float64("average_essence", s.AverageEssence),
	)
}
