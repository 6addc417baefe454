package metrics

import (
	"math"
	"testing"
)

func TestComputeEmptyPopulation(t *testing.T) {
	s := Compute(nil, 0)

	if s.AttentionEntropy != 0 {
		t.Errorf("attention entropy = %v, want 0", s.AttentionEntropy)
	}
	if s.VelocityStability != 1.0 {
		t.Errorf("velocity stability = %v, want 1.0", s.VelocityStability)
	}
	if s.IdentityCoherence != 0 {
		t.Errorf("identity coherence = %v, want 0", s.IdentityCoherence)
	}
	if s.AverageEssence != 5.0 {
		t.Errorf("average essence = %v, want 5.0", s.AverageEssence)
	}
}

func TestComputeInitialPopulation(t *testing.T) {
	// 10 freshly spawned entities: no memory, uniform essence at baseline.
	views := make([]EntityView, 10)
	for i := range views {
		views[i] = EntityView{Speed: 0, StateNorm: 0, Essence: 5.0}
	}

	s := Compute(views, 0)

	if s.AttentionEntropy != 0 {
		t.Errorf("attention entropy with no nodes = %v, want 0", s.AttentionEntropy)
	}
	if s.MemoryDiversity != 0 {
		t.Errorf("memory diversity = %v, want 0", s.MemoryDiversity)
	}
	if s.AverageEssence != 5.0 {
		t.Errorf("average essence = %v, want baseline 5.0", s.AverageEssence)
	}
	if s.EssenceTrajectory != s.AverageEssence {
		t.Errorf("trajectory %v != average %v", s.EssenceTrajectory, s.AverageEssence)
	}
	// Zero mean speed is degenerate, defaults to full stability
	if s.VelocityStability != 1.0 {
		t.Errorf("velocity stability = %v, want 1.0", s.VelocityStability)
	}
}

func TestAttentionEntropyUniformActivations(t *testing.T) {
	// Four equal activations: entropy = ln(4)
	views := []EntityView{
		{Activations: []float64{0.5, 0.5, 0.5, 0.5}},
		{}, // no nodes, excluded from the mean
	}

	s := Compute(views, 1)
	want := math.Log(4)
	if math.Abs(s.AttentionEntropy-want) > 1e-9 {
		t.Errorf("attention entropy = %v, want %v", s.AttentionEntropy, want)
	}
}

func TestAttentionEntropyExcludesFullyDecayed(t *testing.T) {
	// An entity whose activations have all decayed to effectively zero cannot
	// be normalized; it must be excluded like an entity with no nodes, not
	// dilute the mean.
	views := []EntityView{
		{Activations: []float64{0.5, 0.5, 0.5, 0.5}},
		{Activations: []float64{1e-9, 1e-9}},
	}

	s := Compute(views, 1)
	want := math.Log(4)
	if math.Abs(s.AttentionEntropy-want) > 1e-9 {
		t.Errorf("attention entropy = %v, want %v (decayed entity excluded)", s.AttentionEntropy, want)
	}

	// A population of only fully decayed entities degrades to zero.
	s = Compute([]EntityView{{Activations: []float64{1e-9}}}, 1)
	if s.AttentionEntropy != 0 {
		t.Errorf("attention entropy = %v for all-decayed population, want 0", s.AttentionEntropy)
	}
}

func TestMemoryDiversity(t *testing.T) {
	views := []EntityView{
		{ClusterSignals: []float64{1, -1}, ClusterCount: 2}, // pop stddev 1.0
		{ClusterSignals: []float64{0.5}, ClusterCount: 1},   // <2 clusters, excluded
	}

	s := Compute(views, 1)
	if math.Abs(s.MemoryDiversity-1.0) > 1e-9 {
		t.Errorf("memory diversity = %v, want 1.0", s.MemoryDiversity)
	}
}

func TestVelocityStability(t *testing.T) {
	// Identical speeds: stddev 0, stability 1.0
	views := []EntityView{{Speed: 2}, {Speed: 2}, {Speed: 2}}
	s := Compute(views, 1)
	if math.Abs(s.VelocityStability-1.0) > 1e-9 {
		t.Errorf("uniform speeds stability = %v, want 1.0", s.VelocityStability)
	}

	// Dispersed speeds: stability strictly below 1
	views = []EntityView{{Speed: 1}, {Speed: 3}}
	s = Compute(views, 1)
	if s.VelocityStability >= 1.0 {
		t.Errorf("dispersed speeds stability = %v, want < 1.0", s.VelocityStability)
	}
}

func TestClusterStability(t *testing.T) {
	views := []EntityView{{ClusterCount: 5}, {ClusterCount: 15}}
	s := Compute(views, 1)
	// mean 10 clusters / fixed constant 10 = 1.0
	if math.Abs(s.ClusterStability-1.0) > 1e-9 {
		t.Errorf("cluster stability = %v, want 1.0", s.ClusterStability)
	}
}

func TestAffectiveStrength(t *testing.T) {
	views := []EntityView{
		{ClusterSignals: []float64{0.5, -0.5}},
		{ClusterSignals: []float64{1.0}},
	}
	s := Compute(views, 1)
	want := (0.5 + 0.5 + 1.0) / 3
	if math.Abs(s.AffectiveStrength-want) > 1e-9 {
		t.Errorf("affective strength = %v, want %v", s.AffectiveStrength, want)
	}
}

func TestComputeIsPure(t *testing.T) {
	views := []EntityView{
		{Speed: 1.2, StateNorm: 3.4, Activations: []float64{0.9, 0.1}, ClusterSignals: []float64{0.3, -0.7}, ClusterCount: 2, Essence: 6.1},
		{Speed: 0.8, StateNorm: 2.9, Activations: []float64{0.4}, ClusterSignals: []float64{0.1}, ClusterCount: 1, Essence: 4.2},
	}

	a := Compute(views, 9)
	b := Compute(views, 9)
	if a != b {
		t.Errorf("Compute not deterministic: %+v vs %+v", a, b)
	}
}
