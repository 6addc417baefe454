package state

import (
	"math"
	"testing"

	"github.com/Alchymia-AI/synthetic-consciousness/config"
)

func testConfig() config.StateConfig {
	return config.StateConfig{
		MemoryDim:     4,
		ContextDim:    2,
		DecayAlpha:    0.9,
		BetaAttention: 0.5,
		GammaMemory:   0.3,
	}
}

func TestNewVectorDimensions(t *testing.T) {
	v := NewVector(testConfig(), 10)

	if len(v.Memory) != 4 {
		t.Errorf("memory length = %d, want 4", len(v.Memory))
	}
	if len(v.Context) != 2 {
		t.Errorf("context length = %d, want 2", len(v.Context))
	}
	if len(v.Traits) != 10 {
		t.Errorf("traits length = %d, want 10", len(v.Traits))
	}
}

func TestUpdateRecurrence(t *testing.T) {
	v := NewVector(testConfig(), 10)
	v.Memory = []float64{1, 1, 1, 1}

	v.Update([]float64{2, 0}, []float64{0, 0, 10})

	want := []float64{
		0.9*1 + 0.5*2, // attention only
		0.9 * 1,       // neither
		0.9*1 + 0.3*10, // memory input only
		0.9 * 1,       // inputs shorter than memory contribute 0
	}
	for i, w := range want {
		if math.Abs(v.Memory[i]-w) > 1e-9 {
			t.Errorf("memory[%d] = %v, want %v", i, v.Memory[i], w)
		}
	}
}

func TestUpdateContextBlend(t *testing.T) {
	v := NewVector(testConfig(), 10)
	v.Memory = []float64{0, 0, 0, 0}
	v.Context = []float64{1, 1}

	v.Update([]float64{2, 2}, nil)

	// memory[0..1] become 1.0, context blends 0.5*1 + 0.5*1 = 1.0
	for i := range v.Context {
		if math.Abs(v.Context[i]-1.0) > 1e-9 {
			t.Errorf("context[%d] = %v, want 1.0", i, v.Context[i])
		}
	}
}

func TestUpdateDimensionsStable(t *testing.T) {
	v := NewVector(testConfig(), 10)
	for i := 0; i < 50; i++ {
		v.Update([]float64{1, 2, 3, 4, 5, 6}, []float64{9})
	}
	if len(v.Memory) != 4 || len(v.Context) != 2 {
		t.Errorf("dimensions changed after updates: memory %d, context %d",
			len(v.Memory), len(v.Context))
	}
}

func TestNorm(t *testing.T) {
	v := NewVector(testConfig(), 10)
	v.Memory = []float64{3, 4, 0, 0}

	if got := v.Norm(); math.Abs(got-5.0) > 1e-9 {
		t.Errorf("norm = %v, want 5.0", got)
	}
}

func TestDot(t *testing.T) {
	a := NewVector(testConfig(), 10)
	b := NewVector(testConfig(), 10)
	a.Memory = []float64{1, 2, 3, 4}
	b.Memory = []float64{4, 3, 2, 1}

	if got := a.Dot(b); math.Abs(got-20.0) > 1e-9 {
		t.Errorf("dot = %v, want 20.0", got)
	}
}
