// Package state implements the entity state vector: an exponentially-decayed
// long-term memory representation with a short-term context blend.
package state

import (
	"math"

	"github.com/Alchymia-AI/synthetic-consciousness/config"
)

// Vector is the internal state of an entity. Memory and context lengths are
// fixed at construction and never change.
type Vector struct {
	Memory  []float64
	Context []float64
	Traits  []float64

	cfg config.StateConfig
}

// NewVector creates a zeroed state vector with the configured dimensions.
func NewVector(cfg config.StateConfig, traitsDim int) *Vector {
	return &Vector{
		Memory:  make([]float64, cfg.MemoryDim),
		Context: make([]float64, cfg.ContextDim),
		Traits:  make([]float64, traitsDim),
		cfg:     cfg,
	}
}

// Update applies one step of the state recurrence per memory dimension:
//
//	memory[i] = alpha*memory[i] + beta*attention[i] + gamma*memoryInput[i]
//
// Missing indices in either input contribute 0. Context is then blended 50/50
// with the updated memory, truncated to the context length.
func (v *Vector) Update(attentionForce, memoryInput []float64) {
	alpha := v.cfg.DecayAlpha
	beta := v.cfg.BetaAttention
	gamma := v.cfg.GammaMemory

	for i := range v.Memory {
		var att, mem float64
		if i < len(attentionForce) {
			att = beta * attentionForce[i]
		}
		if i < len(memoryInput) {
			mem = gamma * memoryInput[i]
		}
		v.Memory[i] = alpha*v.Memory[i] + att + mem
	}

	for i := range v.Context {
		if i < len(v.Memory) {
			v.Context[i] = 0.5*v.Context[i] + 0.5*v.Memory[i]
		}
	}
}

// Norm returns the L2 norm of the memory component.
func (v *Vector) Norm() float64 {
	sum := 0.0
	for _, x := range v.Memory {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Dot returns the memory dot product with another state vector.
func (v *Vector) Dot(other *Vector) float64 {
	sum := 0.0
	n := min(len(v.Memory), len(other.Memory))
	for i := 0; i < n; i++ {
		sum += v.Memory[i] * other.Memory[i]
	}
	return sum
}
