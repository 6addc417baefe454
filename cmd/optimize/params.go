// Package main provides CMA-ES optimization for simulation parameters.
package main

import (
	"github.com/Alchymia-AI/synthetic-consciousness/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters. Bounds
// keep every candidate inside the configuration's valid ranges so a clamped
// vector always survives Validate.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Attraction field
			{Name: "sigma", Path: "attraction.sigma", Min: 0.1, Max: 5.0, Default: 1.0},
			{Name: "lambda", Path: "attraction.lambda", Min: 0.1, Max: 5.0, Default: 0.5},
			// Memory graph
			{Name: "tau", Path: "memory.tau", Min: 0.3, Max: 0.95, Default: 0.7},
			{Name: "decay_factor", Path: "memory.decay_factor", Min: 0.8, Max: 0.999, Default: 0.95},
			// State recurrence (decay_alpha locked at 0.95)
			{Name: "beta_attention", Path: "state.beta_attention", Min: 0.1, Max: 1.0, Default: 0.5},
			{Name: "gamma_memory", Path: "state.gamma_memory", Min: 0.05, Max: 0.8, Default: 0.3},
			// Dynamics
			{Name: "damping", Path: "dynamics.damping", Min: 0.9, Max: 0.999, Default: 0.99},
			{Name: "min_speed", Path: "dynamics.min_speed", Min: 0.01, Max: 0.5, Default: 0.05},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := v[i]
		if val < spec.Min {
			val = spec.Min
		}
		if val > spec.Max {
			val = spec.Max
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)

	// Order must match Specs order
	i := 0

	cfg.Attraction.Sigma = clamped[i]
	i++
	cfg.Attraction.Lambda = clamped[i]
	i++

	cfg.Memory.Tau = clamped[i]
	i++
	cfg.Memory.DecayFactor = clamped[i]
	i++

	// decay_alpha locked
	cfg.State.DecayAlpha = 0.95
	cfg.State.BetaAttention = clamped[i]
	i++
	cfg.State.GammaMemory = clamped[i]
	i++

	cfg.Dynamics.Damping = clamped[i]
	i++
	cfg.Dynamics.MinSpeed = clamped[i]
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Attraction.Sigma,
		cfg.Attraction.Lambda,
		cfg.Memory.Tau,
		cfg.Memory.DecayFactor,
		cfg.State.BetaAttention,
		cfg.State.GammaMemory,
		cfg.Dynamics.Damping,
		cfg.Dynamics.MinSpeed,
	}
}
