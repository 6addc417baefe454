// Package essence tracks the bounded well-being index of an entity,
// homeostatically regulated toward a configured baseline.
package essence

import "github.com/Alchymia-AI/synthetic-consciousness/config"

// Index is a scalar well-being value clamped to [0, 10], where 0 is dread and
// 10 is joyous.
type Index struct {
	Value float64
	cfg   config.EssenceConfig
}

// NewIndex creates an index at the configured baseline.
func NewIndex(cfg config.EssenceConfig) Index {
	return Index{Value: cfg.Baseline, cfg: cfg}
}

// Update advances the index from aggregated affective signals: the mean signal
// (0 for an empty input) is clamped to [-5, 5], scaled by experience_scale,
// and added after the decay toward baseline; the sum is clamped once to
// [0, 10].
func (e *Index) Update(signals []float64) {
	avg := 0.0
	if len(signals) > 0 {
		sum := 0.0
		for _, s := range signals {
			sum += s
		}
		avg = sum / float64(len(signals))
	}

	bounded := clamp(avg, -5, 5)
	delta := bounded * e.cfg.ExperienceScale

	e.Value = e.Value + (e.cfg.Baseline-e.Value)*e.cfg.Decay + delta
	e.Value = clamp(e.Value, 0, 10)
}

// InfluenceFactor scales decision magnitude: entities at either well-being
// extreme act more decisively than neutral ones.
func (e *Index) InfluenceFactor() float64 {
	return 2 * e.Extremity()
}

// Extremity returns the distance from baseline.
func (e *Index) Extremity() float64 {
	d := e.Value - e.cfg.Baseline
	if d < 0 {
		return -d
	}
	return d
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
