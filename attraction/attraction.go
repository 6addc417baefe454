// Package attraction computes distance-based influence fields and attention
// distributions between entities.
package attraction

import (
	"math"

	"github.com/Alchymia-AI/synthetic-consciousness/config"
)

// gradientStep is the central finite difference step.
const gradientStep = 1e-5

// GaussianKernel returns exp(-d^2 / (2*sigma^2)), in (0, 1].
func GaussianKernel(distance, sigma float64) float64 {
	sigma2 := sigma * sigma
	return math.Exp(-distance * distance / (2 * sigma2))
}

// InverseDistanceKernel returns 1/(d+eps). Sigma is ignored.
func InverseDistanceKernel(distance, _ float64) float64 {
	return 1.0 / (distance + 1e-6)
}

// Kernel evaluates the configured kernel at the given distance.
func Kernel(kind config.KernelKind, distance, sigma float64) float64 {
	if kind == config.KernelInverseDistance {
		return InverseDistanceKernel(distance, sigma)
	}
	return GaussianKernel(distance, sigma)
}

// Potential sums weighted kernel contributions from all neighbor positions.
// A missing weight defaults to 1.0; mismatched position lengths contribute
// only over the shared dimensions.
func Potential(position []float64, others [][]float64, weights []float64, cfg config.AttractionConfig) float64 {
	potential := 0.0
	for idx, other := range others {
		var distSq float64
		n := min(len(position), len(other))
		for d := 0; d < n; d++ {
			delta := position[d] - other[d]
			distSq += delta * delta
		}
		weight := 1.0
		if idx < len(weights) {
			weight = weights[idx]
		}
		potential += weight * Kernel(cfg.Kernel, math.Sqrt(distSq), cfg.Sigma)
	}
	return potential
}

// Gradient computes the negated central finite difference of Potential along
// each axis. The negation points the vector down-potential, away from
// attraction sources.
func Gradient(position []float64, others [][]float64, weights []float64, cfg config.AttractionConfig) []float64 {
	gradient := make([]float64, len(position))
	probe := make([]float64, len(position))

	for dim := range position {
		copy(probe, position)

		probe[dim] = position[dim] + gradientStep
		phiPlus := Potential(probe, others, weights, cfg)

		probe[dim] = position[dim] - gradientStep
		phiMinus := Potential(probe, others, weights, cfg)

		gradient[dim] = -(phiPlus - phiMinus) / (2 * gradientStep)
	}
	return gradient
}

// SoftmaxAttention converts scores into a temperature-scaled attention
// distribution. The result is non-negative and sums to 1, or is all zeros if
// the exponentiated sum underflows. Empty input yields an empty output.
func SoftmaxAttention(scores []float64, lambda float64) []float64 {
	if len(scores) == 0 {
		return nil
	}

	maxScore := math.Inf(-1)
	for _, s := range scores {
		if s > maxScore {
			maxScore = s
		}
	}

	expScores := make([]float64, len(scores))
	sumExp := 0.0
	for i, s := range scores {
		expScores[i] = math.Exp((s - maxScore) * lambda)
		sumExp += expScores[i]
	}

	if sumExp <= 0 {
		return make([]float64, len(scores))
	}
	for i := range expScores {
		expScores[i] /= sumExp
	}
	return expScores
}
