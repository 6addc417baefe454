// Package dynamics integrates entity motion under damping and the
// perpetual-velocity constraint.
package dynamics

import (
	"math"

	"github.com/Alchymia-AI/synthetic-consciousness/config"
)

// zeroSpeed is the threshold below which velocity counts as fully collapsed.
const zeroSpeed = 1e-6

// gradientGain converts attraction gradients into acceleration.
const gradientGain = 0.1

// Integrate advances velocity and position in place:
// semi-implicit velocity update with damping, minimum-speed enforcement, then
// a position step. A collapsed velocity receives a deterministic kick of
// min_speed into the first component.
func Integrate(position, velocity, acceleration []float64, cfg config.DynamicsConfig) {
	for i := range velocity {
		var acc float64
		if i < len(acceleration) {
			acc = acceleration[i]
		}
		velocity[i] = (velocity[i] + cfg.DT*acc) * cfg.Damping
	}

	speed := norm(velocity)
	if speed < cfg.MinSpeed && speed > zeroSpeed {
		scale := cfg.MinSpeed / speed
		for i := range velocity {
			velocity[i] *= scale
		}
	} else if speed <= zeroSpeed && len(velocity) > 0 {
		velocity[0] = cfg.MinSpeed
	}

	n := min(len(position), len(velocity))
	for i := 0; i < n; i++ {
		position[i] += cfg.DT * velocity[i]
	}
}

// AccelerationFromGradient maps an attention gradient to acceleration.
func AccelerationFromGradient(gradient []float64) []float64 {
	acceleration := make([]float64, len(gradient))
	for i, g := range gradient {
		acceleration[i] = g * gradientGain
	}
	return acceleration
}

// BaselineDrives derives the two drive scalars: self-preservation grows as
// the nearest neighbor closes in, curiosity follows attention magnitude.
func BaselineDrives(minDistanceToOthers, attentionMagnitude float64) (preservation, curiosity float64) {
	preservation = 1.0
	if minDistanceToOthers > zeroSpeed {
		preservation = 1.0 / minDistanceToOthers
	}
	curiosity = attentionMagnitude
	return preservation, curiosity
}

func norm(v []float64) float64 {
	sum := 0.0
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}
