// Package geometry provides spatial primitives for the bounded 2D/3D world.
package geometry

import "math"

// Distance returns the Euclidean distance between two positions. Mismatched
// lengths are compared over the shared dimensions.
func Distance(a, b []float64) float64 {
	var sum float64
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// Wrap applies periodic boundary conditions in place. Each coordinate is
// folded into [0, bound) by positive modulo, which also handles overshoots
// beyond one full extent. No-op when periodic is false.
func Wrap(position, bounds []float64, periodic bool) {
	if !periodic {
		return
	}
	n := min(len(position), len(bounds))
	for i := 0; i < n; i++ {
		position[i] = mod(position[i], bounds[i])
	}
}

// mod returns positive modulo (Go's math.Mod can return negative).
func mod(a, b float64) float64 {
	m := math.Mod(a, b)
	if m < 0 {
		m += b
	}
	return m
}
