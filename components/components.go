// Package components defines ECS components for the simulation.
package components

// Agent identifies an entity. IDs are assigned once at spawn and never reused
// within a run.
type Agent struct {
	ID uint32
}

// Position is an entity's world position; Coords length equals the configured
// world dimension (2 or 3).
type Position struct {
	Coords []float64
}

// Velocity has the same length as the position.
type Velocity struct {
	Coords []float64
}

// Orientation is a quaternion-like tuple [w, x, y, z]. Carried with the pose
// but not used by the physics yet.
type Orientation struct {
	Quat [4]float64
}

// Attention holds the attraction field outputs for one entity: the force
// gradient plus the nearest-neighbor distance and gradient magnitude that
// feed the baseline drives.
type Attention struct {
	Gradient    []float64
	MinDistance float64
	Magnitude   float64
}

// Drives holds the baseline drive scalars refreshed each step from the
// attention field.
type Drives struct {
	Preservation float64
	Curiosity    float64
}

// ClusterSummary is the per-cluster view exposed to reporting collaborators.
type ClusterSummary struct {
	ClusterID       int
	AffectiveSignal float64
	Size            int
}
