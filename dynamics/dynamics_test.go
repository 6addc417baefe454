package dynamics

import (
	"math"
	"testing"

	"github.com/Alchymia-AI/synthetic-consciousness/config"
)

func testConfig() config.DynamicsConfig {
	return config.DynamicsConfig{DT: 0.01, MinSpeed: 0.05, Damping: 0.99}
}

func speed(v []float64) float64 {
	sum := 0.0
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

func TestIntegrateBasicStep(t *testing.T) {
	cfg := testConfig()
	pos := []float64{0, 0}
	vel := []float64{1, 0}

	Integrate(pos, vel, []float64{0, 0}, cfg)

	// velocity = 1 * 0.99, position += dt * velocity
	if math.Abs(vel[0]-0.99) > 1e-9 {
		t.Errorf("vel[0] = %v, want 0.99", vel[0])
	}
	if math.Abs(pos[0]-0.0099) > 1e-9 {
		t.Errorf("pos[0] = %v, want 0.0099", pos[0])
	}
}

func TestIntegrateMinSpeedRescale(t *testing.T) {
	cfg := testConfig()
	pos := []float64{0, 0}
	vel := []float64{0.001, 0.001} // slow but nonzero

	Integrate(pos, vel, nil, cfg)

	if got := speed(vel); math.Abs(got-cfg.MinSpeed) > 1e-9 {
		t.Errorf("speed after rescale = %v, want %v", got, cfg.MinSpeed)
	}
	// Direction preserved: components stay equal
	if math.Abs(vel[0]-vel[1]) > 1e-12 {
		t.Errorf("rescale changed direction: %v", vel)
	}
}

func TestIntegrateZeroVelocityKick(t *testing.T) {
	cfg := testConfig()
	pos := []float64{0, 0}
	vel := []float64{0, 0}

	Integrate(pos, vel, nil, cfg)

	// Deterministic kick into the first component only
	if vel[0] != cfg.MinSpeed {
		t.Errorf("vel[0] = %v, want %v", vel[0], cfg.MinSpeed)
	}
	if vel[1] != 0 {
		t.Errorf("vel[1] = %v, want 0", vel[1])
	}
}

func TestIntegratePerpetualMotionInvariant(t *testing.T) {
	cfg := testConfig()

	starts := [][]float64{
		{0, 0},
		{1e-7, 0},
		{0.0001, -0.0001},
		{0.03, 0.02},
		{5, -3},
	}
	for _, start := range starts {
		pos := []float64{0, 0}
		vel := append([]float64(nil), start...)
		for step := 0; step < 100; step++ {
			Integrate(pos, vel, nil, cfg)
			if got := speed(vel); got < cfg.MinSpeed-1e-12 {
				t.Fatalf("start %v step %d: speed %v below floor %v", start, step, got, cfg.MinSpeed)
			}
		}
	}
}

func TestIntegrateShortAcceleration(t *testing.T) {
	cfg := testConfig()
	pos := []float64{0, 0, 0}
	vel := []float64{1, 1, 1}

	// Missing acceleration components are treated as 0
	Integrate(pos, vel, []float64{1}, cfg)

	if math.Abs(vel[0]-(1+0.01)*0.99) > 1e-9 {
		t.Errorf("vel[0] = %v", vel[0])
	}
	if math.Abs(vel[1]-0.99) > 1e-9 || math.Abs(vel[2]-0.99) > 1e-9 {
		t.Errorf("missing acceleration not treated as 0: %v", vel)
	}
}

func TestAccelerationFromGradient(t *testing.T) {
	acc := AccelerationFromGradient([]float64{1, -2})
	if math.Abs(acc[0]-0.1) > 1e-12 || math.Abs(acc[1]+0.2) > 1e-12 {
		t.Errorf("acceleration = %v, want [0.1 -0.2]", acc)
	}
}

func TestBaselineDrives(t *testing.T) {
	preservation, curiosity := BaselineDrives(2.0, 0.7)
	if math.Abs(preservation-0.5) > 1e-12 {
		t.Errorf("preservation = %v, want 0.5", preservation)
	}
	if curiosity != 0.7 {
		t.Errorf("curiosity = %v, want 0.7", curiosity)
	}

	// Degenerate distance falls back to 1.0
	preservation, _ = BaselineDrives(0, 0)
	if preservation != 1.0 {
		t.Errorf("preservation at zero distance = %v, want 1.0", preservation)
	}
}
