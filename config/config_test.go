package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}

	if cfg.Geometry.Dimension != 2 {
		t.Errorf("default dimension = %d, want 2", cfg.Geometry.Dimension)
	}
	if cfg.Attraction.Kernel != KernelGaussian {
		t.Errorf("default kernel = %q, want gaussian", cfg.Attraction.Kernel)
	}
	if cfg.Essence.Baseline != 5.0 {
		t.Errorf("default essence baseline = %v, want 5.0", cfg.Essence.Baseline)
	}
	if cfg.Derived.StimulusDim != cfg.Geometry.Dimension {
		t.Errorf("derived stimulus dim = %d, want %d", cfg.Derived.StimulusDim, cfg.Geometry.Dimension)
	}
	if cfg.Derived.TraitsDim != 10 {
		t.Errorf("derived traits dim = %d, want 10", cfg.Derived.TraitsDim)
	}
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	// Only override the kernel, everything else must keep defaults.
	overlay := "attraction:\n  kernel: inverse_distance\n"
	if err := os.WriteFile(path, []byte(overlay), 0644); err != nil {
		t.Fatalf("writing overlay: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Attraction.Kernel != KernelInverseDistance {
		t.Errorf("kernel = %q, want inverse_distance", cfg.Attraction.Kernel)
	}
	if cfg.Geometry.Dimension != 2 {
		t.Errorf("dimension lost defaults: %d", cfg.Geometry.Dimension)
	}
	if cfg.Dynamics.DT != 0.01 {
		t.Errorf("dt lost defaults: %v", cfg.Dynamics.DT)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := Load("")
		if err != nil {
			t.Fatalf("loading defaults: %v", err)
		}
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "bad dimension",
			mutate:  func(c *Config) { c.Geometry.Dimension = 4 },
			wantErr: "dimension",
		},
		{
			name:    "bounds mismatch",
			mutate:  func(c *Config) { c.Geometry.Bounds = []float64{10} },
			wantErr: "bounds",
		},
		{
			name:    "negative bound",
			mutate:  func(c *Config) { c.Geometry.Bounds = []float64{10, -1} },
			wantErr: "positive",
		},
		{
			name:    "unknown kernel",
			mutate:  func(c *Config) { c.Attraction.Kernel = "exponential" },
			wantErr: "kernel",
		},
		{
			name:    "zero memory dim",
			mutate:  func(c *Config) { c.State.MemoryDim = 0 },
			wantErr: "memory_dim",
		},
		{
			name:    "zero dt",
			mutate:  func(c *Config) { c.Dynamics.DT = 0 },
			wantErr: "dt",
		},
		{
			name:    "negative min speed",
			mutate:  func(c *Config) { c.Dynamics.MinSpeed = -0.1 },
			wantErr: "min_speed",
		},
		{
			name:    "negative entities",
			mutate:  func(c *Config) { c.Simulation.NumEntities = -1 },
			wantErr: "num_entities",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.yaml")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	cfg.Attraction.Sigma = 2.5

	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("reloading: %v", err)
	}
	if loaded.Attraction.Sigma != 2.5 {
		t.Errorf("sigma = %v after round trip, want 2.5", loaded.Attraction.Sigma)
	}
}
