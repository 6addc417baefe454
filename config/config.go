// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// KernelKind selects the attraction kernel.
type KernelKind string

const (
	KernelGaussian        KernelKind = "gaussian"
	KernelInverseDistance KernelKind = "inverse_distance"
)

// Config holds all simulation configuration parameters.
type Config struct {
	Metadata   MetadataConfig   `yaml:"metadata"`
	Geometry   GeometryConfig   `yaml:"geometry"`
	Attraction AttractionConfig `yaml:"attraction"`
	State      StateConfig      `yaml:"state"`
	Memory     MemoryConfig     `yaml:"memory"`
	Dynamics   DynamicsConfig   `yaml:"dynamics"`
	Essence    EssenceConfig    `yaml:"essence"`
	Simulation SimulationConfig `yaml:"simulation"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// MetadataConfig describes the run for reports and logs.
type MetadataConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Version     string `yaml:"version"`
}

// GeometryConfig holds world dimensionality and bounds.
type GeometryConfig struct {
	Dimension int       `yaml:"dimension"` // 2 or 3
	Bounds    []float64 `yaml:"bounds"`    // one extent per dimension
	Periodic  bool      `yaml:"periodic"`  // toroidal wrapping
}

// AttractionConfig holds kernel parameters for the attraction field.
type AttractionConfig struct {
	Kernel KernelKind `yaml:"kernel"` // gaussian or inverse_distance
	Sigma  float64    `yaml:"sigma"`  // kernel bandwidth
	Lambda float64    `yaml:"lambda"` // softmax temperature
}

// StateConfig holds state vector dimensions and blend weights.
type StateConfig struct {
	MemoryDim     int     `yaml:"memory_dim"`
	ContextDim    int     `yaml:"context_dim"`
	DecayAlpha    float64 `yaml:"decay_alpha"`    // memory retention per step
	BetaAttention float64 `yaml:"beta_attention"` // attention force weight
	GammaMemory   float64 `yaml:"gamma_memory"`   // memory input weight
}

// MemoryConfig holds memory graph parameters.
type MemoryConfig struct {
	Tau         float64 `yaml:"tau"`          // cluster similarity threshold
	DecayFactor float64 `yaml:"decay_factor"` // per-step activation decay
}

// DynamicsConfig holds motion integration parameters.
type DynamicsConfig struct {
	DT       float64 `yaml:"dt"`
	MinSpeed float64 `yaml:"min_speed"` // perpetual velocity floor
	Damping  float64 `yaml:"damping"`
}

// EssenceConfig holds well-being index parameters.
type EssenceConfig struct {
	Baseline        float64 `yaml:"baseline"`
	Decay           float64 `yaml:"decay"`
	ExperienceScale float64 `yaml:"experience_scale"`
}

// SimulationConfig holds run-level parameters.
type SimulationConfig struct {
	NumEntities int   `yaml:"num_entities"`
	NumSteps    int   `yaml:"num_steps"`
	Seed        int64 `yaml:"seed"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	StimulusDim int // stimulus vector length (== world dimension)
	TraitsDim   int // fixed traits vector length
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate checks structural invariants. These are the only hard failures in
// the system; per-step numerical edge cases degrade to neutral defaults instead.
func (c *Config) Validate() error {
	if c.Geometry.Dimension != 2 && c.Geometry.Dimension != 3 {
		return fmt.Errorf("geometry: dimension must be 2 or 3, got %d", c.Geometry.Dimension)
	}
	if len(c.Geometry.Bounds) != c.Geometry.Dimension {
		return fmt.Errorf("geometry: bounds length %d does not match dimension %d",
			len(c.Geometry.Bounds), c.Geometry.Dimension)
	}
	for i, b := range c.Geometry.Bounds {
		if b <= 0 {
			return fmt.Errorf("geometry: bounds[%d] must be positive, got %v", i, b)
		}
	}
	switch c.Attraction.Kernel {
	case KernelGaussian, KernelInverseDistance:
	default:
		return fmt.Errorf("attraction: unknown kernel %q", c.Attraction.Kernel)
	}
	if c.State.MemoryDim <= 0 || c.State.ContextDim <= 0 {
		return fmt.Errorf("state: memory_dim and context_dim must be positive")
	}
	if c.Dynamics.DT <= 0 {
		return fmt.Errorf("dynamics: dt must be positive, got %v", c.Dynamics.DT)
	}
	if c.Dynamics.MinSpeed < 0 {
		return fmt.Errorf("dynamics: min_speed must be non-negative, got %v", c.Dynamics.MinSpeed)
	}
	if c.Simulation.NumEntities < 0 || c.Simulation.NumSteps < 0 {
		return fmt.Errorf("simulation: num_entities and num_steps must be non-negative")
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.StimulusDim = c.Geometry.Dimension
	c.Derived.TraitsDim = 10
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
