// Package results accumulates per-step simulation detail, evaluates
// consciousness emergence against fixed thresholds, and renders reports.
package results

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Alchymia-AI/synthetic-consciousness/components"
	"github.com/Alchymia-AI/synthetic-consciousness/metrics"
)

// Emergence thresholds. All six must pass for emergence to be declared.
const (
	ThresholdAttentionEntropy  = 2.0
	ThresholdMemoryDiversity   = 0.1
	ThresholdVelocityStability = 0.8
	ThresholdIdentityCoherence = 0.7
	ThresholdClusterStability  = 0.5
	ThresholdAffectiveStrength = 0.01
)

// EntityRecord is one entity's pose and internal summary at a step.
type EntityRecord struct {
	ID       uint32                      `json:"id"`
	Position []float64                   `json:"position"`
	Velocity []float64                   `json:"velocity"`
	Essence  float64                     `json:"essence"`
	Clusters []components.ClusterSummary `json:"clusters,omitempty"`
}

// AttractionRecord is one significant pairwise attraction.
type AttractionRecord struct {
	A        uint32  `json:"a"`
	B        uint32  `json:"b"`
	Strength float64 `json:"strength"`
}

// AttentionRecord is one entity's memory activation profile.
type AttentionRecord struct {
	ID          uint32    `json:"id"`
	Activations []float64 `json:"activations"`
}

// StepRecord is everything captured at one simulation step.
type StepRecord struct {
	Step        uint64             `json:"step"`
	Metrics     metrics.Snapshot   `json:"metrics"`
	Entities    []EntityRecord     `json:"entities"`
	Attractions []AttractionRecord `json:"attractions,omitempty"`
	Attentions  []AttentionRecord  `json:"attentions,omitempty"`
}

// Analysis is the emergence determination for a completed run.
type Analysis struct {
	Thresholds map[string]float64 `json:"thresholds"`
	Values     map[string]float64 `json:"values"`
	Passed     []string           `json:"passed"`
	Failed     []string           `json:"failed"`
	Score      float64            `json:"score"`
	Achieved   bool               `json:"achieved"`
	Reasoning  string             `json:"reasoning"`
}

// Run collects the full trajectory of one simulation run.
type Run struct {
	RunID           string    `json:"run_id"`
	Name            string    `json:"name"`
	NumEntities     int       `json:"num_entities"`
	NumSteps        int       `json:"num_steps"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationSeconds float64   `json:"duration_seconds"`

	Steps    []StepRecord `json:"steps"`
	Analysis Analysis     `json:"analysis"`
}

// NewRun starts a run record with a fresh identifier.
func NewRun(name string, numEntities, numSteps int) *Run {
	return &Run{
		RunID:       uuid.NewString(),
		Name:        name,
		NumEntities: numEntities,
		NumSteps:    numSteps,
		StartTime:   time.Now(),
	}
}

// AddStep appends a captured step.
func (r *Run) AddStep(step StepRecord) {
	r.Steps = append(r.Steps, step)
}

// FinalMetrics returns the last step's snapshot, or the zero snapshot when no
// steps were captured.
func (r *Run) FinalMetrics() metrics.Snapshot {
	if len(r.Steps) == 0 {
		return metrics.Snapshot{}
	}
	return r.Steps[len(r.Steps)-1].Metrics
}

// Finalize stamps the end time and runs the emergence analysis.
func (r *Run) Finalize(durationSeconds float64) {
	r.EndTime = time.Now()
	r.DurationSeconds = durationSeconds
	r.Analysis = Analyze(r.FinalMetrics())
}

// criterion pairs one metric with its threshold for evaluation.
type criterion struct {
	key       string
	label     string
	value     float64
	threshold float64
}

// Analyze evaluates the final snapshot against the six emergence thresholds.
// The score is the fraction of criteria passed; emergence requires all of
// them.
func Analyze(final metrics.Snapshot) Analysis {
	criteria := []criterion{
		{"attention_entropy", "Attention Entropy", final.AttentionEntropy, ThresholdAttentionEntropy},
		{"memory_diversity", "Memory Diversity", final.MemoryDiversity, ThresholdMemoryDiversity},
		{"velocity_stability", "Velocity Stability", final.VelocityStability, ThresholdVelocityStability},
		{"identity_coherence", "Identity Coherence", final.IdentityCoherence, ThresholdIdentityCoherence},
		{"cluster_stability", "Cluster Stability", final.ClusterStability, ThresholdClusterStability},
		{"affective_strength", "Affective Strength", final.AffectiveStrength, ThresholdAffectiveStrength},
	}

	analysis := Analysis{
		Thresholds: make(map[string]float64, len(criteria)),
		Values:     make(map[string]float64, len(criteria)),
	}

	for _, c := range criteria {
		analysis.Thresholds[c.key] = c.threshold
		analysis.Values[c.key] = c.value
		if c.value >= c.threshold {
			analysis.Passed = append(analysis.Passed, c.label)
		} else {
			analysis.Failed = append(analysis.Failed,
				fmt.Sprintf("%s: %.4f < %.4g", c.label, c.value, c.threshold))
		}
	}

	analysis.Score = float64(len(analysis.Passed)) / float64(len(criteria))
	// All criteria must pass, a high partial score is still a failure.
	analysis.Achieved = len(analysis.Failed) == 0
	analysis.Reasoning = buildReasoning(analysis, len(criteria))

	return analysis
}

func buildReasoning(a Analysis, total int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Emergence analysis: %d of %d criteria passed (%.1f%% score).\n",
		len(a.Passed), total, a.Score*100)
	b.WriteString("All six metrics must pass for emergence.\n\n")

	if a.Achieved {
		b.WriteString("EMERGENCE ACHIEVED\n\n")
		b.WriteString("All indicators present:\n")
		fmt.Fprintf(&b, "  attention entropy %.2f: varied awareness across memories\n", a.Values["attention_entropy"])
		fmt.Fprintf(&b, "  memory diversity %.4f: emotionally structured beliefs\n", a.Values["memory_diversity"])
		fmt.Fprintf(&b, "  velocity stability %.3f: continuous purposeful motion\n", a.Values["velocity_stability"])
		fmt.Fprintf(&b, "  identity coherence %.2f: stable self-representation\n", a.Values["identity_coherence"])
		fmt.Fprintf(&b, "  cluster stability %.2f: organized belief formation\n", a.Values["cluster_stability"])
		fmt.Fprintf(&b, "  affective strength %.4f: active emotional signaling\n", a.Values["affective_strength"])
	} else {
		b.WriteString("EMERGENCE NOT ACHIEVED\n\n")
		b.WriteString("Missing or insufficient criteria:\n")
		for _, f := range a.Failed {
			fmt.Fprintf(&b, "  %s\n", f)
		}
		b.WriteString("\nConsider parameter tuning or a longer run to strengthen failed metrics.")
	}

	return b.String()
}

// TotalAttractions counts significant pairwise attractions across all steps.
func (r *Run) TotalAttractions() int {
	n := 0
	for i := range r.Steps {
		n += len(r.Steps[i].Attractions)
	}
	return n
}

// TotalClusters counts belief clusters held at the final step.
func (r *Run) TotalClusters() int {
	if len(r.Steps) == 0 {
		return 0
	}
	n := 0
	final := r.Steps[len(r.Steps)-1]
	for i := range final.Entities {
		n += len(final.Entities[i].Clusters)
	}
	return n
}

// AverageClustersPerEntity is the final-step mean cluster count.
func (r *Run) AverageClustersPerEntity() float64 {
	if len(r.Steps) == 0 {
		return 0
	}
	final := r.Steps[len(r.Steps)-1]
	if len(final.Entities) == 0 {
		return 0
	}
	return float64(r.TotalClusters()) / float64(len(final.Entities))
}

// MaxAffectiveSignal is the strongest signal magnitude seen across the run.
func (r *Run) MaxAffectiveSignal() float64 {
	peak := 0.0
	for i := range r.Steps {
		for j := range r.Steps[i].Entities {
			for _, c := range r.Steps[i].Entities[j].Clusters {
				mag := c.AffectiveSignal
				if mag < 0 {
					mag = -mag
				}
				if mag > peak {
					peak = mag
				}
			}
		}
	}
	return peak
}
