package results

import (
	"bufio"
	"fmt"
	"html/template"
	"os"
)

const reportRule = "-----------------------------------------------------------------"

// metricNote pairs a final metric with its report interpretation.
type metricNote struct {
	Label string
	Value float64
	Note  string
}

func (r *Run) finalMetricNotes() []metricNote {
	m := r.FinalMetrics()
	return []metricNote{
		{"Attention Entropy", m.AttentionEntropy,
			"Diversity of memory activation (threshold >= 2.0). Higher means more varied focus."},
		{"Memory Diversity", m.MemoryDiversity,
			"Spread of belief cluster affective signals (threshold >= 0.1)."},
		{"Velocity Stability", m.VelocityStability,
			"Consistency of perpetual motion (threshold >= 0.8)."},
		{"Identity Coherence", m.IdentityCoherence,
			"State vector consistency across the population (threshold >= 0.7)."},
		{"Cluster Stability", m.ClusterStability,
			"Belief cluster formation, mean count over 10 (threshold >= 0.5)."},
		{"Affective Strength", m.AffectiveStrength,
			"Mean emotional signal magnitude (threshold >= 0.01)."},
		{"Essence Trajectory", m.EssenceTrajectory,
			"Mean well-being, 0 dread to 10 joyous, 5 neutral."},
		{"Average Essence", m.AverageEssence,
			"Current well-being across all entities."},
	}
}

// WriteTextReport renders the full multi-section text report.
func (r *Run) WriteTextReport(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating text report: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)

	fmt.Fprintln(w, "SYNTHETIC CONSCIOUSNESS SIMULATION REPORT")
	fmt.Fprintln(w, reportRule)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "RUN METADATA")
	fmt.Fprintln(w, reportRule)
	fmt.Fprintf(w, "Run ID:              %s\n", r.RunID)
	fmt.Fprintf(w, "Name:                %s\n", r.Name)
	fmt.Fprintf(w, "Start Time:          %s\n", r.StartTime.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "End Time:            %s\n", r.EndTime.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Number of Entities:  %d\n", r.NumEntities)
	fmt.Fprintf(w, "Number of Steps:     %d\n", r.NumSteps)
	fmt.Fprintf(w, "Simulated Duration:  %.2f seconds\n", r.DurationSeconds)
	fmt.Fprintf(w, "Total Interactions:  %d\n", r.TotalAttractions())
	fmt.Fprintln(w)

	fmt.Fprintln(w, "EMERGENCE ANALYSIS")
	fmt.Fprintln(w, reportRule)
	fmt.Fprintf(w, "Score:  %.1f%%\n", r.Analysis.Score*100)
	if r.Analysis.Achieved {
		fmt.Fprintln(w, "Status: ACHIEVED")
	} else {
		fmt.Fprintln(w, "Status: NOT ACHIEVED")
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, r.Analysis.Reasoning)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "FINAL METRICS")
	fmt.Fprintln(w, reportRule)
	for i, mn := range r.finalMetricNotes() {
		fmt.Fprintf(w, "%d. %s: %.4f\n", i+1, mn.Label, mn.Value)
		fmt.Fprintf(w, "   %s\n\n", mn.Note)
	}

	fmt.Fprintln(w, "RUN STATISTICS")
	fmt.Fprintln(w, reportRule)
	fmt.Fprintf(w, "Total Attractions Fired: %d\n", r.TotalAttractions())
	fmt.Fprintf(w, "Total Belief Clusters:   %d\n", r.TotalClusters())
	fmt.Fprintf(w, "Avg Clusters per Entity: %.2f\n", r.AverageClustersPerEntity())
	fmt.Fprintf(w, "Peak Affective Signal:   %.4f\n", r.MaxAffectiveSignal())
	fmt.Fprintln(w)

	// Sample roughly ten steps from long runs, every step otherwise.
	sampleRate := 1
	if len(r.Steps) > 100 {
		sampleRate = len(r.Steps) / 10
	}

	fmt.Fprintln(w, "SELECTED STEPS (sampled)")
	fmt.Fprintln(w, reportRule)
	for idx := range r.Steps {
		if idx%sampleRate != 0 && idx != len(r.Steps)-1 {
			continue
		}
		step := &r.Steps[idx]
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Step %d\n", step.Step)
		fmt.Fprintf(w, "  Attractions:            %d pairs\n", len(step.Attractions))
		fmt.Fprintf(w, "  Entities with Memories: %d\n", len(step.Attentions))
		fmt.Fprintf(w, "  Average Essence:        %.2f\n", step.Metrics.AverageEssence)
		fmt.Fprintf(w, "  Attention Entropy:      %.2f\n", step.Metrics.AttentionEntropy)
		fmt.Fprintf(w, "  Velocity Stability:     %.4f\n", step.Metrics.VelocityStability)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "CONCLUSION")
	fmt.Fprintln(w, reportRule)
	if r.Analysis.Achieved {
		fmt.Fprintln(w, "The run demonstrates indicators of emergent consciousness: varied")
		fmt.Fprintln(w, "awareness, organized memory, emotional response, and a maintained")
		fmt.Fprintln(w, "identity.")
	} else {
		fmt.Fprintln(w, "The run did not reach the emergence thresholds. Consider parameter")
		fmt.Fprintln(w, "tuning or a longer run.")
	}

	return w.Flush()
}

var htmlReportTmpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Name}} report</title>
<style>
  body { font-family: -apple-system, Helvetica, Arial, sans-serif; max-width: 900px; margin: 2em auto; color: #222; }
  h1 { border-bottom: 2px solid #667eea; padding-bottom: 0.3em; }
  .score { background: #667eea; color: white; padding: 1.5em; text-align: center; border-radius: 8px; margin: 1em 0; font-size: 1.4em; }
  .achieved { background: #2e8b57; }
  .failed { background: #b24a4a; }
  table { border-collapse: collapse; width: 100%; margin: 1em 0; }
  th, td { border: 1px solid #ccc; padding: 0.5em 0.8em; text-align: left; }
  th { background: #f4f4f8; }
  pre { background: #f8f8f8; padding: 1em; border-radius: 6px; white-space: pre-wrap; }
</style>
</head>
<body>
<h1>Synthetic Consciousness Simulation Report</h1>
<p>Run <code>{{.RunID}}</code> ({{.Name}}): {{.NumEntities}} entities, {{.NumSteps}} steps, {{printf "%.2f" .DurationSeconds}}s simulated.</p>
<div class="score {{if .Analysis.Achieved}}achieved{{else}}failed{{end}}">
  Emergence score {{printf "%.1f" .ScorePercent}}% &mdash; {{if .Analysis.Achieved}}ACHIEVED{{else}}NOT ACHIEVED{{end}}
</div>
<h2>Final Metrics</h2>
<table>
<tr><th>Metric</th><th>Value</th><th>Interpretation</th></tr>
{{range .Metrics}}<tr><td>{{.Label}}</td><td>{{printf "%.4f" .Value}}</td><td>{{.Note}}</td></tr>
{{end}}</table>
<h2>Reasoning</h2>
<pre>{{.Analysis.Reasoning}}</pre>
<h2>Run Statistics</h2>
<table>
<tr><td>Total attractions fired</td><td>{{.TotalAttractions}}</td></tr>
<tr><td>Total belief clusters</td><td>{{.TotalClusters}}</td></tr>
<tr><td>Avg clusters per entity</td><td>{{printf "%.2f" .AvgClusters}}</td></tr>
<tr><td>Peak affective signal</td><td>{{printf "%.4f" .PeakAffective}}</td></tr>
</table>
</body>
</html>
`))

// WriteHTMLReport renders the HTML report.
func (r *Run) WriteHTMLReport(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating html report: %w", err)
	}
	defer f.Close()

	data := struct {
		*Run
		ScorePercent     float64
		Metrics          []metricNote
		TotalAttractions int
		TotalClusters    int
		AvgClusters      float64
		PeakAffective    float64
	}{
		Run:              r,
		ScorePercent:     r.Analysis.Score * 100,
		Metrics:          r.finalMetricNotes(),
		TotalAttractions: r.TotalAttractions(),
		TotalClusters:    r.TotalClusters(),
		AvgClusters:      r.AverageClustersPerEntity(),
		PeakAffective:    r.MaxAffectiveSignal(),
	}

	if err := htmlReportTmpl.Execute(f, data); err != nil {
		return fmt.Errorf("rendering html report: %w", err)
	}
	return nil
}
