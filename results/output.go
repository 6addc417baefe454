package results

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/Alchymia-AI/synthetic-consciousness/config"
	"github.com/Alchymia-AI/synthetic-consciousness/metrics"
)

// OutputManager handles structured run output with CSV metrics logging.
type OutputManager struct {
	dir         string
	metricsFile *os.File

	metricsHeaderWritten bool
}

// NewOutputManager creates a new output manager and initializes the output
// directory. Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	metricsPath := filepath.Join(dir, "metrics.csv")
	f, err := os.Create(metricsPath)
	if err != nil {
		return nil, fmt.Errorf("creating metrics.csv: %w", err)
	}
	om.metricsFile = f

	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	configPath := filepath.Join(om.dir, "config.yaml")
	return cfg.WriteYAML(configPath)
}

// WriteMetrics appends one snapshot row to metrics.csv.
func (om *OutputManager) WriteMetrics(snapshot metrics.Snapshot) error {
	if om == nil {
		return nil
	}

	records := []metrics.Snapshot{snapshot}

	if !om.metricsHeaderWritten {
		// First write includes headers
		if err := gocsv.Marshal(records, om.metricsFile); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
		om.metricsHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, om.metricsFile); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}

	return nil
}

// WriteSummary saves the run identity and emergence analysis as JSON. Step
// detail goes to the reports instead, the summary stays small enough to read.
func (om *OutputManager) WriteSummary(run *Run) error {
	if om == nil {
		return nil
	}

	summary := struct {
		RunID           string           `json:"run_id"`
		Name            string           `json:"name"`
		NumEntities     int              `json:"num_entities"`
		NumSteps        int              `json:"num_steps"`
		StartTime       string           `json:"start_time"`
		EndTime         string           `json:"end_time"`
		DurationSeconds float64          `json:"duration_seconds"`
		FinalMetrics    metrics.Snapshot `json:"final_metrics"`
		Analysis        Analysis         `json:"analysis"`
	}{
		RunID:           run.RunID,
		Name:            run.Name,
		NumEntities:     run.NumEntities,
		NumSteps:        run.NumSteps,
		StartTime:       run.StartTime.Format("2006-01-02T15:04:05Z07:00"),
		EndTime:         run.EndTime.Format("2006-01-02T15:04:05Z07:00"),
		DurationSeconds: run.DurationSeconds,
		FinalMetrics:    run.FinalMetrics(),
		Analysis:        run.Analysis,
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling summary: %w", err)
	}

	summaryPath := filepath.Join(om.dir, "summary.json")
	if err := os.WriteFile(summaryPath, data, 0644); err != nil {
		return fmt.Errorf("writing summary.json: %w", err)
	}

	return nil
}

// WriteReports renders the text and HTML reports into the output directory.
func (om *OutputManager) WriteReports(run *Run) error {
	if om == nil {
		return nil
	}

	if err := run.WriteTextReport(filepath.Join(om.dir, "report.txt")); err != nil {
		return err
	}
	return run.WriteHTMLReport(filepath.Join(om.dir, "report.html"))
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	if om.metricsFile != nil {
		return om.metricsFile.Close()
	}
	return nil
}
