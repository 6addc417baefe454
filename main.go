package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/Alchymia-AI/synthetic-consciousness/config"
	"github.com/Alchymia-AI/synthetic-consciousness/results"
	"github.com/Alchymia-AI/synthetic-consciousness/sim"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = use config, -1 = time-based)")
	steps := flag.Int("steps", 0, "Number of simulation steps (0 = use config)")
	entities := flag.Int("entities", 0, "Population size (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV metrics, reports, and config snapshot")
	logMetrics := flag.Bool("log-metrics", false, "Output per-step metrics via slog")
	logEvery := flag.Int("log-every", 100, "Log metrics every N steps when -log-metrics is set")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// CLI overrides
	if *seed == -1 {
		cfg.Simulation.Seed = time.Now().UnixNano()
	} else if *seed != 0 {
		cfg.Simulation.Seed = *seed
	}
	if *steps > 0 {
		cfg.Simulation.NumSteps = *steps
	}
	if *entities > 0 {
		cfg.Simulation.NumEntities = *entities
	}

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	out, err := results.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to initialize output", "error", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := out.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
		os.Exit(1)
	}

	s, err := sim.New(cfg)
	if err != nil {
		slog.Error("failed to create simulation", "error", err)
		os.Exit(1)
	}
	defer s.Close()

	slog.Info("starting simulation",
		"name", cfg.Metadata.Name,
		"entities", cfg.Simulation.NumEntities,
		"steps", cfg.Simulation.NumSteps,
		"seed", cfg.Simulation.Seed,
		"dimension", cfg.Geometry.Dimension,
		"kernel", cfg.Attraction.Kernel,
	)

	start := time.Now()

	for i := 0; i < cfg.Simulation.NumSteps; i++ {
		s.Step()

		history := s.MetricsHistory()
		snapshot := history[len(history)-1]

		if err := out.WriteMetrics(snapshot); err != nil {
			slog.Error("failed to write metrics row", "error", err)
			os.Exit(1)
		}
		if *logMetrics && (i%*logEvery == 0 || i == cfg.Simulation.NumSteps-1) {
			slog.Info("metrics", "snapshot", snapshot)
		}
	}

	s.Finalize()
	run := s.Results()

	if err := out.WriteSummary(run); err != nil {
		slog.Error("failed to write summary", "error", err)
		os.Exit(1)
	}
	if err := out.WriteReports(run); err != nil {
		slog.Error("failed to write reports", "error", err)
		os.Exit(1)
	}

	final := run.FinalMetrics()
	slog.Info("simulation complete",
		"run_id", run.RunID,
		"wall_time", time.Since(start).Round(time.Millisecond).String(),
		"emergence_score", run.Analysis.Score,
		"emergence_achieved", run.Analysis.Achieved,
		"final_metrics", final,
		"output_dir", out.Dir(),
	)
}
