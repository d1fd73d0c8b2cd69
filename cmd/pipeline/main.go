// Command pipeline runs the bronze/silver/gold ETL over the raw job
// posting data.
//
// Usage:
//
//	pipeline -stage all
//	pipeline -stage silver -data ./data
//	pipeline -stage bronze -raw ./data/raw/SGJobData.xlsx -strict
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"sgjobs/internal/config"
	"sgjobs/internal/infrastructure"
	"sgjobs/internal/pipeline"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		stage      = flag.String("stage", "all", "stage to run: bronze, silver, gold or all")
		rawPath    = flag.String("raw", "", "override path of the raw input file (csv or xlsx)")
		dataDir    = flag.String("data", "", "override data directory")
		configPath = flag.String("config", "", "path to an optional yaml config file")
		strict     = flag.Bool("strict", false, "treat data quality warnings as fatal")
	)
	flag.Parse()

	if *configPath != "" {
		os.Setenv("SGJOBS_CONFIG_FILE", *configPath)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		return 1
	}
	if *dataDir != "" {
		cfg.Paths.DataDir = *dataDir
	}
	if *rawPath != "" {
		cfg.Paths.RawFile = *rawPath
	}
	if *strict {
		cfg.Pipeline.StrictMode = true
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		return 1
	}
	defer infrastructure.CloseLogFile()

	if err := cfg.Paths.EnsureDirectories(); err != nil {
		logger.Error("failed to ensure directories", slog.String("error", err.Error()))
		return 1
	}

	shutdownTracing, err := infrastructure.InitTracing("sgjobs-pipeline")
	if err != nil {
		logger.Error("failed to initialize tracing", slog.String("error", err.Error()))
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	manager := pipeline.NewManager(cfg, logger)
	state, runErr := manager.Run(ctx, *stage)

	if err := shutdownTracing(context.Background()); err != nil {
		logger.Warn("tracing shutdown failed", slog.String("error", err.Error()))
	}

	if runErr != nil {
		runID := ""
		if state != nil {
			runID = state.ID
		}
		logger.Error("pipeline failed",
			slog.String("run_id", runID),
			slog.String("error", runErr.Error()))
		return 1
	}

	if summary := state.Summary(); summary != nil {
		logger.Info("run finished",
			slog.String("run_id", state.ID),
			slog.Int("bronze_rows", summary.BronzeRows),
			slog.Int("silver_rows", summary.SilverRows),
			slog.Int("warnings", len(summary.Warnings)))
	} else {
		logger.Info("run finished", slog.String("run_id", state.ID))
	}
	return 0
}
