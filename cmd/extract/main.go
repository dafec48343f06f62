package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"medi-skimap/internal/config"
	"medi-skimap/internal/pipeline"
	"medi-skimap/internal/resort"
	"medi-skimap/internal/store"
	"medi-skimap/internal/timezone"
)

func main() {
	resortsFile := flag.String("resorts", "", "resort list file (overrides batch.resortsFile)")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *resortsFile != "" {
		cfg.Batch.ResortsFile = *resortsFile
	}

	// Initialize logger
	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	os.Exit(run(cfg, logger))
}

func run(cfg *config.Config, logger *slog.Logger) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	infos, err := resort.LoadFile(cfg.Batch.ResortsFile)
	if err != nil {
		logger.Error("failed to load resorts", "error", err)
		return 1
	}

	tz, err := timezone.NewService()
	if err != nil {
		logger.Error("failed to initialize timezone service", "error", err)
		return 1
	}

	db, err := store.Open(cfg.Storage.DBPath, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		return 1
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close store", "error", err)
		}
	}()

	loader := resort.NewLoader(pipeline.NewExtractor(cfg, logger), db, tz, resort.Options{
		MapsDir:       cfg.Storage.MapsDir,
		MapsURLPrefix: cfg.Storage.MapsURLPrefix,
		Concurrency:   cfg.Batch.Concurrency,
	}, logger)

	logger.Info("loading resorts", "count", len(infos), "concurrency", cfg.Batch.Concurrency)
	outcomes := loader.LoadAll(ctx, infos)

	succeeded := 0
	for _, out := range outcomes {
		if out.Succeeded() {
			succeeded++
		}
	}
	logger.Info("batch complete", "succeeded", succeeded, "failed", len(outcomes)-succeeded)

	if len(outcomes) > 0 && succeeded == 0 {
		return 1
	}
	return 0
}
