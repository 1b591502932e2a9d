package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ReallyLiri/MacTutorIndex/internal/config"
	"github.com/ReallyLiri/MacTutorIndex/internal/core/enrich"
	"github.com/ReallyLiri/MacTutorIndex/internal/llm"
	"github.com/ReallyLiri/MacTutorIndex/internal/observability"
)

func main() {
	mergeOnly := flag.Bool("merge", false, "only merge parsed records into the enriched directory")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using defaults")
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}
	cfg, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Server.Environment, cfg.Server.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if *mergeOnly {
		res, err := enrich.MergeDir(cfg.Enrich.L1Dir, cfg.Enrich.OutputDir, logger)
		if err != nil {
			logger.Fatal("Merge failed", zap.Error(err))
		}
		logger.Info("Merge finished",
			zap.Int("updated", res.Updated),
			zap.Int("created", res.Created),
			zap.Int("failed", res.Failed),
		)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, cfg.Tracing, cfg.Server.Environment)
	if err != nil {
		logger.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	llmClient, err := llm.NewClient(ctx, cfg.LLM)
	if err != nil {
		logger.Fatal("Failed to initialize LLM client", zap.Error(err))
	}

	enricher := enrich.NewEnricher(llmClient, cfg.Enrich.Prompts, logger)
	pipeline := enrich.NewPipeline(enricher, cfg.Enrich, cfg.Concurrency.Enrich, observability.NewCollector("mactutor"), logger)

	logger.Info("Using LLM",
		zap.String("provider", cfg.LLM.Provider),
		zap.String("model", cfg.LLM.Model),
	)
	res, err := pipeline.Run(ctx)
	if err != nil {
		logger.Error("Enrichment aborted", zap.Error(err))
		os.Exit(1)
	}
	if res.Failed > 0 {
		os.Exit(2)
	}
}
