package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ReallyLiri/MacTutorIndex/internal/config"
	"github.com/ReallyLiri/MacTutorIndex/internal/core"
	"github.com/ReallyLiri/MacTutorIndex/internal/observability"
	"github.com/ReallyLiri/MacTutorIndex/internal/server"
	"github.com/ReallyLiri/MacTutorIndex/internal/source"
)

func main() {
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, cfg.Tracing, cfg.Server.Environment)
	if err != nil {
		logger.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	collector := observability.NewCollector("mactutor")
	src, closeSource, err := source.New(ctx, cfg, logger, collector)
	if err != nil {
		logger.Fatal("Failed to open record source", zap.Error(err))
	}

	explorer := core.NewExplorer(src, cfg.Explorer, collector, logger)
	if err := explorer.Start(ctx); err != nil {
		// The API still serves; /api/reload retries.
		logger.Error("Initial load failed", zap.Error(err))
	}

	if cfg.Source.Kind == config.SourceFile && cfg.Source.Watch {
		go watchRecords(ctx, cfg.Source.RecordsDir, explorer, logger)
	}

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := server.NewServer(explorer, collector, cfg.Explorer.SearchLimit, logger)
	httpServer := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           srv.SetupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("Starting server",
			zap.String("port", cfg.Server.Port),
			zap.String("environment", cfg.Server.Environment),
			zap.String("source", src.Name()),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}
	if err := closeSource(shutdownCtx); err != nil {
		logger.Error("Failed to close record source", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("Failed to flush traces", zap.Error(err))
	}
}

// watchRecords reloads the explorer whenever the records directory changes.
func watchRecords(ctx context.Context, dir string, explorer *core.Explorer, logger *zap.Logger) {
	fs, err := source.NewFileSource(dir, logger)
	if err != nil {
		logger.Error("Cannot watch records", zap.Error(err))
		return
	}
	err = fs.Watch(ctx, source.DefaultWatchDebounce, func() {
		logger.Info("Records changed, reloading", zap.String("dir", dir))
		if err := explorer.Reload(ctx); err != nil {
			logger.Error("Reload failed", zap.Error(err))
		}
	})
	if err != nil {
		logger.Error("Record watcher stopped", zap.Error(err))
	}
}
