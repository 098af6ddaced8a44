package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"maiscore/internal/assets"
	"maiscore/internal/catalog"
	"maiscore/internal/core"
	httpProtocol "maiscore/internal/protocols/http"
	"maiscore/internal/source"
	"maiscore/pkg/config"
	"maiscore/pkg/logger"
	"maiscore/pkg/models"
)

func main() {
	// Load configuration
	cfgPath := os.Getenv("MAISCORE_CONFIG")
	if cfgPath == "" {
		cfgPath = "./configs/development.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = config.Default()
	}

	// Initialize logger
	logger.Init(cfg.Logging)

	logger.Info("Starting maiscore server...")

	// Song catalog cache
	cat := catalog.New(cfg.Catalog.Path,
		catalog.WithURL(cfg.Catalog.URL),
		catalog.WithExpiry(cfg.Catalog.Expiry.Std()),
	)

	// Asset cache with Open/Close lifecycle
	assetCache := assets.New(assets.Config{
		BaseURL:     cfg.Assets.BaseURL,
		Dir:         cfg.Assets.Dir,
		DownloadRPS: cfg.Assets.DownloadRPS,
	})
	if err := assetCache.Open(); err != nil {
		log.Fatalf("Failed to open asset cache: %v", err)
	}
	defer assetCache.Close()

	logger.Info("Asset cache opened")

	// Upstream score-source factory
	srcCfg := source.Config{
		DivingFishBaseURL: cfg.Sources.DivingFish.BaseURL,
		DivingFishTimeout: cfg.Sources.DivingFish.Timeout.Std(),
		LxnsBaseURL:       cfg.Sources.Lxns.BaseURL,
		LxnsSecret:        cfg.Sources.Lxns.Secret,
		LxnsTimeout:       cfg.Sources.Lxns.Timeout.Std(),
	}
	factory := func(kind models.SourceKind, ref string) (source.Source, error) {
		return source.New(kind, ref, srcCfg)
	}

	// Core aggregation service
	aggregatorSvc := core.NewAggregatorService(cat, factory)

	logger.Info("Initialized core services")

	// HTTP REST API server
	httpServer := httpProtocol.NewServer(cfg, aggregatorSvc, assetCache)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Errorf("HTTP server panic recovered: %v", r)
			}
		}()
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		logger.Info(fmt.Sprintf("Starting HTTP server on %s", addr))
		if err := httpServer.Start(addr); err != nil {
			logger.Errorf("HTTP server error: %v", err)
		}
	}()

	// Warm the catalog so the first request doesn't pay for the download
	go func() {
		if _, err := cat.Get(context.Background()); err != nil {
			logger.Warnf("Catalog warm-up failed: %v", err)
		} else {
			logger.Info("Song catalog warmed")
		}
	}()

	logger.Info("Press Ctrl+C to shutdown")

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	sig := <-sigChan
	logger.Info(fmt.Sprintf("Received signal: %v", sig))

	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Std())
	defer cancel()

	if err := assetCache.Close(); err != nil {
		logger.Errorf("Asset cache close error: %v", err)
	}

	<-shutdownCtx.Done()

	logger.Info("Shutdown complete")
}
