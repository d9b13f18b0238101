package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/agenthands/metasearch/internal/config"
	"github.com/agenthands/metasearch/internal/core"
	"github.com/agenthands/metasearch/internal/logging"
	"github.com/agenthands/metasearch/internal/metrics"
	"github.com/agenthands/metasearch/internal/provider"
	"github.com/agenthands/metasearch/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using defaults")
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}
	cfg, found, err := config.LoadWithEnv(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format)
	if !found {
		logger.WithField("path", cfgPath).Warn("Config file not found, using defaults")
	}

	if os.Getenv("GIN_MODE") != gin.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	adapters, err := provider.NewAdapters(context.Background(), cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize search providers")
	}

	m := metrics.New()
	agg := core.NewAggregator(adapters, core.Options{
		RecommendLimit: cfg.Search.RecommendLimit,
		TrendingLimit:  cfg.Search.TrendingLimit,
		Metrics:        m,
		Logger:         logger,
	})

	srv := server.NewServer(agg, cfg.Search, logger, m)
	if err := srv.Run(cfg.Server); err != nil {
		logger.WithError(err).Fatal("Server exited")
	}
}
