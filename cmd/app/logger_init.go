package main

import (
	"github.com/osse101/zombie-showcase-server/internal/config"
	"github.com/osse101/zombie-showcase-server/internal/logger"
)

// initLogger initializes the logger using centralized app configuration
func initLogger(cfg *config.Config) {
	// Source info only helps in dev
	addSource := cfg.Environment == "dev" || cfg.Environment == "development"

	loggerConfig := logger.NewConfig(
		cfg.LogLevel,
		cfg.LogFormat,
		"zombie-showcase-server",
		version,
		cfg.Environment,
		addSource,
	)

	logger.InitLogger(loggerConfig)
}
