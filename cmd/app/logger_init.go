package main

import (
	"github.com/kipcodes/tweet-manager/internal/config"
	"github.com/kipcodes/tweet-manager/internal/logger"
)

// initLogger initializes the logger using centralized app configuration
func initLogger(cfg *config.Config) {
	level := cfg.LogLevel
	format := cfg.LogFormat
	if cfg.Debug {
		// Debug mode forces readable verbose logging
		level = "debug"
		format = "text"
	}

	logger.Init(logger.Config{
		Level:     level,
		Format:    format,
		AddSource: cfg.Debug,
	})
}
