package main

import (
	"fmt"
	"os"

	"research-tools/backend/internal/tools"
	"research-tools/backend/pkg/config"
	"research-tools/backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Logs go to LOG_FILE when set; stdout is reserved for results
	if err := logger.Init(cfg.Env, logger.Options{Level: logLevel(cfg), File: cfg.LogFile}); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := newRootCmd(tools.NewExecutor(cfg, nil)).Execute(); err != nil {
		os.Exit(1)
	}
}

// logLevel quiets console logging unless a level was asked for
func logLevel(cfg *config.Config) string {
	if cfg.LogLevel != "" {
		return cfg.LogLevel
	}
	return "error"
}
