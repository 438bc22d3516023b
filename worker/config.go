package worker

import (
	"os"
	"strconv"
	"time"

	"github.com/domino14/dropbot/config"
)

// WorkerConfig holds configuration for the polling worker
type WorkerConfig struct {
	// Time between the start of consecutive cycles
	PollInterval time.Duration

	// Stop after this many cycles; 0 runs until cancelled
	MaxCycles int

	// How many cycles between progress summaries in the log
	SummaryEvery int

	DropbotConfig *config.Config
}

// DefaultWorkerConfig creates a WorkerConfig from the default settings and
// the worker's environment variables.
func DefaultWorkerConfig() *WorkerConfig {
	return NewWorkerConfig(config.DefaultConfig())
}

// NewWorkerConfig takes the poll interval from cfg. Environment variables
// still override it, so a deployed worker can be retuned without flags.
func NewWorkerConfig(cfg *config.Config) *WorkerConfig {
	return &WorkerConfig{
		PollInterval:  getEnvDuration("DROPBOT_WORKER_POLL_INTERVAL", cfg.GetDuration(config.ConfigPollInterval)),
		MaxCycles:     getEnvInt("DROPBOT_WORKER_MAX_CYCLES", 0),
		SummaryEvery:  getEnvInt("DROPBOT_WORKER_SUMMARY_EVERY", 100),
		DropbotConfig: cfg,
	}
}

// getEnvDuration gets a duration from an environment variable or returns a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
