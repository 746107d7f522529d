package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Output modes for rendered command results.
const (
	OutputTable = "table"
	OutputJSON  = "json"
)

// Config holds all application configuration.
type Config struct {
	LogLevel  string `env:"ROSTER_LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"ROSTER_LOG_FORMAT" envDefault:"pretty"`
	// DataFile is loaded at start-up when set.
	DataFile string `env:"ROSTER_DATA_FILE"`
	// MinGrade is the threshold used by a bare "filter" command.
	MinGrade string `env:"ROSTER_MIN_GRADE"  envDefault:"7.0"`
	Output   string `env:"ROSTER_OUTPUT"     envDefault:"table"`
}

// Load reads configuration from environment variables with sensible defaults.
// It loads .env file if present but does not fail if missing.
func Load() (*Config, error) {
	_ = godotenv.Load() // .env is optional

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	switch cfg.Output {
	case OutputTable, OutputJSON:
	default:
		return nil, fmt.Errorf("ROSTER_OUTPUT must be %q or %q, got %q", OutputTable, OutputJSON, cfg.Output)
	}
	return cfg, nil
}
