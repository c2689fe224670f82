// Package config loads process configuration from the environment and
// the world-constants file.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// #region config

// Config is the engine process configuration, parsed from environment
// variables.
type Config struct {
	ListenAddr    string        `env:"ENGINE_ADDR" envDefault:":8080"`
	HealthAddr    string        `env:"HEALTH_ADDR" envDefault:":9090"`
	GeminiAPIKey  string        `env:"GEMINI_API_KEY"`
	ReasonModel   string        `env:"REASON_MODEL" envDefault:"gemini-2.5-flash"`
	ReasonTimeout time.Duration `env:"REASON_TIMEOUT" envDefault:"30s"`
	ReasonRetries int           `env:"REASON_RETRIES" envDefault:"2"`
	PolicyDB      string        `env:"POLICY_DB" envDefault:"policies.db"`
	PersonaDir    string        `env:"PERSONA_DIR" envDefault:"personas"`
	PersonaName   string        `env:"PERSONA_NAME" envDefault:"elara"`
	ConstantsPath string        `env:"WORLD_CONSTANTS" envDefault:"world_constants.json"`
	Debug         bool          `env:"DEBUG" envDefault:"false"`
}

// Load parses configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// #endregion config
