// Package config reads runtime settings from SELECQUEST_* environment
// variables.
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"

	"selecquest/internal/engine"
)

const Prefix = "SELECQUEST_"

type Config struct {
	// DBPath overrides the default database location (~/.selecquest.db).
	DBPath string `env:"DB_PATH"`
	// RulesetDir is an extra directory of *.yaml rulesets loaded next to the
	// builtin ones.
	RulesetDir string `env:"RULESET_DIR"`
	// Seed makes every task draw replayable. Zero picks a fresh seed.
	Seed int64 `env:"SEED"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"warn"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	Game engine.GameConfig
}

// Load parses the process environment.
func Load() (Config, error) {
	return parse(env.Options{Prefix: Prefix})
}

// LoadFrom parses vars instead of the process environment.
func LoadFrom(vars map[string]string) (Config, error) {
	return parse(env.Options{Prefix: Prefix, Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("config: %sLOG_FORMAT must be text or json, got %q", Prefix, c.LogFormat)
	}
	if err := c.Game.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
