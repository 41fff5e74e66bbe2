package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/robfig/cron/v3"
)

const (
	envPrefix     = "MONITOR_"
	envConfigFile = "MONITOR_CONFIG"
	envDotFile    = "MONITOR_ENV_FILE"
)

// listKeys accept comma-separated values from the environment.
var listKeys = map[string]bool{ //nolint:gochecknoglobals // static lookup
	"change_priority": true,
	"sources":         true,
}

// Load builds a Config by layering defaults, optional file, .env and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if MONITOR_CONFIG is set
//  3. .env file (MONITOR_ENV_FILE, default .env; variables already set win)
//  4. env (prefix MONITOR_)
func Load(_ context.Context) (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv(envConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: file %s: %w", ErrLoadConfig, path, err)
		}
	}

	dotFile := os.Getenv(envDotFile)
	if dotFile == "" {
		dotFile = ".env"
	}
	if err := godotenv.Load(dotFile); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: env file %s: %w", ErrLoadConfig, dotFile, err)
	}

	// MONITOR_SURGE_THRESHOLD -> surge_threshold (flat keys).
	envProvider := env.ProviderWithValue(envPrefix, ".", func(key, value string) (string, any) {
		key = strings.TrimPrefix(strings.ToLower(key), strings.ToLower(envPrefix))
		if key == "config" || key == "env_file" {
			return "", nil
		}
		if listKeys[key] {
			return key, splitList(value)
		}
		return key, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	// Slices decode element-wise over existing values, so list defaults
	// are applied after unmarshalling.
	cfg := *New()
	cfg.ChangePriority = nil
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	if len(cfg.ChangePriority) == 0 {
		cfg.ChangePriority = append([]string(nil), DefaultChangePriority...)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for values the service cannot run with.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.SurgeThreshold <= 0 {
		return fmt.Errorf("%w: surge_threshold must be positive", ErrInvalidConfig)
	}
	if c.RankingLimit <= 0 {
		return fmt.Errorf("%w: ranking_limit must be positive", ErrInvalidConfig)
	}
	if c.RefreshSchedule != "" {
		if _, err := cron.ParseStandard(c.RefreshSchedule); err != nil {
			return fmt.Errorf("%w: refresh_schedule %q: %w", ErrInvalidConfig, c.RefreshSchedule, err)
		}
	}
	return nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
