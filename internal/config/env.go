package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Settings are the process-level knobs read from the environment.
type Settings struct {
	Addr          string `env:"UW_ADDR" envDefault:":8080"`
	ConfigDir     string `env:"UW_CONFIG_DIR" envDefault:"./configs"`
	Profile       string `env:"UW_PROFILE" envDefault:"default"`
	TickMinutes   int    `env:"UW_TICK_MINUTES"`
	DBPath        string `env:"UW_DB_PATH" envDefault:"underworld.db"`
	AuthorityAddr string `env:"UW_AUTHORITY_ADDR"`
	Seed          uint64 `env:"UW_SEED"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
}

// LoadSettings parses Settings from the environment.
func LoadSettings() (Settings, error) {
	var s Settings
	if err := ParseEnv(&s); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (s Settings) SlogLevel() slog.Level {
	switch strings.ToLower(s.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
