package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	Calendar      CalendarConfig `toml:"calendar"`
	Focus         FocusConfig    `toml:"focus"`
	Notifications NotifyConfig   `toml:"notifications"`
	Database      DatabaseConfig `toml:"database"`
}

type CalendarConfig struct {
	// Source is an ICS URL, an ICS file path, or "cli" to shell out to an
	// agenda tool.
	Source         string   `toml:"source"`
	CLICommand     string   `toml:"cli_command"`
	CLIArgs        []string `toml:"cli_args"`
	Account        string   `toml:"account"`
	LookaheadHours int      `toml:"lookahead_hours"`
	MinGapMinutes  int      `toml:"min_gap_minutes"`
}

type FocusConfig struct {
	DefaultTimerMinutes int `toml:"default_timer_minutes"`
}

type NotifyConfig struct {
	Enabled bool `toml:"enabled"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

func DefaultConfig() Config {
	return Config{
		Calendar: CalendarConfig{
			Source:         "",
			CLICommand:     "gog",
			CLIArgs:        []string{"calendar", "events", "primary"},
			LookaheadHours: 12,
			MinGapMinutes:  120,
		},
		Focus: FocusConfig{
			DefaultTimerMinutes: 90,
		},
		Notifications: NotifyConfig{
			Enabled: true,
		},
	}
}

func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".config", "cadence"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			applyEnvOverrides(&cfg)
			return &cfg, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CADENCE_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("CADENCE_CALENDAR_SOURCE"); v != "" {
		cfg.Calendar.Source = v
	}
	if v := os.Getenv("CADENCE_CALENDAR_ACCOUNT"); v != "" {
		cfg.Calendar.Account = v
	}
}

func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}
