// Package config loads encounterd configuration from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Encounterd holds all configuration for the encounter daemon.
type Encounterd struct {
	LogLevel string `yaml:"log_level"`

	// ContentDir overrides the embedded encounter content when set.
	ContentDir string `yaml:"content_dir"`

	Database DatabaseConfig `yaml:"database"`
	Engine   EngineConfig   `yaml:"engine"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// EngineConfig tunes session scheduling.
type EngineConfig struct {
	TurnTimerSeconds int `yaml:"turn_timer_seconds"`
	IntentBuffer     int `yaml:"intent_buffer"`
}

// DefaultEncounterd returns config with sensible defaults.
func DefaultEncounterd() Encounterd {
	return Encounterd{
		LogLevel: "info",
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "reddust",
			Password: "reddust",
			DBName:   "reddust",
			SSLMode:  "disable",
		},
		Engine: EngineConfig{
			TurnTimerSeconds: 15,
			IntentBuffer:     32,
		},
	}
}

// LoadEncounterd reads a YAML config file over the defaults.
func LoadEncounterd(path string) (Encounterd, error) {
	cfg := DefaultEncounterd()

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
