package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// AuraServer holds all configuration for the aura server.
type AuraServer struct {
	LogLevel string `yaml:"log_level"` // debug, info, warn, error

	// Database
	Database DatabaseConfig `yaml:"database"`

	// SpellData is a YAML definition file; empty loads the built-in set.
	SpellData string `yaml:"spell_data"`

	// World loop
	TickInterval time.Duration `yaml:"tick_interval"` // default: 100ms

	// Autosave
	AutosaveInterval time.Duration `yaml:"autosave_interval"` // default: 5m
	SaveWorkers      int           `yaml:"save_workers"`      // concurrent character writes
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

// DefaultAuraServer returns AuraServer config with sensible defaults.
func DefaultAuraServer() AuraServer {
	return AuraServer{
		LogLevel:         "info",
		TickInterval:     100 * time.Millisecond,
		AutosaveInterval: 5 * time.Minute,
		SaveWorkers:      4,
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "auracore",
			Password: "auracore",
			DBName:   "auracore",
			SSLMode:  "disable",
		},
	}
}

// Validate reports settings the server cannot run with.
func (c AuraServer) Validate() error {
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick_interval must be positive, got %s", c.TickInterval)
	}
	if c.AutosaveInterval <= 0 {
		return fmt.Errorf("autosave_interval must be positive, got %s", c.AutosaveInterval)
	}
	if c.SaveWorkers < 1 {
		return fmt.Errorf("save_workers must be at least 1, got %d", c.SaveWorkers)
	}
	return nil
}

// LoadAuraServer loads aura server config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadAuraServer(path string) (AuraServer, error) {
	cfg := DefaultAuraServer()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config %s: %w", path, err)
	}

	return cfg, nil
}
