// Package daemon manages the Sparfuchs daemon lifecycle and configuration.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all daemon configuration.
type Config struct {
	Profile   ProfileConfig   `toml:"profile"`
	API       APIConfig       `toml:"api"`
	Store     StoreConfig     `toml:"store"`
	Telemetry TelemetryConfig `toml:"telemetry"`
	Logging   LoggingConfig   `toml:"logging"`
}

// ProfileConfig identifies the local user profile.
type ProfileConfig struct {
	UserID   string `toml:"user_id"`
	Currency string `toml:"currency"`
}

// APIConfig controls the HTTP API server.
type APIConfig struct {
	Host        string   `toml:"host"`
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
}

// StoreConfig controls persistent storage.
type StoreConfig struct {
	Dir string `toml:"dir"`
}

// TelemetryConfig controls the /metrics endpoint.
type TelemetryConfig struct {
	Prometheus bool `toml:"prometheus"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	homeDir := sparfuchsHome()
	return Config{
		Profile: ProfileConfig{
			UserID:   "local",
			Currency: "EUR",
		},
		API: APIConfig{
			Host:        "127.0.0.1",
			Port:        7420,
			CORSOrigins: []string{"*"},
		},
		Store: StoreConfig{
			Dir: homeDir,
		},
		Telemetry: TelemetryConfig{
			Prometheus: false,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  filepath.Join(homeDir, "sparfuchs.log"),
		},
	}
}

// LoadConfig reads config from ~/.sparfuchs/config.toml, falling back to
// defaults when no file exists yet.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	path := filepath.Join(sparfuchsHome(), "config.toml")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Profile.UserID == "" {
		cfg.Profile.UserID = "local"
	}
	if cfg.Store.Dir == "" {
		cfg.Store.Dir = sparfuchsHome()
	}

	return cfg, nil
}

// SaveConfig writes the config to ~/.sparfuchs/config.toml.
func SaveConfig(cfg Config) error {
	path := filepath.Join(sparfuchsHome(), "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(cfg)
}

// sparfuchsHome returns the Sparfuchs data directory.
func sparfuchsHome() string {
	if env := os.Getenv("SPARFUCHS_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".sparfuchs")
}

// Home is exported for use by other packages.
func Home() string {
	return sparfuchsHome()
}
