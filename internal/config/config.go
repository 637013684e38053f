// Package config loads the lobby daemon's YAML configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the daemon configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Admin   AdminConfig   `yaml:"admin"`
	Storage StorageConfig `yaml:"storage"`
	Match   MatchConfig   `yaml:"match"`
	// PackageDir is where uploaded game packages are stored and extracted
	PackageDir string `yaml:"package_dir"`
}

// ServerConfig configures the lobby TCP listener
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// AdminConfig configures the HTTP admin endpoint (health and stats)
type AdminConfig struct {
	Addr string `yaml:"addr"`
}

// StorageConfig selects the storage backend
type StorageConfig struct {
	// Type is "memory" or "redis"
	Type string `yaml:"type"`
	// RedisURL is required when Type is "redis"
	RedisURL string `yaml:"redis_url"`
}

// MatchConfig configures game-server launching
type MatchConfig struct {
	PortStart    int           `yaml:"port_start"`
	PortEnd      int           `yaml:"port_end"`
	ReadyTimeout time.Duration `yaml:"ready_timeout"`
	// PythonBin runs .py game-server entry points
	PythonBin string `yaml:"python_bin"`
}

// Default returns the default daemon configuration
func Default() Config {
	return Config{
		Server:     ServerConfig{Addr: ":9000"},
		Admin:      AdminConfig{Addr: ":9090"},
		Storage:    StorageConfig{Type: "memory"},
		PackageDir: "data/packages",
		Match: MatchConfig{
			PortStart:    10000,
			PortEnd:      10999,
			ReadyTimeout: 10 * time.Second,
			PythonBin:    "python3",
		},
	}
}

// Load reads a YAML config file over the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
