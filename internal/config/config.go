// Package config loads the CLI configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config selects and configures the set-store backend the CLI talks to.
type Config struct {
	Store  StoreConfig `yaml:"store"`
	Prefix string      `yaml:"prefix,omitempty"` // key namespace, e.g. "app:"
}

// StoreConfig selects one backend.
type StoreConfig struct {
	// Backend is "redis", "sqlite" or "memory".
	Backend string       `yaml:"backend"`
	Redis   RedisConfig  `yaml:"redis,omitempty"`
	SQLite  SQLiteConfig `yaml:"sqlite,omitempty"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`
}

// SQLiteConfig holds SQLite file settings.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Default returns the default configuration: local Redis.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Backend: "redis",
			Redis:   RedisConfig{Addr: "localhost:6379"},
			SQLite:  SQLiteConfig{Path: "followgraph.db"},
		},
	}
}

// Load reads a YAML config file, filling unset fields from Default.
// A missing file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	switch c.Store.Backend {
	case "redis", "sqlite", "memory":
		return nil
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
}
