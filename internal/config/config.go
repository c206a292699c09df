// Package config loads server configuration for the lattice CLI.
// Values come from an optional YAML file; flag values override file values.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPort is the development port the server binds when nothing else
// is configured.
const DefaultPort = "8787"

// Config describes the serve command's startup configuration.
type Config struct {
	// Host to bind; empty means all interfaces.
	Host string `yaml:"host"`
	Port string `yaml:"port"`

	// Backend selects the serving strategy: "concurrent" or "serial".
	Backend string `yaml:"backend"`

	// Redis, when set, backs concept storage with Redis at this address
	// instead of the in-memory default.
	Redis RedisConfig `yaml:"redis"`
}

// RedisConfig holds the optional Redis storage settings.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Port:    DefaultPort,
		Backend: "concurrent",
	}
}

// Load reads a YAML config file on top of the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// Addr joins host and port into a bind address.
func (c Config) Addr() string {
	return c.Host + ":" + c.Port
}
