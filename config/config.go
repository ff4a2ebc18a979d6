// Package config holds the user-tunable merge behavior: which source
// outranks which, and how much capacity disagreement is considered benign.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/probeops/devscan/merge"
)

// Config is the on-disk configuration shape.
type Config struct {
	// Authority lists tool names from most to least authoritative.
	Authority []string `yaml:"authority"`

	// CapacityTolerance is the relative capacity disagreement (0.01 = 1%)
	// still flagged as within tolerance.
	CapacityTolerance float64 `yaml:"capacity_tolerance"`
}

// Default mirrors merge.DefaultPolicy.
func Default() Config {
	p := merge.DefaultPolicy()
	return Config{
		Authority:         p.Order,
		CapacityTolerance: p.CapacityTolerance,
	}
}

// Load reads a YAML config file. Fields left out keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.CapacityTolerance < 0 {
		cfg.CapacityTolerance = 0
	}
	return cfg, nil
}

// Policy converts the configuration into the merge policy.
func (c Config) Policy() merge.Policy {
	return merge.Policy{
		Order:             c.Authority,
		CapacityTolerance: c.CapacityTolerance,
	}
}
