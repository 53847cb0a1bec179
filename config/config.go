// SPDX-License-Identifier: MIT

// Package config provides configuration loading for citysim.
// Values come from built-in defaults, then an optional YAML file, then
// CITYSIM_* environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config contains all citysim settings.
type Config struct {
	// Simulation controls the tick loop, spawning and citizen behavior.
	Simulation SimulationConfig `yaml:"simulation"`

	// Network controls topology construction and train behavior.
	Network NetworkConfig `yaml:"network"`

	// Cache sizes the route cache.
	Cache CacheConfig `yaml:"cache"`

	// Logging configures operational logging.
	Logging LoggingConfig `yaml:"logging"`
}

// SimulationConfig configures the scheduler and citizens.
type SimulationConfig struct {
	// Workers is the size of the citizen worker pool.
	Workers int `yaml:"workers"`

	// TickSpeed multiplies every agent's movement per tick.
	TickSpeed float64 `yaml:"tick_speed"`

	// TickInterval is the wall-clock pause between ticks. 0 runs flat out.
	TickInterval time.Duration `yaml:"tick_interval"`

	// SpawnEvery wakes the spawn thread every N ticks.
	SpawnEvery int `yaml:"spawn_every"`

	// SpawnBatch is the number of citizens requested per periodic wake-up.
	SpawnBatch int `yaml:"spawn_batch"`

	// BurstSize is the number of citizens spawned by a burst request.
	BurstSize int `yaml:"burst_size"`

	// InitialCitizens are spawned before the loop starts.
	InitialCitizens int `yaml:"initial_citizens"`

	// MaxCitizens is the citizen pool capacity.
	MaxCitizens int `yaml:"max_citizens"`

	// CitizenSpeed is the walking/waiting timer increment per tick.
	CitizenSpeed float64 `yaml:"citizen_speed"`

	// TransferThreshold is how long a citizen spends changing platforms.
	TransferThreshold float64 `yaml:"transfer_threshold"`

	// DespawnThreshold culls citizens that stay in one state longer than this.
	DespawnThreshold float64 `yaml:"despawn_threshold"`

	// CullEvery runs the stuck-citizen pass every N ticks.
	CullEvery int `yaml:"cull_every"`

	// SnapshotEvery publishes a snapshot every N ticks.
	SnapshotEvery int `yaml:"snapshot_every"`

	// StatEvery samples the active population every N ticks.
	StatEvery int `yaml:"stat_every"`

	// Bidirectional selects the bidirectional search for spawn routing.
	Bidirectional bool `yaml:"bidirectional"`

	// Seed makes spawning reproducible. 0 picks a random seed.
	Seed uint64 `yaml:"seed"`
}

// NetworkConfig configures topology construction and trains.
type NetworkConfig struct {
	DistanceScale   float64 `yaml:"distance_scale"`
	WalkRadius      float64 `yaml:"walk_radius"`
	WalkMultiplier  float64 `yaml:"walk_multiplier"`
	TransferPenalty float64 `yaml:"transfer_penalty"`

	// TrainSpacing places trains every N stops.
	TrainSpacing  int     `yaml:"train_spacing"`
	TrainCapacity int     `yaml:"train_capacity"`
	TrainSpeed    float64 `yaml:"train_speed"`
	// TrainDwell is how long a train waits at a stop.
	TrainDwell float64 `yaml:"train_dwell"`
}

// CacheConfig sizes the route cache.
type CacheConfig struct {
	Buckets    int `yaml:"buckets"`
	BucketSize int `yaml:"bucket_size"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	// Level: "trace", "debug", "info" (default), "warn" or "error".
	Level string `yaml:"level"`

	// Format: "text" (default), "logfmt" or "json".
	Format string `yaml:"format"`
}

// Default returns a Config with the stock simulation constants.
func Default() *Config {
	return &Config{
		Simulation: SimulationConfig{
			Workers:           3,
			TickSpeed:         5,
			SpawnEvery:        1024,
			SpawnBatch:        512,
			BurstSize:         256,
			InitialCitizens:   32000,
			MaxCitizens:       262144,
			CitizenSpeed:      1,
			TransferThreshold: 64,
			DespawnThreshold:  131072,
			CullEvery:         256,
			SnapshotEvery:     16,
			StatEvery:         1000,
		},
		Network: NetworkConfig{
			DistanceScale:   128,
			WalkRadius:      2,
			WalkMultiplier:  1.5,
			TransferPenalty: 24 * 16,
			TrainSpacing:    8,
			TrainCapacity:   256,
			TrainSpeed:      4,
			TrainDwell:      256 * 4,
		},
		Cache: CacheConfig{
			Buckets:    256,
			BucketSize: 4,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds a Config from defaults, the file at path (if non-empty), and
// environment overrides, then validates it.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		fileCfg, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromFile loads configuration from a YAML file on top of defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	s, n := c.Simulation, c.Network
	switch {
	case s.Workers < 1:
		return fmt.Errorf("workers must be at least 1, got %d", s.Workers)
	case s.TickSpeed < MinTickSpeed || s.TickSpeed > MaxTickSpeed:
		return fmt.Errorf("tick_speed must be between %v and %v, got %v", MinTickSpeed, MaxTickSpeed, s.TickSpeed)
	case s.TickInterval < 0:
		return fmt.Errorf("tick_interval must be non-negative, got %v", s.TickInterval)
	case s.SpawnEvery < 1 || s.CullEvery < 1 || s.SnapshotEvery < 1 || s.StatEvery < 1:
		return fmt.Errorf("spawn_every, cull_every, snapshot_every and stat_every must be positive")
	case s.SpawnBatch < 0 || s.BurstSize < 0 || s.InitialCitizens < 0:
		return fmt.Errorf("spawn counts must be non-negative")
	case s.MaxCitizens < 1:
		return fmt.Errorf("max_citizens must be positive, got %d", s.MaxCitizens)
	case s.CitizenSpeed <= 0 || s.TransferThreshold < 0 || s.DespawnThreshold <= 0:
		return fmt.Errorf("citizen_speed and despawn_threshold must be positive, transfer_threshold non-negative")
	case n.DistanceScale <= 0 || n.WalkMultiplier <= 0:
		return fmt.Errorf("distance_scale and walk_multiplier must be positive")
	case n.WalkRadius < 0 || n.TransferPenalty < 0:
		return fmt.Errorf("walk_radius and transfer_penalty must be non-negative")
	case n.TrainSpacing < 1 || n.TrainCapacity < 1:
		return fmt.Errorf("train_spacing and train_capacity must be positive")
	case n.TrainSpeed <= 0 || n.TrainDwell < 0:
		return fmt.Errorf("train_speed must be positive and train_dwell non-negative")
	case c.Cache.Buckets < 1 || c.Cache.BucketSize < 1:
		return fmt.Errorf("cache buckets and bucket_size must be positive")
	}

	validLevels := map[string]bool{"": true, "trace": true, "debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: trace, debug, info, warn, error)", c.Logging.Level)
	}
	validFormats := map[string]bool{"": true, "text": true, "logfmt": true, "json": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("invalid log format: %s (valid: text, logfmt, json)", c.Logging.Format)
	}

	return nil
}

// Tick speed bounds.
const (
	MinTickSpeed = 0.5
	MaxTickSpeed = 10.0
)

// applyEnvOverrides applies CITYSIM_* environment variables.
func applyEnvOverrides(c *Config) error {
	ints := map[string]*int{
		"CITYSIM_WORKERS":          &c.Simulation.Workers,
		"CITYSIM_INITIAL_CITIZENS": &c.Simulation.InitialCitizens,
		"CITYSIM_MAX_CITIZENS":     &c.Simulation.MaxCitizens,
		"CITYSIM_SPAWN_EVERY":      &c.Simulation.SpawnEvery,
		"CITYSIM_SPAWN_BATCH":      &c.Simulation.SpawnBatch,
	}
	for key, dst := range ints {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = n
		}
	}

	if v := os.Getenv("CITYSIM_TICK_SPEED"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("CITYSIM_TICK_SPEED: %w", err)
		}
		c.Simulation.TickSpeed = f
	}
	if v := os.Getenv("CITYSIM_TICK_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("CITYSIM_TICK_INTERVAL: %w", err)
		}
		c.Simulation.TickInterval = d
	}
	if v := os.Getenv("CITYSIM_SEED"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("CITYSIM_SEED: %w", err)
		}
		c.Simulation.Seed = n
	}
	if v := os.Getenv("CITYSIM_BIDIRECTIONAL"); v != "" {
		c.Simulation.Bidirectional = v == "true" || v == "1"
	}
	if v := os.Getenv("CITYSIM_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("CITYSIM_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}

	return nil
}
