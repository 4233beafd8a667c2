// Package config handles configuration for the propgraph storage engine via
// environment variables.
//
// The engine recognizes a small number of options, loaded with LoadFromEnv()
// and validated with Validate() before use. All values have sensible
// defaults, so LoadFromEnv() can be called without any environment variables
// set.
//
// Example Usage:
//
//	cfg := config.LoadFromEnv()
//	if err := cfg.Validate(); err != nil {
//		log.Fatalf("invalid config: %v", err)
//	}
//
//	graph := graphstore.New(cfg)
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds propgraph configuration loaded from environment variables.
//
// Configuration is organized into two sections:
//   - Delta: the delta-matrix flush threshold (DELTA_MAX_PENDING_CHANGES)
//   - Capacity: initial dimension hints for DataBlocks and matrices, an
//     ambient performance knob with no bearing on core semantics
type Config struct {
	Delta    DeltaConfig
	Capacity CapacityConfig
}

// DeltaConfig holds DeltaMatrix flush-policy settings.
type DeltaConfig struct {
	// MaxPendingChanges is the threshold, per side of a Delta triple (Δ⁺ or
	// Δ⁻), above which a non-forced flush commits that side into M. This is
	// GRAPHSTORE_DELTA_MAX_PENDING_CHANGES, the sole configuration option
	// DeltaMatrix reads.
	MaxPendingChanges uint64
}

// CapacityConfig holds initial sizing hints.
type CapacityConfig struct {
	// NodeCapacity is the initial DataBlock/matrix dimension for nodes.
	NodeCapacity uint64
	// RelationCapacity is the initial number of relation-type tensors to
	// pre-size slices for.
	RelationCapacity uint64
}

const (
	envDeltaMaxPendingChanges = "GRAPHSTORE_DELTA_MAX_PENDING_CHANGES"
	envNodeCapacity           = "GRAPHSTORE_NODE_CAPACITY"
	envRelationCapacity       = "GRAPHSTORE_RELATION_CAPACITY"

	defaultDeltaMaxPendingChanges = 10000
	defaultNodeCapacity           = 16384
	defaultRelationCapacity       = 16
)

// LoadFromEnv loads configuration from environment variables, applying
// defaults for anything unset.
func LoadFromEnv() *Config {
	cfg := &Config{}
	cfg.Delta.MaxPendingChanges = getEnvUint(envDeltaMaxPendingChanges, defaultDeltaMaxPendingChanges)
	cfg.Capacity.NodeCapacity = getEnvUint(envNodeCapacity, defaultNodeCapacity)
	cfg.Capacity.RelationCapacity = getEnvUint(envRelationCapacity, defaultRelationCapacity)
	return cfg
}

// Default returns a Config populated with built-in defaults, ignoring the
// environment. Useful for tests that must not depend on ambient env state.
func Default() *Config {
	return &Config{
		Delta:    DeltaConfig{MaxPendingChanges: defaultDeltaMaxPendingChanges},
		Capacity: CapacityConfig{NodeCapacity: defaultNodeCapacity, RelationCapacity: defaultRelationCapacity},
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Delta.MaxPendingChanges == 0 {
		return fmt.Errorf("config: delta max pending changes must be > 0")
	}
	if c.Capacity.NodeCapacity == 0 {
		return fmt.Errorf("config: node capacity must be > 0")
	}
	return nil
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{DeltaMaxPendingChanges: %d, NodeCapacity: %d, RelationCapacity: %d}",
		c.Delta.MaxPendingChanges, c.Capacity.NodeCapacity, c.Capacity.RelationCapacity,
	)
}

func getEnvUint(key string, defaultVal uint64) uint64 {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.ParseUint(strings.TrimSpace(val), 10, 64); err == nil {
			return i
		}
	}
	return defaultVal
}
