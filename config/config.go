// Package config loads engine settings from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"github.com/atimics/signal-sub000/ecs"
	"github.com/atimics/signal-sub000/systems"
	"gopkg.in/yaml.v3"
)

// Config is the top-level engine configuration.
type Config struct {
	World   World             `yaml:"world"`
	Systems map[string]System `yaml:"systems"`
	Log     Log               `yaml:"log"`
}

// World sizes the entity table and component pools. Pools is keyed by
// component kind name; missing kinds get MaxEntities slots.
type World struct {
	MaxEntities int            `yaml:"max_entities"`
	Pools       map[string]int `yaml:"pools,omitempty"`
}

// System overrides one scheduler slot, keyed by system name. Enabled
// defaults to true when omitted.
type System struct {
	Frequency float64 `yaml:"frequency"`
	Enabled   *bool   `yaml:"enabled,omitempty"`
}

// IsEnabled reports whether the slot should run.
func (s System) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

// Log selects the log level (debug, info, warn, error) and format (text, json).
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in configuration: the default system table,
// DefaultMaxEntities and info-level text logs.
func Default() *Config {
	cfg := &Config{
		World:   World{MaxEntities: ecs.DefaultMaxEntities},
		Systems: make(map[string]System, ecs.SystemTypeCount),
		Log:     Log{Level: "info", Format: "text"},
	}
	for _, e := range systems.Table() {
		cfg.Systems[e.Type.String()] = System{Frequency: e.Frequency}
	}
	return cfg
}

// Load reads and parses the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over Default and validates the result. Unknown keys
// are rejected. Systems listed in the document replace their default entry.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field and reports the first problem found.
func (c *Config) Validate() error {
	if c.World.MaxEntities <= 0 {
		return fmt.Errorf("world.max_entities must be positive, got %d", c.World.MaxEntities)
	}
	for _, name := range sortedKeys(c.World.Pools) {
		if _, ok := ecs.ParseComponentKind(name); !ok {
			return fmt.Errorf("world.pools.%s: %w", name, ecs.ErrInvalidKind)
		}
		if c.World.Pools[name] < 0 {
			return fmt.Errorf("world.pools.%s must not be negative", name)
		}
	}
	for _, name := range sortedKeys(c.Systems) {
		if _, ok := ecs.ParseSystemType(name); !ok {
			return fmt.Errorf("systems.%s: %w", name, ecs.ErrInvalidSystem)
		}
		if c.Systems[name].Frequency <= 0 {
			return fmt.Errorf("systems.%s: %w", name, ecs.ErrInvalidFrequency)
		}
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// WorldConfig converts the world section for ecs.NewWorld.
func (c *Config) WorldConfig(logger *slog.Logger) ecs.WorldConfig {
	wc := ecs.WorldConfig{MaxEntities: c.World.MaxEntities, Logger: logger}
	for name, capacity := range c.World.Pools {
		if kind, ok := ecs.ParseComponentKind(name); ok {
			wc.PoolCapacities[kind] = capacity
		}
	}
	return wc
}

// ApplyScheduler sets the frequency and enabled state of every configured
// system on s.
func (c *Config) ApplyScheduler(s *ecs.Scheduler) error {
	for _, name := range sortedKeys(c.Systems) {
		st, ok := ecs.ParseSystemType(name)
		if !ok {
			return fmt.Errorf("systems.%s: %w", name, ecs.ErrInvalidSystem)
		}
		sys := c.Systems[name]
		if err := s.SetFrequency(st, sys.Frequency); err != nil {
			return fmt.Errorf("systems.%s: %w", name, err)
		}
		toggle := s.Disable
		if sys.IsEnabled() {
			toggle = s.Enable
		}
		if err := toggle(st); err != nil {
			return fmt.Errorf("systems.%s: %w", name, err)
		}
	}
	return nil
}

// Logger builds the logger described by the log section.
func (c *Config) Logger() (*slog.Logger, error) {
	return NewLogger(c.Log.Level, c.Log.Format)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
