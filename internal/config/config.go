// Package config loads the ctgraph TOML configuration.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/roach88/ctgraph/internal/logging"
	"github.com/roach88/ctgraph/internal/space"
)

// EnvLogLevel overrides Config.LogLevel when set to a known level.
const EnvLogLevel = "CTGRAPH_LOG_LEVEL"

// Config is the on-disk configuration.
//
//	log_level = "info"
//	max_dims = 3
//
//	[axis_types]
//	x = "space"
//	t = "time"
type Config struct {
	LogLevel  string            `toml:"log_level"`
	MaxDims   int               `toml:"max_dims"`
	AxisTypes map[string]string `toml:"axis_types"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	cfg := Config{}
	applyDefaults(&cfg)
	return cfg
}

// Load reads a TOML file, fills defaults, applies environment overrides and
// validates the result.
func Load(path string) (Config, error) {
	var cfg Config
	if err := loadToml(path, &cfg); err != nil {
		return Config{}, err
	}
	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FromEnv is Default with environment overrides applied.
func FromEnv() Config {
	cfg := Default()
	applyEnvOverrides(&cfg)
	return cfg
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

func applyDefaults(cfg *Config) {
	def := space.DefaultConfig()
	if strings.TrimSpace(cfg.LogLevel) == "" {
		cfg.LogLevel = "info"
	}
	if cfg.MaxDims == 0 {
		cfg.MaxDims = def.MaxDims
	}
	if cfg.AxisTypes == nil {
		cfg.AxisTypes = def.DefaultAxisTypes
	}
}

func applyEnvOverrides(cfg *Config) {
	raw := os.Getenv(EnvLogLevel)
	if _, ok := logging.ParseLevel(raw); ok {
		cfg.LogLevel = strings.TrimSpace(raw)
	}
}

// Validate checks a loaded configuration.
func Validate(cfg Config) error {
	if _, ok := logging.ParseLevel(cfg.LogLevel); !ok {
		return fmt.Errorf("config log_level %q is not a level", cfg.LogLevel)
	}
	if cfg.MaxDims < 1 || cfg.MaxDims > 3 {
		return fmt.Errorf("config max_dims must be in 1..3, got %d", cfg.MaxDims)
	}
	for label, typ := range cfg.AxisTypes {
		if strings.TrimSpace(label) == "" {
			return fmt.Errorf("config axis_types has an empty label")
		}
		if strings.TrimSpace(typ) == "" {
			return fmt.Errorf("config axis_types[%q] has an empty type", label)
		}
	}
	return nil
}

// Space returns the registry configuration.
func (c Config) Space() space.Config {
	types := make(map[string]string, len(c.AxisTypes))
	for label, typ := range c.AxisTypes {
		types[space.NormalizeLabel(label)] = typ
	}
	return space.Config{DefaultAxisTypes: types, MaxDims: c.MaxDims}
}
