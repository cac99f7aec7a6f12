// Package config loads runtime configuration for the armature CLI.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Output formats accepted by Config.Format.
const (
	FormatTOML = "toml"
	FormatJSON = "json"
)

// Config holds all runtime configuration for one armature invocation.
// Values are populated from .armature.toml, ARMATURE_* env vars, and CLI flags.
type Config struct {
	EnableDamping bool          `mapstructure:"enable_damping"`
	EnableLimits  bool          `mapstructure:"enable_limits"`
	EvalTimeout   time.Duration `mapstructure:"eval_timeout"`
	ContactCells  int           `mapstructure:"contact_cells"`
	MeshCells     int           `mapstructure:"mesh_cells"`
	Format        string        `mapstructure:"format"`
	Verbose       bool          `mapstructure:"verbose"`
}

// SetDefaults registers the built-in defaults with viper.
func SetDefaults() {
	viper.SetDefault("enable_damping", true)
	viper.SetDefault("enable_limits", true)
	viper.SetDefault("eval_timeout", "5s")
	viper.SetDefault("contact_cells", 8)
	viper.SetDefault("mesh_cells", 200)
	viper.SetDefault("format", FormatTOML)
	viper.SetDefault("verbose", false)
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	SetDefaults()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values no command can work with.
func (c Config) Validate() error {
	switch c.Format {
	case FormatTOML, FormatJSON:
	default:
		return fmt.Errorf("config: unknown format %q (want %s or %s)", c.Format, FormatTOML, FormatJSON)
	}
	if c.EvalTimeout <= 0 {
		return fmt.Errorf("config: eval_timeout must be positive, got %s", c.EvalTimeout)
	}
	if c.ContactCells <= 0 || c.MeshCells <= 0 {
		return fmt.Errorf("config: contact_cells and mesh_cells must be positive, got %d and %d", c.ContactCells, c.MeshCells)
	}
	return nil
}
