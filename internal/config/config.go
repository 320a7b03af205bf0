// Package config provides Viper-based configuration loading for the battle
// simulator's engine core and its surrounding CLI tooling.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// RunConfig holds the parameters that govern one deterministic battle run:
// the PRNG seed, the ATB scheduler's tuning, and the safety bounds the
// engine facade enforces against pathological data.
type RunConfig struct {
	// RNGSeed seeds the single Random Source shared by the whole run.
	RNGSeed int64 `mapstructure:"rng_seed"`
	// ATBThreshold is the time-units value a combatant must reach to act.
	ATBThreshold int `mapstructure:"atb_threshold"`
	// ATBTickScale multiplies agility when accruing time-units each tick.
	ATBTickScale float64 `mapstructure:"atb_tick_scale"`
	// CritMultiplier scales damage on a critical hit.
	CritMultiplier float64 `mapstructure:"crit_multiplier"`
	// MaxSteps bounds the total number of steps the engine executes;
	// reaching it ends the battle with reason "steps_exhausted".
	MaxSteps int `mapstructure:"max_steps"`
}

// LoggingConfig holds structured logging settings for diagnostics emitted
// alongside battle events.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// Config is the top-level configuration for a battle simulator run.
type Config struct {
	Run     RunConfig     `mapstructure:"run"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing
// all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateRun(c.Run); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateRun(r RunConfig) error {
	var errs []string
	if r.ATBThreshold < 1 {
		errs = append(errs, fmt.Sprintf("run.atb_threshold must be >= 1, got %d", r.ATBThreshold))
	}
	if r.ATBTickScale <= 0 {
		errs = append(errs, fmt.Sprintf("run.atb_tick_scale must be > 0, got %g", r.ATBTickScale))
	}
	if r.CritMultiplier < 1 {
		errs = append(errs, fmt.Sprintf("run.crit_multiplier must be >= 1, got %g", r.CritMultiplier))
	}
	if r.MaxSteps < 1 {
		errs = append(errs, fmt.Sprintf("run.max_steps must be >= 1, got %d", r.MaxSteps))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	var errs []string
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		errs = append(errs, fmt.Sprintf("logging.level must be one of [debug, info, warn, error], got %q", l.Level))
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		errs = append(errs, fmt.Sprintf("logging.format must be one of [json, console], got %q", l.Format))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment
// variable overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetEnvPrefix("WUXIA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the configuration the engine uses when no file is supplied,
// matching the defaults documented for the Config data contract.
//
// Postcondition: Returns a Config that passes Validate().
func Default() Config {
	v := viper.New()
	setDefaults(v)
	cfg, err := LoadFromViper(v)
	if err != nil {
		panic("config: built-in defaults failed validation: " + err.Error())
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("run.rng_seed", 0)
	v.SetDefault("run.atb_threshold", 100)
	v.SetDefault("run.atb_tick_scale", 1.0)
	v.SetDefault("run.crit_multiplier", 1.5)
	v.SetDefault("run.max_steps", 10000)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}
