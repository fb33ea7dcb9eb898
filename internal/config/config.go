// Package config provides Viper-based configuration loading for the combat
// core and its demo binary.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/hexforged/scourge/internal/game/damage"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// CombatConfig holds the combat tuning constants.
type CombatConfig struct {
	// BaseCritChance is the base probability in [0,1] of a critical hit
	// before crit bonus and luck.
	BaseCritChance float64 `mapstructure:"base_crit_chance"`
	// PenetrationEfficiency scales how much armor a point of penetration
	// removes.
	PenetrationEfficiency float64 `mapstructure:"penetration_efficiency"`
	// ArmorEfficiency scales post-penetration armor before the resistance
	// multiplier applies.
	ArmorEfficiency float64 `mapstructure:"armor_efficiency"`
	// MaxAimBonus caps the accuracy bonus accumulated by aiming.
	MaxAimBonus float64 `mapstructure:"max_aim_bonus"`
	// Seed fixes the battle RNG when non-zero; zero uses crypto-grade
	// randomness.
	Seed int64 `mapstructure:"seed"`
}

// Params converts the tuning block into calculator parameters.
func (c CombatConfig) Params() damage.Params {
	return damage.Params{
		PenetrationEfficiency: c.PenetrationEfficiency,
		ArmorEfficiency:       c.ArmorEfficiency,
		BaseCritChance:        c.BaseCritChance,
	}
}

// ContentConfig points at the YAML content directories. Empty directories
// fall back to the built-in definitions.
type ContentConfig struct {
	DamageTypeDir string `mapstructure:"damage_type_dir"`
	EffectDir     string `mapstructure:"effect_dir"`
	WeaponDir     string `mapstructure:"weapon_dir"`
	ArmorDir      string `mapstructure:"armor_dir"`
	AmmoDir       string `mapstructure:"ammo_dir"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Combat  CombatConfig  `mapstructure:"combat"`
	Content ContentConfig `mapstructure:"content"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error
// describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateCombat(c.Combat); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateCombat(c CombatConfig) error {
	var errs []string
	if c.BaseCritChance < 0 || c.BaseCritChance > 1 {
		errs = append(errs, fmt.Sprintf("combat.base_crit_chance must be in [0,1], got %v", c.BaseCritChance))
	}
	if c.PenetrationEfficiency < 0 {
		errs = append(errs, fmt.Sprintf("combat.penetration_efficiency must be >= 0, got %v", c.PenetrationEfficiency))
	}
	if c.ArmorEfficiency < 0 {
		errs = append(errs, fmt.Sprintf("combat.armor_efficiency must be >= 0, got %v", c.ArmorEfficiency))
	}
	if c.MaxAimBonus < 0 {
		errs = append(errs, fmt.Sprintf("combat.max_aim_bonus must be >= 0, got %v", c.MaxAimBonus))
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

	// Environment variable overrides with SCOURGE_ prefix
	v.SetEnvPrefix("SCOURGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Default returns the built-in configuration used when no file is given.
//
// Postcondition: the returned config passes Validate.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Unmarshalling defaults cannot fail; the keys are set right above.
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("config: Default: %v", err))
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("combat.base_crit_chance", 0.05)
	v.SetDefault("combat.penetration_efficiency", 1.0)
	v.SetDefault("combat.armor_efficiency", 1.0)
	v.SetDefault("combat.max_aim_bonus", 10.0)
	v.SetDefault("combat.seed", 0)

	v.SetDefault("content.damage_type_dir", "")
	v.SetDefault("content.effect_dir", "")
	v.SetDefault("content.weapon_dir", "")
	v.SetDefault("content.armor_dir", "")
	v.SetDefault("content.ammo_dir", "")
}
