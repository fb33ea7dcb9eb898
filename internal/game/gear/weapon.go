// Package gear provides definitions and loaders for weapons, armor, and
// ammunition, plus the mutable per-instance state the combat core tracks
// for them (magazines, armor wear).
package gear

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FireMode represents the firing mode of a ranged weapon.
type FireMode string

const (
	// FireModeSingle fires one round per action.
	FireModeSingle FireMode = "single"
	// FireModeBurst fires a three-round burst per action.
	FireModeBurst FireMode = "burst"
	// FireModeAuto fires a random five-to-ten-round stream per action.
	FireModeAuto FireMode = "auto"
)

// WeaponClass separates melee arms from firearms.
type WeaponClass string

const (
	ClassMelee WeaponClass = "melee"
	ClassGun   WeaponClass = "gun"
)

// WeaponDef defines the static properties of a weapon loaded from YAML.
// The combat core treats these as opaque data, never behavior.
type WeaponDef struct {
	ID    string      `yaml:"id"`
	Name  string      `yaml:"name"`
	Class WeaponClass `yaml:"class"`
	// DamageType is the damage type of the weapon's base attack
	// (bash/cut/stab for melee, ballistic for guns).
	DamageType  string  `yaml:"damage_type"`
	Damage      float64 `yaml:"damage"`
	ToHit       float64 `yaml:"to_hit"`
	Penetration float64 `yaml:"penetration"`
	Weight      float64 `yaml:"weight"`
	Skill       string  `yaml:"skill"`
	// CritMult overrides the default 2.0 critical multiplier when > 0.
	CritMult  float64 `yaml:"crit_mult"`
	CritBonus float64 `yaml:"crit_bonus"`

	// Gun-only fields.
	Dispersion       float64    `yaml:"dispersion"`
	Range            int        `yaml:"range"`
	MagazineCapacity int        `yaml:"magazine_capacity"`
	ReloadCost       int        `yaml:"reload_cost"`
	FireModes        []FireMode `yaml:"fire_modes"`
	// AmmoIDs lists the compatible ammunition definitions.
	AmmoIDs []string `yaml:"ammo_ids"`
}

// IsMelee reports whether the weapon is a melee weapon.
func (w *WeaponDef) IsMelee() bool { return w.Class == ClassMelee }

// IsGun reports whether the weapon is a firearm.
func (w *WeaponDef) IsGun() bool { return w.Class == ClassGun }

// Supports reports whether the weapon offers the given fire mode.
func (w *WeaponDef) Supports(mode FireMode) bool {
	for _, m := range w.FireModes {
		if m == mode {
			return true
		}
	}
	return false
}

// AcceptsAmmo reports whether ammoID is compatible with this weapon.
func (w *WeaponDef) AcceptsAmmo(ammoID string) bool {
	for _, id := range w.AmmoIDs {
		if id == ammoID {
			return true
		}
	}
	return false
}

// EffectiveCritMult returns the crit multiplier, defaulting to 2.0.
func (w *WeaponDef) EffectiveCritMult() float64 {
	if w.CritMult > 0 {
		return w.CritMult
	}
	return 2.0
}

// Validate checks that the WeaponDef satisfies its invariants.
//
// Precondition: w is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (w *WeaponDef) Validate() error {
	var errs []error
	if w.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if w.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if w.Class != ClassMelee && w.Class != ClassGun {
		errs = append(errs, fmt.Errorf("class %q must be melee or gun", w.Class))
	}
	if w.DamageType == "" {
		errs = append(errs, errors.New("damage_type must not be empty"))
	}
	if w.Damage < 0 {
		errs = append(errs, errors.New("damage must be >= 0"))
	}
	if w.IsGun() {
		if w.MagazineCapacity <= 0 {
			errs = append(errs, errors.New("gun magazine_capacity must be > 0"))
		}
		if len(w.FireModes) == 0 {
			errs = append(errs, errors.New("gun must list at least one fire mode"))
		}
		if w.Range <= 0 {
			errs = append(errs, errors.New("gun range must be > 0"))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("weapon validation failed: %v", errs)
	}
	return nil
}

// LoadWeapons reads all *.yaml files from dir, parses each as a WeaponDef,
// validates it, and returns the collected slice.
//
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid WeaponDefs or the first encountered error.
func LoadWeapons(dir string) ([]*WeaponDef, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("LoadWeapons: cannot read directory %q: %w", dir, err)
	}

	var weapons []*WeaponDef
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("LoadWeapons: cannot read file %q: %w", path, err)
		}
		var w WeaponDef
		if err := yaml.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("LoadWeapons: cannot parse file %q: %w", path, err)
		}
		if err := w.Validate(); err != nil {
			return nil, fmt.Errorf("LoadWeapons: invalid weapon in %q: %w", path, err)
		}
		weapons = append(weapons, &w)
	}
	return weapons, nil
}
