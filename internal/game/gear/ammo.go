package gear

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// AmmoDef defines one ammunition type loaded from YAML.
type AmmoDef struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	// DamageBonus adds to the firing weapon's base damage.
	DamageBonus float64 `yaml:"damage_bonus"`
	// PenetrationBonus adds to the firing weapon's penetration.
	PenetrationBonus float64 `yaml:"penetration_bonus"`
}

// Validate checks that the AmmoDef satisfies its invariants.
func (a *AmmoDef) Validate() error {
	var errs []error
	if a.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if a.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("ammo validation failed: %v", errs)
	}
	return nil
}

// LoadAmmo reads all .yaml files in dir and returns the parsed AmmoDefs.
//
// Precondition: dir must be a readable directory.
func LoadAmmo(dir string) ([]*AmmoDef, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("LoadAmmo: cannot read directory %q: %w", dir, err)
	}
	var out []*AmmoDef
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("LoadAmmo: cannot read file %q: %w", path, err)
		}
		var a AmmoDef
		if err := yaml.Unmarshal(data, &a); err != nil {
			return nil, fmt.Errorf("LoadAmmo: cannot parse file %q: %w", path, err)
		}
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("LoadAmmo: invalid ammo in %q: %w", path, err)
		}
		out = append(out, &a)
	}
	if out == nil {
		out = []*AmmoDef{}
	}
	return out, nil
}
