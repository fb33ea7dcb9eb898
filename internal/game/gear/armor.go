package gear

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/hexforged/scourge/internal/game/body"
)

// ArmorDef defines the static properties of an armor piece loaded from YAML.
type ArmorDef struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	// Covers lists the body parts this piece protects.
	Covers []body.Part `yaml:"covers"`
	// Resistances maps damage-type IDs to the protection granted on
	// covered parts.
	Resistances map[string]float64 `yaml:"resistances"`
	// BreakageCeiling is the cumulative wear at which the piece breaks
	// and is removed from its slot.
	BreakageCeiling int     `yaml:"breakage_ceiling"`
	Weight          float64 `yaml:"weight"`
}

// CoversPart reports whether the armor protects part.
func (a *ArmorDef) CoversPart(part body.Part) bool {
	for _, p := range a.Covers {
		if p == part {
			return true
		}
	}
	return false
}

// Validate reports an error if the ArmorDef is missing required fields or
// contains illegal values.
//
// Precondition: a is non-nil.
// Postcondition: returns nil iff the def is well-formed.
func (a *ArmorDef) Validate() error {
	var errs []error
	if a.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if a.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if len(a.Covers) == 0 {
		errs = append(errs, errors.New("covers must list at least one body part"))
	}
	for _, p := range a.Covers {
		if !body.Valid(p) {
			errs = append(errs, fmt.Errorf("covers lists unknown body part %q", p))
		}
	}
	for typeID, v := range a.Resistances {
		if v < 0 {
			errs = append(errs, fmt.Errorf("resistance for %q must be >= 0", typeID))
		}
	}
	if a.BreakageCeiling <= 0 {
		errs = append(errs, errors.New("breakage_ceiling must be > 0"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("armor validation failed: %v", errs)
	}
	return nil
}

// LoadArmors reads all .yaml files in dir and returns the parsed ArmorDefs.
//
// Precondition: dir must be a readable directory.
// Postcondition: returns a non-nil slice on success; all returned defs pass
// Validate.
func LoadArmors(dir string) ([]*ArmorDef, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("LoadArmors: cannot read directory %q: %w", dir, err)
	}

	var armors []*ArmorDef
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("LoadArmors: cannot read file %q: %w", path, err)
		}
		var a ArmorDef
		if err := yaml.Unmarshal(data, &a); err != nil {
			return nil, fmt.Errorf("LoadArmors: cannot parse file %q: %w", path, err)
		}
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("LoadArmors: invalid armor in %q: %w", path, err)
		}
		armors = append(armors, &a)
	}
	if armors == nil {
		armors = []*ArmorDef{}
	}
	return armors, nil
}

// ArmorInstance pairs an armor definition with its accumulated wear.
//
// Invariant: 0 <= Wear <= Def.BreakageCeiling.
type ArmorInstance struct {
	Def  *ArmorDef
	Wear int
}

// NewArmorInstance returns a pristine instance of def.
//
// Precondition: def non-nil and valid (panics on nil).
func NewArmorInstance(def *ArmorDef) *ArmorInstance {
	if def == nil {
		panic("gear: NewArmorInstance: def must not be nil")
	}
	return &ArmorInstance{Def: def}
}

// Absorb records absorbed damage against the piece: wear increases by
// ceil(absorbed * 0.5), capped at the breakage ceiling.
//
// Precondition: absorbed >= 0 (negative degrades to zero).
// Postcondition: Wear is monotonically non-decreasing; returns true iff
// the piece crossed the ceiling on this call.
func (ai *ArmorInstance) Absorb(absorbed int) bool {
	if absorbed <= 0 {
		return false
	}
	if ai.Broken() {
		return false
	}
	ai.Wear += int(math.Ceil(float64(absorbed) * 0.5))
	if ai.Wear >= ai.Def.BreakageCeiling {
		ai.Wear = ai.Def.BreakageCeiling
		return true
	}
	return false
}

// Broken reports whether the piece has reached its breakage ceiling.
func (ai *ArmorInstance) Broken() bool {
	return ai.Wear >= ai.Def.BreakageCeiling
}

// Clone returns a copy sharing the definition.
func (ai *ArmorInstance) Clone() *ArmorInstance {
	cp := *ai
	return &cp
}
