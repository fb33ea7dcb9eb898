// Package damage holds the combat core's damage data model — the damage-type
// taxonomy, atomic damage units, composite damage instances, resistance
// tables, and attack descriptions — plus the pure damage calculator.
package damage

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Category groups damage types into broad families.
type Category string

const (
	CategoryPhysical   Category = "physical"
	CategoryHeat       Category = "heat"
	CategoryElectric   Category = "electric"
	CategoryCold       Category = "cold"
	CategoryBiological Category = "biological"
	CategoryPoison     Category = "poison"
	CategoryAcid       Category = "acid"
	CategorySpecial    Category = "special"
)

// validCategories is the set of legal Category values.
var validCategories = map[Category]struct{}{
	CategoryPhysical:   {},
	CategoryHeat:       {},
	CategoryElectric:   {},
	CategoryCold:       {},
	CategoryBiological: {},
	CategoryPoison:     {},
	CategoryAcid:       {},
	CategorySpecial:    {},
}

// Type is one static taxonomy entry. Types are immutable after data load;
// the rest of the engine refers to them by ID.
type Type struct {
	ID           string   `yaml:"id"`
	Name         string   `yaml:"name"`
	Category     Category `yaml:"category"`
	Physical     bool     `yaml:"physical"`
	Edged        bool     `yaml:"edged"`
	Heat         bool     `yaml:"heat"`
	IgnoresArmor bool     `yaml:"ignores_armor"`
	ImmuneTags   []string `yaml:"immune_tags"`
	Skill        string   `yaml:"skill"`
}

// Validate checks that the Type satisfies its invariants.
//
// Precondition: t is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (t *Type) Validate() error {
	var errs []error
	if t.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if t.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if _, ok := validCategories[t.Category]; !ok {
		errs = append(errs, fmt.Errorf("category %q is not a valid damage category", t.Category))
	}
	if len(errs) > 0 {
		return fmt.Errorf("damage type validation failed: %v", errs)
	}
	return nil
}

// HasImmuneTag reports whether tag appears in the type's immune-tag set.
func (t *Type) HasImmuneTag(tag string) bool {
	for _, x := range t.ImmuneTags {
		if x == tag {
			return true
		}
	}
	return false
}

// Taxonomy holds all known damage Types keyed by ID.
type Taxonomy struct {
	types map[string]*Type
}

// NewTaxonomy creates an empty Taxonomy.
func NewTaxonomy() *Taxonomy {
	return &Taxonomy{types: make(map[string]*Type)}
}

// Register adds t to the taxonomy, overwriting any entry with the same ID.
//
// Precondition: t must not be nil and t.ID must not be empty.
func (x *Taxonomy) Register(t *Type) {
	x.types[t.ID] = t
}

// Get returns the Type for id, or (nil, false) if not found.
func (x *Taxonomy) Get(id string) (*Type, bool) {
	t, ok := x.types[id]
	return t, ok
}

// MustGet returns the Type for id, panicking on an unknown ID.
// Unknown damage-type IDs in a damage instance indicate malformed data,
// which is a caller bug rather than a game-state condition.
func (x *Taxonomy) MustGet(id string) *Type {
	t, ok := x.types[id]
	if !ok {
		panic(fmt.Sprintf("damage: unknown damage type %q", id))
	}
	return t
}

// All returns a snapshot slice of all registered Types.
func (x *Taxonomy) All() []*Type {
	out := make([]*Type, 0, len(x.types))
	for _, t := range x.types {
		out = append(out, t)
	}
	return out
}

// LoadDirectory reads every *.yaml file in dir, parses each as a Type,
// validates it, and returns a populated Taxonomy.
//
// Precondition: dir must be a readable directory.
// Postcondition: returns a non-nil Taxonomy, or an error if any file fails
// to parse or validate.
func LoadDirectory(dir string) (*Taxonomy, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading damage type dir %q: %w", dir, err)
	}
	tax := NewTaxonomy()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var t Type
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&t); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("invalid damage type in %q: %w", path, err)
		}
		tax.Register(&t)
	}
	return tax, nil
}

// Builtin returns a Taxonomy pre-populated with the standard damage types.
// Content packs may extend or replace it via LoadDirectory.
func Builtin() *Taxonomy {
	tax := NewTaxonomy()
	for _, t := range []*Type{
		{ID: "bash", Name: "Bashing", Category: CategoryPhysical, Physical: true, Skill: "melee"},
		{ID: "cut", Name: "Cutting", Category: CategoryPhysical, Physical: true, Edged: true, Skill: "melee"},
		{ID: "stab", Name: "Piercing", Category: CategoryPhysical, Physical: true, Edged: true, Skill: "melee"},
		{ID: "ballistic", Name: "Ballistic", Category: CategoryPhysical, Physical: true, Skill: "firearms"},
		{ID: "heat", Name: "Heat", Category: CategoryHeat, Heat: true},
		{ID: "electric", Name: "Electric", Category: CategoryElectric},
		{ID: "cold", Name: "Cold", Category: CategoryCold},
		{ID: "bio", Name: "Biological", Category: CategoryBiological, IgnoresArmor: true},
		{ID: "poison", Name: "Poison", Category: CategoryPoison},
		{ID: "acid", Name: "Acid", Category: CategoryAcid},
		{ID: "psychic", Name: "Psychic", Category: CategorySpecial, IgnoresArmor: true},
		{ID: "radiation", Name: "Radiation", Category: CategorySpecial, IgnoresArmor: true},
	} {
		tax.Register(t)
	}
	return tax
}
