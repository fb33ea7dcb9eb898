// Package effect implements the status-effect layer: effect definitions,
// per-combatant active sets with stacking and duration tick, the combat
// modifier fold consumed by the attack resolvers, and the damage-induced
// effects registry that decides which new effects a hit inflicts.
package effect

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hexforged/scourge/internal/game/body"
	"github.com/hexforged/scourge/internal/scripting"
)

// Stat names a combat number a modifier can perturb.
type Stat string

const (
	StatHit        Stat = "hit"
	StatDamage     Stat = "damage"
	StatArmor      Stat = "armor"
	StatSpeed      Stat = "speed"
	StatCritChance Stat = "crit_chance"
	StatDispersion Stat = "dispersion"
)

// validStats is the set of legal Stat values.
var validStats = map[Stat]struct{}{
	StatHit: {}, StatDamage: {}, StatArmor: {},
	StatSpeed: {}, StatCritChance: {}, StatDispersion: {},
}

// Role selects which side of an attack a modifier applies to.
type Role string

const (
	RoleAttacker Role = "attacker"
	RoleDefender Role = "defender"
	RoleAny      Role = "any"
)

// TriggerKind names a narrative/follow-up hook an effect can fire on.
type TriggerKind string

const (
	TriggerOnAttack TriggerKind = "on_attack"
	TriggerOnHit    TriggerKind = "on_hit"
	TriggerOnKill   TriggerKind = "on_kill"
	TriggerOnBlock  TriggerKind = "on_block"
	TriggerOnDodge  TriggerKind = "on_dodge"
	TriggerOnMiss   TriggerKind = "on_miss"
)

// Condition gates when a Modifier participates in the fold.
// Zero-valued fields match everything.
type Condition struct {
	Role         Role    `yaml:"role"`
	DamageType   string  `yaml:"damage_type"`
	AttackType   string  `yaml:"attack_type"`
	MinIntensity float64 `yaml:"min_intensity"`
}

// Modifier is one stat perturbation carried by an effect definition.
// Additive modifiers add Value (scaled by stacks); percentage modifiers
// scale the stat by 1 + Value/100.
type Modifier struct {
	Stat    Stat      `yaml:"stat"`
	Value   float64   `yaml:"value"`
	Percent bool      `yaml:"percent"`
	Cond    Condition `yaml:"cond"`
}

// InducedBy gates when a hit inflicts this effect on the target.
type InducedBy struct {
	// DamageType restricts the trigger to one damage type; empty = any.
	DamageType string `yaml:"damage_type"`
	// MinDamage is the minimum final damage required.
	MinDamage int `yaml:"min_damage"`
	// MaxDamage caps the trigger; 0 = no cap.
	MaxDamage int `yaml:"max_damage"`
	// Part restricts the trigger to a struck body part; empty = any.
	Part body.Part `yaml:"part"`
	// Predicate is an optional sandboxed Lua expression evaluated with
	// the globals damage, type, part, and crit. Empty always matches.
	Predicate string `yaml:"predicate"`
}

// SevereIntensity is the intensity at and above which a wounded effect
// counts as severe for part-disable purposes.
const SevereIntensity = 3

// Def is the static definition of a status effect, loaded from YAML.
type Def struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	Stackable bool   `yaml:"stackable"`
	// MaxStacks caps the stack counter when > 0.
	MaxStacks int `yaml:"max_stacks"`
	// Duration formula: clamp(DurationBase + intensity*DurationPerIntensity, 1, MaxDuration).
	DurationBase         int `yaml:"duration_base"`
	DurationPerIntensity int `yaml:"duration_per_intensity"`
	MaxDuration          int `yaml:"max_duration"`
	// DamagePerTurn accrues DamagePerTurn * stacks * (intensity+1) of
	// DamageType each tick; 0 = no ongoing damage.
	DamagePerTurn float64 `yaml:"damage_per_turn"`
	DamageType    string  `yaml:"damage_type"`
	// ResistanceBonus overlays onto the bearer's base resistances.
	ResistanceBonus map[string]float64 `yaml:"resistance_bonus"`
	Modifiers       []Modifier         `yaml:"modifiers"`
	Triggers        []TriggerKind      `yaml:"triggers"`
	InducedBy       *InducedBy         `yaml:"induced_by"`
}

// Validate checks that the Def satisfies its invariants.
//
// Precondition: d non-nil.
// Postcondition: returns nil iff the definition is well-formed.
func (d *Def) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if d.MaxDuration < 1 {
		errs = append(errs, errors.New("max_duration must be >= 1"))
	}
	if d.DamagePerTurn < 0 {
		errs = append(errs, errors.New("damage_per_turn must be >= 0"))
	}
	if d.DamagePerTurn > 0 && d.DamageType == "" {
		errs = append(errs, errors.New("damage_type required when damage_per_turn > 0"))
	}
	for _, m := range d.Modifiers {
		if _, ok := validStats[m.Stat]; !ok {
			errs = append(errs, fmt.Errorf("modifier stat %q is not a valid stat", m.Stat))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("effect validation failed: %v", errs)
	}
	return nil
}

// HasTrigger reports whether kind appears in the definition's trigger list.
func (d *Def) HasTrigger(kind TriggerKind) bool {
	for _, t := range d.Triggers {
		if t == kind {
			return true
		}
	}
	return false
}

// Duration evaluates the duration formula for the given intensity.
//
// Postcondition: 1 <= result <= MaxDuration.
func (d *Def) Duration(intensity float64) int {
	v := d.DurationBase + int(intensity)*d.DurationPerIntensity
	if v < 1 {
		v = 1
	}
	if v > d.MaxDuration {
		v = d.MaxDuration
	}
	return v
}

// Registry holds all known effect Defs keyed by ID, owned by the combat
// session rather than process-global state so tests can supply custom sets.
type Registry struct {
	defs   map[string]*Def
	runner *scripting.Runner
}

// NewRegistry creates an empty Registry evaluating predicates with runner.
// A nil runner gets a default sandboxed one.
func NewRegistry(runner *scripting.Runner) *Registry {
	if runner == nil {
		runner = scripting.NewRunner(0)
	}
	return &Registry{defs: make(map[string]*Def), runner: runner}
}

// Register adds def to the registry, overwriting any entry with the same ID.
//
// Precondition: def must not be nil and def.ID must not be empty.
func (r *Registry) Register(def *Def) {
	r.defs[def.ID] = def
}

// Get returns the Def for id, or (nil, false) if not found.
func (r *Registry) Get(id string) (*Def, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// All returns a snapshot slice of all registered Defs.
func (r *Registry) All() []*Def {
	out := make([]*Def, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	return out
}

// LoadDirectory reads every *.yaml file in dir into the registry.
//
// Precondition: dir must be a readable directory.
// Postcondition: returns an error if any file fails to parse or validate;
// previously registered defs are kept.
func (r *Registry) LoadDirectory(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading effect dir %q: %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %q: %w", path, err)
		}
		var def Def
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := def.Validate(); err != nil {
			return fmt.Errorf("invalid effect in %q: %w", path, err)
		}
		r.Register(&def)
	}
	return nil
}

// Builtin returns a Registry pre-populated with the stock effects.
func Builtin() *Registry {
	r := NewRegistry(nil)
	for _, d := range []*Def{
		{
			ID: "bleeding", Name: "Bleeding", Stackable: true, MaxStacks: 5,
			DurationBase: 3, DurationPerIntensity: 2, MaxDuration: 10,
			DamagePerTurn: 1, DamageType: "cut",
			InducedBy: &InducedBy{DamageType: "cut", MinDamage: 5},
		},
		{
			ID: "burning", Name: "Burning", Stackable: true, MaxStacks: 3,
			DurationBase: 2, DurationPerIntensity: 1, MaxDuration: 6,
			DamagePerTurn: 2, DamageType: "heat",
			InducedBy: &InducedBy{DamageType: "heat", MinDamage: 3},
		},
		{
			ID: "stunned", Name: "Stunned",
			DurationBase: 1, DurationPerIntensity: 1, MaxDuration: 3,
			Modifiers: []Modifier{
				{Stat: StatHit, Value: -4},
				{Stat: StatSpeed, Value: -30, Percent: true},
			},
			InducedBy: &InducedBy{DamageType: "bash", MinDamage: 8, Part: body.PartHead},
		},
		{
			ID: "broken", Name: "Broken",
			DurationBase: 50, MaxDuration: 100,
			InducedBy: &InducedBy{
				DamageType: "bash", MinDamage: 15,
				Predicate: "part ~= 'torso' and part ~= 'head'",
			},
		},
		{
			ID: "wounded", Name: "Wounded", Stackable: true, MaxStacks: 4,
			DurationBase: 5, DurationPerIntensity: 3, MaxDuration: 20,
			InducedBy: &InducedBy{MinDamage: 10},
		},
		{
			ID: "adrenaline", Name: "Adrenaline",
			DurationBase: 3, MaxDuration: 5,
			Modifiers: []Modifier{
				{Stat: StatHit, Value: 2, Cond: Condition{Role: RoleAttacker}},
				{Stat: StatDamage, Value: 10, Percent: true, Cond: Condition{Role: RoleAttacker}},
			},
			Triggers: []TriggerKind{TriggerOnKill},
		},
	} {
		r.Register(d)
	}
	return r
}
