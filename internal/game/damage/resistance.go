package damage

import "github.com/hexforged/scourge/internal/game/body"

// ImmunityThreshold is the resistance value at and above which a creature
// is treated as totally immune to a damage type.
const ImmunityThreshold = 1000

// Resistances maps damage-type IDs to resistance values, with optional
// per-body-part overrides.
//
// Invariant: values are clamped >= 0. The effective resistance for a
// (part, type) pair is max(base, part-specific) — never additive.
type Resistances struct {
	Base  map[string]float64               `yaml:"base"`
	Parts map[body.Part]map[string]float64 `yaml:"parts"`
}

// NewResistances returns an empty resistance table.
func NewResistances() Resistances {
	return Resistances{Base: make(map[string]float64)}
}

// WithBase returns a copy with the base resistance for typeID set,
// clamped at zero.
func (r Resistances) WithBase(typeID string, value float64) Resistances {
	if value < 0 {
		value = 0
	}
	base := make(map[string]float64, len(r.Base)+1)
	for k, v := range r.Base {
		base[k] = v
	}
	base[typeID] = value
	r.Base = base
	return r
}

// WithPart returns a copy with the part-specific resistance for typeID set,
// clamped at zero.
func (r Resistances) WithPart(part body.Part, typeID string, value float64) Resistances {
	if value < 0 {
		value = 0
	}
	parts := make(map[body.Part]map[string]float64, len(r.Parts)+1)
	for p, m := range r.Parts {
		cp := make(map[string]float64, len(m))
		for k, v := range m {
			cp[k] = v
		}
		parts[p] = cp
	}
	if parts[part] == nil {
		parts[part] = make(map[string]float64)
	}
	parts[part][typeID] = value
	r.Parts = parts
	return r
}

// Effective returns the resistance used for (part, typeID):
// max(base[typeID], part-specific[typeID]). Falls back to the base value
// when no part override exists; missing entries count as zero.
//
// Postcondition: returns >= 0.
func (r Resistances) Effective(part body.Part, typeID string) float64 {
	v := r.Base[typeID]
	if m, ok := r.Parts[part]; ok {
		if pv, ok := m[typeID]; ok && pv > v {
			v = pv
		}
	}
	if v < 0 {
		return 0
	}
	return v
}

// Immune reports whether the creature is totally immune to typeID on part.
func (r Resistances) Immune(part body.Part, typeID string) bool {
	return r.Effective(part, typeID) >= ImmunityThreshold
}

// ImmuneToAll reports whether every unit in d is fully blocked by immunity
// on every body part. An empty instance counts as immune-to-all: it cannot
// deal damage anywhere.
func (r Resistances) ImmuneToAll(d Instance) bool {
	for _, u := range d.Units {
		for _, p := range body.All() {
			if !r.Immune(p, u.Type) {
				return false
			}
		}
	}
	return true
}

// Clone returns a deep copy of the table.
func (r Resistances) Clone() Resistances {
	out := NewResistances()
	for k, v := range r.Base {
		out.Base[k] = v
	}
	if r.Parts != nil {
		out.Parts = make(map[body.Part]map[string]float64, len(r.Parts))
		for p, m := range r.Parts {
			cp := make(map[string]float64, len(m))
			for k, v := range m {
				cp[k] = v
			}
			out.Parts[p] = cp
		}
	}
	return out
}
