package damage

// Instance is an ordered collection of damage Units plus the status-effect
// tags a successful hit or damage event may trigger.
//
// Invariant: at most one Unit per damage type. Adding damage of an existing
// type merges into the existing unit — amounts sum, penetration takes the
// max — never duplicates.
type Instance struct {
	Units           []Unit   `yaml:"units"`
	OnHitEffects    []string `yaml:"on_hit_effects"`
	OnDamageEffects []string `yaml:"on_damage_effects"`
}

// NewInstance returns an empty Instance.
func NewInstance() Instance {
	return Instance{}
}

// AddDamage merges a new contribution of typeID into the instance and
// returns the updated copy.
//
// Postcondition: exactly one unit exists for typeID; its amount is the sum
// of all contributions and its penetration the max.
func (d Instance) AddDamage(typeID string, amount, penetration float64) Instance {
	return d.AddUnit(NewUnit(typeID, amount, penetration))
}

// AddUnit merges u into the instance and returns the updated copy.
// When a unit of the same type already exists, amounts sum and penetration
// takes the max; the existing unit's multipliers are kept.
func (d Instance) AddUnit(u Unit) Instance {
	u = u.Normalize()
	units := make([]Unit, len(d.Units))
	copy(units, d.Units)
	d.Units = units
	for i := range d.Units {
		if d.Units[i].Type == u.Type {
			d.Units[i].Amount += u.Amount
			if u.Penetration > d.Units[i].Penetration {
				d.Units[i].Penetration = u.Penetration
			}
			return d
		}
	}
	d.Units = append(d.Units, u)
	return d
}

// WithEffectTags returns a copy with the given on-hit and on-damage effect
// tags appended.
func (d Instance) WithEffectTags(onHit, onDamage []string) Instance {
	d.OnHitEffects = append(append([]string{}, d.OnHitEffects...), onHit...)
	d.OnDamageEffects = append(append([]string{}, d.OnDamageEffects...), onDamage...)
	return d
}

// MultDamage returns a copy with every unit's damage multiplier scaled by
// factor on the selected stack.
func (d Instance) MultDamage(factor float64, preArmor bool) Instance {
	units := make([]Unit, len(d.Units))
	for i, u := range d.Units {
		units[i] = u.MultDamage(factor, preArmor)
	}
	d.Units = units
	return d
}

// Empty reports whether the instance carries no damage at all.
func (d Instance) Empty() bool {
	for _, u := range d.Units {
		if u.ScaledAmount() > 0 {
			return false
		}
	}
	return true
}

// TotalAmount returns the sum of every unit's scaled amount, before armor.
//
// Postcondition: returns >= 0.
func (d Instance) TotalAmount() int {
	total := 0
	for _, u := range d.Units {
		total += u.ScaledAmount()
	}
	return total
}

// Normalize returns a copy with every unit normalized. Use after decoding
// an Instance from its plain-data form.
func (d Instance) Normalize() Instance {
	units := make([]Unit, len(d.Units))
	for i, u := range d.Units {
		units[i] = u.Normalize()
	}
	d.Units = units
	return d
}
