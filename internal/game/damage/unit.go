package damage

import "math"

// Unit is one atomic damage contribution of a single type.
//
// Two multiplier pairs exist because some modifiers (a critical hit) must
// apply on the conditional stack before armor is subtracted, while others
// (certain effect bonuses) apply unconditionally, bypassing the conditional
// stack entirely.
//
// Invariant: Amount >= 0.
type Unit struct {
	Type        string  `yaml:"type"`
	Amount      float64 `yaml:"amount"`
	Penetration float64 `yaml:"penetration"`
	// ResistMult scales the effective resistance on the conditional stack.
	ResistMult float64 `yaml:"resist_mult"`
	// DamageMult scales the raw amount on the conditional stack.
	DamageMult float64 `yaml:"damage_mult"`
	// UncondResistMult scales the effective resistance unconditionally.
	UncondResistMult float64 `yaml:"uncond_resist_mult"`
	// UncondDamageMult scales the raw amount unconditionally.
	UncondDamageMult float64 `yaml:"uncond_damage_mult"`
}

// NewUnit returns a Unit of typeID with the given amount and all four
// multipliers at 1.0. A negative amount degrades to zero.
//
// Postcondition: u.Amount >= 0; u.ScaledAmount() == floor(max(amount, 0)).
func NewUnit(typeID string, amount, penetration float64) Unit {
	if amount < 0 {
		amount = 0
	}
	if penetration < 0 {
		penetration = 0
	}
	return Unit{
		Type:             typeID,
		Amount:           amount,
		Penetration:      penetration,
		ResistMult:       1,
		DamageMult:       1,
		UncondResistMult: 1,
		UncondDamageMult: 1,
	}
}

// Normalize fills zero-valued multipliers with 1.0 and clamps Amount and
// Penetration at zero. Used when rehydrating units from their plain-data
// form, where omitted optional fields decode as zero.
//
// Postcondition: all four multipliers are non-zero; Amount >= 0.
func (u Unit) Normalize() Unit {
	if u.Amount < 0 {
		u.Amount = 0
	}
	if u.Penetration < 0 {
		u.Penetration = 0
	}
	if u.ResistMult == 0 {
		u.ResistMult = 1
	}
	if u.DamageMult == 0 {
		u.DamageMult = 1
	}
	if u.UncondResistMult == 0 {
		u.UncondResistMult = 1
	}
	if u.UncondDamageMult == 0 {
		u.UncondDamageMult = 1
	}
	return u
}

// ScaledAmount returns the final scalar amount of this unit:
// floor(Amount * DamageMult * UncondDamageMult).
//
// Postcondition: returns >= 0.
func (u Unit) ScaledAmount() int {
	v := math.Floor(u.Amount * u.DamageMult * u.UncondDamageMult)
	if v < 0 {
		return 0
	}
	return int(v)
}

// ScaledResistMult returns the combined resistance multiplier applied to
// effective armor: ResistMult * UncondResistMult.
func (u Unit) ScaledResistMult() float64 {
	return u.ResistMult * u.UncondResistMult
}

// MultDamage returns a copy of u with the damage multiplier scaled by
// factor. preArmor selects the conditional stack (crit-style modifiers);
// otherwise the unconditional multiplier is scaled.
func (u Unit) MultDamage(factor float64, preArmor bool) Unit {
	if preArmor {
		u.DamageMult *= factor
	} else {
		u.UncondDamageMult *= factor
	}
	return u
}

// MultResistance returns a copy of u with the resistance multiplier scaled
// by factor, on the conditional stack when preArmor is true.
func (u Unit) MultResistance(factor float64, preArmor bool) Unit {
	if preArmor {
		u.ResistMult *= factor
	} else {
		u.UncondResistMult *= factor
	}
	return u
}
