package effect

import "github.com/hexforged/scourge/internal/game/damage"

// Context describes the attack being resolved so modifier conditions can
// match against it.
type Context struct {
	// Role is the side the bearer of the effects plays in this attack.
	Role Role
	// DamageType is the dominant damage type of the attack; empty matches
	// only unconditioned modifiers.
	DamageType string
	// AttackType is the attack kind (melee/ranged/throw).
	AttackType damage.AttackKind
}

// CombatModifier is the aggregate of every matching effect modifier.
// Additive bonuses and multiplicative factors are folded separately;
// Apply* methods combine them as (base + additive) * factor.
type CombatModifier struct {
	Hit        float64
	Damage     float64
	Armor      float64
	Speed      float64
	CritChance float64
	Dispersion float64

	HitMult        float64
	DamageMult     float64
	ArmorMult      float64
	SpeedMult      float64
	CritChanceMult float64
	DispersionMult float64
}

// NewCombatModifier returns the identity modifier.
func NewCombatModifier() CombatModifier {
	return CombatModifier{
		HitMult:        1,
		DamageMult:     1,
		ArmorMult:      1,
		SpeedMult:      1,
		CritChanceMult: 1,
		DispersionMult: 1,
	}
}

// matches reports whether cond admits this context and intensity.
func (c Condition) matches(ctx Context, intensity float64) bool {
	if c.Role != "" && c.Role != RoleAny && c.Role != ctx.Role {
		return false
	}
	if c.DamageType != "" && c.DamageType != ctx.DamageType {
		return false
	}
	if c.AttackType != "" && c.AttackType != string(ctx.AttackType) {
		return false
	}
	if intensity < c.MinIntensity {
		return false
	}
	return true
}

// Modifiers folds every active, condition-matching effect modifier into one
// aggregate CombatModifier. Additive values scale with the effect's stack
// count; percentage values apply once per active effect.
func (s *Set) Modifiers(ctx Context) CombatModifier {
	m := NewCombatModifier()
	for _, a := range s.All() {
		for _, mod := range a.Def.Modifiers {
			if !mod.Cond.matches(ctx, a.Intensity) {
				continue
			}
			if mod.Percent {
				factor := 1 + mod.Value/100
				switch mod.Stat {
				case StatHit:
					m.HitMult *= factor
				case StatDamage:
					m.DamageMult *= factor
				case StatArmor:
					m.ArmorMult *= factor
				case StatSpeed:
					m.SpeedMult *= factor
				case StatCritChance:
					m.CritChanceMult *= factor
				case StatDispersion:
					m.DispersionMult *= factor
				}
				continue
			}
			add := mod.Value * float64(a.Stacks)
			switch mod.Stat {
			case StatHit:
				m.Hit += add
			case StatDamage:
				m.Damage += add
			case StatArmor:
				m.Armor += add
			case StatSpeed:
				m.Speed += add
			case StatCritChance:
				m.CritChance += add
			case StatDispersion:
				m.Dispersion += add
			}
		}
	}
	return m
}

// ApplyHit returns the modified hit value.
func (m CombatModifier) ApplyHit(base float64) float64 {
	return (base + m.Hit) * m.HitMult
}

// ApplyDamage returns the modified damage value.
func (m CombatModifier) ApplyDamage(base float64) float64 {
	return (base + m.Damage) * m.DamageMult
}

// ApplyArmor returns the modified armor value, floored at zero.
func (m CombatModifier) ApplyArmor(base float64) float64 {
	v := (base + m.Armor) * m.ArmorMult
	if v < 0 {
		return 0
	}
	return v
}

// ApplySpeed returns the modified speed value.
func (m CombatModifier) ApplySpeed(base float64) float64 {
	return (base + m.Speed) * m.SpeedMult
}

// ApplyCritChance returns the modified crit chance.
func (m CombatModifier) ApplyCritChance(base float64) float64 {
	return (base + m.CritChance) * m.CritChanceMult
}

// ApplyDispersion returns the modified dispersion, floored at zero.
func (m CombatModifier) ApplyDispersion(base float64) float64 {
	v := (base + m.Dispersion) * m.DispersionMult
	if v < 0 {
		return 0
	}
	return v
}

// EffectResistances overlays every active effect's resistance bonuses onto
// base and returns the result; base is not modified.
func (s *Set) EffectResistances(base damage.Resistances) damage.Resistances {
	out := base.Clone()
	for _, a := range s.All() {
		for typeID, bonus := range a.Def.ResistanceBonus {
			out = out.WithBase(typeID, out.Base[typeID]+bonus)
		}
	}
	return out
}

// Triggered returns the active effects that should fire hooks for kind.
// It is a pure query: no numbers change and no state mutates.
func (s *Set) Triggered(kind TriggerKind) []*Active {
	var out []*Active
	for _, a := range s.All() {
		if a.Def.HasTrigger(kind) {
			out = append(out, a)
		}
	}
	return out
}
