// Package combat implements the stateful combat session: the turn queue,
// the public action API, equipment wear, and win detection. Every action
// resolves against a snapshot and returns a fresh Session value; a failed
// action returns the input snapshot untouched.
package combat

import (
	"github.com/hexforged/scourge/internal/game/attack"
	"github.com/hexforged/scourge/internal/game/body"
	"github.com/hexforged/scourge/internal/game/damage"
	"github.com/hexforged/scourge/internal/game/effect"
	"github.com/hexforged/scourge/internal/game/gear"
	"github.com/hexforged/scourge/internal/game/health"
)

// Stats holds a combatant's combat-relevant numbers before effect
// modifiers are applied.
type Stats struct {
	Accuracy  float64
	Dodge     float64
	CritBonus float64
	Luck      float64
	// SizeScale skews where melee strikes land; 1 is human-sized.
	SizeScale float64
	// SkillLevels maps skill IDs (blades, smg, ...) to levels.
	SkillLevels map[string]int
}

// SkillLevel returns the level for skill, zero when untrained.
func (s Stats) SkillLevel(skill string) int {
	return s.SkillLevels[skill]
}

// Combatant is one participant. The session owns every combatant for the
// lifetime of the fight; outside writers go through the action API.
type Combatant struct {
	ID   string
	Name string
	Team string

	Stats Stats
	Pool  health.Pool
	// Resist is the innate resistance table, before armor and effects.
	Resist damage.Resistances

	// MovePoints is the budget left this turn; refilled to
	// MaxMovePoints when the queue rolls over.
	MovePoints    int
	MaxMovePoints int

	Weapon   *gear.WeaponDef
	Magazine *gear.Magazine
	Armor    []*gear.ArmorInstance

	// Effects is the status-effect manager supplied by the creature; nil
	// means the combatant cannot carry effects.
	Effects *effect.Set

	// Defense is the melee block/dodge capability, resolved once at join
	// time; nil means the combatant never blocks or dodges actively.
	Defense *attack.MeleeDefense

	// CanAct is cleared by stuns and by death.
	CanAct bool
}

// Alive reports whether the combatant still has all lethal parts.
func (c *Combatant) Alive() bool {
	return !c.Pool.Dead()
}

// clone deep-copies the combatant so snapshot sessions never alias state.
func (c *Combatant) clone() *Combatant {
	cp := *c
	cp.Pool = c.Pool.Clone()
	cp.Resist = c.Resist.Clone()
	if c.Magazine != nil {
		cp.Magazine = c.Magazine.Clone()
	}
	if c.Armor != nil {
		cp.Armor = make([]*gear.ArmorInstance, len(c.Armor))
		for i, ai := range c.Armor {
			cp.Armor[i] = ai.Clone()
		}
	}
	if c.Effects != nil {
		cp.Effects = c.Effects.Clone()
	}
	if c.Defense != nil {
		d := *c.Defense
		cp.Defense = &d
	}
	if c.Stats.SkillLevels != nil {
		levels := make(map[string]int, len(c.Stats.SkillLevels))
		for k, v := range c.Stats.SkillLevels {
			levels[k] = v
		}
		cp.Stats.SkillLevels = levels
	}
	return &cp
}

// combinedResistances composes the combatant's innate table with every
// unbroken armor piece (part-level, max wins) and overlays effect-granted
// bonuses.
func (c *Combatant) combinedResistances() damage.Resistances {
	res := c.Resist
	for _, ai := range c.Armor {
		if ai.Broken() {
			continue
		}
		for _, part := range ai.Def.Covers {
			for typeID, v := range ai.Def.Resistances {
				if v > res.Effective(part, typeID) {
					res = res.WithPart(part, typeID, v)
				}
			}
		}
	}
	if c.Effects != nil {
		res = c.Effects.EffectResistances(res)
	}
	return res
}

// armorCovering returns the first unbroken armor piece protecting part.
func (c *Combatant) armorCovering(part body.Part) *gear.ArmorInstance {
	for _, ai := range c.Armor {
		if !ai.Broken() && ai.Def.CoversPart(part) {
			return ai
		}
	}
	return nil
}
