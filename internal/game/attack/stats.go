package attack

import (
	"github.com/hexforged/scourge/internal/game/body"
	"github.com/hexforged/scourge/internal/game/damage"
	"github.com/hexforged/scourge/internal/game/gear"
)

// AttackerStats carries the attacker-side numbers a resolver needs after
// status-effect modifiers have already been folded in.
type AttackerStats struct {
	Accuracy float64
	// CritBonus stacks on top of the attack's own crit bonus.
	CritBonus float64
	// Luck is an additive crit probability in [0,1); it feeds the lucky
	// crit roll a connecting non-crit band still gets.
	Luck float64
	// SkillLevel discounts ranged move cost, 5 points per level.
	SkillLevel int
}

// DefenderStats carries the defender-side numbers a resolver needs.
type DefenderStats struct {
	Dodge float64
	// SizeScale skews melee part selection: larger targets expose the
	// torso and legs more.
	SizeScale float64
}

// MeleeInput bundles everything one melee swing needs.
type MeleeInput struct {
	Attacker AttackerStats
	Defender DefenderStats
	Attack   damage.Attack
	// AimedPart, when non-empty, is honored with probability
	// min(0.9, accuracy/20); otherwise the melee weights pick.
	AimedPart body.Part
	// WeaponWeight drives the move cost of the swing.
	WeaponWeight float64
}

// MeleeDefense describes the defender's active responses, tried in order:
// block first, then dodge.
type MeleeDefense struct {
	// BlockChance is the probability in [0,1] the defender blocks.
	BlockChance float64
	// BlockReduction is the flat damage removed by a successful block.
	BlockReduction float64
	// DodgeChance is the probability in [0,1] the defender dodges after a
	// failed block.
	DodgeChance float64
}

// RangedInput bundles everything one trigger pull needs.
type RangedInput struct {
	Attacker AttackerStats
	Defender DefenderStats
	Attack   damage.Attack
	Distance int
	Mode     gear.FireMode
	// MaxShots, when > 0, caps the fire mode's shot count; the caller
	// sets it to the rounds left in the magazine.
	MaxShots int
	// AimBonus is added to accuracy for every shot of this action.
	AimBonus float64
	// AimQuality in [0,1] is the probability each connecting shot honors
	// AimedPart instead of the damage weights.
	AimQuality float64
	AimedPart  body.Part
}
