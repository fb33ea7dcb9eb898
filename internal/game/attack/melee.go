package attack

import (
	"math"

	"github.com/hexforged/scourge/internal/game/body"
	"github.com/hexforged/scourge/internal/game/damage"
	"github.com/hexforged/scourge/internal/game/gear"
	"github.com/hexforged/scourge/internal/game/health"
	"github.com/hexforged/scourge/internal/game/rng"
)

// meleeBaseCost is the move cost of an unencumbered swing before the
// weapon's weight surcharge.
const meleeBaseCost = 100

// aimedPartCap bounds the probability an aimed part is honored.
const aimedPartCap = 0.9

// MeleeResult records one resolved swing.
type MeleeResult struct {
	Roll HitRoll
	// CritMult is the multiplier the swing landed with; 1 for non-crits.
	CritMult float64
	// Blocked and Dodged record a defended swing. A dodged swing deals no
	// damage; a blocked one is reduced by the block's flat reduction.
	Blocked bool
	Dodged  bool
	// BlockWear is the durability the blocking item absorbed.
	BlockWear int
	Apply     health.Result
	Pool      health.Pool
	MoveCost  int
}

// BuildMeleeAttack assembles the attack one swing of w delivers.
//
// Precondition: w is a validated melee weapon (panics on a gun).
func BuildMeleeAttack(w *gear.WeaponDef) damage.Attack {
	if !w.IsMelee() {
		panic("attack: BuildMeleeAttack: weapon is not melee")
	}
	d := damage.NewInstance().AddDamage(w.DamageType, w.Damage, w.Penetration)
	return damage.NewAttack(damage.AttackMelee, d).
		WithToHit(w.ToHit).
		WithSkill(w.Skill, 0).
		WithCrit(w.EffectiveCritMult(), w.CritBonus)
}

// ExecuteMeleeAttack resolves one undefended swing: hit roll, part
// selection, damage application, move cost.
//
// Precondition: src and tax non-nil; in.Attack.Kind is melee.
// Postcondition: pool is unchanged on a miss; the result's Pool is the
// post-swing state.
func ExecuteMeleeAttack(src rng.Source, tax *damage.Taxonomy, params damage.Params,
	in MeleeInput, res damage.Resistances, pool health.Pool) MeleeResult {

	if in.Attack.Kind != damage.AttackMelee {
		panic("attack: ExecuteMeleeAttack: attack kind is not melee")
	}

	critBonus := in.Attack.CritBonus + in.Attacker.CritBonus
	roll := RollHit(src, in.Attacker.Accuracy, in.Attack.ToHit, in.Defender.Dodge,
		critBonus, 0, 0, false)

	out := MeleeResult{Roll: roll, CritMult: 1, Pool: pool}
	if !roll.IsHit() {
		out.MoveCost = meleeMoveCost(in.WeaponWeight, roll.Outcome)
		return out
	}

	out.CritMult = resolveCritMult(src, roll, in.Attack, critBonus, in.Attacker.Luck, params)

	part := pickMeleePart(src, in.AimedPart, in.Attacker.Accuracy, in.Defender.SizeScale, pool)
	out.Pool, out.Apply = health.ApplyDamage(pool, tax, in.Attack.Damage, res,
		part, out.CritMult, src, params)
	out.MoveCost = meleeMoveCost(in.WeaponWeight, roll.Outcome)
	return out
}

// resolveCritMult turns a connecting roll into the damage multiplier. A
// CRIT band grants the attack's multiplier outright, doubled again on a
// double-crit. Every other connecting band still rolls the luck path:
// base crit chance plus the crit bonus read as percent plus attacker luck.
func resolveCritMult(src rng.Source, roll HitRoll, atk damage.Attack,
	critBonus, luck float64, p damage.Params) float64 {

	if roll.Outcome == OutcomeCrit {
		m := atk.CritMult
		if roll.DoubleCrit {
			m *= 2
		}
		return m
	}
	return damage.RollCritMultiplier(src, critBonus/100, luck, atk.CritMult, p)
}

// ExecuteMeleeAttackWithDefense resolves a swing against a defender who may
// block or dodge. Block is rolled first: a successful block subtracts a flat
// amount from the swing's damage and wears the blocking item. A failed block
// falls through to the dodge roll; a successful dodge negates the swing
// entirely.
func ExecuteMeleeAttackWithDefense(src rng.Source, tax *damage.Taxonomy, params damage.Params,
	in MeleeInput, def MeleeDefense, res damage.Resistances, pool health.Pool) MeleeResult {

	if in.Attack.Kind != damage.AttackMelee {
		panic("attack: ExecuteMeleeAttackWithDefense: attack kind is not melee")
	}

	critBonus := in.Attack.CritBonus + in.Attacker.CritBonus
	roll := RollHit(src, in.Attacker.Accuracy, in.Attack.ToHit, in.Defender.Dodge,
		critBonus, 0, 0, false)

	out := MeleeResult{Roll: roll, CritMult: 1, Pool: pool}
	if !roll.IsHit() {
		out.MoveCost = meleeMoveCost(in.WeaponWeight, roll.Outcome)
		return out
	}

	d := in.Attack.Damage
	if rng.Chance(src, def.BlockChance) {
		out.Blocked = true
		out.BlockWear = int(math.Ceil(def.BlockReduction * 0.5))
		d = reduceInstance(d, def.BlockReduction)
	} else if rng.Chance(src, def.DodgeChance) {
		out.Dodged = true
		out.Roll.Outcome = OutcomeMiss
		out.Roll.MissedBy = 1
		out.MoveCost = meleeMoveCost(in.WeaponWeight, OutcomeMiss)
		return out
	}

	out.CritMult = resolveCritMult(src, roll, in.Attack, critBonus, in.Attacker.Luck, params)

	part := pickMeleePart(src, in.AimedPart, in.Attacker.Accuracy, in.Defender.SizeScale, pool)
	out.Pool, out.Apply = health.ApplyDamage(pool, tax, d, res,
		part, out.CritMult, src, params)
	out.MoveCost = meleeMoveCost(in.WeaponWeight, roll.Outcome)
	return out
}

// pickMeleePart honors an aimed part with probability min(0.9, accuracy/20)
// and otherwise draws from the size-scaled melee weights.
func pickMeleePart(src rng.Source, aimed body.Part, accuracy, sizeScale float64, pool health.Pool) body.Part {
	if aimed != "" && pool.Has(aimed) {
		p := math.Min(aimedPartCap, accuracy/20)
		if rng.Chance(src, p) {
			return aimed
		}
	}
	weights := body.MeleeWeights(sizeScale)
	var avail []body.Weight
	for _, w := range weights {
		if pool.Has(w.Part) {
			avail = append(avail, w)
		}
	}
	return body.PickWeighted(src, avail)
}

// meleeMoveCost is 100 + floor(weight*0.5), scaled 1.2x on a crit and 0.7x
// on a miss.
func meleeMoveCost(weight float64, outcome Outcome) int {
	cost := float64(meleeBaseCost + int(math.Floor(weight*0.5)))
	switch outcome {
	case OutcomeCrit:
		cost *= 1.2
	case OutcomeMiss:
		cost *= 0.7
	}
	return int(cost)
}

// reduceInstance subtracts a flat amount from the instance's units in
// order, clamping each at zero, and drops units that bottom out.
func reduceInstance(d damage.Instance, reduction float64) damage.Instance {
	if reduction <= 0 {
		return d
	}
	out := damage.NewInstance().WithEffectTags(d.OnHitEffects, d.OnDamageEffects)
	for _, u := range d.Units {
		if reduction >= u.Amount {
			reduction -= u.Amount
			continue
		}
		u.Amount -= reduction
		reduction = 0
		out = out.AddUnit(u)
	}
	return out
}
