package attack

import (
	"fmt"
	"math"

	"github.com/hexforged/scourge/internal/game/body"
	"github.com/hexforged/scourge/internal/game/damage"
	"github.com/hexforged/scourge/internal/game/gear"
	"github.com/hexforged/scourge/internal/game/health"
	"github.com/hexforged/scourge/internal/game/rng"
)

// Ranged move cost: per-mode base, plus 5 per tile of distance, minus
// 5 per skill level capped at 50, never below the floor.
const (
	rangedCostSingle   = 80
	rangedCostBurst    = 150
	rangedCostAuto     = 200
	rangedCostPerTile  = 5
	rangedSkillPerLvl  = 5
	rangedSkillCap     = 50
	rangedCostFloor    = 50
	autoExtraRoundOdds = 0.1
)

// Offset is a scatter displacement in tile units relative to the intended
// target point.
type Offset struct {
	X float64
	Y float64
}

// ShotResult records one round fired within a ranged action.
type ShotResult struct {
	Roll  HitRoll
	Apply health.Result
	// Scatter is where a missed round landed relative to the target.
	// Zero for connecting rounds.
	Scatter Offset
}

// RangedResult records one resolved trigger pull.
type RangedResult struct {
	Shots []ShotResult
	Pool  health.Pool
	// TotalDamage sums HP removed across all shots.
	TotalDamage int
	// AmmoUsed is the rounds the action should consume: the shot count,
	// plus an occasional extra round chewed up on full auto.
	AmmoUsed int
	MoveCost int
}

// ShotCount draws the number of rounds a fire mode sends per action:
// 1 for single, 3 for burst, uniform [5, 10] for auto.
//
// Precondition: mode is a known fire mode (panics otherwise).
func ShotCount(src rng.Source, mode gear.FireMode) int {
	switch mode {
	case gear.FireModeSingle:
		return 1
	case gear.FireModeBurst:
		return 3
	case gear.FireModeAuto:
		return rng.IntBetween(src, 5, 10)
	default:
		panic(fmt.Sprintf("attack: ShotCount: unknown fire mode %q", mode))
	}
}

// BuildRangedAttack assembles the attack one round from w loaded with ammo
// delivers. A nil ammo fires the weapon's bare profile.
//
// Precondition: w is a validated gun (panics on a melee weapon).
func BuildRangedAttack(w *gear.WeaponDef, ammo *gear.AmmoDef) damage.Attack {
	if !w.IsGun() {
		panic("attack: BuildRangedAttack: weapon is not a gun")
	}
	amount := w.Damage
	pen := w.Penetration
	if ammo != nil {
		amount += ammo.DamageBonus
		pen += ammo.PenetrationBonus
	}
	d := damage.NewInstance().AddDamage(w.DamageType, amount, pen)
	return damage.NewAttack(damage.AttackRanged, d).
		WithToHit(w.ToHit).
		WithDispersion(w.Dispersion).
		WithRange(w.Range).
		WithSkill(w.Skill, 0).
		WithCrit(w.EffectiveCritMult(), w.CritBonus)
}

// ExecuteRangedAttack resolves one trigger pull: each round of the fire
// mode gets an independent hit roll, connecting rounds apply damage,
// missing rounds scatter.
//
// The resolver stops rolling once the pool is dead but still reports the
// full ammo consumption. Ammo availability is the caller's concern; clamp
// AmmoUsed against the magazine before consuming.
//
// Precondition: src and tax non-nil; in.Attack.Kind is ranged; in.Distance
// >= 0.
func ExecuteRangedAttack(src rng.Source, tax *damage.Taxonomy, params damage.Params,
	in RangedInput, res damage.Resistances, pool health.Pool) RangedResult {

	if in.Attack.Kind != damage.AttackRanged {
		panic("attack: ExecuteRangedAttack: attack kind is not ranged")
	}
	if in.Distance < 0 {
		panic("attack: ExecuteRangedAttack: distance must be >= 0")
	}

	shots := ShotCount(src, in.Mode)
	if in.MaxShots > 0 && shots > in.MaxShots {
		shots = in.MaxShots
	}
	out := RangedResult{Pool: pool, AmmoUsed: shots}
	if in.Mode == gear.FireModeAuto && rng.Chance(src, autoExtraRoundOdds) {
		out.AmmoUsed++
	}

	accuracy := in.Attacker.Accuracy + in.AimBonus
	critBonus := in.Attack.CritBonus + in.Attacker.CritBonus
	for i := 0; i < shots && !out.Pool.Dead(); i++ {
		roll := RollHit(src, accuracy, in.Attack.ToHit, in.Defender.Dodge,
			critBonus, in.Attack.Dispersion, in.Distance, true)

		shot := ShotResult{Roll: roll}
		if roll.IsHit() {
			critMult := resolveCritMult(src, roll, in.Attack, critBonus, in.Attacker.Luck, params)
			part := pickRangedPart(src, in.AimedPart, in.AimQuality, out.Pool)
			out.Pool, shot.Apply = health.ApplyDamage(out.Pool, tax, in.Attack.Damage,
				res, part, critMult, src, params)
			out.TotalDamage += shot.Apply.Damage
		} else {
			shot.Scatter = scatterOffset(src, roll, in.Distance)
		}
		out.Shots = append(out.Shots, shot)
	}

	out.MoveCost = rangedMoveCost(in.Mode, in.Distance, in.Attacker.SkillLevel)
	return out
}

// pickRangedPart honors the aimed part with the aim quality as probability
// and otherwise draws from the standard damage weights.
func pickRangedPart(src rng.Source, aimed body.Part, quality float64, pool health.Pool) body.Part {
	if aimed != "" && pool.Has(aimed) && rng.Chance(src, quality) {
		return aimed
	}
	// Empty part lets the damage handler run its own weighted pick.
	return ""
}

// scatterOffset places a missed round. The radius is the deviation in tile
// units at distance; the direction deviates from the line of fire by a
// uniform angle within the dispersion cone.
func scatterOffset(src rng.Source, roll HitRoll, distance int) Offset {
	radius := roll.MissedByTiles(distance)
	if radius == 0 {
		return Offset{}
	}
	theta := (src.Float64()*2 - 1) * dispersionRadians(roll.Dispersion)
	return Offset{
		X: radius * math.Cos(theta),
		Y: radius * math.Sin(theta),
	}
}

// dispersionRadians converts dispersion from arcminutes to radians.
func dispersionRadians(dispersion float64) float64 {
	return dispersion * math.Pi / (180 * 60)
}

// rangedMoveCost is the per-mode base plus a distance surcharge, discounted
// by skill and floored at 50.
func rangedMoveCost(mode gear.FireMode, distance, skillLevel int) int {
	var base int
	switch mode {
	case gear.FireModeSingle:
		base = rangedCostSingle
	case gear.FireModeBurst:
		base = rangedCostBurst
	case gear.FireModeAuto:
		base = rangedCostAuto
	default:
		panic(fmt.Sprintf("attack: rangedMoveCost: unknown fire mode %q", mode))
	}
	discount := skillLevel * rangedSkillPerLvl
	if discount > rangedSkillCap {
		discount = rangedSkillCap
	}
	cost := base + distance*rangedCostPerTile - discount
	if cost < rangedCostFloor {
		cost = rangedCostFloor
	}
	return cost
}
