package damage

import (
	"math"

	"github.com/hexforged/scourge/internal/game/body"
	"github.com/hexforged/scourge/internal/game/rng"
)

// Params carries the calculator tuning constants. The zero value is not
// usable; start from DefaultParams and override via configuration.
type Params struct {
	// PenetrationEfficiency scales armor penetration before it is
	// subtracted from resistance.
	PenetrationEfficiency float64
	// ArmorEfficiency scales the post-penetration armor value.
	ArmorEfficiency float64
	// BaseCritChance is the base probability of a critical hit, in [0, 1].
	BaseCritChance float64
}

// DefaultParams returns the stock tuning.
func DefaultParams() Params {
	return Params{
		PenetrationEfficiency: 1.0,
		ArmorEfficiency:       1.0,
		BaseCritChance:        0.05,
	}
}

// Result is the outcome of one Unit passing through the armor math.
type Result struct {
	Type string
	// Raw is the scaled pre-armor amount.
	Raw int
	// EffectiveArmor is the armor value after penetration and efficiency.
	EffectiveArmor float64
	// Final is the damage dealt, never negative.
	Final int
	// Blocked is true iff Final <= 0.
	Blocked bool
}

// Calculate runs one damage type through the armor pipeline:
//
//	effectivePenetration = floor(penetration * PenetrationEfficiency)
//	effectiveArmor       = max(0, resistance - effectivePenetration) * ArmorEfficiency
//	effectiveResistance  = effectiveArmor * resistMult
//	final                = max(0, floor(raw - effectiveResistance))
//
// Types flagged armor-ignoring bypass the armor math entirely regardless of
// the resistance value.
//
// Precondition: t non-nil.
// Postcondition: Final >= 0; Blocked == (Final <= 0).
func Calculate(t *Type, raw int, resistance, penetration, resistMult float64, p Params) Result {
	if raw < 0 {
		raw = 0
	}
	r := Result{Type: t.ID, Raw: raw}
	if t.IgnoresArmor {
		r.Final = raw
		r.Blocked = r.Final <= 0
		return r
	}
	effPen := math.Floor(penetration * p.PenetrationEfficiency)
	armor := resistance - effPen
	if armor < 0 {
		armor = 0
	}
	r.EffectiveArmor = armor * p.ArmorEfficiency
	effRes := r.EffectiveArmor * resistMult
	final := math.Floor(float64(raw) - effRes)
	if final < 0 {
		final = 0
	}
	r.Final = int(final)
	r.Blocked = r.Final <= 0
	return r
}

// InstanceResult aggregates per-unit results for one damage instance.
type InstanceResult struct {
	Units []Result
	// Total is the summed final damage across units.
	Total int
	// TotalRaw is the summed pre-armor damage across units.
	TotalRaw int
	// AllBlocked is true iff every unit was blocked.
	AllBlocked bool
}

// Absorbed returns how much of the raw damage the armor soaked.
//
// Postcondition: returns >= 0.
func (ir InstanceResult) Absorbed() int {
	a := ir.TotalRaw - ir.Total
	if a < 0 {
		return 0
	}
	return a
}

// CalculateInstance applies an optional crit multiplier as a pre-armor
// multiply, then runs every unit through Calculate against the effective
// resistance for part, summing totals.
//
// Precondition: tax non-nil; every unit type must be registered (panics on
// unknown types — malformed damage data is a caller bug).
// Postcondition: Total >= 0; AllBlocked iff every unit Blocked.
func CalculateInstance(tax *Taxonomy, d Instance, res Resistances, part body.Part, critMult float64, p Params) InstanceResult {
	if critMult > 0 && critMult != 1 {
		d = d.MultDamage(critMult, true)
	}
	ir := InstanceResult{AllBlocked: true}
	for _, u := range d.Units {
		t := tax.MustGet(u.Type)
		raw := u.ScaledAmount()
		r := Calculate(t, raw, res.Effective(part, u.Type), u.Penetration, u.ScaledResistMult(), p)
		ir.Units = append(ir.Units, r)
		ir.Total += r.Final
		ir.TotalRaw += r.Raw
		if !r.Blocked {
			ir.AllBlocked = false
		}
	}
	if len(ir.Units) == 0 {
		// An empty instance deals nothing and counts as fully blocked.
		ir.AllBlocked = true
	}
	return ir
}

// RollCritMultiplier resolves the critical multiplier for one attack.
// The crit chance is base + critBonus + luck. On success a second
// independent roll at half that chance decides a double-crit, doubling the
// multiplier again.
//
// Precondition: src non-nil; mult > 0.
// Postcondition: returns 1, mult, or mult*2.
func RollCritMultiplier(src rng.Source, critBonus, luck, mult float64, p Params) float64 {
	chance := p.BaseCritChance + critBonus + luck
	if !rng.Chance(src, chance) {
		return 1
	}
	if rng.Chance(src, chance/2) {
		return mult * 2
	}
	return mult
}
