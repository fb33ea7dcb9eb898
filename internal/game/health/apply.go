package health

import (
	"fmt"

	"github.com/hexforged/scourge/internal/game/body"
	"github.com/hexforged/scourge/internal/game/damage"
	"github.com/hexforged/scourge/internal/game/rng"
)

// Result records the outcome of applying one damage instance to a pool.
type Result struct {
	// Hit is false when the target was immune to every unit's type.
	Hit bool
	// Part is the body part that took the damage.
	Part body.Part
	// Damage is the HP actually removed.
	Damage int
	// Killed is true when a lethal part dropped to <= 0.
	Killed bool
	// Disabled is true when a non-lethal part dropped to <= 0.
	Disabled bool
	// Calc holds the per-unit calculator output.
	Calc damage.InstanceResult
}

// AoePolicy selects how ApplyAoe distributes an instance across parts.
type AoePolicy string

const (
	// AoeEqual splits the total evenly across parts.
	AoeEqual AoePolicy = "equal"
	// AoeRandom assigns random proportional shares to parts.
	AoeRandom AoePolicy = "random"
	// AoeFull applies the complete instance to each part independently.
	AoeFull AoePolicy = "full"
)

// ApplyDamage resolves a target part (explicit, or a weighted random pick
// when part is empty), runs the calculator, and decrements HP.
//
// If the pool's owner is immune to every unit's type, returns a non-hit
// Result and the pool is unchanged.
//
// Precondition: tax and src non-nil; part, when non-empty, must exist in
// the pool (panics otherwise).
// Postcondition: the returned pool differs from p only at Result.Part.
func ApplyDamage(p Pool, tax *damage.Taxonomy, d damage.Instance, res damage.Resistances,
	part body.Part, critMult float64, src rng.Source, params damage.Params) (Pool, Result) {

	if res.ImmuneToAll(d) {
		return p, Result{Hit: false}
	}
	if part == "" {
		part = body.PickWeighted(src, poolWeights(p, body.DamageWeights()))
	} else if !p.Has(part) {
		panic(fmt.Sprintf("health: ApplyDamage: pool has no part %q", part))
	}

	calc := damage.CalculateInstance(tax, d, res, part, critMult, params)
	return applyToPart(p, part, calc)
}

// applyToPart decrements HP on part by calc.Total and fills kill/disable
// flags.
func applyToPart(p Pool, part body.Part, calc damage.InstanceResult) (Pool, Result) {
	hp := p.Get(part)
	wasDestroyed := hp.Current <= 0
	hp.Current -= calc.Total
	out := p.set(part, hp)

	r := Result{Hit: true, Part: part, Damage: calc.Total, Calc: calc}
	if !wasDestroyed && out.Destroyed(part) {
		if body.Lethal(part) {
			r.Killed = true
		} else {
			r.Disabled = true
		}
	}
	return out, r
}

// ApplyAoe distributes d across parts according to policy.
//
// Precondition: tax and src non-nil; parts non-empty; every listed part in
// the pool.
// Postcondition: returns one Result per struck part, in parts order.
func ApplyAoe(p Pool, tax *damage.Taxonomy, d damage.Instance, res damage.Resistances,
	parts []body.Part, policy AoePolicy, src rng.Source, params damage.Params) (Pool, []Result) {

	if len(parts) == 0 {
		panic("health: ApplyAoe: parts must not be empty")
	}
	for _, part := range parts {
		if !p.Has(part) {
			panic(fmt.Sprintf("health: ApplyAoe: pool has no part %q", part))
		}
	}

	var shares []float64
	switch policy {
	case AoeEqual:
		shares = make([]float64, len(parts))
		for i := range shares {
			shares[i] = 1 / float64(len(parts))
		}
	case AoeRandom:
		shares = make([]float64, len(parts))
		total := 0.0
		for i := range shares {
			shares[i] = src.Float64()
			total += shares[i]
		}
		if total <= 0 {
			total = 1
		}
		for i := range shares {
			shares[i] /= total
		}
	case AoeFull:
		shares = make([]float64, len(parts))
		for i := range shares {
			shares[i] = 1
		}
	default:
		panic(fmt.Sprintf("health: ApplyAoe: unknown policy %q", policy))
	}

	var results []Result
	for i, part := range parts {
		scaled := d.MultDamage(shares[i], true)
		if res.ImmuneToAll(scaled) {
			results = append(results, Result{Hit: false, Part: part})
			continue
		}
		calc := damage.CalculateInstance(tax, scaled, res, part, 0, params)
		var r Result
		p, r = applyToPart(p, part, calc)
		results = append(results, r)
	}
	return p, results
}

// Heal restores amount HP to part, capped at the part's max. When part is
// empty, healing starts at the most damaged part and leftover spills across
// the remaining parts in body order.
//
// Precondition: amount >= 0 (negative degrades to zero).
// Postcondition: returns the HP actually restored; never exceeds the pool's
// missing HP.
func Heal(p Pool, amount int, part body.Part) (Pool, int) {
	if amount <= 0 {
		return p, 0
	}
	if part != "" {
		if !p.Has(part) {
			panic(fmt.Sprintf("health: Heal: pool has no part %q", part))
		}
		hp := p.Get(part)
		missing := hp.Max - hp.Current
		healed := amount
		if healed > missing {
			healed = missing
		}
		hp.Current += healed
		return p.set(part, hp), healed
	}

	healed := 0
	for _, bp := range mostDamagedFirst(p) {
		if amount <= 0 {
			break
		}
		hp := p.Get(bp)
		missing := hp.Max - hp.Current
		if missing <= 0 {
			continue
		}
		step := amount
		if step > missing {
			step = missing
		}
		hp.Current += step
		p = p.set(bp, hp)
		amount -= step
		healed += step
	}
	return p, healed
}

// mostDamagedFirst orders the pool's parts by missing HP descending, ties
// broken by fixed body order so seeded runs replay identically.
func mostDamagedFirst(p Pool) []body.Part {
	parts := p.Parts()
	for i := 1; i < len(parts); i++ {
		for j := i; j > 0 && missing(p, parts[j]) > missing(p, parts[j-1]); j-- {
			parts[j], parts[j-1] = parts[j-1], parts[j]
		}
	}
	return parts
}

func missing(p Pool, part body.Part) int {
	hp := p.Get(part)
	return hp.Max - hp.Current
}

// poolWeights filters weights down to parts the pool actually has.
func poolWeights(p Pool, weights []body.Weight) []body.Weight {
	var out []body.Weight
	for _, w := range weights {
		if p.Has(w.Part) {
			out = append(out, w)
		}
	}
	return out
}
