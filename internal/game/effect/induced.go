package effect

import (
	"sort"

	"go.uber.org/zap"

	"github.com/hexforged/scourge/internal/game/body"
)

// DamageEvent describes one resolved damage application for induced-effect
// matching.
type DamageEvent struct {
	// Type is the damage type that dealt the most final damage.
	Type string
	// Amount is the final damage dealt.
	Amount int
	// Part is the struck body part.
	Part body.Part
	// Crit is true when the hit was critical.
	Crit bool
}

// matches reports whether the gate admits ev, ignoring the Lua predicate.
func (g *InducedBy) matches(ev DamageEvent) bool {
	if g.DamageType != "" && g.DamageType != ev.Type {
		return false
	}
	if ev.Amount < g.MinDamage {
		return false
	}
	if g.MaxDamage > 0 && ev.Amount > g.MaxDamage {
		return false
	}
	if g.Part != "" && g.Part != ev.Part {
		return false
	}
	return true
}

// Induced returns the effect definitions a damage event inflicts, in ID
// order. Definitions without an induced_by gate never match. A failing
// Lua predicate drops the definition; a predicate error is logged and
// treated as a non-match.
//
// Precondition: r non-nil; logger may be nil for silent operation.
func (r *Registry) Induced(ev DamageEvent, logger *zap.Logger) []*Def {
	var out []*Def
	for _, d := range r.defs {
		if d.InducedBy == nil || !d.InducedBy.matches(ev) {
			continue
		}
		if d.InducedBy.Predicate != "" {
			ok, err := r.runner.EvalPredicate(d.InducedBy.Predicate, map[string]any{
				"damage": ev.Amount,
				"type":   ev.Type,
				"part":   string(ev.Part),
				"crit":   ev.Crit,
			})
			if err != nil {
				if logger != nil {
					logger.Warn("effect predicate failed",
						zap.String("effect", d.ID),
						zap.Error(err),
					)
				}
				continue
			}
			if !ok {
				continue
			}
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// InflictInduced applies every induced definition for ev to set, using the
// event's damage as a rough intensity scale (amount / 10, minimum 1 stack
// application at intensity 0).
//
// Postcondition: returns the definitions applied; set holds an instance of
// each.
func (r *Registry) InflictInduced(set *Set, ev DamageEvent, logger *zap.Logger) []*Def {
	defs := r.Induced(ev, logger)
	intensity := float64(ev.Amount / 10)
	for _, d := range defs {
		if err := set.Apply(d, intensity, 0, ev.Part); err != nil {
			logger.Warn("could not apply induced effect",
				zap.String("effect", d.ID), zap.Error(err))
		}
	}
	return defs
}
