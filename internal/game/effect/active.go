package effect

import (
	"fmt"
	"math"
	"sort"

	"github.com/hexforged/scourge/internal/game/body"
	"github.com/hexforged/scourge/internal/game/damage"
)

// Active is one applied status-effect instance.
type Active struct {
	Def       *Def
	Intensity float64
	// Remaining is the rounds left before the effect clears.
	Remaining int
	// Part is the afflicted body part; empty for whole-body effects.
	Part body.Part
	// Stacks counts merged applications of a stackable definition.
	Stacks int
}

// activeKey identifies one (definition, body part) slot in a Set.
type activeKey struct {
	id   string
	part body.Part
}

// Set tracks all effects currently applied to one combatant.
// It is not safe for concurrent use; the combat session serialises access.
type Set struct {
	actives map[activeKey]*Active
}

// NewSet creates an empty Set.
func NewSet() *Set {
	return &Set{actives: make(map[activeKey]*Active)}
}

// Apply adds or merges an effect instance.
//
// Stackable definitions with an existing instance for the same (definition,
// body part) increment the stack counter (capped at MaxStacks when set) and
// raise intensity and duration to the max of old and new. A second
// application of a non-stackable definition is a no-op.
//
// Precondition: def must not be nil; duration defaults to the definition's
// duration formula when <= 0.
// Postcondition: Has(def.ID, part) is true.
func (s *Set) Apply(def *Def, intensity float64, duration int, part body.Part) error {
	if def == nil {
		return fmt.Errorf("effect: Apply: def must not be nil")
	}
	if duration <= 0 {
		duration = def.Duration(intensity)
	}
	k := activeKey{id: def.ID, part: part}
	if existing, ok := s.actives[k]; ok {
		if !def.Stackable {
			return nil
		}
		existing.Stacks++
		if def.MaxStacks > 0 && existing.Stacks > def.MaxStacks {
			existing.Stacks = def.MaxStacks
		}
		if intensity > existing.Intensity {
			existing.Intensity = intensity
		}
		if duration > existing.Remaining {
			existing.Remaining = duration
		}
		return nil
	}
	s.actives[k] = &Active{
		Def:       def,
		Intensity: intensity,
		Remaining: duration,
		Part:      part,
		Stacks:    1,
	}
	return nil
}

// Remove clears the effect id on part. Not-present is a no-op.
//
// Postcondition: Has(id, part) is false.
func (s *Set) Remove(id string, part body.Part) {
	delete(s.actives, activeKey{id: id, part: part})
}

// Has reports whether effect id is active on part.
func (s *Set) Has(id string, part body.Part) bool {
	_, ok := s.actives[activeKey{id: id, part: part}]
	return ok
}

// HasAny reports whether effect id is active on any part.
func (s *Set) HasAny(id string) bool {
	for k := range s.actives {
		if k.id == id {
			return true
		}
	}
	return false
}

// Stacks returns the stack count for (id, part), or 0 if not present.
func (s *Set) Stacks(id string, part body.Part) int {
	if a, ok := s.actives[activeKey{id: id, part: part}]; ok {
		return a.Stacks
	}
	return 0
}

// All returns the active effects sorted by (id, part) so iteration order is
// deterministic under replay. The slice is a new allocation but the
// pointed-to Active values are shared; callers must not modify them.
func (s *Set) All() []*Active {
	keys := make([]activeKey, 0, len(s.actives))
	for k := range s.actives {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].id != keys[j].id {
			return keys[i].id < keys[j].id
		}
		return keys[i].part < keys[j].part
	})
	out := make([]*Active, len(keys))
	for i, k := range keys {
		out[i] = s.actives[k]
	}
	return out
}

// Len returns the number of active effect instances.
func (s *Set) Len() int { return len(s.actives) }

// Clone returns a deep copy of the set. Definitions are shared; Active
// records are copied.
func (s *Set) Clone() *Set {
	out := NewSet()
	for k, a := range s.actives {
		cp := *a
		out.actives[k] = &cp
	}
	return out
}

// TickResult reports what one turn tick did to the set.
type TickResult struct {
	// Damage is the accrued ongoing damage, merged by type.
	Damage damage.Instance
	// Total is the summed accrued damage across effects.
	Total int
	// Expired lists the effects removed this tick.
	Expired []*Active
}

// Tick advances every active effect by one turn: ongoing damage accrues as
// damagePerTurn * stacks * (intensity+1), remaining duration decrements,
// and effects reaching zero are removed.
//
// Postcondition: for every effect in Expired, Has is false.
func (s *Set) Tick() TickResult {
	var res TickResult
	res.Damage = damage.NewInstance()
	for _, a := range s.All() {
		if a.Def.DamagePerTurn > 0 {
			amt := a.Def.DamagePerTurn * float64(a.Stacks) * (a.Intensity + 1)
			res.Damage = res.Damage.AddDamage(a.Def.DamageType, amt, 0)
			res.Total += int(math.Floor(amt))
		}
		a.Remaining--
		if a.Remaining <= 0 {
			res.Expired = append(res.Expired, a)
			s.Remove(a.Def.ID, a.Part)
		}
	}
	return res
}

// PartDisabled reports whether part is disabled by its effects: a BROKEN
// effect, or a WOUNDED effect at severe-or-worse intensity.
func (s *Set) PartDisabled(part body.Part) bool {
	if s.Has("broken", part) {
		return true
	}
	if a, ok := s.actives[activeKey{id: "wounded", part: part}]; ok {
		return a.Intensity >= SevereIntensity
	}
	return false
}
