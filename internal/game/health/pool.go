// Package health owns the per-body-part hit-point bookkeeping: applying
// calculator output to a creature's HP pool, AOE distribution, and healing.
package health

import (
	"fmt"

	"github.com/hexforged/scourge/internal/game/body"
)

// PartHP tracks the hit points of one body part.
//
// Invariant: 0 <= Current <= Max.
type PartHP struct {
	Current int `yaml:"current"`
	Max     int `yaml:"max"`
}

// Pool is a creature's full per-part HP table.
type Pool struct {
	parts map[body.Part]PartHP
}

// NewPool creates a Pool with each listed part at full HP.
//
// Precondition: every max must be > 0 (panics otherwise).
func NewPool(maxes map[body.Part]int) Pool {
	parts := make(map[body.Part]PartHP, len(maxes))
	for p, m := range maxes {
		if m <= 0 {
			panic(fmt.Sprintf("health: NewPool: max HP for %s must be > 0, got %d", p, m))
		}
		parts[p] = PartHP{Current: m, Max: m}
	}
	return Pool{parts: parts}
}

// NewHumanoid creates the standard six-part pool: torso at torsoHP, head at
// 60% of torso, limbs at 80%.
//
// Precondition: torsoHP >= 5.
func NewHumanoid(torsoHP int) Pool {
	if torsoHP < 5 {
		panic(fmt.Sprintf("health: NewHumanoid: torsoHP must be >= 5, got %d", torsoHP))
	}
	limb := torsoHP * 8 / 10
	return NewPool(map[body.Part]int{
		body.PartHead:     torsoHP * 6 / 10,
		body.PartTorso:    torsoHP,
		body.PartLeftArm:  limb,
		body.PartRightArm: limb,
		body.PartLeftLeg:  limb,
		body.PartRightLeg: limb,
	})
}

// Get returns the HP record for part. Unknown parts read as zero.
func (p Pool) Get(part body.Part) PartHP {
	return p.parts[part]
}

// Has reports whether part exists in this pool.
func (p Pool) Has(part body.Part) bool {
	_, ok := p.parts[part]
	return ok
}

// Parts returns the pool's parts in the fixed body order, skipping parts
// the creature does not have.
func (p Pool) Parts() []body.Part {
	var out []body.Part
	for _, bp := range body.All() {
		if p.Has(bp) {
			out = append(out, bp)
		}
	}
	return out
}

// TotalCurrent returns the summed current HP across all parts.
func (p Pool) TotalCurrent() int {
	total := 0
	for _, hp := range p.parts {
		total += hp.Current
	}
	return total
}

// Destroyed reports whether part is at or below zero HP.
func (p Pool) Destroyed(part body.Part) bool {
	hp, ok := p.parts[part]
	return ok && hp.Current <= 0
}

// Dead reports whether any lethal part is destroyed.
func (p Pool) Dead() bool {
	for _, bp := range body.All() {
		if body.Lethal(bp) && p.Destroyed(bp) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the pool.
func (p Pool) Clone() Pool {
	parts := make(map[body.Part]PartHP, len(p.parts))
	for k, v := range p.parts {
		parts[k] = v
	}
	return Pool{parts: parts}
}

// set replaces the record for part, flooring Current at zero and capping
// at Max.
func (p Pool) set(part body.Part, hp PartHP) Pool {
	if hp.Current < 0 {
		hp.Current = 0
	}
	if hp.Current > hp.Max {
		hp.Current = hp.Max
	}
	out := p.Clone()
	out.parts[part] = hp
	return out
}
