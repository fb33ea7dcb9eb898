// Package body defines the body-part table shared by the damage handler,
// the attack resolvers, and the status-effect layer.
package body

import (
	"fmt"

	"github.com/hexforged/scourge/internal/game/rng"
)

// Part identifies one body part of a humanoid combatant.
type Part string

const (
	// PartHead is the head. Lethal when destroyed.
	PartHead Part = "head"
	// PartTorso is the torso. Lethal when destroyed.
	PartTorso Part = "torso"
	// PartLeftArm is the left arm.
	PartLeftArm Part = "left_arm"
	// PartRightArm is the right arm.
	PartRightArm Part = "right_arm"
	// PartLeftLeg is the left leg.
	PartLeftLeg Part = "left_leg"
	// PartRightLeg is the right leg.
	PartRightLeg Part = "right_leg"
)

// partDisplayNames maps every part identifier to its human-readable label.
var partDisplayNames = map[Part]string{
	PartHead:     "Head",
	PartTorso:    "Torso",
	PartLeftArm:  "Left Arm",
	PartRightArm: "Right Arm",
	PartLeftLeg:  "Left Leg",
	PartRightLeg: "Right Leg",
}

// DisplayName returns the human-readable label for a part identifier.
//
// Postcondition: returns the registered label, or string(p) if not found.
func DisplayName(p Part) string {
	if label, ok := partDisplayNames[p]; ok {
		return label
	}
	return string(p)
}

// All returns every body part in a fixed, deterministic order.
// Weighted picks and AOE distribution iterate this order so a seeded
// source replays identically.
func All() []Part {
	return []Part{PartHead, PartTorso, PartLeftArm, PartRightArm, PartLeftLeg, PartRightLeg}
}

// Valid reports whether p names a known body part.
func Valid(p Part) bool {
	_, ok := partDisplayNames[p]
	return ok
}

// Lethal reports whether destroying this part kills the creature.
// Head and torso are lethal; every other part only disables.
func Lethal(p Part) bool {
	return p == PartHead || p == PartTorso
}

// Weight pairs a part with its selection weight.
type Weight struct {
	Part   Part
	Weight float64
}

// DamageWeights returns the default target distribution for untargeted
// damage: torso 50, head 20, all other parts 10.
func DamageWeights() []Weight {
	return []Weight{
		{PartHead, 20},
		{PartTorso, 50},
		{PartLeftArm, 10},
		{PartRightArm, 10},
		{PartLeftLeg, 10},
		{PartRightLeg, 10},
	}
}

// MeleeWeights returns the body-part distribution used by melee strikes,
// scaled by the target's size: torso 40, head 15, legs 15 each, arms 10 each.
//
// Precondition: sizeScale > 0.
func MeleeWeights(sizeScale float64) []Weight {
	if sizeScale <= 0 {
		panic(fmt.Sprintf("body: MeleeWeights: sizeScale must be > 0, got %v", sizeScale))
	}
	return []Weight{
		{PartHead, 15 * sizeScale},
		{PartTorso, 40 * sizeScale},
		{PartLeftArm, 10 * sizeScale},
		{PartRightArm, 10 * sizeScale},
		{PartLeftLeg, 15 * sizeScale},
		{PartRightLeg, 15 * sizeScale},
	}
}

// PickWeighted draws one part from weights proportionally to weight.
//
// Precondition: src non-nil; weights non-empty with total weight > 0.
// Panics with "body: PickWeighted: no positive weights" otherwise.
func PickWeighted(src rng.Source, weights []Weight) Part {
	total := 0.0
	for _, w := range weights {
		if w.Weight > 0 {
			total += w.Weight
		}
	}
	if total <= 0 {
		panic("body: PickWeighted: no positive weights")
	}
	draw := src.Float64() * total
	for _, w := range weights {
		if w.Weight <= 0 {
			continue
		}
		draw -= w.Weight
		if draw < 0 {
			return w.Part
		}
	}
	// Float accumulation can leave draw at exactly 0 after the loop.
	return weights[len(weights)-1].Part
}
