// Package attack implements attack resolution: the banded hit roll shared
// by all attack kinds, the melee resolver with its block/dodge contest, the
// ranged resolver with fire modes and scatter, and the aiming state machine.
package attack

import (
	"math"

	"github.com/hexforged/scourge/internal/game/rng"
)

// Outcome is the 5-tier hit-quality result.
type Outcome int

const (
	OutcomeCrit Outcome = iota
	OutcomeHit
	OutcomeGlance
	OutcomeGraze
	OutcomeMiss
)

// String returns a human-readable outcome label.
func (o Outcome) String() string {
	switch o {
	case OutcomeCrit:
		return "crit"
	case OutcomeHit:
		return "hit"
	case OutcomeGlance:
		return "glance"
	case OutcomeGraze:
		return "graze"
	case OutcomeMiss:
		return "miss"
	default:
		return "unknown"
	}
}

// drawMax is the exclusive upper bound of the hit-roll draw.
const drawMax = 20.0

// HitRoll holds the outcome of one hit roll.
type HitRoll struct {
	Outcome Outcome
	// Draw is the uniform value drawn in [0, 20).
	Draw float64
	// Threshold is accuracy + toHit - dodge.
	Threshold float64
	// MissedBy measures how badly the shot deviated: 0 for a crit, up to
	// 1 for a clean miss.
	MissedBy float64
	// Dispersion is the distance-scaled dispersion, used for scatter.
	Dispersion float64
	// DoubleCrit is set when a missedBy-zero result won the follow-up
	// double-crit roll.
	DoubleCrit bool
}

// EffectiveDispersion scales base dispersion with distance:
// dispersion * (1 + distance*0.1).
func EffectiveDispersion(dispersion float64, distance int) float64 {
	return dispersion * (1 + float64(distance)*0.1)
}

// RollHit draws a uniform value in [0, 20) against the net threshold
// accuracy + toHit - dodge and bands the result, most favorable first:
//
//	draw >= threshold - critBonus  ->  CRIT,   missedBy = 0
//	draw >= threshold - 5          ->  HIT,    missedBy = max(0, threshold-draw)/20
//	draw >= threshold - 10         ->  GLANCE, missedBy = max(0, threshold-draw)/20
//	draw >= threshold - 15         ->  GRAZE,  missedBy = max(0, threshold-draw)/10
//	otherwise                      ->  MISS,   missedBy = 1
//
// A missedBy of zero additionally rolls for double-crit at critBonus*2
// percent. For ranged attacks dispersion scales with distance before being
// recorded for scatter computation.
//
// Precondition: src non-nil.
func RollHit(src rng.Source, accuracy, toHit, dodge, critBonus, dispersion float64, distance int, ranged bool) HitRoll {
	effDisp := dispersion
	if ranged {
		effDisp = EffectiveDispersion(dispersion, distance)
	}
	threshold := accuracy + toHit - dodge
	draw := src.Float64() * drawMax

	h := HitRoll{Draw: draw, Threshold: threshold, Dispersion: effDisp}
	switch {
	case draw >= threshold-critBonus:
		h.Outcome = OutcomeCrit
		h.MissedBy = 0
	case draw >= threshold-5:
		h.Outcome = OutcomeHit
		h.MissedBy = math.Max(0, threshold-draw) / 20
	case draw >= threshold-10:
		h.Outcome = OutcomeGlance
		h.MissedBy = math.Max(0, threshold-draw) / 20
	case draw >= threshold-15:
		h.Outcome = OutcomeGraze
		h.MissedBy = math.Max(0, threshold-draw) / 10
	default:
		h.Outcome = OutcomeMiss
		h.MissedBy = 1
	}
	if h.MissedBy == 0 {
		h.DoubleCrit = rng.Chance(src, critBonus*2/100)
	}
	return h
}

// MissedByTiles converts the deviation into tile units at distance.
func (h HitRoll) MissedByTiles(distance int) float64 {
	return h.MissedBy * float64(distance)
}

// IsHit reports whether the roll connects at any quality tier.
func (h HitRoll) IsHit() bool {
	return h.Outcome != OutcomeMiss
}
