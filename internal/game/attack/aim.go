package attack

import (
	"math"

	"github.com/hexforged/scourge/internal/game/body"
)

// AimState tracks turns spent aiming at a single target. The accumulated
// bonus feeds into the next ranged attack's accuracy and the quality governs
// how reliably an aimed body part is honored.
type AimState struct {
	// Turns is the number of consecutive turns spent aiming.
	Turns int
	// Bonus is the accuracy bonus, 2 per turn up to the configured cap.
	Bonus float64
	// Quality grows 0.15 per turn and caps at 1.
	Quality float64
	// TargetID is the combatant being aimed at; switching targets resets
	// the state.
	TargetID string
	// Part is the aimed body part, empty for center mass.
	Part body.Part
}

// StartAiming resets the state onto a new target.
func StartAiming(targetID string, part body.Part) AimState {
	return AimState{TargetID: targetID, Part: part}
}

// ContinueAiming spends one more turn aiming and returns the updated state.
// The accuracy bonus is turns*2 capped at maxBonus; quality is turns*0.15
// capped at 1. Aiming at a different target restarts from zero.
func ContinueAiming(s AimState, targetID string, part body.Part, maxBonus float64) AimState {
	if s.TargetID != targetID || s.Part != part {
		s = StartAiming(targetID, part)
	}
	s.Turns++
	s.Bonus = math.Min(maxBonus, float64(s.Turns)*2)
	s.Quality = math.Min(1, float64(s.Turns)*0.15)
	return s
}
