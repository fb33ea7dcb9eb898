package combat

import (
	"github.com/hexforged/scourge/internal/game/attack"
	"github.com/hexforged/scourge/internal/game/body"
	"github.com/hexforged/scourge/internal/game/health"
)

// EndTurn finishes the actor's turn: active effects tick (ongoing damage
// lands, durations count down) and the queue rotates to the next actor.
func (s *Session) EndTurn(actorID string) (*Session, ActionResult) {
	if s.State != StateActive {
		return s, fail("combat is not active")
	}
	if _, ok := s.combatants[actorID]; !ok {
		return s, fail("actor not found")
	}
	if s.CurrentActor != actorID {
		return s, fail("not this actor's turn")
	}

	next := s.clone()
	actor := next.combatants[actorID]
	next.tickEffects(actor)
	if actor.Alive() {
		actor.MovePoints = actor.MaxMovePoints
	}
	next.log(EventTurnEnded, actorID, "", map[string]any{"turn": next.Turn})
	next.advanceQueue()
	next.checkWin()
	return next, ActionResult{OK: true}
}

// NextTurn ends the current actor's turn.
func (s *Session) NextTurn() (*Session, ActionResult) {
	if s.State != StateActive {
		return s, fail("combat is not active")
	}
	return s.EndTurn(s.CurrentActor)
}

// tickEffects advances the combatant's status effects by one turn and
// applies the accrued ongoing damage. Ongoing damage resolves against the
// innate resistance table only; armor does not stop a burn or a bleed.
func (s *Session) tickEffects(c *Combatant) {
	if c.Effects == nil {
		return
	}
	tick := c.Effects.Tick()
	if tick.Total == 0 && len(tick.Expired) == 0 {
		return
	}

	var applied health.Result
	if !tick.Damage.Empty() {
		c.Pool, applied = health.ApplyDamage(c.Pool, s.deps.Tax, tick.Damage,
			c.Resist, "", 0, s.deps.Src, s.deps.Params)
	}

	expired := make([]string, 0, len(tick.Expired))
	for _, a := range tick.Expired {
		expired = append(expired, a.Def.ID)
	}
	s.log(EventEffectTick, c.ID, "", map[string]any{
		"damage":  applied.Damage,
		"expired": expired,
	})
	if applied.Killed {
		c.CanAct = false
		s.log(EventCombatantKilled, "", c.ID, map[string]any{"cause": "effects"})
		s.feedback(Feedback{
			MessageKey: "combatant.succumbed",
			Visual:     "collapse",
			TargetID:   c.ID,
		})
	}
}

// StartAiming begins aiming the actor's next ranged attack at a target,
// optionally at one body part. Aiming resets any prior aim.
func (s *Session) StartAiming(actorID, targetID string, part body.Part) (*Session, ActionResult) {
	if reason := s.validateActor(actorID); reason != "" {
		return s, fail(reason)
	}
	if reason := s.validateTarget(actorID, targetID); reason != "" {
		return s, fail(reason)
	}
	next := s.clone()
	next.aims[actorID] = attack.StartAiming(targetID, part)
	return next, ActionResult{OK: true}
}

// ContinueAiming spends the actor's turn steadying their aim, growing the
// accuracy bonus and aim quality consumed by the next ranged attack.
func (s *Session) ContinueAiming(actorID string, maxBonus float64) (*Session, ActionResult) {
	if reason := s.validateActor(actorID); reason != "" {
		return s, fail(reason)
	}
	aim, ok := s.aims[actorID]
	if !ok {
		return s, fail("not aiming")
	}
	next := s.clone()
	next.aims[actorID] = attack.ContinueAiming(aim, aim.TargetID, aim.Part, maxBonus)
	return next, ActionResult{OK: true}
}

// Aim returns the actor's current aim state.
func (s *Session) Aim(actorID string) (attack.AimState, bool) {
	a, ok := s.aims[actorID]
	return a, ok
}
