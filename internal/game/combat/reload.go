package combat

// defaultReloadCost applies when a weapon definition leaves reload_cost
// unset.
const defaultReloadCost = 100

// ReloadRequest is the plain-data form of one reload action.
type ReloadRequest struct {
	ActorID string
	AmmoID  string
}

// Reload refills the actor's magazine with the requested ammo.
func (s *Session) Reload(req ReloadRequest) (*Session, ActionResult) {
	if reason := s.validateActor(req.ActorID); reason != "" {
		return s, fail(reason)
	}
	actorView := s.combatants[req.ActorID]
	w := actorView.Weapon
	switch {
	case w == nil || !w.IsGun():
		return s, fail("weapon has no magazine")
	case actorView.Magazine == nil:
		return s, fail("no magazine equipped")
	case !w.AcceptsAmmo(req.AmmoID):
		return s, fail("incompatible ammo")
	case actorView.Magazine.IsFull() && actorView.Magazine.AmmoID == req.AmmoID:
		return s, fail("magazine is full")
	}

	next := s.clone()
	actor := next.combatants[req.ActorID]
	actor.Magazine.Reload(req.AmmoID)

	cost := w.ReloadCost
	if cost <= 0 {
		cost = defaultReloadCost
	}
	actor.MovePoints -= cost

	next.log(EventReload, req.ActorID, "", map[string]any{
		"ammo":   req.AmmoID,
		"loaded": actor.Magazine.Loaded,
	})
	next.feedback(Feedback{
		MessageKey: "weapon.reloaded",
		Sound:      "magazine_click",
		ActorID:    req.ActorID,
		Data:       map[string]any{"ammo": req.AmmoID},
	})
	return next, ActionResult{OK: true}
}
