package combat

import (
	"math"

	"go.uber.org/zap"

	"github.com/hexforged/scourge/internal/game/attack"
	"github.com/hexforged/scourge/internal/game/body"
	"github.com/hexforged/scourge/internal/game/damage"
	"github.com/hexforged/scourge/internal/game/effect"
	"github.com/hexforged/scourge/internal/game/gear"
	"github.com/hexforged/scourge/internal/game/health"
)

// ActionResult tags every action with success or a reason for refusal.
// Failed actions never mutate the session.
type ActionResult struct {
	OK     bool
	Reason string

	Outcome attack.Outcome
	Damage  int
	Killed  bool
	// Induced lists the status effects the hit inflicted on the target.
	Induced []string

	Melee  *attack.MeleeResult
	Ranged *attack.RangedResult
}

func fail(reason string) ActionResult {
	return ActionResult{OK: false, Reason: reason}
}

// MeleeRequest is the plain-data form of one melee attack action.
type MeleeRequest struct {
	ActorID   string
	TargetID  string
	AimedPart body.Part
}

// RangedRequest is the plain-data form of one ranged attack action.
type RangedRequest struct {
	ActorID   string
	TargetID  string
	Mode      gear.FireMode
	Distance  int
	AimedPart body.Part
}

// validateActor runs the preconditions shared by every action. It returns
// a failure reason, or "" when the actor may act.
func (s *Session) validateActor(actorID string) string {
	if s.State != StateActive {
		return "combat is not active"
	}
	actor, ok := s.combatants[actorID]
	if !ok {
		return "actor not found"
	}
	if !actor.Alive() {
		return "actor is dead"
	}
	if !actor.CanAct {
		return "actor cannot act"
	}
	if s.CurrentActor != actorID {
		return "not this actor's turn"
	}
	// The cost of an action is only known after the roll (outcome and fire
	// mode scale it), so any positive balance may act; the action can drive
	// the balance negative and the next validation rejects the actor.
	if actor.MovePoints <= 0 {
		return "insufficient move points"
	}
	return ""
}

// validateTarget checks that the target exists, lives, and differs from
// the actor.
func (s *Session) validateTarget(actorID, targetID string) string {
	if targetID == actorID {
		return "cannot target self"
	}
	target, ok := s.combatants[targetID]
	if !ok {
		return "target not found"
	}
	if !target.Alive() {
		return "target is dead"
	}
	return ""
}

// ExecuteMeleeAttack resolves one melee swing through the full pipeline:
// validation, effect modifiers, the resolver, armor wear, resources,
// events, triggered hooks, induced effects, and the win check.
func (s *Session) ExecuteMeleeAttack(req MeleeRequest) (*Session, ActionResult) {
	if reason := s.validateActor(req.ActorID); reason != "" {
		return s, fail(reason)
	}
	if reason := s.validateTarget(req.ActorID, req.TargetID); reason != "" {
		return s, fail(reason)
	}
	actorView := s.combatants[req.ActorID]
	if actorView.Weapon == nil || !actorView.Weapon.IsMelee() {
		return s, fail("weapon cannot melee")
	}

	next := s.clone()
	actor := next.combatants[req.ActorID]
	target := next.combatants[req.TargetID]

	atk := attack.BuildMeleeAttack(actor.Weapon).
		WithSkill(actor.Weapon.Skill, actor.Stats.SkillLevel(actor.Weapon.Skill))
	domType := dominantType(atk.Damage)
	atkMod := modifierFor(actor, effect.RoleAttacker, domType, damage.AttackMelee)
	defMod := modifierFor(target, effect.RoleDefender, domType, damage.AttackMelee)

	in := attack.MeleeInput{
		Attacker: attack.AttackerStats{
			Accuracy:  atkMod.ApplyHit(actor.Stats.Accuracy),
			CritBonus: atkMod.ApplyCritChance(actor.Stats.CritBonus),
			Luck:      actor.Stats.Luck,
		},
		Defender: attack.DefenderStats{
			Dodge:     defMod.ApplySpeed(target.Stats.Dodge),
			SizeScale: sizeScale(target),
		},
		Attack:       atk.WithDamage(scaleInstance(atk.Damage, atkMod)),
		AimedPart:    req.AimedPart,
		WeaponWeight: actor.Weapon.Weight,
	}
	res := scaleArmor(target.combinedResistances(), defMod)

	var r attack.MeleeResult
	if target.Defense != nil {
		r = attack.ExecuteMeleeAttackWithDefense(next.deps.Src, next.deps.Tax, next.deps.Params,
			in, *target.Defense, res, target.Pool)
	} else {
		r = attack.ExecuteMeleeAttack(next.deps.Src, next.deps.Tax, next.deps.Params,
			in, res, target.Pool)
	}

	target.Pool = r.Pool
	actor.MovePoints -= r.MoveCost
	out := ActionResult{
		OK:      true,
		Outcome: r.Roll.Outcome,
		Damage:  r.Apply.Damage,
		Killed:  r.Apply.Killed,
		Melee:   &r,
	}
	next.settleHit(actor, target, hitRecord{
		event:     EventMeleeAttack,
		kind:      damage.AttackMelee,
		domType:   domType,
		apply:     r.Apply,
		outcome:   r.Roll.Outcome,
		crit:      r.Roll.Outcome == attack.OutcomeCrit,
		blocked:   r.Blocked,
		dodged:    r.Dodged,
		moveCost:  r.MoveCost,
		blockWear: r.BlockWear,
	}, &out)
	return next, out
}

// ExecuteRangedAttack resolves one trigger pull through the same pipeline
// as melee, plus magazine accounting and the actor's accumulated aim.
func (s *Session) ExecuteRangedAttack(req RangedRequest) (*Session, ActionResult) {
	if reason := s.validateActor(req.ActorID); reason != "" {
		return s, fail(reason)
	}
	if reason := s.validateTarget(req.ActorID, req.TargetID); reason != "" {
		return s, fail(reason)
	}
	if req.Distance < 0 {
		return s, fail("distance must be >= 0")
	}
	actorView := s.combatants[req.ActorID]
	w := actorView.Weapon
	switch {
	case w == nil || !w.IsGun():
		return s, fail("weapon cannot shoot")
	case !w.Supports(req.Mode):
		return s, fail("weapon does not support fire mode")
	case w.Range < req.Distance:
		return s, fail("target out of range")
	case actorView.Magazine == nil || actorView.Magazine.IsEmpty():
		return s, fail("magazine is empty")
	}

	next := s.clone()
	actor := next.combatants[req.ActorID]
	target := next.combatants[req.TargetID]

	ammo, _ := nextAmmo(next, actor)
	atk := attack.BuildRangedAttack(actor.Weapon, ammo).
		WithSkill(actor.Weapon.Skill, actor.Stats.SkillLevel(actor.Weapon.Skill))
	domType := dominantType(atk.Damage)
	atkMod := modifierFor(actor, effect.RoleAttacker, domType, damage.AttackRanged)
	defMod := modifierFor(target, effect.RoleDefender, domType, damage.AttackRanged)

	aim := next.aims[req.ActorID]
	aimedPart := req.AimedPart
	if aimedPart == "" {
		aimedPart = aim.Part
	}
	in := attack.RangedInput{
		Attacker: attack.AttackerStats{
			Accuracy:   atkMod.ApplyHit(actor.Stats.Accuracy),
			CritBonus:  atkMod.ApplyCritChance(actor.Stats.CritBonus),
			Luck:       actor.Stats.Luck,
			SkillLevel: actor.Stats.SkillLevel(actor.Weapon.Skill),
		},
		Defender: attack.DefenderStats{
			Dodge:     defMod.ApplySpeed(target.Stats.Dodge),
			SizeScale: sizeScale(target),
		},
		Attack: atk.
			WithDamage(scaleInstance(atk.Damage, atkMod)).
			WithDispersion(atkMod.ApplyDispersion(atk.Dispersion)),
		Distance:   req.Distance,
		Mode:       req.Mode,
		MaxShots:   actor.Magazine.Loaded,
		AimBonus:   aim.Bonus,
		AimQuality: aim.Quality,
		AimedPart:  aimedPart,
	}
	res := scaleArmor(target.combinedResistances(), defMod)

	r := attack.ExecuteRangedAttack(next.deps.Src, next.deps.Tax, next.deps.Params,
		in, res, target.Pool)

	target.Pool = r.Pool
	actor.MovePoints -= r.MoveCost
	actor.Magazine.ConsumeUpTo(r.AmmoUsed)
	delete(next.aims, req.ActorID)

	out := ActionResult{OK: true, Damage: r.TotalDamage, Ranged: &r}
	out.Outcome = attack.OutcomeMiss
	for _, shot := range r.Shots {
		if shot.Roll.Outcome < out.Outcome {
			out.Outcome = shot.Roll.Outcome
		}
		if shot.Apply.Killed {
			out.Killed = true
		}
	}
	next.settleRanged(actor, target, req, domType, r, &out)
	return next, out
}

// hitRecord carries what settleHit needs to finish a resolved melee swing.
type hitRecord struct {
	event     EventType
	kind      damage.AttackKind
	domType   string
	apply     health.Result
	outcome   attack.Outcome
	crit      bool
	blocked   bool
	dodged    bool
	moveCost  int
	blockWear int
}

// settleHit runs the post-resolution pipeline shared by melee swings:
// armor wear, events + feedback, triggered hooks, induced effects, kill
// bookkeeping, and the win check.
func (s *Session) settleHit(actor, target *Combatant, rec hitRecord, out *ActionResult) {
	if rec.apply.Hit {
		s.wearArmor(target, rec.apply.Part, rec.apply.Calc.Absorbed())
	}
	if rec.blocked && rec.blockWear > 0 {
		s.wearBlockingArmor(target, rec.blockWear)
	}

	data := map[string]any{
		"outcome": rec.outcome.String(),
		"damage":  rec.apply.Damage,
		"part":    string(rec.apply.Part),
	}
	s.log(rec.event, actor.ID, target.ID, data)
	s.feedback(Feedback{
		MessageKey: feedbackKey(rec.event, rec.outcome),
		Visual:     "impact",
		Sound:      rec.domType,
		ActorID:    actor.ID,
		TargetID:   target.ID,
		Data:       data,
	})

	s.fireTriggers(actor, effect.TriggerOnAttack)
	switch {
	case rec.dodged:
		s.fireTriggers(target, effect.TriggerOnDodge)
		s.fireTriggers(actor, effect.TriggerOnMiss)
	case rec.blocked && rec.apply.Damage == 0:
		s.fireTriggers(target, effect.TriggerOnBlock)
	case rec.outcome == attack.OutcomeMiss:
		s.fireTriggers(actor, effect.TriggerOnMiss)
	default:
		s.fireTriggers(actor, effect.TriggerOnHit)
		if rec.blocked {
			s.fireTriggers(target, effect.TriggerOnBlock)
		}
	}

	if rec.apply.Hit && rec.apply.Damage > 0 {
		out.Induced = s.inflictInduced(target, effect.DamageEvent{
			Type:   rec.domType,
			Amount: rec.apply.Damage,
			Part:   rec.apply.Part,
			Crit:   rec.crit,
		})
	}
	if rec.apply.Killed {
		s.recordKill(actor, target)
	}
	s.checkWin()
}

// settleRanged finishes a resolved trigger pull shot by shot.
func (s *Session) settleRanged(actor, target *Combatant, req RangedRequest,
	domType string, r attack.RangedResult, out *ActionResult) {

	anyHit := false
	for _, shot := range r.Shots {
		if !shot.Apply.Hit {
			continue
		}
		anyHit = true
		s.wearArmor(target, shot.Apply.Part, shot.Apply.Calc.Absorbed())
		if shot.Apply.Damage > 0 {
			induced := s.inflictInduced(target, effect.DamageEvent{
				Type:   domType,
				Amount: shot.Apply.Damage,
				Part:   shot.Apply.Part,
				Crit:   shot.Roll.Outcome == attack.OutcomeCrit,
			})
			out.Induced = append(out.Induced, induced...)
		}
	}

	data := map[string]any{
		"mode":     string(req.Mode),
		"shots":    len(r.Shots),
		"damage":   r.TotalDamage,
		"ammo":     r.AmmoUsed,
		"distance": req.Distance,
	}
	s.log(EventRangedAttack, actor.ID, target.ID, data)
	s.feedback(Feedback{
		MessageKey: feedbackKey(EventRangedAttack, out.Outcome),
		Visual:     "muzzle_flash",
		Sound:      "gunshot",
		ActorID:    actor.ID,
		TargetID:   target.ID,
		Data:       data,
	})

	s.fireTriggers(actor, effect.TriggerOnAttack)
	if anyHit {
		s.fireTriggers(actor, effect.TriggerOnHit)
	} else {
		s.fireTriggers(actor, effect.TriggerOnMiss)
	}
	if out.Killed {
		s.recordKill(actor, target)
	}
	s.checkWin()
}

// ApplyEffect applies a registered status effect to a combatant. Unlike
// attacks it may target any living participant, including the actor.
func (s *Session) ApplyEffect(targetID, effectID string, intensity float64, part body.Part) (*Session, ActionResult) {
	if s.State != StateActive {
		return s, fail("combat is not active")
	}
	target, ok := s.combatants[targetID]
	if !ok {
		return s, fail("target not found")
	}
	if !target.Alive() {
		return s, fail("target is dead")
	}
	if target.Effects == nil {
		return s, fail("target has no effect manager")
	}
	def, ok := s.deps.Effects.Get(effectID)
	if !ok {
		return s, fail("unknown effect")
	}

	next := s.clone()
	t := next.combatants[targetID]
	if err := t.Effects.Apply(def, intensity, 0, part); err != nil {
		return s, fail(err.Error())
	}
	next.log(EventEffectApplied, "", targetID, map[string]any{
		"effect":    effectID,
		"intensity": intensity,
		"part":      string(part),
	})
	return next, ActionResult{OK: true}
}

// wearArmor degrades the piece covering part by the absorbed damage;
// crossing the breakage ceiling removes the piece from its slot.
func (s *Session) wearArmor(target *Combatant, part body.Part, absorbed int) {
	if absorbed <= 0 || part == "" {
		return
	}
	ai := target.armorCovering(part)
	if ai == nil {
		return
	}
	if ai.Absorb(absorbed) {
		s.removeArmor(target, ai)
	}
}

// wearBlockingArmor charges a successful block's durability cost to the
// first unbroken armor piece covering an arm.
func (s *Session) wearBlockingArmor(target *Combatant, wear int) {
	for _, part := range []body.Part{body.PartLeftArm, body.PartRightArm} {
		ai := target.armorCovering(part)
		if ai == nil {
			continue
		}
		ai.Wear += wear
		if ai.Wear >= ai.Def.BreakageCeiling {
			ai.Wear = ai.Def.BreakageCeiling
			s.removeArmor(target, ai)
		}
		return
	}
}

func (s *Session) removeArmor(target *Combatant, broken *gear.ArmorInstance) {
	for i, ai := range target.Armor {
		if ai == broken {
			target.Armor = append(target.Armor[:i], target.Armor[i+1:]...)
			break
		}
	}
	s.log(EventArmorBroken, "", target.ID, map[string]any{"armor": broken.Def.ID})
	s.feedback(Feedback{
		MessageKey: "armor.broken",
		Sound:      "shatter",
		TargetID:   target.ID,
		Data:       map[string]any{"armor": broken.Def.ID},
	})
}

// fireTriggers logs an event per effect hook that should fire for kind.
// Triggered is a pure query; the hooks' own behavior belongs to callers
// reading the event log.
func (s *Session) fireTriggers(c *Combatant, kind effect.TriggerKind) {
	if c.Effects == nil {
		return
	}
	for _, a := range c.Effects.Triggered(kind) {
		s.log(EventEffectTriggered, c.ID, "", map[string]any{
			"effect":  a.Def.ID,
			"trigger": string(kind),
		})
	}
}

// inflictInduced applies damage-induced effects to the target and returns
// the inflicted definition IDs.
func (s *Session) inflictInduced(target *Combatant, ev effect.DamageEvent) []string {
	if target.Effects == nil {
		return nil
	}
	defs := s.deps.Effects.InflictInduced(target.Effects, ev, s.deps.Logger)
	ids := make([]string, 0, len(defs))
	for _, d := range defs {
		ids = append(ids, d.ID)
		s.log(EventEffectApplied, "", target.ID, map[string]any{
			"effect":  d.ID,
			"induced": true,
			"part":    string(ev.Part),
		})
	}
	return ids
}

func (s *Session) recordKill(actor, target *Combatant) {
	target.CanAct = false
	s.log(EventCombatantKilled, actor.ID, target.ID, nil)
	s.feedback(Feedback{
		MessageKey: "combatant.killed",
		Visual:     "collapse",
		ActorID:    actor.ID,
		TargetID:   target.ID,
	})
	s.deps.Logger.Info("combatant killed",
		zap.String("session", s.ID),
		zap.String("actor", actor.ID),
		zap.String("target", target.ID))
	s.fireTriggers(actor, effect.TriggerOnKill)
}

// nextAmmo resolves the ammo definition the actor's magazine is loaded
// with; nil when no gear registry is wired or the ammo is unknown.
func nextAmmo(s *Session, actor *Combatant) (*gear.AmmoDef, bool) {
	if s.deps.Gear == nil || actor.Magazine == nil || actor.Magazine.AmmoID == "" {
		return nil, false
	}
	return s.deps.Gear.Ammo(actor.Magazine.AmmoID)
}

// modifierFor folds the combatant's active effects into one aggregate
// modifier for this attack context.
func modifierFor(c *Combatant, role effect.Role, domType string, kind damage.AttackKind) effect.CombatModifier {
	if c.Effects == nil {
		return effect.NewCombatModifier()
	}
	return c.Effects.Modifiers(effect.Context{
		Role:       role,
		DamageType: domType,
		AttackType: kind,
	})
}

// scaleInstance applies the attacker's damage modifier to every unit.
func scaleInstance(d damage.Instance, m effect.CombatModifier) damage.Instance {
	out := damage.NewInstance().WithEffectTags(d.OnHitEffects, d.OnDamageEffects)
	for _, u := range d.Units {
		u.Amount = math.Max(0, m.ApplyDamage(u.Amount))
		out = out.AddUnit(u)
	}
	return out
}

// scaleArmor applies the defender's armor modifier to every resistance
// value. Immunity-grade values are left alone so a buff or debuff never
// flips immunity.
func scaleArmor(res damage.Resistances, m effect.CombatModifier) damage.Resistances {
	out := res.Clone()
	for typeID, v := range out.Base {
		if v < damage.ImmunityThreshold {
			out.Base[typeID] = math.Max(0, m.ApplyArmor(v))
		}
	}
	for _, byType := range out.Parts {
		for typeID, v := range byType {
			if v < damage.ImmunityThreshold {
				byType[typeID] = math.Max(0, m.ApplyArmor(v))
			}
		}
	}
	return out
}

// dominantType returns the type contributing the most pre-armor damage.
func dominantType(d damage.Instance) string {
	best := ""
	bestAmount := -1
	for _, u := range d.Units {
		if a := u.ScaledAmount(); a > bestAmount {
			best = u.Type
			bestAmount = a
		}
	}
	return best
}

// sizeScale defaults an unset size to human scale.
func sizeScale(c *Combatant) float64 {
	if c.Stats.SizeScale <= 0 {
		return 1
	}
	return c.Stats.SizeScale
}

// feedbackKey maps an event and outcome to a stable message key.
func feedbackKey(event EventType, outcome attack.Outcome) string {
	return string(event) + "." + outcome.String()
}
