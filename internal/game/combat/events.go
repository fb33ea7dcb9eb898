package combat

import (
	"time"

	"github.com/google/uuid"
)

// EventType labels one entry in the session's event log.
type EventType string

const (
	EventCombatStarted   EventType = "combat_started"
	EventCombatEnded     EventType = "combat_ended"
	EventTurnEnded       EventType = "turn_ended"
	EventMeleeAttack     EventType = "melee_attack"
	EventRangedAttack    EventType = "ranged_attack"
	EventReload          EventType = "reload"
	EventEffectApplied   EventType = "effect_applied"
	EventEffectTick      EventType = "effect_tick"
	EventEffectTriggered EventType = "effect_triggered"
	EventArmorBroken     EventType = "armor_broken"
	EventCombatantKilled EventType = "combatant_killed"
	EventCombatantJoined EventType = "combatant_joined"
	EventCombatantLeft   EventType = "combatant_left"
)

// Event is one record in the session log. Data carries the event's
// structured payload; the core never formats prose.
type Event struct {
	ID        string
	Type      EventType
	Time      time.Time
	SessionID string
	ActorID   string
	TargetID  string
	Data      map[string]any
}

// Feedback is a presentation descriptor: a message key plus optional
// visual and sound cues for a renderer to interpret.
type Feedback struct {
	MessageKey string
	Visual     string
	Sound      string
	ActorID    string
	TargetID   string
	Data       map[string]any
}

// newEvent stamps a log entry with a fresh ID and the current time.
func (s *Session) newEvent(t EventType, actorID, targetID string, data map[string]any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      t,
		Time:      s.now(),
		SessionID: s.ID,
		ActorID:   actorID,
		TargetID:  targetID,
		Data:      data,
	}
}
