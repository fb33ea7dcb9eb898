package combat

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hexforged/scourge/internal/game/attack"
	"github.com/hexforged/scourge/internal/game/damage"
	"github.com/hexforged/scourge/internal/game/effect"
	"github.com/hexforged/scourge/internal/game/gear"
	"github.com/hexforged/scourge/internal/game/rng"
)

// State is the session lifecycle phase.
type State string

const (
	StateNotStarted State = "not_started"
	StateActive     State = "active"
	StateEnded      State = "ended"
)

// Deps carries the collaborators a session resolves against. They are
// shared by reference across snapshots; all mutable fight state lives in
// the Session itself.
type Deps struct {
	Src     rng.Source
	Tax     *damage.Taxonomy
	Effects *effect.Registry
	// Gear resolves ammo definitions for loaded magazines; optional.
	Gear   *gear.Registry
	Params damage.Params
	Logger *zap.Logger
	// Clock stamps event records; nil uses time.Now.
	Clock func() time.Time
}

// Session is one combat instance snapshot. Actions return a new Session;
// the caller keeps the latest and discards the previous one.
type Session struct {
	ID    string
	State State
	// Turn counts queue rollovers, starting at 1 on Start.
	Turn int
	// CurrentActor is the head of the turn queue.
	CurrentActor string
	// Winner is the surviving team once State is ended; empty on a draw
	// or a stopped fight.
	Winner string

	combatants map[string]*Combatant
	queue      []string
	aims       map[string]attack.AimState

	Events   []Event
	Feedback []Feedback

	deps Deps
}

// NewSession returns an empty not-started session.
//
// Precondition: deps.Src, deps.Tax, deps.Effects, and deps.Logger non-nil
// (panics otherwise).
func NewSession(deps Deps) *Session {
	if deps.Src == nil || deps.Tax == nil || deps.Effects == nil || deps.Logger == nil {
		panic("combat: NewSession: deps must carry src, taxonomy, effects, and logger")
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	// Every draw of a fight goes through the logged roller so a session can
	// be audited at debug level draw by draw.
	if _, ok := deps.Src.(*rng.Roller); !ok {
		deps.Src = rng.NewRoller(deps.Src, deps.Logger)
	}
	return &Session{
		ID:         uuid.NewString(),
		State:      StateNotStarted,
		combatants: make(map[string]*Combatant),
		aims:       make(map[string]attack.AimState),
		deps:       deps,
	}
}

func (s *Session) now() time.Time { return s.deps.Clock() }

// Combatant returns the participant with the given ID.
func (s *Session) Combatant(id string) (*Combatant, bool) {
	c, ok := s.combatants[id]
	return c, ok
}

// Combatants returns the participant IDs in fixed queue-then-join order.
func (s *Session) Combatants() []string {
	seen := make(map[string]bool, len(s.queue))
	out := make([]string, 0, len(s.combatants))
	for _, id := range s.queue {
		out = append(out, id)
		seen[id] = true
	}
	for id := range s.combatants {
		if !seen[id] {
			out = append(out, id)
		}
	}
	return out
}

// clone deep-copies the snapshot. The deps and the definition registries
// behind them are shared.
func (s *Session) clone() *Session {
	cp := *s
	cp.combatants = make(map[string]*Combatant, len(s.combatants))
	for id, c := range s.combatants {
		cp.combatants[id] = c.clone()
	}
	cp.queue = append([]string(nil), s.queue...)
	cp.aims = make(map[string]attack.AimState, len(s.aims))
	for id, a := range s.aims {
		cp.aims[id] = a
	}
	cp.Events = append([]Event(nil), s.Events...)
	cp.Feedback = append([]Feedback(nil), s.Feedback...)
	return &cp
}

// AddCombatant joins c to the fight. Joining mid-fight appends to the tail
// of the turn queue.
//
// Precondition: c non-nil with a non-empty unique ID (duplicate panics).
func (s *Session) AddCombatant(c *Combatant) *Session {
	if c == nil || c.ID == "" {
		panic("combat: AddCombatant: combatant must have an ID")
	}
	if _, exists := s.combatants[c.ID]; exists {
		panic(fmt.Sprintf("combat: AddCombatant: duplicate combatant %q", c.ID))
	}
	next := s.clone()
	joined := c.clone()
	joined.CanAct = true
	if joined.MovePoints == 0 {
		joined.MovePoints = joined.MaxMovePoints
	}
	next.combatants[c.ID] = joined
	if next.State == StateActive {
		next.queue = append(next.queue, c.ID)
	}
	next.log(EventCombatantJoined, c.ID, "", map[string]any{"team": c.Team})
	return next
}

// RemoveCombatant drops id from the fight and its queue slot. Removing an
// unknown ID is a no-op.
func (s *Session) RemoveCombatant(id string) *Session {
	if _, ok := s.combatants[id]; !ok {
		return s
	}
	next := s.clone()
	delete(next.combatants, id)
	delete(next.aims, id)
	for i, qid := range next.queue {
		if qid == id {
			next.queue = append(next.queue[:i], next.queue[i+1:]...)
			break
		}
	}
	next.log(EventCombatantLeft, id, "", nil)
	if next.CurrentActor == id {
		next.CurrentActor = ""
		if len(next.queue) > 0 {
			next.CurrentActor = next.queue[0]
		}
	}
	if next.State == StateActive {
		next.checkWin()
	}
	return next
}

// Start activates the session: the turn queue is built from every living
// participant sorted by descending max move budget, and the first turn
// begins.
//
// Precondition: at least one participant (panics on zero); session not yet
// started (panics on restart).
func (s *Session) Start() *Session {
	if s.State != StateNotStarted {
		panic(fmt.Sprintf("combat: Start: session is %s", s.State))
	}
	if len(s.combatants) == 0 {
		panic("combat: Start: no participants")
	}
	next := s.clone()
	next.State = StateActive
	next.Turn = 1
	next.queue = next.buildQueue()
	next.CurrentActor = next.queue[0]
	next.log(EventCombatStarted, "", "", map[string]any{"participants": len(next.combatants)})
	next.deps.Logger.Info("combat started",
		zap.String("session", next.ID),
		zap.Int("participants", len(next.combatants)))
	next.checkWin()
	return next
}

// Stop ends the session without a winner.
func (s *Session) Stop() *Session {
	if s.State == StateEnded {
		return s
	}
	next := s.clone()
	next.State = StateEnded
	next.log(EventCombatEnded, "", "", map[string]any{"reason": "stopped"})
	return next
}

// Over reports whether the session has ended.
func (s *Session) Over() bool { return s.State == StateEnded }

// buildQueue orders living combatants by descending max move budget, ties
// broken by ID so seeded runs replay identically.
func (s *Session) buildQueue() []string {
	var ids []string
	for _, id := range s.sortedIDs() {
		if s.combatants[id].Alive() {
			ids = append(ids, id)
		}
	}
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && queueLess(s.combatants[ids[j]], s.combatants[ids[j-1]]); j-- {
			ids[j], ids[j-1] = ids[j-1], ids[j]
		}
	}
	return ids
}

func queueLess(a, b *Combatant) bool {
	if a.MaxMovePoints != b.MaxMovePoints {
		return a.MaxMovePoints > b.MaxMovePoints
	}
	return a.ID < b.ID
}

func (s *Session) sortedIDs() []string {
	ids := make([]string, 0, len(s.combatants))
	for id := range s.combatants {
		ids = append(ids, id)
	}
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j] < ids[j-1]; j-- {
			ids[j], ids[j-1] = ids[j-1], ids[j]
		}
	}
	return ids
}

// advanceQueue rotates to the next living actor: the head is dequeued and
// requeued at the tail; draining the queue rolls the turn counter over,
// rebuilds the queue, and refills everyone's move points.
func (s *Session) advanceQueue() {
	if len(s.queue) == 0 {
		s.rollTurn()
		return
	}
	head := s.queue[0]
	s.queue = s.queue[1:]
	if c, ok := s.combatants[head]; ok && c.Alive() {
		s.queue = append(s.queue, head)
	}
	// Skip dead entries sitting at the head.
	for len(s.queue) > 0 {
		if c, ok := s.combatants[s.queue[0]]; ok && c.Alive() {
			break
		}
		s.queue = s.queue[1:]
	}
	if len(s.queue) == 0 {
		s.rollTurn()
		return
	}
	s.CurrentActor = s.queue[0]
}

func (s *Session) rollTurn() {
	s.Turn++
	s.queue = s.buildQueue()
	for _, c := range s.combatants {
		if c.Alive() {
			c.MovePoints = c.MaxMovePoints
		}
	}
	if len(s.queue) > 0 {
		s.CurrentActor = s.queue[0]
	} else {
		s.CurrentActor = ""
	}
}

// teamsAlive returns the distinct teams with a living member, in sorted
// combatant order.
func (s *Session) teamsAlive() []string {
	var teams []string
	seen := make(map[string]bool)
	for _, id := range s.sortedIDs() {
		c := s.combatants[id]
		if c.Alive() && !seen[c.Team] {
			seen[c.Team] = true
			teams = append(teams, c.Team)
		}
	}
	return teams
}

// checkWin ends the session when at most one team has a living member.
// One surviving team wins; zero survivors is a draw.
func (s *Session) checkWin() {
	if s.State != StateActive {
		return
	}
	teams := s.teamsAlive()
	if len(teams) > 1 {
		return
	}
	s.State = StateEnded
	data := map[string]any{"reason": "resolved"}
	if len(teams) == 1 {
		s.Winner = teams[0]
		data["winner"] = teams[0]
	} else {
		data["draw"] = true
	}
	s.log(EventCombatEnded, "", "", data)
	s.deps.Logger.Info("combat ended",
		zap.String("session", s.ID),
		zap.String("winner", s.Winner))
}

// log appends an event record to the snapshot.
func (s *Session) log(t EventType, actorID, targetID string, data map[string]any) {
	s.Events = append(s.Events, s.newEvent(t, actorID, targetID, data))
}

// feedback appends a presentation descriptor to the snapshot.
func (s *Session) feedback(f Feedback) {
	s.Feedback = append(s.Feedback, f)
}
