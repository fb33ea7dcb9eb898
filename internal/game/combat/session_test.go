package combat_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hexforged/scourge/internal/game/combat"
	"github.com/hexforged/scourge/internal/game/damage"
	"github.com/hexforged/scourge/internal/game/effect"
	"github.com/hexforged/scourge/internal/game/gear"
	"github.com/hexforged/scourge/internal/game/health"
	"github.com/hexforged/scourge/internal/game/rng"
)

// stubSrc replays scripted draws so resolver branches can be forced.
type stubSrc struct {
	floats []float64
	ints   []int
}

func (s *stubSrc) Float64() float64 {
	if len(s.floats) == 0 {
		return 0.5
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func (s *stubSrc) Intn(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	if v >= n {
		v = n - 1
	}
	return v
}

func testDeps(src rng.Source) combat.Deps {
	return combat.Deps{
		Src:     src,
		Tax:     damage.Builtin(),
		Effects: effect.Builtin(),
		Params:  damage.DefaultParams(),
		Logger:  zap.NewNop(),
		Clock:   func() time.Time { return time.Unix(1700000000, 0) },
	}
}

func club() *gear.WeaponDef {
	return &gear.WeaponDef{
		ID: "club", Name: "Club", Class: gear.ClassMelee,
		DamageType: "bash", Damage: 10, Weight: 4, Skill: "bashing",
	}
}

func fighter(id, team string, budget int) *combat.Combatant {
	return &combat.Combatant{
		ID:   id,
		Name: id,
		Team: team,
		Stats: combat.Stats{
			Accuracy:  10,
			SizeScale: 1,
		},
		Pool:          health.NewHumanoid(30),
		Resist:        damage.NewResistances(),
		MaxMovePoints: budget,
		Weapon:        club(),
		Effects:       effect.NewSet(),
	}
}

func TestStart_OrdersQueueByMoveBudget(t *testing.T) {
	s := combat.NewSession(testDeps(rng.NewSeeded(1)))
	s = s.AddCombatant(fighter("slow", "red", 100))
	s = s.AddCombatant(fighter("fast", "blue", 300))
	s = s.AddCombatant(fighter("mid", "green", 200))
	s = s.Start()

	assert.Equal(t, combat.StateActive, s.State)
	assert.Equal(t, 1, s.Turn)
	assert.Equal(t, "fast", s.CurrentActor)
	assert.Equal(t, []string{"fast", "mid", "slow"}, s.Combatants())
}

func TestStart_PanicsWithoutParticipants(t *testing.T) {
	s := combat.NewSession(testDeps(rng.NewSeeded(1)))
	assert.PanicsWithValue(t, "combat: Start: no participants", func() { s.Start() })
}

func TestStart_PanicsOnRestart(t *testing.T) {
	s := combat.NewSession(testDeps(rng.NewSeeded(1)))
	s = s.AddCombatant(fighter("a", "red", 100))
	s = s.AddCombatant(fighter("b", "blue", 100))
	s = s.Start()
	assert.Panics(t, func() { s.Start() })
}

func TestAddCombatant_DuplicatePanics(t *testing.T) {
	s := combat.NewSession(testDeps(rng.NewSeeded(1)))
	s = s.AddCombatant(fighter("a", "red", 100))
	assert.Panics(t, func() { s.AddCombatant(fighter("a", "blue", 100)) })
}

func TestEndTurn_RotatesQueue(t *testing.T) {
	s := combat.NewSession(testDeps(rng.NewSeeded(1)))
	s = s.AddCombatant(fighter("a", "red", 200))
	s = s.AddCombatant(fighter("b", "blue", 100))
	s = s.Start()
	require.Equal(t, "a", s.CurrentActor)

	s, r := s.EndTurn("a")
	require.True(t, r.OK)
	assert.Equal(t, "b", s.CurrentActor)

	s, r = s.EndTurn("b")
	require.True(t, r.OK)
	assert.Equal(t, "a", s.CurrentActor)
}

func TestEndTurn_WrongActorFails(t *testing.T) {
	s := combat.NewSession(testDeps(rng.NewSeeded(1)))
	s = s.AddCombatant(fighter("a", "red", 200))
	s = s.AddCombatant(fighter("b", "blue", 100))
	s = s.Start()

	s2, r := s.EndTurn("b")
	assert.False(t, r.OK)
	assert.Equal(t, "not this actor's turn", r.Reason)
	assert.Same(t, s, s2, "failed action returns the input snapshot")
}

func TestStop_EndsWithoutWinner(t *testing.T) {
	s := combat.NewSession(testDeps(rng.NewSeeded(1)))
	s = s.AddCombatant(fighter("a", "red", 200))
	s = s.AddCombatant(fighter("b", "blue", 100))
	s = s.Start()
	s = s.Stop()

	assert.True(t, s.Over())
	assert.Empty(t, s.Winner)
	_, r := s.EndTurn("a")
	assert.False(t, r.OK, "ended sessions reject actions")
}

func TestRemoveCombatant_EndsLopsidedFight(t *testing.T) {
	s := combat.NewSession(testDeps(rng.NewSeeded(1)))
	s = s.AddCombatant(fighter("a", "red", 200))
	s = s.AddCombatant(fighter("b", "blue", 100))
	s = s.Start()

	s = s.RemoveCombatant("b")
	assert.True(t, s.Over())
	assert.Equal(t, "red", s.Winner)
}

func TestStart_SingleTeamEndsImmediately(t *testing.T) {
	s := combat.NewSession(testDeps(rng.NewSeeded(1)))
	s = s.AddCombatant(fighter("a", "red", 200))
	s = s.AddCombatant(fighter("b", "red", 100))
	s = s.Start()

	assert.True(t, s.Over())
	assert.Equal(t, "red", s.Winner)
}

func TestEndTurn_TicksEffects(t *testing.T) {
	deps := testDeps(&stubSrc{floats: []float64{0.5}})
	s := combat.NewSession(deps)
	s = s.AddCombatant(fighter("a", "red", 200))
	s = s.AddCombatant(fighter("b", "blue", 100))
	s = s.Start()

	def, ok := deps.Effects.Get("bleeding")
	require.True(t, ok)
	require.Greater(t, def.DamagePerTurn, 0.0)

	s, r := s.ApplyEffect("a", "bleeding", 1, "")
	require.True(t, r.OK)

	a, _ := s.Combatant("a")
	before := a.Pool.TotalCurrent()

	s, r = s.EndTurn("a")
	require.True(t, r.OK)
	a, _ = s.Combatant("a")
	assert.Less(t, a.Pool.TotalCurrent(), before, "bleed damage landed on tick")
}

func TestApplyEffect_RequiresManager(t *testing.T) {
	s := combat.NewSession(testDeps(rng.NewSeeded(1)))
	bare := fighter("a", "red", 200)
	bare.Effects = nil
	s = s.AddCombatant(bare)
	s = s.AddCombatant(fighter("b", "blue", 100))
	s = s.Start()

	s2, r := s.ApplyEffect("a", "bleeding", 1, "")
	assert.False(t, r.OK)
	assert.Equal(t, "target has no effect manager", r.Reason)
	assert.Same(t, s, s2)
}

func TestApplyEffect_UnknownEffectFails(t *testing.T) {
	s := combat.NewSession(testDeps(rng.NewSeeded(1)))
	s = s.AddCombatant(fighter("a", "red", 200))
	s = s.AddCombatant(fighter("b", "blue", 100))
	s = s.Start()

	_, r := s.ApplyEffect("a", "petrified", 1, "")
	assert.False(t, r.OK)
	assert.Equal(t, "unknown effect", r.Reason)
}
