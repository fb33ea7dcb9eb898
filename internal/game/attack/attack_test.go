package attack_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/hexforged/scourge/internal/game/attack"
	"github.com/hexforged/scourge/internal/game/body"
	"github.com/hexforged/scourge/internal/game/damage"
	"github.com/hexforged/scourge/internal/game/gear"
	"github.com/hexforged/scourge/internal/game/health"
	"github.com/hexforged/scourge/internal/game/rng"
)

var params = damage.DefaultParams()

// stubSrc replays a scripted sequence of draws so each branch of a resolver
// can be forced deterministically.
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

func machete() *gear.WeaponDef {
	return &gear.WeaponDef{
		ID: "machete", Name: "Machete", Class: gear.ClassMelee,
		DamageType: "cut", Damage: 12, ToHit: 0, Penetration: 2,
		Weight: 6, Skill: "blades", CritBonus: 2,
	}
}

func smg() *gear.WeaponDef {
	return &gear.WeaponDef{
		ID: "smg", Name: "Submachine Gun", Class: gear.ClassGun,
		DamageType: "ballistic", Damage: 14, Penetration: 2,
		Weight: 4, Skill: "smg", Dispersion: 240, Range: 14,
		MagazineCapacity: 30, ReloadCost: 110,
		FireModes: []gear.FireMode{gear.FireModeSingle, gear.FireModeBurst, gear.FireModeAuto},
		AmmoIDs:   []string{"9mm"},
	}
}

func TestRollHit_Bands(t *testing.T) {
	cases := []struct {
		name      string
		accuracy  float64
		critBonus float64
		draw      float64 // fed to Float64, scaled by 20
		outcome   attack.Outcome
		missedBy  float64
	}{
		{"crit", 10, 2, 0.45, attack.OutcomeCrit, 0},
		{"hit", 10, 2, 0.3, attack.OutcomeHit, 0.2},
		{"glance", 10, 2, 0.1, attack.OutcomeGlance, 0.4},
		{"graze", 16, 2, 0.15, attack.OutcomeGraze, 1.3},
		{"miss", 18, 2, 0.1, attack.OutcomeMiss, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			src := &stubSrc{floats: []float64{tc.draw, 0.99}}
			h := attack.RollHit(src, tc.accuracy, 0, 0, tc.critBonus, 0, 0, false)
			assert.Equal(t, tc.outcome, h.Outcome)
			assert.InDelta(t, tc.missedBy, h.MissedBy, 1e-9)
			assert.Equal(t, tc.accuracy, h.Threshold)
		})
	}
}

func TestRollHit_DoubleCrit(t *testing.T) {
	// Crit bonus 5 gives a 10% double-crit chance; the second draw lands
	// under it.
	src := &stubSrc{floats: []float64{0.5, 0.05}}
	h := attack.RollHit(src, 10, 0, 0, 5, 0, 0, false)
	require.Equal(t, attack.OutcomeCrit, h.Outcome)
	assert.True(t, h.DoubleCrit)

	src = &stubSrc{floats: []float64{0.5, 0.5}}
	h = attack.RollHit(src, 10, 0, 0, 5, 0, 0, false)
	require.Equal(t, attack.OutcomeCrit, h.Outcome)
	assert.False(t, h.DoubleCrit)
}

func TestRollHit_RangedScalesDispersion(t *testing.T) {
	src := &stubSrc{floats: []float64{0.3}}
	h := attack.RollHit(src, 10, 0, 0, 0, 240, 5, true)
	assert.InDelta(t, 360.0, h.Dispersion, 1e-9)

	src = &stubSrc{floats: []float64{0.3}}
	h = attack.RollHit(src, 10, 0, 0, 0, 240, 5, false)
	assert.InDelta(t, 240.0, h.Dispersion, 1e-9, "melee keeps base dispersion")
}

func TestEffectiveDispersion(t *testing.T) {
	assert.InDelta(t, 480.0, attack.EffectiveDispersion(240, 10), 1e-9)
	assert.InDelta(t, 240.0, attack.EffectiveDispersion(240, 0), 1e-9)
}

func TestHitRoll_MissedByTiles(t *testing.T) {
	h := attack.HitRoll{MissedBy: 0.2}
	assert.InDelta(t, 2.0, h.MissedByTiles(10), 1e-9)
}

func TestAiming(t *testing.T) {
	s := attack.StartAiming("npc-1", body.PartHead)
	assert.Zero(t, s.Turns)
	assert.Zero(t, s.Bonus)
	assert.Zero(t, s.Quality)

	s = attack.ContinueAiming(s, "npc-1", body.PartHead, 10)
	assert.Equal(t, 1, s.Turns)
	assert.InDelta(t, 2.0, s.Bonus, 1e-9)
	assert.InDelta(t, 0.15, s.Quality, 1e-9)

	s = attack.ContinueAiming(s, "npc-1", body.PartHead, 10)
	s = attack.ContinueAiming(s, "npc-1", body.PartHead, 10)
	assert.Equal(t, 3, s.Turns)
	assert.InDelta(t, 6.0, s.Bonus, 1e-9)
	assert.InDelta(t, 0.45, s.Quality, 1e-9)
}

func TestAiming_BonusCapsAndQualitySaturates(t *testing.T) {
	s := attack.StartAiming("npc-1", body.PartHead)
	for i := 0; i < 7; i++ {
		s = attack.ContinueAiming(s, "npc-1", body.PartHead, 4)
	}
	assert.InDelta(t, 4.0, s.Bonus, 1e-9, "bonus capped")
	assert.InDelta(t, 1.0, s.Quality, 1e-9, "quality saturates at 1")
}

func TestAiming_SwitchingTargetResets(t *testing.T) {
	s := attack.StartAiming("npc-1", body.PartHead)
	s = attack.ContinueAiming(s, "npc-1", body.PartHead, 10)
	s = attack.ContinueAiming(s, "npc-2", body.PartHead, 10)
	assert.Equal(t, 1, s.Turns, "new target starts over")
	assert.Equal(t, "npc-2", s.TargetID)
}

func TestBuildMeleeAttack(t *testing.T) {
	a := attack.BuildMeleeAttack(machete())
	assert.Equal(t, damage.AttackMelee, a.Kind)
	require.Len(t, a.Damage.Units, 1)
	assert.Equal(t, "cut", a.Damage.Units[0].Type)
	assert.Equal(t, 12.0, a.Damage.Units[0].Amount)
	assert.Equal(t, 2.0, a.Damage.Units[0].Penetration)
	assert.Equal(t, 2.0, a.CritMult)
	assert.Equal(t, 2.0, a.CritBonus)

	assert.PanicsWithValue(t, "attack: BuildMeleeAttack: weapon is not melee", func() {
		attack.BuildMeleeAttack(smg())
	})
}

func TestExecuteMeleeAttack_Hit(t *testing.T) {
	tax := damage.Builtin()
	pool := health.NewHumanoid(40)
	in := attack.MeleeInput{
		Attacker:     attack.AttackerStats{Accuracy: 10},
		Defender:     attack.DefenderStats{SizeScale: 1},
		Attack:       attack.BuildMeleeAttack(machete()).WithCrit(2.0, 0),
		AimedPart:    body.PartTorso,
		WeaponWeight: 6,
	}
	// Draw 6 lands in the hit band; the 0.9 fails the 5% lucky-crit roll;
	// the last draw honors the aimed part at 50% (accuracy 10 / 20).
	src := &stubSrc{floats: []float64{0.3, 0.9, 0.4}}
	r := attack.ExecuteMeleeAttack(src, tax, params, in, damage.NewResistances(), pool)

	assert.Equal(t, attack.OutcomeHit, r.Roll.Outcome)
	assert.Equal(t, 1.0, r.CritMult)
	assert.Equal(t, body.PartTorso, r.Apply.Part)
	assert.Equal(t, 12, r.Apply.Damage)
	assert.Equal(t, 28, r.Pool.Get(body.PartTorso).Current)
	assert.Equal(t, 103, r.MoveCost, "100 + floor(6*0.5)")
	assert.Equal(t, 40, pool.Get(body.PartTorso).Current, "input pool untouched")
}

func TestExecuteMeleeAttack_Miss(t *testing.T) {
	tax := damage.Builtin()
	pool := health.NewHumanoid(40)
	in := attack.MeleeInput{
		Attacker:     attack.AttackerStats{Accuracy: 18},
		Attack:       attack.BuildMeleeAttack(machete()),
		WeaponWeight: 6,
	}
	src := &stubSrc{floats: []float64{0.1}}
	r := attack.ExecuteMeleeAttack(src, tax, params, in, damage.NewResistances(), pool)

	assert.Equal(t, attack.OutcomeMiss, r.Roll.Outcome)
	assert.False(t, r.Apply.Hit)
	assert.Equal(t, 72, r.MoveCost, "miss discounts to 103 * 0.7")
	assert.Equal(t, 40, r.Pool.Get(body.PartTorso).Current)
}

func TestExecuteMeleeAttack_CritDoublesDamageAndCost(t *testing.T) {
	tax := damage.Builtin()
	pool := health.NewHumanoid(40)
	in := attack.MeleeInput{
		Attacker:     attack.AttackerStats{Accuracy: 10},
		Defender:     attack.DefenderStats{SizeScale: 1},
		Attack:       attack.BuildMeleeAttack(machete()),
		WeaponWeight: 6,
	}
	// Draw 9 beats threshold-critBonus 8; double-crit fails; the part
	// draw of 0.3 lands in the torso's band of the melee weights.
	src := &stubSrc{floats: []float64{0.45, 0.9, 0.3}}
	r := attack.ExecuteMeleeAttack(src, tax, params, in, damage.NewResistances(), pool)

	require.Equal(t, attack.OutcomeCrit, r.Roll.Outcome)
	assert.Equal(t, 2.0, r.CritMult)
	assert.Equal(t, body.PartTorso, r.Apply.Part)
	assert.Equal(t, 24, r.Apply.Damage, "crit multiplies before armor")
	assert.Equal(t, 123, r.MoveCost, "crit costs 103 * 1.2")
}

func TestExecuteMeleeAttack_DoubleCrit(t *testing.T) {
	tax := damage.Builtin()
	pool := health.NewHumanoid(80)
	in := attack.MeleeInput{
		Attacker:     attack.AttackerStats{Accuracy: 10},
		Defender:     attack.DefenderStats{SizeScale: 1},
		Attack:       attack.BuildMeleeAttack(machete()).WithCrit(2.0, 5),
		WeaponWeight: 6,
	}
	src := &stubSrc{floats: []float64{0.5, 0.05, 0.0}}
	r := attack.ExecuteMeleeAttack(src, tax, params, in, damage.NewResistances(), pool)

	require.True(t, r.Roll.DoubleCrit)
	assert.Equal(t, 4.0, r.CritMult)
	assert.Equal(t, 48, r.Apply.Damage)
}

func TestExecuteMeleeAttack_LuckUpgradesHitToCrit(t *testing.T) {
	tax := damage.Builtin()
	pool := health.NewHumanoid(80)
	in := attack.MeleeInput{
		Attacker:     attack.AttackerStats{Accuracy: 10, Luck: 0.5},
		Defender:     attack.DefenderStats{SizeScale: 1},
		Attack:       attack.BuildMeleeAttack(machete()).WithCrit(2.0, 0),
		AimedPart:    body.PartTorso,
		WeaponWeight: 6,
	}
	// Draw 6 is a plain hit, but the 0.5 lands under the 55% lucky-crit
	// chance (base 0.05 + luck 0.5); the 0.9 fails the double roll and the
	// last draw honors the aimed part.
	src := &stubSrc{floats: []float64{0.3, 0.5, 0.9, 0.4}}
	r := attack.ExecuteMeleeAttack(src, tax, params, in, damage.NewResistances(), pool)

	assert.Equal(t, attack.OutcomeHit, r.Roll.Outcome, "the band itself is unchanged")
	assert.Equal(t, 2.0, r.CritMult)
	assert.Equal(t, 24, r.Apply.Damage)
	assert.Equal(t, 103, r.MoveCost, "move cost follows the band, not the multiplier")
}

func TestExecuteMeleeAttack_BaseCritChanceSaturated(t *testing.T) {
	tax := damage.Builtin()
	pool := health.NewHumanoid(80)
	hot := params
	hot.BaseCritChance = 1
	in := attack.MeleeInput{
		Attacker:     attack.AttackerStats{Accuracy: 10},
		Defender:     attack.DefenderStats{SizeScale: 1},
		Attack:       attack.BuildMeleeAttack(machete()).WithCrit(2.0, 0),
		AimedPart:    body.PartTorso,
		WeaponWeight: 6,
	}
	// Chance 1 succeeds without a draw; the half-chance double roll then
	// takes the 0.2 and doubles again.
	src := &stubSrc{floats: []float64{0.3, 0.2, 0.4}}
	r := attack.ExecuteMeleeAttack(src, tax, hot, in, damage.NewResistances(), pool)

	assert.Equal(t, attack.OutcomeHit, r.Roll.Outcome)
	assert.Equal(t, 4.0, r.CritMult)
	assert.Equal(t, 48, r.Apply.Damage)
}

func TestExecuteRangedAttack_LuckUpgradesShot(t *testing.T) {
	tax := damage.Builtin()
	pool := health.NewHumanoid(80)
	in := attack.RangedInput{
		Attacker:   attack.AttackerStats{Accuracy: 10, Luck: 0.5},
		Attack:     attack.BuildRangedAttack(smg(), nil).WithCrit(2.0, 0),
		Distance:   4,
		Mode:       gear.FireModeSingle,
		AimQuality: 1,
		AimedPart:  body.PartTorso,
	}
	src := &stubSrc{floats: []float64{0.3, 0.5, 0.9}}
	r := attack.ExecuteRangedAttack(src, tax, params, in, damage.NewResistances(), pool)

	require.Len(t, r.Shots, 1)
	assert.Equal(t, attack.OutcomeHit, r.Shots[0].Roll.Outcome)
	assert.Equal(t, 28, r.TotalDamage, "lucky crit doubles the shot")
}

func TestExecuteMeleeAttackWithDefense_Block(t *testing.T) {
	tax := damage.Builtin()
	pool := health.NewHumanoid(40)
	in := attack.MeleeInput{
		Attacker:     attack.AttackerStats{Accuracy: 10},
		Defender:     attack.DefenderStats{SizeScale: 1},
		Attack:       attack.BuildMeleeAttack(machete()).WithCrit(2.0, 0),
		WeaponWeight: 6,
	}
	def := attack.MeleeDefense{BlockChance: 1, BlockReduction: 5}
	src := &stubSrc{floats: []float64{0.3, 0.9, 0.0}}
	r := attack.ExecuteMeleeAttackWithDefense(src, tax, params, in, def, damage.NewResistances(), pool)

	assert.True(t, r.Blocked)
	assert.False(t, r.Dodged)
	assert.Equal(t, 3, r.BlockWear, "ceil(5 * 0.5)")
	assert.Equal(t, 7, r.Apply.Damage, "12 reduced by the flat 5")
}

func TestExecuteMeleeAttackWithDefense_DodgeNegates(t *testing.T) {
	tax := damage.Builtin()
	pool := health.NewHumanoid(40)
	in := attack.MeleeInput{
		Attacker:     attack.AttackerStats{Accuracy: 10},
		Attack:       attack.BuildMeleeAttack(machete()).WithCrit(2.0, 0),
		WeaponWeight: 6,
	}
	def := attack.MeleeDefense{DodgeChance: 1}
	src := &stubSrc{floats: []float64{0.3}}
	r := attack.ExecuteMeleeAttackWithDefense(src, tax, params, in, def, damage.NewResistances(), pool)

	assert.True(t, r.Dodged)
	assert.Equal(t, attack.OutcomeMiss, r.Roll.Outcome)
	assert.False(t, r.Apply.Hit)
	assert.Equal(t, 72, r.MoveCost)
	assert.Equal(t, 40, r.Pool.Get(body.PartTorso).Current)
}

func TestShotCount(t *testing.T) {
	src := &stubSrc{}
	assert.Equal(t, 1, attack.ShotCount(src, gear.FireModeSingle))
	assert.Equal(t, 3, attack.ShotCount(src, gear.FireModeBurst))

	src = &stubSrc{ints: []int{2}}
	assert.Equal(t, 7, attack.ShotCount(src, gear.FireModeAuto))

	assert.Panics(t, func() { attack.ShotCount(src, gear.FireMode("beam")) })
}

func TestBuildRangedAttack(t *testing.T) {
	ammo := &gear.AmmoDef{ID: "9mm", DamageBonus: 2, PenetrationBonus: 1}
	a := attack.BuildRangedAttack(smg(), ammo)
	assert.Equal(t, damage.AttackRanged, a.Kind)
	require.Len(t, a.Damage.Units, 1)
	assert.Equal(t, 16.0, a.Damage.Units[0].Amount)
	assert.Equal(t, 3.0, a.Damage.Units[0].Penetration)
	assert.Equal(t, 240.0, a.Dispersion)
	assert.Equal(t, 14, a.Range)

	bare := attack.BuildRangedAttack(smg(), nil)
	assert.Equal(t, 14.0, bare.Damage.Units[0].Amount)

	assert.Panics(t, func() { attack.BuildRangedAttack(machete(), nil) })
}

func TestExecuteRangedAttack_SingleShotHit(t *testing.T) {
	tax := damage.Builtin()
	pool := health.NewHumanoid(40)
	in := attack.RangedInput{
		Attacker:   attack.AttackerStats{Accuracy: 10},
		Attack:     attack.BuildRangedAttack(smg(), nil).WithCrit(2.0, 0),
		Distance:   4,
		Mode:       gear.FireModeSingle,
		AimQuality: 1,
		AimedPart:  body.PartHead,
	}
	// Hit-band roll, then a failed lucky-crit draw; aim quality 1 takes
	// the aimed head without a draw.
	src := &stubSrc{floats: []float64{0.3, 0.9}}
	r := attack.ExecuteRangedAttack(src, tax, params, in, damage.NewResistances(), pool)

	require.Len(t, r.Shots, 1)
	assert.Equal(t, attack.OutcomeHit, r.Shots[0].Roll.Outcome)
	assert.Equal(t, body.PartHead, r.Shots[0].Apply.Part)
	assert.Equal(t, 14, r.TotalDamage)
	assert.Equal(t, 1, r.AmmoUsed)
	assert.Equal(t, 100, r.MoveCost, "80 + 4*5")
}

func TestExecuteRangedAttack_AutoBurnsExtraRound(t *testing.T) {
	tax := damage.Builtin()
	pool := health.NewHumanoid(40)
	in := attack.RangedInput{
		// Threshold 20 keeps every draw in the miss band.
		Attacker: attack.AttackerStats{Accuracy: 20, SkillLevel: 3},
		Attack:   attack.BuildRangedAttack(smg(), nil).WithCrit(2.0, 0),
		Distance: 2,
		Mode:     gear.FireModeAuto,
	}
	src := &stubSrc{
		ints: []int{0}, // 5 rounds
		floats: []float64{
			0.05, // extra-round chance succeeds
			0.1, 0.5, 0.1, 0.5, 0.1, 0.5, 0.1, 0.5, 0.1, 0.5,
		},
	}
	r := attack.ExecuteRangedAttack(src, tax, params, in, damage.NewResistances(), pool)

	require.Len(t, r.Shots, 5)
	for _, s := range r.Shots {
		assert.Equal(t, attack.OutcomeMiss, s.Roll.Outcome)
	}
	assert.Equal(t, 6, r.AmmoUsed, "full auto chewed one extra round")
	assert.Equal(t, 0, r.TotalDamage)
	assert.Equal(t, 195, r.MoveCost, "200 + 2*5 - 3*5")
}

func TestExecuteRangedAttack_ScatterLandsOnLineOfFire(t *testing.T) {
	tax := damage.Builtin()
	pool := health.NewHumanoid(40)
	in := attack.RangedInput{
		Attacker: attack.AttackerStats{Accuracy: 20},
		Attack:   attack.BuildRangedAttack(smg(), nil).WithCrit(2.0, 0),
		Distance: 10,
		Mode:     gear.FireModeSingle,
	}
	// Theta draw of 0.5 maps to a zero deviation angle; the round lands
	// missedBy * distance tiles past the target on the line of fire.
	src := &stubSrc{floats: []float64{0.1, 0.5}}
	r := attack.ExecuteRangedAttack(src, tax, params, in, damage.NewResistances(), pool)

	require.Len(t, r.Shots, 1)
	assert.InDelta(t, 10.0, r.Shots[0].Scatter.X, 1e-9)
	assert.InDelta(t, 0.0, r.Shots[0].Scatter.Y, 1e-9)
}

func TestExecuteRangedAttack_StopsOnKill(t *testing.T) {
	tax := damage.Builtin()
	pool := health.NewHumanoid(10)
	in := attack.RangedInput{
		Attacker:   attack.AttackerStats{Accuracy: 10},
		Attack:     damage.NewAttack(damage.AttackRanged, damage.NewInstance().AddDamage("ballistic", 100, 0)),
		Distance:   3,
		Mode:       gear.FireModeBurst,
		AimQuality: 1,
		AimedPart:  body.PartHead,
	}
	src := &stubSrc{floats: []float64{0.3, 0.3, 0.3}}
	r := attack.ExecuteRangedAttack(src, tax, params, in, damage.NewResistances(), pool)

	require.Len(t, r.Shots, 1, "no rolls after the target drops")
	assert.True(t, r.Shots[0].Apply.Killed)
	assert.True(t, r.Pool.Dead())
	assert.Equal(t, 3, r.AmmoUsed, "the burst still consumed its rounds")
}

func TestExecuteRangedAttack_MaxShotsClampsBurst(t *testing.T) {
	tax := damage.Builtin()
	pool := health.NewHumanoid(40)
	in := attack.RangedInput{
		Attacker: attack.AttackerStats{Accuracy: 20},
		Attack:   attack.BuildRangedAttack(smg(), nil).WithCrit(2.0, 0),
		Distance: 3,
		Mode:     gear.FireModeBurst,
		MaxShots: 2,
	}
	src := &stubSrc{floats: []float64{0.1, 0.5, 0.1, 0.5}}
	r := attack.ExecuteRangedAttack(src, tax, params, in, damage.NewResistances(), pool)
	assert.Len(t, r.Shots, 2, "magazine ran dry mid-burst")
	assert.Equal(t, 2, r.AmmoUsed)
}

func TestExecuteRangedAttack_MoveCostFloor(t *testing.T) {
	tax := damage.Builtin()
	pool := health.NewHumanoid(40)
	in := attack.RangedInput{
		Attacker: attack.AttackerStats{Accuracy: 20, SkillLevel: 10},
		Attack:   attack.BuildRangedAttack(smg(), nil).WithCrit(2.0, 0),
		Distance: 0,
		Mode:     gear.FireModeSingle,
	}
	src := &stubSrc{floats: []float64{0.1, 0.5}}
	r := attack.ExecuteRangedAttack(src, tax, params, in, damage.NewResistances(), pool)
	assert.Equal(t, 50, r.MoveCost, "skill discount caps at the floor")
}

func TestRollHit_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		accuracy := rapid.Float64Range(0, 30).Draw(t, "accuracy")
		dodge := rapid.Float64Range(0, 15).Draw(t, "dodge")
		critBonus := rapid.Float64Range(0, 10).Draw(t, "critBonus")
		seed := rapid.Int64().Draw(t, "seed")

		src := rng.NewSeeded(seed)
		h := attack.RollHit(src, accuracy, 0, dodge, critBonus, 120, 5, true)

		assert.GreaterOrEqual(t, h.MissedBy, 0.0)
		assert.True(t, h.Draw >= 0 && h.Draw < 20)
		if h.Outcome == attack.OutcomeMiss {
			assert.Equal(t, 1.0, h.MissedBy)
		}
		if h.Outcome == attack.OutcomeCrit {
			assert.Zero(t, h.MissedBy)
		}
		if h.DoubleCrit {
			assert.Zero(t, h.MissedBy)
		}
		assert.False(t, math.IsNaN(h.Dispersion))
	})
}
