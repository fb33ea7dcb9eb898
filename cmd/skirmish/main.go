// Package main runs a small seeded two-team skirmish and logs every action,
// exercising the full combat pipeline end to end.
package main

import (
	"flag"
	"log"

	"go.uber.org/zap"

	"github.com/hexforged/scourge/internal/config"
	"github.com/hexforged/scourge/internal/game/attack"
	"github.com/hexforged/scourge/internal/game/body"
	"github.com/hexforged/scourge/internal/game/combat"
	"github.com/hexforged/scourge/internal/game/damage"
	"github.com/hexforged/scourge/internal/game/effect"
	"github.com/hexforged/scourge/internal/game/gear"
	"github.com/hexforged/scourge/internal/game/health"
	"github.com/hexforged/scourge/internal/game/rng"
	"github.com/hexforged/scourge/internal/observability"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file (empty = defaults)")
	seed := flag.Int64("seed", 0, "battle seed override (0 = config seed)")
	maxTurns := flag.Int("max-turns", 50, "stop the fight after this many full turns")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("loading config: %v", err)
		}
	}
	if *seed != 0 {
		cfg.Combat.Seed = *seed
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("building logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	var src rng.Source
	if cfg.Combat.Seed != 0 {
		src = rng.NewSeeded(cfg.Combat.Seed)
		logger.Info("using seeded randomness", zap.Int64("seed", cfg.Combat.Seed))
	} else {
		src = rng.NewCryptoSource()
	}

	tax, effects, gearReg, err := loadContent(cfg.Content)
	if err != nil {
		log.Fatalf("loading content: %v", err)
	}

	s := combat.NewSession(combat.Deps{
		Src:     src,
		Tax:     tax,
		Effects: effects,
		Gear:    gearReg,
		Params:  cfg.Combat.Params(),
		Logger:  logger,
	})
	s = s.AddCombatant(raider())
	s = s.AddCombatant(marksman())
	s = s.Start()

	s = run(s, logger, *maxTurns)
	report(s, logger)
}

// loadContent builds the definition registries, falling back to the
// built-ins for any unset directory.
func loadContent(c config.ContentConfig) (*damage.Taxonomy, *effect.Registry, *gear.Registry, error) {
	tax := damage.Builtin()
	if c.DamageTypeDir != "" {
		var err error
		if tax, err = damage.LoadDirectory(c.DamageTypeDir); err != nil {
			return nil, nil, nil, err
		}
	}

	effects := effect.Builtin()
	if c.EffectDir != "" {
		effects = effect.NewRegistry(nil)
		if err := effects.LoadDirectory(c.EffectDir); err != nil {
			return nil, nil, nil, err
		}
	}

	gearReg := gear.NewRegistry()
	if c.WeaponDir != "" || c.ArmorDir != "" || c.AmmoDir != "" {
		if err := gearReg.LoadDirs(c.WeaponDir, c.ArmorDir, c.AmmoDir); err != nil {
			return nil, nil, nil, err
		}
	}
	return tax, effects, gearReg, nil
}

func raider() *combat.Combatant {
	return &combat.Combatant{
		ID:   "raider",
		Name: "Raider",
		Team: "red",
		Stats: combat.Stats{
			Accuracy:    9,
			Dodge:       2,
			CritBonus:   1,
			SizeScale:   1,
			SkillLevels: map[string]int{"blades": 3},
		},
		Pool:          health.NewHumanoid(60),
		Resist:        damage.NewResistances(),
		MaxMovePoints: 220,
		Weapon: &gear.WeaponDef{
			ID: "machete", Name: "Machete", Class: gear.ClassMelee,
			DamageType: "cut", Damage: 14, ToHit: 1, Penetration: 2,
			Weight: 6, Skill: "blades", CritBonus: 2,
		},
		Effects: effect.NewSet(),
		Defense: nil,
	}
}

func marksman() *combat.Combatant {
	smg := &gear.WeaponDef{
		ID: "smg", Name: "Submachine Gun", Class: gear.ClassGun,
		DamageType: "ballistic", Damage: 12, Penetration: 2,
		Weight: 4, Skill: "smg", Dispersion: 240, Range: 14,
		MagazineCapacity: 30, ReloadCost: 110,
		FireModes: []gear.FireMode{gear.FireModeSingle, gear.FireModeBurst},
		AmmoIDs:   []string{"9mm"},
	}
	mag := gear.NewMagazine("smg", "9mm", 30)
	mag.Reload("9mm")
	vest := &gear.ArmorDef{
		ID: "vest", Name: "Kevlar Vest",
		Covers:          []body.Part{body.PartTorso},
		Resistances:     map[string]float64{"cut": 6, "ballistic": 10, "bash": 4},
		BreakageCeiling: 40,
		Weight:          8,
	}
	return &combat.Combatant{
		ID:   "marksman",
		Name: "Marksman",
		Team: "blue",
		Stats: combat.Stats{
			Accuracy:    11,
			Dodge:       3,
			SizeScale:   1,
			SkillLevels: map[string]int{"smg": 4},
		},
		Pool:          health.NewHumanoid(50),
		Resist:        damage.NewResistances(),
		MaxMovePoints: 200,
		Weapon:        smg,
		Magazine:      mag,
		Armor:         []*gear.ArmorInstance{gear.NewArmorInstance(vest)},
		Effects:       effect.NewSet(),
		Defense: &attack.MeleeDefense{
			BlockChance:    0.25,
			BlockReduction: 4,
			DodgeChance:    0.15,
		},
	}
}

// run plays both sides with a trivial policy: swing or shoot at the enemy
// until out of move points, then end the turn.
func run(s *combat.Session, logger *zap.Logger, maxTurns int) *combat.Session {
	const distance = 6
	for !s.Over() && s.Turn <= maxTurns {
		actor := s.CurrentActor
		target := enemyOf(s, actor)
		if target == "" {
			break
		}

		var r combat.ActionResult
		switch actor {
		case "raider":
			s, r = s.ExecuteMeleeAttack(combat.MeleeRequest{
				ActorID: actor, TargetID: target, AimedPart: body.PartTorso,
			})
		default:
			s, r = s.ExecuteRangedAttack(combat.RangedRequest{
				ActorID: actor, TargetID: target,
				Mode: gear.FireModeBurst, Distance: distance,
			})
			if !r.OK && r.Reason == "magazine is empty" {
				s, r = s.Reload(combat.ReloadRequest{ActorID: actor, AmmoID: "9mm"})
			}
		}

		if r.OK {
			logger.Info("action resolved",
				zap.String("actor", actor),
				zap.String("outcome", r.Outcome.String()),
				zap.Int("damage", r.Damage),
				zap.Bool("killed", r.Killed))
			continue
		}

		logger.Debug("action refused",
			zap.String("actor", actor),
			zap.String("reason", r.Reason))
		s, _ = s.EndTurn(actor)
	}
	return s
}

// enemyOf returns a living combatant on another team.
func enemyOf(s *combat.Session, actorID string) string {
	actor, ok := s.Combatant(actorID)
	if !ok {
		return ""
	}
	for _, id := range s.Combatants() {
		c, ok := s.Combatant(id)
		if ok && c.Team != actor.Team && c.Alive() {
			return id
		}
	}
	return ""
}

func report(s *combat.Session, logger *zap.Logger) {
	logger.Info("skirmish finished",
		zap.String("state", string(s.State)),
		zap.String("winner", s.Winner),
		zap.Int("turns", s.Turn),
		zap.Int("events", len(s.Events)))
	for _, id := range s.Combatants() {
		c, ok := s.Combatant(id)
		if !ok {
			continue
		}
		logger.Info("combatant",
			zap.String("id", id),
			zap.String("team", c.Team),
			zap.Bool("alive", c.Alive()),
			zap.Int("hp", c.Pool.TotalCurrent()))
	}
}
