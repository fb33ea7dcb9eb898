package damage

// AttackKind distinguishes the three delivery mechanisms.
type AttackKind string

const (
	AttackMelee  AttackKind = "melee"
	AttackRanged AttackKind = "ranged"
	AttackThrow  AttackKind = "throw"
)

// Attack is the immutable description of one attack — built per swing or
// shot, never mutated, only rebuilt via the With* copy methods.
type Attack struct {
	Kind       AttackKind `yaml:"kind"`
	Damage     Instance   `yaml:"damage"`
	ToHit      float64    `yaml:"to_hit"`
	Dispersion float64    `yaml:"dispersion"`
	Range      int        `yaml:"range"`
	Skill      string     `yaml:"skill"`
	SkillLevel int        `yaml:"skill_level"`
	CritMult   float64    `yaml:"crit_mult"`
	CritBonus  float64    `yaml:"crit_bonus"`
}

// NewAttack returns an Attack of the given kind carrying d, with the
// default crit multiplier of 2.0.
func NewAttack(kind AttackKind, d Instance) Attack {
	return Attack{Kind: kind, Damage: d, CritMult: 2.0}
}

// Normalize fills defaults for omitted optional fields after decoding from
// the plain-data form.
//
// Postcondition: CritMult > 0; the damage instance is normalized.
func (a Attack) Normalize() Attack {
	if a.CritMult == 0 {
		a.CritMult = 2.0
	}
	a.Damage = a.Damage.Normalize()
	return a
}

// WithDamage returns a copy carrying d instead of the current instance.
func (a Attack) WithDamage(d Instance) Attack {
	a.Damage = d
	return a
}

// WithToHit returns a copy with the to-hit bonus replaced.
func (a Attack) WithToHit(toHit float64) Attack {
	a.ToHit = toHit
	return a
}

// WithDispersion returns a copy with the dispersion replaced.
func (a Attack) WithDispersion(dispersion float64) Attack {
	a.Dispersion = dispersion
	return a
}

// WithRange returns a copy with the range replaced.
func (a Attack) WithRange(rng int) Attack {
	a.Range = rng
	return a
}

// WithSkill returns a copy with the skill association replaced.
func (a Attack) WithSkill(skill string, level int) Attack {
	a.Skill = skill
	a.SkillLevel = level
	return a
}

// WithCrit returns a copy with the crit multiplier and bonus replaced.
func (a Attack) WithCrit(mult, bonus float64) Attack {
	a.CritMult = mult
	a.CritBonus = bonus
	return a
}
