package model

// SkillType is the archetype tag of a skill.
type SkillType string

const (
	SkillMelee  SkillType = "melee"
	SkillRanged SkillType = "ranged"
	SkillAoE    SkillType = "aoe"
	SkillBuff   SkillType = "buff"
	SkillDebuff SkillType = "debuff"
)

// TargetType is the targeting shape of a skill.
type TargetType string

const (
	TargetSingle   TargetType = "single"
	TargetMultiple TargetType = "multiple"
	TargetArea     TargetType = "area"
)

// EffectDef names an effect and its raw parameters.
// Params are parsed by the effect factory.
type EffectDef struct {
	Name   string            `yaml:"name"`
	Params map[string]string `yaml:"params"`
}

// Skill is an immutable skill definition shared by every caster.
// It holds no per-cast state.
type Skill struct {
	ID               string      `yaml:"id"`
	Name             string      `yaml:"name"`
	Cooldown         float64     `yaml:"cooldown"`
	ManaCost         float64     `yaml:"mana_cost"`
	DamageMultiplier float64     `yaml:"damage_multiplier"`
	Type             SkillType   `yaml:"type"`
	Target           TargetType  `yaml:"target"`
	Range            float64     `yaml:"range"`
	AreaRadius       float64     `yaml:"area_radius"`
	Effects          []EffectDef `yaml:"effects"`
}
