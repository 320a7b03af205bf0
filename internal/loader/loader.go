// Package loader reads the combatant and skill-catalog data files the
// engine core consumes, and adapts them into engine.Combatant and
// engine.SkillTier values. The engine core itself never touches the
// filesystem; this package is the external collaborator the data
// contracts describe.
package loader

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Zhihong0321/wuxia-battle-simulator/internal/engine"
)

// CombatantFile is the on-disk shape of one combatant record.
type CombatantFile struct {
	ID      string         `yaml:"id"`
	Name    string         `yaml:"name"`
	Faction string         `yaml:"faction"`
	Stats   StatsFile      `yaml:"stats"`
	Skills  []EquippedFile `yaml:"skills"`
}

// StatsFile is the on-disk shape of a combatant's Stats.
type StatsFile struct {
	HP       int `yaml:"hp"`
	MaxHP    int `yaml:"max_hp"`
	Qi       int `yaml:"qi"`
	MaxQi    int `yaml:"max_qi"`
	Strength int `yaml:"strength"`
	Agility  int `yaml:"agility"`
	Defense  int `yaml:"defense"`
}

// EquippedFile is the on-disk shape of one equipped-skill reference.
type EquippedFile struct {
	SkillID string `yaml:"skill_id"`
	Tier    int    `yaml:"tier"`
}

// CombatantsFile is the top-level document loaded from a combatants file.
type CombatantsFile struct {
	Combatants []CombatantFile `yaml:"combatants"`
}

// SkillTierFile is the on-disk shape of one (skill_id, tier) block.
type SkillTierFile struct {
	SkillID           string          `yaml:"skill_id"`
	Tier              int             `yaml:"tier"`
	TierName          string          `yaml:"tier_name"`
	Type              string          `yaml:"type"`
	NarrativeTemplate string          `yaml:"narrative_template"`
	Parameters        SkillParamsFile `yaml:"parameters"`
}

// SkillParamsFile is the on-disk shape of a skill tier's numeric block.
type SkillParamsFile struct {
	BaseDamage           int     `yaml:"base_damage"`
	PowerMultiplier      float64 `yaml:"power_multiplier"`
	HitChance            float64 `yaml:"hit_chance"`
	CriticalChance       float64 `yaml:"critical_chance"`
	QiCost               int     `yaml:"qi_cost"`
	Cooldown             int     `yaml:"cooldown"`
	PartialHitChance     float64 `yaml:"partial_hit_chance"`
	PartialHitMultiplier float64 `yaml:"partial_hit_multiplier"`
	DamageReduction      float64 `yaml:"damage_reduction"`
	DefenseChance        float64 `yaml:"defense_chance"`
}

// SkillsFile is the top-level document loaded from a skill catalog file.
type SkillsFile struct {
	Skills []SkillTierFile `yaml:"skills"`
}

// kindByTypeTag maps the data contract's "type" tag to an engine.SkillKind.
// Chinese labels are the canonical tags the narration collaborator also
// understands; English aliases are accepted for hand-authored fixtures.
var kindByTypeTag = map[string]engine.SkillKind{
	"攻击":       engine.KindAttack,
	"attack":   engine.KindAttack,
	"闪避":       engine.KindMovement,
	"movement": engine.KindMovement,
	"抵挡":       engine.KindDefense,
	"defense":  engine.KindDefense,
}

// LoadCombatants reads a combatants YAML file and adapts it into
// engine.Combatant values, in file order (which becomes the store's
// insertion order).
func LoadCombatants(path string) ([]*engine.Combatant, error) {
	var doc CombatantsFile
	if err := readYAML(path, &doc); err != nil {
		return nil, fmt.Errorf("loader: reading combatants %s: %w", path, err)
	}

	out := make([]*engine.Combatant, 0, len(doc.Combatants))
	for _, cf := range doc.Combatants {
		equipped := make([]engine.EquippedSkill, 0, len(cf.Skills))
		for _, sf := range cf.Skills {
			equipped = append(equipped, engine.EquippedSkill{SkillID: sf.SkillID, Tier: sf.Tier})
		}
		out = append(out, &engine.Combatant{
			ID:          engine.CombatantId(cf.ID),
			DisplayName: cf.Name,
			Faction:     engine.Faction(cf.Faction),
			Stats: engine.Stats{
				HP:       cf.Stats.HP,
				MaxHP:    cf.Stats.MaxHP,
				Qi:       cf.Stats.Qi,
				MaxQi:    cf.Stats.MaxQi,
				Strength: cf.Stats.Strength,
				Agility:  cf.Stats.Agility,
				Defense:  cf.Stats.Defense,
			},
			Equipped:  equipped,
			Cooldowns: make(map[string]int),
		})
	}
	return out, nil
}

// LoadSkillTiers reads a skill-catalog YAML file and adapts it into
// engine.SkillTier values.
func LoadSkillTiers(path string) ([]engine.SkillTier, error) {
	var doc SkillsFile
	if err := readYAML(path, &doc); err != nil {
		return nil, fmt.Errorf("loader: reading skills %s: %w", path, err)
	}

	out := make([]engine.SkillTier, 0, len(doc.Skills))
	for _, sf := range doc.Skills {
		kind, ok := kindByTypeTag[sf.Type]
		if !ok {
			return nil, fmt.Errorf("loader: skill %s/%d has unknown type %q", sf.SkillID, sf.Tier, sf.Type)
		}
		out = append(out, engine.SkillTier{
			SkillID:              sf.SkillID,
			Tier:                 sf.Tier,
			Kind:                 kind,
			TierName:             sf.TierName,
			BaseDamage:           sf.Parameters.BaseDamage,
			PowerMultiplier:      sf.Parameters.PowerMultiplier,
			HitChance:            sf.Parameters.HitChance,
			CriticalChance:       sf.Parameters.CriticalChance,
			QiCost:               sf.Parameters.QiCost,
			Cooldown:             sf.Parameters.Cooldown,
			PartialHitChance:     sf.Parameters.PartialHitChance,
			PartialHitMultiplier: sf.Parameters.PartialHitMultiplier,
			DamageReduction:      sf.Parameters.DamageReduction,
			DefenseChance:        sf.Parameters.DefenseChance,
			NarrativeTemplate:    sf.NarrativeTemplate,
		})
	}
	return out, nil
}

func readYAML(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(b, out)
}
