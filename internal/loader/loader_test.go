package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zhihong0321/wuxia-battle-simulator/internal/engine"
)

func TestLoadCombatants(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "combatants.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
combatants:
  - id: a
    name: Zhang San
    faction: hero
    stats: { hp: 30, max_hp: 30, qi: 10, max_qi: 10, strength: 5, agility: 10, defense: 2 }
    skills:
      - skill_id: basic_strike
        tier: 1
  - id: b
    name: Li Si
    faction: villain
    stats: { hp: 30, max_hp: 30, qi: 10, max_qi: 10, strength: 5, agility: 8, defense: 1 }
    skills: []
`), 0644))

	combatants, err := LoadCombatants(path)
	require.NoError(t, err)
	require.Len(t, combatants, 2)
	assert.Equal(t, engine.CombatantId("a"), combatants[0].ID)
	assert.Equal(t, "Zhang San", combatants[0].DisplayName)
	assert.Equal(t, engine.Faction("hero"), combatants[0].Faction)
	assert.Equal(t, 10, combatants[0].Stats.Agility)
	require.Len(t, combatants[0].Equipped, 1)
	assert.Equal(t, "basic_strike", combatants[0].Equipped[0].SkillID)
}

func TestLoadCombatants_MissingFile(t *testing.T) {
	_, err := LoadCombatants("/nonexistent/combatants.yaml")
	assert.Error(t, err)
}

func TestLoadSkillTiers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "skills.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
skills:
  - skill_id: basic_strike
    tier: 1
    tier_name: Basic Strike
    type: 攻击
    narrative_template: "{actor} strikes {target}"
    parameters:
      base_damage: 20
      power_multiplier: 1.0
      hit_chance: 0.9
      critical_chance: 0.1
      qi_cost: 0
      cooldown: 0
  - skill_id: swift_step
    tier: 1
    type: movement
    parameters:
      hit_chance: 0.3
      partial_hit_chance: 1.0
      partial_hit_multiplier: 0.5
`), 0644))

	tiers, err := LoadSkillTiers(path)
	require.NoError(t, err)
	require.Len(t, tiers, 2)
	assert.Equal(t, engine.KindAttack, tiers[0].Kind)
	assert.Equal(t, 20, tiers[0].BaseDamage)
	assert.Equal(t, engine.KindMovement, tiers[1].Kind)
	assert.Equal(t, 0.5, tiers[1].PartialHitMultiplier)
}

func TestLoadSkillTiers_UnknownType(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "skills.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
skills:
  - skill_id: mystery
    tier: 1
    type: unknown_kind
    parameters: { hit_chance: 0.5 }
`), 0644))

	_, err := LoadSkillTiers(path)
	assert.Error(t, err)
}
