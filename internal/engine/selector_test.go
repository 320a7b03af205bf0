package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func equip(c *Combatant, skillID string, tier int) *Combatant {
	c.Equipped = append(c.Equipped, EquippedSkill{SkillID: skillID, Tier: tier})
	return c
}

func TestActionSelector_PicksHighestScoringViableSkill(t *testing.T) {
	catalog, err := NewSkillCatalog([]SkillTier{
		{SkillID: "weak", Tier: 1, Kind: KindAttack, BaseDamage: 5, PowerMultiplier: 1, HitChance: 1, CriticalChance: 0},
		{SkillID: "strong", Tier: 1, Kind: KindAttack, BaseDamage: 50, PowerMultiplier: 1, HitChance: 1, CriticalChance: 0},
	})
	require.NoError(t, err)

	actor := equip(equip(newTestCombatant("a", "x", 10, 10), "weak", 1), "strong", 1)
	store, err := NewCombatantStore([]*Combatant{actor, newTestCombatant("b", "y", 10, 5)})
	require.NoError(t, err)

	sel := NewActionSelector()
	decision, ok := sel.Select(actor, catalog, store)
	require.True(t, ok)
	assert.Equal(t, "strong", decision.SkillID)
	assert.Equal(t, CombatantId("b"), decision.TargetID)
}

func TestActionSelector_TieBreakBySkillIDThenTier(t *testing.T) {
	catalog, err := NewSkillCatalog([]SkillTier{
		{SkillID: "bbb", Tier: 1, Kind: KindAttack, BaseDamage: 10, PowerMultiplier: 1, HitChance: 1, CriticalChance: 0},
		{SkillID: "aaa", Tier: 2, Kind: KindAttack, BaseDamage: 10, PowerMultiplier: 1, HitChance: 1, CriticalChance: 0},
		{SkillID: "aaa", Tier: 1, Kind: KindAttack, BaseDamage: 10, PowerMultiplier: 1, HitChance: 1, CriticalChance: 0},
	})
	require.NoError(t, err)

	actor := equip(equip(equip(newTestCombatant("a", "x", 10, 10), "bbb", 1), "aaa", 2), "aaa", 1)
	store, err := NewCombatantStore([]*Combatant{actor, newTestCombatant("b", "y", 10, 5)})
	require.NoError(t, err)

	sel := NewActionSelector()
	decision, ok := sel.Select(actor, catalog, store)
	require.True(t, ok)
	assert.Equal(t, "aaa", decision.SkillID, "lower skill_id wins the score tie")
	assert.Equal(t, 1, decision.Tier, "lower tier wins the score and skill_id tie")
}

func TestActionSelector_SkipsUnaffordableAndOnCooldown(t *testing.T) {
	catalog, err := NewSkillCatalog([]SkillTier{
		{SkillID: "costly", Tier: 1, Kind: KindAttack, BaseDamage: 100, PowerMultiplier: 1, HitChance: 1, CriticalChance: 0, QiCost: 999},
		{SkillID: "cooling", Tier: 1, Kind: KindAttack, BaseDamage: 50, PowerMultiplier: 1, HitChance: 1, CriticalChance: 0},
		{SkillID: "cheap", Tier: 1, Kind: KindAttack, BaseDamage: 1, PowerMultiplier: 1, HitChance: 1, CriticalChance: 0},
	})
	require.NoError(t, err)

	actor := equip(equip(equip(newTestCombatant("a", "x", 10, 10), "costly", 1), "cooling", 1), "cheap", 1)
	store, err := NewCombatantStore([]*Combatant{actor, newTestCombatant("b", "y", 10, 5)})
	require.NoError(t, err)
	require.NoError(t, store.SetCooldown("a", "cooling", 2))

	sel := NewActionSelector()
	decision, ok := sel.Select(actor, catalog, store)
	require.True(t, ok)
	assert.Equal(t, "cheap", decision.SkillID)
}

func TestActionSelector_NoneWhenNoViableSkill(t *testing.T) {
	catalog, err := NewSkillCatalog([]SkillTier{
		{SkillID: "costly", Tier: 1, Kind: KindAttack, BaseDamage: 100, PowerMultiplier: 1, HitChance: 1, CriticalChance: 0, QiCost: 999},
	})
	require.NoError(t, err)

	actor := equip(newTestCombatant("a", "x", 10, 10), "costly", 1)
	store, err := NewCombatantStore([]*Combatant{actor, newTestCombatant("b", "y", 10, 5)})
	require.NoError(t, err)

	sel := NewActionSelector()
	_, ok := sel.Select(actor, catalog, store)
	assert.False(t, ok)
}

func TestActionSelector_NoneWhenNoOpponents(t *testing.T) {
	catalog, err := NewSkillCatalog([]SkillTier{
		{SkillID: "strike", Tier: 1, Kind: KindAttack, BaseDamage: 10, PowerMultiplier: 1, HitChance: 1, CriticalChance: 0},
	})
	require.NoError(t, err)

	actor := equip(newTestCombatant("a", "x", 10, 10), "strike", 1)
	store, err := NewCombatantStore([]*Combatant{actor})
	require.NoError(t, err)

	sel := NewActionSelector()
	_, ok := sel.Select(actor, catalog, store)
	assert.False(t, ok)
}

func TestActionSelector_TargetsLowestHPThenLowestID(t *testing.T) {
	catalog, err := NewSkillCatalog([]SkillTier{
		{SkillID: "strike", Tier: 1, Kind: KindAttack, BaseDamage: 10, PowerMultiplier: 1, HitChance: 1, CriticalChance: 0},
	})
	require.NoError(t, err)

	actor := equip(newTestCombatant("a", "x", 10, 10), "strike", 1)
	low1 := newTestCombatant("c", "y", 3, 5)
	low2 := newTestCombatant("b", "y", 3, 5)
	store, err := NewCombatantStore([]*Combatant{actor, low1, low2, newTestCombatant("d", "y", 10, 5)})
	require.NoError(t, err)

	sel := NewActionSelector()
	decision, ok := sel.Select(actor, catalog, store)
	require.True(t, ok)
	assert.Equal(t, CombatantId("b"), decision.TargetID, "equal lowest hp broken by lowest id")
}
