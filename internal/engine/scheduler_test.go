package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestScheduler_HighestAgilityActsFirst(t *testing.T) {
	store, err := NewCombatantStore([]*Combatant{
		newTestCombatant("a", "x", 10, 10),
		newTestCombatant("b", "y", 10, 5),
	})
	require.NoError(t, err)

	sch := NewScheduler(100, 1.0)
	id, err := sch.Select(store)
	require.NoError(t, err)
	assert.Equal(t, CombatantId("a"), id)
}

// TestScheduler_TieBreakByLowestID covers Scenario D: equal agility ties
// are broken by the lowest CombatantId.
func TestScheduler_TieBreakByLowestID(t *testing.T) {
	store, err := NewCombatantStore([]*Combatant{
		newTestCombatant("b", "y", 10, 10),
		newTestCombatant("a", "x", 10, 10),
	})
	require.NoError(t, err)

	sch := NewScheduler(100, 1.0)
	id, err := sch.Select(store)
	require.NoError(t, err)
	assert.Equal(t, CombatantId("a"), id)
}

func TestScheduler_LeftoverTimeUnitsCarryForward(t *testing.T) {
	store, err := NewCombatantStore([]*Combatant{
		newTestCombatant("a", "x", 10, 30),
		newTestCombatant("b", "y", 10, 1),
	})
	require.NoError(t, err)

	sch := NewScheduler(100, 1.0)
	_, err = sch.Select(store)
	require.NoError(t, err)

	a, _ := store.ByID("a")
	assert.Equal(t, int64(20*timeUnitsScale), a.TimeUnits, "four ticks of 30 accrue 120; minus threshold 100 leaves 20 left over, scaled")
}

func TestScheduler_ZeroAgilityNeverSelectedButDoesNotBlock(t *testing.T) {
	store, err := NewCombatantStore([]*Combatant{
		newTestCombatant("a", "x", 10, 0),
		newTestCombatant("b", "y", 10, 10),
	})
	require.NoError(t, err)

	sch := NewScheduler(100, 1.0)
	id, err := sch.Select(store)
	require.NoError(t, err)
	assert.Equal(t, CombatantId("b"), id)
}

func TestScheduler_StuckWhenNoLivingCombatant(t *testing.T) {
	store, err := NewCombatantStore([]*Combatant{
		newTestCombatant("a", "x", 0, 10),
	})
	require.NoError(t, err)

	sch := NewScheduler(100, 1.0)
	_, err = sch.Select(store)
	assert.ErrorIs(t, err, ErrSchedulerStuck)
}

func TestScheduler_StuckWhenAllAgilityZero(t *testing.T) {
	store, err := NewCombatantStore([]*Combatant{
		newTestCombatant("a", "x", 10, 0),
		newTestCombatant("b", "y", 10, 0),
	})
	require.NoError(t, err)

	sch := NewScheduler(100, 1.0)
	_, err = sch.Select(store)
	assert.ErrorIs(t, err, ErrSchedulerStuck)
}

// TestScheduler_TerminationGuarantee covers property 4: any living
// combatant with positive agility*tick_scale guarantees a selection within
// the bounded search.
func TestScheduler_TerminationGuarantee(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		agility := rapid.IntRange(1, 100).Draw(rt, "agility")
		threshold := rapid.IntRange(1, 100).Draw(rt, "threshold")
		tickScale := rapid.Float64Range(0.5, 2).Draw(rt, "tick_scale")

		store, err := NewCombatantStore([]*Combatant{newTestCombatant("a", "x", 10, agility)})
		require.NoError(rt, err)

		sch := NewScheduler(threshold, tickScale)
		_, err = sch.Select(store)
		assert.NoError(rt, err)
	})
}
