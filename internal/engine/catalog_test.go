package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func basicStrikeTier() SkillTier {
	return SkillTier{
		SkillID:         "basic_strike",
		Tier:             1,
		Kind:             KindAttack,
		TierName:         "basic",
		BaseDamage:       20,
		PowerMultiplier:  1.0,
		HitChance:        1.0,
		CriticalChance:   0,
		QiCost:           0,
		Cooldown:         0,
	}
}

func TestNewSkillCatalog_Lookup(t *testing.T) {
	catalog, err := NewSkillCatalog([]SkillTier{basicStrikeTier()})
	require.NoError(t, err)

	tier, ok := catalog.Lookup("basic_strike", 1)
	require.True(t, ok)
	assert.Equal(t, 20, tier.BaseDamage)

	_, ok = catalog.Lookup("basic_strike", 2)
	assert.False(t, ok)
}

func TestNewSkillCatalog_RejectsInvalidHitChance(t *testing.T) {
	tier := basicStrikeTier()
	tier.HitChance = 1.5
	_, err := NewSkillCatalog([]SkillTier{tier})
	assert.ErrorIs(t, err, ErrInvalidData)
}

func TestNewSkillCatalog_RejectsDuplicateTier(t *testing.T) {
	_, err := NewSkillCatalog([]SkillTier{basicStrikeTier(), basicStrikeTier()})
	assert.ErrorIs(t, err, ErrInvalidData)
}

func TestNewSkillCatalog_RejectsNegativeCost(t *testing.T) {
	tier := basicStrikeTier()
	tier.QiCost = -1
	_, err := NewSkillCatalog([]SkillTier{tier})
	assert.ErrorIs(t, err, ErrInvalidData)
}
