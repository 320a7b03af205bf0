package engine

import "fmt"

type catalogKey struct {
	skillID string
	tier    int
}

// SkillCatalog is the immutable lookup table of (skill_id, tier) parameter
// blocks, built once at battle setup. It never mutates during a battle: a
// combatant never learns a new skill mid-fight.
type SkillCatalog struct {
	tiers map[catalogKey]SkillTier
}

// NewSkillCatalog validates every tier and builds a catalog from it.
//
// Precondition: none.
// Postcondition: on success, every entry in tiers is retrievable via
// Lookup and has passed SkillTier.Validate. On the first invalid entry,
// returns a wrapped ErrInvalidData and no catalog.
func NewSkillCatalog(tiers []SkillTier) (*SkillCatalog, error) {
	table := make(map[catalogKey]SkillTier, len(tiers))
	for _, t := range tiers {
		if err := t.Validate(); err != nil {
			return nil, err
		}
		key := catalogKey{t.SkillID, t.Tier}
		if _, exists := table[key]; exists {
			return nil, fmt.Errorf("%w: duplicate skill tier %s/%d", ErrInvalidData, t.SkillID, t.Tier)
		}
		table[key] = t
	}
	return &SkillCatalog{tiers: table}, nil
}

// Lookup returns the tier parameters for (skillID, tier).
func (c *SkillCatalog) Lookup(skillID string, tier int) (SkillTier, bool) {
	t, ok := c.tiers[catalogKey{skillID, tier}]
	return t, ok
}
