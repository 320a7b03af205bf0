package engine

// Decision is what the ActionSelector picked for an activated combatant:
// which equipped skill tier to use and whom to target.
type Decision struct {
	SkillID  string
	Tier     int
	TargetID CombatantId
}

// ActionSelector scores every viable equipped skill and picks the one with
// the highest expected-value heuristic, then targets the lowest-HP living
// opponent. It consumes no randomness: the same store state always yields
// the same decision.
type ActionSelector struct{}

// NewActionSelector returns a stateless ActionSelector.
func NewActionSelector() *ActionSelector { return &ActionSelector{} }

// Select returns the best viable (skill, tier) and target for actor, or
// ok=false if actor has no viable equipped skill (out of resources or all
// on cooldown) or no living opponent to target.
//
// Viable means: qi_cost <= actor's current qi, and cooldown == 0.
// score = base_damage * power_multiplier * hit_chance * (1 + critical_chance) / (cooldown + 1)
// Ties: lower skill_id first, then lower tier.
// Target: lowest current HP among living opposing combatants; ties broken
// by lowest CombatantId.
func (sel *ActionSelector) Select(actor *Combatant, catalog *SkillCatalog, store *CombatantStore) (Decision, bool) {
	opponents := store.OpposingLiving(actor.Faction)
	if len(opponents) == 0 {
		return Decision{}, false
	}

	var best SkillTier
	haveBest := false
	for _, eq := range actor.Equipped {
		tier, ok := catalog.Lookup(eq.SkillID, eq.Tier)
		if !ok || tier.Kind != KindAttack {
			continue
		}
		if actor.Stats.Qi < tier.QiCost || actor.CooldownOf(eq.SkillID) > 0 {
			continue
		}
		if !haveBest || betterCandidate(tier, best) {
			best = tier
			haveBest = true
		}
	}
	if !haveBest {
		return Decision{}, false
	}

	target := opponents[0]
	for _, c := range opponents[1:] {
		if c.Stats.HP < target.Stats.HP || (c.Stats.HP == target.Stats.HP && c.ID.Less(target.ID)) {
			target = c
		}
	}

	return Decision{SkillID: best.SkillID, Tier: best.Tier, TargetID: target.ID}, true
}

func score(t SkillTier) float64 {
	return float64(t.BaseDamage) * t.PowerMultiplier * t.HitChance * (1 + t.CriticalChance) / float64(t.Cooldown+1)
}

// betterCandidate reports whether candidate outranks current under the
// selector's score-then-id-then-tier ordering.
func betterCandidate(candidate, current SkillTier) bool {
	cs, rs := score(candidate), score(current)
	if cs != rs {
		return cs > rs
	}
	if candidate.SkillID != current.SkillID {
		return candidate.SkillID < current.SkillID
	}
	return candidate.Tier < current.Tier
}
