package engine

import "fmt"

// CombatantStore holds every combatant in a battle, in the stable
// insertion order used to break ties. It never removes a combatant once
// added: downed combatants stay addressable for narration. The only
// mutations it exposes are the ones the resolution pipeline needs: damage
// application, resource spend, and cooldown bookkeeping.
type CombatantStore struct {
	order []CombatantId
	byID  map[CombatantId]*Combatant
}

// NewCombatantStore validates and indexes combatants.
//
// Precondition: no duplicate CombatantId, every Stats block valid.
// Postcondition: All returns combatants in the order given here.
func NewCombatantStore(combatants []*Combatant) (*CombatantStore, error) {
	s := &CombatantStore{
		order: make([]CombatantId, 0, len(combatants)),
		byID:  make(map[CombatantId]*Combatant, len(combatants)),
	}
	for _, c := range combatants {
		if c.ID == "" {
			return nil, fmt.Errorf("%w: combatant has empty id", ErrInvalidData)
		}
		if _, exists := s.byID[c.ID]; exists {
			return nil, fmt.Errorf("%w: duplicate combatant id %q", ErrInvalidData, c.ID)
		}
		if err := c.Stats.Validate(); err != nil {
			return nil, fmt.Errorf("combatant %q: %w", c.ID, err)
		}
		if c.Cooldowns == nil {
			c.Cooldowns = make(map[string]int)
		}
		s.order = append(s.order, c.ID)
		s.byID[c.ID] = c
	}
	return s, nil
}

// All returns every combatant, downed or not, in insertion order. The
// returned slice must not be mutated by the caller; the combatants it
// points to may be mutated only via the store's own methods.
func (s *CombatantStore) All() []*Combatant {
	out := make([]*Combatant, len(s.order))
	for i, id := range s.order {
		out[i] = s.byID[id]
	}
	return out
}

// Living returns every combatant with HP > 0, in insertion order.
func (s *CombatantStore) Living() []*Combatant {
	out := make([]*Combatant, 0, len(s.order))
	for _, id := range s.order {
		if c := s.byID[id]; !c.IsDowned() {
			out = append(out, c)
		}
	}
	return out
}

// ByID returns the combatant with the given id, including downed ones.
func (s *CombatantStore) ByID(id CombatantId) (*Combatant, bool) {
	c, ok := s.byID[id]
	return c, ok
}

// ApplyDamage subtracts amount from target's HP, clamped at 0.
//
// Precondition: amount >= 0.
// Postcondition: target HP never goes negative.
func (s *CombatantStore) ApplyDamage(target CombatantId, amount int) error {
	c, ok := s.byID[target]
	if !ok {
		return fmt.Errorf("%w: unknown combatant %q", ErrInvalidData, target)
	}
	if amount < 0 {
		return fmt.Errorf("%w: negative damage %d", ErrInvalidData, amount)
	}
	c.Stats.HP -= amount
	if c.Stats.HP < 0 {
		c.Stats.HP = 0
	}
	return nil
}

// SpendQi deducts cost from actor's Qi.
//
// Postcondition: on success, actor.Stats.Qi >= 0. Returns
// ErrInsufficientResource without mutating state if actor.Stats.Qi < cost.
func (s *CombatantStore) SpendQi(actor CombatantId, cost int) error {
	c, ok := s.byID[actor]
	if !ok {
		return fmt.Errorf("%w: unknown combatant %q", ErrInvalidData, actor)
	}
	if c.Stats.Qi < cost {
		return fmt.Errorf("%w: actor %q has %d qi, needs %d", ErrInsufficientResource, actor, c.Stats.Qi, cost)
	}
	c.Stats.Qi -= cost
	return nil
}

// SetCooldown puts skillID on cooldown for actor for the given number of
// steps.
func (s *CombatantStore) SetCooldown(actor CombatantId, skillID string, steps int) error {
	c, ok := s.byID[actor]
	if !ok {
		return fmt.Errorf("%w: unknown combatant %q", ErrInvalidData, actor)
	}
	c.Cooldowns[skillID] = steps
	return nil
}

// DecrementCooldowns reduces every nonzero cooldown on actor by one,
// floored at zero. Called once per scheduled activation, before the
// actor's own decision.
func (s *CombatantStore) DecrementCooldowns(actor CombatantId) error {
	c, ok := s.byID[actor]
	if !ok {
		return fmt.Errorf("%w: unknown combatant %q", ErrInvalidData, actor)
	}
	for skill, remaining := range c.Cooldowns {
		if remaining > 0 {
			c.Cooldowns[skill] = remaining - 1
		}
	}
	return nil
}

// FactionsAlive returns the set of factions that still have at least one
// living combatant. Battle termination depends on its cardinality.
func (s *CombatantStore) FactionsAlive() map[Faction]struct{} {
	out := make(map[Faction]struct{})
	for _, id := range s.order {
		c := s.byID[id]
		if !c.IsDowned() {
			out[c.Faction] = struct{}{}
		}
	}
	return out
}

// OpposingLiving returns every living combatant not in faction, in
// insertion order.
func (s *CombatantStore) OpposingLiving(faction Faction) []*Combatant {
	out := make([]*Combatant, 0, len(s.order))
	for _, id := range s.order {
		c := s.byID[id]
		if !c.IsDowned() && c.Faction != faction {
			out = append(out, c)
		}
	}
	return out
}
