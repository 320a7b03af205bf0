package engine

import "math"

// timeUnitsScale is the fixed-point precision the Scheduler accumulates
// time units at: agility*tick_scale products are floored to 1/1000ths
// before being added to a combatant's running total, so that repeated
// accumulation is exactly reproducible regardless of platform float
// rounding. Combatant.TimeUnits stores values in this scale.
const timeUnitsScale = 1000

// maxSchedulerTicks bounds the search for an activating combatant. If no
// one reaches the threshold within this many simulated ticks, the battle
// cannot progress and the Scheduler reports ErrSchedulerStuck.
const maxSchedulerTicks = 10000

// Scheduler implements Active-Time-Battle turn order: each living
// combatant accrues time_units proportional to agility*tick_scale every
// tick; among those at or above Threshold, the one with the most
// time_units acts, with ties broken by the lowest CombatantId. Leftover time_units above the threshold carry forward
// rather than resetting to zero.
type Scheduler struct {
	Threshold int
	TickScale float64
}

// NewScheduler builds a Scheduler. Threshold must be >= 1 and TickScale
// must be > 0; both are validated by RunConfig before reaching here.
func NewScheduler(threshold int, tickScale float64) *Scheduler {
	return &Scheduler{Threshold: threshold, TickScale: tickScale}
}

// Select advances time_units for every living combatant in store until one
// reaches the activation threshold, then subtracts the threshold from its
// total (leaving any remainder) and returns its id.
//
// Precondition: store has at least one living combatant.
// Postcondition: the returned combatant's TimeUnits (pre-subtraction) was
// >= Threshold*timeUnitsScale and was the highest among simultaneous
// activators; equal totals are broken by the lowest CombatantId. Returns ErrSchedulerStuck if no one
// activates within maxSchedulerTicks ticks.
func (sch *Scheduler) Select(store *CombatantStore) (CombatantId, error) {
	thresholdMilli := int64(sch.Threshold) * timeUnitsScale

	for tick := 0; tick < maxSchedulerTicks; tick++ {
		living := store.Living()
		if len(living) == 0 {
			return "", ErrSchedulerStuck
		}

		for _, c := range living {
			delta := int64(math.Floor(float64(c.Stats.Agility) * sch.TickScale * timeUnitsScale))
			if delta > 0 {
				c.TimeUnits += delta
			}
		}

		var winner *Combatant
		for _, c := range living {
			if c.TimeUnits < thresholdMilli {
				continue
			}
			if winner == nil || c.TimeUnits > winner.TimeUnits ||
				(c.TimeUnits == winner.TimeUnits && c.ID.Less(winner.ID)) {
				winner = c
			}
		}
		if winner != nil {
			winner.TimeUnits -= thresholdMilli
			return winner.ID, nil
		}
	}
	return "", ErrSchedulerStuck
}
