package engine

import "fmt"

// StepContext carries one step's inputs, intermediate results, events, and
// abort signal through the resolution pipeline. Stages read and write it;
// nothing it holds outlives the step it was created for.
//
// It is a plain mutable scratchpad passed by pointer from S1 through S8,
// not a hidden global: each stage only touches the fields it owns.
type StepContext struct {
	ActorID  CombatantId
	TargetID CombatantId
	SkillID  string
	Tier     int

	Hit      bool
	Critical bool

	// DamageMultiplier accumulates the Evasion stage's partial-hit
	// reduction; it starts at 1 and is applied to the computed damage in
	// Damage Calc.
	DamageMultiplier float64
	// DamageReduction is the coefficient in [0,1] the Defense stage
	// records; 1 means fully blocked.
	DamageReduction float64

	FinalDamage  int
	DamageBucket DamageBucket

	// DefeatQueued marks that the target's HP reached zero this step, so
	// Event Emit must append a DEFEAT event after the primary one.
	DefeatQueued bool

	// PrimaryEmitted is set by any stage that already appended a
	// terminal event for this step (NOOP or DODGE), so Event Emit knows
	// not to also synthesize an ATTACK event.
	PrimaryEmitted bool

	// Reason explains a NOOP, e.g. "no_viable_action" or "resource".
	Reason string

	Events []BattleEvent
	Log    []string

	// ShouldContinue is cleared by any stage that determines the step has
	// nothing further to resolve (no viable action, full dodge, resource
	// failure). Stages not marked AlwaysRuns are skipped once this is
	// false.
	ShouldContinue bool
	// Errored marks that a Fatal stage failure occurred this step.
	Errored bool
}

// NewStepContext returns a fresh context ready for S1.
func NewStepContext() *StepContext {
	return &StepContext{
		DamageMultiplier: 1,
		ShouldContinue:   true,
	}
}

func (ctx *StepContext) logf(format string, args ...any) {
	ctx.Log = append(ctx.Log, fmt.Sprintf(format, args...))
}
