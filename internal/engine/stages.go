package engine

import (
	"fmt"
	"math"
)

// SchedulingStage is S1: asks the Scheduler for the next activating
// combatant and decrements that combatant's own cooldowns by one.
type SchedulingStage struct{ baseStage }

// NewSchedulingStage builds S1.
func NewSchedulingStage() *SchedulingStage {
	return &SchedulingStage{baseStage{name: "scheduling", criticality: Fatal}}
}

func (s *SchedulingStage) Applicable(ctx *StepContext, eng *Engine) bool {
	return ctx.ActorID == ""
}

func (s *SchedulingStage) Run(ctx *StepContext, eng *Engine) error {
	actorID, err := eng.Scheduler().Select(eng.Store())
	if err != nil {
		ctx.logf("scheduling failed: %v", err)
		return err
	}
	ctx.ActorID = actorID
	if err := eng.Store().DecrementCooldowns(actorID); err != nil {
		return err
	}
	ctx.logf("scheduled actor=%s", actorID)
	return nil
}

// DecisionStage is S2: asks the ActionSelector what the activated
// combatant should do. No viable action emits a NOOP and ends the step.
type DecisionStage struct{ baseStage }

func NewDecisionStage() *DecisionStage {
	return &DecisionStage{baseStage{name: "decision", criticality: Fatal}}
}

func (s *DecisionStage) Applicable(ctx *StepContext, eng *Engine) bool {
	return ctx.ActorID != "" && ctx.SkillID == ""
}

func (s *DecisionStage) Run(ctx *StepContext, eng *Engine) error {
	actor, ok := eng.Store().ByID(ctx.ActorID)
	if !ok {
		return fmt.Errorf("%w: unknown actor %q", ErrInvalidData, ctx.ActorID)
	}

	decision, ok := eng.Selector().Select(actor, eng.Catalog(), eng.Store())
	if !ok {
		ctx.ShouldContinue = false
		ctx.Reason = "no_viable_action"
		ctx.PrimaryEmitted = true
		ctx.Events = append(ctx.Events, BattleEvent{
			Kind:    EventNoop,
			ActorID: ctx.ActorID,
			Reason:  ctx.Reason,
		})
		ctx.logf("actor=%s has no viable action", ctx.ActorID)
		return nil
	}

	ctx.SkillID = decision.SkillID
	ctx.Tier = decision.Tier
	ctx.TargetID = decision.TargetID
	ctx.logf("actor=%s chose skill=%s/%d target=%s", ctx.ActorID, ctx.SkillID, ctx.Tier, ctx.TargetID)
	return nil
}

// ResourceCheckStage is S3: defensively re-verifies the chosen skill is
// still affordable and off cooldown. Under normal play the ActionSelector
// already guarantees this; this stage exists so a pipeline that removes or
// reorders stages still fails safely.
type ResourceCheckStage struct{ baseStage }

func NewResourceCheckStage() *ResourceCheckStage {
	return &ResourceCheckStage{baseStage{name: "resource_check", criticality: Fatal}}
}

func (s *ResourceCheckStage) Applicable(ctx *StepContext, eng *Engine) bool {
	return ctx.SkillID != "" && !ctx.PrimaryEmitted
}

func (s *ResourceCheckStage) Run(ctx *StepContext, eng *Engine) error {
	actor, ok := eng.Store().ByID(ctx.ActorID)
	if !ok {
		return fmt.Errorf("%w: unknown actor %q", ErrInvalidData, ctx.ActorID)
	}
	tier, ok := eng.Catalog().Lookup(ctx.SkillID, ctx.Tier)
	if !ok {
		return fmt.Errorf("%w: unknown skill %s/%d", ErrInvalidData, ctx.SkillID, ctx.Tier)
	}
	if actor.Stats.Qi < tier.QiCost || actor.CooldownOf(ctx.SkillID) > 0 {
		ctx.ShouldContinue = false
		ctx.Reason = "resource"
		ctx.PrimaryEmitted = true
		ctx.Events = append(ctx.Events, BattleEvent{
			Kind:    EventNoop,
			ActorID: ctx.ActorID,
			SkillID: ctx.SkillID,
			Tier:    ctx.Tier,
			Reason:  ctx.Reason,
		})
		ctx.logf("actor=%s failed resource check for %s/%d", ctx.ActorID, ctx.SkillID, ctx.Tier)
	}
	return nil
}

// EvasionStage is S4: if the target carries an equipped movement skill,
// rolls its hit_chance as the attack's chance to still connect despite the
// dodge attempt. A full miss emits DODGE and ends the step; a connect may
// still apply a data-defined partial-hit damage multiplier, applied
// without consuming any further randomness.
type EvasionStage struct{ baseStage }

func NewEvasionStage() *EvasionStage {
	return &EvasionStage{baseStage{name: "evasion", criticality: Recoverable}}
}

func (s *EvasionStage) Applicable(ctx *StepContext, eng *Engine) bool {
	if ctx.SkillID == "" || !ctx.ShouldContinue {
		return false
	}
	target, ok := eng.Store().ByID(ctx.TargetID)
	if !ok {
		return false
	}
	_, _, has := target.EquippedOfKind(eng.Catalog(), KindMovement)
	return has
}

func (s *EvasionStage) Run(ctx *StepContext, eng *Engine) error {
	target, ok := eng.Store().ByID(ctx.TargetID)
	if !ok {
		return fmt.Errorf("%w: unknown target %q", ErrInvalidData, ctx.TargetID)
	}
	_, tier, has := target.EquippedOfKind(eng.Catalog(), KindMovement)
	if !has {
		return nil
	}

	connects := eng.RNG().GenBool(tier.HitChance)
	if !connects {
		ctx.Hit = false
		ctx.ShouldContinue = false
		ctx.PrimaryEmitted = true
		ctx.Events = append(ctx.Events, BattleEvent{
			Kind:     EventDodge,
			ActorID:  ctx.TargetID,
			TargetID: ctx.ActorID,
			SkillID:  tier.SkillID,
			Tier:     tier.Tier,
		})
		ctx.logf("target=%s fully evaded", ctx.TargetID)
		return nil
	}

	if tier.PartialHitChance > 0 && tier.PartialHitMultiplier < 1 {
		ctx.DamageMultiplier *= tier.PartialHitMultiplier
		ctx.logf("target=%s partially evaded, multiplier=%.3f", ctx.TargetID, tier.PartialHitMultiplier)
	}
	return nil
}

// DefenseStage is S5: if the target carries an equipped defense skill,
// records its damage-reduction coefficient and emits a DEFEND event. If
// the defense tier defines a probability parameter, a roll decides whether
// it triggers this step; undefined (zero) means it always triggers.
type DefenseStage struct{ baseStage }

func NewDefenseStage() *DefenseStage {
	return &DefenseStage{baseStage{name: "defense", criticality: Recoverable}}
}

func (s *DefenseStage) Applicable(ctx *StepContext, eng *Engine) bool {
	if ctx.SkillID == "" || !ctx.ShouldContinue {
		return false
	}
	target, ok := eng.Store().ByID(ctx.TargetID)
	if !ok {
		return false
	}
	_, _, has := target.EquippedOfKind(eng.Catalog(), KindDefense)
	return has
}

func (s *DefenseStage) Run(ctx *StepContext, eng *Engine) error {
	target, ok := eng.Store().ByID(ctx.TargetID)
	if !ok {
		return fmt.Errorf("%w: unknown target %q", ErrInvalidData, ctx.TargetID)
	}
	_, tier, has := target.EquippedOfKind(eng.Catalog(), KindDefense)
	if !has {
		return nil
	}

	triggered := true
	if tier.DefenseChance > 0 {
		triggered = eng.RNG().GenBool(tier.DefenseChance)
	}
	if !triggered {
		ctx.logf("target=%s defense did not trigger", ctx.TargetID)
		return nil
	}

	ctx.DamageReduction = tier.DamageReduction
	ctx.Events = append(ctx.Events, BattleEvent{
		Kind:     EventDefend,
		ActorID:  ctx.TargetID,
		TargetID: ctx.ActorID,
		SkillID:  tier.SkillID,
		Tier:     tier.Tier,
	})
	ctx.logf("target=%s defended, reduction=%.3f", ctx.TargetID, ctx.DamageReduction)
	return nil
}

// DamageCalcStage is S6: rolls the main hit check and, on a hit, the
// critical check, then computes final damage from base_damage,
// power_multiplier, the accumulated evasion multiplier, the defense
// reduction, and the critical multiplier.
type DamageCalcStage struct{ baseStage }

func NewDamageCalcStage() *DamageCalcStage {
	return &DamageCalcStage{baseStage{name: "damage_calc", criticality: Fatal}}
}

func (s *DamageCalcStage) Applicable(ctx *StepContext, eng *Engine) bool {
	return ctx.SkillID != "" && ctx.ShouldContinue
}

func (s *DamageCalcStage) Run(ctx *StepContext, eng *Engine) error {
	tier, ok := eng.Catalog().Lookup(ctx.SkillID, ctx.Tier)
	if !ok {
		return fmt.Errorf("%w: unknown skill %s/%d", ErrInvalidData, ctx.SkillID, ctx.Tier)
	}
	target, ok := eng.Store().ByID(ctx.TargetID)
	if !ok {
		return fmt.Errorf("%w: unknown target %q", ErrInvalidData, ctx.TargetID)
	}

	hit := eng.RNG().GenBool(tier.HitChance)
	ctx.Hit = hit
	if !hit {
		ctx.FinalDamage = 0
		ctx.DamageBucket = BucketNone
		ctx.logf("actor=%s missed", ctx.ActorID)
		return nil
	}

	critical := eng.RNG().GenBool(tier.CriticalChance)
	ctx.Critical = critical

	raw := float64(tier.BaseDamage) * tier.PowerMultiplier
	raw *= (1 - clamp01(ctx.DamageReduction))
	raw *= ctx.DamageMultiplier
	if critical {
		raw *= eng.Config().CritMultiplier
	}

	final := int(math.Round(raw))
	if final < 0 {
		final = 0
	}
	ctx.FinalDamage = final
	ctx.DamageBucket = bucketFor(final, target.Stats.MaxHP)
	ctx.logf("actor=%s hit target=%s for %d damage (crit=%v)", ctx.ActorID, ctx.TargetID, final, critical)
	return nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func bucketFor(damage, maxHP int) DamageBucket {
	if damage <= 0 {
		return BucketNone
	}
	if maxHP <= 0 {
		return BucketHigh
	}
	ratio := float64(damage) / float64(maxHP)
	switch {
	case ratio >= 0.30:
		return BucketHigh
	case ratio >= 0.10:
		return BucketMedium
	default:
		return BucketLow
	}
}

// StateApplyStage is S7: spends the actor's resources, sets the skill's
// cooldown, and applies computed damage to the target, queuing a DEFEAT
// event if the target's HP reaches zero.
type StateApplyStage struct{ baseStage }

func NewStateApplyStage() *StateApplyStage {
	return &StateApplyStage{baseStage{name: "state_apply", criticality: Fatal}}
}

func (s *StateApplyStage) Applicable(ctx *StepContext, eng *Engine) bool {
	return ctx.SkillID != "" && ctx.ShouldContinue
}

func (s *StateApplyStage) Run(ctx *StepContext, eng *Engine) error {
	tier, ok := eng.Catalog().Lookup(ctx.SkillID, ctx.Tier)
	if !ok {
		return fmt.Errorf("%w: unknown skill %s/%d", ErrInvalidData, ctx.SkillID, ctx.Tier)
	}
	if err := eng.Store().SpendQi(ctx.ActorID, tier.QiCost); err != nil {
		return err
	}
	if err := eng.Store().SetCooldown(ctx.ActorID, ctx.SkillID, tier.Cooldown); err != nil {
		return err
	}
	if !ctx.Hit || ctx.FinalDamage == 0 {
		return nil
	}
	if err := eng.Store().ApplyDamage(ctx.TargetID, ctx.FinalDamage); err != nil {
		return err
	}
	target, _ := eng.Store().ByID(ctx.TargetID)
	if target != nil && target.IsDowned() {
		ctx.DefeatQueued = true
	}
	return nil
}

// EventEmitStage is S8: emits the primary ATTACK event for a step that
// reached damage calculation normally, followed by a DEFEAT event if one
// was queued. Always runs, even after an earlier stage aborted the step,
// so a step that already emitted its own terminal event (NOOP or DODGE)
// is left untouched.
type EventEmitStage struct{ baseStage }

func NewEventEmitStage() *EventEmitStage {
	return &EventEmitStage{baseStage{name: "event_emit", criticality: Recoverable, alwaysRuns: true}}
}

func (s *EventEmitStage) Applicable(ctx *StepContext, eng *Engine) bool { return true }

func (s *EventEmitStage) Run(ctx *StepContext, eng *Engine) error {
	if !ctx.PrimaryEmitted && ctx.ActorID != "" && ctx.SkillID != "" {
		ctx.Events = append(ctx.Events, BattleEvent{
			Kind:         EventAttack,
			ActorID:      ctx.ActorID,
			TargetID:     ctx.TargetID,
			SkillID:      ctx.SkillID,
			Tier:         ctx.Tier,
			Hit:          ctx.Hit,
			Critical:     ctx.Critical,
			Damage:       ctx.FinalDamage,
			DamageBucket: ctx.DamageBucket,
		})
	}
	if ctx.DefeatQueued {
		ctx.Events = append(ctx.Events, BattleEvent{
			Kind:    EventDefeat,
			ActorID: ctx.TargetID,
		})
	}
	return nil
}
