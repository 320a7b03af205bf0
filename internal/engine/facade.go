package engine

import (
	"go.uber.org/zap"

	"github.com/Zhihong0321/wuxia-battle-simulator/internal/engine/rng"
)

// EngineConfig bundles the tunables the facade needs beyond its
// collaborators: the critical-hit damage multiplier and the hard cap on
// the total number of steps the engine will execute.
type EngineConfig struct {
	CritMultiplier float64
	MaxSteps       int
}

// Engine is the single entry point a host drives a battle through. It owns
// no domain logic itself: it wires the store, catalog, scheduler, selector,
// randomness source, and resolution pipeline together and exposes the
// step/run/query surface external callers drive a battle through: Step,
// IsBattleOver, RunToCompletion, Events.
type Engine struct {
	store     *CombatantStore
	catalog   *SkillCatalog
	scheduler *Scheduler
	selector  *ActionSelector
	rng       *rng.Source
	pipeline  *Pipeline
	cfg       EngineConfig

	events     []BattleEvent
	stepCount  int
	overReason string

	// pendingLogger holds a logger passed via WithLogger until every
	// option has run, so it attaches to whichever pipeline NewEngine ends
	// up with regardless of option order.
	pendingLogger *zap.Logger
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithPipeline overrides the default eight-stage pipeline, e.g. for tests
// that want to swap or remove a stage.
func WithPipeline(p *Pipeline) Option {
	return func(e *Engine) { e.pipeline = p }
}

// WithLogger attaches a structured logger the pipeline uses to report
// stage failures. It is applied after every other option regardless of
// argument order, so it always reaches whichever pipeline the engine ends
// up with, including one supplied via WithPipeline.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) { e.pendingLogger = logger }
}

// NewEngine wires an Engine from its collaborators.
//
// Precondition: store has at least one living combatant in at least two
// distinct factions; cfg.MaxSteps >= 1.
func NewEngine(store *CombatantStore, selector *ActionSelector, scheduler *Scheduler, source *rng.Source, catalog *SkillCatalog, cfg EngineConfig, opts ...Option) *Engine {
	e := &Engine{
		store:     store,
		catalog:   catalog,
		scheduler: scheduler,
		selector:  selector,
		rng:       source,
		cfg:       cfg,
		pipeline:  NewDefaultPipeline(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.pendingLogger != nil {
		e.pipeline.WithLogger(e.pendingLogger)
		e.pendingLogger = nil
	}
	return e
}

func (e *Engine) Store() *CombatantStore     { return e.store }
func (e *Engine) Catalog() *SkillCatalog     { return e.catalog }
func (e *Engine) Scheduler() *Scheduler      { return e.scheduler }
func (e *Engine) Selector() *ActionSelector  { return e.selector }
func (e *Engine) RNG() *rng.Source           { return e.rng }
func (e *Engine) Config() EngineConfig       { return e.cfg }

// AddStage inserts stage into the pipeline at position, or at the end if
// position is nil.
func (e *Engine) AddStage(stage Stage, position *int) {
	e.pipeline.AddStage(stage, position)
}

// RemoveStage removes the named stage from the pipeline, reporting whether
// it was present.
func (e *Engine) RemoveStage(name string) bool {
	return e.pipeline.RemoveStage(name)
}

// IsBattleOver reports whether the battle has concluded: at most one
// faction retains a living combatant, the step budget is exhausted, or a
// fatal scheduling failure ended it early.
func (e *Engine) IsBattleOver() bool {
	if e.overReason != "" {
		return true
	}
	if len(e.store.FactionsAlive()) <= 1 {
		return true
	}
	return e.stepCount >= e.cfg.MaxSteps
}

// OverReason returns why the battle ended, or "" if it has not.
// "stuck" marks a scheduler failure; "steps_exhausted" marks hitting
// MaxSteps; "" with IsBattleOver true means a faction was eliminated.
func (e *Engine) OverReason() string {
	if e.overReason != "" {
		return e.overReason
	}
	if e.stepCount >= e.cfg.MaxSteps && len(e.store.FactionsAlive()) > 1 {
		return "steps_exhausted"
	}
	return ""
}

// Step runs one activation through the resolution pipeline and returns the
// events it produced. Calling Step after the battle is already over is a
// no-op that returns nil.
func (e *Engine) Step() []BattleEvent {
	if e.IsBattleOver() {
		return nil
	}

	ctx := NewStepContext()
	e.pipeline.Run(ctx, e)
	e.stepCount++

	// Only a scheduling failure leaves ActorID unset on an errored step;
	// other fatal stage failures end the step, not the battle.
	if ctx.Errored && ctx.ActorID == "" {
		e.overReason = "stuck"
	}

	e.events = append(e.events, ctx.Events...)
	return ctx.Events
}

// RunToCompletion steps the battle until IsBattleOver, returning every
// event produced. Calling it on an already-over battle returns nil.
func (e *Engine) RunToCompletion() []BattleEvent {
	var out []BattleEvent
	for !e.IsBattleOver() {
		out = append(out, e.Step()...)
	}
	return out
}

// Events returns the full event log accumulated so far. Callers must not
// mutate the returned slice.
func (e *Engine) Events() []BattleEvent { return e.events }

// StepCount returns how many activations have been resolved so far.
func (e *Engine) StepCount() int { return e.stepCount }

// narrativeTypeByKind maps each event kind to its default narrative_type
// tag. DEFEAT has no dedicated kind per the data contract, so it falls
// back to the same tag as ATTACK.
var narrativeTypeByKind = map[EventKind]string{
	EventAttack: "攻击",
	EventDodge:  "闪避",
	EventDefend: "抵挡",
	EventDefeat: "攻击",
	EventNoop:   "无效",
}

// MapEventForNarration projects a BattleEvent into the plain record a
// narration collaborator needs: resolved display names in place of ids,
// the skill's narrative template, and a localized narrative_type tag. It
// performs no I/O and does no narration itself.
func (e *Engine) MapEventForNarration(evt BattleEvent) NarrationContext {
	narrativeType := narrativeTypeByKind[evt.Kind]
	if evt.Critical {
		narrativeType = "暴击"
	}
	nc := NarrationContext{
		NarrativeType: narrativeType,
		Hit:           evt.Hit,
		Critical:      evt.Critical,
		DamageAmount:  evt.Damage,
		DamageBucket:  evt.DamageBucket,
	}
	if actor, ok := e.store.ByID(evt.ActorID); ok {
		nc.ActorName = actor.DisplayName
	}
	if target, ok := e.store.ByID(evt.TargetID); ok {
		nc.TargetName = target.DisplayName
	}
	if tier, ok := e.catalog.Lookup(evt.SkillID, evt.Tier); ok {
		nc.SkillName = evt.SkillID
		nc.TierName = tier.TierName
		nc.TierNarrativeTemplate = tier.NarrativeTemplate
	}
	return nc
}
