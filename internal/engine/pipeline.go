package engine

import "go.uber.org/zap"

// Pipeline runs an ordered list of Stages over one StepContext. Stages not
// marked AlwaysRuns are skipped once ctx.ShouldContinue has gone false, so
// in the default ordering only the Event Emit stage still executes after
// an abort. Dispatch goes through the Stage interface rather than a fixed
// sequence of method calls, so AddStage/RemoveStage can reshape the order
// at runtime.
type Pipeline struct {
	stages []Stage
	logger *zap.Logger
}

// NewPipeline builds a Pipeline from an explicit stage order.
func NewPipeline(stages []Stage) *Pipeline {
	return &Pipeline{stages: stages, logger: zap.NewNop()}
}

// NewDefaultPipeline builds the standard S1-S8 pipeline.
func NewDefaultPipeline() *Pipeline {
	return NewPipeline([]Stage{
		NewSchedulingStage(),
		NewDecisionStage(),
		NewResourceCheckStage(),
		NewEvasionStage(),
		NewDefenseStage(),
		NewDamageCalcStage(),
		NewStateApplyStage(),
		NewEventEmitStage(),
	})
}

// WithLogger attaches a structured logger the pipeline uses to report
// stage failures.
func (p *Pipeline) WithLogger(logger *zap.Logger) *Pipeline {
	p.logger = logger
	return p
}

// AddStage inserts stage at position, or appends it if position is nil or
// out of range.
func (p *Pipeline) AddStage(stage Stage, position *int) {
	if position == nil || *position < 0 || *position > len(p.stages) {
		p.stages = append(p.stages, stage)
		return
	}
	p.stages = append(p.stages[:*position:*position], append([]Stage{stage}, p.stages[*position:]...)...)
}

// RemoveStage removes the first stage with the given name, reporting
// whether one was found.
func (p *Pipeline) RemoveStage(name string) bool {
	for i, s := range p.stages {
		if s.Name() == name {
			p.stages = append(p.stages[:i], p.stages[i+1:]...)
			return true
		}
	}
	return false
}

// Stages returns the current stage order, for inspection in tests.
func (p *Pipeline) Stages() []Stage {
	out := make([]Stage, len(p.stages))
	copy(out, p.stages)
	return out
}

// Run drives ctx through every applicable stage in order. A Fatal stage
// error marks ctx.Errored and clears ctx.ShouldContinue; a Recoverable one
// is logged and the pipeline continues to the next stage. Stages whose
// AlwaysRuns is false are skipped once ShouldContinue is false, so the
// Event Emit stage is normally the only thing still executed after an
// abort.
func (p *Pipeline) Run(ctx *StepContext, eng *Engine) {
	for _, stage := range p.stages {
		if !ctx.ShouldContinue && !stage.AlwaysRuns() {
			continue
		}
		if !stage.Applicable(ctx, eng) {
			continue
		}
		if err := stage.Run(ctx, eng); err != nil {
			p.logger.Debug("stage failed", zap.String("stage", stage.Name()), zap.String("criticality", stage.Criticality().String()), zap.Error(err))
			ctx.logf("%s: %v", stage.Name(), err)
			if stage.Criticality() == Fatal {
				ctx.Errored = true
				ctx.ShouldContinue = false
			}
		}
	}
}
