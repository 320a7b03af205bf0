package engine

// Stage is one step of the resolution pipeline. Implementations are small,
// named, and stateless; the Engine and the StepContext carry all the state
// a stage needs. The fixed eight-stage vtable this interface backs lets
// stages be inspected, replaced, or removed by name at runtime.
type Stage interface {
	// Name identifies the stage for AddStage/RemoveStage and for logging.
	Name() string
	// Applicable reports whether this stage has anything to do given the
	// context's current state.
	Applicable(ctx *StepContext, eng *Engine) bool
	// Run executes the stage. A non-nil error is handled according to
	// Criticality.
	Run(ctx *StepContext, eng *Engine) error
	// Criticality tells the pipeline how to react to a Run error.
	Criticality() FailureClass
	// AlwaysRuns marks a stage that must execute even after should_continue
	// has gone false. Only the Event Emit stage sets this.
	AlwaysRuns() bool
}

// baseStage implements the parts of Stage common to every concrete stage.
type baseStage struct {
	name        string
	criticality FailureClass
	alwaysRuns  bool
}

func (b baseStage) Name() string              { return b.name }
func (b baseStage) Criticality() FailureClass { return b.criticality }
func (b baseStage) AlwaysRuns() bool          { return b.alwaysRuns }
