package engine

import "errors"

// Sentinel errors forming the engine's error taxonomy. Wrap with fmt.Errorf
// and %w so callers can still match with errors.Is.
var (
	// ErrInvalidData is returned at construction time by the catalog and
	// the store when input data violates a data-model invariant. Never
	// surfaces mid-battle: everything that reaches the pipeline has
	// already been validated.
	ErrInvalidData = errors.New("engine: invalid data")

	// ErrSchedulerStuck is returned by the Scheduler when no combatant
	// reaches the activation threshold within the bounded tick search.
	// Fatal for the step: the facade ends the battle with reason "stuck".
	ErrSchedulerStuck = errors.New("engine: scheduler made no progress within bound")

	// ErrInsufficientResource marks a resource check failure. Stages
	// convert this into a NOOP event rather than letting it escape the
	// pipeline.
	ErrInsufficientResource = errors.New("engine: insufficient resource")
)

// FailureClass tells the pipeline how to react when a stage's Run returns
// a non-nil error.
type FailureClass int

const (
	// Recoverable failures are logged and the step continues to the next
	// stage.
	Recoverable FailureClass = iota
	// Fatal failures mark the step errored and stop the ordinary stage
	// sequence; only AlwaysRuns stages still execute.
	Fatal
)

func (f FailureClass) String() string {
	if f == Fatal {
		return "fatal"
	}
	return "recoverable"
}
