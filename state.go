package reactloop

// RunState is the state of a run. StateRunning is the only non-terminal state.
type RunState string

const (
	StateRunning             RunState = "running"
	StateFinished            RunState = "finished"
	StateStoppedByIterations RunState = "stopped_by_iterations"
	StateStoppedByTime       RunState = "stopped_by_time"
	StateFailedParsing       RunState = "failed_parsing"
	StateFailedTool          RunState = "failed_tool"
	StateFailedModel         RunState = "failed_model"
	StateCanceled            RunState = "canceled"
)

// String returns the state name.
func (s RunState) String() string {
	return string(s)
}

// IsTerminal reports whether the run can no longer continue.
func (s RunState) IsTerminal() bool {
	return s != StateRunning && s != ""
}

// IsFailure reports whether the run ended without a usable answer.
// Budget stops are not failures: they still produce a best-effort Finish.
func (s RunState) IsFailure() bool {
	switch s {
	case StateFailedParsing, StateFailedTool, StateFailedModel, StateCanceled:
		return true
	default:
		return false
	}
}

// IsBudgetStop reports whether the run was stopped by an iteration or time budget.
func (s RunState) IsBudgetStop() bool {
	return s == StateStoppedByIterations || s == StateStoppedByTime
}
