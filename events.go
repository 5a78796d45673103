package reactloop

import "time"

// HookEvent is a marker interface for all hook events.
type HookEvent interface {
	hookEvent()
}

// -----------------------------------------------------------------------------
// Run Events
// -----------------------------------------------------------------------------

// BeforeRunEvent is emitted once before the first iteration.
type BeforeRunEvent struct {
	RunID  string
	Inputs map[string]string
}

func (BeforeRunEvent) hookEvent() {}

// AfterRunEvent is emitted once after the run reaches a terminal state.
type AfterRunEvent struct {
	RunID string
	State RunState

	// ReturnValues is nil when the run failed.
	ReturnValues map[string]any

	History  RunHistory
	Stats    RunStats
	Duration time.Duration

	// Err is the *RunError for failed runs, nil otherwise.
	Err error
}

func (AfterRunEvent) hookEvent() {}

// -----------------------------------------------------------------------------
// Planning Events
// -----------------------------------------------------------------------------

// BeforePlanEvent is emitted before each call to the agent.
type BeforePlanEvent struct {
	RunID string

	// Iteration is the 1-indexed iteration the plan is for.
	Iteration int

	// Final is true for the extra planning call made by generate-style early stopping.
	Final bool

	History RunHistory
}

func (BeforePlanEvent) hookEvent() {}

// AfterPlanEvent is emitted after each call to the agent.
type AfterPlanEvent struct {
	RunID     string
	Iteration int
	Final     bool

	// Decision is nil when Err is set.
	Decision Decision
	Duration time.Duration
	Err      error
}

func (AfterPlanEvent) hookEvent() {}

// ParseErrorEvent is emitted when the agent's completion could not be parsed.
type ParseErrorEvent struct {
	RunID     string
	Iteration int
	Err       *ParseError

	// Recovered is true when the error was fed back to the model as an observation.
	Recovered bool
}

func (ParseErrorEvent) hookEvent() {}

// -----------------------------------------------------------------------------
// Tool Events
// -----------------------------------------------------------------------------

// BeforeToolCallEvent is emitted before a registered tool is invoked.
// Hooks may rewrite Input; the tool receives the final value.
type BeforeToolCallEvent struct {
	RunID     string
	Iteration int
	ToolName  string
	Input     string
}

func (BeforeToolCallEvent) hookEvent() {}

// AfterToolCallEvent is emitted after every dispatched action, including unknown tool names.
type AfterToolCallEvent struct {
	RunID     string
	Iteration int
	ToolName  string
	Input     string

	// Observation is the text recorded in the step (the output, or the error message).
	Observation string

	// Unknown is true when ToolName was not registered and the tool was never invoked.
	Unknown bool

	Duration time.Duration
	Err      error
}

func (AfterToolCallEvent) hookEvent() {}

// -----------------------------------------------------------------------------
// Budget Events
// -----------------------------------------------------------------------------

// EarlyStopEvent is emitted when a budget is exhausted, before the early stopping policy
// produces the final answer.
type EarlyStopEvent struct {
	RunID      string
	Iterations int
	Elapsed    time.Duration

	// Reason is StateStoppedByIterations or StateStoppedByTime.
	Reason RunState

	// Method is the configured early stopping method ("force" or "generate").
	Method string
}

func (EarlyStopEvent) hookEvent() {}
