package executor

import (
	"time"

	"github.com/rickchristie/reactloop"
)

// Result describes a completed run. Failed runs still carry their history and stats.
type Result struct {
	RunID string
	State reactloop.RunState

	// ReturnValues is nil for failed runs.
	ReturnValues map[string]any

	// OutputKey is the agent's output key.
	OutputKey string

	History  reactloop.RunHistory
	Stats    reactloop.RunStats
	Duration time.Duration

	// Err is the *reactloop.RunError of a failed run.
	Err error
}

// Output returns the final answer as text, or "" for failed runs.
func (r *Result) Output() string {
	if r == nil || r.ReturnValues == nil {
		return ""
	}
	return reactloop.Finish{ReturnValues: r.ReturnValues}.Output(r.OutputKey)
}

// Succeeded reports whether the run produced an answer. Budget stops count as success.
func (r *Result) Succeeded() bool {
	return r != nil && r.State.IsTerminal() && !r.State.IsFailure()
}
