package reactloop

import "fmt"

// DefaultOutputKey is the return value key used when an agent does not configure one.
const DefaultOutputKey = "output"

// InvalidFormatToolName is the sentinel tool name recorded for steps that were synthesized
// from a completion the parser could not understand. It is never dispatched.
const InvalidFormatToolName = "_Exception"

// Decision is the result of one planning call: either an [Action] or a [Finish].
//
// The set of implementations is closed; use a type switch:
//
//	switch d := decision.(type) {
//	case reactloop.Action:
//	    // dispatch d.Tool with d.ToolInput
//	case reactloop.Finish:
//	    // done, read d.ReturnValues
//	}
type Decision interface {
	decision()
}

// Action is a request to invoke one named tool with one string input.
type Action struct {
	// Tool is the name of the tool to invoke.
	Tool string

	// ToolInput is passed to the tool verbatim.
	ToolInput string

	// Log is the raw model text that produced this action. It is kept for the scratchpad
	// and for debugging and is never parsed again.
	Log string
}

func (Action) decision() {}

// Finish is the terminal result of a run.
type Finish struct {
	// ReturnValues always contains the agent's output key.
	ReturnValues map[string]any

	// Log is the raw model text that produced this result (empty for synthesized results).
	Log string
}

func (Finish) decision() {}

// NewFinish creates a Finish holding a single text value under key.
func NewFinish(key, value, log string) Finish {
	return Finish{
		ReturnValues: map[string]any{key: value},
		Log:          log,
	}
}

// Output returns the value stored under key formatted as text.
// Returns "" if the key is absent.
func (f Finish) Output(key string) string {
	v, ok := f.ReturnValues[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Step is one completed loop iteration.
type Step struct {
	Action      Action
	Observation string
}

// RunHistory is the ordered record of completed steps in a single run.
//
// RunHistory is a value: Append returns a new history and never modifies the receiver, so a
// history handed to an agent or a hook cannot be changed behind its back.
type RunHistory struct {
	steps []Step
}

// NewRunHistory creates a history from the given steps. The steps are copied.
func NewRunHistory(steps ...Step) RunHistory {
	if len(steps) == 0 {
		return RunHistory{}
	}
	copied := make([]Step, len(steps))
	copy(copied, steps)
	return RunHistory{steps: copied}
}

// Append returns a new history with step added at the end.
func (h RunHistory) Append(step Step) RunHistory {
	// Clip capacity so the append always copies instead of writing into a shared array.
	return RunHistory{steps: append(h.steps[:len(h.steps):len(h.steps)], step)}
}

// Len returns the number of completed steps.
func (h RunHistory) Len() int {
	return len(h.steps)
}

// Steps returns a copy of the recorded steps in chronological order.
func (h RunHistory) Steps() []Step {
	result := make([]Step, len(h.steps))
	copy(result, h.steps)
	return result
}

// Last returns the most recent step and true, or a zero Step and false if empty.
func (h RunHistory) Last() (Step, bool) {
	if len(h.steps) == 0 {
		return Step{}, false
	}
	return h.steps[len(h.steps)-1], true
}
