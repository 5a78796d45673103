package tt

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rickchristie/reactloop"
)

// EventName returns a short name for a hook event type.
func EventName(e reactloop.HookEvent) string {
	switch e.(type) {
	case reactloop.BeforeRunEvent:
		return "BeforeRun"
	case reactloop.AfterRunEvent:
		return "AfterRun"
	case reactloop.BeforePlanEvent:
		return "BeforePlan"
	case reactloop.AfterPlanEvent:
		return "AfterPlan"
	case reactloop.ParseErrorEvent:
		return "ParseError"
	case reactloop.BeforeToolCallEvent:
		return "BeforeToolCall"
	case reactloop.AfterToolCallEvent:
		return "AfterToolCall"
	case reactloop.EarlyStopEvent:
		return "EarlyStop"
	default:
		return "Unknown"
	}
}

// AssertSteps compares history against expected (tool, input, observation) triples.
func AssertSteps(t *testing.T, expected [][3]string, history reactloop.RunHistory) {
	t.Helper()
	steps := history.Steps()
	if !assert.Len(t, steps, len(expected)) {
		return
	}
	for i, step := range steps {
		assert.Equal(t, expected[i][0], step.Action.Tool, "step %d tool", i)
		assert.Equal(t, expected[i][1], step.Action.ToolInput, "step %d input", i)
		assert.Equal(t, expected[i][2], step.Observation, "step %d observation", i)
	}
}
