package reactloop

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunHistory_AppendDoesNotModifyReceiver(t *testing.T) {
	empty := NewRunHistory()
	one := empty.Append(Step{Action: Action{Tool: "a"}, Observation: "1"})
	two := one.Append(Step{Action: Action{Tool: "b"}, Observation: "2"})

	// Appending to the same base twice must not clobber the first branch.
	branch := one.Append(Step{Action: Action{Tool: "c"}, Observation: "3"})

	assert.Equal(t, 0, empty.Len())
	assert.Equal(t, 1, one.Len())
	assert.Equal(t, 2, two.Len())
	assert.Equal(t, "b", two.Steps()[1].Action.Tool)
	assert.Equal(t, "c", branch.Steps()[1].Action.Tool)
}

func TestRunHistory_StepsReturnsCopy(t *testing.T) {
	h := NewRunHistory(Step{Action: Action{Tool: "a"}, Observation: "x"})

	steps := h.Steps()
	steps[0].Observation = "changed"

	assert.Equal(t, "x", h.Steps()[0].Observation)
}

func TestRunHistory_Last(t *testing.T) {
	_, ok := NewRunHistory().Last()
	assert.False(t, ok)

	h := NewRunHistory(
		Step{Observation: "first"},
		Step{Observation: "second"},
	)
	last, ok := h.Last()
	require.True(t, ok)
	assert.Equal(t, "second", last.Observation)
}

func TestFinish_Output(t *testing.T) {
	tests := []struct {
		name     string
		input    Finish
		key      string
		expected string
	}{
		{
			name:     "string value",
			input:    NewFinish("output", "Paris", ""),
			key:      "output",
			expected: "Paris",
		},
		{
			name:     "non-string value",
			input:    Finish{ReturnValues: map[string]any{"count": 3}},
			key:      "count",
			expected: "3",
		},
		{
			name:     "missing key",
			input:    NewFinish("output", "Paris", ""),
			key:      "answer",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.input.Output(tt.key))
		})
	}
}

func TestErrors_Is(t *testing.T) {
	cause := errors.New("disk full")

	tests := []struct {
		name   string
		err    error
		target error
	}{
		{name: "parse", err: NewParseError("garbage", "no action"), target: ErrParse},
		{name: "unknown tool", err: &UnknownToolError{Name: "x"}, target: ErrUnknownTool},
		{name: "tool execution category", err: &ToolExecutionError{Tool: "t", Err: cause}, target: ErrToolExecution},
		{name: "tool execution cause", err: &ToolExecutionError{Tool: "t", Err: cause}, target: cause},
		{
			name:   "configuration",
			err:    &ConfigurationError{Component: "registry", Err: ErrDuplicateToolName},
			target: ErrDuplicateToolName,
		},
		{
			name:   "configuration category",
			err:    NewConfigurationError("agent", "missing model"),
			target: ErrConfiguration,
		},
		{
			name:   "run error wraps cause",
			err:    &RunError{State: StateFailedTool, Err: &ToolExecutionError{Tool: "t", Err: cause}},
			target: cause,
		},
		{name: "wrapped", err: fmt.Errorf("outer: %w", NewParseError("x", "")), target: ErrParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.target)
		})
	}
}

func TestUnknownToolError_Message(t *testing.T) {
	err := &UnknownToolError{Name: "Calculator", Valid: []string{"Search", "Lookup"}}
	assert.Equal(t, "Calculator is not a valid tool, try one of [Search, Lookup]", err.Error())
}

func TestRunState(t *testing.T) {
	assert.False(t, StateRunning.IsTerminal())
	assert.True(t, StateFinished.IsTerminal())
	assert.False(t, StateFinished.IsFailure())
	assert.True(t, StateStoppedByTime.IsBudgetStop())
	assert.False(t, StateStoppedByTime.IsFailure())
	assert.True(t, StateFailedParsing.IsFailure())
	assert.True(t, StateCanceled.IsFailure())
}
