package tt

import (
	"context"
	"sync"

	"github.com/rickchristie/reactloop"
)

// -----------------------------------------------------------------------------
// MockModel - implements reactloop.LanguageModel with queued completions
// -----------------------------------------------------------------------------

// MockModel returns queued completions in order and records every call.
// When the queue is exhausted it returns DefaultResponse.
type MockModel struct {
	mu        sync.Mutex
	responses []string
	errors    []error
	callCount int

	// DefaultResponse is returned once the queue is exhausted.
	DefaultResponse string

	// CapturedPrompts stores the prompt of each call.
	CapturedPrompts []string

	// CapturedStops stores the stop sequences of each call.
	CapturedStops [][]string

	// OnCall, when set, runs at the start of every call with the 0-indexed call number.
	OnCall func(idx int)
}

// NewMockModel creates a MockModel with the given queued completions.
func NewMockModel(responses ...string) *MockModel {
	return &MockModel{
		responses:       append([]string(nil), responses...),
		DefaultResponse: "Final Answer: done",
	}
}

// AddResponse queues a completion.
func (m *MockModel) AddResponse(content string) *MockModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, content)
	return m
}

// AddError queues an error for the next unqueued call position.
func (m *MockModel) AddError(err error) *MockModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	for len(m.errors) < len(m.responses) {
		m.errors = append(m.errors, nil)
	}
	m.errors = append(m.errors, err)
	m.responses = append(m.responses, "")
	return m
}

// CallCount returns the number of Generate calls.
func (m *MockModel) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// LastPrompt returns the prompt of the most recent call, or "".
func (m *MockModel) LastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.CapturedPrompts) == 0 {
		return ""
	}
	return m.CapturedPrompts[len(m.CapturedPrompts)-1]
}

// Generate implements reactloop.LanguageModel.
func (m *MockModel) Generate(ctx context.Context, prompt string, stop []string) (string, error) {
	m.mu.Lock()
	idx := m.callCount
	m.callCount++
	m.CapturedPrompts = append(m.CapturedPrompts, prompt)
	m.CapturedStops = append(m.CapturedStops, append([]string(nil), stop...))
	onCall := m.OnCall

	var (
		resp = m.DefaultResponse
		err  error
	)
	if idx < len(m.responses) {
		resp = m.responses[idx]
	}
	if idx < len(m.errors) {
		err = m.errors[idx]
	}
	m.mu.Unlock()

	if onCall != nil {
		onCall(idx)
	}
	if err != nil {
		return "", err
	}
	return resp, nil
}

var _ reactloop.LanguageModel = (*MockModel)(nil)

// -----------------------------------------------------------------------------
// MockTool - implements reactloop.Tool with queued results
// -----------------------------------------------------------------------------

// MockTool records its inputs and returns queued results. With an empty queue it echoes
// the input.
type MockTool struct {
	mu      sync.Mutex
	outputs []string
	errors  []error
	inputs  []string
}

// NewMockTool creates a MockTool returning outputs in order.
func NewMockTool(outputs ...string) *MockTool {
	return &MockTool{outputs: append([]string(nil), outputs...)}
}

// AddError queues an error.
func (t *MockTool) AddError(err error) *MockTool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for len(t.errors) < len(t.outputs) {
		t.errors = append(t.errors, nil)
	}
	t.errors = append(t.errors, err)
	t.outputs = append(t.outputs, "")
	return t
}

// Inputs returns the inputs of every call so far.
func (t *MockTool) Inputs() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.inputs...)
}

// CallCount returns the number of calls so far.
func (t *MockTool) CallCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.inputs)
}

// Run implements reactloop.Tool.
func (t *MockTool) Run(ctx context.Context, input string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	idx := len(t.inputs)
	t.inputs = append(t.inputs, input)

	if idx < len(t.errors) && t.errors[idx] != nil {
		return "", t.errors[idx]
	}
	if idx < len(t.outputs) {
		return t.outputs[idx], nil
	}
	return input, nil
}

var _ reactloop.Tool = (*MockTool)(nil)
