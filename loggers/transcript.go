// Package loggers provides hooks that log runs: a structured log/slog hook for services
// and a human-readable YAML transcript for the CLI and debugging.
package loggers

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/rickchristie/reactloop"
)

// TranscriptHook writes every run event as a YAML document. Multi-line prompts and
// completions are rendered as block scalars. Nothing is truncated.
type TranscriptHook struct {
	mu   sync.Mutex
	out  io.Writer
	time reactloop.TimeProvider
}

// NewTranscriptHook writes to stdout.
func NewTranscriptHook() *TranscriptHook {
	return NewTranscriptHookWithWriter(os.Stdout)
}

// NewTranscriptHookWithWriter writes to w.
func NewTranscriptHookWithWriter(w io.Writer) *TranscriptHook {
	return &TranscriptHook{out: w, time: reactloop.NewDefaultTimeProvider()}
}

// WithTimeProvider sets the clock used for event headers.
func (h *TranscriptHook) WithTimeProvider(tp reactloop.TimeProvider) *TranscriptHook {
	h.time = tp
	return h
}

// write emits one event header followed by its YAML body.
func (h *TranscriptHook) write(name string, body map[string]any) {
	h.mu.Lock()
	defer h.mu.Unlock()

	fmt.Fprintf(h.out, "\n>>> [%s]: %s\n", name, h.time.Now().Format("2006-01-02 15:04:05.000"))
	if len(body) == 0 {
		return
	}
	data, err := yaml.Marshal(body)
	if err != nil {
		fmt.Fprintf(h.out, "(failed to marshal: %v)\n", err)
		return
	}
	_, _ = h.out.Write(data)
}

func stepsYAML(history reactloop.RunHistory) []map[string]any {
	steps := history.Steps()
	out := make([]map[string]any, len(steps))
	for i, s := range steps {
		out[i] = map[string]any{
			"tool":        s.Action.Tool,
			"input":       s.Action.ToolInput,
			"observation": s.Observation,
		}
	}
	return out
}

func (h *TranscriptHook) OnBeforeRun(ctx context.Context, e reactloop.BeforeRunEvent) {
	h.write("BeforeRun", map[string]any{"run_id": e.RunID, "inputs": e.Inputs})
}

func (h *TranscriptHook) OnAfterRun(ctx context.Context, e reactloop.AfterRunEvent) {
	body := map[string]any{
		"run_id":   e.RunID,
		"state":    e.State.String(),
		"duration": e.Duration.String(),
		"steps":    stepsYAML(e.History),
		"stats": map[string]any{
			"iterations":    e.Stats.Iterations,
			"model_calls":   e.Stats.ModelCalls,
			"tool_calls":    e.Stats.ToolCalls,
			"tool_errors":   e.Stats.ToolErrors,
			"unknown_tools": e.Stats.UnknownTools,
			"parse_errors":  e.Stats.ParseErrors,
		},
	}
	if e.ReturnValues != nil {
		body["return_values"] = e.ReturnValues
	}
	if e.Err != nil {
		body["error"] = e.Err.Error()
	}
	h.write("AfterRun", body)
}

func (h *TranscriptHook) OnBeforePlan(ctx context.Context, e reactloop.BeforePlanEvent) {
	name := fmt.Sprintf("BeforePlan %d", e.Iteration)
	if e.Final {
		name += " (final)"
	}
	h.write(name, nil)
}

func (h *TranscriptHook) OnAfterPlan(ctx context.Context, e reactloop.AfterPlanEvent) {
	body := map[string]any{"duration": e.Duration.String()}
	switch d := e.Decision.(type) {
	case reactloop.Action:
		body["action"] = map[string]any{"tool": d.Tool, "input": d.ToolInput, "log": d.Log}
	case reactloop.Finish:
		body["finish"] = map[string]any{"return_values": d.ReturnValues, "log": d.Log}
	}
	if e.Err != nil {
		body["error"] = e.Err.Error()
	}
	h.write(fmt.Sprintf("AfterPlan %d", e.Iteration), body)
}

func (h *TranscriptHook) OnParseError(ctx context.Context, e reactloop.ParseErrorEvent) {
	h.write("ParseError", map[string]any{
		"iteration": e.Iteration,
		"reason":    e.Err.Reason,
		"output":    e.Err.Output,
		"recovered": e.Recovered,
	})
}

func (h *TranscriptHook) OnBeforeToolCall(ctx context.Context, e *reactloop.BeforeToolCallEvent) {
	h.write("BeforeToolCall: "+e.ToolName, map[string]any{"input": e.Input})
}

func (h *TranscriptHook) OnAfterToolCall(ctx context.Context, e reactloop.AfterToolCallEvent) {
	body := map[string]any{
		"observation": e.Observation,
		"duration":    e.Duration.String(),
	}
	if e.Unknown {
		body["unknown"] = true
	}
	if e.Err != nil {
		body["error"] = e.Err.Error()
	}
	h.write("AfterToolCall: "+e.ToolName, body)
}

func (h *TranscriptHook) OnEarlyStop(ctx context.Context, e reactloop.EarlyStopEvent) {
	h.write("EarlyStop", map[string]any{
		"reason":     e.Reason.String(),
		"method":     e.Method,
		"iterations": e.Iterations,
		"elapsed":    e.Elapsed.String(),
	})
}

var (
	_ reactloop.BeforeRunHook      = (*TranscriptHook)(nil)
	_ reactloop.AfterRunHook       = (*TranscriptHook)(nil)
	_ reactloop.BeforePlanHook     = (*TranscriptHook)(nil)
	_ reactloop.AfterPlanHook      = (*TranscriptHook)(nil)
	_ reactloop.ParseErrorHook     = (*TranscriptHook)(nil)
	_ reactloop.BeforeToolCallHook = (*TranscriptHook)(nil)
	_ reactloop.AfterToolCallHook  = (*TranscriptHook)(nil)
	_ reactloop.EarlyStopHook      = (*TranscriptHook)(nil)
)
