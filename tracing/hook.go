// Package tracing exports runs as OpenTelemetry spans.
//
// Each run becomes a "reactloop.run" span with one child span per planning call and per
// tool call. Parse errors, unknown tools and early stops are recorded as span events.
package tracing

import (
	"context"
	"sync"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/rickchristie/reactloop"
)

// InstrumentationName is the tracer name used by Hook.
const InstrumentationName = "github.com/rickchristie/reactloop/tracing"

// maxPreview caps string attributes such as tool inputs and observations.
const maxPreview = 500

// Attribute keys.
const (
	AttrRunID       = attribute.Key("reactloop.run_id")
	AttrState       = attribute.Key("reactloop.state")
	AttrIteration   = attribute.Key("reactloop.iteration")
	AttrFinal       = attribute.Key("reactloop.final")
	AttrTool        = attribute.Key("reactloop.tool.name")
	AttrToolInput   = attribute.Key("reactloop.tool.input")
	AttrObservation = attribute.Key("reactloop.tool.observation")
	AttrModelCalls  = attribute.Key("reactloop.model_calls")
	AttrToolCalls   = attribute.Key("reactloop.tool_calls")
)

type runSpans struct {
	ctx  context.Context
	run  trace.Span
	plan trace.Span
	tool trace.Span
}

// Hook records runs as spans. One Hook may serve many concurrent runs.
type Hook struct {
	tracer trace.Tracer

	mu   sync.Mutex
	runs map[string]*runSpans
}

// NewHook creates a hook using tp, or the global provider when tp is nil.
func NewHook(tp trace.TracerProvider) *Hook {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &Hook{
		tracer: tp.Tracer(InstrumentationName),
		runs:   make(map[string]*runSpans),
	}
}

func (h *Hook) get(runID string) *runSpans {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.runs[runID]
}

// preview truncates s to at most maxPreview bytes without splitting a rune.
func preview(s string) string {
	if len(s) <= maxPreview {
		return s
	}
	cut := maxPreview
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

func (h *Hook) OnBeforeRun(ctx context.Context, e reactloop.BeforeRunEvent) {
	spanCtx, span := h.tracer.Start(ctx, "reactloop.run", trace.WithAttributes(AttrRunID.String(e.RunID)))

	h.mu.Lock()
	defer h.mu.Unlock()
	h.runs[e.RunID] = &runSpans{ctx: spanCtx, run: span}
}

func (h *Hook) OnAfterRun(ctx context.Context, e reactloop.AfterRunEvent) {
	h.mu.Lock()
	rs := h.runs[e.RunID]
	delete(h.runs, e.RunID)
	h.mu.Unlock()
	if rs == nil {
		return
	}

	rs.run.SetAttributes(
		AttrState.String(e.State.String()),
		AttrIteration.Int(e.Stats.Iterations),
		AttrModelCalls.Int(e.Stats.ModelCalls),
		AttrToolCalls.Int(e.Stats.ToolCalls),
	)
	if e.Err != nil {
		rs.run.RecordError(e.Err)
		rs.run.SetStatus(codes.Error, e.State.String())
	} else {
		rs.run.SetStatus(codes.Ok, "")
	}
	rs.run.End()
}

func (h *Hook) OnBeforePlan(ctx context.Context, e reactloop.BeforePlanEvent) {
	rs := h.get(e.RunID)
	if rs == nil {
		return
	}
	_, rs.plan = h.tracer.Start(rs.ctx, "reactloop.plan", trace.WithAttributes(
		AttrIteration.Int(e.Iteration),
		AttrFinal.Bool(e.Final),
	))
}

func (h *Hook) OnAfterPlan(ctx context.Context, e reactloop.AfterPlanEvent) {
	rs := h.get(e.RunID)
	if rs == nil || rs.plan == nil {
		return
	}
	switch d := e.Decision.(type) {
	case reactloop.Action:
		rs.plan.SetAttributes(AttrTool.String(d.Tool))
	case reactloop.Finish:
		rs.plan.AddEvent("finish")
	}
	if e.Err != nil {
		rs.plan.RecordError(e.Err)
		rs.plan.SetStatus(codes.Error, "plan failed")
	}
	rs.plan.End()
	rs.plan = nil
}

func (h *Hook) OnParseError(ctx context.Context, e reactloop.ParseErrorEvent) {
	rs := h.get(e.RunID)
	if rs == nil {
		return
	}
	rs.run.AddEvent("parse_error", trace.WithAttributes(
		AttrIteration.Int(e.Iteration),
		attribute.String("reactloop.parse.reason", e.Err.Reason),
		attribute.Bool("reactloop.parse.recovered", e.Recovered),
	))
}

func (h *Hook) OnBeforeToolCall(ctx context.Context, e *reactloop.BeforeToolCallEvent) {
	rs := h.get(e.RunID)
	if rs == nil {
		return
	}
	_, rs.tool = h.tracer.Start(rs.ctx, "reactloop.tool "+e.ToolName, trace.WithAttributes(
		AttrIteration.Int(e.Iteration),
		AttrTool.String(e.ToolName),
		AttrToolInput.String(preview(e.Input)),
	))
}

func (h *Hook) OnAfterToolCall(ctx context.Context, e reactloop.AfterToolCallEvent) {
	rs := h.get(e.RunID)
	if rs == nil {
		return
	}
	if e.Unknown {
		rs.run.AddEvent("unknown_tool", trace.WithAttributes(
			AttrIteration.Int(e.Iteration),
			AttrTool.String(e.ToolName),
		))
		return
	}
	if rs.tool == nil {
		return
	}
	rs.tool.SetAttributes(AttrObservation.String(preview(e.Observation)))
	if e.Err != nil {
		rs.tool.RecordError(e.Err)
		rs.tool.SetStatus(codes.Error, "tool failed")
	}
	rs.tool.End()
	rs.tool = nil
}

func (h *Hook) OnEarlyStop(ctx context.Context, e reactloop.EarlyStopEvent) {
	rs := h.get(e.RunID)
	if rs == nil {
		return
	}
	rs.run.AddEvent("early_stop", trace.WithAttributes(
		AttrState.String(e.Reason.String()),
		attribute.String("reactloop.early_stop.method", e.Method),
	))
}

var (
	_ reactloop.BeforeRunHook      = (*Hook)(nil)
	_ reactloop.AfterRunHook       = (*Hook)(nil)
	_ reactloop.BeforePlanHook     = (*Hook)(nil)
	_ reactloop.AfterPlanHook      = (*Hook)(nil)
	_ reactloop.ParseErrorHook     = (*Hook)(nil)
	_ reactloop.BeforeToolCallHook = (*Hook)(nil)
	_ reactloop.AfterToolCallHook  = (*Hook)(nil)
	_ reactloop.EarlyStopHook      = (*Hook)(nil)
)
