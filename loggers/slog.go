package loggers

import (
	"context"
	"log/slog"

	"github.com/rickchristie/reactloop"
)

// SlogHook logs run events to a *slog.Logger. Run boundaries, tool failures and early
// stops log at Info or Warn; per-iteration events log at Debug.
type SlogHook struct {
	logger *slog.Logger
}

// NewSlogHook logs to logger, or to slog.Default() when logger is nil.
func NewSlogHook(logger *slog.Logger) *SlogHook {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogHook{logger: logger}
}

func (h *SlogHook) OnBeforeRun(ctx context.Context, e reactloop.BeforeRunEvent) {
	h.logger.InfoContext(ctx, "run started", "run_id", e.RunID, "inputs", len(e.Inputs))
}

func (h *SlogHook) OnAfterRun(ctx context.Context, e reactloop.AfterRunEvent) {
	attrs := []any{
		"run_id", e.RunID,
		"state", e.State.String(),
		"iterations", e.Stats.Iterations,
		"model_calls", e.Stats.ModelCalls,
		"tool_calls", e.Stats.ToolCalls,
		"duration", e.Duration,
	}
	if e.Err != nil {
		h.logger.ErrorContext(ctx, "run failed", append(attrs, "error", e.Err)...)
		return
	}
	h.logger.InfoContext(ctx, "run finished", attrs...)
}

func (h *SlogHook) OnBeforePlan(ctx context.Context, e reactloop.BeforePlanEvent) {
	h.logger.DebugContext(ctx, "planning", "run_id", e.RunID, "iteration", e.Iteration, "final", e.Final)
}

func (h *SlogHook) OnAfterPlan(ctx context.Context, e reactloop.AfterPlanEvent) {
	attrs := []any{"run_id", e.RunID, "iteration", e.Iteration, "duration", e.Duration}
	switch d := e.Decision.(type) {
	case reactloop.Action:
		attrs = append(attrs, "tool", d.Tool)
	case reactloop.Finish:
		attrs = append(attrs, "finish", true)
	}
	if e.Err != nil {
		attrs = append(attrs, "error", e.Err)
	}
	h.logger.DebugContext(ctx, "planned", attrs...)
}

func (h *SlogHook) OnParseError(ctx context.Context, e reactloop.ParseErrorEvent) {
	h.logger.WarnContext(ctx, "unparseable completion",
		"run_id", e.RunID,
		"iteration", e.Iteration,
		"reason", e.Err.Reason,
		"recovered", e.Recovered,
	)
}

func (h *SlogHook) OnAfterToolCall(ctx context.Context, e reactloop.AfterToolCallEvent) {
	switch {
	case e.Unknown:
		h.logger.WarnContext(ctx, "unknown tool", "run_id", e.RunID, "tool", e.ToolName)
	case e.Err != nil:
		h.logger.WarnContext(ctx, "tool failed",
			"run_id", e.RunID, "tool", e.ToolName, "duration", e.Duration, "error", e.Err)
	default:
		h.logger.DebugContext(ctx, "tool called",
			"run_id", e.RunID, "tool", e.ToolName, "duration", e.Duration)
	}
}

func (h *SlogHook) OnEarlyStop(ctx context.Context, e reactloop.EarlyStopEvent) {
	h.logger.InfoContext(ctx, "budget exhausted",
		"run_id", e.RunID,
		"reason", e.Reason.String(),
		"method", e.Method,
		"iterations", e.Iterations,
	)
}

var (
	_ reactloop.BeforeRunHook     = (*SlogHook)(nil)
	_ reactloop.AfterRunHook      = (*SlogHook)(nil)
	_ reactloop.BeforePlanHook    = (*SlogHook)(nil)
	_ reactloop.AfterPlanHook     = (*SlogHook)(nil)
	_ reactloop.ParseErrorHook    = (*SlogHook)(nil)
	_ reactloop.AfterToolCallHook = (*SlogHook)(nil)
	_ reactloop.EarlyStopHook     = (*SlogHook)(nil)
)
