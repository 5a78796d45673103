package hooks

import (
	"context"

	"github.com/rickchristie/reactloop"
)

// Registry stores hooks in registration order and dispatches each event to the hooks that
// implement the matching interface.
//
//	registry := hooks.NewRegistry().
//	    Register(loggers.NewSlogHook(slog.Default())).
//	    Register(tracing.NewHook(otel.Tracer("reactloop")))
//
// A hook implementing several interfaces receives every matching event.
//
// Register all hooks before the first run. Fire methods may then be called concurrently by
// independent runs; whether a hook tolerates that is up to the hook.
type Registry struct {
	hooks []any
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a hook. Values implementing none of the hook interfaces are kept but never
// called.
func (r *Registry) Register(hook any) *Registry {
	r.hooks = append(r.hooks, hook)
	return r
}

// Len returns the number of registered hooks.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.hooks)
}

// FireBeforeRun dispatches to BeforeRunHook implementations.
func (r *Registry) FireBeforeRun(ctx context.Context, event reactloop.BeforeRunEvent) {
	if r == nil {
		return
	}
	for _, h := range r.hooks {
		if hook, ok := h.(reactloop.BeforeRunHook); ok {
			hook.OnBeforeRun(ctx, event)
		}
	}
}

// FireAfterRun dispatches to AfterRunHook implementations.
func (r *Registry) FireAfterRun(ctx context.Context, event reactloop.AfterRunEvent) {
	if r == nil {
		return
	}
	for _, h := range r.hooks {
		if hook, ok := h.(reactloop.AfterRunHook); ok {
			hook.OnAfterRun(ctx, event)
		}
	}
}

// FireBeforePlan dispatches to BeforePlanHook implementations.
func (r *Registry) FireBeforePlan(ctx context.Context, event reactloop.BeforePlanEvent) {
	if r == nil {
		return
	}
	for _, h := range r.hooks {
		if hook, ok := h.(reactloop.BeforePlanHook); ok {
			hook.OnBeforePlan(ctx, event)
		}
	}
}

// FireAfterPlan dispatches to AfterPlanHook implementations.
func (r *Registry) FireAfterPlan(ctx context.Context, event reactloop.AfterPlanEvent) {
	if r == nil {
		return
	}
	for _, h := range r.hooks {
		if hook, ok := h.(reactloop.AfterPlanHook); ok {
			hook.OnAfterPlan(ctx, event)
		}
	}
}

// FireParseError dispatches to ParseErrorHook implementations.
func (r *Registry) FireParseError(ctx context.Context, event reactloop.ParseErrorEvent) {
	if r == nil {
		return
	}
	for _, h := range r.hooks {
		if hook, ok := h.(reactloop.ParseErrorHook); ok {
			hook.OnParseError(ctx, event)
		}
	}
}

// FireBeforeToolCall dispatches to BeforeToolCallHook implementations. Each hook sees the
// input as rewritten by the hooks before it.
func (r *Registry) FireBeforeToolCall(ctx context.Context, event *reactloop.BeforeToolCallEvent) {
	if r == nil {
		return
	}
	for _, h := range r.hooks {
		if hook, ok := h.(reactloop.BeforeToolCallHook); ok {
			hook.OnBeforeToolCall(ctx, event)
		}
	}
}

// FireAfterToolCall dispatches to AfterToolCallHook implementations.
func (r *Registry) FireAfterToolCall(ctx context.Context, event reactloop.AfterToolCallEvent) {
	if r == nil {
		return
	}
	for _, h := range r.hooks {
		if hook, ok := h.(reactloop.AfterToolCallHook); ok {
			hook.OnAfterToolCall(ctx, event)
		}
	}
}

// FireEarlyStop dispatches to EarlyStopHook implementations.
func (r *Registry) FireEarlyStop(ctx context.Context, event reactloop.EarlyStopEvent) {
	if r == nil {
		return
	}
	for _, h := range r.hooks {
		if hook, ok := h.(reactloop.EarlyStopHook); ok {
			hook.OnEarlyStop(ctx, event)
		}
	}
}
