package reactloop

import "context"

// -----------------------------------------------------------------------------
// Executor Hook Interfaces
// -----------------------------------------------------------------------------
//
// Hooks observe a run. Implement any subset of the interfaces below, register the value
// with hooks.Registry, and pass the registry to the executor:
//
//	type TimingHook struct{}
//
//	func (h *TimingHook) OnAfterPlan(ctx context.Context, e reactloop.AfterPlanEvent) {
//	    log.Printf("run %s plan %d took %v", e.RunID, e.Iteration, e.Duration)
//	}
//
//	registry := hooks.NewRegistry().Register(&TimingHook{})
//	exec, err := executor.New(agent, tools, executor.DefaultConfig().WithHooks(registry))
//
// Hooks are called in registration order on the run's goroutine. They do not return
// errors: a hook that can fail must handle the failure itself. OnAfterRun is always called
// when OnBeforeRun was.
// -----------------------------------------------------------------------------

type BeforeRunHook interface {
	OnBeforeRun(ctx context.Context, event BeforeRunEvent)
}

type AfterRunHook interface {
	OnAfterRun(ctx context.Context, event AfterRunEvent)
}

type BeforePlanHook interface {
	OnBeforePlan(ctx context.Context, event BeforePlanEvent)
}

type AfterPlanHook interface {
	OnAfterPlan(ctx context.Context, event AfterPlanEvent)
}

type ParseErrorHook interface {
	OnParseError(ctx context.Context, event ParseErrorEvent)
}

// BeforeToolCallHook receives a pointer so it can rewrite the tool input.
type BeforeToolCallHook interface {
	OnBeforeToolCall(ctx context.Context, event *BeforeToolCallEvent)
}

type AfterToolCallHook interface {
	OnAfterToolCall(ctx context.Context, event AfterToolCallEvent)
}

type EarlyStopHook interface {
	OnEarlyStop(ctx context.Context, event EarlyStopEvent)
}
