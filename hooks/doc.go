// Package hooks provides the registry that dispatches run lifecycle events to hooks.
//
// # Hook Interfaces
//
// Run lifecycle:
//   - [reactloop.BeforeRunHook], [reactloop.AfterRunHook]
//
// Planning:
//   - [reactloop.BeforePlanHook], [reactloop.AfterPlanHook]
//   - [reactloop.ParseErrorHook]
//
// Tools:
//   - [reactloop.BeforeToolCallHook] (may rewrite the input)
//   - [reactloop.AfterToolCallHook]
//
// Budgets:
//   - [reactloop.EarlyStopHook]
//
// # Creating a Hook
//
//	type ToolTimer struct{}
//
//	func (h *ToolTimer) OnAfterToolCall(ctx context.Context, e reactloop.AfterToolCallEvent) {
//	    metrics.Observe(e.ToolName, e.Duration)
//	}
//
//	var _ reactloop.AfterToolCallHook = (*ToolTimer)(nil)
//
// Ready-made hooks live in the loggers and tracing packages.
package hooks
