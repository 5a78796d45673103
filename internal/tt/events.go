package tt

import (
	"context"
	"sync"

	"github.com/rickchristie/reactloop"
)

// RecordingHook implements every hook interface and records the events it receives in order.
type RecordingHook struct {
	mu     sync.Mutex
	events []reactloop.HookEvent
}

// NewRecordingHook creates an empty RecordingHook.
func NewRecordingHook() *RecordingHook {
	return &RecordingHook{}
}

func (h *RecordingHook) record(e reactloop.HookEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

// Events returns the recorded events.
func (h *RecordingHook) Events() []reactloop.HookEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]reactloop.HookEvent(nil), h.events...)
}

// Names returns the recorded event type names, e.g. "BeforeRun".
func (h *RecordingHook) Names() []string {
	events := h.Events()
	names := make([]string, len(events))
	for i, e := range events {
		names[i] = EventName(e)
	}
	return names
}

func (h *RecordingHook) OnBeforeRun(ctx context.Context, e reactloop.BeforeRunEvent) {
	h.record(e)
}

func (h *RecordingHook) OnAfterRun(ctx context.Context, e reactloop.AfterRunEvent) {
	h.record(e)
}

func (h *RecordingHook) OnBeforePlan(ctx context.Context, e reactloop.BeforePlanEvent) {
	h.record(e)
}

func (h *RecordingHook) OnAfterPlan(ctx context.Context, e reactloop.AfterPlanEvent) {
	h.record(e)
}

func (h *RecordingHook) OnParseError(ctx context.Context, e reactloop.ParseErrorEvent) {
	h.record(e)
}

func (h *RecordingHook) OnBeforeToolCall(ctx context.Context, e *reactloop.BeforeToolCallEvent) {
	h.record(*e)
}

func (h *RecordingHook) OnAfterToolCall(ctx context.Context, e reactloop.AfterToolCallEvent) {
	h.record(e)
}

func (h *RecordingHook) OnEarlyStop(ctx context.Context, e reactloop.EarlyStopEvent) {
	h.record(e)
}

var (
	_ reactloop.BeforeRunHook      = (*RecordingHook)(nil)
	_ reactloop.AfterRunHook       = (*RecordingHook)(nil)
	_ reactloop.BeforePlanHook     = (*RecordingHook)(nil)
	_ reactloop.AfterPlanHook      = (*RecordingHook)(nil)
	_ reactloop.ParseErrorHook     = (*RecordingHook)(nil)
	_ reactloop.BeforeToolCallHook = (*RecordingHook)(nil)
	_ reactloop.AfterToolCallHook  = (*RecordingHook)(nil)
	_ reactloop.EarlyStopHook      = (*RecordingHook)(nil)
)
