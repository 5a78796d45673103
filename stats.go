package reactloop

// RunStats counts what happened during one run. It is owned by the run that fills it and is
// copied into the result, so it needs no locking.
type RunStats struct {
	// Iterations is the number of completed loop iterations (recorded steps).
	Iterations int

	// ModelCalls counts Plan and PlanFinal calls, including ones that failed.
	ModelCalls int

	// ToolCalls counts dispatched tool invocations. Unknown tool names are not dispatched.
	ToolCalls int

	// ToolErrors counts tool invocations that returned an error or panicked.
	ToolErrors int

	// UnknownTools counts actions naming a tool that is not registered.
	UnknownTools int

	// ParseErrors counts completions the parser rejected.
	ParseErrors int
}
