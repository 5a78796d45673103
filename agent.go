package reactloop

import "context"

// Agent is the planning policy: given the steps recorded so far and the run inputs, it
// decides what to do next.
//
// Implementations must be safe for concurrent use by independent runs. All per-run state
// lives in the RunHistory passed to each call.
type Agent interface {
	// Plan renders a prompt from history and inputs, calls the model once, and parses the
	// completion. Parse failures are returned as *ParseError. Model failures are returned
	// wrapped, so errors.Is still matches the model's error.
	Plan(ctx context.Context, history RunHistory, inputs map[string]string) (Decision, error)

	// PlanFinal is used when a run's budget is exhausted and the executor wants one more
	// completion that ends the run. It always returns a Finish on success.
	PlanFinal(ctx context.Context, history RunHistory, inputs map[string]string) (Finish, error)

	// ToolNames lists the tools the agent's prompt advertises, in prompt order.
	ToolNames() []string

	// InputKeys lists the inputs the prompt requires.
	InputKeys() []string

	// OutputKey is the ReturnValues key holding the final answer.
	OutputKey() string
}
