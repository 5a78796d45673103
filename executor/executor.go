package executor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rickchristie/reactloop"
	"github.com/rickchristie/reactloop/tools"
)

// ErrMissingInput is returned by Run when a required input key is absent.
var ErrMissingInput = errors.New("missing input")

// Executor runs an agent against a tool registry.
//
// An Executor is immutable after New. Each call to Run owns its own history, counters and
// clock reading, so one Executor may serve many concurrent runs.
type Executor struct {
	agent    reactloop.Agent
	registry *tools.Registry
	config   Config
}

// New validates the configuration and checks that every tool the agent advertises is
// registered. Errors are *reactloop.ConfigurationError.
func New(agent reactloop.Agent, registry *tools.Registry, config Config) (*Executor, error) {
	if agent == nil {
		return nil, reactloop.NewConfigurationError("executor", "agent is required")
	}
	if registry == nil {
		return nil, reactloop.NewConfigurationError("executor", "tool registry is required")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	for _, name := range agent.ToolNames() {
		if _, ok := registry.Lookup(name); !ok {
			return nil, reactloop.NewConfigurationError(
				"executor", "agent tool %q is not registered, registry has %v", name, registry.Names(),
			)
		}
	}
	return &Executor{
		agent:    agent,
		registry: registry,
		config:   config.withDefaults(),
	}, nil
}

// Config returns the executor's configuration with defaults applied.
func (e *Executor) Config() Config {
	return e.config
}

// RunText runs the agent with a single text input under the agent's first input key.
func (e *Executor) RunText(ctx context.Context, input string) (*Result, error) {
	key := "input"
	if keys := e.agent.InputKeys(); len(keys) > 0 {
		key = keys[0]
	}
	return e.Run(ctx, map[string]string{key: input})
}

// Run executes one run to a terminal state.
//
// Budget stops are not errors: the result carries the early-stopping answer and a
// StateStoppedBy* state. Failed runs return the result together with a *reactloop.RunError,
// which is also stored in Result.Err.
func (e *Executor) Run(ctx context.Context, inputs map[string]string) (*Result, error) {
	for _, key := range e.agent.InputKeys() {
		if _, ok := inputs[key]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingInput, key)
		}
	}

	r := &run{
		exec:   e,
		inputs: inputs,
		id:     e.config.NewRunID(),
		start:  e.config.TimeProvider.Now(),
	}
	ctx = reactloop.WithRunID(ctx, r.id)

	e.config.Hooks.FireBeforeRun(ctx, reactloop.BeforeRunEvent{RunID: r.id, Inputs: inputs})
	result := r.loop(ctx)
	e.config.Hooks.FireAfterRun(ctx, reactloop.AfterRunEvent{
		RunID:        result.RunID,
		State:        result.State,
		ReturnValues: result.ReturnValues,
		History:      result.History,
		Stats:        result.Stats,
		Duration:     result.Duration,
		Err:          result.Err,
	})

	if result.Err != nil {
		return result, result.Err
	}
	return result, nil
}

// run holds the mutable state of a single run. It never outlives Run.
type run struct {
	exec    *Executor
	inputs  map[string]string
	id      string
	start   time.Time
	history reactloop.RunHistory
	stats   reactloop.RunStats
}

func (r *run) now() time.Time {
	return r.exec.config.TimeProvider.Now()
}

func (r *run) elapsed() time.Duration {
	return r.now().Sub(r.start)
}

func (r *run) loop(ctx context.Context) *Result {
	cfg := r.exec.config
	for {
		if err := ctx.Err(); err != nil {
			return r.fail(reactloop.StateCanceled, err, "")
		}

		iterations := r.history.Len()
		if cfg.MaxIterations > 0 && iterations >= cfg.MaxIterations {
			return r.earlyStop(ctx, reactloop.StateStoppedByIterations)
		}
		if cfg.MaxWallClock > 0 && r.elapsed() >= cfg.MaxWallClock {
			return r.earlyStop(ctx, reactloop.StateStoppedByTime)
		}

		iteration := iterations + 1
		decision, err := r.plan(ctx, iteration)
		if err != nil {
			var parseErr *reactloop.ParseError
			if errors.As(err, &parseErr) {
				if done := r.handleParseError(ctx, iteration, parseErr); done != nil {
					return done
				}
				continue
			}
			if ctx.Err() != nil {
				return r.fail(reactloop.StateCanceled, err, "")
			}
			return r.fail(reactloop.StateFailedModel, err, "")
		}

		switch d := decision.(type) {
		case reactloop.Finish:
			return r.finish(reactloop.StateFinished, d.ReturnValues)
		case reactloop.Action:
			if done := r.dispatch(ctx, iteration, d); done != nil {
				return done
			}
		default:
			return r.fail(reactloop.StateFailedParsing, fmt.Errorf("agent returned unexpected decision %T", decision), "")
		}
	}
}

func (r *run) plan(ctx context.Context, iteration int) (reactloop.Decision, error) {
	hooks := r.exec.config.Hooks
	hooks.FireBeforePlan(ctx, reactloop.BeforePlanEvent{RunID: r.id, Iteration: iteration, History: r.history})

	began := r.now()
	r.stats.ModelCalls++
	decision, err := r.exec.agent.Plan(ctx, r.history, r.inputs)

	hooks.FireAfterPlan(ctx, reactloop.AfterPlanEvent{
		RunID:     r.id,
		Iteration: iteration,
		Decision:  decision,
		Duration:  r.now().Sub(began),
		Err:       err,
	})
	return decision, err
}

// handleParseError applies the parse error policy. It returns a result when the run ends.
func (r *run) handleParseError(ctx context.Context, iteration int, parseErr *reactloop.ParseError) *Result {
	cfg := r.exec.config
	r.stats.ParseErrors++

	if cfg.OnParsingError != OnParsingErrorFeedback {
		cfg.Hooks.FireParseError(ctx, reactloop.ParseErrorEvent{RunID: r.id, Iteration: iteration, Err: parseErr})
		return r.fail(reactloop.StateFailedParsing, parseErr, parseErr.Output)
	}

	observation := cfg.ParseErrorObservation(parseErr)
	r.history = r.history.Append(reactloop.Step{
		Action: reactloop.Action{
			Tool:      reactloop.InvalidFormatToolName,
			ToolInput: observation,
			Log:       parseErr.Output,
		},
		Observation: observation,
	})
	cfg.Hooks.FireParseError(ctx, reactloop.ParseErrorEvent{
		RunID:     r.id,
		Iteration: iteration,
		Err:       parseErr,
		Recovered: true,
	})
	return nil
}

// dispatch runs one action. It returns a result when the run ends.
func (r *run) dispatch(ctx context.Context, iteration int, action reactloop.Action) *Result {
	hooks := r.exec.config.Hooks

	entry, ok := r.exec.registry.Lookup(action.Tool)
	if !ok {
		r.stats.UnknownTools++
		observation := (&reactloop.UnknownToolError{Name: action.Tool, Valid: r.exec.registry.Names()}).Error()
		r.history = r.history.Append(reactloop.Step{Action: action, Observation: observation})
		hooks.FireAfterToolCall(ctx, reactloop.AfterToolCallEvent{
			RunID:       r.id,
			Iteration:   iteration,
			ToolName:    action.Tool,
			Input:       action.ToolInput,
			Observation: observation,
			Unknown:     true,
		})
		return nil
	}

	before := &reactloop.BeforeToolCallEvent{
		RunID:     r.id,
		Iteration: iteration,
		ToolName:  action.Tool,
		Input:     action.ToolInput,
	}
	hooks.FireBeforeToolCall(ctx, before)

	began := r.now()
	r.stats.ToolCalls++
	output, err := r.invoke(ctx, action.Tool, before.Input)
	duration := r.now().Sub(began)

	observation := output
	if err != nil {
		r.stats.ToolErrors++
		observation = toolErrorText(err)
	}
	after := reactloop.AfterToolCallEvent{
		RunID:       r.id,
		Iteration:   iteration,
		ToolName:    action.Tool,
		Input:       before.Input,
		Observation: observation,
		Duration:    duration,
		Err:         err,
	}

	if err != nil && entry.Descriptor.PropagateErrors {
		hooks.FireAfterToolCall(ctx, after)
		return r.fail(reactloop.StateFailedTool, err, action.Log)
	}

	r.history = r.history.Append(reactloop.Step{Action: action, Observation: observation})
	hooks.FireAfterToolCall(ctx, after)

	if err == nil && entry.Descriptor.ReturnDirect {
		return r.finish(reactloop.StateFinished, map[string]any{r.exec.agent.OutputKey(): output})
	}
	return nil
}

func (r *run) invoke(ctx context.Context, name, input string) (string, error) {
	if r.exec.config.AsyncTools {
		return r.exec.registry.InvokeAsync(ctx, name, input)
	}
	return r.exec.registry.Invoke(ctx, name, input)
}

// earlyStop applies the early stopping method after a budget ran out.
func (r *run) earlyStop(ctx context.Context, reason reactloop.RunState) *Result {
	cfg := r.exec.config
	cfg.Hooks.FireEarlyStop(ctx, reactloop.EarlyStopEvent{
		RunID:      r.id,
		Iterations: r.history.Len(),
		Elapsed:    r.elapsed(),
		Reason:     reason,
		Method:     string(cfg.EarlyStopping),
	})

	outputKey := r.exec.agent.OutputKey()
	if cfg.EarlyStopping != EarlyStopGenerate {
		return r.finish(reason, map[string]any{outputKey: ForceStopMessage})
	}

	iteration := r.history.Len() + 1
	cfg.Hooks.FireBeforePlan(ctx, reactloop.BeforePlanEvent{
		RunID:     r.id,
		Iteration: iteration,
		Final:     true,
		History:   r.history,
	})
	began := r.now()
	r.stats.ModelCalls++
	finish, err := r.exec.agent.PlanFinal(ctx, r.history, r.inputs)

	var decision reactloop.Decision
	if err == nil {
		decision = finish
	}
	cfg.Hooks.FireAfterPlan(ctx, reactloop.AfterPlanEvent{
		RunID:     r.id,
		Iteration: iteration,
		Final:     true,
		Decision:  decision,
		Duration:  r.now().Sub(began),
		Err:       err,
	})

	if err != nil {
		if ctx.Err() != nil {
			return r.fail(reactloop.StateCanceled, err, "")
		}
		return r.fail(reactloop.StateFailedModel, err, "")
	}
	return r.finish(reason, finish.ReturnValues)
}

func (r *run) finish(state reactloop.RunState, values map[string]any) *Result {
	return r.result(state, values, nil)
}

func (r *run) fail(state reactloop.RunState, err error, rawCompletion string) *Result {
	lastLog := ""
	if step, ok := r.history.Last(); ok {
		lastLog = step.Action.Log
	}
	if state == reactloop.StateFailedTool {
		lastLog = rawCompletion
	}
	return r.result(state, nil, &reactloop.RunError{
		State:         state,
		Err:           err,
		LastLog:       lastLog,
		RawCompletion: rawCompletion,
	})
}

func (r *run) result(state reactloop.RunState, values map[string]any, err error) *Result {
	r.stats.Iterations = r.history.Len()
	return &Result{
		RunID:        r.id,
		State:        state,
		ReturnValues: values,
		OutputKey:    r.exec.agent.OutputKey(),
		History:      r.history,
		Stats:        r.stats,
		Duration:     r.elapsed(),
		Err:          err,
	}
}

// toolErrorText is the observation recorded for a failed tool call: the tool's own message
// when there is one.
func toolErrorText(err error) string {
	var execErr *reactloop.ToolExecutionError
	if errors.As(err, &execErr) && execErr.Err != nil {
		return execErr.Err.Error()
	}
	return err.Error()
}
