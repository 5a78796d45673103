package agents

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/rickchristie/reactloop"
)

// PromptData is the data passed to prompt templates.
type PromptData struct {
	// Inputs are the run inputs. Optional keys that were not supplied are present as "".
	Inputs map[string]string

	// ToolDescriptions has one "name: description" line per tool.
	ToolDescriptions string

	// ToolNames is the comma-separated list of tool names.
	ToolNames string

	// Scratchpad is the rendered history.
	Scratchpad string

	// Time provides {{.Time.Today}} and {{.Time.Weekday}}.
	Time reactloop.TimeProvider
}

// Agent is the prompt-driven planning policy. It is immutable after New and safe for
// concurrent use.
type Agent struct {
	model      reactloop.LanguageModel
	parser     reactloop.OutputParser
	agentType  Type
	tools      []reactloop.ToolDescriptor
	prompt     *template.Template
	scratchpad Scratchpad
	stop       []string
	inputKeys  []string
	optional   []string
	outputKey  string
	time       reactloop.TimeProvider
}

var _ reactloop.Agent = (*Agent)(nil)

// New validates cfg and builds an agent. All validation happens here: a returned agent never
// fails at plan time because of its configuration. Errors are *reactloop.ConfigurationError.
func New(model reactloop.LanguageModel, cfg Config) (*Agent, error) {
	if model == nil {
		return nil, reactloop.NewConfigurationError("agent", "language model is required")
	}
	if cfg.Parser == nil {
		return nil, reactloop.NewConfigurationError("agent", "output parser is required")
	}
	if cfg.Type != "" {
		spec, ok := typeSpecs[cfg.Type]
		if !ok {
			return nil, reactloop.NewConfigurationError("agent", "unknown agent type %q", cfg.Type)
		}
		if err := spec.validateTools(cfg.Tools); err != nil {
			return nil, &reactloop.ConfigurationError{Component: "agent " + string(cfg.Type), Err: err}
		}
	}
	if err := checkUniqueNames(cfg.Tools); err != nil {
		return nil, err
	}
	if cfg.ScratchpadWindow < 0 {
		return nil, reactloop.NewConfigurationError("agent", "scratchpad window must not be negative")
	}
	if !strings.Contains(cfg.Suffix, ".Scratchpad") {
		return nil, reactloop.NewConfigurationError("agent", "suffix must render {{.Scratchpad}}")
	}

	instructions := cfg.FormatInstructions
	if instructions == "" {
		instructions = cfg.Parser.FormatInstructions()
	}
	src := cfg.Prefix + "\n\n{{.ToolDescriptions}}\n\n" + instructions + "\n\n" + cfg.Suffix
	tmpl, err := template.New("prompt").Option("missingkey=zero").Parse(src)
	if err != nil {
		return nil, &reactloop.ConfigurationError{Component: "agent prompt", Err: err}
	}

	outputKey := cfg.OutputKey
	if outputKey == "" {
		outputKey = reactloop.DefaultOutputKey
	}
	tp := cfg.TimeProvider
	if tp == nil {
		tp = reactloop.NewDefaultTimeProvider()
	}

	pad := Scratchpad{
		ObservationPrefix: cfg.ObservationPrefix,
		LLMPrefix:         cfg.LLMPrefix,
		Window:            cfg.ScratchpadWindow,
	}

	return &Agent{
		model:      model,
		parser:     cfg.Parser,
		agentType:  cfg.Type,
		tools:      append([]reactloop.ToolDescriptor(nil), cfg.Tools...),
		prompt:     tmpl,
		scratchpad: pad,
		stop:       pad.StopSequences(),
		inputKeys:  append([]string(nil), cfg.InputKeys...),
		optional:   append([]string(nil), cfg.OptionalInputKeys...),
		outputKey:  outputKey,
		time:       tp,
	}, nil
}

func checkUniqueNames(tools []reactloop.ToolDescriptor) error {
	seen := make(map[string]bool, len(tools))
	for _, t := range tools {
		if seen[t.Name] {
			return &reactloop.ConfigurationError{
				Component: "agent",
				Err:       fmt.Errorf("%w: %s", reactloop.ErrDuplicateToolName, t.Name),
			}
		}
		seen[t.Name] = true
	}
	return nil
}

// Type returns the prebuilt type the agent was built from, or "" for custom agents.
func (a *Agent) Type() Type {
	return a.agentType
}

// ToolNames implements reactloop.Agent.
func (a *Agent) ToolNames() []string {
	names := make([]string, len(a.tools))
	for i, t := range a.tools {
		names[i] = t.Name
	}
	return names
}

// InputKeys implements reactloop.Agent.
func (a *Agent) InputKeys() []string {
	return append([]string(nil), a.inputKeys...)
}

// OutputKey implements reactloop.Agent.
func (a *Agent) OutputKey() string {
	return a.outputKey
}

// StopSequences returns the stop sequences sent with every model call.
func (a *Agent) StopSequences() []string {
	return append([]string(nil), a.stop...)
}

// Prompt renders the prompt for the next planning call.
func (a *Agent) Prompt(history reactloop.RunHistory, inputs map[string]string) (string, error) {
	return a.render(a.scratchpad.Render(history), inputs)
}

// Plan implements reactloop.Agent.
func (a *Agent) Plan(
	ctx context.Context,
	history reactloop.RunHistory,
	inputs map[string]string,
) (reactloop.Decision, error) {
	prompt, err := a.render(a.scratchpad.Render(history), inputs)
	if err != nil {
		return nil, err
	}

	completion, err := a.model.Generate(ctx, prompt, a.StopSequences())
	if err != nil {
		return nil, fmt.Errorf("language model: %w", err)
	}

	decision, err := a.parser.Parse(completion)
	if err != nil {
		return nil, err
	}
	if finish, ok := decision.(reactloop.Finish); ok {
		return a.rekey(finish), nil
	}
	return decision, nil
}

// PlanFinal implements reactloop.Agent. The scratchpad gets FinalAnswerInstruction appended
// and the completion always becomes a Finish: if it does not parse as one, the raw
// completion is the answer.
func (a *Agent) PlanFinal(
	ctx context.Context,
	history reactloop.RunHistory,
	inputs map[string]string,
) (reactloop.Finish, error) {
	prompt, err := a.render(a.scratchpad.Render(history)+FinalAnswerInstruction, inputs)
	if err != nil {
		return reactloop.Finish{}, err
	}

	completion, err := a.model.Generate(ctx, prompt, a.StopSequences())
	if err != nil {
		return reactloop.Finish{}, fmt.Errorf("language model: %w", err)
	}

	decision, err := a.parser.Parse(completion)
	if err == nil {
		if finish, ok := decision.(reactloop.Finish); ok {
			return a.rekey(finish), nil
		}
	}
	return reactloop.NewFinish(a.outputKey, completion, completion), nil
}

func (a *Agent) render(scratchpad string, inputs map[string]string) (string, error) {
	values := make(map[string]string, len(inputs)+len(a.optional))
	for _, k := range a.optional {
		values[k] = ""
	}
	for k, v := range inputs {
		values[k] = v
	}

	data := PromptData{
		Inputs:           values,
		ToolDescriptions: a.toolDescriptions(),
		ToolNames:        strings.Join(a.ToolNames(), ", "),
		Scratchpad:       scratchpad,
		Time:             a.time,
	}

	var buf bytes.Buffer
	if err := a.prompt.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return buf.String(), nil
}

func (a *Agent) toolDescriptions() string {
	lines := make([]string, len(a.tools))
	for i, t := range a.tools {
		lines[i] = t.Name + ": " + t.Description
	}
	return strings.Join(lines, "\n")
}

// rekey moves the parser's answer under the agent's output key.
func (a *Agent) rekey(f reactloop.Finish) reactloop.Finish {
	if a.outputKey == reactloop.DefaultOutputKey {
		return f
	}
	v, ok := f.ReturnValues[reactloop.DefaultOutputKey]
	if !ok {
		return f
	}
	values := make(map[string]any, len(f.ReturnValues))
	for k, val := range f.ReturnValues {
		if k != reactloop.DefaultOutputKey {
			values[k] = val
		}
	}
	values[a.outputKey] = v
	return reactloop.Finish{ReturnValues: values, Log: f.Log}
}
