package agents

import (
	"github.com/rickchristie/reactloop"
	"github.com/rickchristie/reactloop/parser"
)

// Config describes an agent. Start from DefaultConfig for a prebuilt type and adjust it with
// the WithX methods, which return modified copies:
//
//	cfg := agents.DefaultConfig(agents.TypeZeroShotReAct).
//	    WithTools(registry.Descriptors()).
//	    WithPrefix("You are a research assistant. You have access to the following tools:")
//	agent, err := agents.New(model, cfg)
//
// Prefix, Suffix and the parser's format instructions are text/template sources rendered
// with PromptData.
type Config struct {
	// Type selects tool validation for prebuilt types. Leave empty for a custom agent.
	Type Type

	Parser reactloop.OutputParser
	Tools  []reactloop.ToolDescriptor

	// Prefix comes before the tool list.
	Prefix string

	// FormatInstructions overrides Parser.FormatInstructions when non-empty.
	FormatInstructions string

	// Suffix comes last and must render the scratchpad.
	Suffix string

	ObservationPrefix string
	LLMPrefix         string

	// InputKeys must be present in every run's inputs. OptionalInputKeys render as "" when
	// absent.
	InputKeys         []string
	OptionalInputKeys []string

	// OutputKey is the key of the final answer in Finish.ReturnValues.
	// Defaults to reactloop.DefaultOutputKey.
	OutputKey string

	// ScratchpadWindow keeps only the last N steps in the prompt. 0 keeps all steps.
	ScratchpadWindow int

	TimeProvider reactloop.TimeProvider
}

// DefaultConfig returns the defaults for a prebuilt agent type. An unknown type returns a
// Config with only Type set, which New rejects.
func DefaultConfig(t Type) Config {
	spec, ok := typeSpecs[t]
	if !ok {
		return Config{Type: t}
	}
	return spec.defaults()
}

// WithTools sets the tools advertised in the prompt.
func (c Config) WithTools(tools []reactloop.ToolDescriptor) Config {
	c.Tools = append([]reactloop.ToolDescriptor(nil), tools...)
	return c
}

// WithParser replaces the output parser.
func (c Config) WithParser(p reactloop.OutputParser) Config {
	c.Parser = p
	return c
}

// WithPrefix replaces the instructions that precede the tool list.
func (c Config) WithPrefix(prefix string) Config {
	c.Prefix = prefix
	return c
}

// WithSuffix replaces the text that follows the format instructions.
func (c Config) WithSuffix(suffix string) Config {
	c.Suffix = suffix
	return c
}

// WithFormatInstructions overrides the parser's format instructions.
func (c Config) WithFormatInstructions(instructions string) Config {
	c.FormatInstructions = instructions
	return c
}

// WithObservationPrefix sets the prefix written before each observation in the scratchpad.
func (c Config) WithObservationPrefix(prefix string) Config {
	c.ObservationPrefix = prefix
	return c
}

// WithLLMPrefix sets the prefix that invites the model's next thought.
func (c Config) WithLLMPrefix(prefix string) Config {
	c.LLMPrefix = prefix
	return c
}

// WithOutputKey sets the key of the final answer.
func (c Config) WithOutputKey(key string) Config {
	c.OutputKey = key
	return c
}

// WithScratchpadWindow keeps only the last n steps in the prompt.
func (c Config) WithScratchpadWindow(n int) Config {
	c.ScratchpadWindow = n
	return c
}

// WithTimeProvider sets the clock exposed to templates as .Time.
func (c Config) WithTimeProvider(tp reactloop.TimeProvider) Config {
	c.TimeProvider = tp
	return c
}

// WithAIPrefix sets the answer marker of a conversational agent. It replaces the parser
// with a Conversational parser using prefix.
func (c Config) WithAIPrefix(prefix string) Config {
	c.Parser = parser.NewConversational().WithAIPrefix(prefix)
	return c
}
