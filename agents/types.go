package agents

import (
	_ "embed"
	"fmt"
	"sort"

	"github.com/rickchristie/reactloop"
	"github.com/rickchristie/reactloop/parser"
)

// Type names a prebuilt agent flavor. The string values are stable and used in config files.
type Type string

const (
	TypeZeroShotReAct       Type = "zero-shot-react-description"
	TypeReActDocstore       Type = "react-docstore"
	TypeSelfAskWithSearch   Type = "self-ask-with-search"
	TypeConversationalReAct Type = "conversational-react-description"
)

// Tool names the docstore agent requires.
const (
	SearchToolName = "Search"
	LookupToolName = "Lookup"
)

// Input keys used by the prebuilt prompts.
const (
	InputKey       = "input"
	ChatHistoryKey = "chat_history"
)

//go:embed prompts/react_docstore.tmpl
var reactDocstoreExamples string

//go:embed prompts/self_ask.tmpl
var selfAskExamples string

const zeroShotPrefix = `Answer the following questions as best you can. You have access to the following tools:`

const zeroShotSuffix = `Begin!

Question: {{index .Inputs "input"}}
Thought:{{.Scratchpad}}`

const conversationalPrefix = `Assistant is a large language model trained to help with a wide range of tasks, from answering simple questions to providing in-depth explanations and discussions on a wide range of topics. Assistant generates human-like text based on the input it receives, and uses tools when it needs information it does not have.

TOOLS:
------

Assistant has access to the following tools:`

const conversationalSuffix = `Begin!

Previous conversation history:
{{index .Inputs "chat_history"}}

New input: {{index .Inputs "input"}}
{{.Scratchpad}}`

const docstoreSuffix = `
Question: {{index .Inputs "input"}}
{{.Scratchpad}}`

const selfAskSuffix = `
Question: {{index .Inputs "input"}}
Are follow up questions needed here:{{.Scratchpad}}`

// typeSpec holds everything that differs between prebuilt agent types.
type typeSpec struct {
	defaults      func() Config
	validateTools func(tools []reactloop.ToolDescriptor) error
}

var typeSpecs = map[Type]typeSpec{
	TypeZeroShotReAct: {
		defaults: func() Config {
			return Config{
				Type:              TypeZeroShotReAct,
				Parser:            parser.NewMRKL(),
				Prefix:            zeroShotPrefix,
				Suffix:            zeroShotSuffix,
				ObservationPrefix: "Observation: ",
				LLMPrefix:         "Thought:",
				InputKeys:         []string{InputKey},
			}
		},
		validateTools: requireAtLeastOneTool,
	},
	TypeReActDocstore: {
		defaults: func() Config {
			return Config{
				Type:              TypeReActDocstore,
				Parser:            parser.NewReAct(),
				Prefix:            reactDocstoreExamples,
				Suffix:            docstoreSuffix,
				ObservationPrefix: "Observation: ",
				LLMPrefix:         "Thought:",
				InputKeys:         []string{InputKey},
			}
		},
		validateTools: requireExactTools(SearchToolName, LookupToolName),
	},
	TypeSelfAskWithSearch: {
		defaults: func() Config {
			return Config{
				Type:              TypeSelfAskWithSearch,
				Parser:            parser.NewSelfAsk(),
				Prefix:            selfAskExamples,
				Suffix:            selfAskSuffix,
				ObservationPrefix: "Intermediate answer: ",
				LLMPrefix:         "",
				InputKeys:         []string{InputKey},
			}
		},
		validateTools: requireExactTools(parser.IntermediateAnswerTool),
	},
	TypeConversationalReAct: {
		defaults: func() Config {
			return Config{
				Type:              TypeConversationalReAct,
				Parser:            parser.NewConversational(),
				Prefix:            conversationalPrefix,
				Suffix:            conversationalSuffix,
				ObservationPrefix: "Observation: ",
				LLMPrefix:         "Thought:",
				InputKeys:         []string{InputKey},
				OptionalInputKeys: []string{ChatHistoryKey},
			}
		},
		validateTools: requireAtLeastOneTool,
	},
}

// Types lists the prebuilt agent types in a stable order.
func Types() []Type {
	result := make([]Type, 0, len(typeSpecs))
	for t := range typeSpecs {
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}

// ParseType converts a type name to a Type, failing for unknown names.
func ParseType(name string) (Type, error) {
	t := Type(name)
	if _, ok := typeSpecs[t]; !ok {
		return "", reactloop.NewConfigurationError("agent", "unknown agent type %q", name)
	}
	return t, nil
}

func requireAtLeastOneTool(tools []reactloop.ToolDescriptor) error {
	if len(tools) == 0 {
		return fmt.Errorf("at least one tool is required")
	}
	return nil
}

// requireExactTools returns a validator accepting exactly the given set of tool names.
func requireExactTools(names ...string) func([]reactloop.ToolDescriptor) error {
	return func(tools []reactloop.ToolDescriptor) error {
		if len(tools) != len(names) {
			return fmt.Errorf("exactly %d tool(s) named %v are required, got %d", len(names), names, len(tools))
		}
		want := make(map[string]bool, len(names))
		for _, n := range names {
			want[n] = true
		}
		for _, t := range tools {
			if !want[t.Name] {
				return fmt.Errorf("tool names must be %v, got %q", names, t.Name)
			}
		}
		return nil
	}
}
