package agents

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickchristie/reactloop"
	"github.com/rickchristie/reactloop/internal/tt"
	"github.com/rickchristie/reactloop/parser"
)

func searchTools() []reactloop.ToolDescriptor {
	return []reactloop.ToolDescriptor{
		{Name: "Search", Description: "search the web"},
		{Name: "Calculator", Description: "do math"},
	}
}

func TestNew_Validation(t *testing.T) {
	model := tt.NewMockModel()

	tests := []struct {
		name     string
		model    reactloop.LanguageModel
		input    Config
		expected string
	}{
		{
			name:     "self-ask with wrong tool name",
			model:    model,
			input:    DefaultConfig(TypeSelfAskWithSearch).WithTools([]reactloop.ToolDescriptor{{Name: "Search"}}),
			expected: "Intermediate Answer",
		},
		{
			name:  "self-ask with two tools",
			model: model,
			input: DefaultConfig(TypeSelfAskWithSearch).WithTools([]reactloop.ToolDescriptor{
				{Name: parser.IntermediateAnswerTool},
				{Name: "Search"},
			}),
			expected: "exactly 1 tool",
		},
		{
			name:     "docstore without lookup",
			model:    model,
			input:    DefaultConfig(TypeReActDocstore).WithTools([]reactloop.ToolDescriptor{{Name: "Search"}}),
			expected: "exactly 2 tool",
		},
		{
			name:     "zero-shot without tools",
			model:    model,
			input:    DefaultConfig(TypeZeroShotReAct),
			expected: "at least one tool",
		},
		{
			name:     "duplicate tool names",
			model:    model,
			input:    DefaultConfig(TypeZeroShotReAct).WithTools([]reactloop.ToolDescriptor{{Name: "a"}, {Name: "a"}}),
			expected: "duplicate tool name",
		},
		{
			name:     "missing model",
			model:    nil,
			input:    DefaultConfig(TypeZeroShotReAct).WithTools(searchTools()),
			expected: "language model is required",
		},
		{
			name:     "missing parser",
			model:    model,
			input:    DefaultConfig(TypeZeroShotReAct).WithTools(searchTools()).WithParser(nil),
			expected: "output parser is required",
		},
		{
			name:     "broken template",
			model:    model,
			input:    DefaultConfig(TypeZeroShotReAct).WithTools(searchTools()).WithPrefix("{{.Broken"),
			expected: "agent prompt",
		},
		{
			name:     "suffix without scratchpad",
			model:    model,
			input:    DefaultConfig(TypeZeroShotReAct).WithTools(searchTools()).WithSuffix("Question: {{index .Inputs \"input\"}}"),
			expected: "Scratchpad",
		},
		{
			name:     "unknown type",
			model:    model,
			input:    DefaultConfig(Type("bogus")).WithParser(parser.NewMRKL()),
			expected: "unknown agent type",
		},
		{
			name:     "negative window",
			model:    model,
			input:    DefaultConfig(TypeZeroShotReAct).WithTools(searchTools()).WithScratchpadWindow(-1),
			expected: "window",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			agent, err := New(tc.model, tc.input)
			require.Error(t, err)
			assert.Nil(t, agent)
			assert.ErrorIs(t, err, reactloop.ErrConfiguration)
			assert.Contains(t, err.Error(), tc.expected)
		})
	}
}

func TestConstructors_CoverEveryType(t *testing.T) {
	toolsFor := map[Type][]reactloop.ToolDescriptor{
		TypeZeroShotReAct:       searchTools(),
		TypeReActDocstore:       {{Name: SearchToolName}, {Name: LookupToolName}},
		TypeSelfAskWithSearch:   {{Name: parser.IntermediateAnswerTool}},
		TypeConversationalReAct: searchTools(),
	}

	for _, typ := range Types() {
		t.Run(string(typ), func(t *testing.T) {
			_, ok := Constructors[typ]
			require.True(t, ok, "no constructor for %s", typ)

			tools, ok := toolsFor[typ]
			require.True(t, ok, "no test tools for %s", typ)

			agent, err := Create(typ, tt.NewMockModel(), tools)
			require.NoError(t, err)
			assert.Equal(t, typ, agent.Type())

			parsed, err := ParseType(string(typ))
			require.NoError(t, err)
			assert.Equal(t, typ, parsed)
		})
	}

	_, err := ParseType("bogus")
	assert.ErrorIs(t, err, reactloop.ErrConfiguration)
	_, err = Create("bogus", tt.NewMockModel(), nil)
	assert.ErrorIs(t, err, reactloop.ErrConfiguration)
}

func TestAgent_PromptAssembly(t *testing.T) {
	model := tt.NewMockModel("Action: Search\nAction Input: weather")
	agent, err := NewZeroShot(model, searchTools())
	require.NoError(t, err)

	history := reactloop.NewRunHistory(reactloop.Step{
		Action:      reactloop.Action{Tool: "Search", ToolInput: "a", Log: " I should search\nAction: Search\nAction Input: a"},
		Observation: "sunny",
	})

	decision, err := agent.Plan(context.Background(), history, map[string]string{"input": "Is it sunny?"})
	require.NoError(t, err)
	assert.Equal(t, reactloop.Action{
		Tool:      "Search",
		ToolInput: "weather",
		Log:       "Action: Search\nAction Input: weather",
	}, decision)

	prompt := model.LastPrompt()
	assert.True(t, strings.HasPrefix(prompt, zeroShotPrefix))
	assert.Contains(t, prompt, "Search: search the web\nCalculator: do math")
	assert.Contains(t, prompt, "should be one of [Search, Calculator]")
	assert.True(t, strings.HasSuffix(prompt,
		"Question: Is it sunny?\nThought: I should search\nAction: Search\nAction Input: a\nObservation: sunny\nThought:",
	), prompt)

	require.Len(t, model.CapturedStops, 1)
	assert.Equal(t, []string{"\nObservation:", "\n\tObservation:"}, model.CapturedStops[0])
}

func TestAgent_SelfAskPrefixes(t *testing.T) {
	model := tt.NewMockModel("Yes.\nFollow up: who won?")
	agent, err := NewSelfAsk(model, []reactloop.ToolDescriptor{{Name: parser.IntermediateAnswerTool, Description: "Search"}})
	require.NoError(t, err)

	history := reactloop.NewRunHistory(reactloop.Step{
		Action:      reactloop.Action{Tool: parser.IntermediateAnswerTool, ToolInput: "q", Log: " Yes.\nFollow up: q"},
		Observation: "a",
	})
	decision, err := agent.Plan(context.Background(), history, map[string]string{"input": "Q?"})
	require.NoError(t, err)
	assert.Equal(t, parser.IntermediateAnswerTool, decision.(reactloop.Action).Tool)

	assert.True(t, strings.HasSuffix(model.LastPrompt(),
		"Are follow up questions needed here: Yes.\nFollow up: q\nIntermediate answer: a\n"))
	assert.Equal(t, []string{"\nIntermediate answer:", "\n\tIntermediate answer:"}, model.CapturedStops[0])
}

func TestAgent_ConversationalChatHistory(t *testing.T) {
	model := tt.NewMockModel("Thought: Do I need to use a tool? No\nAI: hi again", "AI: ok")
	agent, err := NewConversational(model, searchTools())
	require.NoError(t, err)

	decision, err := agent.Plan(context.Background(), reactloop.NewRunHistory(), map[string]string{
		"input":        "hello",
		"chat_history": "Human: hi\nAI: hello",
	})
	require.NoError(t, err)
	assert.Equal(t, "hi again", decision.(reactloop.Finish).Output("output"))
	assert.Contains(t, model.LastPrompt(), "Previous conversation history:\nHuman: hi\nAI: hello\n\nNew input: hello")

	// chat_history is optional.
	_, err = agent.Plan(context.Background(), reactloop.NewRunHistory(), map[string]string{"input": "hello"})
	require.NoError(t, err)
	assert.Contains(t, model.LastPrompt(), "Previous conversation history:\n\n\nNew input: hello")
	assert.NotContains(t, model.LastPrompt(), "<no value>")
}

func TestAgent_CustomAIPrefix(t *testing.T) {
	model := tt.NewMockModel("Thought: no\nBot: sure")
	agent, err := New(model, DefaultConfig(TypeConversationalReAct).WithTools(searchTools()).WithAIPrefix("Bot"))
	require.NoError(t, err)

	decision, err := agent.Plan(context.Background(), reactloop.NewRunHistory(), map[string]string{"input": "x"})
	require.NoError(t, err)
	assert.Equal(t, "sure", decision.(reactloop.Finish).Output("output"))
	assert.Contains(t, model.LastPrompt(), "Bot: [your response here]")
}

func TestAgent_PlanErrors(t *testing.T) {
	modelErr := errors.New("rate limited")

	t.Run("model error is wrapped", func(t *testing.T) {
		model := tt.NewMockModel().AddError(modelErr)
		agent, err := NewZeroShot(model, searchTools())
		require.NoError(t, err)

		_, err = agent.Plan(context.Background(), reactloop.NewRunHistory(), map[string]string{"input": "x"})
		assert.ErrorIs(t, err, modelErr)
		assert.NotErrorIs(t, err, reactloop.ErrParse)
		assert.Equal(t, 1, model.CallCount())
	})

	t.Run("parse error is returned", func(t *testing.T) {
		model := tt.NewMockModel("I have no idea")
		agent, err := NewZeroShot(model, searchTools())
		require.NoError(t, err)

		_, err = agent.Plan(context.Background(), reactloop.NewRunHistory(), map[string]string{"input": "x"})
		var parseErr *reactloop.ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, "I have no idea", parseErr.Output)
	})
}

func TestAgent_PlanFinal(t *testing.T) {
	tests := []struct {
		name       string
		completion string
		expected   string
	}{
		{name: "finish parses", completion: "Final Answer: 42", expected: "42"},
		{name: "action coerced", completion: "Action: Search\nAction Input: more", expected: "Action: Search\nAction Input: more"},
		{name: "garbage coerced", completion: "I give up", expected: "I give up"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			model := tt.NewMockModel(tc.completion)
			agent, err := NewZeroShot(model, searchTools())
			require.NoError(t, err)

			finish, err := agent.PlanFinal(context.Background(), reactloop.NewRunHistory(), map[string]string{"input": "x"})
			require.NoError(t, err)
			assert.Equal(t, tc.expected, finish.Output("output"))
			assert.True(t, strings.HasSuffix(model.LastPrompt(), "Thought:"+FinalAnswerInstruction))
			assert.Equal(t, 1, model.CallCount())
		})
	}
}

func TestAgent_OutputKey(t *testing.T) {
	model := tt.NewMockModel("Final Answer: 42", "still thinking")
	agent, err := New(model, DefaultConfig(TypeZeroShotReAct).WithTools(searchTools()).WithOutputKey("answer"))
	require.NoError(t, err)
	assert.Equal(t, "answer", agent.OutputKey())

	decision, err := agent.Plan(context.Background(), reactloop.NewRunHistory(), map[string]string{"input": "x"})
	require.NoError(t, err)
	finish := decision.(reactloop.Finish)
	assert.Equal(t, map[string]any{"answer": "42"}, finish.ReturnValues)

	final, err := agent.PlanFinal(context.Background(), reactloop.NewRunHistory(), map[string]string{"input": "x"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"answer": "still thinking"}, final.ReturnValues)
}

func TestAgent_TimeInTemplate(t *testing.T) {
	model := tt.NewMockModel()
	clock := reactloop.NewMockTimeProvider(time.Date(2025, 2, 15, 9, 0, 0, 0, time.UTC))
	agent, err := New(model, DefaultConfig(TypeZeroShotReAct).
		WithTools(searchTools()).
		WithPrefix("Today is {{.Time.Today}} ({{.Time.Weekday}}). Tools:").
		WithTimeProvider(clock))
	require.NoError(t, err)

	prompt, err := agent.Prompt(reactloop.NewRunHistory(), map[string]string{"input": "x"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(prompt, "Today is 2025-02-15 (Saturday). Tools:"))
}

func TestScratchpad(t *testing.T) {
	history := reactloop.NewRunHistory(
		reactloop.Step{Action: reactloop.Action{Log: "L1"}, Observation: "O1"},
		reactloop.Step{Action: reactloop.Action{Log: "L2"}, Observation: "O2"},
		reactloop.Step{Action: reactloop.Action{Log: "L3"}, Observation: "O3"},
	)

	tests := []struct {
		name     string
		input    Scratchpad
		expected string
	}{
		{
			name:     "all steps",
			input:    Scratchpad{ObservationPrefix: "Observation: ", LLMPrefix: "Thought:"},
			expected: "L1\nObservation: O1\nThought:L2\nObservation: O2\nThought:L3\nObservation: O3\nThought:",
		},
		{
			name:     "window",
			input:    Scratchpad{ObservationPrefix: "Observation: ", LLMPrefix: "Thought:", Window: 2},
			expected: "L2\nObservation: O2\nThought:L3\nObservation: O3\nThought:",
		},
		{
			name:     "window larger than history",
			input:    Scratchpad{ObservationPrefix: "> ", Window: 10},
			expected: "L1\n> O1\nL2\n> O2\nL3\n> O3\n",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.input.Render(history))
			// Rendering is pure.
			assert.Equal(t, tc.expected, tc.input.Render(history))
		})
	}

	assert.Equal(t, "", Scratchpad{}.Render(reactloop.NewRunHistory()))
	assert.Nil(t, Scratchpad{}.StopSequences())
}
