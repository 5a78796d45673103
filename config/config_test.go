package config

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"gopkg.in/yaml.v3"

	"github.com/rickchristie/reactloop"
	"github.com/rickchristie/reactloop/executor"
	"github.com/rickchristie/reactloop/models"
	"github.com/rickchristie/reactloop/schema"
)

const echoConfig = `
agent:
  type: zero-shot-react-description
model:
  provider: scripted
  script:
    - |-
      I should repeat it.
      Action: Echo
      Action Input: hello
    - |-
      I now know the final answer.
      Final Answer: hello
executor:
  max_iterations: 4
  max_wall_clock: 30s
  early_stopping: generate
tools:
  - name: Echo
    kind: echo
    description: Repeats the input.
`

const docstoreConfig = `
agent:
  type: react-docstore
model:
  provider: scripted
  script:
    - "I should search\nAction: Search[LangChain]"
    - "I should lookup\nAction: Lookup[made]"
    - "Done\nAction: Finish[2022]"
tools:
  - name: Search
    kind: docstore_search
    description: Search for a page.
  - name: Lookup
    kind: docstore_lookup
    description: Lookup a term in the page.
docstore:
  documents:
    - id: LangChain
      content: "LangChain is a framework.\n\nMade in 2022."
`

func TestParse(t *testing.T) {
	f, err := Parse([]byte(echoConfig))
	require.NoError(t, err)

	assert.Equal(t, "zero-shot-react-description", f.Agent.Type)
	assert.Equal(t, ProviderScripted, f.Model.Provider)
	assert.Len(t, f.Model.Script, 2)
	require.NotNil(t, f.Executor.MaxIterations)
	assert.Equal(t, 4, *f.Executor.MaxIterations)
	assert.Equal(t, Duration(30*time.Second), f.Executor.MaxWallClock)
	assert.Equal(t, []ToolSection{{Name: "Echo", Kind: KindEcho, Description: "Repeats the input."}}, f.Tools)
}

func TestParse_JSON(t *testing.T) {
	f, err := Parse([]byte(`{"agent": {"type": "self-ask-with-search"}, "model": {"provider": "scripted", "script": ["x"]}}`))
	require.NoError(t, err)
	assert.Equal(t, "self-ask-with-search", f.Agent.Type)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		isSchema bool
	}{
		{name: "empty", input: ""},
		{name: "not yaml", input: "agent: [unclosed"},
		{name: "missing model", input: "agent: {type: react-docstore}", isSchema: true},
		{name: "unknown agent type", input: "agent: {type: mrkl}\nmodel: {provider: scripted}", isSchema: true},
		{name: "unknown provider", input: "agent: {type: react-docstore}\nmodel: {provider: anthropic}", isSchema: true},
		{name: "unknown field", input: "agent: {type: react-docstore, colour: red}\nmodel: {provider: scripted}", isSchema: true},
		{
			name:     "bad duration",
			input:    "agent: {type: react-docstore}\nmodel: {provider: scripted}\nexecutor: {max_wall_clock: forever}",
			isSchema: true,
		},
		{
			name:     "bad early stopping",
			input:    "agent: {type: react-docstore}\nmodel: {provider: scripted}\nexecutor: {early_stopping: never}",
			isSchema: true,
		},
		{
			name:     "negative iterations",
			input:    "agent: {type: react-docstore}\nmodel: {provider: scripted}\nexecutor: {max_iterations: -1}",
			isSchema: true,
		},
		{
			name:     "tool without kind",
			input:    "agent: {type: react-docstore}\nmodel: {provider: scripted}\ntools: [{name: Search}]",
			isSchema: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.input))
			require.Error(t, err)
			var vErr *schema.ValidationError
			assert.Equal(t, tc.isSchema, errors.As(err, &vErr), "got %v", err)
		})
	}
}

func TestDuration_UnmarshalYAML(t *testing.T) {
	var v struct {
		D Duration `yaml:"d"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("d: 1m30s"), &v))
	assert.Equal(t, Duration(90*time.Second), v.D)

	err := yaml.Unmarshal([]byte("d: soon"), &v)
	assert.ErrorContains(t, err, `line 1: invalid duration "soon"`)
}

func TestLoad_ResolvesDocstorePath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "agent.yaml"), []byte(`
agent: {type: react-docstore}
model: {provider: scripted, script: [x]}
docstore: {path: docs.yaml}
`), 0o644))

	f, err := Load(filepath.Join(dir, "agent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "docs.yaml"), f.Docstore.Path)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "read config")
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	temperature := 0.2
	iterations := 0
	f := &File{
		Agent: AgentSection{Type: "conversational-react-description", AIPrefix: "Bot", ScratchpadWindow: 3},
		Model: ModelSection{
			Provider:    ProviderOpenAI,
			Name:        "gpt-4o-mini",
			BaseURL:     "http://localhost:8080/v1",
			APIKeyEnv:   "OPENAI_API_KEY",
			Temperature: &temperature,
			Retry:       &RetrySection{MaxRetries: 2, BaseDelay: Duration(time.Second)},
			RateLimit:   &RateLimitSection{PerSecond: 1.5, Burst: 2},
		},
		Executor: ExecutorSection{
			MaxIterations:  &iterations,
			MaxWallClock:   Duration(2 * time.Minute),
			OnParsingError: "feedback",
		},
		Tools:   []ToolSection{{Name: "Clock", Kind: KindStatic, Response: "noon", ReturnDirect: true}},
		Logging: LoggingSection{Format: LogSlog, Level: "debug"},
		Tracing: true,
	}

	path := filepath.Join(t.TempDir(), "agent.yaml")
	require.NoError(t, f.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, f, loaded)
}

func TestBuild_Scripted(t *testing.T) {
	f, err := Parse([]byte(echoConfig))
	require.NoError(t, err)

	rt, err := Build(f, Options{})
	require.NoError(t, err)
	assert.Nil(t, rt.Explorer)
	assert.Equal(t, []string{"Echo"}, rt.Registry.Names())
	assert.Equal(t, 4, rt.Executor.Config().MaxIterations)
	assert.Equal(t, 30*time.Second, rt.Executor.Config().MaxWallClock)
	assert.Equal(t, executor.EarlyStopGenerate, rt.Executor.Config().EarlyStopping)

	res, err := rt.Executor.RunText(context.Background(), "say hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", res.Output())
	require.Equal(t, 1, res.History.Len())
	step, _ := res.History.Last()
	assert.Equal(t, "hello", step.Observation)
}

func TestBuild_Docstore(t *testing.T) {
	f, err := Parse([]byte(docstoreConfig))
	require.NoError(t, err)

	rt, err := Build(f, Options{})
	require.NoError(t, err)
	require.NotNil(t, rt.Explorer)

	res, err := rt.Executor.RunText(context.Background(), "when was langchain made")
	require.NoError(t, err)
	assert.Equal(t, "2022", res.Output())
	steps := res.History.Steps()
	require.Len(t, steps, 2)
	assert.Equal(t, "LangChain is a framework.", steps[0].Observation)
	assert.Equal(t, "(Result 1/1) Made in 2022.", steps[1].Observation)
	assert.Equal(t, 0, rt.Explorer.Sessions())
}

func TestBuild_DocstoreFromFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "docs.yaml"), []byte(`
- id: Go
  content: Go is a programming language.
`), 0o644))

	f, err := Parse([]byte(docstoreConfig))
	require.NoError(t, err)
	f.Docstore = &DocstoreConfig{Path: filepath.Join(dir, "docs.yaml")}

	rt, err := Build(f, Options{})
	require.NoError(t, err)
	out, err := rt.Explorer.Search(context.Background(), "go")
	require.NoError(t, err)
	assert.Equal(t, "Go is a programming language.", out)
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *File)
		getenv func(string) string
		substr string
	}{
		{
			name: "missing api key",
			mutate: func(f *File) {
				f.Model = ModelSection{Provider: ProviderOpenAI, Name: "gpt-4o-mini", APIKeyEnv: "OPENAI_API_KEY"}
			},
			substr: "environment variable OPENAI_API_KEY is empty",
		},
		{
			name: "github without token",
			mutate: func(f *File) {
				f.Model = ModelSection{Provider: ProviderGitHub, Name: models.GitHubGPT4oMini}
			},
			substr: "model",
		},
		{
			name:   "empty script",
			mutate: func(f *File) { f.Model.Script = nil },
			substr: "scripted provider needs a script",
		},
		{
			name:   "docstore tools without documents",
			mutate: func(f *File) { f.Tools[0].Kind = KindDocstoreSearch },
			substr: "docstore tools need a docstore section",
		},
		{
			name: "duplicate tool",
			mutate: func(f *File) {
				f.Tools = append(f.Tools, ToolSection{Name: "Echo", Kind: KindEcho})
			},
			substr: "duplicate tool name",
		},
		{
			name:   "agent rejects tools",
			mutate: func(f *File) { f.Agent.Type = "react-docstore" },
			substr: "agent react-docstore",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f, err := Parse([]byte(echoConfig))
			require.NoError(t, err)
			tc.mutate(f)

			getenv := tc.getenv
			if getenv == nil {
				getenv = func(string) string { return "" }
			}
			_, err = Build(f, Options{Getenv: getenv})
			require.Error(t, err)
			assert.ErrorContains(t, err, tc.substr)
		})
	}
}

func TestBuild_ConfigurationErrors(t *testing.T) {
	f, err := Parse([]byte(echoConfig))
	require.NoError(t, err)
	f.Model.Script = nil

	_, err = Build(f, Options{})
	assert.ErrorIs(t, err, reactloop.ErrConfiguration)
}

func TestBuild_ModelWrappers(t *testing.T) {
	f, err := Parse([]byte(echoConfig))
	require.NoError(t, err)
	f.Model.Retry = &RetrySection{MaxRetries: 1, BaseDelay: Duration(time.Millisecond)}
	f.Model.RateLimit = &RateLimitSection{PerSecond: 1000, Burst: 1}

	rt, err := Build(f, Options{})
	require.NoError(t, err)
	assert.IsType(t, &models.RateLimited{}, rt.Model)

	res, err := rt.Executor.RunText(context.Background(), "say hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", res.Output())
}

func TestBuild_OpenAIWithToken(t *testing.T) {
	temperature := 0.0
	f, err := Parse([]byte(echoConfig))
	require.NoError(t, err)
	f.Model = ModelSection{
		Provider:    ProviderOpenAI,
		Name:        "gpt-4o-mini",
		BaseURL:     "http://localhost:1/v1",
		APIKeyEnv:   "TEST_KEY",
		Temperature: &temperature,
	}

	rt, err := Build(f, Options{Getenv: func(key string) string {
		if key == "TEST_KEY" {
			return "secret"
		}
		return ""
	}})
	require.NoError(t, err)
	require.IsType(t, &models.LCG{}, rt.Model)
	assert.Equal(t, "gpt-4o-mini", rt.Model.(*models.LCG).Name())
}

func TestBuild_Observers(t *testing.T) {
	tests := []struct {
		name     string
		format   string
		expected string
	}{
		{name: "slog", format: LogSlog, expected: "msg=\"run started\""},
		{name: "transcript", format: LogTranscript, expected: ">>> [BeforeRun]"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f, err := Parse([]byte(echoConfig))
			require.NoError(t, err)
			f.Logging = LoggingSection{Format: tc.format, Level: "debug"}
			f.Tracing = true

			recorder := tracetest.NewSpanRecorder()
			tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
			var stderr bytes.Buffer

			rt, err := Build(f, Options{Stderr: &stderr, TracerProvider: tp})
			require.NoError(t, err)
			_, err = rt.Executor.RunText(context.Background(), "say hello")
			require.NoError(t, err)

			assert.Contains(t, stderr.String(), tc.expected)
			names := make([]string, 0, len(recorder.Ended()))
			for _, s := range recorder.Ended() {
				names = append(names, s.Name())
			}
			assert.Contains(t, names, "reactloop.run")
			assert.Contains(t, names, "reactloop.tool Echo")
		})
	}
}

type countingHook struct{ runs int }

func (h *countingHook) OnAfterRun(context.Context, reactloop.AfterRunEvent) { h.runs++ }

func TestBuild_ExtraHooksAndModel(t *testing.T) {
	f, err := Parse([]byte(echoConfig))
	require.NoError(t, err)

	hook := &countingHook{}
	model := models.NewScripted("I now know the final answer.\nFinal Answer: overridden")
	rt, err := Build(f, Options{Hooks: []any{hook}, Model: model})
	require.NoError(t, err)

	res, err := rt.Executor.RunText(context.Background(), "say hello")
	require.NoError(t, err)
	assert.Equal(t, "overridden", res.Output())
	assert.Equal(t, 1, hook.runs)
}

func TestSchema_MatchesExecutorDefaults(t *testing.T) {
	props := Schema().Raw()["properties"].(map[string]any)
	exec := props["executor"].(map[string]any)["properties"].(map[string]any)
	assert.Equal(t, executor.DefaultMaxIterations, exec["max_iterations"].(map[string]any)["default"])
}
