package config

import (
	"sync"

	"github.com/rickchristie/reactloop/agents"
	"github.com/rickchristie/reactloop/executor"
	"github.com/rickchristie/reactloop/schema"
)

const durationPattern = `^([0-9]+(\.[0-9]+)?(ns|us|µs|ms|s|m|h))+$`

var (
	fileSchema     *schema.Schema
	fileSchemaOnce sync.Once
)

// Schema returns the JSON Schema of config files.
func Schema() *schema.Schema {
	fileSchemaOnce.Do(func() {
		fileSchema = schema.MustCompile(buildSchema())
	})
	return fileSchema
}

func duration(description string) *schema.Property {
	return schema.String(description).Pattern(durationPattern)
}

func buildSchema() map[string]any {
	types := make([]any, 0, len(agents.Types()))
	for _, t := range agents.Types() {
		types = append(types, string(t))
	}

	agent := schema.ObjectProperty("Agent type and prompt overrides", map[string]*schema.Property{
		"type":                schema.String("Prebuilt agent type").Enum(types...),
		"prefix":              schema.String("Prompt text before the tool list"),
		"suffix":              schema.String("Prompt text after the format instructions; must render .Scratchpad"),
		"format_instructions": schema.String("Format instructions template"),
		"output_key":          schema.String("Key of the final answer").MinLength(1),
		"ai_prefix":           schema.String("Conversational answer prefix").MinLength(1),
		"scratchpad_window":   schema.Integer("Keep only the last N steps in the prompt").Min(0),
	}, "type")

	model := schema.ObjectProperty("Language model", map[string]*schema.Property{
		"provider":    schema.String("Model provider").Enum(ProviderOpenAI, ProviderGitHub, ProviderScripted),
		"name":        schema.String("Model name"),
		"base_url":    schema.String("OpenAI-compatible endpoint"),
		"api_key_env": schema.String("Environment variable holding the API token").MinLength(1),
		"temperature": schema.Number("Sampling temperature").Min(0).Max(2),
		"script":      schema.Array("Completions of the scripted provider", map[string]any{"type": "string"}),
		"retry": schema.ObjectProperty("Retry transient model errors", map[string]*schema.Property{
			"max_retries": schema.Integer("Retries after the first attempt").Min(0),
			"base_delay":  duration("First backoff delay"),
			"max_delay":   duration("Backoff cap"),
		}, "max_retries"),
		"rate_limit": schema.ObjectProperty("Throttle model calls", map[string]*schema.Property{
			"per_second": schema.Number("Calls per second").Min(0),
			"burst":      schema.Integer("Burst size").Min(1),
		}, "per_second"),
	}, "provider")

	exec := schema.ObjectProperty("Run policy", map[string]*schema.Property{
		"max_iterations": schema.Integer("Iteration budget, 0 for none").Min(0).Default(executor.DefaultMaxIterations),
		"max_wall_clock": duration("Wall-clock budget"),
		"early_stopping": schema.String("Early stopping method").
			Enum(string(executor.EarlyStopForce), string(executor.EarlyStopGenerate)),
		"on_parsing_error": schema.String("Parse error policy").
			Enum(string(executor.OnParsingErrorRaise), string(executor.OnParsingErrorFeedback)),
		"async_tools": schema.Boolean("Dispatch tools through RunAsync"),
	})

	tool := schema.ObjectProperty("", map[string]*schema.Property{
		"name":             schema.String("Tool name").MinLength(1),
		"kind":             schema.String("Built-in implementation").Enum(KindDocstoreSearch, KindDocstoreLookup, KindEcho, KindStatic),
		"description":      schema.String("Description shown to the model"),
		"return_direct":    schema.Boolean("Return the tool output as the answer"),
		"propagate_errors": schema.Boolean("Fail the run on tool errors"),
		"response":         schema.String("Output of a static tool"),
	}, "name", "kind")

	docstore := schema.ObjectProperty("Documents for the docstore tools", map[string]*schema.Property{
		"path": schema.String("YAML document list"),
		"documents": schema.Array("Inline documents", schema.ObjectProperty("", map[string]*schema.Property{
			"id":      schema.String("Document id").MinLength(1),
			"content": schema.String("Document text"),
		}, "id", "content").Items()),
	})

	logging := schema.ObjectProperty("Run logging", map[string]*schema.Property{
		"format": schema.String("Log format").Enum(LogNone, LogSlog, LogTranscript),
		"level":  schema.String("slog level").Enum("debug", "info", "warn", "error"),
	})

	return schema.Object(map[string]*schema.Property{
		"agent":    agent,
		"model":    model,
		"executor": exec,
		"tools":    schema.Array("Built-in tools", tool.Items()),
		"docstore": docstore,
		"logging":  logging,
		"tracing":  schema.Boolean("Record OpenTelemetry spans"),
	}, "agent", "model")
}
