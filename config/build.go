package config

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"go.opentelemetry.io/otel/trace"

	"github.com/rickchristie/reactloop"
	"github.com/rickchristie/reactloop/agents"
	"github.com/rickchristie/reactloop/docstore"
	"github.com/rickchristie/reactloop/executor"
	"github.com/rickchristie/reactloop/hooks"
	"github.com/rickchristie/reactloop/loggers"
	"github.com/rickchristie/reactloop/models"
	"github.com/rickchristie/reactloop/tools"
	"github.com/rickchristie/reactloop/tracing"
)

// Options supplies the process environment to Build. Zero values use the os defaults.
type Options struct {
	Getenv         func(string) string
	Stdout         io.Writer
	Stderr         io.Writer
	TracerProvider trace.TracerProvider

	// Hooks are registered after the hooks the file asks for.
	Hooks []any

	// Model replaces the model the file describes.
	Model reactloop.LanguageModel
}

func (o Options) withDefaults() Options {
	if o.Getenv == nil {
		o.Getenv = os.Getenv
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	return o
}

// Runtime is everything built from a config file.
type Runtime struct {
	Model    reactloop.LanguageModel
	Agent    *agents.Agent
	Registry *tools.Registry
	Executor *executor.Executor

	// Explorer is set when a docstore tool is configured.
	Explorer *docstore.Explorer
}

// Build turns a config file into a runnable executor. Errors are
// *reactloop.ConfigurationError where the file is at fault.
func Build(f *File, opts Options) (*Runtime, error) {
	opts = opts.withDefaults()

	model := opts.Model
	if model == nil {
		var err error
		if model, err = buildModel(f.Model, opts.Getenv); err != nil {
			return nil, err
		}
	}

	explorer, err := buildExplorer(f)
	if err != nil {
		return nil, err
	}
	registry, err := buildTools(f.Tools, explorer)
	if err != nil {
		return nil, err
	}

	agent, err := agents.New(model, agentConfig(f.Agent).WithTools(registry.Descriptors()))
	if err != nil {
		return nil, err
	}

	hookRegistry := hooks.NewRegistry()
	if explorer != nil {
		hookRegistry.Register(explorer)
	}
	switch f.Logging.Format {
	case LogSlog:
		handler := slog.NewTextHandler(opts.Stderr, &slog.HandlerOptions{Level: parseLevel(f.Logging.Level)})
		hookRegistry.Register(loggers.NewSlogHook(slog.New(handler)))
	case LogTranscript:
		hookRegistry.Register(loggers.NewTranscriptHookWithWriter(opts.Stderr))
	}
	if f.Tracing {
		hookRegistry.Register(tracing.NewHook(opts.TracerProvider))
	}
	for _, h := range opts.Hooks {
		hookRegistry.Register(h)
	}

	exec, err := executor.New(agent, registry, executorConfig(f.Executor).WithHooks(hookRegistry))
	if err != nil {
		return nil, err
	}
	return &Runtime{
		Model:    model,
		Agent:    agent,
		Registry: registry,
		Executor: exec,
		Explorer: explorer,
	}, nil
}

func agentConfig(s AgentSection) agents.Config {
	cfg := agents.DefaultConfig(agents.Type(s.Type))
	if s.AIPrefix != "" {
		cfg = cfg.WithAIPrefix(s.AIPrefix)
	}
	if s.Prefix != "" {
		cfg = cfg.WithPrefix(s.Prefix)
	}
	if s.Suffix != "" {
		cfg = cfg.WithSuffix(s.Suffix)
	}
	if s.FormatInstructions != "" {
		cfg = cfg.WithFormatInstructions(s.FormatInstructions)
	}
	if s.OutputKey != "" {
		cfg = cfg.WithOutputKey(s.OutputKey)
	}
	return cfg.WithScratchpadWindow(s.ScratchpadWindow)
}

func executorConfig(s ExecutorSection) executor.Config {
	cfg := executor.DefaultConfig()
	if s.MaxIterations != nil {
		cfg = cfg.WithMaxIterations(*s.MaxIterations)
	}
	if s.EarlyStopping != "" {
		cfg = cfg.WithEarlyStopping(executor.EarlyStoppingMethod(s.EarlyStopping))
	}
	if s.OnParsingError != "" {
		cfg = cfg.WithOnParsingError(executor.ParsingErrorPolicy(s.OnParsingError))
	}
	return cfg.
		WithMaxWallClock(time.Duration(s.MaxWallClock)).
		WithAsyncTools(s.AsyncTools)
}

func buildModel(s ModelSection, getenv func(string) string) (reactloop.LanguageModel, error) {
	token := ""
	if s.APIKeyEnv != "" {
		token = getenv(s.APIKeyEnv)
		if token == "" && s.Provider != ProviderScripted {
			return nil, reactloop.NewConfigurationError("model", "environment variable %s is empty", s.APIKeyEnv)
		}
	}

	var model reactloop.LanguageModel
	switch s.Provider {
	case ProviderScripted:
		if len(s.Script) == 0 {
			return nil, reactloop.NewConfigurationError("model", "scripted provider needs a script")
		}
		model = models.NewScripted(s.Script...)
	case ProviderOpenAI, ProviderGitHub:
		var (
			lcg *models.LCG
			err error
		)
		if s.Provider == ProviderGitHub {
			lcg, err = models.NewGitHubModel(s.Name, token)
		} else {
			lcg, err = models.NewOpenAICompatible(s.BaseURL, s.Name, token)
		}
		if err != nil {
			return nil, &reactloop.ConfigurationError{Component: "model", Err: err}
		}
		if s.Temperature != nil {
			lcg.WithCallOptions(llms.WithTemperature(*s.Temperature))
		}
		model = lcg
	default:
		return nil, reactloop.NewConfigurationError("model", "unknown provider %q", s.Provider)
	}

	if s.Retry != nil {
		policy := models.DefaultRetryPolicy()
		policy.MaxRetries = s.Retry.MaxRetries
		if s.Retry.BaseDelay > 0 {
			policy.BaseDelay = time.Duration(s.Retry.BaseDelay)
		}
		if s.Retry.MaxDelay > 0 {
			policy.MaxDelay = time.Duration(s.Retry.MaxDelay)
		}
		model = models.NewRetrying(model, policy)
	}
	if s.RateLimit != nil {
		model = models.NewRateLimited(model, s.RateLimit.PerSecond, s.RateLimit.Burst)
	}
	return model, nil
}

func buildExplorer(f *File) (*docstore.Explorer, error) {
	needed := false
	for _, t := range f.Tools {
		if t.Kind == KindDocstoreSearch || t.Kind == KindDocstoreLookup {
			needed = true
		}
	}
	if !needed {
		return nil, nil
	}
	if f.Docstore == nil {
		return nil, reactloop.NewConfigurationError("docstore", "docstore tools need a docstore section")
	}

	store, err := loadStore(f.Docstore)
	if err != nil {
		return nil, &reactloop.ConfigurationError{Component: "docstore", Err: err}
	}
	return docstore.NewExplorer(store), nil
}

func loadStore(cfg *DocstoreConfig) (*docstore.InMemory, error) {
	store, err := docstore.NewInMemory()
	if err != nil {
		return nil, err
	}
	if cfg.Path != "" {
		file, err := os.Open(cfg.Path)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		if store, err = docstore.LoadYAML(file); err != nil {
			return nil, fmt.Errorf("%s: %w", cfg.Path, err)
		}
	}
	for _, d := range cfg.Documents {
		if err := store.Add(docstore.Document{ID: d.ID, Content: d.Content}); err != nil {
			return nil, err
		}
	}
	return store, nil
}

func buildTools(sections []ToolSection, explorer *docstore.Explorer) (*tools.Registry, error) {
	registry, err := tools.NewRegistry()
	if err != nil {
		return nil, err
	}
	for _, s := range sections {
		var tool reactloop.Tool
		switch s.Kind {
		case KindDocstoreSearch:
			tool = reactloop.AsyncToolFunc(explorer.Search)
		case KindDocstoreLookup:
			tool = reactloop.AsyncToolFunc(explorer.Lookup)
		case KindEcho:
			tool = reactloop.AsyncToolFunc(echo)
		case KindStatic:
			tool = reactloop.AsyncToolFunc(static(s.Response))
		default:
			return nil, reactloop.NewConfigurationError("tools", "tool %q has unknown kind %q", s.Name, s.Kind)
		}

		desc := reactloop.ToolDescriptor{
			Name:            s.Name,
			Description:     s.Description,
			ReturnDirect:    s.ReturnDirect,
			PropagateErrors: s.PropagateErrors,
		}
		if err := registry.Register(desc, tool); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

func echo(_ context.Context, input string) (string, error) {
	return input, nil
}

func static(response string) func(context.Context, string) (string, error) {
	return func(context.Context, string) (string, error) {
		return response, nil
	}
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
