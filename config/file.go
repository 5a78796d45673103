// Package config loads agent config files and builds a ready-to-run executor from them.
//
// A config file is YAML (or JSON, which is valid YAML):
//
//	agent:
//	  type: zero-shot-react-description
//	model:
//	  provider: openai
//	  name: gpt-4o-mini
//	  api_key_env: OPENAI_API_KEY
//	executor:
//	  max_iterations: 8
//	  early_stopping: generate
//	tools:
//	  - name: Search
//	    kind: docstore_search
//	    description: Search the knowledge base.
//	docstore:
//	  path: docs.yaml
//
// Files are checked against Schema before they are decoded.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Model providers.
const (
	ProviderOpenAI   = "openai"
	ProviderGitHub   = "github"
	ProviderScripted = "scripted"
)

// Tool kinds.
const (
	KindDocstoreSearch = "docstore_search"
	KindDocstoreLookup = "docstore_lookup"
	KindEcho           = "echo"
	KindStatic         = "static"
)

// Log formats.
const (
	LogNone       = "none"
	LogSlog       = "slog"
	LogTranscript = "transcript"
)

// Duration is a time.Duration written as a Go duration string ("30s", "2m").
type Duration time.Duration

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := time.ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: invalid duration %q: %w", node.Line, node.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// File is an agent config file.
type File struct {
	Agent    AgentSection    `yaml:"agent"`
	Model    ModelSection    `yaml:"model"`
	Executor ExecutorSection `yaml:"executor,omitempty"`
	Tools    []ToolSection   `yaml:"tools,omitempty"`
	Docstore *DocstoreConfig `yaml:"docstore,omitempty"`
	Logging  LoggingSection  `yaml:"logging,omitempty"`
	Tracing  bool            `yaml:"tracing,omitempty"`
}

// AgentSection selects a prebuilt agent type and overrides its prompt.
type AgentSection struct {
	Type               string `yaml:"type"`
	Prefix             string `yaml:"prefix,omitempty"`
	Suffix             string `yaml:"suffix,omitempty"`
	FormatInstructions string `yaml:"format_instructions,omitempty"`
	OutputKey          string `yaml:"output_key,omitempty"`
	AIPrefix           string `yaml:"ai_prefix,omitempty"`
	ScratchpadWindow   int    `yaml:"scratchpad_window,omitempty"`
}

// ModelSection configures the language model and its wrappers.
type ModelSection struct {
	Provider string `yaml:"provider"`
	Name     string `yaml:"name,omitempty"`
	BaseURL  string `yaml:"base_url,omitempty"`

	// APIKeyEnv names the environment variable holding the API token.
	APIKeyEnv   string   `yaml:"api_key_env,omitempty"`
	Temperature *float64 `yaml:"temperature,omitempty"`

	// Script holds the completions of the scripted provider.
	Script []string `yaml:"script,omitempty"`

	Retry     *RetrySection     `yaml:"retry,omitempty"`
	RateLimit *RateLimitSection `yaml:"rate_limit,omitempty"`
}

// RetrySection enables retries with exponential backoff.
type RetrySection struct {
	MaxRetries int      `yaml:"max_retries"`
	BaseDelay  Duration `yaml:"base_delay,omitempty"`
	MaxDelay   Duration `yaml:"max_delay,omitempty"`
}

// RateLimitSection throttles model calls.
type RateLimitSection struct {
	PerSecond float64 `yaml:"per_second"`
	Burst     int     `yaml:"burst,omitempty"`
}

// ExecutorSection mirrors executor.Config.
type ExecutorSection struct {
	MaxIterations  *int     `yaml:"max_iterations,omitempty"`
	MaxWallClock   Duration `yaml:"max_wall_clock,omitempty"`
	EarlyStopping  string   `yaml:"early_stopping,omitempty"`
	OnParsingError string   `yaml:"on_parsing_error,omitempty"`
	AsyncTools     bool     `yaml:"async_tools,omitempty"`
}

// ToolSection declares one built-in tool.
type ToolSection struct {
	Name            string `yaml:"name"`
	Kind            string `yaml:"kind"`
	Description     string `yaml:"description,omitempty"`
	ReturnDirect    bool   `yaml:"return_direct,omitempty"`
	PropagateErrors bool   `yaml:"propagate_errors,omitempty"`

	// Response is the output of a static tool.
	Response string `yaml:"response,omitempty"`
}

// DocstoreConfig points at a YAML document list, or inlines the documents.
type DocstoreConfig struct {
	Path      string           `yaml:"path,omitempty"`
	Documents []DocumentConfig `yaml:"documents,omitempty"`
}

// DocumentConfig is an inline docstore document.
type DocumentConfig struct {
	ID      string `yaml:"id"`
	Content string `yaml:"content"`
}

// LoggingSection selects the run logger.
type LoggingSection struct {
	Format string `yaml:"format,omitempty"`
	Level  string `yaml:"level,omitempty"`
}

// Load reads and validates a config file. Relative docstore paths are resolved against
// the file's directory.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if f.Docstore != nil && f.Docstore.Path != "" && !filepath.IsAbs(f.Docstore.Path) {
		f.Docstore.Path = filepath.Join(filepath.Dir(path), f.Docstore.Path)
	}
	return f, nil
}

// Parse validates data against Schema and decodes it.
func Parse(data []byte) (*File, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if doc == nil {
		return nil, errors.New("config is empty")
	}
	if err := Schema().Validate(doc); err != nil {
		return nil, err
	}

	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &f, nil
}

// Marshal encodes f as YAML.
func (f *File) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes f to path as YAML.
func (f *File) Save(path string) error {
	data, err := f.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
