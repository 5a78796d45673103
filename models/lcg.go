package models

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/tmc/langchaingo/llms"

	"github.com/rickchristie/reactloop"
)

// ErrNoChoices is returned when the provider answers without any choice.
var ErrNoChoices = errors.New("model returned no choices")

// Usage is the cumulative token usage of a model.
type Usage struct {
	Calls        int
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// LCG adapts a langchaingo llms.Model to reactloop.LanguageModel.
//
// The prompt is sent as a single human message and the stop sequences travel as
// llms.WithStopWords. Token counts reported by the provider are normalized and accumulated,
// see Usage.
//
// Example:
//
//	llm, _ := openai.New(openai.WithToken(apiKey))
//	model := models.NewLCG(llm).WithModelName("gpt-4o-mini")
type LCG struct {
	model     llms.Model
	modelName string
	options   []llms.CallOption

	mu    sync.Mutex
	usage Usage
}

// NewLCG wraps an llms.Model.
func NewLCG(model llms.Model) *LCG {
	return &LCG{model: model}
}

// WithModelName sets the name reported by Name.
func (m *LCG) WithModelName(name string) *LCG {
	m.modelName = name
	return m
}

// WithCallOptions adds options applied to every call, before the stop words.
func (m *LCG) WithCallOptions(opts ...llms.CallOption) *LCG {
	m.options = append(m.options, opts...)
	return m
}

// Name returns the model name, or "" when unset.
func (m *LCG) Name() string {
	return m.modelName
}

// Unwrap returns the underlying llms.Model.
func (m *LCG) Unwrap() llms.Model {
	return m.model
}

// Usage returns the token usage accumulated so far.
func (m *LCG) Usage() Usage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.usage
}

// Generate implements reactloop.LanguageModel.
func (m *LCG) Generate(ctx context.Context, prompt string, stop []string) (string, error) {
	opts := make([]llms.CallOption, 0, len(m.options)+1)
	opts = append(opts, m.options...)
	if len(stop) > 0 {
		opts = append(opts, llms.WithStopWords(stop))
	}

	messages := []llms.MessageContent{llms.TextParts(llms.ChatMessageTypeHuman, prompt)}
	resp, err := m.model.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s: %w", m.describe(), ErrNoChoices)
	}

	choice := resp.Choices[0]
	m.record(choice.GenerationInfo)
	return choice.Content, nil
}

func (m *LCG) describe() string {
	if m.modelName == "" {
		return "langchaingo model"
	}
	return m.modelName
}

func (m *LCG) record(info map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.usage.Calls++
	if info == nil {
		return
	}
	in := extractInputTokens(info)
	out := extractOutputTokens(info)
	m.usage.InputTokens += in
	m.usage.OutputTokens += out
	m.usage.TotalTokens += extractTotalTokens(info, in, out)
}

// extractInputTokens handles the key names used by different providers.
func extractInputTokens(info map[string]any) int {
	// OpenAI / Ollama / Google (compat)
	if v := getIntFromMap(info, "PromptTokens"); v > 0 {
		return v
	}
	// Anthropic
	if v := getIntFromMap(info, "InputTokens"); v > 0 {
		return v
	}
	// Google / Bedrock
	return getIntFromMap(info, "input_tokens")
}

func extractOutputTokens(info map[string]any) int {
	if v := getIntFromMap(info, "CompletionTokens"); v > 0 {
		return v
	}
	if v := getIntFromMap(info, "OutputTokens"); v > 0 {
		return v
	}
	return getIntFromMap(info, "output_tokens")
}

// extractTotalTokens falls back to input + output when the provider reports no total.
func extractTotalTokens(info map[string]any, input, output int) int {
	if v := getIntFromMap(info, "TotalTokens"); v > 0 {
		return v
	}
	if v := getIntFromMap(info, "total_tokens"); v > 0 {
		return v
	}
	return input + output
}

func getIntFromMap(m map[string]any, key string) int {
	switch n := m[key].(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float64:
		return int(n)
	case float32:
		return int(n)
	default:
		return 0
	}
}

var _ reactloop.LanguageModel = (*LCG)(nil)
