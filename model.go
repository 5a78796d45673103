package reactloop

import "context"

// LanguageModel is the port through which agents reach a completion model.
//
// Generate returns the completion for prompt. Implementations should stop generating at the
// first occurrence of any stop sequence. Errors are returned to the caller unchanged; retry
// and timeouts belong to the implementation, not to agents.
type LanguageModel interface {
	Generate(ctx context.Context, prompt string, stop []string) (string, error)
}

// LanguageModelFunc adapts a function to the LanguageModel interface.
type LanguageModelFunc func(ctx context.Context, prompt string, stop []string) (string, error)

// Generate calls f.
func (f LanguageModelFunc) Generate(ctx context.Context, prompt string, stop []string) (string, error) {
	return f(ctx, prompt, stop)
}

// OutputParser turns a raw completion into a [Decision].
//
// Parsers are stateless: the result depends only on the parser's configuration and text.
// Parse fails with a *ParseError when text matches neither the finish grammar nor the
// action grammar.
type OutputParser interface {
	Parse(text string) (Decision, error)

	// FormatInstructions describes the grammar the model must follow. It is rendered into
	// the prompt.
	FormatInstructions() string
}
