package parser

import (
	"regexp"
	"strings"

	"github.com/rickchristie/reactloop"
)

// DefaultAIPrefix marks the final answer of a conversational completion.
const DefaultAIPrefix = "AI"

var conversationalActionRe = regexp.MustCompile(`Action: (.*?)[\n]*Action Input: (.*)`)

const conversationalFormatInstructions = "To use a tool, please use the following format:\n\n" +
	"```\n" +
	"Thought: Do I need to use a tool? Yes\n" +
	"Action: the action to take, should be one of [{{.ToolNames}}]\n" +
	"Action Input: the input to the action\n" +
	"Observation: the result of the action\n" +
	"```\n\n" +
	"When you have a response to say to the Human, or if you do not need to use a tool, you MUST use the format:\n\n" +
	"```\n" +
	"Thought: Do I need to use a tool? No\n" +
	"{{.AIPrefix}}: [your response here]\n" +
	"```"

// Conversational parses chat-style completions. If the completion contains "<prefix>:",
// the text after its last occurrence is the answer. Otherwise an "Action:"/"Action Input:"
// pair is required.
type Conversational struct {
	aiPrefix string
}

// NewConversational creates a Conversational parser using DefaultAIPrefix.
func NewConversational() *Conversational {
	return &Conversational{aiPrefix: DefaultAIPrefix}
}

// WithAIPrefix sets the answer marker prefix (without the colon).
func (p *Conversational) WithAIPrefix(prefix string) *Conversational {
	p.aiPrefix = prefix
	return p
}

// AIPrefix returns the configured answer marker prefix.
func (p *Conversational) AIPrefix() string {
	return p.aiPrefix
}

// Parse implements reactloop.OutputParser.
func (p *Conversational) Parse(text string) (reactloop.Decision, error) {
	marker := p.aiPrefix + ":"
	if idx := strings.LastIndex(text, marker); idx >= 0 {
		answer := strings.TrimSpace(text[idx+len(marker):])
		return reactloop.NewFinish(reactloop.DefaultOutputKey, answer, text), nil
	}

	m := conversationalActionRe.FindStringSubmatch(text)
	if m == nil || strings.TrimSpace(m[1]) == "" {
		return nil, reactloop.NewParseError(text, "expected "+marker+" or Action/Action Input")
	}
	return reactloop.Action{
		Tool:      strings.TrimSpace(m[1]),
		ToolInput: cleanToolInput(m[2]),
		Log:       text,
	}, nil
}

// FormatInstructions implements reactloop.OutputParser.
func (p *Conversational) FormatInstructions() string {
	return strings.ReplaceAll(conversationalFormatInstructions, "{{.AIPrefix}}", p.aiPrefix)
}

var _ reactloop.OutputParser = (*Conversational)(nil)
